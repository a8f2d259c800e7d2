package domain

type FilterType string

const (
	FilterIncludes    FilterType = "includes"
	FilterNotIncludes FilterType = "not-includes"
	FilterStartsWith  FilterType = "starts-with"
)

// Valid reports whether t is one of the known filter types.
func (t FilterType) Valid() bool {
	switch t {
	case FilterIncludes, FilterNotIncludes, FilterStartsWith:
		return true
	}
	return false
}

type Filter struct {
	ID   int64      `db:"filter_id" json:"filterId"`
	Text string     `db:"filter_text" json:"filterText"`
	Type FilterType `db:"filter_type" json:"filterType"`
}
