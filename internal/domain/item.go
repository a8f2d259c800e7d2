package domain

// Kind identifies which table a playlist entry belongs to.
type Kind string

const (
	KindChannel Kind = "channel"
	KindMovie   Kind = "movie"
	KindSeries  Kind = "series"
)

// Item holds the fields every playlist entry carries.
type Item struct {
	ID         string `db:"id" json:"id"`
	XuiID      string `db:"xui_id" json:"xuiId"`
	TvgID      string `db:"tvg_id" json:"tvgId"`
	TvgName    string `db:"tvg_name" json:"tvgName"`
	TvgLogo    string `db:"tvg_logo" json:"tvgLogo"`
	GroupTitle string `db:"group_title" json:"groupTitle"`
	Name       string `db:"name" json:"name"`
	URL        string `db:"url" json:"url"`
}

type Channel struct {
	Item
}

type Movie struct {
	Item
	Fetched bool `db:"fetched" json:"fetched"`
}

// Episode is a single series entry. GroupTitle holds the extracted
// series name rather than the playlist group.
type Episode struct {
	Item
	Fetched bool `db:"fetched" json:"fetched"`
	Season  int  `db:"season" json:"season"`
	Episode int  `db:"episode" json:"episode"`
}

// ParseFailed reports whether season/episode extraction failed for this entry.
func (e *Episode) ParseFailed() bool {
	return e.Season == 0 && e.Episode == 0
}

// Show aggregates the episodes sharing one series group key.
type Show struct {
	Name     string `db:"name" json:"name"`
	TvgLogo  string `db:"tvg_logo" json:"tvgLogo"`
	Episodes int    `db:"episodes" json:"episodes"`
	Seasons  int    `db:"seasons" json:"seasons"`
	Fetched  bool   `db:"fetched" json:"fetched"`
}
