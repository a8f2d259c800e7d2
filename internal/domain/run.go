package domain

import "time"

// Phase names one kind of background run.
type Phase string

const (
	PhaseParse  Phase = "parse"
	PhaseCreate Phase = "create"
)

// RunStats holds statistics about a parse or create run.
type RunStats struct {
	Phase    Phase         `json:"phase"`
	Total    int           `json:"total"`
	New      map[Kind]int  `json:"new,omitempty"`
	Updated  map[Kind]int  `json:"updated,omitempty"`
	Written  int           `json:"written"`
	Errors   int           `json:"errors"`
	Unparsed int           `json:"unparsed"`
	Duration time.Duration `json:"duration"`
}

func NewRunStats(phase Phase) *RunStats {
	return &RunStats{
		Phase:   phase,
		New:     make(map[Kind]int),
		Updated: make(map[Kind]int),
	}
}

// RunEvent is emitted once a background run finishes.
type RunEvent struct {
	Phase     Phase     `json:"phase"`
	Success   bool      `json:"success"`
	Status    string    `json:"status"`
	Stats     *RunStats `json:"stats,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressFunc receives human-readable status updates from a running phase.
type ProgressFunc func(status string)
