// Package metrics exposes Prometheus collectors for parse and create runs.
// All collectors are registered against the default Prometheus registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	ActionInsert = "insert"
	ActionUpdate = "update"
)

var (
	// RunsTotal counts finished runs per phase and outcome.
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playlist_syncer_runs_total",
		Help: "Total number of finished parse and create runs.",
	}, []string{"phase", "result"})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "playlist_syncer_run_duration_seconds",
		Help:    "Duration of parse and create runs in seconds.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"phase"})

	// ItemsUpserted counts playlist entries written to the store.
	ItemsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playlist_syncer_items_upserted_total",
		Help: "Total number of playlist entries inserted or updated.",
	}, []string{"kind", "action"})

	ItemErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playlist_syncer_item_errors_total",
		Help: "Total number of playlist entries skipped because they could not be stored.",
	}, []string{"kind"})

	// EpisodesUnparsed counts series entries stored without season and
	// episode numbers.
	EpisodesUnparsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playlist_syncer_episodes_unparsed_total",
		Help: "Total number of series entries whose season and episode could not be parsed.",
	})

	FilesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playlist_syncer_files_written_total",
		Help: "Total number of files written by create runs.",
	}, []string{"phase"})

	// Busy is 1 while a parse or create run is active.
	Busy = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "playlist_syncer_busy",
		Help: "Whether a parse or create run is in progress (1) or not (0).",
	})
)

// RecordRun records the outcome and duration of one run.
func RecordRun(phase string, err error, elapsed time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	RunsTotal.WithLabelValues(phase, result).Inc()
	RunDuration.WithLabelValues(phase).Observe(elapsed.Seconds())
}

// RecordUpsert increments the upsert counter for one entry.
func RecordUpsert(kind string, inserted bool) {
	action := ActionUpdate
	if inserted {
		action = ActionInsert
	}
	ItemsUpserted.WithLabelValues(kind, action).Inc()
}

// SetBusy updates the busy gauge.
func SetBusy(busy bool) {
	if busy {
		Busy.Set(1)
		return
	}
	Busy.Set(0)
}
