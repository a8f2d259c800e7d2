package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"playlist_syncer/internal/domain"
	"playlist_syncer/internal/metrics"
	"playlist_syncer/internal/playlist"
)

// IngestService downloads a playlist and reconciles every entry with the
// store, one upsert per entry.
type IngestService struct {
	source   Source
	channels ChannelStore
	movies   MovieStore
	episodes EpisodeStore
	settings SettingsStore
	logger   *slog.Logger
	now      func() time.Time
}

func NewIngestService(
	source Source,
	channels ChannelStore,
	movies MovieStore,
	episodes EpisodeStore,
	settings SettingsStore,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		source:   source,
		channels: channels,
		movies:   movies,
		episodes: episodes,
		settings: settings,
		logger:   logger.With("component", "ingest"),
		now:      time.Now,
	}
}

// Run fetches url, parses it and upserts every classified entry. A fetch or
// format error aborts the run before anything is written. A failed upsert is
// logged, counted and skipped.
func (s *IngestService) Run(ctx context.Context, url string, report domain.ProgressFunc) (*domain.RunStats, error) {
	startTime := s.now()
	stats := domain.NewRunStats(domain.PhaseParse)

	s.logger.Info("starting parse")

	report("fetching file from url...")
	data, err := s.source.Fetch(ctx, url)
	if err != nil {
		return stats, fmt.Errorf("fetch playlist: %w", err)
	}

	report("starting file parsing...")
	doc, err := playlist.Parse(data)
	if err != nil {
		return stats, fmt.Errorf("parse playlist: %w", err)
	}

	stats.Total = doc.Len()
	s.logger.Info("parsed playlist", "records", stats.Total, "bytes", len(data))

	for i, rec := range doc.Records {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("parse interrupted at item %d: %w", i, err)
		}

		item := playlist.Classify(rec)
		report(fmt.Sprintf("parsing item %d/%d (%s)...", i+1, stats.Total, item.Name()))

		if item.Kind == domain.KindSeries && item.Episode.ParseFailed() {
			stats.Unparsed++
			metrics.EpisodesUnparsed.Inc()
			s.logger.Warn("episode without season and episode numbers",
				"name", item.Name(),
				"id", item.ID(),
			)
		}

		isNew, err := s.upsert(ctx, item)
		if err != nil {
			stats.Errors++
			metrics.ItemErrors.WithLabelValues(string(item.Kind)).Inc()
			s.logger.Warn("failed to store item",
				"kind", item.Kind,
				"id", item.ID(),
				"error", err,
			)
			continue
		}

		metrics.RecordUpsert(string(item.Kind), isNew)
		if isNew {
			stats.New[item.Kind]++
		} else {
			stats.Updated[item.Kind]++
		}
	}

	if err := s.settings.MarkFetched(ctx, s.now()); err != nil {
		return stats, fmt.Errorf("mark fetched: %w", err)
	}

	stats.Duration = s.now().Sub(startTime)

	s.logger.Info("parse completed",
		"total", stats.Total,
		"new", stats.New,
		"updated", stats.Updated,
		"errors", stats.Errors,
		"unparsed", stats.Unparsed,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *IngestService) upsert(ctx context.Context, item playlist.Item) (bool, error) {
	switch item.Kind {
	case domain.KindMovie:
		return s.movies.Upsert(ctx, item.Movie)
	case domain.KindSeries:
		return s.episodes.Upsert(ctx, item.Episode)
	default:
		return s.channels.Upsert(ctx, item.Channel)
	}
}
