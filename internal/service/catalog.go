package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"playlist_syncer/internal/domain"
	"playlist_syncer/internal/filter"
)

var (
	// ErrBusy is returned by item and filter operations while a parse or
	// create run is in progress.
	ErrBusy = errors.New("sync in progress")

	ErrInvalidFilterType = errors.New("invalid filter type")
)

// CatalogService is the query and mutation surface over stored items,
// filters and settings.
type CatalogService struct {
	channels    ChannelStore
	movies      MovieStore
	episodes    EpisodeStore
	filters     FilterStore
	settings    SettingsStore
	coordinator Coordinator
	logger      *slog.Logger
}

func NewCatalogService(
	channels ChannelStore,
	movies MovieStore,
	episodes EpisodeStore,
	filters FilterStore,
	settings SettingsStore,
	coordinator Coordinator,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		channels:    channels,
		movies:      movies,
		episodes:    episodes,
		filters:     filters,
		settings:    settings,
		coordinator: coordinator,
		logger:      logger.With("component", "catalog"),
	}
}

func (s *CatalogService) checkIdle() error {
	if s.coordinator.IsBusy() {
		return ErrBusy
	}
	return nil
}

// SearchMovies returns one page of movies whose name contains search, and
// the number of matching movies.
func (s *CatalogService) SearchMovies(ctx context.Context, search string, page, pageSize int, fetchedOnly bool) ([]domain.Movie, int, error) {
	if err := s.checkIdle(); err != nil {
		return nil, 0, err
	}

	q := domain.ItemQuery{Search: search, FetchedOnly: fetchedOnly}
	total, err := s.movies.Count(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	q.Offset, q.Limit = domain.NormalizePage(page, pageSize, total)
	movies, err := s.movies.Search(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("search movies: %w", err)
	}

	return movies, total, nil
}

// SearchSeries works like SearchMovies over shows, which aggregate the
// episodes sharing a series group key.
func (s *CatalogService) SearchSeries(ctx context.Context, search string, page, pageSize int, fetchedOnly bool) ([]domain.Show, int, error) {
	if err := s.checkIdle(); err != nil {
		return nil, 0, err
	}

	q := domain.ItemQuery{Search: search, FetchedOnly: fetchedOnly}
	total, err := s.episodes.CountShows(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count shows: %w", err)
	}

	q.Offset, q.Limit = domain.NormalizePage(page, pageSize, total)
	shows, err := s.episodes.SearchShows(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("search shows: %w", err)
	}

	return shows, total, nil
}

func (s *CatalogService) SearchChannels(ctx context.Context, page, pageSize int) ([]domain.Channel, int, error) {
	if err := s.checkIdle(); err != nil {
		return nil, 0, err
	}

	total, err := s.channels.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count channels: %w", err)
	}

	offset, limit := domain.NormalizePage(page, pageSize, total)
	channels, err := s.channels.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list channels: %w", err)
	}

	return channels, total, nil
}

// SearchFilteredChannels pages through the channels that survive the
// current filter rules. The total is the number of surviving channels.
func (s *CatalogService) SearchFilteredChannels(ctx context.Context, page, pageSize int) ([]domain.Channel, int, error) {
	if err := s.checkIdle(); err != nil {
		return nil, 0, err
	}

	channels, err := s.channels.List(ctx, 0, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("list channels: %w", err)
	}
	rules, err := s.filters.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list filters: %w", err)
	}

	kept := filter.Apply(channels, rules)
	total := len(kept)

	offset, limit := domain.NormalizePage(page, pageSize, total)
	end := total
	if limit > 0 && limit < total-offset {
		end = offset + limit
	}

	return kept[offset:end], total, nil
}

func (s *CatalogService) SetMovieFetched(ctx context.Context, id string, fetched bool) error {
	if err := s.checkIdle(); err != nil {
		return err
	}

	if err := s.movies.SetFetched(ctx, id, fetched); err != nil {
		return fmt.Errorf("set movie fetched: %w", err)
	}

	s.logger.Info("movie fetch flag changed", "id", id, "fetched", fetched)
	return nil
}

// SetSeriesFetched flags every episode of the show identified by
// groupTitle. It returns the number of episodes changed.
func (s *CatalogService) SetSeriesFetched(ctx context.Context, groupTitle string, fetched bool) (int64, error) {
	if err := s.checkIdle(); err != nil {
		return 0, err
	}

	n, err := s.episodes.SetShowFetched(ctx, groupTitle, fetched)
	if err != nil {
		return 0, fmt.Errorf("set series fetched: %w", err)
	}

	s.logger.Info("series fetch flag changed", "group_title", groupTitle, "fetched", fetched, "episodes", n)
	return n, nil
}

func (s *CatalogService) ListFilters(ctx context.Context) ([]domain.Filter, int, error) {
	if err := s.checkIdle(); err != nil {
		return nil, 0, err
	}

	filters, err := s.filters.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list filters: %w", err)
	}

	return filters, len(filters), nil
}

func (s *CatalogService) AddFilter(ctx context.Context, text string, filterType domain.FilterType) (*domain.Filter, error) {
	if err := s.checkIdle(); err != nil {
		return nil, err
	}
	if !filterType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilterType, filterType)
	}

	id, err := s.filters.Insert(ctx, text, filterType)
	if err != nil {
		return nil, fmt.Errorf("insert filter: %w", err)
	}

	return &domain.Filter{ID: id, Text: text, Type: filterType}, nil
}

func (s *CatalogService) RemoveFilter(ctx context.Context, id int64) error {
	if err := s.checkIdle(); err != nil {
		return err
	}

	if err := s.filters.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove filter: %w", err)
	}
	return nil
}

// GetSettings is available while a run is in progress.
func (s *CatalogService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings stores the playlist url and output paths and moves the
// next scheduled fetch. It is available while a run is in progress.
func (s *CatalogService) UpdateSettings(ctx context.Context, settings *domain.Settings) error {
	if err := s.settings.Update(ctx, settings); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	s.coordinator.Reschedule()
	s.logger.Info("settings updated")
	return nil
}
