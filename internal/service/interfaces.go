package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"playlist_syncer/internal/domain"
)

type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Upsert methods report whether the row was newly inserted.

type ChannelStore interface {
	Upsert(ctx context.Context, channel *domain.Channel) (bool, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]domain.Channel, error)
}

type MovieStore interface {
	Upsert(ctx context.Context, movie *domain.Movie) (bool, error)
	Count(ctx context.Context, q domain.ItemQuery) (int, error)
	Search(ctx context.Context, q domain.ItemQuery) ([]domain.Movie, error)
	ListFetched(ctx context.Context) ([]domain.Movie, error)
	SetFetched(ctx context.Context, id string, fetched bool) error
}

type EpisodeStore interface {
	Upsert(ctx context.Context, episode *domain.Episode) (bool, error)
	CountShows(ctx context.Context, q domain.ItemQuery) (int, error)
	SearchShows(ctx context.Context, q domain.ItemQuery) ([]domain.Show, error)
	ListFetched(ctx context.Context) ([]domain.Episode, error)
	SetShowFetched(ctx context.Context, groupTitle string, fetched bool) (int64, error)
}

type FilterStore interface {
	List(ctx context.Context) ([]domain.Filter, error)
	Insert(ctx context.Context, text string, filterType domain.FilterType) (int64, error)
	Remove(ctx context.Context, id int64) error
}

type SettingsStore interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, settings *domain.Settings) error
	MarkFetched(ctx context.Context, at time.Time) error
}

// Coordinator is the part of the scheduler the catalog depends on.
type Coordinator interface {
	IsBusy() bool
	Reschedule()
}
