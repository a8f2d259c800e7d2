package cached

import (
	"context"
	"fmt"

	"playlist_syncer/internal/domain"
	"playlist_syncer/internal/service"
)

type ChannelStore struct {
	inner service.ChannelStore
	cache *Cache
}

func NewChannelStore(inner service.ChannelStore, c *Cache) *ChannelStore {
	return &ChannelStore{inner: inner, cache: c}
}

func (s *ChannelStore) Upsert(ctx context.Context, ch *domain.Channel) (bool, error) {
	inserted, err := s.inner.Upsert(ctx, ch)
	s.cache.markDirty()
	return inserted, err
}

func (s *ChannelStore) Count(ctx context.Context) (int, error) {
	s.cache.flush(ctx)
	return readThrough(ctx, s.cache, itemsPrefix+"channels:count", func() (int, error) {
		return s.inner.Count(ctx)
	})
}

func (s *ChannelStore) List(ctx context.Context, offset, limit int) ([]domain.Channel, error) {
	s.cache.flush(ctx)
	key := fmt.Sprintf("%schannels:list:%d:%d", itemsPrefix, offset, limit)
	return readThrough(ctx, s.cache, key, func() ([]domain.Channel, error) {
		return s.inner.List(ctx, offset, limit)
	})
}

type MovieStore struct {
	inner service.MovieStore
	cache *Cache
}

func NewMovieStore(inner service.MovieStore, c *Cache) *MovieStore {
	return &MovieStore{inner: inner, cache: c}
}

func (s *MovieStore) Upsert(ctx context.Context, m *domain.Movie) (bool, error) {
	inserted, err := s.inner.Upsert(ctx, m)
	s.cache.markDirty()
	return inserted, err
}

func (s *MovieStore) Count(ctx context.Context, q domain.ItemQuery) (int, error) {
	s.cache.flush(ctx)
	return readThrough(ctx, s.cache, queryKey(itemsPrefix+"movies:count:", q), func() (int, error) {
		return s.inner.Count(ctx, q)
	})
}

func (s *MovieStore) Search(ctx context.Context, q domain.ItemQuery) ([]domain.Movie, error) {
	s.cache.flush(ctx)
	return readThrough(ctx, s.cache, queryKey(itemsPrefix+"movies:search:", q), func() ([]domain.Movie, error) {
		return s.inner.Search(ctx, q)
	})
}

// ListFetched always reads the store because its result is written to disk.
func (s *MovieStore) ListFetched(ctx context.Context) ([]domain.Movie, error) {
	return s.inner.ListFetched(ctx)
}

func (s *MovieStore) SetFetched(ctx context.Context, id string, fetched bool) error {
	if err := s.inner.SetFetched(ctx, id, fetched); err != nil {
		return err
	}
	s.cache.invalidate(ctx, itemsPrefix+"movies:*")
	return nil
}

// EpisodeStore caches show listings. ListFetched always reads the store
// because its result is written to disk.
type EpisodeStore struct {
	inner service.EpisodeStore
	cache *Cache
}

func NewEpisodeStore(inner service.EpisodeStore, c *Cache) *EpisodeStore {
	return &EpisodeStore{inner: inner, cache: c}
}

func (s *EpisodeStore) Upsert(ctx context.Context, e *domain.Episode) (bool, error) {
	inserted, err := s.inner.Upsert(ctx, e)
	s.cache.markDirty()
	return inserted, err
}

func (s *EpisodeStore) CountShows(ctx context.Context, q domain.ItemQuery) (int, error) {
	s.cache.flush(ctx)
	return readThrough(ctx, s.cache, queryKey(itemsPrefix+"shows:count:", q), func() (int, error) {
		return s.inner.CountShows(ctx, q)
	})
}

func (s *EpisodeStore) SearchShows(ctx context.Context, q domain.ItemQuery) ([]domain.Show, error) {
	s.cache.flush(ctx)
	return readThrough(ctx, s.cache, queryKey(itemsPrefix+"shows:search:", q), func() ([]domain.Show, error) {
		return s.inner.SearchShows(ctx, q)
	})
}

func (s *EpisodeStore) ListFetched(ctx context.Context) ([]domain.Episode, error) {
	return s.inner.ListFetched(ctx)
}

func (s *EpisodeStore) SetShowFetched(ctx context.Context, groupTitle string, fetched bool) (int64, error) {
	n, err := s.inner.SetShowFetched(ctx, groupTitle, fetched)
	if err != nil {
		return n, err
	}
	s.cache.invalidate(ctx, itemsPrefix+"shows:*")
	return n, nil
}

type FilterStore struct {
	inner service.FilterStore
	cache *Cache
}

func NewFilterStore(inner service.FilterStore, c *Cache) *FilterStore {
	return &FilterStore{inner: inner, cache: c}
}

func (s *FilterStore) List(ctx context.Context) ([]domain.Filter, error) {
	return readThrough(ctx, s.cache, filtersKey, func() ([]domain.Filter, error) {
		return s.inner.List(ctx)
	})
}

func (s *FilterStore) Insert(ctx context.Context, text string, filterType domain.FilterType) (int64, error) {
	id, err := s.inner.Insert(ctx, text, filterType)
	if err != nil {
		return 0, err
	}
	s.cache.drop(ctx, filtersKey)
	return id, nil
}

func (s *FilterStore) Remove(ctx context.Context, id int64) error {
	if err := s.inner.Remove(ctx, id); err != nil {
		return err
	}
	s.cache.drop(ctx, filtersKey)
	return nil
}
