package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"playlist_syncer/internal/domain"
	"playlist_syncer/internal/service/mocks"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	channels    *mocks.MockChannelStore
	movies      *mocks.MockMovieStore
	episodes    *mocks.MockEpisodeStore
	filters     *mocks.MockFilterStore
	settings    *mocks.MockSettingsStore
	coordinator *mocks.MockCoordinator

	service *CatalogService
}

func (s *CatalogServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.channels = mocks.NewMockChannelStore(s.ctrl)
	s.movies = mocks.NewMockMovieStore(s.ctrl)
	s.episodes = mocks.NewMockEpisodeStore(s.ctrl)
	s.filters = mocks.NewMockFilterStore(s.ctrl)
	s.settings = mocks.NewMockSettingsStore(s.ctrl)
	s.coordinator = mocks.NewMockCoordinator(s.ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewCatalogService(s.channels, s.movies, s.episodes, s.filters, s.settings, s.coordinator, logger)
}

func (s *CatalogServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (s *CatalogServiceTestSuite) idle() {
	s.coordinator.EXPECT().IsBusy().Return(false).AnyTimes()
}

func channelList(names ...string) []domain.Channel {
	out := make([]domain.Channel, len(names))
	for i, n := range names {
		out[i] = domain.Channel{Item: domain.Item{ID: n, Name: n}}
	}
	return out
}

func (s *CatalogServiceTestSuite) TestSearchMovies_Page() {
	s.idle()
	ctx := context.Background()
	want := []domain.Movie{{Item: domain.Item{ID: "alien", Name: "Alien"}}}

	s.movies.EXPECT().Count(ctx, domain.ItemQuery{Search: "ali", FetchedOnly: true}).Return(25, nil)
	s.movies.EXPECT().Search(ctx, domain.ItemQuery{Search: "ali", FetchedOnly: true, Offset: 10, Limit: 10}).Return(want, nil)

	movies, total, err := s.service.SearchMovies(ctx, "ali", 1, 10, true)

	s.NoError(err)
	s.Equal(25, total)
	s.Equal(want, movies)
}

func (s *CatalogServiceTestSuite) TestSearchMovies_PagePastEndResetsToFirst() {
	s.idle()
	ctx := context.Background()

	s.movies.EXPECT().Count(ctx, domain.ItemQuery{}).Return(5, nil)
	s.movies.EXPECT().Search(ctx, domain.ItemQuery{Offset: 0, Limit: 10}).Return(make([]domain.Movie, 5), nil)

	movies, total, err := s.service.SearchMovies(ctx, "", 3, 10, false)

	s.NoError(err)
	s.Equal(5, total)
	s.Len(movies, 5)
}

func (s *CatalogServiceTestSuite) TestSearchMovies_CountError() {
	s.idle()
	s.movies.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))

	_, _, err := s.service.SearchMovies(context.Background(), "", 0, 0, false)

	s.Error(err)
	s.Contains(err.Error(), "count movies")
}

func (s *CatalogServiceTestSuite) TestSearchSeries_ZeroPageSizeReturnsAll() {
	s.idle()
	ctx := context.Background()
	shows := []domain.Show{{Name: "Lost", Episodes: 3, Seasons: 1}}

	s.episodes.EXPECT().CountShows(ctx, domain.ItemQuery{Search: "lo"}).Return(1, nil)
	s.episodes.EXPECT().SearchShows(ctx, domain.ItemQuery{Search: "lo", Limit: 1}).Return(shows, nil)

	got, total, err := s.service.SearchSeries(ctx, "lo", 0, 0, false)

	s.NoError(err)
	s.Equal(1, total)
	s.Equal(shows, got)
}

func (s *CatalogServiceTestSuite) TestSearchChannels() {
	s.idle()
	ctx := context.Background()

	s.channels.EXPECT().Count(ctx).Return(3, nil)
	s.channels.EXPECT().List(ctx, 2, 2).Return(channelList("c"), nil)

	got, total, err := s.service.SearchChannels(ctx, 1, 2)

	s.NoError(err)
	s.Equal(3, total)
	s.Equal(channelList("c"), got)
}

func (s *CatalogServiceTestSuite) TestSearchFilteredChannels_HugePageResetsToFirst() {
	s.idle()
	ctx := context.Background()

	s.channels.EXPECT().List(ctx, 0, 0).Return(channelList("UK: One", "UK: Two"), nil)
	s.filters.EXPECT().List(ctx).Return(nil, nil)

	got, total, err := s.service.SearchFilteredChannels(ctx, math.MaxInt/2+1, 2)

	s.NoError(err)
	s.Equal(2, total)
	s.Equal(channelList("UK: One", "UK: Two"), got)
}

func (s *CatalogServiceTestSuite) TestSearchMovies_HugePageResetsToFirst() {
	s.idle()
	ctx := context.Background()

	s.movies.EXPECT().Count(ctx, domain.ItemQuery{}).Return(2, nil)
	s.movies.EXPECT().Search(ctx, domain.ItemQuery{Offset: 0, Limit: 2}).Return(make([]domain.Movie, 2), nil)

	movies, _, err := s.service.SearchMovies(ctx, "", math.MaxInt/2+1, 2, false)

	s.NoError(err)
	s.Len(movies, 2)
}

func (s *CatalogServiceTestSuite) TestSearchFilteredChannels() {
	s.idle()
	ctx := context.Background()

	s.channels.EXPECT().List(ctx, 0, 0).Return(channelList("UK: One", "UK: Two", "US: Three", "UK: Four"), nil).Times(2)
	s.filters.EXPECT().List(ctx).Return([]domain.Filter{{Text: "UK:", Type: domain.FilterStartsWith}}, nil).Times(2)

	got, total, err := s.service.SearchFilteredChannels(ctx, 1, 2)
	s.NoError(err)
	s.Equal(3, total)
	s.Equal(channelList("UK: Four"), got)

	got, total, err = s.service.SearchFilteredChannels(ctx, 0, 0)
	s.NoError(err)
	s.Equal(3, total)
	s.Equal(channelList("UK: One", "UK: Two", "UK: Four"), got)
}

func (s *CatalogServiceTestSuite) TestSearchFilteredChannels_OnlyExclusionsYieldNothing() {
	s.idle()
	ctx := context.Background()

	s.channels.EXPECT().List(ctx, 0, 0).Return(channelList("24/7 Friends", "UK: One"), nil)
	s.filters.EXPECT().List(ctx).Return([]domain.Filter{{Text: "24/7", Type: domain.FilterNotIncludes}}, nil)

	got, total, err := s.service.SearchFilteredChannels(ctx, 0, 10)

	s.NoError(err)
	s.Equal(0, total)
	s.Empty(got)
}

func (s *CatalogServiceTestSuite) TestSetSeriesFetched_IsBulk() {
	s.idle()
	s.episodes.EXPECT().SetShowFetched(gomock.Any(), "Lost", true).Return(int64(24), nil)

	n, err := s.service.SetSeriesFetched(context.Background(), "Lost", true)

	s.NoError(err)
	s.Equal(int64(24), n)
}

func (s *CatalogServiceTestSuite) TestSetMovieFetched() {
	s.idle()
	s.movies.EXPECT().SetFetched(gomock.Any(), "alien", true).Return(nil)

	s.NoError(s.service.SetMovieFetched(context.Background(), "alien", true))
}

func (s *CatalogServiceTestSuite) TestFilters() {
	s.idle()
	ctx := context.Background()

	s.filters.EXPECT().Insert(ctx, "HD", domain.FilterNotIncludes).Return(int64(7), nil)
	s.filters.EXPECT().List(ctx).Return([]domain.Filter{{ID: 7, Text: "HD", Type: domain.FilterNotIncludes}}, nil)
	s.filters.EXPECT().Remove(ctx, int64(7)).Return(nil)

	f, err := s.service.AddFilter(ctx, "HD", domain.FilterNotIncludes)
	s.NoError(err)
	s.Equal(&domain.Filter{ID: 7, Text: "HD", Type: domain.FilterNotIncludes}, f)

	filters, total, err := s.service.ListFilters(ctx)
	s.NoError(err)
	s.Equal(1, total)
	s.Len(filters, 1)

	s.NoError(s.service.RemoveFilter(ctx, 7))
}

func (s *CatalogServiceTestSuite) TestAddFilter_InvalidType() {
	s.idle()

	_, err := s.service.AddFilter(context.Background(), "HD", domain.FilterType("regex"))

	s.ErrorIs(err, ErrInvalidFilterType)
}

func (s *CatalogServiceTestSuite) TestBusyRefusesItemAndFilterOperations() {
	ctx := context.Background()
	s.coordinator.EXPECT().IsBusy().Return(true).AnyTimes()

	_, _, err := s.service.SearchMovies(ctx, "", 0, 0, false)
	s.ErrorIs(err, ErrBusy)
	_, _, err = s.service.SearchSeries(ctx, "", 0, 0, false)
	s.ErrorIs(err, ErrBusy)
	_, _, err = s.service.SearchChannels(ctx, 0, 0)
	s.ErrorIs(err, ErrBusy)
	_, _, err = s.service.SearchFilteredChannels(ctx, 0, 0)
	s.ErrorIs(err, ErrBusy)
	s.ErrorIs(s.service.SetMovieFetched(ctx, "alien", true), ErrBusy)
	_, err = s.service.SetSeriesFetched(ctx, "Lost", true)
	s.ErrorIs(err, ErrBusy)
	_, _, err = s.service.ListFilters(ctx)
	s.ErrorIs(err, ErrBusy)
	_, err = s.service.AddFilter(ctx, "HD", domain.FilterIncludes)
	s.ErrorIs(err, ErrBusy)
	s.ErrorIs(s.service.RemoveFilter(ctx, 1), ErrBusy)
}

func (s *CatalogServiceTestSuite) TestSettingsAvailableWhileBusy() {
	ctx := context.Background()
	current := &domain.Settings{URL: testPlaylistURL, MoviesSavePath: "/data/movies"}
	updated := &domain.Settings{URL: "http://other.example/list.m3u", MoviesSavePath: "/data/movies"}

	s.coordinator.EXPECT().IsBusy().Return(true).AnyTimes()
	s.settings.EXPECT().Get(ctx).Return(current, nil)
	gomock.InOrder(
		s.settings.EXPECT().Update(ctx, updated).Return(nil),
		s.coordinator.EXPECT().Reschedule(),
	)

	got, err := s.service.GetSettings(ctx)
	s.NoError(err)
	s.Equal(current, got)

	s.NoError(s.service.UpdateSettings(ctx, updated))
}

func (s *CatalogServiceTestSuite) TestUpdateSettings_ErrorSkipsReschedule() {
	s.settings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	err := s.service.UpdateSettings(context.Background(), &domain.Settings{})

	s.Error(err)
}
