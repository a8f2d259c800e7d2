package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist_syncer/internal/domain"
)

func TestClassify_Channel(t *testing.T) {
	item := Classify(Record{
		Attributes: `#EXTINF:-1 xui-id="17" tvg-id="bbc1.uk" tvg-name="BBC One" tvg-logo="http://logo/bbc.png" group-title="UK",UK: BBC One HD`,
		URL:        "http://provider.example/live/user/pass/17.ts",
	})

	require.Equal(t, domain.KindChannel, item.Kind)
	require.NotNil(t, item.Channel)
	assert.Nil(t, item.Movie)
	assert.Nil(t, item.Episode)

	ch := item.Channel
	assert.Equal(t, "uk", ch.ID)
	assert.Equal(t, "17", ch.XuiID)
	assert.Equal(t, "bbc1.uk", ch.TvgID)
	assert.Equal(t, "BBC One", ch.TvgName)
	assert.Equal(t, "http://logo/bbc.png", ch.TvgLogo)
	assert.Equal(t, "UK", ch.GroupTitle)
	assert.Equal(t, "UK: BBC One HD", ch.Name)
	assert.Equal(t, "http://provider.example/live/user/pass/17.ts", ch.URL)
}

func TestClassify_MovieWinsRegardlessOfAttributes(t *testing.T) {
	item := Classify(Record{
		Attributes: `#EXTINF:-1 tvg-name="Some Series S01 E01" group-title="Series",Some Series S01 E01`,
		URL:        "http://provider.example/movie/user/pass/series-1.mkv",
	})

	require.Equal(t, domain.KindMovie, item.Kind)
	assert.Equal(t, "some-series-s01-e01", item.Movie.ID)
	assert.False(t, item.Movie.Fetched)
}

func TestClassify_Episode(t *testing.T) {
	item := Classify(Record{
		Attributes: `#EXTINF:-1 tvg-logo="http://logo/show.png" group-title="EN Series",The Expanse: Origins S02 E07`,
		URL:        "http://provider.example/series/user/pass/991.mkv",
	})

	require.Equal(t, domain.KindSeries, item.Kind)
	ep := item.Episode
	assert.Equal(t, "The Expanse: Origins", ep.GroupTitle)
	assert.Equal(t, 2, ep.Season)
	assert.Equal(t, 7, ep.Episode)
	assert.Equal(t, "the-expanse-origins-s02-e07", ep.ID)
	assert.Equal(t, "The Expanse: Origins S02 E07", ep.TvgName)
	assert.False(t, ep.ParseFailed())
}

func TestClassify_EpisodeParseFailure(t *testing.T) {
	item := Classify(Record{
		Attributes: `#EXTINF:-1 group-title="EN Series",Documentary Special`,
		URL:        "http://provider.example/series/user/pass/992.mkv",
	})

	require.Equal(t, domain.KindSeries, item.Kind)
	assert.Equal(t, SeriesParseError, item.Episode.GroupTitle)
	assert.True(t, item.Episode.ParseFailed())
}

func TestClassify_NoTitle(t *testing.T) {
	item := Classify(Record{
		Attributes: "#EXTINF:-1,Plain Name",
		URL:        "http://provider.example/live/1.ts",
	})

	assert.Equal(t, NoTitle, item.Name())
	assert.Equal(t, "no-title", item.ID())
	assert.Equal(t, NoTitle, item.Channel.TvgName)
}

func TestDisplayName_UsesLastMarker(t *testing.T) {
	line := `#EXTINF:-1 tvg-name="A, B",group-title="X",Final Name`
	assert.Equal(t, "Final Name", DisplayName(line))
}

func TestAttributes(t *testing.T) {
	attrs := Attributes(`#EXTINF:-1 tvg-id="" tvg-name="Name" group-title="Group A",Name`)
	assert.Equal(t, map[string]string{
		"tvg-id":      "",
		"tvg-name":    "Name",
		"group-title": "Group A",
	}, attrs)
}

func TestSeasonEpisode(t *testing.T) {
	tests := []struct {
		name    string
		series  string
		season  int
		episode int
	}{
		{"Severance S01 E09", "Severance", 1, 9},
		{"Severance S01E09", "Severance", 1, 9},
		{"S03 E01", "", 3, 1},
		{"ShowS01E02", "", 1, 2},
		{"Severance Finale", SeriesParseError, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, season, episode := SeasonEpisode(tt.name)
			assert.Equal(t, tt.series, series)
			assert.Equal(t, tt.season, season)
			assert.Equal(t, tt.episode, episode)
		})
	}
}
