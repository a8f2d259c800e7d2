package playlist

import (
	"regexp"
	"strconv"
	"strings"

	"playlist_syncer/internal/domain"
	"playlist_syncer/internal/identifier"
)

// NoTitle replaces the display name when the attribute line has none.
const NoTitle = "no title"

// SeriesParseError is the series name assigned when season and episode
// cannot be read from the display name.
const SeriesParseError = "error"

var (
	attrRE = regexp.MustCompile(`([\w-]+?)="(.*?)"`)

	// "<series> S<n> E<n>", then a bare "S<n> E<n>" without a series name.
	episodeRE     = regexp.MustCompile(`^(.*?)\s+S(\d+)\s*E(\d+)`)
	bareEpisodeRE = regexp.MustCompile(`S(\d+)\s*E(\d+)`)
)

// Item is a classified record. Exactly one of Channel, Movie and Episode is
// set, matching Kind.
type Item struct {
	Kind    domain.Kind
	Channel *domain.Channel
	Movie   *domain.Movie
	Episode *domain.Episode
}

// ID returns the normalized id of whichever entry the item holds.
func (it Item) ID() string {
	switch it.Kind {
	case domain.KindMovie:
		return it.Movie.ID
	case domain.KindSeries:
		return it.Episode.ID
	default:
		return it.Channel.ID
	}
}

// Name returns the display name of the entry.
func (it Item) Name() string {
	switch it.Kind {
	case domain.KindMovie:
		return it.Movie.Name
	case domain.KindSeries:
		return it.Episode.Name
	default:
		return it.Channel.Name
	}
}

// Classify turns one record into a channel, movie or series episode.
//
// The kind is decided by the URL alone: "movie" wins over "series", and
// anything else is a channel. This follows the URL layout of Xtream-style
// catalogs and is not configurable.
func Classify(rec Record) Item {
	attrs := Attributes(rec.Attributes)
	name := DisplayName(rec.Attributes)

	base := domain.Item{
		XuiID:      attrs["xui-id"],
		TvgID:      attrs["tvg-id"],
		TvgName:    attrs["tvg-name"],
		TvgLogo:    attrs["tvg-logo"],
		GroupTitle: attrs["group-title"],
		Name:       name,
		URL:        rec.URL,
	}
	if base.TvgName == "" {
		base.TvgName = name
	}

	switch {
	case strings.Contains(rec.URL, "movie"):
		base.ID = identifier.Normalize(name, domain.KindMovie)
		return Item{Kind: domain.KindMovie, Movie: &domain.Movie{Item: base}}
	case strings.Contains(rec.URL, "series"):
		series, season, episode := SeasonEpisode(name)
		base.ID = identifier.Normalize(name, domain.KindSeries)
		base.GroupTitle = series
		return Item{Kind: domain.KindSeries, Episode: &domain.Episode{
			Item:    base,
			Season:  season,
			Episode: episode,
		}}
	default:
		base.ID = identifier.Normalize(name, domain.KindChannel)
		return Item{Kind: domain.KindChannel, Channel: &domain.Channel{Item: base}}
	}
}

// Attributes extracts every key="value" pair from an #EXTINF line.
func Attributes(line string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRE.FindAllStringSubmatch(line, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

// DisplayName returns the text after the last `",` on the line, or NoTitle.
func DisplayName(line string) string {
	i := strings.LastIndex(line, `",`)
	if i < 0 {
		return NoTitle
	}
	name := strings.TrimSpace(line[i+2:])
	if name == "" {
		return NoTitle
	}
	return name
}

// SeasonEpisode reads "<series> S<n> E<n>" from a display name. On failure it
// returns SeriesParseError with season and episode 0.
func SeasonEpisode(name string) (series string, season, episode int) {
	if m := episodeRE.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1]), atoi(m[2]), atoi(m[3])
	}
	if m := bareEpisodeRE.FindStringSubmatch(name); m != nil {
		return "", atoi(m[1]), atoi(m[2])
	}
	return SeriesParseError, 0, 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
