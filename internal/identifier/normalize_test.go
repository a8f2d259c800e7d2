package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"playlist_syncer/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		display string
		kind    domain.Kind
		want    string
	}{
		{"channel cut at colon", "Lax & Friends: Late Show", domain.KindChannel, "lax-&-friends"},
		{"protected prefix keeps colon text", "24/7 Music: Vol 2", domain.KindChannel, "24/7-music-vol-2"},
		{"protected spfl", "SPFL: Celtic v Rangers", domain.KindChannel, "spfl-celtic-v-rangers"},
		{"protected prefix is case sensitive", "spfl: Celtic", domain.KindChannel, "spfl"},
		{"movie keeps colon text", "Alien: Romulus (2024)", domain.KindMovie, "alien-romulus-2024"},
		{"series keeps colon text", "Star Trek: Picard S01 E02", domain.KindSeries, "star-trek-picard-s01-e02"},
		{"strips punctuation", "[UK] BBC One | HD.", domain.KindChannel, "uk-bbc-one-hd"},
		{"collapses whitespace and dashes", "  News  -  24  ", domain.KindChannel, "news-24"},
		{"strips non ascii", "Café Télé", domain.KindChannel, "caf-tl"},
		{"all non ascii is empty", "日本", domain.KindChannel, ""},
		{"empty", "", domain.KindMovie, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.display, tt.kind))
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	a := Normalize("Sky Sports: Premier League", domain.KindChannel)
	b := Normalize("Sky Sports: Premier League", domain.KindChannel)
	assert.Equal(t, a, b)
	assert.Equal(t, "sky-sports", a)
}
