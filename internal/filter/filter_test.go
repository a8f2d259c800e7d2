package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"playlist_syncer/internal/domain"
)

func channels(names ...string) []domain.Channel {
	out := make([]domain.Channel, len(names))
	for i, n := range names {
		out[i] = domain.Channel{Item: domain.Item{ID: n, Name: n}}
	}
	return out
}

func names(chs []domain.Channel) []string {
	out := make([]string, len(chs))
	for i, c := range chs {
		out[i] = c.Name
	}
	return out
}

func TestApply_NoRulesKeepsEverything(t *testing.T) {
	in := channels("UK: BBC One", "US: CNN", "24/7 Friends")
	assert.Equal(t, in, Apply(in, nil))
	assert.Equal(t, in, Apply(in, []domain.Filter{}))
}

func TestApply_OnlyNotIncludesKeepsNothing(t *testing.T) {
	in := channels("UK: BBC One", "US: CNN", "24/7 Friends")
	rules := []domain.Filter{{ID: 1, Text: "24/7", Type: domain.FilterNotIncludes}}

	assert.Empty(t, Apply(in, rules))
}

func TestApply_Composition(t *testing.T) {
	in := channels("UK: BBC One", "UK: BBC Two", "UK: Sky Sports", "US: CNN", "US: ESPN", "24/7 UK: Friends")
	rules := []domain.Filter{
		{ID: 1, Text: "UK:", Type: domain.FilterStartsWith},
		{ID: 2, Text: "ESPN", Type: domain.FilterIncludes},
		{ID: 3, Text: "Sky", Type: domain.FilterNotIncludes},
	}

	assert.Equal(t, []string{"UK: BBC One", "UK: BBC Two", "US: ESPN"}, names(Apply(in, rules)))
}

func TestApply_NotIncludesBeatsMatch(t *testing.T) {
	in := channels("UK: BBC One HD", "UK: BBC One")
	rules := []domain.Filter{
		{Text: "BBC", Type: domain.FilterIncludes},
		{Text: "HD", Type: domain.FilterNotIncludes},
	}

	assert.Equal(t, []string{"UK: BBC One"}, names(Apply(in, rules)))
}

func TestApply_UnknownTypeIgnored(t *testing.T) {
	in := channels("UK: BBC One")
	rules := []domain.Filter{{Text: "UK", Type: domain.FilterType("regex")}}

	assert.Empty(t, Apply(in, rules))
}

func TestApply_CaseSensitive(t *testing.T) {
	in := channels("uk: bbc one")
	rules := []domain.Filter{{Text: "UK", Type: domain.FilterIncludes}}

	assert.Empty(t, Apply(in, rules))
}
