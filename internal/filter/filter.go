// Package filter decides which channels end up in the generated playlist.
package filter

import (
	"strings"

	"playlist_syncer/internal/domain"
)

// Apply returns the channels that survive the rules, in input order.
//
// A channel is kept when no not-includes rule matches its name and at least
// one includes or starts-with rule does. An empty rule set keeps everything.
// A rule set made only of not-includes rules therefore keeps nothing.
func Apply(channels []domain.Channel, rules []domain.Filter) []domain.Channel {
	if len(rules) == 0 {
		return channels
	}

	kept := make([]domain.Channel, 0, len(channels))
	for _, ch := range channels {
		if Keep(ch.Name, rules) {
			kept = append(kept, ch)
		}
	}
	return kept
}

// Keep evaluates the rules against a single channel name.
func Keep(name string, rules []domain.Filter) bool {
	if len(rules) == 0 {
		return true
	}

	notExcluded, matched := true, false
	for _, r := range rules {
		switch r.Type {
		case domain.FilterNotIncludes:
			if strings.Contains(name, r.Text) {
				notExcluded = false
			}
		case domain.FilterStartsWith:
			if strings.HasPrefix(name, r.Text) {
				matched = true
			}
		case domain.FilterIncludes:
			if strings.Contains(name, r.Text) {
				matched = true
			}
		}
	}
	return notExcluded && matched
}
