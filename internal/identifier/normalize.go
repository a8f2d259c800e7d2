// Package identifier derives stable slug ids from playlist display names.
package identifier

import (
	"regexp"
	"strings"

	"playlist_syncer/internal/domain"
)

// protectedPrefixes use the colon as part of the channel name rather than as
// a separator in front of a one-off programme title.
var protectedPrefixes = []string{"SPFL", "24/7", "XXX"}

var (
	unwantedChars = regexp.MustCompile(`[|()\[\]:,.]`)
	whitespace    = regexp.MustCompile(`\s+`)
	dashes        = regexp.MustCompile(`-+`)
	nonASCII      = regexp.MustCompile(`[^\x00-\x7F]`)
)

// Normalize returns the slug id for a display name of the given kind.
//
// Only channels are cut at the first colon. A name made only of non-ASCII
// characters normalizes to an empty string.
func Normalize(displayName string, kind domain.Kind) string {
	name := strings.TrimSpace(displayName)
	result := strings.ToLower(name)

	if kind == domain.KindChannel && !isProtected(name) {
		if i := strings.IndexByte(result, ':'); i >= 0 {
			result = result[:i]
		}
	}

	result = unwantedChars.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = dashes.ReplaceAllString(result, "-")
	result = nonASCII.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

func isProtected(name string) bool {
	for _, p := range protectedPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
