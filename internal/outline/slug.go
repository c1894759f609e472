package outline

import (
	"regexp"
	"strconv"
	"strings"
)

// PlaceholderID replaces a slug that came out empty.
const PlaceholderID = "heading"

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
	fallbackWS   = regexp.MustCompile(`\s+`)
	fallbackDrop = regexp.MustCompile(`[^\w-]`)
)

// Slugify turns heading text into an identifier: lowercase, punctuation
// removed, runs of spaces, underscores and hyphens collapsed into one hyphen,
// no hyphen at either end. The result may be empty.
func Slugify(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FallbackID is the display-only id used for headings that have none yet.
// It is never written back and not guaranteed unique.
func FallbackID(text string) string {
	s := fallbackWS.ReplaceAllString(strings.ToLower(text), "-")
	return fallbackDrop.ReplaceAllString(s, "")
}

// uniqueID returns base, or base-1, base-2, ... whichever is the first
// identifier taken does not hold.
func uniqueID(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		id := base + "-" + strconv.Itoa(i)
		if !taken(id) {
			return id
		}
	}
}
