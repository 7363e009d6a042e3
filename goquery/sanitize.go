package goquery

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<.+?>`)
	annotationPattern = regexp.MustCompile(`\[.+?\]`)
)

// SanitizeTitle cleans a book or chapter title: HTML tags and bracketed
// annotations are removed, everything from the first remaining parenthesis
// or bracket is cut, and the result is trimmed.
//
// Example: "Volume 1 [Teaser] (2019)" becomes "Volume 1".
func SanitizeTitle(title string) string {
	title = tagPattern.ReplaceAllString(title, "")
	title = annotationPattern.ReplaceAllString(title, "")
	// A bracket at position 0 is kept, the cut needs some text before it.
	if i := strings.IndexAny(title, "(["); i > 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}
