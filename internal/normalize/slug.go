// Package normalize holds the pure functions that turn free-form event and booking input
// into canonical values: slugs, ISO instants, 24-hour times and email addresses.
package normalize

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNotRepresentable is returned when an input cannot be turned into a canonical value.
var ErrNotRepresentable = errors.New("value is not representable")

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from title: lowercase ASCII letters, digits and
// single internal hyphens. Latin diacritics are folded ("Café" -> "cafe").
// The result is empty when title has no letters or digits.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = foldDiacritics(s)
	s = nonSlugRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
