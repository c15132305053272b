package taxonomy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify derives a URL-safe slug from a display name.
// "Cámaras de Seguridad" -> "camaras-de-seguridad".
func Slugify(s string) string {
	// Decompose accented characters, then drop anything outside ASCII.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	return s
}

// ValidSlug reports whether s is a usable slug: lowercase alphanumeric runs
// separated by single hyphens, no leading or trailing hyphen.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
