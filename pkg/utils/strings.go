package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugUnsafe = regexp.MustCompile(`[^A-Za-z0-9\-_{}]+`)
	dashRun    = regexp.MustCompile(`-{2,}`)
)

// RemoveAccents removes accents from a string, converting accented characters to their base forms
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SanitizeSegment turns an arbitrary string into a single file and URL safe
// path segment. Separators become hyphens, "." and ".." components are
// dropped, runs of characters outside [A-Za-z0-9-_{}] collapse into one
// hyphen and edge hyphens are trimmed. The fallback is returned when nothing
// is left.
func SanitizeSegment(value, fallback string) string {
	s := RemoveAccents(value)
	s = strings.ReplaceAll(s, `\`, "/")

	parts := strings.Split(s, "/")
	kept := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "." || p == ".." {
			continue
		}
		kept = append(kept, p)
	}
	s = strings.Join(kept, "-")
	s = slugUnsafe.ReplaceAllString(s, "-")
	s = dashRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fallback
	}
	return s
}

// PathSlug converts a path template into a page slug:
// "/assistants/{assistant_id}" becomes "assistants-{assistant_id}". The root
// path yields "root".
func PathSlug(path string) string {
	return SanitizeSegment(path, "root")
}

// PathStem converts a path template into the stem used by derived operation
// identifiers: slashes become underscores, "/" yields "root".
func PathStem(path string) string {
	stem := strings.ReplaceAll(strings.Trim(path, "/"), "/", "_")
	if stem == "" {
		return "root"
	}
	return stem
}
