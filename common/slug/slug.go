package slug

import (
	"regexp"
	"strings"
)

var (
	parenthesized = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	disallowed    = regexp.MustCompile(`[^a-zA-Z0-9-]+`)
	dashRuns      = regexp.MustCompile(`-{2,}`)
)

// Normalize derives the canonical URL-safe slug for a bucket key or raw title.
// Any directory component and a trailing ".md" extension are stripped first,
// then edge dashes, parenthesized segments (e.g. "(copy)"), and every character
// outside [a-z0-9-]. Normalize is idempotent: feeding its output back in
// returns the same slug. The result may be empty; callers treat an empty slug
// as invalid.
func Normalize(raw string) string {
	s := raw
	if idx := strings.LastIndexByte(s, '/'); idx >= 0 {
		s = s[idx+1:]
	}
	if len(s) >= 3 && strings.EqualFold(s[len(s)-3:], ".md") {
		s = s[:len(s)-3]
	}
	s = strings.Trim(s, "-")
	s = parenthesized.ReplaceAllString(s, "")
	s = disallowed.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return strings.ToLower(s)
}

// Humanize turns a filename or key into a display title: directory prefix and
// extension are dropped, parenthesized segments removed, separators become
// spaces, and each word is title-cased. Returns "" for inputs with no
// alphanumeric content.
func Humanize(raw string) string {
	s := raw
	if idx := strings.LastIndexByte(s, '/'); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndexByte(s, '.'); idx > 0 {
		s = s[:idx]
	}
	s = strings.Trim(s, "-")
	s = parenthesized.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// IsSimilar reports whether two slugs are near-duplicates under the bounded
// positional-mismatch heuristic used by the cleanup delete path. The slugs are
// similar when their lengths differ by at most 2 and a position-by-position
// comparison (missing trailing characters count as mismatches) yields between
// 1 and 2 mismatches. An exact match is NOT similar; callers handle equality
// separately. This is deliberately not an edit-distance metric: a single
// inserted character shifts every following position, so it only catches
// same-shape variants like trailing counters from repeated uploads.
func IsSimilar(a, b string) bool {
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > 2 {
		return false
	}

	shorter := len(a)
	if len(b) < shorter {
		shorter = len(b)
	}

	mismatches := diff
	for i := 0; i < shorter; i++ {
		if a[i] != b[i] {
			mismatches++
		}
	}
	return mismatches >= 1 && mismatches <= 2
}
