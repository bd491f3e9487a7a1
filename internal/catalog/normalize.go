package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// decompose, drop combining marks, recompose - turns "sentadilla búlgara" into "sentadilla bulgara"
	accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	nonWordChars = regexp.MustCompile(`[^\w\s]`)
	whitespace   = regexp.MustCompile(`\s+`)

	// spanish connector words mapped to english to reduce language noise
	connectorReplacements = map[string]string{
		"con": "with",
		"de":  "with",
		"en":  "on",
	}
)

// NormalizeName prepares an exercise name for comparison: lowercase, accents
// stripped, punctuation removed, whitespace collapsed, connector words unified.
// Normalization is idempotent.
func NormalizeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if stripped, _, err := transform.String(accentStripper, normalized); err == nil {
		normalized = stripped
	}
	normalized = nonWordChars.ReplaceAllString(normalized, "")
	normalized = whitespace.ReplaceAllString(normalized, " ")
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return ""
	}

	words := strings.Split(normalized, " ")
	for i, word := range words {
		if replacement, ok := connectorReplacements[word]; ok {
			words[i] = replacement
		}
	}
	return strings.Join(words, " ")
}
