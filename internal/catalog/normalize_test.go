package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase and trim",
			input:    "  Press Banca  ",
			expected: "press banca",
		},
		{
			name:     "accents stripped",
			input:    "press dé banca",
			expected: "press with banca",
		},
		{
			name:     "connector de replaced",
			input:    "Press de Banca",
			expected: "press with banca",
		},
		{
			name:     "connector con replaced",
			input:    "curl con mancuernas",
			expected: "curl with mancuernas",
		},
		{
			name:     "connector en replaced",
			input:    "fondos en paralelas",
			expected: "fondos on paralelas",
		},
		{
			name:     "connector only as standalone word",
			input:    "bench press",
			expected: "bench press",
		},
		{
			name:     "punctuation stripped",
			input:    "pull-ups!",
			expected: "pullups",
		},
		{
			name:     "whitespace collapsed",
			input:    "peso   muerto\trumano",
			expected: "peso muerto rumano",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only punctuation",
			input:    "?!.",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeName(tc.input))
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	inputs := []string{
		"Press de Banca",
		"press dé banca",
		"  Sentadilla  Búlgara!! ",
		"curl con mancuernas",
		"bench press",
		"",
	}
	for _, input := range inputs {
		once := NormalizeName(input)
		assert.Equal(t, once, NormalizeName(once), "input: %q", input)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	testCases := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"sentadila", "sentadilla", 1},
		{"press", "pres", 1},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, levenshteinDistance(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestSimilarity(t *testing.T) {
	// both empty strings are defined as a full match
	assert.Equal(t, float64(100), Similarity("", ""))
	assert.Equal(t, float64(100), Similarity("squat", "squat"))
	assert.Equal(t, float64(0), Similarity("abcd", ""))
	// one substitution over ten characters
	assert.InDelta(t, 90, Similarity("sentadila", "sentadilla"), 0.001)
	assert.InDelta(t, 80, Similarity("press", "preso"), 0.001)
}
