package catalog

// levenshteinDistance is the classic edit distance, insertions, deletions and
// substitutions each costing 1, computed over runes.
func levenshteinDistance(a, b string) int {
	runesA, runesB := []rune(a), []rune(b)

	prevRow := make([]int, len(runesA)+1)
	currRow := make([]int, len(runesA)+1)
	for i := 0; i <= len(runesA); i++ {
		prevRow[i] = i
	}

	for j := 1; j <= len(runesB); j++ {
		currRow[0] = j
		for i := 1; i <= len(runesA); i++ {
			substitutionCost := 1
			if runesA[i-1] == runesB[j-1] {
				substitutionCost = 0
			}
			currRow[i] = min(
				currRow[i-1]+1,
				prevRow[i]+1,
				prevRow[i-1]+substitutionCost,
			)
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[len(runesA)]
}

// Similarity returns a percentage in [0, 100] derived from the edit distance,
// relative to the longer of the two strings. Two empty strings are 100% similar.
func Similarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}
	distance := levenshteinDistance(a, b)
	return float64(maxLen-distance) / float64(maxLen) * 100
}
