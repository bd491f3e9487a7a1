package catalog

import (
	"math"
	"sort"
	"strings"
)

const (
	scoreExact       = 100
	scoreSynonym     = 90
	scoreContainsMin = 80
	scoreWordMatch   = 75

	wordSimilarityThreshold     = 70
	fallbackSimilarityThreshold = 60

	maxMatches = 3
)

// Match is a catalog name candidate for a free-text exercise name,
// with a score in (60, 100].
type Match struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Resolver maps free-text exercise names to canonical catalog names.
type Resolver struct {
	synonyms *SynonymTable
}

func NewResolver(synonyms *SynonymTable) *Resolver {
	return &Resolver{
		synonyms: synonyms,
	}
}

// FindMatches scores every catalog name against the search term and returns the
// top candidates, best first. Each catalog name is scored by the first strategy
// that hits: exact match after normalization, containment, synonym group,
// word-order-independent coverage, then plain similarity as a fallback.
func (r *Resolver) FindMatches(searchName string, catalogNames []string) []Match {
	normalizedSearch := NormalizeName(searchName)
	if normalizedSearch == "" {
		return nil
	}

	var matches []Match
	for _, catalogName := range catalogNames {
		normalizedCatalog := NormalizeName(catalogName)

		if normalizedSearch == normalizedCatalog {
			matches = append(matches, Match{Name: catalogName, Score: scoreExact})
			continue
		}

		if strings.Contains(normalizedCatalog, normalizedSearch) ||
			strings.Contains(normalizedSearch, normalizedCatalog) {
			similarity := Similarity(normalizedSearch, normalizedCatalog)
			matches = append(matches, Match{Name: catalogName, Score: math.Max(scoreContainsMin, similarity)})
			continue
		}

		if r.synonyms != nil && r.synonyms.SameGroup(normalizedSearch, normalizedCatalog) {
			matches = append(matches, Match{Name: catalogName, Score: scoreSynonym})
			continue
		}

		searchWords := strings.Split(normalizedSearch, " ")
		if len(searchWords) >= 2 && allWordsCovered(searchWords, strings.Split(normalizedCatalog, " ")) {
			matches = append(matches, Match{Name: catalogName, Score: scoreWordMatch})
			continue
		}

		if similarity := Similarity(normalizedSearch, normalizedCatalog); similarity > fallbackSimilarityThreshold {
			matches = append(matches, Match{Name: catalogName, Score: similarity})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}

	return matches
}

// Resolve returns the single best match, or false when nothing matched.
func (r *Resolver) Resolve(searchName string, catalogNames []string) (Match, bool) {
	matches := r.FindMatches(searchName, catalogNames)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// allWordsCovered checks that every search word has a close-enough counterpart
// in the catalog name, regardless of word order.
func allWordsCovered(searchWords, catalogWords []string) bool {
	for _, searchWord := range searchWords {
		covered := false
		for _, catalogWord := range catalogWords {
			if strings.Contains(catalogWord, searchWord) ||
				strings.Contains(searchWord, catalogWord) ||
				Similarity(searchWord, catalogWord) > wordSimilarityThreshold {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}
