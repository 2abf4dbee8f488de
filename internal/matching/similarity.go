// Package matching scores title similarity and decides whether two library
// entries are the same item.
package matching

import (
	"math"
	"sort"
	"strings"
)

// CalculateSimilarity returns a 0..100 similarity score for two titles.
//
// Two empty titles score 100 and a single empty title scores 0. Titles equal
// after trimming (ignoring case) score 100. Otherwise the result is the best of
// TokenSetRatio, TokenSortRatio and LevenshteinRatio: each tolerates a
// different kind of distortion and the strongest signal wins.
func CalculateSimilarity(a, b string) int {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)

	switch {
	case a == "" && b == "":
		return 100
	case a == "" || b == "":
		return 0
	case strings.EqualFold(a, b):
		return 100
	}

	return max(TokenSetRatio(a, b), TokenSortRatio(a, b), LevenshteinRatio(a, b))
}

// TokenSetRatio is |intersection| / |union| of the whitespace token sets,
// compared case-insensitively, scaled to 0..100.
func TokenSetRatio(a, b string) int {
	set1 := tokenSet(a)
	set2 := tokenSet(b)

	switch {
	case len(set1) == 0 && len(set2) == 0:
		return 100
	case len(set1) == 0 || len(set2) == 0:
		return 0
	}

	intersection := 0
	for tok := range set1 {
		if _, ok := set2[tok]; ok {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection

	return roundPercent(float64(intersection) / float64(union))
}

// TokenSortRatio sorts each side's tokens, rejoins them with single spaces and
// scores the results with LevenshteinRatio.
func TokenSortRatio(a, b string) int {
	return LevenshteinRatio(sortedTokens(a), sortedTokens(b))
}

// LevenshteinRatio is 1 - distance/maxLen over the lower-cased strings, in runes.
func LevenshteinRatio(a, b string) int {
	switch {
	case a == "" && b == "":
		return 100
	case a == "" || b == "":
		return 0
	}

	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	maxLen := max(len(ra), len(rb))

	distance := levenshteinRunes(ra, rb)
	return roundPercent(1 - float64(distance)/float64(maxLen))
}

// LevenshteinDistance is the unit-cost insert/delete/substitute edit distance.
func LevenshteinDistance(a, b string) int {
	return levenshteinRunes([]rune(a), []rune(b))
}

func levenshteinRunes(ra, rb []rune) int {
	lenA, lenB := len(ra), len(rb)
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	matrix := make([][]int, lenA+1)
	for i := range matrix {
		matrix[i] = make([]int, lenB+1)
		matrix[i][0] = i
	}
	for j := 0; j <= lenB; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= lenA; i++ {
		for j := 1; j <= lenB; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[lenA][lenB]
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[strings.ToLower(f)] = struct{}{}
	}
	return set
}

func sortedTokens(s string) string {
	fields := strings.Fields(s)
	sort.SliceStable(fields, func(i, j int) bool {
		return strings.ToLower(fields[i]) < strings.ToLower(fields[j])
	})
	return strings.Join(fields, " ")
}

func roundPercent(ratio float64) int {
	return int(math.Round(ratio * 100))
}
