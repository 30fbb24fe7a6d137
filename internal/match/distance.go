package match

import "math"

// EditDistance computes the Levenshtein distance between a and b with
// unit-cost insert, delete and substitute operations.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// EditSimilarity maps edit distance onto a 0-100 score. Two empty
// strings are identical by definition and score 100.
func EditSimilarity(a, b string) int {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}
	d := EditDistance(a, b)
	return int(math.Round(100 * float64(maxLen-d) / float64(maxLen)))
}

// TokenSimilarity is the Jaccard index over whitespace-split,
// accent-stripped, lowercased tokens, scaled to 0-100.
func TokenSimilarity(a, b string) int {
	ta := Tokenize(a)
	tb := Tokenize(b)

	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}

	union := make(map[string]bool, len(ta)+len(tb))
	for _, t := range ta {
		union[t] = true
	}
	inter := 0
	seen := make(map[string]bool, len(tb))
	for _, t := range tb {
		union[t] = true
		if set[t] && !seen[t] {
			inter++
			seen[t] = true
		}
	}

	if len(union) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(inter) / float64(len(union))))
}

// BlendedSimilarity combines character-level and token-level similarity,
// weighted toward edit similarity.
func BlendedSimilarity(a, b string) int {
	return int(math.Round(0.7*float64(EditSimilarity(a, b)) + 0.3*float64(TokenSimilarity(a, b))))
}

func min3(a, b, c int) int {
	return min(a, min(b, c))
}
