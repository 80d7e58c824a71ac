package fuid

import "strings"

// EditDistance computes the Levenshtein distance between a and b, lowercased,
// with unit cost for insertion, deletion, and substitution. The full DP table
// is computed; no early-exit shortcuts, so the distance stays exact for
// scoring.
func EditDistance(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	la, lb := len(ra), len(rb)

	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			deletion := d[i-1][j] + 1
			insertion := d[i][j-1] + 1
			substitution := d[i-1][j-1] + cost

			best := deletion
			if insertion < best {
				best = insertion
			}
			if substitution < best {
				best = substitution
			}
			d[i][j] = best
		}
	}
	return d[la][lb]
}

// Similarity converts edit distance to a score in [0,100]. 100 means
// identical (or both empty); 0 means no character survives.
func Similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 100
	}

	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}

	score := 100 - 100*float64(EditDistance(a, b))/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}
