package dispatch

// Levenshtein computes the classic edit distance between a and b. Exported
// for reuse by the search action's fuzzy-scoring fallback (spec §4.10
// "Search"), which needs the same metric MatchVerb uses for "did you mean".
func Levenshtein(a, b string) int { return levenshtein(a, b) }

// levenshtein computes the classic edit distance between a and b, used by
// MatchVerb's "did you mean" diagnostic (spec §4.8).
func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	la, lb := len(ar), len(br)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
