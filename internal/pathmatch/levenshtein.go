package pathmatch

// Distance returns the Levenshtein edit distance between a and b, counting
// insertions, deletions and substitutions of runes at cost 1.
//
// Only two rows of the DP table are kept, sized by the shorter string.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(
				prev[j-1], // substitution
				curr[j-1], // insertion
				prev[j],   // deletion
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// similarity maps the distance between two normalized strings onto [0,1].
// Two empty strings are identical.
func similarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1 - float64(Distance(a, b))/float64(maxLen)
}
