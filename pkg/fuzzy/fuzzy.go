// Package fuzzy provides edit-distance based string similarity scoring for
// matching noisy labels against a canonical vocabulary.
package fuzzy

import "strings"

// Distance computes the Levenshtein edit distance between two strings.
func Distance(a, b string) int {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two-row dynamic programming to keep allocations bounded
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

			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Ratio scores the similarity of two strings on a 0-100 scale, where 100 is
// an exact match. Comparison is case-insensitive and ignores surrounding
// whitespace.
func Ratio(a, b string) int {
	na := normalize(a)
	nb := normalize(b)

	if na == nb {
		return 100
	}

	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}

	if maxLen == 0 {
		return 100
	}

	dist := Distance(na, nb)

	return (maxLen - dist) * 100 / maxLen
}

// BestMatch returns the vocabulary entry with the highest similarity score
// against the input, along with its score. It returns ("", 0) for an empty
// vocabulary. Ties keep the earliest entry so results stay deterministic.
func BestMatch(input string, vocabulary []string) (string, int) {
	best := ""
	bestScore := 0

	for _, candidate := range vocabulary {
		score := Ratio(input, candidate)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	return best, bestScore
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
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
