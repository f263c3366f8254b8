package ui

import (
	"sort"
	"strings"
)

const (
	maxDistance    = 3
	maxSuggestions = 3
)

// Similar returns up to three candidates within a small edit distance of
// target, closest first. Comparison is case-insensitive.
func Similar(target string, candidates []string) []string {
	type match struct {
		value    string
		distance int
	}

	t := strings.ToLower(target)
	var matches []match
	for _, c := range candidates {
		if d := Distance(t, strings.ToLower(c)); d <= maxDistance {
			matches = append(matches, match{c, d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	out := make([]string, 0, maxSuggestions)
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		out = append(out, matches[i].value)
	}
	return out
}

// Distance is the Levenshtein distance between a and b, in bytes.
func Distance(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
