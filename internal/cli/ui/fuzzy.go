package ui

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance bounds how far a suggestion may drift from what
	// the user typed before it stops being helpful.
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions bounds how many candidates a did-you-mean
	// line offers.
	DefaultMaxSuggestions = 3
)

// FuzzyMatchOptions configures fuzzy matching behavior.
type FuzzyMatchOptions struct {
	MaxDistance    int
	MaxSuggestions int
	CaseSensitive  bool
}

// suggestion pairs a candidate with its edit distance from the target.
type suggestion struct {
	value    string
	distance int
}

// FindSimilar returns the candidates closest to target by edit
// distance, for did-you-mean suggestions on mistyped stdlib namespaces
// and import paths.
//
// Example:
//
//	namespaces := []string{"print", "sailfin/io", "sailfin/net"}
//	FindSimilar("prin", namespaces, nil)
//	// Returns: ["print"]
func FindSimilar(target string, candidates []string, opts *FuzzyMatchOptions) []string {
	if opts == nil {
		opts = &FuzzyMatchOptions{}
	}
	maxDistance := opts.MaxDistance
	if maxDistance == 0 {
		maxDistance = DefaultMaxDistance
	}
	maxSuggestions := opts.MaxSuggestions
	if maxSuggestions == 0 {
		maxSuggestions = DefaultMaxSuggestions
	}

	targetCmp := target
	if !opts.CaseSensitive {
		targetCmp = strings.ToLower(target)
	}

	var suggestions []suggestion
	for _, candidate := range candidates {
		candidateCmp := candidate
		if !opts.CaseSensitive {
			candidateCmp = strings.ToLower(candidate)
		}
		if dist := LevenshteinDistance(targetCmp, candidateCmp); dist <= maxDistance {
			suggestions = append(suggestions, suggestion{value: candidate, distance: dist})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].distance < suggestions[j].distance
	})

	result := make([]string, 0, maxSuggestions)
	for i := 0; i < len(suggestions) && i < maxSuggestions; i++ {
		result = append(result, suggestions[i].value)
	}
	return result
}

// LevenshteinDistance is the minimum number of single-character edits
// (insertions, deletions, substitutions) turning s1 into s2. Two rows
// of the edit matrix are enough, since each cell only looks one row up.
//
// Example:
//
//	LevenshteinDistance("Chanel", "Channel") // Returns: 1
func LevenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := 0; j <= len(s2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = minOf(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// FindBestMatch returns the single closest candidate, or "" when none
// is within the maximum distance.
func FindBestMatch(target string, candidates []string, opts *FuzzyMatchOptions) string {
	matches := FindSimilar(target, candidates, opts)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// HasCloseMatch reports whether any candidate is within the maximum
// distance of target.
func HasCloseMatch(target string, candidates []string, opts *FuzzyMatchOptions) bool {
	return FindBestMatch(target, candidates, opts) != ""
}
