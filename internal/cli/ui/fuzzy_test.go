package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	cases := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"", "print", 5},
		{"print", "", 5},
		{"print", "print", 0},
		{"prin", "print", 1},
		{"Chanel", "Channel", 1},
		{"sailfin/oi", "sailfin/io", 2},
		{"kitten", "sitting", 3},
	}
	for _, tc := range cases {
		t.Run(tc.s1+"/"+tc.s2, func(t *testing.T) {
			assert.Equal(t, tc.want, LevenshteinDistance(tc.s1, tc.s2))
		})
	}
}

func TestFindSimilar_SuggestsNamespaces(t *testing.T) {
	namespaces := []string{"print", "global", "sailfin/io", "sailfin/net"}

	assert.Equal(t, []string{"print"}, FindSimilar("prin", namespaces, nil))
	assert.Empty(t, FindSimilar("completely-unrelated", namespaces, nil))
}

func TestFindSimilar_ClosestFirst(t *testing.T) {
	candidates := []string{"Channel", "Chan", "Chain"}
	got := FindSimilar("Chanel", candidates, nil)
	assert.NotEmpty(t, got)
	assert.Equal(t, "Channel", got[0])
}

func TestFindSimilar_RespectsLimits(t *testing.T) {
	candidates := []string{"aaa", "aab", "aba", "baa", "abb"}
	got := FindSimilar("aaa", candidates, &FuzzyMatchOptions{MaxSuggestions: 2})
	assert.Len(t, got, 2)

	got = FindSimilar("aaa", candidates, &FuzzyMatchOptions{MaxDistance: 1, MaxSuggestions: 10})
	for _, s := range got {
		assert.LessOrEqual(t, LevenshteinDistance("aaa", s), 1)
	}
}

func TestFindSimilar_CaseSensitivity(t *testing.T) {
	candidates := []string{"Print"}
	assert.NotEmpty(t, FindSimilar("print", candidates, nil),
		"matching is case-insensitive by default")
	assert.Equal(t, []string{"Print"},
		FindSimilar("Prin", candidates, &FuzzyMatchOptions{CaseSensitive: true}))
}

func TestFindBestMatch(t *testing.T) {
	namespaces := []string{"print", "sailfin/io"}
	assert.Equal(t, "print", FindBestMatch("prnt", namespaces, nil))
	assert.Equal(t, "", FindBestMatch("zzzzzzzz", namespaces, nil))
}

func TestHasCloseMatch(t *testing.T) {
	namespaces := []string{"print"}
	assert.True(t, HasCloseMatch("prin", namespaces, nil))
	assert.False(t, HasCloseMatch("wwwwwwww", namespaces, nil))
}
