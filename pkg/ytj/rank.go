package ytj

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Normalize folds case and composes Unicode so "Å" typed either way
// compares equal.
func Normalize(s string) string {
	return folder.String(norm.NFC.String(strings.TrimSpace(s)))
}

// Rank orders companies against target: names starting with target first,
// then by Levenshtein distance, then shorter names. The input is not modified.
func Rank(companies []Company, target string) []Company {
	t := Normalize(target)
	type scored struct {
		c      Company
		starts bool
		dist   int
		length int
	}
	items := make([]scored, len(companies))
	for i, c := range companies {
		n := Normalize(c.Name)
		items[i] = scored{c, strings.HasPrefix(n, t), Levenshtein(n, t), len([]rune(n))}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.starts != b.starts {
			return a.starts
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		return a.length < b.length
	})
	out := make([]Company, len(items))
	for i, it := range items {
		out[i] = it.c
	}
	return out
}

// Top returns at most limit companies. A non-positive limit returns all.
func Top(companies []Company, limit int) []Company {
	if limit > 0 && len(companies) > limit {
		return companies[:limit]
	}
	return companies
}

// Levenshtein is the edit distance between a and b in runes.
func Levenshtein(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}
