// Package search ranks text matches by relevance.
package search

import (
	"sort"
	"strings"
)

const (
	ScoreExact    = 100
	ScorePrefix   = 50
	ScoreContains = 10
)

// NormalizeQuery trims the raw query and reports whether it is long enough to run.
func NormalizeQuery(raw string, minLen int) (string, bool) {
	q := strings.TrimSpace(raw)
	return q, len([]rune(q)) >= minLen
}

// Score sums the relevance of query across fields, comparing case-insensitively.
// Empty fields contribute nothing.
func Score(query string, fields ...string) int {
	q := strings.ToLower(query)
	if q == "" {
		return 0
	}

	total := 0
	for _, f := range fields {
		v := strings.ToLower(f)
		switch {
		case v == "":
		case v == q:
			total += ScoreExact
		case strings.HasPrefix(v, q):
			total += ScorePrefix
		case strings.Contains(v, q):
			total += ScoreContains
		}
	}
	return total
}

// Rank sorts items by descending score. Items with equal scores keep their
// input order. The input slice is not modified.
func Rank[T any](items []T, query string, fields func(T) []string) []T {
	type scored struct {
		item  T
		score int
	}

	rows := make([]scored, len(items))
	for i, it := range items {
		rows[i] = scored{item: it, score: Score(query, fields(it)...)}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].score > rows[j].score
	})

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.item
	}
	return out
}
