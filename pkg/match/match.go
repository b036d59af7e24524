// Package match implements approximate lookup over stored answer keys.
package match

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// Ratio scores the similarity of two strings from 0 (unrelated) to 100
// (identical), derived from their edit distance relative to the longer
// string.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}

	score := 100 - (100*levenshtein.ComputeDistance(a, b))/longest
	if score < 0 {
		score = 0
	}
	return score
}

// Match is the best approximate hit for a query.
type Match struct {
	Key   string
	Reply string
	Score int
}

// Best scans candidates and returns the highest-scoring key. Keys are
// visited in sorted order, and the first key reaching the maximum
// score wins, so ties resolve the same way on every call. ok is false
// only when candidates is empty: a zero score still yields a match,
// and it is the caller's decision how much to trust it.
func Best(query string, candidates map[string]string) (Match, bool) {
	if len(candidates) == 0 {
		return Match{}, false
	}

	keys := make([]string, 0, len(candidates))
	for k := range candidates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := Match{Score: -1}
	for _, k := range keys {
		if score := Ratio(query, k); score > best.Score {
			best = Match{Key: k, Reply: candidates[k], Score: score}
		}
	}
	return best, true
}
