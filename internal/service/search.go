package service

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// ClosestTable picks the table name nearest to query. Prefix matches win,
// otherwise the smallest edit distance; ties keep the earlier name.
func ClosestTable(query string, names []string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(names) == 0 {
		return "", false
	}
	best, bestScore := "", 0
	for _, n := range names {
		candidate := strings.ToLower(n)
		score := levenshtein.ComputeDistance(q, candidate)
		if strings.HasPrefix(candidate, q) {
			score = -1
		}
		if best == "" || score < bestScore {
			best, bestScore = n, score
		}
	}
	return best, true
}
