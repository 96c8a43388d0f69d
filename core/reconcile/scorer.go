package reconcile

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer rates the similarity of two identifiers in [0, 1]. The engine's
// control flow never depends on the algorithm, so thresholds and scoring can
// be swapped without touching the strategy chain.
type Scorer interface {
	Name() string
	Score(a, b string) float64
}

// LevenshteinScorer scores by normalized edit distance, case-insensitive.
type LevenshteinScorer struct{}

func (LevenshteinScorer) Name() string { return "levenshtein" }

func (LevenshteinScorer) Score(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
