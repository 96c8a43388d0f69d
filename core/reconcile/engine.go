package reconcile

import (
	"sort"
	"strings"
)

// compoundSeparator joins a parent entity and its sub-unit in legacy compound
// ids, e.g. "cust_sportsmans_warehouse__plettenberg_bay".
const compoundSeparator = "__"

// Engine proposes replacement identifiers for dangling references. Propose is
// a pure function of its inputs; applying an accepted mapping is a separate
// step owned by the repair feature.
type Engine struct {
	cfg    Config
	scorer Scorer
}

// NewEngine creates an engine with the given tunables. A nil scorer falls
// back to the Levenshtein default.
func NewEngine(cfg Config, scorer Scorer) *Engine {
	if scorer == nil {
		scorer = LevenshteinScorer{}
	}
	if cfg.MinRefLength <= 0 {
		cfg.MinRefLength = 2
	}
	return &Engine{cfg: cfg, scorer: scorer}
}

// Propose runs the strategy chain for one invalid reference against the valid
// identifier set of its entity type. Strategies run in fixed priority order
// and the first success wins; there is no scoring across strategies.
func (e *Engine) Propose(ref string, valid map[string]struct{}, typ EntityType) Proposal {
	p := Proposal{Ref: ref, Type: typ}

	if len(ref) < e.cfg.MinRefLength {
		p.Outcome = OutcomeSkipped
		return p
	}

	member := func(id string) bool {
		if id == ref {
			// A mapping must never point at itself.
			return false
		}
		_, ok := valid[id]
		return ok
	}

	// Strategy 1: strip the conventional type prefix.
	clean := strings.TrimPrefix(ref, typ.Prefix())
	if clean != ref && member(clean) {
		return accepted(p, clean, "prefix_strip", 0)
	}

	// Strategy 2: compound ids. The last segment is conventionally the most
	// specific sub-unit (branch/location), the first the parent entity.
	if strings.Contains(clean, compoundSeparator) {
		parts := strings.Split(clean, compoundSeparator)
		if last := parts[len(parts)-1]; member(last) {
			return accepted(p, last, "compound_split", 0)
		}
		if first := parts[0]; member(first) {
			return accepted(p, first, "compound_split", 0)
		}
	}

	// Strategy 3: separator normalization variants.
	for _, variant := range []string{
		strings.ReplaceAll(clean, "__", "_"),
		strings.ReplaceAll(clean, "_", ""),
		strings.ReplaceAll(clean, "_", " "),
	} {
		if member(variant) {
			return accepted(p, variant, "normalize", 0)
		}
	}

	// Fuzzy strategies refuse cleaned refs that are too short: a stray
	// character is contained in nearly every candidate.
	if len(clean) < e.cfg.MinRefLength {
		p.Outcome = OutcomeSkipped
		return p
	}

	// Strategy 4a: substring containment in either direction. Candidates are
	// visited in lexicographic order so the result is deterministic.
	candidates := sortedIDs(valid)
	cleanLower := strings.ToLower(clean)
	for _, cand := range candidates {
		if cand == ref {
			continue
		}
		candLower := strings.ToLower(cand)
		if strings.Contains(candLower, cleanLower) || strings.Contains(cleanLower, candLower) {
			return accepted(p, cand, "containment", 0)
		}
	}

	// Strategy 4b: similarity fallback. The best-scoring candidate is
	// auto-accepted only at or above the auto-apply ratio; anything in the
	// suggestion band is surfaced for manual review, never applied.
	var best string
	var bestScore float64
	for _, cand := range candidates {
		if cand == ref {
			continue
		}
		if score := e.scorer.Score(clean, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	switch {
	case best != "" && bestScore >= e.cfg.AutoApplyRatio:
		return accepted(p, best, "similarity", bestScore)
	case best != "" && bestScore >= e.cfg.SuggestRatio:
		p.Outcome = OutcomeSuggested
		p.Target = best
		p.Strategy = "similarity"
		p.Score = bestScore
		return p
	}

	p.Outcome = OutcomeNotFound
	return p
}

func accepted(p Proposal, target, strategy string, score float64) Proposal {
	p.Outcome = OutcomeMapped
	p.Target = target
	p.Strategy = strategy
	p.Score = score
	return p
}

func sortedIDs(valid map[string]struct{}) []string {
	ids := make([]string, 0, len(valid))
	for id := range valid {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
