package reconcile

// Config holds the tunables of the reconciliation engine.
type Config struct {
	// MinRefLength is the minimum length of a reference (and of its cleaned
	// form) before fuzzy strategies will consider it. Anything shorter is
	// treated as corrupt data and skipped.
	MinRefLength int `mapstructure:"min_ref_length" default:"2"`
	// AutoApplyRatio is the similarity score at or above which the best
	// candidate is accepted without review.
	AutoApplyRatio float64 `mapstructure:"auto_apply_ratio" default:"0.5"`
	// SuggestRatio is the similarity score at or above which a candidate is
	// surfaced as a manual-review suggestion.
	SuggestRatio float64 `mapstructure:"suggest_ratio" default:"0.3"`
}
