package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{MinRefLength: 2, AutoApplyRatio: 0.5, SuggestRatio: 0.3}
}

func idSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestPropose_PrefixStrip(t *testing.T) {
	engine := NewEngine(testConfig(), nil)
	valid := idSet("plettenberg_bay", "stellenbosch")

	p := engine.Propose("cust_plettenberg_bay", valid, EntityCustomer)

	assert.Equal(t, OutcomeMapped, p.Outcome)
	assert.Equal(t, "plettenberg_bay", p.Target)
	assert.Equal(t, "prefix_strip", p.Strategy)
}

func TestPropose_PrefixStripWrongType(t *testing.T) {
	// A product-scoped lookup must not strip the customer prefix.
	engine := NewEngine(testConfig(), nil)
	valid := idSet("widget")

	p := engine.Propose("cust_widget", valid, EntityProduct)

	// "cust_widget" minus "prod_" is unchanged, so only the fuzzy strategies
	// remain and containment does not fire either direction.
	assert.NotEqual(t, "prefix_strip", p.Strategy)
}

func TestPropose_CompoundSplitLastSegment(t *testing.T) {
	engine := NewEngine(testConfig(), nil)
	valid := idSet("plettenberg_bay", "george")

	p := engine.Propose("cust_sportsmans_warehouse__plettenberg_bay", valid, EntityCustomer)

	assert.Equal(t, OutcomeMapped, p.Outcome)
	assert.Equal(t, "plettenberg_bay", p.Target)
	assert.Equal(t, "compound_split", p.Strategy)
}

func TestPropose_CompoundSplitFallsBackToParent(t *testing.T) {
	engine := NewEngine(testConfig(), nil)
	valid := idSet("sportsmans_warehouse")

	p := engine.Propose("cust_sportsmans_warehouse__knysna", valid, EntityCustomer)

	assert.Equal(t, OutcomeMapped, p.Outcome)
	assert.Equal(t, "sportsmans_warehouse", p.Target)
	assert.Equal(t, "compound_split", p.Strategy)
}

func TestPropose_NormalizationVariants(t *testing.T) {
	engine := NewEngine(testConfig(), nil)

	tests := []struct {
		name   string
		ref    string
		valid  map[string]struct{}
		target string
	}{
		{"collapse double underscore", "mossel__bay", idSet("mossel_bay"), "mossel_bay"},
		{"strip underscores", "out_ray", idSet("outray"), "outray"},
		{"underscores to spaces", "cape_town", idSet("cape town"), "cape town"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := engine.Propose(tt.ref, tt.valid, EntityCustomer)
			require.Equal(t, OutcomeMapped, p.Outcome)
			assert.Equal(t, tt.target, p.Target)
			assert.Equal(t, "normalize", p.Strategy)
		})
	}
}

func TestPropose_SingleCharacterSkipped(t *testing.T) {
	engine := NewEngine(testConfig(), nil)
	valid := idSet("velvet", "valve")

	p := engine.Propose("v", valid, EntityProduct)

	// Corrupt data, not a missed match: no target may ever be proposed.
	assert.Equal(t, OutcomeSkipped, p.Outcome)
	assert.Empty(t, p.Target)
}

func TestPropose_ShortCleanedRefSkipped(t *testing.T) {
	engine := NewEngine(testConfig(), nil)
	valid := idSet("velvet")

	// Long enough raw, but the prefix strip leaves one character.
	p := engine.Propose("prod_v", valid, EntityProduct)

	assert.Equal(t, OutcomeSkipped, p.Outcome)
}

func TestPropose_ContainmentBothDirections(t *testing.T) {
	engine := NewEngine(testConfig(), nil)

	// Reference contained in a candidate.
	p := engine.Propose("outray", idSet("prod_outray", "braai_tas"), EntityProduct)
	require.Equal(t, OutcomeMapped, p.Outcome)
	assert.Equal(t, "prod_outray", p.Target)
	assert.Equal(t, "containment", p.Strategy)

	// Candidate contained in the reference.
	p = engine.Propose("outray_deluxe_edition", idSet("outray", "braai_tas"), EntityProduct)
	require.Equal(t, OutcomeMapped, p.Outcome)
	assert.Equal(t, "outray", p.Target)
}

func TestPropose_ContainmentDeterministic(t *testing.T) {
	engine := NewEngine(testConfig(), nil)
	// Both candidates contain the reference; the lexicographically first one
	// must win on every run.
	valid := idSet("outray_b", "outray_a")

	for range 20 {
		p := engine.Propose("outray", valid, EntityProduct)
		require.Equal(t, OutcomeMapped, p.Outcome)
		assert.Equal(t, "outray_a", p.Target)
	}
}

func TestPropose_SimilarityAutoApply(t *testing.T) {
	engine := NewEngine(testConfig(), nil)
	valid := idSet("stellenbosch")

	// One transposition away: well above the auto-apply ratio.
	p := engine.Propose("stellenbsoch", valid, EntityCustomer)

	require.Equal(t, OutcomeMapped, p.Outcome)
	assert.Equal(t, "stellenbosch", p.Target)
	assert.Equal(t, "similarity", p.Strategy)
	assert.GreaterOrEqual(t, p.Score, 0.5)
}

func TestPropose_SimilaritySuggestionBand(t *testing.T) {
	// With a raised auto-apply bar the same match becomes a suggestion and is
	// never auto-applied.
	cfg := testConfig()
	cfg.AutoApplyRatio = 0.99
	engine := NewEngine(cfg, nil)
	valid := idSet("stellenbosch")

	p := engine.Propose("stellenbsoch", valid, EntityCustomer)

	assert.Equal(t, OutcomeSuggested, p.Outcome)
	assert.Equal(t, "stellenbosch", p.Target)
	assert.Equal(t, "similarity", p.Strategy)
}

func TestPropose_NotFound(t *testing.T) {
	engine := NewEngine(testConfig(), nil)
	valid := idSet("zzzzzzzzzzzz")

	p := engine.Propose("abcdefgh", valid, EntityProduct)

	assert.Equal(t, OutcomeNotFound, p.Outcome)
	assert.Empty(t, p.Target)
}

func TestPropose_NeverMapsToItself(t *testing.T) {
	engine := NewEngine(testConfig(), nil)

	// The reference itself being in the candidate set must not short-circuit
	// any strategy into an identity mapping.
	p := engine.Propose("outray", idSet("outray"), EntityProduct)
	assert.NotEqual(t, "outray", p.Target)
	assert.NotEqual(t, OutcomeMapped, p.Outcome)
}

func TestNewEngine_Defaults(t *testing.T) {
	engine := NewEngine(Config{}, nil)

	// Zero-value config still refuses single-character references.
	p := engine.Propose("v", idSet("velvet"), EntityProduct)
	assert.Equal(t, OutcomeSkipped, p.Outcome)
}
