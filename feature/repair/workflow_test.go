package repair

import (
	"testing"

	"books-migrator/core/reconcile"
	"books-migrator/feature/integrity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRunner(overrides Overrides) *Runner {
	engine := reconcile.NewEngine(reconcile.Config{
		MinRefLength:   2,
		AutoApplyRatio: 0.5,
		SuggestRatio:   0.3,
	}, nil)
	return NewRunner(engine, overrides, zap.NewNop())
}

func TestRun_RepairsToTerminalState(t *testing.T) {
	store := brokenStore()
	result := testRunner(nil).Run(store, false)

	assert.Equal(t, StateVerified, result.State)
	assert.True(t, result.Terminal)
	assert.Equal(t, 6, result.Initial.Total)
	require.NotNil(t, result.Final)
	assert.Zero(t, result.Final.Total)

	// One mapping per distinct invalid id, not per occurrence.
	assert.Len(t, result.Applied, 3)
	assert.Equal(t, 6, result.Fixes)
	assert.Empty(t, result.Unmapped)

	// The store itself is clean now.
	assert.True(t, integrity.Verify(store).Clean())
}

func TestRun_CleanDatasetIsImmediatelyTerminal(t *testing.T) {
	store := brokenStore()
	require.True(t, testRunner(nil).Run(store, false).Terminal)

	// Second run over the repaired store converges without any work.
	result := testRunner(nil).Run(store, false)
	assert.True(t, result.Terminal)
	assert.Equal(t, StateVerified, result.State)
	assert.Empty(t, result.Applied)
	assert.Zero(t, result.Fixes)
	assert.Same(t, result.Initial, result.Final)
}

func TestRun_DryRunDoesNotMutate(t *testing.T) {
	store := brokenStore()
	result := testRunner(nil).Run(store, true)

	assert.Equal(t, StateMapped, result.State)
	assert.False(t, result.Terminal)
	assert.Nil(t, result.Final)
	assert.Len(t, result.Applied, 3)
	assert.Zero(t, result.Fixes)

	// The dangling references are still in place.
	inv, _ := store.Invoices.Get("inv_001")
	assert.Equal(t, "cust_stellenbosch", inv.CustomerID)
	assert.Equal(t, 6, integrity.Verify(store).Total)
}

func TestRun_UnmappableReferenceLeftForOverride(t *testing.T) {
	store := brokenStore()
	// Nothing in the customer index resembles this.
	store.Invoices.All()[0].CustomerID = "zzqq99xx"

	result := testRunner(nil).Run(store, false)

	assert.False(t, result.Terminal)
	assert.Equal(t, StateVerified, result.State)
	require.Len(t, result.Unmapped, 1)
	assert.Equal(t, "zzqq99xx", result.Unmapped[0].Ref)
	assert.Equal(t, reconcile.EntityCustomer, result.Unmapped[0].Type)
}

func TestRun_OverrideTableWins(t *testing.T) {
	store := brokenStore()
	store.Invoices.All()[0].CustomerID = "zzqq99xx"

	overrides := Overrides{
		reconcile.EntityCustomer: {"zzqq99xx": "plettenberg_bay"},
	}
	result := testRunner(overrides).Run(store, false)

	assert.True(t, result.Terminal)
	inv, _ := store.Invoices.Get("inv_001")
	assert.Equal(t, "plettenberg_bay", inv.CustomerID)
}

func TestRun_OverrideWithInvalidTargetIgnored(t *testing.T) {
	store := brokenStore()
	store.Invoices.All()[0].CustomerID = "zzqq99xx"

	// An override pointing at a non-member id would just relocate the
	// dangling reference; the engine is consulted instead.
	overrides := Overrides{
		reconcile.EntityCustomer: {"zzqq99xx": "no_such_customer"},
	}
	result := testRunner(overrides).Run(store, false)

	assert.False(t, result.Terminal)
	require.Len(t, result.Unmapped, 1)
	inv, _ := store.Invoices.Get("inv_001")
	assert.Equal(t, "zzqq99xx", inv.CustomerID)
}

func TestRun_CorruptReferenceSkipped(t *testing.T) {
	store := brokenStore()
	store.Invoices.All()[0].LineItems[0].ProductID = "v"

	result := testRunner(nil).Run(store, false)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "v", result.Skipped[0].Ref)
	// A skipped reference is corrupt data, never mapped, so the run cannot
	// reach the terminal state.
	assert.False(t, result.Terminal)
}

func TestRun_SuggestionsNeverAutoApplied(t *testing.T) {
	store := brokenStore()
	// Raise the bar so the similarity matches land in the suggestion band.
	engine := reconcile.NewEngine(reconcile.Config{
		MinRefLength:   2,
		AutoApplyRatio: 0.999,
		SuggestRatio:   0.3,
	}, nil)
	runner := NewRunner(engine, nil, zap.NewNop())

	result := runner.Run(store, false)

	assert.NotEmpty(t, result.Suggestions)
	for _, s := range result.Suggestions {
		for _, m := range result.Applied {
			assert.NotEqual(t, s.Ref, m.From)
		}
	}
}
