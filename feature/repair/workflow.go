package repair

import (
	"books-migrator/core/dataset"
	"books-migrator/core/reconcile"
	"books-migrator/feature/integrity"

	"go.uber.org/zap"
)

// State names the stations of the repair workflow:
// LOADED -> VERIFIED(n>0) -> MAPPED -> FIXED -> VERIFIED(0, terminal),
// or LOADED -> VERIFIED(0, terminal) when the dataset is already clean.
type State string

const (
	StateLoaded   State = "LOADED"
	StateVerified State = "VERIFIED"
	StateMapped   State = "MAPPED"
	StateFixed    State = "FIXED"
)

// Result is the outcome of one repair run. Terminal is true only when the
// final verification pass found zero violations; a run left in MAPPED state
// with unmapped references needs manual override input before it can
// progress.
type Result struct {
	State    State
	Terminal bool

	Initial *integrity.Report
	Final   *integrity.Report

	Applied     []reconcile.Mapping
	Suggestions []reconcile.Proposal
	Skipped     []reconcile.Proposal
	Unmapped    []reconcile.Proposal
	Fixes       int
}

// Runner drives the end-to-end repair workflow over a loaded store.
type Runner struct {
	engine    *reconcile.Engine
	overrides Overrides
	logg      *zap.Logger
}

// NewRunner creates a workflow runner.
func NewRunner(engine *reconcile.Engine, overrides Overrides, logg *zap.Logger) *Runner {
	if overrides == nil {
		overrides = Overrides{}
	}
	return &Runner{engine: engine, overrides: overrides, logg: logg}
}

// Run verifies the store, proposes mappings for every dangling reference,
// applies the accepted ones (unless dryRun) and re-verifies. The store is
// mutated in place; saving it is the caller's decision.
func (r *Runner) Run(store *dataset.Store, dryRun bool) *Result {
	result := &Result{State: StateLoaded}

	result.Initial = integrity.Verify(store)
	result.State = StateVerified
	result.Initial.LogSummary(r.logg)

	if result.Initial.Clean() {
		result.Final = result.Initial
		result.Terminal = true
		return result
	}

	r.propose(store, result)
	result.State = StateMapped

	if dryRun {
		r.logg.Info("dry run, store not mutated",
			zap.Int("mappings", len(result.Applied)),
			zap.Int("suggestions", len(result.Suggestions)),
			zap.Int("unmapped", len(result.Unmapped)))
		return result
	}

	result.Fixes = ApplyAll(store, result.Applied)
	result.State = StateFixed
	r.logg.Info("applied mappings",
		zap.Int("mappings", len(result.Applied)),
		zap.Int("fixes", result.Fixes))

	// The index must be rebuilt against post-fix state, which Verify does.
	result.Final = integrity.Verify(store)
	result.State = StateVerified
	result.Final.LogSummary(r.logg)
	result.Terminal = result.Final.Clean()

	return result
}

// propose runs the reconciliation engine over every distinct invalid
// reference, consulting the manual override table first. Mapping targets are
// only accepted if they are members of the current reference index.
func (r *Runner) propose(store *dataset.Store, result *Result) {
	index := store.BuildIndex()

	type scopedRef struct {
		typ reconcile.EntityType
		ref string
	}
	seen := make(map[scopedRef]struct{})

	for _, rel := range integrity.Relationships {
		typ := rel.TargetType()
		valid := validSet(index, typ)

		for _, ref := range result.Initial.InvalidRefs(rel) {
			key := scopedRef{typ: typ, ref: ref}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if target, ok := r.overrides.Lookup(typ, ref); ok {
				if _, exists := valid[target]; exists && target != ref {
					result.Applied = append(result.Applied, reconcile.Mapping{Type: typ, From: ref, To: target})
					continue
				}
				// An override pointing at a non-existent id would just move
				// the dangling reference; refuse it and fall through to the
				// engine.
				r.logg.Warn("override target is not a valid id, ignoring",
					zap.String("type", string(typ)),
					zap.String("from", ref),
					zap.String("to", target))
			}

			proposal := r.engine.Propose(ref, valid, typ)
			switch proposal.Outcome {
			case reconcile.OutcomeMapped:
				result.Applied = append(result.Applied, reconcile.Mapping{Type: typ, From: ref, To: proposal.Target})
			case reconcile.OutcomeSuggested:
				result.Suggestions = append(result.Suggestions, proposal)
			case reconcile.OutcomeSkipped:
				result.Skipped = append(result.Skipped, proposal)
			default:
				result.Unmapped = append(result.Unmapped, proposal)
			}
		}
	}
}

func validSet(index *dataset.Index, t reconcile.EntityType) map[string]struct{} {
	switch t {
	case reconcile.EntityProduct:
		return index.Products
	case reconcile.EntityCustomer:
		return index.Customers
	case reconcile.EntityInvoice:
		return index.Invoices
	case reconcile.EntityPayment:
		return index.Payments
	}
	return nil
}
