package reconcile

// EntityType scopes identifiers and mappings to one collection. Mappings for
// different entity types are never interchangeable.
type EntityType string

const (
	EntityProduct  EntityType = "product"
	EntityCustomer EntityType = "customer"
	EntityInvoice  EntityType = "invoice"
	EntityPayment  EntityType = "payment"
)

// Prefix returns the conventional id prefix for the entity type, as used by
// the legacy spreadsheet import.
func (t EntityType) Prefix() string {
	switch t {
	case EntityProduct:
		return "prod_"
	case EntityCustomer:
		return "cust_"
	case EntityInvoice:
		return "inv_"
	case EntityPayment:
		return "pay_"
	}
	return ""
}

// Outcome classifies the result of a mapping proposal.
type Outcome int

const (
	// OutcomeNotFound means every strategy was exhausted without a match.
	// The reference needs a manual override or stays broken and flagged.
	OutcomeNotFound Outcome = iota
	// OutcomeMapped means a strategy produced a target that may be applied.
	OutcomeMapped
	// OutcomeSuggested means the similarity fallback found a candidate below
	// the auto-apply threshold. It must be reviewed by a human, never
	// applied silently.
	OutcomeSuggested
	// OutcomeSkipped means the reference was judged corrupt data (e.g. a
	// single stray character). Distinct from NotFound: no match should ever
	// be attempted for it.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMapped:
		return "mapped"
	case OutcomeSuggested:
		return "suggested"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "not_found"
	}
}

// Proposal is the outcome of running the strategy chain for one dangling
// reference. Target is only set for Mapped and Suggested outcomes.
type Proposal struct {
	Ref      string     `json:"ref"`
	Type     EntityType `json:"type"`
	Outcome  Outcome    `json:"outcome"`
	Target   string     `json:"target,omitempty"`
	Strategy string     `json:"strategy,omitempty"`
	Score    float64    `json:"score,omitempty"`
}

// Mapping is an accepted identifier correction, scoped to one entity type.
// The target must be a member of the reference index at acceptance time;
// a mapping never points at itself or at another invalid identifier.
type Mapping struct {
	Type EntityType `json:"type"`
	From string     `json:"from"`
	To   string     `json:"to"`
}
