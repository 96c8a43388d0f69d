package integrity

import (
	"fmt"
	"io"
	"sort"

	"books-migrator/core/reconcile"
)

// Relationship identifies one of the six reference kinds the verifier walks.
type Relationship string

const (
	RelCustomerProduct Relationship = "customer->product"
	RelInvoiceCustomer Relationship = "invoice->customer"
	RelInvoiceProduct  Relationship = "invoice->product"
	RelPaymentCustomer Relationship = "payment->customer"
	RelPaymentInvoice  Relationship = "payment->invoice"
	RelCustomerParent  Relationship = "customer->parent"
)

// Relationships is the stable report ordering.
var Relationships = []Relationship{
	RelCustomerProduct,
	RelInvoiceCustomer,
	RelInvoiceProduct,
	RelPaymentCustomer,
	RelPaymentInvoice,
	RelCustomerParent,
}

// TargetType returns the entity type a relationship points at, which scopes
// any mapping proposed for its violations.
func (r Relationship) TargetType() reconcile.EntityType {
	switch r {
	case RelCustomerProduct, RelInvoiceProduct:
		return reconcile.EntityProduct
	case RelInvoiceCustomer, RelPaymentCustomer, RelCustomerParent:
		return reconcile.EntityCustomer
	case RelPaymentInvoice:
		return reconcile.EntityInvoice
	}
	return ""
}

// Violation is one dangling reference found by the verifier.
type Violation struct {
	HolderType   string `json:"holder_type"`
	HolderID     string `json:"holder_id"`
	FieldPath    string `json:"field_path"`
	InvalidValue string `json:"invalid_value"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %q field %s references invalid id %q",
		v.HolderType, v.HolderID, v.FieldPath, v.InvalidValue)
}

// Report is the full verification result, grouped by relationship kind.
// A zero Total is the terminal success state; any downstream upload must
// refuse to run while Total > 0.
type Report struct {
	RunID      string                       `json:"run_id"`
	Violations map[Relationship][]Violation `json:"violations"`
	Total      int                          `json:"total"`
}

func (r *Report) add(rel Relationship, v Violation) {
	r.Violations[rel] = append(r.Violations[rel], v)
	r.Total++
}

// Clean reports whether the dataset passed every check.
func (r *Report) Clean() bool {
	return r.Total == 0
}

// InvalidRefs returns the distinct invalid identifiers found for a
// relationship, sorted for deterministic processing.
func (r *Report) InvalidRefs(rel Relationship) []string {
	seen := make(map[string]struct{})
	for _, v := range r.Violations[rel] {
		seen[v.InvalidValue] = struct{}{}
	}
	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// sampleLimit bounds how many violation descriptions are printed per
// relationship kind. The full report is available as JSON.
const sampleLimit = 5

// Write renders the grouped console report.
func (r *Report) Write(w io.Writer) {
	fmt.Fprintln(w, "=== Integrity Verification Report ===")
	fmt.Fprintf(w, "Run: %s\n\n", r.RunID)

	for _, rel := range Relationships {
		violations := r.Violations[rel]
		if len(violations) == 0 {
			fmt.Fprintf(w, "%-20s OK\n", rel)
			continue
		}
		fmt.Fprintf(w, "%-20s %d violations\n", rel, len(violations))
		for i, v := range violations {
			if i == sampleLimit {
				fmt.Fprintf(w, "    ... and %d more\n", len(violations)-sampleLimit)
				break
			}
			fmt.Fprintf(w, "    %s\n", v)
		}
	}

	fmt.Fprintln(w)
	if r.Clean() {
		fmt.Fprintln(w, "Status: ALL CLEAR - dataset is ready for migration")
	} else {
		fmt.Fprintf(w, "Status: FAILED - %d total violations, migration must not proceed\n", r.Total)
	}
}
