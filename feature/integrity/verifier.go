package integrity

import (
	"fmt"

	"books-migrator/core/dataset"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Verify walks all six relationship kinds across the four collections and
// reports every dangling reference. It has no side effects: violations are
// accumulated so one run yields the complete picture, never just the first
// problem.
func Verify(store *dataset.Store) *Report {
	index := store.BuildIndex()
	report := &Report{
		RunID:      uuid.NewString(),
		Violations: make(map[Relationship][]Violation),
	}

	// customer -> product (custom pricing records) and customer -> parent
	for _, c := range store.Customers.All() {
		for i, pricing := range c.CustomProductPricing {
			if dangling(pricing.ProductID, index.Products) {
				report.add(RelCustomerProduct, Violation{
					HolderType:   "customer",
					HolderID:     c.ID,
					FieldPath:    fmt.Sprintf("customProductPricing[%d].productId", i),
					InvalidValue: pricing.ProductID,
				})
			}
		}
		if dangling(c.ParentCompanyID, index.Customers) {
			report.add(RelCustomerParent, Violation{
				HolderType:   "customer",
				HolderID:     c.ID,
				FieldPath:    "parentCompanyId",
				InvalidValue: c.ParentCompanyID,
			})
		}
	}

	// invoice -> customer and invoice -> product (line items)
	for _, inv := range store.Invoices.All() {
		if dangling(inv.CustomerID, index.Customers) {
			report.add(RelInvoiceCustomer, Violation{
				HolderType:   "invoice",
				HolderID:     inv.ID,
				FieldPath:    "customerId",
				InvalidValue: inv.CustomerID,
			})
		}
		for i, item := range inv.LineItems {
			if dangling(item.ProductID, index.Products) {
				report.add(RelInvoiceProduct, Violation{
					HolderType:   "invoice",
					HolderID:     inv.ID,
					FieldPath:    fmt.Sprintf("lineItems[%d].productId", i),
					InvalidValue: item.ProductID,
				})
			}
		}
	}

	// payment -> customer and payment -> invoice (allocations)
	for _, p := range store.Payments.All() {
		if dangling(p.CustomerID, index.Customers) {
			report.add(RelPaymentCustomer, Violation{
				HolderType:   "payment",
				HolderID:     p.ID,
				FieldPath:    "customerId",
				InvalidValue: p.CustomerID,
			})
		}
		for i, alloc := range p.Allocations {
			if dangling(alloc.InvoiceID, index.Invoices) {
				report.add(RelPaymentInvoice, Violation{
					HolderType:   "payment",
					HolderID:     p.ID,
					FieldPath:    fmt.Sprintf("allocations[%d].invoiceId", i),
					InvalidValue: alloc.InvoiceID,
				})
			}
		}
	}

	return report
}

// dangling reports whether ref is present but does not resolve. An empty
// reference means the relationship is absent, which is not a violation.
func dangling(ref string, valid map[string]struct{}) bool {
	if ref == "" {
		return false
	}
	_, ok := valid[ref]
	return !ok
}

// LogSummary emits the per-relationship counts as structured fields.
func (r *Report) LogSummary(logg *zap.Logger) {
	fields := make([]zap.Field, 0, len(Relationships)+1)
	for _, rel := range Relationships {
		fields = append(fields, zap.Int(string(rel), len(r.Violations[rel])))
	}
	fields = append(fields, zap.Int("total", r.Total))
	if r.Clean() {
		logg.Info("integrity verification passed", fields...)
	} else {
		logg.Warn("integrity verification found violations", fields...)
	}
}
