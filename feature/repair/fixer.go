package repair

import (
	"strings"

	"books-migrator/core/dataset"
	"books-migrator/core/reconcile"
)

// Apply rewrites every occurrence of a mapping's source identifier across the
// store and returns the number of holder records fixed.
//
// Derived identifiers that embed the old id as a substring (a customer's
// pricing record id and its nested price row ids are built from the product
// id) are rewritten together with the reference itself. The substring rewrite
// is gated on the reference field matching the mapping source, which makes
// Apply idempotent: once the reference holds the target id, a second
// application finds nothing to match.
//
// Precondition (caller's responsibility, per the engine's contract): the
// mapping target is already a member of the reference index. Apply therefore
// never introduces a new dangling reference.
func Apply(store *dataset.Store, m reconcile.Mapping) int {
	switch m.Type {
	case reconcile.EntityProduct:
		return applyProduct(store, m)
	case reconcile.EntityCustomer:
		return applyCustomer(store, m)
	case reconcile.EntityInvoice:
		return applyInvoice(store, m)
	}
	// Nothing references payments.
	return 0
}

// ApplyAll applies a batch of accepted mappings and returns the total fix
// count.
func ApplyAll(store *dataset.Store, mappings []reconcile.Mapping) int {
	fixes := 0
	for _, m := range mappings {
		fixes += Apply(store, m)
	}
	return fixes
}

func applyProduct(store *dataset.Store, m reconcile.Mapping) int {
	fixes := 0
	for _, c := range store.Customers.All() {
		for i := range c.CustomProductPricing {
			pricing := &c.CustomProductPricing[i]
			if pricing.ProductID != m.From {
				continue
			}
			pricing.ProductID = m.To
			pricing.ID = strings.ReplaceAll(pricing.ID, m.From, m.To)
			for j := range pricing.Prices {
				pricing.Prices[j].ID = strings.ReplaceAll(pricing.Prices[j].ID, m.From, m.To)
			}
			fixes++
		}
	}
	for _, inv := range store.Invoices.All() {
		for i := range inv.LineItems {
			if inv.LineItems[i].ProductID == m.From {
				inv.LineItems[i].ProductID = m.To
				fixes++
			}
		}
	}
	return fixes
}

func applyCustomer(store *dataset.Store, m reconcile.Mapping) int {
	fixes := 0
	for _, inv := range store.Invoices.All() {
		if inv.CustomerID == m.From {
			inv.CustomerID = m.To
			fixes++
		}
	}
	for _, p := range store.Payments.All() {
		if p.CustomerID == m.From {
			p.CustomerID = m.To
			fixes++
		}
	}
	for _, c := range store.Customers.All() {
		if c.ParentCompanyID == m.From {
			c.ParentCompanyID = m.To
			fixes++
		}
	}
	return fixes
}

func applyInvoice(store *dataset.Store, m reconcile.Mapping) int {
	fixes := 0
	for _, p := range store.Payments.All() {
		for i := range p.Allocations {
			if p.Allocations[i].InvoiceID == m.From {
				p.Allocations[i].InvoiceID = m.To
				fixes++
			}
		}
	}
	return fixes
}
