// Package repair applies accepted identifier mappings to the dataset and
// drives the end-to-end repair workflow.
//
// # Cascading fixes
//
// Applying a mapping rewrites the mapped reference wherever it is held:
// a product mapping touches customer pricing records and invoice line items,
// a customer mapping touches invoices, payments and parent references, an
// invoice mapping touches payment allocations. Derived identifiers that embed
// the old id as a substring (pricing record ids, price row ids) are rewritten
// in the same pass so they stay consistent with the entity they point at.
// Application is idempotent.
//
// # Workflow
//
// The Runner walks the states
//
//	LOADED -> VERIFIED(n>0) -> MAPPED -> FIXED -> VERIFIED(0, terminal)
//
// short-circuiting at the first verification when the dataset is already
// clean. Unmapped references leave the run in a valid, non-terminal state:
// the remaining mappable references are still fixed, and the leftovers are
// reported for the manual override table.
package repair
