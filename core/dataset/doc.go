// Package dataset holds the in-memory entity store for the invoicing
// dataset: products, customers, invoices and payments, loaded from one JSON
// file per collection.
//
// # Shapes
//
// Collection files exist in two layouts, a flat array of records and an
// object keyed by record id (products additionally nested under a "products"
// wrapper key by the legacy export). Both are accepted transparently and
// normalized to an ordered record list with an id lookup. The original shape
// and record order are remembered and reproduced on save, so a load/save
// cycle with no mutations leaves a file's structure untouched.
//
// # Reference Index
//
// BuildIndex derives the per-type sets of valid identifiers from current
// store state. The index is the ground truth both for the integrity verifier
// and for accepting reconciliation mappings, and must be rebuilt after every
// fix pass.
//
// # Backups
//
// Save takes a timestamped sibling copy of every file before mutating it in
// place, enabling manual rollback by file replacement.
package dataset
