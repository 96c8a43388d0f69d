// Package integrity validates the referential integrity of the invoicing
// dataset before it may be uploaded to the document database.
//
// # Relationships checked
//
//   - customer -> product: every custom pricing record's productId
//   - invoice -> customer: the invoice's customerId
//   - invoice -> product: every line item's productId
//   - payment -> customer: the payment's customerId
//   - payment -> invoice: every allocation's invoiceId
//   - customer -> parent: the optional parentCompanyId self-reference
//
// Verify is a read-only pass over the store. Every dangling reference is
// collected into a Report grouped by relationship kind; nothing aborts early,
// so a single run always yields the complete picture. A report with zero
// total violations is the terminal success state required before migration.
package integrity
