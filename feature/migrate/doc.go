// Package migrate uploads the repaired dataset to the document database.
//
// The Client interface is the upstream collaborator of the reconciliation
// core: ClearCollection and UploadCollection against the four target
// collections, implemented for Firestore. The service re-verifies the store
// and refuses to touch the remote database while any integrity violation is
// outstanding; uploads then run in dependency order (products, customers,
// invoices, payments) so references always point at documents that already
// exist.
package migrate
