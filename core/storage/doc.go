// Package storage provides the object-storage client used for remote dataset
// snapshots.
//
// Local timestamped backups next to the JSON files are the default safety
// net; the storage client additionally lets an operator push a full snapshot
// of the data directory to an S3-compatible bucket before a migration run.
// The Client interface is deliberately small (bucket check/create, put, list)
// and has a testify mock under mocks/ for tests.
package storage
