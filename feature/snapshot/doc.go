// Package snapshot pushes a full copy of the dataset directory to an
// S3-compatible bucket before a migration run.
//
// Local timestamped backups next to the JSON files remain the default safety
// net; a remote snapshot additionally survives the workstation the repair is
// running on. Each snapshot lives under a timestamped prefix so successive
// runs never overwrite each other.
package snapshot
