// Package repositories implements SQLite persistence for the upload history.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [UploadRepository] : Upload history with per-item and per-library lookups plus aggregate stats
//
// Sequence numbers provide stable, human-readable ordering (e.g., upload #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
