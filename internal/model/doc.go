// Package model defines the rows the recorder stores.
//
// Conventions:
//   - One poll cycle produces one Snapshot, identified by a uuid.UUID
//   - Outlook rows belong to a snapshot; daily gain rows are keyed by account and day
//   - Symbols are stored upper-case as the API reports them
package model
