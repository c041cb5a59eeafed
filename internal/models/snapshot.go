// internal/models/snapshot.go
package models

import "time"

// SnapshotVersion tags the export format.
const SnapshotVersion = "1.0"

// Snapshot is a read-only dump of both stores.
type Snapshot struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Products   []Product `json:"products"`
	Sales      []Sale    `json:"sales"`
}
