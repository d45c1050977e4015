package domain

import "time"

// SyncState is the state of one catalog sync pass. Passes move
// pending -> fetching -> storing -> done; failed is absorbing and a later
// trigger always restarts from fetching.
type SyncState string

const (
	SyncPending  SyncState = "pending"
	SyncFetching SyncState = "fetching"
	SyncStoring  SyncState = "storing"
	SyncDone     SyncState = "done"
	SyncFailed   SyncState = "failed"
)

// SyncReport is a point-in-time snapshot of a sync pass, safe to serialize.
type SyncReport struct {
	ID         string    `json:"id"`
	ShopDomain string    `json:"shop_domain"`
	State      SyncState `json:"state"`
	Stored     int       `json:"stored"`
	Pruned     int64     `json:"pruned,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}
