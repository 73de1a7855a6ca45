package domain

import "context"

// SnapshotCache stores the most recent listing snapshot per marketplace so a
// failed fetch can fall back to slightly stale data instead of an empty
// market. Entries carry a TTL; Get returns ErrNotFound for missing or
// expired snapshots.
type SnapshotCache interface {
	Set(ctx context.Context, snap Snapshot) error
	Get(ctx context.Context, market Market) (Snapshot, error)
}

// SignalBus provides pub/sub fan-out of scan events to the WebSocket hub and
// any other in-process or cross-process consumers.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
