package storage

import (
	"context"

	"github.com/fairdex/auction-monitor/internal/monitor"
)

// Storage is the interface for persisting auction snapshots.
type Storage interface {
	// StoreSnapshot persists one observed auction state.
	StoreSnapshot(ctx context.Context, snapshot *monitor.Snapshot) error

	// Close closes the storage connection.
	Close() error
}
