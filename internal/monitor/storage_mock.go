package monitor

import (
	"context"
	"sync"
)

// MockStorage is an in-memory Storage for tests. It lives in this package
// to avoid import cycles with dependents.
type MockStorage struct {
	mu        sync.Mutex
	snapshots []*Snapshot
}

// NewMockStorage creates a new mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

// StoreSnapshot stores a snapshot in memory.
func (m *MockStorage) StoreSnapshot(ctx context.Context, snapshot *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

// Close is a no-op for mock storage.
func (m *MockStorage) Close() error {
	return nil
}

// Snapshots returns a copy of the stored snapshots.
func (m *MockStorage) Snapshots() []*Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Snapshot, len(m.snapshots))
	copy(out, m.snapshots)
	return out
}
