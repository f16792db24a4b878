// Package unmatched tracks display names that failed to resolve so an
// operator can extend the registry or alias table.
package unmatched

import (
	"context"
	"sort"
	"sync"
)

// InMemoryTracker is a process-local set of unmatched names.
type InMemoryTracker struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewInMemory returns an empty tracker.
func NewInMemory() *InMemoryTracker {
	return &InMemoryTracker{names: make(map[string]struct{})}
}

// Record stores rawName verbatim. Duplicates collapse; blank names are
// ignored.
func (t *InMemoryTracker) Record(_ context.Context, rawName string) error {
	if rawName == "" {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names[rawName] = struct{}{}
	return nil
}

// List returns a sorted copy of the set.
func (t *InMemoryTracker) List(_ context.Context) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.names))
	for name := range t.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Count returns the set size.
func (t *InMemoryTracker) Count(_ context.Context) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int64(len(t.names)), nil
}

// Clear empties the set.
func (t *InMemoryTracker) Clear(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names = make(map[string]struct{})
	return nil
}
