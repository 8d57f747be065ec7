package server

import (
	"sync"
	"time"

	"github.com/bidouilles/ios-simulator-mcp/internal/tree"
)

// snapshotEntry holds the last indexed UI snapshot for one device.
type snapshotEntry struct {
	elements  []tree.IndexedElement
	timestamp time.Time
}

// snapshotCache keeps the most recent indexed snapshot per device so that
// index-addressed tools (tap by index, find_element follow-ups) resolve
// against the exact snapshot the agent last saw. Indices are only
// meaningful against the snapshot that produced them, so any gesture or
// app action invalidates the device's entry.
type snapshotCache struct {
	mu      sync.Mutex
	entries map[string]snapshotEntry
}

func newSnapshotCache() *snapshotCache {
	return &snapshotCache{entries: make(map[string]snapshotEntry)}
}

// put stores a fresh snapshot for the device.
func (c *snapshotCache) put(udid string, elements []tree.IndexedElement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[udid] = snapshotEntry{elements: elements, timestamp: time.Now()}
}

// get returns the last snapshot for the device, or nil when none exists.
func (c *snapshotCache) get(udid string) []tree.IndexedElement {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[udid]; ok {
		return entry.elements
	}
	return nil
}

// invalidate drops the device's snapshot after a state-changing action.
func (c *snapshotCache) invalidate(udid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, udid)
}
