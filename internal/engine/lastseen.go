package engine

import "sync"

// lastSeenMap remembers the assignee last observed for each external lead so
// detection can tell a genuinely new assignment from a lead that merely stayed
// put between polls. It is process-local and lost on restart.
type lastSeenMap struct {
	mu   sync.Mutex
	seen map[string]string
}

func newLastSeenMap() *lastSeenMap {
	return &lastSeenMap{seen: make(map[string]string)}
}

// Changed reports whether the lead is being seen for the first time or has a
// different assignee than last observed.
func (m *lastSeenMap) Changed(externalID, assigneeID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.seen[externalID]
	return !ok || prev != assigneeID
}

// Observe records the current assignee for the lead.
func (m *lastSeenMap) Observe(externalID, assigneeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen[externalID] = assigneeID
}
