// File: physics/contact_tracker.go
package physics

import "sync"

// ContactKey identifies a touching pair. Lo is always the smaller id so the
// key does not depend on the order cp reports the shapes in.
type ContactKey struct {
	Lo BodyID
	Hi BodyID
}

// NewContactKey builds the order-independent key for two bodies.
func NewContactKey(a, b BodyID) ContactKey {
	if a > b {
		a, b = b, a
	}
	return ContactKey{Lo: a, Hi: b}
}

// Involves reports whether id is one side of the pair.
func (k ContactKey) Involves(id BodyID) bool {
	return k.Lo == id || k.Hi == id
}

// ContactTracker manages active contact states using a map.
// It ensures that an action associated with a contact start is triggered
// only once until the contact ends and restarts.
type ContactTracker struct {
	mu     sync.RWMutex
	active map[ContactKey]struct{}
}

// NewContactTracker creates a new, empty tracker.
func NewContactTracker() *ContactTracker {
	return &ContactTracker{
		active: make(map[ContactKey]struct{}),
	}
}

// Begin registers the start of a contact. It returns true if the pair was
// not already touching, meaning the "contact started" action should run.
func (ct *ContactTracker) Begin(key ContactKey) bool {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	if _, exists := ct.active[key]; exists {
		return false
	}
	ct.active[key] = struct{}{}
	return true
}

// End removes a contact registration. Ending an unknown pair is a no-op.
func (ct *ContactTracker) End(key ContactKey) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	delete(ct.active, key)
}

// ForgetBody drops every pair involving id. Called when a body is removed,
// since cp's separate callback can no longer be resolved to an id then.
func (ct *ContactTracker) ForgetBody(id BodyID) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	for key := range ct.active {
		if key.Involves(id) {
			delete(ct.active, key)
		}
	}
}
