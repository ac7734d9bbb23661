// ABOUTME: Root set tracking for always-reachable addresses
// ABOUTME: Mutex-guarded set with idempotent add/remove semantics

package heap

import "sync"

// RootSet holds the addresses the caller has declared always reachable
// (stack slots, globals). Safe for concurrent use.
type RootSet struct {
	mu    sync.RWMutex
	addrs map[Addr]struct{}
}

// NewRootSet creates an empty root set.
func NewRootSet() *RootSet {
	return &RootSet{addrs: make(map[Addr]struct{})}
}

// Add registers a root. Adding the null address or an already-registered
// address is a no-op.
func (r *RootSet) Add(addr Addr) {
	if addr == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addrs[addr] = struct{}{}
}

// Remove unregisters a root. Removing an address that was never registered
// is a no-op.
func (r *RootSet) Remove(addr Addr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.addrs, addr)
}

// Contains reports whether addr is currently a root.
func (r *RootSet) Contains(addr Addr) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.addrs[addr]
	return ok
}

// Len returns the number of registered roots.
func (r *RootSet) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.addrs)
}

// Snapshot returns a copy of the current roots.
func (r *RootSet) Snapshot() []Addr {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Addr, 0, len(r.addrs))
	for addr := range r.addrs {
		out = append(out, addr)
	}
	return out
}
