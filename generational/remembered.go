// ABOUTME: Remembered set of exact old→young pointer edges
// ABOUTME: Entries act as extra roots during minor collection

package generational

import "github.com/prateek/memgc/heap"

// edge is one recorded old→young reference.
type edge struct {
	old   heap.Addr
	young heap.Addr
}

// RememberedSet records the exact set of old→young pointer edges observed
// by the write barrier. Minor GC treats the young side of every entry as
// an additional root.
type RememberedSet struct {
	entries map[edge]struct{}
}

// NewRememberedSet creates an empty remembered set.
func NewRememberedSet() *RememberedSet {
	return &RememberedSet{entries: make(map[edge]struct{})}
}

// Add records an old→young edge. Duplicate edges collapse.
func (s *RememberedSet) Add(old, young heap.Addr) {
	s.entries[edge{old, young}] = struct{}{}
}

// RemoveYoung drops every entry whose young side is the given address,
// used when that object is promoted or freed.
func (s *RememberedSet) RemoveYoung(young heap.Addr) {
	for e := range s.entries {
		if e.young == young {
			delete(s.entries, e)
		}
	}
}

// YoungRoots returns the young side of every entry.
func (s *RememberedSet) YoungRoots() []heap.Addr {
	out := make([]heap.Addr, 0, len(s.entries))
	for e := range s.entries {
		out = append(out, e.young)
	}
	return out
}

// Clear removes all entries.
func (s *RememberedSet) Clear() {
	s.entries = make(map[edge]struct{})
}

// Len returns the number of recorded edges.
func (s *RememberedSet) Len() int {
	return len(s.entries)
}
