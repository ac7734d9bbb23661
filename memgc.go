// ABOUTME: Root package for the memgc garbage collection library
// ABOUTME: Declares the mutation contract shared by both collector designs

// Package memgc provides two self-contained garbage collector designs
// behind one mutation contract: a concurrent tri-color incremental
// mark-sweep collector (package concurrent) and a synchronous generational
// collector with card marking and age-based promotion (package
// generational). Both allocate raw byte payloads addressed by opaque
// handles and find pointers by conservative payload scanning.
package memgc

import (
	"github.com/prateek/memgc/concurrent"
	"github.com/prateek/memgc/generational"
	"github.com/prateek/memgc/heap"
)

// Version is the semantic version of the memgc library
const Version = "0.1.0-dev"

// Collector is the contract both designs expose to the embedding runtime.
// The compiler collaborator emits calls to Alloc at allocation sites and
// WriteBarrier at every pointer-typed field store; omitting a barrier call
// is an undetected correctness bug, not a runtime error.
type Collector interface {
	// Alloc allocates a zeroed object and returns its opaque address.
	Alloc(size uint64, typeID uint32) heap.Addr

	// AddRoot declares an always-reachable address. Idempotent.
	AddRoot(addr heap.Addr)

	// RemoveRoot retracts a root declaration. No-op for unknown addresses.
	RemoveRoot(addr heap.Addr)

	// WriteBarrier records a pointer store of newTarget over oldTarget
	// into a slot of source.
	WriteBarrier(source, oldTarget, newTarget heap.Addr)

	// IsAlive reports whether addr identifies a live object.
	IsAlive(addr heap.Addr) bool

	// ObjectCount returns the number of live objects.
	ObjectCount() int
}

// Both designs satisfy the shared contract.
var (
	_ Collector = (*concurrent.Collector)(nil)
	_ Collector = (*generational.Collector)(nil)
)
