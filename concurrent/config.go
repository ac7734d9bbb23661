// ABOUTME: Configuration, statistics, and write barrier entry types
// ABOUTME: Tunables are fixed at collector construction time

package concurrent

import (
	"time"

	"github.com/prateek/memgc/heap"
)

// Config holds the tunable thresholds for the concurrent collector. A
// Config is fixed at construction; zero numeric fields are back-filled
// from DefaultConfig, boolean fields are taken as given.
type Config struct {
	// GCThreshold is the number of bytes allocated since the last
	// collection that triggers a new one.
	GCThreshold uint64
	// TargetPause is the soft deadline for one marking batch. Zero
	// disables the deadline.
	TargetPause time.Duration
	// MaxMarkingSteps bounds how many objects one marking batch scans.
	MaxMarkingSteps int
	// ConcurrentSweep runs the sweep as its own phase after the Remark
	// pause. When false the sweep happens inside the Remark pause and its
	// cost is charged to pause time.
	ConcurrentSweep bool
	// WriteBarrier enables recording of pointer stores during marking.
	// Disabling it is only safe when mutators are quiesced for the whole
	// collection cycle.
	WriteBarrier bool
}

// DefaultConfig returns the standard tuning: 1 MiB allocation threshold,
// 1 ms pause target, 1000-object marking batches, concurrent sweep and
// write barrier enabled.
func DefaultConfig() Config {
	return Config{
		GCThreshold:     1 << 20,
		TargetPause:     time.Millisecond,
		MaxMarkingSteps: 1000,
		ConcurrentSweep: true,
		WriteBarrier:    true,
	}
}

// BarrierEntry records one pointer mutation observed by the write barrier
// during concurrent marking.
type BarrierEntry struct {
	Source    heap.Addr // Object containing the modified pointer slot
	OldTarget heap.Addr // Pointer value before the store
	NewTarget heap.Addr // Pointer value after the store
	Seq       uint64    // Monotonic timestamp of the store
}

// Stats is a snapshot of collector counters. Updated after every phase;
// retrieve with Collector.Stats.
type Stats struct {
	Collections            uint64        // Completed collection cycles
	BytesAllocated         uint64        // Live payload bytes
	ObjectsCount           int           // Live objects
	LastFreed              int           // Objects freed by the last sweep
	LastBytesFreed         uint64        // Bytes freed by the last sweep
	TotalPause             time.Duration // Sum of all STW pauses
	MaxPause               time.Duration // Longest single STW pause
	WriteBarriersProcessed uint64        // Barrier entries drained at remark
	MarkingSteps           uint64        // Objects scanned by the marker
}
