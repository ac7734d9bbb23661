// ABOUTME: Cooperative step-wise driver for the collection state machine
// ABOUTME: Lets a scheduler interleave bounded GC work with other duties

package concurrent

// incrementalBatch is the marking batch size for one Step call, kept small
// so a scheduling quantum stays bounded.
const incrementalBatch = 100

// Incremental drives a collector one bounded unit of work at a time,
// as an alternative to CollectSync or the background worker. Not safe for
// concurrent use; one goroutine owns the stepper.
type Incremental struct {
	gc    *Collector
	state Phase
}

// NewIncremental creates a stepper over gc.
func NewIncremental(gc *Collector) *Incremental {
	return &Incremental{gc: gc, state: Idle}
}

// Step performs one bounded unit of collection work and reports whether a
// full cycle completed on this call. While idle it starts a cycle only
// once the allocation threshold has been crossed.
func (i *Incremental) Step() bool {
	switch i.state {
	case Idle:
		if i.gc.bytesSinceGC.Load() >= i.gc.cfg.GCThreshold {
			i.gc.initialMark()
			i.state = ConcurrentMark
		}
		return false

	case InitialMark:
		i.gc.initialMark()
		i.state = ConcurrentMark
		return false

	case ConcurrentMark:
		if i.gc.markStep(incrementalBatch) {
			i.gc.remark()
			i.state = ConcurrentSweep
		}
		return false

	case Remark:
		i.gc.remark()
		i.state = ConcurrentSweep
		return false

	case ConcurrentSweep:
		// remark already swept when concurrent sweep is disabled.
		if i.gc.Phase() == ConcurrentSweep {
			i.gc.sweep()
		}
		i.state = Idle
		return true
	}
	return false
}

// Start begins a new collection cycle on the next Step call. No-op if a
// cycle is already in progress.
func (i *Incremental) Start() {
	if i.state == Idle {
		i.state = InitialMark
	}
}

// Collecting reports whether a cycle is in progress.
func (i *Incremental) Collecting() bool {
	return i.state != Idle
}
