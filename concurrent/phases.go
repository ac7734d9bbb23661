// ABOUTME: Collection phase state machine for the concurrent collector
// ABOUTME: Initial mark, concurrent mark, remark, and sweep

package concurrent

import (
	"time"

	"github.com/prateek/memgc/heap"
)

// Phase identifies where the collector is in a collection cycle.
type Phase int32

const (
	// Idle means no collection is in progress.
	Idle Phase = iota
	// InitialMark is the brief pause that whitens the heap and greys the
	// roots.
	InitialMark
	// ConcurrentMark traces the object graph alongside mutators.
	ConcurrentMark
	// Remark is the brief pause that drains the write barrier and
	// finishes marking.
	Remark
	// ConcurrentSweep reclaims unmarked objects alongside mutators.
	ConcurrentSweep
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case InitialMark:
		return "InitialMark"
	case ConcurrentMark:
		return "ConcurrentMark"
	case Remark:
		return "Remark"
	case ConcurrentSweep:
		return "ConcurrentSweep"
	}
	return "Unknown"
}

// Phase returns the collector's current phase.
func (c *Collector) Phase() Phase {
	return Phase(c.phase.Load())
}

// CollectSync runs a full collection cycle on the calling goroutine,
// bypassing the background worker. Requesting a collection while one is
// already running elsewhere is not supported through this entry point; it
// exists for explicit triggers and tests.
func (c *Collector) CollectSync() {
	c.initialMark()
	c.markFull()
	c.remark()
	if c.Phase() == ConcurrentSweep {
		c.sweep()
	}
}

// initialMark whitens every object, greys the rooted ones, and seeds the
// gray worklist. Runs as a stop-the-world pause; the embedding runtime is
// expected to have quiesced mutators.
func (c *Collector) initialMark() {
	start := time.Now()
	c.phase.Store(int32(InitialMark))

	c.mu.RLock()
	for _, obj := range c.objects {
		obj.setColor(White)
	}
	c.mu.RUnlock()

	c.grayMu.Lock()
	c.gray = nil
	c.grayMu.Unlock()

	roots := c.roots.Snapshot()
	c.mu.RLock()
	for _, addr := range roots {
		if obj := c.objects[addr]; obj != nil && obj.casColor(White, Gray) {
			c.pushGray(addr)
		}
	}
	c.mu.RUnlock()

	c.phase.Store(int32(ConcurrentMark))
	c.recordPause(time.Since(start))
}

// markStep scans up to maxSteps gray objects, greying their White children
// and blackening each scanned object. The configured pause target bounds
// the batch as a soft deadline. Returns true when the worklist is empty.
func (c *Collector) markStep(maxSteps int) bool {
	var deadline time.Time
	if c.cfg.TargetPause > 0 {
		deadline = time.Now().Add(c.cfg.TargetPause)
	}

	for steps := 0; steps < maxSteps; steps++ {
		addr, ok := c.popGray()
		if !ok {
			return true
		}

		for _, child := range c.scanObject(addr) {
			c.mu.RLock()
			obj := c.objects[child]
			c.mu.RUnlock()
			if obj != nil && obj.casColor(White, Gray) {
				c.pushGray(child)
			}
		}

		c.mu.RLock()
		obj := c.objects[addr]
		c.mu.RUnlock()
		if obj != nil {
			obj.setColor(Black)
		}

		c.statsMu.Lock()
		c.stats.MarkingSteps++
		c.statsMu.Unlock()

		if !deadline.IsZero() && time.Now().After(deadline) {
			return false
		}
	}
	return false
}

// markFull drains the gray worklist to a fixed point.
func (c *Collector) markFull() {
	for !c.markStep(c.cfg.MaxMarkingSteps) {
	}
}

// scanObject conservatively scans an object's payload for words that are
// valid heap addresses.
func (c *Collector) scanObject(addr heap.Addr) []heap.Addr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	obj := c.objects[addr]
	if obj == nil {
		return nil
	}
	return heap.ScanWords(obj.Data, func(w heap.Addr) bool {
		_, ok := c.objects[w]
		return ok
	})
}

// remark drains the write barrier buffer, greys any still-White targets,
// and finishes marking. Runs as a stop-the-world pause. With concurrent
// sweep disabled the sweep also happens here, inside the pause.
func (c *Collector) remark() {
	start := time.Now()
	c.phase.Store(int32(Remark))

	c.barrierMu.Lock()
	entries := c.barrier
	c.barrier = nil
	c.barrierMu.Unlock()

	c.statsMu.Lock()
	c.stats.WriteBarriersProcessed += uint64(len(entries))
	c.statsMu.Unlock()

	for _, entry := range entries {
		if entry.NewTarget == 0 {
			continue
		}
		c.mu.RLock()
		obj := c.objects[entry.NewTarget]
		c.mu.RUnlock()
		if obj != nil && obj.casColor(White, Gray) {
			c.pushGray(entry.NewTarget)
		}
	}

	c.markFull()

	if !c.cfg.ConcurrentSweep {
		c.sweep()
		c.recordPause(time.Since(start))
		return
	}

	c.phase.Store(int32(ConcurrentSweep))
	c.recordPause(time.Since(start))
}

// sweep removes every still-White object from the heap, updates stats, and
// returns the collector to Idle.
func (c *Collector) sweep() {
	var freed []heap.Addr
	var bytesFreed uint64

	c.mu.RLock()
	for addr, obj := range c.objects {
		if obj.getColor() == White {
			freed = append(freed, addr)
			bytesFreed += obj.Size
		}
	}
	c.mu.RUnlock()

	c.mu.Lock()
	for _, addr := range freed {
		delete(c.objects, addr)
	}
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.Collections++
	c.stats.LastFreed = len(freed)
	c.stats.LastBytesFreed = bytesFreed
	if bytesFreed > c.stats.BytesAllocated {
		c.stats.BytesAllocated = 0
	} else {
		c.stats.BytesAllocated -= bytesFreed
	}
	if len(freed) > c.stats.ObjectsCount {
		c.stats.ObjectsCount = 0
	} else {
		c.stats.ObjectsCount -= len(freed)
	}
	c.statsMu.Unlock()

	c.bytesSinceGC.Store(0)
	c.phase.Store(int32(Idle))
}

func (c *Collector) recordPause(d time.Duration) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	c.stats.TotalPause += d
	if d > c.stats.MaxPause {
		c.stats.MaxPause = d
	}
}
