// ABOUTME: Concurrent tri-color mark-sweep collector core
// ABOUTME: Heap map, root tracking, allocation trigger, and write barrier

// Package concurrent implements a tri-color incremental mark-sweep garbage
// collector. Most tracing work runs concurrently with mutator goroutines;
// a write barrier keeps the tri-color invariant intact while they mutate.
//
// A collection cycle moves through the phases
// Idle → InitialMark → ConcurrentMark → Remark → ConcurrentSweep → Idle.
// InitialMark and Remark are brief pauses during which the embedding
// runtime is expected to quiesce mutators; the other phases tolerate
// concurrent allocation and (barrier-protected) pointer stores.
package concurrent

import (
	"sync"
	"sync/atomic"

	"github.com/prateek/memgc/heap"
)

// Color is the tri-color marking state of one object.
type Color int32

const (
	// White marks an object not yet visited by tracing.
	White Color = iota
	// Gray marks an object reachable but not yet scanned.
	Gray
	// Black marks an object whose children have all been marked.
	Black
)

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Gray:
		return "Gray"
	case Black:
		return "Black"
	}
	return "Unknown"
}

// object pairs a heap record with its tracing state. The color has its own
// atomic cell so unrelated mark operations never serialize on a shared
// lock.
type object struct {
	*heap.Object
	color atomic.Int32
}

func (o *object) getColor() Color {
	return Color(o.color.Load())
}

func (o *object) setColor(c Color) {
	o.color.Store(int32(c))
}

func (o *object) casColor(from, to Color) bool {
	return o.color.CompareAndSwap(int32(from), int32(to))
}

// Collector is a concurrent tri-color mark-sweep garbage collector.
// Alloc and WriteBarrier may be called from any goroutine.
type Collector struct {
	cfg Config

	mu      sync.RWMutex // guards objects
	objects map[heap.Addr]*object

	roots *heap.RootSet
	addrs *heap.AddrSpace

	grayMu sync.Mutex // guards gray
	gray   []heap.Addr

	barrierMu sync.Mutex // guards barrier
	barrier   []BarrierEntry

	phase atomic.Int32

	statsMu sync.Mutex // guards stats
	stats   Stats

	bytesSinceGC atomic.Uint64
	seq          atomic.Uint64

	down  atomic.Bool
	reqMu sync.Mutex
	req   *sync.Cond
}

// New creates a collector with DefaultConfig.
func New() *Collector {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a collector with the given configuration. Zero
// numeric fields fall back to the defaults.
func NewWithConfig(cfg Config) *Collector {
	def := DefaultConfig()
	if cfg.GCThreshold == 0 {
		cfg.GCThreshold = def.GCThreshold
	}
	if cfg.MaxMarkingSteps == 0 {
		cfg.MaxMarkingSteps = def.MaxMarkingSteps
	}

	c := &Collector{
		cfg:     cfg,
		objects: make(map[heap.Addr]*object),
		roots:   heap.NewRootSet(),
		addrs:   heap.NewAddrSpace(0),
	}
	c.req = sync.NewCond(&c.reqMu)
	return c
}

// Alloc allocates a zeroed object of size bytes and returns its address.
// The new object starts White. Allocation never fails; crossing the
// configured threshold requests an asynchronous collection.
func (c *Collector) Alloc(size uint64, typeID uint32) heap.Addr {
	if c.bytesSinceGC.Add(size) >= c.cfg.GCThreshold {
		c.RequestCollection()
	}

	addr := c.addrs.Reserve(size)
	obj := &object{Object: heap.NewObject(addr, size, typeID)}

	c.mu.Lock()
	c.objects[addr] = obj
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.BytesAllocated += size
	c.stats.ObjectsCount++
	c.statsMu.Unlock()

	return addr
}

// AddRoot declares addr always reachable. Idempotent; the null address is
// ignored.
func (c *Collector) AddRoot(addr heap.Addr) {
	c.roots.Add(addr)
}

// RemoveRoot retracts a root declaration. Removing an unknown address is a
// no-op.
func (c *Collector) RemoveRoot(addr heap.Addr) {
	c.roots.Remove(addr)
}

// WriteBarrier must be called on every store of a pointer-typed field.
// It records the mutation and, if the new target is still White, greys it
// immediately so a Black source can never hold the only reference to an
// unmarked object. Stores outside the ConcurrentMark phase need no
// recording: marking either has not begun (the next InitialMark whitens
// and re-traces everything) or has already accounted for the edge.
func (c *Collector) WriteBarrier(source, oldTarget, newTarget heap.Addr) {
	if !c.cfg.WriteBarrier {
		return
	}
	if c.Phase() != ConcurrentMark {
		return
	}

	entry := BarrierEntry{
		Source:    source,
		OldTarget: oldTarget,
		NewTarget: newTarget,
		Seq:       c.seq.Add(1),
	}
	c.barrierMu.Lock()
	c.barrier = append(c.barrier, entry)
	c.barrierMu.Unlock()

	if newTarget == 0 {
		return
	}
	c.mu.RLock()
	obj := c.objects[newTarget]
	c.mu.RUnlock()
	if obj != nil && obj.casColor(White, Gray) {
		c.pushGray(newTarget)
	}
}

// RequestCollection asks the background worker to start a cycle. A request
// while a collection is already running is a no-op.
func (c *Collector) RequestCollection() {
	if c.phase.CompareAndSwap(int32(Idle), int32(InitialMark)) {
		c.reqMu.Lock()
		c.req.Signal()
		c.reqMu.Unlock()
	}
}

// Shutdown stops the background worker. It takes effect at the worker's
// next wait point; a collection already in progress runs to completion.
func (c *Collector) Shutdown() {
	c.down.Store(true)
	c.reqMu.Lock()
	c.req.Broadcast()
	c.reqMu.Unlock()
}

// IsAlive reports whether addr identifies a live object.
func (c *Collector) IsAlive(addr heap.Addr) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.objects[addr]
	return ok
}

// ObjectCount returns the number of live objects.
func (c *Collector) ObjectCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}

// SizeOf returns the payload size of a live object, or 0 for an unknown
// address.
func (c *Collector) SizeOf(addr heap.Addr) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if obj := c.objects[addr]; obj != nil {
		return obj.Size
	}
	return 0
}

// TypeOf returns the type tag of a live object, or 0 for an unknown
// address.
func (c *Collector) TypeOf(addr heap.Addr) uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if obj := c.objects[addr]; obj != nil {
		return obj.TypeID
	}
	return 0
}

// Stats returns a snapshot of the collector counters.
func (c *Collector) Stats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// StoreWord writes an address-sized value into an object's payload at the
// given byte offset. Pointer stores must be followed by WriteBarrier per
// the mutation contract; omitting the barrier is an undetected correctness
// bug. Out-of-range offsets and unknown addresses are ignored.
func (c *Collector) StoreWord(addr heap.Addr, offset int, value heap.Addr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	obj := c.objects[addr]
	if obj == nil || offset < 0 || offset+heap.WordSize > len(obj.Data) {
		return
	}
	heap.PutAddr(obj.Data, offset, value)
}

// LoadWord reads the address-sized value at the given byte offset, or 0
// for an unknown address or out-of-range offset.
func (c *Collector) LoadWord(addr heap.Addr, offset int) heap.Addr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	obj := c.objects[addr]
	if obj == nil || offset < 0 || offset+heap.WordSize > len(obj.Data) {
		return 0
	}
	return heap.GetAddr(obj.Data, offset)
}

// ReferencePath returns one shortest root→…→target reference chain, or nil
// if target is unreachable from the roots. Diagnostic aid for answering
// "why is this object still alive".
func (c *Collector) ReferencePath(target heap.Addr) []heap.Addr {
	roots := c.roots.Snapshot()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return heap.FindPath(roots, func(addr heap.Addr) []heap.Addr {
		obj := c.objects[addr]
		if obj == nil {
			return nil
		}
		return heap.ScanWords(obj.Data, func(w heap.Addr) bool {
			_, ok := c.objects[w]
			return ok
		})
	}, target)
}

func (c *Collector) pushGray(addr heap.Addr) {
	c.grayMu.Lock()
	c.gray = append(c.gray, addr)
	c.grayMu.Unlock()
}

func (c *Collector) popGray() (heap.Addr, bool) {
	c.grayMu.Lock()
	defer c.grayMu.Unlock()
	if len(c.gray) == 0 {
		return 0, false
	}
	addr := c.gray[0]
	c.gray = c.gray[1:]
	return addr, true
}
