// ABOUTME: Generational collector core with young/old split and promotion
// ABOUTME: Single-threaded allocation, write barrier, and introspection

// Package generational implements a generational garbage collector: new
// objects land in a small young generation that is collected often and
// cheaply, survivors are promoted to an old generation collected rarely.
// A card table and remembered set make old→young references visible to
// minor collections without scanning the old generation.
//
// The collector is single-threaded by design: all mutation (Alloc,
// AddRoot, WriteBarrier, collections) must happen on the one
// mutator/collector goroutine, and every collection is a synchronous
// stop-the-world pause relative to it.
package generational

import (
	"math"

	"github.com/prateek/memgc/heap"
)

// Generation identifies which generation an object belongs to.
type Generation int

const (
	// Young holds new objects; collected frequently.
	Young Generation = iota
	// Old holds promoted long-lived objects; collected rarely.
	Old
)

// String returns the generation name.
func (g Generation) String() string {
	switch g {
	case Young:
		return "Young"
	case Old:
		return "Old"
	}
	return "Unknown"
}

// object pairs a heap record with its generational bookkeeping.
type object struct {
	*heap.Object
	marked bool
	age    uint8
	gen    Generation
}

// Collector is a generational garbage collector.
type Collector struct {
	cfg Config

	young map[heap.Addr]*object
	old   map[heap.Addr]*object

	roots *heap.RootSet
	addrs *heap.AddrSpace

	remembered *RememberedSet
	cards      *CardTable

	stats Stats

	youngBytesSinceGC uint64
	oldBytesSinceGC   uint64
}

// New creates a collector with DefaultConfig.
func New() *Collector {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a collector with the given configuration. Zero
// thresholds and sizes fall back to the defaults; PromotionAge is taken as
// given.
func NewWithConfig(cfg Config) *Collector {
	def := DefaultConfig()
	if cfg.YoungThreshold == 0 {
		cfg.YoungThreshold = def.YoungThreshold
	}
	if cfg.OldThreshold == 0 {
		cfg.OldThreshold = def.OldThreshold
	}
	if cfg.CardSize == 0 {
		cfg.CardSize = def.CardSize
	}
	if cfg.MaxHeapSize == 0 {
		cfg.MaxHeapSize = def.MaxHeapSize
	}

	addrs := heap.NewAddrSpace(0)
	cards := NewCardTable(cfg.MaxHeapSize, cfg.CardSize)
	cards.SetBase(uint64(addrs.Base()))

	return &Collector{
		cfg:        cfg,
		young:      make(map[heap.Addr]*object),
		old:        make(map[heap.Addr]*object),
		roots:      heap.NewRootSet(),
		addrs:      addrs,
		remembered: NewRememberedSet(),
		cards:      cards,
	}
}

// Alloc allocates a zeroed object in the young generation and returns its
// address. Crossing the young threshold runs a minor collection
// synchronously before the new object is created, so the newborn can never
// be swept by the collection its own allocation triggered.
func (c *Collector) Alloc(size uint64, typeID uint32) heap.Addr {
	c.youngBytesSinceGC += size
	if c.youngBytesSinceGC >= c.cfg.YoungThreshold {
		c.CollectMinor()
	}

	addr := c.addrs.Reserve(size)
	c.young[addr] = &object{
		Object: heap.NewObject(addr, size, typeID),
		gen:    Young,
	}
	c.stats.YoungObjects++
	c.stats.YoungBytes += size
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

// WriteBarrier must be called on every store of a pointer-typed field. If
// the source object lives in the old generation and the new target in the
// young generation, the edge is recorded in the remembered set and the
// source's card is dirtied. This is the only path by which an
// inter-generational edge becomes visible to a future minor GC; omitting
// the call after such a store can cause premature collection of a live
// young object. oldTarget is unused by this design.
func (c *Collector) WriteBarrier(source, oldTarget, newTarget heap.Addr) {
	if newTarget == 0 {
		return
	}
	_, sourceIsOld := c.old[source]
	_, targetIsYoung := c.young[newTarget]
	if sourceIsOld && targetIsYoung {
		c.remembered.Add(source, newTarget)
		c.cards.MarkDirty(uint64(source))
	}
}

// IsAlive reports whether addr identifies a live object in either
// generation.
func (c *Collector) IsAlive(addr heap.Addr) bool {
	return c.lookup(addr) != nil
}

// GenerationOf returns the generation of a live object. The second return
// is false for unknown addresses.
func (c *Collector) GenerationOf(addr heap.Addr) (Generation, bool) {
	if _, ok := c.young[addr]; ok {
		return Young, true
	}
	if _, ok := c.old[addr]; ok {
		return Old, true
	}
	return Young, false
}

// AgeOf returns how many minor collections a live object has survived.
// The second return is false for unknown addresses.
func (c *Collector) AgeOf(addr heap.Addr) (uint8, bool) {
	obj := c.lookup(addr)
	if obj == nil {
		return 0, false
	}
	return obj.age, true
}

// ObjectCount returns the number of live objects across both generations.
func (c *Collector) ObjectCount() int {
	return len(c.young) + len(c.old)
}

// Stats returns a snapshot of the collector counters.
func (c *Collector) Stats() Stats {
	return c.stats
}

// DirtyCards returns the indices of the card table's dirty cards, for
// cross-checking against the remembered set.
func (c *Collector) DirtyCards() []int {
	return c.cards.DirtyCards()
}

// StoreWord writes an address-sized value into an object's payload at the
// given byte offset. Pointer stores must be followed by WriteBarrier per
// the mutation contract. Out-of-range offsets and unknown addresses are
// ignored.
func (c *Collector) StoreWord(addr heap.Addr, offset int, value heap.Addr) {
	obj := c.lookup(addr)
	if obj == nil || offset < 0 || offset+heap.WordSize > len(obj.Data) {
		return
	}
	heap.PutAddr(obj.Data, offset, value)
}

// LoadWord reads the address-sized value at the given byte offset, or 0
// for an unknown address or out-of-range offset.
func (c *Collector) LoadWord(addr heap.Addr, offset int) heap.Addr {
	obj := c.lookup(addr)
	if obj == nil || offset < 0 || offset+heap.WordSize > len(obj.Data) {
		return 0
	}
	return heap.GetAddr(obj.Data, offset)
}

// ReferencePath returns one shortest root→…→target reference chain across
// both generations, or nil if target is unreachable from the roots.
func (c *Collector) ReferencePath(target heap.Addr) []heap.Addr {
	return heap.FindPath(c.roots.Snapshot(), func(addr heap.Addr) []heap.Addr {
		obj := c.lookup(addr)
		if obj == nil {
			return nil
		}
		return heap.ScanWords(obj.Data, c.inHeap)
	}, target)
}

func (c *Collector) lookup(addr heap.Addr) *object {
	if obj, ok := c.young[addr]; ok {
		return obj
	}
	return c.old[addr]
}

func (c *Collector) inYoung(addr heap.Addr) bool {
	_, ok := c.young[addr]
	return ok
}

func (c *Collector) inHeap(addr heap.Addr) bool {
	if _, ok := c.young[addr]; ok {
		return true
	}
	_, ok := c.old[addr]
	return ok
}

// bumpAge increments a survivor's age, saturating instead of wrapping.
func (o *object) bumpAge() {
	if o.age < math.MaxUint8 {
		o.age++
	}
}
