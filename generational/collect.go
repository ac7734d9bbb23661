// ABOUTME: Minor and major collection for the generational collector
// ABOUTME: Worklist marking, age-based promotion, and remembered set rebuild

package generational

import "github.com/prateek/memgc/heap"

// CollectMinor collects the young generation only. Reachability starts
// from the roots that point into the young generation plus every young
// address recorded in the remembered set. Survivors age by one; survivors
// whose age reaches the promotion threshold move to the old generation.
// If promotions push the old generation past its threshold, a major
// collection runs before this call returns.
func (c *Collector) CollectMinor() {
	c.stats.MinorCollections++

	for _, obj := range c.young {
		obj.marked = false
	}

	var work []heap.Addr
	for _, addr := range c.roots.Snapshot() {
		if c.inYoung(addr) {
			work = append(work, addr)
		}
	}
	work = append(work, c.remembered.YoungRoots()...)
	c.markYoung(work)

	var toPromote, toFree []heap.Addr
	for addr, obj := range c.young {
		if obj.marked {
			obj.bumpAge()
			if obj.age >= c.cfg.PromotionAge {
				toPromote = append(toPromote, addr)
			}
		} else {
			toFree = append(toFree, addr)
		}
	}

	for _, addr := range toPromote {
		c.promote(addr)
	}

	for _, addr := range toFree {
		obj := c.young[addr]
		delete(c.young, addr)
		c.stats.YoungObjects--
		c.stats.YoungBytes -= obj.Size
		c.remembered.RemoveYoung(addr)
	}
	c.stats.LastMinorFreed = len(toFree)

	c.cards.ClearAll()
	c.youngBytesSinceGC = 0

	if c.oldBytesSinceGC >= c.cfg.OldThreshold {
		c.CollectMajor()
	}
	c.stats.RememberedSetSize = c.remembered.Len()
}

// CollectMajor collects both generations. Reachability starts from the
// roots alone: the whole heap is in scope, so remembered edges are
// subsumed by tracing. Afterwards the remembered set and card table are
// rebuilt from scratch by conservatively scanning every surviving old
// object for young addresses.
func (c *Collector) CollectMajor() {
	c.stats.MajorCollections++

	for _, obj := range c.young {
		obj.marked = false
	}
	for _, obj := range c.old {
		obj.marked = false
	}

	c.markAll(c.roots.Snapshot())

	freed := 0
	for addr, obj := range c.young {
		if !obj.marked {
			delete(c.young, addr)
			c.stats.YoungObjects--
			c.stats.YoungBytes -= obj.Size
			c.remembered.RemoveYoung(addr)
			freed++
		}
	}
	for addr, obj := range c.old {
		if !obj.marked {
			delete(c.old, addr)
			c.stats.OldObjects--
			c.stats.OldBytes -= obj.Size
			freed++
		}
	}
	c.stats.LastMajorFreed = freed

	c.remembered.Clear()
	c.cards.ClearAll()
	for addr, obj := range c.old {
		for _, child := range heap.ScanWords(obj.Data, c.inYoung) {
			c.remembered.Add(addr, child)
			c.cards.MarkDirty(uint64(addr))
		}
	}

	c.oldBytesSinceGC = 0
	c.stats.RememberedSetSize = c.remembered.Len()
}

// CollectFull runs a minor collection followed by a major one.
func (c *Collector) CollectFull() {
	c.CollectMinor()
	c.CollectMajor()
}

// promote transfers a young survivor to the old generation and drops its
// young-side bookkeeping.
func (c *Collector) promote(addr heap.Addr) {
	obj := c.young[addr]
	delete(c.young, addr)
	obj.gen = Old

	c.stats.YoungObjects--
	c.stats.YoungBytes -= obj.Size
	c.stats.OldObjects++
	c.stats.OldBytes += obj.Size
	c.stats.TotalPromoted++
	c.oldBytesSinceGC += obj.Size

	c.remembered.RemoveYoung(addr)
	c.old[addr] = obj
}

// markYoung marks every young object reachable from the worklist through
// young→young edges. An explicit worklist keeps deep object graphs from
// growing the call stack.
func (c *Collector) markYoung(work []heap.Addr) {
	for len(work) > 0 {
		addr := work[len(work)-1]
		work = work[:len(work)-1]

		obj, ok := c.young[addr]
		if !ok || obj.marked {
			continue
		}
		obj.marked = true
		work = append(work, heap.ScanWords(obj.Data, c.inYoung)...)
	}
}

// markAll marks every object reachable from the worklist across both
// generations.
func (c *Collector) markAll(work []heap.Addr) {
	for len(work) > 0 {
		addr := work[len(work)-1]
		work = work[:len(work)-1]

		obj := c.lookup(addr)
		if obj == nil || obj.marked {
			continue
		}
		obj.marked = true
		work = append(work, heap.ScanWords(obj.Data, c.inHeap)...)
	}
}
