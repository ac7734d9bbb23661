// ABOUTME: Core object model for the managed heap
// ABOUTME: Defines Addr handles, Object records, and the AddrSpace allocator

// Package heap provides the object model shared by both collector designs:
// opaque addresses, object records with raw byte payloads, root tracking,
// and conservative payload scanning.
package heap

import "sync/atomic"

// WordSize is the size in bytes of an address-sized word in object payloads.
const WordSize = 8

// Addr is an opaque address-sized handle identifying a heap object.
// The zero Addr is the null address and never identifies an object.
type Addr uint64

// Object represents a single managed allocation: header fields plus a raw
// byte payload. The payload is owned by the collector until the object is
// swept.
type Object struct {
	Addr   Addr   // Identity of this object
	Size   uint64 // Payload size in bytes
	TypeID uint32 // Type tag supplied by the caller, for diagnostics
	Data   []byte // Payload, zeroed at allocation
}

// NewObject creates an object with a zeroed payload of size bytes.
func NewObject(addr Addr, size uint64, typeID uint32) *Object {
	return &Object{
		Addr:   addr,
		Size:   size,
		TypeID: typeID,
		Data:   make([]byte, size),
	}
}

// AddrSpace hands out fresh object addresses. Each reservation occupies a
// disjoint word-aligned address range, so card indexing by address is well
// defined. Reservations never return the null address.
type AddrSpace struct {
	base Addr
	next atomic.Uint64
}

// NewAddrSpace creates an address space starting at base. A zero base is
// bumped to the first word so the null address is never handed out.
func NewAddrSpace(base Addr) *AddrSpace {
	if base == 0 {
		base = WordSize
	}
	s := &AddrSpace{base: base}
	s.next.Store(uint64(base))
	return s
}

// Reserve returns a fresh address and consumes size bytes of address space,
// rounded up to the word size. Zero-sized objects still consume one word so
// their addresses stay distinct. Safe for concurrent use.
func (s *AddrSpace) Reserve(size uint64) Addr {
	span := (size + WordSize - 1) &^ (WordSize - 1)
	if span == 0 {
		span = WordSize
	}
	return Addr(s.next.Add(span) - span)
}

// Base returns the first address this space hands out.
func (s *AddrSpace) Base() Addr {
	return s.base
}

// Used returns the bytes of address space consumed so far.
func (s *AddrSpace) Used() uint64 {
	return s.next.Load() - uint64(s.base)
}
