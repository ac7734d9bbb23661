// ABOUTME: Conservative pointer scanning over raw object payloads
// ABOUTME: Treats aligned words as candidate addresses validated by heap membership

package heap

import "encoding/binary"

// ScanWords reads every aligned word of a payload and returns the ones the
// valid callback accepts as live heap addresses. The null word is never a
// candidate; a trailing partial word is ignored. A non-pointer word that
// happens to match a live address is reported as a child, which can only
// extend liveness, never corrupt it.
func ScanWords(data []byte, valid func(Addr) bool) []Addr {
	var children []Addr
	for off := 0; off+WordSize <= len(data); off += WordSize {
		word := Addr(binary.LittleEndian.Uint64(data[off:]))
		if word != 0 && valid(word) {
			children = append(children, word)
		}
	}
	return children
}

// PutAddr stores an address into a payload word at the given byte offset.
func PutAddr(data []byte, offset int, addr Addr) {
	binary.LittleEndian.PutUint64(data[offset:], uint64(addr))
}

// GetAddr reads the address stored at the given byte offset.
func GetAddr(data []byte, offset int) Addr {
	return Addr(binary.LittleEndian.Uint64(data[offset:]))
}
