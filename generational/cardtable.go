// ABOUTME: Card table tracking dirty heap regions for the write barrier
// ABOUTME: One byte per fixed-size card, indexed by address offset

package generational

// CardTable divides the heap address range into fixed-size cards and
// tracks which of them may contain old→young pointers. Marking is cheap
// and coarse: the barrier dirties the whole card containing the store.
type CardTable struct {
	cards    []byte // 0 = clean, 1 = dirty
	cardSize uint64
	base     uint64
}

// NewCardTable creates a table covering heapSize bytes with the given card
// size.
func NewCardTable(heapSize, cardSize uint64) *CardTable {
	numCards := (heapSize + cardSize - 1) / cardSize
	return &CardTable{
		cards:    make([]byte, numCards),
		cardSize: cardSize,
	}
}

// SetBase sets the base address of the covered heap region.
func (t *CardTable) SetBase(base uint64) {
	t.base = base
}

// MarkDirty marks the card containing addr as dirty. Addresses outside the
// covered range are ignored.
func (t *CardTable) MarkDirty(addr uint64) {
	if addr < t.base {
		return
	}
	card := (addr - t.base) / t.cardSize
	if card < uint64(len(t.cards)) {
		t.cards[card] = 1
	}
}

// IsDirty reports whether the card containing addr is dirty. Addresses
// outside the covered range are clean.
func (t *CardTable) IsDirty(addr uint64) bool {
	if addr < t.base {
		return false
	}
	card := (addr - t.base) / t.cardSize
	return card < uint64(len(t.cards)) && t.cards[card] != 0
}

// ClearAll resets every card to clean.
func (t *CardTable) ClearAll() {
	for i := range t.cards {
		t.cards[i] = 0
	}
}

// DirtyCards returns the indices of all dirty cards.
func (t *CardTable) DirtyCards() []int {
	var dirty []int
	for i, v := range t.cards {
		if v != 0 {
			dirty = append(dirty, i)
		}
	}
	return dirty
}

// CardRange returns the [start, end) address range of a card index.
func (t *CardTable) CardRange(card int) (uint64, uint64) {
	start := t.base + uint64(card)*t.cardSize
	return start, start + t.cardSize
}

// NumCards returns how many cards the table covers.
func (t *CardTable) NumCards() int {
	return len(t.cards)
}
