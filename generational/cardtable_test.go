// ABOUTME: Tests for the card table
// ABOUTME: Validates card granularity, dirty tracking, and clearing

package generational

import "testing"

func TestCardTableMarkAndCheck(t *testing.T) {
	ct := NewCardTable(4096, 512)
	ct.SetBase(0)

	if ct.IsDirty(100) {
		t.Error("Expected fresh table to be clean")
	}

	ct.MarkDirty(100)

	// The whole containing card [0, 512) is dirty
	if !ct.IsDirty(100) {
		t.Error("Expected address 100 to be dirty")
	}
	if !ct.IsDirty(0) {
		t.Error("Expected address 0 to be dirty (same card)")
	}
	if !ct.IsDirty(511) {
		t.Error("Expected address 511 to be dirty (same card)")
	}

	// The next card is untouched
	if ct.IsDirty(512) {
		t.Error("Expected address 512 to be clean (different card)")
	}
}

func TestCardTableDirtyCardsAndClear(t *testing.T) {
	ct := NewCardTable(4096, 512)
	ct.SetBase(0)

	ct.MarkDirty(100)
	ct.MarkDirty(512)
	ct.MarkDirty(513) // same card as 512

	dirty := ct.DirtyCards()
	if len(dirty) != 2 {
		t.Fatalf("Expected 2 dirty cards, got %v", dirty)
	}
	if dirty[0] != 0 || dirty[1] != 1 {
		t.Errorf("Expected cards [0 1], got %v", dirty)
	}

	ct.ClearAll()
	if ct.IsDirty(100) || ct.IsDirty(512) {
		t.Error("Expected all cards clean after ClearAll")
	}
	if len(ct.DirtyCards()) != 0 {
		t.Errorf("Expected no dirty cards, got %v", ct.DirtyCards())
	}
}

func TestCardTableBaseOffset(t *testing.T) {
	ct := NewCardTable(4096, 512)
	ct.SetBase(0x1000)

	// Below the base: ignored, reads clean
	ct.MarkDirty(0x500)
	if ct.IsDirty(0x500) {
		t.Error("Expected address below base to stay clean")
	}

	ct.MarkDirty(0x1000 + 600)
	if !ct.IsDirty(0x1000 + 512) {
		t.Error("Expected card 1 to be dirty")
	}
	if ct.IsDirty(0x1000) {
		t.Error("Expected card 0 to be clean")
	}
}

func TestCardTableOutOfRange(t *testing.T) {
	ct := NewCardTable(1024, 512)
	ct.SetBase(0)

	if ct.NumCards() != 2 {
		t.Errorf("Expected 2 cards, got %d", ct.NumCards())
	}

	// Past the covered range: ignored
	ct.MarkDirty(4096)
	if ct.IsDirty(4096) {
		t.Error("Expected out-of-range address to stay clean")
	}
	if len(ct.DirtyCards()) != 0 {
		t.Errorf("Expected no dirty cards, got %v", ct.DirtyCards())
	}
}

func TestCardTableRoundsUpCardCount(t *testing.T) {
	ct := NewCardTable(1000, 512)
	if ct.NumCards() != 2 {
		t.Errorf("Expected 1000 bytes to need 2 cards, got %d", ct.NumCards())
	}
}

func TestCardRange(t *testing.T) {
	ct := NewCardTable(4096, 512)
	ct.SetBase(0x1000)

	start, end := ct.CardRange(2)
	if start != 0x1000+1024 {
		t.Errorf("Expected card 2 to start at %#x, got %#x", 0x1000+1024, start)
	}
	if end != start+512 {
		t.Errorf("Expected card 2 to end at %#x, got %#x", start+512, end)
	}
}
