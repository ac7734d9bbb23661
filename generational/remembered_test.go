// ABOUTME: Tests for the remembered set
// ABOUTME: Validates edge recording, deduplication, and young-side removal

package generational

import "testing"

func TestRememberedSetAddAndRoots(t *testing.T) {
	rs := NewRememberedSet()

	rs.Add(100, 200)
	rs.Add(100, 300)
	rs.Add(400, 200)

	if rs.Len() != 3 {
		t.Errorf("Expected 3 edges, got %d", rs.Len())
	}

	young := rs.YoungRoots()
	found := make(map[uint64]bool)
	for _, y := range young {
		found[uint64(y)] = true
	}
	if !found[200] || !found[300] {
		t.Errorf("Expected young roots to contain 200 and 300, got %v", young)
	}
}

func TestRememberedSetDeduplicates(t *testing.T) {
	rs := NewRememberedSet()

	rs.Add(100, 200)
	rs.Add(100, 200)

	if rs.Len() != 1 {
		t.Errorf("Expected duplicate edge to collapse, got %d entries", rs.Len())
	}
}

func TestRememberedSetRemoveYoung(t *testing.T) {
	rs := NewRememberedSet()

	rs.Add(100, 200)
	rs.Add(100, 300)
	rs.Add(400, 200)

	// Drops every edge whose young side is 200, from any old source
	rs.RemoveYoung(200)

	if rs.Len() != 1 {
		t.Errorf("Expected 1 edge after RemoveYoung, got %d", rs.Len())
	}
	young := rs.YoungRoots()
	if len(young) != 1 || young[0] != 300 {
		t.Errorf("Expected remaining young root 300, got %v", young)
	}
}

func TestRememberedSetClear(t *testing.T) {
	rs := NewRememberedSet()

	rs.Add(100, 200)
	rs.Clear()

	if rs.Len() != 0 {
		t.Errorf("Expected empty set after Clear, got %d", rs.Len())
	}
	if len(rs.YoungRoots()) != 0 {
		t.Errorf("Expected no young roots, got %v", rs.YoungRoots())
	}
}
