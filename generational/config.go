// ABOUTME: Configuration and statistics for the generational collector
// ABOUTME: Tunables are fixed at collector construction time

package generational

// Config holds the tunable thresholds for the generational collector.
// Fixed at construction. PromotionAge is taken as given (0 means promote
// on first survival); zero-valued thresholds and sizes fall back to the
// defaults.
type Config struct {
	// YoungThreshold is the young-generation bytes allocated since the
	// last minor GC that trigger a new one.
	YoungThreshold uint64
	// OldThreshold is the old-generation bytes added since the last major
	// GC that trigger a new one.
	OldThreshold uint64
	// PromotionAge is how many consecutive minor collections an object
	// must survive before moving to the old generation.
	PromotionAge uint8
	// CardSize is the card granularity in bytes.
	CardSize uint64
	// MaxHeapSize bounds the address range the card table covers.
	MaxHeapSize uint64
}

// DefaultConfig returns the standard tuning: 256 KiB young threshold,
// 4 MiB old threshold, promotion after 3 survivals, 512-byte cards over a
// 64 MiB range.
func DefaultConfig() Config {
	return Config{
		YoungThreshold: 256 << 10,
		OldThreshold:   4 << 20,
		PromotionAge:   3,
		CardSize:       512,
		MaxHeapSize:    64 << 20,
	}
}

// Stats is a snapshot of collector counters, updated after every
// collection.
type Stats struct {
	MinorCollections  uint64 // Completed minor GCs
	MajorCollections  uint64 // Completed major GCs
	YoungObjects      int    // Live young-generation objects
	OldObjects        int    // Live old-generation objects
	YoungBytes        uint64 // Live young-generation payload bytes
	OldBytes          uint64 // Live old-generation payload bytes
	TotalPromoted     uint64 // Objects promoted young→old
	LastMinorFreed    int    // Objects freed by the last minor GC
	LastMajorFreed    int    // Objects freed by the last major GC
	RememberedSetSize int    // Recorded old→young edges
}
