package model

// indexer interface is design to give a unique bit position to a weekly block and vice versa
type indexer interface {
	// Returns the bit position of the block at the given day and 1-based slot
	Index(day, slot uint64) uint64
	// Returns the day and 1-based slot of a bit position
	Attributes(index uint64) (day uint64, slot uint64)
}

var slotIndexer = newIndexer(Days, SlotsPerDay)

func newIndexer(days, slots uint64) indexer {
	return &indexerImplementation{
		days:  days,
		slots: slots,
	}
}

type indexerImplementation struct {
	days  uint64
	slots uint64
}

// Day-major, slot-minor. Slots are numbered from 1 while bits start at 0
func (indexer *indexerImplementation) Index(day, slot uint64) uint64 {
	return day*indexer.slots + slot - 1
}

func (indexer *indexerImplementation) Attributes(index uint64) (day, slot uint64) {
	day = index / indexer.slots
	slot = index%indexer.slots + 1
	return day, slot
}
