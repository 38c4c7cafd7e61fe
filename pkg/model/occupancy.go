package model

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	Days        = 6                  // Monday through Saturday
	SlotsPerDay = 9                  // Modules per day, numbered from 1
	Slots       = Days * SlotsPerDay // Width of every occupancy vector
)

// Occupancy is a weekly set of time blocks packed into the low 54 bits of an integer.
// Bit day*9 + slot - 1 is set when the module at (day, slot) is used.
type Occupancy uint64

const fullOccupancy Occupancy = 1<<Slots - 1

// EmptyOccupancy returns a fresh vector with no block set
func EmptyOccupancy() Occupancy {
	return 0
}

// FullOccupancy returns a vector with every one of the 54 blocks set
func FullOccupancy() Occupancy {
	return fullOccupancy
}

// OccupancyFromVector builds an occupancy from a 0/1 vector indexed day*9 + slot - 1
func OccupancyFromVector(vector []int) (Occupancy, error) {
	if len(vector) != Slots {
		return 0, fmt.Errorf("occupancy vector must have %d positions: got %d", Slots, len(vector))
	}

	var occupancy Occupancy
	for i, value := range vector {
		switch value {
		case 0:
		case 1:
			occupancy |= 1 << i
		default:
			return 0, fmt.Errorf("occupancy vector position %d must be 0 or 1: got %d", i, value)
		}
	}
	return occupancy, nil
}

func (occupancy Occupancy) Union(other Occupancy) Occupancy {
	return occupancy | other
}

// Conflicts reports whether both vectors share at least one block
func (occupancy Occupancy) Conflicts(other Occupancy) bool {
	return occupancy&other != 0
}

func (occupancy Occupancy) Equal(other Occupancy) bool {
	return occupancy == other
}

// With returns a copy with the block at (day, slot) set; slot is 1-based
func (occupancy Occupancy) With(day, slot uint64) Occupancy {
	return occupancy | 1<<slotIndexer.Index(day, slot)
}

// Has reports whether the block at (day, slot) is set; slot is 1-based
func (occupancy Occupancy) Has(day, slot uint64) bool {
	return occupancy&(1<<slotIndexer.Index(day, slot)) != 0
}

func (occupancy Occupancy) Count() int {
	return bits.OnesCount64(uint64(occupancy & fullOccupancy))
}

// Vector expands the occupancy back into its 0/1 form
func (occupancy Occupancy) Vector() []int {
	vector := make([]int, Slots)
	for i := range Slots {
		if occupancy&(1<<i) != 0 {
			vector[i] = 1
		}
	}
	return vector
}

// String renders one row per day, '#' for used blocks and '.' for free ones
func (occupancy Occupancy) String() string {
	var builder strings.Builder
	for day := range uint64(Days) {
		if day > 0 {
			builder.WriteByte('|')
		}
		for slot := uint64(1); slot <= SlotsPerDay; slot++ {
			if occupancy.Has(day, slot) {
				builder.WriteByte('#')
			} else {
				builder.WriteByte('.')
			}
		}
	}
	return builder.String()
}
