package render

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/limaJavier/armahorarios/pkg/model"
	"github.com/samber/lo"
)

var Days = map[uint64]string{
	0: "Monday",
	1: "Tuesday",
	2: "Wednesday",
	3: "Thursday",
	4: "Friday",
	5: "Saturday",
}

const moduleMinutes = 70

var slotStarts = []string{"08:20", "09:40", "11:00", "12:20", "13:30", "14:50", "16:10", "17:30", "18:50"}

// SlotTime returns the start and end of a 1-based module
func SlotTime(slot uint64) (start string, end string) {
	if slot < 1 || slot > uint64(len(slotStarts)) {
		return "", ""
	}
	start = slotStarts[slot-1]
	var hours, minutes int
	fmt.Sscanf(start, "%d:%d", &hours, &minutes)
	total := hours*60 + minutes + moduleMinutes
	return start, fmt.Sprintf("%02d:%02d", total/60%24, total%60)
}

// Block is a run of consecutive modules of the same type, on the same day, of one section
type Block struct {
	Code    string
	Section model.Section
	Day     uint64
	Start   uint64 // First 1-based module
	End     uint64 // Last 1-based module, inclusive
	Type    model.ModuleType
}

func (block Block) Label() string {
	return fmt.Sprintf("%v-%v %v", block.Code, block.Section.Section, block.Type)
}

// Sorted orders classes by code and each class' sections by section number, leaving the schedule untouched
func Sorted(schedule model.Schedule) model.Schedule {
	sorted := lo.Map(schedule, func(class model.EquivalenceClass, _ int) model.EquivalenceClass {
		class.Sections = slices.Clone(class.Sections)
		slices.SortStableFunc(class.Sections, func(a, b model.Section) int {
			return cmp.Compare(a.Section, b.Section)
		})
		return class
	})
	slices.SortStableFunc(sorted, func(a, b model.EquivalenceClass) int {
		if c := cmp.Compare(a.Code, b.Code); c != 0 {
			return c
		}
		return cmp.Compare(firstSection(a), firstSection(b))
	})
	return sorted
}

// Blocks merges every section's modules into blocks, classes in Sorted order
func Blocks(schedule model.Schedule) []Block {
	blocks := make([]Block, 0)
	for _, class := range Sorted(schedule) {
		for _, section := range class.Sections {
			modules := slices.Clone(section.Modules)
			slices.SortFunc(modules, func(a, b model.Module) int {
				if c := cmp.Compare(a.Day, b.Day); c != 0 {
					return c
				}
				return cmp.Compare(a.Module, b.Module)
			})

			var current *Block
			for _, module := range modules {
				if current != nil && current.Day == module.Day && current.Type == module.Type && current.End+1 == module.Module {
					current.End = module.Module
					continue
				}
				if current != nil {
					blocks = append(blocks, *current)
				}
				current = &Block{
					Code:    class.Code,
					Section: section,
					Day:     module.Day,
					Start:   module.Module,
					End:     module.Module,
					Type:    module.Type,
				}
			}
			if current != nil {
				blocks = append(blocks, *current)
			}
		}
	}
	return blocks
}

func firstSection(class model.EquivalenceClass) uint64 {
	if len(class.Sections) == 0 {
		return 0
	}
	return class.Sections[0].Section
}
