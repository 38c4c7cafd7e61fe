package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/limaJavier/armahorarios/pkg/model"
	"github.com/samber/lo"
)

var typeColors = map[model.ModuleType]lipgloss.Color{
	model.Lecture:    lipgloss.Color("#fbc575"),
	model.Workshop:   lipgloss.Color("#c7c2f8"),
	model.Assistant:  lipgloss.Color("#99cc99"),
	model.Laboratory: lipgloss.Color("#b3d4f5"),
	model.Practice:   lipgloss.Color("#cccc99"),
	model.Thesis:     lipgloss.Color("#b2efef"),
	model.Field:      lipgloss.Color("#ffccff"),
	model.Other:      lipgloss.Color("#ff9999"),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ccd1e5"))
)

type cell struct {
	labels []string
	types  []model.ModuleType
}

// Cells lays the schedule's blocks on a [day][slot-1] grid; a cell may hold several labels when exempted modules overlap
func Cells(schedule model.Schedule) [model.Days][model.SlotsPerDay][]string {
	var cells [model.Days][model.SlotsPerDay][]string
	for day, row := range grid(schedule) {
		for slot, entry := range row {
			cells[day][slot] = entry.labels
		}
	}
	return cells
}

func grid(schedule model.Schedule) [model.Days][model.SlotsPerDay]cell {
	var cells [model.Days][model.SlotsPerDay]cell
	for _, block := range Blocks(schedule) {
		for slot := block.Start; slot <= block.End; slot++ {
			entry := &cells[block.Day][slot-1]
			entry.labels = append(entry.labels, block.Label())
			entry.types = append(entry.types, block.Type)
		}
	}
	return cells
}

// Grid renders the weekly timetable, one row per module and one column per day
func Grid(schedule model.Schedule) string {
	cells := grid(schedule)

	headers := []string{"Module"}
	for day := range uint64(model.Days) {
		headers = append(headers, Days[day])
	}

	rows := make([][]string, 0, model.SlotsPerDay)
	for slot := range model.SlotsPerDay {
		start, end := SlotTime(uint64(slot + 1))
		row := []string{fmt.Sprintf("%d\n%v-%v", slot+1, start, end)}
		for day := range model.Days {
			row = append(row, strings.Join(cells[day][slot].labels, "\n"))
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderRow(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			} else if col == 0 {
				return cellStyle.Faint(true)
			}
			types := cells[col-1][row].types
			if len(types) == 0 {
				return cellStyle
			}
			// Overlapping modules are only possible for exempted types, colour by the first one
			return cellStyle.Foreground(typeColors[types[0]])
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

// Listing renders one "CODE-section: name" line per section, interchangeable sections grouped under their class
func Listing(schedule model.Schedule) string {
	var builder strings.Builder
	for i, class := range Sorted(schedule) {
		if i > 0 {
			builder.WriteString("\n")
		}
		alternatives := lo.Ternary(len(class.Sections) > 1, fmt.Sprintf(" (%d interchangeable sections)", len(class.Sections)), "")
		fmt.Fprintf(&builder, "%v%v\n", class.Code, alternatives)
		for _, section := range class.Sections {
			fmt.Fprintf(&builder, "  %v-%v: %v [%v, %v]\n", class.Code, section.Section, section.Name, section.Id, section.Campus)
		}
	}
	return builder.String()
}
