package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/armahorarios/pkg/model"
	"github.com/samber/lo"
)

type Row struct {
	Code      string `csv:"code"`
	Section   uint64 `csv:"section"`
	SectionId string `csv:"section_id"`
	Name      string `csv:"name"`
	Campus    string `csv:"campus"`
	English   bool   `csv:"english"`
	Day       string `csv:"day"`
	Module    uint64 `csv:"module"`
	Start     string `csv:"start"`
	End       string `csv:"end"`
	Type      string `csv:"type"`
}

// Rows flattens the schedule into one row per module; sections without modules get a single row with no time
func Rows(schedule model.Schedule) []*Row {
	rows := make([]*Row, 0)
	for _, class := range Sorted(schedule) {
		for _, section := range class.Sections {
			base := Row{
				Code:      class.Code,
				Section:   section.Section,
				SectionId: section.Id,
				Name:      section.Name,
				Campus:    section.Campus,
				English:   section.English,
			}
			if len(section.Modules) == 0 {
				rows = append(rows, &base)
				continue
			}
			for _, module := range section.Modules {
				row := base
				row.Day = Days[module.Day]
				row.Module = module.Module
				row.Start, row.End = SlotTime(module.Module)
				row.Type = string(module.Type)
				rows = append(rows, &row)
			}
		}
	}
	return rows
}

func WriteCSV(out io.Writer, schedule model.Schedule) error {
	rows := Rows(schedule)
	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("cannot write schedule as csv: %w", err)
	}
	return nil
}

type jsonSection struct {
	Id      string         `json:"section_id"`
	Section uint64         `json:"section"`
	Name    string         `json:"name"`
	Campus  string         `json:"campus"`
	English bool           `json:"english_version"`
	Modules []model.Module `json:"modules"`
}

type jsonClass struct {
	Code      string        `json:"code"`
	Occupancy []int         `json:"modules_array"`
	Sections  []jsonSection `json:"sections"`
}

// WriteJSON writes the classes in the order given
func WriteJSON(out io.Writer, schedule model.Schedule) error {
	classes := lo.Map(schedule, func(class model.EquivalenceClass, _ int) jsonClass {
		return jsonClass{
			Code:      class.Code,
			Occupancy: class.Occupancy.Vector(),
			Sections: lo.Map(class.Sections, func(section model.Section, _ int) jsonSection {
				return jsonSection{
					Id:      section.Id,
					Section: section.Section,
					Name:    section.Name,
					Campus:  section.Campus,
					English: section.English,
					Modules: section.Modules,
				}
			}),
		}
	})

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(classes); err != nil {
		return fmt.Errorf("cannot write schedule as json: %w", err)
	}
	return nil
}
