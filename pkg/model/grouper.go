package model

import (
	"slices"
)

type grouper interface {
	// Partitions the sections of the requested identifier into classes of interchangeable sections.
	// An empty result means the identifier is unknown or every one of its sections was filtered out
	Group(identifier string) []EquivalenceClass
}

func newGrouper(catalog Catalog, evaluator predicateEvaluator, shuffler Shuffler) grouper {
	return &grouperImplementation{
		catalog:   catalog,
		evaluator: evaluator,
		shuffler:  shuffler,
	}
}

type grouperImplementation struct {
	catalog   Catalog
	evaluator predicateEvaluator
	shuffler  Shuffler
}

func (grouper *grouperImplementation) Group(identifier string) []EquivalenceClass {
	rawSections, isCategory, ok := grouper.catalog.Sections(identifier)
	if !ok {
		return nil
	}

	// Shuffle a copy, the catalog is shared and read-only
	sections := slices.Clone(rawSections)
	grouper.shuffler.Shuffle(len(sections), func(i, j int) {
		sections[i], sections[j] = sections[j], sections[i]
	})

	classes := make([]EquivalenceClass, 0)
	for _, section := range sections {
		occupancy := grouper.evaluator.Occupancy(section)
		if !grouper.evaluator.Admissible(section, occupancy) {
			continue
		}

		code := identifier
		if isCategory {
			code = section.CourseCode
		}

		// First-seen order is kept, classes are never re-sorted here
		index := slices.IndexFunc(classes, func(class EquivalenceClass) bool {
			return class.Code == code && class.Occupancy.Equal(occupancy)
		})
		if index < 0 {
			classes = append(classes, EquivalenceClass{
				Occupancy: occupancy,
				Code:      code,
				Sections:  []Section{section},
			})
		} else {
			classes[index].Sections = append(classes[index].Sections, section)
		}
	}

	return classes
}
