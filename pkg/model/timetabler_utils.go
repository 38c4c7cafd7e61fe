package model

import (
	"fmt"
	"slices"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/onsi/gomega/matchers/support/goraph/edge"
	"github.com/samber/lo"
)

type unmatchableError struct {
	identifiers []string
}

func (err unmatchableError) Error() string {
	return fmt.Sprintf("not every identifier can be matched to a class of the schedule: %v", err.identifiers)
}

func verify(schedule Schedule, catalog Catalog, identifiers []string, restrictions Restrictions) bool {
	evaluator := newPredicateEvaluator(restrictions)

	if len(schedule) != len(identifiers) {
		return false
	}

	occupancy := EmptyOccupancy()
	for _, class := range schedule {
		// Check that:
		// - The class is not empty
		// - Every section still yields the class' occupancy under the restrictions and is admissible
		// - Sections reached through a category keep the class' code
		// - The class does not overlap the classes before it
		if len(class.Sections) == 0 {
			return false
		}
		for _, section := range class.Sections {
			sectionOccupancy := evaluator.Occupancy(section)
			if !sectionOccupancy.Equal(class.Occupancy) ||
				!evaluator.Admissible(section, sectionOccupancy) ||
				(section.CourseCode != "" && section.CourseCode != class.Code) {
				return false
			}
		}
		if occupancy.Conflicts(class.Occupancy) {
			return false
		}
		occupancy = occupancy.Union(class.Occupancy)
	}

	_, err := matchIdentifiers(schedule, catalog, identifiers)
	return err == nil
}

// OrderByRequest lines the schedule up with the identifiers it was built for, since Build returns classes in search order.
// Classes are matched by code (or category membership), never by position
func OrderByRequest(schedule Schedule, catalog Catalog, identifiers []string) (Schedule, error) {
	matching, err := matchIdentifiers(schedule, catalog, identifiers)
	if err != nil {
		return nil, err
	}
	return lo.Map(matching, func(class int, _ int) EquivalenceClass {
		return schedule[class]
	}), nil
}

// matchIdentifiers returns, for every identifier, the index of the class assigned to it.
// The same course may be requested directly and through a category, hence a maximum matching instead of a lookup
func matchIdentifiers(schedule Schedule, catalog Catalog, identifiers []string) ([]int, error) {
	if len(identifiers) == 0 && len(schedule) == 0 {
		return []int{}, nil
	}

	neighbors := func(identifierAny any, classAny any) (bool, error) {
		identifier := identifiers[identifierAny.(int)]
		class := schedule[classAny.(int)]
		return satisfies(class, identifier, catalog), nil
	}

	identifiersAny := lo.Map(identifiers, func(_ string, i int) any { return i })
	classesAny := lo.Map(schedule, func(_ EquivalenceClass, i int) any { return i })

	graph, err := bipartitegraph.NewBipartiteGraph(identifiersAny, classesAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()
	if len(matching) < len(identifiers) || len(matching) < len(schedule) {
		matched := lo.Map(matching, func(pair edge.Edge, _ int) int { return pair.Node1 })
		return nil, unmatchableError{
			identifiers: lo.Filter(identifiers, func(_ string, i int) bool { return !slices.Contains(matched, i) }),
		}
	}

	assignments := make([]int, len(identifiers))
	for _, pair := range matching {
		identifierIndex, classIndex := pair.Node1, pair.Node2-len(identifiers)
		assignments[identifierIndex] = classIndex
	}
	return assignments, nil
}

// Checks whether every section of the class is a section the identifier resolves to
func satisfies(class EquivalenceClass, identifier string, catalog Catalog) bool {
	sections, isCategory, ok := catalog.Sections(identifier)
	if !ok || (!isCategory && class.Code != identifier) {
		return false
	}
	return lo.EveryBy(class.Sections, func(section Section) bool {
		return slices.ContainsFunc(sections, func(candidate Section) bool {
			return sameSection(candidate, section)
		})
	})
}

func sameSection(a, b Section) bool {
	return a.Id == b.Id && a.Section == b.Section && a.CourseCode == b.CourseCode && a.Name == b.Name
}
