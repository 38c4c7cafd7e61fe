package model

import (
	"slices"

	"github.com/samber/lo"
)

type backtrackingTimetabler struct {
	shuffler  Shuffler
	nodeLimit uint64 // Zero means unbounded
}

// NewBacktrackingTimetabler returns a timetabler performing a most-constrained-first depth-first search.
// A Timetabler owns its shuffler, so concurrent callers need one Timetabler each
func NewBacktrackingTimetabler(shuffler Shuffler, nodeLimit uint64) Timetabler {
	return &backtrackingTimetabler{
		shuffler:  shuffler,
		nodeLimit: nodeLimit,
	}
}

func (timetabler *backtrackingTimetabler) Build(catalog Catalog, identifiers []string, restrictions Restrictions) (Schedule, Diagnostics, error) {
	//** Initialize dependencies
	evaluator := newPredicateEvaluator(restrictions)
	grouper := newGrouper(catalog, evaluator, timetabler.shuffler)

	//** Group sections per identifier
	options := lo.Map(identifiers, func(identifier string, _ int) []EquivalenceClass {
		return grouper.Group(identifier)
	})

	diagnostics := Diagnostics{
		Options: lo.Map(options, func(classes []EquivalenceClass, _ int) int { return len(classes) }),
	}

	//** Pre-check: every identifier needs at least one candidate
	for i, classes := range options {
		if len(classes) > 0 {
			continue
		}
		if _, _, ok := catalog.Sections(identifiers[i]); ok {
			diagnostics.OverConstrained = append(diagnostics.OverConstrained, identifiers[i])
		} else {
			diagnostics.Unknown = append(diagnostics.Unknown, identifiers[i])
		}
	}
	if len(diagnostics.Unknown) > 0 {
		diagnostics.Failure = UnknownIdentifier
		return nil, diagnostics, nil
	} else if len(diagnostics.OverConstrained) > 0 {
		diagnostics.Failure = OverConstrained
		return nil, diagnostics, nil
	}

	//** Most-constrained-first, ties keep request order
	slices.SortStableFunc(options, func(a, b []EquivalenceClass) int {
		return len(a) - len(b)
	})

	//** Search
	search := searchState{options: options, nodeLimit: timetabler.nodeLimit}
	schedule, found := search.step(0, EmptyOccupancy())
	diagnostics.Explored = search.explored
	if search.exhausted {
		diagnostics.Failure = NoCombination
		return nil, diagnostics, SearchLimitError{Limit: timetabler.nodeLimit}
	} else if !found {
		diagnostics.Failure = NoCombination
		return nil, diagnostics, nil
	}

	return schedule, diagnostics, nil
}

func (timetabler *backtrackingTimetabler) Verify(schedule Schedule, catalog Catalog, identifiers []string, restrictions Restrictions) bool {
	return verify(schedule, catalog, identifiers, restrictions)
}

type searchState struct {
	options   [][]EquivalenceClass
	nodeLimit uint64
	explored  uint64
	exhausted bool
}

// step returns the first conflict-free assignment of depths step.. given the blocks already taken by shallower depths
func (state *searchState) step(step int, occupancy Occupancy) (Schedule, bool) {
	if step == len(state.options) {
		return Schedule{}, true
	}

	for _, class := range state.options[step] {
		if state.nodeLimit > 0 && state.explored >= state.nodeLimit {
			state.exhausted = true
			return nil, false
		}
		state.explored++

		if occupancy.Conflicts(class.Occupancy) {
			continue
		}
		if step == len(state.options)-1 {
			return Schedule{class}, true
		}

		rest, found := state.step(step+1, occupancy.Union(class.Occupancy))
		if found {
			return append(Schedule{class}, rest...), true
		} else if state.exhausted {
			return nil, false
		}
	}

	return nil, false
}
