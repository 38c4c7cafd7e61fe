package model

import "slices"

type predicateEvaluatorStandard struct {
	restrictions Restrictions
}

func newPredicateEvaluator(restrictions Restrictions) predicateEvaluator {
	return &predicateEvaluatorStandard{
		restrictions: restrictions,
	}
}

func (evaluator *predicateEvaluatorStandard) Occupancy(section Section) Occupancy {
	occupancy := EmptyOccupancy()
	for _, module := range section.Modules {
		if evaluator.restrictions.Exempt(module.Type) {
			continue
		}
		occupancy = occupancy.With(module.Day, module.Module)
	}
	return occupancy
}

func (evaluator *predicateEvaluatorStandard) Unblocked(occupancy Occupancy) bool {
	return !occupancy.Conflicts(evaluator.restrictions.BlockedSlots)
}

func (evaluator *predicateEvaluatorStandard) CampusAllowed(section Section) bool {
	return slices.Contains(evaluator.restrictions.AllowedCampuses, section.Campus)
}

// Both flags false rejects every section
func (evaluator *predicateEvaluatorStandard) LanguageAllowed(section Section) bool {
	if !evaluator.restrictions.AllowSpanish && !section.English {
		return false
	}
	if !evaluator.restrictions.AllowEnglish && section.English {
		return false
	}
	return true
}

func (evaluator *predicateEvaluatorStandard) Admissible(section Section, occupancy Occupancy) bool {
	return evaluator.Unblocked(occupancy) &&
		evaluator.CampusAllowed(section) &&
		evaluator.LanguageAllowed(section)
}
