package model

type predicateEvaluator interface {
	// Returns the blocks the section uses, leaving out module types that are exempted
	Occupancy(section Section) Occupancy

	// Checks whether the section's occupancy avoids every blocked slot
	Unblocked(occupancy Occupancy) bool

	// Checks whether the section is taught in one of the allowed campuses
	CampusAllowed(section Section) bool

	// Checks whether the section's instruction language is allowed
	LanguageAllowed(section Section) bool

	// Checks all the above
	Admissible(section Section, occupancy Occupancy) bool
}
