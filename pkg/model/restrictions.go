package model

import (
	"fmt"
	"slices"
)

var Campuses = []string{"San Joaquín", "Casa Central", "Lo Contador", "Oriente", "Villarrica"}

type Restrictions struct {
	BlockedSlots            Occupancy
	AllowedCampuses         []string
	AllowSpanish            bool
	AllowEnglish            bool
	ExemptAssistantSessions bool // AYU modules take no time and may overlap
	ExemptLabSessions       bool // LAB modules take no time and may overlap
}

type RawRestrictions struct {
	BlockedModules   []int    `mapstructure:"blocked_modules"`
	AllowedCampuses  []string `mapstructure:"allowed_campuses"`
	Spanish          bool
	English          bool
	AllowAyuConflict bool `mapstructure:"allow_ayu_conflict"`
	AllowLabConflict bool `mapstructure:"allow_lab_conflict"`
}

func DefaultRestrictions() Restrictions {
	return Restrictions{
		BlockedSlots:            EmptyOccupancy(),
		AllowedCampuses:         []string{"San Joaquín"},
		AllowSpanish:            true,
		AllowEnglish:            true,
		ExemptAssistantSessions: true,
		ExemptLabSessions:       false,
	}
}

// DefaultRawRestrictions is the JSON-facing counterpart of DefaultRestrictions
func DefaultRawRestrictions() RawRestrictions {
	defaults := DefaultRestrictions()
	return RawRestrictions{
		BlockedModules:   defaults.BlockedSlots.Vector(),
		AllowedCampuses:  slices.Clone(defaults.AllowedCampuses),
		Spanish:          defaults.AllowSpanish,
		English:          defaults.AllowEnglish,
		AllowAyuConflict: defaults.ExemptAssistantSessions,
		AllowLabConflict: defaults.ExemptLabSessions,
	}
}

// RestrictionsFromJson reads a restrictions file. Missing keys keep their default value
func RestrictionsFromJson(file string) (Restrictions, error) {
	rawRestrictions := DefaultRawRestrictions()
	if err := decodeJsonFile(file, &rawRestrictions); err != nil {
		return Restrictions{}, err
	}
	return ProcessRawRestrictions(rawRestrictions)
}

func ProcessRawRestrictions(rawRestrictions RawRestrictions) (Restrictions, error) {
	blocked := EmptyOccupancy()
	if rawRestrictions.BlockedModules != nil {
		var err error
		if blocked, err = OccupancyFromVector(rawRestrictions.BlockedModules); err != nil {
			return Restrictions{}, fmt.Errorf("invalid blocked modules: %w", err)
		}
	}

	return Restrictions{
		BlockedSlots:            blocked,
		AllowedCampuses:         rawRestrictions.AllowedCampuses,
		AllowSpanish:            rawRestrictions.Spanish,
		AllowEnglish:            rawRestrictions.English,
		ExemptAssistantSessions: rawRestrictions.AllowAyuConflict,
		ExemptLabSessions:       rawRestrictions.AllowLabConflict,
	}, nil
}

// Exempt reports whether modules of the given type contribute no occupancy under the restrictions
func (restrictions Restrictions) Exempt(moduleType ModuleType) bool {
	return (moduleType == Assistant && restrictions.ExemptAssistantSessions) ||
		(moduleType == Laboratory && restrictions.ExemptLabSessions)
}
