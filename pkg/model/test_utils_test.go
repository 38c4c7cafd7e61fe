package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mod(day, slot uint64, moduleType ModuleType) Module {
	return Module{Day: day, Module: slot, Type: moduleType}
}

func lecture(day, slot uint64) Module {
	return mod(day, slot, Lecture)
}

func newSection(code, id string, number uint64, modules ...Module) Section {
	return Section{
		Id:         id,
		Section:    number,
		Name:       "Course " + code,
		Campus:     "San Joaquín",
		Modules:    modules,
		CourseCode: code,
	}
}

func newCatalog(courses map[string][]Section) Catalog {
	catalog := Catalog{
		Courses:    make(map[string]Course),
		Categories: make(map[string][]Section),
	}
	for code, sections := range courses {
		catalog.Courses[code] = Course{Name: "Course " + code, Sections: sections}
		for _, section := range sections {
			if section.GeneralEducation != "" {
				catalog.Categories[section.GeneralEducation] = append(catalog.Categories[section.GeneralEducation], section)
			}
		}
	}
	return catalog
}

func permissiveRestrictions() Restrictions {
	return Restrictions{
		BlockedSlots:    EmptyOccupancy(),
		AllowedCampuses: Campuses,
		AllowSpanish:    true,
		AllowEnglish:    true,
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0666))
	return path
}
