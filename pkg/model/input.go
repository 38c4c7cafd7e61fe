package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type ModuleType string

const (
	Lecture    ModuleType = "CLAS"
	Workshop   ModuleType = "TAL"
	Assistant  ModuleType = "AYU"
	Laboratory ModuleType = "LAB"
	Practice   ModuleType = "PRA"
	Thesis     ModuleType = "TES"
	Field      ModuleType = "TER"
	Other      ModuleType = "OTR"
)

var ModuleTypes = []ModuleType{Lecture, Workshop, Assistant, Laboratory, Practice, Thesis, Field, Other}

// GeneralEducationCategories is the fixed set of identifiers resolved through the category table
var GeneralEducationCategories = []string{
	"Salud y Bienestar",
	"Ecolog Integra y Sustentabilid",
	"Pensamiento Matematico",
	"Artes",
	"Ciencia y Tecnologia",
	"Ciencias Sociales",
	"Humanidades",
	"Formacion Filosofica",
	"Formacion Teologica",
}

type Module struct {
	Day    uint64     `json:"day"`
	Module uint64     `json:"module"` // 1-based slot within the day
	Type   ModuleType `json:"type"`
}

type Section struct {
	Id               string `mapstructure:"section_id"`
	Section          uint64 // Sequence number within the course
	Name             string
	Campus           string
	English          bool `mapstructure:"english_version"`
	Modules          []Module
	CourseCode       string `mapstructure:"course_code"`       // Authoritative only for sections reached through a category
	GeneralEducation string `mapstructure:"general_education"` // Category tag, empty when the section has none
}

type Course struct {
	Name     string
	Sections []Section
}

type RawResource struct {
	CourseCode string `mapstructure:"course_code"`
	Name       string
	Sections   []Section
}

type RawCatalog struct {
	Resources []RawResource
}

// Catalog is loaded once and must be treated as read-only afterwards
type Catalog struct {
	Courses    map[string]Course
	Categories map[string][]Section
}

// IsCategory reports whether the identifier names a general-education category (exact match)
func IsCategory(identifier string) bool {
	return slices.Contains(GeneralEducationCategories, identifier)
}

// Sections resolves an identifier to its raw section list, following the category table when the identifier is a category
func (catalog Catalog) Sections(identifier string) (sections []Section, isCategory bool, ok bool) {
	if IsCategory(identifier) {
		sections, ok = catalog.Categories[identifier]
		return sections, true, ok
	}
	course, ok := catalog.Courses[identifier]
	return course.Sections, false, ok
}

// SearchCodes returns the sorted course codes containing substr
func (catalog Catalog) SearchCodes(substr string) []string {
	substr = strings.ToUpper(substr)
	codes := lo.Filter(lo.Keys(catalog.Courses), func(code string, _ int) bool {
		return strings.Contains(strings.ToUpper(code), substr)
	})
	slices.Sort(codes)
	return codes
}

// CatalogFromJson loads a raw catalog export ({"resources": [...]}) and splits it into course and category tables
func CatalogFromJson(file string) (Catalog, error) {
	var rawCatalog RawCatalog
	if err := decodeJsonFile(file, &rawCatalog); err != nil {
		return Catalog{}, err
	}
	return ProcessRawCatalog(rawCatalog)
}

// CatalogFromTables loads already split tables: code -> {name, sections} and category -> sections
func CatalogFromTables(coursesFile, categoriesFile string) (Catalog, error) {
	catalog := Catalog{
		Courses:    make(map[string]Course),
		Categories: make(map[string][]Section),
	}
	if err := decodeJsonFile(coursesFile, &catalog.Courses); err != nil {
		return Catalog{}, err
	}
	if categoriesFile != "" {
		if err := decodeJsonFile(categoriesFile, &catalog.Categories); err != nil {
			return Catalog{}, err
		}
	}

	for code, course := range catalog.Courses {
		if err := validateSections(code, course.Sections); err != nil {
			return Catalog{}, err
		}
	}
	for category, sections := range catalog.Categories {
		if err := validateSections(category, sections); err != nil {
			return Catalog{}, err
		}
	}
	return catalog, nil
}

func ProcessRawCatalog(rawCatalog RawCatalog) (Catalog, error) {
	catalog := Catalog{
		Courses:    make(map[string]Course),
		Categories: make(map[string][]Section),
	}

	for _, resource := range rawCatalog.Resources {
		if resource.CourseCode == "" {
			return Catalog{}, fmt.Errorf("resource \"%v\" has no course code", resource.Name)
		} else if _, ok := catalog.Courses[resource.CourseCode]; ok {
			return Catalog{}, fmt.Errorf("duplicate course code \"%v\"", resource.CourseCode)
		}

		if err := validateSections(resource.CourseCode, resource.Sections); err != nil {
			return Catalog{}, err
		}

		sections := lo.Map(resource.Sections, func(section Section, _ int) Section {
			// Category lookups rely on the section knowing its own course
			if section.CourseCode == "" {
				section.CourseCode = resource.CourseCode
			}
			return section
		})
		catalog.Courses[resource.CourseCode] = Course{Name: resource.Name, Sections: sections}

		for _, section := range sections {
			if section.GeneralEducation == "" {
				continue
			}
			catalog.Categories[section.GeneralEducation] = append(catalog.Categories[section.GeneralEducation], section)
		}
	}

	return catalog, nil
}

func validateSections(owner string, sections []Section) error {
	for _, section := range sections {
		for _, module := range section.Modules {
			if module.Day >= Days {
				return fmt.Errorf("section \"%v\" of \"%v\" has a module on day %d: days go from 0 to %d", section.Id, owner, module.Day, Days-1)
			} else if module.Module < 1 || module.Module > SlotsPerDay {
				return fmt.Errorf("section \"%v\" of \"%v\" has module %d: modules go from 1 to %d", section.Id, owner, module.Module, SlotsPerDay)
			} else if !slices.Contains(ModuleTypes, module.Type) {
				return fmt.Errorf("section \"%v\" of \"%v\" has an unknown module type \"%v\"", section.Id, owner, module.Type)
			}
		}
	}
	return nil
}

func decodeJsonFile(file string, target any) error {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("cannot read \"%v\": %w", file, err)
	}
	var inputJson any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return &DecodeError{File: file, Err: err}
	}
	if err := Decode(inputJson, target); err != nil {
		return &DecodeError{File: file, Err: err}
	}
	return nil
}

// Decode maps a generic JSON value onto target. Section ids and numbers are weakly typed since catalog exports mix strings and numbers
func Decode(input any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ZeroFields:       true, // Lists in the input replace defaults instead of merging into them
		Result:           target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

type DecodeError struct {
	File string
	Err  error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode \"%v\": %v", err.File, err.Err)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}
