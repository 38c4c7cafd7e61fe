package model

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWorkedExample(t *testing.T) {
	//** Arrange
	catalog := newCatalog(map[string][]Section{
		"A": {
			newSection("A", "1", 1, lecture(0, 1)), // bit 0
			newSection("A", "2", 2, lecture(0, 6)), // bit 5
		},
		"B": {
			newSection("B", "1", 1, lecture(0, 6)), // bit 5
		},
	})
	timetabler := NewBacktrackingTimetabler(NewIdentityShuffler(), 0)

	//** Act
	schedule, diagnostics, err := timetabler.Build(catalog, []string{"A", "B"}, permissiveRestrictions())

	//** Assert
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, NoFailure, diagnostics.Failure)
	assert.Equal(t, []int{2, 1}, diagnostics.Options)

	// B has fewer options so it is searched first
	assert.Equal(t, "B", schedule[0].Code)
	assert.Equal(t, "A", schedule[1].Code)
	assert.Equal(t, []string{"1"}, sectionIds(schedule[1]))
	assert.Equal(t, Occupancy(1), schedule[1].Occupancy)
	assert.True(t, timetabler.Verify(schedule, catalog, []string{"A", "B"}, permissiveRestrictions()))
}

func TestBuildFailures(t *testing.T) {
	catalog := newCatalog(map[string][]Section{
		"A": {newSection("A", "1", 1, lecture(0, 1))},
		"B": {newSection("B", "1", 1, lecture(0, 1))},
		"C": {newSection("C", "1", 1, lecture(3, 3))},
	})
	timetabler := NewBacktrackingTimetabler(NewIdentityShuffler(), 0)

	t.Run("Unknown identifier", func(t *testing.T) {
		schedule, diagnostics, err := timetabler.Build(catalog, []string{"A", "Z", "Artes"}, permissiveRestrictions())

		assert.NoError(t, err)
		assert.Nil(t, schedule)
		assert.Equal(t, UnknownIdentifier, diagnostics.Failure)
		assert.Equal(t, []string{"Z", "Artes"}, diagnostics.Unknown)
		assert.Zero(t, diagnostics.Explored)
	})

	t.Run("Over-constrained", func(t *testing.T) {
		restrictions := permissiveRestrictions()
		restrictions.BlockedSlots = EmptyOccupancy().With(3, 3)

		schedule, diagnostics, err := timetabler.Build(catalog, []string{"A", "C"}, restrictions)

		assert.NoError(t, err)
		assert.Nil(t, schedule)
		assert.Equal(t, OverConstrained, diagnostics.Failure)
		assert.Equal(t, []string{"C"}, diagnostics.OverConstrained)
	})

	t.Run("No combination", func(t *testing.T) {
		schedule, diagnostics, err := timetabler.Build(catalog, []string{"A", "B", "C"}, permissiveRestrictions())

		assert.NoError(t, err)
		assert.Nil(t, schedule)
		assert.Equal(t, NoCombination, diagnostics.Failure)
		assert.Positive(t, diagnostics.Explored)
	})

	t.Run("Every slot blocked", func(t *testing.T) {
		restrictions := permissiveRestrictions()
		restrictions.BlockedSlots = FullOccupancy()

		schedule, _, err := timetabler.Build(catalog, []string{"C"}, restrictions)

		assert.NoError(t, err)
		assert.Empty(t, schedule)
	})

	t.Run("No language allowed", func(t *testing.T) {
		restrictions := permissiveRestrictions()
		restrictions.AllowSpanish = false
		restrictions.AllowEnglish = false

		schedule, diagnostics, _ := timetabler.Build(catalog, []string{"C"}, restrictions)

		assert.Nil(t, schedule)
		assert.Equal(t, OverConstrained, diagnostics.Failure)
	})
}

func TestBuildSectionWithoutModules(t *testing.T) {
	catalog := newCatalog(map[string][]Section{
		"A": {newSection("A", "1", 1)},
	})
	restrictions := permissiveRestrictions()
	restrictions.BlockedSlots = FullOccupancy()
	timetabler := NewBacktrackingTimetabler(NewRandomShuffler(7), 0)

	schedule, _, err := timetabler.Build(catalog, []string{"A"}, restrictions)

	require.NoError(t, err)
	require.Len(t, schedule, 1)
	assert.Equal(t, []string{"1"}, sectionIds(schedule[0]))
	assert.Equal(t, EmptyOccupancy(), schedule[0].Occupancy)
}

func TestBuildEmptyRequest(t *testing.T) {
	timetabler := NewBacktrackingTimetabler(NewIdentityShuffler(), 0)

	schedule, diagnostics, err := timetabler.Build(newCatalog(nil), nil, permissiveRestrictions())

	require.NoError(t, err)
	assert.NotNil(t, schedule)
	assert.Empty(t, schedule)
	assert.Equal(t, NoFailure, diagnostics.Failure)
}

func TestBuildExposesInterchangeableSections(t *testing.T) {
	catalog := newCatalog(map[string][]Section{
		"A": {
			newSection("A", "1", 1, lecture(0, 1)),
			newSection("A", "2", 2, lecture(0, 1)),
			newSection("A", "3", 3, lecture(0, 1)),
		},
	})
	timetabler := NewBacktrackingTimetabler(NewRandomShuffler(3), 0)

	schedule, _, err := timetabler.Build(catalog, []string{"A"}, permissiveRestrictions())

	require.NoError(t, err)
	require.Len(t, schedule, 1)
	NewWithT(t).Expect(sectionIds(schedule[0])).To(ConsistOf("1", "2", "3"))
}

func TestBuildExemptedModulesMayOverlap(t *testing.T) {
	catalog := newCatalog(map[string][]Section{
		"A": {newSection("A", "1", 1, lecture(0, 1), mod(1, 1, Assistant))},
		"B": {newSection("B", "1", 1, lecture(0, 2), mod(1, 1, Assistant))},
	})
	timetabler := NewBacktrackingTimetabler(NewIdentityShuffler(), 0)

	t.Run("Exempted", func(t *testing.T) {
		restrictions := permissiveRestrictions()
		restrictions.ExemptAssistantSessions = true
		schedule, _, err := timetabler.Build(catalog, []string{"A", "B"}, restrictions)

		require.NoError(t, err)
		assert.Len(t, schedule, 2)
	})

	t.Run("Not exempted", func(t *testing.T) {
		schedule, diagnostics, err := timetabler.Build(catalog, []string{"A", "B"}, permissiveRestrictions())

		require.NoError(t, err)
		assert.Nil(t, schedule)
		assert.Equal(t, NoCombination, diagnostics.Failure)
	})
}

func TestBuildCategoryAndCourse(t *testing.T) {
	//** Arrange
	art := newSection("MUC1000", "1", 1, lecture(2, 2))
	art.GeneralEducation = "Artes"
	otherArt := newSection("MUC2000", "1", 1, lecture(0, 1))
	otherArt.GeneralEducation = "Artes"
	catalog := newCatalog(map[string][]Section{
		"MUC1000": {art},
		"MUC2000": {otherArt},
		"IIC2523": {newSection("IIC2523", "1", 1, lecture(0, 1))},
	})
	identifiers := []string{"IIC2523", "Artes"}
	timetabler := NewBacktrackingTimetabler(NewIdentityShuffler(), 0)

	//** Act
	schedule, _, err := timetabler.Build(catalog, identifiers, permissiveRestrictions())

	//** Assert
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	ordered, err := OrderByRequest(schedule, catalog, identifiers)
	require.NoError(t, err)
	assert.Equal(t, "IIC2523", ordered[0].Code)
	assert.Equal(t, "MUC1000", ordered[1].Code) // The category class carries the section's own course code
	assert.True(t, timetabler.Verify(schedule, catalog, identifiers, permissiveRestrictions()))
}

func TestBuildDeterministicWithoutShuffle(t *testing.T) {
	catalog, identifiers := randomInstance(rand.New(rand.NewPCG(1, 2)), 6, 8)

	first, _, err := NewBacktrackingTimetabler(NewIdentityShuffler(), 0).Build(catalog, identifiers, permissiveRestrictions())
	require.NoError(t, err)

	for range 5 {
		schedule, _, err := NewBacktrackingTimetabler(NewIdentityShuffler(), 0).Build(catalog, identifiers, permissiveRestrictions())
		require.NoError(t, err)
		assert.Equal(t, first, schedule)
	}
}

func TestBuildDeterministicWithSeed(t *testing.T) {
	catalog, identifiers := randomInstance(rand.New(rand.NewPCG(3, 4)), 5, 10)

	first, _, _ := NewBacktrackingTimetabler(NewRandomShuffler(99), 0).Build(catalog, identifiers, permissiveRestrictions())
	second, _, _ := NewBacktrackingTimetabler(NewRandomShuffler(99), 0).Build(catalog, identifiers, permissiveRestrictions())

	assert.Equal(t, first, second)
}

func TestBuildSearchOrderIsMostConstrainedFirst(t *testing.T) {
	for seed := range uint64(20) {
		random := rand.New(rand.NewPCG(seed, seed))
		catalog, identifiers := randomInstance(random, 5, 12)
		timetabler := NewBacktrackingTimetabler(NewRandomShuffler(seed), 0)

		schedule, diagnostics, err := timetabler.Build(catalog, identifiers, permissiveRestrictions())
		require.NoError(t, err)
		if schedule == nil {
			continue
		}

		// Recover each position's option count through the request matching
		ordered, err := OrderByRequest(schedule, catalog, identifiers)
		require.NoError(t, err)
		counts := make([]int, len(schedule))
		for i, class := range schedule {
			for j, requested := range ordered {
				if requested.Code == class.Code {
					counts[i] = diagnostics.Options[j]
				}
			}
		}
		for i := 1; i < len(counts); i++ {
			assert.LessOrEqual(t, counts[i-1], counts[i], fmt.Sprintf("seed %d", seed))
		}
	}
}

// Randomized instances checked against Verify: whatever Build returns is pairwise disjoint
func TestBuildRandomInstances(t *testing.T) {
	solved := 0
	for seed := range uint64(100) {
		//** Arrange
		random := rand.New(rand.NewPCG(seed, 17))
		catalog, identifiers := randomInstance(random, random.IntN(6)+1, random.IntN(8)+1)
		restrictions := permissiveRestrictions()
		restrictions.ExemptAssistantSessions = random.IntN(2) == 0
		timetabler := NewBacktrackingTimetabler(NewRandomShuffler(seed), 0)

		//** Act
		schedule, diagnostics, err := timetabler.Build(catalog, identifiers, restrictions)

		//** Assert
		require.NoError(t, err)
		if schedule == nil {
			assert.NotEqual(t, NoFailure, diagnostics.Failure)
			continue
		}
		solved++
		assert.True(t, timetabler.Verify(schedule, catalog, identifiers, restrictions), "seed %d", seed)
		for i := range schedule {
			for j := i + 1; j < len(schedule); j++ {
				assert.False(t, schedule[i].Occupancy.Conflicts(schedule[j].Occupancy))
			}
		}
	}
	assert.Positive(t, solved)
}

func TestBuildNodeLimit(t *testing.T) {
	// Ten courses all competing for the same single block: exhaustive search is large
	courses := make(map[string][]Section)
	identifiers := make([]string, 0)
	for i := range 10 {
		code := fmt.Sprintf("C%02d", i)
		identifiers = append(identifiers, code)
		for j := range 3 {
			courses[code] = append(courses[code], newSection(code, fmt.Sprint(j), uint64(j+1), lecture(uint64(j), 1)))
		}
	}
	catalog := newCatalog(courses)

	schedule, diagnostics, err := NewBacktrackingTimetabler(NewIdentityShuffler(), 25).Build(catalog, identifiers, permissiveRestrictions())

	assert.Nil(t, schedule)
	var limitErr SearchLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, uint64(25), limitErr.Limit)
	assert.Equal(t, uint64(25), diagnostics.Explored)

	_, diagnostics, err = NewBacktrackingTimetabler(NewIdentityShuffler(), 0).Build(catalog, identifiers, permissiveRestrictions())
	assert.NoError(t, err)
	assert.Equal(t, NoCombination, diagnostics.Failure)
}

func TestVerifyRejects(t *testing.T) {
	catalog := newCatalog(map[string][]Section{
		"A": {newSection("A", "1", 1, lecture(0, 1))},
		"B": {newSection("B", "1", 1, lecture(0, 1)), newSection("B", "2", 2, lecture(0, 2))},
	})
	identifiers := []string{"A", "B"}
	restrictions := permissiveRestrictions()
	a := EquivalenceClass{Occupancy: EmptyOccupancy().With(0, 1), Code: "A", Sections: catalog.Courses["A"].Sections}
	b1 := EquivalenceClass{Occupancy: EmptyOccupancy().With(0, 1), Code: "B", Sections: catalog.Courses["B"].Sections[:1]}
	b2 := EquivalenceClass{Occupancy: EmptyOccupancy().With(0, 2), Code: "B", Sections: catalog.Courses["B"].Sections[1:]}

	assert.True(t, verify(Schedule{b2, a}, catalog, identifiers, restrictions))
	assert.False(t, verify(Schedule{a, b1}, catalog, identifiers, restrictions), "conflicting classes")
	assert.False(t, verify(Schedule{a}, catalog, identifiers, restrictions), "missing identifier")
	assert.False(t, verify(Schedule{a, a}, catalog, identifiers, restrictions), "duplicated class")
	assert.False(t, verify(Schedule{a, {Occupancy: b2.Occupancy, Code: "B"}}, catalog, identifiers, restrictions), "empty class")
	assert.False(t, verify(Schedule{a, {Occupancy: b1.Occupancy, Code: "B", Sections: b2.Sections}}, catalog, identifiers, restrictions), "stale occupancy")

	restrictions.AllowedCampuses = []string{"Oriente"}
	assert.False(t, verify(Schedule{b2, a}, catalog, identifiers, restrictions), "inadmissible section")
}

func TestOrderByRequest(t *testing.T) {
	art := newSection("MUC1000", "1", 1, lecture(2, 2))
	art.GeneralEducation = "Artes"
	catalog := newCatalog(map[string][]Section{
		"MUC1000": {art},
		"A":       {newSection("A", "1", 1, lecture(0, 1))},
	})
	artClass := EquivalenceClass{Occupancy: EmptyOccupancy().With(2, 2), Code: "MUC1000", Sections: []Section{art}}
	aClass := EquivalenceClass{Occupancy: EmptyOccupancy().With(0, 1), Code: "A", Sections: catalog.Courses["A"].Sections}

	t.Run("Reorders", func(t *testing.T) {
		ordered, err := OrderByRequest(Schedule{artClass, aClass}, catalog, []string{"A", "Artes"})
		require.NoError(t, err)
		assert.Equal(t, Schedule{aClass, artClass}, ordered)
	})

	t.Run("Unmatched identifier", func(t *testing.T) {
		_, err := OrderByRequest(Schedule{aClass}, catalog, []string{"Artes"})
		assert.ErrorContains(t, err, "Artes")
	})
}

// randomInstance builds courses with a handful of one or two module sections and requests all of them
func randomInstance(random *rand.Rand, courses, sectionsPerCourse int) (Catalog, []string) {
	table := make(map[string][]Section)
	identifiers := make([]string, 0, courses)
	for i := range courses {
		code := fmt.Sprintf("R%03d", i)
		identifiers = append(identifiers, code)
		for j := range sectionsPerCourse {
			modules := []Module{lecture(uint64(random.IntN(Days)), uint64(random.IntN(SlotsPerDay)+1))}
			if random.IntN(2) == 0 {
				modules = append(modules, mod(uint64(random.IntN(Days)), uint64(random.IntN(SlotsPerDay)+1), Assistant))
			}
			table[code] = append(table[code], newSection(code, fmt.Sprint(j), uint64(j+1), modules...))
		}
	}
	return newCatalog(table), identifiers
}
