package model

import "fmt"

// EquivalenceClass holds sections that are interchangeable for scheduling: same effective occupancy and same course code
type EquivalenceClass struct {
	Occupancy Occupancy
	Code      string
	Sections  []Section
}

// Schedule holds one class per requested identifier in search order (ascending option count), not request order.
// Use OrderByRequest to line it up with the request
type Schedule []EquivalenceClass

type FailureKind int

const (
	NoFailure         FailureKind = iota
	UnknownIdentifier             // An identifier is absent from the catalog
	OverConstrained               // An identifier has sections but none survive the restrictions
	NoCombination                 // Every identifier has candidates but no conflict-free combination exists
)

var failureKinds = map[FailureKind]string{
	NoFailure:         "none",
	UnknownIdentifier: "unknown identifier",
	OverConstrained:   "over-constrained",
	NoCombination:     "no combination",
}

func (kind FailureKind) String() string {
	if name, ok := failureKinds[kind]; ok {
		return name
	}
	return fmt.Sprintf("FailureKind(%d)", int(kind))
}

// Diagnostics explains a Build outcome without changing the success/failure contract
type Diagnostics struct {
	Failure         FailureKind
	Unknown         []string // Identifiers missing from the catalog
	OverConstrained []string // Identifiers whose sections were all filtered out
	Options         []int    // Equivalence classes per identifier, in request order
	Explored        uint64   // Classes examined during the search
}

type SearchLimitError struct {
	Limit uint64
}

func (err SearchLimitError) Error() string {
	return fmt.Sprintf("search aborted after examining %d classes", err.Limit)
}

type Timetabler interface {
	// Returns one equivalence class per requested identifier with pairwise disjoint occupancies, or a nil schedule if none exists.
	// The error is only set when the search budget runs out
	Build(
		catalog Catalog,
		identifiers []string,
		restrictions Restrictions,
	) (schedule Schedule, diagnostics Diagnostics, err error)

	Verify(
		schedule Schedule,
		catalog Catalog,
		identifiers []string,
		restrictions Restrictions,
	) bool
}
