package ast2ram

// Location names a single column produced by a structural level: an atom
// scan, a record/ADT unpack, or a generator (aggregator / multi-result
// functor) slot.
type Location struct {
	Level  int
	Column int
}

// ValueIndex is the per-clause environment of spec.md §3/§4.4.2: it maps
// every variable name to its occurrences, every record/ADT definition
// point to its unpack arity, and every generator to its synthetic slot.
//
// Invariants (spec.md §3): every variable appears at least once; the
// first occurrence recorded for a name is its canonical location, and all
// later occurrences become equality constraints against it unless the
// later occurrence is itself a generator slot — generator slots are never
// equated to siblings, they receive values by construction.
type ValueIndex struct {
	occurrences map[string][]Location
	order       []string // first-seen variable order, for deterministic iteration
	recordArity map[Location]int
	generators  map[Location]bool
}

// NewValueIndex returns an empty index.
func NewValueIndex() *ValueIndex {
	return &ValueIndex{
		occurrences: map[string][]Location{},
		recordArity: map[Location]int{},
		generators:  map[Location]bool{},
	}
}

// BindVariable records one occurrence of name at loc and reports whether
// this is the variable's first (canonical) occurrence.
func (vi *ValueIndex) BindVariable(name string, loc Location) (canonical Location, isFirst bool) {
	existing, seen := vi.occurrences[name]
	if !seen {
		vi.order = append(vi.order, name)
	}
	vi.occurrences[name] = append(existing, loc)
	if !seen {
		return loc, true
	}
	return existing[0], false
}

// Canonical returns a variable's first-recorded occurrence.
func (vi *ValueIndex) Canonical(name string) (Location, bool) {
	occ, ok := vi.occurrences[name]
	if !ok || len(occ) == 0 {
		return Location{}, false
	}
	return occ[0], true
}

// Occurrences returns every recorded occurrence of name, canonical first.
func (vi *ValueIndex) Occurrences(name string) []Location {
	return vi.occurrences[name]
}

// Variables returns every bound variable name in first-seen order.
func (vi *ValueIndex) Variables() []string {
	return vi.order
}

// BindRecord marks loc as the definition point of a record or ADT-unpack
// level of the given arity.
func (vi *ValueIndex) BindRecord(loc Location, arity int) {
	vi.recordArity[loc] = arity
}

// RecordArity returns the arity recorded for loc, if any.
func (vi *ValueIndex) RecordArity(loc Location) (int, bool) {
	a, ok := vi.recordArity[loc]
	return a, ok
}

// BindGenerator marks loc as a generator (aggregator or multi-result
// functor) slot.
func (vi *ValueIndex) BindGenerator(loc Location) {
	vi.generators[loc] = true
}

// IsGenerator reports whether loc is a generator slot.
func (vi *ValueIndex) IsGenerator(loc Location) bool {
	return vi.generators[loc]
}
