package analysis

// FunctorSignature records a resolved functor's overloaded operator code,
// keyed by the functor name as written in the AST.
type FunctorSignature struct {
	OpCode      string
	MultiResult bool
}

// Bundle is the read-only analyses bundle the ast2ram translator consumes
// (spec.md §6 inbound interface item (b)): the SCC graph and its
// topological order, the recursive-clause set, the relation-liveness
// schedule, auxiliary arity, functor/polymorphism resolution, relation
// statistics, and the sum-type branch table.
type Bundle struct {
	// SCCs is the list of strongly-connected components in topological
	// order (index 0 has no dependency on a later index).
	SCCs [][]string

	// SCCIndex maps a relation name to the index of its SCC in SCCs.
	SCCIndex map[string]int

	// Recursive marks relations that are members of a recursive SCC.
	Recursive map[string]bool

	// Liveness maps a relation name to the SCC index after whose stratum
	// the relation's storage is no longer read and may be Cleared.
	Liveness map[string]int

	// Functors resolves a functor's textual name to its operator code.
	Functors map[string]FunctorSignature

	// Stats backs the Selinger planner's relSize/uniqueKeys queries.
	Stats RelationStats
}

// NewBundle builds a Bundle from a dependency graph (relation -> relations
// its clauses reference in the body) and a caller-supplied relation
// statistics provider. adj must be total over prog's relations (every relation name
// present as a key, possibly with an empty/nil value).
func NewBundle(adj map[string][]string, stats RelationStats) *Bundle {
	sccs := ComputeSCCs(adj)
	idx := map[string]int{}
	recursive := map[string]bool{}
	for i, comp := range sccs {
		for _, r := range comp {
			idx[r] = i
		}
		rec := IsRecursive(comp, adj)
		for _, r := range comp {
			recursive[r] = rec
		}
	}

	return &Bundle{
		SCCs:      sccs,
		SCCIndex:  idx,
		Recursive: recursive,
		Liveness:  computeLiveness(sccs, adj, idx),
		Functors:  map[string]FunctorSignature{},
		Stats:     stats,
	}
}

// computeLiveness assigns each relation the index of the last SCC whose
// stratum body still reads it: the SCC it is declared in, or the last
// (highest-index) SCC among its dependents' SCCs, whichever is later.
func computeLiveness(sccs [][]string, adj map[string][]string, idx map[string]int) map[string]int {
	live := map[string]int{}
	for i, comp := range sccs {
		for _, r := range comp {
			if cur, ok := live[r]; !ok || i > cur {
				live[r] = i
			}
		}
	}
	for consumer, deps := range adj {
		ci, ok := idx[consumer]
		if !ok {
			continue
		}
		for _, dep := range deps {
			if cur, ok := live[dep]; !ok || ci > cur {
				live[dep] = ci
			}
		}
	}
	return live
}

// ExpiredAt returns the relations whose liveness ends exactly at SCC index
// sccIdx — the Clear list emitted after that stratum (spec.md §4.5). The
// result is sorted: it is spliced directly into the emitted RAM program's
// statement sequence, and map iteration order is not a stable basis for
// that (every other map-derived ordering in this package is sorted before
// use; this is the same discipline).
func (b *Bundle) ExpiredAt(sccIdx int) []string {
	var out []string
	for _, r := range SortedKeys(b.Liveness) {
		if b.Liveness[r] == sccIdx {
			out = append(out, r)
		}
	}
	return out
}

