// Package analysis computes and bundles the read-only analyses the
// ast2ram translator consumes: the SCC graph and its topological order,
// the relation-liveness schedule, and relation-size statistics feeding the
// Selinger planner.
package analysis

import "golang.org/x/exp/slices"

// ComputeSCCs returns the strongly-connected components of the predicate
// dependency graph adj (relation -> relations its clauses depend on), in
// topological order: a component earlier in the result never depends on
// one later in it. Roots are visited in sorted relation-name order and each
// neighbour list is sorted before it is walked, so the result does not
// depend on map iteration order or on the order of adj's value slices.
func ComputeSCCs(adj map[string][]string) [][]string {
	t := &tarjan{
		adj:     adj,
		index:   map[string]int{},
		lowlink: map[string]int{},
		onStack: map[string]bool{},
	}

	for _, n := range SortedKeys(adj) {
		if _, seen := t.index[n]; !seen {
			t.strongConnect(n)
		}
	}
	// A component only finishes (is popped) once every component it
	// depends on has already finished, since strongConnect recurses into
	// adj[v] before v itself can be popped — so t.sccs is already in the
	// order ComputeSCCs documents: a component never depends on one that
	// appears after it.
	return t.sccs
}

type tarjan struct {
	adj     map[string][]string
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	counter int
	sccs    [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	neighbors := append([]string(nil), t.adj[v]...)
	slices.Sort(neighbors)
	for _, w := range neighbors {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		slices.Sort(comp)
		t.sccs = append(t.sccs, comp)
	}
}

// IsRecursive reports whether comp is a (mutually or self) recursive SCC:
// more than one relation, or a single relation with a self-edge in adj.
func IsRecursive(comp []string, adj map[string][]string) bool {
	if len(comp) > 1 {
		return true
	}
	if len(comp) == 1 {
		r := comp[0]
		return slices.Contains(adj[r], r)
	}
	return false
}
