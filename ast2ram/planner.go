package ast2ram

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/rithvikp/dram/analysis"
	"github.com/rithvikp/dram/ast"
)

// planState is the memoised best plan for one atom subset (spec.md
// §4.4.6 step 4): the order that achieved it, its estimated cost, and the
// running tuple-count estimate used to cost the next extension.
type planState struct {
	order  []int
	cost   float64
	tuples float64
}

// selingerPlan orders atoms by estimated join cost (spec.md §4.4.6). It
// returns the identity order unchanged if there are fewer than two atoms.
// constraints supplies the clause's binary constraints, consulted for
// constant propagation (var = constant bindings atoms inherit as bound
// slots).
func selingerPlan(atoms []ast.Atom, constraints []ast.Constraint, stats analysis.RelationStats) ([]int, error) {
	n := len(atoms)
	if n <= 1 {
		return identityOrder(n), nil
	}
	if stats == nil {
		return nil, programmerError("planner", "", "auto-schedule requested without a relation statistics provider")
	}

	constMap := propagateConstants(constraints)
	atomVars := make([][]string, n)
	for i, a := range atoms {
		atomVars[i] = varsOf(a)
	}

	full := (1 << n) - 1
	best := map[int]planState{0: {order: nil, cost: 0, tuples: 1}}

	var masksByPopcount [][]int
	masksByPopcount = make([][]int, n+1)
	for m := 1; m <= full; m++ {
		c := bits.OnesCount(uint(m))
		masksByPopcount[c] = append(masksByPopcount[c], m)
	}

	for k := 1; k <= n; k++ {
		for _, mask := range masksByPopcount[k] {
			var chosen planState
			haveChosen := false
			for a := 0; a < n; a++ {
				bit := 1 << a
				if mask&bit == 0 {
					continue
				}
				prevMask := mask &^ bit
				prev, ok := best[prevMask]
				if !ok {
					continue
				}
				ground := groundSet(prevMask, atomVars, constMap)
				key := boundKeyFor(atoms[a], ground, constMap)

				boundCols, totalCols := countBound(atoms[a], ground, constMap)
				var newTuples, stepCost float64
				if boundCols == totalCols {
					newTuples = 1
				} else {
					relSize := float64(stats.RelSize(key))
					uniqueKeys := stats.UniqueKeys(key)
					if uniqueKeys < 1 {
						uniqueKeys = 1
					}
					newTuples = prev.tuples * (relSize / float64(uniqueKeys))
				}
				stepCost = newTuples * float64(len(atoms[a].Args))
				cost := prev.cost + stepCost

				if !haveChosen || cost < chosen.cost {
					order := append(append([]int(nil), prev.order...), a)
					chosen = planState{order: order, cost: cost, tuples: newTuples}
					haveChosen = true
				}
			}
			if haveChosen {
				best[mask] = chosen
			}
		}
	}

	result, ok := best[full]
	if !ok {
		return nil, programmerError("planner", "", "planner failed to produce a full-subset plan")
	}
	return result.order, nil
}

func identityOrder(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// propagateConstants builds a var -> constant map from body constraints of
// shape `var = constant` (or `constant = var`).
func propagateConstants(constraints []ast.Constraint) map[string]ast.Const {
	out := map[string]ast.Const{}
	for _, c := range constraints {
		if c.Op != "EQ" && c.Op != "FEQ" {
			continue
		}
		if v, ok := c.LHS.(ast.Var); ok {
			if k, ok := c.RHS.(ast.Const); ok {
				out[v.Name] = k
				continue
			}
		}
		if v, ok := c.RHS.(ast.Var); ok {
			if k, ok := c.LHS.(ast.Const); ok {
				out[v.Name] = k
			}
		}
	}
	return out
}

func varsOf(a ast.Atom) []string {
	var out []string
	for _, arg := range a.Args {
		if v, ok := arg.(ast.Var); ok {
			out = append(out, v.Name)
		}
	}
	return out
}

// groundSet is the set of variable names already bound after scanning
// every atom whose bit is set in mask, plus every constant-propagated
// variable.
func groundSet(mask int, atomVars [][]string, constMap map[string]ast.Const) map[string]bool {
	out := map[string]bool{}
	for v := range constMap {
		out[v] = true
	}
	for i, vars := range atomVars {
		if mask&(1<<i) == 0 {
			continue
		}
		for _, v := range vars {
			out[v] = true
		}
	}
	return out
}

// countBound reports how many of atom a's argument columns are bound
// (constant, or a variable already in ground) against its total arity.
func countBound(a ast.Atom, ground map[string]bool, constMap map[string]ast.Const) (bound, total int) {
	total = len(a.Args)
	for _, arg := range a.Args {
		switch v := arg.(type) {
		case ast.Const:
			bound++
		case ast.Var:
			if ground[v.Name] {
				bound++
			}
			_ = constMap
		}
	}
	return bound, total
}

// boundKeyFor encodes the bound columns into the analysis.BoundKey the
// relation statistics provider keys its estimates on: a column holding a
// literal constant is encoded as "i=c" without its value, a column whose
// variable an equality fixes to a constant as "i=<that constant's Int>",
// and any other bound column as "i=b".
func boundKeyFor(a ast.Atom, ground map[string]bool, constMap map[string]ast.Const) analysis.BoundKey {
	var parts []string
	for i, arg := range a.Args {
		switch v := arg.(type) {
		case ast.Const:
			parts = append(parts, fmt.Sprintf("%d=c", i))
		case ast.Var:
			if ground[v.Name] {
				if k, ok := constMap[v.Name]; ok {
					parts = append(parts, fmt.Sprintf("%d=%v", i, k.Int))
				} else {
					parts = append(parts, fmt.Sprintf("%d=b", i))
				}
			}
		}
	}
	sort.Strings(parts)
	return analysis.BoundKey{Relation: a.Relation, Bound: strings.Join(parts, ",")}
}
