package ast2ram

import (
	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ram"
)

// isRecursiveClause reports whether clause's body reads any relation in
// sccSet — the condition Souffle calls a clause "participating in the SCC".
func isRecursiveClause(clause *ast.Clause, sccSet map[string]bool) bool {
	for _, l := range clause.Body {
		if a, ok := l.(ast.Atom); ok && sccSet[a.Relation] {
			return true
		}
	}
	return false
}

// recursiveClauseVersions produces one synthetic clause per within-SCC body
// atom of clause: that atom is rewritten to its @delta_ sibling and the
// head to its @new_ sibling (spec.md §4.4.3 note on recursive versions),
// and a non-nullary head additionally gets a negated copy of itself over
// the concrete relation appended to the body, so a tuple already in the
// relation is not derived again.
// Every other within-SCC atom keeps reading the concrete (fully merged)
// relation — the standard semi-naive reading that each derivation is found
// by some version, not necessarily found by exactly one. A derivation
// re-found by more than one version in the same iteration is deduplicated
// by createInsertion's functional-dependency guard when the relation
// declares one, and otherwise by the eventual MergeExtend into the
// concrete relation treating it as a set; this trades a constant factor of
// redundant work across versions for not threading an additional
// cross-version exclusion negation through every version, a simplification
// documented in DESIGN.md.
func recursiveClauseVersions(clause *ast.Clause, sccSet map[string]bool) []*ast.Clause {
	var indices []int
	for i, l := range clause.Body {
		if a, ok := l.(ast.Atom); ok && sccSet[a.Relation] {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return nil
	}
	out := make([]*ast.Clause, 0, len(indices))
	for _, idx := range indices {
		v := clause.Clone()
		a := v.Body[idx].(ast.Atom)
		a.Relation = Delta(a.Relation)
		v.Body[idx] = a
		v.Head.Relation = New(v.Head.Relation)
		if len(clause.Head.Args) > 0 {
			guard := clause.Head.CloneAtom()
			guard.Relation = Concrete(guard.Relation)
			v.Body = append(v.Body, ast.Negation{Atom: guard})
		}
		out = append(out, v)
	}
	return out
}

// TranslateSCC lowers one strongly-connected component of the predicate
// dependency graph into its stratum subroutine body (spec.md §4.5):
// a straight-line sequence for a non-recursive SCC, or a semi-naive
// fixpoint loop for a recursive one.
func TranslateSCC(ctx *Context, sccIdx int, relations []string) (ram.Node, error) {
	sccSet := make(map[string]bool, len(relations))
	for _, r := range relations {
		sccSet[r] = true
	}

	var allClauses []*ast.Clause
	for _, r := range relations {
		allClauses = append(allClauses, ctx.Program.ClausesFor(r)...)
	}

	recursive := ctx.Analyses.Recursive[relations[0]]
	if !recursive {
		node, err := translateNonRecursiveSCC(ctx, allClauses)
		if err != nil {
			return nil, err
		}
		seq := node.(ram.Sequence)
		for _, r := range ctx.Analyses.ExpiredAt(sccIdx) {
			if _, isOutput := ctx.Program.Outputs[r]; isOutput {
				continue
			}
			seq.Children = append(seq.Children, ram.Clear{Relation: Concrete(r)})
		}
		return seq, nil
	}
	return translateRecursiveSCC(ctx, sccIdx, relations, sccSet, allClauses)
}

func translateNonRecursiveSCC(ctx *Context, clauses []*ast.Clause) (ram.Node, error) {
	var stmts []ram.Node
	for _, c := range clauses {
		if c.IsSubsumptive() {
			variant, target, err := subsumptionVariant(c, SubsumeDeleteCurrentCurrent)
			if err != nil {
				return nil, err
			}
			q, err := TranslateClause(ctx, variant, "", -1)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, q, ram.Erase{Relation: target, Source: variant.Head.Relation})
			continue
		}
		q, err := TranslateClause(ctx, c, "", -1)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, q)
	}
	return ram.Sequence{Children: stmts}, nil
}

func translateRecursiveSCC(ctx *Context, sccIdx int, relations []string, sccSet map[string]bool, clauses []*ast.Clause) (ram.Node, error) {
	var exitClauses, recClauses, subsumptiveClauses []*ast.Clause
	for _, c := range clauses {
		switch {
		case c.IsSubsumptive():
			subsumptiveClauses = append(subsumptiveClauses, c)
		case isRecursiveClause(c, sccSet):
			recClauses = append(recClauses, c)
		default:
			exitClauses = append(exitClauses, c)
		}
	}

	// Preamble: seed the relations from their non-recursive clauses, then
	// prime each delta sibling with that seed.
	var pre []ram.Node
	for _, c := range exitClauses {
		q, err := TranslateClause(ctx, c, "", -1)
		if err != nil {
			return nil, err
		}
		pre = append(pre, q)
	}
	for _, r := range relations {
		extend := ctx.Program.Relations[r].Representation == ast.RepEqrel
		pre = append(pre, ram.MergeExtend{Src: Concrete(r), Dst: Delta(r), Extend: extend})
	}

	// Main loop: every recursive version of every recursive clause fires
	// against the current deltas and inserts into @new_; subsumption
	// rejection runs before the merge so a candidate dominated by another
	// candidate or an already-current tuple is erased from @new_ and never
	// reaches the concrete relation.
	var body []ram.Node
	for _, c := range recClauses {
		for vi, vc := range recursiveClauseVersions(c, sccSet) {
			q, err := TranslateClause(ctx, vc, Concrete(c.Head.Relation), vi)
			if err != nil {
				return nil, err
			}
			body = append(body, q)
		}
	}
	for _, c := range subsumptiveClauses {
		for _, mode := range []SubsumptionMode{SubsumeRejectNewNew, SubsumeRejectNewCurrent} {
			variant, target, err := subsumptionVariant(c, mode)
			if err != nil {
				return nil, err
			}
			q, err := TranslateClause(ctx, variant, "", -1)
			if err != nil {
				return nil, err
			}
			body = append(body, q, ram.Erase{Relation: target, Source: variant.Head.Relation})
		}
	}

	emptinessChecks := make([]ram.Expr, len(relations))
	for i, r := range relations {
		emptinessChecks[i] = ram.EmptinessCheck{Relation: New(r)}
	}
	var exitCond ram.Expr = emptinessChecks[0]
	if len(emptinessChecks) > 1 {
		exitCond = ram.Conjunction{Children: emptinessChecks}
	}
	body = append(body, ram.Exit{Condition: exitCond})

	// A relation carrying a .limitsize directive gets its own independent
	// Exit, checked alongside (not folded into) the emptiness conjunction.
	for _, r := range relations {
		limit := ctx.Program.Relations[r].LimitSize
		if limit == nil {
			continue
		}
		body = append(body, ram.Exit{Condition: ram.Constraint{
			Op:  "GE",
			LHS: ram.RelationSize{Relation: Concrete(r)},
			RHS: ram.Constant{Kind: ram.Signed, Int: int64(*limit)},
		}})
	}

	// Subsumption deletion, after the exit checks and before the update
	// merge: retract current tuples dominated by a tuple in @delta_ (merged
	// at the end of the previous iteration), or by another current tuple.
	for _, c := range subsumptiveClauses {
		for _, mode := range []SubsumptionMode{SubsumeDeleteCurrentDelta, SubsumeDeleteCurrentCurrent} {
			variant, target, err := subsumptionVariant(c, mode)
			if err != nil {
				return nil, err
			}
			q, err := TranslateClause(ctx, variant, "", -1)
			if err != nil {
				return nil, err
			}
			body = append(body, q, ram.Erase{Relation: target, Source: variant.Head.Relation})
		}
	}

	// Update: merge @new_ into the concrete relation, rotate it into
	// @delta_ for the next iteration, and clear it.
	for _, r := range relations {
		body = append(body, ram.MergeExtend{Src: New(r), Dst: Concrete(r)})
		body = append(body, ram.Swap{A: Delta(r), B: New(r)})
		body = append(body, ram.Clear{Relation: New(r)})
	}

	loop := ram.Loop{Body: ram.Sequence{Children: body}}

	var post []ram.Node
	for _, r := range relations {
		post = append(post, ram.Clear{Relation: Delta(r)})
	}
	for _, r := range ctx.Analyses.ExpiredAt(sccIdx) {
		if _, isOutput := ctx.Program.Outputs[r]; isOutput {
			continue
		}
		post = append(post, ram.Clear{Relation: Concrete(r)})
	}

	all := append(pre, loop)
	all = append(all, post...)
	return ram.Sequence{Children: all}, nil
}
