package ast2ram

import (
	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ram"
)

// resolveOrder picks the atom ordering for one clause firing (spec.md
// §4.4.1): an explicit per-version plan wins if present; otherwise source
// order unless auto-scheduling is enabled and there is more than one atom,
// in which case the Selinger planner decides.
func resolveOrder(ctx *Context, clause *ast.Clause, atoms []ast.Atom, constraints []ast.Constraint, version int) ([]int, error) {
	if version >= 0 && clause.Plan != nil {
		if plan, ok := clause.Plan[version]; ok && len(plan) == len(atoms) {
			return plan, nil
		}
	}
	if !ctx.Config.AutoSchedule || len(atoms) <= 1 {
		return identityOrder(len(atoms)), nil
	}
	order, err := selingerPlan(atoms, constraints, ctx.Analyses.Stats)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// createInsertion builds spec.md §4.4.3 step 1: the innermost node of the
// bottom-up construction.
func createInsertion(ctx *Context, vi *ValueIndex, clause *ast.Clause, headRel string) (ram.Node, error) {
	if len(clause.Head.Args) == 0 {
		base := ram.Insert{Relation: headRel, Values: nil}
		return ram.Filter{Condition: ram.EmptinessCheck{Relation: headRel}, Child: base}, nil
	}

	values := make([]ram.Expr, len(clause.Head.Args))
	for i, a := range clause.Head.Args {
		e, err := translateValue(a, vi, ctx)
		if err != nil {
			return nil, err
		}
		values[i] = e
	}

	fds := clause.FuncDeps
	if len(fds) == 0 {
		if rel, ok := ctx.Program.Relations[Unmangle(headRel)]; ok {
			fds = rel.FuncDeps
		}
	}
	if len(fds) == 0 {
		return ram.Insert{Relation: headRel, Values: values}, nil
	}

	// Guard against re-deriving an identical tuple; this is a
	// simplification of full functional-dependency-violation detection
	// (which would need to compare only the Dom columns against existing
	// tuples and reject conflicting, not just identical, Codom values),
	// adequate for the common case where a declared functional dependency
	// coincides with the relation's uniqueness key.
	guard := ram.Negation{Child: ram.ExistenceCheck{Relation: headRel, Values: values}}
	return ram.GuardedInsert{Relation: headRel, Values: values, Guard: guard}, nil
}

// wrapGenerator implements spec.md §4.4.3 step 6 for one generator level.
func wrapGenerator(ctx *Context, vi *ValueIndex, lv level, levelIdx int, child ram.Node) (ram.Node, error) {
	switch {
	case lv.agg != nil:
		return wrapAggregate(ctx, vi, lv, levelIdx, child)
	case lv.functor != nil:
		return wrapMultiResultFunctor(ctx, vi, lv, levelIdx, child)
	default:
		return nil, programmerError("clausetranslator", "", "generator level %d has neither aggregate nor functor", levelIdx)
	}
}

const aggregateSubLevelBase = 1_000_000

func wrapAggregate(ctx *Context, vi *ValueIndex, lv level, levelIdx int, child ram.Node) (ram.Node, error) {
	var groupAtom *ast.Atom
	var rest []ast.Literal
	for _, l := range lv.agg.Body {
		if a, ok := l.(ast.Atom); ok && groupAtom == nil {
			atomCopy := a
			groupAtom = &atomCopy
			continue
		}
		rest = append(rest, l)
	}
	if groupAtom == nil {
		return nil, programError("clausetranslator", "", "aggregate has no grounding atom in its body")
	}

	subLevel := aggregateSubLevelBase + levelIdx
	var nested []level
	constFilters := map[int][]ram.Expr{}
	if err := indexAtomArgs(ctx, vi, &nested, subLevel, groupAtom.Args, constFilters); err != nil {
		return nil, err
	}

	target, err := translateValue(lv.agg.Target, vi, ctx)
	if err != nil {
		return nil, err
	}

	var condParts []ram.Expr
	condParts = append(condParts, constFilters[subLevel]...)
	for _, l := range rest {
		cond, ok, err := translateConstraint(l, vi, ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			condParts = append(condParts, cond)
		}
	}

	var condition ram.Expr = ram.Constraint{Op: "EQ", LHS: ram.Constant{Kind: ram.Signed, Int: 1}, RHS: ram.Constant{Kind: ram.Signed, Int: 1}}
	if len(condParts) == 1 {
		condition = condParts[0]
	} else if len(condParts) > 1 {
		condition = ram.Conjunction{Children: condParts}
	}

	return ram.Aggregate{
		Op:        string(lv.agg.Op),
		Relation:  Concrete(groupAtom.Relation),
		Target:    target,
		Condition: condition,
		Level:     levelIdx,
		Child:     child,
	}, nil
}

func wrapMultiResultFunctor(ctx *Context, vi *ValueIndex, lv level, levelIdx int, child ram.Node) (ram.Node, error) {
	switch lv.functor.Name {
	case ast.FnRange, ast.FnURange, ast.FnFRange:
	default:
		return nil, programError("clausetranslator", "", "unsupported multi-result functor %q", lv.functor.Name)
	}
	args := make([]ram.Expr, len(lv.functor.Args))
	for i, a := range lv.functor.Args {
		e, err := translateValue(a, vi, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return ram.NestedIntrinsicOperator{Op: lv.functor.Name, Args: args, Level: levelIdx, Child: child}, nil
}
