package ast2ram

import (
	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ram"
)

// levelKind distinguishes what occupies one structural level of the
// indexing pass (spec.md §4.4.2).
type levelKind int

const (
	levelAtom levelKind = iota
	levelRecord
	levelGenerator
)

type level struct {
	kind levelKind

	// levelAtom
	atom ast.Atom

	// levelRecord
	parent Location // (tuple-id, column) the record/ADT was found at
	arity  int
	fields []ast.Term // child terms, re-walked recursively after binding

	// levelGenerator
	genVar  string
	agg     *ast.Aggregate
	functor *ast.Functor
}

// TranslateClause implements the per-clause algorithm of spec.md §4.4 for
// one already-resolved firing: clause.Head.Relation is taken as-is as the
// insertion target, so a recursive version's head must already be mangled
// to its @new_ name and its head re-derivation guard must already be
// present as an ordinary Negation literal in clause.Body — both are the
// SCC Driver's responsibility (see sccdriver.go, which adds no negated
// @delta_ checks for later within-SCC atoms), mirroring
// Souffle's AstToRamTranslator::createRecursiveClauseVersions rewriting
// the clause before ClauseTranslator ever sees it.
//
// headMain, when non-empty, names the non-mangled head relation consulted
// for the nullary-head entry filter and early-exit Break (spec.md §4.4.3
// items 7-8); callers translating non-recursive clauses pass "".
func TranslateClause(ctx *Context, clause *ast.Clause, headMain string, version int) (ram.Query, error) {
	atoms, negations, constraints, genConstraints, err := splitBody(clause.Body)
	if err != nil {
		return ram.Query{}, err
	}

	order, err := resolveOrder(ctx, clause, atoms, constraints, version)
	if err != nil {
		return ram.Query{}, err
	}

	vi := NewValueIndex()
	var levels []level
	var constFilters = map[int][]ram.Expr{} // level -> constant-equality filters (spec.md §4.4.4)

	for _, atomIdx := range order {
		a := atoms[atomIdx]
		lvl := len(levels)
		levels = append(levels, level{kind: levelAtom, atom: a})
		if err := indexAtomArgs(ctx, vi, &levels, lvl, a.Args, constFilters); err != nil {
			return ram.Query{}, err
		}
	}

	for _, gc := range genConstraints {
		lvl := len(levels)
		loc := Location{Level: lvl, Column: 0}
		vi.BindVariable(gc.varName, loc)
		vi.BindGenerator(loc)
		levels = append(levels, level{kind: levelGenerator, genVar: gc.varName, agg: gc.agg, functor: gc.functor})
	}

	headRel := clause.Head.Relation
	isNullaryHead := len(clause.Head.Args) == 0
	isRecursiveVersion := headMain != ""

	// Step 1: insertion.
	node, err := createInsertion(ctx, vi, clause, headRel)
	if err != nil {
		return ram.Query{}, err
	}

	// Step 2: body literal constraints (ordinary binary constraints and
	// the negated atoms in the body, including the head re-derivation
	// guard the SCC Driver appends to a recursive version).
	for _, c := range constraints {
		cond, ok, err := translateConstraint(c, vi, ctx)
		if err != nil {
			return ram.Query{}, err
		}
		if ok {
			node = ram.Filter{Condition: cond, Child: node}
		}
	}
	for _, n := range negations {
		cond, ok, err := translateConstraint(n, vi, ctx)
		if err != nil {
			return ram.Query{}, err
		}
		if ok {
			node = ram.Filter{Condition: cond, Child: node}
		}
	}

	// Step 5: variable-binding equalities (every non-canonical, non-
	// generator occurrence is equated to the canonical occurrence).
	for _, name := range vi.Variables() {
		occ := vi.Occurrences(name)
		canonical := occ[0]
		for _, loc := range occ[1:] {
			if vi.IsGenerator(loc) {
				continue
			}
			node = ram.Filter{
				Condition: ram.Constraint{
					Op:  "EQ",
					LHS: ram.TupleElement{Level: canonical.Level, Column: canonical.Column},
					RHS: ram.TupleElement{Level: loc.Level, Column: loc.Column},
				},
				Child: node,
			}
		}
	}

	// Step 6: generator levels, innermost-first order (closest to head).
	for i := len(levels) - 1; i >= 0; i-- {
		lv := levels[i]
		if lv.kind != levelGenerator {
			continue
		}
		n, err := wrapGenerator(ctx, vi, lv, i, node)
		if err != nil {
			return ram.Query{}, err
		}
		node = n
	}

	// Step 7: variable introductions, reverse assignment order.
	for i := len(levels) - 1; i >= 0; i-- {
		lv := levels[i]
		if lv.kind == levelGenerator {
			continue
		}
		inner := node
		for _, f := range constFilters[i] {
			inner = ram.Filter{Condition: f, Child: inner}
		}
		switch lv.kind {
		case levelAtom:
			if allWildcardArgs(lv.atom.Args) {
				node = ram.Filter{Condition: ram.Negation{Child: ram.EmptinessCheck{Relation: lv.atom.Relation}}, Child: inner}
				continue
			}
			var scan ram.Node = ram.Scan{Relation: lv.atom.Relation, Level: i, Child: inner}
			if isNullaryHead {
				scan = ram.Break{Condition: ram.EmptinessCheck{Relation: headRel}, Child: scan}
			}
			node = scan
		case levelRecord:
			node = ram.UnpackRecord{
				Level:    i,
				Location: ram.TupleElement{Level: lv.parent.Level, Column: lv.parent.Column},
				Arity:    lv.arity,
				Child:    inner,
			}
		}
	}

	// Step 8: entry filter for nullary recursive heads.
	if isNullaryHead && isRecursiveVersion {
		node = ram.Filter{Condition: ram.EmptinessCheck{Relation: headMain}, Child: node}
	}

	return ram.Query{Root: node}, nil
}

// genConstraint is a body constraint of shape `var = aggregate(...)` or
// `var = multiResultFunctor(...)`, pulled out of the ordinary constraint
// list during splitBody and processed as a generator (spec.md §4.4.2).
type genConstraint struct {
	varName string
	agg     *ast.Aggregate
	functor *ast.Functor
}

func splitBody(body []ast.Literal) (atoms []ast.Atom, negations []ast.Negation, constraints []ast.Constraint, gens []genConstraint, err error) {
	for _, l := range body {
		switch v := l.(type) {
		case ast.Atom:
			atoms = append(atoms, v)
		case ast.Negation:
			negations = append(negations, v)
		case ast.Constraint:
			if gc, ok := asGenConstraint(v); ok {
				gens = append(gens, gc)
				continue
			}
			constraints = append(constraints, v)
		default:
			return nil, nil, nil, nil, programmerError("clausetranslator", "", "unhandled body literal kind %T", l)
		}
	}
	return atoms, negations, constraints, gens, nil
}

func asGenConstraint(c ast.Constraint) (genConstraint, bool) {
	if c.Op != "EQ" {
		return genConstraint{}, false
	}
	v, ok := c.LHS.(ast.Var)
	rhs := c.RHS
	if !ok {
		if v2, ok2 := c.RHS.(ast.Var); ok2 {
			v, rhs, ok = v2, c.LHS, true
		}
	}
	if !ok {
		return genConstraint{}, false
	}
	switch g := rhs.(type) {
	case ast.Aggregate:
		agg := g
		return genConstraint{varName: v.Name, agg: &agg}, true
	case ast.Functor:
		if g.MultiResult {
			f := g
			return genConstraint{varName: v.Name, functor: &f}, true
		}
	}
	return genConstraint{}, false
}

// allWildcardArgs reports whether every argument is the unnamed wildcard
// variable "_" (true vacuously for a nullary atom) — spec.md §4.4.3 item 7's
// third production: such an atom contributes no bindings, so it needs no
// Scan, only the emptiness filter that still asserts it has at least one row.
func allWildcardArgs(args []ast.Term) bool {
	for _, arg := range args {
		v, ok := arg.(ast.Var)
		if !ok || v.Name != "_" {
			return false
		}
	}
	return true
}

// indexAtomArgs binds every argument of an atom occupying level lvl: plain
// variables are bound directly, constants become entries in constFilters
// (emitted beneath the level's scan per spec.md §4.4.4), and nested
// records recursively consume further levels — this single walk produces
// both plain user-record unpacking and (after ADT erasure rewrote every
// BranchInit into a Record) simple/general ADT unpacking, with no
// ADT-specific logic required here.
func indexAtomArgs(ctx *Context, vi *ValueIndex, levels *[]level, lvl int, args []ast.Term, constFilters map[int][]ram.Expr) error {
	for col, arg := range args {
		loc := Location{Level: lvl, Column: col}
		switch v := arg.(type) {
		case ast.Var:
			if v.Name == "_" {
				continue
			}
			vi.BindVariable(v.Name, loc)
		case ast.Const:
			expr := translateConst(v, ctx)
			constFilters[lvl] = append(constFilters[lvl], ram.Constraint{
				Op:  constOp(v),
				LHS: ram.TupleElement{Level: lvl, Column: col},
				RHS: expr,
			})
		case ast.Record:
			if err := indexRecord(ctx, vi, levels, loc, v, constFilters); err != nil {
				return err
			}
		case ast.BranchInit:
			return programmerError("clausetranslator", "", "BranchInit %s::%s survived ADT erasure", v.SumType, v.Branch)
		default:
			return programmerError("clausetranslator", "", "unhandled atom argument kind %T", arg)
		}
	}
	return nil
}

// indexRecord reserves the next structural level for a nested record/ADT
// unpack at parent, then recurses into its children — general ADTs (two
// nested Records after erasure) naturally consume two levels this way,
// simple ADTs and plain user records consume one.
func indexRecord(ctx *Context, vi *ValueIndex, levels *[]level, parent Location, rec ast.Record, constFilters map[int][]ram.Expr) error {
	lvl := len(*levels)
	vi.BindRecord(parent, len(rec.Children))
	*levels = append(*levels, level{kind: levelRecord, parent: parent, arity: len(rec.Children)})
	return indexAtomArgs(ctx, vi, levels, lvl, rec.Children, constFilters)
}
