package ast2ram

import (
	"golang.org/x/exp/slices"

	"github.com/rithvikp/dram/ast"
)

// EraseADTs performs the bottom-up, sum-type-constructor rewrite of
// spec.md §4.2: every ast.BranchInit becomes either a tagged integer
// (enum sum types) or a Record (simple or general branches). It returns a
// fresh *ast.Program — Go has no convenient interior-mutability story for
// in-place AST rewriting, so erasure clones the input and discards it
// (spec.md §9 "Mutation of analysed AST"); every later analysis must be
// built against the returned program, never the input. The bool result
// reports whether any rewrite occurred (informational only, per spec.md
// §4.2).
func EraseADTs(prog *ast.Program) (*ast.Program, bool, error) {
	out := prog.Clone()

	branchIDs, err := computeBranchIDs(out)
	if err != nil {
		return nil, false, err
	}

	e := &eraser{branchIDs: branchIDs, sumTypes: out.SumTypes}
	for _, c := range out.Clauses {
		c.Head = e.rewriteAtom(c.Head)
		for i, l := range c.Body {
			c.Body[i] = e.rewriteLiteral(l)
		}
		if c.Dominated != nil {
			rewritten := e.rewriteAtom(*c.Dominated)
			c.Dominated = &rewritten
		}
		if c.Dominating != nil {
			rewritten := e.rewriteAtom(*c.Dominating)
			c.Dominating = &rewritten
		}
	}
	return out, e.rewrote, nil
}

// computeBranchIDs sorts each sum type's branches lexicographically by
// name and assigns each branch its 0-based position. Duplicate branch
// names within one sum type are a programmer invariant violation: semantic
// analysis should have already rejected the program.
func computeBranchIDs(prog *ast.Program) (map[string]map[string]int, error) {
	out := map[string]map[string]int{}
	for typeName, st := range prog.SumTypes {
		names := make([]string, len(st.Branches))
		seen := map[string]bool{}
		for i, b := range st.Branches {
			names[i] = b.Name
			if seen[b.Name] {
				return nil, programmerError("adteraser", "", "duplicate branch name %q in sum type %q", b.Name, typeName)
			}
			seen[b.Name] = true
		}
		slices.Sort(names)
		ids := make(map[string]int, len(names))
		for i, n := range names {
			ids[n] = i
		}
		out[typeName] = ids
	}
	return out, nil
}

type eraser struct {
	branchIDs map[string]map[string]int
	sumTypes  map[string]*ast.SumType
	rewrote   bool
}

func (e *eraser) rewriteLiteral(l ast.Literal) ast.Literal {
	switch v := l.(type) {
	case ast.Atom:
		return e.rewriteAtom(v)
	case ast.Negation:
		return ast.Negation{Atom: e.rewriteAtom(v.Atom)}
	case ast.Constraint:
		return ast.Constraint{Op: v.Op, LHS: e.rewriteTerm(v.LHS), RHS: e.rewriteTerm(v.RHS)}
	default:
		return l
	}
}

func (e *eraser) rewriteAtom(a ast.Atom) ast.Atom {
	out := ast.Atom{Relation: a.Relation, Args: make([]ast.Term, len(a.Args))}
	for i, arg := range a.Args {
		out.Args[i] = e.rewriteTerm(arg)
	}
	return out
}

func (e *eraser) rewriteTerm(t ast.Term) ast.Term {
	switch v := t.(type) {
	case ast.BranchInit:
		e.rewrote = true
		return e.erase(v)
	case ast.Record:
		children := make([]ast.Term, len(v.Children))
		for i, c := range v.Children {
			children[i] = e.rewriteTerm(c)
		}
		return ast.Record{Children: children}
	case ast.Aggregate:
		body := make([]ast.Literal, len(v.Body))
		for i, l := range v.Body {
			body[i] = e.rewriteLiteral(l)
		}
		return ast.Aggregate{Op: v.Op, Target: e.rewriteTerm(v.Target), Body: body}
	case ast.Functor:
		args := make([]ast.Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.rewriteTerm(a)
		}
		return ast.Functor{Kind: v.Kind, Name: v.Name, Args: args, MultiResult: v.MultiResult}
	default:
		return t
	}
}

func (e *eraser) erase(b ast.BranchInit) ast.Term {
	ids, ok := e.branchIDs[b.SumType]
	if !ok {
		// Unknown sum type: treat as a programmer invariant, surfaced by
		// returning the original node — callers that run EraseADTs under
		// well-typed input never hit this branch.
		return b
	}
	tag := ids[b.Branch]

	args := make([]ast.Term, len(b.Args))
	for i, a := range b.Args {
		args[i] = e.rewriteTerm(a)
	}

	if allBranchesNullary(e, b.SumType) {
		return ast.Const{Kind: ast.ConstSigned, Int: int64(tag)}
	}
	if len(args) == 1 {
		return ast.Record{Children: []ast.Term{ast.Const{Kind: ast.ConstSigned, Int: int64(tag)}, args[0]}}
	}
	return ast.Record{Children: []ast.Term{
		ast.Const{Kind: ast.ConstSigned, Int: int64(tag)},
		ast.Record{Children: args},
	}}
}

// allBranchesNullary looks the sum type up by name in the eraser's
// sumTypes map (the cloned program's SumTypes, set in EraseADTs), since
// BranchInit only carries the type's name; an unknown name reports false.
func allBranchesNullary(e *eraser, sumType string) bool {
	st, ok := e.sumTypes[sumType]
	if !ok {
		return false
	}
	return st.IsEnum()
}
