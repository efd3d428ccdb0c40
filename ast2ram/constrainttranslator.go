package ast2ram

import (
	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ram"
)

// translateConstraint lowers a body literal to a RAM condition (spec.md
// §4.3). A bare atom literal is consumed by level introduction, not as a
// filter, so it returns (nil, false, nil) in that case.
func translateConstraint(l ast.Literal, vi *ValueIndex, ctx *Context) (ram.Expr, bool, error) {
	switch v := l.(type) {
	case ast.Atom:
		return nil, false, nil

	case ast.Constraint:
		lhs, err := translateValue(v.LHS, vi, ctx)
		if err != nil {
			return nil, false, err
		}
		rhs, err := translateValue(v.RHS, vi, ctx)
		if err != nil {
			return nil, false, err
		}
		return ram.Constraint{Op: v.Op, LHS: lhs, RHS: rhs}, true, nil

	case ast.Negation:
		values := make([]ram.Expr, len(v.Atom.Args))
		for i, a := range v.Atom.Args {
			e, err := translateValue(a, vi, ctx)
			if err != nil {
				return nil, false, err
			}
			values[i] = e
		}
		if len(values) == 0 {
			return ram.EmptinessCheck{Relation: v.Atom.Relation}, true, nil
		}
		return ram.Negation{Child: ram.ExistenceCheck{Relation: v.Atom.Relation, Values: values}}, true, nil

	default:
		return nil, false, programmerError("constrainttranslator", "", "unhandled literal kind %T", l)
	}
}
