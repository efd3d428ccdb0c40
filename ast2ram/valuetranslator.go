package ast2ram

import (
	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ram"
)

// translateValue lowers an AST value expression to a RAM expression,
// consulting vi for variable locations and ctx for symbol interning and
// functor resolution (spec.md §4.3).
func translateValue(t ast.Term, vi *ValueIndex, ctx *Context) (ram.Expr, error) {
	switch v := t.(type) {
	case ast.Const:
		return translateConst(v, ctx), nil

	case ast.Var:
		loc, ok := vi.Canonical(v.Name)
		if !ok {
			return nil, programmerError("valuetranslator", "", "unbound variable %q", v.Name)
		}
		return ram.TupleElement{Level: loc.Level, Column: loc.Column}, nil

	case ast.Record:
		children := make([]ram.Expr, len(v.Children))
		for i, c := range v.Children {
			e, err := translateValue(c, vi, ctx)
			if err != nil {
				return nil, err
			}
			children[i] = e
		}
		return ram.PackRecord{Children: children}, nil

	case ast.Functor:
		if v.MultiResult {
			return nil, programError("valuetranslator", "", "multi-result functor %q used as a value outside generator level introduction", v.Name)
		}
		args := make([]ram.Expr, len(v.Args))
		for i, a := range v.Args {
			e, err := translateValue(a, vi, ctx)
			if err != nil {
				return nil, err
			}
			args[i] = e
		}
		opCode := v.Name
		if sig, ok := ctx.Analyses.Functors[v.Name]; ok {
			opCode = sig.OpCode
		}
		if v.Kind == ast.FunctorUser {
			return ram.UserDefinedOperator{Name: v.Name, Args: args}, nil
		}
		return ram.IntrinsicOperator{Op: opCode, Args: args}, nil

	case ast.Aggregate:
		// An aggregate's value is never translated directly: spec.md
		// §4.4.2 binds the enclosing variable to the generator's slot
		// during the indexing pass, so references to it flow through the
		// ast.Var case above. Reaching this case means the indexing pass
		// failed to bind the aggregate's target variable first.
		return nil, programmerError("valuetranslator", "", "aggregate translated as a bare value; should have been bound to a generator slot")

	case ast.BranchInit:
		return nil, programmerError("valuetranslator", "", "BranchInit %s::%s survived ADT erasure", v.SumType, v.Branch)

	default:
		return nil, programmerError("valuetranslator", "", "unhandled term kind %T", t)
	}
}

func translateConst(c ast.Const, ctx *Context) ram.Expr {
	switch c.Kind {
	case ast.ConstSigned:
		return ram.Constant{Kind: ram.Signed, Int: c.Int}
	case ast.ConstUnsigned:
		return ram.Constant{Kind: ram.Unsigned, Uint: c.Uint}
	case ast.ConstFloat:
		return ram.Constant{Kind: ram.Float, Float64: c.Float}
	case ast.ConstSymbol:
		ctx.Symbols.Intern(c.Symbol)
		return ram.Constant{Kind: ram.Symbol, Sym: c.Symbol}
	case ast.ConstNil:
		return ram.Constant{Kind: ram.Signed, Int: 0}
	default:
		return ram.Constant{Kind: ram.Signed, Int: 0}
	}
}

// constOp returns the equality operator code appropriate for comparing
// against c: floats compare with FEQ, everything else with EQ (spec.md
// §4.4.4).
func constOp(c ast.Const) string {
	if c.Kind == ast.ConstFloat {
		return "FEQ"
	}
	return "EQ"
}
