package interpreter

import "github.com/rithvikp/dram/ram"

// ColumnKind classifies how one IndexScan pattern column is satisfied,
// decided once at compile time so execution never re-walks the pattern's
// expression tree per outer tuple.
type ColumnKind int

const (
	// ColumnUnbound: the column is unconstrained by this scan.
	ColumnUnbound ColumnKind = iota
	// ColumnConstant: the column must equal a literal known at compile time.
	ColumnConstant
	// ColumnTupleElement: the column must equal a value already bound at an
	// outer level — a plain copy, not a recomputation.
	ColumnTupleElement
	// ColumnExpr: the column's bound value is a general expression that
	// must be evaluated per outer tuple (the fallback case).
	ColumnExpr
)

// SuperInstruction is the precomputed, per-column classification of an
// IndexScan's bound pattern (spec.md §4.6), named for Souffle's
// equivalent optimization: constant and tuple-element equalities are
// pulled out into flat arrays an execution backend can apply directly
// against its index without consulting the general expression evaluator.
type SuperInstruction struct {
	Kinds []ColumnKind

	// ConstantInt/ConstantUint/ConstantFloat/ConstantSym hold the literal
	// value for columns with Kinds[i] == ColumnConstant.
	ConstantInt   map[int]int64
	ConstantUint  map[int]uint64
	ConstantFloat map[int]float64
	ConstantSym   map[int]string

	// TupleElementLevel/TupleElementColumn hold the source location for
	// columns with Kinds[i] == ColumnTupleElement.
	TupleElementLevel  map[int]int
	TupleElementColumn map[int]int

	// ExprColumns lists the indices of columns with Kinds[i] == ColumnExpr,
	// whose general ram.Expr the backend must still evaluate; Pattern
	// retains the full original expression list so it can do so.
	ExprColumns []int
	Pattern     []ram.Expr
}

// buildSuperInstruction classifies pattern's columns. A nil entry means the
// column is unbound.
func buildSuperInstruction(pattern []ram.Expr) *SuperInstruction {
	si := &SuperInstruction{
		Kinds:              make([]ColumnKind, len(pattern)),
		ConstantInt:        map[int]int64{},
		ConstantUint:       map[int]uint64{},
		ConstantFloat:      map[int]float64{},
		ConstantSym:        map[int]string{},
		TupleElementLevel:  map[int]int{},
		TupleElementColumn: map[int]int{},
		Pattern:            pattern,
	}

	for i, e := range pattern {
		switch v := e.(type) {
		case nil:
			si.Kinds[i] = ColumnUnbound
		case ram.Constant:
			si.Kinds[i] = ColumnConstant
			switch v.Kind {
			case ram.Signed:
				si.ConstantInt[i] = v.Int
			case ram.Unsigned:
				si.ConstantUint[i] = v.Uint
			case ram.Float:
				si.ConstantFloat[i] = v.Float64
			case ram.Symbol:
				si.ConstantSym[i] = v.Sym
			}
		case ram.TupleElement:
			si.Kinds[i] = ColumnTupleElement
			si.TupleElementLevel[i] = v.Level
			si.TupleElementColumn[i] = v.Column
		default:
			si.Kinds[i] = ColumnExpr
			si.ExprColumns = append(si.ExprColumns, i)
		}
	}
	return si
}
