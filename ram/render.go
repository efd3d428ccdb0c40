package ram

import (
	"fmt"
	"strings"
)

// Render produces the textual form of a RAM node, used for the
// "ram-program" debug-report section (spec.md §6) and for golden tests.
func Render(n Node) string {
	var b strings.Builder
	render(&b, n, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func exprList(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = Render(e)
	}
	return strings.Join(parts, ", ")
}

func render(b *strings.Builder, n Node, depth int) {
	indent(b, depth)
	switch v := n.(type) {
	case Constant:
		switch v.Kind {
		case Signed:
			fmt.Fprintf(b, "%d", v.Int)
		case Unsigned:
			fmt.Fprintf(b, "%du", v.Uint)
		case Float:
			fmt.Fprintf(b, "%gf", v.Float64)
		case Symbol:
			fmt.Fprintf(b, "%q", v.Sym)
		}
	case TupleElement:
		fmt.Fprintf(b, "t%d.%d", v.Level, v.Column)
	case PackRecord:
		fmt.Fprintf(b, "[%s]", exprList(v.Children))
	case IntrinsicOperator:
		fmt.Fprintf(b, "%s(%s)", v.Op, exprList(v.Args))
	case UserDefinedOperator:
		fmt.Fprintf(b, "@%s(%s)", v.Name, exprList(v.Args))
	case Constraint:
		fmt.Fprintf(b, "%s %s %s", Render(v.LHS), v.Op, Render(v.RHS))
	case ExistenceCheck:
		fmt.Fprintf(b, "%s(%s) ∈", v.Relation, exprList(v.Values))
	case ProvenanceExistenceCheck:
		fmt.Fprintf(b, "%s(%s) ∈ₚ", v.Relation, exprList(v.Values))
	case EmptinessCheck:
		fmt.Fprintf(b, "isempty(%s)", v.Relation)
	case RelationSize:
		fmt.Fprintf(b, "size(%s)", v.Relation)
	case Negation:
		fmt.Fprintf(b, "¬(%s)", Render(v.Child))
	case Conjunction:
		parts := make([]string, len(v.Children))
		for i, c := range v.Children {
			parts[i] = Render(c)
		}
		b.WriteString(strings.Join(parts, " ∧ "))

	case Query:
		b.WriteString("QUERY\n")
		render(b, v.Root, depth+1)
	case Sequence:
		b.WriteString("SEQUENCE\n")
		for _, c := range v.Children {
			render(b, c, depth+1)
			b.WriteString("\n")
		}
	case Parallel:
		b.WriteString("PARALLEL\n")
		for _, c := range v.Children {
			render(b, c, depth+1)
			b.WriteString("\n")
		}
	case Loop:
		b.WriteString("LOOP\n")
		render(b, v.Body, depth+1)
	case Exit:
		fmt.Fprintf(b, "EXIT %s", Render(v.Condition))
	case Insert:
		fmt.Fprintf(b, "INSERT %s(%s)", v.Relation, exprList(v.Values))
	case GuardedInsert:
		fmt.Fprintf(b, "GUARDED-INSERT %s(%s) IF %s", v.Relation, exprList(v.Values), Render(v.Guard))
	case Filter:
		fmt.Fprintf(b, "FILTER %s\n", Render(v.Condition))
		render(b, v.Child, depth+1)
	case Break:
		fmt.Fprintf(b, "BREAK %s\n", Render(v.Condition))
		render(b, v.Child, depth+1)
	case Scan:
		tag := "SCAN"
		if v.Parallel {
			tag = "PARALLEL SCAN"
		}
		fmt.Fprintf(b, "%s %s AS t%d\n", tag, v.Relation, v.Level)
		render(b, v.Child, depth+1)
	case IndexScan:
		tag := "INDEXSCAN"
		if v.Parallel {
			tag = "PARALLEL INDEXSCAN"
		}
		fmt.Fprintf(b, "%s %s[%s] AS t%d\n", tag, v.Relation, exprList(v.Pattern), v.Level)
		render(b, v.Child, depth+1)
	case UnpackRecord:
		fmt.Fprintf(b, "UNPACK %s ARITY %d AS t%d\n", Render(v.Location), v.Arity, v.Level)
		render(b, v.Child, depth+1)
	case Aggregate:
		fmt.Fprintf(b, "AGGREGATE %s %s(%s) WHERE %s AS t%d\n", v.Op, Render(v.Target), v.Relation, Render(v.Condition), v.Level)
		render(b, v.Child, depth+1)
	case NestedIntrinsicOperator:
		fmt.Fprintf(b, "GENERATE %s(%s) AS t%d\n", v.Op, exprList(v.Args), v.Level)
		render(b, v.Child, depth+1)
	case Clear:
		fmt.Fprintf(b, "CLEAR %s", v.Relation)
	case Swap:
		fmt.Fprintf(b, "SWAP %s, %s", v.A, v.B)
	case MergeExtend:
		tag := "MERGE"
		if v.Extend {
			tag = "EXTEND"
		}
		fmt.Fprintf(b, "%s %s INTO %s", tag, v.Src, v.Dst)
	case Erase:
		fmt.Fprintf(b, "ERASE %s FROM %s", v.Source, v.Relation)
	case Call:
		fmt.Fprintf(b, "CALL %s", v.Subroutine)
	case IO:
		fmt.Fprintf(b, "IO %s %s (%s)", strings.ToUpper(v.Kind), v.Relation, v.Directive)
	case LogTimer:
		fmt.Fprintf(b, "LOGTIMER %q\n", v.Label)
		render(b, v.Child, depth+1)
	case LogRelationTimer:
		fmt.Fprintf(b, "LOGTIMER %q ON %s\n", v.Label, v.Relation)
		render(b, v.Child, depth+1)
	case DebugInfo:
		fmt.Fprintf(b, "// %s\n", v.Text)
		render(b, v.Child, depth+1)
	default:
		fmt.Fprintf(b, "<unknown node %T>", n)
	}
}
