package ast2ram

import "github.com/rithvikp/dram/ast"

// SubsumptionMode names one of the four synthetic clauses spec.md §4.4.5
// derives from a single subsumptive clause `Dominating <= Dominated.`, each
// run during a different phase of the owning SCC's fixpoint:
//
//   - SubsumeRejectNewNew and SubsumeRejectNewCurrent run during the main
//     loop, before a @new_ candidate is merged into the relation, to keep it
//     from ever entering: a candidate dominated by another candidate or by
//     an already-current tuple is rejected outright.
//   - SubsumeDeleteCurrentDelta and SubsumeDeleteCurrentCurrent run later
//     in the same iteration, after the exit checks and before the update
//     merges @new_ into the relation, to retract current tuples dominated
//     by a tuple in @delta_ (merged at the end of the previous iteration)
//     or by another current tuple.
type SubsumptionMode int

const (
	SubsumeRejectNewNew SubsumptionMode = iota
	SubsumeRejectNewCurrent
	SubsumeDeleteCurrentDelta
	SubsumeDeleteCurrentCurrent
)

// subsumptionVariant rewrites clause (which must satisfy IsSubsumptive)
// into the synthetic, ordinary clause for mode: Dominated/Dominating are
// relabelled to the @new_/@delta_/concrete sibling the mode calls for, the
// head becomes a Reject/Delete relation, and — for the two modes where
// Dominated and Dominating range over the same version of the relation — a
// distinctness constraint keeps a tuple from dominating itself.
//
// The synthetic clause is ordinary input to TranslateClause: no
// subsumption-specific logic lives in the clause translator itself.
// eraseTarget names the relation the resulting Reject/Delete relation must
// subsequently be Erase'd against (spec.md §4.4.5) — the rewritten
// Dominated relation, which subsumptionVariant clears from the returned
// clause's Dominated field before returning it.
func subsumptionVariant(clause *ast.Clause, mode SubsumptionMode) (variant *ast.Clause, eraseTarget string, err error) {
	if !clause.IsSubsumptive() {
		return nil, "", programmerError("subsumption", "", "subsumptionVariant called on a non-subsumptive clause")
	}
	base := clause.Dominated.Relation

	out := clause.Clone()
	dominated := out.Dominated
	dominating := out.Dominating
	var headRel string
	var selfDistinct bool

	switch mode {
	case SubsumeRejectNewNew:
		dominated.Relation = New(base)
		dominating.Relation = New(base)
		headRel = Reject(base)
		selfDistinct = true
	case SubsumeRejectNewCurrent:
		dominated.Relation = New(base)
		dominating.Relation = Concrete(base)
		headRel = Reject(base)
	case SubsumeDeleteCurrentDelta:
		dominated.Relation = Concrete(base)
		dominating.Relation = Delta(base)
		headRel = Delete(base)
	case SubsumeDeleteCurrentCurrent:
		dominated.Relation = Concrete(base)
		dominating.Relation = Concrete(base)
		headRel = Delete(base)
		selfDistinct = true
	default:
		return nil, "", programmerError("subsumption", "", "unhandled subsumption mode %d", mode)
	}

	target := dominated.Relation
	out.Head = ast.Atom{Relation: headRel, Args: dominated.Args}
	out.Body = append([]ast.Literal{*dominating, *dominated}, out.Body...)
	if selfDistinct {
		out.Body = append(out.Body, ast.Constraint{
			Op:  "NE",
			LHS: ast.Record{Children: dominating.Args},
			RHS: ast.Record{Children: dominated.Args},
		})
	}
	out.Dominated = nil
	out.Dominating = nil
	return out, target, nil
}
