// Package ram defines the relational-algebra IR that ast2ram lowers rule
// programs into: statements (Query, Sequence, Loop, Insert, Scan, ...) and
// expressions (TupleElement, PackRecord, constants, Constraint, ...).
//
// The node set is closed and is expressed as a small interface with a
// fixed family of concrete struct implementations — the Go analogue of the
// discriminated unions a pattern-matching language would use here.
package ram

// Node is any IR tree element: a statement or an expression. All concrete
// types in this package implement it. Use Render to obtain the textual
// form consumed by the debug-report payload (spec.md §6).
type Node interface {
	isNode()
}

// Expr is a Node that produces a value (as opposed to a statement that
// produces an effect). It exists purely to make call sites self-documenting;
// the type set is identical to Node's expression-shaped members.
type Expr interface {
	Node
	isExpr()
}

type node struct{}

func (node) isNode() {}

type expr struct{ node }

func (expr) isExpr() {}

// ---- expressions ----

type ConstKind int

const (
	Signed ConstKind = iota
	Unsigned
	Float
	Symbol
)

// Constant is a literal value carried in the finalized polymorphism type.
type Constant struct {
	expr
	Kind   ConstKind
	Int    int64
	Uint   uint64
	Float64 float64
	Sym    string
}

// TupleElement references column Column of the tuple bound at Level.
type TupleElement struct {
	expr
	Level  int
	Column int
}

// PackRecord builds a fixed-arity record value from its children.
type PackRecord struct {
	expr
	Children []Expr
}

// IntrinsicOperator applies a built-in scalar operator (single-result).
type IntrinsicOperator struct {
	expr
	Op   string
	Args []Expr
}

// UserDefinedOperator applies a registered user functor (single-result).
type UserDefinedOperator struct {
	expr
	Name string
	Args []Expr
}

// ---- conditions (also Expr: they yield a boolean) ----

// Constraint is a binary comparison between two expressions.
type Constraint struct {
	expr
	Op  string // EQ, FEQ, NE, LT, LE, GT, GE
	LHS Expr
	RHS Expr
}

// ExistenceCheck tests whether a tuple matching Values exists in Relation.
type ExistenceCheck struct {
	expr
	Relation string
	Values   []Expr
}

// ProvenanceExistenceCheck is ExistenceCheck for provenance-augmented
// relations, ignoring the trailing auxiliary (provenance) columns.
type ProvenanceExistenceCheck struct {
	expr
	Relation string
	Values   []Expr
}

// EmptinessCheck tests whether Relation currently holds no tuples.
type EmptinessCheck struct {
	expr
	Relation string
}

// RelationSize yields the current cardinality of Relation.
type RelationSize struct {
	expr
	Relation string
}

// Negation inverts a boolean-valued Expr (an ExistenceCheck or EmptinessCheck).
type Negation struct {
	expr
	Child Expr
}

// Conjunction ANDs a list of boolean-valued Exprs.
type Conjunction struct {
	expr
	Children []Expr
}

// ---- statements ----

type stmt struct{ node }

// Query wraps a single top-level relational-operation tree produced by one
// clause-translation firing.
type Query struct {
	stmt
	Root Node
}

// Sequence runs its children in order.
type Sequence struct {
	stmt
	Children []Node
}

// Parallel runs its children with no ordering constraint between them
// (spec.md §5): independent per-relation rule bodies inside a stratum loop.
type Parallel struct {
	stmt
	Children []Node
}

// Loop repeats Body until an Exit inside it fires.
type Loop struct {
	stmt
	Body Node
}

// Exit breaks the enclosing Loop when Condition holds.
type Exit struct {
	stmt
	Condition Expr
}

// Insert appends one tuple, built from Values, into Relation.
type Insert struct {
	stmt
	Relation string
	Values   []Expr
}

// GuardedInsert performs Insert only if Guard holds; used when the head
// relation carries functional dependencies that must not be violated.
type GuardedInsert struct {
	stmt
	Relation string
	Values   []Expr
	Guard    Expr
}

// Filter runs Child only if Condition holds.
type Filter struct {
	stmt
	Condition Expr
	Child     Node
}

// Break stops producing further tuples from Child once Condition holds
// (early exit once a nullary head has been derived once).
type Break struct {
	stmt
	Condition Expr
	Child     Node
}

// Scan iterates every tuple of Relation, binding it at Level, and runs
// Child once per tuple.
type Scan struct {
	stmt
	Relation string
	Level    int
	Parallel bool
	Child    Node
}

// IndexScan iterates the tuples of Relation matching the bound Pattern
// columns, binding the result at Level.
type IndexScan struct {
	stmt
	Relation string
	Level    int
	Pattern  []Expr // nil entry = unbound column
	Parallel bool
	Child    Node
}

// UnpackRecord destructures the record value at Location into Arity fresh
// columns bound at Level.
type UnpackRecord struct {
	stmt
	Level    int
	Location Expr
	Arity    int
	Child    Node
}

// Aggregate computes Op over Target for every binding of the scan rooted at
// Relation (restricted by Condition), storing the scalar result at Level.
type Aggregate struct {
	stmt
	Op        string
	Relation  string
	Target    Expr
	Condition Expr
	Level     int
	Child     Node
}

// NestedIntrinsicOperator drives a multi-result functor (RANGE/URANGE/
// FRANGE), binding each produced value at Level in turn.
type NestedIntrinsicOperator struct {
	stmt
	Op    string
	Args  []Expr
	Level int
	Child Node
}

// Clear empties Relation's storage without destroying it.
type Clear struct {
	stmt
	Relation string
}

// Swap exchanges the underlying storage handles of A and B in constant time.
type Swap struct {
	stmt
	A string
	B string
}

// MergeExtend copies every tuple of Src into Dst; for equivalence-relation
// representations this also extends the equivalence classes rather than
// performing a plain tuple copy.
type MergeExtend struct {
	stmt
	Src    string
	Dst    string
	Extend bool
}

// Erase removes from Relation every tuple that also appears in Source,
// then clears Source. It is how a subsumption reject/delete relation
// (spec.md §4.4.5) actually takes effect against the relation it guards.
type Erase struct {
	stmt
	Relation string
	Source   string
}

// Call invokes a named subroutine.
type Call struct {
	stmt
	Subroutine string
}

// IO performs a load (kind "load") or store (kind "store") of Relation
// through Directive; the concrete format is out of scope.
type IO struct {
	stmt
	Relation  string
	Directive string
	Kind      string
}

// LogTimer wraps Child, recording wall-clock duration under Label when
// profiling is enabled.
type LogTimer struct {
	stmt
	Label string
	Child Node
}

// LogRelationTimer is LogTimer scoped to one relation's size delta.
type LogRelationTimer struct {
	stmt
	Label    string
	Relation string
	Child    Node
}

// DebugInfo annotates Child with a free-form debug string; has no runtime
// effect beyond being present in the textual dump.
type DebugInfo struct {
	stmt
	Text  string
	Child Node
}
