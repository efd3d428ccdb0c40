// Package ast defines the data model for a semantically-checked Datalog
// rule program: the input to the ast2ram translator. There is no parser
// here — programs are built directly as Go values, by a semantic-analysis
// phase or by tests/fixtures.
package ast

// ConstKind distinguishes the finalized polymorphism type of a constant.
type ConstKind int

const (
	ConstSigned ConstKind = iota
	ConstUnsigned
	ConstFloat
	ConstSymbol
	ConstNil
)

// Const is a typed literal value.
type Const struct {
	Kind   ConstKind
	Int    int64
	Uint   uint64
	Float  float64
	Symbol string
}

func (c Const) isTerm() {}

func (c Const) Clone() Term { return c }

// Var references a clause-local variable by name.
type Var struct {
	Name string
}

func (v Var) isTerm() {}

func (v Var) Clone() Term { return Var{Name: v.Name} }

// Record packs a fixed-arity tuple of sub-terms.
type Record struct {
	Children []Term
}

func (r Record) isTerm() {}

func (r Record) Clone() Term {
	out := Record{Children: make([]Term, len(r.Children))}
	for i, c := range r.Children {
		out.Children[i] = c.Clone()
	}
	return out
}

// BranchInit is a sum-type constructor application. ADT erasure rewrites
// every BranchInit into a Const or Record before clause translation runs;
// none may survive to that point.
type BranchInit struct {
	SumType string
	Branch  string
	Args    []Term
}

func (b BranchInit) isTerm() {}

func (b BranchInit) Clone() Term {
	out := BranchInit{SumType: b.SumType, Branch: b.Branch, Args: make([]Term, len(b.Args))}
	for i, a := range b.Args {
		out.Args[i] = a.Clone()
	}
	return out
}

// AggregateOp names a reduction operator.
type AggregateOp string

const (
	AggCount AggregateOp = "count"
	AggSum   AggregateOp = "sum"
	AggMin   AggregateOp = "min"
	AggMax   AggregateOp = "max"
	AggMean  AggregateOp = "mean"
)

// Aggregate computes a single scalar over the bindings of Body, projecting
// Target for each binding. It occupies a synthetic generator slot in the
// ValueIndex rather than a structural scan level.
type Aggregate struct {
	Op     AggregateOp
	Target Term
	Body   []Literal
}

func (a Aggregate) isTerm() {}

func (a Aggregate) Clone() Term {
	out := Aggregate{Op: a.Op, Target: a.Target.Clone(), Body: make([]Literal, len(a.Body))}
	for i, l := range a.Body {
		out.Body[i] = l.Clone()
	}
	return out
}

// FunctorKind distinguishes built-in (intrinsic) operators from
// user-registered ones.
type FunctorKind int

const (
	FunctorIntrinsic FunctorKind = iota
	FunctorUser
)

// Multi-result functor names; these are the only functors permitted to
// introduce a generator slot outside an Aggregate (spec.md §4.4.7).
const (
	FnRange  = "RANGE"
	FnURange = "URANGE"
	FnFRange = "FRANGE"
)

// Functor applies an intrinsic or user-defined operator to its arguments.
// A multi-result functor (RANGE/URANGE/FRANGE) is a generator: it is
// handled at level-introduction time rather than as an ordinary value.
type Functor struct {
	Kind        FunctorKind
	Name        string
	Args        []Term
	MultiResult bool
}

func (f Functor) isTerm() {}

func (f Functor) Clone() Term {
	out := Functor{Kind: f.Kind, Name: f.Name, MultiResult: f.MultiResult, Args: make([]Term, len(f.Args))}
	for i, a := range f.Args {
		out.Args[i] = a.Clone()
	}
	return out
}

// Term is any value-producing clause node.
type Term interface {
	isTerm()
	Clone() Term
}

// Atom is a predicate application; it is also a Literal (a body atom) and
// is reused standalone as a clause head.
type Atom struct {
	Relation string
	Args     []Term
}

func (a Atom) isLiteral() {}

func (a Atom) Clone() Literal {
	out := Atom{Relation: a.Relation, Args: make([]Term, len(a.Args))}
	for i, t := range a.Args {
		out.Args[i] = t.Clone()
	}
	return out
}

func (a Atom) CloneAtom() Atom {
	return a.Clone().(Atom)
}

// Negation is a negated atom body literal.
type Negation struct {
	Atom Atom
}

func (n Negation) isLiteral() {}

func (n Negation) Clone() Literal { return Negation{Atom: n.Atom.CloneAtom()} }

// Constraint is a binary body condition, e.g. x = y, x < 4.
type Constraint struct {
	Op  string
	LHS Term
	RHS Term
}

func (c Constraint) isLiteral() {}

func (c Constraint) Clone() Literal {
	return Constraint{Op: c.Op, LHS: c.LHS.Clone(), RHS: c.RHS.Clone()}
}

// Literal is any body element: an atom, a negation, or a binary constraint.
type Literal interface {
	isLiteral()
	Clone() Literal
}

// ExecutionPlan maps a recursive clause's version number to a user-supplied
// atom ordering (0-based after translation from 1-based source syntax).
type ExecutionPlan map[int][]int

func (p ExecutionPlan) Clone() ExecutionPlan {
	if p == nil {
		return nil
	}
	out := make(ExecutionPlan, len(p))
	for v, order := range p {
		o := make([]int, len(order))
		copy(o, order)
		out[v] = o
	}
	return out
}

// FunctionalDependency declares that Dom columns determine Codom.
type FunctionalDependency struct {
	Dom   []string
	Codom string
}

func (f FunctionalDependency) Clone() FunctionalDependency {
	out := FunctionalDependency{Codom: f.Codom, Dom: make([]string, len(f.Dom))}
	copy(out.Dom, f.Dom)
	return out
}

// Clause is a fact, a rule, or a subsumptive clause. A fact has no Body.
// A subsumptive clause has Dominated and Dominating set and Body holding
// any additional ordering literals between them.
type Clause struct {
	Head       Atom
	Body       []Literal
	Plan       ExecutionPlan
	FuncDeps   []FunctionalDependency
	Dominated  *Atom
	Dominating *Atom
}

func (c *Clause) IsFact() bool { return len(c.Body) == 0 && c.Dominated == nil }

func (c *Clause) IsSubsumptive() bool { return c.Dominated != nil && c.Dominating != nil }

func (c *Clause) Clone() *Clause {
	out := &Clause{
		Head:     c.Head.CloneAtom(),
		Body:     make([]Literal, len(c.Body)),
		Plan:     c.Plan.Clone(),
		FuncDeps: make([]FunctionalDependency, len(c.FuncDeps)),
	}
	for i, l := range c.Body {
		out.Body[i] = l.Clone()
	}
	for i, fd := range c.FuncDeps {
		out.FuncDeps[i] = fd.Clone()
	}
	if c.Dominated != nil {
		d := c.Dominated.CloneAtom()
		out.Dominated = &d
	}
	if c.Dominating != nil {
		d := c.Dominating.CloneAtom()
		out.Dominating = &d
	}
	return out
}

// Representation is the closed set of concrete storage tags a relation may
// carry. The translator never interprets the storage itself, only emits
// the tag so a downstream collaborator can pick the matching data
// structure.
type Representation int

const (
	RepBTree Representation = iota
	RepEqrel
	RepDeleteCapable
	RepProvenance
)

// Attribute is one ordered column of a relation.
type Attribute struct {
	Name string
	Type string
}

// Relation is a declared predicate: its name, shape, and storage tag.
type Relation struct {
	Name           string
	Arity          int
	AuxArity       int
	Attributes     []Attribute
	Representation Representation
	Recursive      bool
	FuncDeps       []FunctionalDependency
	LimitSize      *int
}

func (r *Relation) Clone() *Relation {
	out := *r
	out.Attributes = make([]Attribute, len(r.Attributes))
	copy(out.Attributes, r.Attributes)
	out.FuncDeps = make([]FunctionalDependency, len(r.FuncDeps))
	for i, fd := range r.FuncDeps {
		out.FuncDeps[i] = fd.Clone()
	}
	if r.LimitSize != nil {
		v := *r.LimitSize
		out.LimitSize = &v
	}
	return &out
}

// Branch is one constructor of a sum type.
type Branch struct {
	Name  string
	Arity int
}

// SumType is a closed, named union of Branches. ADT erasure consumes these
// and replaces every BranchInit referencing them with a concrete value.
type SumType struct {
	Name     string
	Branches []Branch
}

func (s *SumType) Clone() *SumType {
	out := &SumType{Name: s.Name, Branches: make([]Branch, len(s.Branches))}
	copy(out.Branches, s.Branches)
	return out
}

// IsEnum reports whether every branch is nullary.
func (s *SumType) IsEnum() bool {
	for _, b := range s.Branches {
		if b.Arity != 0 {
			return false
		}
	}
	return true
}

// IODirective names an external load/store binding for a relation; the
// concrete I/O format is out of scope (spec.md §1 Non-goals) and is
// opaque here beyond its name.
type IODirective struct {
	Name string
}

// Program is a complete, semantically-checked rule program.
type Program struct {
	Relations map[string]*Relation
	SumTypes  map[string]*SumType
	Clauses   []*Clause
	Inputs    map[string][]IODirective
	Outputs   map[string][]IODirective
}

// New returns an empty program with initialized maps.
func New() *Program {
	return &Program{
		Relations: map[string]*Relation{},
		SumTypes:  map[string]*SumType{},
		Inputs:    map[string][]IODirective{},
		Outputs:   map[string][]IODirective{},
	}
}

// Clone performs a deep copy; no slice or map is shared with the original.
func (p *Program) Clone() *Program {
	out := New()
	for n, r := range p.Relations {
		out.Relations[n] = r.Clone()
	}
	for n, s := range p.SumTypes {
		out.SumTypes[n] = s.Clone()
	}
	for n, ds := range p.Inputs {
		cp := make([]IODirective, len(ds))
		copy(cp, ds)
		out.Inputs[n] = cp
	}
	for n, ds := range p.Outputs {
		cp := make([]IODirective, len(ds))
		copy(cp, ds)
		out.Outputs[n] = cp
	}
	out.Clauses = make([]*Clause, len(p.Clauses))
	for i, c := range p.Clauses {
		out.Clauses[i] = c.Clone()
	}
	return out
}

// ClausesFor returns the clauses whose head targets relation name.
func (p *Program) ClausesFor(name string) []*Clause {
	var out []*Clause
	for _, c := range p.Clauses {
		if c.Head.Relation == name {
			out = append(out, c)
		}
	}
	return out
}
