package ast2ram

import (
	"strings"
	"testing"

	"github.com/rithvikp/dram/analysis"
	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ram"
)

func TestIsRecursiveClause(t *testing.T) {
	sccSet := map[string]bool{"reach": true}
	recursive := &ast.Clause{Body: []ast.Literal{
		ast.Atom{Relation: "reach", Args: []ast.Term{ast.Var{Name: "X"}}},
	}}
	if !isRecursiveClause(recursive, sccSet) {
		t.Errorf("expected a clause reading a member of sccSet to be recursive")
	}

	nonRecursive := &ast.Clause{Body: []ast.Literal{
		ast.Atom{Relation: "edge", Args: []ast.Term{ast.Var{Name: "X"}}},
	}}
	if isRecursiveClause(nonRecursive, sccSet) {
		t.Errorf("expected a clause reading no member of sccSet to be non-recursive")
	}
}

func TestRecursiveClauseVersionsOneVersionPerAtom(t *testing.T) {
	sccSet := map[string]bool{"reach": true}
	clause := &ast.Clause{
		Head: ast.Atom{Relation: "reach", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Z"}}},
		Body: []ast.Literal{
			ast.Atom{Relation: "reach", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}},
			ast.Atom{Relation: "edge", Args: []ast.Term{ast.Var{Name: "Y"}, ast.Var{Name: "Z"}}},
		},
	}

	versions := recursiveClauseVersions(clause, sccSet)
	if len(versions) != 1 {
		t.Fatalf("got %d versions, want 1 (only one within-SCC atom)", len(versions))
	}
	v := versions[0]
	if v.Head.Relation != "@new_reach" {
		t.Errorf("version head = %q, want @new_reach", v.Head.Relation)
	}
	gotAtom := v.Body[0].(ast.Atom)
	if gotAtom.Relation != "@delta_reach" {
		t.Errorf("version body[0].Relation = %q, want @delta_reach", gotAtom.Relation)
	}
	// edge atom is untouched.
	edgeAtom := v.Body[1].(ast.Atom)
	if edgeAtom.Relation != "edge" {
		t.Errorf("version body[1].Relation = %q, want edge (unmodified)", edgeAtom.Relation)
	}
	// The original clause must not be mutated.
	if clause.Head.Relation != "reach" {
		t.Errorf("original clause mutated: Head.Relation = %q", clause.Head.Relation)
	}
}

func TestRecursiveClauseVersionsMutualRecursion(t *testing.T) {
	sccSet := map[string]bool{"even": true, "odd": true}
	clause := &ast.Clause{
		Head: ast.Atom{Relation: "even", Args: []ast.Term{ast.Var{Name: "X"}}},
		Body: []ast.Literal{
			ast.Atom{Relation: "odd", Args: []ast.Term{ast.Var{Name: "X"}}},
			ast.Atom{Relation: "base", Args: []ast.Term{ast.Var{Name: "X"}}},
		},
	}
	versions := recursiveClauseVersions(clause, sccSet)
	if len(versions) != 1 {
		t.Fatalf("got %d versions, want 1 (only odd is in the SCC)", len(versions))
	}
	if got := versions[0].Body[0].(ast.Atom).Relation; got != "@delta_odd" {
		t.Errorf("version body[0].Relation = %q, want @delta_odd", got)
	}
}

func TestRecursiveClauseVersionsNoWithinSCCAtom(t *testing.T) {
	sccSet := map[string]bool{"reach": true}
	clause := &ast.Clause{
		Head: ast.Atom{Relation: "reach", Args: []ast.Term{ast.Var{Name: "X"}}},
		Body: []ast.Literal{ast.Atom{Relation: "edge", Args: []ast.Term{ast.Var{Name: "X"}}}},
	}
	if versions := recursiveClauseVersions(clause, sccSet); versions != nil {
		t.Errorf("expected no versions for a clause with no within-SCC atom, got %v", versions)
	}
}

func sccTestContext(recursive map[string]bool) (*Context, *ast.Program) {
	prog := ast.New()
	bundle := &analysis.Bundle{
		Recursive: recursive,
		Liveness:  map[string]int{},
		Functors:  map[string]analysis.FunctorSignature{},
	}
	ctx := NewContext(prog, bundle, DefaultConfig())
	return ctx, ctx.Program
}

func TestTranslateSCCNonRecursive(t *testing.T) {
	ctx, prog := sccTestContext(map[string]bool{"triple": false})
	prog.Relations["triple"] = &ast.Relation{Name: "triple", Arity: 3}
	prog.Clauses = []*ast.Clause{
		{
			Head: ast.Atom{Relation: "triple", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}, ast.Var{Name: "Z"}}},
			Body: []ast.Literal{
				ast.Atom{Relation: "a", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}},
				ast.Atom{Relation: "b", Args: []ast.Term{ast.Var{Name: "Y"}, ast.Var{Name: "Z"}}},
			},
		},
	}

	node, err := TranslateSCC(ctx, 0, []string{"triple"})
	if err != nil {
		t.Fatalf("TranslateSCC: %v", err)
	}
	out := ram.Render(node)
	if !strings.HasPrefix(out, "SEQUENCE\n") {
		t.Errorf("expected a straight-line SEQUENCE for a non-recursive SCC, got:\n%s", out)
	}
	if !strings.Contains(out, "INSERT triple(t0.0, t0.1, t1.1)") {
		t.Errorf("expected an INSERT into triple, got:\n%s", out)
	}
}

func TestTranslateSCCNonRecursiveSubsumption(t *testing.T) {
	ctx, prog := sccTestContext(map[string]bool{"r": false})
	prog.Relations["r"] = &ast.Relation{Name: "r", Arity: 2, Representation: ast.RepDeleteCapable}
	dominated := ast.Atom{Relation: "r", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}}
	dominating := ast.Atom{Relation: "r", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y2"}}}
	prog.Clauses = []*ast.Clause{
		{
			Head:       ast.Atom{Relation: "r", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}},
			Dominated:  &dominated,
			Dominating: &dominating,
			Body: []ast.Literal{
				ast.Constraint{Op: "LT", LHS: ast.Var{Name: "Y"}, RHS: ast.Var{Name: "Y2"}},
			},
		},
	}

	node, err := TranslateSCC(ctx, 0, []string{"r"})
	if err != nil {
		t.Fatalf("TranslateSCC: %v", err)
	}
	out := ram.Render(node)
	if !strings.Contains(out, "INSERT @delete_r(") {
		t.Errorf("expected an insert into the delete-capable sibling, got:\n%s", out)
	}
	if !strings.Contains(out, "ERASE @delete_r FROM r") {
		t.Errorf("expected the delete relation to be erased against the base relation, got:\n%s", out)
	}
}

func TestTranslateSCCRecursive(t *testing.T) {
	ctx, prog := sccTestContext(map[string]bool{"reach": true})
	prog.Relations["reach"] = &ast.Relation{Name: "reach", Arity: 2}
	prog.Relations["edge"] = &ast.Relation{Name: "edge", Arity: 2}
	prog.Clauses = []*ast.Clause{
		{
			Head: ast.Atom{Relation: "reach", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}},
			Body: []ast.Literal{ast.Atom{Relation: "edge", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}}},
		},
		{
			Head: ast.Atom{Relation: "reach", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Z"}}},
			Body: []ast.Literal{
				ast.Atom{Relation: "reach", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}},
				ast.Atom{Relation: "edge", Args: []ast.Term{ast.Var{Name: "Y"}, ast.Var{Name: "Z"}}},
			},
		},
	}

	node, err := TranslateSCC(ctx, 0, []string{"reach"})
	if err != nil {
		t.Fatalf("TranslateSCC: %v", err)
	}
	out := ram.Render(node)

	for _, want := range []string{
		"MERGE reach INTO @delta_reach",
		"LOOP\n",
		"SCAN @delta_reach AS",
		"EXIT isempty(@new_reach)",
		"MERGE @new_reach INTO reach",
		"SWAP @delta_reach, @new_reach",
		"CLEAR @new_reach",
		"CLEAR @delta_reach",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected render to contain %q, got:\n%s", want, out)
		}
	}
}

// TestTranslateSCCRecursiveLimitSize mirrors scenario S5: a .limitsize
// directive on a relation in a recursive SCC gets a second, independent
// Exit alongside the emptiness conjunction.
func TestTranslateSCCRecursiveLimitSize(t *testing.T) {
	ctx, prog := sccTestContext(map[string]bool{"path": true})
	limit := 100
	prog.Relations["path"] = &ast.Relation{Name: "path", Arity: 2, LimitSize: &limit}
	prog.Relations["edge"] = &ast.Relation{Name: "edge", Arity: 2}
	prog.Clauses = []*ast.Clause{
		{
			Head: ast.Atom{Relation: "path", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}},
			Body: []ast.Literal{ast.Atom{Relation: "edge", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}}},
		},
		{
			Head: ast.Atom{Relation: "path", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Z"}}},
			Body: []ast.Literal{
				ast.Atom{Relation: "path", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}},
				ast.Atom{Relation: "edge", Args: []ast.Term{ast.Var{Name: "Y"}, ast.Var{Name: "Z"}}},
			},
		},
	}

	node, err := TranslateSCC(ctx, 0, []string{"path"})
	if err != nil {
		t.Fatalf("TranslateSCC: %v", err)
	}
	out := ram.Render(node)

	if !strings.Contains(out, "EXIT isempty(@new_path)") {
		t.Errorf("expected the emptiness Exit to survive unchanged, got:\n%s", out)
	}
	if !strings.Contains(out, "EXIT size(path) GE 100") {
		t.Errorf("expected a second Exit keyed off the .limitsize directive, got:\n%s", out)
	}
}

// TestTranslateSCCRecursiveNoLimitSizeOmitsSecondExit guards against a
// regression that would emit a size-limit Exit unconditionally.
func TestTranslateSCCRecursiveNoLimitSizeOmitsSecondExit(t *testing.T) {
	ctx, prog := sccTestContext(map[string]bool{"reach": true})
	prog.Relations["reach"] = &ast.Relation{Name: "reach", Arity: 2}
	prog.Relations["edge"] = &ast.Relation{Name: "edge", Arity: 2}
	prog.Clauses = []*ast.Clause{
		{
			Head: ast.Atom{Relation: "reach", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}},
			Body: []ast.Literal{ast.Atom{Relation: "edge", Args: []ast.Term{ast.Var{Name: "X"}, ast.Var{Name: "Y"}}}},
		},
	}

	node, err := TranslateSCC(ctx, 0, []string{"reach"})
	if err != nil {
		t.Fatalf("TranslateSCC: %v", err)
	}
	out := ram.Render(node)
	if strings.Contains(out, "size(") {
		t.Errorf("expected no RelationSize Exit when no relation carries .limitsize, got:\n%s", out)
	}
}
