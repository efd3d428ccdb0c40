package ast2ram

import (
	"strings"
	"testing"

	"github.com/rithvikp/dram/analysis"
	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ram"
)

// reachabilityFixture builds:
//
//	edge(a, b).
//	edge(b, c).
//	reach(x, y) :- edge(x, y).
//	reach(x, z) :- reach(x, y), edge(y, z).
func reachabilityFixture() *ast.Program {
	p := ast.New()
	p.Relations["edge"] = &ast.Relation{Name: "edge", Arity: 2}
	p.Relations["reach"] = &ast.Relation{Name: "reach", Arity: 2, Recursive: true}

	v := func(n string) ast.Var { return ast.Var{Name: n} }
	sym := func(s string) ast.Const { return ast.Const{Kind: ast.ConstSymbol, Symbol: s} }

	p.Clauses = []*ast.Clause{
		{Head: ast.Atom{Relation: "edge", Args: []ast.Term{sym("a"), sym("b")}}},
		{Head: ast.Atom{Relation: "edge", Args: []ast.Term{sym("b"), sym("c")}}},
		{
			Head: ast.Atom{Relation: "reach", Args: []ast.Term{v("x"), v("y")}},
			Body: []ast.Literal{ast.Atom{Relation: "edge", Args: []ast.Term{v("x"), v("y")}}},
		},
		{
			Head: ast.Atom{Relation: "reach", Args: []ast.Term{v("x"), v("z")}},
			Body: []ast.Literal{
				ast.Atom{Relation: "reach", Args: []ast.Term{v("x"), v("y")}},
				ast.Atom{Relation: "edge", Args: []ast.Term{v("y"), v("z")}},
			},
		},
	}
	p.Outputs["reach"] = []ast.IODirective{{Name: "stdout"}}
	return p
}

func dependencyGraphFor(p *ast.Program) map[string][]string {
	adj := map[string][]string{}
	for name := range p.Relations {
		adj[name] = nil
	}
	for _, c := range p.Clauses {
		for _, l := range c.Body {
			if a, ok := l.(ast.Atom); ok {
				adj[c.Head.Relation] = append(adj[c.Head.Relation], a.Relation)
			}
		}
	}
	return adj
}

func TestTranslateEndToEnd(t *testing.T) {
	prog := reachabilityFixture()
	bundle := analysis.NewBundle(dependencyGraphFor(prog), analysis.NewInMemoryStats())

	unit, err := Translate(prog, bundle, DefaultConfig())
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if len(unit.Subroutines) != 2 {
		t.Fatalf("got %d subroutines, want 2 (one per SCC)", len(unit.Subroutines))
	}
	if _, ok := unit.Subroutines[stratumName(0)]; !ok {
		t.Errorf("missing subroutine %s", stratumName(0))
	}
	if _, ok := unit.Subroutines[stratumName(1)]; !ok {
		t.Errorf("missing subroutine %s", stratumName(1))
	}

	for _, want := range []string{"edge", "reach", Delta("reach"), New("reach")} {
		if _, ok := unit.Relations[want]; !ok {
			t.Errorf("missing relation declaration %q", want)
		}
	}
	if _, ok := unit.Relations[Delta("edge")]; ok {
		t.Errorf("edge is not recursive and should not have a @delta_ sibling")
	}

	main := ram.Render(unit.Main)
	if !strings.Contains(main, "CALL "+stratumName(0)) {
		t.Errorf("expected main to call %s, got:\n%s", stratumName(0), main)
	}
	if !strings.Contains(main, "CALL "+stratumName(1)) {
		t.Errorf("expected main to call %s, got:\n%s", stratumName(1), main)
	}
	if !strings.Contains(main, "IO STORE reach (stdout)") {
		t.Errorf("expected main to store the reach output, got:\n%s", main)
	}

	if unit.Report.Sections != nil {
		t.Errorf("expected no debug report sections when Config.DebugReport is false")
	}
}

func TestTranslateDebugReport(t *testing.T) {
	prog := reachabilityFixture()
	bundle := analysis.NewBundle(dependencyGraphFor(prog), analysis.NewInMemoryStats())
	cfg := DefaultConfig()
	cfg.DebugReport = true

	unit, err := Translate(prog, bundle, cfg)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(unit.Report.Sections) == 0 {
		t.Fatalf("expected a debug report section when Config.DebugReport is true")
	}
	if unit.Report.Sections[0].ID != "ram-program" {
		t.Errorf("report section ID = %q, want ram-program", unit.Report.Sections[0].ID)
	}
}

func TestTranslateProfileWrapsTimers(t *testing.T) {
	prog := reachabilityFixture()
	bundle := analysis.NewBundle(dependencyGraphFor(prog), analysis.NewInMemoryStats())
	cfg := DefaultConfig()
	cfg.Profile = true

	unit, err := Translate(prog, bundle, cfg)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	main := ram.Render(unit.Main)
	if !strings.Contains(main, `LOGTIMER "main"`) {
		t.Errorf("expected the whole program wrapped in a main LogTimer, got:\n%s", main)
	}
	if !strings.Contains(main, `LOGTIMER "`+stratumName(0)+`"`) {
		t.Errorf("expected each stratum call wrapped in its own LogTimer, got:\n%s", main)
	}
}

func TestTranslateErasesADTsBeforeAnalysis(t *testing.T) {
	prog := ast.New()
	prog.SumTypes["flag"] = &ast.SumType{
		Name:     "flag",
		Branches: []ast.Branch{{Name: "On", Arity: 0}, {Name: "Off", Arity: 0}},
	}
	prog.Relations["r"] = &ast.Relation{Name: "r", Arity: 1}
	prog.Clauses = []*ast.Clause{
		{Head: ast.Atom{Relation: "r", Args: []ast.Term{ast.BranchInit{SumType: "flag", Branch: "On"}}}},
	}

	bundle := analysis.NewBundle(dependencyGraphFor(prog), analysis.NewInMemoryStats())
	unit, err := Translate(prog, bundle, DefaultConfig())
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	stratum, ok := unit.Subroutines[stratumName(0)]
	if !ok {
		t.Fatalf("missing subroutine %s", stratumName(0))
	}
	body := ram.Render(stratum)
	if strings.Contains(body, "BranchInit") {
		t.Errorf("expected no surviving BranchInit reference, got:\n%s", body)
	}
	// Off=0, On=1 lexicographically; a fact's insertion renders the erased
	// constant directly.
	if !strings.Contains(body, "INSERT r(1)") {
		t.Errorf("expected the erased enum tag inserted as a plain constant, got:\n%s", body)
	}
}
