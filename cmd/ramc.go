package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rithvikp/dram/analysis"
	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ast2ram"
	"github.com/rithvikp/dram/ram"
)

var (
	cfgPath string

	rootCmd = &cobra.Command{
		Use:   "ramc",
		Short: "Translate a Datalog rule program into a RAM program",
		Run:   run,
	}
)

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "path to a YAML translator config overlay")
}

// Execute starts the program.
func Execute() error {
	return rootCmd.Execute()
}

// fixtureProgram builds a small reachability program directly as Go
// values: dram takes a semantically-checked ast.Program as input, so there
// is no surface syntax to parse (spec.md §1 Non-goals).
//
//	edge(x, y).
//	reach(x, y) :- edge(x, y).
//	reach(x, z) :- reach(x, y), edge(y, z).
func fixtureProgram() *ast.Program {
	p := ast.New()
	p.Relations["edge"] = &ast.Relation{Name: "edge", Arity: 2}
	p.Relations["reach"] = &ast.Relation{Name: "reach", Arity: 2, Recursive: true}

	v := func(n string) ast.Var { return ast.Var{Name: n} }

	p.Clauses = []*ast.Clause{
		{Head: ast.Atom{Relation: "edge", Args: []ast.Term{ast.Const{Kind: ast.ConstSymbol, Symbol: "a"}, ast.Const{Kind: ast.ConstSymbol, Symbol: "b"}}}},
		{Head: ast.Atom{Relation: "edge", Args: []ast.Term{ast.Const{Kind: ast.ConstSymbol, Symbol: "b"}, ast.Const{Kind: ast.ConstSymbol, Symbol: "c"}}}},
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

func dependencyGraph(p *ast.Program) map[string][]string {
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

func run(cmd *cobra.Command, args []string) {
	cfg, err := ast2ram.LoadConfig(cfgPath)
	if err != nil {
		fmt.Printf("unable to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.DebugReport = true

	prog := fixtureProgram()
	stats := analysis.NewInMemoryStats()
	bundle := analysis.NewBundle(dependencyGraph(prog), stats)

	unit, err := ast2ram.Translate(prog, bundle, cfg)
	if err != nil {
		fmt.Printf("unable to translate program: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(ram.Render(unit.Main))
	for _, section := range unit.Report.Sections {
		fmt.Printf("\n--- %s ---\n%s\n", section.Title, section.Payload)
	}
}
