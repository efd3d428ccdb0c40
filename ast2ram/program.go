package ast2ram

import (
	"fmt"
	"time"

	"github.com/rithvikp/dram/analysis"
	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ram"
)

// TranslationUnit is Translate's result (spec.md §6 outbound interface):
// every relation declaration the RAM program references (main and its
// @delta_/@new_/@reject_/@delete_ siblings), the per-stratum subroutine
// bodies, the top-level driver, the interned symbol table, and the
// (possibly empty) debug report.
type TranslationUnit struct {
	Relations   map[string]*ast.Relation
	Subroutines map[string]ram.Node
	Main        ram.Node
	Symbols     *SymbolTable
	Report      *DebugReport
}

func stratumName(i int) string { return fmt.Sprintf("stratum_%d", i) }

// Translate lowers prog into a RAM program under analyses and cfg (spec.md
// §6). prog is never mutated: ADT erasure clones it into a fresh program
// before anything else runs, and Context clones that result again at
// construction.
func Translate(prog *ast.Program, analyses *analysis.Bundle, cfg Config) (*TranslationUnit, error) {
	start := time.Now()
	erased, _, err := EraseADTs(prog)
	if err != nil {
		return nil, err
	}

	ctx := NewContext(erased, analyses, cfg)

	if err := declareRelations(ctx); err != nil {
		return nil, err
	}

	var mainStmts []ram.Node
	for i, comp := range analyses.SCCs {
		node, err := TranslateSCC(ctx, i, comp)
		if err != nil {
			return nil, err
		}
		name := stratumName(i)
		if err := ctx.AddSubroutine(name, node); err != nil {
			return nil, err
		}
		var call ram.Node = ram.Call{Subroutine: name}
		if cfg.Profile {
			call = ram.LogTimer{Label: name, Child: call}
		}
		mainStmts = append(mainStmts, call)
	}

	var loads, stores []ram.Node
	for _, rel := range analysis.SortedKeys(ctx.Program.Inputs) {
		for _, d := range ctx.Program.Inputs[rel] {
			loads = append(loads, ram.IO{Relation: Concrete(rel), Directive: d.Name, Kind: "load"})
		}
	}
	for _, rel := range analysis.SortedKeys(ctx.Program.Outputs) {
		for _, d := range ctx.Program.Outputs[rel] {
			stores = append(stores, ram.IO{Relation: Concrete(rel), Directive: d.Name, Kind: "store"})
		}
	}

	var children []ram.Node
	children = append(children, loads...)
	children = append(children, mainStmts...)
	children = append(children, stores...)
	main := ram.Node(ram.Sequence{Children: children})
	if cfg.Profile {
		main = ram.LogTimer{Label: "main", Child: main}
	}

	if cfg.DebugReport {
		title := fmt.Sprintf("RAM Program (%gs)", time.Since(start).Seconds())
		ctx.Report.Add("ram-program", title, ram.Render(main))
	}

	return &TranslationUnit{
		Relations:   ctx.Relations(),
		Subroutines: ctx.Subroutines(),
		Main:        main,
		Symbols:     ctx.Symbols,
		Report:      ctx.Report,
	}, nil
}

// declareRelations registers every relation the RAM program can reference:
// the concrete declaration for every source relation, @delta_/@new_
// siblings for members of a recursive SCC, and @reject_/@delete_ siblings
// for any relation targeted by a subsumptive clause (spec.md §4.1, §4.4.5).
func declareRelations(ctx *Context) error {
	for _, name := range analysis.SortedKeys(ctx.Program.Relations) {
		rel := ctx.Program.Relations[name]
		decl := rel.Clone()
		if ctx.Config.Provenance {
			decl.Representation = ast.RepProvenance
		}
		if err := ctx.AddRelation(Concrete(name), decl); err != nil {
			return err
		}
		if ctx.Analyses.Recursive[name] {
			if err := ctx.AddRelation(Delta(name), decl.Clone()); err != nil {
				return err
			}
			if err := ctx.AddRelation(New(name), decl.Clone()); err != nil {
				return err
			}
		}
	}

	seen := map[string]bool{}
	for _, c := range ctx.Program.Clauses {
		if !c.IsSubsumptive() {
			continue
		}
		base := c.Dominated.Relation
		if seen[base] {
			continue
		}
		seen[base] = true
		rel, ok := ctx.Program.Relations[base]
		if !ok {
			return programError("program", base, "subsumptive clause targets undeclared relation %q", base)
		}
		deleteCapable := rel.Clone()
		deleteCapable.Representation = ast.RepDeleteCapable
		if err := ctx.AddRelation(Reject(base), deleteCapable.Clone()); err != nil {
			return err
		}
		if err := ctx.AddRelation(Delete(base), deleteCapable); err != nil {
			return err
		}
	}
	return nil
}

