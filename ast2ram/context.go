package ast2ram

import (
	"log"
	"sync"

	"github.com/rithvikp/dram/analysis"
	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ram"
)

// Logger is the minimal leveled-logging seam the translator writes
// profile-mode diagnostics through. No third-party logging library
// appears anywhere in the example pack's dependency set (see
// DESIGN.md), so the default implementation sits directly on the
// standard log package rather than grounding a choice with nothing to
// ground it on.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) Debugf(format string, args ...any) { l.Printf("DEBUG "+format, args...) }
func (l stdLogger) Infof(format string, args ...any)  { l.Printf("INFO "+format, args...) }
func (l stdLogger) Warnf(format string, args ...any)  { l.Printf("WARN "+format, args...) }

// NewStdLogger returns a Logger over the standard library's log package.
func NewStdLogger() Logger {
	return stdLogger{log.Default()}
}

// NopLogger discards every message; the default when Config.Profile is
// false.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}

// SymbolTable interns program strings (symbol constants, relation and
// functor names referenced by textual form). It is append-only: once
// assigned, a symbol's index never changes, so concurrent readers see
// either the old or the new table consistently (spec.md §5).
type SymbolTable struct {
	mu    sync.Mutex
	index map[string]int
	syms  []string
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{index: map[string]int{}}
}

// Intern returns s's stable index, assigning a fresh one on first sight.
func (t *SymbolTable) Intern(s string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i, ok := t.index[s]; ok {
		return i
	}
	i := len(t.syms)
	t.syms = append(t.syms, s)
	t.index[s] = i
	return i
}

// Symbol returns the interned string at index i.
func (t *SymbolTable) Symbol(i int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.syms[i]
}

// ReportSection is one named entry of the debug report (spec.md §6).
type ReportSection struct {
	ID      string
	Title   string
	Payload string
}

// DebugReport accumulates report sections across a translation run.
type DebugReport struct {
	Sections []ReportSection
}

// Add appends a section; it is a no-op target when Config.DebugReport is
// false (callers should not call Add in that case, but doing so is
// harmless — the report is simply never surfaced).
func (r *DebugReport) Add(id, title, payload string) {
	r.Sections = append(r.Sections, ReportSection{ID: id, Title: title, Payload: payload})
}

// Context is the translator's scoped-to-one-run state (spec.md §3
// "Translator state"): the cloned program, the interned symbol table, the
// read-only analyses, and the two accumulating maps ramSubroutines and
// ramRelations. Each name is inserted exactly once; a second insertion is
// a programmer error.
type Context struct {
	Program  *ast.Program
	Analyses *analysis.Bundle
	Config   Config
	Symbols  *SymbolTable
	Logger   Logger
	Report   *DebugReport

	subroutines map[string]ram.Node
	relations   map[string]*ast.Relation
}

// NewContext constructs translator state for one Translate run. prog is
// cloned; the original is never aliased into the RAM tree (spec.md §3
// Lifecycle).
func NewContext(prog *ast.Program, analyses *analysis.Bundle, cfg Config) *Context {
	logger := Logger(NopLogger{})
	if cfg.Profile {
		logger = NewStdLogger()
	}
	return &Context{
		Program:     prog.Clone(),
		Analyses:    analyses,
		Config:      cfg,
		Symbols:     NewSymbolTable(),
		Logger:      logger,
		Report:      &DebugReport{},
		subroutines: map[string]ram.Node{},
		relations:   map[string]*ast.Relation{},
	}
}

// AddSubroutine inserts a named subroutine. Duplicate insertion is a
// programmer invariant violation.
func (c *Context) AddSubroutine(name string, node ram.Node) error {
	if _, ok := c.subroutines[name]; ok {
		return programmerError("program", "", "duplicate subroutine insertion: %s", name)
	}
	c.subroutines[name] = node
	return nil
}

// AddRelation inserts a named relation declaration. Duplicate insertion is
// a programmer invariant violation.
func (c *Context) AddRelation(name string, rel *ast.Relation) error {
	if _, ok := c.relations[name]; ok {
		return programmerError("program", name, "duplicate relation insertion: %s", name)
	}
	c.relations[name] = rel
	return nil
}

// Subroutines returns the accumulated name -> subroutine map.
func (c *Context) Subroutines() map[string]ram.Node { return c.subroutines }

// Relations returns the accumulated name -> relation map.
func (c *Context) Relations() map[string]*ast.Relation { return c.relations }
