// Package interpreter lowers a ram.Node tree into a flat, arena-addressed
// node model: the shape an execution backend dispatches over by integer
// opcode and child index rather than by walking pointers and type-switching
// repeatedly, mirroring Souffle's Node.h. Compile produces this model;
// actually executing it against live relation storage is outside this
// translator's scope (spec.md §1 Non-goals) — Compile's job ends at
// producing a dispatch-ready, analysis-annotated program.
package interpreter

import (
	"fmt"

	"github.com/rithvikp/dram/ast"
	"github.com/rithvikp/dram/ram"
)

// Opcode identifies a node's ram.Node concrete type for dispatch, standing
// in for the vtable a virtual-Node hierarchy would otherwise need.
type Opcode int

const (
	OpConstant Opcode = iota
	OpTupleElement
	OpPackRecord
	OpIntrinsicOperator
	OpUserDefinedOperator
	OpConstraint
	OpExistenceCheck
	OpProvenanceExistenceCheck
	OpEmptinessCheck
	OpRelationSize
	OpNegation
	OpConjunction

	OpQuery
	OpSequence
	OpParallel
	OpLoop
	OpExit
	OpInsert
	OpGuardedInsert
	OpFilter
	OpBreak
	OpScan
	OpIndexScan
	OpUnpackRecord
	OpAggregate
	OpNestedIntrinsicOperator
	OpClear
	OpSwap
	OpMergeExtend
	OpErase
	OpCall
	OpIO
	OpLogTimer
	OpLogRelationTimer
	OpDebugInfo
)

// NodeType is the compiled node's fixed identity: its opcode, the storage
// representation of the relation it operates over (zero value for
// relation-less nodes), and its structural arity (child count), matching
// the {opcode, representation, arity} triple Souffle's interpreter keys
// specialized handlers on.
type NodeType struct {
	Opcode         Opcode
	Representation ast.Representation
	Arity          int
}

// NodeID addresses one compiled Node within a Program's arena by plain
// integer index, avoiding a pointer-chasing tree walk during dispatch.
type NodeID int

// Node is the arena-resident compiled form of one ram.Node. Only the
// fields relevant to its Type.Opcode are populated; the rest are zero.
type Node struct {
	Type     NodeType
	Children []NodeID

	// RelationalOperation / ViewOperation mixin fields: populated for any
	// node whose ram.Node counterpart names a relation.
	Relation string
	Level    int

	// literal / scalar payload, opcode-dependent: Constant's value,
	// Constraint/MergeExtend's operator or Extend flag encoded as Text,
	// UserDefinedOperator/IntrinsicOperator's name, Swap's second operand,
	// Call's subroutine name, IO's directive and kind, Log*'s label.
	Text  string
	Int   int64
	Uint  uint64
	Float float64
	Arity int

	// AbstractParallel mixin: Scan/IndexScan nodes flagged to run without
	// an ordering guarantee across their tuple stream.
	Parallel bool

	// FunctorNode / AggregateNode payload.
	AggregateOp string

	// ViewOperation mixin: an IndexScan's bound-column pattern, compiled
	// ahead of execution time so the backend need not re-walk expressions
	// per outer tuple.
	Super *SuperInstruction
}

// Program is Compile's result: the flat node arena plus the entry point for
// each independently-callable subroutine (spec.md §6's per-stratum
// subroutines, keyed the same as ast2ram.TranslationUnit.Subroutines).
type Program struct {
	arena       []Node
	Roots       map[string]NodeID
	MainRoot    NodeID
}

func (p *Program) Node(id NodeID) *Node { return &p.arena[id] }

func (p *Program) add(n Node) NodeID {
	p.arena = append(p.arena, n)
	return NodeID(len(p.arena) - 1)
}

// Compile lowers main and every named subroutine into one shared arena.
func Compile(main ram.Node, subroutines map[string]ram.Node) (*Program, error) {
	p := &Program{Roots: map[string]NodeID{}}
	root, err := compileNode(p, main)
	if err != nil {
		return nil, err
	}
	p.MainRoot = root

	for name, node := range subroutines {
		id, err := compileNode(p, node)
		if err != nil {
			return nil, err
		}
		p.Roots[name] = id
	}
	return p, nil
}

func compileMany(p *Program, nodes []ram.Node) ([]NodeID, error) {
	out := make([]NodeID, len(nodes))
	for i, n := range nodes {
		id, err := compileNode(p, n)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func compileExprs(p *Program, exprs []ram.Expr) ([]NodeID, error) {
	out := make([]NodeID, len(exprs))
	for i, e := range exprs {
		id, err := compileNode(p, e)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// compileNode recursively lowers one ram.Node (statement or expression)
// into the arena, returning its NodeID.
func compileNode(p *Program, n ram.Node) (NodeID, error) {
	switch v := n.(type) {
	case ram.Constant:
		return p.add(Node{
			Type:  NodeType{Opcode: OpConstant},
			Int:   v.Int,
			Uint:  v.Uint,
			Float: v.Float64,
			Text:  v.Sym,
		}), nil

	case ram.TupleElement:
		return p.add(Node{Type: NodeType{Opcode: OpTupleElement}, Level: v.Level, Arity: v.Column}), nil

	case ram.PackRecord:
		children, err := compileExprs(p, v.Children)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpPackRecord, Arity: len(children)}, Children: children}), nil

	case ram.IntrinsicOperator:
		children, err := compileExprs(p, v.Args)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpIntrinsicOperator, Arity: len(children)}, Children: children, Text: v.Op}), nil

	case ram.UserDefinedOperator:
		children, err := compileExprs(p, v.Args)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpUserDefinedOperator, Arity: len(children)}, Children: children, Text: v.Name}), nil

	case ram.Constraint:
		children, err := compileExprs(p, []ram.Expr{v.LHS, v.RHS})
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpConstraint}, Children: children, Text: v.Op}), nil

	case ram.ExistenceCheck:
		children, err := compileExprs(p, v.Values)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpExistenceCheck}, Children: children, Relation: v.Relation}), nil

	case ram.ProvenanceExistenceCheck:
		children, err := compileExprs(p, v.Values)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpProvenanceExistenceCheck}, Children: children, Relation: v.Relation}), nil

	case ram.EmptinessCheck:
		return p.add(Node{Type: NodeType{Opcode: OpEmptinessCheck}, Relation: v.Relation}), nil

	case ram.RelationSize:
		return p.add(Node{Type: NodeType{Opcode: OpRelationSize}, Relation: v.Relation}), nil

	case ram.Negation:
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpNegation}, Children: []NodeID{child}}), nil

	case ram.Conjunction:
		children, err := compileExprs(p, v.Children)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpConjunction, Arity: len(children)}, Children: children}), nil

	case ram.Query:
		child, err := compileNode(p, v.Root)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpQuery}, Children: []NodeID{child}}), nil

	case ram.Sequence:
		children, err := compileMany(p, v.Children)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpSequence, Arity: len(children)}, Children: children}), nil

	case ram.Parallel:
		children, err := compileMany(p, v.Children)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpParallel, Arity: len(children)}, Children: children}), nil

	case ram.Loop:
		child, err := compileNode(p, v.Body)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpLoop}, Children: []NodeID{child}}), nil

	case ram.Exit:
		cond, err := compileNode(p, v.Condition)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpExit}, Children: []NodeID{cond}}), nil

	case ram.Insert:
		values, err := compileExprs(p, v.Values)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpInsert, Arity: len(values)}, Children: values, Relation: v.Relation}), nil

	case ram.GuardedInsert:
		values, err := compileExprs(p, v.Values)
		if err != nil {
			return 0, err
		}
		guard, err := compileNode(p, v.Guard)
		if err != nil {
			return 0, err
		}
		return p.add(Node{
			Type:     NodeType{Opcode: OpGuardedInsert, Arity: len(values)},
			Children: append(values, guard),
			Relation: v.Relation,
		}), nil

	case ram.Filter:
		cond, err := compileNode(p, v.Condition)
		if err != nil {
			return 0, err
		}
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpFilter}, Children: []NodeID{cond, child}}), nil

	case ram.Break:
		cond, err := compileNode(p, v.Condition)
		if err != nil {
			return 0, err
		}
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpBreak}, Children: []NodeID{cond, child}}), nil

	case ram.Scan:
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{
			Type:     NodeType{Opcode: OpScan},
			Children: []NodeID{child},
			Relation: v.Relation,
			Level:    v.Level,
			Parallel: v.Parallel,
		}), nil

	case ram.IndexScan:
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{
			Type:     NodeType{Opcode: OpIndexScan},
			Children: []NodeID{child},
			Relation: v.Relation,
			Level:    v.Level,
			Parallel: v.Parallel,
			Super:    buildSuperInstruction(v.Pattern),
		}), nil

	case ram.UnpackRecord:
		loc, err := compileNode(p, v.Location)
		if err != nil {
			return 0, err
		}
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{
			Type:     NodeType{Opcode: OpUnpackRecord},
			Children: []NodeID{loc, child},
			Level:    v.Level,
			Arity:    v.Arity,
		}), nil

	case ram.Aggregate:
		target, err := compileNode(p, v.Target)
		if err != nil {
			return 0, err
		}
		cond, err := compileNode(p, v.Condition)
		if err != nil {
			return 0, err
		}
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{
			Type:        NodeType{Opcode: OpAggregate},
			Children:    []NodeID{target, cond, child},
			Relation:    v.Relation,
			Level:       v.Level,
			AggregateOp: v.Op,
		}), nil

	case ram.NestedIntrinsicOperator:
		args, err := compileExprs(p, v.Args)
		if err != nil {
			return 0, err
		}
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{
			Type:     NodeType{Opcode: OpNestedIntrinsicOperator, Arity: len(args)},
			Children: append(args, child),
			Level:    v.Level,
			Text:     v.Op,
		}), nil

	case ram.Clear:
		return p.add(Node{Type: NodeType{Opcode: OpClear}, Relation: v.Relation}), nil

	case ram.Swap:
		return p.add(Node{Type: NodeType{Opcode: OpSwap}, Relation: v.A, Text: v.B}), nil

	case ram.MergeExtend:
		text := "merge"
		if v.Extend {
			text = "extend"
		}
		return p.add(Node{Type: NodeType{Opcode: OpMergeExtend}, Relation: v.Src, Text: v.Dst + "|" + text}), nil

	case ram.Erase:
		return p.add(Node{Type: NodeType{Opcode: OpErase}, Relation: v.Relation, Text: v.Source}), nil

	case ram.Call:
		return p.add(Node{Type: NodeType{Opcode: OpCall}, Text: v.Subroutine}), nil

	case ram.IO:
		return p.add(Node{Type: NodeType{Opcode: OpIO}, Relation: v.Relation, Text: v.Directive + "|" + v.Kind}), nil

	case ram.LogTimer:
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpLogTimer}, Children: []NodeID{child}, Text: v.Label}), nil

	case ram.LogRelationTimer:
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpLogRelationTimer}, Children: []NodeID{child}, Relation: v.Relation, Text: v.Label}), nil

	case ram.DebugInfo:
		child, err := compileNode(p, v.Child)
		if err != nil {
			return 0, err
		}
		return p.add(Node{Type: NodeType{Opcode: OpDebugInfo}, Children: []NodeID{child}, Text: v.Text}), nil

	default:
		return 0, fmt.Errorf("interpreter: unhandled ram node kind %T", n)
	}
}
