package ram_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/rithvikp/dram/ram"
)

func TestRenderSequence(t *testing.T) {
	tree := ram.Sequence{Children: []ram.Node{
		ram.IO{Relation: "edge", Directive: "stdin", Kind: "load"},
		ram.Query{Root: ram.Scan{
			Relation: "edge",
			Level:    0,
			Child: ram.Insert{
				Relation: "reach",
				Values: []ram.Expr{
					ram.TupleElement{Level: 0, Column: 0},
					ram.TupleElement{Level: 0, Column: 1},
				},
			},
		}},
		ram.IO{Relation: "reach", Directive: "stdout", Kind: "store"},
	}}

	g := goldie.New(t, goldie.WithFixtureDir("testdata"))
	g.Assert(t, "render_sequence", []byte(ram.Render(tree)))
}

func TestRenderRecursiveLoop(t *testing.T) {
	tree := ram.Sequence{Children: []ram.Node{
		ram.MergeExtend{Src: "reach", Dst: "@delta_reach"},
		ram.Loop{Body: ram.Sequence{Children: []ram.Node{
			ram.Query{Root: ram.Scan{
				Relation: "@delta_reach",
				Level:    0,
				Child: ram.Scan{
					Relation: "edge",
					Level:    1,
					Child: ram.Filter{
						Condition: ram.Constraint{
							Op:  "EQ",
							LHS: ram.TupleElement{Level: 0, Column: 1},
							RHS: ram.TupleElement{Level: 1, Column: 0},
						},
						Child: ram.Insert{
							Relation: "@new_reach",
							Values: []ram.Expr{
								ram.TupleElement{Level: 0, Column: 0},
								ram.TupleElement{Level: 1, Column: 1},
							},
						},
					},
				},
			}},
			ram.Erase{Relation: "@new_reach", Source: "@reject_reach"},
			ram.Exit{Condition: ram.EmptinessCheck{Relation: "@new_reach"}},
			ram.MergeExtend{Src: "@new_reach", Dst: "reach"},
			ram.Swap{A: "@delta_reach", B: "@new_reach"},
			ram.Clear{Relation: "@new_reach"},
		}}},
		ram.Clear{Relation: "@delta_reach"},
	}}

	g := goldie.New(t, goldie.WithFixtureDir("testdata"))
	g.Assert(t, "render_recursive_loop", []byte(ram.Render(tree)))
}
