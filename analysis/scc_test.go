package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeSCCs(t *testing.T) {
	tests := []struct {
		msg  string
		adj  map[string][]string
		want [][]string
	}{
		{
			msg: "linear chain has no recursion",
			adj: map[string][]string{
				"a": {"b"},
				"b": {"c"},
				"c": nil,
			},
			want: [][]string{{"c"}, {"b"}, {"a"}},
		},
		{
			msg: "self-loop is its own component",
			adj: map[string][]string{
				"reach": {"reach", "edge"},
				"edge":  nil,
			},
			want: [][]string{{"edge"}, {"reach"}},
		},
		{
			msg: "mutual recursion merges into one component",
			adj: map[string][]string{
				"even": {"odd", "base"},
				"odd":  {"even"},
				"base": nil,
			},
			want: [][]string{{"base"}, {"even", "odd"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.msg, func(t *testing.T) {
			got := ComputeSCCs(tt.adj)
			if diff := cmp.Diff(got, tt.want); diff != "" {
				t.Errorf("ComputeSCCs diff (-got, +want):\n%s", diff)
			}
		})
	}
}

func TestIsRecursive(t *testing.T) {
	adj := map[string][]string{
		"reach": {"reach", "edge"},
		"edge":  nil,
	}

	if !IsRecursive([]string{"reach"}, adj) {
		t.Errorf("expected reach (self-edge) to be recursive")
	}
	if IsRecursive([]string{"edge"}, adj) {
		t.Errorf("expected edge (no self-edge) to be non-recursive")
	}
	if !IsRecursive([]string{"even", "odd"}, adj) {
		t.Errorf("expected a multi-relation component to always be recursive")
	}
}
