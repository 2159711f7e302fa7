package dag

import (
	"errors"
	"slices"
	"testing"
)

func build(t *testing.T, n int, edges ...Edge) *DAG {
	t.Helper()
	g := New(n)
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			t.Fatalf("AddEdge(%d, %d) error: %v", e.From, e.To, err)
		}
	}
	return g
}

func TestAddEdge(t *testing.T) {
	g := New(3)
	if err := g.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge() error: %v", err)
	}
	if err := g.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge() duplicate error: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if err := g.AddEdge(0, 3); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge(0, 3) error = %v, want ErrUnknownNode", err)
	}
	if err := g.AddEdge(-1, 0); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge(-1, 0) error = %v, want ErrUnknownNode", err)
	}
}

func TestSourcesSinks(t *testing.T) {
	g := build(t, 4, Edge{0, 2}, Edge{1, 2})

	if got, want := g.Sources(), []int{0, 1, 3}; !slices.Equal(got, want) {
		t.Errorf("Sources() = %v, want %v", got, want)
	}
	if got, want := g.Sinks(), []int{2, 3}; !slices.Equal(got, want) {
		t.Errorf("Sinks() = %v, want %v", got, want)
	}
	if got, want := g.Parents(2), []int{0, 1}; !slices.Equal(got, want) {
		t.Errorf("Parents(2) = %v, want %v", got, want)
	}
}

func TestTopoOrder(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges []Edge
		want  []int
	}{
		{"chain", 3, []Edge{{0, 1}, {1, 2}}, []int{0, 1, 2}},
		{"reversed chain", 3, []Edge{{2, 1}, {1, 0}}, []int{2, 1, 0}},
		{"diamond", 4, []Edge{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, []int{0, 1, 2, 3}},
		{"no edges", 3, nil, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := build(t, tt.n, tt.edges...).TopoOrder()
			if err != nil {
				t.Fatalf("TopoOrder() error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("TopoOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges []Edge
		want  [][]int
	}{
		{"two cycle", 3, []Edge{{0, 1}, {1, 0}, {1, 2}}, [][]int{{0, 1}}},
		{"self edge", 2, []Edge{{1, 1}}, [][]int{{1}}},
		{"three cycle", 4, []Edge{{0, 1}, {1, 2}, {2, 0}, {2, 3}}, [][]int{{0, 1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.n, tt.edges...)
			err := g.Validate()
			if !errors.Is(err, ErrGraphHasCycle) {
				t.Fatalf("Validate() error = %v, want ErrGraphHasCycle", err)
			}
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("Validate() error %T is not a *CycleError", err)
			}
			if !slices.EqualFunc(cycleErr.Components, tt.want, slices.Equal[[]int]) {
				t.Errorf("Components = %v, want %v", cycleErr.Components, tt.want)
			}
		})
	}

	if cycles := build(t, 3, Edge{0, 1}, Edge{1, 2}).Cycles(); cycles != nil {
		t.Errorf("Cycles() on acyclic graph = %v, want nil", cycles)
	}
}

func TestLegs(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges []Edge
		want  [][]int
	}{
		{"chain", 3, []Edge{{0, 1}, {1, 2}}, [][]int{{0, 1, 2}}},
		{"isolated", 2, nil, [][]int{{0}, {1}}},
		{"diamond", 4, []Edge{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, [][]int{{0, 1, 3}, {0, 2, 3}}},
		{"two sources", 3, []Edge{{0, 2}, {1, 2}}, [][]int{{0, 2}, {1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := build(t, tt.n, tt.edges...).Legs()
			if !slices.EqualFunc(got, tt.want, slices.Equal[[]int]) {
				t.Errorf("Legs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescendants(t *testing.T) {
	g := build(t, 5, Edge{0, 1}, Edge{1, 2}, Edge{0, 3}, Edge{3, 2})
	if got, want := g.Descendants(0), []int{1, 2, 3}; !slices.Equal(got, want) {
		t.Errorf("Descendants(0) = %v, want %v", got, want)
	}
	if got := g.Descendants(4); len(got) != 0 {
		t.Errorf("Descendants(4) = %v, want empty", got)
	}
}

func TestEqual(t *testing.T) {
	a := build(t, 3, Edge{0, 1}, Edge{1, 2})
	b := build(t, 3, Edge{1, 2}, Edge{0, 1})
	c := build(t, 3, Edge{0, 1})
	d := build(t, 4, Edge{0, 1}, Edge{1, 2})

	if !a.Equal(b) {
		t.Error("graphs with the same edges in different order are not Equal")
	}
	if a.Equal(c) {
		t.Error("graphs with different edge sets are Equal")
	}
	if a.Equal(d) {
		t.Error("graphs with different node counts are Equal")
	}
	if !a.Clone().Equal(a) {
		t.Error("Clone() is not Equal to the original")
	}
	if got := a.String(); got != "0->1 1->2" {
		t.Errorf("String() = %q, want %q", got, "0->1 1->2")
	}
}
