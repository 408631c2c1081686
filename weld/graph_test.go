package weld

import (
	"errors"
	"testing"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
)

func newGraphWithNodes(t *testing.T, n int) (*ecs.World, *Graph, []ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	g := NewGraph(w)
	ents := make([]ecs.Entity, n)
	for i := range ents {
		ents[i] = w.CreateEntity()
		if g.EnsureNode(ents[i]) == nil {
			t.Fatalf("EnsureNode failed for entity %d", i)
		}
	}
	return w, g, ents
}

func TestAddEdgeSymmetric(t *testing.T) {
	_, g, e := newGraphWithNodes(t, 2)
	if err := g.AddEdge(e[0], e[1]); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if !g.HasEdge(e[0], e[1]) || !g.HasEdge(e[1], e[0]) {
		t.Fatalf("edge should be symmetric")
	}
}

func TestAddEdgeAlreadyConnected(t *testing.T) {
	_, g, e := newGraphWithNodes(t, 2)
	if err := g.AddEdge(e[0], e[1]); err != nil {
		t.Fatalf("first AddEdge: %v", err)
	}
	if err := g.AddEdge(e[0], e[1]); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("second AddEdge = %v, want ErrAlreadyConnected", err)
	}
	if err := g.AddEdge(e[1], e[0]); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("reversed AddEdge = %v, want ErrAlreadyConnected", err)
	}
}

func TestAddEdgeSelfNoop(t *testing.T) {
	_, g, e := newGraphWithNodes(t, 1)
	if err := g.AddEdge(e[0], e[0]); err != nil {
		t.Fatalf("self edge should be a silent no-op, got %v", err)
	}
	if g.Degree(e[0]) != 0 {
		t.Fatalf("self edge should not change degree")
	}
}

func TestRemoveAllEdges(t *testing.T) {
	_, g, e := newGraphWithNodes(t, 4)
	// star: e0 connected to e1, e2, e3
	for i := 1; i < 4; i++ {
		if err := g.AddEdge(e[0], e[i]); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}

	removed := g.RemoveAllEdges(e[0])
	if len(removed) != 3 {
		t.Fatalf("removed %d neighbors, want 3", len(removed))
	}
	if g.Degree(e[0]) != 0 {
		t.Fatalf("center should be isolated")
	}
	for i := 1; i < 4; i++ {
		if g.HasEdge(e[i], e[0]) {
			t.Fatalf("neighbor %d still lists the center", i)
		}
	}
	if again := g.RemoveAllEdges(e[0]); again != nil {
		t.Fatalf("second removal should return nothing, got %v", again)
	}
}

func TestConnectedComponentExcludesStartAndHandlesCycles(t *testing.T) {
	_, g, e := newGraphWithNodes(t, 4)
	// cycle e0-e1-e2-e0 plus a pendant e3 off e2
	mustEdge := func(a, b ecs.Entity) {
		t.Helper()
		if err := g.AddEdge(a, b); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	mustEdge(e[0], e[1])
	mustEdge(e[1], e[2])
	mustEdge(e[2], e[0])
	mustEdge(e[2], e[3])

	got := g.ConnectedComponent(e[0])
	want := map[ecs.Entity]bool{e[1]: true, e[2]: true, e[3]: true}
	if len(got) != len(want) {
		t.Fatalf("component size = %d, want %d (%v)", len(got), len(want), got)
	}
	for _, m := range got {
		if m == e[0] {
			t.Fatalf("start node must be excluded")
		}
		if !want[m] {
			t.Fatalf("unexpected member %v", m)
		}
	}
}

// A group can transitively hold both edge types as long as each direct
// edge agrees pairwise. The graph itself must traverse such groups
// without corruption; the coordinator's mismatch check is what keeps
// direct edges consistent.
func TestMixedTypeGroupTraversal(t *testing.T) {
	w, g, e := newGraphWithNodes(t, 4)
	mustEdge := func(a, b ecs.Entity) {
		t.Helper()
		if err := g.AddEdge(a, b); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	mustEdge(e[0], e[1])
	mustEdge(e[2], e[3])
	mustEdge(e[1], e[2])

	setType := func(ent ecs.Entity, jt component.JoinType) {
		n, ok := ecs.Get(w, ent, component.WeldNodeComponent)
		if !ok {
			t.Fatalf("missing node")
		}
		n.Type = jt
	}
	setType(e[0], component.JoinHierarchy)
	setType(e[1], component.JoinHierarchy)
	setType(e[2], component.JoinPhysics)
	setType(e[3], component.JoinPhysics)

	if got := len(g.ConnectedComponent(e[0])); got != 3 {
		t.Fatalf("mixed group traversal found %d members, want 3", got)
	}
	if got := len(g.ConnectedComponent(e[3])); got != 3 {
		t.Fatalf("mixed group traversal from far end found %d members, want 3", got)
	}
}
