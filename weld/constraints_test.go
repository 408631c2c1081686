package weld

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
	"github.com/milk9111/sandbox/engine"
)

func TestCreateBreakableLinkSymmetricPair(t *testing.T) {
	w, eng, coord := newRig(t)
	a := spawnAt(t, w, mgl64.Vec3{0, 0, 0})
	b := spawnAt(t, w, mgl64.Vec3{1, 0, 0})
	g := coord.Graph()
	g.EnsureNode(a)
	g.EnsureNode(b)
	if err := g.AddEdge(a, b); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	tracker := coord.Tracker()
	if err := tracker.CreateBreakableLink(a, b, 100, 100); err != nil {
		t.Fatalf("CreateBreakableLink: %v", err)
	}

	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	if len(na.Constraints[b]) != 1 || len(nb.Constraints[a]) != 1 {
		t.Fatalf("each side should own exactly one constraint: a=%d b=%d",
			len(na.Constraints[b]), len(nb.Constraints[a]))
	}
	if owner := na.Constraints[b][0].Owner(); owner != a {
		t.Fatalf("a's constraint owner = %v, want %v", owner, a)
	}
	if owner := nb.Constraints[a][0].Owner(); owner != b {
		t.Fatalf("b's constraint owner = %v, want %v", owner, b)
	}
	if eng.ConstraintCount() != 2 {
		t.Fatalf("engine constraint count = %d, want 2", eng.ConstraintCount())
	}
}

func TestCreateBreakableLinkDefaultBodies(t *testing.T) {
	w, eng, coord := newRig(t)
	a := spawnAt(t, w, mgl64.Vec3{0, 2, 0})
	b := spawnAt(t, w, mgl64.Vec3{1, 2, 0})
	g := coord.Graph()
	g.EnsureNode(a)
	g.EnsureNode(b)

	if err := coord.Tracker().CreateBreakableLink(a, b, 100, 100); err != nil {
		t.Fatalf("CreateBreakableLink: %v", err)
	}

	for _, e := range []ecs.Entity{a, b} {
		body, ok := eng.Body(e)
		if !ok {
			t.Fatalf("entity %v should have a default body", e)
		}
		if body.Mass() != 1 {
			t.Fatalf("default mass = %v, want 1", body.Mass())
		}
		comp, ok := ecs.Get(w, e, component.BodyComponent)
		if !ok || comp.Handle != body {
			t.Fatalf("body component for %v should record the engine handle", e)
		}
	}
	// The default body spawns at the entity's world position.
	if body, _ := eng.Body(a); body.Pose().Position != (mgl64.Vec3{0, 2, 0}) {
		t.Fatalf("default body pose = %v, want entity position", body.Pose().Position)
	}
}

func TestReleaseLinks(t *testing.T) {
	w, eng, coord := newRig(t)
	a := spawnAt(t, w, mgl64.Vec3{0, 0, 0})
	b := spawnAt(t, w, mgl64.Vec3{1, 0, 0})
	g := coord.Graph()
	g.EnsureNode(a)
	g.EnsureNode(b)
	if err := g.AddEdge(a, b); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	tracker := coord.Tracker()
	if err := tracker.CreateBreakableLink(a, b, 100, 100); err != nil {
		t.Fatalf("CreateBreakableLink: %v", err)
	}

	tracker.ReleaseLinks(a, b)
	if eng.ConstraintCount() != 0 {
		t.Fatalf("engine constraint count = %d, want 0", eng.ConstraintCount())
	}
	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	if len(na.Constraints) != 0 || len(nb.Constraints) != 0 {
		t.Fatalf("constraint records should be cleared")
	}

	tracker.ReleaseLinks(a, b) // idempotent
}

func TestReleaseLinksSweepsDangling(t *testing.T) {
	w, eng, coord := newRig(t)
	a := spawnAt(t, w, mgl64.Vec3{0, 0, 0})
	b := spawnAt(t, w, mgl64.Vec3{1, 0, 0})
	c := spawnAt(t, w, mgl64.Vec3{2, 0, 0})
	g := coord.Graph()
	for _, e := range []ecs.Entity{a, b, c} {
		g.EnsureNode(e)
	}
	tracker := coord.Tracker()

	// A constraint recorded against c without a backing edge models
	// stale state after an out-of-band graph mutation.
	if err := g.AddEdge(a, b); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := tracker.CreateBreakableLink(a, b, 100, 100); err != nil {
		t.Fatalf("CreateBreakableLink: %v", err)
	}
	if _, err := eng.CreateBody(c, engine.Pose{Rotation: mgl64.QuatIdent()}); err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	dangling, err := eng.CreateConstraint(a, c, 100, 100)
	if err != nil {
		t.Fatalf("CreateConstraint: %v", err)
	}
	na, _ := g.Node(a)
	na.Constraints[c] = append(na.Constraints[c], dangling)

	tracker.ReleaseLinks(a, b)
	if _, ok := na.Constraints[c]; ok {
		t.Fatalf("dangling record should be swept")
	}
	if eng.ConstraintCount() != 0 {
		t.Fatalf("engine constraint count = %d, want 0", eng.ConstraintCount())
	}
}
