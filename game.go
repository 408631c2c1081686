package main

import (
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sandbox/drag"
	"github.com/milk9111/sandbox/ecs"
	"github.com/milk9111/sandbox/ecs/component"
	"github.com/milk9111/sandbox/engine/sim"
	"github.com/milk9111/sandbox/prefabs"
	"github.com/milk9111/sandbox/weld"
)

const stepDuration = time.Second / 60

// Game wires the weld/drag core to the reference engine and runs a
// small headless build-and-throw scenario.
type Game struct {
	world   *ecs.World
	eng     *sim.Engine
	sched   *ecs.Scheduler
	coord   *weld.Coordinator
	query   *weld.GroupQuery
	tuning  prefabs.TuningSpec
	watcher *prefabs.Watcher
	debug   bool
}

func NewGame(debug bool) (*Game, error) {
	world := ecs.NewWorld()
	eng := sim.NewEngine()
	eng.SetGravity(mgl64.Vec3{0, -9.81, 0})

	coord := weld.NewCoordinator(world, eng)
	query := weld.NewGroupQuery(world, coord.Graph())

	tuning, err := prefabs.LoadTuningSpec()
	if err != nil {
		return nil, err
	}
	coord.SetBreakThresholds(tuning.BreakForce, tuning.BreakTorque)

	sched := ecs.NewScheduler(
		weld.NewAutoWeldSystem(coord),
		&bodySyncSystem{},
	)

	g := &Game{
		world:  world,
		eng:    eng,
		sched:  sched,
		coord:  coord,
		query:  query,
		tuning: tuning,
		debug:  debug,
	}

	// Tuning hot-reload is best-effort; missing prefabs/ on disk just
	// means we run with the embedded defaults.
	if watcher, err := prefabs.NewWatcher("prefabs"); err == nil {
		g.watcher = watcher
	}

	return g, nil
}

// Run plays the demo: spawn two crates, weld them, drag the pair along
// a path, and release with a throw.
func (g *Game) Run(steps int) error {
	crateA, err := g.spawnCrate(mgl64.Vec3{0, 0.5, 0})
	if err != nil {
		return err
	}
	crateB, err := g.spawnCrate(mgl64.Vec3{1.5, 0.5, 0})
	if err != nil {
		return err
	}

	if !g.coord.WeldByPlayerTo(crateA, crateB) {
		log.Printf("game: weld failed, continuing solo")
	}

	ctrl := drag.NewController(g.world, g.eng, g.query, crateA, g.tuning.DragConfig())
	ctrl.StartGrab()

	dt := stepDuration.Seconds()
	for i := 0; i < steps; i++ {
		g.pollTuning()

		if ctrl.Dragging() {
			target := mgl64.Vec3{float64(i) * 0.1, 1, 0}
			ctrl.UpdateDrag(target, mgl64.QuatIdent(), dt)
			if i == steps/2 {
				ctrl.Release()
			}
		}

		g.sched.Update(g.world)
		g.eng.Step(dt)

		for _, evt := range g.world.Events().Drain() {
			log.Printf("game: event %s %v", evt.Type, evt.Data)
		}
	}

	if g.debug {
		if b, ok := g.eng.Body(crateA); ok {
			log.Printf("game: crate %v ended at %v", crateA, b.Pose().Position)
		}
	}
	return nil
}

// Close releases the tuning watcher.
func (g *Game) Close() {
	if g != nil && g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) spawnCrate(at mgl64.Vec3) (ecs.Entity, error) {
	spec, err := prefabs.LoadObjectSpec("crate.yaml")
	if err != nil {
		return 0, err
	}
	spec.Transform.X = at[0]
	spec.Transform.Y = at[1]
	spec.Transform.Z = at[2]
	return prefabs.Build(g.world, g.eng, spec)
}

func (g *Game) pollTuning() {
	if g.watcher == nil {
		return
	}
	select {
	case change, ok := <-g.watcher.Changes:
		if !ok {
			g.watcher = nil
			return
		}
		if change.Kind != prefabs.ChangeTuning {
			// Object and script specs are read at spawn time; the edit
			// applies to the next Build.
			log.Printf("game: %s %s changed, applies to new spawns", change.Kind, change.Name)
			return
		}
		tuning, err := prefabs.LoadTuningSpec()
		if err != nil {
			log.Printf("game: reload tuning after %s: %v", change.Name, err)
			return
		}
		g.tuning = tuning
		g.coord.SetBreakThresholds(tuning.BreakForce, tuning.BreakTorque)
		log.Printf("game: tuning reloaded (%s)", change.Name)
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			log.Printf("game: watcher: %v", err)
		}
	default:
	}
}

// bodySyncSystem copies engine body poses back into transforms so the
// scene hierarchy and group queries see where physics put things.
type bodySyncSystem struct{}

func (s *bodySyncSystem) Update(w *ecs.World) {
	ecs.Each(w, component.BodyComponent, func(e ecs.Entity, b *component.Body) bool {
		if b == nil || b.Handle == nil {
			return true
		}
		if _, parented := ecs.Get(w, e, component.ParentComponent); parented {
			return true
		}
		t, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok || t == nil {
			return true
		}
		pose := b.Handle.Pose()
		t.Position = pose.Position
		t.Rotation = pose.Rotation
		return true
	})
}
