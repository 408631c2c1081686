package ecs

// System updates a world each step.
type System interface {
	Update(w *World)
}

// World owns entities, component storages, and the event queue.
type World struct {
	entities entityStore
	stores   map[ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{stores: make(map[ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity marks an entity as dead and drops all of its components.
// Callers owning engine-side state (weld edges, rigid bodies) must sever
// it before destroying the entity.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(int(e.id()))
	}
	return true
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entities.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Store returns the storage for a component kind, creating it if needed.
func (w *World) Store(id ComponentID) *SparseSet {
	if w == nil || id == 0 {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
