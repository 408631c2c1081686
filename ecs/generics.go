package ecs

// Add attaches a component value to an entity.
func Add[T any](w *World, e Entity, h Handle[T], v T) error {
	if !h.Valid() {
		return ErrInvalidHandle
	}
	if w == nil || !w.IsAlive(e) {
		return ErrEntityNotAlive
	}
	w.Store(h.ID()).Set(int(e.id()), v)
	return nil
}

// Remove detaches a component from an entity.
func Remove[T any](w *World, e Entity, h Handle[T]) bool {
	if w == nil || !h.Valid() {
		return false
	}
	return w.Store(h.ID()).Remove(int(e.id()))
}

// Has reports whether the entity carries the component.
func Has[T any](w *World, e Entity, h Handle[T]) bool {
	if w == nil || !h.Valid() || !w.IsAlive(e) {
		return false
	}
	return w.Store(h.ID()).Has(int(e.id()))
}

// Get returns the component value for an entity.
func Get[T any](w *World, e Entity, h Handle[T]) (T, bool) {
	var zero T
	if w == nil || !h.Valid() || !w.IsAlive(e) {
		return zero, false
	}
	v := w.Store(h.ID()).Get(int(e.id()))
	if v == nil {
		return zero, false
	}
	cast, ok := v.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// Each calls fn for every entity carrying the component until fn
// returns false. Mutating the storage during iteration is not allowed.
func Each[T any](w *World, h Handle[T], fn func(e Entity, v T) bool) {
	if w == nil || !h.Valid() || fn == nil {
		return
	}
	s := w.Store(h.ID())
	for i, id := range s.IDs() {
		cast, ok := s.Values()[i].(T)
		if !ok {
			continue
		}
		e := w.entityFor(id)
		if !e.Valid() {
			continue
		}
		if !fn(e, cast) {
			return
		}
	}
}

// Entities returns all entities carrying the component.
func Entities[T any](w *World, h Handle[T]) []Entity {
	if w == nil || !h.Valid() {
		return nil
	}
	s := w.Store(h.ID())
	out := make([]Entity, 0, s.Len())
	for _, id := range s.IDs() {
		if e := w.entityFor(id); e.Valid() {
			out = append(out, e)
		}
	}
	return out
}

// entityFor rebuilds a live entity handle from a raw storage id.
func (w *World) entityFor(id int) Entity {
	if w == nil || id <= 0 || id > len(w.entities.gen) {
		return 0
	}
	return makeEntity(entityID(id), w.entities.gen[id-1])
}
