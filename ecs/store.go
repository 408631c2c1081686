package ecs

// entityStore tracks entity generations and recycled ids.
type entityStore struct {
	gen  []generation
	free []entityID
}

func (s *entityStore) create() Entity {
	if s == nil {
		return 0
	}
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		return makeEntity(id, s.gen[id-1])
	}
	s.gen = append(s.gen, 0)
	return makeEntity(entityID(len(s.gen)), 0)
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	id := e.id()
	s.gen[id-1]++
	s.free = append(s.free, id)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || !e.Valid() {
		return false
	}
	id := e.id()
	if int(id) > len(s.gen) {
		return false
	}
	return s.gen[id-1] == e.generation()
}

func (s *entityStore) all() []Entity {
	if s == nil {
		return nil
	}
	freed := make(map[entityID]struct{}, len(s.free))
	for _, id := range s.free {
		freed[id] = struct{}{}
	}
	out := make([]Entity, 0, len(s.gen)-len(s.free))
	for i := range s.gen {
		id := entityID(i + 1)
		if _, ok := freed[id]; ok {
			continue
		}
		out = append(out, makeEntity(id, s.gen[i]))
	}
	return out
}
