package ecs

// entityRegistry is the global entity id allocator and id -> graph table.
// Ids are strictly increasing and never reused for the lifetime of the
// World that owns this registry (SPEC_FULL.md §8 property 7); id 0 is
// reserved as "null/invalid" and is never handed out.
type entityRegistry struct {
	nextID   EntityID
	entities map[EntityID]*EntityGraph
}

func newEntityRegistry(initialCapacity int) *entityRegistry {
	return &entityRegistry{
		nextID:   1,
		entities: make(map[EntityID]*EntityGraph, initialCapacity),
	}
}

// createEntity allocates a fresh id and an empty graph for it. The caller
// (World) is responsible for firing entity_created.
func (r *entityRegistry) createEntity(mask EntityMask) *EntityGraph {
	id := r.nextID
	r.nextID++
	graph := newEntityGraph(id, mask)
	r.entities[id] = graph
	return graph
}

// graph returns the graph for id, or nil if id is not live.
func (r *entityRegistry) graph(id EntityID) *EntityGraph {
	return r.entities[id]
}

// isValid reports whether id names a live entity.
func (r *entityRegistry) isValid(id EntityID) bool {
	_, ok := r.entities[id]
	return ok
}

// remove deletes id's entry from the table. The caller is responsible for
// having already destroyed its components and for firing entity_destroyed.
func (r *entityRegistry) remove(id EntityID) {
	delete(r.entities, id)
}

// count returns the number of live entities.
func (r *entityRegistry) count() int { return len(r.entities) }

// activeIDs returns every live entity id. Order is unspecified (map
// iteration); callers that need insertion order should track it themselves
// (e.g. via a Collector).
func (r *entityRegistry) activeIDs() []EntityID {
	out := make([]EntityID, 0, len(r.entities))
	for id := range r.entities {
		out = append(out, id)
	}
	return out
}
