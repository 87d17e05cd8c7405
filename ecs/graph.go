package ecs

// EntityGraph is the per-entity index of live component handles: insertion
// order, a type -> indices lookup for GetComponent/GetComponents, and a
// presence bitmask for O(1) matcher prechecks. Graphs are owned by the
// EntityRegistry; a component store's create/destroy calls feed the
// on_component_added/on_component_removed hooks below, mirroring
// SPEC_FULL.md §4.2.
type EntityGraph struct {
	entity       EntityID
	mask         EntityMask
	components   []ComponentHandle
	typeIndex    map[ComponentType][]int
	presence     typeBits
	presenceSet  map[ComponentType]int // type -> live count, authoritative beyond the bit budget
}

func newEntityGraph(entity EntityID, mask EntityMask) *EntityGraph {
	return &EntityGraph{
		entity:      entity,
		mask:        mask,
		typeIndex:   make(map[ComponentType][]int),
		presenceSet: make(map[ComponentType]int),
	}
}

// Mask returns the entity's immutable classification mask.
func (g *EntityGraph) Mask() EntityMask { return g.mask }

// onComponentAdded appends handle to the ordered component list and updates
// the type index and presence bitmask. Multi-component (a second handle of
// the same type on the same entity) is explicitly allowed; insertion order
// is preserved so GetComponent returns the first.
func (g *EntityGraph) onComponentAdded(registry *TypeRegistry, handle ComponentHandle) {
	idx := len(g.components)
	g.components = append(g.components, handle)
	g.typeIndex[handle.typeTag] = append(g.typeIndex[handle.typeTag], idx)
	g.presenceSet[handle.typeTag]++

	if pos, ok := registry.bitFor(handle.typeTag); ok {
		g.presence = g.presence.set(pos)
	}
}

// onComponentRemoved removes the matching entry (by handle identity) from
// the component list and type index, clearing the presence bit if that was
// the last instance of the type. Returns false if the handle was not found
// (already removed).
func (g *EntityGraph) onComponentRemoved(registry *TypeRegistry, handle ComponentHandle) bool {
	indices := g.typeIndex[handle.typeTag]
	removeAt := -1
	for i, idx := range indices {
		if g.components[idx].Equal(handle) {
			removeAt = i
			break
		}
	}
	if removeAt < 0 {
		return false
	}

	componentsIdx := indices[removeAt]
	g.components = append(g.components[:componentsIdx], g.components[componentsIdx+1:]...)

	// Every recorded index after componentsIdx shifted down by one.
	for t, idxs := range g.typeIndex {
		for i, idx := range idxs {
			if idx > componentsIdx {
				idxs[i] = idx - 1
			}
		}
		g.typeIndex[t] = idxs
	}
	indices = append(g.typeIndex[handle.typeTag][:removeAt], g.typeIndex[handle.typeTag][removeAt+1:]...)
	if len(indices) == 0 {
		delete(g.typeIndex, handle.typeTag)
	} else {
		g.typeIndex[handle.typeTag] = indices
	}

	g.presenceSet[handle.typeTag]--
	if g.presenceSet[handle.typeTag] <= 0 {
		delete(g.presenceSet, handle.typeTag)
		if pos, ok := registry.bitFor(handle.typeTag); ok {
			g.presence = g.presence.clear(pos)
		}
	}
	return true
}

// typeSet materializes the exact component-type set (for matcher fallback
// when a predicate has terms beyond the bit budget).
func (g *EntityGraph) typeSet() map[ComponentType]struct{} {
	out := make(map[ComponentType]struct{}, len(g.presenceSet))
	for t := range g.presenceSet {
		out[t] = struct{}{}
	}
	return out
}

// firstOfType returns the first handle of the given type in insertion
// order, per the "GetComponent<T> returns the first" multi-component rule.
func (g *EntityGraph) firstOfType(t ComponentType) (ComponentHandle, bool) {
	idxs := g.typeIndex[t]
	if len(idxs) == 0 {
		return ComponentHandle{}, false
	}
	return g.components[idxs[0]], true
}

// allOfType returns every handle of the given type in insertion order.
func (g *EntityGraph) allOfType(t ComponentType) []ComponentHandle {
	idxs := g.typeIndex[t]
	out := make([]ComponentHandle, len(idxs))
	for i, idx := range idxs {
		out[i] = g.components[idx]
	}
	return out
}

// all returns every live handle in insertion order.
func (g *EntityGraph) all() []ComponentHandle {
	out := make([]ComponentHandle, len(g.components))
	copy(out, g.components)
	return out
}

// reverseHandles returns every live handle in reverse insertion order, used
// when destroying an entity so later components may reference earlier ones
// during their OnDestroy (SPEC_FULL.md §4.1).
func (g *EntityGraph) reverseHandles() []ComponentHandle {
	out := make([]ComponentHandle, len(g.components))
	for i, h := range g.components {
		out[len(g.components)-1-i] = h
	}
	return out
}
