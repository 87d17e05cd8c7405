package ecs

// EntityHandle is a thin, World-bound façade over an EntityID: every method
// re-resolves the entity's EntityGraph on each call rather than caching it,
// so a handle obtained before an entity is destroyed fails gracefully
// (EntityInvalid) instead of operating on stale state.
type EntityHandle struct {
	id    EntityID
	world *World
}

// Id returns the bound entity id.
func (h EntityHandle) Id() EntityID { return h.id }

// IsValid reports whether the bound entity is currently live.
func (h EntityHandle) IsValid() bool { return h.world.IsEntityValid(h.id) }

// Mask returns the entity's classification mask, or 0 if it is not live.
func (h EntityHandle) Mask() EntityMask {
	graph := h.world.registry.graph(h.id)
	if graph == nil {
		return 0
	}
	return graph.Mask()
}

func (h EntityHandle) graph() (*EntityGraph, *ECSError) {
	graph := h.world.registry.graph(h.id)
	if graph == nil {
		return nil, errEntityInvalid(h.id)
	}
	return graph, nil
}

// CreateComponent stores value under componentType on this entity and
// returns a stable ref to it. Multiple components of the same type on the
// same entity are explicitly permitted (SPEC_FULL.md §4.1); GetComponent
// always resolves to the first one created.
func (h EntityHandle) CreateComponent(componentType ComponentType, value Component) (ComponentRef, *ECSError) {
	graph, err := h.graph()
	if err != nil {
		return ComponentRef{}, err
	}
	store := h.world.storeFor(componentType)
	handle := store.create(h.id, value, func(handle ComponentHandle) {
		graph.onComponentAdded(h.world.types, handle)
	})
	return NewComponentRef(handle), nil
}

// DestroyComponent removes the referenced component from this entity.
func (h EntityHandle) DestroyComponent(ref ComponentRef) *ECSError {
	graph, err := h.graph()
	if err != nil {
		return err
	}
	handle := ref.AsUntyped()
	store := h.world.stores[handle.typeTag]
	if store == nil {
		return newComponentError(CodeComponentNotFound, "no store for component type", h.id, handle.typeTag)
	}
	if err := store.destroy(handle, func(handle ComponentHandle) {
		graph.onComponentRemoved(h.world.types, handle)
	}); err != nil {
		return err
	}
	return nil
}

// GetComponent returns the first live component of componentType on this
// entity, in insertion order.
func (h EntityHandle) GetComponent(componentType ComponentType) (ComponentRef, *ECSError) {
	graph, err := h.graph()
	if err != nil {
		return ComponentRef{}, err
	}
	handle, ok := graph.firstOfType(componentType)
	if !ok {
		return ComponentRef{}, newComponentError(CodeComponentNotFound, "entity has no component of this type", h.id, componentType)
	}
	return NewComponentRef(handle), nil
}

// GetComponents returns every live component of componentType on this
// entity, in insertion order.
func (h EntityHandle) GetComponents(componentType ComponentType) ([]ComponentRef, *ECSError) {
	graph, err := h.graph()
	if err != nil {
		return nil, err
	}
	handles := graph.allOfType(componentType)
	out := make([]ComponentRef, len(handles))
	for i, handle := range handles {
		out[i] = NewComponentRef(handle)
	}
	return out, nil
}

// HasComponent reports whether this entity carries at least one live
// component of componentType.
func (h EntityHandle) HasComponent(componentType ComponentType) bool {
	graph, err := h.graph()
	if err != nil {
		return false
	}
	_, ok := graph.firstOfType(componentType)
	return ok
}

// AllComponents returns every live component on this entity, in insertion
// order.
func (h EntityHandle) AllComponents() []ComponentRef {
	graph, err := h.graph()
	if err != nil {
		return nil
	}
	handles := graph.all()
	out := make([]ComponentRef, len(handles))
	for i, handle := range handles {
		out[i] = NewComponentRef(handle)
	}
	return out
}
