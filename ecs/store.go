package ecs

// componentSlot holds one component instance plus the bookkeeping needed to
// detect stale handles: version bumps every time the slot is recycled, and
// inUse distinguishes a live slot from one sitting on the free list.
type componentSlot struct {
	value   Component
	version uint32
	owner   EntityID
	inUse   bool
}

// componentStore is the dense, append-with-holes storage for every
// component of one ComponentType. Destroyed slots are retired onto a free
// list and their version bumped, rather than swap-removed to the end of the
// slice, so every other live offset keeps its identity. This is what lets
// ComponentHandle stay offset-stable across unrelated churn in the same
// store.
type componentStore struct {
	typeTag  ComponentType
	slots    []componentSlot
	freeList []uint32
	hub      *eventHub
}

func newComponentStore(typeTag ComponentType, initialCapacity int, hub *eventHub) *componentStore {
	return &componentStore{
		typeTag: typeTag,
		slots:   make([]componentSlot, 0, initialCapacity),
		hub:     hub,
	}
}

// slotVersion returns the current version stamped on offset, or 0 if the
// offset was never allocated (version 0 is never a live slot's version
// since every slot starts at version 1, so a mismatch against the
// zero value of a fresh ComponentHandle naturally fails Live()).
func (s *componentStore) slotVersion(offset uint32) uint32 {
	if int(offset) >= len(s.slots) {
		return 0
	}
	return s.slots[offset].version
}

// create reserves a slot for entity, popping the free list when possible,
// stores value, runs OnCreate if value implements ComponentCreator, invokes
// notifyGraph (if non-nil) so the owning EntityGraph is updated, and only
// then fans component_added out through the hub. Collectors re-evaluate
// their matcher against the live graph when the event fires, so the graph
// must already reflect the new component by that point — notifyGraph is
// the caller's hook for that, run strictly before the hub fan-out.
func (s *componentStore) create(entity EntityID, value Component, notifyGraph func(ComponentHandle)) ComponentHandle {
	var offset uint32
	if n := len(s.freeList); n > 0 {
		offset = s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
		slot := &s.slots[offset]
		slot.version++
		slot.owner = entity
		slot.value = value
		slot.inUse = true
	} else {
		offset = uint32(len(s.slots))
		s.slots = append(s.slots, componentSlot{value: value, version: 1, owner: entity, inUse: true})
	}

	handle := ComponentHandle{store: s, offset: offset, version: s.slots[offset].version, entity: entity, typeTag: s.typeTag}

	if creator, ok := value.(ComponentCreator); ok {
		creator.OnCreate(entity)
	}

	if notifyGraph != nil {
		notifyGraph(handle)
	}

	if s.hub != nil {
		s.hub.fireComponentAdded(entity, s.typeTag, handle)
	}

	return handle
}

// destroy invalidates handle's slot. Destroying an already-dead handle is a
// reported no-op (CodeAlreadyDead), never a panic or silent success, so
// callers can tell the two cases apart if they care to. As with create,
// notifyGraph (if non-nil) runs after the slot is invalidated but strictly
// before the hub fan-out, so Collectors see the post-removal graph when
// component_removed fires.
func (s *componentStore) destroy(handle ComponentHandle, notifyGraph func(ComponentHandle)) *ECSError {
	if !handle.Live() {
		return newComponentError(CodeAlreadyDead, "component already destroyed", handle.entity, handle.typeTag)
	}

	slot := &s.slots[handle.offset]
	if destroyer, ok := slot.value.(ComponentDestroyer); ok {
		destroyer.OnDestroy(handle.entity)
	}

	slot.version++
	slot.inUse = false
	slot.value = nil
	s.freeList = append(s.freeList, handle.offset)

	if notifyGraph != nil {
		notifyGraph(handle)
	}

	if s.hub != nil {
		s.hub.fireComponentRemoved(handle.entity, s.typeTag, handle)
	}
	return nil
}

// get returns the live value behind handle, or RefCut if the handle is
// stale.
func (s *componentStore) get(handle ComponentHandle) (Component, *ECSError) {
	if !handle.Live() {
		return nil, errRefCut(handle.entity, handle.typeTag)
	}
	return s.slots[handle.offset].value, nil
}

// isLive is a pure version check, with no allocation and no error value,
// for hot-path callers.
func (s *componentStore) isLive(handle ComponentHandle) bool { return handle.Live() }

// iterType returns handles for every currently-live slot, in slot order.
func (s *componentStore) iterType() []ComponentHandle {
	out := make([]ComponentHandle, 0, len(s.slots)-len(s.freeList))
	for offset := range s.slots {
		slot := &s.slots[offset]
		if !slot.inUse {
			continue
		}
		out = append(out, ComponentHandle{store: s, offset: uint32(offset), version: slot.version, entity: slot.owner, typeTag: s.typeTag})
	}
	return out
}

// liveCount reports the number of currently-occupied slots.
func (s *componentStore) liveCount() int { return len(s.slots) - len(s.freeList) }
