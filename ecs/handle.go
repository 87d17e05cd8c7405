package ecs

// ComponentHandle is a stable, address-independent pointer to a component
// slot: (store, offset, version). It stays valid to hold even after the
// slot it names has been recycled; Live() reports whether it still names
// the slot it was issued for.
//
// Equality between two handles is value identity over (store, offset,
// version, entity, typeTag) — not pointer identity of any wrapper — per
// SPEC_FULL.md's resolution of the "untyped reference equality" open
// question.
type ComponentHandle struct {
	store   *componentStore
	offset  uint32
	version uint32
	entity  EntityID
	typeTag ComponentType
}

// Live reports whether the handle still names the slot it was issued for,
// i.e. the slot has not been destroyed and recycled since.
func (h ComponentHandle) Live() bool {
	return h.store != nil && h.store.slotVersion(h.offset) == h.version
}

// EntityID returns the owning entity id recorded on the handle at
// issuance time. This is stable even if the handle goes stale.
func (h ComponentHandle) EntityID() EntityID { return h.entity }

// Type returns the component type tag the handle was issued for.
func (h ComponentHandle) Type() ComponentType { return h.typeTag }

// Equal reports value-identity equality between two handles.
func (h ComponentHandle) Equal(other ComponentHandle) bool {
	return h.store == other.store &&
		h.offset == other.offset &&
		h.version == other.version &&
		h.entity == other.entity &&
		h.typeTag == other.typeTag
}

// IsZero reports whether this handle is the zero value (never assigned).
func (h ComponentHandle) IsZero() bool { return h.store == nil }

// ComponentRef is the typed façade over a ComponentHandle: Read/Write give
// access to the underlying value while Live() still holds, and AsUntyped
// exposes the bare handle for storage in generic containers (e.g. an
// EntityGraph's component list or a Collector's bookkeeping).
type ComponentRef struct {
	handle ComponentHandle
}

// NewComponentRef wraps a handle as a ComponentRef.
func NewComponentRef(h ComponentHandle) ComponentRef { return ComponentRef{handle: h} }

// Live reports whether the underlying handle is still valid.
func (r ComponentRef) Live() bool { return r.handle.Live() }

// EntityID returns the owning entity id.
func (r ComponentRef) EntityID() EntityID { return r.handle.EntityID() }

// AsUntyped exposes the underlying handle.
func (r ComponentRef) AsUntyped() ComponentHandle { return r.handle }

// Read returns the current component value, failing with RefCut if the
// handle is no longer live.
func (r ComponentRef) Read() (Component, *ECSError) {
	return r.handle.store.get(r.handle)
}

// Write is an alias for Read: the store returns the live Component value
// directly (it is caller-owned data, typically a pointer-shaped struct),
// so mutation happens through the returned value. Write exists to mirror
// the spec's Read()/Write() surface distinction even though both resolve
// to the same lookup in this in-memory implementation.
func (r ComponentRef) Write() (Component, *ECSError) {
	return r.handle.store.get(r.handle)
}

// TryNarrow attempts to confirm the ref names a component of the expected
// type, returning TypeMismatch if not.
func (r ComponentRef) TryNarrow(want ComponentType) (ComponentRef, *ECSError) {
	if r.handle.typeTag != want {
		return ComponentRef{}, errTypeMismatch(r.handle.entity, want, r.handle.typeTag)
	}
	return r, nil
}
