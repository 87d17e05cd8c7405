// Package ecs provides a lightweight, single-threaded Entity-Component-System
// core for turn/tick-based simulations. It is meant to be embedded inside a
// larger engine rather than replace one: no hidden goroutines, no locks, and
// an allocation-aware component store built on free-listed dense slots.
package ecs

// EntityID identifies an entity within a single World. Ids are assigned by
// the World's registry, start at 1, and are never reused during the World's
// lifetime.
type EntityID uint64

// InvalidEntityID is the reserved null entity id. No live entity ever holds
// this value.
const InvalidEntityID EntityID = 0

// ComponentType is the type tag used to dispatch component storage and
// matcher predicates. String-based (rather than Go generics or reflection)
// so that type tags remain debuggable and stable across component
// definitions, and so they can be read straight out of config/script data.
type ComponentType string

// EntityMask holds user-assigned classification bits. The mask is set at
// CreateEntity time and is immutable afterwards.
type EntityMask uint64

// CollectorFlag controls how a Collector reacts to matcher transitions.
type CollectorFlag uint8

const (
	// CollectorNone applies collected/matching/clashing changes immediately.
	CollectorNone CollectorFlag = 0
	// CollectorLazyAdd defers newly-matching entities into pending_add until Change().
	CollectorLazyAdd CollectorFlag = 1 << 0
	// CollectorLazyRemove defers no-longer-matching entities into pending_remove until Change().
	CollectorLazyRemove CollectorFlag = 1 << 1
	// CollectorLazy is shorthand for LazyAdd|LazyRemove.
	CollectorLazy = CollectorLazyAdd | CollectorLazyRemove
)

func (f CollectorFlag) has(bit CollectorFlag) bool { return f&bit != 0 }

// TickGroupMask selects which systems run in a given World.Tick call. A
// system's TickGroup() is ANDed against the mask passed to Tick; a zero
// result skips the system for that tick.
type TickGroupMask uint64

// TickGroupAll selects every system regardless of tick group.
const TickGroupAll TickGroupMask = ^TickGroupMask(0)
