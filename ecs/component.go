package ecs

// Component is a plain data value owned by an entity. Implementations are
// typically small structs (Position, Velocity, Health, ...); Type must
// return a constant ComponentType for the concrete type.
type Component interface {
	Type() ComponentType
}

// ComponentCreator is an optional capability: if a Component implements it,
// the store invokes OnCreate once the slot has been assigned and the value
// stored, before component_added fires.
type ComponentCreator interface {
	OnCreate(entity EntityID)
}

// ComponentDestroyer is an optional capability: if a Component implements
// it, the store invokes OnDestroy before the slot version is bumped and
// component_removed fires.
type ComponentDestroyer interface {
	OnDestroy(entity EntityID)
}
