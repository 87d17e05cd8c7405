package ecs

import "reflect"

// WorldPhase is the World's lifecycle state, per SPEC_FULL.md §4.6:
// Uninitialized -> Started -> (Ticking | Idle)* -> Stopped.
type WorldPhase int

const (
	PhaseUninitialized WorldPhase = iota
	PhaseStarted
	PhaseTicking
	PhaseIdle
	PhaseStopped
)

func (p WorldPhase) String() string {
	switch p {
	case PhaseUninitialized:
		return "Uninitialized"
	case PhaseStarted:
		return "Started"
	case PhaseTicking:
		return "Ticking"
	case PhaseIdle:
		return "Idle"
	case PhaseStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// System is a logic processor driven by World.Tick. Order of registration
// is execution order (SPEC_FULL.md §4.6); TickGroup controls which Tick(mask)
// calls include it.
type System interface {
	Type() string
	TickGroup() TickGroupMask
	OnCreate(w *World) error
	OnTick(w *World, dt float64) error
	OnDestroy(w *World) error
}

// structuralKey is the ModifyQueue key World uses internally for
// "structural modifications" (entity/component creation scheduled mid-tick)
// that are drained to quiescence between systems, per SPEC_FULL.md §4.6.
type structuralKey struct{}

// World composes the Component Store, Entity Graph & Registry, and
// Collector event hub, and drives the tick lifecycle and system list. It is
// the single point of entry a consumer holds onto; EntityHandle and
// ComponentRef are thin views into it.
type World struct {
	config   WorldConfig
	phase    WorldPhase
	registry *entityRegistry
	stores   map[ComponentType]*componentStore
	hub      *eventHub
	types    *TypeRegistry
	managers map[reflect.Type]any
	modify   *ModifyQueue

	systems     []System
	systemIndex map[string]int

	tickCount uint32
}

// NewWorld constructs a World in WorldPhase Uninitialized. No entity,
// component, or system operation is legal until Startup().
func NewWorld(config WorldConfig) *World {
	if config.Logger == nil {
		config.Logger = noopLogger{}
	}
	return &World{
		config:      config,
		phase:       PhaseUninitialized,
		registry:    newEntityRegistry(config.InitialEntityCapacity),
		stores:      make(map[ComponentType]*componentStore),
		hub:         newEventHub(),
		types:       NewTypeRegistry(),
		managers:    make(map[reflect.Type]any),
		modify:      newModifyQueue(config.Logger),
		systemIndex: make(map[string]int),
	}
}

// Phase returns the World's current lifecycle phase.
func (w *World) Phase() WorldPhase { return w.phase }

// TickCount returns the number of ticks begun so far. BeginTick increments
// it, so a tick still in progress is already counted.
func (w *World) TickCount() uint32 { return w.tickCount }

// ModifyQueue exposes the deferred-command queue for systems scheduling
// cross-system or re-entrant modifications.
func (w *World) ModifyQueue() *ModifyQueue { return w.modify }

// Startup transitions Uninitialized -> Started, seeding the manager
// capability registry from WorldConfig.Managers. After this, entity,
// component, and system operations become legal.
func (w *World) Startup() *ECSError {
	if w.phase != PhaseUninitialized {
		return errLifecyclePhase("Startup", w.phase)
	}
	for _, m := range w.config.Managers {
		w.managers[reflect.TypeOf(m)] = m
	}
	w.phase = PhaseStarted
	return nil
}

// Shutdown calls OnDestroy on every registered system in reverse
// registration order, destroys every remaining entity, and releases the
// manager registry.
func (w *World) Shutdown() *ECSError {
	if w.phase == PhaseUninitialized || w.phase == PhaseStopped {
		return errLifecyclePhase("Shutdown", w.phase)
	}
	for i := len(w.systems) - 1; i >= 0; i-- {
		_ = w.systems[i].OnDestroy(w)
	}
	for _, id := range w.registry.activeIDs() {
		_ = w.DestroyEntity(id)
	}
	w.managers = make(map[reflect.Type]any)
	w.phase = PhaseStopped
	return nil
}

func (w *World) requireLive() *ECSError {
	if w.phase != PhaseStarted && w.phase != PhaseTicking && w.phase != PhaseIdle {
		return errLifecyclePhase("this operation", w.phase)
	}
	return nil
}

// CreateEntity allocates a fresh, never-reused id with the given
// classification mask and fires entity_created to any collector whose
// matcher allows empty entities.
func (w *World) CreateEntity(mask EntityMask) (EntityID, *ECSError) {
	if err := w.requireLive(); err != nil {
		return InvalidEntityID, err
	}
	graph := w.registry.createEntity(mask)
	w.hub.fireEntityCreated(graph.entity)
	return graph.entity, nil
}

// GetEntity returns a handle bound to id. The handle is valid to hold even
// if id is later destroyed; IsValid() reflects liveness at call time.
func (w *World) GetEntity(id EntityID) EntityHandle {
	return EntityHandle{id: id, world: w}
}

// IsEntityValid reports whether id names a live entity.
func (w *World) IsEntityValid(id EntityID) bool { return w.registry.isValid(id) }

// GetEntityCount returns the number of live entities.
func (w *World) GetEntityCount() int { return w.registry.count() }

// GetActiveEntities returns every live entity id (unspecified order).
func (w *World) GetActiveEntities() []EntityID { return w.registry.activeIDs() }

// DestroyEntity is idempotent: destroying an already-dead or never-live id
// returns nil. Live components are destroyed in reverse insertion order
// before entity_destroyed fires and the id is removed from the table,
// per SPEC_FULL.md §4.2.
func (w *World) DestroyEntity(id EntityID) *ECSError {
	graph := w.registry.graph(id)
	if graph == nil {
		return nil
	}
	for _, handle := range graph.reverseHandles() {
		store := w.stores[handle.typeTag]
		_ = store.destroy(handle, func(handle ComponentHandle) { // errors here mean already-dead; graph consistency still holds
			graph.onComponentRemoved(w.types, handle)
		})
	}
	w.hub.fireEntityDestroyed(id)
	w.registry.remove(id)
	return nil
}

func (w *World) storeFor(t ComponentType) *componentStore {
	s, ok := w.stores[t]
	if !ok {
		s = newComponentStore(t, w.config.InitialComponentCapacity, w.hub)
		w.stores[t] = s
	}
	return s
}

// entityTypeSet implements the entityView interface Collector needs.
func (w *World) entityTypeSet(id EntityID) (map[ComponentType]struct{}, typeBits, EntityMask, bool) {
	graph := w.registry.graph(id)
	if graph == nil {
		return nil, 0, 0, false
	}
	return graph.typeSet(), graph.presence, graph.mask, true
}

// CreateCollector builds a Collector over matcher with the given flags and
// subscribes it to this World's mutation events in registration order.
func (w *World) CreateCollector(matcher Matcher, flags CollectorFlag) *Collector {
	return newCollector(w, w.hub, matcher, flags)
}

// NewMatcherBuilder starts a matcher builder bound to this World's type
// registry, so fast-path bit assignment stays consistent with the
// EntityGraphs this World maintains.
func (w *World) NewMatcherBuilder() *MatcherBuilder {
	return NewMatcherBuilder(w.types)
}

// RegisterSystem appends s to the system list (registration order is
// execution order) and calls its OnCreate hook.
func (w *World) RegisterSystem(s System) *ECSError {
	if err := w.requireLive(); err != nil {
		return err
	}
	if _, exists := w.systemIndex[s.Type()]; exists {
		return newError(CodeSystemExists, "system already registered").WithSystem(s.Type())
	}
	w.systemIndex[s.Type()] = len(w.systems)
	w.systems = append(w.systems, s)
	if err := s.OnCreate(w); err != nil {
		return newError(CodeSystemNotFound, err.Error()).WithSystem(s.Type())
	}
	return nil
}

// FindSystem returns the registered system of the given type.
func (w *World) FindSystem(systemType string) (System, *ECSError) {
	idx, ok := w.systemIndex[systemType]
	if !ok {
		return nil, newError(CodeSystemNotFound, "system not registered").WithSystem(systemType)
	}
	return w.systems[idx], nil
}

// GetAllSystems returns every registered system in execution order.
func (w *World) GetAllSystems() []System {
	out := make([]System, len(w.systems))
	copy(out, w.systems)
	return out
}

// GetManager looks up a capability registered under M's concrete type in
// WorldConfig.Managers, as seeded at Startup. A generic free function
// rather than a method, since Go methods cannot carry their own type
// parameters.
func GetManager[M any](w *World) (M, *ECSError) {
	var zero M
	if w.phase == PhaseUninitialized {
		return zero, errLifecyclePhase("GetManager", w.phase)
	}
	key := reflect.TypeOf(zero)
	raw, ok := w.managers[key]
	if !ok {
		return zero, newError(CodeManagerNotFound, "no manager registered for type").WithDetails(key.String())
	}
	m, ok := raw.(M)
	if !ok {
		return zero, newError(CodeManagerNotFound, "registered manager does not satisfy requested type").WithDetails(key.String())
	}
	return m, nil
}

// BeginTick increments the tick counter and transitions into the Ticking
// phase.
func (w *World) BeginTick() *ECSError {
	if w.phase != PhaseStarted && w.phase != PhaseIdle {
		return errLifecyclePhase("BeginTick", w.phase)
	}
	w.tickCount++
	w.phase = PhaseTicking
	return nil
}

// Tick invokes OnTick on every registered system whose TickGroup intersects
// mask, in registration order. Between systems, any structural
// modifications a system scheduled through the ModifyQueue's structural key
// are drained to quiescence before the next system runs.
func (w *World) Tick(mask TickGroupMask, dt float64) *ECSError {
	if w.phase != PhaseTicking {
		return errLifecyclePhase("Tick", w.phase)
	}
	for _, s := range w.systems {
		if s.TickGroup()&mask == 0 {
			continue
		}
		if err := s.OnTick(w, dt); err != nil {
			w.config.Logger.Errorf("system %s OnTick failed: %v", s.Type(), err)
		}
		w.modify.Raise(structuralKey{}, true, false)
	}
	return nil
}

// TickAll is a convenience wrapper over Tick using the World's configured
// DefaultTickGroupMask, for callers that don't need per-call tick-group
// control.
func (w *World) TickAll(dt float64) *ECSError {
	return w.Tick(w.config.DefaultTickGroupMask, dt)
}

// EndTick transitions out of the Ticking phase back to Idle.
func (w *World) EndTick() *ECSError {
	if w.phase != PhaseTicking {
		return errLifecyclePhase("EndTick", w.phase)
	}
	w.phase = PhaseIdle
	return nil
}
