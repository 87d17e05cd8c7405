package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testVelocity struct{ X, Y int }

func (testVelocity) Type() ComponentType { return "Velocity" }

type movementSystem struct {
	collector *Collector
	ticks     int
}

func (*movementSystem) Type() string               { return "Movement" }
func (*movementSystem) TickGroup() TickGroupMask    { return TickGroupAll }
func (s *movementSystem) OnDestroy(*World) error    { return nil }

func (s *movementSystem) OnCreate(w *World) error {
	s.collector = w.CreateCollector(w.NewMatcherBuilder().OfAll("Position", "Velocity").Build(), CollectorNone)
	return nil
}

func (s *movementSystem) OnTick(w *World, dt float64) error {
	s.ticks++
	for _, id := range s.collector.Collected() {
		entity := w.GetEntity(id)
		posRef, err := entity.GetComponent("Position")
		if err != nil {
			continue
		}
		velRef, err := entity.GetComponent("Velocity")
		if err != nil {
			continue
		}
		posVal, _ := posRef.Read()
		velVal, _ := velRef.Read()
		pos := posVal.(testPosition)
		vel := velVal.(testVelocity)
		_ = entity.DestroyComponent(posRef)
		_, _ = entity.CreateComponent("Position", testPosition{X: pos.X + vel.X, Y: pos.Y + vel.Y})
	}
	return nil
}

func Test_World_LifecycleGatesOperationsBeforeStartup(t *testing.T) {
	// Arrange (S7)
	world := NewWorld(DefaultWorldConfig())

	// Act
	_, err := world.CreateEntity(0)

	// Assert
	assert.NotNil(t, err)
	assert.Equal(t, CodeLifecyclePhase, err.Code)
}

func Test_World_LifecycleGatesOperationsAfterShutdown(t *testing.T) {
	// Arrange (S7)
	world := NewWorld(DefaultWorldConfig())
	assert.Nil(t, world.Startup())
	assert.Nil(t, world.Shutdown())

	// Act
	_, err := world.CreateEntity(0)

	// Assert
	assert.NotNil(t, err)
	assert.Equal(t, CodeLifecyclePhase, err.Code)
}

func Test_World_BeginTickEndTickOutsidePhaseFails(t *testing.T) {
	// Arrange (S7)
	world := NewWorld(DefaultWorldConfig())

	// Act
	beginErr := world.BeginTick()

	// Assert
	assert.NotNil(t, beginErr)
	assert.Equal(t, CodeLifecyclePhase, beginErr.Code)

	// Arrange
	assert.Nil(t, world.Startup())

	// Act
	endErr := world.EndTick()

	// Assert
	assert.NotNil(t, endErr)
	assert.Equal(t, CodeLifecyclePhase, endErr.Code)
}

func Test_World_CreateAndDestroyEntity(t *testing.T) {
	// Arrange
	world := NewWorld(DefaultWorldConfig())
	assert.Nil(t, world.Startup())

	// Act
	id, err := world.CreateEntity(0)

	// Assert
	assert.Nil(t, err)
	assert.True(t, world.IsEntityValid(id))
	assert.Equal(t, 1, world.GetEntityCount())

	// Act
	assert.Nil(t, world.DestroyEntity(id))

	// Assert
	assert.False(t, world.IsEntityValid(id))
	assert.Equal(t, 0, world.GetEntityCount())
}

func Test_World_DestroyEntityIsIdempotent(t *testing.T) {
	// Arrange
	world := NewWorld(DefaultWorldConfig())
	assert.Nil(t, world.Startup())
	id, _ := world.CreateEntity(0)
	assert.Nil(t, world.DestroyEntity(id))

	// Act & Assert
	assert.Nil(t, world.DestroyEntity(id))
}

func Test_World_HandleStalenessAcrossEntityDestroy(t *testing.T) {
	// Arrange (S4)
	world := NewWorld(DefaultWorldConfig())
	assert.Nil(t, world.Startup())
	id, _ := world.CreateEntity(0)
	entity := world.GetEntity(id)
	ref, err := entity.CreateComponent("Position", testPosition{X: 1, Y: 2})
	assert.Nil(t, err)

	// Act
	assert.Nil(t, world.DestroyEntity(id))

	// Assert
	assert.False(t, ref.Live())
	_, readErr := ref.Read()
	assert.NotNil(t, readErr)
	assert.Equal(t, CodeRefCut, readErr.Code)

	// Act: reusing the slot on a new entity must not resurrect the old handle
	id2, _ := world.CreateEntity(0)
	entity2 := world.GetEntity(id2)
	_, _ = entity2.CreateComponent("Position", testPosition{X: 9, Y: 9})
	assert.False(t, ref.Live())
}

func Test_World_ManagerRegistryRoundTrip(t *testing.T) {
	// Arrange (S8)
	type statsManager struct{ Frames int }
	cfg := DefaultWorldConfig()
	cfg.Managers = []any{&statsManager{Frames: 7}}
	world := NewWorld(cfg)

	// Act: before Startup, not yet available
	_, beforeErr := GetManager[*statsManager](world)

	// Assert
	assert.NotNil(t, beforeErr)
	assert.Equal(t, CodeLifecyclePhase, beforeErr.Code)

	// Act
	assert.Nil(t, world.Startup())
	manager, err := GetManager[*statsManager](world)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, 7, manager.Frames)
}

func Test_World_GetManagerMissingTypeReturnsManagerNotFound(t *testing.T) {
	// Arrange
	type unregistered struct{}
	world := NewWorld(DefaultWorldConfig())
	assert.Nil(t, world.Startup())

	// Act
	_, err := GetManager[*unregistered](world)

	// Assert
	assert.NotNil(t, err)
	assert.Equal(t, CodeManagerNotFound, err.Code)
}

func Test_World_BasicMovementOverFiveTicks(t *testing.T) {
	// Arrange (S1)
	world := NewWorld(DefaultWorldConfig())
	assert.Nil(t, world.Startup())
	assert.Nil(t, world.RegisterSystem(&movementSystem{}))
	id, _ := world.CreateEntity(0)
	entity := world.GetEntity(id)
	_, _ = entity.CreateComponent("Position", testPosition{X: 10, Y: 20})
	_, _ = entity.CreateComponent("Velocity", testVelocity{X: 1, Y: 1})

	system, err := world.FindSystem("Movement")
	assert.Nil(t, err)
	movement := system.(*movementSystem)

	// Act
	for i := 0; i < 5; i++ {
		assert.Nil(t, world.BeginTick())
		assert.Nil(t, world.Tick(TickGroupAll, 1.0))
		assert.Nil(t, world.EndTick())
	}

	// Assert
	posRef, err := entity.GetComponent("Position")
	assert.Nil(t, err)
	posVal, _ := posRef.Read()
	pos := posVal.(testPosition)
	assert.Equal(t, 15, pos.X)
	assert.Equal(t, 25, pos.Y)
	assert.Equal(t, []EntityID{id}, movement.collector.Collected())
	assert.Equal(t, uint32(5), world.TickCount())

	// Act: this non-lazy collector has nothing pending, so Matching is empty after Change()
	movement.collector.Change()
	assert.Empty(t, movement.collector.Matching())
}

func Test_World_RegisterSystemRejectsDuplicateType(t *testing.T) {
	// Arrange
	world := NewWorld(DefaultWorldConfig())
	assert.Nil(t, world.Startup())
	assert.Nil(t, world.RegisterSystem(&movementSystem{}))

	// Act
	err := world.RegisterSystem(&movementSystem{})

	// Assert
	assert.NotNil(t, err)
	assert.Equal(t, CodeSystemExists, err.Code)
}

func Test_World_CreateEntityFiresEntityCreatedForAllowEmptyCollector(t *testing.T) {
	// Arrange: a bare entity never generates a component_added event, so an
	// AllowEmpty collector can only ever see it via entity_created.
	world := NewWorld(DefaultWorldConfig())
	assert.Nil(t, world.Startup())
	collector := world.CreateCollector(world.NewMatcherBuilder().AllowEmpty().Build(), CollectorNone)

	// Act
	id, err := world.CreateEntity(0)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, []EntityID{id}, collector.Collected())
}

func Test_World_TickAllUsesConfiguredDefaultTickGroupMask(t *testing.T) {
	// Arrange
	cfg := DefaultWorldConfig()
	cfg.DefaultTickGroupMask = TickGroupAll
	world := NewWorld(cfg)
	assert.Nil(t, world.Startup())
	assert.Nil(t, world.RegisterSystem(&movementSystem{}))
	id, _ := world.CreateEntity(0)
	entity := world.GetEntity(id)
	_, _ = entity.CreateComponent("Position", testPosition{X: 0, Y: 0})
	_, _ = entity.CreateComponent("Velocity", testVelocity{X: 1, Y: 1})

	// Act
	assert.Nil(t, world.BeginTick())
	assert.Nil(t, world.TickAll(1.0))
	assert.Nil(t, world.EndTick())

	// Assert
	posRef, err := entity.GetComponent("Position")
	assert.Nil(t, err)
	posVal, _ := posRef.Read()
	pos := posVal.(testPosition)
	assert.Equal(t, 1, pos.X)
	assert.Equal(t, 1, pos.Y)
}

func Test_World_MultiComponentSupportsSameTypeTwice(t *testing.T) {
	// Arrange
	world := NewWorld(DefaultWorldConfig())
	assert.Nil(t, world.Startup())
	id, _ := world.CreateEntity(0)
	entity := world.GetEntity(id)

	// Act
	_, err1 := entity.CreateComponent("Position", testPosition{X: 1})
	_, err2 := entity.CreateComponent("Position", testPosition{X: 2})

	// Assert
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	refs, err := entity.GetComponents("Position")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(refs))
}
