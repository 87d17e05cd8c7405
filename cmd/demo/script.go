package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/cardidi/tinyecs/ecs"
)

// scriptConsole bridges a subset of ecs.World to Lua: a Lua state, a global
// "world" table of Go-backed functions, and reflection-free conversion
// between the small set of value shapes this demo actually needs (numbers
// and the Position/Velocity component tables).
type scriptConsole struct {
	world *ecs.World
	state *lua.LState
}

func newScriptConsole(world *ecs.World) *scriptConsole {
	c := &scriptConsole{world: world, state: lua.NewState()}
	c.registerWorldAPI()
	return c
}

func (c *scriptConsole) Close() { c.state.Close() }

// Run executes a script body, giving it access to the world table.
func (c *scriptConsole) Run(script string) error {
	if err := c.state.DoString(script); err != nil {
		return fmt.Errorf("script execution failed: %w", err)
	}
	return nil
}

func (c *scriptConsole) registerWorldAPI() {
	worldTable := c.state.NewTable()

	c.state.SetFuncs(worldTable, map[string]lua.LGFunction{
		"create_entity": c.luaCreateEntity,
		"add_component": c.luaAddComponent,
		"entity_count":  c.luaEntityCount,
	})

	c.state.SetGlobal("world", worldTable)
}

// luaCreateEntity implements world.create_entity() -> id. This calls
// World.CreateEntity directly (not through the Modify Queue), so it is only
// legal to invoke from script while the World is Started/Ticking/Idle —
// the same lifecycle gate every other CreateEntity caller is subject to.
func (c *scriptConsole) luaCreateEntity(state *lua.LState) int {
	id, err := c.world.CreateEntity(0)
	if err != nil {
		state.RaiseError("create_entity: %s", err.Error())
		return 0
	}
	state.Push(lua.LNumber(id))
	return 1
}

// luaAddComponent implements world.add_component(id, "Position", {X=.., Y=..}).
// Only Position and Velocity are recognized; this is a demo bridge, not a
// general marshaller.
func (c *scriptConsole) luaAddComponent(state *lua.LState) int {
	id := ecs.EntityID(state.CheckNumber(1))
	componentName := state.CheckString(2)
	table := state.CheckTable(3)

	x := float64(lua.LVAsNumber(table.RawGetString("X")))
	y := float64(lua.LVAsNumber(table.RawGetString("Y")))

	entity := c.world.GetEntity(id)
	var err *ecs.ECSError
	switch componentName {
	case "Position":
		_, err = entity.CreateComponent("Position", Position{X: x, Y: y})
	case "Velocity":
		_, err = entity.CreateComponent("Velocity", Velocity{X: x, Y: y})
	default:
		state.RaiseError("add_component: unknown component %q", componentName)
		return 0
	}
	if err != nil {
		state.RaiseError("add_component: %s", err.Error())
		return 0
	}
	return 0
}

func (c *scriptConsole) luaEntityCount(state *lua.LState) int {
	state.Push(lua.LNumber(c.world.GetEntityCount()))
	return 1
}
