// Command demo is a tiny consumer of the ecs package: it drives a World
// through Ebitengine's game loop and renders entities carrying Position and
// Velocity components as moving squares. It exists to exercise the core
// from outside the library, the way any embedding engine would.
package main

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/cardidi/tinyecs/ecs"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

// Position and Velocity are the demo's own component types; the ecs package
// has no built-in component vocabulary.
type Position struct{ X, Y float64 }

func (Position) Type() ecs.ComponentType { return "Position" }

type Velocity struct{ X, Y float64 }

func (Velocity) Type() ecs.ComponentType { return "Velocity" }

// movementSystem advances Position by Velocity every tick by destroying each
// tracked entity's Position component and creating a new one holding the
// moved, screen-wrapped value.
type movementSystem struct {
	tracked *ecs.Collector
}

func (*movementSystem) Type() string                 { return "Movement" }
func (*movementSystem) TickGroup() ecs.TickGroupMask  { return ecs.TickGroupAll }
func (*movementSystem) OnDestroy(*ecs.World) error    { return nil }

func (s *movementSystem) OnCreate(w *ecs.World) error {
	s.tracked = w.CreateCollector(w.NewMatcherBuilder().OfAll("Position", "Velocity").Build(), ecs.CollectorNone)
	return nil
}

func (s *movementSystem) OnTick(w *ecs.World, dt float64) error {
	for _, id := range s.tracked.Collected() {
		entity := w.GetEntity(id)
		posRef, err := entity.GetComponent("Position")
		if err != nil {
			continue
		}
		velRef, err := entity.GetComponent("Velocity")
		if err != nil {
			continue
		}
		posVal, err := posRef.Read()
		if err != nil {
			continue
		}
		velVal, err := velRef.Read()
		if err != nil {
			continue
		}
		pos := posVal.(Position)
		vel := velVal.(Velocity)
		if err := entity.DestroyComponent(posRef); err != nil {
			continue
		}
		next := Position{X: pos.X + vel.X*dt, Y: pos.Y + vel.Y*dt}
		next.X = wrap(next.X, screenWidth)
		next.Y = wrap(next.Y, screenHeight)
		_, _ = entity.CreateComponent("Position", next)
	}
	return nil
}

func wrap(v, max float64) float64 {
	if v < 0 {
		return v + max
	}
	if v >= max {
		return v - max
	}
	return v
}

// demoGame adapts ecs.World to ebiten.Game.
type demoGame struct {
	world   *ecs.World
	movement *movementSystem
}

func newDemoGame() *demoGame {
	world := ecs.NewWorld(ecs.DefaultWorldConfig())
	if err := world.Startup(); err != nil {
		log.Fatal(err)
	}

	movement := &movementSystem{}
	if err := world.RegisterSystem(movement); err != nil {
		log.Fatal(err)
	}

	seedEntities(world)
	seedScriptedEntity(world)

	return &demoGame{world: world, movement: movement}
}

// seedScriptedEntity spawns one additional entity through the Lua console
// instead of direct Go calls, exercising the same World API a script-driven
// mod would use.
func seedScriptedEntity(world *ecs.World) {
	console := newScriptConsole(world)
	defer console.Close()

	script := `
		local id = world.create_entity()
		world.add_component(id, "Position", {X = 250, Y = 550})
		world.add_component(id, "Velocity", {X = 35, Y = -15})
	`
	if err := console.Run(script); err != nil {
		log.Fatal(err)
	}
}

func seedEntities(world *ecs.World) {
	seeds := []struct {
		pos Position
		vel Velocity
	}{
		{Position{X: 100, Y: 100}, Velocity{X: 60, Y: 30}},
		{Position{X: 400, Y: 200}, Velocity{X: -40, Y: 50}},
		{Position{X: 700, Y: 400}, Velocity{X: 20, Y: -20}},
	}
	for _, seed := range seeds {
		id, err := world.CreateEntity(0)
		if err != nil {
			log.Fatal(err)
		}
		entity := world.GetEntity(id)
		if _, err := entity.CreateComponent("Position", seed.pos); err != nil {
			log.Fatal(err)
		}
		if _, err := entity.CreateComponent("Velocity", seed.vel); err != nil {
			log.Fatal(err)
		}
	}
}

func (g *demoGame) Update() error {
	if err := g.world.BeginTick(); err != nil {
		return err
	}
	if err := g.world.Tick(ecs.TickGroupAll, 1.0/60.0); err != nil {
		return err
	}
	return g.world.EndTick()
}

func (g *demoGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})
	for _, id := range g.movement.tracked.Collected() {
		entity := g.world.GetEntity(id)
		ref, err := entity.GetComponent("Position")
		if err != nil {
			continue
		}
		val, err := ref.Read()
		if err != nil {
			continue
		}
		pos := val.(Position)
		vector.DrawFilledRect(screen, float32(pos.X), float32(pos.Y), 16, 16, color.RGBA{200, 160, 60, 255}, false)
	}
	ebitenutil.DebugPrint(screen, "tinyecs demo")
}

func (g *demoGame) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	game := newDemoGame()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("tinyecs demo")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
