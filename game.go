package main

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/breakshot/accessory"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/common"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/entity"
	"github.com/milk9111/breakshot/ecs/system"
	"github.com/milk9111/breakshot/prefabs"
	"github.com/milk9111/breakshot/terrain"
)

// clearedHold is how many frames the cleared table stays up before the
// re-rack fade starts.
const clearedHold = 90

type Game struct {
	frames int
	debug  bool
	paused bool
	seed   uint64

	racks   int
	cleared bool

	world      *ecs.World
	manager    *combat.Manager
	scheduler  *ecs.Scheduler
	physics    *system.PhysicsSystem
	aim        *system.AimSystem
	sink       *system.SinkSystem
	respawn    *system.RespawnSystem
	transition *system.TransitionSystem
	audio      *system.AudioSystem
	render     *system.RenderSystem

	table   *prefabs.TableSpec
	grid    *terrain.Grid
	library *accessory.Library
	watcher *prefabs.Watcher
	ui      *ebitenui.UI
}

func NewGame(seed uint64, debug, watch bool) (*Game, error) {
	table, err := prefabs.LoadTableSpec()
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	combatSpec, err := prefabs.LoadCombatSpec()
	if err != nil {
		return nil, fmt.Errorf("load combat: %w", err)
	}
	cfg, err := combatSpec.Config()
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:   debug,
		seed:    seed,
		world:   ecs.NewWorld(),
		table:   table,
		library: accessory.NewLibrary(),
	}
	g.transition = system.NewTransitionSystem(g.rerack)

	g.physics = system.NewPhysicsSystem(table.Ball.Damping, nil)
	g.physics.AddCushions(
		table.Origin.X, table.Origin.Y, table.Origin.X+table.Width, table.Origin.Y+table.Height,
		table.Cushion.Thickness, table.Cushion.Elasticity, table.Cushion.Friction,
	)

	g.grid = entity.NewGrid(table, seed)
	g.manager, err = combat.NewManager(g.world, combat.Options{
		Config:       cfg,
		Physics:      g.physics,
		Terrain:      g.grid,
		Listener:     combat.QueueListener{Queue: g.world.Events()},
		InTransition: g.transition.Active,
	})
	if err != nil {
		return nil, err
	}
	g.physics.SetContactFunc(func(a, b ecs.Entity, impulse float64) {
		g.manager.HandleContact(a, b, impulse)
	})

	g.aim = system.NewAimSystem(g.manager, g.physics)
	g.aim.Disabled = g.transition.Active
	g.sink = system.NewSinkSystem(g.manager, g.grid)
	g.respawn = system.NewRespawnSystem(g.manager, entity.CueSpawn(table))
	g.respawn.Blocked = func() bool { return g.transition.Active() || !g.physics.Resting(g.aim.RestSpeed) }
	g.render = system.NewRenderSystem(g.manager, g.grid, g.aim)
	g.render.Cushion = table.Cushion.Thickness

	g.audio = system.NewAudioSystem(audio.NewContext(system.SampleRate))

	g.scheduler = ecs.NewScheduler(
		g.aim,
		g.physics,
		g.sink,
		system.NewCombatSystem(g.manager),
		g.respawn,
		system.NewTTLSystem(),
		g.transition,
	)

	if _, err := entity.BuildRack(g.world, g.manager, table, g.library); err != nil {
		return nil, err
	}

	if watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Printf("game: hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	g.ui = NewPauseUI(g)
	return g, nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}
	g.frames++

	g.applyChanges()
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.transition.Start(0)
	}

	g.scheduler.Update(g.world)
	g.handleEvents()
	g.audio.Update(g.world)
	return nil
}

func (g *Game) handleEvents() {
	for _, ev := range g.world.Events().Drain() {
		switch ev.Type {
		case combat.EventEntityDestroyed:
			d, ok := ev.Data.(combat.DestroyedEvent)
			if !ok {
				continue
			}
			g.audio.PlayDestroyed(d)
			radius := g.table.Ball.Radius
			if d.Effect == combat.EffectExplode {
				radius = g.manager.Config().ExplosionRadius
			}
			system.SpawnEffect(g.world, d, radius)
			if g.debug {
				log.Printf("game: %s %v destroyed at (%.0f,%.0f) sunk=%v effect=%s", d.Kind, d.Entity, d.X, d.Y, d.Sunk, d.Effect)
			}
		case combat.EventRespawnNeeded:
			g.respawn.Request()
		case combat.EventObjectiveCleared:
			log.Printf("game: table cleared after %d frames", g.frames)
			g.cleared = true
			g.transition.Start(clearedHold)
		}
	}
}

// rerack tears the table down silently and builds the next one.
func (g *Game) rerack() {
	for _, e := range g.manager.Live() {
		g.manager.Unregister(e)
	}
	g.world.Events().Drain()

	g.racks++
	g.grid = entity.NewGrid(g.table, g.seed+uint64(g.racks))
	g.manager.SetTerrain(g.grid)
	g.sink.SetHoles(g.grid)
	g.render.SetGrid(g.grid)
	g.respawn.Reset(entity.CueSpawn(g.table))

	if _, err := entity.BuildRack(g.world, g.manager, g.table, g.library); err != nil {
		log.Printf("game: rack: %v", err)
	}
	g.cleared = false
}

// applyChanges hot-reloads tuning, the table and scripts edited on disk.
func (g *Game) applyChanges() {
	if g.watcher == nil {
		return
	}
	for _, ch := range g.watcher.Poll() {
		switch ch.Kind {
		case prefabs.ScriptChange:
			name := strings.TrimSuffix(ch.Name(), ".tengo")
			if err := g.library.Reload(name); err != nil {
				log.Printf("game: reload script %s: %v", name, err)
				continue
			}
			log.Printf("game: reloaded script %s; takes effect next rack", name)
		case prefabs.SpecChange:
			switch ch.Name() {
			case "combat.yaml":
				spec, err := prefabs.LoadCombatSpec()
				if err != nil {
					log.Printf("game: reload combat: %v", err)
					continue
				}
				cfg, err := spec.Config()
				if err == nil {
					err = g.manager.SetConfig(cfg)
				}
				if err != nil {
					log.Printf("game: reload combat: %v", err)
					continue
				}
				g.ui = NewPauseUI(g)
				log.Printf("game: reloaded combat tuning")
			case "table.yaml":
				table, err := prefabs.LoadTableSpec()
				if err != nil {
					log.Printf("game: reload table: %v", err)
					continue
				}
				g.table = table
				g.transition.Start(0)
			}
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)

	hud := fmt.Sprintf("FPS: %.0f  targets: %d  felt lost: %d  mode: %s",
		ebiten.ActualFPS(), g.manager.TargetsRemaining(), g.grid.Removed(), g.grid.Mode())
	ebitenutil.DebugPrint(screen, hud)
	if g.cleared {
		ebitenutil.DebugPrintAt(screen, "TABLE CLEARED", common.BaseWidth/2-40, common.BaseHeight/2)
	}
	if a := g.transition.Alpha(); a > 0 {
		vector.FillRect(screen, 0, 0, common.BaseWidth, common.BaseHeight, color.NRGBA{A: uint8(a * 255)}, false)
	}
	if g.debug {
		system.DrawPhysicsDebug(g.physics, screen)
		system.DrawCombatDebug(g.world, g.manager, screen)
	}

	if g.paused {
		g.ui.Draw(screen)
	}
}

// Close stops background watchers.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
