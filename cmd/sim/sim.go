package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/milk9111/breakshot/accessory"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/common"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/entity"
	"github.com/milk9111/breakshot/ecs/system"
	"github.com/milk9111/breakshot/prefabs"
	"github.com/milk9111/breakshot/terrain"
)

const frameTime = time.Second / 60

type options struct {
	Seed      uint64
	Shots     int
	MaxFrames int
	Speed     float64
	Scripts   bool
}

// ShotResult summarizes one shot from strike to rest.
type ShotResult struct {
	Shot      int
	Frames    int
	Destroyed int
	Sunk      int
	Respawns  int
	Targets   int
	FeltLost  int
}

func (r ShotResult) String() string {
	return fmt.Sprintf("shot %2d: %4d frames  destroyed %d  sunk %d  respawns %d  targets left %d  felt lost %d",
		r.Shot, r.Frames, r.Destroyed, r.Sunk, r.Respawns, r.Targets, r.FeltLost)
}

// Report is the outcome of a whole headless run.
type Report struct {
	Shots   []ShotResult
	Cleared bool
	Racked  int
}

// simulation is the game's system stack without a window: a frame clock
// drives the gate, so runs are repeatable per seed.
type simulation struct {
	opts      options
	now       time.Time
	rng       *rand.Rand
	world     *ecs.World
	manager   *combat.Manager
	grid      *terrain.Grid
	physics   *system.PhysicsSystem
	respawn   *system.RespawnSystem
	scheduler *ecs.Scheduler
	cleared   bool
}

func newSimulation(opts options) (*simulation, int, error) {
	table, err := prefabs.LoadTableSpec()
	if err != nil {
		return nil, 0, err
	}
	combatSpec, err := prefabs.LoadCombatSpec()
	if err != nil {
		return nil, 0, err
	}
	cfg, err := combatSpec.Config()
	if err != nil {
		return nil, 0, err
	}

	s := &simulation{
		opts:  opts,
		now:   time.Unix(0, 0),
		rng:   rand.New(rand.NewPCG(opts.Seed, opts.Seed+1)),
		world: ecs.NewWorld(),
	}
	s.physics = system.NewPhysicsSystem(table.Ball.Damping, nil)
	s.physics.AddCushions(
		table.Origin.X, table.Origin.Y, table.Origin.X+table.Width, table.Origin.Y+table.Height,
		table.Cushion.Thickness, table.Cushion.Elasticity, table.Cushion.Friction,
	)
	s.grid = entity.NewGrid(table, opts.Seed)
	s.manager, err = combat.NewManager(s.world, combat.Options{
		Config:   cfg,
		Clock:    func() time.Time { return s.now },
		Physics:  s.physics,
		Terrain:  s.grid,
		Listener: combat.QueueListener{Queue: s.world.Events()},
	})
	if err != nil {
		return nil, 0, err
	}
	s.physics.SetContactFunc(func(a, b ecs.Entity, impulse float64) {
		s.manager.HandleContact(a, b, impulse)
	})
	s.respawn = system.NewRespawnSystem(s.manager, entity.CueSpawn(table))
	s.scheduler = ecs.NewScheduler(
		s.physics,
		system.NewSinkSystem(s.manager, s.grid),
		system.NewCombatSystem(s.manager),
		s.respawn,
	)

	var lib *accessory.Library
	if opts.Scripts {
		lib = accessory.NewLibrary()
	}
	balls, err := entity.BuildRack(s.world, s.manager, table, lib)
	if err != nil {
		return nil, 0, err
	}
	return s, len(balls), nil
}

func (s *simulation) step(res *ShotResult) {
	s.now = s.now.Add(frameTime)
	s.scheduler.Update(s.world)
	for _, ev := range s.world.Events().Drain() {
		switch ev.Type {
		case combat.EventEntityDestroyed:
			if d, ok := ev.Data.(combat.DestroyedEvent); ok && d.Sunk {
				res.Sunk++
			} else {
				res.Destroyed++
			}
		case combat.EventRespawnNeeded:
			res.Respawns++
			s.respawn.Request()
		case combat.EventObjectiveCleared:
			s.cleared = true
		}
	}
}

// shoot strikes the cue at a random live target.
func (s *simulation) shoot() bool {
	cue, ok := system.FirstPrimary(s.world, s.manager)
	if !ok {
		return false
	}
	cx, cy, ok := s.manager.Position(cue)
	if !ok {
		return false
	}
	var targets []ecs.Entity
	for _, e := range s.manager.Live() {
		if k, _ := s.manager.KindOf(e); !k.Primary() {
			targets = append(targets, e)
		}
	}
	if len(targets) == 0 {
		return false
	}
	tx, ty, _ := s.manager.Position(targets[s.rng.IntN(len(targets))])
	dx, dy := tx-cx, ty-cy
	d := math.Hypot(dx, dy)
	if d == 0 {
		return false
	}
	speed := s.opts.Speed * common.Lerp(0.6, 1, s.rng.Float64())
	return s.physics.Shoot(cue, dx/d*speed, dy/d*speed)
}

func run(opts options) (Report, error) {
	return runWith(opts, nil)
}

// runWith plays the shots, calling onFrame after every frame. Returning false
// from onFrame stops the run early.
func runWith(opts options, onFrame func(s *simulation, shot int) bool) (Report, error) {
	s, racked, err := newSimulation(opts)
	if err != nil {
		return Report{}, err
	}
	report := Report{Racked: racked}

	// One frame so the physics system creates the bodies.
	s.step(&ShotResult{})

	for shot := 1; shot <= opts.Shots && !s.cleared; shot++ {
		res := ShotResult{Shot: shot}
		if !s.shoot() {
			// No cue on the table yet; let the respawn land.
			s.step(&res)
		}
		for res.Frames < opts.MaxFrames {
			s.step(&res)
			res.Frames++
			if onFrame != nil && !onFrame(s, shot) {
				report.Shots = append(report.Shots, res)
				return report, nil
			}
			if res.Frames > 1 && s.physics.Resting(4) && !s.respawn.Pending() {
				break
			}
		}
		res.Targets = s.manager.TargetsRemaining()
		res.FeltLost = s.grid.Removed()
		report.Shots = append(report.Shots, res)
	}
	report.Cleared = s.cleared
	return report, nil
}
