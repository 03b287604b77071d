package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/breakshot/accessory"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
	"github.com/milk9111/breakshot/ecs/system"
	"github.com/milk9111/breakshot/prefabs"
	"github.com/milk9111/breakshot/terrain"
)

// BallBody builds the physics template shared by every ball.
func BallBody(spec prefabs.PhysicsSpec) component.PhysicsBody {
	return component.PhysicsBody{
		Radius:     spec.Radius,
		Mass:       spec.Mass,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
	}
}

// NewGrid builds the felt for a table.
func NewGrid(spec *prefabs.TableSpec, seed uint64) *terrain.Grid {
	return terrain.New(spec.Layout(), rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// BuildRack spawns the opening rack of spec. Scripts come from lib; a nil
// lib skips them. On error the balls spawned so far stay registered.
func BuildRack(w *ecs.World, m *combat.Manager, spec *prefabs.TableSpec, lib *accessory.Library) ([]ecs.Entity, error) {
	body := BallBody(spec.Ball)
	balls := make([]ecs.Entity, 0, len(spec.Rack))
	for i, b := range spec.Rack {
		kind, err := b.ParsedKind()
		if err != nil {
			return balls, fmt.Errorf("rack ball %d: %w", i, err)
		}

		var behaviors []combat.Behavior
		if lib != nil {
			for _, name := range b.Scripts {
				s, err := lib.Get(name)
				if err != nil {
					return balls, fmt.Errorf("rack ball %d (%s): %w", i, kind, err)
				}
				behaviors = append(behaviors, s.Behavior())
			}
		}

		spawn := system.BallSpawn{
			Kind:      kind,
			X:         b.At.X,
			Y:         b.At.Y,
			Body:      body,
			Behaviors: behaviors,
		}
		if b.Color.Color != nil {
			spawn.Visual = b.Color.Color
		}
		e, err := system.SpawnBall(w, m, spawn)
		if err != nil {
			return balls, fmt.Errorf("rack ball %d: %w", i, err)
		}
		balls = append(balls, e)
	}
	return balls, nil
}

// CueSpawn is where a respawned cue goes: the rack's cue spot, or the head
// spot a quarter along the table when the rack has no cue.
func CueSpawn(spec *prefabs.TableSpec) system.BallSpawn {
	spawn := system.BallSpawn{
		Kind: combat.KindCue,
		X:    spec.Origin.X + spec.Width/4,
		Y:    spec.Origin.Y + spec.Height/2,
		Body: BallBody(spec.Ball),
	}
	for _, b := range spec.Rack {
		kind, err := b.ParsedKind()
		if err != nil || !kind.Primary() {
			continue
		}
		spawn.X, spawn.Y = b.At.X, b.At.Y
		if b.Color.Color != nil {
			spawn.Visual = b.Color.Color
		}
		break
	}
	return spawn
}
