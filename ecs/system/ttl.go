package system

import (
	"image/color"

	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
)

// Effect lifetimes in frames.
const (
	crumbleFrames = 24
	explodeFrames = 36
)

// TTLSystem decrements frame-based TTL components and destroys entities when
// the TTL reaches zero.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames > 0 {
			ttl.Frames--
			if ttl.Frames > 0 {
				return
			}
		}
		w.DestroyEntity(e)
	})
}

// SpawnEffect leaves the destruction visual for ev. Sunk balls leave none.
// radius is the blast radius for explosions and the ball radius otherwise.
func SpawnEffect(w *ecs.World, ev combat.DestroyedEvent, radius float64) (ecs.Entity, bool) {
	if w == nil || ev.Sunk {
		return 0, false
	}
	fx := &component.Effect{
		X:       ev.X,
		Y:       ev.Y,
		Radius:  radius,
		Explode: ev.Effect == combat.EffectExplode,
		Color:   color.White,
	}
	if c, ok := ev.Visual.(color.Color); ok {
		fx.Color = c
	}
	frames := crumbleFrames
	if fx.Explode {
		frames = explodeFrames
	}

	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.EffectComponent.Kind(), fx); err != nil {
		w.DestroyEntity(e)
		return 0, false
	}
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: frames, Total: frames}); err != nil {
		w.DestroyEntity(e)
		return 0, false
	}
	return e, true
}
