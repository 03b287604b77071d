package combat

import (
	"github.com/milk9111/breakshot/common"
	"github.com/milk9111/breakshot/ecs"
)

// AreaEngine applies radius effects around a ball: the pulse of pulse kinds
// and the blast of explosive kinds. Damage always goes through the
// Manager so fragility, armor and destruction apply.
type AreaEngine struct {
	m        *Manager
	emitting map[ecs.Entity]bool
}

func newAreaEngine(m *Manager) *AreaEngine {
	return &AreaEngine{m: m, emitting: make(map[ecs.Entity]bool)}
}

// Pulse damages every non-primary ball around origin. Primary balls are
// never affected by a pulse.
func (a *AreaEngine) Pulse(origin ecs.Entity) int {
	x, y, ok := a.m.Position(origin)
	if !ok {
		return 0
	}
	return a.emit(origin, x, y, a.m.cfg.PulseRadius, true)
}

// Explode damages every ball around (x, y), primaries included, and carves
// the terrain when one is attached.
func (a *AreaEngine) Explode(origin ecs.Entity, x, y float64) int {
	radius := a.m.cfg.ExplosionRadius
	if t := a.m.terrain; t != nil {
		t.SwitchToCellMode(x, y, radius)
		t.DestroyRagged(x, y, radius)
	}
	return a.emit(origin, x, y, radius, false)
}

// Falloff returns the damage dealt at distance d from the centre of an
// effect with the given radius. Inside the radius the effect is lethal and
// the second result is true.
func (a *AreaEngine) Falloff(d, radius float64) (float64, bool) {
	cfg := a.m.cfg
	return falloff(d, radius, cfg.FalloffWidth, cfg.InstantKillDamage)
}

func falloff(d, radius, width, base float64) (float64, bool) {
	if d <= radius {
		return base, true
	}
	if width <= 0 || d > radius+width {
		return 0, false
	}
	ratio := 1 - (d-radius)/width
	return base * ratio, false
}

// emit returns the number of balls it touched. An origin that is already
// emitting is ignored, which ends pulse ping-pong between two pulse kinds.
func (a *AreaEngine) emit(origin ecs.Entity, x, y, radius float64, skipPrimary bool) int {
	if a.emitting[origin] {
		return 0
	}
	a.emitting[origin] = true
	defer delete(a.emitting, origin)

	hit := 0
	for _, e := range a.m.Live() {
		if e == origin || !a.m.IsAlive(e) {
			continue
		}
		kind, _ := a.m.KindOf(e)
		if skipPrimary && kind.Primary() {
			continue
		}
		ex, ey, ok := a.m.Position(e)
		if !ok {
			continue
		}
		dmg, lethal := a.Falloff(common.Dist(ex, ey, x, y), radius)
		switch {
		case lethal:
			a.m.Kill(e, origin)
		case dmg > 0:
			a.m.ApplyDamage(e, dmg, origin)
		default:
			continue
		}
		hit++
	}
	return hit
}
