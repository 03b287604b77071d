package combat

import (
	"testing"

	"github.com/milk9111/breakshot/ecs"
)

func TestFalloff(t *testing.T) {
	const r, w, base = 60.0, 5.0, 100.0
	cases := []struct {
		name   string
		d      float64
		lethal bool
		check  func(float64) bool
	}{
		{"centre", 0, true, func(v float64) bool { return v == base }},
		{"half_radius", r / 2, true, func(v float64) bool { return v == base }},
		{"edge", r, true, func(v float64) bool { return v == base }},
		{"mid_band", r + w/2, false, func(v float64) bool { return v > 0 && v < base }},
		{"band_end", r + w, false, func(v float64) bool { return v == 0 }},
		{"outside", r + w + 1, false, func(v float64) bool { return v == 0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, lethal := falloff(c.d, r, w, base)
			if lethal != c.lethal || !c.check(v) {
				t.Fatalf("falloff(%v) = %v,%v", c.d, v, lethal)
			}
		})
	}

	if v, lethal := falloff(r+1, r, 0, base); v != 0 || lethal {
		t.Fatalf("zero band width must not damage outside the radius, got %v", v)
	}
}

func TestPulseZones(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	cfg := h.m.Config()
	r, w := cfg.PulseRadius, cfg.FalloffWidth

	nine := h.spawn(t, KindNine, 0, 0)
	core := h.spawn(t, KindOne, r/2, 0)
	band := h.spawn(t, KindThree, 0, r+w/2)
	edge := h.spawn(t, KindFive, -(r + w), 0)
	cue := h.spawn(t, KindCue, 10, 0)

	h.m.ApplyDamage(nine, 1, cue)

	if h.m.IsAlive(core) {
		t.Fatalf("expected core-zone ball destroyed")
	}
	if hp := h.hp(t, band); hp <= 0 || hp >= 100 {
		t.Fatalf("expected partial falloff damage, hp=%v", hp)
	}
	if hp := h.hp(t, edge); hp != 100 {
		t.Fatalf("expected no damage at R+W, hp=%v", hp)
	}
	if hp := h.hp(t, cue); hp != 100 {
		t.Fatalf("pulse must not affect the cue, hp=%v", hp)
	}
	if h.m.TriggerCount(nine) != 1 || !h.m.IsAlive(nine) {
		t.Fatalf("expected nine alive with one trigger")
	}
}

func TestPulseFiresOnEveryHit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kinds[KindNine] = Traits{Pulse: true}
	cfg.FalloffWidth = 10
	h := newHarness(t, cfg)

	nine := h.spawn(t, KindNine, 0, 0)
	band := h.spawn(t, KindOne, cfg.PulseRadius+5, 0)

	for i := 0; i < 3; i++ {
		h.m.ApplyDamage(nine, 1, 0)
	}
	if h.m.IsAlive(band) {
		t.Fatalf("expected repeated mid-band pulses to destroy")
	}
	if h.m.TriggerCount(nine) != 0 {
		t.Fatalf("unlimited pulse must not count triggers")
	}
}

func TestPulsePingPongTerminates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kinds[KindNine] = Traits{Pulse: true}
	cfg.Kinds[KindTen] = Traits{Pulse: true}
	cfg.FalloffWidth = 10
	h := newHarness(t, cfg)

	a := h.spawn(t, KindNine, 0, 0)
	b := h.spawn(t, KindTen, cfg.PulseRadius+9, 0)

	h.m.ApplyDamage(a, 1, 0)

	if !h.m.IsAlive(a) || !h.m.IsAlive(b) {
		t.Fatalf("expected both pulse balls to survive one exchange")
	}
	if hp := h.hp(t, b); hp >= 100 {
		t.Fatalf("expected b damaged by a's pulse, hp=%v", hp)
	}
}

func TestExplosionChain(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	r := h.m.Config().ExplosionRadius

	cue := h.spawn(t, KindCue, -r-50, 0)
	first := h.spawn(t, KindThirteen, 0, 0)
	second := h.spawn(t, KindThirteen, r-20, 0)
	far := h.spawn(t, KindOne, 2*r-30, 0)

	h.m.Kill(first, cue)

	for _, e := range []ecs.Entity{first, second, far} {
		if h.m.IsAlive(e) {
			t.Fatalf("expected %v destroyed by the chain", e)
		}
	}
	if !h.m.IsAlive(cue) {
		t.Fatalf("cue outside every blast must survive")
	}
	if got := len(h.rec.destroyed); got != 3 {
		t.Fatalf("expected 3 destroyed events, got %d", got)
	}
	for _, ev := range h.rec.destroyed[:2] {
		if ev.Effect != EffectExplode {
			t.Fatalf("expected explode effect for %v", ev.Entity)
		}
	}
	if h.log.count("cells:0,0") != 1 || h.log.index("ragged:100,0,120") < 0 {
		t.Fatalf("expected terrain carved at both blasts, log=%v", *h.log)
	}
	if h.rec.cleared != 1 {
		t.Fatalf("expected objective cleared once, got %d", h.rec.cleared)
	}
}

func TestExplosionHitsPrimary(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	cue := h.spawn(t, KindCue, 30, 0)
	bomb := h.spawn(t, KindThirteen, 0, 0)
	h.spawn(t, KindOne, 1000, 0)

	h.m.Kill(bomb, 0)
	if h.m.IsAlive(cue) {
		t.Fatalf("explosion must destroy primaries in range")
	}
	if h.rec.respawns != 1 {
		t.Fatalf("expected respawn signal, got %d", h.rec.respawns)
	}
}

func TestExplosionWithoutTerrain(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.m.SetTerrain(nil)
	bomb := h.spawn(t, KindThirteen, 0, 0)
	victim := h.spawn(t, KindOne, 10, 0)

	h.m.Kill(bomb, 0)
	if h.m.IsAlive(victim) {
		t.Fatalf("expected victim destroyed without terrain")
	}
	if h.log.count("cells:0,0") != 0 {
		t.Fatalf("no terrain calls expected, log=%v", *h.log)
	}
}
