package combat

import (
	"time"

	"github.com/milk9111/breakshot/ecs"
)

// Clock returns the current time. Tests inject a fake.
type Clock func() time.Time

// CollisionKey is an unordered entity pair with the smaller handle first.
type CollisionKey struct {
	A ecs.Entity
	B ecs.Entity
}

// PairKey canonicalizes (a, b) so that PairKey(a, b) == PairKey(b, a).
func PairKey(a, b ecs.Entity) CollisionKey {
	if b < a {
		a, b = b, a
	}
	return CollisionKey{A: a, B: b}
}

// Has reports whether e is one side of the pair.
func (k CollisionKey) Has(e ecs.Entity) bool {
	return k.A == e || k.B == e
}

// Gate deduplicates contact notifications for the same pair and enforces
// temporary immunity windows.
type Gate struct {
	now    Clock
	window time.Duration

	cooldowns map[CollisionKey]time.Time
	immunity  map[CollisionKey]time.Time
}

// NewGate creates a gate with the given cooldown window. A nil clock means
// wall time.
func NewGate(window time.Duration, clock Clock) *Gate {
	if clock == nil {
		clock = time.Now
	}
	return &Gate{
		now:       clock,
		window:    window,
		cooldowns: make(map[CollisionKey]time.Time),
		immunity:  make(map[CollisionKey]time.Time),
	}
}

// SetWindow changes the cooldown window for subsequent admissions.
func (g *Gate) SetWindow(window time.Duration) {
	if g == nil || window < 0 {
		return
	}
	g.window = window
}

// Admit reports whether a contact between the pair should be processed.
// Rejections leave the cooldown untouched.
func (g *Gate) Admit(key CollisionKey) bool {
	if g == nil {
		return true
	}
	now := g.now()
	if until, ok := g.immunity[key]; ok {
		if now.Before(until) {
			return false
		}
		delete(g.immunity, key)
	}
	if last, ok := g.cooldowns[key]; ok && now.Sub(last) < g.window {
		return false
	}
	g.cooldowns[key] = now
	return true
}

// SetTemporaryImmunity rejects every contact between a and b for d.
// A longer existing immunity is kept.
func (g *Gate) SetTemporaryImmunity(a, b ecs.Entity, d time.Duration) {
	if g == nil || d <= 0 {
		return
	}
	key := PairKey(a, b)
	until := g.now().Add(d)
	if cur, ok := g.immunity[key]; ok && cur.After(until) {
		return
	}
	g.immunity[key] = until
}

// Immune reports whether the pair is currently immune.
func (g *Gate) Immune(a, b ecs.Entity) bool {
	if g == nil {
		return false
	}
	until, ok := g.immunity[PairKey(a, b)]
	return ok && g.now().Before(until)
}

// Forget drops every entry that mentions e.
func (g *Gate) Forget(e ecs.Entity) {
	if g == nil {
		return
	}
	for k := range g.cooldowns {
		if k.Has(e) {
			delete(g.cooldowns, k)
		}
	}
	for k := range g.immunity {
		if k.Has(e) {
			delete(g.immunity, k)
		}
	}
}

// Sweep removes expired cooldown and immunity entries. It only bounds memory;
// Admit is correct without it.
func (g *Gate) Sweep() {
	if g == nil {
		return
	}
	now := g.now()
	for k, last := range g.cooldowns {
		if now.Sub(last) >= g.window {
			delete(g.cooldowns, k)
		}
	}
	for k, until := range g.immunity {
		if !now.Before(until) {
			delete(g.immunity, k)
		}
	}
}

// Len returns the number of tracked cooldown and immunity entries.
func (g *Gate) Len() (cooldowns, immunities int) {
	if g == nil {
		return 0, 0
	}
	return len(g.cooldowns), len(g.immunity)
}
