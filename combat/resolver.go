package combat

// Resolver computes two-sided contact damage from the kind-pair table.
type Resolver struct {
	rules      Rules
	multiplier float64
	kinds      map[Kind]Traits
}

// NewResolver builds a resolver from the table section of cfg.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{rules: cfg.Rules, multiplier: cfg.DamageMultiplier, kinds: cfg.Kinds}
}

// Resolve returns the damage dealt to a and to b, scaled by the global
// multiplier. Per-kind fragility and armor are not applied here.
func (r *Resolver) Resolve(a, b Kind) (toA, toB float64) {
	if r == nil {
		return 0, 0
	}
	switch {
	case a.Primary() && b.Primary():
		toA, toB = r.rules.CueVsCue, r.rules.CueVsCue
	case a.Primary():
		toA, toB = r.rules.CueRecoil, r.rules.CueHit
	case b.Primary():
		toA, toB = r.rules.CueHit, r.rules.CueRecoil
	default:
		toA, toB = r.rules.Bump, r.rules.Bump
	}
	return toA * r.multiplier, toB * r.multiplier
}

// Outcome is the resolved effect of one admitted contact.
type Outcome struct {
	ToA, ToB     float64
	StopA, StopB bool
}

// ResolveContact adds the immovable side effects to Resolve.
func (r *Resolver) ResolveContact(a, b Kind) Outcome {
	toA, toB := r.Resolve(a, b)
	out := Outcome{ToA: toA, ToB: toB}
	if r != nil {
		out.StopA = r.kinds[a].Immovable
		out.StopB = r.kinds[b].Immovable
	}
	return out
}
