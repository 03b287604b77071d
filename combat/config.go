package combat

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("combat: invalid config")

// Rules are the base damage values of the kind-pair table, before the
// global multiplier.
type Rules struct {
	// CueHit is dealt by a cue to any non-cue ball.
	CueHit float64
	// CueRecoil is dealt back to the cue by that same contact.
	CueRecoil float64
	// CueVsCue is dealt to each side when two cues meet.
	CueVsCue float64
	// Bump is dealt to each side when two target balls meet.
	Bump float64
}

// Config is the whole tuning surface of the combat core.
type Config struct {
	StartingHP       float64
	DamageMultiplier float64
	Rules            Rules
	MinImpulse       float64

	CooldownWindow   time.Duration
	ImmunityDuration time.Duration

	PulseRadius       float64
	FalloffWidth      float64
	InstantKillDamage float64
	ExplosionRadius   float64

	Kinds map[Kind]Traits
}

// DefaultConfig returns the stock table tuning.
func DefaultConfig() Config {
	return Config{
		StartingHP:       100,
		DamageMultiplier: 4,
		Rules: Rules{
			CueHit:    10,
			CueRecoil: 5,
			CueVsCue:  1,
			Bump:      1,
		},
		MinImpulse:        5,
		CooldownWindow:    100 * time.Millisecond,
		ImmunityDuration:  500 * time.Millisecond,
		PulseRadius:       60,
		FalloffWidth:      5,
		InstantKillDamage: 100,
		ExplosionRadius:   120,
		Kinds: map[Kind]Traits{
			KindTwo:      {Armor: 0.5},
			KindFour:     {FragileMultiplier: 2},
			KindEight:    {Immovable: true},
			KindNine:     {Pulse: true, MaxTriggers: 3},
			KindThirteen: {Explosive: true, Effect: EffectExplode},
		},
	}
}

// TraitsOf returns the traits of k, or the zero Traits.
func (c Config) TraitsOf(k Kind) Traits {
	return c.Kinds[k]
}

// Validate checks the non-negativity of every numeric field.
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"starting_hp", c.StartingHP},
		{"damage_multiplier", c.DamageMultiplier},
		{"rules.cue_hit", c.Rules.CueHit},
		{"rules.cue_recoil", c.Rules.CueRecoil},
		{"rules.cue_vs_cue", c.Rules.CueVsCue},
		{"rules.bump", c.Rules.Bump},
		{"min_impulse", c.MinImpulse},
		{"cooldown_window", float64(c.CooldownWindow)},
		{"immunity_duration", float64(c.ImmunityDuration)},
		{"pulse_radius", c.PulseRadius},
		{"falloff_width", c.FalloffWidth},
		{"instant_kill_damage", c.InstantKillDamage},
		{"explosion_radius", c.ExplosionRadius},
	}
	for _, f := range fields {
		if f.v < 0 {
			return fmt.Errorf("%w: %s is negative (%v)", ErrInvalidConfig, f.name, f.v)
		}
	}
	for k, t := range c.Kinds {
		if !k.Valid() {
			return fmt.Errorf("%w: unknown kind %d", ErrInvalidConfig, k)
		}
		if t.FragileMultiplier < 0 || t.MaxTriggers < 0 {
			return fmt.Errorf("%w: %s traits are negative", ErrInvalidConfig, k)
		}
		if t.Armor < 0 || t.Armor > 1 {
			return fmt.Errorf("%w: %s armor %v outside [0,1]", ErrInvalidConfig, k, t.Armor)
		}
	}
	return nil
}
