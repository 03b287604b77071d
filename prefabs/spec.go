package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/terrain"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type RulesSpec struct {
	CueHit    float64 `yaml:"cue_hit"`
	CueRecoil float64 `yaml:"cue_recoil"`
	CueVsCue  float64 `yaml:"cue_vs_cue"`
	Bump      float64 `yaml:"bump"`
}

type TraitsSpec struct {
	Immovable         bool    `yaml:"immovable"`
	FragileMultiplier float64 `yaml:"fragile_multiplier"`
	Armor             float64 `yaml:"armor"`
	Pulse             bool    `yaml:"pulse"`
	MaxTriggers       int     `yaml:"max_triggers"`
	Explosive         bool    `yaml:"explosive"`
	Effect            string  `yaml:"effect"`
}

// CombatSpec is the yaml form of combat.Config. Durations are in
// milliseconds.
type CombatSpec struct {
	StartingHP        float64               `yaml:"starting_hp"`
	DamageMultiplier  float64               `yaml:"damage_multiplier"`
	Rules             RulesSpec             `yaml:"rules"`
	MinImpulse        float64               `yaml:"min_impulse"`
	CooldownMS        float64               `yaml:"cooldown_ms"`
	ImmunityMS        float64               `yaml:"immunity_ms"`
	PulseRadius       float64               `yaml:"pulse_radius"`
	FalloffWidth      float64               `yaml:"falloff_width"`
	InstantKillDamage float64               `yaml:"instant_kill_damage"`
	ExplosionRadius   float64               `yaml:"explosion_radius"`
	Kinds             map[string]TraitsSpec `yaml:"kinds"`
}

func LoadCombatSpec() (*CombatSpec, error) {
	spec, err := LoadSpec[CombatSpec]("combat.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts the spec and validates the result.
func (s *CombatSpec) Config() (combat.Config, error) {
	cfg := combat.Config{
		StartingHP:       s.StartingHP,
		DamageMultiplier: s.DamageMultiplier,
		Rules: combat.Rules{
			CueHit:    s.Rules.CueHit,
			CueRecoil: s.Rules.CueRecoil,
			CueVsCue:  s.Rules.CueVsCue,
			Bump:      s.Rules.Bump,
		},
		MinImpulse:        s.MinImpulse,
		CooldownWindow:    millis(s.CooldownMS),
		ImmunityDuration:  millis(s.ImmunityMS),
		PulseRadius:       s.PulseRadius,
		FalloffWidth:      s.FalloffWidth,
		InstantKillDamage: s.InstantKillDamage,
		ExplosionRadius:   s.ExplosionRadius,
		Kinds:             make(map[combat.Kind]combat.Traits, len(s.Kinds)),
	}
	for name, t := range s.Kinds {
		kind, ok := combat.ParseKind(name)
		if !ok {
			return combat.Config{}, fmt.Errorf("%w: unknown kind %q", combat.ErrInvalidConfig, name)
		}
		effect, err := parseEffect(t.Effect, t.Explosive)
		if err != nil {
			return combat.Config{}, err
		}
		cfg.Kinds[kind] = combat.Traits{
			Immovable:         t.Immovable,
			FragileMultiplier: t.FragileMultiplier,
			Armor:             t.Armor,
			Pulse:             t.Pulse,
			MaxTriggers:       t.MaxTriggers,
			Explosive:         t.Explosive,
			Effect:            effect,
		}
	}
	if err := cfg.Validate(); err != nil {
		return combat.Config{}, err
	}
	return cfg, nil
}

func parseEffect(s string, explosive bool) (combat.DestroyEffect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		if explosive {
			return combat.EffectExplode, nil
		}
		return combat.EffectCrumble, nil
	case "crumble":
		return combat.EffectCrumble, nil
	case "explode":
		return combat.EffectExplode, nil
	}
	return 0, fmt.Errorf("%w: unknown effect %q", combat.ErrInvalidConfig, s)
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type PocketSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// TableSpec describes the felt, its pockets and the opening rack.
type TableSpec struct {
	Name        string       `yaml:"name"`
	Origin      PointSpec    `yaml:"origin"`
	Width       float64      `yaml:"width"`
	Height      float64      `yaml:"height"`
	CellSize    float64      `yaml:"cell_size"`
	RaggedInset int          `yaml:"ragged_inset"`
	Jitter      float64      `yaml:"jitter"`
	Felt        YAMLColor    `yaml:"felt"`
	Pockets     []PocketSpec `yaml:"pockets"`
	Cushion     CushionSpec  `yaml:"cushion"`
	Ball        PhysicsSpec  `yaml:"ball"`
	Rack        []BallSpec   `yaml:"rack"`
}

func LoadTableSpec() (*TableSpec, error) {
	spec, err := LoadSpec[TableSpec]("table.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Width <= 0 || spec.Height <= 0 || spec.CellSize <= 0 {
		return nil, fmt.Errorf("prefabs: invalid table dimensions: %vx%v cell %v", spec.Width, spec.Height, spec.CellSize)
	}
	return &spec, nil
}

// Layout converts the table to a terrain layout.
func (s *TableSpec) Layout() terrain.Layout {
	l := terrain.Layout{
		OriginX:     s.Origin.X,
		OriginY:     s.Origin.Y,
		Width:       s.Width,
		Height:      s.Height,
		CellSize:    s.CellSize,
		RaggedInset: s.RaggedInset,
		Jitter:      s.Jitter,
	}
	for _, p := range s.Pockets {
		l.Pockets = append(l.Pockets, terrain.Pocket{X: p.X, Y: p.Y, Radius: p.Radius})
	}
	return l
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
