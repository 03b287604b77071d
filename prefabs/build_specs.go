package prefabs

import (
	"fmt"

	"github.com/milk9111/breakshot/combat"
)

// CushionSpec tunes the static rails around the felt.
type CushionSpec struct {
	Elasticity float64 `yaml:"elasticity"`
	Friction   float64 `yaml:"friction"`
	Thickness  float64 `yaml:"thickness"`
}

// PhysicsSpec tunes every ball body.
type PhysicsSpec struct {
	Radius     float64 `yaml:"radius"`
	Mass       float64 `yaml:"mass"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
	Damping    float64 `yaml:"damping"`
}

// BallSpec places one ball of the opening rack. Scripts name accessory
// scripts under prefabs/scripts.
type BallSpec struct {
	Kind    string    `yaml:"kind"`
	At      PointSpec `yaml:"at"`
	Scripts []string  `yaml:"scripts"`
	Color   YAMLColor `yaml:"color"`
}

// ParsedKind resolves Kind, accepting names and ball numbers.
func (b BallSpec) ParsedKind() (combat.Kind, error) {
	k, ok := combat.ParseKind(b.Kind)
	if !ok {
		return 0, fmt.Errorf("prefabs: unknown ball kind %q", b.Kind)
	}
	return k, nil
}
