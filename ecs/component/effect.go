package component

import "image/color"

// Effect is the visual left behind by a destroyed ball.
type Effect struct {
	X, Y   float64
	Radius float64
	// Explode selects the blast ring instead of the crumble fragments.
	Explode bool
	Color   color.Color
}

var EffectComponent = NewComponent[Effect]()
