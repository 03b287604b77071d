package combat

import "github.com/milk9111/breakshot/ecs"

// Physics is the slice of the physics collaborator the core drives.
// Implementations must tolerate calls made from inside their own contact
// callbacks.
type Physics interface {
	// Position returns the body centre of e.
	Position(e ecs.Entity) (x, y float64, ok bool)
	// Stop zeroes linear and angular velocity.
	Stop(e ecs.Entity)
	// Freeze stops e and stops it from responding to physics.
	Freeze(e ecs.Entity)
	// Release removes e's body from the simulation.
	Release(e ecs.Entity)
}

// Terrain is the optional destructible surface an explosion carves into.
type Terrain interface {
	SwitchToCellMode(x, y, radius float64)
	DestroyRagged(x, y, radius float64) int
}
