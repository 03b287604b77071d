package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data for a ball.
type PhysicsBody struct {
	Body       *cp.Body
	Shape      *cp.Shape
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	// Frozen bodies are kinematic: they keep their shape for contacts but no
	// longer respond to collision forces.
	Frozen bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
