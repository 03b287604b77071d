package component

// Transform is the last position reported by the physics collaborator.
// The combat core only reads it.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
