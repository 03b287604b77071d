package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
)

const (
	collisionTypeBall cp.CollisionType = iota + 1
	collisionTypeCushion
)

// ContactFunc receives one ball-ball contact with its impulse magnitude.
type ContactFunc func(a, b ecs.Entity, impulse float64)

// PhysicsSystem runs the chipmunk space of the table. It implements
// combat.Physics; mutations requested from inside a contact callback are
// deferred to the end of the step.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool
	dt            float64

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	cushions []*cp.Shape

	onContact ContactFunc
	stepping  bool
}

type bodyInfo struct {
	body  *cp.Body
	shape *cp.Shape
}

type deferKey struct {
	op string
	e  ecs.Entity
}

// NewPhysicsSystem creates a top-down space. damping is the fraction of
// velocity a ball keeps per second.
func NewPhysicsSystem(damping float64, onContact ContactFunc) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	if damping > 0 && damping <= 1 {
		space.SetDamping(damping)
	}
	return &PhysicsSystem{
		space:     space,
		dt:        1.0 / 60.0,
		entities:  make(map[ecs.Entity]*bodyInfo),
		shapes:    make(map[*cp.Shape]ecs.Entity),
		onContact: onContact,
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// SetContactFunc replaces the contact callback.
func (ps *PhysicsSystem) SetContactFunc(fn ContactFunc) {
	ps.onContact = fn
}

// AddCushions builds the four static rails around the rectangle.
func (ps *PhysicsSystem) AddCushions(minX, minY, maxX, maxY, thickness, elasticity, friction float64) {
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: minX, Y: minY}, b: cp.Vector{X: maxX, Y: minY}}, // top
		{a: cp.Vector{X: minX, Y: maxY}, b: cp.Vector{X: maxX, Y: maxY}}, // bottom
		{a: cp.Vector{X: minX, Y: minY}, b: cp.Vector{X: minX, Y: maxY}}, // left
		{a: cp.Vector{X: maxX, Y: minY}, b: cp.Vector{X: maxX, Y: maxY}}, // right
	}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, thickness/2)
		shape.SetElasticity(elasticity)
		shape.SetFriction(friction)
		shape.SetCollisionType(collisionTypeCushion)
		ps.space.AddShape(shape)
		ps.cushions = append(ps.cushions, shape)
	}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.ensureHandlers()
	ps.syncEntities(w)

	ps.stepping = true
	ps.space.Step(ps.dt)
	ps.stepping = false

	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	handler := ps.space.NewCollisionHandler(collisionTypeBall, collisionTypeBall)
	handler.UserData = ps
	handler.PostSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil || sys.onContact == nil {
			return
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := sys.shapes[shapeA]
		b, okB := sys.shapes[shapeB]
		if !okA || !okB {
			return
		}
		sys.onContact(a, b, arb.TotalImpulse().Length())
	}

	ps.handlersReady = true
}

// syncEntities creates bodies for balls that gained a PhysicsBody and drops
// bodies whose entity is gone.
func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	for e := range ps.entities {
		if !ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			ps.remove(e)
		}
	}

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		if _, ok := ps.entities[e]; ok {
			continue
		}
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if bodyComp == nil || transform == nil {
			continue
		}
		ps.entities[e] = ps.createBody(e, transform, bodyComp)
	}
}

func (ps *PhysicsSystem) createBody(e ecs.Entity, transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	radius := bodyComp.Radius
	if radius <= 0 {
		radius = 10
	}
	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)
	body.UserData = e

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypeBall)
	shape.UserData = e

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	ps.shapes[shape] = e

	bodyComp.Body = body
	bodyComp.Shape = shape
	if bodyComp.Frozen {
		body.SetType(cp.BODY_KINEMATIC)
	}
	return &bodyInfo{body: body, shape: shape}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		pos := info.body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = info.body.Angle()
	}
}

// Position returns the body centre of e.
func (ps *PhysicsSystem) Position(e ecs.Entity) (float64, float64, bool) {
	info, ok := ps.entities[e]
	if !ok {
		return 0, 0, false
	}
	pos := info.body.Position()
	return pos.X, pos.Y, true
}

// Velocity returns the linear velocity of e.
func (ps *PhysicsSystem) Velocity(e ecs.Entity) (float64, float64, bool) {
	info, ok := ps.entities[e]
	if !ok {
		return 0, 0, false
	}
	v := info.body.Velocity()
	return v.X, v.Y, true
}

// Shoot sets the velocity of a dynamic ball. Frozen balls ignore it.
func (ps *PhysicsSystem) Shoot(e ecs.Entity, vx, vy float64) bool {
	info, ok := ps.entities[e]
	if !ok || info.body.GetType() != cp.BODY_DYNAMIC {
		return false
	}
	info.body.SetVelocity(vx, vy)
	return true
}

// Resting reports whether every dynamic ball has slowed below speed.
func (ps *PhysicsSystem) Resting(speed float64) bool {
	for _, info := range ps.entities {
		if info.body.GetType() == cp.BODY_DYNAMIC && info.body.Velocity().Length() > speed {
			return false
		}
	}
	return true
}

// Stop zeroes linear and angular velocity.
func (ps *PhysicsSystem) Stop(e ecs.Entity) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	info.body.SetVelocityVector(cp.Vector{})
	info.body.SetAngularVelocity(0)
}

// Freeze stops e and makes it kinematic so contacts no longer move it.
func (ps *PhysicsSystem) Freeze(e ecs.Entity) {
	ps.Stop(e)
	ps.later("freeze", e, func() {
		info, ok := ps.entities[e]
		if !ok || info.body.GetType() == cp.BODY_KINEMATIC {
			return
		}
		info.body.SetType(cp.BODY_KINEMATIC)
		info.body.SetVelocityVector(cp.Vector{})
		info.body.SetAngularVelocity(0)
	})
}

// Release removes e's body from the space.
func (ps *PhysicsSystem) Release(e ecs.Entity) {
	ps.later("release", e, func() { ps.remove(e) })
}

// later runs fn now, or after the current step when called from a contact
// callback.
func (ps *PhysicsSystem) later(op string, e ecs.Entity, fn func()) {
	if !ps.stepping {
		fn()
		return
	}
	ps.space.AddPostStepCallback(func(space *cp.Space, key, data interface{}) {
		fn()
	}, deferKey{op: op, e: e}, nil)
}

func (ps *PhysicsSystem) remove(e ecs.Entity) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	delete(ps.shapes, info.shape)
	delete(ps.entities, e)
	ps.space.RemoveShape(info.shape)
	ps.space.RemoveBody(info.body)
}

// Len returns the number of simulated balls.
func (ps *PhysicsSystem) Len() int {
	return len(ps.entities)
}
