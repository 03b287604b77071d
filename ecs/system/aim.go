package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/common"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
)

// AimSystem turns a mouse drag that starts on the cue ball into a shot.
// The shot goes opposite the drag, like pulling back a cue.
type AimSystem struct {
	manager *combat.Manager
	physics *PhysicsSystem

	// Power converts drag length to launch speed.
	Power     float64
	MaxSpeed  float64
	RestSpeed float64
	Disabled  func() bool

	cursor  func() (int, int)
	pressed func() bool

	dragging bool
	cue      ecs.Entity
	startX   float64
	startY   float64
	pullX    float64
	pullY    float64
}

func NewAimSystem(m *combat.Manager, physics *PhysicsSystem) *AimSystem {
	return &AimSystem{
		manager:   m,
		physics:   physics,
		Power:     6,
		MaxSpeed:  900,
		RestSpeed: 4,
		cursor:    ebiten.CursorPosition,
		pressed:   func() bool { return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) },
	}
}

func (a *AimSystem) Update(w *ecs.World) {
	if a == nil || w == nil || a.manager == nil || a.physics == nil {
		return
	}
	if a.Disabled != nil && a.Disabled() {
		a.dragging = false
		return
	}

	cue, ok := FirstPrimary(w, a.manager)
	if !ok {
		a.dragging = false
		return
	}
	cx, cy, ok := a.physics.Position(cue)
	if !ok {
		a.dragging = false
		return
	}

	mx, my := a.cursor()
	x, y := float64(mx), float64(my)
	down := a.pressed()

	if !a.dragging {
		if !down || !a.physics.Resting(a.RestSpeed) {
			return
		}
		radius := 10.0
		if body, ok := ecs.Get(w, cue, component.PhysicsBodyComponent.Kind()); ok && body.Radius > 0 {
			radius = body.Radius
		}
		if common.Dist(x, y, cx, cy) > radius*2 {
			return
		}
		a.dragging = true
		a.cue = cue
		a.startX, a.startY = cx, cy
		a.pullX, a.pullY = x, y
		return
	}

	if cue != a.cue {
		a.dragging = false
		return
	}
	a.startX, a.startY = cx, cy
	a.pullX, a.pullY = x, y
	if down {
		return
	}

	a.dragging = false
	vx, vy := ShotVelocity(cx, cy, x, y, a.Power, a.MaxSpeed)
	if vx != 0 || vy != 0 {
		a.physics.Shoot(cue, vx, vy)
	}
}

// Line returns the cue line while a drag is in progress.
func (a *AimSystem) Line() (x0, y0, x1, y1 float64, ok bool) {
	if a == nil || !a.dragging {
		return 0, 0, 0, 0, false
	}
	return a.startX, a.startY, a.pullX, a.pullY, true
}

// ShotVelocity maps a pull from the ball centre to a launch velocity along
// the opposite direction, capped at maxSpeed.
func ShotVelocity(cx, cy, px, py, power, maxSpeed float64) (float64, float64) {
	dx, dy := cx-px, cy-py
	length := math.Hypot(dx, dy)
	if length == 0 {
		return 0, 0
	}
	speed := length * power
	if maxSpeed > 0 && speed > maxSpeed {
		speed = maxSpeed
	}
	return dx / length * speed, dy / length * speed
}

// FirstPrimary returns the live cue ball, if any.
func FirstPrimary(w *ecs.World, m *combat.Manager) (ecs.Entity, bool) {
	for _, e := range w.Query(component.BallComponent.Kind()) {
		ball, ok := ecs.Get(w, e, component.BallComponent.Kind())
		if !ok || combat.Kind(ball.Kind) != combat.KindCue {
			continue
		}
		if m.IsAlive(e) {
			return e, true
		}
	}
	return 0, false
}
