package system

import (
	"fmt"
	"log"

	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/common"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
)

// BallSpawn describes one ball to put on the table.
type BallSpawn struct {
	Kind      combat.Kind
	X, Y      float64
	Body      component.PhysicsBody
	Visual    any
	Behaviors []combat.Behavior
}

// SpawnBall creates the ball entity and registers it with the combat core.
// The entity is destroyed again if registration fails.
func SpawnBall(w *ecs.World, m *combat.Manager, spec BallSpawn) (ecs.Entity, error) {
	e := w.CreateEntity()
	body := spec.Body
	body.Body, body.Shape = nil, nil
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y}); err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("spawn %s: %w", spec.Kind, err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &body); err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("spawn %s: %w", spec.Kind, err)
	}
	if err := m.Register(e, spec.Kind, spec.Behaviors...); err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("spawn %s: %w", spec.Kind, err)
	}
	if spec.Visual != nil {
		m.SetVisual(e, spec.Visual)
	}
	return e, nil
}

// RespawnSystem puts a new cue ball on the spot after the combat core asks
// for one. Requests wait while Blocked returns true, so a re-rack never
// races a respawn.
type RespawnSystem struct {
	manager *combat.Manager
	cue     BallSpawn
	pending bool

	Blocked func() bool
	// OnSpawn is told about every cue this system creates.
	OnSpawn func(e ecs.Entity)
}

func NewRespawnSystem(m *combat.Manager, cue BallSpawn) *RespawnSystem {
	return &RespawnSystem{manager: m, cue: cue}
}

// Request marks a respawn as needed. Repeated requests collapse into one.
func (s *RespawnSystem) Request() { s.pending = true }

func (s *RespawnSystem) Pending() bool { return s.pending }

// Reset drops any pending request and switches the spawn used from now on.
func (s *RespawnSystem) Reset(cue BallSpawn) {
	s.cue = cue
	s.pending = false
}

// Update performs a pending respawn. The new cue is immune to every ball
// overlapping the spot so it cannot take damage while separating.
func (s *RespawnSystem) Update(w *ecs.World) {
	if s == nil || w == nil || !s.pending || s.manager == nil {
		return
	}
	if s.Blocked != nil && s.Blocked() {
		return
	}
	s.pending = false
	if s.manager.PrimaryRemaining() > 0 {
		return
	}

	e, err := SpawnBall(w, s.manager, s.cue)
	if err != nil {
		log.Printf("respawn: %v", err)
		return
	}

	reach := 2*s.cue.Body.Radius + 1
	for _, other := range s.manager.Live() {
		if other == e {
			continue
		}
		x, y, ok := s.manager.Position(other)
		if !ok || common.Dist(x, y, s.cue.X, s.cue.Y) > reach {
			continue
		}
		s.manager.SetTemporaryImmunity(e, other, 0)
	}

	if s.OnSpawn != nil {
		s.OnSpawn(e)
	}
}
