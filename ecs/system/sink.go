package system

import (
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
)

// HoleDetector reports whether a table point has no felt under it.
type HoleDetector interface {
	IsHole(x, y float64) bool
}

// SinkSystem drops balls whose centre sits over a pocket or a blasted hole.
// It runs after the PhysicsSystem so transforms are current.
type SinkSystem struct {
	manager *combat.Manager
	holes   HoleDetector
}

func NewSinkSystem(m *combat.Manager, holes HoleDetector) *SinkSystem {
	return &SinkSystem{manager: m, holes: holes}
}

func (s *SinkSystem) SetHoles(holes HoleDetector) { s.holes = holes }

func (s *SinkSystem) Update(w *ecs.World) {
	if s == nil || s.manager == nil || s.holes == nil || w == nil {
		return
	}

	var sunk []ecs.Entity
	for _, e := range w.Query(component.BallComponent.Kind(), component.TransformComponent.Kind()) {
		if !s.manager.IsAlive(e) {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || t == nil {
			continue
		}
		if s.holes.IsHole(t.X, t.Y) {
			sunk = append(sunk, e)
		}
	}

	for _, e := range sunk {
		s.manager.Sink(e)
	}
}
