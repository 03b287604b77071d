package system

import (
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/ecs"
)

// CombatSystem advances the combat core once per frame. Contacts reach the
// manager straight from the physics callback; this only expires the gate.
type CombatSystem struct {
	manager *combat.Manager
}

func NewCombatSystem(m *combat.Manager) *CombatSystem { return &CombatSystem{manager: m} }

func (s *CombatSystem) Manager() *combat.Manager { return s.manager }

func (s *CombatSystem) Update(w *ecs.World) {
	if s == nil || s.manager == nil || w == nil {
		return
	}
	s.manager.Tick()
}
