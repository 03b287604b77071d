package combat

import (
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
)

// Behavior is an attachable capability with a common lifecycle. Hooks run
// synchronously and may call back into the Manager.
type Behavior interface {
	Name() string
	Attach(m *Manager, e ecs.Entity)
	Detach(m *Manager, e ecs.Entity)
	OnDamage(m *Manager, e ecs.Entity, amount float64, source ecs.Entity)
	OnDestroy(m *Manager, e ecs.Entity)
}

// Hooks adapts plain funcs to Behavior. Nil funcs are skipped.
type Hooks struct {
	ID          string
	AttachFunc  func(m *Manager, e ecs.Entity)
	DetachFunc  func(m *Manager, e ecs.Entity)
	DamageFunc  func(m *Manager, e ecs.Entity, amount float64, source ecs.Entity)
	DestroyFunc func(m *Manager, e ecs.Entity)
}

func (h *Hooks) Name() string { return h.ID }

func (h *Hooks) Attach(m *Manager, e ecs.Entity) {
	if h.AttachFunc != nil {
		h.AttachFunc(m, e)
	}
}

func (h *Hooks) Detach(m *Manager, e ecs.Entity) {
	if h.DetachFunc != nil {
		h.DetachFunc(m, e)
	}
}

func (h *Hooks) OnDamage(m *Manager, e ecs.Entity, amount float64, source ecs.Entity) {
	if h.DamageFunc != nil {
		h.DamageFunc(m, e, amount, source)
	}
}

func (h *Hooks) OnDestroy(m *Manager, e ecs.Entity) {
	if h.DestroyFunc != nil {
		h.DestroyFunc(m, e)
	}
}

// BehaviorSet is the ordered, name-unique set of behaviors on one ball.
type BehaviorSet struct {
	items []Behavior
}

// Add appends b unless a behavior with the same name is present.
func (s *BehaviorSet) Add(b Behavior) bool {
	if s == nil || b == nil || s.Get(b.Name()) != nil {
		return false
	}
	s.items = append(s.items, b)
	return true
}

// Remove drops the named behavior and returns it.
func (s *BehaviorSet) Remove(name string) Behavior {
	if s == nil {
		return nil
	}
	for i, b := range s.items {
		if b.Name() == name {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return b
		}
	}
	return nil
}

// Get returns the named behavior or nil.
func (s *BehaviorSet) Get(name string) Behavior {
	if s == nil {
		return nil
	}
	for _, b := range s.items {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

// Snapshot returns a copy safe to iterate while hooks mutate the set.
func (s *BehaviorSet) Snapshot() []Behavior {
	if s == nil {
		return nil
	}
	return append([]Behavior(nil), s.items...)
}

func (s *BehaviorSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

var behaviorsComponent = component.NewComponent[BehaviorSet]()
