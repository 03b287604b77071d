package combat

import (
	"errors"

	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
)

var (
	ErrNotAlive          = errors.New("combat: entity not alive in world")
	ErrInvalidKind       = errors.New("combat: invalid kind")
	ErrAlreadyRegistered = errors.New("combat: entity already registered")
)

// Registry maps live balls to their health records. Records are components
// in the world, so a handle whose generation was bumped reaches nothing.
type Registry struct {
	world *ecs.World
}

func NewRegistry(w *ecs.World) *Registry {
	return &Registry{world: w}
}

func (r *Registry) add(e ecs.Entity, kind Kind, hp float64) error {
	if !r.world.IsAlive(e) {
		return ErrNotAlive
	}
	if !kind.Valid() {
		return ErrInvalidKind
	}
	if ecs.Has(r.world, e, component.HealthComponent.Kind()) {
		return ErrAlreadyRegistered
	}
	if err := ecs.Add(r.world, e, component.BallComponent.Kind(), &component.Ball{Kind: uint8(kind)}); err != nil {
		return err
	}
	if err := ecs.Add(r.world, e, component.HealthComponent.Kind(), component.NewHealth(hp)); err != nil {
		return err
	}
	return ecs.Add(r.world, e, behaviorsComponent.Kind(), &BehaviorSet{})
}

// remove drops the record and frees the arena slot.
func (r *Registry) remove(e ecs.Entity) bool {
	return r.world.DestroyEntity(e)
}

// Registered reports whether e has a health record, dead or alive.
func (r *Registry) Registered(e ecs.Entity) bool {
	return ecs.Has(r.world, e, component.HealthComponent.Kind())
}

// Record returns the health record of e.
func (r *Registry) Record(e ecs.Entity) (*component.Health, bool) {
	return ecs.Get(r.world, e, component.HealthComponent.Kind())
}

// Kind returns the kind tag of e.
func (r *Registry) Kind(e ecs.Entity) (Kind, bool) {
	b, ok := ecs.Get(r.world, e, component.BallComponent.Kind())
	if !ok {
		return 0, false
	}
	return Kind(b.Kind), true
}

// live returns the record and kind of e when it is registered and Alive.
func (r *Registry) live(e ecs.Entity) (*component.Health, Kind, bool) {
	h, ok := r.Record(e)
	if !ok || !h.IsAlive() {
		return nil, 0, false
	}
	k, ok := r.Kind(e)
	if !ok {
		return nil, 0, false
	}
	return h, k, true
}

func (r *Registry) behaviors(e ecs.Entity) *BehaviorSet {
	set, _ := ecs.Get(r.world, e, behaviorsComponent.Kind())
	return set
}

// Live returns a snapshot of every registered ball in the Alive state.
func (r *Registry) Live() []ecs.Entity {
	ents := r.world.Query(component.HealthComponent.Kind(), component.BallComponent.Kind())
	out := ents[:0]
	for _, e := range ents {
		if h, ok := r.Record(e); ok && h.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of live balls whose kind matches.
func (r *Registry) Count(match func(Kind) bool) int {
	n := 0
	for _, e := range r.Live() {
		if k, ok := r.Kind(e); ok && match(k) {
			n++
		}
	}
	return n
}
