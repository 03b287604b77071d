package ecs

import "github.com/milk9111/breakshot/ecs/component"

// Add attaches or replaces a component value on e.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

// Remove detaches a component, reporting whether it was present.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	s := w.store(kind.ID(), false)
	return s.Remove(e)
}

// Has reports whether e carries the component.
func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e)
}

// Get returns the component pointer stored on e.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.IsAlive(e) {
		return nil, false
	}
	v := w.store(kind.ID(), false).Get(e)
	if v == nil {
		return nil, false
	}
	cast, ok := v.(*T)
	return cast, ok
}

// ForEach visits every entity carrying kind. The entity list is snapshotted
// first, so fn may add or remove components and destroy entities; entities
// removed during the walk are skipped.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(kind) {
		if v, ok := Get(w, e, kind); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits every entity carrying both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(ka, kb) {
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}
