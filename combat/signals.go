package combat

import "github.com/milk9111/breakshot/ecs"

// Event types pushed by QueueListener.
const (
	EventEntityDestroyed  = "entity_destroyed"
	EventObjectiveCleared = "objective_cleared"
	EventRespawnNeeded    = "respawn_needed"
)

// DestroyedEvent describes a ball leaving play.
type DestroyedEvent struct {
	Entity  ecs.Entity
	Kind    Kind
	Primary bool
	// Sunk is set when the ball dropped into a pocket or hole instead of
	// being destroyed by damage.
	Sunk   bool
	Effect DestroyEffect
	Source ecs.Entity
	X, Y   float64
	Visual any
}

// Listener receives the outbound signals of the combat core. Calls are
// synchronous and happen inside the operation that caused them.
type Listener interface {
	EntityDestroyed(ev DestroyedEvent)
	ObjectiveCleared()
	RespawnNeeded()
}

type nopListener struct{}

func (nopListener) EntityDestroyed(DestroyedEvent) {}
func (nopListener) ObjectiveCleared()              {}
func (nopListener) RespawnNeeded()                 {}

// QueueListener forwards signals onto an ECS event queue for frame-driven
// consumers.
type QueueListener struct {
	Queue *ecs.EventQueue
}

func (l QueueListener) EntityDestroyed(ev DestroyedEvent) {
	l.Queue.Push(ecs.Event{Type: EventEntityDestroyed, Data: ev})
}

func (l QueueListener) ObjectiveCleared() {
	l.Queue.Push(ecs.Event{Type: EventObjectiveCleared})
}

func (l QueueListener) RespawnNeeded() {
	l.Queue.Push(ecs.Event{Type: EventRespawnNeeded})
}

// MultiListener fans every signal out in order.
type MultiListener []Listener

func (ls MultiListener) EntityDestroyed(ev DestroyedEvent) {
	for _, l := range ls {
		if l != nil {
			l.EntityDestroyed(ev)
		}
	}
}

func (ls MultiListener) ObjectiveCleared() {
	for _, l := range ls {
		if l != nil {
			l.ObjectiveCleared()
		}
	}
}

func (ls MultiListener) RespawnNeeded() {
	for _, l := range ls {
		if l != nil {
			l.RespawnNeeded()
		}
	}
}
