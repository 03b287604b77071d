package component

// LifeState is the lifecycle of a health record. Destroyed is terminal.
type LifeState uint8

const (
	Alive LifeState = iota
	Destroyed
)

func (s LifeState) String() string {
	if s == Destroyed {
		return "destroyed"
	}
	return "alive"
}

// Health is the combat record of one registered ball.
type Health struct {
	Current      float64
	Max          float64
	TriggerCount int
	State        LifeState

	// Visual is owned by the renderer; combat only hands it back on
	// lifecycle events.
	Visual any
}

// NewHealth creates a record with Current == Max.
func NewHealth(max float64) *Health {
	if max < 0 {
		max = 0
	}
	return &Health{Max: max, Current: max}
}

// IsAlive reports whether the record is still in the Alive state.
func (h *Health) IsAlive() bool {
	return h != nil && h.State == Alive
}

// SetCurrent sets Current clamped to [0, Max].
func (h *Health) SetCurrent(v float64) {
	if h == nil {
		return
	}
	switch {
	case v < 0:
		v = 0
	case v > h.Max:
		v = h.Max
	}
	h.Current = v
}

// Subtract lowers Current by amount without going below zero and returns the
// new value.
func (h *Health) Subtract(amount float64) float64 {
	if h == nil {
		return 0
	}
	h.SetCurrent(h.Current - amount)
	return h.Current
}

var HealthComponent = NewComponent[Health]()
