package component

import "github.com/milk9111/breakshot/common"

// TTL is a frame-based time-to-live. The TTLSystem destroys the entity once
// Frames reaches zero.
type TTL struct {
	Frames int
	// Total is the starting value, kept so renderers can fade by progress.
	Total int
}

// Progress returns how far through its life the entity is, in [0, 1].
func (t *TTL) Progress() float64 {
	if t == nil || t.Total <= 0 {
		return 1
	}
	return common.Clamp(1-float64(t.Frames)/float64(t.Total), 0, 1)
}

var TTLComponent = NewComponent[TTL]()
