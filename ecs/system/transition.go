package system

import "github.com/milk9111/breakshot/ecs"

const transitionFadeFrames = 30

// TransitionPhase is the stage of a re-rack transition.
type TransitionPhase uint8

const (
	TransitionIdle TransitionPhase = iota
	TransitionHold
	TransitionFadeOut
	TransitionFadeIn
)

// TransitionSystem runs the re-rack between two tables: it holds the cleared
// table, fades to black, calls Rerack and fades back in. Respawns and shots
// are held off for the whole transition.
type TransitionSystem struct {
	phase TransitionPhase
	timer int
	alpha float64

	// Rerack runs once, while the screen is fully dark.
	Rerack func()
}

func NewTransitionSystem(rerack func()) *TransitionSystem {
	return &TransitionSystem{Rerack: rerack}
}

// Start begins a transition that holds the current table for hold frames.
// It reports false when one is already running.
func (ts *TransitionSystem) Start(hold int) bool {
	if ts.phase != TransitionIdle {
		return false
	}
	if hold > 0 {
		ts.phase = TransitionHold
		ts.timer = hold
		return true
	}
	ts.phase = TransitionFadeOut
	ts.timer = transitionFadeFrames
	return true
}

func (ts *TransitionSystem) Active() bool           { return ts.phase != TransitionIdle }
func (ts *TransitionSystem) Phase() TransitionPhase { return ts.phase }

// Alpha is the opacity of the black overlay, in [0, 1].
func (ts *TransitionSystem) Alpha() float64 { return ts.alpha }

func (ts *TransitionSystem) Update(w *ecs.World) {
	if ts.timer > 0 {
		ts.timer--
	}
	switch ts.phase {
	case TransitionHold:
		if ts.timer <= 0 {
			ts.phase = TransitionFadeOut
			ts.timer = transitionFadeFrames
		}
	case TransitionFadeOut:
		ts.alpha = 1 - float64(ts.timer)/float64(transitionFadeFrames)
		if ts.timer <= 0 {
			if ts.Rerack != nil {
				ts.Rerack()
			}
			ts.phase = TransitionFadeIn
			ts.timer = transitionFadeFrames
			ts.alpha = 1
		}
	case TransitionFadeIn:
		ts.alpha = float64(ts.timer) / float64(transitionFadeFrames)
		if ts.timer <= 0 {
			ts.phase = TransitionIdle
			ts.alpha = 0
		}
	}
}
