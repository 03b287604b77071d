package combat

import "strconv"

// Kind is the closed set of ball kinds. KindCue is the primary controllable
// kind; every other kind is a target.
type Kind uint8

const (
	KindCue Kind = iota
	KindOne
	KindTwo
	KindThree
	KindFour
	KindFive
	KindSix
	KindSeven
	KindEight
	KindNine
	KindTen
	KindEleven
	KindTwelve
	KindThirteen
	KindFourteen

	kindCount
)

var kindNames = [kindCount]string{
	"cue", "one", "two", "three", "four", "five", "six", "seven",
	"eight", "nine", "ten", "eleven", "twelve", "thirteen", "fourteen",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is inside the closed enumeration.
func (k Kind) Valid() bool {
	return k < kindCount
}

// Primary reports whether k is the player-controlled kind.
func (k Kind) Primary() bool {
	return k == KindCue
}

// Kinds returns every valid kind in order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := KindCue; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind accepts the names returned by Kind.String and plain ball numbers
// ("0" for the cue).
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < int(kindCount) {
		return Kind(n), true
	}
	return 0, false
}

// DestroyEffect is the visual the renderer plays when a ball is destroyed.
type DestroyEffect uint8

const (
	EffectCrumble DestroyEffect = iota
	EffectExplode
)

func (e DestroyEffect) String() string {
	if e == EffectExplode {
		return "explode"
	}
	return "crumble"
}

// Traits are the per-kind combat capabilities.
type Traits struct {
	// Immovable kinds have their velocity zeroed on every contact.
	Immovable bool
	// FragileMultiplier scales all incoming damage when > 0.
	FragileMultiplier float64
	// Armor is the fraction of incoming damage absorbed, in [0, 1].
	Armor float64
	// Pulse kinds emit a pulse each time they take damage.
	Pulse bool
	// MaxTriggers > 0 limits pulses; reaching it forces destruction.
	MaxTriggers int
	// Explosive kinds explode on destruction, carving the terrain and
	// chaining into other explosive kinds caught in the blast.
	Explosive bool
	Effect    DestroyEffect
}

// LimitedPulse reports whether the kind's pulse has a trigger budget.
func (t Traits) LimitedPulse() bool {
	return t.Pulse && t.MaxTriggers > 0
}
