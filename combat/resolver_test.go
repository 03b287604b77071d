package combat

import "testing"

func TestResolverTable(t *testing.T) {
	r := NewResolver(DefaultConfig())
	cases := []struct {
		name     string
		a, b     Kind
		toA, toB float64
	}{
		{"cue_vs_cue", KindCue, KindCue, 4, 4},
		{"cue_vs_target", KindCue, KindOne, 20, 40},
		{"target_vs_cue", KindFive, KindCue, 40, 20},
		{"cue_vs_immovable", KindCue, KindEight, 20, 40},
		{"target_vs_target", KindThree, KindTwelve, 4, 4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toA, toB := r.Resolve(c.a, c.b)
			if toA != c.toA || toB != c.toB {
				t.Fatalf("expected (%v,%v), got (%v,%v)", c.toA, c.toB, toA, toB)
			}
		})
	}
}

func TestResolverScalesWithMultiplier(t *testing.T) {
	cfg := DefaultConfig()
	for _, mult := range []float64{0, 1, 2.5, 10} {
		cfg.DamageMultiplier = mult
		r := NewResolver(cfg)
		toA, toB := r.Resolve(KindCue, KindCue)
		if toA != mult || toB != mult {
			t.Fatalf("cue vs cue at %v: got (%v,%v)", mult, toA, toB)
		}
		toA, toB = r.Resolve(KindCue, KindSeven)
		if toA != 5*mult || toB != 10*mult {
			t.Fatalf("cue vs target at %v: got (%v,%v)", mult, toA, toB)
		}
	}
}

func TestResolveContactStopsImmovable(t *testing.T) {
	r := NewResolver(DefaultConfig())
	out := r.ResolveContact(KindEight, KindCue)
	if !out.StopA || out.StopB {
		t.Fatalf("expected only the immovable side stopped, got %+v", out)
	}
	out = r.ResolveContact(KindOne, KindTwo)
	if out.StopA || out.StopB {
		t.Fatalf("expected no stops, got %+v", out)
	}
}

func TestKindParse(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"cue", KindCue, true},
		{"0", KindCue, true},
		{"thirteen", KindThirteen, true},
		{"9", KindNine, true},
		{"15", 0, false},
		{"fifteen", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseKind(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("ParseKind(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	bad := DefaultConfig()
	bad.MinImpulse = -1
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected negative min impulse rejected")
	}
	bad = DefaultConfig()
	bad.Kinds = map[Kind]Traits{KindTwo: {Armor: 1.5}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected armor above 1 rejected")
	}
}
