package accessory

import (
	"log"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/ecs"
)

// newEngine builds the map of host functions a script sees as `engine`.
// Entities cross the boundary as ints.
func newEngine(m *combat.Manager, self ecs.Entity, name string) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["damage"] = &tengo.UserFunction{Name: "damage", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		target, ok := entityArg(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		amount, ok := tengo.ToFloat64(args[1])
		if !ok || amount <= 0 {
			return tengo.FalseValue, nil
		}
		m.ApplyDamage(target, amount, self)
		return tengo.TrueValue, nil
	}}

	values["kill"] = &tengo.UserFunction{Name: "kill", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		target, ok := entityArg(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		m.Kill(target, self)
		return tengo.TrueValue, nil
	}}

	values["hp"] = &tengo.UserFunction{Name: "hp", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return hpValue(args, m.CurrentHP)
	}}

	values["max_hp"] = &tengo.UserFunction{Name: "max_hp", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return hpValue(args, m.MaxHP)
	}}

	values["alive"] = &tengo.UserFunction{Name: "alive", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		target, ok := entityArg(args[0])
		if ok && m.IsAlive(target) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["kind"] = &tengo.UserFunction{Name: "kind", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		target, ok := entityArg(args[0])
		if !ok {
			return tengo.UndefinedValue, nil
		}
		kind, ok := m.KindOf(target)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.String{Value: kind.String()}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		target, ok := entityArg(args[0])
		if !ok {
			return tengo.UndefinedValue, nil
		}
		x, y, ok := m.Position(target)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}, nil
	}}

	values["live"] = &tengo.UserFunction{Name: "live", Value: func(args ...tengo.Object) (tengo.Object, error) {
		ents := m.Live()
		out := make([]tengo.Object, 0, len(ents))
		for _, e := range ents {
			out = append(out, &tengo.Int{Value: int64(e)})
		}
		return &tengo.Array{Value: out}, nil
	}}

	values["immunize"] = &tengo.UserFunction{Name: "immunize", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		a, okA := entityArg(args[0])
		b, okB := entityArg(args[1])
		if !okA || !okB {
			return tengo.FalseValue, nil
		}
		var d time.Duration
		if len(args) > 2 {
			if ms, ok := tengo.ToFloat64(args[2]); ok {
				d = time.Duration(ms * float64(time.Millisecond))
			}
		}
		m.SetTemporaryImmunity(a, b, d)
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]any, 0, len(args))
		for _, a := range args {
			if s, ok := tengo.ToString(a); ok {
				parts = append(parts, s)
			}
		}
		log.Println(append([]any{"accessory: " + name + ":"}, parts...)...)
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func entityArg(o tengo.Object) (ecs.Entity, bool) {
	v, ok := tengo.ToInt64(o)
	if !ok || v <= 0 {
		return 0, false
	}
	return ecs.Entity(v), true
}

func hpValue(args []tengo.Object, read func(ecs.Entity) (float64, bool)) (tengo.Object, error) {
	if len(args) < 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	target, ok := entityArg(args[0])
	if !ok {
		return tengo.UndefinedValue, nil
	}
	v, ok := read(target)
	if !ok {
		return tengo.UndefinedValue, nil
	}
	return &tengo.Float{Value: v}, nil
}
