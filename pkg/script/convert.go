package script

import (
	"fmt"
	"sort"

	"github.com/zurustar/keyframe/pkg/opcode"
	"github.com/zurustar/keyframe/pkg/symbol"
)

// arity is the number of arguments each command takes.
var arity = map[opcode.Cmd]int{
	opcode.Frames:   1,
	opcode.Basename: 1,
	opcode.Vary:     4,
	opcode.Ambient:  3,
	opcode.Light:    6,
	opcode.Box:      6,
	opcode.Sphere:   4,
	opcode.Torus:    5,
	opcode.Mesh:     0,
	opcode.Line:     6,
	opcode.Move:     3,
	opcode.Scale:    3,
	opcode.Rotate:   2,
	opcode.Push:     0,
	opcode.Pop:      0,
	opcode.Display:  0,
	opcode.Save:     1,
}

// convert validates a raw command and builds its typed form.
// Ops outside the command set become UnknownCmd.
func convert(raw rawCommand) (opcode.Command, error) {
	op := opcode.Cmd(raw.Op)
	if !op.Known() {
		return opcode.UnknownCmd{Name: raw.Op, Args: raw.Args}, nil
	}

	if want := arity[op]; len(raw.Args) != want {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArity, want, len(raw.Args))
	}

	a := args(raw.Args)
	switch op {
	case opcode.Frames:
		n, err := a.integer(0)
		return opcode.FramesCmd{Count: n}, err
	case opcode.Basename:
		name, err := a.str(0)
		return opcode.BasenameCmd{Name: name}, err
	case opcode.Vary:
		if raw.Knob == "" {
			return nil, fmt.Errorf("%w: knob", ErrMissingField)
		}
		s, err1 := a.integer(0)
		e, err2 := a.integer(1)
		v, err3 := a.floats(2, 2)
		if err := firstErr(err1, err2, err3); err != nil {
			return nil, err
		}
		return opcode.VaryCmd{Knob: raw.Knob, StartFrame: s, EndFrame: e, StartValue: v[0], EndValue: v[1]}, nil
	case opcode.Ambient:
		v, err := a.floats(0, 3)
		if err != nil {
			return nil, err
		}
		return opcode.AmbientCmd{Color: opcode.Vec3(v)}, nil
	case opcode.Light:
		v, err := a.floats(0, 6)
		if err != nil {
			return nil, err
		}
		return opcode.LightCmd{Location: opcode.Vec3(v[0:3]), Color: opcode.Vec3(v[3:6])}, nil
	case opcode.Box:
		v, err := a.floats(0, 6)
		if err != nil {
			return nil, err
		}
		return opcode.BoxCmd{X: v[0], Y: v[1], Z: v[2], Width: v[3], Height: v[4], Depth: v[5], Constants: raw.Constants}, nil
	case opcode.Sphere:
		v, err := a.floats(0, 4)
		if err != nil {
			return nil, err
		}
		return opcode.SphereCmd{X: v[0], Y: v[1], Z: v[2], Radius: v[3], Constants: raw.Constants}, nil
	case opcode.Torus:
		v, err := a.floats(0, 5)
		if err != nil {
			return nil, err
		}
		return opcode.TorusCmd{X: v[0], Y: v[1], Z: v[2], Inner: v[3], Outer: v[4], Constants: raw.Constants}, nil
	case opcode.Mesh:
		if raw.CS == "" {
			return nil, fmt.Errorf("%w: cs", ErrMissingField)
		}
		return opcode.MeshCmd{Path: raw.CS, Constants: raw.Constants}, nil
	case opcode.Line:
		v, err := a.floats(0, 6)
		if err != nil {
			return nil, err
		}
		return opcode.LineCmd{X0: v[0], Y0: v[1], Z0: v[2], X1: v[3], Y1: v[4], Z1: v[5]}, nil
	case opcode.Move:
		v, err := a.floats(0, 3)
		if err != nil {
			return nil, err
		}
		return opcode.MoveCmd{X: v[0], Y: v[1], Z: v[2], Knob: raw.Knob}, nil
	case opcode.Scale:
		v, err := a.floats(0, 3)
		if err != nil {
			return nil, err
		}
		return opcode.ScaleCmd{X: v[0], Y: v[1], Z: v[2], Knob: raw.Knob}, nil
	case opcode.Rotate:
		axis, err1 := a.str(0)
		deg, err2 := a.float(1)
		if err := firstErr(err1, err2); err != nil {
			return nil, err
		}
		return opcode.RotateCmd{Axis: opcode.Axis(axis), Degrees: deg, Knob: raw.Knob}, nil
	case opcode.Push:
		return opcode.PushCmd{}, nil
	case opcode.Pop:
		return opcode.PopCmd{}, nil
	case opcode.Display:
		return opcode.DisplayCmd{}, nil
	case opcode.Save:
		path, err := a.str(0)
		return opcode.SaveCmd{Path: path}, err
	}

	return nil, fmt.Errorf("unhandled command %q", raw.Op)
}

// args wraps the decoded argument list of a command.
type args []any

func (a args) float(i int) (float64, error) {
	if f, ok := toFloat(a[i]); ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: argument %d is %T, want number", ErrArgType, i, a[i])
}

func (a args) floats(from, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		f, err := a.float(from + i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// integer accepts whole numbers only.
func (a args) integer(i int) (int, error) {
	f, err := a.float(i)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%w: argument %d is %v, want integer", ErrArgType, i, f)
	}
	return int(f), nil
}

func (a args) str(i int) (string, error) {
	if s, ok := a[i].(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: argument %d is %T, want string", ErrArgType, i, a[i])
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// buildSymbols creates the base table from the symbols section.
// Entries are [knob, value] or [constants, {red: [a, d, s], green: ..., blue: ...}].
func buildSymbols(defs map[string][]any) (*symbol.Table, error) {
	table := symbol.NewTable()

	// Sorted for deterministic error reporting
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := defs[name]
		if len(def) != 2 {
			return nil, fmt.Errorf("%w %q: want [kind, value]", ErrSymbol, name)
		}

		kind, _ := def[0].(string)
		switch symbol.Kind(kind) {
		case symbol.KindKnob:
			v, ok := toFloat(def[1])
			if !ok {
				return nil, fmt.Errorf("%w %q: knob value is %T", ErrSymbol, name, def[1])
			}
			if err := table.SetKnob(name, v); err != nil {
				return nil, err
			}
		case symbol.KindConstants:
			c, err := parseConstants(def[1])
			if err != nil {
				return nil, fmt.Errorf("%w %q: %v", ErrSymbol, name, err)
			}
			if err := table.SetConstants(name, c); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w %q: unknown kind %v", ErrSymbol, name, def[0])
		}
	}
	return table, nil
}

func parseConstants(v any) (symbol.Constants, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return symbol.Constants{}, fmt.Errorf("constants are %T, want mapping", v)
	}

	var c symbol.Constants
	channels := []struct {
		key string
		dst *symbol.Reflectance
	}{
		{"red", &c.Red},
		{"green", &c.Green},
		{"blue", &c.Blue},
	}
	for _, ch := range channels {
		list, ok := m[ch.key].([]any)
		if !ok || len(list) != 3 {
			return symbol.Constants{}, fmt.Errorf("%s wants [ambient, diffuse, specular]", ch.key)
		}
		r, err := args(list).floats(0, 3)
		if err != nil {
			return symbol.Constants{}, fmt.Errorf("%s: %w", ch.key, err)
		}
		*ch.dst = symbol.Reflectance{Ambient: r[0], Diffuse: r[1], Specular: r[2]}
	}
	return c, nil
}
