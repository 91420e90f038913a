package hawk

import (
	"fmt"
	"reflect"

	"github.com/hawklang/hawk/internal/compiler"
	"github.com/hawklang/hawk/internal/value"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// RegisterFunction exposes a Go function to scripts compiled by this Engine
// under name, following spec.md §4.3's "Host programs may register
// additional named functions with the same interface" as length/substr/etc.
//
// fn must be a func. Parameters may be any of bool, int64 (or int), float64,
// string, []value.Value (an array argument passed as elements, since Hawk
// arrays have no fixed element type), or map[string]value.Value. fn may
// return zero, one, or two values; a second return must be error. A script
// call with fewer arguments than fn's parameter count pads the rest as
// Nil/zero; extra arguments are ignored. A panic inside fn is recovered and
// surfaced as a runtime FNCIMPL error, mirroring the teacher's EHost
// exception wrapping of a host callback panic.
func (e *Engine) RegisterFunction(name string, fn any) error {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("hawk: RegisterFunction(%q): not a function", name)
	}
	rt := rv.Type()

	numOut := rt.NumOut()
	if numOut > 2 {
		return fmt.Errorf("hawk: RegisterFunction(%q): at most 2 return values supported, got %d", name, numOut)
	}
	if numOut == 2 && rt.Out(1) != errorType {
		return fmt.Errorf("hawk: RegisterFunction(%q): second return value must be error", name)
	}

	if rt.IsVariadic() {
		return fmt.Errorf("hawk: RegisterFunction(%q): variadic functions are not supported", name)
	}

	native := &value.Fun{Name: name, Arity: rt.NumIn(), Native: func(args []value.Value) (v value.Value, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in host function %q: %v", name, r)
			}
		}()
		in, cerr := convertArgs(rt, args)
		if cerr != nil {
			return value.NewNil(), cerr
		}
		out := rv.Call(in)
		return nativeResult(rt, out)
	}}

	e.natives[name] = native
	// Any argument count is accepted; convertArgs pads or drops to fit fn.
	e.builtins[name] = compiler.BuiltinSig{MinArgs: 0, MaxArgs: -1}
	return nil
}

func convertArgs(rt reflect.Type, args []value.Value) ([]reflect.Value, error) {
	n := rt.NumIn()
	in := make([]reflect.Value, n)
	for i := 0; i < n; i++ {
		paramType := rt.In(i)
		var src value.Value
		if i < len(args) {
			src = args[i]
		} else {
			src = value.NewNil()
		}
		gv, err := valueToGo(src, paramType)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		in[i] = gv
	}
	return in, nil
}

func valueToGo(v value.Value, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Bool:
		return reflect.ValueOf(v.ToBool()).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(v.ToInt()).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(v.ToFlt()).Convert(t), nil
	case reflect.String:
		return reflect.ValueOf(v.ToStr("%.6g")).Convert(t), nil
	case reflect.Slice:
		return mapToSlice(v, t)
	case reflect.Map:
		return mapToGoMap(v, t)
	case reflect.Interface:
		return reflect.ValueOf(v), nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", t)
}

// mapToSlice converts a Hawk array (a value.Map whose keys are the
// conventional 1..N string indices) into a Go slice, in the map's insertion
// order.
func mapToSlice(v value.Value, t reflect.Type) (reflect.Value, error) {
	elemType := t.Elem()
	if !v.IsMap() {
		return reflect.MakeSlice(t, 0, 0), nil
	}
	m := v.Map()
	keys := m.Keys()
	out := reflect.MakeSlice(t, 0, len(keys))
	for _, k := range keys {
		ev, _ := m.Get(k)
		gv, err := valueToGo(ev, elemType)
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, gv)
	}
	return out, nil
}

func mapToGoMap(v value.Value, t reflect.Type) (reflect.Value, error) {
	out := reflect.MakeMap(t)
	if !v.IsMap() {
		return out, nil
	}
	m := v.Map()
	for _, k := range m.Keys() {
		ev, _ := m.Get(k)
		gv, err := valueToGo(ev, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), gv)
	}
	return out, nil
}

func nativeResult(rt reflect.Type, out []reflect.Value) (value.Value, error) {
	switch rt.NumOut() {
	case 0:
		return value.NewNil(), nil
	case 1:
		if rt.Out(0) == errorType {
			if !out[0].IsNil() {
				return value.NewNil(), out[0].Interface().(error)
			}
			return value.NewNil(), nil
		}
		return goToValue(out[0]), nil
	default:
		if !out[1].IsNil() {
			return value.NewNil(), out[1].Interface().(error)
		}
		return goToValue(out[0]), nil
	}
}

func goToValue(rv reflect.Value) value.Value {
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return value.NewInt(1)
		}
		return value.NewStr("")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.NewInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.NewInt(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return value.NewFlt(rv.Float())
	case reflect.String:
		return value.NewStr(rv.String())
	case reflect.Slice, reflect.Array:
		out := value.NewMap()
		m := out.Map()
		for i := 0; i < rv.Len(); i++ {
			m.Put(fmt.Sprint(i+1), goToValue(rv.Index(i)))
		}
		return out
	case reflect.Map:
		out := value.NewMap()
		m := out.Map()
		for _, k := range rv.MapKeys() {
			m.Put(fmt.Sprint(k.Interface()), goToValue(rv.MapIndex(k)))
		}
		return out
	case reflect.Interface:
		if vv, ok := rv.Interface().(value.Value); ok {
			return vv
		}
	}
	return value.NewNil()
}
