package interp

import "github.com/hawklang/hawk/internal/value"

// globalTarget addresses a global slot, including the specially-handled NF
// slot whose Set must resize the field table (spec.md §4.5).
type globalTarget struct {
	ip   *Interp
	slot int
}

func (t globalTarget) Get() value.Value { return t.ip.getGlobal(t.slot) }

func (t globalTarget) Set(v value.Value) {
	if t.slot == t.ip.slots.nf {
		t.ip.setNF(int(v.ToInt()))
		return
	}
	t.ip.setGlobal(t.slot, v)
}

// localTarget addresses a parameter/local slot in the current call frame.
type localTarget struct {
	fr   *frame
	slot int
}

func (t localTarget) Get() value.Value { return t.fr.locals[t.slot] }
func (t localTarget) Set(v value.Value) {
	t.fr.locals[t.slot].Refdown()
	t.fr.locals[t.slot] = v
}

// fieldTarget addresses $i, including $0 (i==0).
type fieldTarget struct {
	ip *Interp
	i  int
}

func (t fieldTarget) Get() value.Value { return value.NewNumStr(t.ip.getField(t.i)) }
func (t fieldTarget) Set(v value.Value) { t.ip.setField(t.i, v.ToStr(t.ip.convfmt())) }

// mapTarget addresses a[k1,k2,...] (subscripts already joined by SUBSEP).
type mapTarget struct {
	m   *value.Map
	key string
}

func (t mapTarget) Get() value.Value {
	v, ok := t.m.Get(t.key)
	if !ok {
		return value.NewNil()
	}
	return v
}

func (t mapTarget) Set(v value.Value) { t.m.Put(t.key, v) }
