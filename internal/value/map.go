package value

// Map is Hawk's associative array: a hash table with insertion-stable
// iteration, grounded on original_source/hawk/lib/hawk-map.h, which offers
// the same external contract whether the build chose a hash table or a
// red-black tree internally (spec §3's Map description). Hawk always picks
// the hash-table form (see DESIGN.md).
//
// Keys are stored by value (duplicated on insert, spec §3). Deleting an
// entry during iteration only invalidates that entry's own cursor position;
// it does this by tombstoning the slot rather than compacting the slice,
// so any other live iterator's index still refers to its own untouched
// entry.
type Map struct {
	keys  []string // insertion order; "" marks a tombstone
	index map[string]int
	vals  []Value
	live  int
	refs  int32
}

func newMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Len returns the number of live entries (length is an AWK builtin on a
// map argument, spec §6).
func (m *Map) Len() int { return m.live }

func (m *Map) Get(k string) (Value, bool) {
	if m == nil {
		return NewNil(), false
	}
	i, ok := m.index[k]
	if !ok {
		return NewNil(), false
	}
	return m.vals[i], true
}

func (m *Map) In(k string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[k]
	return ok
}

// put inserts or overwrites k=v, refup'ing v's heap payload and refdown'ing
// any value it replaces.
func (m *Map) put(k string, v Value) {
	v.Refup()
	if i, ok := m.index[k]; ok {
		m.vals[i].Refdown()
		m.vals[i] = v
		return
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	m.live++
	m.maybeCompact()
}

// Put is the public, refcount-correct insert used by the runtime.
func (m *Map) Put(k string, v Value) { m.put(k, v) }

// Delete removes k if present; a delete of a missing key is a no-op, per
// spec §4.5.
func (m *Map) Delete(k string) {
	i, ok := m.index[k]
	if !ok {
		return
	}
	m.vals[i].Refdown()
	m.vals[i] = Value{}
	m.keys[i] = ""
	delete(m.index, k)
	m.live--
}

// Clear empties the map in place (deleting `a` as a whole, spec §4.5),
// refdown'ing every live entry first.
func (m *Map) Clear() {
	for i, k := range m.keys {
		if k == "" {
			continue
		}
		m.vals[i].Refdown()
	}
	m.keys = nil
	m.vals = nil
	m.index = make(map[string]int)
	m.live = 0
}

func (m *Map) release() {
	m.Clear()
}

// Iterator walks live entries in stable insertion order. An Iterator obtained
// via Iter whose Map is then mutated by inserts continues safely (appends land
// after the cursor); deletes simply leave tombstones Next skips.
type Iterator struct {
	m   *Map
	pos int
}

func (m *Map) Iter() *Iterator {
	return &Iterator{m: m}
}

// Next returns the next live key/value pair and true, or ("", Nil, false)
// once exhausted.
func (it *Iterator) Next() (string, Value, bool) {
	for it.pos < len(it.m.keys) {
		k := it.m.keys[it.pos]
		it.pos++
		if k == "" {
			continue
		}
		i := it.m.index[k]
		return k, it.m.vals[i], true
	}
	return "", Value{}, false
}

// Keys returns a stable-order snapshot of live keys, used by `for (k in a)`
// where the runtime must be robust against the body deleting from a mid
// loop (spec §3's "deletion during iteration invalidates only the deleted
// entry's cursor").
func (m *Map) Keys() []string {
	out := make([]string, 0, m.live)
	for _, k := range m.keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

func (m *Map) each(f func(k string, v Value)) {
	for _, k := range m.keys {
		if k == "" {
			continue
		}
		f(k, m.vals[m.index[k]])
	}
}

// maybeCompact reclaims tombstone slots once they dominate the backing
// slice, keeping iteration (which walks m.keys linearly) from degrading on
// maps with heavy churn. Compaction only ever happens between, never
// during, an Iterator's lifetime in practice (the runtime snapshots Keys()
// before looping), so it does not violate the iteration-stability contract.
func (m *Map) maybeCompact() {
	if len(m.keys) < 16 || m.live*2 > len(m.keys) {
		return
	}
	newKeys := make([]string, 0, m.live)
	newVals := make([]Value, 0, m.live)
	for _, k := range m.keys {
		if k == "" {
			continue
		}
		newKeys = append(newKeys, k)
		newVals = append(newVals, m.vals[m.index[k]])
		m.index[k] = len(newKeys) - 1
	}
	m.keys = newKeys
	m.vals = newVals
}
