package value

import "testing"

func TestRefcountRoundTrip(t *testing.T) {
	v := NewStr("hello")
	if v.Refs() != 1 {
		t.Fatalf("want refs=1, got %d", v.Refs())
	}
	v.Refup()
	if v.Refs() != 2 {
		t.Fatalf("want refs=2 after Refup, got %d", v.Refs())
	}
	v.Refdown()
	if v.Refs() != 1 {
		t.Fatalf("want refs=1 after Refdown, got %d", v.Refs())
	}
	if v.ToStr("%.6g") != "hello" {
		t.Fatalf("value corrupted while still referenced: %q", v.ToStr("%.6g"))
	}
}

func TestIntRoundTrip(t *testing.T) {
	for _, x := range []int64{0, 1, -1, 42, 1 << 40} {
		v := NewInt(x)
		if v.ToInt() != x {
			t.Errorf("NewInt(%d).ToInt() = %d", x, v.ToInt())
		}
		if got := NewStr(v.ToStr("%.6g")).ToInt(); got != x {
			t.Errorf("round trip through string failed for %d, got %d", x, got)
		}
	}
}

func TestBoolTruth(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{NewNil(), false},
		{NewInt(0), false},
		{NewInt(1), true},
		{NewFlt(0), false},
		{NewFlt(0.1), true},
		{NewStr(""), false},
		{NewStr("0"), true}, // a non-empty string is truthy, including NumericStr "0"
		{NewNumStr("0"), true},
		{NewNumStr(""), false},
		{NewNumStr("abc"), true},
	}
	for _, c := range cases {
		if got := c.v.ToBool(); got != c.want {
			t.Errorf("%v.ToBool() = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestNumericStrCompare(t *testing.T) {
	a := NewNumStr("10")
	b := NewNumStr("9")
	if Cmp(a, b, "%.6g") <= 0 {
		t.Fatalf("two NumericStr must compare numerically: 10 should be > 9")
	}
	s1 := NewStr("10")
	s2 := NewStr("9")
	if Cmp(s1, s2, "%.6g") >= 0 {
		t.Fatalf("two pure strings must compare lexically: %q should be < %q", "10", "9")
	}
}

func TestMapIterationStableUnderDelete(t *testing.T) {
	m := newMap()
	m.Put("a", NewInt(1))
	m.Put("b", NewInt(2))
	m.Put("c", NewInt(3))

	it := m.Iter()
	k, _, ok := it.Next()
	if !ok || k != "a" {
		t.Fatalf("expected first key a, got %q ok=%v", k, ok)
	}
	m.Delete("b")
	seen := map[string]bool{"a": true}
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		seen[k] = true
	}
	if seen["b"] {
		t.Fatalf("deleted key b should not be visited")
	}
	if !seen["c"] {
		t.Fatalf("key c should still be visited")
	}
	if m.Len() != 2 {
		t.Fatalf("want 2 live entries, got %d", m.Len())
	}
	if m.In("b") {
		t.Fatalf("b should no longer be `in` the map")
	}
}

func TestMapEachKeyOnce(t *testing.T) {
	m := newMap()
	keys := []string{"x", "y", "z", "x"} // last "x" overwrites, not a new entry
	for i, k := range keys {
		m.Put(k, NewInt(int64(i)))
	}
	seen := map[string]int{}
	m.each(func(k string, v Value) { seen[k]++ })
	if len(seen) != 3 {
		t.Fatalf("want 3 distinct keys, got %d", len(seen))
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("key %q visited %d times, want 1", k, n)
		}
	}
}
