// Package builtins implements the intrinsic function table required by
// spec.md §6: length, index, rindex, substr, split, splita, sub, gsub,
// match, sprintf, tolower, toupper. Each is a plain Go function over
// internal/value types rather than a value.Fun/Native closure — spec.md's
// "Host programs may register additional named functions with the same
// interface" is the Fun.Native extension point; these required entries are
// wired directly by internal/interp instead, the way the teacher's own
// VM dispatches its builtin opcodes straight to Go functions rather than
// through its general host-call path (see
// other_examples/ccd18c80_kolkov-uawk__internal-vm-builtins.go.go).
//
// String positions throughout this package are 1-based and counted in
// runes, matching spec.md's codepoint-mode posture (see DESIGN.md's
// split-on-empty-FS decision) rather than bytes.
package builtins

import "github.com/hawklang/hawk/internal/value"

// Length returns the codepoint length of a string, or the element count of
// a map (spec.md §6: "string length (codepoints in character mode) or
// element count for a map").
func Length(v value.Value, convfmt string) int64 {
	if v.IsMap() {
		return int64(v.Map().Len())
	}
	return int64(len([]rune(v.ToStr(convfmt))))
}

// Index returns the 1-based rune offset of the first occurrence of t in s,
// or 0 if t does not occur (spec.md §6).
func Index(s, t string) int64 {
	if t == "" {
		return 0
	}
	rs := []rune(s)
	rt := []rune(t)
	for i := 0; i+len(rt) <= len(rs); i++ {
		if runesEqual(rs[i:i+len(rt)], rt) {
			return int64(i + 1)
		}
	}
	return 0
}

// Rindex returns the 1-based rune offset of the last occurrence of t in s,
// or 0 if t does not occur.
func Rindex(s, t string) int64 {
	if t == "" {
		return 0
	}
	rs := []rune(s)
	rt := []rune(t)
	for i := len(rs) - len(rt); i >= 0; i-- {
		if runesEqual(rs[i:i+len(rt)], rt) {
			return int64(i + 1)
		}
	}
	return 0
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Substr implements the 1-based, clamping substr(s, p[, n]) of spec.md §6.
// hasLen distinguishes the 2-arg form (to end of string) from an explicit
// (possibly negative or out-of-range) length.
func Substr(s string, start float64, hasLen bool, length float64) string {
	rs := []rune(s)
	n := float64(len(rs))

	// AWK's substr clamps a fractional/negative start down to the string,
	// treating characters "before" position 1 as consumed by a shorter
	// effective length — the classic POSIX substr(s,-2,5) == substr(s,1,2)
	// case.
	end := n + 1
	if hasLen {
		end = start + length
	}
	if start < 1 {
		start = 1
	}
	if end > n+1 {
		end = n + 1
	}
	if end <= start {
		return ""
	}
	lo := int(start) - 1
	hi := int(end) - 1
	if lo < 0 {
		lo = 0
	}
	if hi > len(rs) {
		hi = len(rs)
	}
	if lo >= hi {
		return ""
	}
	return string(rs[lo:hi])
}

// Tolower and Toupper use Unicode-aware case mapping (golang.org/x/text/
// cases + golang.org/x/text/language), not byte-only ASCII folding, per
// SPEC_FULL.md's DOMAIN STACK wiring — defined in case.go.
