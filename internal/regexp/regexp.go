package regexp

import "fmt"

// Regex is a compiled pattern, implementing value.Regexper (internal/value)
// so it can live inside a Value without that package importing this one.
type Regex struct {
	src             string
	root            node
	numGroups       int
	caseInsensitive bool
}

// Compile parses and compiles pattern (ERE plus spec.md §5's extensions).
// caseInsensitive is the regex's compile-time `(?i)`-equivalent flag set by
// IGNORECASE or an explicit case-insensitive regex literal; `(?i)`/`(?-i)`
// inline toggles inside pattern itself are independent of this flag and
// always honored. ungreedy inverts every quantifier's greedy/lazy default
// for this one pattern (spec.md §4.6's "optional ungreedy flag").
func Compile(pattern string, caseInsensitive, ungreedy bool) (*Regex, error) {
	parse := Parse
	if ungreedy {
		parse = ParseUngreedy
	}
	root, n, err := parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("hawk: bad regex %q: %w", pattern, err)
	}
	return &Regex{src: pattern, root: root, numGroups: n, caseInsensitive: caseInsensitive}, nil
}

func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern, false, false)
	if err != nil {
		panic(err)
	}
	return re
}

func (r *Regex) String() string { return r.src }

// Source and CaseInsensitive satisfy internal/value.Regexper, so a *Regex
// can be stored inside a value.Value without package value importing this
// package.
func (r *Regex) Source() string         { return r.src }
func (r *Regex) CaseInsensitive() bool { return r.caseInsensitive }

// NumGroups is the count of capturing groups (not including the whole-match
// group 0).
func (r *Regex) NumGroups() int { return r.numGroups }

// MatchString reports whether the pattern matches anywhere in s.
func (r *Regex) MatchString(s string) bool {
	rs := []rune(s)
	caps := make([]int, 2*(r.numGroups+1))
	for start := 0; start <= len(rs); start++ {
		resetCaps(caps)
		found := match(r.root, rs, start, caps, r.caseInsensitive, func(pos int) bool { return true })
		if found {
			return true
		}
	}
	return false
}

// FindSubmatchIndex returns rune-index pairs [start0,end0, start1,end1, ...]
// for the leftmost-longest match, or nil if none. Index 0 is the whole
// match; indices 1..NumGroups are capturing groups, -1 for a group that
// didn't participate. Positions are rune offsets into s, not byte offsets
// (spec.md's NumericStr/field model is UTF-8-native throughout, see
// DESIGN.md's split-on-empty-FS decision for the same rune-vs-byte call).
func (r *Regex) FindSubmatchIndex(s string) []int {
	rs := []rune(s)
	caps := make([]int, 2*(r.numGroups+1))
	for start := 0; start <= len(rs); start++ {
		resetCaps(caps)
		best := -1
		var bestCaps []int
		match(r.root, rs, start, caps, r.caseInsensitive, func(pos int) bool {
			if pos > best {
				best = pos
				bestCaps = append([]int(nil), caps...)
			}
			return false
		})
		if best >= 0 {
			bestCaps[0] = start
			bestCaps[1] = best
			return bestCaps
		}
	}
	return nil
}

func resetCaps(caps []int) {
	for i := range caps {
		caps[i] = -1
	}
}
