package regexp

// cont is a matcher continuation: given the position reached so far, it
// reports whether the overall search should stop (true) or keep
// backtracking into other alternatives (false). FindSubmatchIndex's driver
// continuation always returns false so every alternative is explored and
// the longest overall match is kept — this is what makes the engine
// leftmost-longest rather than leftmost-first (spec.md §5).
type cont func(pos int) bool

func match(n node, s []rune, pos int, caps []int, fold bool, k cont) bool {
	switch n := n.(type) {
	case nil:
		return k(pos)
	case *litNode:
		if pos >= len(s) {
			return false
		}
		r := s[pos]
		if r == n.r {
			return k(pos + 1)
		}
		if fold {
			lo, hi := foldRune(n.r)
			rlo, rhi := foldRune(r)
			if rlo == lo || rlo == hi || rhi == lo || rhi == hi {
				return k(pos + 1)
			}
		}
		return false
	case *classNode:
		if pos >= len(s) {
			return false
		}
		r := s[pos]
		in := inRanges(n.ranges, r, fold)
		if in != n.negate {
			return k(pos + 1)
		}
		return false
	case *anyNode:
		if pos >= len(s) {
			return false
		}
		return k(pos + 1)
	case *anchorNode:
		if n.start {
			if pos == 0 {
				return k(pos)
			}
			return false
		}
		if pos == len(s) {
			return k(pos)
		}
		return false
	case *concatNode:
		return matchSeq(n.parts, s, pos, caps, fold, k)
	case *altNode:
		for _, a := range n.alts {
			if match(a, s, pos, caps, fold, k) {
				return true
			}
		}
		return false
	case *groupNode:
		if n.idx == 0 {
			return match(n.sub, s, pos, caps, fold, k)
		}
		old0, old1 := caps[2*n.idx], caps[2*n.idx+1]
		start := pos
		res := match(n.sub, s, pos, caps, fold, func(pos2 int) bool {
			caps[2*n.idx] = start
			caps[2*n.idx+1] = pos2
			return k(pos2)
		})
		caps[2*n.idx], caps[2*n.idx+1] = old0, old1
		return res
	case *repeatNode:
		return matchRepeat(n.sub, 0, n.min, n.max, n.lazy, s, pos, caps, fold, k)
	default:
		return false
	}
}

func matchSeq(parts []node, s []rune, pos int, caps []int, fold bool, k cont) bool {
	if len(parts) == 0 {
		return k(pos)
	}
	return match(parts[0], s, pos, caps, fold, func(pos2 int) bool {
		return matchSeq(parts[1:], s, pos2, caps, fold, k)
	})
}

// matchRepeat explores one more repetition before falling back to satisfying
// the continuation at the current count, so longer matches are found first
// (spec.md §5's leftmost-longest default) — unless lazy, in which case the
// order is reversed: the continuation at the current count is tried first,
// and one more repetition is only explored if that fails (spec.md §4.6's
// "`?` on a quantifier makes it lazy").
func matchRepeat(sub node, count, min, max int, lazy bool, s []rune, pos int, caps []int, fold bool, k cont) bool {
	grow := func() bool {
		if max == -1 || count < max {
			return match(sub, s, pos, caps, fold, func(pos2 int) bool {
				if pos2 == pos {
					// zero-width repetition body: one more iteration can
					// never progress, so stop growing the count here.
					return false
				}
				return matchRepeat(sub, count+1, min, max, lazy, s, pos2, caps, fold, k)
			})
		}
		return false
	}
	stop := func() bool {
		if count >= min {
			return k(pos)
		}
		return false
	}
	if lazy {
		if stop() {
			return true
		}
		return grow()
	}
	if grow() {
		return true
	}
	return stop()
}
