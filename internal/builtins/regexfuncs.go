package builtins

import (
	"strings"

	"github.com/hawklang/hawk/internal/regexp"
)

// Match implements match(s, re): sets RSTART (1-based) and RLENGTH and
// returns RSTART, per spec.md §6. On no match it returns RSTART 0,
// RLENGTH -1 — the caller (internal/interp) is responsible for writing
// both into the RSTART/RLENGTH globals.
func Match(s string, re *regexp.Regex) (rstart, rlength int64) {
	idx := re.FindSubmatchIndex(s)
	if idx == nil {
		return 0, -1
	}
	return int64(idx[0] + 1), int64(idx[1] - idx[0])
}

// Sub implements sub(re, repl, target): replace the first match only,
// returning (result, count) where count is 0 or 1.
func Sub(re *regexp.Regex, repl, target string) (string, int64) {
	idx := re.FindSubmatchIndex(target)
	if idx == nil {
		return target, 0
	}
	rs := []rune(target)
	matched := string(rs[idx[0]:idx[1]])
	out := string(rs[:idx[0]]) + expandRepl(repl, matched) + string(rs[idx[1]:])
	return out, 1
}

// Gsub implements gsub(re, repl, target): replace every non-overlapping
// match, returning (result, count).
func Gsub(re *regexp.Regex, repl, target string) (string, int64) {
	rs := []rune(target)
	var b strings.Builder
	var count int64
	pos := 0
	for pos <= len(rs) {
		rem := string(rs[pos:])
		idx := re.FindSubmatchIndex(rem)
		if idx == nil {
			b.WriteString(rem)
			break
		}
		start, end := idx[0], idx[1]
		b.WriteString(string(rs[pos : pos+start]))
		b.WriteString(expandRepl(repl, string(rs[pos+start:pos+end])))
		count++
		if start == end {
			// Zero-width match: emit one rune verbatim so the scan makes
			// progress instead of looping forever on e.g. gsub(//, "x", s).
			if pos+end < len(rs) {
				b.WriteRune(rs[pos+end])
			}
			pos = pos + end + 1
		} else {
			pos += end
		}
	}
	if count == 0 {
		return target, 0
	}
	return b.String(), count
}

// expandRepl expands & (whole match) and \& (literal &) in a sub/gsub
// replacement string, per spec.md §6: "replace once/all with & and \&
// backrefs in repl".
func expandRepl(repl, matched string) string {
	var b strings.Builder
	rs := []rune(repl)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			if i+1 < len(rs) && (rs[i+1] == '&' || rs[i+1] == '\\') {
				b.WriteRune(rs[i+1])
				i++
			} else {
				b.WriteRune('\\')
			}
		case '&':
			b.WriteString(matched)
		default:
			b.WriteRune(rs[i])
		}
	}
	return b.String()
}
