package builtins

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/hawklang/hawk/internal/regexp"
	"github.com/hawklang/hawk/internal/value"
)

// Split implements spec.md §6's split(s, a[, sep]): clear a, split s into a
// 1-based array, return the element count. fs is the separator text; re is
// the separator's compiled form when the caller (internal/interp) has
// decided fs is to be treated as an ERE rather than a literal — POSIX's
// rule of "a single-character FS is literal, anything longer is a regular
// expression" is the caller's job to apply before calling in, since only
// the caller knows whether fs came from a dynamic string or a /regex/
// literal value.
func Split(s string, arr *value.Map, fs string, re *regexp.Regex) int64 {
	arr.Clear()
	if s == "" {
		return 0
	}
	fields, _ := splitFields(s, fs, re)
	for i, f := range fields {
		arr.Put(strconv.Itoa(i+1), value.NewNumStr(f))
	}
	return int64(len(fields))
}

// SplitA implements splita(s, a[, sep]): identical to Split but also
// records the separator text found between each pair of adjacent fields
// into seps (1-based, seps[i] is the text between field i and field i+1),
// so a caller can reconstruct s losslessly from a and seps — grounded on
// the separator-preserving intent of "splita ... split preserving
// separators" (spec.md §6); seps may be nil to behave exactly like Split.
func SplitA(s string, arr *value.Map, seps *value.Map, fs string, re *regexp.Regex) int64 {
	arr.Clear()
	if seps != nil {
		seps.Clear()
	}
	if s == "" {
		return 0
	}
	fields, sepList := splitFields(s, fs, re)
	for i, f := range fields {
		arr.Put(strconv.Itoa(i+1), value.NewNumStr(f))
	}
	if seps != nil {
		for i, sp := range sepList {
			seps.Put(strconv.Itoa(i+1), value.NewStr(sp))
		}
	}
	return int64(len(fields))
}

// splitFields returns (fields, separators) where len(separators) ==
// len(fields)-1 for a non-empty split, following FS's three POSIX forms:
// default " " (runs of whitespace, leading/trailing trimmed), single
// character (literal), and empty (split to individual codepoints — the
// rune, not byte, mode decided in DESIGN.md). re is consulted only when
// non-nil, i.e. fs is a multi-character ERE.
func splitFields(s, fs string, re *regexp.Regex) ([]string, []string) {
	switch {
	case re != nil:
		return splitByRegex(s, re)
	case fs == " ":
		return splitByWhitespace(s)
	case fs == "":
		return splitByRune(s)
	default:
		return splitByLiteral(s, fs)
	}
}

func splitByWhitespace(s string) ([]string, []string) {
	var fields, seps []string
	rs := []rune(s)
	i := 0
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	for i < len(rs) {
		start := i
		for i < len(rs) && !unicode.IsSpace(rs[i]) {
			i++
		}
		fields = append(fields, string(rs[start:i]))
		sepStart := i
		for i < len(rs) && unicode.IsSpace(rs[i]) {
			i++
		}
		if i < len(rs) {
			seps = append(seps, string(rs[sepStart:i]))
		}
	}
	return fields, seps
}

func splitByRune(s string) ([]string, []string) {
	rs := []rune(s)
	fields := make([]string, len(rs))
	for i, r := range rs {
		fields[i] = string(r)
	}
	seps := make([]string, 0)
	if len(fields) > 0 {
		seps = make([]string, len(fields)-1)
	}
	return fields, seps
}

func splitByLiteral(s, sep string) ([]string, []string) {
	fields := strings.Split(s, sep)
	seps := make([]string, 0, len(fields)-1)
	for range fields[:max0(len(fields)-1)] {
		seps = append(seps, sep)
	}
	return fields, seps
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// splitByRegex repeatedly finds re's leftmost-longest match in the
// remaining suffix of s (re-searching from scratch each time rather than
// resuming the backtracker mid-string, since internal/regexp does not
// expose a partial-offset search entry point — an accepted O(n^2)
// simplification for the hand-written backtracking engine). A zero-width
// match terminates the scan early rather than looping forever, matching
// how a single-character FS never recurses on an empty separator.
func splitByRegex(s string, re *regexp.Regex) ([]string, []string) {
	rs := []rune(s)
	var fields, seps []string
	pos := 0
	for pos <= len(rs) {
		rem := string(rs[pos:])
		idx := re.FindSubmatchIndex(rem)
		if idx == nil {
			break
		}
		start, end := idx[0], idx[1]
		if start == end {
			break
		}
		fields = append(fields, string(rs[pos:pos+start]))
		seps = append(seps, string(rs[pos+start:pos+end]))
		pos += end
	}
	fields = append(fields, string(rs[pos:]))
	return fields, seps
}
