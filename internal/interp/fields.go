package interp

import (
	"strings"
	"unicode"

	"github.com/hawklang/hawk/internal/regexp"
	"github.com/hawklang/hawk/internal/value"
)

// recordState is the $0/$i field table. A record read from input is split
// only when a field is first read; assigning $0 splits it again at once;
// assigning $i rebuilds $0 with OFS on its next read. raw and fields are
// kept independently valid/invalid for that purpose.
type recordState struct {
	raw        string
	rawValid   bool
	fields     []string // fields[i] is $(i+1)
	fieldsValid bool
}

// setRecord installs a freshly-read input line as $0, invalidating the
// split field cache (it will be rebuilt from FS on first $i access).
func (ip *Interp) setRecord(line string) {
	ip.record = recordState{raw: line, rawValid: true}
}

func (ip *Interp) ensureFields() {
	if ip.record.fieldsValid {
		return
	}
	fs := ip.getGlobal(ip.slots.fs).ToStr(ip.convfmt())
	ip.record.fields = ip.splitFS(ip.record.raw, fs)
	ip.record.fieldsValid = true
	ip.setGlobal(ip.slots.nf, intValue(int64(len(ip.record.fields))))
}

func (ip *Interp) ensureRaw() {
	if ip.record.rawValid {
		return
	}
	ofs := ip.getGlobal(ip.slots.ofs).ToStr(ip.convfmt())
	ip.record.raw = strings.Join(ip.record.fields, ofs)
	ip.record.rawValid = true
}

// getField returns $i (i==0 is the whole record) as plain text; the caller
// wraps it as a NumericStr.
func (ip *Interp) getField(i int) string {
	if i == 0 {
		ip.ensureRaw()
		return ip.record.raw
	}
	ip.ensureFields()
	if i < 1 || i > len(ip.record.fields) {
		return ""
	}
	return ip.record.fields[i-1]
}

// setField assigns $i. Assigning $0 replaces the whole record and resplits
// it at once (updating NF); assigning $i (growing the field list with
// empty strings if needed) invalidates the joined $0 and updates NF.
func (ip *Interp) setField(i int, v string) {
	if i == 0 {
		ip.setRecord(v)
		ip.ensureFields()
		return
	}
	ip.ensureFields()
	for len(ip.record.fields) < i {
		ip.record.fields = append(ip.record.fields, "")
	}
	ip.record.fields[i-1] = v
	ip.record.rawValid = false
	ip.setGlobal(ip.slots.nf, intValue(int64(len(ip.record.fields))))
}

// setNF implements assignment to the NF global directly: truncating drops
// trailing fields, growing pads with empty strings; either way $0 is
// rebuilt from the new field count via OFS on next read.
func (ip *Interp) setNF(n int) {
	ip.ensureFields()
	if n < 0 {
		n = 0
	}
	if n < len(ip.record.fields) {
		ip.record.fields = ip.record.fields[:n]
	}
	for len(ip.record.fields) < n {
		ip.record.fields = append(ip.record.fields, "")
	}
	ip.record.rawValid = false
	ip.globals[ip.slots.nf] = intValue(int64(n))
}

func (ip *Interp) nf() int {
	ip.ensureFields()
	return len(ip.record.fields)
}

func intValue(n int64) value.Value { return value.NewInt(n) }

// splitFS implements FS's three modes directly on the field table (spec.md
// §4.5/§6): default " " (runs of whitespace, trimmed), single character
// (literal byte/rune split), and anything else (treated as an ERE via
// internal/regexp) — empty FS additionally splits to individual codepoints
// (DESIGN.md's split-on-empty-FS decision).
func (ip *Interp) splitFS(s, fs string) []string {
	if s == "" {
		return nil
	}
	switch {
	case fs == " ":
		return splitWhitespace(s)
	case fs == "":
		rs := []rune(s)
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = string(r)
		}
		return out
	case len([]rune(fs)) == 1:
		return strings.Split(s, fs)
	default:
		re, err := ip.compileRegex(fs)
		if err != nil {
			return strings.Split(s, fs)
		}
		return splitByRegexText(s, re)
	}
}

// splitByRegexText splits s on every leftmost-longest match of re,
// mirroring internal/builtins' unexported splitByRegex (kept separate to
// avoid an interp -> builtins -> interp-shaped dependency on the field
// table; this copy only ever needs the field list, never separators).
func splitByRegexText(s string, re *regexp.Regex) []string {
	rs := []rune(s)
	var fields []string
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
		pos += end
	}
	fields = append(fields, string(rs[pos:]))
	return fields
}

func splitWhitespace(s string) []string {
	var out []string
	rs := []rune(s)
	i := 0
	for i < len(rs) {
		for i < len(rs) && unicode.IsSpace(rs[i]) {
			i++
		}
		if i >= len(rs) {
			break
		}
		start := i
		for i < len(rs) && !unicode.IsSpace(rs[i]) {
			i++
		}
		out = append(out, string(rs[start:i]))
	}
	return out
}
