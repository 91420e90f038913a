package builtins

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hawklang/hawk/internal/value"
)

// Sprintf implements sprintf(fmt, ...): a C-printf-style formatter over
// AWK's value set, grounded on the teacher's sibling VMs' hand-rolled
// formatter (other_examples/ccd18c80_kolkov-uawk__internal-vm-builtins.go.go's
// builtinSprintf) rather than fmt.Sprintf directly, since AWK's verb set
// (%c taking either a codepoint or a string, %i as a %d alias, no %v/%T)
// does not map onto Go's verbs without this translation layer.
func Sprintf(format string, args []value.Value, convfmt string) string {
	var out strings.Builder
	argi := 0
	next := func() value.Value {
		if argi < len(args) {
			v := args[argi]
			argi++
			return v
		}
		return value.NewNil()
	}

	rs := []rune(format)
	i := 0
	for i < len(rs) {
		if rs[i] != '%' {
			out.WriteRune(rs[i])
			i++
			continue
		}
		i++
		if i >= len(rs) {
			out.WriteByte('%')
			break
		}
		if rs[i] == '%' {
			out.WriteByte('%')
			i++
			continue
		}

		var flags strings.Builder
		for i < len(rs) && strings.ContainsRune("-+ #0", rs[i]) {
			flags.WriteRune(rs[i])
			i++
		}

		width := ""
		if i < len(rs) && rs[i] == '*' {
			w := int(next().ToInt())
			if w < 0 {
				flags.WriteByte('-')
				w = -w
			}
			width = strconv.Itoa(w)
			i++
		} else {
			for i < len(rs) && rs[i] >= '0' && rs[i] <= '9' {
				width += string(rs[i])
				i++
			}
		}

		precision := ""
		if i < len(rs) && rs[i] == '.' {
			precision = "."
			i++
			if i < len(rs) && rs[i] == '*' {
				p := int(next().ToInt())
				if p >= 0 {
					precision += strconv.Itoa(p)
				} else {
					precision = ""
				}
				i++
			} else {
				for i < len(rs) && rs[i] >= '0' && rs[i] <= '9' {
					precision += string(rs[i])
					i++
				}
			}
		}

		if i >= len(rs) {
			out.WriteString("%" + flags.String() + width + precision)
			break
		}
		verb := rs[i]
		i++
		arg := next()

		switch verb {
		case 'd', 'i':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"d", arg.ToInt()))
		case 'o':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"o", uint64(arg.ToInt())))
		case 'x':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"x", uint64(arg.ToInt())))
		case 'X':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"X", uint64(arg.ToInt())))
		case 'u':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"d", uint64(arg.ToInt())))
		case 'c':
			out.WriteString(formatChar(arg, convfmt))
		case 's':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"s", arg.ToStr(convfmt)))
		case 'e':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"e", arg.ToFlt()))
		case 'E':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"E", arg.ToFlt()))
		case 'f', 'F':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"f", arg.ToFlt()))
		case 'g':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"g", arg.ToFlt()))
		case 'G':
			out.WriteString(fmt.Sprintf("%"+flags.String()+width+precision+"G", arg.ToFlt()))
		default:
			out.WriteByte('%')
			out.WriteRune(verb)
		}
	}
	return out.String()
}

// formatChar implements %c: a numeric argument is a codepoint, a string
// argument contributes its first rune only.
func formatChar(v value.Value, convfmt string) string {
	switch v.Kind() {
	case value.Int, value.Flt, value.Nil:
		n := v.ToInt()
		if n < 0 || n > 0x10FFFF {
			return ""
		}
		return string(rune(n))
	default:
		s := v.ToStr(convfmt)
		for _, r := range s {
			return string(r)
		}
		return ""
	}
}
