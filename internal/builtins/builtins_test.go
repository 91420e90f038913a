package builtins

import (
	"testing"

	"github.com/hawklang/hawk/internal/regexp"
	"github.com/hawklang/hawk/internal/value"
)

func TestLengthStringAndMap(t *testing.T) {
	if got := Length(value.NewStr("héllo"), "%.6g"); got != 5 {
		t.Fatalf("want 5 runes, got %d", got)
	}
	m := value.NewMap()
	m.Map().Put("a", value.NewInt(1))
	m.Map().Put("b", value.NewInt(2))
	if got := Length(m, "%.6g"); got != 2 {
		t.Fatalf("want 2 elements, got %d", got)
	}
}

func TestIndexAndRindex(t *testing.T) {
	if got := Index("banana", "an"); got != 2 {
		t.Fatalf("Index: want 2, got %d", got)
	}
	if got := Rindex("banana", "an"); got != 4 {
		t.Fatalf("Rindex: want 4, got %d", got)
	}
	if got := Index("banana", "xyz"); got != 0 {
		t.Fatalf("Index miss: want 0, got %d", got)
	}
}

func TestSubstrClampingAndNegativeStart(t *testing.T) {
	if got := Substr("hello world", 1, true, 5); got != "hello" {
		t.Fatalf("want %q, got %q", "hello", got)
	}
	if got := Substr("hello world", 7, false, 0); got != "world" {
		t.Fatalf("want %q, got %q", "world", got)
	}
	// POSIX: substr(s,-2,5) == substr(s,1,2)
	if got := Substr("hello", -2, true, 5); got != "he" {
		t.Fatalf("want %q, got %q", "he", got)
	}
}

func TestSplitDefaultWhitespace(t *testing.T) {
	arr := value.NewMap()
	n := Split("  the quick  fox ", arr.Map(), " ", nil)
	if n != 3 {
		t.Fatalf("want 3 fields, got %d", n)
	}
	v, _ := arr.Map().Get("2")
	if v.ToStr("%.6g") != "quick" {
		t.Fatalf("want field 2 = quick, got %q", v.ToStr("%.6g"))
	}
}

func TestSplitAPreservesSeparators(t *testing.T) {
	arr := value.NewMap()
	seps := value.NewMap()
	n := SplitA("a,b;c", arr.Map(), seps.Map(), ",", nil)
	// "," is a single-char literal FS: only commas split, semicolon stays
	// inside the second field.
	if n != 2 {
		t.Fatalf("want 2 fields, got %d", n)
	}
	v2, _ := arr.Map().Get("2")
	if v2.ToStr("%.6g") != "b;c" {
		t.Fatalf("want field 2 = b;c, got %q", v2.ToStr("%.6g"))
	}
	s1, _ := seps.Map().Get("1")
	if s1.ToStr("%.6g") != "," {
		t.Fatalf("want sep 1 = ',', got %q", s1.ToStr("%.6g"))
	}
}

func TestSplitEmptyFSByRune(t *testing.T) {
	arr := value.NewMap()
	n := Split("abc", arr.Map(), "", nil)
	if n != 3 {
		t.Fatalf("want 3, got %d", n)
	}
}

func TestMatchSetsRstartRlength(t *testing.T) {
	re := regexp.MustCompile("o+")
	rstart, rlength := Match("foobar", re)
	if rstart != 2 || rlength != 2 {
		t.Fatalf("want (2,2), got (%d,%d)", rstart, rlength)
	}
	rstart, rlength = Match("xyz", re)
	if rstart != 0 || rlength != -1 {
		t.Fatalf("want (0,-1) on no match, got (%d,%d)", rstart, rlength)
	}
}

func TestSubReplacesFirstOnly(t *testing.T) {
	re := regexp.MustCompile("o")
	out, count := Sub(re, "0", "foobar")
	if count != 1 || out != "f0obar" {
		t.Fatalf("want (f0obar,1), got (%s,%d)", out, count)
	}
}

func TestGsubReplacesAll(t *testing.T) {
	re := regexp.MustCompile("o")
	out, count := Gsub(re, "0", "foobar")
	if count != 2 || out != "f00bar" {
		t.Fatalf("want (f00bar,2), got (%s,%d)", out, count)
	}
}

func TestGsubAmpersandBackref(t *testing.T) {
	re := regexp.MustCompile("[a-z]+")
	out, count := Gsub(re, "<&>", "ab cd")
	if count != 2 || out != "<ab> <cd>" {
		t.Fatalf("want (<ab> <cd>,2), got (%s,%d)", out, count)
	}
}

func TestSprintfBasicVerbs(t *testing.T) {
	got := Sprintf("%d-%5.2f-%s", []value.Value{
		value.NewInt(7), value.NewFlt(3.14159), value.NewStr("hi"),
	}, "%.6g")
	if got != "7- 3.14-hi" {
		t.Fatalf("want %q, got %q", "7- 3.14-hi", got)
	}
}

func TestSprintfCharVerb(t *testing.T) {
	if got := Sprintf("%c", []value.Value{value.NewInt(65)}, "%.6g"); got != "A" {
		t.Fatalf("want A, got %q", got)
	}
	if got := Sprintf("%c", []value.Value{value.NewStr("zebra")}, "%.6g"); got != "z" {
		t.Fatalf("want z, got %q", got)
	}
}

func TestTolowerToupper(t *testing.T) {
	if got := Tolower("HeLLo"); got != "hello" {
		t.Fatalf("want hello, got %q", got)
	}
	if got := Toupper("HeLLo"); got != "HELLO" {
		t.Fatalf("want HELLO, got %q", got)
	}
}
