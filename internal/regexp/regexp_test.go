package regexp

import "testing"

func TestLiteralMatch(t *testing.T) {
	re := MustCompile("abc")
	if !re.MatchString("xxabcxx") {
		t.Fatalf("expected match")
	}
	if re.MatchString("xyz") {
		t.Fatalf("expected no match")
	}
}

func TestStarLeftmostLongest(t *testing.T) {
	re := MustCompile("a*")
	idx := re.FindSubmatchIndex("aaab")
	if idx == nil || idx[0] != 0 || idx[1] != 3 {
		t.Fatalf("want [0 3], got %v", idx)
	}
}

func TestAlternation(t *testing.T) {
	re := MustCompile("cat|catfish")
	idx := re.FindSubmatchIndex("catfish")
	if idx == nil || idx[1] != 7 {
		t.Fatalf("want leftmost-longest match through catfish, got %v", idx)
	}
}

func TestCapturingGroups(t *testing.T) {
	re := MustCompile("([a-z]+)=([0-9]+)")
	idx := re.FindSubmatchIndex("key=42")
	if idx == nil {
		t.Fatalf("expected a match")
	}
	s := []rune("key=42")
	if string(s[idx[2]:idx[3]]) != "key" {
		t.Fatalf("group 1 = %q, want key", string(s[idx[2]:idx[3]]))
	}
	if string(s[idx[4]:idx[5]]) != "42" {
		t.Fatalf("group 2 = %q, want 42", string(s[idx[4]:idx[5]]))
	}
}

func TestInterval(t *testing.T) {
	re := MustCompile("a{2,3}")
	if re.MatchString("a") {
		t.Fatalf("single a should not match a{2,3}")
	}
	idx := re.FindSubmatchIndex("aaaa")
	if idx == nil || idx[1]-idx[0] != 3 {
		t.Fatalf("want 3 a's matched (greedy cap at max), got %v", idx)
	}
}

func TestAnchors(t *testing.T) {
	re := MustCompile("^foo$")
	if !re.MatchString("foo") {
		t.Fatalf("expected exact match")
	}
	if re.MatchString("foobar") {
		t.Fatalf("$ should anchor to end")
	}
}

func TestCharacterClassNegation(t *testing.T) {
	re := MustCompile("[^0-9]+")
	idx := re.FindSubmatchIndex("123abc456")
	if idx == nil || string([]rune("123abc456")[idx[0]:idx[1]]) != "abc" {
		t.Fatalf("want abc, got %v", idx)
	}
}

func TestNonCapturingGroupAndCaseInsensitive(t *testing.T) {
	re := MustCompile("(?:foo)(?i)BAR")
	if !re.MatchString("foobar") {
		t.Fatalf("expected (?i) to fold BAR against bar")
	}
}

func TestShorthandClasses(t *testing.T) {
	re := MustCompile(`\d+`)
	idx := re.FindSubmatchIndex("ab123cd")
	if idx == nil || string([]rune("ab123cd")[idx[0]:idx[1]]) != "123" {
		t.Fatalf("want 123, got %v", idx)
	}
}

func TestPosixNamedClass(t *testing.T) {
	re := MustCompile("[[:alpha:]]+")
	idx := re.FindSubmatchIndex("12abcXYZ34")
	if idx == nil || string([]rune("12abcXYZ34")[idx[0]:idx[1]]) != "abcXYZ" {
		t.Fatalf("want abcXYZ, got %v", idx)
	}
}

// Overall match length is always leftmost-longest regardless of laziness
// (exec.go's driver continuation explores every alternative); what a lazy
// quantifier changes is which of several same-length paths is recorded
// first, which shows up in capture-group boundaries.
func TestLazyQuantifierCaptureOrder(t *testing.T) {
	greedy := MustCompile("(a*)(a*)")
	idx := greedy.FindSubmatchIndex("aaa")
	if idx == nil || idx[0] != 0 || idx[1] != 3 || idx[2] != 0 || idx[3] != 3 || idx[4] != 3 || idx[5] != 3 {
		t.Fatalf("want greedy group 1 to claim everything, got %v", idx)
	}

	lazy, err := Compile("(a*?)(a*)", false, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	idx = lazy.FindSubmatchIndex("aaa")
	if idx == nil || idx[0] != 0 || idx[1] != 3 || idx[2] != 0 || idx[3] != 0 || idx[4] != 0 || idx[5] != 3 {
		t.Fatalf("want lazy group 1 to claim nothing, got %v", idx)
	}
}

func TestLazyQuestionMarkDoesNotDoubleWrap(t *testing.T) {
	re, err := Compile("ab*?c", false, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("abbbc") {
		t.Fatalf("expected ab*?c to still match abbbc (lazy b* can still grow to satisfy c)")
	}
	if !re.MatchString("ac") {
		t.Fatalf("expected ab*?c to match ac (lazy b* matching zero times)")
	}
}

func TestUngreedyFlagInvertsDefault(t *testing.T) {
	re, err := Compile("(a*)(a*)", false, true) // ungreedy: bare quantifiers default to lazy
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	idx := re.FindSubmatchIndex("aaa")
	if idx == nil || idx[2] != 0 || idx[3] != 0 || idx[4] != 0 || idx[5] != 3 {
		t.Fatalf("want ungreedy default group 1 to claim nothing, got %v", idx)
	}

	flipped, err := Compile("(a*?)(a*?)", false, true) // explicit `?` flips back to greedy
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	idx = flipped.FindSubmatchIndex("aaa")
	if idx == nil || idx[2] != 0 || idx[3] != 3 || idx[4] != 3 || idx[5] != 3 {
		t.Fatalf("want explicit `?` under ungreedy to claim everything, got %v", idx)
	}
}
