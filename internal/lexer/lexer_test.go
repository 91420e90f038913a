package lexer

import "testing"

func collect(src string) []Token {
	l := New("<test>", src)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func TestBasicTokens(t *testing.T) {
	toks := collect(`BEGIN { print "hi" }`)
	want := []Type{BEGIN, LBRACE, PRINT, STRING, RBRACE, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestDivisionVsRegex(t *testing.T) {
	// after an identifier, '/' is division
	toks := collect(`x / y`)
	if toks[1].Type != SLASH {
		t.Fatalf("expected division after ident, got %s", toks[1].Type)
	}

	// at the start of an expression, '/' starts a regex literal
	toks = collect(`/foo/`)
	if toks[0].Type != ERE || toks[0].Literal != "foo" {
		t.Fatalf("expected regex literal foo, got %s %q", toks[0].Type, toks[0].Literal)
	}

	// after '=' (operand context), '/' starts a regex
	toks = collect(`x = /foo/`)
	if toks[2].Type != ERE {
		t.Fatalf("expected regex after '=', got %s", toks[2].Type)
	}

	// after ')', '/' is division
	toks = collect(`f() / 2`)
	var slashSeen bool
	for _, tok := range toks {
		if tok.Type == SLASH {
			slashSeen = true
		}
	}
	if !slashSeen {
		t.Fatalf("expected division after ')', got %v", toks)
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := []struct {
		src  string
		typ  Type
		lit  string
	}{
		{"42", INT, "42"},
		{"0x1A", INT, "0x1A"},
		{"3.14", FLOAT, "3.14"},
		{"1e10", FLOAT, "1e10"},
		{".5", FLOAT, ".5"},
	}
	for _, c := range cases {
		toks := collect(c.src)
		if toks[0].Type != c.typ || toks[0].Literal != c.lit {
			t.Errorf("%q: got %s %q, want %s %q", c.src, toks[0].Type, toks[0].Literal, c.typ, c.lit)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := collect(`"a\tb\n"`)
	if toks[0].Literal != "a\tb\n" {
		t.Fatalf("got %q", toks[0].Literal)
	}
}

func TestRegexEscapedDelimiter(t *testing.T) {
	toks := collect(`/a\/b/`)
	if toks[0].Type != ERE || toks[0].Literal != "a/b" {
		t.Fatalf("got %s %q", toks[0].Type, toks[0].Literal)
	}
}

func TestNewlineSignificant(t *testing.T) {
	toks := collect("x = 1\ny = 2")
	foundNewline := false
	for _, tok := range toks {
		if tok.Type == NEWLINE {
			foundNewline = true
		}
	}
	if !foundNewline {
		t.Fatalf("expected a NEWLINE token, got %v", toks)
	}
}

func TestLineContinuation(t *testing.T) {
	toks := collect("x = 1 + \\\n2")
	for _, tok := range toks {
		if tok.Type == NEWLINE {
			t.Fatalf("backslash-newline must not produce a NEWLINE token: %v", toks)
		}
	}
}

func TestIncludeAndGlobalDirectives(t *testing.T) {
	toks := collect(`@include "foo.hawk"`)
	if toks[0].Type != INCLUDE {
		t.Fatalf("got %s", toks[0].Type)
	}
	toks = collect(`@global x, y`)
	if toks[0].Type != GLOBALDECL {
		t.Fatalf("got %s", toks[0].Type)
	}
}

func TestDynamicRegexLiteral(t *testing.T) {
	toks := collect(`@/foo.*/`)
	if toks[0].Type != DYNERE || toks[0].Literal != "foo.*" {
		t.Fatalf("got %s %q", toks[0].Type, toks[0].Literal)
	}
}
