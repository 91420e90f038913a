// Package parser implements Hawk's recursive-descent grammar (spec §4.3),
// turning a lexer.Token stream into an ast.Program. Grounded on the
// structure of the teacher's internal/parser package: a Parser struct
// holding cur/peek tokens, one parse* method per grammar production, and
// an accumulated error list supporting both strict (stop at first error)
// and lenient (collect and continue) modes.
package parser

import (
	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/errors"
	"github.com/hawklang/hawk/internal/lexer"
)

// SourceLoader resolves an @include path to source text, letting hosts
// supply their own include search path without this package depending on
// an os.* import directly.
type SourceLoader func(path string) (string, error)

type Parser struct {
	loader SourceLoader
	strict bool

	lexStack []*lexer.Lexer
	fileStack []string
	includeSeen map[string]bool // cycle detection by path identity

	cur, peek lexer.Token

	errs errors.List

	program *ast.Program
	globalSeen map[string]bool
}

type Option func(*Parser)

func WithLoader(l SourceLoader) Option { return func(p *Parser) { p.loader = l } }
func WithLenient() Option              { return func(p *Parser) { p.strict = false } }

// New creates a Parser over a single top-level source; file is used for
// error positions and as the @include cycle-detection root.
func New(file, src string, opts ...Option) *Parser {
	p := &Parser{
		strict:      true,
		includeSeen: map[string]bool{},
		globalSeen:  map[string]bool{},
		program:     ast.NewProgram(),
	}
	for _, o := range opts {
		o(p)
	}
	p.pushSource(file, src)
	p.advance()
	p.advance()
	return p
}

func (p *Parser) pushSource(file, src string) {
	p.lexStack = append(p.lexStack, lexer.New(file, src))
	p.fileStack = append(p.fileStack, file)
	p.includeSeen[file] = true
}

func (p *Parser) curLexer() *lexer.Lexer { return p.lexStack[len(p.lexStack)-1] }

// advance pulls the next raw token, popping finished include files off the
// source stack transparently so the parser never sees an EOF except at the
// true end of the top-level program.
func (p *Parser) advance() {
	p.cur = p.peek
	for {
		l := p.curLexer()
		tok := l.Next()
		if tok.Type == lexer.EOF && len(p.lexStack) > 1 {
			p.lexStack = p.lexStack[:len(p.lexStack)-1]
			p.fileStack = p.fileStack[:len(p.fileStack)-1]
			continue
		}
		p.peek = tok
		return
	}
}

func (p *Parser) errorf(kind errors.Kind, format string, args ...any) {
	e := errors.New(kind, p.cur.Pos, format, args...)
	p.errs = append(p.errs, e)
}

// Errors returns every error accumulated in lenient mode (strict mode
// panics via a recover in Parse, converting to a single returned error).
func (p *Parser) Errors() errors.List { return p.errs }

// Parse runs the parser to completion and returns the compiled Program.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	if p.strict {
		defer func() {
			if r := recover(); r != nil {
				if stop, ok := r.(parseStop); ok {
					err = stop.err
					return
				}
				panic(r)
			}
		}()
	}

	p.skipNewlinesAndSemis()
	for p.cur.Type != lexer.EOF {
		p.parseTopLevel()
		p.skipNewlinesAndSemis()
	}

	if len(p.errs) > 0 {
		return p.program, p.errs
	}
	return p.program, nil
}

type parseStop struct{ err error }

func (p *Parser) fail(kind errors.Kind, format string, args ...any) {
	e := errors.New(kind, p.cur.Pos, format, args...)
	if p.strict {
		panic(parseStop{e})
	}
	p.errs = append(p.errs, e)
	p.recover()
}

// recover skips tokens until a statement boundary, so lenient mode can keep
// parsing after an error instead of cascading failures.
func (p *Parser) recover() {
	for p.cur.Type != lexer.EOF && p.cur.Type != lexer.SEMI && p.cur.Type != lexer.NEWLINE && p.cur.Type != lexer.RBRACE {
		p.advance()
	}
}

func (p *Parser) skipNewlinesAndSemis() {
	for p.cur.Type == lexer.NEWLINE || p.cur.Type == lexer.SEMI {
		p.advance()
	}
}

func (p *Parser) skipNewlines() {
	for p.cur.Type == lexer.NEWLINE {
		p.advance()
	}
}

func (p *Parser) expect(t lexer.Type) lexer.Token {
	if p.cur.Type != t {
		p.fail(kindFor(t), "expected %s, got %s %q", t, p.cur.Type, p.cur.Literal)
		return p.cur
	}
	tok := p.cur
	p.advance()
	return tok
}

func kindFor(t lexer.Type) errors.Kind {
	switch t {
	case lexer.LBRACE:
		return errors.LBRACE
	case lexer.RBRACE:
		return errors.RBRACE
	case lexer.LPAREN:
		return errors.LPAREN
	case lexer.RPAREN:
		return errors.RPAREN
	case lexer.RBRACK:
		return errors.RBRACK
	case lexer.SEMI:
		return errors.SCOLON
	case lexer.COLON:
		return errors.COLON
	case lexer.IDENT:
		return errors.IDENT
	case lexer.ASSIGN:
		return errors.ASSIGN
	case lexer.EOF:
		return errors.EOF
	default:
		return errors.SYNTAX
	}
}

// parseTopLevel parses one declaration-order top-level item: @include,
// @global, function decl, BEGIN/END, or a pattern-action rule (spec §4.3).
func (p *Parser) parseTopLevel() {
	switch p.cur.Type {
	case lexer.INCLUDE:
		p.parseInclude()
	case lexer.GLOBALDECL:
		p.parseGlobalDecl()
	case lexer.FUNCTION:
		p.parseFunctionDecl()
	case lexer.BEGIN:
		p.advance()
		p.skipNewlines()
		body := p.parseBlock()
		p.program.Begin = append(p.program.Begin, body)
	case lexer.END:
		p.advance()
		p.skipNewlines()
		body := p.parseBlock()
		p.program.End = append(p.program.End, body)
	default:
		p.parseRule()
	}
}

func (p *Parser) parseInclude() {
	pos := p.cur.Pos
	if p.peek.Type != lexer.STRING {
		p.advance()
		p.expect(lexer.STRING)
		return
	}
	// Nothing past the path literal has been scanned yet, so the included
	// source can be pushed before any later token of this one is read.
	path := p.peek.Literal
	skipPath := func() { p.advance(); p.advance() }
	if p.includeSeen[path] {
		skipPath()
		p.fail(errors.EXIST, "include cycle detected for %q", path)
		return
	}
	if p.loader == nil {
		skipPath()
		p.errorf(errors.NOENT, "@include %q: no source loader configured", path)
		return
	}
	src, err := p.loader(path)
	if err != nil {
		skipPath()
		e := errors.New(errors.NOENT, pos, "@include %q: %v", path, err)
		if p.strict {
			panic(parseStop{e})
		}
		p.errs = append(p.errs, e)
		return
	}
	p.pushSource(path, src)
	p.advance() // cur = path literal, peek = first token of the included source
	p.advance() // cur = first token of the included source
}

func (p *Parser) parseGlobalDecl() {
	p.advance()
	for {
		tok := p.expect(lexer.IDENT)
		p.declareGlobal(tok.Literal)
		if p.cur.Type != lexer.COMMA {
			break
		}
		p.advance()
	}
}

func (p *Parser) declareGlobal(name string) {
	if !p.globalSeen[name] {
		p.globalSeen[name] = true
		p.program.Globals = append(p.program.Globals, name)
	}
}

func (p *Parser) parseFunctionDecl() {
	pos := p.cur.Pos
	p.advance()
	nameTok := p.expect(lexer.IDENT)
	if _, dup := p.program.Functions[nameTok.Literal]; dup {
		p.fail(errors.FID, "function %q already defined", nameTok.Literal)
	}
	p.expect(lexer.LPAREN)
	var params []string
	for p.cur.Type != lexer.RPAREN {
		t := p.expect(lexer.IDENT)
		params = append(params, t.Literal)
		if p.cur.Type == lexer.COMMA {
			p.advance()
			p.skipNewlines()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	p.skipNewlines()
	body := p.parseBlock()
	fn := &ast.FuncDecl{Name: nameTok.Literal, Params: params, Body: body, Pos: pos}
	p.program.Functions[nameTok.Literal] = fn
}

// parseRule parses one pattern-action pair. An action-only rule (`{ ... }`)
// runs for every record; a pattern-only rule (bare expression or /re/ with
// no action) defaults its action to `print $0`.
func (p *Parser) parseRule() {
	rule := &ast.Rule{Kind: ast.PatternAlways}

	if p.cur.Type != lexer.LBRACE {
		start := p.parseExpr(false)
		if re, ok := start.(*ast.RegexLit); ok {
			rule.Kind = ast.PatternRegex
			rule.Start = re
		} else {
			rule.Kind = ast.PatternExpr
			rule.Start = start
		}
		if p.cur.Type == lexer.COMMA {
			p.advance()
			p.skipNewlines()
			rule.Kind = ast.PatternRange
			rule.End = p.parseExpr(false)
		}
	}

	p.skipNewlines()
	if p.cur.Type == lexer.LBRACE {
		rule.Action = p.parseBlock()
	} else {
		rule.Action = &ast.BlockStmt{List: []ast.Stmt{
			&ast.PrintStmt{Args: []ast.Expr{}},
		}}
	}
	p.program.Rules = append(p.program.Rules, rule)
}

// parseBlock parses a `{ stmt* }` sequence.
func (p *Parser) parseBlock() *ast.BlockStmt {
	pos := p.cur.Pos
	p.expect(lexer.LBRACE)
	blk := &ast.BlockStmt{}
	blk.SetPos(pos)
	p.skipNewlinesAndSemis()
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			blk.List = append(blk.List, stmt)
		}
		p.endStatement()
	}
	p.expect(lexer.RBRACE)
	return blk
}

// endStatement consumes the statement terminator: one or more NEWLINE/SEMI,
// or nothing if we are already at `}` (the last statement in a block needs
// no terminator).
func (p *Parser) endStatement() {
	if p.cur.Type == lexer.RBRACE || p.cur.Type == lexer.EOF {
		return
	}
	if p.cur.Type != lexer.NEWLINE && p.cur.Type != lexer.SEMI {
		p.fail(errors.SCOLON, "expected statement terminator, got %s %q", p.cur.Type, p.cur.Literal)
	}
	p.skipNewlinesAndSemis()
}

