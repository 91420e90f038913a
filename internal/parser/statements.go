package parser

import (
	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/errors"
	"github.com/hawklang/hawk/internal/lexer"
)

func (p *Parser) parseStatement() ast.Stmt {
	pos := p.cur.Pos
	switch p.cur.Type {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.DO:
		return p.parseDoWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.BREAK:
		p.advance()
		s := &ast.BreakStmt{}
		s.SetPos(pos)
		return s
	case lexer.CONTINUE:
		p.advance()
		s := &ast.ContinueStmt{}
		s.SetPos(pos)
		return s
	case lexer.NEXT:
		p.advance()
		s := &ast.NextStmt{}
		s.SetPos(pos)
		return s
	case lexer.NEXTFILE:
		p.advance()
		s := &ast.NextfileStmt{}
		s.SetPos(pos)
		return s
	case lexer.EXIT:
		p.advance()
		s := &ast.ExitStmt{}
		s.SetPos(pos)
		if p.startsExpr() {
			s.Code = p.parseExpr(false)
		}
		return s
	case lexer.RETURN:
		p.advance()
		s := &ast.ReturnStmt{}
		s.SetPos(pos)
		if p.startsExpr() {
			s.Value = p.parseExpr(false)
		}
		return s
	case lexer.DELETE:
		return p.parseDelete()
	case lexer.PRINT, lexer.PRINTF:
		return p.parsePrint()
	case lexer.SEMI, lexer.NEWLINE:
		s := &ast.EmptyStmt{}
		s.SetPos(pos)
		return s
	default:
		x := p.parseExpr(false)
		s := &ast.ExprStmt{X: x}
		s.SetPos(pos)
		return s
	}
}

// startsExpr reports whether the current token can begin an expression —
// used to tell `return` from `return <expr>` and `exit` from `exit <n>`
// across a statement terminator.
func (p *Parser) startsExpr() bool {
	switch p.cur.Type {
	case lexer.SEMI, lexer.NEWLINE, lexer.RBRACE, lexer.EOF:
		return false
	default:
		return true
	}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(lexer.LPAREN)
	cond := p.parseExpr(false)
	p.expect(lexer.RPAREN)
	p.skipNewlines()
	then := p.parseStatement()

	save := p.saveLookaheadForElse()
	p.skipNewlinesAndSemis()
	var elseStmt ast.Stmt
	if p.cur.Type == lexer.ELSE {
		p.advance()
		p.skipNewlines()
		elseStmt = p.parseStatement()
	} else {
		p.restoreLookahead(save)
	}

	s := &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt}
	s.SetPos(pos)
	return s
}

// lookaheadMark is a minimal save point over (cur, peek, lexer State) used
// only to look past blank lines for a trailing `else`, then roll back if
// none is found — newlines before `else` are otherwise terminators.
type lookaheadMark struct {
	cur, peek lexer.Token
	lex       lexer.State
}

func (p *Parser) saveLookaheadForElse() lookaheadMark {
	return lookaheadMark{p.cur, p.peek, p.curLexer().Save()}
}

func (p *Parser) restoreLookahead(m lookaheadMark) {
	p.cur, p.peek = m.cur, m.peek
	p.curLexer().Restore(m.lex)
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(lexer.LPAREN)
	cond := p.parseExpr(false)
	p.expect(lexer.RPAREN)
	p.skipNewlines()
	body := p.parseStatement()
	s := &ast.WhileStmt{Cond: cond, Body: body}
	s.SetPos(pos)
	return s
}

func (p *Parser) parseDoWhile() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	p.skipNewlines()
	body := p.parseStatement()
	p.skipNewlinesAndSemis()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	cond := p.parseExpr(false)
	p.expect(lexer.RPAREN)
	s := &ast.DoWhileStmt{Body: body, Cond: cond}
	s.SetPos(pos)
	return s
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(lexer.LPAREN)

	// for (k in arr) — distinguished by IDENT IN inside the parens.
	if p.cur.Type == lexer.IDENT && p.peek.Type == lexer.IN {
		key := ast.NewIdent(p.cur.Pos, p.cur.Literal)
		p.advance()
		p.advance()
		arr := p.parseExpr(false)
		p.expect(lexer.RPAREN)
		p.skipNewlines()
		body := p.parseStatement()
		s := &ast.ForInStmt{Key: key, Array: arr, Body: body}
		s.SetPos(pos)
		return s
	}

	var init ast.Stmt
	if p.cur.Type != lexer.SEMI {
		init = p.parseStatement()
	}
	p.expect(lexer.SEMI)
	var cond ast.Expr
	if p.cur.Type != lexer.SEMI {
		cond = p.parseExpr(false)
	}
	p.expect(lexer.SEMI)
	var post ast.Stmt
	if p.cur.Type != lexer.RPAREN {
		post = p.parseStatement()
	}
	p.expect(lexer.RPAREN)
	p.skipNewlines()
	body := p.parseStatement()
	s := &ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body}
	s.SetPos(pos)
	return s
}

func (p *Parser) parseDelete() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	nameTok := p.expect(lexer.IDENT)
	arr := ast.NewIdent(nameTok.Pos, nameTok.Literal)
	s := &ast.DeleteStmt{Array: arr}
	s.SetPos(pos)
	if p.cur.Type == lexer.LBRACK {
		p.advance()
		for {
			s.Indices = append(s.Indices, p.parseExpr(false))
			if p.cur.Type != lexer.COMMA {
				break
			}
			p.advance()
		}
		p.expect(lexer.RBRACK)
	} else if p.cur.Type == lexer.LPAREN {
		// `delete arr()` form accepted by some awks for whole-map clear
		p.advance()
		p.expect(lexer.RPAREN)
	}
	return s
}

// parsePrint parses `print`/`printf` argument lists with the print-context
// `>` rule: an unparenthesized `>` ends the argument list and introduces a
// redirection target rather than being read as a comparison (spec §4.3).
func (p *Parser) parsePrint() ast.Stmt {
	pos := p.cur.Pos
	isPrintf := p.cur.Type == lexer.PRINTF
	p.advance()

	s := &ast.PrintStmt{Printf: isPrintf}
	s.SetPos(pos)

	if p.startsExpr() && !p.startsRedirect() {
		s.Args = append(s.Args, p.parseExpr(true))
		for p.cur.Type == lexer.COMMA {
			p.advance()
			p.skipNewlines()
			s.Args = append(s.Args, p.parseExpr(true))
		}
	}

	switch p.cur.Type {
	case lexer.GT:
		p.advance()
		s.Redirect = ast.RedirFile
		s.Dest = p.parseExpr(false)
	case lexer.BSHR:
		p.advance()
		s.Redirect = ast.RedirAppend
		s.Dest = p.parseExpr(false)
	case lexer.BOR:
		p.advance()
		s.Redirect = ast.RedirPipe
		s.Dest = p.parseExpr(false)
	case lexer.BPIPE2:
		p.advance()
		s.Redirect = ast.RedirCoPipe
		s.Dest = p.parseExpr(false)
	}
	return s
}

func (p *Parser) startsRedirect() bool {
	switch p.cur.Type {
	case lexer.GT, lexer.BSHR, lexer.BOR, lexer.BPIPE2:
		return true
	default:
		return false
	}
}
