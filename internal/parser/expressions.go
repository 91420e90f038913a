package parser

import (
	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/errors"
	"github.com/hawklang/hawk/internal/lexer"
)

// parseExpr is the assignment-precedence entry point used everywhere an
// expression is expected. noGT suppresses top-level `>` as a comparison
// operator (the print-argument-list rule, spec §4.3); it is reset to false
// as soon as parsing descends into parentheses, call arguments, or a
// subscript, since those contexts are unambiguous.
func (p *Parser) parseExpr(noGT bool) ast.Expr {
	return p.parseAssignment(noGT)
}

var assignOps = map[lexer.Type]ast.AssignOp{
	lexer.ASSIGN:     ast.ASSIGN_SET,
	lexer.ADD_ASSIGN: ast.ASSIGN_ADD,
	lexer.SUB_ASSIGN: ast.ASSIGN_SUB,
	lexer.MUL_ASSIGN: ast.ASSIGN_MUL,
	lexer.DIV_ASSIGN: ast.ASSIGN_DIV,
	lexer.MOD_ASSIGN: ast.ASSIGN_MOD,
	lexer.POW_ASSIGN: ast.ASSIGN_POW,
}

func (p *Parser) parseAssignment(noGT bool) ast.Expr {
	left := p.parseTernary(noGT)
	if op, ok := assignOps[p.cur.Type]; ok {
		if !isLvalue(left) {
			p.fail(errors.LVALUE, "invalid assignment target")
		}
		pos := p.cur.Pos
		p.advance()
		p.skipNewlines()
		right := p.parseAssignment(noGT) // right-associative
		e := &ast.AssignExpr{Op: op, Target: left, Value: right}
		e.SetPos(pos)
		return e
	}
	return left
}

func isLvalue(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.FieldExpr, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTernary(noGT bool) ast.Expr {
	cond := p.parseOr(noGT)
	if p.cur.Type == lexer.QUESTION {
		pos := p.cur.Pos
		p.advance()
		p.skipNewlines()
		then := p.parseAssignment(false)
		p.skipNewlines()
		p.expect(lexer.COLON)
		p.skipNewlines()
		els := p.parseAssignment(noGT)
		e := &ast.TernaryExpr{Cond: cond, Then: then, Else: els}
		e.SetPos(pos)
		return e
	}
	return cond
}

func (p *Parser) parseOr(noGT bool) ast.Expr {
	left := p.parseAnd(noGT)
	for p.cur.Type == lexer.LOR {
		pos := p.cur.Pos
		p.advance()
		p.skipNewlines()
		right := p.parseAnd(noGT)
		e := &ast.BinaryExpr{Op: ast.OR_OP, Left: left, Right: right}
		e.SetPos(pos)
		left = e
	}
	return left
}

func (p *Parser) parseAnd(noGT bool) ast.Expr {
	left := p.parseIn(noGT)
	for p.cur.Type == lexer.LAND {
		pos := p.cur.Pos
		p.advance()
		p.skipNewlines()
		right := p.parseIn(noGT)
		e := &ast.BinaryExpr{Op: ast.AND_OP, Left: left, Right: right}
		e.SetPos(pos)
		left = e
	}
	return left
}

func (p *Parser) parseIn(noGT bool) ast.Expr {
	left := p.parseMatch(noGT)
	for p.cur.Type == lexer.IN {
		pos := p.cur.Pos
		p.advance()
		arrTok := p.expect(lexer.IDENT)
		arr := ast.NewIdent(arrTok.Pos, arrTok.Literal)
		e := &ast.InExpr{Keys: []ast.Expr{left}, Array: arr}
		e.SetPos(pos)
		left = e
	}
	return left
}

func (p *Parser) parseMatch(noGT bool) ast.Expr {
	left := p.parseEquality(noGT)
	for p.cur.Type == lexer.MATCH || p.cur.Type == lexer.NOMATCH {
		negate := p.cur.Type == lexer.NOMATCH
		pos := p.cur.Pos
		p.advance()
		right := p.parseEquality(noGT)
		e := &ast.MatchExpr{Negate: negate, Left: left, Right: right}
		e.SetPos(pos)
		left = e
	}
	return left
}

func (p *Parser) parseEquality(noGT bool) ast.Expr {
	left := p.parseRelational(noGT)
	for p.cur.Type == lexer.EQ || p.cur.Type == lexer.NE {
		op := ast.EQ_OP
		if p.cur.Type == lexer.NE {
			op = ast.NE_OP
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseRelational(noGT)
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.SetPos(pos)
		left = e
	}
	return left
}

func (p *Parser) parseRelational(noGT bool) ast.Expr {
	left := p.parseConcat(noGT)
	for {
		var op ast.BinOp
		switch p.cur.Type {
		case lexer.LT:
			op = ast.LT_OP
		case lexer.LE:
			op = ast.LE_OP
		case lexer.GE:
			op = ast.GE_OP
		case lexer.GT:
			if noGT {
				return left
			}
			op = ast.GT_OP
		default:
			return left
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseConcat(noGT)
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.SetPos(pos)
		left = e
	}
}

// startsOperand reports the FIRST set of the pipeGetline level and below: if
// the current token could start one of these, implicit concatenation
// continues (spec §4.3's "attempting a right-hand primary when the
// current token can start one").
func (p *Parser) startsOperand() bool {
	switch p.cur.Type {
	case lexer.IDENT, lexer.INT, lexer.FLOAT, lexer.STRING, lexer.ERE, lexer.DYNERE,
		lexer.DOLLAR, lexer.LPAREN, lexer.NOT, lexer.MINUS, lexer.PLUS,
		lexer.INCR, lexer.DECR, lexer.GETLINE:
		return true
	default:
		return false
	}
}

func (p *Parser) parseConcat(noGT bool) ast.Expr {
	left := p.parsePipeGetline(noGT)
	for p.startsOperand() {
		right := p.parsePipeGetline(noGT)
		e := &ast.BinaryExpr{Op: ast.CONCAT_OP, Left: left, Right: right}
		e.SetPos(left.Pos())
		left = e
	}
	return left
}

func (p *Parser) parsePipeGetline(noGT bool) ast.Expr {
	left := p.parseBitOr(noGT)
	for {
		if p.cur.Type == lexer.BOR && p.peek.Type == lexer.GETLINE {
			pos := p.cur.Pos
			p.advance()
			p.advance()
			target := p.tryParseSimpleLvalue()
			e := &ast.GetlineExpr{Kind: ast.GetlineFromCmd, Source: left, Target: target}
			e.SetPos(pos)
			left = e
			continue
		}
		if p.cur.Type == lexer.BPIPE2 && p.peek.Type == lexer.GETLINE {
			pos := p.cur.Pos
			p.advance()
			p.advance()
			target := p.tryParseSimpleLvalue()
			e := &ast.GetlineExpr{Kind: ast.GetlineFromCoCmd, Source: left, Target: target}
			e.SetPos(pos)
			left = e
			continue
		}
		break
	}
	return left
}

func (p *Parser) parseBitOr(noGT bool) ast.Expr {
	left := p.parseShift(noGT)
	// A '|' followed by getline belongs to parsePipeGetline, and inside a
	// print argument list (noGT) a bare '|' is the pipe redirection.
	for (p.cur.Type == lexer.BOR && p.peek.Type != lexer.GETLINE && !noGT) ||
		p.cur.Type == lexer.BXOR || p.cur.Type == lexer.BAND {
		var op ast.BinOp
		switch p.cur.Type {
		case lexer.BOR:
			op = ast.BOR_OP
		case lexer.BXOR:
			op = ast.BXOR_OP
		default:
			op = ast.BAND_OP
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseShift(noGT)
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.SetPos(pos)
		left = e
	}
	return left
}

func (p *Parser) parseShift(noGT bool) ast.Expr {
	left := p.parseAdditive(noGT)
	// Inside a print argument list (noGT) '>>' is the append redirection.
	for p.cur.Type == lexer.BSHL || (p.cur.Type == lexer.BSHR && !noGT) {
		op := ast.SHL_OP
		if p.cur.Type == lexer.BSHR {
			op = ast.SHR_OP
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseAdditive(noGT)
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.SetPos(pos)
		left = e
	}
	return left
}

func (p *Parser) parseAdditive(noGT bool) ast.Expr {
	left := p.parseMultiplicative(noGT)
	for p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		op := ast.ADD_OP
		if p.cur.Type == lexer.MINUS {
			op = ast.SUB_OP
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseMultiplicative(noGT)
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.SetPos(pos)
		left = e
	}
	return left
}

func (p *Parser) parseMultiplicative(noGT bool) ast.Expr {
	left := p.parseExponent(noGT)
	for p.cur.Type == lexer.STAR || p.cur.Type == lexer.SLASH || p.cur.Type == lexer.PCT {
		var op ast.BinOp
		switch p.cur.Type {
		case lexer.STAR:
			op = ast.MUL_OP
		case lexer.SLASH:
			op = ast.DIV_OP
		default:
			op = ast.MOD_OP
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseExponent(noGT)
		e := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		e.SetPos(pos)
		left = e
	}
	return left
}

func (p *Parser) parseExponent(noGT bool) ast.Expr {
	left := p.parseUnary(noGT)
	if p.cur.Type == lexer.POW {
		pos := p.cur.Pos
		p.advance()
		right := p.parseExponent(noGT) // right-assoc
		e := &ast.BinaryExpr{Op: ast.POW_OP, Left: left, Right: right}
		e.SetPos(pos)
		return e
	}
	return left
}

func (p *Parser) parseUnary(noGT bool) ast.Expr {
	switch p.cur.Type {
	case lexer.MINUS:
		pos := p.cur.Pos
		p.advance()
		operand := p.parseUnary(noGT)
		e := &ast.UnaryExpr{Op: ast.NEG_OP, Operand: operand}
		e.SetPos(pos)
		return e
	case lexer.PLUS:
		pos := p.cur.Pos
		p.advance()
		operand := p.parseUnary(noGT)
		e := &ast.UnaryExpr{Op: ast.POS_OP, Operand: operand}
		e.SetPos(pos)
		return e
	case lexer.NOT:
		pos := p.cur.Pos
		p.advance()
		operand := p.parseUnary(noGT)
		e := &ast.UnaryExpr{Op: ast.NOT_OP, Operand: operand}
		e.SetPos(pos)
		return e
	case lexer.INCR, lexer.DECR:
		incr := p.cur.Type == lexer.INCR
		pos := p.cur.Pos
		p.advance()
		target := p.parseUnary(noGT)
		e := &ast.IncDecExpr{Target: target, Incr: incr, Prefix: true}
		e.SetPos(pos)
		return e
	default:
		return p.parsePostfix(noGT)
	}
}

func (p *Parser) parsePostfix(noGT bool) ast.Expr {
	e := p.parsePrimary(noGT)
	for p.cur.Type == lexer.INCR || p.cur.Type == lexer.DECR {
		if !isLvalue(e) {
			break
		}
		incr := p.cur.Type == lexer.INCR
		pos := p.cur.Pos
		p.advance()
		pe := &ast.IncDecExpr{Target: e, Incr: incr, Prefix: false}
		pe.SetPos(pos)
		e = pe
	}
	return e
}

// tryParseSimpleLvalue parses an optional getline target: an identifier
// (possibly with a map subscript) or a $field, without consuming anything
// that isn't clearly part of the lvalue — used so `cmd | getline < x`-style
// ambiguities never arise (only IDENT/DOLLAR may start a getline target).
func (p *Parser) tryParseSimpleLvalue() ast.Expr {
	switch p.cur.Type {
	case lexer.IDENT, lexer.DOLLAR:
		return p.parsePostfix(false)
	default:
		return nil
	}
}

func (p *Parser) parsePrimary(noGT bool) ast.Expr {
	pos := p.cur.Pos
	switch p.cur.Type {
	case lexer.INT:
		lit := p.cur.Literal
		p.advance()
		n, err := parseIntLit(lit)
		if err != nil {
			p.fail(errors.SYNTAX, "invalid integer literal %q", lit)
		}
		e := &ast.IntLit{Value: n}
		e.SetPos(pos)
		return e
	case lexer.FLOAT:
		lit := p.cur.Literal
		p.advance()
		f, err := parseFloatLit(lit)
		if err != nil {
			p.fail(errors.SYNTAX, "invalid float literal %q", lit)
		}
		e := &ast.FloatLit{Value: f}
		e.SetPos(pos)
		return e
	case lexer.STRING:
		lit := p.cur.Literal
		p.advance()
		e := &ast.StringLit{Value: lit}
		e.SetPos(pos)
		return e
	case lexer.ERE:
		lit := p.cur.Literal
		p.advance()
		e := &ast.RegexLit{Pattern: lit}
		e.SetPos(pos)
		return e
	case lexer.DYNERE:
		lit := p.cur.Literal
		p.advance()
		e := &ast.RegexLit{Pattern: lit, Dynamic: true}
		e.SetPos(pos)
		return e
	case lexer.DOLLAR:
		p.advance()
		idx := p.parsePrimary(false)
		e := &ast.FieldExpr{Index: idx}
		e.SetPos(pos)
		return e
	case lexer.LPAREN:
		p.advance()
		first := p.parseExpr(false)
		if p.cur.Type == lexer.COMMA {
			// (k1, k2, ...) in arr
			keys := []ast.Expr{first}
			for p.cur.Type == lexer.COMMA {
				p.advance()
				p.skipNewlines()
				keys = append(keys, p.parseExpr(false))
			}
			p.expect(lexer.RPAREN)
			p.expect(lexer.IN)
			arrTok := p.expect(lexer.IDENT)
			arr := ast.NewIdent(arrTok.Pos, arrTok.Literal)
			e := &ast.InExpr{Keys: keys, Array: arr}
			e.SetPos(pos)
			return e
		}
		p.expect(lexer.RPAREN)
		e := &ast.GroupingExpr{Inner: first}
		e.SetPos(pos)
		return e
	case lexer.NOT, lexer.MINUS, lexer.PLUS, lexer.INCR, lexer.DECR:
		return p.parseUnary(noGT)
	case lexer.GETLINE:
		return p.parseGetlinePrimary()
	case lexer.IDENT:
		return p.parseIdentOrCall()
	default:
		p.fail(errors.EXPR, "unexpected token %s %q in expression", p.cur.Type, p.cur.Literal)
		e := &ast.StringLit{Value: ""}
		e.SetPos(pos)
		return e
	}
}

func (p *Parser) parseGetlinePrimary() ast.Expr {
	pos := p.cur.Pos
	p.advance()
	target := p.tryParseSimpleLvalue()
	if p.cur.Type == lexer.LT {
		p.advance()
		src := p.parseConcat(false)
		e := &ast.GetlineExpr{Kind: ast.GetlineFromFile, Target: target, Source: src}
		e.SetPos(pos)
		return e
	}
	e := &ast.GetlineExpr{Kind: ast.GetlinePlain, Target: target}
	e.SetPos(pos)
	return e
}

func (p *Parser) parseIdentOrCall() ast.Expr {
	pos := p.cur.Pos
	name := p.cur.Literal
	p.advance()

	if p.cur.Type == lexer.LPAREN {
		p.advance()
		var args []ast.Expr
		for p.cur.Type != lexer.RPAREN {
			args = append(args, p.parseExpr(false))
			if p.cur.Type == lexer.COMMA {
				p.advance()
				p.skipNewlines()
				continue
			}
			break
		}
		p.expect(lexer.RPAREN)
		e := &ast.CallExpr{Name: name, Args: args}
		e.SetPos(pos)
		return e
	}

	var e ast.Expr = ast.NewIdent(pos, name)

	if p.cur.Type == lexer.LBRACK {
		p.advance()
		var idxs []ast.Expr
		for {
			idxs = append(idxs, p.parseExpr(false))
			if p.cur.Type != lexer.COMMA {
				break
			}
			p.advance()
		}
		p.expect(lexer.RBRACK)
		ie := &ast.IndexExpr{Array: e, Indices: idxs}
		ie.SetPos(pos)
		e = ie
	}
	return e
}
