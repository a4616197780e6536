package parser

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

// parseBlock parses "{ stmt* tail? }". A final expression without ';' becomes the tail.
func (p *Parser) parseBlock() *ast.Block {
	open := p.consume(LEFT_BRACE, "expected '{'")
	block := &ast.Block{Pos: p.makePos(open)}
	if open.Type == ILLEGAL {
		block.EndPos = block.Pos
		return block
	}

	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		before := p.current
		if p.match(SEMICOLON) {
			continue
		}

		stmt := p.parseStatement()
		if stmt != nil {
			if es, ok := stmt.(*ast.ExprStmt); ok && !es.Semicolon && p.check(RIGHT_BRACE) {
				block.Tail = es.Expr
			} else {
				block.Stmts = append(block.Stmts, stmt)
			}
		}

		if !p.statementEnded() {
			p.errorAtCurrent(errors.ErrorMissingTerminator, "expected newline or ';' after statement, found "+describe(p.peek()))
			p.synchronize()
		}
		if p.current == before {
			p.advance()
		}
	}

	p.consume(RIGHT_BRACE, "expected '}' to close block")
	block.EndPos = p.endPos()
	return block
}

// statementEnded reports whether the statement just parsed is properly terminated
func (p *Parser) statementEnded() bool {
	if p.check(RIGHT_BRACE) || p.isAtEnd() || p.startsNewLine() {
		return true
	}
	switch p.previous().Type {
	case SEMICOLON, RIGHT_BRACE:
		return true
	}
	return false
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.peek().Type {
	case LET:
		return p.parseLetStmt()
	case RETURN:
		return p.parseReturnStmt()
	case BREAK:
		return p.parseBreakStmt()
	case CONTINUE:
		tok := p.advance()
		p.match(SEMICOLON)
		return &ast.ContinueStmt{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok)}
	case FN, STRUCT, ENUM, TRAIT, IMPL, CONST, STATIC, TYPE, USE, MOD, DECORATOR, PUB, EXTERN:
		return p.parseItemStmt()
	case ASYNC:
		if p.checkNext(FN) {
			return p.parseItemStmt()
		}
	}

	start := p.peek()
	expr := p.parseExpr()

	if op := ast.AssignTypeFromLexeme(p.peek().Lexeme); op != ast.ILLEGAL_ASSIGN {
		p.advance()
		value := p.parseExpr()
		p.match(SEMICOLON)
		return &ast.AssignStmt{
			Pos:      p.makePos(start),
			EndPos:   value.NodeEndPos(),
			Target:   expr,
			Operator: op,
			Value:    value,
		}
	}

	semi := p.match(SEMICOLON)
	return &ast.ExprStmt{
		Pos:       p.makePos(start),
		EndPos:    p.endPos(),
		Expr:      expr,
		Semicolon: semi,
	}
}

func (p *Parser) parseItemStmt() ast.Stmt {
	start := p.peek()
	item := p.parseItem()
	if item == nil {
		return nil
	}
	return &ast.ItemStmt{
		Pos:    p.makePos(start),
		EndPos: p.endPos(),
		Item:   item,
	}
}

// parseLetStmt parses "let pattern (: Type)? (= value)? (else { ... })?"
func (p *Parser) parseLetStmt() *ast.LetStmt {
	start := p.advance()
	let := &ast.LetStmt{
		Pos:     p.makePos(start),
		Pattern: p.parsePattern(),
	}
	if id, ok := let.Pattern.(*ast.IdentPattern); ok {
		let.Mutable = id.Mutable
	}

	if p.match(COLON) {
		let.Type = p.parseType()
	}
	if p.match(EQUAL) {
		let.Value = p.parseExpr()
	}
	if p.check(ELSE) && !p.startsNewLine() {
		p.advance()
		let.Else = p.parseBlock()
	}
	p.match(SEMICOLON)

	let.EndPos = p.endPos()
	return let
}

// hasOperand reports whether an expression follows on the same line
func (p *Parser) hasOperand() bool {
	if p.isAtEnd() || p.startsNewLine() {
		return false
	}
	switch p.peek().Type {
	case RIGHT_BRACE, RIGHT_PAREN, RIGHT_BRACKET, SEMICOLON, COMMA:
		return false
	}
	return true
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.advance()
	stmt := &ast.ReturnStmt{Pos: p.makePos(start)}
	if p.hasOperand() {
		stmt.Value = p.parseExpr()
	}
	p.match(SEMICOLON)
	stmt.EndPos = p.endPos()
	return stmt
}

func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	start := p.advance()
	stmt := &ast.BreakStmt{Pos: p.makePos(start)}
	if p.hasOperand() {
		stmt.Value = p.parseExpr()
	}
	p.match(SEMICOLON)
	stmt.EndPos = p.endPos()
	return stmt
}
