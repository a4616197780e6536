package parser

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

func (p *Parser) parseFunction(doc string, decorators []*ast.Decorator, public bool) ast.Item {
	fn := p.parseFunctionDecl(doc, decorators, public, true)
	if fn == nil {
		return nil
	}
	return fn
}

// parseExternFunction parses "extern fn" and the optional ABI string: extern "C" fn f()
func (p *Parser) parseExternFunction(doc string, decorators []*ast.Decorator, public bool) ast.Item {
	start := p.advance()
	p.match(STRING)
	if !p.check(FN) {
		p.errorAtCurrent(errors.ErrorMalformedItem, "expected 'fn' after 'extern'")
		p.synchronizeItem()
		return nil
	}
	fn := p.parseFunctionDecl(doc, decorators, public, false)
	if fn == nil {
		return nil
	}
	fn.Pos = p.makePos(start)
	fn.Extern = true
	return fn
}

// parseFunctionDecl parses a function header and, when present, its body.
// Trait methods and extern functions may omit the body.
func (p *Parser) parseFunctionDecl(doc string, decorators []*ast.Decorator, public bool, requireBody bool) *ast.Function {
	startToken := p.peek()
	async := p.match(ASYNC)
	p.consume(FN, "expected 'fn' keyword")

	name, ok := p.consumeIdent("expected function name")
	if !ok {
		p.synchronizeItem()
		return nil
	}

	fn := &ast.Function{
		Pos:        p.makePos(startToken),
		DocComment: doc,
		Decorators: decorators,
		Public:     public,
		Async:      async,
		Name:       name,
	}

	fn.TypeParams = p.parseTypeParams()
	fn.Receiver, fn.Params = p.parseFunctionParameters()

	if p.match(ARROW) {
		fn.Return = p.parseType()
	}
	if p.match(WHERE) {
		fn.Where = p.parseWhereClause()
	}

	switch {
	case p.check(LEFT_BRACE):
		fn.Body = p.parseBlock()
	case requireBody:
		p.errorAtCurrent(errors.ErrorMalformedItem, "expected '{' to start the body of function '"+name.Value+"'")
		p.synchronizeItem()
	default:
		p.match(SEMICOLON)
	}

	fn.EndPos = p.endPos()
	return fn
}

// parseFunctionParameters parses the parameter list in parentheses, including a leading receiver
func (p *Parser) parseFunctionParameters() (*ast.SelfParam, []*ast.Param) {
	var receiver *ast.SelfParam
	var params []*ast.Param

	if p.consume(LEFT_PAREN, "expected '(' after function name").Type == ILLEGAL {
		return nil, nil
	}

	if recv := p.parseReceiver(); recv != nil {
		receiver = recv
		if !p.match(COMMA) {
			p.consume(RIGHT_PAREN, "expected ')' after parameters")
			return receiver, nil
		}
	}

	for !p.check(RIGHT_PAREN) && !p.isAtEnd() {
		before := p.current
		if param := p.parseParam(); param != nil {
			params = append(params, param)
		}
		if !p.match(COMMA) {
			break
		}
		if p.current == before {
			p.advance()
		}
	}

	if p.consume(RIGHT_PAREN, "expected ')' after parameters").Type == ILLEGAL {
		p.synchronizeUntil(RIGHT_PAREN, LEFT_BRACE)
		p.match(RIGHT_PAREN)
	}
	return receiver, params
}

// parseReceiver recognises self, &self, &mut self and mut self
func (p *Parser) parseReceiver() *ast.SelfParam {
	start := p.peek()
	switch {
	case p.check(SELF):
		p.advance()
		return &ast.SelfParam{Pos: p.makePos(start), EndPos: p.endPos(), Mode: ast.SelfRef}
	case p.check(AMPERSAND) && p.checkNext(SELF):
		p.advance()
		p.advance()
		return &ast.SelfParam{Pos: p.makePos(start), EndPos: p.endPos(), Mode: ast.SelfRef, Explicit: true}
	case p.check(AMPERSAND) && p.checkNext(MUT) && p.peekAt(2).Type == SELF:
		p.advance()
		p.advance()
		p.advance()
		return &ast.SelfParam{Pos: p.makePos(start), EndPos: p.endPos(), Mode: ast.SelfMutRef, Explicit: true}
	case p.check(MUT) && p.checkNext(SELF):
		p.advance()
		p.advance()
		return &ast.SelfParam{Pos: p.makePos(start), EndPos: p.endPos(), Mode: ast.SelfValue, Explicit: true, Mutable: true}
	}
	return nil
}

func (p *Parser) parseParam() *ast.Param {
	start := p.peek()
	param := &ast.Param{Pos: p.makePos(start)}

	switch {
	case p.check(MUT) && p.checkNext(IDENTIFIER):
		p.advance()
		param.Mutable = true
		param.Name = p.makeIdent(p.advance())
	case p.check(IDENTIFIER):
		param.Name = p.makeIdent(p.advance())
	default:
		param.Pattern = p.parsePattern()
		param.Name = ast.Ident{Pos: param.Pos, EndPos: p.endPos(), Value: "_"}
	}

	if p.consume(COLON, "expected ':' after parameter name").Type != ILLEGAL {
		param.Type = p.parseType()
	}
	param.EndPos = p.endPos()
	return param
}

// parseTypeParams parses "<T, U: Bound + Other>"
func (p *Parser) parseTypeParams() []*ast.TypeParam {
	if !p.match(LESS) {
		return nil
	}
	var params []*ast.TypeParam
	for !p.check(GREATER) && !p.isAtEnd() {
		name, ok := p.consumeIdent("expected type parameter name")
		if !ok {
			p.synchronizeUntil(GREATER, LEFT_PAREN, LEFT_BRACE)
			break
		}
		tp := &ast.TypeParam{Pos: name.Pos, Name: name}
		if p.match(COLON) {
			tp.Bounds = p.parseBounds()
		}
		tp.EndPos = p.endPos()
		params = append(params, tp)
		if !p.match(COMMA) {
			break
		}
	}
	p.consumeCloseAngle("expected '>' after type parameters")
	return params
}

func (p *Parser) parseBounds() []ast.TypeExpr {
	bounds := []ast.TypeExpr{p.parseType()}
	for p.match(PLUS) {
		bounds = append(bounds, p.parseType())
	}
	return bounds
}

// parseWhereClause parses "T: Bound, U: A + B" up to the function body
func (p *Parser) parseWhereClause() []*ast.WherePredicate {
	var preds []*ast.WherePredicate
	for !p.check(LEFT_BRACE) && !p.isAtEnd() {
		start := p.peek()
		typ := p.parseType()
		p.consume(COLON, "expected ':' in where clause")
		preds = append(preds, &ast.WherePredicate{
			Pos:    p.makePos(start),
			Type:   typ,
			Bounds: p.parseBounds(),
			EndPos: p.endPos(),
		})
		if !p.match(COMMA) {
			break
		}
	}
	return preds
}
