package parser

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

// parseItem parses one top-level declaration with its doc comment, decorators and visibility
func (p *Parser) parseItem() ast.Item {
	doc := p.doc()
	decorators := p.parseDecorators()
	public := p.match(PUB)

	switch p.peek().Type {
	case FN, ASYNC:
		return p.parseFunction(doc, decorators, public)
	case EXTERN:
		return p.parseExternFunction(doc, decorators, public)
	case STRUCT:
		return p.parseStruct(doc, decorators, public)
	case ENUM:
		return p.parseEnum(doc, decorators, public)
	case TRAIT:
		return p.parseTrait(doc, decorators, public)
	case IMPL:
		return p.parseImpl(decorators)
	case CONST:
		return p.parseConst(doc, public)
	case STATIC:
		return p.parseStatic(doc, public)
	case TYPE:
		return p.parseTypeAlias(public)
	case USE:
		return p.parseUse(public)
	case MOD:
		return p.parseMod(public)
	case IDENTIFIER:
		if p.checkNext(BANG) {
			return p.parseMacroItem()
		}
	}

	tok := p.peek()
	msg := "expected item declaration, found " + describe(tok)
	p.errorAtCurrent(errors.ErrorMalformedItem, msg)
	if !p.isAtEnd() {
		p.advance()
	}
	p.synchronizeItem()
	return &ast.BadItem{Bad: ast.BadNode{
		Pos:     p.makePos(tok),
		EndPos:  p.endPos(),
		Message: msg,
	}}
}

// parseDecorators parses "@name" and "@name(arg, key = value)" in source order
func (p *Parser) parseDecorators() []*ast.Decorator {
	var decorators []*ast.Decorator
	for p.check(DECORATOR) {
		tok := p.advance()
		dec := &ast.Decorator{
			Pos:  p.makePos(tok),
			Name: tok.Literal,
		}
		if p.check(LEFT_PAREN) && !p.startsNewLine() {
			p.advance()
			for !p.check(RIGHT_PAREN) && !p.isAtEnd() {
				argStart := p.peek()
				arg := &ast.DecoratorArg{Pos: p.makePos(argStart)}
				if p.check(IDENTIFIER) && p.checkNext(EQUAL) {
					arg.Name = p.advance().Lexeme
					p.advance()
				}
				arg.Value = p.parseExpr()
				arg.EndPos = p.endPos()
				dec.Args = append(dec.Args, arg)
				if !p.match(COMMA) {
					break
				}
			}
			p.consume(RIGHT_PAREN, "expected ')' after decorator arguments")
		}
		dec.EndPos = p.endPos()
		decorators = append(decorators, dec)
	}
	return decorators
}

func (p *Parser) parseConst(doc string, public bool) ast.Item {
	start := p.advance()
	name, ok := p.consumeIdent("expected constant name")
	if !ok {
		p.synchronizeItem()
		return nil
	}
	c := &ast.Const{
		Pos:        p.makePos(start),
		DocComment: doc,
		Public:     public,
		Name:       name,
	}
	if p.match(COLON) {
		c.Type = p.parseType()
	}
	p.consume(EQUAL, "expected '=' in constant declaration")
	c.Value = p.parseExpr()
	p.match(SEMICOLON)
	c.EndPos = p.endPos()
	return c
}

func (p *Parser) parseStatic(doc string, public bool) ast.Item {
	start := p.advance()
	mutable := p.match(MUT)
	name, ok := p.consumeIdent("expected static name")
	if !ok {
		p.synchronizeItem()
		return nil
	}
	s := &ast.Static{
		Pos:        p.makePos(start),
		DocComment: doc,
		Public:     public,
		Mutable:    mutable,
		Name:       name,
	}
	if p.match(COLON) {
		s.Type = p.parseType()
	}
	p.consume(EQUAL, "expected '=' in static declaration")
	s.Value = p.parseExpr()
	p.match(SEMICOLON)
	s.EndPos = p.endPos()
	return s
}

func (p *Parser) parseTypeAlias(public bool) ast.Item {
	start := p.advance()
	name, ok := p.consumeIdent("expected type alias name")
	if !ok {
		p.synchronizeItem()
		return nil
	}
	p.consume(EQUAL, "expected '=' after type alias name")
	typ := p.parseType()
	p.match(SEMICOLON)
	return &ast.TypeAlias{
		Pos:    p.makePos(start),
		EndPos: p.endPos(),
		Public: public,
		Name:   name,
		Type:   typ,
	}
}

func (p *Parser) parseMacroItem() ast.Item {
	start := p.peek()
	macro := p.parseMacro()
	p.match(SEMICOLON)
	return &ast.MacroItem{
		Pos:    p.makePos(start),
		EndPos: p.endPos(),
		Macro:  macro,
	}
}
