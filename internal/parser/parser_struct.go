package parser

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

func (p *Parser) parseStruct(doc string, decorators []*ast.Decorator, public bool) ast.Item {
	startToken := p.advance()

	name, ok := p.consumeIdent("expected struct name")
	if !ok {
		p.synchronizeItem()
		return nil
	}

	s := &ast.Struct{
		Pos:        p.makePos(startToken),
		DocComment: doc,
		Decorators: decorators,
		Public:     public,
		Name:       name,
		TypeParams: p.parseTypeParams(),
	}

	// unit struct: "struct Marker"
	if !p.check(LEFT_BRACE) {
		p.match(SEMICOLON)
		s.EndPos = p.endPos()
		return s
	}

	s.Fields = p.parseStructBody()
	s.EndPos = p.endPos()
	return s
}

// parseStructBody parses "{ a: T, pub b: U }"; separators may be commas or newlines
func (p *Parser) parseStructBody() []*ast.Field {
	p.consume(LEFT_BRACE, "expected '{'")
	var fields []*ast.Field

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		before := p.current
		if field := p.parseStructField(); field != nil {
			fields = append(fields, field)
		} else {
			p.synchronizeUntil(COMMA, RIGHT_BRACE)
		}
		p.match(COMMA)
		if p.current == before {
			p.advance()
		}
	}

	p.consume(RIGHT_BRACE, "expected '}' after fields")
	return fields
}

func (p *Parser) parseStructField() *ast.Field {
	start := p.peek()
	public := p.match(PUB)
	name, ok := p.consumeIdent("expected field name")
	if !ok {
		return nil
	}
	p.consume(COLON, "expected ':' after field name")
	typ := p.parseType()
	return &ast.Field{
		Pos:    p.makePos(start),
		EndPos: p.endPos(),
		Public: public,
		Name:   name,
		Type:   typ,
	}
}

func (p *Parser) parseEnum(doc string, decorators []*ast.Decorator, public bool) ast.Item {
	startToken := p.advance()

	name, ok := p.consumeIdent("expected enum name")
	if !ok {
		p.synchronizeItem()
		return nil
	}

	e := &ast.Enum{
		Pos:        p.makePos(startToken),
		DocComment: doc,
		Decorators: decorators,
		Public:     public,
		Name:       name,
		TypeParams: p.parseTypeParams(),
	}

	p.consume(LEFT_BRACE, "expected '{' after enum name")
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		before := p.current
		if v := p.parseVariant(); v != nil {
			e.Variants = append(e.Variants, v)
		} else {
			p.synchronizeUntil(COMMA, RIGHT_BRACE)
		}
		p.match(COMMA)
		if p.current == before {
			p.advance()
		}
	}
	p.consume(RIGHT_BRACE, "expected '}' after enum variants")

	e.EndPos = p.endPos()
	return e
}

// parseVariant parses "A", "B(T, U)" or "C { x: T }"
func (p *Parser) parseVariant() *ast.Variant {
	name, ok := p.consumeIdent("expected variant name")
	if !ok {
		return nil
	}
	v := &ast.Variant{Pos: name.Pos, Name: name}

	switch {
	case p.match(LEFT_PAREN):
		for !p.check(RIGHT_PAREN) && !p.isAtEnd() {
			v.Tuple = append(v.Tuple, p.parseType())
			if !p.match(COMMA) {
				break
			}
		}
		p.consume(RIGHT_PAREN, "expected ')' after variant fields")
	case p.check(LEFT_BRACE):
		v.Fields = p.parseStructBody()
	}

	v.EndPos = p.endPos()
	return v
}

func (p *Parser) parseTrait(doc string, decorators []*ast.Decorator, public bool) ast.Item {
	startToken := p.advance()

	name, ok := p.consumeIdent("expected trait name")
	if !ok {
		p.synchronizeItem()
		return nil
	}

	t := &ast.Trait{
		Pos:        p.makePos(startToken),
		DocComment: doc,
		Decorators: decorators,
		Public:     public,
		Name:       name,
		TypeParams: p.parseTypeParams(),
	}
	t.Methods = p.parseMethods(name.Value, "", false)
	t.EndPos = p.endPos()
	return t
}

// parseImpl parses "impl<T> Type<T> { ... }" and "impl Trait for Type { ... }"
func (p *Parser) parseImpl(decorators []*ast.Decorator) ast.Item {
	startToken := p.advance()

	impl := &ast.Impl{
		Pos:        p.makePos(startToken),
		Decorators: decorators,
		TypeParams: p.parseTypeParams(),
	}

	first := p.parseType()
	if p.match(FOR) {
		impl.Trait = first
		impl.Target = p.parseType()
	} else {
		impl.Target = first
	}

	traitName := ""
	if named, ok := impl.Trait.(*ast.NamedType); ok {
		traitName = named.Name()
	}
	impl.Methods = p.parseMethods(typeName(impl.Target), traitName, true)
	impl.EndPos = p.endPos()
	return impl
}

func typeName(t ast.TypeExpr) string {
	switch t := t.(type) {
	case *ast.NamedType:
		return t.Name()
	case *ast.PrimitiveType:
		return t.Name
	}
	return ""
}

// parseMethods parses a brace-delimited list of methods; bodies are optional in traits
func (p *Parser) parseMethods(parent, trait string, requireBody bool) []*ast.Function {
	var methods []*ast.Function
	if p.consume(LEFT_BRACE, "expected '{'").Type == ILLEGAL {
		p.synchronizeItem()
		return nil
	}

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		before := p.current
		if p.match(SEMICOLON) {
			continue
		}
		doc := p.doc()
		decorators := p.parseDecorators()
		public := p.match(PUB)
		if !p.check(FN) && !p.check(ASYNC) {
			p.errorAtCurrent(errors.ErrorMalformedItem, "expected method declaration, found "+describe(p.peek()))
			p.synchronizeUntil(FN, ASYNC, PUB, DECORATOR, RIGHT_BRACE)
			if p.current == before {
				p.advance()
			}
			continue
		}
		fn := p.parseFunctionDecl(doc, decorators, public, requireBody)
		if fn != nil {
			fn.ParentType = parent
			fn.ImplTrait = trait
			methods = append(methods, fn)
		}
		if p.current == before {
			p.advance()
		}
	}

	p.consume(RIGHT_BRACE, "expected '}' to close the block")
	return methods
}
