package parser

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

// parsePattern parses a pattern including "a | b" alternatives
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parsePatternNoAlt()
	if !p.check(PIPE) {
		return first
	}
	or := &ast.OrPattern{Pos: first.NodePos(), Alternatives: []ast.Pattern{first}}
	for p.match(PIPE) {
		or.Alternatives = append(or.Alternatives, p.parsePatternNoAlt())
	}
	or.EndPos = p.endPos()
	return or
}

// parsePatternNoAlt parses a single pattern; closure parameters use it so '|' ends the list
func (p *Parser) parsePatternNoAlt() ast.Pattern {
	tok := p.peek()
	switch tok.Type {
	case IDENTIFIER:
		if tok.Lexeme == "_" {
			p.advance()
			return &ast.WildcardPattern{Pos: p.makePos(tok), EndPos: p.endPos()}
		}
		return p.parsePathPattern()
	case SELF:
		p.advance()
		return &ast.IdentPattern{Pos: p.makePos(tok), EndPos: p.endPos(), Name: p.makeIdent(tok)}
	case MUT:
		p.advance()
		name, _ := p.consumeIdent("expected binding name after 'mut'")
		return &ast.IdentPattern{Pos: p.makePos(tok), EndPos: p.endPos(), Name: name, Mutable: true}
	case REF:
		p.advance()
		return p.parsePatternNoAlt()
	case AMPERSAND:
		p.advance()
		inner := p.parsePatternNoAlt()
		return &ast.RefPattern{Pos: p.makePos(tok), EndPos: p.endPos(), Pattern: inner}
	case LEFT_PAREN:
		p.advance()
		tuple := &ast.TuplePattern{Pos: p.makePos(tok)}
		for !p.check(RIGHT_PAREN) && !p.isAtEnd() {
			tuple.Elements = append(tuple.Elements, p.parsePattern())
			if !p.match(COMMA) {
				break
			}
		}
		p.consume(RIGHT_PAREN, "expected ')' after tuple pattern")
		tuple.EndPos = p.endPos()
		return tuple
	case INT, FLOAT, STRING, CHAR, TRUE, FALSE, MINUS:
		return p.parseLiteralPattern()
	}

	p.errorAtCurrent(errors.ErrorUnexpectedToken, "expected pattern, found "+describe(tok))
	switch tok.Type {
	case FAT_ARROW, EQUAL, COLON, COMMA, IN:
	default:
		if !isClosing(tok.Type) {
			p.advance()
		}
	}
	return &ast.WildcardPattern{Pos: p.makePos(tok), EndPos: p.makePos(tok)}
}

// parsePathPattern parses bindings and enum patterns: x, None, Some(v), Shape::Circle { r, .. }.
// A lone lowercase name binds; capitalised or qualified names match variants.
func (p *Parser) parsePathPattern() ast.Pattern {
	first := p.advance()
	path := []ast.Ident{p.makeIdent(first)}
	for p.check(DOUBLE_COLON) && p.checkNext(IDENTIFIER) {
		p.advance()
		path = append(path, p.makeIdent(p.advance()))
	}

	enum := &ast.EnumPattern{Pos: p.makePos(first), Path: path}
	switch {
	case p.check(LEFT_PAREN):
		p.advance()
		enum.Tuple = []ast.Pattern{}
		for !p.check(RIGHT_PAREN) && !p.isAtEnd() {
			enum.Tuple = append(enum.Tuple, p.parsePattern())
			if !p.match(COMMA) {
				break
			}
		}
		p.consume(RIGHT_PAREN, "expected ')' after variant pattern")
	case p.check(LEFT_BRACE) && !p.startsNewLine():
		p.advance()
		enum.StructLike = true
		p.parseFieldPatterns(enum)
	case len(path) == 1 && !isCapitalised(first.Lexeme):
		return &ast.IdentPattern{Pos: p.makePos(first), EndPos: p.endPos(), Name: path[0]}
	}

	enum.EndPos = p.endPos()
	return enum
}

func (p *Parser) parseFieldPatterns(enum *ast.EnumPattern) {
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		if p.match(DOT_DOT) {
			enum.HasRest = true
			break
		}
		before := p.current
		name, ok := p.consumeIdent("expected field name in pattern")
		if !ok {
			p.synchronizeUntil(COMMA, RIGHT_BRACE)
			if !p.match(COMMA) && p.current == before {
				break
			}
			continue
		}
		field := &ast.FieldPattern{Pos: name.Pos, Name: name}
		if p.match(COLON) {
			field.Pattern = p.parsePattern()
		}
		field.EndPos = p.endPos()
		enum.Fields = append(enum.Fields, field)
		if !p.match(COMMA) {
			break
		}
	}
	p.consume(RIGHT_BRACE, "expected '}' after field patterns")
}

// parseLiteralPattern parses literals, negative numbers and ranges like 1..=9
func (p *Parser) parseLiteralPattern() ast.Pattern {
	start := p.peek()
	lit := p.parseLiteralPatternValue()
	if lit == nil {
		return &ast.WildcardPattern{Pos: p.makePos(start), EndPos: p.endPos()}
	}
	if !p.check(DOT_DOT) && !p.check(DOT_DOT_EQUAL) {
		return lit
	}

	op := p.advance()
	r := &ast.RangePattern{Pos: p.makePos(start), Start: lit, Inclusive: op.Type == DOT_DOT_EQUAL}
	switch p.peek().Type {
	case INT, FLOAT, CHAR, MINUS:
		r.End = p.parseLiteralPatternValue()
	}
	r.EndPos = p.endPos()
	return r
}

func (p *Parser) parseLiteralPatternValue() *ast.LiteralPattern {
	start := p.peek()
	negative := p.match(MINUS)
	tok := p.peek()
	switch tok.Type {
	case INT, FLOAT, STRING, CHAR, TRUE, FALSE:
		p.advance()
	default:
		p.errorAtCurrent(errors.ErrorUnexpectedToken, "expected literal in pattern, found "+describe(tok))
		return nil
	}
	return &ast.LiteralPattern{
		Pos:      p.makePos(start),
		EndPos:   p.endPos(),
		Value:    p.literalFromToken(tok),
		Negative: negative,
	}
}

func isCapitalised(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
