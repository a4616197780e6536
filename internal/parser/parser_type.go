package parser

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

var primitiveTypes = map[string]bool{
	"int": true, "float": true, "bool": true, "char": true, "string": true, "str": true,
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"f32": true, "f64": true,
}

// IsPrimitiveTypeName reports whether name is spelled as a built-in type
func IsPrimitiveTypeName(name string) bool {
	return primitiveTypes[name]
}

func (p *Parser) parseType() ast.TypeExpr {
	tok := p.peek()
	switch tok.Type {
	case AMPERSAND, AND:
		p.advance()
		mutable := p.match(MUT)
		elem := p.parseType()
		var ref ast.TypeExpr = &ast.RefType{Pos: p.makePos(tok), EndPos: p.endPos(), Mutable: mutable, Elem: elem}
		if tok.Type == AND {
			ref = &ast.RefType{Pos: p.makePos(tok), EndPos: p.endPos(), Elem: ref}
		}
		return ref

	case LEFT_PAREN:
		p.advance()
		tuple := &ast.TupleType{Pos: p.makePos(tok)}
		for !p.check(RIGHT_PAREN) && !p.isAtEnd() {
			tuple.Elements = append(tuple.Elements, p.parseType())
			if !p.match(COMMA) {
				break
			}
		}
		p.consume(RIGHT_PAREN, "expected ')' after tuple type")
		tuple.EndPos = p.endPos()
		if len(tuple.Elements) == 1 && p.previous().Type == RIGHT_PAREN && p.tokens[p.current-2].Type != COMMA {
			return tuple.Elements[0]
		}
		return tuple

	case LEFT_BRACKET:
		p.advance()
		elem := p.parseType()
		if p.match(SEMICOLON) {
			length := p.parseExpr()
			p.consume(RIGHT_BRACKET, "expected ']' after array length")
			return &ast.ArrayType{Pos: p.makePos(tok), EndPos: p.endPos(), Elem: elem, Len: length}
		}
		p.consume(RIGHT_BRACKET, "expected ']' after slice element type")
		return &ast.SliceType{Pos: p.makePos(tok), EndPos: p.endPos(), Elem: elem}

	case FN:
		p.advance()
		fn := &ast.FuncType{Pos: p.makePos(tok)}
		p.consume(LEFT_PAREN, "expected '(' after 'fn' in function type")
		for !p.check(RIGHT_PAREN) && !p.isAtEnd() {
			fn.Params = append(fn.Params, p.parseType())
			if !p.match(COMMA) {
				break
			}
		}
		p.consume(RIGHT_PAREN, "expected ')' after function type parameters")
		if p.match(ARROW) {
			fn.Return = p.parseType()
		}
		fn.EndPos = p.endPos()
		return fn

	case IDENTIFIER:
		if tok.Lexeme == "_" {
			p.advance()
			return &ast.InferType{Pos: p.makePos(tok), EndPos: p.endPos()}
		}
		return p.parseNamedType()
	}

	p.errorAtCurrent(errors.ErrorUnexpectedToken, "expected type, found "+describe(tok))
	switch tok.Type {
	case COMMA, EQUAL, LEFT_BRACE, SEMICOLON, GREATER:
	default:
		if !isClosing(tok.Type) {
			p.advance()
		}
	}
	return &ast.InferType{Pos: p.makePos(tok), EndPos: p.makePos(tok)}
}

// parseNamedType parses "Name", "a::b::Name", "a.b.Name" and generic arguments "Name<T, U>"
func (p *Parser) parseNamedType() ast.TypeExpr {
	first := p.advance()
	path := []string{first.Lexeme}
	for (p.check(DOUBLE_COLON) || p.check(DOT)) && p.checkNext(IDENTIFIER) {
		p.advance()
		path = append(path, p.advance().Lexeme)
	}

	if len(path) == 1 && primitiveTypes[first.Lexeme] && !p.check(LESS) {
		return &ast.PrimitiveType{Pos: p.makePos(first), EndPos: p.endPos(), Name: first.Lexeme}
	}

	named := &ast.NamedType{Pos: p.makePos(first), Path: path}
	if p.check(LESS) {
		named.Args = p.parseTypeArgs()
	}
	named.EndPos = p.endPos()
	return named
}

// parseTypeArgs parses "<T, U>" with the '<' current
func (p *Parser) parseTypeArgs() []ast.TypeExpr {
	p.consume(LESS, "expected '<'")
	var args []ast.TypeExpr
	for !p.check(GREATER) && !p.isAtEnd() {
		before := p.current
		args = append(args, p.parseType())
		if !p.match(COMMA) {
			break
		}
		if p.current == before {
			break
		}
	}
	p.consumeCloseAngle("expected '>' after type arguments")
	if args == nil {
		args = []ast.TypeExpr{}
	}
	return args
}
