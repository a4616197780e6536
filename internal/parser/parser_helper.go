package parser

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *Parser) checkNext(tt TokenType) bool {
	return p.peekAt(1).Type == tt
}

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// consume expects tt; on mismatch it reports message and skips the offending token
// unless that token closes an enclosing construct
func (p *Parser) consume(tt TokenType, message string) Token {
	if p.check(tt) {
		return p.advance()
	}
	code := errors.ErrorUnexpectedToken
	if p.isAtEnd() && isClosing(tt) {
		code = errors.ErrorUnclosedDelimiter
	}
	p.errorAtCurrent(code, message+", found "+describe(p.peek()))
	illegal := Token{Type: ILLEGAL, Position: p.peek().Position}
	if !isClosing(p.peek().Type) {
		p.advance()
	}
	return illegal
}

func isClosing(tt TokenType) bool {
	switch tt {
	case RIGHT_BRACE, RIGHT_PAREN, RIGHT_BRACKET, EOF:
		return true
	}
	return false
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) peekAt(n int) Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) errorAtCurrent(code, message string) {
	p.errorAt(p.peek(), code, message)
}

func (p *Parser) errorAt(tok Token, code, message string) {
	p.errors = append(p.errors, ParseError{
		Code:     code,
		Message:  message,
		Position: tok.Position,
	})
}

func (p *Parser) makePos(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Offset:   tok.Position.Offset,
		Line:     tok.Position.Line,
		Column:   tok.Position.Column,
	}
}

func (p *Parser) makeEndPos(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Offset:   tok.Position.Offset + len(tok.Lexeme),
		Line:     tok.Position.Line,
		Column:   tok.Position.Column + len(tok.Lexeme),
	}
}

// endPos is the end of the most recently consumed token
func (p *Parser) endPos() ast.Position {
	return p.makeEndPos(p.previous())
}

// Helper functions to reduce repetitive AST node creation

// makeIdent creates an ast.Ident from a token
func (p *Parser) makeIdent(tok Token) ast.Ident {
	return ast.Ident{
		Pos:    p.makePos(tok),
		EndPos: p.makeEndPos(tok),
		Value:  tok.Lexeme,
	}
}

// consumeIdent consumes an identifier token and returns an ast.Ident
func (p *Parser) consumeIdent(message string) (ast.Ident, bool) {
	tok := p.consume(IDENTIFIER, message)
	if tok.Type == ILLEGAL {
		return ast.Ident{Value: "error", Pos: p.makePos(tok), EndPos: p.makePos(tok)}, false
	}
	return p.makeIdent(tok), true
}

// consumeCloseAngle consumes one '>' even when the scanner glued it into '>>', '>=' or '>>='
func (p *Parser) consumeCloseAngle(message string) bool {
	tok := p.peek()
	var rest TokenType
	switch tok.Type {
	case GREATER:
		p.advance()
		return true
	case SHR:
		rest = GREATER
	case GREATER_EQUAL:
		rest = EQUAL
	case SHR_EQUAL:
		rest = GREATER_EQUAL
	default:
		p.errorAtCurrent(errors.ErrorUnexpectedToken, message+", found "+describe(tok))
		return false
	}
	p.tokens[p.current] = Token{
		Type:   rest,
		Lexeme: tok.Lexeme[1:],
		Position: Position{
			Line:   tok.Position.Line,
			Column: tok.Position.Column + 1,
			Offset: tok.Position.Offset + 1,
		},
	}
	return true
}

// startsNewLine reports whether the current token begins a new source line
func (p *Parser) startsNewLine() bool {
	return p.peek().NewlineBefore
}

// doc returns the doc comment attached to the current token
func (p *Parser) doc() string {
	return p.docs[p.current]
}

// synchronize skips to the end of the current statement: a ';', a token on a new
// line, or a closing brace at the starting nesting depth
func (p *Parser) synchronize() {
	depth := 0
	first := true
	for !p.isAtEnd() {
		tok := p.peek()
		if depth == 0 && !first && tok.NewlineBefore {
			return
		}
		first = false
		switch tok.Type {
		case LEFT_BRACE, LEFT_PAREN, LEFT_BRACKET:
			depth++
		case RIGHT_BRACE, RIGHT_PAREN, RIGHT_BRACKET:
			if depth == 0 {
				return
			}
			depth--
		case SEMICOLON:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// synchronizeItem skips balanced tokens until something that can start an item
func (p *Parser) synchronizeItem() {
	depth := 0
	for !p.isAtEnd() {
		switch p.peek().Type {
		case LEFT_BRACE, LEFT_PAREN, LEFT_BRACKET:
			depth++
		case RIGHT_BRACE, RIGHT_PAREN, RIGHT_BRACKET:
			if depth > 0 {
				depth--
			}
		case FN, STRUCT, ENUM, TRAIT, IMPL, CONST, STATIC, TYPE, USE, MOD, PUB, DECORATOR, EXTERN, ASYNC:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) synchronizeUntil(stopTokens ...TokenType) {
	stop := make(map[TokenType]struct{})
	for _, t := range stopTokens {
		stop[t] = struct{}{}
	}

	depth := 0
	for !p.isAtEnd() {
		tt := p.peek().Type
		if _, ok := stop[tt]; ok && depth == 0 {
			return
		}
		switch tt {
		case LEFT_BRACE, LEFT_PAREN, LEFT_BRACKET:
			depth++
		case RIGHT_BRACE, RIGHT_PAREN, RIGHT_BRACKET:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// skipBalanced consumes tokens up to the close matching an already consumed open
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.isAtEnd() {
		switch p.peek().Type {
		case LEFT_BRACE, LEFT_PAREN, LEFT_BRACKET:
			depth++
		case RIGHT_BRACE, RIGHT_PAREN, RIGHT_BRACKET:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// sourceBetween returns the source text between two token indexes, exclusive of end
func (p *Parser) sourceBetween(start, end int) string {
	if start >= end {
		return ""
	}
	first, last := p.tokens[start], p.tokens[end-1]
	if p.source != "" {
		from := first.Position.Offset
		to := last.Position.Offset + len(last.Lexeme)
		if from <= to && to <= len(p.source) {
			return p.source[from:to]
		}
	}
	parts := make([]string, 0, end-start)
	for _, tok := range p.tokens[start:end] {
		parts = append(parts, tok.Lexeme)
	}
	return strings.Join(parts, " ")
}

// parseIdentifierList parses a comma-separated list of identifiers
func (p *Parser) parseIdentifierList(close TokenType) []ast.Ident {
	var idents []ast.Ident

	for !p.check(close) && !p.isAtEnd() {
		ident, ok := p.consumeIdent("expected identifier")
		if !ok {
			p.synchronizeUntil(close)
			break
		}
		idents = append(idents, ident)

		if !p.match(COMMA) {
			break
		}
	}

	return idents
}
