package parser

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

// ParseError is a syntactic diagnostic produced while building the AST
type ParseError struct {
	Code     string
	Message  string
	Position Position
}

type Parser struct {
	filename string
	source   string
	tokens   []Token
	current  int
	errors   []ParseError

	// docs maps the index of a significant token to the doc comment right above it
	docs map[int]string

	// noStruct is positive while parsing a condition, where "Name {" opens a block
	noStruct int
}

// NewParser drops comment trivia from tokens, keeping doc comments for the item that follows
func NewParser(filename string, tokens []Token) *Parser {
	p := &Parser{
		filename: filename,
		docs:     make(map[int]string),
	}

	var pending []string
	for _, tok := range tokens {
		switch tok.Type {
		case DOC_COMMENT:
			pending = append(pending, docText(tok.Lexeme))
			continue
		case COMMENT, BLOCK_COMMENT:
			continue
		}
		if len(pending) > 0 {
			p.docs[len(p.tokens)] = strings.Join(pending, "\n")
			pending = nil
		}
		p.tokens = append(p.tokens, tok)
	}
	if len(p.tokens) == 0 || p.tokens[len(p.tokens)-1].Type != EOF {
		p.tokens = append(p.tokens, Token{Type: EOF})
	}
	return p
}

func docText(lexeme string) string {
	if strings.HasPrefix(lexeme, "///") {
		return strings.TrimPrefix(strings.TrimPrefix(lexeme, "///"), " ")
	}
	body := strings.TrimSuffix(strings.TrimPrefix(lexeme, "/**"), "*/")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(line), "*"), " ")
	}
	return strings.Join(lines, "\n")
}

// Errors returns the syntax errors reported so far
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// ParseProgram parses every item until end of input, recovering from malformed items
func (p *Parser) ParseProgram() *ast.Program {
	start := p.peek()
	program := &ast.Program{Pos: p.makePos(start)}

	for !p.isAtEnd() {
		before := p.current
		if p.match(SEMICOLON) {
			continue
		}
		if item := p.parseItem(); item != nil {
			program.Items = append(program.Items, item)
		}
		if p.current == before {
			p.errorAtCurrent(errors.ErrorUnexpectedToken, "unexpected token: "+describe(p.peek()))
			p.advance()
			p.synchronizeItem()
		}
	}

	program.EndPos = p.makeEndPos(p.peek())
	return program
}

func describe(tok Token) string {
	if tok.Type == EOF {
		return "end of file"
	}
	return "'" + tok.Lexeme + "'"
}
