package parser

import "windjammer/internal/ast"

// parseUse parses imports such as
//
//	use std.json
//	use a::b::{x, y}
//	use a.b.*
//	use a.b as c
func (p *Parser) parseUse(public bool) ast.Item {
	startToken := p.advance()
	use := &ast.Use{
		Pos:    p.makePos(startToken),
		Public: public,
	}

	first, ok := p.consumeIdent("expected module path after 'use'")
	if !ok {
		p.synchronizeItem()
		return nil
	}
	use.Path = append(use.Path, first)

	for p.match(DOT, DOUBLE_COLON) {
		if p.match(STAR) {
			use.Glob = true
			break
		}
		if p.match(LEFT_BRACE) {
			use.Group = p.parseIdentifierList(RIGHT_BRACE)
			p.consume(RIGHT_BRACE, "expected '}' after import list")
			break
		}
		seg, ok := p.consumeIdent("expected identifier in module path")
		if !ok {
			break
		}
		use.Path = append(use.Path, seg)
	}

	if p.match(AS) {
		alias, ok := p.consumeIdent("expected alias name after 'as'")
		if ok {
			use.Alias = &alias
		}
	}

	p.match(SEMICOLON)
	use.EndPos = p.endPos()
	return use
}

func (p *Parser) parseMod(public bool) ast.Item {
	startToken := p.advance()
	name, ok := p.consumeIdent("expected module name after 'mod'")
	if !ok {
		p.synchronizeItem()
		return nil
	}
	p.match(SEMICOLON)
	return &ast.ModDecl{
		Pos:    p.makePos(startToken),
		EndPos: p.endPos(),
		Public: public,
		Name:   name,
	}
}
