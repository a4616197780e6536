package parser

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

// binaryPrecedence orders infix operators from loosest to tightest; "|>" binds loosest
var binaryPrecedence = map[string]int{
	"|>": 1,
	"..": 2, "..=": 2,
	"||": 3,
	"&&": 4,
	"==": 5, "!=": 5, "<": 5, "<=": 5, ">": 5, ">=": 5,
	"|":  6,
	"^":  7,
	"&":  8,
	"<<": 9, ">>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"as": 12,
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parsePrattExpr(1)
}

// parseCondition parses an expression where "Name {" starts the following block
func (p *Parser) parseCondition() ast.Expr {
	p.noStruct++
	defer func() { p.noStruct-- }()
	return p.parseExpr()
}

func (p *Parser) parsePrattExpr(minPrec int) ast.Expr {
	var expr ast.Expr
	if p.check(DOT_DOT) || p.check(DOT_DOT_EQUAL) {
		expr = p.parseRange(nil)
	} else {
		expr = p.parsePrefixExpr()
	}

	for {
		tok := p.peek()
		if !isOperatorToken(tok.Type) {
			break
		}
		prec, ok := binaryPrecedence[tok.Lexeme]
		if !ok || prec < minPrec || !p.continuesLine(tok) {
			break
		}

		switch tok.Type {
		case AS:
			p.advance()
			typ := p.parseType()
			expr = &ast.CastExpr{
				Pos:    expr.NodePos(),
				EndPos: p.endPos(),
				Value:  expr,
				Type:   typ,
			}
			continue
		case DOT_DOT, DOT_DOT_EQUAL:
			expr = p.parseRange(expr)
			continue
		}

		p.advance()
		right := p.parsePrattExpr(prec + 1)

		if tok.Type == PIPE_GREATER {
			expr = &ast.PipeExpr{
				Pos:    expr.NodePos(),
				EndPos: right.NodeEndPos(),
				Left:   expr,
				Right:  right,
			}
			continue
		}

		expr = &ast.BinaryExpr{
			Pos:    expr.NodePos(),
			EndPos: right.NodeEndPos(),
			Op:     tok.Lexeme,
			Left:   expr,
			Right:  right,
		}
	}

	return expr
}

func isOperatorToken(tt TokenType) bool {
	switch tt {
	case IDENTIFIER, STRING, STRING_FRAGMENT, STRING_END, CHAR, INT, FLOAT:
		return false
	}
	return true
}

// continuesLine reports whether an operator on a new line continues the expression.
// Operators that can also start an expression end the statement instead.
func (p *Parser) continuesLine(tok Token) bool {
	if !tok.NewlineBefore {
		return true
	}
	switch tok.Type {
	case MINUS, STAR, AMPERSAND, PIPE, OR, DOT_DOT, DOT_DOT_EQUAL:
		return false
	}
	return true
}

// parseRange parses "start..end", "start..=end", "..end" and "start.." with the operator current
func (p *Parser) parseRange(start ast.Expr) ast.Expr {
	op := p.advance()
	pos := p.makePos(op)
	if start != nil {
		pos = start.NodePos()
	}
	r := &ast.RangeExpr{
		Pos:       pos,
		Start:     start,
		Inclusive: op.Type == DOT_DOT_EQUAL,
	}
	if p.rangeEndFollows() {
		r.End = p.parsePrattExpr(binaryPrecedence[".."] + 1)
	}
	r.EndPos = p.endPos()
	return r
}

func (p *Parser) rangeEndFollows() bool {
	if !p.hasOperand() {
		return false
	}
	if p.check(LEFT_BRACE) {
		return p.noStruct == 0
	}
	return canStartExpr(p.peek().Type)
}

func canStartExpr(tt TokenType) bool {
	switch tt {
	case IDENTIFIER, INT, FLOAT, CHAR, STRING, STRING_FRAGMENT, TRUE, FALSE, SELF,
		LEFT_PAREN, LEFT_BRACKET, LEFT_BRACE, MINUS, BANG, STAR, AMPERSAND, AND,
		PIPE, OR, MOVE, IF, MATCH, LOOP, WHILE, FOR, GO:
		return true
	}
	return false
}

// parsePrefixExpr parses unary operators; they bind tighter than any binary operator
func (p *Parser) parsePrefixExpr() ast.Expr {
	if p.check(AMPERSAND) || p.check(AND) {
		tok := p.advance()
		op := "&"
		if p.match(MUT) {
			op = "&mut"
		}
		value := p.parsePrefixExpr()
		var expr ast.Expr = &ast.UnaryExpr{
			Pos:    p.makePos(tok),
			EndPos: value.NodeEndPos(),
			Op:     op,
			Value:  value,
		}
		if tok.Type == AND {
			expr = &ast.UnaryExpr{
				Pos:    p.makePos(tok),
				EndPos: value.NodeEndPos(),
				Op:     "&",
				Value:  expr,
			}
		}
		return expr
	}

	if p.match(MINUS, BANG, STAR) {
		op := p.previous()
		value := p.parsePrefixExpr()
		return &ast.UnaryExpr{
			Pos:    p.makePos(op),
			EndPos: value.NodeEndPos(),
			Op:     op.Lexeme,
			Value:  value,
		}
	}

	return p.parsePostfixExpr(p.parsePrimaryExpr())
}

// parsePostfixExpr parses calls, indexing, field access, method calls, "?" and ".await".
// A "(" or "[" on a new line starts a new statement; a leading "." continues the chain.
func (p *Parser) parsePostfixExpr(expr ast.Expr) ast.Expr {
	for {
		tok := p.peek()
		switch {
		case tok.Type == DOT:
			p.advance()
			expr = p.parseMemberAccess(expr)
		case tok.Type == LEFT_PAREN && !tok.NewlineBefore:
			args := p.parseCallArgs()
			expr = &ast.CallExpr{
				Pos:    expr.NodePos(),
				EndPos: p.endPos(),
				Callee: expr,
				Args:   args,
			}
		case tok.Type == LEFT_BRACKET && !tok.NewlineBefore:
			p.advance()
			saved := p.noStruct
			p.noStruct = 0
			index := p.parseExpr()
			p.noStruct = saved
			p.consume(RIGHT_BRACKET, "expected ']' after index")
			expr = &ast.IndexExpr{
				Pos:    expr.NodePos(),
				EndPos: p.endPos(),
				Target: expr,
				Index:  index,
			}
		case tok.Type == QUESTION && !tok.NewlineBefore:
			p.advance()
			expr = &ast.TryExpr{
				Pos:    expr.NodePos(),
				EndPos: p.endPos(),
				Value:  expr,
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parseMemberAccess(target ast.Expr) ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case AWAIT:
		p.advance()
		return &ast.AwaitExpr{Pos: target.NodePos(), EndPos: p.endPos(), Value: target}
	case INT:
		p.advance()
		return &ast.FieldAccessExpr{Pos: target.NodePos(), EndPos: p.endPos(), Target: target, Field: p.makeIdent(tok)}
	case FLOAT:
		// "t.0.1" scans as t . 0.1
		p.advance()
		parts := strings.SplitN(tok.Lexeme, ".", 2)
		first := ast.Ident{Pos: p.makePos(tok), EndPos: p.makePos(tok), Value: parts[0]}
		inner := &ast.FieldAccessExpr{Pos: target.NodePos(), EndPos: p.endPos(), Target: target, Field: first}
		if len(parts) < 2 {
			return inner
		}
		second := ast.Ident{Pos: p.makePos(tok), EndPos: p.endPos(), Value: parts[1]}
		return &ast.FieldAccessExpr{Pos: target.NodePos(), EndPos: p.endPos(), Target: inner, Field: second}
	}

	name, ok := p.consumeIdent("expected field or method name after '.'")
	if !ok {
		return target
	}

	var typeArgs []ast.TypeExpr
	if p.check(DOUBLE_COLON) && p.checkNext(LESS) {
		p.advance()
		typeArgs = p.parseTypeArgs()
	}

	if p.check(LEFT_PAREN) && !p.startsNewLine() {
		args := p.parseCallArgs()
		return &ast.MethodCallExpr{
			Pos:      target.NodePos(),
			EndPos:   p.endPos(),
			Receiver: target,
			Method:   name,
			TypeArgs: typeArgs,
			Args:     args,
		}
	}

	return &ast.FieldAccessExpr{
		Pos:    target.NodePos(),
		EndPos: p.endPos(),
		Target: target,
		Field:  name,
	}
}

// parseCallArgs parses "(a, name = b, ...)" with trailing comma tolerance
func (p *Parser) parseCallArgs() []*ast.Arg {
	p.consume(LEFT_PAREN, "expected '('")
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	var args []*ast.Arg
	for !p.check(RIGHT_PAREN) && !p.isAtEnd() {
		start := p.peek()
		arg := &ast.Arg{Pos: p.makePos(start)}
		if p.check(IDENTIFIER) && p.checkNext(EQUAL) {
			arg.Name = p.advance().Lexeme
			p.advance()
		}
		arg.Value = p.parseExpr()
		arg.EndPos = p.endPos()
		args = append(args, arg)
		if !p.match(COMMA) {
			break
		}
	}
	p.consume(RIGHT_PAREN, "expected ')' after arguments")
	return args
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case INT, FLOAT, CHAR, STRING, TRUE, FALSE:
		p.advance()
		return p.literalFromToken(tok)
	case STRING_FRAGMENT:
		return p.parseInterpolatedString()
	case IDENTIFIER, SELF:
		if tok.Type == IDENTIFIER && p.checkNext(BANG) && isMacroOpen(p.peekAt(2).Type) {
			return p.parseMacro()
		}
		return p.parsePathExpr()
	case LEFT_PAREN:
		return p.parseParenExpr()
	case LEFT_BRACKET:
		return p.parseArrayExpr()
	case LEFT_BRACE:
		if p.isMapLiteral() {
			return p.parseMapExpr()
		}
		block := p.parseBlock()
		return &ast.BlockExpr{Pos: block.Pos, EndPos: block.EndPos, Block: block}
	case IF:
		return p.parseIfExpr()
	case MATCH:
		return p.parseMatchExpr()
	case FOR:
		return p.parseForExpr()
	case WHILE:
		return p.parseWhileExpr()
	case LOOP:
		p.advance()
		body := p.parseBlock()
		return &ast.LoopExpr{Pos: p.makePos(tok), EndPos: body.EndPos, Body: body}
	case PIPE, OR, MOVE:
		return p.parseClosure()
	case GO:
		p.advance()
		body := p.parseBlock()
		return &ast.GoExpr{Pos: p.makePos(tok), EndPos: body.EndPos, Body: body}
	}

	msg := "unexpected token in expression: " + describe(tok)
	p.errorAtCurrent(errors.ErrorUnexpectedToken, msg)
	if !isClosing(tok.Type) && tok.Type != SEMICOLON && tok.Type != COMMA {
		p.advance()
	}
	return &ast.BadExpr{Bad: ast.BadNode{
		Pos:     p.makePos(tok),
		EndPos:  p.makeEndPos(tok),
		Message: msg,
	}}
}

func (p *Parser) literalFromToken(tok Token) *ast.LiteralExpr {
	lit := &ast.LiteralExpr{
		Pos:    p.makePos(tok),
		EndPos: p.makeEndPos(tok),
		Value:  tok.Literal,
	}
	switch tok.Type {
	case INT:
		lit.Kind = ast.IntLiteral
		lit.Suffix = tok.Lexeme[len(tok.Literal):]
	case FLOAT:
		lit.Kind = ast.FloatLiteral
		lit.Suffix = tok.Lexeme[len(tok.Literal):]
	case CHAR:
		lit.Kind = ast.CharLiteral
	case STRING:
		lit.Kind = ast.StringLiteral
	case TRUE, FALSE:
		lit.Kind = ast.BoolLiteral
		lit.Value = tok.Lexeme
	}
	return lit
}

// parseInterpolatedString joins STRING_FRAGMENT, hole expressions and STRING_END into parts
func (p *Parser) parseInterpolatedString() ast.Expr {
	start := p.advance()
	str := &ast.InterpolatedString{Pos: p.makePos(start)}
	if start.Literal != "" {
		str.Parts = append(str.Parts, ast.StringPart{Literal: start.Literal})
	}

	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	for p.match(INTERP_OPEN) {
		expr := p.parseExpr()
		str.Parts = append(str.Parts, ast.StringPart{Expr: expr})
		if !p.match(INTERP_CLOSE) {
			p.errorAtCurrent(errors.ErrorUnclosedDelimiter, "expected '}' to close string interpolation")
			p.synchronizeUntil(INTERP_CLOSE, STRING_END, STRING_FRAGMENT)
			p.match(INTERP_CLOSE)
		}
		if p.match(STRING_FRAGMENT) {
			if lit := p.previous().Literal; lit != "" {
				str.Parts = append(str.Parts, ast.StringPart{Literal: lit})
			}
			continue
		}
		if p.match(STRING_END) {
			if lit := p.previous().Literal; lit != "" {
				str.Parts = append(str.Parts, ast.StringPart{Literal: lit})
			}
		}
		break
	}

	str.EndPos = p.endPos()
	return str
}

// parsePathExpr parses "name", "a::b::c" and "f::<T>", then a struct literal when one follows
func (p *Parser) parsePathExpr() ast.Expr {
	first := p.advance()
	segments := []ast.Ident{p.makeIdent(first)}

	var typeArgs []ast.TypeExpr
	for p.check(DOUBLE_COLON) {
		if p.checkNext(LESS) {
			p.advance()
			typeArgs = p.parseTypeArgs()
			break
		}
		p.advance()
		seg, ok := p.consumeIdent("expected identifier after '::'")
		if !ok {
			break
		}
		segments = append(segments, seg)
	}

	var expr ast.Expr
	if len(segments) == 1 {
		expr = &ast.IdentExpr{Pos: segments[0].Pos, EndPos: segments[0].EndPos, Name: segments[0].Value}
	} else {
		expr = &ast.PathExpr{Pos: segments[0].Pos, EndPos: p.endPos(), Segments: segments}
	}

	if typeArgs != nil && p.check(LEFT_PAREN) {
		args := p.parseCallArgs()
		return &ast.CallExpr{
			Pos:      expr.NodePos(),
			EndPos:   p.endPos(),
			Callee:   expr,
			TypeArgs: typeArgs,
			Args:     args,
		}
	}

	if p.check(LEFT_BRACE) && !p.startsNewLine() && p.noStruct == 0 && p.looksLikeStructLiteral(segments) {
		return p.parseStructLiteral(expr, segments[len(segments)-1].Value)
	}
	return expr
}

// looksLikeStructLiteral decides whether "{" after a path opens a struct literal:
// type names are capitalised, or the brace is followed by "field:"
func (p *Parser) looksLikeStructLiteral(segments []ast.Ident) bool {
	name := segments[len(segments)-1].Value
	if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
		return true
	}
	return p.peekAt(1).Type == IDENTIFIER && p.peekAt(2).Type == COLON
}

// parseStructLiteral parses "{ a: x, b, ..base }"; a bare field name is shorthand for "b: b"
func (p *Parser) parseStructLiteral(typ ast.Expr, name string) ast.Expr {
	p.advance()
	lit := &ast.StructLiteralExpr{
		Pos:  typ.NodePos(),
		Type: typ,
		Name: name,
	}

	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		if p.match(DOT_DOT) {
			lit.Base = p.parseExpr()
			break
		}

		before := p.current
		fieldName, ok := p.consumeIdent("expected field name in struct literal")
		if !ok {
			p.synchronizeUntil(COMMA, RIGHT_BRACE)
			if !p.match(COMMA) && p.current == before {
				break
			}
			continue
		}

		init := &ast.FieldInit{Pos: fieldName.Pos, Name: fieldName}
		if p.match(COLON) {
			init.Value = p.parseExpr()
		} else {
			init.Value = &ast.IdentExpr{Pos: fieldName.Pos, EndPos: fieldName.EndPos, Name: fieldName.Value}
		}
		init.EndPos = p.endPos()
		lit.Fields = append(lit.Fields, init)

		if !p.match(COMMA) && !p.startsNewLine() {
			break
		}
	}

	p.consume(RIGHT_BRACE, "expected '}' after struct literal fields")
	lit.EndPos = p.endPos()
	return lit
}

// parseParenExpr parses "()", "(e)", "(e,)" and "(a, b, ...)"
func (p *Parser) parseParenExpr() ast.Expr {
	open := p.advance()
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	if p.match(RIGHT_PAREN) {
		return &ast.TupleExpr{Pos: p.makePos(open), EndPos: p.endPos()}
	}

	first := p.parseExpr()
	if !p.check(COMMA) {
		p.consume(RIGHT_PAREN, "expected ')' after expression")
		return &ast.ParenExpr{Pos: p.makePos(open), EndPos: p.endPos(), Value: first}
	}

	elements := []ast.Expr{first}
	for p.match(COMMA) {
		if p.check(RIGHT_PAREN) {
			break
		}
		elements = append(elements, p.parseExpr())
	}
	p.consume(RIGHT_PAREN, "expected ')' after tuple elements")
	return &ast.TupleExpr{Pos: p.makePos(open), EndPos: p.endPos(), Elements: elements}
}

// parseArrayExpr parses "[a, b, c]" and "[value; count]"
func (p *Parser) parseArrayExpr() ast.Expr {
	open := p.advance()
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	arr := &ast.ArrayExpr{Pos: p.makePos(open)}
	if p.match(RIGHT_BRACKET) {
		arr.EndPos = p.endPos()
		return arr
	}

	first := p.parseExpr()
	arr.Elements = append(arr.Elements, first)
	if p.match(SEMICOLON) {
		arr.Repeat = p.parseExpr()
	} else {
		for p.match(COMMA) {
			if p.check(RIGHT_BRACKET) {
				break
			}
			arr.Elements = append(arr.Elements, p.parseExpr())
		}
	}
	p.consume(RIGHT_BRACKET, "expected ']' after array elements")
	arr.EndPos = p.endPos()
	return arr
}

// isMapLiteral distinguishes "{ key: value }" from a block
func (p *Parser) isMapLiteral() bool {
	switch p.peekAt(1).Type {
	case STRING, INT, FLOAT, CHAR, TRUE, FALSE, IDENTIFIER:
		return p.peekAt(2).Type == COLON
	}
	return false
}

func (p *Parser) parseMapExpr() ast.Expr {
	open := p.advance()
	m := &ast.MapExpr{Pos: p.makePos(open)}

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		before := p.current
		key := p.parseExpr()
		p.consume(COLON, "expected ':' after map key")
		value := p.parseExpr()
		m.Entries = append(m.Entries, &ast.MapEntry{
			Pos:    key.NodePos(),
			EndPos: value.NodeEndPos(),
			Key:    key,
			Value:  value,
		})
		if !p.match(COMMA) && !p.startsNewLine() {
			break
		}
		if p.current == before {
			p.advance()
		}
	}

	p.consume(RIGHT_BRACE, "expected '}' after map entries")
	m.EndPos = p.endPos()
	return m
}

// parseIfExpr parses "if cond { } else if ... else { }" and "if let pat = value { }"
func (p *Parser) parseIfExpr() ast.Expr {
	start := p.advance()
	expr := &ast.IfExpr{Pos: p.makePos(start)}

	if p.match(LET) {
		expr.Pattern = p.parsePattern()
		p.consume(EQUAL, "expected '=' after pattern in 'if let'")
	}
	expr.Cond = p.parseCondition()
	expr.Then = p.parseBlock()

	if p.match(ELSE) {
		if p.check(IF) {
			expr.Else = p.parseIfExpr()
		} else {
			block := p.parseBlock()
			expr.Else = &ast.BlockExpr{Pos: block.Pos, EndPos: block.EndPos, Block: block}
		}
	}

	expr.EndPos = p.endPos()
	return expr
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.advance()
	expr := &ast.MatchExpr{Pos: p.makePos(start)}
	expr.Subject = p.parseCondition()

	if p.consume(LEFT_BRACE, "expected '{' after match subject").Type == ILLEGAL {
		expr.EndPos = p.endPos()
		return expr
	}
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		before := p.current
		expr.Arms = append(expr.Arms, p.parseMatchArm())

		if !p.match(COMMA) && !p.check(RIGHT_BRACE) && !p.startsNewLine() && p.previous().Type != RIGHT_BRACE {
			p.errorAtCurrent(errors.ErrorMissingTerminator, "expected ',' after match arm, found "+describe(p.peek()))
			p.synchronizeUntil(COMMA, RIGHT_BRACE)
			p.match(COMMA)
		}
		if p.current == before {
			p.advance()
		}
	}

	p.consume(RIGHT_BRACE, "expected '}' after match arms")
	expr.EndPos = p.endPos()
	return expr
}

// parseMatchArm parses "pattern (if guard)? => body"; return, break and continue
// bodies are wrapped in a block
func (p *Parser) parseMatchArm() *ast.MatchArm {
	start := p.peek()
	arm := &ast.MatchArm{Pos: p.makePos(start)}
	arm.Pattern = p.parsePattern()
	if p.match(IF) {
		arm.Guard = p.parseExpr()
	}
	p.consume(FAT_ARROW, "expected '=>' after match pattern")

	switch p.peek().Type {
	case RETURN, BREAK, CONTINUE:
		bodyStart := p.peek()
		stmt := p.parseStatement()
		block := &ast.Block{Pos: p.makePos(bodyStart), EndPos: p.endPos(), Stmts: []ast.Stmt{stmt}}
		arm.Body = &ast.BlockExpr{Pos: block.Pos, EndPos: block.EndPos, Block: block}
	default:
		arm.Body = p.parseExpr()
	}

	arm.EndPos = p.endPos()
	return arm
}

func (p *Parser) parseForExpr() ast.Expr {
	start := p.advance()
	expr := &ast.ForExpr{Pos: p.makePos(start)}
	expr.Pattern = p.parsePattern()
	p.consume(IN, "expected 'in' after for-loop pattern")
	expr.Iter = p.parseCondition()
	expr.Body = p.parseBlock()
	expr.EndPos = p.endPos()
	return expr
}

func (p *Parser) parseWhileExpr() ast.Expr {
	start := p.advance()
	expr := &ast.WhileExpr{Pos: p.makePos(start)}
	expr.Cond = p.parseCondition()
	expr.Body = p.parseBlock()
	expr.EndPos = p.endPos()
	return expr
}

// parseClosure parses "|a, b: T| body", "|| body" and "move |x| body"
func (p *Parser) parseClosure() ast.Expr {
	start := p.peek()
	closure := &ast.ClosureExpr{Pos: p.makePos(start)}
	closure.Move = p.match(MOVE)

	if !p.match(OR) {
		p.consume(PIPE, "expected '|' to start closure parameters")
		for !p.check(PIPE) && !p.isAtEnd() {
			paramStart := p.peek()
			param := &ast.ClosureParam{Pos: p.makePos(paramStart)}
			param.Pattern = p.parsePatternNoAlt()
			if p.match(COLON) {
				param.Type = p.parseType()
			}
			param.EndPos = p.endPos()
			closure.Params = append(closure.Params, param)
			if !p.match(COMMA) {
				break
			}
		}
		p.consume(PIPE, "expected '|' after closure parameters")
	}

	if p.match(ARROW) {
		closure.Return = p.parseType()
	}
	closure.Body = p.parseExpr()
	closure.EndPos = p.endPos()
	return closure
}

func isMacroOpen(tt TokenType) bool {
	return tt == LEFT_PAREN || tt == LEFT_BRACKET || tt == LEFT_BRACE
}

// parseMacro parses "name!(...)", "name![...]" or "name!{...}". The body is kept as raw
// source; when it is a plain comma-separated expression list the expressions are kept too.
func (p *Parser) parseMacro() *ast.MacroExpr {
	nameTok := p.advance()
	p.advance() // '!'
	open := p.advance()

	macro := &ast.MacroExpr{Pos: p.makePos(nameTok), Name: nameTok.Lexeme}
	closeType := RIGHT_PAREN
	switch open.Type {
	case LEFT_BRACKET:
		macro.Delim = ast.BracketDelimiter
		closeType = RIGHT_BRACKET
	case LEFT_BRACE:
		macro.Delim = ast.BraceDelimiter
		closeType = RIGHT_BRACE
	}

	bodyStart := p.current
	errCount := len(p.errors)
	saved := p.noStruct
	p.noStruct = 0

	ok := true
	var args []ast.Expr
	for !p.check(closeType) && !p.isAtEnd() {
		before := p.current
		args = append(args, p.parseExpr())
		if p.current == before {
			ok = false
			break
		}
		if !p.match(COMMA) {
			break
		}
	}
	p.noStruct = saved

	if !ok || !p.check(closeType) || len(p.errors) != errCount {
		p.errors = p.errors[:errCount]
		p.current = bodyStart
		p.skipBalanced()
		args = nil
	}

	macro.Raw = p.sourceBetween(bodyStart, p.current)
	macro.Args = args
	p.consume(closeType, "expected '"+macro.Delim.Close()+"' to close macro invocation")
	macro.EndPos = p.endPos()
	return macro
}
