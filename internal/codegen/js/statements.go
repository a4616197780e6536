package js

import (
	"strings"

	"windjammer/internal/ast"
)

// tailMode says what happens to the value of a block's tail expression
type tailMode int

const (
	discard   tailMode = iota // evaluated for effect
	returning                 // returned from the enclosing function
	assigning                 // assigned to a declared variable
)

// block prints a braced block; prelude lines open the body
func (g *Generator) block(b *ast.Block, mode tailMode, target string, prelude ...string) string {
	if (b == nil || (len(b.Stmts) == 0 && b.Tail == nil)) && len(prelude) == 0 {
		return "{}"
	}
	body := g.capture(func() {
		g.indent++
		defer func() { g.indent-- }()
		for _, line := range prelude {
			g.writeLine("%s", line)
		}
		if b == nil {
			return
		}
		for _, s := range b.Stmts {
			g.stmt(s)
		}
		if b.Tail != nil {
			g.exprStmt(b.Tail, mode, target)
		}
	})
	return "{\n" + body + g.indentString() + "}"
}

// exprBlock prints an arm or branch body as a block
func (g *Generator) exprBlock(e ast.Expr, mode tailMode, target string, prelude ...string) string {
	if b, ok := e.(*ast.BlockExpr); ok {
		return g.block(b.Block, mode, target, prelude...)
	}
	body := g.capture(func() {
		g.indent++
		defer func() { g.indent-- }()
		for _, line := range prelude {
			g.writeLine("%s", line)
		}
		g.exprStmt(e, mode, target)
	})
	return "{\n" + body + g.indentString() + "}"
}

// blockLike expressions print as statements
func blockLike(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IfExpr, *ast.MatchExpr, *ast.ForExpr, *ast.WhileExpr, *ast.LoopExpr, *ast.BlockExpr:
		return true
	}
	return false
}

func (g *Generator) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		g.let(s)
	case *ast.AssignStmt:
		g.assign(g.pipeline.Rewrite(s).(*ast.AssignStmt))
	case *ast.ExprStmt:
		g.exprStmt(s.Expr, discard, "")
	case *ast.ReturnStmt:
		if s.Value == nil {
			g.writeLine("return;")
			return
		}
		g.exprStmt(s.Value, returning, "")
	case *ast.BreakStmt:
		if s.Value != nil {
			g.fail(s, "break with a value has no script translation")
		}
		g.writeLine("break;")
	case *ast.ContinueStmt:
		g.writeLine("continue;")
	case *ast.ItemStmt:
		fn, ok := s.Item.(*ast.Function)
		if !ok {
			g.fail(s, "nested %s has no script translation", itemName(s.Item))
		}
		g.function(fn, "")
	default:
		g.fail(s, "unsupported statement %T", s)
	}
}

// exprStmt prints e as a statement whose value is used according to mode
func (g *Generator) exprStmt(e ast.Expr, mode tailMode, target string) {
	switch e := e.(type) {
	case *ast.IfExpr:
		g.ifStmt(e, mode, target)
		return
	case *ast.MatchExpr:
		g.matchStmt(e, mode, target)
		return
	case *ast.BlockExpr:
		g.writeIndent()
		g.write(g.block(e.Block, mode, target))
		g.write("\n")
		return
	case *ast.ForExpr, *ast.WhileExpr, *ast.LoopExpr:
		g.loop(e)
		return
	}
	if throw, ok := g.throwStmt(e); ok {
		g.writeLine("%s;", throw)
		return
	}
	switch mode {
	case returning:
		g.writeLine("return %s;", g.valueExpr(e))
	case assigning:
		g.writeLine("%s = %s;", target, g.valueExpr(e))
	default:
		g.writeLine("%s;", g.expr(e))
	}
}

func (g *Generator) assign(s *ast.AssignStmt) {
	if ix, ok := s.Target.(*ast.IndexExpr); ok && s.Operator == ast.ASSIGN && g.isMap(ix.Target) {
		g.writeLine("%s.set(%s, %s);", g.receiver(ix.Target), g.valueExpr(ix.Index), g.valueExpr(s.Value))
		return
	}
	g.writeLine("%s %s %s;", g.expr(s.Target), s.Operator, g.valueExpr(s.Value))
}

func (g *Generator) let(s *ast.LetStmt) {
	s = g.pipeline.Rewrite(s).(*ast.LetStmt)
	keyword := "const"
	if s.IsMutable() {
		keyword = "let"
	}
	if s.Else != nil {
		g.letElse(s, keyword)
		return
	}

	name, simple := s.Name()
	switch {
	case simple && s.Value == nil:
		g.writeLine("let %s;", name)
	case simple && blockLike(s.Value) && !g.simpleIf(s.Value):
		g.writeLine("let %s;", name)
		g.exprStmt(s.Value, assigning, name)
	case simple:
		g.writeLine("%s %s = %s;", keyword, name, g.valueExpr(s.Value))
	default:
		if _, ok := s.Pattern.(*ast.WildcardPattern); ok {
			g.writeLine("%s;", g.valueExpr(s.Value))
			return
		}
		g.writeLine("%s %s = %s;", keyword, g.binding(s.Pattern), g.valueExpr(s.Value))
	}
}

// letElse prints "let PAT = v else { .. }" as a checked destructuring
func (g *Generator) letElse(s *ast.LetStmt, keyword string) {
	subj, decl := g.subject(s.Value)
	if decl != "" {
		g.writeLine("%s", decl)
	}
	g.writeIndent()
	g.write("if (!(" + g.patternCond(s.Pattern, subj) + ")) " + g.block(s.Else, discard, ""))
	g.write("\n")
	for _, line := range g.patternBindings(s.Pattern, subj, keyword) {
		g.writeLine("%s", line)
	}
}

// subject returns an expression naming the value of e that may be read more
// than once, with the declaration introducing it when e is not a plain name
func (g *Generator) subject(e ast.Expr) (string, string) {
	s := g.valueExpr(e)
	if id, ok := e.(*ast.IdentExpr); ok && s == jsIdent(id.Name) {
		return s, ""
	}
	name := g.temp("m")
	return name, "const " + name + " = " + s + ";"
}

func (g *Generator) ifStmt(e *ast.IfExpr, mode tailMode, target string) {
	var head string
	var prelude []string
	if e.Pattern != nil {
		subj, decl := g.subject(e.Cond)
		if decl != "" {
			g.writeLine("%s", decl)
		}
		head = "if (" + g.patternCond(e.Pattern, subj) + ")"
		prelude = g.patternBindings(e.Pattern, subj, "const")
	} else {
		head = "if (" + g.expr(e.Cond) + ")"
	}
	g.writeIndent()
	g.write(head + " " + g.block(e.Then, mode, target, prelude...))

	switch els := e.Else.(type) {
	case nil:
	case *ast.IfExpr:
		if els.Pattern == nil {
			g.write(" else ")
			g.write(strings.TrimLeft(g.capture(func() { g.ifStmt(els, mode, target) }), " "))
			return
		}
		g.write(" else {\n" + g.capture(func() {
			g.indent++
			defer func() { g.indent-- }()
			g.ifStmt(els, mode, target)
		}) + g.indentString() + "}")
	case *ast.BlockExpr:
		g.write(" else " + g.block(els.Block, mode, target))
	default:
		g.write(" else " + g.exprBlock(els, mode, target))
	}
	g.write("\n")
}

// matchStmt prints a match as an if chain over the subject; arms with guards
// need their bindings before the guard, so those matches use a labelled block
func (g *Generator) matchStmt(m *ast.MatchExpr, mode tailMode, target string) {
	subj, decl := g.subject(m.Subject)
	if decl != "" {
		g.writeLine("%s", decl)
	}

	guarded := false
	for _, arm := range m.Arms {
		if arm.Guard != nil {
			guarded = true
		}
	}
	if guarded {
		g.guardedMatch(m, subj, mode, target)
		return
	}

	g.writeIndent()
	for i, arm := range m.Arms {
		cond := g.patternCond(arm.Pattern, subj)
		body := g.exprBlock(arm.Body, mode, target, g.patternBindings(arm.Pattern, subj, "const")...)
		switch {
		case cond == "true" && i == 0:
			g.write(body)
		case cond == "true":
			g.write(" else " + body)
		case i == 0:
			g.write("if (" + cond + ") " + body)
		default:
			g.write(" else if (" + cond + ") " + body)
		}
		if cond == "true" {
			break
		}
	}
	g.write("\n")
}

func (g *Generator) guardedMatch(m *ast.MatchExpr, subj string, mode tailMode, target string) {
	label := g.temp("match")
	g.writeLine("%s: {", label)
	g.indent++
	for _, arm := range m.Arms {
		cond := g.patternCond(arm.Pattern, subj)
		g.writeLine("if (%s) {", cond)
		g.indent++
		for _, line := range g.patternBindings(arm.Pattern, subj, "const") {
			g.writeLine("%s", line)
		}
		if arm.Guard != nil {
			g.writeLine("if (%s) {", g.expr(arm.Guard))
			g.indent++
		}
		g.exprStmt(armValue(arm.Body), mode, target)
		g.writeLine("break %s;", label)
		if arm.Guard != nil {
			g.indent--
			g.writeLine("}")
		}
		g.indent--
		g.writeLine("}")
	}
	g.indent--
	g.writeLine("}")
}

// armValue unwraps single-expression block bodies
func armValue(e ast.Expr) ast.Expr {
	if b, ok := e.(*ast.BlockExpr); ok && len(b.Block.Stmts) == 0 && b.Block.Tail != nil {
		return b.Block.Tail
	}
	return e
}

func (g *Generator) loop(e ast.Expr) {
	g.writeIndent()
	switch e := e.(type) {
	case *ast.ForExpr:
		if r, ok := e.Iter.(*ast.RangeExpr); ok && r.Start != nil && r.End != nil {
			name := g.binding(e.Pattern)
			op := "<"
			if r.Inclusive {
				op = "<="
			}
			g.write("for (let " + name + " = " + g.expr(r.Start) + "; " + name + " " + op + " " + g.expr(r.End) + "; " + name + "++) ")
		} else {
			g.write("for (const " + g.binding(e.Pattern) + " of " + g.expr(e.Iter) + ") ")
		}
		g.write(g.block(e.Body, discard, ""))
	case *ast.WhileExpr:
		g.write("while (" + g.expr(e.Cond) + ") " + g.block(e.Body, discard, ""))
	case *ast.LoopExpr:
		g.write("while (true) " + g.block(e.Body, discard, ""))
	}
	g.write("\n")
}
