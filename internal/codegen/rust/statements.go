package rust

import (
	"strings"

	"windjammer/internal/ast"
)

// block prints a braced block. With value set the tail expression is the
// block's result; otherwise a tail that produces a value is terminated.
func (g *Generator) block(b *ast.Block, value bool) string {
	if b == nil || (len(b.Stmts) == 0 && b.Tail == nil) {
		return "{}"
	}
	body := g.capture(func() {
		g.indent++
		defer func() { g.indent-- }()
		for _, s := range b.Stmts {
			g.stmt(s)
		}
		if b.Tail != nil {
			g.tail(b.Tail, value)
		}
	})
	return "{\n" + body + g.indentString() + "}"
}

func (g *Generator) tail(e ast.Expr, value bool) {
	g.writeIndent()
	if value {
		g.write(g.valueExpr(e))
		g.write("\n")
		return
	}
	g.write(g.unitExpr(e))
	if !blockLike(e) && g.producesValue(e) {
		g.write(";")
	}
	g.write("\n")
}

// producesValue reports whether e is known to evaluate to something other than unit
func (g *Generator) producesValue(e ast.Expr) bool {
	if _, isMacro := e.(*ast.MacroExpr); isMacro {
		return false
	}
	t := g.info.TypeOf(e)
	return !t.IsUnknown() && !t.IsUnit()
}

// blockLike expressions end in a brace and stand alone as statements
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
		rewritten := g.pipeline.Rewrite(s).(*ast.AssignStmt)
		g.writeLine("%s %s %s;", g.place(rewritten.Target), rewritten.Operator, g.valueExpr(rewritten.Value))
	case *ast.ExprStmt:
		g.writeIndent()
		g.write(g.unitExpr(s.Expr))
		if !blockLike(s.Expr) {
			g.write(";")
		}
		g.write("\n")
	case *ast.ReturnStmt:
		if s.Value == nil {
			g.writeLine("return;")
			return
		}
		g.writeLine("return %s;", g.valueExpr(s.Value))
	case *ast.BreakStmt:
		if s.Value == nil {
			g.writeLine("break;")
			return
		}
		g.writeLine("break %s;", g.valueExpr(s.Value))
	case *ast.ContinueStmt:
		g.writeLine("continue;")
	case *ast.ItemStmt:
		if fn, ok := s.Item.(*ast.Function); ok {
			g.function(fn, false)
			return
		}
		g.item(s.Item)
	default:
		g.fail(s, "unsupported statement %T", s)
	}
}

// place prints an assignment target
func (g *Generator) place(e ast.Expr) string {
	return g.expr(e)
}

func (g *Generator) let(s *ast.LetStmt) {
	s = g.pipeline.Rewrite(s).(*ast.LetStmt)

	var b strings.Builder
	b.WriteString("let ")
	if name, ok := s.Name(); ok {
		if s.IsMutable() {
			b.WriteString("mut ")
		}
		b.WriteString(name)
	} else {
		b.WriteString(g.pattern(s.Pattern))
	}
	if s.Type != nil {
		b.WriteString(": ")
		b.WriteString(g.typ(s.Type))
	}
	if s.Value != nil {
		b.WriteString(" = ")
		arr, isArray := s.Value.(*ast.ArrayExpr)
		_, fixed := s.Type.(*ast.ArrayType)
		if isArray && fixed {
			b.WriteString(g.arrayLiteral(arr, true))
		} else {
			b.WriteString(g.valueExpr(s.Value))
		}
	}
	if s.Else != nil {
		b.WriteString(" else ")
		b.WriteString(g.block(s.Else, false))
	}
	b.WriteString(";")
	g.writeLine("%s", b.String())
}
