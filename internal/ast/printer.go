package ast

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// printer renders nodes back to canonical surface syntax
type printer struct {
	b      strings.Builder
	indent int
}

// Print renders a node as canonical Windjammer source
func Print(n Node) string {
	var p printer
	p.node(n)
	return p.b.String()
}

func (p *printer) write(s string) {
	p.b.WriteString(s)
}

func (p *printer) writef(format string, args ...any) {
	fmt.Fprintf(&p.b, format, args...)
}

func (p *printer) newline() {
	p.b.WriteString("\n")
	p.b.WriteString(strings.Repeat(indentUnit, p.indent))
}

func (p *printer) list(n int, each func(i int)) {
	for i := 0; i < n; i++ {
		if i > 0 {
			p.write(", ")
		}
		each(i)
	}
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
	case *Program:
		for i, it := range n.Items {
			if i > 0 {
				p.write("\n\n")
			}
			p.node(it)
		}
	case *Ident:
		p.write(n.Value)
	case *Decorator:
		p.write("@" + n.Name)
		if len(n.Args) > 0 {
			p.write("(")
			p.list(len(n.Args), func(i int) { p.node(n.Args[i]) })
			p.write(")")
		}
	case *DecoratorArg:
		if n.Name != "" {
			p.write(n.Name + " = ")
		}
		p.node(n.Value)
	case Item:
		p.item(n)
	case Stmt:
		p.stmt(n)
	case *Block:
		p.block(n)
	case Expr:
		p.expr(n)
	case Pattern:
		p.pattern(n)
	case TypeExpr:
		p.typ(n)
	case *SelfParam:
		p.selfParam(n)
	case *Param:
		p.param(n)
	case *TypeParam:
		p.typeParam(n)
	case *WherePredicate:
		p.typ(n.Type)
		p.write(": ")
		p.bounds(n.Bounds)
	case *Field:
		p.field(n)
	case *Variant:
		p.variant(n)
	case *Arg:
		p.arg(n)
	case *MatchArm:
		p.matchArm(n)
	case *ClosureParam:
		p.pattern(n.Pattern)
		if n.Type != nil {
			p.write(": ")
			p.typ(n.Type)
		}
	case *MapEntry:
		p.expr(n.Key)
		p.write(": ")
		p.expr(n.Value)
	case *FieldInit:
		p.write(n.Name.Value + ": ")
		p.expr(n.Value)
	case *FieldPattern:
		p.write(n.Name.Value)
		if n.Pattern != nil {
			p.write(": ")
			p.pattern(n.Pattern)
		}
	default:
		p.writef("<%T>", n)
	}
}

func (p *printer) decorators(decs []*Decorator) {
	for _, d := range decs {
		p.node(d)
		p.newline()
	}
}

func (p *printer) docComment(doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		p.write("///")
		if line != "" {
			p.write(" " + line)
		}
		p.newline()
	}
}

func (p *printer) pub(public bool) {
	if public {
		p.write("pub ")
	}
}

func (p *printer) item(it Item) {
	switch it := it.(type) {
	case *Function:
		p.function(it)
	case *Struct:
		p.docComment(it.DocComment)
		p.decorators(it.Decorators)
		p.pub(it.Public)
		p.write("struct " + it.Name.Value)
		p.typeParams(it.TypeParams)
		p.write(" {")
		p.indent++
		for _, f := range it.Fields {
			p.newline()
			p.field(f)
			p.write(",")
		}
		p.indent--
		if len(it.Fields) > 0 {
			p.newline()
		}
		p.write("}")
	case *Enum:
		p.docComment(it.DocComment)
		p.decorators(it.Decorators)
		p.pub(it.Public)
		p.write("enum " + it.Name.Value)
		p.typeParams(it.TypeParams)
		p.write(" {")
		p.indent++
		for _, v := range it.Variants {
			p.newline()
			p.variant(v)
			p.write(",")
		}
		p.indent--
		if len(it.Variants) > 0 {
			p.newline()
		}
		p.write("}")
	case *Trait:
		p.docComment(it.DocComment)
		p.decorators(it.Decorators)
		p.pub(it.Public)
		p.write("trait " + it.Name.Value)
		p.typeParams(it.TypeParams)
		p.write(" ")
		p.methods(it.Methods)
	case *Impl:
		p.decorators(it.Decorators)
		p.write("impl")
		p.typeParams(it.TypeParams)
		p.write(" ")
		if it.Trait != nil {
			p.typ(it.Trait)
			p.write(" for ")
		}
		p.typ(it.Target)
		p.write(" ")
		p.methods(it.Methods)
	case *Const:
		p.docComment(it.DocComment)
		p.pub(it.Public)
		p.write("const " + it.Name.Value)
		if it.Type != nil {
			p.write(": ")
			p.typ(it.Type)
		}
		p.write(" = ")
		p.expr(it.Value)
	case *Static:
		p.docComment(it.DocComment)
		p.pub(it.Public)
		p.write("static ")
		if it.Mutable {
			p.write("mut ")
		}
		p.write(it.Name.Value)
		if it.Type != nil {
			p.write(": ")
			p.typ(it.Type)
		}
		p.write(" = ")
		p.expr(it.Value)
	case *TypeAlias:
		p.pub(it.Public)
		p.write("type " + it.Name.Value + " = ")
		p.typ(it.Type)
	case *Use:
		p.pub(it.Public)
		p.write("use " + it.DottedPath())
		switch {
		case it.Glob:
			p.write(".*")
		case len(it.Group) > 0:
			p.write(".{")
			p.list(len(it.Group), func(i int) { p.write(it.Group[i].Value) })
			p.write("}")
		}
		if it.Alias != nil {
			p.write(" as " + it.Alias.Value)
		}
	case *ModDecl:
		p.pub(it.Public)
		p.write("mod " + it.Name.Value)
	case *MacroItem:
		p.expr(it.Macro)
	case *BadItem:
		p.writef("BadItem: %s", it.Bad.Message)
	}
}

func (p *printer) methods(fns []*Function) {
	p.write("{")
	p.indent++
	for i, f := range fns {
		if i > 0 {
			p.write("\n")
		}
		p.newline()
		p.function(f)
	}
	p.indent--
	if len(fns) > 0 {
		p.newline()
	}
	p.write("}")
}

func (p *printer) function(f *Function) {
	p.docComment(f.DocComment)
	p.decorators(f.Decorators)
	p.pub(f.Public)
	if f.Async {
		p.write("async ")
	}
	if f.Extern {
		p.write("extern ")
	}
	p.write("fn " + f.Name.Value)
	p.typeParams(f.TypeParams)
	p.write("(")
	n := len(f.Params)
	if f.Receiver != nil {
		p.selfParam(f.Receiver)
		if n > 0 {
			p.write(", ")
		}
	}
	p.list(n, func(i int) { p.param(f.Params[i]) })
	p.write(")")
	if f.Return != nil {
		p.write(" -> ")
		p.typ(f.Return)
	}
	if len(f.Where) > 0 {
		p.write(" where ")
		p.list(len(f.Where), func(i int) { p.node(f.Where[i]) })
	}
	if f.Body != nil {
		p.write(" ")
		p.block(f.Body)
	}
}

func (p *printer) selfParam(s *SelfParam) {
	if !s.Explicit {
		p.write("self")
		return
	}
	switch s.Mode {
	case SelfRef:
		p.write("&self")
	case SelfMutRef:
		p.write("&mut self")
	default:
		if s.Mutable {
			p.write("mut ")
		}
		p.write("self")
	}
}

func (p *printer) param(prm *Param) {
	if prm.Pattern != nil {
		p.pattern(prm.Pattern)
	} else {
		if prm.Mutable {
			p.write("mut ")
		}
		p.write(prm.Name.Value)
	}
	if prm.Type != nil {
		p.write(": ")
		p.typ(prm.Type)
	}
}

func (p *printer) typeParams(tps []*TypeParam) {
	if len(tps) == 0 {
		return
	}
	p.write("<")
	p.list(len(tps), func(i int) { p.typeParam(tps[i]) })
	p.write(">")
}

func (p *printer) typeParam(tp *TypeParam) {
	p.write(tp.Name.Value)
	if len(tp.Bounds) > 0 {
		p.write(": ")
		p.bounds(tp.Bounds)
	}
}

func (p *printer) bounds(bs []TypeExpr) {
	for i, b := range bs {
		if i > 0 {
			p.write(" + ")
		}
		p.typ(b)
	}
}

func (p *printer) field(f *Field) {
	p.pub(f.Public)
	p.write(f.Name.Value + ": ")
	p.typ(f.Type)
}

func (p *printer) variant(v *Variant) {
	p.write(v.Name.Value)
	switch {
	case len(v.Tuple) > 0:
		p.write("(")
		p.list(len(v.Tuple), func(i int) { p.typ(v.Tuple[i]) })
		p.write(")")
	case len(v.Fields) > 0:
		p.write(" { ")
		p.list(len(v.Fields), func(i int) { p.field(v.Fields[i]) })
		p.write(" }")
	}
}

func (p *printer) block(b *Block) {
	if b == nil {
		return
	}
	if len(b.Stmts) == 0 && b.Tail == nil {
		p.write("{}")
		return
	}
	p.write("{")
	p.indent++
	for _, s := range b.Stmts {
		p.newline()
		p.stmt(s)
	}
	if b.Tail != nil {
		p.newline()
		p.expr(b.Tail)
	}
	p.indent--
	p.newline()
	p.write("}")
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *LetStmt:
		p.write("let ")
		p.pattern(s.Pattern)
		if s.Type != nil {
			p.write(": ")
			p.typ(s.Type)
		}
		if s.Value != nil {
			p.write(" = ")
			p.expr(s.Value)
		}
		if s.Else != nil {
			p.write(" else ")
			p.block(s.Else)
		}
	case *AssignStmt:
		p.expr(s.Target)
		p.write(" " + s.Operator.String() + " ")
		p.expr(s.Value)
	case *ExprStmt:
		p.expr(s.Expr)
	case *ReturnStmt:
		p.write("return")
		if s.Value != nil {
			p.write(" ")
			p.expr(s.Value)
		}
	case *BreakStmt:
		p.write("break")
		if s.Value != nil {
			p.write(" ")
			p.expr(s.Value)
		}
	case *ContinueStmt:
		p.write("continue")
	case *ItemStmt:
		p.item(s.Item)
	}
}

func (p *printer) args(args []*Arg) {
	p.write("(")
	p.list(len(args), func(i int) { p.arg(args[i]) })
	p.write(")")
}

func (p *printer) arg(a *Arg) {
	if a.Name != "" {
		p.write(a.Name + " = ")
	}
	p.expr(a.Value)
}

func (p *printer) typeArgs(ts []TypeExpr) {
	if len(ts) == 0 {
		return
	}
	p.write("::<")
	p.list(len(ts), func(i int) { p.typ(ts[i]) })
	p.write(">")
}

func (p *printer) expr(e Expr) {
	switch e := e.(type) {
	case nil:
	case *BadExpr:
		p.writef("BadExpr: %s", e.Bad.Message)
	case *LiteralExpr:
		p.write(LiteralSource(e))
	case *InterpolatedString:
		p.write("\"")
		for _, part := range e.Parts {
			if part.Expr != nil {
				p.write("${")
				p.expr(part.Expr)
				p.write("}")
				continue
			}
			p.write(EscapeString(part.Literal, '"'))
		}
		p.write("\"")
	case *IdentExpr:
		p.write(e.Name)
	case *PathExpr:
		for i, seg := range e.Segments {
			if i > 0 {
				p.write("::")
			}
			p.write(seg.Value)
		}
	case *BinaryExpr:
		p.expr(e.Left)
		p.write(" " + e.Op + " ")
		p.expr(e.Right)
	case *UnaryExpr:
		p.write(e.Op)
		if e.Op == "&mut" {
			p.write(" ")
		}
		p.expr(e.Value)
	case *CallExpr:
		p.expr(e.Callee)
		p.typeArgs(e.TypeArgs)
		p.args(e.Args)
	case *MethodCallExpr:
		p.expr(e.Receiver)
		p.write("." + e.Method.Value)
		p.typeArgs(e.TypeArgs)
		p.args(e.Args)
	case *FieldAccessExpr:
		p.expr(e.Target)
		p.write("." + e.Field.Value)
	case *IndexExpr:
		p.expr(e.Target)
		p.write("[")
		p.expr(e.Index)
		p.write("]")
	case *BlockExpr:
		p.block(e.Block)
	case *IfExpr:
		p.write("if ")
		if e.Pattern != nil {
			p.write("let ")
			p.pattern(e.Pattern)
			p.write(" = ")
		}
		p.expr(e.Cond)
		p.write(" ")
		p.block(e.Then)
		if e.Else != nil {
			p.write(" else ")
			p.expr(e.Else)
		}
	case *MatchExpr:
		p.write("match ")
		p.expr(e.Subject)
		p.write(" {")
		p.indent++
		for _, arm := range e.Arms {
			p.newline()
			p.matchArm(arm)
			p.write(",")
		}
		p.indent--
		p.newline()
		p.write("}")
	case *ForExpr:
		p.write("for ")
		p.pattern(e.Pattern)
		p.write(" in ")
		p.expr(e.Iter)
		p.write(" ")
		p.block(e.Body)
	case *WhileExpr:
		p.write("while ")
		p.expr(e.Cond)
		p.write(" ")
		p.block(e.Body)
	case *LoopExpr:
		p.write("loop ")
		p.block(e.Body)
	case *ClosureExpr:
		if e.Move {
			p.write("move ")
		}
		p.write("|")
		p.list(len(e.Params), func(i int) { p.node(e.Params[i]) })
		p.write("| ")
		if e.Return != nil {
			p.write("-> ")
			p.typ(e.Return)
			p.write(" ")
		}
		p.expr(e.Body)
	case *TupleExpr:
		p.write("(")
		p.list(len(e.Elements), func(i int) { p.expr(e.Elements[i]) })
		if len(e.Elements) == 1 {
			p.write(",")
		}
		p.write(")")
	case *ArrayExpr:
		p.write("[")
		if e.Repeat != nil && len(e.Elements) == 1 {
			p.expr(e.Elements[0])
			p.write("; ")
			p.expr(e.Repeat)
		} else {
			p.list(len(e.Elements), func(i int) { p.expr(e.Elements[i]) })
		}
		p.write("]")
	case *MapExpr:
		p.write("{")
		p.list(len(e.Entries), func(i int) { p.node(e.Entries[i]) })
		p.write("}")
	case *StructLiteralExpr:
		p.expr(e.Type)
		p.write(" { ")
		p.list(len(e.Fields), func(i int) { p.node(e.Fields[i]) })
		if e.Base != nil {
			if len(e.Fields) > 0 {
				p.write(", ")
			}
			p.write("..")
			p.expr(e.Base)
		}
		p.write(" }")
	case *RangeExpr:
		p.expr(e.Start)
		if e.Inclusive {
			p.write("..=")
		} else {
			p.write("..")
		}
		p.expr(e.End)
	case *CastExpr:
		p.expr(e.Value)
		p.write(" as ")
		p.typ(e.Type)
	case *PipeExpr:
		p.expr(e.Left)
		p.write(" |> ")
		p.expr(e.Right)
	case *MacroExpr:
		p.write(e.Name + "!" + e.Delim.Open() + e.Raw + e.Delim.Close())
	case *TryExpr:
		p.expr(e.Value)
		p.write("?")
	case *AwaitExpr:
		p.expr(e.Value)
		p.write(".await")
	case *ParenExpr:
		p.write("(")
		p.expr(e.Value)
		p.write(")")
	case *GoExpr:
		p.write("go ")
		p.block(e.Body)
	}
}

func (p *printer) matchArm(arm *MatchArm) {
	p.pattern(arm.Pattern)
	if arm.Guard != nil {
		p.write(" if ")
		p.expr(arm.Guard)
	}
	p.write(" => ")
	p.expr(arm.Body)
}

func (p *printer) pattern(pat Pattern) {
	switch pat := pat.(type) {
	case nil:
	case *WildcardPattern:
		p.write("_")
	case *IdentPattern:
		if pat.Mutable {
			p.write("mut ")
		}
		p.write(pat.Name.Value)
	case *LiteralPattern:
		if pat.Negative {
			p.write("-")
		}
		p.write(LiteralSource(pat.Value))
	case *TuplePattern:
		p.write("(")
		p.list(len(pat.Elements), func(i int) { p.pattern(pat.Elements[i]) })
		p.write(")")
	case *EnumPattern:
		for i, seg := range pat.Path {
			if i > 0 {
				p.write("::")
			}
			p.write(seg.Value)
		}
		switch {
		case pat.StructLike:
			p.write(" { ")
			p.list(len(pat.Fields), func(i int) { p.node(pat.Fields[i]) })
			if pat.HasRest {
				if len(pat.Fields) > 0 {
					p.write(", ")
				}
				p.write("..")
			}
			p.write(" }")
		case pat.Tuple != nil:
			p.write("(")
			p.list(len(pat.Tuple), func(i int) { p.pattern(pat.Tuple[i]) })
			p.write(")")
		}
	case *OrPattern:
		for i, alt := range pat.Alternatives {
			if i > 0 {
				p.write(" | ")
			}
			p.pattern(alt)
		}
	case *RefPattern:
		p.write("&")
		p.pattern(pat.Pattern)
	case *RangePattern:
		if pat.Start != nil {
			p.pattern(pat.Start)
		}
		if pat.Inclusive {
			p.write("..=")
		} else {
			p.write("..")
		}
		if pat.End != nil {
			p.pattern(pat.End)
		}
	}
}

func (p *printer) typ(t TypeExpr) {
	switch t := t.(type) {
	case nil:
	case *PrimitiveType:
		p.write(t.Name)
	case *NamedType:
		p.write(strings.Join(t.Path, "::"))
		if len(t.Args) > 0 {
			p.write("<")
			p.list(len(t.Args), func(i int) { p.typ(t.Args[i]) })
			p.write(">")
		}
	case *TupleType:
		p.write("(")
		p.list(len(t.Elements), func(i int) { p.typ(t.Elements[i]) })
		if len(t.Elements) == 1 {
			p.write(",")
		}
		p.write(")")
	case *ArrayType:
		p.write("[")
		p.typ(t.Elem)
		p.write("; ")
		p.expr(t.Len)
		p.write("]")
	case *SliceType:
		p.write("[")
		p.typ(t.Elem)
		p.write("]")
	case *FuncType:
		p.write("fn(")
		p.list(len(t.Params), func(i int) { p.typ(t.Params[i]) })
		p.write(")")
		if t.Return != nil {
			p.write(" -> ")
			p.typ(t.Return)
		}
	case *RefType:
		p.write("&")
		if t.Mutable {
			p.write("mut ")
		}
		p.typ(t.Elem)
	case *InferType:
		p.write("_")
	}
}

// LiteralSource renders a literal the way it is written in source
func LiteralSource(l *LiteralExpr) string {
	if l == nil {
		return ""
	}
	switch l.Kind {
	case StringLiteral:
		return "\"" + EscapeString(l.Value, '"') + "\""
	case CharLiteral:
		return "'" + EscapeString(l.Value, '\'') + "'"
	default:
		return l.Value + l.Suffix
	}
}

// EscapeString re-escapes string or char contents for the given quote character
func EscapeString(s string, quote rune) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case 0:
			b.WriteString(`\0`)
		case quote:
			b.WriteRune('\\')
			b.WriteRune(r)
		case '$':
			if quote == '"' && i+1 < len(runes) && runes[i+1] == '{' {
				b.WriteRune('\\')
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
