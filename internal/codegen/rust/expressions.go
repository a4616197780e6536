package rust

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/codegen"
	"windjammer/internal/semantic"
)

// formatMacros are builtin functions printed as formatting macros
var formatMacros = map[string]bool{
	"println": true, "print": true, "eprintln": true, "eprint": true,
	"format": true, "panic": true,
}

// plainMacros are builtin functions printed as macros with their arguments unchanged
var plainMacros = map[string]bool{
	"assert": true, "assert_eq": true, "assert_ne": true, "debug_assert": true,
	"todo": true, "unreachable": true, "unimplemented": true, "dbg": true,
}

// valueExpr prints e where its value is used
func (g *Generator) valueExpr(e ast.Expr) string {
	return g.exprCtx(e, true)
}

// unitExpr prints e where its value is discarded
func (g *Generator) unitExpr(e ast.Expr) string {
	return g.exprCtx(e, false)
}

func (g *Generator) expr(e ast.Expr) string {
	return g.exprCtx(e, true)
}

func (g *Generator) exprCtx(e ast.Expr, value bool) string {
	if e == nil {
		return ""
	}
	if pipe, ok := e.(*ast.PipeExpr); ok {
		if rewritten := g.pipeline.Rewrite(pipe); rewritten != ast.Node(pipe) {
			return g.exprCtx(rewritten.(ast.Expr), value)
		}
	}
	s, derefd := g.bare(e, value)
	return g.coerce(e, s, derefd)
}

// coerce wraps a printed expression in the conversion inference chose for it
func (g *Generator) coerce(e ast.Expr, s string, derefd bool) string {
	origin, _ := g.pipeline.Origin(e).(ast.Expr)
	if origin == nil {
		origin = e
	}
	switch g.info.CoercionOf(origin) {
	case semantic.Borrow:
		if looseBinding(e) {
			s = "(" + s + ")"
		}
		return "&" + s
	case semantic.MutBorrow:
		if looseBinding(e) {
			s = "(" + s + ")"
		}
		return "&mut " + s
	case semantic.Clone:
		if derefd || !postfixSafe(e) {
			s = "(" + s + ")"
		}
		return s + ".clone()"
	case semantic.ToString:
		if derefd || !postfixSafe(e) {
			s = "(" + s + ")"
		}
		return s + ".to_string()"
	}
	return s
}

// looseBinding expressions need parentheses under a prefix operator
func looseBinding(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BinaryExpr, *ast.CastExpr, *ast.RangeExpr, *ast.ClosureExpr:
		return true
	}
	return false
}

// postfixSafe expressions accept a method call or field access without parentheses
func postfixSafe(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BinaryExpr, *ast.UnaryExpr, *ast.CastExpr, *ast.RangeExpr, *ast.ClosureExpr,
		*ast.IfExpr, *ast.MatchExpr, *ast.ForExpr, *ast.WhileExpr, *ast.LoopExpr, *ast.BlockExpr:
		return false
	}
	return true
}

// receiverExpr prints the left side of a method call or field access
func (g *Generator) receiverExpr(e ast.Expr) string {
	s := g.expr(e)
	if !postfixSafe(e) || strings.HasPrefix(s, "*") || strings.HasPrefix(s, "&") {
		return "(" + s + ")"
	}
	return s
}

// bare prints e without its coercion; derefd reports an inserted dereference
func (g *Generator) bare(e ast.Expr, value bool) (string, bool) {
	switch e := e.(type) {
	case *ast.BadExpr:
		g.fail(e, "%s", e.Bad.Message)
	case *ast.LiteralExpr:
		return g.literal(e), false
	case *ast.InterpolatedString:
		format, args := g.interpolation(e)
		return "format!(" + strings.Join(append([]string{format}, args...), ", ") + ")", false
	case *ast.IdentExpr:
		if g.info != nil && g.info.Derefs[e] {
			return "*" + e.Name, true
		}
		return e.Name, false
	case *ast.PathExpr:
		return pathString(e), false
	case *ast.BinaryExpr:
		return g.expr(e.Left) + " " + e.Op + " " + g.expr(e.Right), false
	case *ast.UnaryExpr:
		v := g.expr(e.Value)
		if looseBinding(e.Value) {
			v = "(" + v + ")"
		}
		if e.Op == "&mut" {
			return "&mut " + v, false
		}
		return e.Op + v, false
	case *ast.CallExpr:
		return g.await(e, g.call(e)), false
	case *ast.MethodCallExpr:
		return g.await(e, g.methodCall(e)), false
	case *ast.FieldAccessExpr:
		return g.receiverExpr(e.Target) + "." + e.Field.Value, false
	case *ast.IndexExpr:
		return g.receiverExpr(e.Target) + "[" + g.index(e) + "]", false
	case *ast.BlockExpr:
		return g.block(e.Block, value), false
	case *ast.IfExpr:
		return g.ifExpr(e, value), false
	case *ast.MatchExpr:
		return g.matchExpr(e, value), false
	case *ast.ForExpr:
		return "for " + g.pattern(e.Pattern) + " in " + g.expr(e.Iter) + " " + g.block(e.Body, false), false
	case *ast.WhileExpr:
		return "while " + g.expr(e.Cond) + " " + g.block(e.Body, false), false
	case *ast.LoopExpr:
		return "loop " + g.block(e.Body, false), false
	case *ast.ClosureExpr:
		return g.closure(e), false
	case *ast.TupleExpr:
		elems := g.exprList(e.Elements)
		if len(elems) == 1 {
			return "(" + elems[0] + ",)", false
		}
		return "(" + strings.Join(elems, ", ") + ")", false
	case *ast.ArrayExpr:
		return g.arrayLiteral(e, false), false
	case *ast.MapExpr:
		return g.mapLiteral(e), false
	case *ast.StructLiteralExpr:
		return g.structLiteral(e), false
	case *ast.RangeExpr:
		op := ".."
		if e.Inclusive {
			op = "..="
		}
		return g.expr(e.Start) + op + g.expr(e.End), false
	case *ast.CastExpr:
		v := g.expr(e.Value)
		if looseBinding(e.Value) {
			v = "(" + v + ")"
		}
		return v + " as " + g.typ(e.Type), false
	case *ast.PipeExpr:
		return g.naivePipe(e), false
	case *ast.MacroExpr:
		return g.macro(e), false
	case *ast.TryExpr:
		return g.receiverExpr(e.Value) + "?", false
	case *ast.AwaitExpr:
		return g.receiverExpr(e.Value) + ".await", false
	case *ast.ParenExpr:
		return "(" + g.expr(e.Value) + ")", false
	case *ast.GoExpr:
		return "std::thread::spawn(move || " + g.block(e.Body, false) + ")", false
	}
	g.fail(e, "unsupported expression %T", e)
	return "", false
}

func pathString(p *ast.PathExpr) string {
	segs := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		segs[i] = s.Value
	}
	return strings.Join(segs, "::")
}

func (g *Generator) exprList(es []ast.Expr) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = g.valueExpr(e)
	}
	return out
}

// await appends .await to calls of async functions made from async functions
func (g *Generator) await(call ast.Expr, s string) string {
	if g.fn == nil || !g.lowered.IsAsync(g.fn) {
		return s
	}
	if origin, ok := g.pipeline.Origin(call).(ast.Expr); ok && g.info.IsAsync(origin) {
		return s + ".await"
	}
	return s
}

func (g *Generator) args(args []*ast.Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = g.valueExpr(a.Value)
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) turbofish(ts []ast.TypeExpr) string {
	if len(ts) == 0 {
		return ""
	}
	return "::<" + g.typeList(ts) + ">"
}

func (g *Generator) call(c *ast.CallExpr) string {
	if id, ok := c.Callee.(*ast.IdentExpr); ok && !g.userFunction(c) {
		values := make([]ast.Expr, len(c.Args))
		for i, a := range c.Args {
			values[i] = a.Value
		}
		switch {
		case formatMacros[id.Name]:
			return g.formatMacro(id.Name, values)
		case plainMacros[id.Name]:
			return id.Name + "!(" + strings.Join(g.exprList(values), ", ") + ")"
		}
	}

	callee := g.expr(c.Callee)
	switch c.Callee.(type) {
	case *ast.IdentExpr, *ast.PathExpr, *ast.ParenExpr:
	default:
		callee = "(" + callee + ")"
	}
	return callee + g.turbofish(c.TypeArgs) + "(" + g.args(c.Args) + ")"
}

// userFunction reports whether a call resolves to a declared function rather than a builtin
func (g *Generator) userFunction(c *ast.CallExpr) bool {
	if g.info == nil {
		return false
	}
	origin, _ := g.pipeline.Origin(c).(*ast.CallExpr)
	if origin == nil {
		origin = c
	}
	sig := g.info.Calls[origin]
	return sig != nil && sig.Decl != nil
}

func (g *Generator) methodCall(mc *ast.MethodCallExpr) string {
	method := mc.Method.Value + g.turbofish(mc.TypeArgs)
	args := "(" + g.args(mc.Args) + ")"
	if g.info != nil {
		if _, ok := g.info.StaticCalls[mc]; ok {
			return staticPath(mc.Receiver) + "::" + method + args
		}
		if _, ok := g.info.ModuleCalls[mc]; ok {
			return staticPath(mc.Receiver) + "::" + method + args
		}
	}
	return g.receiverExpr(mc.Receiver) + "." + method + args
}

// staticPath prints a type or module used as a call qualifier
func staticPath(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.IdentExpr:
		return e.Name
	case *ast.PathExpr:
		return pathString(e)
	case *ast.FieldAccessExpr:
		return staticPath(e.Target) + "::" + e.Field.Value
	}
	return ast.Print(e)
}

// index prints an index, converting integer indices to the platform size type
func (g *Generator) index(ix *ast.IndexExpr) string {
	s := g.expr(ix.Index)
	if g.info == nil || !g.info.IndexCasts[ix] {
		return s
	}
	if looseBinding(ix.Index) {
		s = "(" + s + ")"
	}
	return s + " as usize"
}

func (g *Generator) ifExpr(e *ast.IfExpr, value bool) string {
	var b strings.Builder
	b.WriteString("if ")
	if e.Pattern != nil {
		b.WriteString("let " + g.pattern(e.Pattern) + " = ")
	}
	b.WriteString(g.expr(e.Cond))
	b.WriteString(" ")
	b.WriteString(g.block(e.Then, value))
	switch els := e.Else.(type) {
	case nil:
	case *ast.IfExpr:
		b.WriteString(" else " + g.ifExpr(els, value))
	case *ast.BlockExpr:
		b.WriteString(" else " + g.block(els.Block, value))
	default:
		b.WriteString(" else { " + g.exprCtx(els, value) + " }")
	}
	return b.String()
}

func (g *Generator) matchExpr(m *ast.MatchExpr, value bool) string {
	arms := g.capture(func() {
		g.indent++
		defer func() { g.indent-- }()
		for _, arm := range m.Arms {
			head := g.pattern(arm.Pattern)
			if arm.Guard != nil {
				head += " if " + g.expr(arm.Guard)
			}
			if body, ok := arm.Body.(*ast.BlockExpr); ok {
				g.writeLine("%s => %s", head, g.block(body.Block, value))
				continue
			}
			g.writeLine("%s => %s,", head, g.exprCtx(arm.Body, value))
		}
	})
	return "match " + g.expr(m.Subject) + " {\n" + arms + g.indentString() + "}"
}

func (g *Generator) closure(c *ast.ClosureExpr) string {
	params := make([]string, len(c.Params))
	for i, p := range c.Params {
		params[i] = g.pattern(p.Pattern)
		if p.Type != nil {
			params[i] += ": " + g.typ(p.Type)
		}
	}
	head := "|" + strings.Join(params, ", ") + "| "
	if c.Move {
		head = "move " + head
	}
	if c.Return != nil {
		head += "-> " + g.typ(c.Return) + " "
		if block, ok := c.Body.(*ast.BlockExpr); ok {
			return head + g.block(block.Block, true)
		}
		return head + "{ " + g.valueExpr(c.Body) + " }"
	}
	return head + g.valueExpr(c.Body)
}

// arrayLiteral prints a growable vector, or a fixed array when the declared type asks for one
func (g *Generator) arrayLiteral(a *ast.ArrayExpr, fixed bool) string {
	var inner string
	if a.Repeat != nil && len(a.Elements) == 1 {
		inner = g.valueExpr(a.Elements[0]) + "; " + g.valueExpr(a.Repeat)
	} else {
		inner = strings.Join(g.exprList(a.Elements), ", ")
	}
	if fixed {
		return "[" + inner + "]"
	}
	return "vec![" + inner + "]"
}

func (g *Generator) mapLiteral(m *ast.MapExpr) string {
	g.requireType("HashMap")
	if len(m.Entries) == 0 {
		return "HashMap::new()"
	}
	entries := make([]string, len(m.Entries))
	for i, entry := range m.Entries {
		entries[i] = "(" + g.valueExpr(entry.Key) + ", " + g.valueExpr(entry.Value) + ")"
	}
	return "HashMap::from([" + strings.Join(entries, ", ") + "])"
}

func (g *Generator) structLiteral(s *ast.StructLiteralExpr) string {
	name := s.Name
	if s.Type != nil {
		name = staticPath(s.Type)
	}
	fields := make([]string, 0, len(s.Fields)+1)
	for _, f := range s.Fields {
		init := g.pipeline.Rewrite(f).(*ast.FieldInit)
		if init.Value == nil {
			fields = append(fields, init.Name.Value)
			continue
		}
		fields = append(fields, init.Name.Value+": "+g.valueExpr(init.Value))
	}
	if s.Base != nil {
		fields = append(fields, ".."+g.valueExpr(s.Base))
	}
	if len(fields) == 0 {
		return name + " {}"
	}
	return name + " { " + strings.Join(fields, ", ") + " }"
}

// naivePipe prints a pipe the peephole pipeline left alone as a direct application
func (g *Generator) naivePipe(p *ast.PipeExpr) string {
	call := codegen.PipeCall(p)
	g.pipeline.Derive(call, p)
	callee := g.expr(call.Callee)
	if _, ok := call.Callee.(*ast.ParenExpr); !ok {
		callee = "(" + callee + ")"
	}
	return g.await(call, callee+g.turbofish(call.TypeArgs)+"("+g.args(call.Args)+")")
}

// macro prints a macro invocation; formatting macros whose first argument is an
// interpolated string are expanded, the rest are copied verbatim
func (g *Generator) macro(m *ast.MacroExpr) string {
	if formatMacros[m.Name] && len(m.Args) > 0 && m.Delim == ast.ParenDelimiter {
		if _, ok := m.Args[0].(*ast.InterpolatedString); ok {
			return g.formatMacro(m.Name, m.Args)
		}
	}
	return m.Name + "!" + m.Delim.Open() + m.Raw + m.Delim.Close()
}

// formatMacro prints a formatting builtin; the format string comes from an
// interpolation, a literal, or a "{}" placeholder for any other first argument
func (g *Generator) formatMacro(name string, args []ast.Expr) string {
	if len(args) == 0 {
		return name + "!()"
	}
	var parts []string
	switch first := args[0].(type) {
	case *ast.InterpolatedString:
		format, values := g.interpolation(first)
		parts = append([]string{format}, values...)
	case *ast.LiteralExpr:
		if first.Kind != ast.StringLiteral {
			parts = []string{`"{}"`, g.valueExpr(first)}
			break
		}
		text := rustEscape(first.Value, '"')
		if len(args) == 1 {
			text = escapeBraces(text)
		}
		parts = []string{`"` + text + `"`}
	default:
		parts = []string{`"{}"`, g.valueExpr(first)}
	}
	parts = append(parts, g.exprList(args[1:])...)
	return name + "!(" + strings.Join(parts, ", ") + ")"
}

// interpolation splits an interpolated string into a format string and its arguments
func (g *Generator) interpolation(s *ast.InterpolatedString) (string, []string) {
	var format strings.Builder
	var args []string
	format.WriteString(`"`)
	for _, part := range s.Parts {
		if part.Expr != nil {
			format.WriteString("{}")
			args = append(args, g.valueExpr(part.Expr))
			continue
		}
		format.WriteString(escapeBraces(rustEscape(part.Literal, '"')))
	}
	format.WriteString(`"`)
	return format.String(), args
}

func (g *Generator) literal(l *ast.LiteralExpr) string {
	switch l.Kind {
	case ast.StringLiteral:
		return `"` + rustEscape(l.Value, '"') + `"`
	case ast.CharLiteral:
		return "'" + rustEscape(l.Value, '\'') + "'"
	}
	return l.Value + l.Suffix
}

func escapeBraces(s string) string {
	return strings.NewReplacer("{", "{{", "}", "}}").Replace(s)
}

// rustEscape escapes string or char contents for a literal delimited by quote
func rustEscape(s string, quote rune) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		case quote:
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
