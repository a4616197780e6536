package js

import (
	"strconv"
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/codegen"
	"windjammer/internal/semantic"
	"windjammer/internal/types"
)

var reserved = map[string]bool{
	"arguments": true, "await": true, "case": true, "catch": true, "class": true, "debugger": true,
	"default": true, "delete": true, "enum": true, "eval": true, "export": true, "extends": true,
	"finally": true, "function": true, "implements": true, "import": true, "in": true,
	"instanceof": true, "interface": true, "let": true, "new": true, "null": true, "package": true,
	"private": true, "protected": true, "public": true, "static": true, "super": true,
	"switch": true, "this": true, "throw": true, "try": true, "typeof": true, "undefined": true,
	"var": true, "void": true, "with": true, "yield": true,
}

// jsIdent renames identifiers that are reserved in scripts
func jsIdent(name string) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}

func (g *Generator) valueExpr(e ast.Expr) string {
	return g.expr(e)
}

func (g *Generator) expr(e ast.Expr) string {
	if e == nil {
		return "undefined"
	}
	if pipe, ok := e.(*ast.PipeExpr); ok {
		if rewritten := g.pipeline.Rewrite(pipe); rewritten != ast.Node(pipe) {
			return g.expr(rewritten.(ast.Expr))
		}
	}
	return g.coerce(e, g.bare(e))
}

// coerce keeps value semantics where inference asked for a copy; borrows need
// no counterpart on the script side
func (g *Generator) coerce(e ast.Expr, s string) string {
	origin, _ := g.pipeline.Origin(e).(ast.Expr)
	if origin == nil {
		origin = e
	}
	t := g.info.TypeOf(origin).Deref()
	switch g.info.CoercionOf(origin) {
	case semantic.Clone:
		if t.IsNumeric() || t.IsBool() || t.IsString() || (t != nil && t.Kind == types.Primitive) {
			return s
		}
		return g.use("__clone") + "(" + s + ")"
	case semantic.ToString:
		if _, isLit := e.(*ast.LiteralExpr); isLit || t.IsString() {
			return s
		}
		return "String(" + s + ")"
	}
	return s
}

func (g *Generator) bare(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.BadExpr:
		g.fail(e, "%s", e.Bad.Message)
	case *ast.LiteralExpr:
		return g.literal(e)
	case *ast.InterpolatedString:
		return g.template(e)
	case *ast.IdentExpr:
		return ident(e.Name)
	case *ast.PathExpr:
		return g.path(e)
	case *ast.BinaryExpr:
		return g.binary(e)
	case *ast.UnaryExpr:
		switch e.Op {
		case "*", "&", "&mut":
			return g.expr(e.Value)
		}
		v := g.expr(e.Value)
		if looseBinding(e.Value) {
			v = "(" + v + ")"
		}
		return e.Op + v
	case *ast.CallExpr:
		return g.await(e, g.call(e))
	case *ast.MethodCallExpr:
		return g.await(e, g.methodCall(e))
	case *ast.FieldAccessExpr:
		if _, err := strconv.Atoi(e.Field.Value); err == nil {
			return g.receiver(e.Target) + "[" + e.Field.Value + "]"
		}
		return g.receiver(e.Target) + "." + e.Field.Value
	case *ast.IndexExpr:
		return g.index(e)
	case *ast.IfExpr:
		if g.simpleIf(e) {
			return g.ternary(e)
		}
		return g.iife(e)
	case *ast.BlockExpr, *ast.MatchExpr, *ast.ForExpr, *ast.WhileExpr, *ast.LoopExpr:
		return g.iife(e)
	case *ast.ClosureExpr:
		return g.closure(e)
	case *ast.TupleExpr:
		return "[" + strings.Join(g.exprList(e.Elements), ", ") + "]"
	case *ast.ArrayExpr:
		if e.Repeat != nil {
			return "Array.from({ length: " + g.expr(e.Repeat) + " }, () => " + g.expr(e.Elements[0]) + ")"
		}
		return "[" + strings.Join(g.exprList(e.Elements), ", ") + "]"
	case *ast.MapExpr:
		if len(e.Entries) == 0 {
			return "new Map()"
		}
		entries := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			entries[i] = "[" + g.expr(entry.Key) + ", " + g.expr(entry.Value) + "]"
		}
		return "new Map([" + strings.Join(entries, ", ") + "])"
	case *ast.StructLiteralExpr:
		return g.structLiteral(e)
	case *ast.RangeExpr:
		end := g.expr(e.End)
		if e.Inclusive {
			end += " + 1"
		}
		return g.use("__range") + "(" + g.expr(e.Start) + ", " + end + ")"
	case *ast.CastExpr:
		v := g.expr(e.Value)
		if prim, ok := e.Type.(*ast.PrimitiveType); ok && types.Prim(prim.Name).IsInteger() && g.info.TypeOf(e.Value).IsFloat() {
			return "Math.trunc(" + v + ")"
		}
		if looseBinding(e.Value) {
			return "(" + v + ")"
		}
		return v
	case *ast.PipeExpr:
		return g.naivePipe(e)
	case *ast.MacroExpr:
		return g.macro(e)
	case *ast.TryExpr:
		if g.info.TypeOf(e.Value).Deref().Name == "Option" {
			return g.expr(e.Value)
		}
		return g.use("__unwrap") + "(" + g.expr(e.Value) + ")"
	case *ast.AwaitExpr:
		return "(await " + g.expr(e.Value) + ")"
	case *ast.ParenExpr:
		return "(" + g.expr(e.Value) + ")"
	case *ast.GoExpr:
		return "queueMicrotask(() => " + g.block(e.Body, discard, "") + ")"
	}
	g.fail(e, "unsupported expression %T", e)
	return ""
}

func ident(name string) string {
	switch name {
	case "self":
		return "this"
	case "None":
		return "null"
	}
	return jsIdent(name)
}

// looseBinding expressions need parentheses under a prefix operator or postfix access
func looseBinding(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BinaryExpr, *ast.CastExpr, *ast.RangeExpr, *ast.ClosureExpr, *ast.UnaryExpr:
		return true
	}
	return false
}

// receiver prints the left side of a member access
func (g *Generator) receiver(e ast.Expr) string {
	s := g.expr(e)
	if lit, ok := e.(*ast.LiteralExpr); ok && lit.Kind == ast.IntLiteral {
		return "(" + s + ")"
	}
	if looseBinding(e) || strings.HasPrefix(s, "await ") {
		return "(" + s + ")"
	}
	return s
}

func (g *Generator) exprList(es []ast.Expr) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = g.expr(e)
	}
	return out
}

func (g *Generator) args(args []*ast.Arg) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = g.expr(a.Value)
	}
	return out
}

func (g *Generator) path(p *ast.PathExpr) string {
	segs := identPath(p.Segments)
	if e, v := g.variant(segs); e != nil {
		return e.Name.Value + "." + v.Name.Value
	}
	return strings.Join(segs, ".")
}

var scriptOps = map[string]string{"==": "===", "!=": "!=="}

func (g *Generator) binary(e *ast.BinaryExpr) string {
	op := e.Op
	if mapped, ok := scriptOps[op]; ok {
		op = mapped
	}
	s := g.expr(e.Left) + " " + op + " " + g.expr(e.Right)
	if e.Op == "/" && g.info.TypeOf(e.Left).Deref().IsInteger() && g.info.TypeOf(e.Right).Deref().IsInteger() {
		return "Math.trunc(" + s + ")"
	}
	return s
}

// await prefixes calls of async functions made from async functions
func (g *Generator) await(call ast.Expr, s string) string {
	if g.fn == nil || !g.lowered.IsAsync(g.fn) {
		return s
	}
	if origin, ok := g.pipeline.Origin(call).(ast.Expr); ok && g.info.IsAsync(origin) {
		return "await " + s
	}
	return s
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

func (g *Generator) call(c *ast.CallExpr) string {
	args := g.args(c.Args)
	if id, ok := c.Callee.(*ast.IdentExpr); ok && !g.userFunction(c) {
		values := make([]ast.Expr, len(c.Args))
		for i, a := range c.Args {
			values[i] = a.Value
		}
		if s, ok := g.builtin(id.Name, values); ok {
			return s
		}
		switch id.Name {
		case "Some":
			if len(args) == 1 {
				return args[0]
			}
		case "Ok":
			return "{ ok: true, value: " + strings.Join(args, ", ") + " }"
		case "Err":
			return "{ ok: false, error: " + strings.Join(args, ", ") + " }"
		}
	}
	if p, ok := c.Callee.(*ast.PathExpr); ok {
		segs := identPath(p.Segments)
		if e, v := g.variant(segs); e != nil {
			return variantValue(e, v, args)
		}
		if len(segs) == 2 && len(args) == 0 && (segs[1] == "new" || segs[1] == "default") {
			if empty, ok := emptyValues[segs[0]]; ok {
				return empty
			}
		}
	}

	callee := g.expr(c.Callee)
	switch c.Callee.(type) {
	case *ast.IdentExpr, *ast.PathExpr, *ast.ParenExpr, *ast.FieldAccessExpr:
	default:
		callee = "(" + callee + ")"
	}
	return callee + "(" + strings.Join(args, ", ") + ")"
}

// emptyValues are the script values of the library constructors
var emptyValues = map[string]string{
	"Vec": "[]", "String": `""`, "HashMap": "new Map()", "BTreeMap": "new Map()",
	"HashSet": "new Set()", "BTreeSet": "new Set()",
}

func variantValue(e *ast.Enum, v *ast.Variant, args []string) string {
	return "{ tag: " + e.Name.Value + "." + v.Name.Value + ", values: [" + strings.Join(args, ", ") + "] }"
}

// naivePipe prints a pipe the peephole pipeline left alone as a direct application
func (g *Generator) naivePipe(p *ast.PipeExpr) string {
	call := codegen.PipeCall(p)
	g.pipeline.Derive(call, p)
	callee := g.expr(call.Callee)
	if _, ok := call.Callee.(*ast.ParenExpr); !ok {
		callee = "(" + callee + ")"
	}
	return g.await(call, callee+"("+strings.Join(g.args(call.Args), ", ")+")")
}

func (g *Generator) index(ix *ast.IndexExpr) string {
	recv := g.receiver(ix.Target)
	if g.isMap(ix.Target) {
		return recv + ".get(" + g.expr(ix.Index) + ")"
	}
	if r, ok := ix.Index.(*ast.RangeExpr); ok {
		var bounds []string
		if r.Start != nil {
			bounds = append(bounds, g.expr(r.Start))
		} else {
			bounds = append(bounds, "0")
		}
		if r.End != nil {
			end := g.expr(r.End)
			if r.Inclusive {
				end += " + 1"
			}
			bounds = append(bounds, end)
		}
		return recv + ".slice(" + strings.Join(bounds, ", ") + ")"
	}
	return recv + "[" + g.expr(ix.Index) + "]"
}

func (g *Generator) isMap(e ast.Expr) bool {
	t := g.info.TypeOf(e).Deref()
	return t != nil && t.Kind == types.Named && (t.Name == "HashMap" || t.Name == "BTreeMap")
}

// simpleIf reports whether an if expression fits a conditional operator
func (g *Generator) simpleIf(e ast.Expr) bool {
	ie, ok := e.(*ast.IfExpr)
	if !ok || ie.Pattern != nil || ie.Else == nil || !tailOnly(ie.Then) {
		return false
	}
	switch els := ie.Else.(type) {
	case *ast.BlockExpr:
		return tailOnly(els.Block)
	case *ast.IfExpr:
		return g.simpleIf(els)
	}
	return false
}

func tailOnly(b *ast.Block) bool {
	return b != nil && len(b.Stmts) == 0 && b.Tail != nil && !blockLike(b.Tail)
}

func (g *Generator) ternary(e *ast.IfExpr) string {
	var els string
	switch e := e.Else.(type) {
	case *ast.BlockExpr:
		els = g.expr(e.Block.Tail)
	case *ast.IfExpr:
		els = g.ternary(e)
	}
	return "(" + g.expr(e.Cond) + " ? " + g.expr(e.Then.Tail) + " : " + els + ")"
}

// iife evaluates a statement-shaped expression inside an immediately invoked arrow function
func (g *Generator) iife(e ast.Expr) string {
	body := g.capture(func() {
		g.indent++
		defer func() { g.indent-- }()
		g.exprStmt(e, returning, "")
	})
	if g.fn != nil && g.lowered.IsAsync(g.fn) {
		return "(await (async () => {\n" + body + g.indentString() + "})())"
	}
	return "(() => {\n" + body + g.indentString() + "})()"
}

func (g *Generator) closure(c *ast.ClosureExpr) string {
	params := make([]string, len(c.Params))
	for i, p := range c.Params {
		params[i] = g.binding(p.Pattern)
	}
	head := "(" + strings.Join(params, ", ") + ") => "

	if b, ok := c.Body.(*ast.BlockExpr); ok {
		mode := discard
		if b.Block.Tail != nil && !g.info.TypeOf(b.Block.Tail).IsUnit() {
			mode = returning
		}
		return head + g.block(b.Block, mode, "")
	}
	if blockLike(c.Body) {
		return head + g.exprBlock(c.Body, returning, "")
	}
	body := g.expr(c.Body)
	if strings.HasPrefix(body, "{") {
		body = "(" + body + ")"
	}
	return head + body
}

// structLiteral builds declared structs through their constructor; enum
// variants and other records become plain objects
func (g *Generator) structLiteral(s *ast.StructLiteralExpr) string {
	var path []string
	switch t := s.Type.(type) {
	case *ast.PathExpr:
		path = identPath(t.Segments)
	case *ast.IdentExpr:
		path = []string{t.Name}
	default:
		path = strings.Split(s.Name, "::")
	}

	values := make(map[string]string, len(s.Fields))
	var order []string
	for _, f := range s.Fields {
		init := g.pipeline.Rewrite(f).(*ast.FieldInit)
		if init.Value == nil {
			values[init.Name.Value] = jsIdent(init.Name.Value)
		} else {
			values[init.Name.Value] = g.expr(init.Value)
		}
		order = append(order, init.Name.Value)
	}

	if e, v := g.variant(path); e != nil {
		fields := []string{"tag: " + e.Name.Value + "." + v.Name.Value}
		for _, name := range order {
			fields = append(fields, name+": "+values[name])
		}
		return "{ " + strings.Join(fields, ", ") + " }"
	}

	if decl, ok := g.structs[path[len(path)-1]]; ok {
		base := ""
		if s.Base != nil {
			base = g.receiver(s.Base)
		}
		args := make([]string, len(decl.Fields))
		for i, f := range decl.Fields {
			v, ok := values[f.Name.Value]
			switch {
			case ok:
				args[i] = v
			case base != "":
				args[i] = base + "." + f.Name.Value
			default:
				args[i] = "undefined"
			}
		}
		return "new " + decl.Name.Value + "(" + strings.Join(args, ", ") + ")"
	}

	fields := make([]string, 0, len(order)+1)
	if s.Base != nil {
		fields = append(fields, "..."+g.expr(s.Base))
	}
	for _, name := range order {
		if values[name] == jsIdent(name) {
			fields = append(fields, name)
			continue
		}
		fields = append(fields, name+": "+values[name])
	}
	if len(fields) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

func (g *Generator) literal(l *ast.LiteralExpr) string {
	switch l.Kind {
	case ast.StringLiteral, ast.CharLiteral:
		return quote(l.Value)
	}
	return l.Value
}

// quote prints s as a double-quoted script string
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			writeEscaped(&b, r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func writeEscaped(b *strings.Builder, r rune) {
	switch r {
	case '\n':
		b.WriteString(`\n`)
	case '\t':
		b.WriteString(`\t`)
	case '\r':
		b.WriteString(`\r`)
	default:
		if r < 0x20 {
			b.WriteString(`\u00`)
			b.WriteString(strconv.FormatInt(int64(r)>>4, 16))
			b.WriteString(strconv.FormatInt(int64(r)&0xf, 16))
			return
		}
		b.WriteRune(r)
	}
}

// templateText escapes literal text for a template literal
func templateText(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '`' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString(`\$`)
		default:
			writeEscaped(&b, r)
		}
	}
	return b.String()
}

func (g *Generator) template(s *ast.InterpolatedString) string {
	var b strings.Builder
	b.WriteByte('`')
	for _, part := range s.Parts {
		if part.Expr != nil {
			b.WriteString("${" + g.expr(part.Expr) + "}")
			continue
		}
		b.WriteString(templateText(part.Literal))
	}
	b.WriteByte('`')
	return b.String()
}
