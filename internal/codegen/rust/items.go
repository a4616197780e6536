package rust

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/decorators"
)

func (g *Generator) item(item ast.Item) {
	switch it := item.(type) {
	case *ast.Function:
		g.function(it, g.opts.Module || it.Public)
	case *ast.Struct:
		g.structDecl(it)
	case *ast.Enum:
		g.enumDecl(it)
	case *ast.Trait:
		g.traitDecl(it)
	case *ast.Impl:
		g.implDecl(it)
	case *ast.Const:
		g.docComment(it.DocComment)
		typ, value := g.constParts(it.Type, it.Value)
		g.writeLine("%sconst %s: %s = %s;", g.public(it.Public), it.Name.Value, typ, value)
	case *ast.Static:
		g.docComment(it.DocComment)
		mut := ""
		if it.Mutable {
			mut = "mut "
		}
		typ, value := g.constParts(it.Type, it.Value)
		g.writeLine("%sstatic %s%s: %s = %s;", g.public(it.Public), mut, it.Name.Value, typ, value)
	case *ast.TypeAlias:
		g.writeLine("%stype %s = %s;", g.public(it.Public), it.Name.Value, g.typ(it.Type))
	case *ast.Use:
		if line := g.useLine(it); line != "" {
			g.writeLine("%s", line)
		}
	case *ast.ModDecl:
		g.writeLine("%smod %s;", g.public(it.Public), it.Name.Value)
	case *ast.MacroItem:
		m := it.Macro
		text := m.Name + "!" + m.Delim.Open() + m.Raw + m.Delim.Close()
		if m.Delim != ast.BraceDelimiter {
			text += ";"
		}
		g.writeLine("%s", text)
	case *ast.BadItem:
		g.fail(it, "%s", it.Bad.Message)
	default:
		g.fail(item, "unsupported item %T", item)
	}
}

func (g *Generator) docComment(doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		if line == "" {
			g.writeLine("///")
			continue
		}
		g.writeLine("/// %s", line)
	}
}

// attributes prints the derive line followed by the remaining attributes
func (g *Generator) attributes(node ast.Node) {
	attrs := g.lowered.Of(node)
	for _, a := range attrs.Attrs {
		g.writeLine("%s", a)
	}
	if len(attrs.Derives) > 0 {
		g.writeLine("#[derive(%s)]", strings.Join(attrs.Derives, ", "))
	}
}

// constParts returns the declared type and value of a const or static; string
// constants initialised by a literal are borrowed for the whole program
func (g *Generator) constParts(t ast.TypeExpr, value ast.Expr) (string, string) {
	if lit, ok := value.(*ast.LiteralExpr); ok && lit.Kind == ast.StringLiteral {
		if prim, isPrim := t.(*ast.PrimitiveType); t == nil || (isPrim && (prim.Name == "string" || prim.Name == "str")) {
			return "&'static str", g.literal(lit)
		}
	}
	if arr, ok := value.(*ast.ArrayExpr); ok {
		if _, fixed := t.(*ast.ArrayType); fixed {
			return g.typ(t), g.arrayLiteral(arr, true)
		}
	}
	if t != nil {
		return g.typ(t), g.expr(value)
	}
	if s, ok := g.semanticType(g.info.TypeOf(value)); ok {
		return s, g.expr(value)
	}
	g.fail(value, "cannot infer the type of a constant initializer")
	return "", ""
}

// function prints a function or method; an extern declaration without a body
// is wrapped in its own extern block
func (g *Generator) function(fn *ast.Function, public bool) {
	prev := g.fn
	g.fn = fn
	defer func() { g.fn = prev }()

	if fn.Extern && fn.Body == nil {
		g.writeLine(`extern "C" {`)
		g.indent++
		g.writeLine("%s;", g.signature(fn, public))
		g.indent--
		g.writeLine("}")
		return
	}

	g.docComment(fn.DocComment)
	if g.lowered.IsAsync(fn) && fn.Name.Value == "main" && fn.ParentType == "" {
		g.writeLine("#[tokio::main]")
	}
	g.attributes(fn)

	if fn.Body == nil {
		g.writeLine("%s;", g.signature(fn, public))
		return
	}
	g.writeIndent()
	g.write(g.signature(fn, public))
	g.write(" ")
	g.write(g.block(fn.Body, returnsValue(fn)))
	g.write("\n")
}

func (g *Generator) signature(fn *ast.Function, public bool) string {
	var b strings.Builder
	if public {
		b.WriteString("pub ")
	}
	if g.lowered.IsAsync(fn) {
		b.WriteString("async ")
	}
	if fn.Extern && fn.Body != nil {
		b.WriteString(`extern "C" `)
	}
	b.WriteString("fn ")
	b.WriteString(fn.Name.Value)
	b.WriteString(g.typeParams(fn.TypeParams))
	b.WriteString("(")
	b.WriteString(g.params(fn))
	b.WriteString(")")
	if returnsValue(fn) {
		b.WriteString(" -> ")
		b.WriteString(g.typ(fn.Return))
	}
	b.WriteString(g.whereClause(fn.Where))
	return b.String()
}

func returnsValue(fn *ast.Function) bool {
	if fn.Return == nil {
		return false
	}
	if tuple, ok := fn.Return.(*ast.TupleType); ok && len(tuple.Elements) == 0 {
		return false
	}
	return true
}

func (g *Generator) structDecl(s *ast.Struct) {
	g.docComment(s.DocComment)
	g.attributes(s)
	head := g.public(s.Public) + "struct " + s.Name.Value + g.typeParams(s.TypeParams)
	if len(s.Fields) == 0 {
		g.writeLine("%s;", head)
		return
	}
	g.writeLine("%s {", head)
	g.indent++
	for _, f := range s.Fields {
		g.writeLine("%s%s: %s,", g.public(f.Public || s.Public), f.Name.Value, g.typ(f.Type))
	}
	g.indent--
	g.writeLine("}")
}

func (g *Generator) enumDecl(e *ast.Enum) {
	g.docComment(e.DocComment)
	g.attributes(e)
	g.writeLine("%senum %s%s {", g.public(e.Public), e.Name.Value, g.typeParams(e.TypeParams))
	g.indent++
	for _, v := range e.Variants {
		switch {
		case len(v.Fields) > 0:
			fields := make([]string, len(v.Fields))
			for i, f := range v.Fields {
				fields[i] = f.Name.Value + ": " + g.typ(f.Type)
			}
			g.writeLine("%s { %s },", v.Name.Value, strings.Join(fields, ", "))
		case len(v.Tuple) > 0:
			g.writeLine("%s(%s),", v.Name.Value, g.typeList(v.Tuple))
		default:
			g.writeLine("%s,", v.Name.Value)
		}
	}
	g.indent--
	g.writeLine("}")
}

func (g *Generator) traitDecl(t *ast.Trait) {
	g.docComment(t.DocComment)
	g.attributes(t)
	g.writeLine("%strait %s%s {", g.public(t.Public), t.Name.Value, g.typeParams(t.TypeParams))
	g.indent++
	for i, m := range t.Methods {
		if i > 0 && (m.Body != nil || t.Methods[i-1].Body != nil) {
			g.write("\n")
		}
		g.function(m, false)
	}
	g.indent--
	g.writeLine("}")
}

func (g *Generator) implDecl(impl *ast.Impl) {
	g.attributes(impl)
	head := "impl" + g.typeParams(impl.TypeParams) + " "
	if impl.Trait != nil {
		head += g.typ(impl.Trait) + " for "
	}
	head += g.typ(impl.Target)
	g.writeLine("%s {", head)
	g.indent++
	for i, m := range impl.Methods {
		if i > 0 {
			g.write("\n")
		}
		public := impl.Trait == nil && (m.Public || g.opts.Module)
		g.function(m, public)
	}
	g.indent--
	g.writeLine("}")
}

// isWASM reports whether the unit is compiled for the browser module target
func (g *Generator) isWASM() bool {
	return g.opts.Target == decorators.WASM
}
