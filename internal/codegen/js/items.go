package js

import (
	"strings"

	"windjammer/internal/ast"
)

func (g *Generator) item(item ast.Item) {
	switch it := item.(type) {
	case *ast.Function:
		g.function(it, "export ")
	case *ast.Struct:
		g.class(it)
	case *ast.Enum:
		g.enum(it)
	case *ast.Impl:
		g.implDecl(it)
	case *ast.Const:
		g.docComment(it.DocComment, nil)
		g.writeLine("export const %s = %s;", it.Name.Value, g.valueExpr(it.Value))
	case *ast.Static:
		g.docComment(it.DocComment, nil)
		keyword := "const"
		if it.Mutable {
			keyword = "let"
		}
		g.writeLine("export %s %s = %s;", keyword, it.Name.Value, g.valueExpr(it.Value))
	case *ast.Trait, *ast.TypeAlias, *ast.Use, *ast.ModDecl:
		// types and imports only exist in the declaration file
	case *ast.MacroItem:
		g.fail(it, "macro %s! has no script translation", it.Macro.Name)
	case *ast.BadItem:
		g.fail(it, "%s", it.Bad.Message)
	default:
		g.fail(item, "unsupported item %T", item)
	}
}

// docComment prints a JSDoc block from the doc comment and, for functions, the
// parameter and return kinds
func (g *Generator) docComment(doc string, fn *ast.Function) {
	var lines []string
	if doc != "" {
		lines = append(lines, strings.Split(doc, "\n")...)
	}
	if fn != nil {
		for _, p := range fn.Params {
			lines = append(lines, "@param {"+g.scriptType(p.Type)+"} "+paramName(p))
		}
		if fn.Return != nil && returnsValue(fn) {
			ret := g.scriptType(fn.Return)
			if g.lowered.IsAsync(fn) {
				ret = "Promise<" + ret + ">"
			}
			lines = append(lines, "@returns {"+ret+"}")
		} else if g.lowered.IsAsync(fn) {
			lines = append(lines, "@returns {Promise<void>}")
		}
	}
	if len(lines) == 0 {
		return
	}
	g.writeLine("/**")
	for _, l := range lines {
		if l == "" {
			g.writeLine(" *")
			continue
		}
		g.writeLine(" * %s", l)
	}
	g.writeLine(" */")
}

func paramName(p *ast.Param) string {
	if p.Name.Value != "" {
		return p.Name.Value
	}
	return "arg"
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

// function prints a function declaration or, with an empty prefix inside a
// class body, a method. Extern functions are supplied by the host.
func (g *Generator) function(fn *ast.Function, prefix string) {
	if fn.Extern && fn.Body == nil {
		return
	}
	if fn.Body == nil {
		g.fail(fn, "function %s has no body", fn.Name.Value)
	}
	prev := g.fn
	g.fn = fn
	defer func() { g.fn = prev }()

	g.docComment(fn.DocComment, fn)
	head := prefix
	method := fn.ParentType != ""
	if method && fn.Receiver == nil {
		head += "static "
	}
	if g.lowered.IsAsync(fn) {
		head += "async "
	}
	if !method {
		head += "function "
	}
	head += fn.Name.Value + "(" + g.params(fn.Params) + ")"

	mode := discard
	if returnsValue(fn) {
		mode = returning
	}
	g.writeIndent()
	g.write(head + " " + g.block(fn.Body, mode, ""))
	g.write("\n")
}

func (g *Generator) params(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Pattern != nil {
			parts[i] = g.binding(p.Pattern)
			continue
		}
		parts[i] = paramName(p)
	}
	return strings.Join(parts, ", ")
}

// class prints a struct with the methods of every impl block targeting it
func (g *Generator) class(s *ast.Struct) {
	g.docComment(s.DocComment, nil)
	g.writeLine("export class %s {", s.Name.Value)
	g.indent++

	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name.Value
	}
	if len(s.Fields) > 0 {
		g.writeLine("/**")
		for _, f := range s.Fields {
			g.writeLine(" * @param {%s} %s", g.scriptType(f.Type), f.Name.Value)
		}
		g.writeLine(" */")
		g.writeLine("constructor(%s) {", strings.Join(names, ", "))
		g.indent++
		for _, name := range names {
			g.writeLine("this.%s = %s;", name, name)
		}
		g.indent--
		g.writeLine("}")
	}

	for _, m := range g.classMethods(s.Name.Value) {
		g.write("\n")
		g.function(m, "")
	}
	g.indent--
	g.writeLine("}")
}

// classMethods lists the methods of a struct in declaration order; trait
// methods with a default body are added unless the impl overrides them
func (g *Generator) classMethods(name string) []*ast.Function {
	var methods []*ast.Function
	for _, impl := range g.impls[name] {
		defined := make(map[string]bool)
		for _, m := range impl.Methods {
			defined[m.Name.Value] = true
			methods = append(methods, m)
		}
		if impl.Trait == nil {
			continue
		}
		trait := g.traits[typeName(impl.Trait)]
		if trait == nil {
			continue
		}
		for _, m := range trait.Methods {
			if m.Body != nil && !defined[m.Name.Value] {
				methods = append(methods, m)
			}
		}
	}
	return methods
}

// implDecl prints nothing for impls folded into a class; others cannot be
// expressed on the script side
func (g *Generator) implDecl(impl *ast.Impl) {
	name := typeName(impl.Target)
	if _, ok := g.structs[name]; ok {
		return
	}
	if _, ok := g.enums[name]; ok {
		g.fail(impl, "methods on enum %s have no script translation", name)
	}
	g.fail(impl, "impl target %s is not a struct declared in this file", ast.Print(impl.Target))
}

// enum prints a frozen object keyed by one symbol per variant
func (g *Generator) enum(e *ast.Enum) {
	g.docComment(e.DocComment, nil)
	g.writeLine("export const %s = Object.freeze({", e.Name.Value)
	g.indent++
	for _, v := range e.Variants {
		g.writeLine("%s: Symbol(%s),", v.Name.Value, quote(e.Name.Value+"."+v.Name.Value))
	}
	g.indent--
	g.writeLine("});")
}

// variant resolves a path to an enum variant declared in this file
func (g *Generator) variant(path []string) (*ast.Enum, *ast.Variant) {
	if len(path) != 2 {
		return nil, nil
	}
	e := g.enums[path[0]]
	if e == nil {
		return nil, nil
	}
	for _, v := range e.Variants {
		if v.Name.Value == path[1] {
			return e, v
		}
	}
	return nil, nil
}

func hasData(v *ast.Variant) bool {
	return len(v.Tuple) > 0 || len(v.Fields) > 0
}
