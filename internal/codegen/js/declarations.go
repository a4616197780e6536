package js

import (
	"strconv"
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/builtins"
	"windjammer/internal/types"
)

// declarations prints the type declaration file for the script
func (g *Generator) declarations(program *ast.Program) string {
	var parts []string
	for _, item := range program.Items {
		if text := g.declaration(item); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "export {};\n"
	}
	return strings.Join(parts, "\n")
}

func (g *Generator) declaration(item ast.Item) string {
	var b strings.Builder
	switch it := item.(type) {
	case *ast.Function:
		b.WriteString("export declare function " + g.signature(it, "") + ";\n")
	case *ast.Struct:
		// the interface carries the instance shape; the merged class declaration
		// adds the constructor and static methods
		name := it.Name.Value + typeParams(it.TypeParams)
		params := make([]string, len(it.Fields))
		for i, f := range it.Fields {
			params[i] = f.Name.Value + ": " + g.scriptType(f.Type)
		}
		methods := g.classMethods(it.Name.Value)
		b.WriteString("export interface " + name + " {\n")
		for _, p := range params {
			b.WriteString(indentUnit + p + ";\n")
		}
		for _, m := range methods {
			if m.Receiver != nil {
				b.WriteString(indentUnit + g.signature(m, it.Name.Value) + ";\n")
			}
		}
		b.WriteString("}\n")
		b.WriteString("export declare class " + name + " {\n")
		b.WriteString(indentUnit + "constructor(" + strings.Join(params, ", ") + ");\n")
		for _, m := range methods {
			if m.Receiver == nil {
				b.WriteString(indentUnit + "static " + g.signature(m, it.Name.Value) + ";\n")
			}
		}
		b.WriteString("}\n")
	case *ast.Enum:
		name := it.Name.Value
		b.WriteString("export declare const " + name + ": {\n")
		for _, v := range it.Variants {
			b.WriteString(indentUnit + "readonly " + v.Name.Value + ": unique symbol;\n")
		}
		b.WriteString("};\n")
		alts := make([]string, len(it.Variants))
		for i, v := range it.Variants {
			tag := "typeof " + name + "." + v.Name.Value
			switch {
			case len(v.Tuple) > 0:
				values := make([]string, len(v.Tuple))
				for j, t := range v.Tuple {
					values[j] = g.scriptType(t)
				}
				alts[i] = "{ tag: " + tag + "; values: [" + strings.Join(values, ", ") + "] }"
			case len(v.Fields) > 0:
				fields := []string{"tag: " + tag}
				for _, f := range v.Fields {
					fields = append(fields, f.Name.Value+": "+g.scriptType(f.Type))
				}
				alts[i] = "{ " + strings.Join(fields, "; ") + " }"
			default:
				alts[i] = tag
			}
		}
		if len(alts) == 0 {
			alts = []string{"never"}
		}
		b.WriteString("export type " + name + typeParams(it.TypeParams) + " = " + strings.Join(alts, " | ") + ";\n")
	case *ast.Trait:
		b.WriteString("export interface " + it.Name.Value + typeParams(it.TypeParams) + " {\n")
		for _, m := range it.Methods {
			b.WriteString(indentUnit + g.signature(m, "this") + ";\n")
		}
		b.WriteString("}\n")
	case *ast.Const:
		b.WriteString("export declare const " + it.Name.Value + ": " + g.valueType(it.Type, it.Value) + ";\n")
	case *ast.Static:
		keyword := "const"
		if it.Mutable {
			keyword = "let"
		}
		b.WriteString("export declare " + keyword + " " + it.Name.Value + ": " + g.valueType(it.Type, it.Value) + ";\n")
	case *ast.TypeAlias:
		b.WriteString("export type " + it.Name.Value + " = " + g.scriptType(it.Type) + ";\n")
	}
	return b.String()
}

// signature prints "name<T>(params): Ret"; self names the type Self stands for
func (g *Generator) signature(fn *ast.Function, self string) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = paramName(p) + ": " + g.selfType(g.scriptType(p.Type), self)
	}
	ret := "void"
	if returnsValue(fn) {
		ret = g.selfType(g.scriptType(fn.Return), self)
	}
	if g.lowered.IsAsync(fn) {
		ret = "Promise<" + ret + ">"
	}
	return fn.Name.Value + typeParams(fn.TypeParams) + "(" + strings.Join(params, ", ") + "): " + ret
}

func (g *Generator) selfType(s, self string) string {
	if self == "" || s != "Self" {
		return s
	}
	return self
}

func typeParams(tps []*ast.TypeParam) string {
	if len(tps) == 0 {
		return ""
	}
	names := make([]string, len(tps))
	for i, tp := range tps {
		names[i] = tp.Name.Value
	}
	return "<" + strings.Join(names, ", ") + ">"
}

// scriptType prints a declared type in declaration syntax
func (g *Generator) scriptType(t ast.TypeExpr) string {
	switch t := t.(type) {
	case nil:
		return "void"
	case *ast.PrimitiveType:
		return builtins.ScriptName(t.Name)
	case *ast.RefType:
		return g.scriptType(t.Elem)
	case *ast.ArrayType:
		return arrayOf(g.scriptType(t.Elem))
	case *ast.SliceType:
		return arrayOf(g.scriptType(t.Elem))
	case *ast.TupleType:
		if len(t.Elements) == 0 {
			return "void"
		}
		elems := make([]string, len(t.Elements))
		for i, el := range t.Elements {
			elems[i] = g.scriptType(el)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *ast.FuncType:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = "arg" + strconv.Itoa(i) + ": " + g.scriptType(p)
		}
		return "((" + strings.Join(params, ", ") + ") => " + g.scriptType(t.Return) + ")"
	case *ast.NamedType:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = g.scriptType(a)
		}
		return library(t.Name(), args)
	}
	return "unknown"
}

// valueType prints the declared type of a constant, falling back to the inferred one
func (g *Generator) valueType(declared ast.TypeExpr, value ast.Expr) string {
	if declared != nil {
		return g.scriptType(declared)
	}
	return inferredType(g.info.TypeOf(value))
}

func inferredType(t *types.Type) string {
	t = t.Deref()
	switch {
	case t.IsUnknown():
		return "unknown"
	case t.IsUnit():
		return "void"
	case t.Kind == types.Primitive:
		return builtins.ScriptName(t.Name)
	case t.IsSequence():
		return arrayOf(inferredType(t.ElemType()))
	case t.Kind == types.Named:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = inferredType(a)
		}
		return library(t.Name, args)
	}
	return "unknown"
}

// library spells a named type, expanding the well-known generic ones
func library(name string, args []string) string {
	if name == "Result" {
		ok, err := "void", "unknown"
		if len(args) > 0 {
			ok = args[0]
		}
		if len(args) > 1 {
			err = args[1]
		}
		return "{ ok: true; value: " + ok + " } | { ok: false; error: " + err + " }"
	}
	if lib, ok := builtins.LookupLibrary(name); ok && lib.Script != "" {
		pattern := lib.Script
		for i := 0; strings.Contains(pattern, "%s"); i++ {
			arg := "unknown"
			if i < len(args) {
				arg = args[i]
			}
			if strings.HasPrefix(pattern, "%s[]") && strings.Contains(arg, " ") {
				arg = "(" + arg + ")"
			}
			pattern = strings.Replace(pattern, "%s", arg, 1)
		}
		return pattern
	}
	if len(args) == 0 {
		return name
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}

func arrayOf(elem string) string {
	if strings.Contains(elem, " ") {
		return "(" + elem + ")[]"
	}
	return elem + "[]"
}
