package query

import (
	"strings"

	"windjammer/internal/ast"
)

// Symbol kinds
const (
	KindFunction = "function"
	KindMethod   = "method"
	KindStruct   = "struct"
	KindField    = "field"
	KindEnum     = "enum"
	KindVariant  = "variant"
	KindTrait    = "trait"
	KindConst    = "const"
	KindStatic   = "static"
	KindType     = "type"
	KindModule   = "module"
)

// Symbol is a declaration found in a file
type Symbol struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Container string `yaml:"container,omitempty"`
	URI       string `yaml:"uri"`
	Line      int    `yaml:"line"`
	Column    int    `yaml:"column"`
	Detail    string `yaml:"detail,omitempty"`
}

// ExtractSymbols lists the declarations of a program in source order;
// members follow the item that declares them
func ExtractSymbols(uri string, program *ast.Program) []Symbol {
	if program == nil {
		return nil
	}
	var out []Symbol
	add := func(name ast.Ident, kind, container, detail string) {
		out = append(out, Symbol{
			Name:      name.Value,
			Kind:      kind,
			Container: container,
			URI:       uri,
			Line:      name.Pos.Line,
			Column:    name.Pos.Column,
			Detail:    detail,
		})
	}

	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			add(it.Name, KindFunction, "", signature(it))
		case *ast.Struct:
			add(it.Name, KindStruct, "", "")
			for _, f := range it.Fields {
				add(f.Name, KindField, it.Name.Value, ast.Print(f.Type))
			}
		case *ast.Enum:
			add(it.Name, KindEnum, "", "")
			for _, v := range it.Variants {
				add(v.Name, KindVariant, it.Name.Value, "")
			}
		case *ast.Trait:
			add(it.Name, KindTrait, "", "")
			for _, m := range it.Methods {
				add(m.Name, KindMethod, it.Name.Value, signature(m))
			}
		case *ast.Impl:
			owner := ast.Print(it.Target)
			for _, m := range it.Methods {
				add(m.Name, KindMethod, owner, signature(m))
			}
		case *ast.Const:
			add(it.Name, KindConst, "", typeDetail(it.Type))
		case *ast.Static:
			add(it.Name, KindStatic, "", typeDetail(it.Type))
		case *ast.TypeAlias:
			add(it.Name, KindType, "", ast.Print(it.Type))
		case *ast.ModDecl:
			add(it.Name, KindModule, "", "")
		}
	}
	return out
}

func typeDetail(t ast.TypeExpr) string {
	if t == nil {
		return ""
	}
	return ast.Print(t)
}

// signature prints a function header without its body
func signature(fn *ast.Function) string {
	var b strings.Builder
	if fn.Async {
		b.WriteString("async ")
	}
	b.WriteString("fn " + fn.Name.Value + "(")
	var params []string
	if fn.Receiver != nil {
		params = append(params, "self")
	}
	for _, p := range fn.Params {
		params = append(params, p.Name.Value+": "+typeDetail(p.Type))
	}
	b.WriteString(strings.Join(params, ", ") + ")")
	if fn.Return != nil {
		b.WriteString(" -> " + ast.Print(fn.Return))
	}
	return b.String()
}

// ExtractImports lists the module paths of the use declarations of a
// program; braced lists contribute one path per member
func ExtractImports(program *ast.Program) []string {
	if program == nil {
		return nil
	}
	var out []string
	for _, item := range program.Items {
		use, ok := item.(*ast.Use)
		if !ok {
			continue
		}
		base := use.DottedPath()
		if len(use.Group) == 0 {
			out = append(out, base)
			continue
		}
		for _, member := range use.Group {
			out = append(out, base+"."+member.Value)
		}
	}
	return out
}
