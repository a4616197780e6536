package semantic

import (
	"sort"

	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

func (a *Analyzer) findSimilarVariables() []string {
	var names []string
	for _, name := range a.symbols.Names() {
		if sym := a.symbols.Lookup(name); sym != nil && sym.Kind != SymbolFunction {
			names = append(names, name)
		}
	}
	return names
}

func (a *Analyzer) findSimilarFunctions() []string {
	names := a.reg.FunctionNames()
	for name := range builtinFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *Analyzer) getStructFields(structName string) []string {
	if s := a.reg.Struct(structName); s != nil {
		return s.Order
	}
	return nil
}

func qualify(module string, names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = module + "." + name
	}
	sort.Strings(out)
	return out
}

// checkType reports named types that resolve to nothing in scope
func (a *Analyzer) checkType(t ast.TypeExpr, generics map[string]bool) {
	switch node := t.(type) {
	case nil:
		return
	case *ast.NamedType:
		name := node.Name()
		if len(node.Path) == 1 && !generics[name] && name != "Self" && !a.reg.IsValidType(name) && !a.context.HasLocalGlob() {
			a.addCompilerError(errors.TypeNotFound(name, node.Pos, a.reg.TypeNames()))
		}
		if a.context.IsImportedType(name) {
			for _, msg := range a.context.ValidateTypeUsage(name, len(node.Args) > 0) {
				a.addCompilerError(errors.NewSemanticError(errors.ErrorTypeNotFound, msg, node.Pos).Build())
			}
		}
		for _, arg := range node.Args {
			a.checkType(arg, generics)
		}
	case *ast.TupleType:
		for _, el := range node.Elements {
			a.checkType(el, generics)
		}
	case *ast.ArrayType:
		a.checkType(node.Elem, generics)
	case *ast.SliceType:
		a.checkType(node.Elem, generics)
	case *ast.RefType:
		a.checkType(node.Elem, generics)
	case *ast.FuncType:
		for _, p := range node.Params {
			a.checkType(p, generics)
		}
		a.checkType(node.Return, generics)
	}
}
