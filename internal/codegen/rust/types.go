package rust

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/builtins"
	"windjammer/internal/types"
)

// typ prints a surface type
func (g *Generator) typ(t ast.TypeExpr) string {
	switch t := t.(type) {
	case nil:
		return "()"
	case *ast.PrimitiveType:
		return builtins.RustName(t.Name)
	case *ast.NamedType:
		g.requireType(t.Name())
		name := strings.Join(t.Path, "::")
		if lib, ok := builtins.LookupLibrary(t.Name()); ok && len(t.Path) == 1 {
			name = lib.Rust
		}
		if len(t.Args) == 0 {
			return name
		}
		return name + "<" + g.typeList(t.Args) + ">"
	case *ast.TupleType:
		if len(t.Elements) == 1 {
			return "(" + g.typ(t.Elements[0]) + ",)"
		}
		return "(" + g.typeList(t.Elements) + ")"
	case *ast.ArrayType:
		if t.Len == nil {
			return "Vec<" + g.typ(t.Elem) + ">"
		}
		return "[" + g.typ(t.Elem) + "; " + g.expr(t.Len) + "]"
	case *ast.SliceType:
		return "Vec<" + g.typ(t.Elem) + ">"
	case *ast.FuncType:
		ret := ""
		if t.Return != nil {
			ret = " -> " + g.typ(t.Return)
		}
		return "fn(" + g.typeList(t.Params) + ")" + ret
	case *ast.RefType:
		prefix := "&"
		if t.Mutable {
			prefix = "&mut "
		}
		return prefix + g.borrowedType(t.Elem, t.Mutable)
	case *ast.InferType:
		return "_"
	}
	g.fail(t, "unsupported type %T", t)
	return ""
}

// borrowedType prints the target of a reference: strings and sequences borrow as
// their unsized views
func (g *Generator) borrowedType(t ast.TypeExpr, mutable bool) string {
	switch t := t.(type) {
	case *ast.PrimitiveType:
		if t.Name == "string" && !mutable {
			return "str"
		}
	case *ast.SliceType:
		return "[" + g.typ(t.Elem) + "]"
	}
	return g.typ(t)
}

func (g *Generator) typeList(ts []ast.TypeExpr) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = g.typ(t)
	}
	return strings.Join(parts, ", ")
}

// semanticType prints an inferred type; it reports false when part of it is unknown
func (g *Generator) semanticType(t *types.Type) (string, bool) {
	if t.IsUnknown() {
		return "", false
	}
	switch t.Kind {
	case types.Primitive:
		return builtins.RustName(t.Name), true
	case types.Param:
		return t.Name, true
	case types.Named:
		g.requireType(t.Name)
		if len(t.Args) == 0 {
			return t.Name, true
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			s, ok := g.semanticType(a)
			if !ok {
				return "", false
			}
			args[i] = s
		}
		return t.Name + "<" + strings.Join(args, ", ") + ">", true
	case types.Tuple:
		elems := make([]string, len(t.Args))
		for i, a := range t.Args {
			s, ok := g.semanticType(a)
			if !ok {
				return "", false
			}
			elems[i] = s
		}
		if len(elems) == 1 {
			return "(" + elems[0] + ",)", true
		}
		return "(" + strings.Join(elems, ", ") + ")", true
	case types.Slice:
		elem, ok := g.semanticType(t.Elem)
		return "Vec<" + elem + ">", ok
	case types.Ref:
		elem, ok := g.semanticType(t.Elem)
		if elem == "String" && !t.Mutable {
			elem = "str"
		}
		if t.Mutable {
			return "&mut " + elem, ok
		}
		return "&" + elem, ok
	}
	return "", false
}

func (g *Generator) typeParams(tps []*ast.TypeParam) string {
	if len(tps) == 0 {
		return ""
	}
	parts := make([]string, len(tps))
	for i, tp := range tps {
		parts[i] = tp.Name.Value
		if len(tp.Bounds) > 0 {
			parts[i] += ": " + g.bounds(tp.Bounds)
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (g *Generator) bounds(bs []ast.TypeExpr) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = g.typ(b)
	}
	return strings.Join(parts, " + ")
}

func (g *Generator) whereClause(preds []*ast.WherePredicate) string {
	if len(preds) == 0 {
		return ""
	}
	parts := make([]string, len(preds))
	for i, wp := range preds {
		parts[i] = g.typ(wp.Type) + ": " + g.bounds(wp.Bounds)
	}
	return " where " + strings.Join(parts, ", ")
}

// receiver prints the self parameter chosen by inference
func (g *Generator) receiver(r *ast.SelfParam) string {
	switch r.Mode {
	case ast.SelfRef:
		return "&self"
	case ast.SelfMutRef:
		return "&mut self"
	}
	if r.Mutable {
		return "mut self"
	}
	return "self"
}

// param prints a parameter in the passing mode inference selected
func (g *Generator) param(p *ast.Param) string {
	name := p.Name.Value
	if p.Pattern != nil {
		name = g.pattern(p.Pattern)
	}
	if ref, explicit := p.Type.(*ast.RefType); explicit {
		return name + ": " + g.typ(ref)
	}
	switch p.Ownership {
	case ast.Borrowed:
		return name + ": &" + g.borrowedType(p.Type, false)
	case ast.MutBorrowed:
		return name + ": &mut " + g.typ(p.Type)
	}
	if p.Mutable && p.Pattern == nil {
		name = "mut " + name
	}
	return name + ": " + g.typ(p.Type)
}

func (g *Generator) params(fn *ast.Function) string {
	var parts []string
	if fn.Receiver != nil {
		parts = append(parts, g.receiver(fn.Receiver))
	}
	for _, p := range fn.Params {
		parts = append(parts, g.param(p))
	}
	return strings.Join(parts, ", ")
}

// pattern prints a destructuring pattern
func (g *Generator) pattern(p ast.Pattern) string {
	switch p := p.(type) {
	case *ast.WildcardPattern:
		return "_"
	case *ast.IdentPattern:
		if p.Mutable {
			return "mut " + p.Name.Value
		}
		return p.Name.Value
	case *ast.LiteralPattern:
		lit := g.literal(p.Value)
		if p.Negative {
			return "-" + lit
		}
		return lit
	case *ast.TuplePattern:
		parts := g.patterns(p.Elements)
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.EnumPattern:
		segs := make([]string, len(p.Path))
		for i, s := range p.Path {
			segs[i] = s.Value
		}
		out := strings.Join(segs, "::")
		switch {
		case p.StructLike:
			fields := make([]string, 0, len(p.Fields)+1)
			for _, f := range p.Fields {
				if f.Pattern == nil {
					fields = append(fields, f.Name.Value)
					continue
				}
				if id, ok := f.Pattern.(*ast.IdentPattern); ok && id.Name.Value == f.Name.Value && !id.Mutable {
					fields = append(fields, f.Name.Value)
					continue
				}
				fields = append(fields, f.Name.Value+": "+g.pattern(f.Pattern))
			}
			if p.HasRest {
				fields = append(fields, "..")
			}
			if len(fields) == 0 {
				return out + " {}"
			}
			return out + " { " + strings.Join(fields, ", ") + " }"
		case len(p.Tuple) > 0:
			return out + "(" + strings.Join(g.patterns(p.Tuple), ", ") + ")"
		}
		return out
	case *ast.OrPattern:
		return strings.Join(g.patterns(p.Alternatives), " | ")
	case *ast.RefPattern:
		return "&" + g.pattern(p.Pattern)
	case *ast.RangePattern:
		op := ".."
		if p.Inclusive {
			op = "..="
		}
		out := ""
		if p.Start != nil {
			out = g.pattern(p.Start)
		}
		out += op
		if p.End != nil {
			out += g.pattern(p.End)
		}
		return out
	}
	g.fail(p, "unsupported pattern %T", p)
	return ""
}

func (g *Generator) patterns(ps []ast.Pattern) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = g.pattern(p)
	}
	return out
}
