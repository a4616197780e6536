package types

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/builtins"
)

// Kind classifies a semantic type
type Kind int

const (
	Unknown Kind = iota
	Primitive
	Named
	Tuple
	Array
	Slice
	Ref
	Func
	Param // generic type parameter
)

// Type is the semantic type assigned by inference. Named types carry their
// arguments in Args; Tuple and Func use Args for elements and parameters;
// Array, Slice and Ref use Elem; Func uses Elem for the return type.
type Type struct {
	Kind    Kind
	Name    string
	Args    []*Type
	Elem    *Type
	Mutable bool // &mut
}

var (
	UnknownType = &Type{Kind: Unknown}
	IntType     = &Type{Kind: Primitive, Name: "int"}
	FloatType   = &Type{Kind: Primitive, Name: "float"}
	BoolType    = &Type{Kind: Primitive, Name: "bool"}
	CharType    = &Type{Kind: Primitive, Name: "char"}
	StringType  = &Type{Kind: Primitive, Name: "string"}
	StrType     = &Type{Kind: Primitive, Name: "str"}
	UnitType    = &Type{Kind: Tuple}
)

// Prim returns the primitive type spelled name
func Prim(name string) *Type {
	switch name {
	case "int":
		return IntType
	case "float":
		return FloatType
	case "bool":
		return BoolType
	case "char":
		return CharType
	case "string":
		return StringType
	case "str":
		return StrType
	}
	return &Type{Kind: Primitive, Name: name}
}

func NamedOf(name string, args ...*Type) *Type {
	return &Type{Kind: Named, Name: name, Args: args}
}

func TupleOf(elems ...*Type) *Type {
	if len(elems) == 0 {
		return UnitType
	}
	return &Type{Kind: Tuple, Args: elems}
}

func RefTo(elem *Type, mutable bool) *Type {
	return &Type{Kind: Ref, Elem: elem, Mutable: mutable}
}

func SliceOf(elem *Type) *Type {
	return &Type{Kind: Slice, Elem: elem}
}

func VecOf(elem *Type) *Type {
	return NamedOf("Vec", elem)
}

// FromAST converts a surface type; names in generics become type parameters
func FromAST(t ast.TypeExpr, generics map[string]bool) *Type {
	switch t := t.(type) {
	case nil:
		return UnknownType
	case *ast.PrimitiveType:
		return Prim(t.Name)
	case *ast.NamedType:
		name := t.Name()
		if len(t.Path) == 1 && generics[name] {
			return &Type{Kind: Param, Name: name}
		}
		if name == "Self" && len(t.Args) == 0 {
			return &Type{Kind: Param, Name: "Self"}
		}
		args := make([]*Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = FromAST(a, generics)
		}
		return NamedOf(name, args...)
	case *ast.TupleType:
		elems := make([]*Type, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = FromAST(e, generics)
		}
		return TupleOf(elems...)
	case *ast.ArrayType:
		return &Type{Kind: Array, Elem: FromAST(t.Elem, generics)}
	case *ast.SliceType:
		return SliceOf(FromAST(t.Elem, generics))
	case *ast.RefType:
		return RefTo(FromAST(t.Elem, generics), t.Mutable)
	case *ast.FuncType:
		params := make([]*Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = FromAST(p, generics)
		}
		ret := UnitType
		if t.Return != nil {
			ret = FromAST(t.Return, generics)
		}
		return &Type{Kind: Func, Args: params, Elem: ret}
	}
	return UnknownType
}

func (t *Type) String() string {
	if t == nil {
		return "?"
	}
	switch t.Kind {
	case Primitive, Param:
		return t.Name
	case Named:
		if len(t.Args) == 0 {
			return t.Name
		}
		return t.Name + "<" + joinTypes(t.Args) + ">"
	case Tuple:
		if len(t.Args) == 1 {
			return "(" + t.Args[0].String() + ",)"
		}
		return "(" + joinTypes(t.Args) + ")"
	case Array:
		return "[" + t.Elem.String() + "; _]"
	case Slice:
		return "[" + t.Elem.String() + "]"
	case Ref:
		if t.Mutable {
			return "&mut " + t.Elem.String()
		}
		return "&" + t.Elem.String()
	case Func:
		return "fn(" + joinTypes(t.Args) + ") -> " + t.Elem.String()
	}
	return "?"
}

func joinTypes(ts []*Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func (t *Type) IsUnknown() bool {
	return t == nil || t.Kind == Unknown
}

func (t *Type) IsUnit() bool {
	return t != nil && t.Kind == Tuple && len(t.Args) == 0
}

// IsString reports whether t is an owned or borrowed string
func (t *Type) IsString() bool {
	t = t.Deref()
	return t != nil && ((t.Kind == Primitive && (t.Name == "string" || t.Name == "str")) ||
		(t.Kind == Named && t.Name == "String"))
}

func (t *Type) IsInteger() bool {
	return t != nil && t.Kind == Primitive && builtins.IsIntegerType(t.Name)
}

func (t *Type) IsFloat() bool {
	return t != nil && t.Kind == Primitive && builtins.IsFloatType(t.Name)
}

func (t *Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

func (t *Type) IsBool() bool {
	return t != nil && t.Kind == Primitive && t.Name == "bool"
}

// IsSequence reports whether t can be indexed by position
func (t *Type) IsSequence() bool {
	t = t.Deref()
	if t == nil {
		return false
	}
	return t.Kind == Array || t.Kind == Slice || (t.Kind == Named && t.Name == "Vec")
}

// Deref strips references
func (t *Type) Deref() *Type {
	for t != nil && t.Kind == Ref {
		t = t.Elem
	}
	return t
}

// ElemType returns the element type of sequences, the value type of Option and
// the first argument of other named generics
func (t *Type) ElemType() *Type {
	t = t.Deref()
	if t == nil {
		return UnknownType
	}
	switch t.Kind {
	case Array, Slice:
		return t.Elem
	case Named:
		if len(t.Args) > 0 {
			return t.Args[0]
		}
	}
	return UnknownType
}

// Equal reports structural equality; unknown types never compare equal
func Equal(a, b *Type) bool {
	if a.IsUnknown() || b.IsUnknown() {
		return false
	}
	if a.Kind != b.Kind || a.Name != b.Name || a.Mutable != b.Mutable || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !Equal(a.Args[i], b.Args[i]) {
			return false
		}
	}
	if a.Elem != nil || b.Elem != nil {
		return a.Elem != nil && b.Elem != nil && Equal(a.Elem, b.Elem)
	}
	return true
}

// Compatible is a permissive equality used for diagnostics: unknowns, type
// parameters and numeric literals widen freely
func Compatible(a, b *Type) bool {
	if a.IsUnknown() || b.IsUnknown() || a.Kind == Param || b.Kind == Param {
		return true
	}
	a, b = a.Deref(), b.Deref()
	if a.IsString() && b.IsString() {
		return true
	}
	if a.IsInteger() && b.IsInteger() || a.IsFloat() && b.IsFloat() {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == Primitive && a.Name != b.Name {
		return false
	}
	if a.Kind == Named && a.Name != b.Name {
		return false
	}
	return true
}
