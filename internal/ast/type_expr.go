package ast

// TypeExpr is a type as written in source
type TypeExpr interface {
	Node
	isType()
}

func (*PrimitiveType) isType() {}
func (*NamedType) isType()     {}
func (*TupleType) isType()     {}
func (*ArrayType) isType()     {}
func (*SliceType) isType()     {}
func (*FuncType) isType()      {}
func (*RefType) isType()       {}
func (*InferType) isType()     {}

// PrimitiveType is a language primitive
// Example: "int", "float", "bool", "string", "char"
type PrimitiveType struct {
	Pos    Position
	EndPos Position
	Name   string
	meta
}

// NamedType is a user or library type with optional type arguments
// Example: "Point", "Vec<int>", "std::collections::HashMap<string, int>", "Self"
type NamedType struct {
	Pos    Position
	EndPos Position
	Path   []string
	Args   []TypeExpr
	meta
}

// Name returns the last path segment
func (n *NamedType) Name() string {
	return n.Path[len(n.Path)-1]
}

// TupleType is "(A, B)"; zero elements is the unit type
type TupleType struct {
	Pos      Position
	EndPos   Position
	Elements []TypeExpr
	meta
}

// ArrayType is a fixed-size array "[T; N]"
type ArrayType struct {
	Pos    Position
	EndPos Position
	Elem   TypeExpr
	Len    Expr
	meta
}

// SliceType is a growable sequence "[T]"
type SliceType struct {
	Pos    Position
	EndPos Position
	Elem   TypeExpr
	meta
}

// FuncType is "fn(A, B) -> R"
type FuncType struct {
	Pos    Position
	EndPos Position
	Params []TypeExpr
	Return TypeExpr
	meta
}

// RefType is "&T" or "&mut T"
type RefType struct {
	Pos     Position
	EndPos  Position
	Mutable bool
	Elem    TypeExpr
	meta
}

// InferType is the "_" placeholder
type InferType struct {
	Pos    Position
	EndPos Position
	meta
}
