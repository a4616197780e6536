package ast

// Item is a top-level declaration in a Program
type Item interface {
	Node
	isItem()
}

func (*Function) isItem()  {}
func (*Struct) isItem()    {}
func (*Enum) isItem()      {}
func (*Trait) isItem()     {}
func (*Impl) isItem()      {}
func (*Const) isItem()     {}
func (*Static) isItem()    {}
func (*TypeAlias) isItem() {}
func (*Use) isItem()       {}
func (*ModDecl) isItem()   {}
func (*MacroItem) isItem() {}
func (*BadItem) isItem()   {}

// Ownership is the inferred passing mode of a parameter
type Ownership int

const (
	OwnershipUnknown Ownership = iota
	Owned
	Borrowed
	MutBorrowed
)

func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Borrowed:
		return "&"
	case MutBorrowed:
		return "&mut"
	default:
		return "unknown"
	}
}

// SelfMode is the receiver form of a method
type SelfMode int

const (
	SelfNone SelfMode = iota
	SelfValue
	SelfRef
	SelfMutRef
)

// Function represents function and method declarations
// Example: "pub fn add<T: Add>(a: T, b: T) -> T where T: Copy { a + b }"
type Function struct {
	Pos        Position
	EndPos     Position
	DocComment string
	Decorators []*Decorator
	Public     bool
	Async      bool
	Extern     bool
	Name       Ident
	TypeParams []*TypeParam
	Where      []*WherePredicate
	Receiver   *SelfParam
	Params     []*Param
	Return     TypeExpr
	Body       *Block
	ParentType string // set for methods declared in impl or trait blocks
	ImplTrait  string // trait name when declared in "impl Trait for T"
	meta
}

// SelfParam is the receiver of a method
// Example: "self", "&self", "&mut self"; Explicit is false when the mode was inferred
type SelfParam struct {
	Pos      Position
	EndPos   Position
	Mode     SelfMode
	Explicit bool
	Mutable  bool // "mut self"
	meta
}

// Param is a function parameter; Ownership is filled by inference
// Example: "x: int", "mut v: Vec<int>", "(a, b): (int, int)"
type Param struct {
	Pos       Position
	EndPos    Position
	Name      Ident
	Pattern   Pattern // optional destructuring pattern
	Type      TypeExpr
	Ownership Ownership
	Mutable   bool
	meta
}

// TypeParam is a generic type parameter with optional bounds
// Example: "T", "T: Display + Clone"
type TypeParam struct {
	Pos    Position
	EndPos Position
	Name   Ident
	Bounds []TypeExpr
	meta
}

// WherePredicate is one clause of a where-clause
// Example: "T: Clone"
type WherePredicate struct {
	Pos    Position
	EndPos Position
	Type   TypeExpr
	Bounds []TypeExpr
	meta
}

// Struct represents struct declarations
// Example: "struct Point { x: int, y: int }"
type Struct struct {
	Pos        Position
	EndPos     Position
	DocComment string
	Decorators []*Decorator
	Public     bool
	Name       Ident
	TypeParams []*TypeParam
	Fields     []*Field
	meta
}

// Field is a named struct (or struct-like variant) field
// Example: "pub name: string"
type Field struct {
	Pos    Position
	EndPos Position
	Public bool
	Name   Ident
	Type   TypeExpr
	meta
}

// Enum represents enum declarations with optional payloads
// Example: "enum Shape { Empty, Circle(float), Rect { w: float, h: float } }"
type Enum struct {
	Pos        Position
	EndPos     Position
	DocComment string
	Decorators []*Decorator
	Public     bool
	Name       Ident
	TypeParams []*TypeParam
	Variants   []*Variant
	meta
}

// Variant is one enum case
type Variant struct {
	Pos    Position
	EndPos Position
	Name   Ident
	Tuple  []TypeExpr
	Fields []*Field
	meta
}

// Trait represents trait declarations
// Example: "trait Shape { fn area(self) -> float }"
type Trait struct {
	Pos        Position
	EndPos     Position
	DocComment string
	Decorators []*Decorator
	Public     bool
	Name       Ident
	TypeParams []*TypeParam
	Methods    []*Function
	meta
}

// Impl represents inherent and trait impl blocks
// Example: "impl Point { ... }", "impl Display for Point { ... }"
type Impl struct {
	Pos        Position
	EndPos     Position
	Decorators []*Decorator
	TypeParams []*TypeParam
	Trait      TypeExpr // nil for inherent impls
	Target     TypeExpr
	Methods    []*Function
	meta
}

// Const represents constant declarations
// Example: "const MAX: int = 100"
type Const struct {
	Pos        Position
	EndPos     Position
	DocComment string
	Public     bool
	Name       Ident
	Type       TypeExpr
	Value      Expr
	meta
}

// Static represents static declarations
// Example: "static mut COUNTER: int = 0"
type Static struct {
	Pos        Position
	EndPos     Position
	DocComment string
	Public     bool
	Mutable    bool
	Name       Ident
	Type       TypeExpr
	Value      Expr
	meta
}

// TypeAlias represents type alias declarations
// Example: "type Grid = Vec<Vec<int>>"
type TypeAlias struct {
	Pos    Position
	EndPos Position
	Public bool
	Name   Ident
	Type   TypeExpr
	meta
}

// Use represents import statements
// Example: "use std.fs", "use crate::models::{User, Post}", "use a.b as c"
type Use struct {
	Pos    Position
	EndPos Position
	Public bool
	Path   []Ident
	Group  []Ident // braced import list
	Glob   bool
	Alias  *Ident
	meta
}

// DottedPath returns the path joined with "."
func (u *Use) DottedPath() string {
	s := ""
	for i, seg := range u.Path {
		if i > 0 {
			s += "."
		}
		s += seg.Value
	}
	return s
}

// ModDecl represents module declarations
// Example: "pub mod utils"
type ModDecl struct {
	Pos    Position
	EndPos Position
	Public bool
	Name   Ident
	meta
}

// MacroItem is a macro invocation in item position
// Example: "thread_local! { ... }"
type MacroItem struct {
	Pos    Position
	EndPos Position
	Macro  *MacroExpr
	meta
}

// BadItem represents parse errors in top-level items
type BadItem struct {
	Bad BadNode
	meta
}
