package ast

type Expr interface {
	Node
	isExpr()
}

func (*BadExpr) isExpr()            {}
func (*LiteralExpr) isExpr()        {}
func (*InterpolatedString) isExpr() {}
func (*IdentExpr) isExpr()          {}
func (*PathExpr) isExpr()           {}
func (*BinaryExpr) isExpr()         {}
func (*UnaryExpr) isExpr()          {}
func (*CallExpr) isExpr()           {}
func (*MethodCallExpr) isExpr()     {}
func (*FieldAccessExpr) isExpr()    {}
func (*IndexExpr) isExpr()          {}
func (*BlockExpr) isExpr()          {}
func (*IfExpr) isExpr()             {}
func (*MatchExpr) isExpr()          {}
func (*ForExpr) isExpr()            {}
func (*WhileExpr) isExpr()          {}
func (*LoopExpr) isExpr()           {}
func (*ClosureExpr) isExpr()        {}
func (*TupleExpr) isExpr()          {}
func (*ArrayExpr) isExpr()          {}
func (*MapExpr) isExpr()            {}
func (*StructLiteralExpr) isExpr()  {}
func (*RangeExpr) isExpr()          {}
func (*CastExpr) isExpr()           {}
func (*PipeExpr) isExpr()           {}
func (*MacroExpr) isExpr()          {}
func (*TryExpr) isExpr()            {}
func (*AwaitExpr) isExpr()          {}
func (*ParenExpr) isExpr()          {}
func (*GoExpr) isExpr()             {}

// BadExpr represents parse errors in expressions
type BadExpr struct {
	Bad BadNode
	meta
}

// LiteralKind distinguishes literal expressions
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	BoolLiteral
	CharLiteral
	StringLiteral
)

// LiteralExpr represents numbers, booleans, chars and plain strings.
// Value holds the unescaped text for strings and chars, the digits for numbers.
// Example: "42", "1_000u32", "3.14", "true", "'a'", "\"hi\""
type LiteralExpr struct {
	Pos    Position
	EndPos Position
	Kind   LiteralKind
	Value  string
	Suffix string // numeric type suffix like "u8"
	meta
}

// StringPart is one piece of an interpolated string: either literal text or an expression
type StringPart struct {
	Literal string
	Expr    Expr
}

// InterpolatedString is a string literal containing ${...} holes
// Example: "\"Hello, ${name}!\""
type InterpolatedString struct {
	Pos    Position
	EndPos Position
	Parts  []StringPart
	meta
}

// IdentExpr represents a bare identifier reference
type IdentExpr struct {
	Pos    Position
	EndPos Position
	Name   string
	meta
}

// PathExpr is a "::" separated path
// Example: "Shape::Circle", "std::mem::swap"
type PathExpr struct {
	Pos      Position
	EndPos   Position
	Segments []Ident
	meta
}

// Last returns the final path segment
func (p *PathExpr) Last() string {
	return p.Segments[len(p.Segments)-1].Value
}

// BinaryExpr represents infix operations
// Example: "a + b", "x == y && z"
type BinaryExpr struct {
	Pos    Position
	EndPos Position
	Op     string
	Left   Expr
	Right  Expr
	meta
}

// UnaryExpr represents prefix operations; Op is one of "-", "!", "*", "&", "&mut"
type UnaryExpr struct {
	Pos    Position
	EndPos Position
	Op     string
	Value  Expr
	meta
}

// Arg is a call argument, positional or named
// Example: "x", "width = 10"
type Arg struct {
	Pos    Position
	EndPos Position
	Name   string
	Value  Expr
	meta
}

// CallExpr represents function calls
// Example: "inc(c)", "Point::new(1, 2)"
type CallExpr struct {
	Pos      Position
	EndPos   Position
	Callee   Expr
	TypeArgs []TypeExpr
	Args     []*Arg
	meta
}

// CalleeName returns the simple name of the callee when it is an identifier or path
func (c *CallExpr) CalleeName() string {
	switch callee := c.Callee.(type) {
	case *IdentExpr:
		return callee.Name
	case *PathExpr:
		return callee.Last()
	}
	return ""
}

// MethodCallExpr represents receiver.method(args)
// Example: "items.push(x)"
type MethodCallExpr struct {
	Pos      Position
	EndPos   Position
	Receiver Expr
	Method   Ident
	TypeArgs []TypeExpr
	Args     []*Arg
	meta
}

// FieldAccessExpr represents target.field, including tuple indices
// Example: "p.x", "pair.0"
type FieldAccessExpr struct {
	Pos    Position
	EndPos Position
	Target Expr
	Field  Ident
	meta
}

// IndexExpr represents target[index]
type IndexExpr struct {
	Pos    Position
	EndPos Position
	Target Expr
	Index  Expr
	meta
}

// BlockExpr wraps a block used in expression position
type BlockExpr struct {
	Pos    Position
	EndPos Position
	Block  *Block
	meta
}

// IfExpr represents if/else and if-let chains. Else is a *BlockExpr or *IfExpr.
// Example: "if x > 0 { 1 } else { 2 }", "if let Some(v) = opt { v }"
type IfExpr struct {
	Pos     Position
	EndPos  Position
	Pattern Pattern // set for "if let"
	Cond    Expr
	Then    *Block
	Else    Expr
	meta
}

// MatchArm is one "pattern [if guard] => body" arm
type MatchArm struct {
	Pos     Position
	EndPos  Position
	Pattern Pattern
	Guard   Expr
	Body    Expr
	meta
}

// MatchExpr represents match expressions
type MatchExpr struct {
	Pos     Position
	EndPos  Position
	Subject Expr
	Arms    []*MatchArm
	meta
}

// ForExpr represents for loops
// Example: "for i in 0..5 { ... }"
type ForExpr struct {
	Pos     Position
	EndPos  Position
	Pattern Pattern
	Iter    Expr
	Body    *Block
	meta
}

// WhileExpr represents while loops
type WhileExpr struct {
	Pos    Position
	EndPos Position
	Cond   Expr
	Body   *Block
	meta
}

// LoopExpr represents infinite loops
type LoopExpr struct {
	Pos    Position
	EndPos Position
	Body   *Block
	meta
}

// ClosureParam is a closure parameter with an optional type
type ClosureParam struct {
	Pos     Position
	EndPos  Position
	Pattern Pattern
	Type    TypeExpr
	meta
}

// ClosureExpr represents closures
// Example: "|a, b| a + b", "move |x: int| { x * 2 }"
type ClosureExpr struct {
	Pos    Position
	EndPos Position
	Move   bool
	Params []*ClosureParam
	Return TypeExpr
	Body   Expr
	meta
}

// TupleExpr represents tuple construction; zero elements is the unit value
type TupleExpr struct {
	Pos      Position
	EndPos   Position
	Elements []Expr
	meta
}

// ArrayExpr represents array literals, "[a, b]" or "[value; count]"
type ArrayExpr struct {
	Pos      Position
	EndPos   Position
	Elements []Expr
	Repeat   Expr // count expression for "[value; count]"
	meta
}

// MapEntry is one key/value pair of a map literal
type MapEntry struct {
	Pos    Position
	EndPos Position
	Key    Expr
	Value  Expr
	meta
}

// MapExpr represents map literals
// Example: "{ \"a\": 1, \"b\": 2 }"
type MapExpr struct {
	Pos     Position
	EndPos  Position
	Entries []*MapEntry
	meta
}

// FieldInit is a field initializer inside a struct literal
type FieldInit struct {
	Pos    Position
	EndPos Position
	Name   Ident
	Value  Expr
	meta
}

// StructLiteralExpr represents struct construction
// Example: "Point { x: x, y: 0 }", "Config { debug: true, ..base }"
type StructLiteralExpr struct {
	Pos    Position
	EndPos Position
	Type   Expr // *IdentExpr or *PathExpr
	Name   string
	Fields []*FieldInit
	Base   Expr
	meta
}

// RangeExpr represents half-open and inclusive ranges
type RangeExpr struct {
	Pos       Position
	EndPos    Position
	Start     Expr
	End       Expr
	Inclusive bool
	meta
}

// CastExpr represents "value as Type"
type CastExpr struct {
	Pos    Position
	EndPos Position
	Value  Expr
	Type   TypeExpr
	meta
}

// PipeExpr represents "left |> right". Chains are left-nested: a |> f |> g is Pipe(Pipe(a, f), g).
type PipeExpr struct {
	Pos    Position
	EndPos Position
	Left   Expr
	Right  Expr
	meta
}

// Delimiter is the bracket kind of a macro invocation
type Delimiter int

const (
	ParenDelimiter Delimiter = iota
	BracketDelimiter
	BraceDelimiter
)

// Open returns the opening bracket of the delimiter
func (d Delimiter) Open() string {
	switch d {
	case BracketDelimiter:
		return "["
	case BraceDelimiter:
		return "{"
	}
	return "("
}

// Close returns the closing bracket of the delimiter
func (d Delimiter) Close() string {
	switch d {
	case BracketDelimiter:
		return "]"
	case BraceDelimiter:
		return "}"
	}
	return ")"
}

// MacroExpr is an opaque macro invocation. Raw is the verbatim source between the
// delimiters; Args holds a best-effort comma-separated parse used for analysis only.
// Example: "vec![1, 2, 3]", "println!(\"{}\", x)"
type MacroExpr struct {
	Pos    Position
	EndPos Position
	Name   string
	Delim  Delimiter
	Raw    string
	Args   []Expr
	meta
}

// TryExpr represents the "?" operator
type TryExpr struct {
	Pos    Position
	EndPos Position
	Value  Expr
	meta
}

// AwaitExpr represents "value.await"
type AwaitExpr struct {
	Pos    Position
	EndPos Position
	Value  Expr
	meta
}

// ParenExpr represents a parenthesized expression
type ParenExpr struct {
	Pos    Position
	EndPos Position
	Value  Expr
	meta
}

// GoExpr represents "go { ... }" spawning the block concurrently
type GoExpr struct {
	Pos    Position
	EndPos Position
	Body   *Block
	meta
}
