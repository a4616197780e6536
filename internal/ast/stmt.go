package ast

// Stmt is a statement inside a Block
type Stmt interface {
	Node
	isStmt()
}

func (*LetStmt) isStmt()      {}
func (*AssignStmt) isStmt()   {}
func (*ExprStmt) isStmt()     {}
func (*ReturnStmt) isStmt()   {}
func (*BreakStmt) isStmt()    {}
func (*ContinueStmt) isStmt() {}
func (*ItemStmt) isStmt()     {}

// Block is a braced statement list with an optional trailing value expression
// Example: "{ let x = 1; x + 1 }"
type Block struct {
	Pos    Position
	EndPos Position
	Stmts  []Stmt
	Tail   Expr // trailing expression without terminator, if any
	meta
}

// LetStmt represents variable bindings. InferredMut and Unused are set by inference.
// Example: "let mut total: int = 0", "let Some(x) = opt else { return }"
type LetStmt struct {
	Pos         Position
	EndPos      Position
	Pattern     Pattern
	Mutable     bool
	InferredMut bool
	Unused      bool
	Type        TypeExpr
	Value       Expr
	Else        *Block
	meta
}

// Name returns the bound identifier when the pattern is a simple identifier
func (l *LetStmt) Name() (string, bool) {
	if id, ok := l.Pattern.(*IdentPattern); ok {
		return id.Name.Value, true
	}
	return "", false
}

// IsMutable reports whether the binding is declared or inferred mutable
func (l *LetStmt) IsMutable() bool {
	return l.Mutable || l.InferredMut
}

// AssignStmt represents assignments, plain or compound
// Example: "x = x + 1", "total += n"
type AssignStmt struct {
	Pos      Position
	EndPos   Position
	Target   Expr
	Operator AssignType
	Value    Expr
	meta
}

// ExprStmt is an expression evaluated for its effect
// Example: "println(\"hi\");"
type ExprStmt struct {
	Pos       Position
	EndPos    Position
	Expr      Expr
	Semicolon bool
	meta
}

// ReturnStmt represents return statements
// Example: "return x"
type ReturnStmt struct {
	Pos    Position
	EndPos Position
	Value  Expr
	meta
}

// BreakStmt represents break, optionally carrying a loop value
type BreakStmt struct {
	Pos    Position
	EndPos Position
	Value  Expr
	meta
}

// ContinueStmt represents continue
type ContinueStmt struct {
	Pos    Position
	EndPos Position
	meta
}

// ItemStmt is a nested item (const, static, fn) declared inside a block
type ItemStmt struct {
	Pos    Position
	EndPos Position
	Item   Item
	meta
}
