package ast

// Program represents a whole Windjammer source file
// Example: "use std.fs\n\n@auto\nstruct Point { x: int, y: int }\n\nfn main() { ... }"
type Program struct {
	Pos    Position
	EndPos Position
	Items  []Item
	meta
}

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// Before reports whether p comes strictly before other in the same file
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// Ident represents any identifier like variable names, type names, etc.
// Example: "Point", "inc", "self"
type Ident struct {
	Pos    Position
	EndPos Position
	Value  string
	meta
}

// BadNode contains error information for failed parsing
type BadNode struct {
	Pos     Position
	EndPos  Position
	Message string
	Details []string
}

// Decorator represents a surface decorator attached to the following item
// Example: "@auto", "@route("/users", method = "GET")"
type Decorator struct {
	Pos    Position
	EndPos Position
	Name   string
	Args   []*DecoratorArg
	meta
}

// DecoratorArg is one positional or named decorator argument
// Example: "\"/users\"", "method = \"GET\""
type DecoratorArg struct {
	Pos    Position
	EndPos Position
	Name   string // empty for positional arguments
	Value  Expr
	meta
}

// FindDecorator returns the first decorator with the given name, or nil
func FindDecorator(decorators []*Decorator, name string) *Decorator {
	for _, d := range decorators {
		if d.Name == name {
			return d
		}
	}
	return nil
}
