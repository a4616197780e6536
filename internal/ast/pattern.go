package ast

// Pattern is a destructuring pattern in let, match, for and parameters
type Pattern interface {
	Node
	isPattern()
}

func (*WildcardPattern) isPattern() {}
func (*IdentPattern) isPattern()    {}
func (*LiteralPattern) isPattern()  {}
func (*TuplePattern) isPattern()    {}
func (*EnumPattern) isPattern()     {}
func (*OrPattern) isPattern()       {}
func (*RefPattern) isPattern()      {}
func (*RangePattern) isPattern()    {}

// WildcardPattern is "_"
type WildcardPattern struct {
	Pos    Position
	EndPos Position
	meta
}

// IdentPattern binds a name
// Example: "x", "mut count", "ref name"
type IdentPattern struct {
	Pos     Position
	EndPos  Position
	Name    Ident
	Mutable bool
	meta
}

// LiteralPattern matches a constant
// Example: "0", "\"quit\"", "-1"
type LiteralPattern struct {
	Pos      Position
	EndPos   Position
	Value    *LiteralExpr
	Negative bool
	meta
}

// TuplePattern destructures tuples
// Example: "(a, _)"
type TuplePattern struct {
	Pos      Position
	EndPos   Position
	Elements []Pattern
	meta
}

// FieldPattern is one "name: pattern" (or shorthand "name") entry in a struct-like pattern
type FieldPattern struct {
	Pos     Position
	EndPos  Position
	Name    Ident
	Pattern Pattern
	meta
}

// EnumPattern matches an enum variant or a struct
// Example: "Shape::Circle(r)", "Some(x)", "Point { x, y: 0 }", "None"
type EnumPattern struct {
	Pos        Position
	EndPos     Position
	Path       []Ident
	Tuple      []Pattern
	Fields     []*FieldPattern
	StructLike bool
	HasRest    bool // trailing ".." in field list
	meta
}

// Variant returns the last path segment
func (e *EnumPattern) Variant() string {
	return e.Path[len(e.Path)-1].Value
}

// OrPattern is "a | b"
type OrPattern struct {
	Pos          Position
	EndPos       Position
	Alternatives []Pattern
	meta
}

// RefPattern is "&pattern"
type RefPattern struct {
	Pos     Position
	EndPos  Position
	Pattern Pattern
	meta
}

// RangePattern is "a..=b" or "a..b" over literals
type RangePattern struct {
	Pos       Position
	EndPos    Position
	Start     *LiteralPattern
	End       *LiteralPattern
	Inclusive bool
	meta
}

// PatternBindings returns every name bound by p, in source order
func PatternBindings(p Pattern) []*IdentPattern {
	var out []*IdentPattern
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch pat := p.(type) {
		case *IdentPattern:
			out = append(out, pat)
		case *TuplePattern:
			for _, e := range pat.Elements {
				walk(e)
			}
		case *EnumPattern:
			for _, e := range pat.Tuple {
				walk(e)
			}
			for _, f := range pat.Fields {
				walk(f.Pattern)
			}
		case *OrPattern:
			if len(pat.Alternatives) > 0 {
				walk(pat.Alternatives[0])
			}
		case *RefPattern:
			walk(pat.Pattern)
		}
	}
	if p != nil {
		walk(p)
	}
	return out
}
