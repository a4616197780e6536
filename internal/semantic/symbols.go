package semantic

import (
	"sort"

	"windjammer/internal/ast"
	"windjammer/internal/types"
)

type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolStruct
	SymbolEnum
	SymbolTrait
	SymbolConst
	SymbolStatic
	SymbolTypeAlias
	SymbolModule
	SymbolParameter
	SymbolVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolTrait:
		return "trait"
	case SymbolConst:
		return "const"
	case SymbolStatic:
		return "static"
	case SymbolTypeAlias:
		return "type"
	case SymbolModule:
		return "module"
	case SymbolParameter:
		return "parameter"
	default:
		return "variable"
	}
}

type Symbol struct {
	Name     string
	Kind     SymbolKind
	Node     ast.Node
	Position ast.Position
	Type     *types.Type

	// set for local bindings
	Let       *ast.LetStmt
	Param     *ast.Param
	Receiver  *ast.SelfParam
	Mutable   bool
	LoopDepth int
	Uses      []*ast.IdentExpr
}

// IsLocal reports whether the symbol is a parameter or a let/pattern binding
func (s *Symbol) IsLocal() bool {
	return s.Kind == SymbolParameter || s.Kind == SymbolVariable
}

// Borrowed reports whether the binding holds a reference after ownership inference
func (s *Symbol) Borrowed() bool {
	if s.Param != nil {
		return s.Param.Ownership == ast.Borrowed || s.Param.Ownership == ast.MutBorrowed
	}
	if s.Receiver != nil {
		return s.Receiver.Mode != ast.SelfValue
	}
	return s.Type != nil && s.Type.Kind == types.Ref
}

type SymbolTable struct {
	symbols map[string]*Symbol
	parent  *SymbolTable
}

func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]*Symbol),
		parent:  parent,
	}
}

func (st *SymbolTable) Define(name string, kind SymbolKind, node ast.Node, pos ast.Position) *Symbol {
	symbol := &Symbol{
		Name:     name,
		Kind:     kind,
		Node:     node,
		Position: pos,
	}
	st.symbols[name] = symbol
	return symbol
}

func (st *SymbolTable) Lookup(name string) *Symbol {
	if symbol, exists := st.symbols[name]; exists {
		return symbol
	}
	if st.parent != nil {
		return st.parent.Lookup(name)
	}
	return nil
}

func (st *SymbolTable) LookupLocal(name string) *Symbol {
	if symbol, exists := st.symbols[name]; exists {
		return symbol
	}
	return nil
}

// Parent returns the enclosing scope
func (st *SymbolTable) Parent() *SymbolTable {
	return st.parent
}

// Names returns every name visible from this scope, sorted
func (st *SymbolTable) Names() []string {
	seen := make(map[string]bool)
	for scope := st; scope != nil; scope = scope.parent {
		for name := range scope.symbols {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Symbols returns the symbols declared directly in this scope, sorted by position
func (st *SymbolTable) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(st.symbols))
	for _, s := range st.symbols {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position.Offset != out[j].Position.Offset {
			return out[i].Position.Offset < out[j].Position.Offset
		}
		return out[i].Name < out[j].Name
	})
	return out
}
