package semantic

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
	"windjammer/internal/types"
)

// Coercion is a conversion the generator inserts around an expression
type Coercion int

const (
	NoCoercion Coercion = iota
	Borrow              // &x
	MutBorrow           // &mut x
	Clone               // x.clone()
	ToString            // x.to_string()
)

func (c Coercion) String() string {
	switch c {
	case Borrow:
		return "&"
	case MutBorrow:
		return "&mut"
	case Clone:
		return "clone"
	case ToString:
		return "to_string"
	default:
		return "none"
	}
}

// Info is the side table produced by inference. Entries are keyed by node pointer,
// the tree itself only carries ownership and mutability flags.
type Info struct {
	Types      map[ast.Expr]*types.Type
	Coercions  map[ast.Expr]Coercion
	IndexCasts map[*ast.IndexExpr]bool
	Derefs     map[*ast.IdentExpr]bool

	Calls       map[*ast.CallExpr]*types.FuncSig
	Methods     map[*ast.MethodCallExpr]*types.FuncSig
	Pipes       map[*ast.PipeExpr]*types.FuncSig
	StaticCalls map[*ast.MethodCallExpr]string // Type.method(...) -> type name
	ModuleCalls map[*ast.MethodCallExpr]string // module.function(...) -> std module path
	AsyncCalls  map[ast.Expr]bool

	// Imports lists the std module paths the unit uses, sorted
	Imports  []string
	Registry *types.TypeRegistry
}

func newInfo(reg *types.TypeRegistry) *Info {
	return &Info{
		Types:       make(map[ast.Expr]*types.Type),
		Coercions:   make(map[ast.Expr]Coercion),
		IndexCasts:  make(map[*ast.IndexExpr]bool),
		Derefs:      make(map[*ast.IdentExpr]bool),
		Calls:       make(map[*ast.CallExpr]*types.FuncSig),
		Methods:     make(map[*ast.MethodCallExpr]*types.FuncSig),
		Pipes:       make(map[*ast.PipeExpr]*types.FuncSig),
		StaticCalls: make(map[*ast.MethodCallExpr]string),
		ModuleCalls: make(map[*ast.MethodCallExpr]string),
		AsyncCalls:  make(map[ast.Expr]bool),
		Registry:    reg,
	}
}

// TypeOf returns the inferred type of e, or the unknown type
func (info *Info) TypeOf(e ast.Expr) *types.Type {
	if info == nil {
		return types.UnknownType
	}
	if t, ok := info.Types[e]; ok && t != nil {
		return t
	}
	return types.UnknownType
}

// CoercionOf returns the conversion recorded for e
func (info *Info) CoercionOf(e ast.Expr) Coercion {
	if info == nil {
		return NoCoercion
	}
	return info.Coercions[e]
}

// IsAsync reports whether a call expression invokes an async function
func (info *Info) IsAsync(e ast.Expr) bool {
	return info != nil && info.AsyncCalls[e]
}

func (a *Analyzer) record(e ast.Expr, t *types.Type) *types.Type {
	if t == nil {
		t = types.UnknownType
	}
	a.info.Types[e] = t
	return t
}

func (a *Analyzer) coerce(e ast.Expr, c Coercion) {
	if c == NoCoercion {
		delete(a.info.Coercions, e)
		return
	}
	a.info.Coercions[e] = c
}

// isStringLiteral reports whether e is a plain string literal
func isStringLiteral(e ast.Expr) bool {
	lit, ok := unparen(e).(*ast.LiteralExpr)
	return ok && lit.Kind == ast.StringLiteral
}

func unparen(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.Value
	}
}

// isPlace reports whether e denotes a memory location that can be borrowed mutably
func isPlace(e ast.Expr) bool {
	switch e := unparen(e).(type) {
	case *ast.IdentExpr:
		return true
	case *ast.FieldAccessExpr:
		return isPlace(e.Target)
	case *ast.IndexExpr:
		return isPlace(e.Target)
	}
	return false
}

// rootIdent returns the binding a place expression is rooted at
func rootIdent(e ast.Expr) *ast.IdentExpr {
	switch e := e.(type) {
	case *ast.IdentExpr:
		return e
	case *ast.ParenExpr:
		return rootIdent(e.Value)
	case *ast.FieldAccessExpr:
		return rootIdent(e.Target)
	case *ast.IndexExpr:
		return rootIdent(e.Target)
	case *ast.UnaryExpr:
		if e.Op == "*" {
			return rootIdent(e.Value)
		}
	case *ast.MethodCallExpr:
		// v.iter_mut(), m.get_mut(k)
		if IsMutatingMethod(e.Method.Value) {
			return rootIdent(e.Receiver)
		}
	}
	return nil
}

// toOwnedString picks the conversion of a string-typed value into an owned string
func (a *Analyzer) toOwnedString(e ast.Expr, t *types.Type) {
	if isStringLiteral(e) {
		a.coerce(e, ToString)
		return
	}
	if t == nil || !t.IsString() {
		return
	}
	if t.Kind == types.Ref || t.Name == string(types.Str) {
		a.coerce(e, ToString)
		return
	}
	if id, ok := unparen(e).(*ast.IdentExpr); ok {
		if sym := a.symbols.Lookup(id.Name); sym != nil && sym.IsLocal() && sym.Borrowed() {
			a.coerce(e, ToString)
		}
	}
}

// arguments types the arguments of a call and records the conversions that make them
// match the callee's inferred parameter modes
func (a *Analyzer) arguments(sig *types.FuncSig, args []*ast.Arg, offset int) {
	mutBorrowed := make(map[*Symbol]bool)
	for i, arg := range args {
		at := a.expr(arg.Value)
		idx := i + offset
		if sig == nil || idx >= len(sig.Params) {
			continue
		}
		param := sig.Params[idx]
		if param.Decl == nil {
			continue
		}
		a.checkAssignable(param.Type, at, arg.Value)
		a.coerceArgument(param, arg.Value, at, mutBorrowed)
	}
}

func (a *Analyzer) coerceArgument(param types.ParamSig, value ast.Expr, at *types.Type, mutBorrowed map[*Symbol]bool) {
	var sym *Symbol
	if id, ok := unparen(value).(*ast.IdentExpr); ok {
		if s := a.symbols.Lookup(id.Name); s != nil && s.IsLocal() {
			sym = s
		}
	}
	explicitRef := false
	if u, ok := unparen(value).(*ast.UnaryExpr); ok && (u.Op == "&" || u.Op == "&mut") {
		explicitRef = true
	}

	switch param.Decl.Ownership {
	case ast.MutBorrowed:
		if explicitRef {
			if root := rootIdent(value.(*ast.UnaryExpr).Value); root != nil {
				a.trackMutBorrow(root, mutBorrowed)
			}
			return
		}
		if sym != nil && sym.Param != nil && sym.Param.Ownership == ast.MutBorrowed {
			delete(a.info.Derefs, unparen(value).(*ast.IdentExpr))
			return
		}
		if isPlace(value) {
			a.coerce(value, MutBorrow)
			if root := rootIdent(value); root != nil {
				a.markMutated(root)
				a.trackMutBorrow(root, mutBorrowed)
			}
		}
	case ast.Borrowed:
		if explicitRef || isStringLiteral(value) {
			return
		}
		if at.Kind == types.Ref {
			return
		}
		if sym != nil && sym.Borrowed() {
			if id, ok := unparen(value).(*ast.IdentExpr); ok {
				delete(a.info.Derefs, id)
			}
			return
		}
		a.coerce(value, Borrow)
	case ast.Owned:
		if param.Type.IsString() {
			a.toOwnedString(value, at)
			if a.info.CoercionOf(value) != NoCoercion {
				return
			}
		}
		if sym != nil && sym.Borrowed() && !a.reg.IsCopy(at.Deref()) {
			if a.reg.IsClone(at.Deref()) {
				a.coerce(value, Clone)
			} else if id, ok := unparen(value).(*ast.IdentExpr); ok {
				a.addCompilerError(errors.MoveWithoutClone(id.Name, at.Deref().String(), id.Pos))
			}
			return
		}
		a.consume(value, at)
	}
}

func (a *Analyzer) trackMutBorrow(root *ast.IdentExpr, seen map[*Symbol]bool) {
	sym := a.symbols.Lookup(root.Name)
	if sym == nil || !sym.IsLocal() {
		return
	}
	if seen[sym] {
		a.addCompilerError(borrowConflict(root))
		return
	}
	seen[sym] = true
}

// checkAssignable reports a mismatch between two fully known, comparable types
func (a *Analyzer) checkAssignable(expected, actual *types.Type, at ast.Expr) {
	if !a.comparable(expected) || !a.comparable(actual) {
		return
	}
	if !types.Compatible(expected, actual) {
		a.addCompilerError(typeMismatch(expected, actual, at))
	}
}

// comparable limits mismatch reports to primitives and declared types
func (a *Analyzer) comparable(t *types.Type) bool {
	if t.IsUnknown() {
		return false
	}
	t = a.reg.Resolve(t.Deref())
	switch t.Kind {
	case types.Primitive:
		return !t.IsUnit()
	case types.Named:
		return a.reg.Struct(t.Name) != nil || a.reg.Enum(t.Name) != nil
	}
	return false
}
