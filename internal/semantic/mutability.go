package semantic

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/errors"
	"windjammer/internal/types"
)

// consumeSite is a move of an owned local into a callee, collection or binding
type consumeSite struct {
	sym       *Symbol
	expr      ast.Expr
	ident     *ast.IdentExpr
	typ       *types.Type
	loopDepth int
}

// markMutated flags the let binding a place expression is rooted at as mutable
func (a *Analyzer) markMutated(root *ast.IdentExpr) {
	if root == nil {
		return
	}
	sym := a.symbols.Lookup(root.Name)
	if sym == nil || !sym.IsLocal() {
		return
	}
	switch {
	case sym.Let != nil:
		if !sym.Let.Mutable {
			sym.Let.InferredMut = true
		}
	case sym.Kind == SymbolVariable:
		if pat, ok := sym.Node.(*ast.IdentPattern); ok {
			pat.Mutable = true
		}
	}
	sym.Mutable = true
}

// consume records a move of value when it names an owned, non-copy local
func (a *Analyzer) consume(value ast.Expr, t *types.Type) {
	id, ok := unparen(value).(*ast.IdentExpr)
	if !ok {
		return
	}
	sym := a.symbols.Lookup(id.Name)
	if sym == nil || !sym.IsLocal() || sym.Borrowed() {
		return
	}
	if t.IsUnknown() || t.Kind == types.Param || a.reg.IsCopy(t) {
		return
	}
	a.consumes = append(a.consumes, consumeSite{sym: sym, expr: value, ident: id, typ: t, loopDepth: a.loopDepth})
}

// resolveMoves clones every move of a local that is used again afterwards or
// moved inside a loop deeper than its declaration. Types without Clone are
// left as moves for the backend to reject.
func (a *Analyzer) resolveMoves() {
	for _, site := range a.consumes {
		if site.loopDepth <= site.sym.LoopDepth && !usedAfter(site.sym, site.ident) {
			continue
		}
		if a.reg.IsClone(site.typ) {
			a.coerce(site.expr, Clone)
			continue
		}
		a.addCompilerError(errors.MoveWithoutClone(site.ident.Name, site.typ.String(), site.ident.Pos))
	}
	a.consumes = nil
}

func usedAfter(sym *Symbol, at *ast.IdentExpr) bool {
	for _, use := range sym.Uses {
		if use != at && at.Pos.Offset < use.Pos.Offset {
			return true
		}
	}
	return false
}

// finishBindings marks let bindings that are never referenced and reports them
func (a *Analyzer) finishBindings() {
	for _, sym := range a.locals {
		if sym.Let == nil || len(sym.Uses) > 0 || strings.HasPrefix(sym.Name, "_") {
			continue
		}
		sym.Let.Unused = true
		a.addCompilerError(errors.UnusedVariable(sym.Name, sym.Position))
	}
	a.locals = nil
}
