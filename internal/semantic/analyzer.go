package semantic

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
	"windjammer/internal/types"
)

// Options configure one analysis run
type Options struct {
	// LocalModules names the project modules use statements may refer to; nil
	// accepts any path (single-file builds, editor queries)
	LocalModules map[string]bool
}

// Result is the outcome of analysing one translation unit
type Result struct {
	Info        *Info
	Diagnostics []errors.CompilerError
}

type Analyzer struct {
	program *ast.Program
	errors  []errors.CompilerError // All errors with suggestions and proper formatting
	symbols *SymbolTable           // current scope
	globals *SymbolTable
	context *ContextRegistry // Manages imports and standard library integration
	reg     *types.TypeRegistry
	info    *Info

	fn        *ast.Function
	generics  map[string]bool
	loopDepth int
	locals    []*Symbol
	consumes  []consumeSite
}

func NewAnalyzer(opts Options) *Analyzer {
	ctx := NewContextRegistry(opts.LocalModules)
	return &Analyzer{
		errors:  make([]errors.CompilerError, 0),
		context: ctx,
		reg:     ctx.Registry(),
	}
}

// Analyze runs ownership and type inference over a program and checks it.
// The program is decorated in place; everything else lands in the Result.
func Analyze(program *ast.Program, opts Options) *Result {
	return NewAnalyzer(opts).Analyze(program)
}

func (a *Analyzer) Analyze(program *ast.Program) *Result {
	a.program = program
	a.errors = make([]errors.CompilerError, 0)
	a.globals = NewSymbolTable(nil)
	a.symbols = a.globals
	a.info = newInfo(a.reg)
	if program == nil {
		return &Result{Info: a.info}
	}

	// Pass 1: imports and declarations, so bodies may refer forward
	for _, item := range program.Items {
		if use, ok := item.(*ast.Use); ok {
			for _, msg := range a.context.ProcessUseStatement(use) {
				a.addCompilerError(moduleNotFound(use, msg))
			}
		}
	}
	a.reg.Collect(program)
	for _, item := range program.Items {
		a.declare(item)
	}

	// Pass 2: ownership over the whole call graph
	inferencer := NewOwnershipInferencer(a.reg)
	inferencer.Infer(program)

	// Pass 3: types, coercions and checks per item
	for _, item := range program.Items {
		a.analyzeItem(item)
	}
	a.errors = append(a.errors, inferencer.Notes()...)
	a.errors = append(a.errors, NewFlowAnalyzer().AnalyzeProgram(program)...)

	a.info.Imports = a.context.UsedStdModules()
	return &Result{Info: a.info, Diagnostics: a.errors}
}

// GetErrors returns all errors with suggestions and proper formatting
func (a *Analyzer) GetErrors() []errors.CompilerError {
	return a.errors
}

func (a *Analyzer) declare(item ast.Item) {
	switch node := item.(type) {
	case *ast.Function:
		sym := a.globals.Define(node.Name.Value, SymbolFunction, node, node.Name.Pos)
		if sig := a.reg.Function(node.Name.Value); sig != nil {
			sym.Type = &types.Type{Kind: types.Func, Elem: sig.Return}
		}
	case *ast.Struct:
		a.globals.Define(node.Name.Value, SymbolStruct, node, node.Name.Pos).Type = types.NamedOf(node.Name.Value)
	case *ast.Enum:
		a.globals.Define(node.Name.Value, SymbolEnum, node, node.Name.Pos).Type = types.NamedOf(node.Name.Value)
	case *ast.Trait:
		a.globals.Define(node.Name.Value, SymbolTrait, node, node.Name.Pos)
	case *ast.Const:
		a.globals.Define(node.Name.Value, SymbolConst, node, node.Name.Pos).Type = types.FromAST(node.Type, nil)
	case *ast.Static:
		sym := a.globals.Define(node.Name.Value, SymbolStatic, node, node.Name.Pos)
		sym.Type = types.FromAST(node.Type, nil)
		sym.Mutable = node.Mutable
	case *ast.TypeAlias:
		a.globals.Define(node.Name.Value, SymbolTypeAlias, node, node.Name.Pos)
	case *ast.ModDecl:
		a.globals.Define(node.Name.Value, SymbolModule, node, node.Name.Pos)
	}
}

func (a *Analyzer) analyzeItem(item ast.Item) {
	switch node := item.(type) {
	case *ast.Function:
		a.analyzeFunction(node, nil)
	case *ast.Struct:
		generics := genericSet(node.TypeParams, nil)
		for _, f := range node.Fields {
			a.checkType(f.Type, generics)
		}
	case *ast.Enum:
		generics := genericSet(node.TypeParams, nil)
		for _, v := range node.Variants {
			for _, t := range v.Tuple {
				a.checkType(t, generics)
			}
			for _, f := range v.Fields {
				a.checkType(f.Type, generics)
			}
		}
	case *ast.Impl:
		generics := genericSet(node.TypeParams, nil)
		a.checkType(node.Target, generics)
		for _, m := range node.Methods {
			a.analyzeFunction(m, generics)
		}
	case *ast.Trait:
		generics := genericSet(node.TypeParams, nil)
		generics["Self"] = true
		for _, m := range node.Methods {
			a.analyzeFunction(m, generics)
		}
	case *ast.Const:
		a.analyzeGlobalValue(node.Type, node.Value)
	case *ast.Static:
		a.analyzeGlobalValue(node.Type, node.Value)
	case *ast.TypeAlias:
		a.checkType(node.Type, nil)
	}
}

func (a *Analyzer) analyzeGlobalValue(declared ast.TypeExpr, value ast.Expr) {
	a.checkType(declared, nil)
	if value == nil {
		return
	}
	t := types.FromAST(declared, nil)
	vt := a.expr(value)
	a.checkAssignable(t, vt, value)
}

func genericSet(tps []*ast.TypeParam, outer map[string]bool) map[string]bool {
	set := make(map[string]bool, len(tps)+len(outer))
	for name := range outer {
		set[name] = true
	}
	for _, tp := range tps {
		set[tp.Name.Value] = true
	}
	return set
}

func (a *Analyzer) analyzeFunction(fn *ast.Function, outer map[string]bool) {
	savedFn, savedGenerics, savedLoop := a.fn, a.generics, a.loopDepth
	savedLocals, savedConsumes := a.locals, a.consumes
	defer func() {
		a.fn, a.generics, a.loopDepth = savedFn, savedGenerics, savedLoop
		a.locals, a.consumes = savedLocals, savedConsumes
	}()

	a.fn = fn
	a.generics = genericSet(fn.TypeParams, outer)
	a.loopDepth = 0
	a.locals = nil
	a.consumes = nil

	for _, p := range fn.Params {
		a.checkType(p.Type, a.generics)
	}
	a.checkType(fn.Return, a.generics)
	if fn.Body == nil {
		return
	}

	a.pushScope()
	defer a.popScope()

	if fn.Receiver != nil {
		self := a.symbols.Define("self", SymbolParameter, fn.Receiver, fn.Receiver.Pos)
		self.Type = types.NamedOf(fn.ParentType)
		self.Receiver = fn.Receiver
		self.Mutable = fn.Receiver.Mutable
	}
	for _, p := range fn.Params {
		pt := a.reg.Resolve(types.FromAST(p.Type, a.generics))
		if p.Pattern != nil {
			a.bindPattern(p.Pattern, pt)
			continue
		}
		sym := a.symbols.Define(p.Name.Value, SymbolParameter, p, p.Name.Pos)
		sym.Type = pt
		sym.Param = p
		sym.Mutable = p.Mutable
	}

	returnType := types.UnitType
	if fn.Return != nil {
		returnType = types.FromAST(fn.Return, a.generics)
	}
	tail := a.blockWith(fn.Body, false)
	if fn.Body.Tail != nil && fn.Return != nil {
		a.returnValue(fn.Body.Tail, tail, returnType)
	}

	a.resolveMoves()
	a.finishBindings()
}

// returnValue checks a returned value and converts string literals to owned strings
func (a *Analyzer) returnValue(value ast.Expr, vt, returnType *types.Type) {
	if returnType.IsString() && returnType.Kind != types.Ref && returnType.Name != string(types.Str) {
		a.toOwnedString(value, vt)
	}
	a.checkAssignable(returnType, vt, value)
	if id, ok := unparen(value).(*ast.IdentExpr); ok {
		if sym := a.symbols.Lookup(id.Name); sym != nil && sym.IsLocal() && sym.Borrowed() &&
			returnType.Kind != types.Ref && !a.reg.IsCopy(vt.Deref()) && a.reg.IsClone(vt.Deref()) &&
			a.info.CoercionOf(value) == NoCoercion {
			a.coerce(value, Clone)
		}
	}
}

func (a *Analyzer) pushScope() {
	a.symbols = NewSymbolTable(a.symbols)
}

func (a *Analyzer) popScope() {
	a.symbols = a.symbols.Parent()
}

// block analyses a block in a fresh scope and returns the type of its tail
func (a *Analyzer) block(b *ast.Block) *types.Type {
	return a.blockWith(b, true)
}

func (a *Analyzer) blockWith(b *ast.Block, scoped bool) *types.Type {
	if b == nil {
		return types.UnitType
	}
	if scoped {
		a.pushScope()
		defer a.popScope()
	}
	for _, s := range b.Stmts {
		a.stmt(s)
	}
	if b.Tail == nil {
		return types.UnitType
	}
	return a.expr(b.Tail)
}

func (a *Analyzer) stmt(s ast.Stmt) {
	switch node := s.(type) {
	case *ast.LetStmt:
		a.analyzeLetStatement(node)
	case *ast.AssignStmt:
		a.analyzeAssignStatement(node)
	case *ast.ExprStmt:
		a.expr(node.Expr)
	case *ast.ReturnStmt:
		if node.Value == nil {
			return
		}
		vt := a.expr(node.Value)
		if a.fn != nil && a.fn.Return != nil {
			a.returnValue(node.Value, vt, types.FromAST(a.fn.Return, a.generics))
		}
	case *ast.BreakStmt:
		if node.Value != nil {
			a.expr(node.Value)
		}
	case *ast.ItemStmt:
		a.analyzeNestedItem(node.Item)
	}
}

func (a *Analyzer) analyzeNestedItem(item ast.Item) {
	switch node := item.(type) {
	case *ast.Function:
		sym := a.symbols.Define(node.Name.Value, SymbolFunction, node, node.Name.Pos)
		sig := types.Signature(node, a.generics)
		sym.Type = &types.Type{Kind: types.Func, Elem: sig.Return}
		a.analyzeFunction(node, a.generics)
	case *ast.Const:
		a.symbols.Define(node.Name.Value, SymbolConst, node, node.Name.Pos).Type = types.FromAST(node.Type, nil)
		a.analyzeGlobalValue(node.Type, node.Value)
	default:
		a.analyzeItem(item)
	}
}

func (a *Analyzer) analyzeLetStatement(let *ast.LetStmt) {
	var declared *types.Type
	if let.Type != nil {
		a.checkType(let.Type, a.generics)
		declared = a.reg.Resolve(types.FromAST(let.Type, a.generics))
	}

	var vt *types.Type
	if let.Value != nil {
		vt = a.expr(let.Value)
		if declared != nil {
			a.checkAssignable(declared, vt, let.Value)
			a.coerceInitializer(declared, let.Value, vt)
		} else {
			a.consume(let.Value, vt)
		}
	}
	if let.Else != nil {
		a.block(let.Else)
	}

	t := declared
	if t == nil {
		t = vt
	}
	if name, ok := let.Name(); ok {
		pat := let.Pattern.(*ast.IdentPattern)
		sym := a.defineLocal(name, pat, pat.Name.Pos, t)
		sym.Let = let
		sym.Mutable = let.Mutable
		return
	}
	a.bindPattern(let.Pattern, t)
}

// coerceInitializer converts string literals bound to owned string types, including
// the elements of a vector literal
func (a *Analyzer) coerceInitializer(declared *types.Type, value ast.Expr, vt *types.Type) {
	switch {
	case declared.IsString() && declared.Kind != types.Ref && declared.Name != string(types.Str):
		a.toOwnedString(value, vt)
	case declared.IsSequence() && declared.ElemType().IsString():
		if arr, ok := unparen(value).(*ast.ArrayExpr); ok {
			for _, el := range arr.Elements {
				a.toOwnedString(el, a.info.TypeOf(el))
			}
		}
	default:
		a.consume(value, vt)
	}
}

func (a *Analyzer) defineLocal(name string, node ast.Node, pos ast.Position, t *types.Type) *Symbol {
	sym := a.symbols.Define(name, SymbolVariable, node, pos)
	sym.Type = t
	sym.LoopDepth = a.loopDepth
	a.locals = append(a.locals, sym)
	return sym
}

// bindPattern defines the names bound by a pattern, typing them from t where the
// structure allows
func (a *Analyzer) bindPattern(p ast.Pattern, t *types.Type) {
	switch pat := p.(type) {
	case nil:
	case *ast.IdentPattern:
		sym := a.symbols.Define(pat.Name.Value, SymbolVariable, pat, pat.Name.Pos)
		sym.Type = t
		sym.LoopDepth = a.loopDepth
		sym.Mutable = pat.Mutable
	case *ast.TuplePattern:
		for i, el := range pat.Elements {
			var et *types.Type
			if t != nil && t.Kind == types.Tuple && i < len(t.Args) {
				et = t.Args[i]
			}
			a.bindPattern(el, et)
		}
	case *ast.EnumPattern:
		a.bindEnumPattern(pat, t)
	case *ast.OrPattern:
		if len(pat.Alternatives) > 0 {
			a.bindPattern(pat.Alternatives[0], t)
		}
	case *ast.RefPattern:
		a.bindPattern(pat.Pattern, t.Deref())
	}
}

func (a *Analyzer) bindEnumPattern(pat *ast.EnumPattern, t *types.Type) {
	t = t.Deref()
	payload := func(i int) *types.Type { return nil }
	switch variant := pat.Variant(); {
	case t != nil && t.Kind == types.Named && (t.Name == "Option" || t.Name == "Result"):
		payload = func(i int) *types.Type {
			idx := 0
			if variant == "Err" {
				idx = 1
			}
			if i == 0 && idx < len(t.Args) {
				return t.Args[idx]
			}
			return nil
		}
	default:
		enumName := ""
		if len(pat.Path) > 1 {
			enumName = pat.Path[len(pat.Path)-2].Value
		} else if t != nil && t.Kind == types.Named {
			enumName = t.Name
		}
		if enumName == "Self" && a.fn != nil {
			enumName = a.fn.ParentType
		}
		if info := a.reg.Enum(enumName); info != nil {
			for _, v := range info.Decl.Variants {
				if v.Name.Value != variant {
					continue
				}
				decl := v
				payload = func(i int) *types.Type {
					if i < len(decl.Tuple) {
						return types.FromAST(decl.Tuple[i], a.generics)
					}
					return nil
				}
				for _, fp := range pat.Fields {
					for _, f := range decl.Fields {
						if f.Name.Value == fp.Name.Value {
							a.bindPattern(fp.Pattern, types.FromAST(f.Type, a.generics))
						}
					}
				}
				for i, sub := range pat.Tuple {
					a.bindPattern(sub, payload(i))
				}
				return
			}
		} else if info := a.reg.Struct(variant); info != nil && pat.StructLike {
			for _, fp := range pat.Fields {
				a.bindPattern(fp.Pattern, info.Fields[fp.Name.Value])
			}
			return
		}
	}
	for i, sub := range pat.Tuple {
		a.bindPattern(sub, payload(i))
	}
	for _, fp := range pat.Fields {
		a.bindPattern(fp.Pattern, nil)
	}
}

func (a *Analyzer) analyzeAssignStatement(assign *ast.AssignStmt) {
	tt := a.expr(assign.Target)
	vt := a.expr(assign.Value)

	root := rootIdent(assign.Target)
	if root != nil {
		if sym := a.symbols.Lookup(root.Name); sym != nil {
			switch {
			case sym.Kind == SymbolConst, sym.Kind == SymbolStatic && !sym.Mutable:
				a.addCompilerError(errors.ImmutableAssign(root.Name, root.Pos))
			case sym.Param != nil && sym.Param.Ownership == ast.MutBorrowed:
				if id, ok := unparen(assign.Target).(*ast.IdentExpr); ok {
					a.info.Derefs[id] = true
				}
			}
		}
		a.markMutated(root)
	}

	if assign.Operator == ast.ASSIGN {
		a.checkAssignable(tt, vt, assign.Value)
		if tt.IsString() && tt.Kind != types.Ref && tt.Name != string(types.Str) {
			a.toOwnedString(assign.Value, vt)
		} else {
			a.consume(assign.Value, vt)
		}
	}
}
