package semantic

import (
	"strconv"

	"windjammer/internal/ast"
	"windjammer/internal/errors"
	"windjammer/internal/types"
)

// builtinFunctions are callable without a declaration or import
var builtinFunctions = map[string]*types.Type{
	"println": types.UnitType, "print": types.UnitType, "eprintln": types.UnitType, "eprint": types.UnitType,
	"format": types.StringType, "assert": types.UnitType, "assert_eq": types.UnitType, "assert_ne": types.UnitType,
	"panic": types.UnknownType, "todo": types.UnknownType, "unreachable": types.UnknownType,
	"dbg": types.UnknownType, "drop": types.UnitType,
	"Some": types.UnknownType, "Ok": types.UnknownType, "Err": types.UnknownType, "Box": types.UnknownType,
}

// builtinValues are identifiers that resolve without a binding
var builtinValues = map[string]bool{"None": true, "Self": true, "true": true, "false": true}

// expr infers the type of e, records it and every coercion below it
func (a *Analyzer) expr(e ast.Expr) *types.Type {
	switch node := e.(type) {
	case nil:
		return types.UnknownType
	case *ast.BadExpr:
		return types.UnknownType
	case *ast.LiteralExpr:
		return a.record(e, literalType(node))
	case *ast.InterpolatedString:
		for _, part := range node.Parts {
			if part.Expr != nil {
				a.expr(part.Expr)
			}
		}
		return a.record(e, types.StringType)
	case *ast.IdentExpr:
		return a.record(e, a.analyzeIdentExpression(node))
	case *ast.PathExpr:
		return a.record(e, a.analyzePath(node))
	case *ast.BinaryExpr:
		return a.record(e, a.inferBinaryExpressionType(node))
	case *ast.UnaryExpr:
		return a.record(e, a.inferUnaryExpressionType(node))
	case *ast.CallExpr:
		return a.record(e, a.analyzeCallExpression(node))
	case *ast.MethodCallExpr:
		return a.record(e, a.analyzeMethodCall(node))
	case *ast.FieldAccessExpr:
		return a.record(e, a.inferFieldAccessType(node))
	case *ast.IndexExpr:
		return a.record(e, a.analyzeIndexExpression(node))
	case *ast.BlockExpr:
		return a.record(e, a.block(node.Block))
	case *ast.IfExpr:
		return a.record(e, a.analyzeIf(node))
	case *ast.MatchExpr:
		return a.record(e, a.analyzeMatch(node))
	case *ast.ForExpr:
		it := a.expr(node.Iter)
		a.loopDepth++
		a.pushScope()
		a.bindPattern(node.Pattern, iterElem(it, node.Iter))
		a.block(node.Body)
		a.popScope()
		a.loopDepth--
		return a.record(e, types.UnitType)
	case *ast.WhileExpr:
		a.expr(node.Cond)
		a.loopDepth++
		a.block(node.Body)
		a.loopDepth--
		return a.record(e, types.UnitType)
	case *ast.LoopExpr:
		a.loopDepth++
		a.block(node.Body)
		a.loopDepth--
		return a.record(e, types.UnknownType)
	case *ast.ClosureExpr:
		return a.record(e, a.analyzeClosure(node))
	case *ast.TupleExpr:
		elems := make([]*types.Type, len(node.Elements))
		for i, el := range node.Elements {
			elems[i] = a.expr(el)
			a.consume(el, elems[i])
		}
		return a.record(e, types.TupleOf(elems...))
	case *ast.ArrayExpr:
		elem := types.UnknownType
		for i, el := range node.Elements {
			t := a.expr(el)
			a.consume(el, t)
			if i == 0 {
				elem = t
			}
		}
		if node.Repeat != nil {
			a.expr(node.Repeat)
		}
		return a.record(e, types.VecOf(elem))
	case *ast.MapExpr:
		key, val := types.UnknownType, types.UnknownType
		for i, entry := range node.Entries {
			kt, vt := a.expr(entry.Key), a.expr(entry.Value)
			a.consume(entry.Value, vt)
			if i == 0 {
				key, val = kt, vt
			}
		}
		return a.record(e, types.NamedOf("HashMap", key, val))
	case *ast.StructLiteralExpr:
		return a.record(e, a.analyzeStructLiteralExpression(node))
	case *ast.RangeExpr:
		st := a.expr(node.Start)
		et := a.expr(node.End)
		if st.IsUnknown() {
			st = et
		}
		return a.record(e, types.NamedOf("Range", st))
	case *ast.CastExpr:
		a.expr(node.Value)
		a.checkType(node.Type, a.generics)
		return a.record(e, types.FromAST(node.Type, a.generics))
	case *ast.PipeExpr:
		return a.record(e, a.analyzePipe(node))
	case *ast.MacroExpr:
		return a.record(e, a.analyzeMacro(node))
	case *ast.TryExpr:
		t := a.expr(node.Value).Deref()
		if t.Kind == types.Named && (t.Name == "Result" || t.Name == "Option") && len(t.Args) > 0 {
			return a.record(e, t.Args[0])
		}
		return a.record(e, types.UnknownType)
	case *ast.AwaitExpr:
		return a.record(e, a.expr(node.Value))
	case *ast.ParenExpr:
		return a.record(e, a.expr(node.Value))
	case *ast.GoExpr:
		a.block(node.Body)
		return a.record(e, types.UnitType)
	}
	return types.UnknownType
}

func literalType(lit *ast.LiteralExpr) *types.Type {
	switch lit.Kind {
	case ast.IntLiteral:
		if lit.Suffix != "" {
			return types.Prim(lit.Suffix)
		}
		return types.IntType
	case ast.FloatLiteral:
		if lit.Suffix != "" {
			return types.Prim(lit.Suffix)
		}
		return types.FloatType
	case ast.BoolLiteral:
		return types.BoolType
	case ast.CharLiteral:
		return types.CharType
	default:
		return types.StrType
	}
}

func (a *Analyzer) analyzeIdentExpression(ident *ast.IdentExpr) *types.Type {
	if sym := a.symbols.Lookup(ident.Name); sym != nil {
		sym.Uses = append(sym.Uses, ident)
		if sym.Param != nil && sym.Param.Ownership == ast.MutBorrowed && a.reg.IsCopy(sym.Type) {
			a.info.Derefs[ident] = true
		}
		if sym.Kind == SymbolFunction && sym.Type == nil {
			return types.UnknownType
		}
		return sym.Type
	}
	if ident.Name == "Self" && a.fn != nil && a.fn.ParentType != "" {
		return types.NamedOf(a.fn.ParentType)
	}
	if builtinValues[ident.Name] {
		if ident.Name == "None" {
			return types.NamedOf("Option", types.UnknownType)
		}
		return types.UnknownType
	}
	if _, ok := a.context.ImportedModule(ident.Name); ok {
		return types.UnknownType
	}
	if a.context.IsImportedFunction(ident.Name) || a.context.IsImportedType(ident.Name) {
		return types.UnknownType
	}
	if _, ok := builtinFunctions[ident.Name]; ok {
		return types.UnknownType
	}
	if a.context.HasLocalGlob() {
		return types.UnknownType
	}
	a.addUndefinedVariableError(ident)
	return types.UnknownType
}

func (a *Analyzer) analyzePath(path *ast.PathExpr) *types.Type {
	if len(path.Segments) < 2 {
		return types.UnknownType
	}
	owner := path.Segments[len(path.Segments)-2].Value
	if owner == "Self" && a.fn != nil {
		owner = a.fn.ParentType
	}
	if a.reg.Enum(owner) != nil {
		return types.NamedOf(owner)
	}
	if sig := a.reg.Method(owner, path.Last()); sig != nil {
		return &types.Type{Kind: types.Func, Elem: sig.Return}
	}
	return types.UnknownType
}

func (a *Analyzer) inferBinaryExpressionType(bin *ast.BinaryExpr) *types.Type {
	lt := a.expr(bin.Left)
	rt := a.expr(bin.Right)
	switch bin.Op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return types.BoolType
	case "+":
		if lt.IsString() {
			return types.StringType
		}
	}
	if lt.IsUnknown() || lt.Kind == types.Param {
		return rt.Deref()
	}
	return lt.Deref()
}

func (a *Analyzer) inferUnaryExpressionType(un *ast.UnaryExpr) *types.Type {
	t := a.expr(un.Value)
	switch un.Op {
	case "!":
		if t.IsUnknown() {
			return types.BoolType
		}
		return t
	case "&":
		return types.RefTo(t, false)
	case "&mut":
		a.markMutated(rootIdent(un.Value))
		return types.RefTo(t, true)
	case "*":
		if id, ok := unparen(un.Value).(*ast.IdentExpr); ok {
			// an explicit deref already covers the implicit one
			delete(a.info.Derefs, id)
		}
		return t.Deref()
	}
	return t
}

func (a *Analyzer) analyzeCallExpression(call *ast.CallExpr) *types.Type {
	switch callee := call.Callee.(type) {
	case *ast.IdentExpr:
		return a.validateDirectFunctionCall(callee, call)
	case *ast.PathExpr:
		return a.validatePathCall(callee, call)
	}
	ct := a.expr(call.Callee)
	a.arguments(nil, call.Args, 0)
	if ct.Kind == types.Func && ct.Elem != nil {
		return ct.Elem
	}
	return types.UnknownType
}

func (a *Analyzer) validateDirectFunctionCall(callee *ast.IdentExpr, call *ast.CallExpr) *types.Type {
	name := callee.Name
	if sym := a.symbols.Lookup(name); sym != nil {
		sym.Uses = append(sym.Uses, callee)
		switch sym.Kind {
		case SymbolFunction:
			sig := a.reg.Function(name)
			if fn, ok := sym.Node.(*ast.Function); ok && (sig == nil || sig.Decl != fn) {
				sig = types.Signature(fn, a.generics)
			}
			a.info.Calls[call] = sig
			if sig.Async {
				a.info.AsyncCalls[call] = true
			}
			a.arguments(sig, call.Args, 0)
			return sig.Return
		case SymbolStruct:
			a.arguments(nil, call.Args, 0)
			return sym.Type
		default:
			a.arguments(nil, call.Args, 0)
			if sym.Type != nil && sym.Type.Kind == types.Func && sym.Type.Elem != nil {
				return sym.Type.Elem
			}
			return types.UnknownType
		}
	}

	if sig := a.context.ImportedFunction(name); sig != nil {
		a.info.Calls[call] = sig
		a.arguments(sig, call.Args, 0)
		return sig.Return
	}
	if ret, ok := builtinFunctions[name]; ok {
		return a.builtinCall(name, ret, call)
	}
	a.arguments(nil, call.Args, 0)
	if a.context.IsImportedFunction(name) || a.context.IsImportedType(name) || a.context.HasLocalGlob() {
		return types.UnknownType
	}
	a.addUndefinedFunctionError(callee)
	return types.UnknownType
}

func (a *Analyzer) builtinCall(name string, ret *types.Type, call *ast.CallExpr) *types.Type {
	argTypes := make([]*types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = a.expr(arg.Value)
	}
	first := types.UnknownType
	if len(argTypes) > 0 {
		first = argTypes[0]
	}
	switch name {
	case "Some":
		a.consumeArgs(call.Args, argTypes)
		return types.NamedOf("Option", first)
	case "Ok":
		a.consumeArgs(call.Args, argTypes)
		return types.NamedOf("Result", first, types.UnknownType)
	case "Err":
		a.consumeArgs(call.Args, argTypes)
		return types.NamedOf("Result", types.UnknownType, first)
	case "Box":
		a.consumeArgs(call.Args, argTypes)
		return types.NamedOf("Box", first)
	case "drop":
		a.consumeArgs(call.Args, argTypes)
	}
	return ret
}

func (a *Analyzer) consumeArgs(args []*ast.Arg, argTypes []*types.Type) {
	for i, arg := range args {
		a.consume(arg.Value, argTypes[i])
	}
}

func (a *Analyzer) validatePathCall(callee *ast.PathExpr, call *ast.CallExpr) *types.Type {
	if len(callee.Segments) < 2 {
		a.arguments(nil, call.Args, 0)
		return types.UnknownType
	}
	owner := callee.Segments[len(callee.Segments)-2].Value
	if owner == "Self" && a.fn != nil {
		owner = a.fn.ParentType
	}
	if sig := a.reg.Method(owner, callee.Last()); sig != nil {
		a.info.Calls[call] = sig
		if sig.Async {
			a.info.AsyncCalls[call] = true
		}
		a.arguments(sig, call.Args, 0)
		return a.selfReturn(sig, owner)
	}
	if a.reg.Enum(owner) != nil {
		for _, arg := range call.Args {
			a.consume(arg.Value, a.expr(arg.Value))
		}
		return types.NamedOf(owner)
	}
	if sig := types.StdFunction(joinSegments(callee.Segments[:len(callee.Segments)-1]), callee.Last()); sig != nil {
		a.info.Calls[call] = sig
		a.arguments(sig, call.Args, 0)
		return sig.Return
	}
	argTypes := make([]*types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = a.expr(arg.Value)
	}
	if callee.Last() == "new" && (owner == "Box" || owner == "Rc" || owner == "Arc") && len(argTypes) == 1 {
		a.consumeArgs(call.Args, argTypes)
		return types.NamedOf(owner, argTypes[0])
	}
	if callee.Last() == "new" && a.reg.IsBuiltinType(owner) {
		return types.NamedOf(owner)
	}
	return types.UnknownType
}

func joinSegments(segs []ast.Ident) string {
	s := ""
	for i, seg := range segs {
		if i > 0 {
			s += "."
		}
		s += seg.Value
	}
	return s
}

// selfReturn substitutes the owner for a method returning Self
func (a *Analyzer) selfReturn(sig *types.FuncSig, owner string) *types.Type {
	if sig.Return.Kind == types.Param && sig.Return.Name == "Self" {
		return types.NamedOf(owner)
	}
	return sig.Return
}

// staticReceiver reports whether the receiver of a method call names a type or a
// module rather than a value
func (a *Analyzer) staticReceiver(e ast.Expr) (*ast.IdentExpr, bool) {
	id, ok := e.(*ast.IdentExpr)
	if !ok {
		return nil, false
	}
	if sym := a.symbols.Lookup(id.Name); sym != nil {
		switch sym.Kind {
		case SymbolStruct, SymbolEnum, SymbolTrait, SymbolTypeAlias, SymbolModule:
			return id, true
		}
		return nil, false
	}
	if id.Name == "Self" {
		return id, true
	}
	if _, ok := a.context.ImportedModule(id.Name); ok {
		return id, true
	}
	return id, a.context.IsImportedType(id.Name) || a.reg.IsBuiltinType(id.Name)
}

func (a *Analyzer) analyzeMethodCall(mc *ast.MethodCallExpr) *types.Type {
	method := mc.Method.Value

	if id, ok := a.staticReceiver(mc.Receiver); ok {
		if path, isModule := a.context.ImportedModule(id.Name); isModule && a.symbols.Lookup(id.Name) == nil {
			a.record(mc.Receiver, types.UnknownType)
			a.info.ModuleCalls[mc] = path
			sig := types.StdFunction(path, method)
			a.arguments(sig, mc.Args, 0)
			if sig == nil {
				if def := a.context.GetStandardModuleDefinition(path); def != nil {
					a.addModuleFunctionError(id.Name, mc.Method, def)
				}
				return types.UnknownType
			}
			a.info.Methods[mc] = sig
			return sig.Return
		}
		owner := id.Name
		if owner == "Self" && a.fn != nil {
			owner = a.fn.ParentType
		}
		if sym := a.symbols.Lookup(id.Name); sym != nil {
			sym.Uses = append(sym.Uses, id)
		}
		a.record(mc.Receiver, types.UnknownType)
		a.info.StaticCalls[mc] = owner
		if sig := a.reg.Method(owner, method); sig != nil {
			a.info.Methods[mc] = sig
			if sig.Async {
				a.info.AsyncCalls[mc] = true
			}
			a.arguments(sig, mc.Args, 0)
			return a.selfReturn(sig, owner)
		}
		a.arguments(nil, mc.Args, 0)
		if method == "new" || method == "default" {
			return types.NamedOf(owner)
		}
		return types.UnknownType
	}

	rt := a.expr(mc.Receiver)
	recv := a.reg.Resolve(rt.Deref())
	if id, ok := unparen(mc.Receiver).(*ast.IdentExpr); ok {
		// auto-deref covers method receivers
		delete(a.info.Derefs, id)
	}

	if recv.Kind == types.Named {
		if sig := a.reg.Method(recv.Name, method); sig != nil {
			a.info.Methods[mc] = sig
			if sig.Async {
				a.info.AsyncCalls[mc] = true
			}
			if sig.Decl != nil && sig.Decl.Receiver != nil && sig.Decl.Receiver.Mode == ast.SelfMutRef {
				a.markMutated(rootIdent(mc.Receiver))
			}
			a.arguments(sig, mc.Args, 0)
			return a.selfReturn(sig, recv.Name)
		}
	}

	if IsMutatingMethod(method) {
		a.markMutated(rootIdent(mc.Receiver))
	}
	argTypes := make([]*types.Type, len(mc.Args))
	for i, arg := range mc.Args {
		argTypes[i] = a.expr(arg.Value)
		if storesArguments(method) {
			if recv.IsSequence() && recv.ElemType().IsString() {
				a.toOwnedString(arg.Value, argTypes[i])
			}
			if a.info.CoercionOf(arg.Value) == NoCoercion {
				a.consume(arg.Value, argTypes[i])
			}
		}
	}
	return builtinMethodType(recv, method, argTypes)
}

// builtinMethodType types calls of well-known methods of strings, collections,
// options and numbers
func builtinMethodType(recv *types.Type, method string, args []*types.Type) *types.Type {
	switch method {
	case "len", "count", "capacity":
		return types.Prim("usize")
	case "is_empty", "contains", "contains_key", "starts_with", "ends_with", "is_some", "is_none",
		"is_ok", "is_err", "any", "all", "eq", "is_alphabetic", "is_numeric", "is_whitespace":
		return types.BoolType
	case "to_string", "to_uppercase", "to_lowercase", "to_owned", "repeat", "replace", "join":
		if method == "to_owned" && !recv.IsString() {
			return recv
		}
		return types.StringType
	case "trim", "trim_start", "trim_end", "as_str":
		return types.StrType
	case "clone", "abs", "min", "max", "pow", "clamp":
		return recv
	case "sqrt", "sin", "cos", "tan", "ln", "log10", "floor", "ceil", "round", "powf":
		if recv.IsUnknown() {
			return types.FloatType
		}
		return recv
	case "push", "push_str", "insert", "clear", "sort", "reverse", "truncate", "extend":
		if method == "insert" && recv.Kind == types.Named && recv.Name == "HashMap" && len(recv.Args) == 2 {
			return types.NamedOf("Option", recv.Args[1])
		}
		return types.UnitType
	case "pop", "first", "last", "get":
		if recv.IsSequence() {
			return types.NamedOf("Option", recv.ElemType())
		}
		if recv.Kind == types.Named && recv.Name == "HashMap" && len(recv.Args) == 2 {
			return types.NamedOf("Option", recv.Args[1])
		}
	case "unwrap", "expect", "unwrap_or", "unwrap_or_default", "unwrap_or_else":
		if recv.Kind == types.Named && (recv.Name == "Option" || recv.Name == "Result") && len(recv.Args) > 0 {
			return recv.Args[0]
		}
		if method == "unwrap_or" && len(args) > 0 {
			return args[0]
		}
	}
	return types.UnknownType
}

func (a *Analyzer) inferFieldAccessType(fa *ast.FieldAccessExpr) *types.Type {
	tt := a.expr(fa.Target)
	if id, ok := unparen(fa.Target).(*ast.IdentExpr); ok {
		delete(a.info.Derefs, id)
	}
	t := a.reg.Resolve(tt.Deref())
	switch t.Kind {
	case types.Named:
		name := t.Name
		if name == "Self" && a.fn != nil {
			name = a.fn.ParentType
		}
		if s := a.reg.Struct(name); s != nil {
			ft, ok := s.Fields[fa.Field.Value]
			if !ok {
				a.addFieldNotFoundError(name, fa.Field)
				return types.UnknownType
			}
			return ft
		}
	case types.Tuple:
		if i, err := strconv.Atoi(fa.Field.Value); err == nil && i < len(t.Args) {
			return t.Args[i]
		}
	}
	return types.UnknownType
}

func (a *Analyzer) analyzeIndexExpression(ix *ast.IndexExpr) *types.Type {
	tt := a.reg.Resolve(a.expr(ix.Target).Deref())
	if id, ok := unparen(ix.Target).(*ast.IdentExpr); ok {
		delete(a.info.Derefs, id)
	}
	it := a.expr(ix.Index)

	if _, isRange := unparen(ix.Index).(*ast.RangeExpr); isRange {
		return tt
	}
	isMap := tt.Kind == types.Named && (tt.Name == "HashMap" || tt.Name == "BTreeMap")
	if !isMap && it.IsInteger() && it.Name != "usize" && (tt.IsSequence() || tt.IsUnknown() || tt.Kind == types.Array) {
		a.info.IndexCasts[ix] = true
	}
	if isMap && len(tt.Args) == 2 {
		return tt.Args[1]
	}
	if tt.IsString() {
		return types.StrType
	}
	return tt.ElemType()
}

func (a *Analyzer) analyzeIf(ifx *ast.IfExpr) *types.Type {
	ct := a.expr(ifx.Cond)
	a.pushScope()
	if ifx.Pattern != nil {
		a.bindPattern(ifx.Pattern, ct)
	}
	tt := a.block(ifx.Then)
	a.popScope()
	if ifx.Else == nil {
		return types.UnitType
	}
	et := a.expr(ifx.Else)
	if tt.IsUnknown() {
		return et
	}
	return tt
}

func (a *Analyzer) analyzeMatch(m *ast.MatchExpr) *types.Type {
	st := a.expr(m.Subject)
	result := types.UnknownType
	for _, arm := range m.Arms {
		a.pushScope()
		a.bindPattern(arm.Pattern, st)
		if arm.Guard != nil {
			a.expr(arm.Guard)
		}
		bt := a.expr(arm.Body)
		if result.IsUnknown() {
			result = bt
		}
		a.popScope()
	}
	a.checkExhaustive(m, st)
	return result
}

// checkExhaustive warns when a match over a declared enum misses variants and has
// no catch-all arm
func (a *Analyzer) checkExhaustive(m *ast.MatchExpr, subject *types.Type) {
	enumName := ""
	if t := a.reg.Resolve(subject.Deref()); t.Kind == types.Named && a.reg.Enum(t.Name) != nil {
		enumName = t.Name
	}
	covered := make(map[string]bool)
	var visit func(p ast.Pattern) bool
	visit = func(p ast.Pattern) bool {
		switch pat := p.(type) {
		case *ast.WildcardPattern, *ast.IdentPattern:
			return true
		case *ast.EnumPattern:
			if enumName == "" && len(pat.Path) > 1 {
				owner := pat.Path[len(pat.Path)-2].Value
				if owner == "Self" && a.fn != nil {
					owner = a.fn.ParentType
				}
				if a.reg.Enum(owner) != nil {
					enumName = owner
				}
			}
			covered[pat.Variant()] = true
		case *ast.OrPattern:
			for _, alt := range pat.Alternatives {
				if visit(alt) {
					return true
				}
			}
		case *ast.RefPattern:
			return visit(pat.Pattern)
		}
		return false
	}
	for _, arm := range m.Arms {
		if arm.Guard != nil {
			continue
		}
		if visit(arm.Pattern) {
			return
		}
	}
	info := a.reg.Enum(enumName)
	if info == nil {
		return
	}
	var missing []string
	for _, v := range info.Variants {
		if !covered[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		a.addCompilerError(errors.NonExhaustiveMatch(enumName, missing, m.Pos))
	}
}

// iterElem is the element type produced by iterating a value of type t
func iterElem(t *types.Type, iter ast.Expr) *types.Type {
	if _, ok := unparen(iter).(*ast.RangeExpr); ok || (t.Kind == types.Named && t.Name == "Range") {
		if len(t.Args) > 0 {
			return t.Args[0]
		}
		return types.IntType
	}
	if t.IsSequence() {
		return t.ElemType()
	}
	return types.UnknownType
}

func (a *Analyzer) analyzeClosure(c *ast.ClosureExpr) *types.Type {
	a.pushScope()
	defer a.popScope()
	params := make([]*types.Type, len(c.Params))
	for i, p := range c.Params {
		var pt *types.Type
		if p.Type != nil {
			pt = types.FromAST(p.Type, a.generics)
		}
		params[i] = pt
		a.bindPattern(p.Pattern, pt)
	}
	// captured locals keep their loop depth, so moves into a closure body are
	// judged against their declaration
	savedLoop := a.loopDepth
	bt := a.expr(c.Body)
	a.loopDepth = savedLoop
	if c.Return != nil {
		bt = types.FromAST(c.Return, a.generics)
	}
	return &types.Type{Kind: types.Func, Args: params, Elem: bt}
}

func (a *Analyzer) analyzeStructLiteralExpression(lit *ast.StructLiteralExpr) *types.Type {
	name := lit.Name
	if name == "Self" && a.fn != nil {
		name = a.fn.ParentType
	}
	if path, ok := lit.Type.(*ast.PathExpr); ok && len(path.Segments) > 1 {
		owner := path.Segments[len(path.Segments)-2].Value
		if owner == "Self" && a.fn != nil {
			owner = a.fn.ParentType
		}
		for _, f := range lit.Fields {
			a.consume(f.Value, a.expr(f.Value))
		}
		a.expr(lit.Base)
		return types.NamedOf(owner)
	}

	info := a.reg.Struct(name)
	if info == nil && !a.reg.IsValidType(name) && !a.context.HasLocalGlob() {
		a.addCompilerError(errors.TypeNotFound(name, lit.Pos, a.reg.TypeNames()))
	}
	given := make(map[string]bool)
	for _, f := range lit.Fields {
		vt := a.expr(f.Value)
		given[f.Name.Value] = true
		if info == nil {
			a.consume(f.Value, vt)
			continue
		}
		ft, ok := info.Fields[f.Name.Value]
		if !ok {
			a.addFieldNotFoundError(name, f.Name)
			continue
		}
		a.checkAssignable(ft, vt, f.Value)
		if ft.IsString() && ft.Kind != types.Ref && ft.Name != string(types.Str) {
			a.toOwnedString(f.Value, vt)
		}
		if a.info.CoercionOf(f.Value) == NoCoercion {
			a.consume(f.Value, vt)
		}
	}
	if lit.Base != nil {
		a.expr(lit.Base)
		return types.NamedOf(name)
	}
	if info != nil {
		for _, field := range info.Order {
			if !given[field] {
				a.addCompilerError(errors.MissingField(name, field, lit.Pos))
			}
		}
	}
	return types.NamedOf(name)
}

// analyzePipe types "a |> f" as f(a) and "a |> f(b)" as f(a, b)
func (a *Analyzer) analyzePipe(p *ast.PipeExpr) *types.Type {
	lt := a.expr(p.Left)

	var sig *types.FuncSig
	var args []*ast.Arg
	var name *ast.IdentExpr
	switch right := p.Right.(type) {
	case *ast.IdentExpr:
		name = right
	case *ast.CallExpr:
		if id, ok := right.Callee.(*ast.IdentExpr); ok {
			name = id
			args = right.Args
		} else {
			a.expr(right)
			return types.UnknownType
		}
	default:
		rt := a.expr(p.Right)
		if rt.Kind == types.Func && rt.Elem != nil {
			return rt.Elem
		}
		return types.UnknownType
	}

	if sym := a.symbols.Lookup(name.Name); sym != nil {
		sym.Uses = append(sym.Uses, name)
		if fn, ok := sym.Node.(*ast.Function); ok {
			sig = a.reg.Function(name.Name)
			if sig == nil || sig.Decl != fn {
				sig = types.Signature(fn, a.generics)
			}
		}
	} else if imported := a.context.ImportedFunction(name.Name); imported != nil {
		sig = imported
	} else if _, ok := builtinFunctions[name.Name]; !ok && !a.context.IsImportedFunction(name.Name) && !a.context.HasLocalGlob() {
		a.addUndefinedFunctionError(name)
	}

	if sig == nil {
		a.arguments(nil, args, 0)
		return types.UnknownType
	}
	a.info.Pipes[p] = sig
	if sig.Async {
		a.info.AsyncCalls[p] = true
	}
	if len(sig.Params) > 0 && sig.Params[0].Decl != nil {
		a.checkAssignable(sig.Params[0].Type, lt, p.Left)
		a.coerceArgument(sig.Params[0], p.Left, lt, make(map[*Symbol]bool))
	}
	a.arguments(sig, args, 1)
	return sig.Return
}

func (a *Analyzer) analyzeMacro(m *ast.MacroExpr) *types.Type {
	var first *types.Type
	for i, arg := range m.Args {
		t := a.expr(arg)
		if i == 0 {
			first = t
		}
		if m.Name == "vec" {
			a.consume(arg, t)
		}
	}
	switch m.Name {
	case "vec":
		if first == nil {
			first = types.UnknownType
		}
		return types.VecOf(first)
	case "format":
		return types.StringType
	case "println", "print", "eprintln", "eprint", "assert", "assert_eq", "assert_ne":
		return types.UnitType
	}
	return types.UnknownType
}
