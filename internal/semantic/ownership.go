package semantic

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/errors"
	"windjammer/internal/types"
)

// useKind is a bit set of the ways a binding is used
type useKind uint8

const (
	useRead useKind = 1 << iota
	useMutate
	useConsume
	// useSplit marks a binding moved in one branch and borrowed on a later path
	useSplit
)

// mutatingPrefixes name methods that mutate their receiver
var mutatingPrefixes = []string{"push", "insert", "remove", "clear", "pop", "append", "extend", "truncate", "sort", "retain", "dedup", "drain", "swap", "reverse"}

// IsMutatingMethod reports whether a call of the named method mutates its receiver
func IsMutatingMethod(name string) bool {
	if strings.HasSuffix(name, "_mut") {
		return true
	}
	for _, p := range mutatingPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// isConsumingMethod reports whether a method takes its receiver by value
func isConsumingMethod(name string) bool {
	switch name {
	case "into", "unwrap", "expect", "unwrap_or", "unwrap_or_default", "unwrap_or_else", "unwrap_err", "join":
		return true
	}
	return strings.HasPrefix(name, "into_")
}

// storesArguments reports whether a method moves its arguments into the receiver
func storesArguments(name string) bool {
	return strings.HasPrefix(name, "push") || strings.HasPrefix(name, "insert") ||
		strings.HasPrefix(name, "append") || strings.HasPrefix(name, "extend") || name == "entry"
}

// consumingCalls take their arguments by value
var consumingCalls = map[string]bool{"Some": true, "Ok": true, "Err": true, "drop": true, "Box": true}

// readingCalls are formatting and assertion builtins
var readingCalls = map[string]bool{
	"println": true, "print": true, "eprintln": true, "eprint": true, "format": true,
	"assert": true, "assert_eq": true, "assert_ne": true, "panic": true, "dbg": true,
}

// OwnershipInferencer chooses the passing mode of every parameter and implicit receiver
type OwnershipInferencer struct {
	reg       *types.TypeRegistry
	functions []*ast.Function
	byName    map[string]*ast.Function

	paramUses map[*ast.Param]useKind
	selfUses  map[*ast.Function]useKind
	notes     []errors.CompilerError
}

// NewOwnershipInferencer creates an inferencer over the declarations in reg
func NewOwnershipInferencer(reg *types.TypeRegistry) *OwnershipInferencer {
	return &OwnershipInferencer{
		reg:       reg,
		byName:    make(map[string]*ast.Function),
		paramUses: make(map[*ast.Param]useKind),
		selfUses:  make(map[*ast.Function]useKind),
	}
}

// Notes returns the ambiguity notes produced by the last Infer call
func (oi *OwnershipInferencer) Notes() []errors.CompilerError {
	return oi.notes
}

// Infer assigns an ownership to every parameter of every function in the program.
// Callee modes feed caller classifications, so the pass iterates to a fixed point.
func (oi *OwnershipInferencer) Infer(program *ast.Program) {
	oi.collect(program)

	for _, fn := range oi.functions {
		for _, p := range fn.Params {
			p.Ownership = oi.initialOwnership(fn, p)
		}
	}

	limit := 4
	for _, fn := range oi.functions {
		limit += len(fn.Params) + 1
	}
	for round := 0; round < limit; round++ {
		oi.paramUses = make(map[*ast.Param]useKind)
		oi.selfUses = make(map[*ast.Function]useKind)
		for _, fn := range oi.functions {
			newUseCollector(oi, fn).run()
		}
		if !oi.apply(false) {
			break
		}
	}
	oi.apply(true)
	oi.syncTraits(program)
}

func (oi *OwnershipInferencer) collect(program *ast.Program) {
	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		ast.Inspect(n, func(node ast.Node) bool {
			if fn, ok := node.(*ast.Function); ok {
				oi.functions = append(oi.functions, fn)
				if fn.ParentType == "" {
					if _, exists := oi.byName[fn.Name.Value]; !exists {
						oi.byName[fn.Name.Value] = fn
					}
				}
			}
			return true
		})
	}
	visit(program)
}

func (oi *OwnershipInferencer) paramType(fn *ast.Function, p *ast.Param) *types.Type {
	generics := make(map[string]bool)
	for _, tp := range fn.TypeParams {
		generics[tp.Name.Value] = true
	}
	return oi.reg.Resolve(types.FromAST(p.Type, generics))
}

func (oi *OwnershipInferencer) initialOwnership(fn *ast.Function, p *ast.Param) ast.Ownership {
	if ref, ok := p.Type.(*ast.RefType); ok {
		if ref.Mutable {
			return ast.MutBorrowed
		}
		return ast.Borrowed
	}
	if p.Pattern != nil || fn.Body == nil || oi.reg.IsCopy(oi.paramType(fn, p)) {
		return ast.Owned
	}
	return ast.Borrowed
}

// apply turns the collected uses into ownerships and reports whether any changed.
// Notes are only emitted on the final pass.
func (oi *OwnershipInferencer) apply(final bool) bool {
	changed := false
	if final {
		oi.notes = nil
	}
	for _, fn := range oi.functions {
		if fn.Body == nil {
			continue
		}
		for _, p := range fn.Params {
			if _, explicit := p.Type.(*ast.RefType); explicit || p.Pattern != nil {
				continue
			}
			uses := oi.paramUses[p]
			var next ast.Ownership
			copyable := oi.reg.IsCopy(oi.paramType(fn, p))
			switch {
			case uses&useConsume != 0 && uses&useMutate != 0:
				next = ast.Owned
				if final {
					p.Mutable = true
					if !copyable {
						oi.notes = append(oi.notes, errors.OwnershipAmbiguous(fn.Name.Value, p.Name.Value, p.Name.Pos))
					}
				}
			case uses&useSplit != 0:
				next = ast.Owned
				if final && !copyable {
					oi.notes = append(oi.notes, errors.ConditionalMove(fn.Name.Value, p.Name.Value, p.Name.Pos))
				}
			case uses&useConsume != 0:
				next = ast.Owned
			case uses&useMutate != 0:
				next = ast.MutBorrowed
			case copyable:
				next = ast.Owned
			default:
				next = ast.Borrowed
			}
			if next != p.Ownership {
				p.Ownership = next
				changed = true
			}
		}

		if fn.Receiver != nil && !fn.Receiver.Explicit {
			mode, mutable := oi.receiverMode(fn, oi.selfUses[fn])
			if mode != fn.Receiver.Mode || mutable != fn.Receiver.Mutable {
				fn.Receiver.Mode = mode
				fn.Receiver.Mutable = mutable
				changed = true
			}
		}
	}
	return changed
}

func (oi *OwnershipInferencer) receiverMode(fn *ast.Function, uses useKind) (ast.SelfMode, bool) {
	if returnsSelf(fn) || uses&useConsume != 0 {
		return ast.SelfValue, uses&useMutate != 0
	}
	if uses&useMutate != 0 {
		return ast.SelfMutRef, false
	}
	return ast.SelfRef, false
}

func returnsSelf(fn *ast.Function) bool {
	named, ok := fn.Return.(*ast.NamedType)
	if !ok || len(named.Path) != 1 {
		return false
	}
	return named.Name() == "Self" || named.Name() == fn.ParentType
}

// syncTraits makes body-less trait methods follow the first impl, and later impls
// follow the trait
func (oi *OwnershipInferencer) syncTraits(program *ast.Program) {
	synced := make(map[*ast.Function]bool)
	for _, item := range program.Items {
		impl, ok := item.(*ast.Impl)
		if !ok || impl.Trait == nil {
			continue
		}
		named, ok := impl.Trait.(*ast.NamedType)
		if !ok {
			continue
		}
		trait := oi.reg.Trait(named.Name())
		if trait == nil {
			continue
		}
		for _, decl := range trait.Methods {
			for _, m := range impl.Methods {
				if m.Name.Value != decl.Name.Value || len(m.Params) != len(decl.Params) {
					continue
				}
				from, to := m, decl
				if synced[decl] || decl.Body != nil {
					from, to = decl, m
				}
				for i := range from.Params {
					to.Params[i].Ownership = from.Params[i].Ownership
				}
				if from.Receiver != nil && to.Receiver != nil && !to.Receiver.Explicit {
					to.Receiver.Mode = from.Receiver.Mode
					to.Receiver.Mutable = from.Receiver.Mutable
				}
				synced[decl] = true
			}
		}
	}
}

// calleeParamKind is the use a call makes of the argument bound to p
func calleeParamKind(p *ast.Param) useKind {
	switch p.Ownership {
	case ast.Owned:
		return useConsume
	case ast.MutBorrowed:
		return useMutate
	}
	return useRead
}

// useCollector classifies every use of one function's parameters
type useCollector struct {
	oi     *OwnershipInferencer
	fn     *ast.Function
	params map[string]*ast.Param
	env    []map[string]*types.Type // declared types of visible bindings
	shadow []map[string]bool
	moving int // inside a move closure or go block

	branch  int                 // depth of if and match bodies
	pending map[*ast.Param]bool // moved inside the current branch
	moved   map[*ast.Param]bool // moved in a branch that has been left
}

func newUseCollector(oi *OwnershipInferencer, fn *ast.Function) *useCollector {
	uc := &useCollector{
		oi:      oi,
		fn:      fn,
		params:  make(map[string]*ast.Param),
		env:     []map[string]*types.Type{{}},
		shadow:  []map[string]bool{{}},
		pending: make(map[*ast.Param]bool),
		moved:   make(map[*ast.Param]bool),
	}
	for _, p := range fn.Params {
		uc.params[p.Name.Value] = p
		uc.env[0][p.Name.Value] = oi.paramType(fn, p).Deref()
	}
	if fn.ParentType != "" {
		uc.env[0]["self"] = types.NamedOf(fn.ParentType)
	}
	return uc
}

func (uc *useCollector) run() {
	if uc.fn.Body == nil {
		return
	}
	tail := useRead
	if uc.fn.Return != nil {
		tail = useConsume
	}
	uc.block(uc.fn.Body, tail)
}

func (uc *useCollector) push() {
	uc.env = append(uc.env, map[string]*types.Type{})
	uc.shadow = append(uc.shadow, map[string]bool{})
}

func (uc *useCollector) pop() {
	uc.env = uc.env[:len(uc.env)-1]
	uc.shadow = uc.shadow[:len(uc.shadow)-1]
}

func (uc *useCollector) bind(name string, t *types.Type) {
	uc.shadow[len(uc.shadow)-1][name] = true
	if t != nil {
		uc.env[len(uc.env)-1][name] = t
	}
}

func (uc *useCollector) bindPattern(p ast.Pattern) {
	for _, b := range ast.PatternBindings(p) {
		uc.bind(b.Name.Value, nil)
	}
}

func (uc *useCollector) shadowed(name string) bool {
	// bindings in the outermost scope are the parameters themselves
	for i := len(uc.shadow) - 1; i >= 1; i-- {
		if uc.shadow[i][name] {
			return true
		}
	}
	return false
}

func (uc *useCollector) typeOf(name string) *types.Type {
	for i := len(uc.env) - 1; i >= 0; i-- {
		if t, ok := uc.env[i][name]; ok {
			return t
		}
		if i > 0 && uc.shadow[i][name] {
			return nil
		}
	}
	return nil
}

func (uc *useCollector) record(name string, kind useKind) {
	if uc.moving > 0 {
		kind |= useConsume
	}
	if name == "self" {
		if uc.fn.Receiver != nil && !uc.shadowed("self") {
			uc.oi.selfUses[uc.fn] |= kind
		}
		return
	}
	if p, ok := uc.params[name]; ok && !uc.shadowed(name) {
		switch {
		case kind&useConsume != 0 && uc.branch > 0:
			uc.pending[p] = true
		case kind&useConsume == 0 && uc.moved[p]:
			kind |= useSplit
		}
		uc.oi.paramUses[p] |= kind
	}
}

// arm visits one branch body; moves inside it conflict with later borrows
func (uc *useCollector) arm(visit func()) {
	uc.branch++
	visit()
	uc.branch--
	for p := range uc.pending {
		uc.moved[p] = true
		delete(uc.pending, p)
	}
}

func (uc *useCollector) block(b *ast.Block, tail useKind) {
	if b == nil {
		return
	}
	uc.push()
	defer uc.pop()
	for _, s := range b.Stmts {
		uc.stmt(s)
	}
	if b.Tail != nil {
		uc.expr(b.Tail, tail)
	}
}

func (uc *useCollector) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		if s.Value != nil {
			uc.expr(s.Value, useConsume)
		}
		if s.Else != nil {
			uc.block(s.Else, useRead)
		}
		var declared *types.Type
		if s.Type != nil {
			declared = types.FromAST(s.Type, nil)
		} else if s.Value != nil {
			declared = uc.guessType(s.Value)
		}
		if name, ok := s.Name(); ok {
			uc.bind(name, declared)
		} else {
			uc.bindPattern(s.Pattern)
		}
	case *ast.AssignStmt:
		uc.expr(s.Target, useMutate)
		if s.Operator != ast.ASSIGN {
			uc.expr(s.Target, useRead)
		}
		uc.expr(s.Value, useConsume)
	case *ast.ExprStmt:
		uc.expr(s.Expr, useRead)
	case *ast.ReturnStmt:
		if s.Value != nil {
			uc.expr(s.Value, useConsume)
		}
	case *ast.BreakStmt:
		if s.Value != nil {
			uc.expr(s.Value, useConsume)
		}
	}
}

// guessType recognises the initialisers whose type is obvious without inference
func (uc *useCollector) guessType(e ast.Expr) *types.Type {
	switch e := e.(type) {
	case *ast.StructLiteralExpr:
		return types.NamedOf(e.Name)
	case *ast.CallExpr:
		switch callee := e.Callee.(type) {
		case *ast.IdentExpr:
			if sig := uc.oi.reg.Function(callee.Name); sig != nil {
				return sig.Return
			}
		case *ast.PathExpr:
			if len(callee.Segments) == 2 {
				return uc.staticReturn(callee.Segments[0].Value, callee.Last())
			}
		}
	case *ast.MethodCallExpr:
		if id, ok := e.Receiver.(*ast.IdentExpr); ok && uc.isTypeName(id.Name) {
			return uc.staticReturn(id.Name, e.Method.Value)
		}
	}
	return nil
}

func (uc *useCollector) staticReturn(typeName, method string) *types.Type {
	if typeName == "Self" {
		typeName = uc.fn.ParentType
	}
	if sig := uc.oi.reg.Method(typeName, method); sig != nil {
		if sig.Return.Kind == types.Param && sig.Return.Name == "Self" {
			return types.NamedOf(typeName)
		}
		return sig.Return
	}
	return nil
}

func (uc *useCollector) isTypeName(name string) bool {
	return name == "Self" || uc.oi.reg.Struct(name) != nil || uc.oi.reg.Enum(name) != nil
}

// receiverType returns the declared named type of a receiver expression
func (uc *useCollector) receiverType(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.IdentExpr:
		if t := uc.typeOf(e.Name); t != nil {
			if t = t.Deref(); t.Kind == types.Named {
				return t.Name
			}
		}
	case *ast.FieldAccessExpr:
		if owner := uc.receiverType(e.Target); owner != "" {
			if t := uc.oi.reg.FieldType(owner, e.Field.Value).Deref(); t != nil && t.Kind == types.Named {
				return t.Name
			}
		}
	case *ast.ParenExpr:
		return uc.receiverType(e.Value)
	}
	return ""
}

func (uc *useCollector) args(args []*ast.Arg, callee *ast.Function, fallback useKind) {
	for i, a := range args {
		kind := fallback
		if callee != nil && i < len(callee.Params) {
			kind = calleeParamKind(callee.Params[i])
		}
		uc.expr(a.Value, kind)
	}
}

func (uc *useCollector) calleeOf(call *ast.CallExpr) (*ast.Function, useKind) {
	switch callee := call.Callee.(type) {
	case *ast.IdentExpr:
		if consumingCalls[callee.Name] {
			return nil, useConsume
		}
		if readingCalls[callee.Name] {
			return nil, useRead
		}
		if fn := uc.oi.byName[callee.Name]; fn != nil && !uc.shadowed(callee.Name) {
			return fn, useRead
		}
		if uc.isTypeName(callee.Name) {
			return nil, useConsume
		}
	case *ast.PathExpr:
		if len(callee.Segments) == 2 {
			owner := callee.Segments[0].Value
			if owner == "Self" {
				owner = uc.fn.ParentType
			}
			if sig := uc.oi.reg.Method(owner, callee.Last()); sig != nil {
				return sig.Decl, useRead
			}
			if uc.oi.reg.Enum(owner) != nil || owner == "Box" || owner == "Rc" || owner == "Arc" {
				return nil, useConsume
			}
		}
	}
	return nil, useRead
}

func (uc *useCollector) expr(e ast.Expr, kind useKind) {
	switch e := e.(type) {
	case nil:
	case *ast.IdentExpr:
		uc.record(e.Name, kind)
	case *ast.ParenExpr:
		uc.expr(e.Value, kind)
	case *ast.FieldAccessExpr:
		uc.expr(e.Target, uc.fieldKind(e, kind))
	case *ast.IndexExpr:
		if kind&useMutate != 0 {
			uc.expr(e.Target, useMutate)
		} else {
			uc.expr(e.Target, useRead)
		}
		uc.expr(e.Index, useRead)
	case *ast.MethodCallExpr:
		uc.methodCall(e)
	case *ast.CallExpr:
		callee, fallback := uc.calleeOf(e)
		if id, ok := e.Callee.(*ast.IdentExpr); ok {
			uc.record(id.Name, useRead)
		} else if _, ok := e.Callee.(*ast.PathExpr); !ok {
			uc.expr(e.Callee, useRead)
		}
		uc.args(e.Args, callee, fallback)
	case *ast.PipeExpr:
		uc.pipe(e)
	case *ast.BinaryExpr:
		left := useRead
		if e.Op == "+" {
			if id, ok := e.Left.(*ast.IdentExpr); ok {
				if t := uc.typeOf(id.Name); t != nil && t.IsString() {
					left = useConsume
				}
			}
		}
		uc.expr(e.Left, left)
		uc.expr(e.Right, useRead)
	case *ast.UnaryExpr:
		switch e.Op {
		case "&mut":
			uc.expr(e.Value, useMutate)
		case "*":
			uc.expr(e.Value, kind&useMutate|useRead)
		default:
			uc.expr(e.Value, useRead)
		}
	case *ast.LiteralExpr, *ast.PathExpr, *ast.BadExpr:
	case *ast.InterpolatedString:
		for _, part := range e.Parts {
			uc.expr(part.Expr, useRead)
		}
	case *ast.BlockExpr:
		uc.block(e.Block, kind)
	case *ast.IfExpr:
		uc.expr(e.Cond, useRead)
		uc.push()
		if e.Pattern != nil {
			uc.bindPattern(e.Pattern)
		}
		uc.arm(func() { uc.block(e.Then, kind) })
		uc.pop()
		if e.Else != nil {
			uc.arm(func() { uc.expr(e.Else, kind) })
		}
	case *ast.MatchExpr:
		uc.expr(e.Subject, useRead)
		for _, arm := range e.Arms {
			uc.push()
			uc.bindPattern(arm.Pattern)
			uc.expr(arm.Guard, useRead)
			uc.arm(func() { uc.expr(arm.Body, kind) })
			uc.pop()
		}
	case *ast.ForExpr:
		uc.expr(e.Iter, useRead)
		uc.push()
		uc.bindPattern(e.Pattern)
		uc.block(e.Body, useRead)
		uc.pop()
	case *ast.WhileExpr:
		uc.expr(e.Cond, useRead)
		uc.block(e.Body, useRead)
	case *ast.LoopExpr:
		uc.block(e.Body, useRead)
	case *ast.ClosureExpr:
		uc.push()
		for _, p := range e.Params {
			uc.bindPattern(p.Pattern)
		}
		if e.Move {
			uc.moving++
		}
		uc.expr(e.Body, useRead)
		if e.Move {
			uc.moving--
		}
		uc.pop()
	case *ast.GoExpr:
		uc.moving++
		uc.block(e.Body, useRead)
		uc.moving--
	case *ast.TupleExpr:
		for _, el := range e.Elements {
			uc.expr(el, kind)
		}
	case *ast.ArrayExpr:
		for _, el := range e.Elements {
			uc.expr(el, useConsume)
		}
		uc.expr(e.Repeat, useRead)
	case *ast.MapExpr:
		for _, entry := range e.Entries {
			uc.expr(entry.Key, useConsume)
			uc.expr(entry.Value, useConsume)
		}
	case *ast.StructLiteralExpr:
		for _, f := range e.Fields {
			uc.expr(f.Value, useConsume)
		}
		uc.expr(e.Base, useConsume)
	case *ast.RangeExpr:
		uc.expr(e.Start, useRead)
		uc.expr(e.End, useRead)
	case *ast.CastExpr:
		uc.expr(e.Value, useRead)
	case *ast.MacroExpr:
		argKind := useRead
		if e.Name == "vec" {
			argKind = useConsume
		}
		for _, a := range e.Args {
			uc.expr(a, argKind)
		}
	case *ast.TryExpr:
		uc.expr(e.Value, useConsume)
	case *ast.AwaitExpr:
		uc.expr(e.Value, useConsume)
	}
}

// fieldKind maps the use of a field to a use of its owner: moving a copyable
// field only reads the owner
func (uc *useCollector) fieldKind(e *ast.FieldAccessExpr, kind useKind) useKind {
	if kind&useConsume == 0 {
		return kind
	}
	if owner := uc.receiverType(e.Target); owner != "" {
		if ft := uc.oi.reg.FieldType(owner, e.Field.Value); !ft.IsUnknown() && uc.oi.reg.IsCopy(ft) {
			return useRead
		}
	}
	return kind
}

func (uc *useCollector) methodCall(e *ast.MethodCallExpr) {
	name := e.Method.Value

	// Type.method(...) and module.function(...) have no receiver value
	if id, ok := e.Receiver.(*ast.IdentExpr); ok && uc.typeOf(id.Name) == nil && id.Name != "self" {
		if _, isParam := uc.params[id.Name]; !isParam || uc.shadowed(id.Name) {
			var callee *ast.Function
			if sig := uc.oi.reg.Method(id.Name, name); sig != nil && uc.isTypeName(id.Name) {
				callee = sig.Decl
			}
			fallback := useRead
			if callee == nil && uc.isTypeName(id.Name) {
				fallback = useConsume
			}
			if callee == nil && !uc.isTypeName(id.Name) && uc.typeOf(id.Name) == nil {
				uc.record(id.Name, uc.heuristicReceiver(name))
			}
			uc.args(e.Args, callee, fallback)
			return
		}
	}

	var callee *ast.Function
	receiverKind := uc.heuristicReceiver(name)
	if owner := uc.receiverType(e.Receiver); owner != "" {
		if sig := uc.oi.reg.Method(owner, name); sig != nil && sig.Decl != nil {
			callee = sig.Decl
			receiverKind = useRead
			if r := sig.Decl.Receiver; r != nil {
				switch r.Mode {
				case ast.SelfMutRef:
					receiverKind = useMutate
				case ast.SelfValue:
					receiverKind = useConsume
					if r.Mutable {
						receiverKind |= useMutate
					}
				}
			}
		}
	}
	if name == "clone" || name == "to_string" || name == "to_owned" {
		receiverKind = useRead
	}
	uc.expr(e.Receiver, receiverKind)

	fallback := useRead
	if callee == nil && storesArguments(name) {
		fallback = useConsume
	}
	uc.args(e.Args, callee, fallback)
}

func (uc *useCollector) heuristicReceiver(name string) useKind {
	switch {
	case IsMutatingMethod(name):
		return useMutate
	case isConsumingMethod(name):
		return useConsume
	}
	return useRead
}

// pipe treats "a |> f" as f(a) and "a |> f(b)" as f(a, b)
func (uc *useCollector) pipe(e *ast.PipeExpr) {
	switch right := e.Right.(type) {
	case *ast.IdentExpr:
		kind := useRead
		if fn := uc.oi.byName[right.Name]; fn != nil && len(fn.Params) > 0 {
			kind = calleeParamKind(fn.Params[0])
		} else if consumingCalls[right.Name] {
			kind = useConsume
		}
		uc.expr(e.Left, kind)
		uc.record(right.Name, useRead)
	case *ast.CallExpr:
		callee, fallback := uc.calleeOf(right)
		kind := fallback
		if callee != nil && len(callee.Params) > 0 {
			kind = calleeParamKind(callee.Params[0])
		}
		uc.expr(e.Left, kind)
		if callee != nil && len(callee.Params) > 0 {
			shifted := &ast.Function{Params: callee.Params[1:]}
			uc.args(right.Args, shifted, fallback)
		} else {
			uc.args(right.Args, nil, fallback)
		}
	default:
		uc.expr(e.Left, useRead)
		uc.expr(e.Right, useRead)
	}
}
