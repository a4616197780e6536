package ast

// children collects the direct child nodes of a node, skipping absent ones
type children []Node

func (c *children) node(n Node) {
	if n != nil {
		*c = append(*c, n)
	}
}

func (c *children) expr(e Expr) {
	if e != nil {
		*c = append(*c, e)
	}
}

func (c *children) typ(t TypeExpr) {
	if t != nil {
		*c = append(*c, t)
	}
}

func (c *children) pattern(p Pattern) {
	if p != nil {
		*c = append(*c, p)
	}
}

func (c *children) block(b *Block) {
	if b != nil {
		*c = append(*c, b)
	}
}

func (c *children) args(args []*Arg) {
	for _, a := range args {
		*c = append(*c, a)
	}
}

func (c *children) decorators(decs []*Decorator) {
	for _, d := range decs {
		*c = append(*c, d)
	}
}

func (c *children) typeParams(tps []*TypeParam) {
	for _, tp := range tps {
		*c = append(*c, tp)
	}
}

func (c *children) fields(fs []*Field) {
	for _, f := range fs {
		*c = append(*c, f)
	}
}

func (c *children) functions(fs []*Function) {
	for _, f := range fs {
		*c = append(*c, f)
	}
}

// Children returns the direct children of a node in source order
func Children(n Node) []Node {
	var c children
	switch n := n.(type) {
	case *Program:
		for _, it := range n.Items {
			c.node(it)
		}
	case *Decorator:
		for _, a := range n.Args {
			c.node(a)
		}
	case *DecoratorArg:
		c.expr(n.Value)
	case *Function:
		c.decorators(n.Decorators)
		c.node(&n.Name)
		c.typeParams(n.TypeParams)
		if n.Receiver != nil {
			c.node(n.Receiver)
		}
		for _, p := range n.Params {
			c.node(p)
		}
		c.typ(n.Return)
		for _, w := range n.Where {
			c.node(w)
		}
		c.block(n.Body)
	case *Param:
		c.node(&n.Name)
		c.pattern(n.Pattern)
		c.typ(n.Type)
	case *TypeParam:
		c.node(&n.Name)
		for _, b := range n.Bounds {
			c.typ(b)
		}
	case *WherePredicate:
		c.typ(n.Type)
		for _, b := range n.Bounds {
			c.typ(b)
		}
	case *Struct:
		c.decorators(n.Decorators)
		c.node(&n.Name)
		c.typeParams(n.TypeParams)
		c.fields(n.Fields)
	case *Field:
		c.node(&n.Name)
		c.typ(n.Type)
	case *Enum:
		c.decorators(n.Decorators)
		c.node(&n.Name)
		c.typeParams(n.TypeParams)
		for _, v := range n.Variants {
			c.node(v)
		}
	case *Variant:
		c.node(&n.Name)
		for _, t := range n.Tuple {
			c.typ(t)
		}
		c.fields(n.Fields)
	case *Trait:
		c.decorators(n.Decorators)
		c.node(&n.Name)
		c.typeParams(n.TypeParams)
		c.functions(n.Methods)
	case *Impl:
		c.decorators(n.Decorators)
		c.typeParams(n.TypeParams)
		c.typ(n.Trait)
		c.typ(n.Target)
		c.functions(n.Methods)
	case *Const:
		c.node(&n.Name)
		c.typ(n.Type)
		c.expr(n.Value)
	case *Static:
		c.node(&n.Name)
		c.typ(n.Type)
		c.expr(n.Value)
	case *TypeAlias:
		c.node(&n.Name)
		c.typ(n.Type)
	case *Use:
		for i := range n.Path {
			c.node(&n.Path[i])
		}
		for i := range n.Group {
			c.node(&n.Group[i])
		}
		if n.Alias != nil {
			c.node(n.Alias)
		}
	case *ModDecl:
		c.node(&n.Name)
	case *MacroItem:
		if n.Macro != nil {
			c.node(n.Macro)
		}

	case *Block:
		for _, s := range n.Stmts {
			c.node(s)
		}
		c.expr(n.Tail)
	case *LetStmt:
		c.pattern(n.Pattern)
		c.typ(n.Type)
		c.expr(n.Value)
		c.block(n.Else)
	case *AssignStmt:
		c.expr(n.Target)
		c.expr(n.Value)
	case *ExprStmt:
		c.expr(n.Expr)
	case *ReturnStmt:
		c.expr(n.Value)
	case *BreakStmt:
		c.expr(n.Value)
	case *ItemStmt:
		c.node(n.Item)

	case *InterpolatedString:
		for _, p := range n.Parts {
			c.expr(p.Expr)
		}
	case *PathExpr:
		for i := range n.Segments {
			c.node(&n.Segments[i])
		}
	case *BinaryExpr:
		c.expr(n.Left)
		c.expr(n.Right)
	case *UnaryExpr:
		c.expr(n.Value)
	case *Arg:
		c.expr(n.Value)
	case *CallExpr:
		c.expr(n.Callee)
		for _, t := range n.TypeArgs {
			c.typ(t)
		}
		c.args(n.Args)
	case *MethodCallExpr:
		c.expr(n.Receiver)
		c.node(&n.Method)
		for _, t := range n.TypeArgs {
			c.typ(t)
		}
		c.args(n.Args)
	case *FieldAccessExpr:
		c.expr(n.Target)
		c.node(&n.Field)
	case *IndexExpr:
		c.expr(n.Target)
		c.expr(n.Index)
	case *BlockExpr:
		c.block(n.Block)
	case *IfExpr:
		c.pattern(n.Pattern)
		c.expr(n.Cond)
		c.block(n.Then)
		c.expr(n.Else)
	case *MatchArm:
		c.pattern(n.Pattern)
		c.expr(n.Guard)
		c.expr(n.Body)
	case *MatchExpr:
		c.expr(n.Subject)
		for _, a := range n.Arms {
			c.node(a)
		}
	case *ForExpr:
		c.pattern(n.Pattern)
		c.expr(n.Iter)
		c.block(n.Body)
	case *WhileExpr:
		c.expr(n.Cond)
		c.block(n.Body)
	case *LoopExpr:
		c.block(n.Body)
	case *ClosureParam:
		c.pattern(n.Pattern)
		c.typ(n.Type)
	case *ClosureExpr:
		for _, p := range n.Params {
			c.node(p)
		}
		c.typ(n.Return)
		c.expr(n.Body)
	case *TupleExpr:
		for _, e := range n.Elements {
			c.expr(e)
		}
	case *ArrayExpr:
		for _, e := range n.Elements {
			c.expr(e)
		}
		c.expr(n.Repeat)
	case *MapEntry:
		c.expr(n.Key)
		c.expr(n.Value)
	case *MapExpr:
		for _, e := range n.Entries {
			c.node(e)
		}
	case *FieldInit:
		c.node(&n.Name)
		c.expr(n.Value)
	case *StructLiteralExpr:
		c.expr(n.Type)
		for _, f := range n.Fields {
			c.node(f)
		}
		c.expr(n.Base)
	case *RangeExpr:
		c.expr(n.Start)
		c.expr(n.End)
	case *CastExpr:
		c.expr(n.Value)
		c.typ(n.Type)
	case *PipeExpr:
		c.expr(n.Left)
		c.expr(n.Right)
	case *MacroExpr:
		for _, a := range n.Args {
			c.expr(a)
		}
	case *TryExpr:
		c.expr(n.Value)
	case *AwaitExpr:
		c.expr(n.Value)
	case *ParenExpr:
		c.expr(n.Value)
	case *GoExpr:
		c.block(n.Body)

	case *IdentPattern:
		c.node(&n.Name)
	case *LiteralPattern:
		if n.Value != nil {
			c.node(n.Value)
		}
	case *TuplePattern:
		for _, e := range n.Elements {
			c.pattern(e)
		}
	case *FieldPattern:
		c.node(&n.Name)
		c.pattern(n.Pattern)
	case *EnumPattern:
		for i := range n.Path {
			c.node(&n.Path[i])
		}
		for _, e := range n.Tuple {
			c.pattern(e)
		}
		for _, f := range n.Fields {
			c.node(f)
		}
	case *OrPattern:
		for _, a := range n.Alternatives {
			c.pattern(a)
		}
	case *RefPattern:
		c.pattern(n.Pattern)
	case *RangePattern:
		if n.Start != nil {
			c.node(n.Start)
		}
		if n.End != nil {
			c.node(n.End)
		}

	case *NamedType:
		for _, a := range n.Args {
			c.typ(a)
		}
	case *TupleType:
		for _, e := range n.Elements {
			c.typ(e)
		}
	case *ArrayType:
		c.typ(n.Elem)
		c.expr(n.Len)
	case *SliceType:
		c.typ(n.Elem)
	case *FuncType:
		for _, p := range n.Params {
			c.typ(p)
		}
		c.typ(n.Return)
	case *RefType:
		c.typ(n.Elem)
	}
	return c
}

// Inspect traverses the tree depth-first, calling fn for every node.
// Children of a node are skipped when fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, fn)
	}
}

// AssignIDs gives every node in the tree a NodeID, source range and parent link
func AssignIDs(root Node, tracker *NodeTracker) {
	var visit func(n Node, parent NodeID)
	visit = func(n Node, parent NodeID) {
		id := tracker.GenerateID()
		md := &Metadata{
			NodeID:   id,
			Source:   CreateSourceRange(n.NodePos(), n.NodeEndPos()),
			ParentID: parent,
		}
		n.SetMetadata(md)
		tracker.SetMetadata(id, md)
		for _, child := range Children(n) {
			visit(child, id)
		}
	}
	if root != nil {
		visit(root, 0)
	}
}

// FindNodeAt returns the innermost node whose range contains the offset, or nil
func FindNodeAt(root Node, offset int) Node {
	var found Node
	Inspect(root, func(n Node) bool {
		start, end := n.NodePos().Offset, n.NodeEndPos().Offset
		if offset < start || offset > end {
			return false
		}
		found = n
		return true
	})
	return found
}
