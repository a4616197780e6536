package ast

type Node interface {
	NodePos() Position
	NodeEndPos() Position
	NodeType() NodeType
	String() string

	// Metadata support for debugging and compilation tracking
	GetMetadata() *Metadata
	SetMetadata(*Metadata)
}

func (p *Program) NodePos() Position    { return p.Pos }
func (p *Program) NodeEndPos() Position { return p.EndPos }
func (*Program) NodeType() NodeType     { return PROGRAM }
func (p *Program) String() string       { return Print(p) }

func (i *Ident) NodePos() Position    { return i.Pos }
func (i *Ident) NodeEndPos() Position { return i.EndPos }
func (*Ident) NodeType() NodeType     { return IDENT }
func (i *Ident) String() string       { return Print(i) }

func (d *Decorator) NodePos() Position    { return d.Pos }
func (d *Decorator) NodeEndPos() Position { return d.EndPos }
func (*Decorator) NodeType() NodeType     { return DECORATOR }
func (d *Decorator) String() string       { return Print(d) }

func (da *DecoratorArg) NodePos() Position    { return da.Pos }
func (da *DecoratorArg) NodeEndPos() Position { return da.EndPos }
func (*DecoratorArg) NodeType() NodeType      { return DECORATOR_ARG }
func (da *DecoratorArg) String() string       { return Print(da) }

func (f *Function) NodePos() Position    { return f.Pos }
func (f *Function) NodeEndPos() Position { return f.EndPos }
func (*Function) NodeType() NodeType     { return FUNCTION }
func (f *Function) String() string       { return Print(f) }

func (sp *SelfParam) NodePos() Position    { return sp.Pos }
func (sp *SelfParam) NodeEndPos() Position { return sp.EndPos }
func (*SelfParam) NodeType() NodeType      { return SELF_PARAM }
func (sp *SelfParam) String() string       { return Print(sp) }

func (p *Param) NodePos() Position    { return p.Pos }
func (p *Param) NodeEndPos() Position { return p.EndPos }
func (*Param) NodeType() NodeType     { return PARAM }
func (p *Param) String() string       { return Print(p) }

func (tp *TypeParam) NodePos() Position    { return tp.Pos }
func (tp *TypeParam) NodeEndPos() Position { return tp.EndPos }
func (*TypeParam) NodeType() NodeType      { return TYPE_PARAM }
func (tp *TypeParam) String() string       { return Print(tp) }

func (wp *WherePredicate) NodePos() Position    { return wp.Pos }
func (wp *WherePredicate) NodeEndPos() Position { return wp.EndPos }
func (*WherePredicate) NodeType() NodeType      { return WHERE_PREDICATE }
func (wp *WherePredicate) String() string       { return Print(wp) }

func (s *Struct) NodePos() Position    { return s.Pos }
func (s *Struct) NodeEndPos() Position { return s.EndPos }
func (*Struct) NodeType() NodeType     { return STRUCT }
func (s *Struct) String() string       { return Print(s) }

func (f *Field) NodePos() Position    { return f.Pos }
func (f *Field) NodeEndPos() Position { return f.EndPos }
func (*Field) NodeType() NodeType     { return FIELD }
func (f *Field) String() string       { return Print(f) }

func (e *Enum) NodePos() Position    { return e.Pos }
func (e *Enum) NodeEndPos() Position { return e.EndPos }
func (*Enum) NodeType() NodeType     { return ENUM }
func (e *Enum) String() string       { return Print(e) }

func (v *Variant) NodePos() Position    { return v.Pos }
func (v *Variant) NodeEndPos() Position { return v.EndPos }
func (*Variant) NodeType() NodeType     { return VARIANT }
func (v *Variant) String() string       { return Print(v) }

func (t *Trait) NodePos() Position    { return t.Pos }
func (t *Trait) NodeEndPos() Position { return t.EndPos }
func (*Trait) NodeType() NodeType     { return TRAIT }
func (t *Trait) String() string       { return Print(t) }

func (i *Impl) NodePos() Position    { return i.Pos }
func (i *Impl) NodeEndPos() Position { return i.EndPos }
func (*Impl) NodeType() NodeType     { return IMPL }
func (i *Impl) String() string       { return Print(i) }

func (c *Const) NodePos() Position    { return c.Pos }
func (c *Const) NodeEndPos() Position { return c.EndPos }
func (*Const) NodeType() NodeType     { return CONST }
func (c *Const) String() string       { return Print(c) }

func (s *Static) NodePos() Position    { return s.Pos }
func (s *Static) NodeEndPos() Position { return s.EndPos }
func (*Static) NodeType() NodeType     { return STATIC }
func (s *Static) String() string       { return Print(s) }

func (ta *TypeAlias) NodePos() Position    { return ta.Pos }
func (ta *TypeAlias) NodeEndPos() Position { return ta.EndPos }
func (*TypeAlias) NodeType() NodeType      { return TYPE_ALIAS }
func (ta *TypeAlias) String() string       { return Print(ta) }

func (u *Use) NodePos() Position    { return u.Pos }
func (u *Use) NodeEndPos() Position { return u.EndPos }
func (*Use) NodeType() NodeType     { return USE }
func (u *Use) String() string       { return Print(u) }

func (md *ModDecl) NodePos() Position    { return md.Pos }
func (md *ModDecl) NodeEndPos() Position { return md.EndPos }
func (*ModDecl) NodeType() NodeType      { return MOD_DECL }
func (md *ModDecl) String() string       { return Print(md) }

func (mi *MacroItem) NodePos() Position    { return mi.Pos }
func (mi *MacroItem) NodeEndPos() Position { return mi.EndPos }
func (*MacroItem) NodeType() NodeType      { return MACRO_ITEM }
func (mi *MacroItem) String() string       { return Print(mi) }

func (bi *BadItem) NodePos() Position    { return bi.Bad.Pos }
func (bi *BadItem) NodeEndPos() Position { return bi.Bad.EndPos }
func (*BadItem) NodeType() NodeType      { return BAD_ITEM }
func (bi *BadItem) String() string       { return Print(bi) }

func (b *Block) NodePos() Position    { return b.Pos }
func (b *Block) NodeEndPos() Position { return b.EndPos }
func (*Block) NodeType() NodeType     { return BLOCK }
func (b *Block) String() string       { return Print(b) }

func (ls *LetStmt) NodePos() Position    { return ls.Pos }
func (ls *LetStmt) NodeEndPos() Position { return ls.EndPos }
func (*LetStmt) NodeType() NodeType      { return LET_STMT }
func (ls *LetStmt) String() string       { return Print(ls) }

func (ast *AssignStmt) NodePos() Position    { return ast.Pos }
func (ast *AssignStmt) NodeEndPos() Position { return ast.EndPos }
func (*AssignStmt) NodeType() NodeType       { return ASSIGN_STMT }
func (ast *AssignStmt) String() string       { return Print(ast) }

func (es *ExprStmt) NodePos() Position    { return es.Pos }
func (es *ExprStmt) NodeEndPos() Position { return es.EndPos }
func (*ExprStmt) NodeType() NodeType      { return EXPR_STMT }
func (es *ExprStmt) String() string       { return Print(es) }

func (rs *ReturnStmt) NodePos() Position    { return rs.Pos }
func (rs *ReturnStmt) NodeEndPos() Position { return rs.EndPos }
func (*ReturnStmt) NodeType() NodeType      { return RETURN_STMT }
func (rs *ReturnStmt) String() string       { return Print(rs) }

func (bs *BreakStmt) NodePos() Position    { return bs.Pos }
func (bs *BreakStmt) NodeEndPos() Position { return bs.EndPos }
func (*BreakStmt) NodeType() NodeType      { return BREAK_STMT }
func (bs *BreakStmt) String() string       { return Print(bs) }

func (cs *ContinueStmt) NodePos() Position    { return cs.Pos }
func (cs *ContinueStmt) NodeEndPos() Position { return cs.EndPos }
func (*ContinueStmt) NodeType() NodeType      { return CONTINUE_STMT }
func (cs *ContinueStmt) String() string       { return Print(cs) }

func (ist *ItemStmt) NodePos() Position    { return ist.Pos }
func (ist *ItemStmt) NodeEndPos() Position { return ist.EndPos }
func (*ItemStmt) NodeType() NodeType       { return ITEM_STMT }
func (ist *ItemStmt) String() string       { return Print(ist) }

func (be *BadExpr) NodePos() Position    { return be.Bad.Pos }
func (be *BadExpr) NodeEndPos() Position { return be.Bad.EndPos }
func (*BadExpr) NodeType() NodeType      { return BAD_EXPR }
func (be *BadExpr) String() string       { return Print(be) }

func (le *LiteralExpr) NodePos() Position    { return le.Pos }
func (le *LiteralExpr) NodeEndPos() Position { return le.EndPos }
func (*LiteralExpr) NodeType() NodeType      { return LITERAL_EXPR }
func (le *LiteralExpr) String() string       { return Print(le) }

func (ist *InterpolatedString) NodePos() Position    { return ist.Pos }
func (ist *InterpolatedString) NodeEndPos() Position { return ist.EndPos }
func (*InterpolatedString) NodeType() NodeType       { return INTERPOLATED_STRING }
func (ist *InterpolatedString) String() string       { return Print(ist) }

func (ie *IdentExpr) NodePos() Position    { return ie.Pos }
func (ie *IdentExpr) NodeEndPos() Position { return ie.EndPos }
func (*IdentExpr) NodeType() NodeType      { return IDENT_EXPR }
func (ie *IdentExpr) String() string       { return Print(ie) }

func (pe *PathExpr) NodePos() Position    { return pe.Pos }
func (pe *PathExpr) NodeEndPos() Position { return pe.EndPos }
func (*PathExpr) NodeType() NodeType      { return PATH_EXPR }
func (pe *PathExpr) String() string       { return Print(pe) }

func (be *BinaryExpr) NodePos() Position    { return be.Pos }
func (be *BinaryExpr) NodeEndPos() Position { return be.EndPos }
func (*BinaryExpr) NodeType() NodeType      { return BINARY_EXPR }
func (be *BinaryExpr) String() string       { return Print(be) }

func (ue *UnaryExpr) NodePos() Position    { return ue.Pos }
func (ue *UnaryExpr) NodeEndPos() Position { return ue.EndPos }
func (*UnaryExpr) NodeType() NodeType      { return UNARY_EXPR }
func (ue *UnaryExpr) String() string       { return Print(ue) }

func (a *Arg) NodePos() Position    { return a.Pos }
func (a *Arg) NodeEndPos() Position { return a.EndPos }
func (*Arg) NodeType() NodeType     { return ARG }
func (a *Arg) String() string       { return Print(a) }

func (ce *CallExpr) NodePos() Position    { return ce.Pos }
func (ce *CallExpr) NodeEndPos() Position { return ce.EndPos }
func (*CallExpr) NodeType() NodeType      { return CALL_EXPR }
func (ce *CallExpr) String() string       { return Print(ce) }

func (mc *MethodCallExpr) NodePos() Position    { return mc.Pos }
func (mc *MethodCallExpr) NodeEndPos() Position { return mc.EndPos }
func (*MethodCallExpr) NodeType() NodeType      { return METHOD_CALL_EXPR }
func (mc *MethodCallExpr) String() string       { return Print(mc) }

func (fa *FieldAccessExpr) NodePos() Position    { return fa.Pos }
func (fa *FieldAccessExpr) NodeEndPos() Position { return fa.EndPos }
func (*FieldAccessExpr) NodeType() NodeType      { return FIELD_ACCESS_EXPR }
func (fa *FieldAccessExpr) String() string       { return Print(fa) }

func (ie *IndexExpr) NodePos() Position    { return ie.Pos }
func (ie *IndexExpr) NodeEndPos() Position { return ie.EndPos }
func (*IndexExpr) NodeType() NodeType      { return INDEX_EXPR }
func (ie *IndexExpr) String() string       { return Print(ie) }

func (be *BlockExpr) NodePos() Position    { return be.Pos }
func (be *BlockExpr) NodeEndPos() Position { return be.EndPos }
func (*BlockExpr) NodeType() NodeType      { return BLOCK_EXPR }
func (be *BlockExpr) String() string       { return Print(be) }

func (ie *IfExpr) NodePos() Position    { return ie.Pos }
func (ie *IfExpr) NodeEndPos() Position { return ie.EndPos }
func (*IfExpr) NodeType() NodeType      { return IF_EXPR }
func (ie *IfExpr) String() string       { return Print(ie) }

func (ma *MatchArm) NodePos() Position    { return ma.Pos }
func (ma *MatchArm) NodeEndPos() Position { return ma.EndPos }
func (*MatchArm) NodeType() NodeType      { return MATCH_ARM }
func (ma *MatchArm) String() string       { return Print(ma) }

func (me *MatchExpr) NodePos() Position    { return me.Pos }
func (me *MatchExpr) NodeEndPos() Position { return me.EndPos }
func (*MatchExpr) NodeType() NodeType      { return MATCH_EXPR }
func (me *MatchExpr) String() string       { return Print(me) }

func (fe *ForExpr) NodePos() Position    { return fe.Pos }
func (fe *ForExpr) NodeEndPos() Position { return fe.EndPos }
func (*ForExpr) NodeType() NodeType      { return FOR_EXPR }
func (fe *ForExpr) String() string       { return Print(fe) }

func (we *WhileExpr) NodePos() Position    { return we.Pos }
func (we *WhileExpr) NodeEndPos() Position { return we.EndPos }
func (*WhileExpr) NodeType() NodeType      { return WHILE_EXPR }
func (we *WhileExpr) String() string       { return Print(we) }

func (le *LoopExpr) NodePos() Position    { return le.Pos }
func (le *LoopExpr) NodeEndPos() Position { return le.EndPos }
func (*LoopExpr) NodeType() NodeType      { return LOOP_EXPR }
func (le *LoopExpr) String() string       { return Print(le) }

func (cp *ClosureParam) NodePos() Position    { return cp.Pos }
func (cp *ClosureParam) NodeEndPos() Position { return cp.EndPos }
func (*ClosureParam) NodeType() NodeType      { return CLOSURE_PARAM }
func (cp *ClosureParam) String() string       { return Print(cp) }

func (ce *ClosureExpr) NodePos() Position    { return ce.Pos }
func (ce *ClosureExpr) NodeEndPos() Position { return ce.EndPos }
func (*ClosureExpr) NodeType() NodeType      { return CLOSURE_EXPR }
func (ce *ClosureExpr) String() string       { return Print(ce) }

func (te *TupleExpr) NodePos() Position    { return te.Pos }
func (te *TupleExpr) NodeEndPos() Position { return te.EndPos }
func (*TupleExpr) NodeType() NodeType      { return TUPLE_EXPR }
func (te *TupleExpr) String() string       { return Print(te) }

func (ae *ArrayExpr) NodePos() Position    { return ae.Pos }
func (ae *ArrayExpr) NodeEndPos() Position { return ae.EndPos }
func (*ArrayExpr) NodeType() NodeType      { return ARRAY_EXPR }
func (ae *ArrayExpr) String() string       { return Print(ae) }

func (me *MapEntry) NodePos() Position    { return me.Pos }
func (me *MapEntry) NodeEndPos() Position { return me.EndPos }
func (*MapEntry) NodeType() NodeType      { return MAP_ENTRY }
func (me *MapEntry) String() string       { return Print(me) }

func (me *MapExpr) NodePos() Position    { return me.Pos }
func (me *MapExpr) NodeEndPos() Position { return me.EndPos }
func (*MapExpr) NodeType() NodeType      { return MAP_EXPR }
func (me *MapExpr) String() string       { return Print(me) }

func (fi *FieldInit) NodePos() Position    { return fi.Pos }
func (fi *FieldInit) NodeEndPos() Position { return fi.EndPos }
func (*FieldInit) NodeType() NodeType      { return FIELD_INIT }
func (fi *FieldInit) String() string       { return Print(fi) }

func (sl *StructLiteralExpr) NodePos() Position    { return sl.Pos }
func (sl *StructLiteralExpr) NodeEndPos() Position { return sl.EndPos }
func (*StructLiteralExpr) NodeType() NodeType      { return STRUCT_LITERAL_EXPR }
func (sl *StructLiteralExpr) String() string       { return Print(sl) }

func (re *RangeExpr) NodePos() Position    { return re.Pos }
func (re *RangeExpr) NodeEndPos() Position { return re.EndPos }
func (*RangeExpr) NodeType() NodeType      { return RANGE_EXPR }
func (re *RangeExpr) String() string       { return Print(re) }

func (ce *CastExpr) NodePos() Position    { return ce.Pos }
func (ce *CastExpr) NodeEndPos() Position { return ce.EndPos }
func (*CastExpr) NodeType() NodeType      { return CAST_EXPR }
func (ce *CastExpr) String() string       { return Print(ce) }

func (pe *PipeExpr) NodePos() Position    { return pe.Pos }
func (pe *PipeExpr) NodeEndPos() Position { return pe.EndPos }
func (*PipeExpr) NodeType() NodeType      { return PIPE_EXPR }
func (pe *PipeExpr) String() string       { return Print(pe) }

func (me *MacroExpr) NodePos() Position    { return me.Pos }
func (me *MacroExpr) NodeEndPos() Position { return me.EndPos }
func (*MacroExpr) NodeType() NodeType      { return MACRO_EXPR }
func (me *MacroExpr) String() string       { return Print(me) }

func (te *TryExpr) NodePos() Position    { return te.Pos }
func (te *TryExpr) NodeEndPos() Position { return te.EndPos }
func (*TryExpr) NodeType() NodeType      { return TRY_EXPR }
func (te *TryExpr) String() string       { return Print(te) }

func (ae *AwaitExpr) NodePos() Position    { return ae.Pos }
func (ae *AwaitExpr) NodeEndPos() Position { return ae.EndPos }
func (*AwaitExpr) NodeType() NodeType      { return AWAIT_EXPR }
func (ae *AwaitExpr) String() string       { return Print(ae) }

func (pe *ParenExpr) NodePos() Position    { return pe.Pos }
func (pe *ParenExpr) NodeEndPos() Position { return pe.EndPos }
func (*ParenExpr) NodeType() NodeType      { return PAREN_EXPR }
func (pe *ParenExpr) String() string       { return Print(pe) }

func (ge *GoExpr) NodePos() Position    { return ge.Pos }
func (ge *GoExpr) NodeEndPos() Position { return ge.EndPos }
func (*GoExpr) NodeType() NodeType      { return GO_EXPR }
func (ge *GoExpr) String() string       { return Print(ge) }

func (wp *WildcardPattern) NodePos() Position    { return wp.Pos }
func (wp *WildcardPattern) NodeEndPos() Position { return wp.EndPos }
func (*WildcardPattern) NodeType() NodeType      { return WILDCARD_PATTERN }
func (wp *WildcardPattern) String() string       { return Print(wp) }

func (ip *IdentPattern) NodePos() Position    { return ip.Pos }
func (ip *IdentPattern) NodeEndPos() Position { return ip.EndPos }
func (*IdentPattern) NodeType() NodeType      { return IDENT_PATTERN }
func (ip *IdentPattern) String() string       { return Print(ip) }

func (lp *LiteralPattern) NodePos() Position    { return lp.Pos }
func (lp *LiteralPattern) NodeEndPos() Position { return lp.EndPos }
func (*LiteralPattern) NodeType() NodeType      { return LITERAL_PATTERN }
func (lp *LiteralPattern) String() string       { return Print(lp) }

func (tp *TuplePattern) NodePos() Position    { return tp.Pos }
func (tp *TuplePattern) NodeEndPos() Position { return tp.EndPos }
func (*TuplePattern) NodeType() NodeType      { return TUPLE_PATTERN }
func (tp *TuplePattern) String() string       { return Print(tp) }

func (fp *FieldPattern) NodePos() Position    { return fp.Pos }
func (fp *FieldPattern) NodeEndPos() Position { return fp.EndPos }
func (*FieldPattern) NodeType() NodeType      { return FIELD_PATTERN }
func (fp *FieldPattern) String() string       { return Print(fp) }

func (ep *EnumPattern) NodePos() Position    { return ep.Pos }
func (ep *EnumPattern) NodeEndPos() Position { return ep.EndPos }
func (*EnumPattern) NodeType() NodeType      { return ENUM_PATTERN }
func (ep *EnumPattern) String() string       { return Print(ep) }

func (op *OrPattern) NodePos() Position    { return op.Pos }
func (op *OrPattern) NodeEndPos() Position { return op.EndPos }
func (*OrPattern) NodeType() NodeType      { return OR_PATTERN }
func (op *OrPattern) String() string       { return Print(op) }

func (rp *RefPattern) NodePos() Position    { return rp.Pos }
func (rp *RefPattern) NodeEndPos() Position { return rp.EndPos }
func (*RefPattern) NodeType() NodeType      { return REF_PATTERN }
func (rp *RefPattern) String() string       { return Print(rp) }

func (rp *RangePattern) NodePos() Position    { return rp.Pos }
func (rp *RangePattern) NodeEndPos() Position { return rp.EndPos }
func (*RangePattern) NodeType() NodeType      { return RANGE_PATTERN }
func (rp *RangePattern) String() string       { return Print(rp) }

func (pt *PrimitiveType) NodePos() Position    { return pt.Pos }
func (pt *PrimitiveType) NodeEndPos() Position { return pt.EndPos }
func (*PrimitiveType) NodeType() NodeType      { return PRIMITIVE_TYPE }
func (pt *PrimitiveType) String() string       { return Print(pt) }

func (nt *NamedType) NodePos() Position    { return nt.Pos }
func (nt *NamedType) NodeEndPos() Position { return nt.EndPos }
func (*NamedType) NodeType() NodeType      { return NAMED_TYPE }
func (nt *NamedType) String() string       { return Print(nt) }

func (tt *TupleType) NodePos() Position    { return tt.Pos }
func (tt *TupleType) NodeEndPos() Position { return tt.EndPos }
func (*TupleType) NodeType() NodeType      { return TUPLE_TYPE }
func (tt *TupleType) String() string       { return Print(tt) }

func (at *ArrayType) NodePos() Position    { return at.Pos }
func (at *ArrayType) NodeEndPos() Position { return at.EndPos }
func (*ArrayType) NodeType() NodeType      { return ARRAY_TYPE }
func (at *ArrayType) String() string       { return Print(at) }

func (st *SliceType) NodePos() Position    { return st.Pos }
func (st *SliceType) NodeEndPos() Position { return st.EndPos }
func (*SliceType) NodeType() NodeType      { return SLICE_TYPE }
func (st *SliceType) String() string       { return Print(st) }

func (ft *FuncType) NodePos() Position    { return ft.Pos }
func (ft *FuncType) NodeEndPos() Position { return ft.EndPos }
func (*FuncType) NodeType() NodeType      { return FUNC_TYPE }
func (ft *FuncType) String() string       { return Print(ft) }

func (rt *RefType) NodePos() Position    { return rt.Pos }
func (rt *RefType) NodeEndPos() Position { return rt.EndPos }
func (*RefType) NodeType() NodeType      { return REF_TYPE }
func (rt *RefType) String() string       { return Print(rt) }

func (it *InferType) NodePos() Position    { return it.Pos }
func (it *InferType) NodeEndPos() Position { return it.EndPos }
func (*InferType) NodeType() NodeType      { return INFER_TYPE }
func (it *InferType) String() string       { return Print(it) }
