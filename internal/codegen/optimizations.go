// Package codegen holds what the backends share: the peephole pipeline run
// while printing.
package codegen

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/semantic"
)

// Peephole rewrites run while the tree is printed. A pass looks at one node
// and returns a replacement built from the node's original children, or nil
// when it does not apply. Replacements remember the node they came from so
// side-table lookups keep working.

// OptimizationPass represents a single rewrite applied during printing
type OptimizationPass interface {
	Name() string
	Description() string
	Apply(node ast.Node, ctx *PassContext) ast.Node
}

// PassContext gives passes read access to inference results
type PassContext struct {
	Info    *semantic.Info
	origins map[ast.Node]ast.Node
}

// Derive records that replacement stands in for original
func (c *PassContext) Derive(replacement, original ast.Node) ast.Node {
	c.origins[replacement] = original
	return replacement
}

// Origin follows replacements back to the node the parser produced
func (c *PassContext) Origin(n ast.Node) ast.Node {
	for {
		prev, ok := c.origins[n]
		if !ok {
			return n
		}
		n = prev
	}
}

// PassStat reports how often a pass rewrote a node
type PassStat struct {
	Name        string
	Description string
	Applied     int
}

// OptimizationPipeline manages the sequence of optimization passes
type OptimizationPipeline struct {
	passes  []OptimizationPass
	applied map[string]int
	ctx     *PassContext
}

// NewOptimizationPipeline creates a new optimization pipeline with default passes
func NewOptimizationPipeline() *OptimizationPipeline {
	pipeline := &OptimizationPipeline{}

	pipeline.AddPass(&CompoundAssignFolding{})
	pipeline.AddPass(&FieldShorthand{})
	pipeline.AddPass(&PipeFlattening{})
	pipeline.AddPass(&UnusedLetPrefix{})

	return pipeline
}

// NewPipeline returns the default pipeline for nil passes and a pipeline of
// exactly the given passes otherwise
func NewPipeline(passes []OptimizationPass) *OptimizationPipeline {
	if passes == nil {
		return NewOptimizationPipeline()
	}
	pipeline := &OptimizationPipeline{}
	for _, p := range passes {
		pipeline.AddPass(p)
	}
	return pipeline
}

// DefaultPasses returns the passes of the default pipeline
func DefaultPasses() []OptimizationPass {
	return NewOptimizationPipeline().passes
}

// AddPass adds an optimization pass to the pipeline
func (p *OptimizationPipeline) AddPass(pass OptimizationPass) {
	p.passes = append(p.passes, pass)
}

// Bind resets the rewrite counts and attaches the inference results of a unit
func (p *OptimizationPipeline) Bind(info *semantic.Info) {
	p.ctx = &PassContext{Info: info, origins: make(map[ast.Node]ast.Node)}
	p.applied = make(map[string]int)
}

// Rewrite runs every pass over node in order, feeding each the previous result
func (p *OptimizationPipeline) Rewrite(node ast.Node) ast.Node {
	if p.ctx == nil {
		p.Bind(nil)
	}
	for _, pass := range p.passes {
		if out := pass.Apply(node, p.ctx); out != nil {
			p.applied[pass.Name()]++
			node = out
		}
	}
	return node
}

// Derive records a replacement built by a backend outside the passes
func (p *OptimizationPipeline) Derive(replacement, original ast.Node) ast.Node {
	if p.ctx == nil {
		p.Bind(nil)
	}
	return p.ctx.Derive(replacement, original)
}

// Origin returns the parsed node a printed node was derived from
func (p *OptimizationPipeline) Origin(n ast.Node) ast.Node {
	if p.ctx == nil {
		return n
	}
	return p.ctx.Origin(n)
}

// Stats lists every pass in pipeline order with its rewrite count
func (p *OptimizationPipeline) Stats() []PassStat {
	stats := make([]PassStat, len(p.passes))
	for i, pass := range p.passes {
		stats[i] = PassStat{Name: pass.Name(), Description: pass.Description(), Applied: p.applied[pass.Name()]}
	}
	return stats
}

// CompoundAssignFolding turns "x = x op y" into "x op= y"
type CompoundAssignFolding struct{}

func (cf *CompoundAssignFolding) Name() string {
	return "Compound Assign Folding"
}

func (cf *CompoundAssignFolding) Description() string {
	return "Rewrites self-referencing assignments into compound assignments"
}

func (cf *CompoundAssignFolding) Apply(node ast.Node, ctx *PassContext) ast.Node {
	assign, ok := node.(*ast.AssignStmt)
	if !ok || assign.Operator != ast.ASSIGN {
		return nil
	}
	bin, ok := assign.Value.(*ast.BinaryExpr)
	if !ok {
		return nil
	}
	op, ok := ast.CompoundAssignFor(bin.Op)
	if !ok {
		return nil
	}
	if !stablePlace(assign.Target) || ast.Print(assign.Target) != ast.Print(bin.Left) {
		return nil
	}
	if ctx.Info != nil {
		if ctx.Info.CoercionOf(bin.Left) != semantic.NoCoercion || ctx.Info.CoercionOf(assign.Value) != semantic.NoCoercion {
			return nil
		}
		if derefed(ctx.Info, assign.Target) != derefed(ctx.Info, bin.Left) {
			return nil
		}
		// owned strings only grow by borrowed text
		if ctx.Info.TypeOf(bin.Left).IsString() {
			if lit, isLit := bin.Right.(*ast.LiteralExpr); !isLit || lit.Kind != ast.StringLiteral || op != ast.PLUS_ASSIGN {
				return nil
			}
		}
	}
	return ctx.Derive(&ast.AssignStmt{
		Pos:      assign.Pos,
		EndPos:   assign.EndPos,
		Target:   assign.Target,
		Operator: op,
		Value:    bin.Right,
	}, assign)
}

// stablePlace reports whether evaluating e twice reads the same location
func stablePlace(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.IdentExpr:
		return true
	case *ast.FieldAccessExpr:
		return stablePlace(e.Target)
	case *ast.IndexExpr:
		switch e.Index.(type) {
		case *ast.IdentExpr, *ast.LiteralExpr:
			return stablePlace(e.Target)
		}
	case *ast.UnaryExpr:
		return e.Op == "*" && stablePlace(e.Value)
	}
	return false
}

func derefed(info *semantic.Info, e ast.Expr) bool {
	id, ok := e.(*ast.IdentExpr)
	return ok && info.Derefs[id]
}

// FieldShorthand prints "S { x: x }" as "S { x }"
type FieldShorthand struct{}

func (fs *FieldShorthand) Name() string {
	return "Field Shorthand"
}

func (fs *FieldShorthand) Description() string {
	return "Drops field initializers that repeat the field name"
}

func (fs *FieldShorthand) Apply(node ast.Node, ctx *PassContext) ast.Node {
	init, ok := node.(*ast.FieldInit)
	if !ok || init.Value == nil {
		return nil
	}
	id, ok := init.Value.(*ast.IdentExpr)
	if !ok || id.Name != init.Name.Value {
		return nil
	}
	if ctx.Info != nil && (ctx.Info.CoercionOf(id) != semantic.NoCoercion || ctx.Info.Derefs[id]) {
		return nil
	}
	return ctx.Derive(&ast.FieldInit{Pos: init.Pos, EndPos: init.EndPos, Name: init.Name}, init)
}

// PipeFlattening prints "a |> f |> g" as "g(f(a))"
type PipeFlattening struct{}

func (pf *PipeFlattening) Name() string {
	return "Pipe Flattening"
}

func (pf *PipeFlattening) Description() string {
	return "Rewrites pipe chains into nested calls"
}

func (pf *PipeFlattening) Apply(node ast.Node, ctx *PassContext) ast.Node {
	pipe, ok := node.(*ast.PipeExpr)
	if !ok {
		return nil
	}
	return ctx.Derive(PipeCall(pipe), pipe)
}

// PipeCall builds the call a pipe stands for: the left value becomes the first argument
func PipeCall(pipe *ast.PipeExpr) *ast.CallExpr {
	first := &ast.Arg{Pos: pipe.Left.NodePos(), EndPos: pipe.Left.NodeEndPos(), Value: pipe.Left}
	call := &ast.CallExpr{Pos: pipe.Pos, EndPos: pipe.EndPos}

	switch right := pipe.Right.(type) {
	case *ast.IdentExpr, *ast.PathExpr:
		call.Callee = right
		call.Args = []*ast.Arg{first}
	case *ast.CallExpr:
		call.Callee = right.Callee
		call.TypeArgs = right.TypeArgs
		call.Args = append([]*ast.Arg{first}, right.Args...)
	case *ast.FieldAccessExpr:
		if module, isIdent := right.Target.(*ast.IdentExpr); isIdent {
			call.Callee = &ast.PathExpr{
				Pos:    right.Pos,
				EndPos: right.EndPos,
				Segments: []ast.Ident{
					{Pos: module.Pos, EndPos: module.EndPos, Value: module.Name},
					right.Field,
				},
			}
		} else {
			call.Callee = &ast.ParenExpr{Pos: right.Pos, EndPos: right.EndPos, Value: right}
		}
		call.Args = []*ast.Arg{first}
	default:
		call.Callee = &ast.ParenExpr{Pos: right.NodePos(), EndPos: right.NodeEndPos(), Value: right}
		call.Args = []*ast.Arg{first}
	}
	return call
}

// UnusedLetPrefix renames bindings nothing reads to "_name"
type UnusedLetPrefix struct{}

func (up *UnusedLetPrefix) Name() string {
	return "Unused Let Prefix"
}

func (up *UnusedLetPrefix) Description() string {
	return "Prefixes never-read let bindings with an underscore"
}

func (up *UnusedLetPrefix) Apply(node ast.Node, ctx *PassContext) ast.Node {
	let, ok := node.(*ast.LetStmt)
	if !ok || !let.Unused {
		return nil
	}
	id, ok := let.Pattern.(*ast.IdentPattern)
	if !ok || strings.HasPrefix(id.Name.Value, "_") {
		return nil
	}
	renamed := *let
	renamed.Pattern = &ast.IdentPattern{
		Pos:     id.Pos,
		EndPos:  id.EndPos,
		Name:    ast.Ident{Pos: id.Name.Pos, EndPos: id.Name.EndPos, Value: "_" + id.Name.Value},
		Mutable: id.Mutable,
	}
	return ctx.Derive(&renamed, let)
}
