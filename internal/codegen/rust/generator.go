// Package rust emits systems-backend source from an analysed program.
package rust

import (
	"fmt"
	"sort"
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/builtins"
	"windjammer/internal/codegen"
	"windjammer/internal/decorators"
	"windjammer/internal/errors"
	"windjammer/internal/semantic"
	"windjammer/internal/stdlib"
)

const indentUnit = "    "

// Options select how a translation unit is printed
type Options struct {
	Target decorators.Target

	// Module marks a file compiled as part of a multi-file crate; its items
	// are printed public so sibling modules can reach them
	Module bool

	// Passes replaces the default peephole pipeline; an empty, non-nil slice
	// disables rewriting
	Passes []codegen.OptimizationPass
}

// Generator prints one analysed program. It never mutates the tree; rewrites
// build new nodes from the original children.
type Generator struct {
	info     *semantic.Info
	lowered  *decorators.Lowered
	opts     Options
	pipeline *codegen.OptimizationPipeline

	indent int
	out    *strings.Builder

	fn          *ast.Function // function whose body is printed
	uses        map[string]bool
	diagnostics []errors.CompilerError
}

// NewGenerator creates a generator over the side tables of one unit
func NewGenerator(info *semantic.Info, lowered *decorators.Lowered, opts Options) *Generator {
	if lowered == nil {
		lowered = &decorators.Lowered{Target: opts.Target}
	}
	return &Generator{
		info:     info,
		lowered:  lowered,
		opts:     opts,
		pipeline: codegen.NewPipeline(opts.Passes),
		uses:     make(map[string]bool),
		out:      &strings.Builder{},
	}
}

// Pipeline returns the peephole pipeline, with its rewrite counts
func (g *Generator) Pipeline() *codegen.OptimizationPipeline {
	return g.pipeline
}

// Diagnostics returns the internal errors raised while printing
func (g *Generator) Diagnostics() []errors.CompilerError {
	return g.diagnostics
}

// Generate prints the program. Items are emitted in source order; an item the
// generator cannot print is replaced by a comment and reported as E0900.
func (g *Generator) Generate(program *ast.Program) string {
	g.pipeline.Bind(g.info)
	g.uses = make(map[string]bool)
	g.diagnostics = nil

	var items []string
	explicit := make(map[string]bool)
	for _, item := range program.Items {
		if use, ok := item.(*ast.Use); ok {
			if line := g.useLine(use); line != "" {
				explicit[line] = true
			}
		}
		if text := g.emitItem(item); text != "" {
			items = append(items, text)
		}
	}

	var b strings.Builder
	if g.isWASM() {
		g.require("wasm_bindgen::prelude::*")
	}
	if header := g.header(explicit); header != "" {
		b.WriteString(header)
		b.WriteString("\n")
	}
	b.WriteString(joinItems(items))
	return b.String()
}

// joinItems separates items by a blank line, keeping runs of use lines together
func joinItems(items []string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			prevUse := strings.HasPrefix(items[i-1], "use ") || strings.HasPrefix(items[i-1], "pub use ")
			curUse := strings.HasPrefix(it, "use ") || strings.HasPrefix(it, "pub use ")
			prevMod := strings.HasPrefix(items[i-1], "mod ") || strings.HasPrefix(items[i-1], "pub mod ")
			curMod := strings.HasPrefix(it, "mod ") || strings.HasPrefix(it, "pub mod ")
			if !(prevUse && curUse) && !(prevMod && curMod) {
				b.WriteString("\n")
			}
		}
		b.WriteString(it)
	}
	return b.String()
}

// emitError aborts printing of the current item
type emitError struct {
	message string
	pos     ast.Position
}

func (g *Generator) fail(n ast.Node, format string, args ...interface{}) {
	pos := ast.Position{}
	if n != nil {
		pos = n.NodePos()
	}
	panic(emitError{message: fmt.Sprintf(format, args...), pos: pos})
}

func (g *Generator) emitItem(item ast.Item) (text string) {
	g.indent = 0
	g.fn = nil
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(emitError)
			if !ok {
				panic(r)
			}
			name := itemName(item)
			g.diagnostics = append(g.diagnostics, errors.Internal(name, e.message, e.pos))
			text = fmt.Sprintf("// error: could not emit %s: %s\n", name, e.message)
		}
	}()
	return g.capture(func() { g.item(item) })
}

// capture returns what fn writes instead of appending it to the current output
func (g *Generator) capture(fn func()) string {
	prev := g.out
	b := &strings.Builder{}
	g.out = b
	defer func() { g.out = prev }()
	fn()
	return b.String()
}

func itemName(item ast.Item) string {
	switch n := item.(type) {
	case *ast.Function:
		return "fn " + n.Name.Value
	case *ast.Struct:
		return "struct " + n.Name.Value
	case *ast.Enum:
		return "enum " + n.Name.Value
	case *ast.Trait:
		return "trait " + n.Name.Value
	case *ast.Impl:
		return "impl " + ast.Print(n.Target)
	case *ast.Const:
		return "const " + n.Name.Value
	case *ast.Static:
		return "static " + n.Name.Value
	}
	return "item"
}

// header returns the use lines the printed items need but the source did not import
func (g *Generator) header(explicit map[string]bool) string {
	var lines []string
	for line := range g.uses {
		if !explicit[line] {
			lines = append(lines, line)
		}
	}
	sort.Strings(lines)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// require records an implicit import
func (g *Generator) require(path string) {
	g.uses["use "+path+";"] = true
}

func (g *Generator) requireType(name string) {
	if path, ok := builtins.CollectionImports[name]; ok {
		g.require(path)
	}
}

// Helper methods

func (g *Generator) indentString() string {
	return strings.Repeat(indentUnit, g.indent)
}

func (g *Generator) writeIndent() {
	g.out.WriteString(g.indentString())
}

func (g *Generator) writeLine(format string, args ...interface{}) {
	g.writeIndent()
	g.out.WriteString(fmt.Sprintf(format, args...))
	g.out.WriteString("\n")
}

func (g *Generator) write(s string) {
	g.out.WriteString(s)
}

func (g *Generator) public(declared bool) string {
	if declared || g.opts.Module {
		return "pub "
	}
	return ""
}

// useLine translates a use item; std modules map to the crates implementing them
func (g *Generator) useLine(use *ast.Use) string {
	if len(use.Path) == 0 {
		return ""
	}
	segments := make([]string, len(use.Path))
	for i, seg := range use.Path {
		segments[i] = seg.Value
	}

	var path string
	if segments[0] == "std" {
		path = g.stdPath(segments)
		if path == "" {
			return ""
		}
	} else {
		switch segments[0] {
		case "crate", "self", "super":
		default:
			segments = append([]string{"crate"}, segments...)
		}
		path = strings.Join(segments, "::")
	}

	switch {
	case len(use.Group) > 0:
		names := make([]string, len(use.Group))
		for i, n := range use.Group {
			names[i] = n.Value
		}
		path += "::{" + strings.Join(names, ", ") + "}"
	case use.Glob:
		path += "::*"
	}
	if use.Alias != nil {
		path += " as " + use.Alias.Value
	}
	prefix := ""
	if use.Public {
		prefix = "pub "
	}
	return prefix + "use " + path + ";"
}

// stdPath maps "std.fs" and "std.fs.read" onto the backend path of the module
func (g *Generator) stdPath(segments []string) string {
	for n := len(segments); n >= 2; n-- {
		def := stdlib.GetModuleDefinition(strings.Join(segments[:n], "."))
		if def == nil {
			continue
		}
		rest := segments[n:]
		if def.RustUse == "" {
			return ""
		}
		return strings.Join(append([]string{def.RustUse}, rest...), "::")
	}
	return strings.Join(segments, "::")
}
