// Package build drives a compilation from source files to target artifacts.
package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"windjammer/internal/ast"
	"windjammer/internal/config"
	"windjammer/internal/decorators"
	"windjammer/internal/errors"
	"windjammer/internal/modules"
	"windjammer/internal/parser"
	"windjammer/internal/semantic"
)

// Options control one build
type Options struct {
	Config *config.Config

	// NoCargo skips the cargo build of systems and wasm crates
	NoCargo bool

	// RuntimePath overrides where generated crates find the runtime crate
	RuntimePath string

	// Display shows progress; nil builds silently
	Display *Display

	// Cargo runs the backend build; defaults to invoking cargo
	Cargo CargoRunner
}

// Artifact is one generated file, its path relative to the output directory
type Artifact struct {
	Path    string
	Content []byte
}

// Result is the outcome of a build
type Result struct {
	Diagnostics *errors.Diagnostics

	// Sources maps file paths to their content, for rendering diagnostics
	Sources map[string]string

	// Artifacts lists generated files in the order they were written
	Artifacts []Artifact

	// Output is the directory artifacts were written to
	Output string

	// CargoRan reports whether the backend build was invoked
	CargoRan bool
}

// Succeeded reports whether the build produced no errors
func (r *Result) Succeeded() bool {
	return !r.Diagnostics.HasErrors()
}

// unit is one source file moving through the pipeline
type unit struct {
	file    *modules.File // nil for single-file builds
	path    string
	source  string
	program *ast.Program
	info    *semantic.Info
	lowered *decorators.Lowered
}

// project is the set of units of a build
type project struct {
	root  string
	tree  *modules.Tree // nil for single-file builds
	units []*unit
}

// Build compiles the file or directory at input. Go errors report I/O
// failures; problems in the sources are returned as diagnostics.
func Build(input string, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(input); err != nil {
			return nil, err
		}
	}

	d := opts.Display
	d.Header(cfg.Name, cfg.Target.String())

	res := &Result{
		Diagnostics: &errors.Diagnostics{},
		Sources:     make(map[string]string),
		Output:      cfg.Output,
	}

	d.BeginPhase(PhaseParsing)
	proj, err := load(input, res)
	if err != nil {
		d.EndPhase(false)
		return nil, err
	}
	syntaxFailed := res.Diagnostics.HasErrors()
	d.EndPhase(!syntaxFailed)
	if syntaxFailed {
		d.Finished(false, res.Diagnostics.Summary())
		return res, nil
	}

	d.BeginPhase(PhaseAnalyzing)
	analyze(proj, res.Diagnostics)
	d.EndPhase(true)

	d.BeginPhase(PhaseLowering)
	for _, u := range proj.units {
		u.lowered = decorators.Lower(u.program, cfg.Target)
	}
	d.EndPhase(true)

	d.BeginPhase(PhaseEmitting)
	var artifacts []Artifact
	if cfg.Target == decorators.Script {
		artifacts, err = emitScript(proj, cfg, res.Diagnostics)
	} else {
		artifacts, err = emitCrate(proj, cfg, opts.RuntimePath, res.Diagnostics)
	}
	if err != nil {
		d.EndPhase(false)
		return nil, err
	}
	d.EndPhase(true)

	d.BeginPhase(PhaseWriting)
	if err := write(cfg.Output, artifacts); err != nil {
		d.EndPhase(false)
		return nil, err
	}
	res.Artifacts = artifacts
	d.EndPhase(true)

	if cfg.Target.IsRust() && !opts.NoCargo && !res.Diagnostics.HasErrors() {
		runner := opts.Cargo
		if runner == nil {
			runner = ExecCargo
		}
		d.BeginPhase(PhaseCargo)
		res.CargoRan = true
		if err := runner(cfg.Output, cfg.Target); err != nil {
			d.EndPhase(false)
			return res, err
		}
		d.EndPhase(true)
	}

	d.Finished(res.Succeeded(), res.Diagnostics.Summary())
	return res, nil
}

// load reads and parses the sources of input
func load(input string, res *Result) (*project, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input, err)
	}

	if !info.IsDir() {
		u, err := parseUnit(input, nil, res)
		if err != nil {
			return nil, err
		}
		return &project{root: filepath.Dir(input), units: []*unit{u}}, nil
	}

	tree, err := modules.Discover(input)
	if err != nil {
		return nil, err
	}
	res.Diagnostics.AddAll(tree.Diagnostics)

	proj := &project{root: input, tree: tree}
	for _, f := range tree.Root.AllFiles() {
		u, err := parseUnit(f.Path, f, res)
		if err != nil {
			return nil, err
		}
		proj.units = append(proj.units, u)
	}
	if len(proj.units) == 0 {
		return nil, fmt.Errorf("%s: %w", input, errNoSources)
	}
	return proj, nil
}

func parseUnit(path string, file *modules.File, res *Result) (*unit, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	source := string(buf)
	res.Sources[path] = source

	program, parseErrs, scanErrs := parser.ParseSource(path, source)
	if program == nil {
		program = &ast.Program{}
	}
	res.Diagnostics.AddAll(parser.Diagnostics(path, scanErrs, parseErrs))
	return &unit{file: file, path: path, source: source, program: program}, nil
}

// analyze runs inference on every unit; project builds resolve use
// statements against the discovered module tree
func analyze(proj *project, diags *errors.Diagnostics) {
	opts := semantic.Options{}
	if proj.tree != nil {
		opts.LocalModules = proj.tree.Root.Paths()
	}
	for _, u := range proj.units {
		result := semantic.Analyze(u.program, opts)
		u.info = result.Info
		diags.AddAll(result.Diagnostics)
	}
}

// stdImports merges the std module paths used across units
func stdImports(units []*unit) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range units {
		for _, p := range u.info.Imports {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out
}

// write saves artifacts under dir, creating directories as needed
func write(dir string, artifacts []Artifact) error {
	for _, a := range artifacts {
		path := filepath.Join(dir, filepath.FromSlash(a.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, a.Content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

func hasMain(program *ast.Program) bool {
	for _, item := range program.Items {
		if fn, ok := item.(*ast.Function); ok && fn.Name.Value == "main" {
			return true
		}
	}
	return false
}
