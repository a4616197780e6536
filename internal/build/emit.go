package build

import (
	"path"

	"windjammer/internal/ast"
	"windjammer/internal/codegen/js"
	"windjammer/internal/codegen/rust"
	"windjammer/internal/config"
	"windjammer/internal/decorators"
	"windjammer/internal/errors"
	"windjammer/internal/modules"
	"windjammer/internal/semantic"
)

// entryNames are the root modules whose items are printed into the crate
// root file instead of a module of their own, by preference
var entryNames = []string{"main", "lib"}

// emitCrate prints a systems or wasm crate: module sources, directory glue,
// the crate root and finally Cargo.toml, whose target section depends on
// the root
func emitCrate(proj *project, cfg *config.Config, runtimePath string, diags *errors.Diagnostics) ([]Artifact, error) {
	var artifacts []Artifact

	entry := entryUnit(proj)
	binary := cfg.Target != decorators.WASM && entry != nil && hasMain(entry.program)
	rootFile := "lib.rs"
	if binary {
		rootFile = "main.rs"
	}

	var entryCode string
	for _, u := range proj.units {
		gen := rust.NewGenerator(u.info, u.lowered, rust.Options{
			Target: cfg.Target,
			Module: u != entry,
		})
		code := gen.Generate(u.program)
		diags.AddAll(gen.Diagnostics())
		if u == entry {
			entryCode = code
			continue
		}
		artifacts = append(artifacts, Artifact{Path: rust.SourcePath(u.file), Content: []byte(code)})
	}

	if proj.tree == nil {
		artifacts = append(artifacts, Artifact{Path: path.Join("src", rootFile), Content: []byte(entryCode)})
	} else {
		entryName := ""
		if entry != nil {
			entryName = entry.file.Name
		}
		proj.tree.Root.Walk(func(node *modules.Node) {
			if node == proj.tree.Root {
				return
			}
			if glue := rust.Glue(node, ""); glue != "" {
				artifacts = append(artifacts, Artifact{Path: rust.GluePath(node, rootFile), Content: []byte(glue)})
			}
		})
		root := rust.WithGlue(rust.Glue(proj.tree.Root, entryName), entryCode)
		artifacts = append(artifacts, Artifact{Path: rust.GluePath(proj.tree.Root, rootFile), Content: []byte(root)})
	}

	manifest, err := rust.Manifest(rust.ManifestOptions{
		Name:         cfg.Name,
		Version:      cfg.Version,
		Target:       cfg.Target,
		Binary:       binary,
		Imports:      stdImports(proj.units),
		Dependencies: cfg.Dependencies,
		RuntimePath:  runtimePath,
	})
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, Artifact{Path: "Cargo.toml", Content: manifest})
	return artifacts, nil
}

// entryUnit picks the unit printed into the crate root. A single-file build
// has exactly one; a project uses its root main.wj, else its root lib.wj.
func entryUnit(proj *project) *unit {
	if proj.tree == nil {
		return proj.units[0]
	}
	for _, name := range entryNames {
		for _, u := range proj.units {
			if u.file != nil && u.file.Rel == name {
				return u
			}
		}
	}
	return nil
}

// emitScript prints every unit as one script. Project files share a single
// namespace, so their items are analysed together.
func emitScript(proj *project, cfg *config.Config, diags *errors.Diagnostics) ([]Artifact, error) {
	program, info, lowered := proj.units[0].program, proj.units[0].info, proj.units[0].lowered
	if len(proj.units) > 1 {
		program = mergePrograms(proj.units)
		info = semantic.Analyze(program, semantic.Options{LocalModules: proj.tree.Root.Paths()}).Info
		lowered = decorators.Lower(program, cfg.Target)
	}

	gen := js.NewGenerator(info, lowered, js.Options{Name: cfg.Name, Version: cfg.Version})
	out, err := gen.Generate(program)
	if err != nil {
		return nil, err
	}
	diags.AddAll(gen.Diagnostics())

	return []Artifact{
		{Path: js.ScriptFile, Content: []byte(out.Script)},
		{Path: js.DeclarationFile, Content: []byte(out.Declarations)},
		{Path: js.ManifestFile, Content: out.Manifest},
	}, nil
}

// mergePrograms concatenates the items of every unit, entry modules last so
// their main function follows the declarations it uses
func mergePrograms(units []*unit) *ast.Program {
	merged := &ast.Program{}
	var entries []*unit
	for _, u := range units {
		if u.file != nil && (u.file.Rel == "main" || u.file.Rel == "lib") {
			entries = append(entries, u)
			continue
		}
		merged.Items = append(merged.Items, u.program.Items...)
	}
	for _, u := range entries {
		merged.Items = append(merged.Items, u.program.Items...)
	}
	return merged
}
