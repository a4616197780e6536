package rust

import (
	"path"
	"strings"

	"windjammer/internal/modules"
)

// Glue renders the module file of a directory node. A declaration file is
// reproduced verbatim; otherwise every sub-module is declared and re-exported
// in alphabetical order. entry names a module whose items live in the glue
// file itself and is left out of the declarations.
func Glue(node *modules.Node, entry string) string {
	if node.Decl != nil {
		return node.Decl.Rust()
	}

	var names []string
	for _, name := range node.ModuleNames() {
		if name != entry {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}

	var b strings.Builder
	for _, name := range names {
		b.WriteString("pub mod " + name + ";\n")
	}
	b.WriteString("\n")
	for _, name := range names {
		b.WriteString("pub use " + name + "::*;\n")
	}
	return b.String()
}

// GluePath returns the crate-relative path of a directory node's module file
func GluePath(node *modules.Node, rootFile string) string {
	if node.Rel == "" {
		return path.Join("src", rootFile)
	}
	return path.Join("src", node.Rel, "mod.rs")
}

// SourcePath returns the crate-relative path a source file compiles to
func SourcePath(file *modules.File) string {
	return path.Join("src", file.Rel+".rs")
}

// WithGlue prepends glue declarations to generated code
func WithGlue(glue, code string) string {
	if glue == "" {
		return code
	}
	if code == "" {
		return glue
	}
	return glue + "\n" + code
}
