// Package modules discovers the module tree of a project directory.
package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"windjammer/grammar"
	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

const (
	// SourceExtension is the extension of compiled source files
	SourceExtension = ".wj"

	// DeclFileName is the optional per-directory module declaration file
	DeclFileName = "mod.wj"
)

// skippedDirs are never walked
var skippedDirs = map[string]bool{
	"target":       true,
	"build":        true,
	"node_modules": true,
}

// File is a leaf module backed by one source file
type File struct {
	Name   string // module name, the file stem
	Path   string
	Rel    string // slash-separated path from the root without extension
	Public bool
}

// Node is a directory module
type Node struct {
	Name     string
	Path     string
	Rel      string // slash-separated path from the root; empty for the root
	Public   bool
	Children []*Node
	Files    []*File

	// Decl is the parsed declaration file; when set it fully determines the
	// node's glue file
	Decl      *grammar.File
	Reexports []string
}

// Tree is the result of a discovery walk
type Tree struct {
	Root        *Node
	Diagnostics []errors.CompilerError
}

// Discover walks root depth-first. Directories with a declaration file expose
// exactly the declared modules; other directories expose every source file and
// every sub-directory that contains sources.
func Discover(root string) (*Tree, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read module root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("module root %s is not a directory", root)
	}

	tree := &Tree{}
	node, err := tree.walk(root, "", filepath.Base(root), true)
	if err != nil {
		return nil, err
	}
	if node == nil {
		node = &Node{Name: filepath.Base(root), Path: root, Public: true}
	}
	tree.Root = node
	return tree, nil
}

func (t *Tree) walk(dir, rel, name string, public bool) (*Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", dir, err)
	}

	node := &Node{Name: name, Path: dir, Rel: rel, Public: public}
	files := make(map[string]*File)
	dirs := make(map[string]string)
	hasDecl := false

	for _, entry := range entries {
		entryName := entry.Name()
		if entry.IsDir() {
			if strings.HasPrefix(entryName, ".") || skippedDirs[entryName] {
				continue
			}
			dirs[entryName] = filepath.Join(dir, entryName)
			continue
		}
		if filepath.Ext(entryName) != SourceExtension {
			continue
		}
		if entryName == DeclFileName {
			hasDecl = true
			continue
		}
		stem := strings.TrimSuffix(entryName, SourceExtension)
		files[stem] = &File{
			Name:   stem,
			Path:   filepath.Join(dir, entryName),
			Rel:    joinRel(rel, stem),
			Public: true,
		}
	}

	if hasDecl {
		declPath := filepath.Join(dir, DeclFileName)
		decl, err := grammar.ParseFile(declPath)
		if err != nil {
			t.Diagnostics = append(t.Diagnostics, grammar.Diagnostic(declPath, err))
		} else {
			node.Decl = decl
			node.Reexports = decl.Reexports()
			if err := t.declared(node, decl, declPath, files, dirs); err != nil {
				return nil, err
			}
			return node, nil
		}
	}

	for _, stem := range sortedKeys(files) {
		node.Files = append(node.Files, files[stem])
	}
	for _, sub := range sortedKeys(dirs) {
		child, err := t.walk(dirs[sub], joinRel(rel, sub), sub, true)
		if err != nil {
			return nil, err
		}
		if child == nil || child.Empty() {
			continue
		}
		// the file wins; the directory would emit a second module of the same name
		if f, ok := files[sub]; ok {
			t.Diagnostics = append(t.Diagnostics, errors.DuplicateModule(sub, f.Path, dirs[sub]))
			continue
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// declared keeps the modules named by a declaration file, in declaration order
func (t *Tree) declared(node *Node, decl *grammar.File, declPath string, files map[string]*File, dirs map[string]string) error {
	available := append(sortedKeys(files), sortedKeys(dirs)...)
	for _, entry := range decl.Modules() {
		if f, ok := files[entry.Name]; ok {
			f.Public = entry.Public
			node.Files = append(node.Files, f)
			continue
		}
		if sub, ok := dirs[entry.Name]; ok {
			child, err := t.walk(sub, joinRel(node.Rel, entry.Name), entry.Name, entry.Public)
			if err != nil {
				return err
			}
			node.Children = append(node.Children, child)
			continue
		}
		pos := ast.Position{Filename: declPath, Line: 1, Column: 1}
		for _, el := range decl.Elements {
			if el.Decl != nil && el.Decl.Mod != nil && el.Decl.Mod.Name.Value == entry.Name {
				p := el.Decl.Mod.Name.Pos
				pos = ast.Position{Filename: declPath, Offset: p.Offset, Line: p.Line, Column: p.Column}
			}
		}
		t.Diagnostics = append(t.Diagnostics, errors.ModuleNotFound(entry.Name, pos, available))
	}
	return nil
}

// Empty reports whether the node exposes no modules at all
func (n *Node) Empty() bool {
	return len(n.Files) == 0 && len(n.Children) == 0 && n.Decl == nil
}

// ModuleNames returns the names of the node's direct sub-modules, sorted
func (n *Node) ModuleNames() []string {
	names := make([]string, 0, len(n.Files)+len(n.Children))
	for _, f := range n.Files {
		names = append(names, f.Name)
	}
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// AllFiles returns every source file of the tree in depth-first order
func (n *Node) AllFiles() []*File {
	var out []*File
	out = append(out, n.Files...)
	for _, c := range n.Children {
		out = append(out, c.AllFiles()...)
	}
	return out
}

// Walk calls fn for n and every descendant directory, parents first
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Paths returns the dotted path of every module in the tree, for resolving use
// statements between project files
func (n *Node) Paths() map[string]bool {
	paths := make(map[string]bool)
	n.Walk(func(node *Node) {
		if node.Rel != "" {
			paths[dotted(node.Rel)] = true
		}
		for _, f := range node.Files {
			paths[dotted(f.Rel)] = true
		}
	})
	return paths
}

func dotted(rel string) string {
	return strings.ReplaceAll(rel, "/", ".")
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
