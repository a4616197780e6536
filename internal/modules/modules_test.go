package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"windjammer/internal/errors"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestDiscoverAutoExposesSortedModules(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.wj":           "fn main() {}",
		"utils.wj":          "pub fn helper() {}",
		"models/user.wj":    "pub struct User { name: string }",
		"models/post.wj":    "pub struct Post { title: string }",
		"notes.txt":         "not a source file",
		".git/config.wj":    "ignored",
		"target/debug/x.wj": "ignored",
		"build/src/main.wj": "ignored",
		"empty/readme.md":   "no sources",
		"models/extra/a.wj": "fn a() {}",
	})

	tree, err := Discover(root)
	require.NoError(t, err)
	assert.Empty(t, tree.Diagnostics)

	assert.Equal(t, []string{"main", "models", "utils"}, tree.Root.ModuleNames())
	require.Len(t, tree.Root.Children, 1)
	models := tree.Root.Children[0]
	assert.Equal(t, "models", models.Rel)
	assert.Equal(t, []string{"extra", "post", "user"}, models.ModuleNames())
	assert.Nil(t, models.Decl)

	var rels []string
	for _, f := range tree.Root.AllFiles() {
		rels = append(rels, f.Rel)
	}
	want := []string{"main", "utils", "models/post", "models/user", "models/extra/a"}
	if diff := cmp.Diff(want, rels); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverRespectsDeclarationFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"lib.wj":             "pub fn run() {}",
		"shapes/mod.wj":      "pub mod circle\nmod internal\npub use circle::Circle\n",
		"shapes/circle.wj":   "pub struct Circle { r: float }",
		"shapes/internal.wj": "fn helper() {}",
		"shapes/unlisted.wj": "fn hidden() {}",
	})

	tree, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 1)

	shapes := tree.Root.Children[0]
	require.NotNil(t, shapes.Decl)
	assert.Equal(t, []string{"circle::Circle"}, shapes.Reexports)
	require.Len(t, shapes.Files, 2)
	assert.Equal(t, "circle", shapes.Files[0].Name)
	assert.True(t, shapes.Files[0].Public)
	assert.Equal(t, "internal", shapes.Files[1].Name)
	assert.False(t, shapes.Files[1].Public)
	assert.NotContains(t, shapes.ModuleNames(), "unlisted")
}

func TestDiscoverReportsMissingDeclaredModule(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"mod.wj":     "pub mod present\npub mod absent\n",
		"present.wj": "fn p() {}",
	})

	tree, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, tree.Diagnostics, 1)
	assert.Equal(t, errors.ErrorModuleNotFound, tree.Diagnostics[0].Code)
	assert.Equal(t, 2, tree.Diagnostics[0].Position.Line)
	assert.Equal(t, []string{"present"}, tree.Root.ModuleNames())
}

func TestDiscoverFallsBackOnBadDeclaration(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"mod.wj": "pub mod\n",
		"a.wj":   "fn a() {}",
	})

	tree, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, tree.Diagnostics, 1)
	assert.Equal(t, errors.ErrorMalformedItem, tree.Diagnostics[0].Code)
	assert.Nil(t, tree.Root.Decl)
	assert.Equal(t, []string{"a"}, tree.Root.ModuleNames())
}

func TestModulePaths(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.wj":        "fn main() {}",
		"models/user.wj": "pub struct User {}",
	})

	tree, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"main": true, "models": true, "models.user": true}, tree.Root.Paths())
}

func TestDiscoverRejectsFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"main.wj": "fn main() {}"})

	_, err := Discover(filepath.Join(root, "main.wj"))
	assert.Error(t, err)
	_, err = Discover(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestDiscoverReportsFileAndDirectoryWithSameName(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.wj":         "fn main() {}",
		"shapes.wj":       "pub struct Square { side: int }",
		"shapes/round.wj": "pub struct Circle { r: int }",
		"notes.wj":        "pub fn note() {}",
		"notes/readme.md": "no sources",
	})

	tree, err := Discover(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"main", "notes", "shapes"}, tree.Root.ModuleNames())
	assert.Empty(t, tree.Root.Children)
	require.Len(t, tree.Diagnostics, 1)
	assert.Equal(t, errors.ErrorDuplicateModule, tree.Diagnostics[0].Code)
	assert.Contains(t, tree.Diagnostics[0].Message, "'shapes'")
}
