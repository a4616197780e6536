package rust

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"windjammer/internal/decorators"
	"windjammer/internal/modules"
)

func loadManifest(t *testing.T, opts ManifestOptions) *toml.Tree {
	t.Helper()
	data, err := Manifest(opts)
	require.NoError(t, err)
	tree, err := toml.LoadBytes(data)
	require.NoError(t, err, string(data))
	return tree
}

func TestManifestBinary(t *testing.T) {
	tree := loadManifest(t, ManifestOptions{
		Name:         "My App",
		Binary:       true,
		Imports:      []string{"std.json", "std.fs"},
		Dependencies: map[string]string{"anyhow": "1.0"},
	})

	assert.Equal(t, "my-app", tree.Get("package.name"))
	assert.Equal(t, "0.1.0", tree.Get("package.version"))
	assert.Equal(t, "2021", tree.Get("package.edition"))
	assert.Nil(t, tree.Get("lib"))

	bins, ok := tree.Get("bin").([]*toml.Tree)
	require.True(t, ok, "bin should be an array of tables")
	require.Len(t, bins, 1)
	assert.Equal(t, "src/main.rs", bins[0].Get("path"))

	assert.Equal(t, "1.0", tree.Get("dependencies.serde.version"))
	assert.Equal(t, []interface{}{"derive"}, tree.Get("dependencies.serde.features"))
	assert.Equal(t, "1.0", tree.Get("dependencies.serde_json"))
	assert.Equal(t, DefaultRuntimePath, tree.Get("dependencies.windjammer-runtime.path"))
	assert.Equal(t, "1.0", tree.Get("dependencies.anyhow"))
}

func TestManifestPlainVersionsStayOutOfTables(t *testing.T) {
	tree := loadManifest(t, ManifestOptions{Name: "app", Binary: true, Imports: []string{"std.json"}})

	serde, ok := tree.Get("dependencies.serde").(*toml.Tree)
	require.True(t, ok, "serde should be a table")
	assert.ElementsMatch(t, []string{"version", "features"}, serde.Keys())
	assert.Equal(t, "1.0", tree.Get("dependencies.serde_json"))
}

func TestManifestWasm(t *testing.T) {
	tree := loadManifest(t, ManifestOptions{Name: "web", Target: decorators.WASM})

	assert.Equal(t, "src/lib.rs", tree.Get("lib.path"))
	assert.Equal(t, []interface{}{"cdylib"}, tree.Get("lib.crate-type"))
	assert.Equal(t, "0.2", tree.Get("dependencies.wasm-bindgen"))
	assert.Equal(t, "z", tree.Get("profile.release.opt-level"))
	assert.Equal(t, true, tree.Get("profile.release.lto"))
	assert.False(t, tree.Has("dependencies.windjammer-runtime"))
}

func TestManifestLibraryWithoutImports(t *testing.T) {
	tree := loadManifest(t, ManifestOptions{Name: "lib", Version: "2.3.4", RuntimePath: "/opt/runtime"})

	assert.Equal(t, "2.3.4", tree.Get("package.version"))
	assert.Equal(t, "src/lib.rs", tree.Get("lib.path"))
	assert.Nil(t, tree.Get("lib.crate-type"))
	assert.Nil(t, tree.Get("profile"))
	deps, ok := tree.Get("dependencies").(*toml.Tree)
	if ok {
		assert.Empty(t, deps.Keys())
	}
}

func TestManifestRuntimePathOverride(t *testing.T) {
	tree := loadManifest(t, ManifestOptions{Name: "x", Imports: []string{"std.time"}, RuntimePath: "/opt/runtime"})
	assert.Equal(t, "/opt/runtime", tree.Get("dependencies.windjammer-runtime.path"))
}

func TestCrateName(t *testing.T) {
	tests := map[string]string{
		"hello":        "hello",
		"Hello World":  "hello-world",
		"my_app":       "my_app",
		"  spaced  ":   "spaced",
		"!!!":          "windjammer-app",
		"":             "windjammer-app",
		"Game.Engine2": "game-engine2",
	}
	for in, want := range tests {
		assert.Equal(t, want, crateName(in), in)
	}
}

func TestGlue(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"main.wj":            "fn main() {}",
		"utils.wj":           "pub fn helper() {}",
		"models/user.wj":     "pub struct User { name: string }",
		"models/post.wj":     "pub struct Post { title: string }",
		"shapes/mod.wj":      "pub mod circle\n// private helpers\nmod internal\n",
		"shapes/circle.wj":   "pub struct Circle { r: float }",
		"shapes/internal.wj": "fn helper() {}",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	tree, err := modules.Discover(root)
	require.NoError(t, err)

	assert.Equal(t, "pub mod models;\npub mod shapes;\npub mod utils;\n\npub use models::*;\npub use shapes::*;\npub use utils::*;\n",
		Glue(tree.Root, "main"))
	assert.Equal(t, "src/main.rs", GluePath(tree.Root, "main.rs"))

	require.Len(t, tree.Root.Children, 2)
	models, shapes := tree.Root.Children[0], tree.Root.Children[1]
	assert.Equal(t, "pub mod post;\npub mod user;\n\npub use post::*;\npub use user::*;\n", Glue(models, ""))
	assert.Equal(t, "src/models/mod.rs", GluePath(models, "main.rs"))

	glue := Glue(shapes, "")
	assert.Contains(t, glue, "pub mod circle;")
	assert.Contains(t, glue, "// private helpers")
	assert.Contains(t, glue, "mod internal;")

	for _, f := range models.Files {
		assert.Equal(t, "src/models/"+f.Name+".rs", SourcePath(f))
	}
}

func TestWithGlue(t *testing.T) {
	assert.Equal(t, "code", WithGlue("", "code"))
	assert.Equal(t, "pub mod a;\n", WithGlue("pub mod a;\n", ""))
	assert.Equal(t, "pub mod a;\n\nfn main() {}\n", WithGlue("pub mod a;\n", "fn main() {}\n"))
}

func TestGlueDeclaresCollidingModuleOnce(t *testing.T) {
	root := t.TempDir()
	for rel, content := range map[string]string{
		"main.wj":          "fn main() {}",
		"shapes.wj":        "pub struct Square { side: int }",
		"shapes/circle.wj": "pub struct Circle { r: float }",
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	tree, err := modules.Discover(root)
	require.NoError(t, err)

	assert.Equal(t, "pub mod shapes;\n\npub use shapes::*;\n", Glue(tree.Root, "main"))
	assert.NotEmpty(t, tree.Diagnostics)
}
