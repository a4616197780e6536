package build

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windjammer/internal/config"
	"windjammer/internal/decorators"
	"windjammer/internal/errors"
)

func writeSources(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func testConfig(t *testing.T, input string, target decorators.Target) *config.Config {
	t.Helper()
	cfg, err := config.Load(input)
	require.NoError(t, err)
	cfg.Target = target
	cfg.Output = filepath.Join(t.TempDir(), "out")
	return cfg
}

func artifactPaths(res *Result) []string {
	var paths []string
	for _, a := range res.Artifacts {
		paths = append(paths, a.Path)
	}
	return paths
}

func readOutput(t *testing.T, res *Result, rel string) string {
	t.Helper()
	buf, err := os.ReadFile(filepath.Join(res.Output, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(buf)
}

func loadManifest(t *testing.T, res *Result) *toml.Tree {
	t.Helper()
	tree, err := toml.LoadBytes([]byte(readOutput(t, res, "Cargo.toml")))
	require.NoError(t, err)
	return tree
}

func TestSingleFileBinary(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hello.wj")
	writeSources(t, dir, map[string]string{"hello.wj": `fn main() { println("hello") }`})

	cfg := testConfig(t, input, decorators.Systems)
	res, err := Build(input, Options{Config: cfg, NoCargo: true})
	require.NoError(t, err)
	assert.True(t, res.Succeeded(), res.Diagnostics.Summary())

	assert.Equal(t, []string{"src/main.rs", "Cargo.toml"}, artifactPaths(res))
	assert.Contains(t, readOutput(t, res, "src/main.rs"), "fn main() {")

	manifest := loadManifest(t, res)
	assert.Equal(t, "hello", manifest.Get("package.name"))
	bins, ok := manifest.Get("bin").([]*toml.Tree)
	require.True(t, ok)
	assert.Equal(t, "src/main.rs", bins[0].Get("path"))
	assert.False(t, res.CargoRan)
}

func TestSingleFileLibrary(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "shapes.wj")
	writeSources(t, dir, map[string]string{"shapes.wj": `pub fn area(w: int, h: int) -> int { w * h }`})

	res, err := Build(input, Options{Config: testConfig(t, input, decorators.Systems), NoCargo: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/lib.rs", "Cargo.toml"}, artifactPaths(res))
	assert.Equal(t, "src/lib.rs", loadManifest(t, res).Get("lib.path"))
}

func TestProjectBuild(t *testing.T) {
	root := filepath.Join(t.TempDir(), "app")
	writeSources(t, root, map[string]string{
		"main.wj":        "use utils.*\nfn main() { println(\"{}\", helper()) }",
		"utils.wj":       "pub fn helper() -> int { 1 }",
		"models/user.wj": "pub struct User { name: string }",
	})

	cfg := testConfig(t, root, decorators.Systems)
	cfg.Dependencies = map[string]string{"anyhow": "1.0"}
	res, err := Build(root, Options{Config: cfg, NoCargo: true})
	require.NoError(t, err)
	assert.True(t, res.Succeeded(), res.Diagnostics.Summary())

	paths := artifactPaths(res)
	assert.ElementsMatch(t, []string{"src/utils.rs", "src/models/user.rs", "src/models/mod.rs", "src/main.rs", "Cargo.toml"}, paths)
	assert.Equal(t, "src/main.rs", paths[len(paths)-2])
	assert.Equal(t, "Cargo.toml", paths[len(paths)-1])

	main := readOutput(t, res, "src/main.rs")
	assert.True(t, strings.HasPrefix(main, "pub mod models;\npub mod utils;\n"), main)
	assert.Contains(t, main, "fn main() {")
	assert.NotContains(t, main, "pub mod main;")

	assert.Contains(t, readOutput(t, res, "src/utils.rs"), "pub fn helper() -> i64 {")
	assert.Equal(t, "pub mod user;\n\npub use user::*;\n", readOutput(t, res, "src/models/mod.rs"))

	manifest := loadManifest(t, res)
	assert.Equal(t, "app", manifest.Get("package.name"))
	assert.Equal(t, "1.0", manifest.Get("dependencies.anyhow"))
	assert.Nil(t, manifest.Get("lib"))
}

func TestProjectWithoutEntryIsLibrary(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"geometry.wj": "pub fn double(x: int) -> int { x * 2 }",
	})

	res, err := Build(root, Options{Config: testConfig(t, root, decorators.Systems), NoCargo: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/geometry.rs", "src/lib.rs", "Cargo.toml"}, artifactPaths(res))
	assert.Equal(t, "pub mod geometry;\n\npub use geometry::*;\n", readOutput(t, res, "src/lib.rs"))
}

func TestWasmBuild(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "web.wj")
	writeSources(t, dir, map[string]string{"web.wj": "pub fn add(a: int, b: int) -> int { a + b }\nfn main() {}"})

	res, err := Build(input, Options{Config: testConfig(t, input, decorators.WASM), NoCargo: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/lib.rs", "Cargo.toml"}, artifactPaths(res))
	assert.Contains(t, readOutput(t, res, "src/lib.rs"), "#[wasm_bindgen]\npub fn add(")
	manifest := loadManifest(t, res)
	assert.Equal(t, []interface{}{"cdylib"}, manifest.Get("lib.crate-type"))
}

func TestScriptBuild(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site")
	writeSources(t, root, map[string]string{
		"main.wj":  "use maths.*\nfn main() { println(\"{}\", twice(2)) }",
		"maths.wj": "pub fn twice(x: int) -> int { x * 2 }",
	})

	res, err := Build(root, Options{Config: testConfig(t, root, decorators.Script), NoCargo: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"output.js", "output.d.ts", "package.json"}, artifactPaths(res))

	script := readOutput(t, res, "output.js")
	assert.Contains(t, script, "export function twice(x) {")
	assert.Contains(t, script, "export function main() {")
	assert.Less(t, strings.Index(script, "function twice"), strings.Index(script, "function main"))
	assert.Contains(t, readOutput(t, res, "output.d.ts"), "export declare function twice(x: number): number;")
	assert.Contains(t, readOutput(t, res, "package.json"), `"name": "site"`)
	assert.False(t, res.CargoRan)
}

func TestSyntaxErrorsStopBeforeEmission(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.wj")
	writeSources(t, dir, map[string]string{"broken.wj": "fn broken( {"})

	cfg := testConfig(t, input, decorators.Systems)
	res, err := Build(input, Options{Config: cfg})
	require.NoError(t, err)
	assert.False(t, res.Succeeded())
	assert.Empty(t, res.Artifacts)
	assert.False(t, res.CargoRan)
	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCargoRunner(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "web.wj")
	writeSources(t, dir, map[string]string{"web.wj": "pub fn one() -> int { 1 }"})

	var calls []decorators.Target
	runner := func(out string, target decorators.Target) error {
		_, err := os.Stat(filepath.Join(out, "Cargo.toml"))
		require.NoError(t, err)
		calls = append(calls, target)
		return nil
	}

	res, err := Build(input, Options{Config: testConfig(t, input, decorators.WASM), Cargo: runner})
	require.NoError(t, err)
	assert.True(t, res.CargoRan)
	assert.Equal(t, []decorators.Target{decorators.WASM}, calls)

	_, err = Build(input, Options{Config: testConfig(t, input, decorators.Systems), Cargo: runner, NoCargo: true})
	require.NoError(t, err)
	assert.Len(t, calls, 1)
}

func TestCargoArgs(t *testing.T) {
	assert.Equal(t, []string{"build", "--release"}, CargoArgs(decorators.Systems))
	assert.Equal(t, []string{"build", "--release", "--target", "wasm32-unknown-unknown"}, CargoArgs(decorators.WASM))
}

func TestMissingInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.wj")
	cfg := &config.Config{Name: "missing", Output: t.TempDir()}
	_, err := Build(missing, Options{Config: cfg, NoCargo: true})
	assert.Error(t, err)
}

func TestEmptyProject(t *testing.T) {
	root := t.TempDir()
	_, err := Build(root, Options{Config: testConfig(t, root, decorators.Systems), NoCargo: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoSources)
}

func TestPlainDisplay(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hello.wj")
	writeSources(t, dir, map[string]string{"hello.wj": "fn main() {}"})

	var out bytes.Buffer
	_, err := Build(input, Options{Config: testConfig(t, input, decorators.Systems), NoCargo: true, Display: NewPlainDisplay(&out)})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "wj building hello -- target: systems")
	for _, phase := range []string{PhaseParsing, PhaseAnalyzing, PhaseLowering, PhaseEmitting, PhaseWriting} {
		assert.Contains(t, text, "Done "+phase)
	}
	assert.NotContains(t, text, PhaseCargo)
	assert.Contains(t, text, "All done! (0 error(s), 0 warning(s))")
}

func TestReportAndStatistics(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.wj")
	writeSources(t, dir, map[string]string{"broken.wj": "fn broken( {"})

	res, err := Build(input, Options{Config: testConfig(t, input, decorators.Systems), NoCargo: true})
	require.NoError(t, err)

	var out bytes.Buffer
	Report(&out, res)
	assert.Contains(t, out.String(), input)
	assert.Contains(t, out.String(), res.Diagnostics.Summary())

	home := t.TempDir()
	require.NoError(t, RecordStatistics(home, res))
	stats, err := errors.LoadStatistics(home)
	require.NoError(t, err)
	assert.Equal(t, res.Diagnostics.ErrorCount(), stats.TotalErrors)
}
