package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windjammer/internal/decorators"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaultsForDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shapes")
	require.NoError(t, os.Mkdir(dir, 0755))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "shapes", cfg.Name)
	assert.Equal(t, DefaultVersion, cfg.Version)
	assert.Equal(t, decorators.Systems, cfg.Target)
	assert.Equal(t, filepath.Join(".", DefaultOutput), cfg.Output)
	assert.Empty(t, cfg.Dependencies)
	assert.Empty(t, cfg.Path)
}

func TestDefaultsForFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hello.wj")
	writeFile(t, file, "fn main() {}")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "hello", cfg.Name)
}

func TestLoadProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
[package]
name = "app"
version = "1.2.0"

[build]
target = "wasm"
output = "dist"

[dependencies]
serde = "1.0"
rand = "0.8"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.Name)
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, decorators.WASM, cfg.Target)
	assert.Equal(t, "dist", cfg.Output)
	assert.Equal(t, map[string]string{"serde": "1.0", "rand": "0.8"}, cfg.Dependencies)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.Path)
}

func TestProjectFileNextToSourceFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "[package]\nname = \"tool\"\n")
	file := filepath.Join(dir, "main.wj")
	writeFile(t, file, "fn main() {}")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "tool", cfg.Name)
	assert.Equal(t, DefaultVersion, cfg.Version)
}

func TestPartialProjectFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "[build]\ntarget = \"script\"\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), cfg.Name)
	assert.Equal(t, decorators.Script, cfg.Target)
	assert.Equal(t, filepath.Join(".", DefaultOutput), cfg.Output)
}

func TestInvalidProjectFile(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "[package\nname = ")
		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), FileName)
	})

	t.Run("target", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "[build]\ntarget = \"jvm\"\n")
		_, err := Load(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown target")
	})
}

func TestApplyOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "[build]\ntarget = \"wasm\"\noutput = \"dist\"\n")
	cfg, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.Apply(Overrides{Target: "script"}))
	assert.Equal(t, decorators.Script, cfg.Target)
	assert.Equal(t, "dist", cfg.Output)

	require.NoError(t, cfg.Apply(Overrides{Output: "out"}))
	assert.Equal(t, "out", cfg.Output)

	assert.Error(t, cfg.Apply(Overrides{Target: "cobol"}))
}

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		Name:         "roundtrip",
		Version:      "0.3.0",
		Target:       decorators.Script,
		Output:       "web",
		Dependencies: map[string]string{"serde": "1.0"},
	}
	require.NoError(t, Write(dir, cfg))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Name, got.Name)
	assert.Equal(t, cfg.Version, got.Version)
	assert.Equal(t, cfg.Target, got.Target)
	assert.Equal(t, cfg.Output, got.Output)
	assert.Equal(t, cfg.Dependencies, got.Dependencies)
}
