package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStandardModules(t *testing.T) {
	modules := GetStandardModules()

	for _, path := range []string{"std.json", "std.fs", "std.http", "std.time", "std.collections"} {
		assert.NotNil(t, modules[path], "%s should exist", path)
	}

	json := modules["std.json"]
	assert.Equal(t, "json", json.Name)
	assert.Equal(t, "std.json", json.Path)
	assert.Equal(t, "windjammer_runtime::json", json.RustUse)

	parse := json.Functions["parse"]
	assert.Equal(t, "parse", parse.Name)
	require.NotNil(t, parse.ReturnType)
	assert.Equal(t, "Result", parse.ReturnType.Name)
	assert.Len(t, parse.Parameters, 1)
	assert.Equal(t, "text", parse.Parameters[0].Name)

	stringify := json.Functions["stringify"]
	assert.True(t, stringify.IsGeneric)
	assert.True(t, stringify.Parameters[0].Type.IsGeneric)

	sleep := modules["std.time"].Functions["sleep_ms"]
	assert.Nil(t, sleep.ReturnType)

	assert.True(t, modules["std.collections"].Types["HashMap"].IsGeneric)
	assert.Equal(t, "std::collections", modules["std.collections"].RustUse)
	assert.False(t, modules["std.regex"].Types["Regex"].IsGeneric)
}

func TestIsKnownModule(t *testing.T) {
	assert.True(t, IsKnownModule("std.json"))
	assert.True(t, IsKnownModule("std::json"), "Rust-style separators are accepted")
	assert.True(t, IsKnownModule("std.fs"))
	assert.False(t, IsKnownModule("std.telepathy"))
	assert.False(t, IsKnownModule("json"))
}

func TestIsStdPath(t *testing.T) {
	assert.True(t, IsStdPath("std"))
	assert.True(t, IsStdPath("std.whatever"))
	assert.True(t, IsStdPath("std::fs"))
	assert.False(t, IsStdPath("stdlib.fs"))
	assert.False(t, IsStdPath("models"))
}

func TestRuntimePaths(t *testing.T) {
	assert.Equal(t, "windjammer_runtime::regex_mod", GetModuleDefinition("std.regex").RustUse)
	assert.Equal(t, "windjammer_runtime::async_runtime", GetModuleDefinition("std.async").RustUse)
	assert.Equal(t, "std::thread", GetModuleDefinition("std.thread").RustUse)

	assert.True(t, UsesRuntime([]string{"std.collections", "std.fs"}))
	assert.False(t, UsesRuntime([]string{"std.collections", "std.thread"}))
	assert.False(t, UsesRuntime(nil))
}

func TestCratesFor(t *testing.T) {
	crates := CratesFor([]string{"std.http", "std.json", "std.async", "std.fs", "std.nope"})

	var names []string
	for _, c := range crates {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"axum", "reqwest", "serde", "serde_json", "tokio"}, names)

	for _, c := range crates {
		switch c.Name {
		case "tokio":
			assert.Equal(t, "1", c.Version)
			assert.Equal(t, []string{"full"}, c.Features)
		case "serde":
			assert.Equal(t, []string{"derive"}, c.Features)
		}
	}
}

func TestCratesForEmpty(t *testing.T) {
	assert.Empty(t, CratesFor(nil))
	assert.Empty(t, CratesFor([]string{"std.fs", "std.math"}))
}

func TestModulePathsSorted(t *testing.T) {
	paths := ModulePaths()
	require.NotEmpty(t, paths)
	for i := 1; i < len(paths); i++ {
		assert.Less(t, paths[i-1], paths[i])
	}
}
