package grammar_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windjammer/grammar"
	"windjammer/internal/errors"
)

func TestModFile(t *testing.T) {
	file, err := grammar.ParseFile("testdata/mod.wj")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	require.Len(t, file.Elements, 8)

	comment := file.Elements[0]
	require.NotNil(t, comment.Comment)
	assert.Equal(t, "// Public surface of the shapes package", comment.Comment.Text)

	geometry := file.Elements[1].Decl
	require.NotNil(t, geometry)
	require.Len(t, geometry.Docs, 1)
	assert.Equal(t, "/// Geometry primitives", geometry.Docs[0].Text)
	assert.True(t, geometry.Public)
	assert.Equal(t, "geometry", geometry.Mod.Name.Value)

	internal := file.Elements[3].Decl
	assert.False(t, internal.Public)
	assert.Equal(t, "internal", internal.Mod.Name.Value)

	want := []grammar.ModEntry{
		{Name: "geometry", Public: true},
		{Name: "render", Public: true},
		{Name: "internal", Public: false},
	}
	if diff := cmp.Diff(want, file.Modules()); diff != "" {
		t.Errorf("modules mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{
		"geometry::Point",
		"render::{Canvas, draw}",
		"internal::*",
	}, file.Reexports())

	assert.True(t, file.Declares("render"))
	assert.False(t, file.Declares("helpers"))
}

func TestUseForms(t *testing.T) {
	tests := []struct {
		source string
		dotted string
		rust   string
	}{
		{"pub use a::b", "pub use a.b", "pub use a::b;\n"},
		{"use a.b.c", "use a.b.c", "use a::b::c;\n"},
		{"pub use a.*", "pub use a.*", "pub use a::*;\n"},
		{"pub use a::{x, y}", "pub use a.{x, y}", "pub use a::{x, y};\n"},
		{"use a.b as c;", "use a.b as c", "use a::b as c;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			file, err := grammar.ParseString("mod.wj", tt.source)
			require.NoError(t, err)
			require.Len(t, file.Elements, 1)
			assert.Equal(t, tt.dotted, file.Elements[0].Decl.String())
			assert.Equal(t, tt.rust, file.Rust())
		})
	}
}

func TestRustGlueKeepsOrderAndComments(t *testing.T) {
	file, err := grammar.ParseString("mod.wj", "// utilities\npub mod b\npub mod a\npub use b::run\n")
	require.NoError(t, err)

	assert.Equal(t, "// utilities\npub mod b;\npub mod a;\npub use b::run;\n", file.Rust())
}

func TestRoundTrip(t *testing.T) {
	file, err := grammar.ParseFile("testdata/mod.wj")
	require.NoError(t, err)

	again, err := grammar.ParseString("mod.wj", file.String())
	require.NoError(t, err)
	assert.Equal(t, file.String(), again.String())
	assert.Equal(t, file.Modules(), again.Modules())
}

func TestEmptyFile(t *testing.T) {
	file, err := grammar.ParseString("mod.wj", "\n\n")
	require.NoError(t, err)
	assert.Empty(t, file.Modules())
	assert.Empty(t, file.Reexports())
}

func TestInvalidDeclaration(t *testing.T) {
	_, err := grammar.ParseString("mod.wj", "pub mod\nfn main() {}")
	require.Error(t, err)

	diag := grammar.Diagnostic("mod.wj", err)
	assert.Equal(t, errors.ErrorMalformedItem, diag.Code)
	assert.Equal(t, "mod.wj", diag.Position.Filename)
	assert.Greater(t, diag.Position.Line, 0)
}

func TestMissingFile(t *testing.T) {
	_, err := grammar.ParseFile("testdata/does-not-exist.wj")
	assert.Error(t, err)
}
