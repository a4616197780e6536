package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windjammer/internal/ast"
)

const fileURI = "file:///src/main.wj"

func TestProgramOfIsMemoised(t *testing.T) {
	db := NewDatabase()
	db.SetContent(fileURI, "fn main(){}")

	p1 := db.ProgramOf(fileURI)
	p2 := db.ProgramOf(fileURI)

	require.NotNil(t, p1)
	assert.Same(t, p1, p2)
	assert.Equal(t, 1, db.Parses)
}

func TestSettingNewContentInvalidates(t *testing.T) {
	db := NewDatabase()
	db.SetContent(fileURI, "fn a(){}")
	first := db.ProgramOf(fileURI)

	db.SetContent(fileURI, "fn a(){} fn b(){}")
	second := db.ProgramOf(fileURI)

	assert.Len(t, first.Items, 1)
	assert.Len(t, second.Items, len(first.Items)+1)
	assert.Equal(t, 2, db.Parses)
}

func TestSettingSameContentKeepsMemo(t *testing.T) {
	db := NewDatabase()
	db.SetContent(fileURI, "fn a(){}")
	p1 := db.ProgramOf(fileURI)

	db.SetContent(fileURI, "fn a(){}")
	assert.Same(t, p1, db.ProgramOf(fileURI))
	assert.Equal(t, 1, db.Parses)
}

func TestUnrelatedFilesKeepTheirMemos(t *testing.T) {
	db := NewDatabase()
	db.SetContent("file:///a.wj", "fn a(){}")
	db.SetContent("file:///b.wj", "fn b(){}")
	a := db.ProgramOf("file:///a.wj")
	db.ProgramOf("file:///b.wj")

	db.SetContent("file:///b.wj", "fn b(){} fn c(){}")
	assert.Same(t, a, db.ProgramOf("file:///a.wj"))
	assert.Equal(t, 2, db.Parses)
}

func TestParseFailuresDoNotPoisonTheCache(t *testing.T) {
	db := NewDatabase()
	db.SetContent(fileURI, "fn broken( {")

	require.NotNil(t, db.ProgramOf(fileURI))
	assert.NotEmpty(t, db.DiagnosticsOf(fileURI))

	db.SetContent(fileURI, "fn fixed() {}")
	assert.Empty(t, db.DiagnosticsOf(fileURI))
	assert.Len(t, db.ProgramOf(fileURI).Items, 1)
}

func TestUnknownFile(t *testing.T) {
	db := NewDatabase()
	assert.Nil(t, db.ProgramOf("file:///missing.wj"))
	assert.Nil(t, db.SymbolsOf("file:///missing.wj"))
	assert.Nil(t, db.ImportsOf("file:///missing.wj"))
}

func TestSymbolsOf(t *testing.T) {
	db := NewDatabase()
	db.SetContent(fileURI, `struct Point { x: int, y: int }
enum Shape { Circle(float), Empty }
impl Point {
    fn len(self) -> float { 0.0 }
}
fn main() {}
const LIMIT: int = 3`)

	got := db.SymbolsOf(fileURI)
	type entry struct{ Name, Kind, Container string }
	var entries []entry
	for _, s := range got {
		entries = append(entries, entry{s.Name, s.Kind, s.Container})
	}
	want := []entry{
		{"Point", KindStruct, ""},
		{"x", KindField, "Point"},
		{"y", KindField, "Point"},
		{"Shape", KindEnum, ""},
		{"Circle", KindVariant, "Shape"},
		{"Empty", KindVariant, "Shape"},
		{"len", KindMethod, "Point"},
		{"main", KindFunction, ""},
		{"LIMIT", KindConst, ""},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("symbols mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, fileURI, got[0].URI)
	assert.Equal(t, "fn len(self) -> float", got[6].Detail)

	assert.Equal(t, got, db.SymbolsOf(fileURI))
	assert.Equal(t, 1, db.Parses)
}

func TestImportsOf(t *testing.T) {
	db := NewDatabase()
	db.SetContent(fileURI, `use std.json
use models.user
use std.collections::{HashMap, HashSet}
fn main() {}`)

	assert.Equal(t, []string{"std.json", "models.user", "std.collections.HashMap", "std.collections.HashSet"},
		db.ImportsOf(fileURI))
}

func TestFindSymbol(t *testing.T) {
	db := NewDatabase()
	db.SetContent("file:///a.wj", "fn parse_args() {}\nfn run() {}")
	db.SetContent("file:///b.wj", "struct Parser { pos: int }")

	names := func(query string) []string {
		var out []string
		for _, s := range db.FindSymbol(query) {
			out = append(out, s.Name)
		}
		return out
	}
	assert.Equal(t, []string{"parse_args"}, names("_args"))
	assert.ElementsMatch(t, []string{"parse_args", "Parser"}, names("ars"))
	assert.Empty(t, names("zzz"))
	assert.Len(t, db.FindSymbol(""), 4)
}

func TestRemoveFile(t *testing.T) {
	db := NewDatabase()
	db.SetContent(fileURI, "fn main() {}")
	db.ProgramOf(fileURI)

	db.RemoveFile(fileURI)
	assert.Nil(t, db.ProgramOf(fileURI))
	assert.Empty(t, db.Files())
	_, ok := db.Content(fileURI)
	assert.False(t, ok)
}

func TestSnapshotIsImmutable(t *testing.T) {
	db := NewDatabase()
	db.SetContent(fileURI, "fn a(){}")
	p := db.ProgramOf(fileURI)
	db.SymbolsOf(fileURI)
	snap := db.Snapshot()

	db.SetContent(fileURI, "fn a(){} fn b(){}")
	db.SetContent("file:///other.wj", "fn c(){}")
	db.ProgramOf(fileURI)

	got, ok := snap.Program(fileURI)
	require.True(t, ok)
	assert.Same(t, p, got)
	content, _ := snap.Content(fileURI)
	assert.Equal(t, "fn a(){}", content)
	assert.Equal(t, []string{fileURI}, snap.Files())
	symbols, ok := snap.Symbols(fileURI)
	require.True(t, ok)
	assert.Len(t, symbols, 1)
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("fn test() {}"), ContentHash("fn test() {}"))
	assert.NotEqual(t, ContentHash("fn test() {}"), ContentHash("fn other() {}"))
	assert.Len(t, ContentHash(""), 64)
}

func TestNodeAtCarriesStableMetadata(t *testing.T) {
	db := NewDatabase()
	db.SetContent(fileURI, "fn main() { let total = 1 }")

	node := db.NodeAt(fileURI, 16)
	ident, ok := node.(*ast.Ident)
	require.True(t, ok, "got %T", node)
	assert.Equal(t, "total", ident.Value)

	md := ident.GetMetadata()
	require.NotNil(t, md)
	assert.NotZero(t, md.NodeID)
	assert.NotZero(t, md.ParentID)
	assert.Same(t, node, db.NodeAt(fileURI, 18))
	assert.Equal(t, 1, db.Parses)

	assert.Nil(t, db.NodeAt("file:///missing.wj", 0))
}
