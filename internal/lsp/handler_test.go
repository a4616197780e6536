package lsp_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"windjammer/internal/ast"
	"windjammer/internal/errors"
	"windjammer/internal/lsp"
	"windjammer/internal/query"
)

const mathsURI = "file:///work/maths.wj"

const mathsSource = `fn add(a: int, b: int) -> int {
    a + b
}

struct Point {
    x: int,
    y: int,
}

impl Point {
    fn norm(self) -> int {
        self.x + self.y
    }
}
`

type published struct {
	uri         string
	diagnostics []protocol.Diagnostic
}

// recorder captures the notifications sent to the client
func recorder() (*glsp.Context, *[]published) {
	var sent []published
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method != protocol.ServerTextDocumentPublishDiagnostics {
				return
			}
			p := params.(*protocol.PublishDiagnosticsParams)
			sent = append(sent, published{uri: p.URI, diagnostics: p.Diagnostics})
		},
	}
	return ctx, &sent
}

func open(t *testing.T, h *lsp.Handler, ctx *glsp.Context, uri, text string) {
	t.Helper()
	require.NoError(t, h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "windjammer", Version: 1, Text: text},
	}))
}

func TestInitializeAdvertisesCapabilities(t *testing.T) {
	h := lsp.NewHandler(query.NewDatabase(), "0.1.0")
	res, err := h.Initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)

	result := res.(*protocol.InitializeResult)
	assert.Equal(t, lsp.Name, result.ServerInfo.Name)
	assert.Equal(t, "0.1.0", *result.ServerInfo.Version)
	assert.Equal(t, true, result.Capabilities.DocumentSymbolProvider)
	assert.Equal(t, true, result.Capabilities.WorkspaceSymbolProvider)
	tokens := result.Capabilities.SemanticTokensProvider.(*protocol.SemanticTokensOptions)
	assert.Equal(t, lsp.SemanticTokenTypes, tokens.Legend.TokenTypes)
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	h := lsp.NewHandler(query.NewDatabase(), "test")
	ctx, sent := recorder()

	open(t, h, ctx, mathsURI, mathsSource)
	require.Len(t, *sent, 1)
	assert.Equal(t, mathsURI, (*sent)[0].uri)
	assert.Empty(t, (*sent)[0].diagnostics)

	open(t, h, ctx, "file:///work/broken.wj", "fn broken( {")
	require.Len(t, *sent, 2)
	diags := (*sent)[1].diagnostics
	require.NotEmpty(t, diags)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
	assert.Equal(t, "windjammer", *diags[0].Source)
}

func TestDidChangeAndClose(t *testing.T) {
	db := query.NewDatabase()
	h := lsp.NewHandler(db, "test")
	ctx, sent := recorder()
	open(t, h, ctx, mathsURI, "fn one() -> int { 1 }")

	require.NoError(t, h.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: mathsURI},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 3},
					End:   protocol.Position{Line: 0, Character: 6},
				},
				Text: "two",
			},
		},
	}))
	content, ok := db.Content(mathsURI)
	require.True(t, ok)
	assert.Equal(t, "fn two() -> int { 1 }", content)

	require.NoError(t, h.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: mathsURI},
			Version:                3,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "fn (("}},
	}))
	require.Len(t, *sent, 3)
	assert.NotEmpty(t, (*sent)[2].diagnostics)

	require.NoError(t, h.TextDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: mathsURI},
	}))
	_, ok = db.Content(mathsURI)
	assert.False(t, ok)
	require.Len(t, *sent, 4)
	assert.Empty(t, (*sent)[3].diagnostics)
}

func TestCompletion(t *testing.T) {
	h := lsp.NewHandler(query.NewDatabase(), "test")
	ctx, _ := recorder()
	open(t, h, ctx, mathsURI, mathsSource)
	open(t, h, ctx, "file:///work/shapes.wj", "pub fn area(w: int, h: int) -> int { w * h }\nfn main() { ar }")

	res, err := h.TextDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/shapes.wj"},
			Position:     protocol.Position{Line: 1, Character: 14},
		},
	})
	require.NoError(t, err)

	list := res.(*protocol.CompletionList)
	var labels []string
	for _, item := range list.Items {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"area"}, labels)
	assert.Equal(t, protocol.CompletionItemKindFunction, *list.Items[0].Kind)
	assert.Equal(t, "fn area(w: int, h: int) -> int", *list.Items[0].Detail)

	res, err = h.TextDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/shapes.wj"},
			Position:     protocol.Position{Line: 1, Character: 12},
		},
	})
	require.NoError(t, err)
	labels = nil
	for _, item := range res.(*protocol.CompletionList).Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "add")
	assert.Contains(t, labels, "Point")
	assert.Contains(t, labels, "match")
	assert.NotContains(t, labels, "norm")
}

func TestMemberCompletionAfterSelf(t *testing.T) {
	h := lsp.NewHandler(query.NewDatabase(), "test")
	ctx, _ := recorder()
	open(t, h, ctx, mathsURI, mathsSource)
	open(t, h, ctx, "file:///work/other.wj", "struct Other {\n    xx: int,\n}\n")

	complete := func(line, char uint32) []string {
		res, err := h.TextDocumentCompletion(ctx, &protocol.CompletionParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: mathsURI},
				Position:     protocol.Position{Line: line, Character: char},
			},
		})
		require.NoError(t, err)
		var labels []string
		for _, item := range res.(*protocol.CompletionList).Items {
			labels = append(labels, item.Label)
		}
		return labels
	}

	// "        self.x + self.y": after the first dot, then after "self.y"'s dot with prefix
	assert.Equal(t, []string{"x", "y", "norm"}, complete(11, 13))
	assert.Equal(t, []string{"y"}, complete(11, 23))
}

func TestDocumentSymbols(t *testing.T) {
	h := lsp.NewHandler(query.NewDatabase(), "test")
	ctx, _ := recorder()
	open(t, h, ctx, mathsURI, mathsSource)

	res, err := h.TextDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: mathsURI},
	})
	require.NoError(t, err)

	symbols := res.([]protocol.DocumentSymbol)
	require.Len(t, symbols, 2)
	assert.Equal(t, "add", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[0].Kind)
	assert.Equal(t, protocol.Position{Line: 0, Character: 3}, symbols[0].SelectionRange.Start)

	point := symbols[1]
	assert.Equal(t, "Point", point.Name)
	assert.Equal(t, protocol.SymbolKindStruct, point.Kind)
	var members []string
	for _, child := range point.Children {
		members = append(members, child.Name)
	}
	assert.Equal(t, []string{"x", "y", "norm"}, members)
	assert.Equal(t, protocol.SymbolKindMethod, point.Children[2].Kind)
}

func TestWorkspaceSymbol(t *testing.T) {
	h := lsp.NewHandler(query.NewDatabase(), "test")
	ctx, _ := recorder()
	open(t, h, ctx, mathsURI, mathsSource)
	open(t, h, ctx, "file:///work/other.wj", "fn addAll() {}")

	symbols, err := h.WorkspaceSymbol(ctx, &protocol.WorkspaceSymbolParams{Query: "add"})
	require.NoError(t, err)
	require.Len(t, symbols, 2)

	byURI := map[string]protocol.SymbolInformation{}
	for _, s := range symbols {
		byURI[s.Location.URI] = s
	}
	assert.Equal(t, "add", byURI[mathsURI].Name)
	assert.Equal(t, "addAll", byURI["file:///work/other.wj"].Name)

	symbols, err = h.WorkspaceSymbol(ctx, &protocol.WorkspaceSymbolParams{Query: "norm"})
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "Point", *symbols[0].ContainerName)
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	h := lsp.NewHandler(query.NewDatabase(), "test")
	ctx, _ := recorder()
	open(t, h, ctx, mathsURI, mathsSource)

	tokens, err := h.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: mathsURI},
	})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.Data)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(decoded), 10)

	assertToken(t, &decoded[0], 1, 1, 2, "keyword", nil)
	assertToken(t, &decoded[1], 1, 4, 3, "function", []string{"declaration"})
	assertToken(t, &decoded[2], 1, 8, 1, "parameter", []string{"declaration"})
	assertToken(t, &decoded[3], 1, 11, 3, "type", nil)
	assertToken(t, &decoded[4], 1, 16, 1, "parameter", []string{"declaration"})
	assertToken(t, &decoded[5], 1, 19, 3, "type", nil)
	assertToken(t, &decoded[6], 1, 27, 3, "type", nil)
	assertToken(t, &decoded[7], 2, 5, 1, "variable", nil)
	assertToken(t, &decoded[8], 2, 9, 1, "variable", nil)
	assertToken(t, &decoded[9], 5, 1, 6, "keyword", nil)
	assertToken(t, &decoded[10], 5, 8, 5, "type", []string{"declaration"})
	assertToken(t, &decoded[11], 6, 5, 1, "property", []string{"declaration"})

	var sawField bool
	for i := range decoded {
		if decoded[i].Line == 12 && decoded[i].Char == 14 {
			assertToken(t, &decoded[i], 12, 14, 1, "property", nil)
			sawField = true
		}
	}
	assert.True(t, sawField, "field access on line 12 not classified")
}

func TestSemanticTokensReadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.wj")
	require.NoError(t, os.WriteFile(path, []byte("const LIMIT: int = 10\n"), 0644))

	h := lsp.NewHandler(query.NewDatabase(), "test")
	tokens, err := h.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file://" + filepath.ToSlash(path)},
	})
	require.NoError(t, err)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 4)
	assertToken(t, &decoded[0], 1, 1, 5, "keyword", nil)
	assertToken(t, &decoded[1], 1, 7, 5, "variable", []string{"declaration", "readonly"})
	assertToken(t, &decoded[2], 1, 14, 3, "type", nil)
	assertToken(t, &decoded[3], 1, 20, 2, "number", nil)

	_, err = h.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file://" + filepath.ToSlash(path) + ".missing"},
	})
	assert.Error(t, err)
}

func TestConvertDiagnostics(t *testing.T) {
	diags := lsp.ConvertDiagnostics([]errors.CompilerError{
		{
			Level:    errors.Warning,
			Code:     "W0001",
			Message:  "unused variable",
			Position: ast.Position{Line: 3, Column: 5},
			Length:   4,
			HelpText: "prefix it with an underscore",
		},
		{Level: errors.Error, Message: "no position"},
	})
	require.Len(t, diags, 2)

	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 4},
		End:   protocol.Position{Line: 2, Character: 8},
	}, diags[0].Range)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *diags[0].Severity)
	assert.Equal(t, "W0001", diags[0].Code.Value)
	assert.Equal(t, "unused variable\nhelp: prefix it with an underscore", diags[0].Message)

	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, diags[1].Range.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 1}, diags[1].Range.End)
	assert.Nil(t, diags[1].Code)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
