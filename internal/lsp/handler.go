package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"windjammer/internal/errors"
	"windjammer/internal/query"
	"windjammer/internal/semantic"
)

// Name is the server name reported to clients
const Name = "windjammer"

// Handler implements the LSP server handlers for Windjammer sources. Every
// request goes through the query database while holding mu.
type Handler struct {
	mu      sync.Mutex
	db      *query.Database
	log     commonlog.Logger
	version string
	trace   protocol.TraceValue
}

// NewHandler creates a handler over db
func NewHandler(db *query.Database, version string) *Handler {
	return &Handler{
		db:      db,
		log:     commonlog.GetLogger("windjammer.lsp"),
		version: version,
		trace:   protocol.TraceValueOff,
	}
}

// ProtocolHandler wires the handler methods into a glsp protocol handler
func (h *Handler) ProtocolHandler() *protocol.Handler {
	return &protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentCompletion:         h.TextDocumentCompletion,
		TextDocumentDocumentSymbol:     h.TextDocumentDocumentSymbol,
		WorkspaceSymbol:                h.WorkspaceSymbol,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}
}

// Initialize responds to the client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	h.log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider:   ptrBool(false),
				TriggerCharacters: []string{"."},
			},
			DocumentSymbolProvider:  true,
			WorkspaceSymbolProvider: true,
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: true,
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &h.version,
		},
	}, nil
}

// Initialized is called once the client has received the capabilities
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.log.Info("initialized")
	return nil
}

// Shutdown handles the shutdown request
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	h.log.Info("shutdown")
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.db.CacheError(); err != nil {
		h.log.Warningf("disk cache: %s", err)
	}
	return nil
}

// SetTrace records the trace level requested by the client
func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	h.mu.Lock()
	h.trace = params.Value
	h.mu.Unlock()
	return nil
}

// TextDocumentDidOpen records the content of an opened file
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	h.log.Debugf("opened %s", uri)

	h.mu.Lock()
	h.db.SetContent(uri, params.TextDocument.Text)
	diagnostics := h.diagnostics(uri)
	h.mu.Unlock()

	publishDiagnostics(ctx, uri, diagnostics)
	return nil
}

// TextDocumentDidChange applies edits to an open file
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	h.log.Debugf("changed %s", uri)

	h.mu.Lock()
	content, _ := h.db.Content(uri)
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				content = c.Text
			} else {
				content = applyEdit(content, *c.Range, c.Text)
			}
		}
	}
	h.db.SetContent(uri, content)
	diagnostics := h.diagnostics(uri)
	h.mu.Unlock()

	publishDiagnostics(ctx, uri, diagnostics)
	return nil
}

// TextDocumentDidClose forgets a closed file and clears its diagnostics
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	h.log.Debugf("closed %s", uri)

	h.mu.Lock()
	h.db.RemoveFile(uri)
	h.mu.Unlock()

	publishDiagnostics(ctx, uri, []protocol.Diagnostic{})
	return nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for a whole document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := params.TextDocument.URI

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ensure(uri); err != nil {
		return nil, err
	}
	content, _ := h.db.Content(uri)
	tokens := collectSemanticTokens(content, h.db.ProgramOf(uri))

	return &protocol.SemanticTokens{Data: encodeSemanticTokens(tokens)}, nil
}

// diagnostics computes the diagnostics of a file. Semantic checks only run
// on files that parse cleanly.
func (h *Handler) diagnostics(uri string) []protocol.Diagnostic {
	errs := h.db.DiagnosticsOf(uri)
	if len(errs) == 0 {
		if program := h.db.ProgramOf(uri); program != nil {
			errs = semantic.Analyze(program, semantic.Options{}).Diagnostics
		}
	}
	if h.trace == protocol.TraceValueVerbose {
		h.log.Debugf("%s: %d diagnostics", uri, len(errs))
	}
	return ConvertDiagnostics(errs)
}

// ensure loads a file from disk when the client asks about one it never opened
func (h *Handler) ensure(uri string) error {
	if _, ok := h.db.Content(uri); ok {
		return nil
	}
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	h.db.SetContent(uri, string(content))
	return nil
}

// applyEdit replaces the text covered by r; positions count characters
func applyEdit(content string, r protocol.Range, text string) string {
	start := offsetOf(content, r.Start)
	end := offsetOf(content, r.End)
	if end < start {
		start, end = end, start
	}
	return content[:start] + text + content[end:]
}

func offsetOf(content string, pos protocol.Position) int {
	line := uint32(0)
	offset := 0
	for line < pos.Line {
		i := strings.IndexByte(content[offset:], '\n')
		if i < 0 {
			return len(content)
		}
		offset += i + 1
		line++
	}
	col := uint32(0)
	for i := range content[offset:] {
		if col == pos.Character || content[offset+i] == '\n' {
			return offset + i
		}
		col++
	}
	return len(content)
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func levelSeverity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	case errors.Help:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrString(s string) *string {
	return &s
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
