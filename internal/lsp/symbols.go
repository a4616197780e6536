package lsp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"windjammer/internal/ast"
	"windjammer/internal/parser"
	"windjammer/internal/query"
)

var symbolKinds = map[string]protocol.SymbolKind{
	query.KindFunction: protocol.SymbolKindFunction,
	query.KindMethod:   protocol.SymbolKindMethod,
	query.KindStruct:   protocol.SymbolKindStruct,
	query.KindField:    protocol.SymbolKindField,
	query.KindEnum:     protocol.SymbolKindEnum,
	query.KindVariant:  protocol.SymbolKindEnumMember,
	query.KindTrait:    protocol.SymbolKindInterface,
	query.KindConst:    protocol.SymbolKindConstant,
	query.KindStatic:   protocol.SymbolKindVariable,
	query.KindType:     protocol.SymbolKindTypeParameter,
	query.KindModule:   protocol.SymbolKindModule,
}

var completionKinds = map[string]protocol.CompletionItemKind{
	query.KindFunction: protocol.CompletionItemKindFunction,
	query.KindMethod:   protocol.CompletionItemKindMethod,
	query.KindStruct:   protocol.CompletionItemKindStruct,
	query.KindField:    protocol.CompletionItemKindField,
	query.KindEnum:     protocol.CompletionItemKindEnum,
	query.KindVariant:  protocol.CompletionItemKindEnumMember,
	query.KindTrait:    protocol.CompletionItemKindInterface,
	query.KindConst:    protocol.CompletionItemKindConstant,
	query.KindStatic:   protocol.CompletionItemKindVariable,
	query.KindType:     protocol.CompletionItemKindTypeParameter,
	query.KindModule:   protocol.CompletionItemKindModule,
}

// TextDocumentCompletion offers keywords, the declarations of the document
// and the top-level declarations of every other known file, filtered by the
// word being typed. After a dot it offers fields and methods instead.
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ensure(uri); err != nil {
		return nil, err
	}
	content, _ := h.db.Content(uri)
	prefix := wordBefore(content, params.Position)
	start := offsetOf(content, params.Position) - len(prefix)

	seen := make(map[string]bool)
	items := []protocol.CompletionItem{}
	add := func(item protocol.CompletionItem) {
		if seen[item.Label] || !strings.HasPrefix(item.Label, prefix) {
			return
		}
		seen[item.Label] = true
		items = append(items, item)
	}

	if start > 0 && content[start-1] == '.' {
		for _, s := range h.members(uri, start-1) {
			add(completionItem(s))
		}
		return &protocol.CompletionList{Items: items}, nil
	}

	for _, s := range h.db.SymbolsOf(uri) {
		add(completionItem(s))
	}
	for _, other := range h.db.Files() {
		if other == uri {
			continue
		}
		for _, s := range h.db.SymbolsOf(other) {
			if s.Container == "" {
				add(completionItem(s))
			}
		}
	}
	keyword := protocol.CompletionItemKindKeyword
	for _, word := range parser.Keywords() {
		add(protocol.CompletionItem{Label: word, Kind: &keyword})
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func completionItem(s query.Symbol) protocol.CompletionItem {
	item := protocol.CompletionItem{Label: s.Name}
	if kind, ok := completionKinds[s.Kind]; ok {
		item.Kind = &kind
	}
	if s.Detail != "" {
		item.Detail = ptrString(s.Detail)
	}
	return item
}

// members lists the fields and methods that may follow the dot at offset
// dot. After "self." only the members of the enclosing impl's type qualify.
func (h *Handler) members(uri string, dot int) []query.Symbol {
	owner := ""
	if recv, ok := h.db.NodeAt(uri, dot-1).(*ast.IdentExpr); ok && recv.Name == "self" {
		owner = enclosingImpl(h.db.ProgramOf(uri), dot)
	}

	var out []query.Symbol
	for _, file := range h.db.Files() {
		for _, s := range h.db.SymbolsOf(file) {
			if s.Container == "" || (owner != "" && s.Container != owner) {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}

func enclosingImpl(program *ast.Program, offset int) string {
	if program == nil {
		return ""
	}
	pos := ast.Position{Offset: offset}
	for _, item := range program.Items {
		impl, ok := item.(*ast.Impl)
		if !ok || impl.GetMetadata() == nil {
			continue
		}
		if impl.GetMetadata().Source.Contains(pos) {
			return ast.Print(impl.Target)
		}
	}
	return ""
}

// wordBefore returns the identifier characters left of pos on its line
func wordBefore(content string, pos protocol.Position) string {
	end := offsetOf(content, pos)
	start := end
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(content[:start])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		start -= size
	}
	return content[start:end]
}

// TextDocumentDocumentSymbol lists the declarations of a document. Members
// are nested under the item that declares them; methods of an impl join
// the type they are implemented for when it is declared in the same file.
func (h *Handler) TextDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	uri := params.TextDocument.URI

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.ensure(uri); err != nil {
		return nil, err
	}
	return documentSymbols(h.db.SymbolsOf(uri)), nil
}

func documentSymbols(symbols []query.Symbol) []protocol.DocumentSymbol {
	out := []protocol.DocumentSymbol{}
	parents := make(map[string]int)
	for _, s := range symbols {
		ds := documentSymbol(s)
		if s.Container != "" {
			if i, ok := parents[s.Container]; ok {
				out[i].Children = append(out[i].Children, ds)
				continue
			}
		}
		if s.Container == "" {
			parents[s.Name] = len(out)
		}
		out = append(out, ds)
	}
	return out
}

func documentSymbol(s query.Symbol) protocol.DocumentSymbol {
	r := symbolRange(s)
	ds := protocol.DocumentSymbol{
		Name:           s.Name,
		Kind:           symbolKinds[s.Kind],
		Range:          r,
		SelectionRange: r,
	}
	if s.Detail != "" {
		ds.Detail = ptrString(s.Detail)
	}
	return ds
}

// WorkspaceSymbol searches the declarations of every known file
func (h *Handler) WorkspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := []protocol.SymbolInformation{}
	for _, s := range h.db.FindSymbol(params.Query) {
		info := protocol.SymbolInformation{
			Name: s.Name,
			Kind: symbolKinds[s.Kind],
			Location: protocol.Location{
				URI:   s.URI,
				Range: symbolRange(s),
			},
		}
		if s.Container != "" {
			info.ContainerName = ptrString(s.Container)
		}
		out = append(out, info)
	}
	return out, nil
}

func symbolRange(s query.Symbol) protocol.Range {
	line := uint32(max(s.Line-1, 0))
	start := uint32(max(s.Column-1, 0))
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: start},
		End:   protocol.Position{Line: line, Character: start + uint32(len(s.Name))},
	}
}
