// Package query memoises the per-file front end (scanning, parsing, symbol
// and import extraction) for editor features.
//
// A Database has a single logical owner. Reads may be nested on one
// goroutine, but setting content must not overlap with queries; hosts that
// serve requests concurrently hold one lock around every call.
package query

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/xiaq/persistent/hash"
	"github.com/xiaq/persistent/hashmap"
	"windjammer/internal/ast"
	"windjammer/internal/errors"
	"windjammer/internal/parser"
)

// source is the input of every query on one file
type source struct {
	uri      string
	content  string
	hash     string
	modified time.Time
}

// parsed is the memo of one parse; its hash names the content it was computed from
type parsed struct {
	hash        string
	program     *ast.Program
	result      *parser.ParseResult
	diagnostics []errors.CompilerError
}

type symbolsMemo struct {
	hash    string
	symbols []Symbol
}

type importsMemo struct {
	hash    string
	imports []string
}

var emptyMap = hashmap.New(keyEqual, keyHash)

func keyEqual(k1, k2 interface{}) bool {
	return k1.(string) == k2.(string)
}

func keyHash(k interface{}) uint32 {
	return hash.String(k.(string))
}

// Database holds the inputs and the memo tables, all keyed by file URI
type Database struct {
	files    hashmap.Map
	programs hashmap.Map
	symbols  hashmap.Map
	imports  hashmap.Map

	cache    *DiskCache
	cacheErr error
	now      func() time.Time

	// Parses counts front-end runs, for observing memo hits
	Parses int
}

// NewDatabase returns an empty database
func NewDatabase() *Database {
	return &Database{
		files:    emptyMap,
		programs: emptyMap,
		symbols:  emptyMap,
		imports:  emptyMap,
		now:      time.Now,
	}
}

// WithCache backs symbol and import queries with an on-disk cache
func (db *Database) WithCache(cache *DiskCache) *Database {
	db.cache = cache
	return db
}

// ContentHash returns the identity of a file content
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// SetContent records the current content of a file. Memos of the file are
// dropped when the content differs from what they were computed from;
// setting identical content keeps them.
func (db *Database) SetContent(uri, content string) {
	h := ContentHash(content)
	if v, ok := db.files.Index(uri); ok && v.(*source).hash == h {
		return
	}
	db.files = db.files.Assoc(uri, &source{uri: uri, content: content, hash: h, modified: db.now()})
	db.invalidate(uri)
}

// RemoveFile forgets a file and everything computed from it
func (db *Database) RemoveFile(uri string) {
	db.files = db.files.Dissoc(uri)
	db.invalidate(uri)
}

func (db *Database) invalidate(uri string) {
	db.programs = db.programs.Dissoc(uri)
	db.symbols = db.symbols.Dissoc(uri)
	db.imports = db.imports.Dissoc(uri)
}

func (db *Database) source(uri string) *source {
	if v, ok := db.files.Index(uri); ok {
		return v.(*source)
	}
	return nil
}

// Content returns the current content of a file
func (db *Database) Content(uri string) (string, bool) {
	src := db.source(uri)
	if src == nil {
		return "", false
	}
	return src.content, true
}

// Files lists the known file URIs in order
func (db *Database) Files() []string {
	return sortedKeys(db.files)
}

func (db *Database) parse(uri string) *parsed {
	src := db.source(uri)
	if src == nil {
		return nil
	}
	if v, ok := db.programs.Index(uri); ok && v.(*parsed).hash == src.hash {
		return v.(*parsed)
	}
	db.Parses++
	result := parser.ParseSourceWithMetadata(uri, src.content)
	if result.Program == nil {
		result.Program = &ast.Program{}
	}
	p := &parsed{
		hash:        src.hash,
		program:     result.Program,
		result:      result,
		diagnostics: result.Diagnostics(uri),
	}
	db.programs = db.programs.Assoc(uri, p)
	return p
}

// ProgramOf returns the syntax tree of a file, or nil for an unknown file.
// Consecutive calls with unchanged content return the same tree.
func (db *Database) ProgramOf(uri string) *ast.Program {
	if p := db.parse(uri); p != nil {
		return p.program
	}
	return nil
}

// NodeAt returns the innermost node of a file covering a byte offset. Nodes
// carry metadata assigned at parse time; IDs are stable while the content is
// unchanged.
func (db *Database) NodeAt(uri string, offset int) ast.Node {
	if p := db.parse(uri); p != nil {
		return p.result.FindNodeAt(offset)
	}
	return nil
}

// DiagnosticsOf returns the lexical and syntax errors of a file
func (db *Database) DiagnosticsOf(uri string) []errors.CompilerError {
	if p := db.parse(uri); p != nil {
		return p.diagnostics
	}
	return nil
}

// SymbolsOf returns the declarations of a file
func (db *Database) SymbolsOf(uri string) []Symbol {
	src := db.source(uri)
	if src == nil {
		return nil
	}
	if v, ok := db.symbols.Index(uri); ok && v.(*symbolsMemo).hash == src.hash {
		return v.(*symbolsMemo).symbols
	}
	if rec := db.cached(src); rec != nil {
		db.remember(src, rec.Symbols, rec.Imports)
		return rec.Symbols
	}
	symbols := ExtractSymbols(uri, db.ProgramOf(uri))
	imports := db.ImportsOf(uri)
	db.symbols = db.symbols.Assoc(uri, &symbolsMemo{hash: src.hash, symbols: symbols})
	db.store(src, symbols, imports)
	return symbols
}

// ImportsOf returns the module paths a file imports, in source order
func (db *Database) ImportsOf(uri string) []string {
	src := db.source(uri)
	if src == nil {
		return nil
	}
	if v, ok := db.imports.Index(uri); ok && v.(*importsMemo).hash == src.hash {
		return v.(*importsMemo).imports
	}
	if rec := db.cached(src); rec != nil {
		db.remember(src, rec.Symbols, rec.Imports)
		return rec.Imports
	}
	imports := ExtractImports(db.ProgramOf(uri))
	db.imports = db.imports.Assoc(uri, &importsMemo{hash: src.hash, imports: imports})
	return imports
}

// FindSymbol searches the declarations of every file by name; a symbol
// matches when its name contains query, case-sensitively
func (db *Database) FindSymbol(query string) []Symbol {
	var out []Symbol
	for _, uri := range db.Files() {
		for _, s := range db.SymbolsOf(uri) {
			if query == "" || strings.Contains(s.Name, query) {
				out = append(out, s)
			}
		}
	}
	return out
}

// CacheError returns the last error raised by the disk cache, if any
func (db *Database) CacheError() error {
	return db.cacheErr
}

func (db *Database) cached(src *source) *Record {
	if db.cache == nil {
		return nil
	}
	rec, err := db.cache.Load(src.uri, src.hash)
	if err != nil {
		db.cacheErr = err
		return nil
	}
	return rec
}

func (db *Database) remember(src *source, symbols []Symbol, imports []string) {
	db.symbols = db.symbols.Assoc(src.uri, &symbolsMemo{hash: src.hash, symbols: symbols})
	db.imports = db.imports.Assoc(src.uri, &importsMemo{hash: src.hash, imports: imports})
}

func (db *Database) store(src *source, symbols []Symbol, imports []string) {
	if db.cache == nil {
		return
	}
	err := db.cache.Store(&Record{
		URI:      src.uri,
		Hash:     src.hash,
		Modified: src.modified,
		Symbols:  symbols,
		Imports:  imports,
	})
	if err != nil {
		db.cacheErr = err
	}
}

// Snapshot is an immutable view of a database. It shares the memo tables
// with the database at the time it was taken and sees no later changes.
type Snapshot struct {
	files    hashmap.Map
	programs hashmap.Map
	symbols  hashmap.Map
}

// Snapshot captures the current inputs and memos
func (db *Database) Snapshot() *Snapshot {
	return &Snapshot{files: db.files, programs: db.programs, symbols: db.symbols}
}

// Files lists the file URIs known to the snapshot
func (s *Snapshot) Files() []string {
	return sortedKeys(s.files)
}

// Content returns a file's content as of the snapshot
func (s *Snapshot) Content(uri string) (string, bool) {
	if v, ok := s.files.Index(uri); ok {
		return v.(*source).content, true
	}
	return "", false
}

// Program returns the memoised tree of a file, if it was computed for the
// snapshot's content
func (s *Snapshot) Program(uri string) (*ast.Program, bool) {
	src, ok := s.files.Index(uri)
	if !ok {
		return nil, false
	}
	if v, ok := s.programs.Index(uri); ok && v.(*parsed).hash == src.(*source).hash {
		return v.(*parsed).program, true
	}
	return nil, false
}

// Symbols returns the memoised declarations of a file
func (s *Snapshot) Symbols(uri string) ([]Symbol, bool) {
	src, ok := s.files.Index(uri)
	if !ok {
		return nil, false
	}
	if v, ok := s.symbols.Index(uri); ok && v.(*symbolsMemo).hash == src.(*source).hash {
		return v.(*symbolsMemo).symbols, true
	}
	return nil, false
}

func sortedKeys(m hashmap.Map) []string {
	keys := make([]string, 0, m.Len())
	for it := m.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		keys = append(keys, k.(string))
	}
	sort.Strings(keys)
	return keys
}
