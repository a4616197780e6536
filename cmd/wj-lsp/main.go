// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp/server"

	"windjammer/internal/lsp"
	"windjammer/internal/query"
)

var version = "0.1.0" // Server version

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	db := query.NewDatabase()
	if cache := openCache(); cache != nil {
		defer cache.Close()
		db = db.WithCache(cache)
	}

	handler := lsp.NewHandler(db, version).ProtocolHandler()
	s := server.NewServer(handler, lsp.Name, false)

	log.Println("Starting Windjammer LSP server...")

	// Editors talk to the server over standard input/output
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting Windjammer LSP server:", err)
		os.Exit(1)
	}
}

// openCache opens the symbol cache shared between sessions; the server runs
// without one when it cannot be opened
func openCache() *query.DiskCache {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		log.Println("No user cache directory:", err)
		return nil
	}
	path := query.CachePath(cacheDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Println("Cannot create cache directory:", err)
		return nil
	}
	cache, err := query.OpenDiskCache(path)
	if err != nil {
		log.Println("Cache disabled:", err)
		return nil
	}
	return cache
}
