package js

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// ManifestOptions name the generated package
type ManifestOptions struct {
	Name    string
	Version string
}

type packageManifest struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Type    string            `json:"type"`
	Main    string            `json:"main"`
	Types   string            `json:"types"`
	Exports map[string]export `json:"exports"`
	Engines map[string]string `json:"engines"`
}

type export struct {
	Types   string `json:"types"`
	Default string `json:"default"`
}

// Manifest returns the package.json of the script target
func Manifest(opts ManifestOptions) ([]byte, error) {
	version := opts.Version
	if version == "" {
		version = "0.1.0"
	}
	m := packageManifest{
		Name:    PackageName(opts.Name),
		Version: version,
		Type:    "module",
		Main:    ScriptFile,
		Types:   DeclarationFile,
		Exports: map[string]export{
			".": {Types: "./" + DeclarationFile, Default: "./" + ScriptFile},
		},
		Engines: map[string]string{"node": ">=18"},
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PackageName lowercases name and replaces characters npm rejects with dashes
func PackageName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	s := strings.Trim(b.String(), "-.")
	if s == "" {
		return "windjammer-app"
	}
	return s
}
