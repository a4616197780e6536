package rust

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml"

	"windjammer/internal/decorators"
	"windjammer/internal/stdlib"
)

// DefaultRuntimePath is where generated crates find the runtime crate
const DefaultRuntimePath = "../windjammer/crates/windjammer-runtime"

// ManifestOptions describe the crate a build produces
type ManifestOptions struct {
	Name    string
	Version string
	Target  decorators.Target

	// Binary selects a [[bin]] target with entry src/main.rs
	Binary bool

	// Imports are the std module paths used across the crate
	Imports []string

	// Dependencies are extra crates from the project file, name to version
	Dependencies map[string]string

	RuntimePath string
}

// tomlManifest represents Cargo.toml as it is encoded in TOML
type tomlManifest struct {
	Package *tomlPackage  `toml:"package"`
	Lib     *tomlTarget   `toml:"lib,omitempty"`
	Bin     []*tomlTarget `toml:"bin,omitempty"`
	Profile *tomlProfiles `toml:"profile,omitempty"`

	// Dependencies mix plain versions with tables and are written as a tree
	Dependencies map[string]interface{} `toml:"-"`
}

type tomlPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
}

type tomlTarget struct {
	Name      string   `toml:"name,omitempty"`
	Path      string   `toml:"path"`
	CrateType []string `toml:"crate-type,omitempty"`
}

// tomlDependency is the table form of a dependency; plain versions are encoded as strings
type tomlDependency struct {
	Version  string
	Path     string
	Features []string
}

func (d *tomlDependency) tree() (*toml.Tree, error) {
	m := make(map[string]interface{})
	if d.Version != "" {
		m["version"] = d.Version
	}
	if d.Path != "" {
		m["path"] = d.Path
	}
	if len(d.Features) > 0 {
		m["features"] = d.Features
	}
	return toml.TreeFromMap(m)
}

type tomlProfiles struct {
	Release *tomlReleaseProfile `toml:"release"`
}

type tomlReleaseProfile struct {
	OptLevel string `toml:"opt-level"`
	LTO      bool   `toml:"lto"`
}

// Manifest renders the Cargo.toml of a generated crate
func Manifest(opts ManifestOptions) ([]byte, error) {
	name := crateName(opts.Name)
	version := opts.Version
	if version == "" {
		version = "0.1.0"
	}
	m := &tomlManifest{
		Package:      &tomlPackage{Name: name, Version: version, Edition: "2021"},
		Dependencies: make(map[string]interface{}),
	}

	switch {
	case opts.Target == decorators.WASM:
		m.Lib = &tomlTarget{Path: "src/lib.rs", CrateType: []string{"cdylib"}}
		m.Dependencies["wasm-bindgen"] = "0.2"
		m.Profile = &tomlProfiles{Release: &tomlReleaseProfile{OptLevel: "z", LTO: true}}
	case opts.Binary:
		m.Bin = []*tomlTarget{{Name: name, Path: "src/main.rs"}}
	default:
		m.Lib = &tomlTarget{Path: "src/lib.rs"}
	}

	for _, c := range stdlib.CratesFor(opts.Imports) {
		if len(c.Features) == 0 {
			m.Dependencies[c.Name] = c.Version
			continue
		}
		m.Dependencies[c.Name] = &tomlDependency{Version: c.Version, Features: c.Features}
	}
	if stdlib.UsesRuntime(opts.Imports) {
		runtime := opts.RuntimePath
		if runtime == "" {
			runtime = DefaultRuntimePath
		}
		m.Dependencies[stdlib.RuntimeCrate] = &tomlDependency{Path: runtime}
	}
	for dep, version := range opts.Dependencies {
		if _, ok := m.Dependencies[dep]; !ok {
			m.Dependencies[dep] = version
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Order(toml.OrderPreserve).Indentation("").Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode Cargo.toml: %w", err)
	}
	deps, err := dependencyTable(m.Dependencies)
	if err != nil {
		return nil, fmt.Errorf("failed to encode Cargo.toml: %w", err)
	}
	buf.WriteString(deps)
	return buf.Bytes(), nil
}

// dependencyTable renders [dependencies]. Plain versions are written before
// the sub-tables so none of them lands inside a crate's table.
func dependencyTable(deps map[string]interface{}) (string, error) {
	tree, err := toml.TreeFromMap(map[string]interface{}{
		"dependencies": map[string]interface{}{},
	})
	if err != nil {
		return "", err
	}
	for name, dep := range deps {
		switch dep := dep.(type) {
		case *tomlDependency:
			sub, err := dep.tree()
			if err != nil {
				return "", err
			}
			tree.SetPath([]string{"dependencies", name}, sub)
		default:
			tree.SetPath([]string{"dependencies", name}, dep)
		}
	}
	return tree.ToTomlString()
}

// crateName turns a project name into a valid package name
func crateName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "windjammer-app"
	}
	return out
}
