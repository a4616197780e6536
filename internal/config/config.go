// Package config loads the wj.toml project file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"

	"windjammer/internal/decorators"
)

// FileName is the project file looked up next to the build root
const FileName = "wj.toml"

const (
	DefaultVersion = "0.1.0"
	DefaultOutput  = "build"
)

// tomlProjectFile represents wj.toml as it is encoded in TOML
type tomlProjectFile struct {
	Package      *tomlPackage      `toml:"package"`
	Build        *tomlBuild        `toml:"build"`
	Dependencies map[string]string `toml:"dependencies,omitempty"`
}

type tomlPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type tomlBuild struct {
	Target string `toml:"target"`
	Output string `toml:"output"`
}

// Config is a resolved project configuration
type Config struct {
	Name    string
	Version string
	Target  decorators.Target

	// Output is the directory generated files are written to
	Output string

	// Dependencies are extra crates for the systems and wasm manifests
	Dependencies map[string]string

	// Path is the project file the values came from, empty when defaulted
	Path string
}

// Overrides are values given on the command line; empty fields keep the
// configured value
type Overrides struct {
	Target string
	Output string
}

// Load resolves the configuration of the build root input, which may be a
// single .wj file or a project directory. A missing project file yields
// defaults.
func Load(input string) (*Config, error) {
	dir, stem := locate(input)
	cfg := &Config{
		Name:         stem,
		Version:      DefaultVersion,
		Target:       decorators.Systems,
		Output:       filepath.Join(".", DefaultOutput),
		Dependencies: map[string]string{},
	}

	path := filepath.Join(dir, FileName)
	buff, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	tpf := &tomlProjectFile{}
	if err := toml.Unmarshal(buff, tpf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Path = path

	if pkg := tpf.Package; pkg != nil {
		if pkg.Name != "" {
			cfg.Name = pkg.Name
		}
		if pkg.Version != "" {
			cfg.Version = pkg.Version
		}
	}
	if b := tpf.Build; b != nil {
		if b.Target != "" {
			target, err := decorators.ParseTarget(b.Target)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			cfg.Target = target
		}
		if b.Output != "" {
			cfg.Output = b.Output
		}
	}
	for name, version := range tpf.Dependencies {
		cfg.Dependencies[name] = version
	}
	return cfg, nil
}

// Apply merges command line values into the configuration
func (c *Config) Apply(o Overrides) error {
	if o.Target != "" {
		target, err := decorators.ParseTarget(o.Target)
		if err != nil {
			return err
		}
		c.Target = target
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	return nil
}

// Write saves a project file for cfg at dir
func Write(dir string, cfg *Config) error {
	tpf := &tomlProjectFile{
		Package:      &tomlPackage{Name: cfg.Name, Version: cfg.Version},
		Build:        &tomlBuild{Target: cfg.Target.String(), Output: cfg.Output},
		Dependencies: cfg.Dependencies,
	}

	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Order(toml.OrderPreserve).Encode(tpf)
}

// locate returns the directory holding the project file and the default
// package name for input
func locate(input string) (dir, stem string) {
	abs, err := filepath.Abs(input)
	if err != nil {
		abs = input
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return abs, filepath.Base(abs)
	}
	base := filepath.Base(abs)
	return filepath.Dir(abs), strings.TrimSuffix(base, filepath.Ext(base))
}
