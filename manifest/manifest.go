// Package manifest handles typeshift.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a typeshift.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Build   Build   `toml:"build"`

	// Dir is the directory containing the typeshift.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Build configures compiler input and output.
type Build struct {
	// Input is the AST file produced by the frontend, relative to Dir.
	Input string `toml:"input"`

	// Output is the binary path, relative to Dir.
	Output string `toml:"output"`

	// Debug writes a CBOR debug sidecar next to the output.
	Debug bool `toml:"debug"`

	// Cache is an optional sqlite database caching compiled binaries.
	Cache string `toml:"cache"`
}

// Load parses a typeshift.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "typeshift.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Build.Input == "" {
		m.Build.Input = "ast.json"
	}
	if m.Build.Output == "" {
		m.Build.Output = "program.tsb"
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a typeshift.toml file, then
// loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "typeshift.toml")); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// InputPath returns the absolute path of the AST input file.
func (m *Manifest) InputPath() string {
	return filepath.Join(m.Dir, m.Build.Input)
}

// OutputPath returns the absolute path of the binary output file.
func (m *Manifest) OutputPath() string {
	return filepath.Join(m.Dir, m.Build.Output)
}
