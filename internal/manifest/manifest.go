// Package manifest loads a library's on-disk manifest (§6 "Library
// manifest"). The schema-versioning and status-enum texture follows a
// JSON-schema-backed manifest loader, but the payload and format
// (YAML) are vela's own: a LibraryConfig with at least name and
// librarySources, per §6.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SchemaVersion tags the manifest format this loader understands.
const SchemaVersion = "vela.library/v1"

// Status describes a library's declared maturity, carried through for
// display purposes only — it has no effect on the build graph.
type Status string

const (
	StatusStable       Status = "stable"
	StatusExperimental Status = "experimental"
)

// LibraryConfig is the decoded content of a library manifest (§6): at least
// a name and the set of library source paths, relative to the manifest's
// directory.
type LibraryConfig struct {
	Schema         string   `yaml:"schema"`
	Name           string   `yaml:"name"`
	Version        string   `yaml:"version,omitempty"`
	Status         Status   `yaml:"status,omitempty"`
	LibrarySources []string `yaml:"librarySources"`
	Dependencies   []string `yaml:"dependencies,omitempty"`
}

// Load reads and decodes a LibraryConfig from a manifest file at path.
func Load(path string) (*LibraryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var cfg LibraryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the minimal required fields (§6: "at least name and
// librarySources").
func (c *LibraryConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("manifest missing required field: name")
	}
	if len(c.LibrarySources) == 0 {
		return fmt.Errorf("manifest %q declares no librarySources", c.Name)
	}
	return nil
}

// ResolveSources returns LibrarySources joined against the manifest's
// directory, so callers need not know manifestDir separately.
func (c *LibraryConfig) ResolveSources(manifestDir string) []string {
	out := make([]string, len(c.LibrarySources))
	for i, s := range c.LibrarySources {
		if filepath.IsAbs(s) {
			out[i] = s
		} else {
			out[i] = filepath.Join(manifestDir, s)
		}
	}
	return out
}
