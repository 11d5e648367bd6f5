package build

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/velalang/vela/internal/manifest"
)

// manifestFileName is the fixed on-disk name registerLibrary walks upward
// looking for (§4.3, §6 "Library manifest").
const manifestFileName = "vela.yaml"

// Library is either a disk library (rooted at a directory with a manifest)
// or a mocked library wrapping a single ad-hoc source file.
type Library interface {
	// Identity uniquely identifies this library for the process-wide
	// primitive-factory cache (§4.3, §5).
	Identity() string
	Root() string
	Sources() []string
	// Mocked reports whether this is a single-file mock library (§4.3).
	Mocked() bool
}

// DiskLibrary is rooted at a directory containing a manifest.
type DiskLibrary struct {
	id      string
	root    string
	Config  *manifest.LibraryConfig
	sources []string
}

func (l *DiskLibrary) Identity() string   { return l.id }
func (l *DiskLibrary) Root() string       { return l.root }
func (l *DiskLibrary) Sources() []string  { return l.sources }
func (l *DiskLibrary) Mocked() bool       { return false }
func (l *DiskLibrary) AddSource(uri string) {
	l.sources = append(l.sources, uri)
}
func (l *DiskLibrary) RemoveSource(uri string) {
	out := l.sources[:0]
	for _, s := range l.sources {
		if s != uri {
			out = append(out, s)
		}
	}
	l.sources = out
}

// MockLibrary wraps a single ad-hoc source file discovered with no manifest
// in any enclosing directory (§4.3).
type MockLibrary struct {
	id     string
	source string
}

func (l *MockLibrary) Identity() string  { return l.id }
func (l *MockLibrary) Root() string      { return filepath.Dir(l.source) }
func (l *MockLibrary) Sources() []string { return []string{l.source} }
func (l *MockLibrary) Mocked() bool      { return true }

// findManifest walks upward from path looking for manifestFileName, bounded
// by stopping at the filesystem root.
func findManifest(path string) (string, bool) {
	dir := path
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		dir = filepath.Dir(path)
	}
	for {
		candidate := filepath.Join(dir, manifestFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// maxDiscoveryDepth bounds source discovery under a mocked root (§4.3
// "to a bounded depth").
const maxDiscoveryDepth = 6

// discoverSources walks beneath root up to maxDiscoveryDepth looking for
// vela source files (.vela), used when registerLibrary finds no manifest.
func discoverSources(root string) []string {
	var out []string
	base := root
	if fi, err := os.Stat(root); err == nil && !fi.IsDir() {
		out = append(out, root)
		return out
	}
	depthOf := func(p string) int {
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return 0
		}
		if rel == "." {
			return 0
		}
		return len(strings.Split(rel, string(filepath.Separator)))
	}
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if depthOf(path) > maxDiscoveryDepth {
			return filepath.SkipDir
		}
		if filepath.Ext(path) == ".vela" {
			out = append(out, path)
		}
		return nil
	})
	return out
}

// newLibraryIdentity mints a process-wide unique identity for a freshly
// registered library, grounded on the pack's uuid.New() style
// (theRebelliousNerd-codenerd's campaign/session id minting).
func newLibraryIdentity() string {
	return uuid.New().String()
}
