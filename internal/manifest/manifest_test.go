package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "vela.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
schema: vela.library/v1
name: Stdlib
version: "1.0.0"
status: stable
librarySources:
  - src/Prelude.vela
  - src/Path.vela
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Stdlib", cfg.Name)
	require.Len(t, cfg.LibrarySources, 2)
}

func TestLoadMissingNameFails(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
librarySources:
  - src/A.vela
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingSourcesFails(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
name: Empty
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestResolveSourcesJoinsManifestDir(t *testing.T) {
	cfg := &LibraryConfig{Name: "X", LibrarySources: []string{"a.vela", "/abs/b.vela"}}
	resolved := cfg.ResolveSources("/lib/root")
	require.Equal(t, "/lib/root/a.vela", resolved[0])
	require.Equal(t, "/abs/b.vela", resolved[1])
}
