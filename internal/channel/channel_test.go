package channel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	known map[string]bool
}

func (s *stubBackend) Locate(uri string) bool { return s.known[uri] }
func (s *stubBackend) Hover(uri string, pos Position) (HoverResponse, bool) {
	return HoverResponse{Contents: "Bool"}, true
}
func (s *stubBackend) Definition(uri string, pos Position) (DefinitionResponse, bool) {
	return DefinitionResponse{URI: uri, Range: Range{}}, true
}
func (s *stubBackend) References(uri string, pos Position) []DefinitionResponse { return nil }
func (s *stubBackend) PrepareRename(uri string, pos Position) PrepareRenameResponse {
	return PrepareRenameResponse{OK: true, Identifier: "x"}
}
func (s *stubBackend) Rename(uri string, pos Position, newName string) []TextEdit { return nil }
func (s *stubBackend) CodeLens(uri string) []CodeLens                            { return nil }
func (s *stubBackend) ResolveCodeLens(uri string, lens CodeLens) (CodeLens, bool) {
	lens.Command = "vela.showNormalForm"
	return lens, true
}
func (s *stubBackend) ComputeTerm(req ComputeTermRequest) ComputeTermResponse {
	return ComputeTermResponse{Rendered: "λx. x"}
}

func TestHoverRespondsEmptyForUnknownURI(t *testing.T) {
	srv := NewServer(&stubBackend{known: map[string]bool{}})
	resp, ok := srv.Hover("unknown.vela", Position{})
	require.False(t, ok)
	require.Equal(t, HoverResponse{}, resp)
}

func TestHoverRespondsForKnownURI(t *testing.T) {
	srv := NewServer(&stubBackend{known: map[string]bool{"a.vela": true}})
	resp, ok := srv.Hover("a.vela", Position{})
	require.True(t, ok)
	require.Equal(t, "Bool", resp.Contents)
}

func TestComputeTermBadInputForUnknownURI(t *testing.T) {
	srv := NewServer(&stubBackend{known: map[string]bool{}})
	resp := srv.ComputeTerm(ComputeTermRequest{URI: "nope.vela"})
	require.True(t, resp.BadInput)
}

func TestCompletionAlwaysEmpty(t *testing.T) {
	srv := NewServer(&stubBackend{known: map[string]bool{"a.vela": true}})
	require.Empty(t, srv.Completion("a.vela", Position{}))
}

func TestCodeLensResolveRespondsEmptyForUnknownURI(t *testing.T) {
	srv := NewServer(&stubBackend{known: map[string]bool{}})
	resp := srv.CodeLensResolve(CodeLensResolveRequest{URI: "unknown.vela"})
	require.False(t, resp.OK)
	require.Equal(t, CodeLensResolveResponse{}, resp)
}

func TestCodeLensResolveFillsCommandForKnownURI(t *testing.T) {
	srv := NewServer(&stubBackend{known: map[string]bool{"a.vela": true}})
	resp := srv.CodeLensResolve(CodeLensResolveRequest{URI: "a.vela", Lens: CodeLens{Title: "Normalize"}})
	require.True(t, resp.OK)
	require.Equal(t, "vela.showNormalForm", resp.Lens.Command)
}
