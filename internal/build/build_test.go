package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velalang/vela/internal/errors"
)

type fakeCompiler struct {
	importsOf   map[string][]string
	failOn      map[string]bool
	seenFactory map[string]*PrimitiveFactory
}

func (f *fakeCompiler) Compile(uri string, content []byte, primitives *PrimitiveFactory) ([]string, []*errors.Report, error) {
	if f.seenFactory == nil {
		f.seenFactory = make(map[string]*PrimitiveFactory)
	}
	f.seenFactory[uri] = primitives
	if f.failOn[uri] {
		return nil, []*errors.Report{{Code: "BLD002", Message: "boom"}}, errors.WrapReport(&errors.Report{Code: "BLD002", Message: "boom"})
	}
	return f.importsOf[uri], nil, nil
}

type fakePublisher struct {
	published map[string][]*errors.Report
}

func (p *fakePublisher) PublishDiagnostics(uri string, diags []*errors.Report) {
	if p.published == nil {
		p.published = make(map[string][]*errors.Report)
	}
	p.published[uri] = diags
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// S6. File edit flow, dependency half: a.vela imports b.vela; after a first
// Reload both are TypeChecked, and modifying b.vela marks both Fresh for the
// next Reload. Reload publishes per-file diagnostics in no defined order, so
// no publication order is checked here.
func TestReloadTracksDependentsOnModify(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "vela.yaml", "name: Lib\nlibrarySources:\n  - a.vela\n  - b.vela\n")
	aPath := writeSource(t, dir, "a.vela", "import B")
	bPath := writeSource(t, dir, "b.vela", "module B")

	comp := &fakeCompiler{importsOf: map[string][]string{aPath: {bPath}}}
	pub := &fakePublisher{}
	orch := NewOrchestrator(comp, pub, nil, nil)

	lib, err := orch.RegisterLibrary(dir)
	require.NoError(t, err)
	require.False(t, lib.Mocked())

	orch.Reload()
	entry := orch.libraries[lib.Identity()]
	aNode, _ := entry.graph.Node(aPath)
	bNode, _ := entry.graph.Node(bPath)
	require.Equal(t, TypeChecked, aNode.State)
	require.Equal(t, TypeChecked, bNode.State)

	orch.DidChangeWatchedFiles(FileEvent{URI: bPath, Kind: EventModified})
	require.Equal(t, Fresh, bNode.State)
	require.Equal(t, Fresh, aNode.State, "dependent of modified file must also go Fresh")
}

func TestGraphTopoSortDetectsCycle(t *testing.T) {
	g := NewGraph()
	g.SetImports("a", []string{"b"})
	g.SetImports("b", []string{"a"})

	_, err := g.TopoSort("a")
	require.Error(t, err)
	var cerr *CycleError
	require.ErrorAs(t, err, &cerr)
}

func TestGraphTopoSortOrdersDependenciesFirst(t *testing.T) {
	g := NewGraph()
	g.SetImports("a", []string{"b"})
	g.SetImports("b", []string{"c"})
	g.EnsureNode("c")

	sorted, err := g.TopoSort("a")
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "a"}, sorted)
}

func TestContentHashAdvisorReusesUnchangedContent(t *testing.T) {
	adv := NewContentHashAdvisor()
	node := &Node{URI: "x.vela", State: TypeChecked}
	content := []byte("module X")

	require.False(t, adv.ShouldReuse(node, content), "no observation yet")
	adv.Observe(node, content)
	require.True(t, adv.ShouldReuse(node, content))
	require.False(t, adv.ShouldReuse(node, []byte("module X2")))
}

// §4.3: two compiles within the same library reload pass must see the exact
// same *PrimitiveFactory, not merely an equal one — exercised through Reload
// itself, not just the cache in isolation.
func TestReloadThreadsSamePrimitiveFactoryThroughLibraryCompiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "vela.yaml", "name: Lib\nlibrarySources:\n  - a.vela\n  - b.vela\n")
	aPath := writeSource(t, dir, "a.vela", "module A")
	bPath := writeSource(t, dir, "b.vela", "module B")

	comp := &fakeCompiler{}
	pub := &fakePublisher{}
	orch := NewOrchestrator(comp, pub, nil, nil)
	_, err := orch.RegisterLibrary(dir)
	require.NoError(t, err)

	orch.Reload()
	require.NotNil(t, comp.seenFactory[aPath])
	require.Same(t, comp.seenFactory[aPath], comp.seenFactory[bPath])
}

func TestPrimitiveFactoryCacheSharedPerLibraryIdentity(t *testing.T) {
	c := newPrimitiveFactories()
	a1 := c.Get("lib-1")
	a2 := c.Get("lib-1")
	b := c.Get("lib-2")
	require.Same(t, a1, a2)
	require.NotSame(t, a1, b)
}

func TestReloadPublishesEmptyDiagnosticsToClearStaleMarkers(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "vela.yaml", "name: Lib\nlibrarySources:\n  - a.vela\n")
	aPath := writeSource(t, dir, "a.vela", "bad syntax")

	comp := &fakeCompiler{failOn: map[string]bool{aPath: true}}
	pub := &fakePublisher{}
	orch := NewOrchestrator(comp, pub, nil, nil)
	lib, err := orch.RegisterLibrary(dir)
	require.NoError(t, err)

	orch.Reload()
	require.NotEmpty(t, pub.published[aPath])

	comp.failOn[aPath] = false
	entry := orch.libraries[lib.Identity()]
	entry.graph.MarkFresh(aPath) // advisor must not reuse a Failed result
	orch.Reload()
	require.Empty(t, pub.published[aPath])
}
