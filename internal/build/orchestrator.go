package build

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/manifest"
)

// Compiler runs one node's pipeline through Parsed/Resolved/TypeChecked,
// external to this package (§1: "parser... lies outside"; elaboration is a
// collaborator). The Orchestrator only sequences calls to it per the state
// machine and Advisor policy.
type Compiler interface {
	Compile(uri string, content []byte, primitives *PrimitiveFactory) (imports []string, diags []*errors.Report, err error)
}

// libraryEntry bundles a registered Library with its build graph and
// per-library scratch state (§5: "BufferReporter is a per-library scratch
// area; cleared at the start of each build pass").
type libraryEntry struct {
	mu       sync.Mutex // single-writer per library (§5)
	lib      Library
	graph    *Graph
	lastDiag map[string][]*errors.Report // published last pass, for empty-clear (§4.3)
}

// Orchestrator is the Incremental Build Orchestrator (§4.3).
type Orchestrator struct {
	mu         sync.Mutex
	libraries  map[string]*libraryEntry // keyed by library identity
	byURI      map[string]string        // source URI -> library identity
	primitives *primitiveFactories
	advisor    Advisor
	compiler   Compiler
	channel    DiagnosticsPublisher
	logger     *log.Logger
}

// DiagnosticsPublisher is the editor-channel side of diagnostic routing
// (§4.3, §6): one publishDiagnostics call per file, per build pass.
type DiagnosticsPublisher interface {
	PublishDiagnostics(uri string, diags []*errors.Report)
}

// NewOrchestrator creates an Orchestrator. advisor and logger may be nil to
// take the defaults (ContentHashAdvisor, a logger writing to os.Stderr).
func NewOrchestrator(compiler Compiler, channel DiagnosticsPublisher, advisor Advisor, logger *log.Logger) *Orchestrator {
	if advisor == nil {
		advisor = NewContentHashAdvisor()
	}
	if logger == nil {
		logger = log.New(os.Stderr, "vela/build: ", log.LstdFlags)
	}
	return &Orchestrator{
		libraries:  make(map[string]*libraryEntry),
		byURI:      make(map[string]string),
		primitives: newPrimitiveFactories(),
		advisor:    advisor,
		compiler:   compiler,
		channel:    channel,
		logger:     logger,
	}
}

// RegisterLibrary walks upward from path seeking a manifest; if found, loads
// and registers a disk library; otherwise discovers source files beneath
// path and registers each as a mocked library (§4.3).
func (o *Orchestrator) RegisterLibrary(path string) (Library, error) {
	if manifestPath, ok := findManifest(path); ok {
		cfg, err := manifest.Load(manifestPath)
		if err != nil {
			// Build problems never abort the workspace (§7): log and
			// continue, fall back to mocking the path instead.
			o.logger.Printf("manifest load failed for %s: %v", manifestPath, err)
			return o.registerMock(path)
		}
		root := filepath.Dir(manifestPath)
		lib := &DiskLibrary{id: newLibraryIdentity(), root: root, Config: cfg, sources: cfg.ResolveSources(root)}
		o.registerEntry(lib)
		return lib, nil
	}
	return o.registerMock(path)
}

func (o *Orchestrator) registerMock(path string) (Library, error) {
	sources := discoverSources(path)
	if len(sources) == 0 {
		return nil, fmt.Errorf("build: no sources found under %s", path)
	}
	var last Library
	for _, src := range sources {
		lib := &MockLibrary{id: newLibraryIdentity(), source: src}
		o.registerEntry(lib)
		last = lib
	}
	return last, nil
}

func (o *Orchestrator) registerEntry(lib Library) {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry := &libraryEntry{lib: lib, graph: NewGraph(), lastDiag: make(map[string][]*errors.Report)}
	for _, src := range lib.Sources() {
		entry.graph.EnsureNode(src)
		o.byURI[src] = lib.Identity()
	}
	o.libraries[lib.Identity()] = entry
}

// DidChangeWatchedFiles applies one file-change event (§4.3, §5: "fully
// applied before any subsequent query sees the change" — callers must hold
// this call to completion before issuing queries).
func (o *Orchestrator) DidChangeWatchedFiles(ev FileEvent) {
	switch ev.Kind {
	case EventCreated:
		o.onCreated(ev.URI)
	case EventDeleted:
		o.onDeleted(ev.URI)
	case EventModified:
		o.onModified(ev.URI)
	}
}

func (o *Orchestrator) onCreated(uri string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, entry := range o.libraries {
		if filepath.Dir(uri) == entry.lib.Root() {
			if dl, ok := entry.lib.(*DiskLibrary); ok {
				dl.AddSource(uri)
			}
			entry.graph.EnsureNode(uri)
			o.byURI[uri] = id
			return
		}
	}
	lib := &MockLibrary{id: newLibraryIdentity(), source: uri}
	entry := &libraryEntry{lib: lib, graph: NewGraph(), lastDiag: make(map[string][]*errors.Report)}
	entry.graph.EnsureNode(uri)
	o.libraries[lib.Identity()] = entry
	o.byURI[uri] = lib.Identity()
}

func (o *Orchestrator) onDeleted(uri string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id, ok := o.byURI[uri]
	if !ok {
		return
	}
	delete(o.byURI, uri)
	entry := o.libraries[id]
	entry.graph.RemoveNode(uri)
	if dl, ok := entry.lib.(*DiskLibrary); ok {
		dl.RemoveSource(uri)
		return
	}
	// Mock libraries wrap exactly one file; the whole library drops (§4.3).
	delete(o.libraries, id)
}

func (o *Orchestrator) onModified(uri string) {
	o.mu.Lock()
	id, ok := o.byURI[uri]
	if !ok {
		o.mu.Unlock()
		o.onCreated(uri)
		return
	}
	entry := o.libraries[id]
	o.mu.Unlock()
	entry.graph.MarkFresh(uri)
}

// Reload runs the compiler pipeline for every library, publishing
// diagnostics per file (§4.3). Returns a per-file highlight map (URI ->
// whether the file currently has any diagnostic). Within a library, sources
// are compiled in the library's source order, not in dependency order, and
// the per-file publishDiagnostics calls happen in no defined order.
func (o *Orchestrator) Reload() map[string]bool {
	o.mu.Lock()
	entries := make([]*libraryEntry, 0, len(o.libraries))
	for _, e := range o.libraries {
		entries = append(entries, e)
	}
	o.mu.Unlock()

	highlights := make(map[string]bool)
	for _, entry := range entries {
		o.reloadLibrary(entry, highlights)
	}
	return highlights
}

func (o *Orchestrator) reloadLibrary(entry *libraryEntry, highlights map[string]bool) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	factory := o.primitives.Get(entry.lib.Identity())

	diagsByURI := make(map[string][]*errors.Report)
	for _, uri := range entry.lib.Sources() {
		node, ok := entry.graph.Node(uri)
		if !ok {
			node = entry.graph.EnsureNode(uri)
		}
		content, err := os.ReadFile(uri)
		if err != nil {
			o.logger.Printf("build: I/O failure reading %s: %v", uri, err)
			continue
		}
		if o.advisor.ShouldReuse(node, content) {
			diagsByURI[uri] = node.Diagnostics
			continue
		}
		node.State = Parsed
		imports, diags, err := o.compiler.Compile(uri, content, factory)
		if err != nil {
			entry.graph.MarkFresh(uri)
			for _, d := range entry.graph.Dependents(uri) {
				if n, ok := entry.graph.Node(d); ok {
					n.State = Fresh
				}
			}
			node.State = Failed
		} else {
			node.State = Resolved
			entry.graph.SetImports(uri, imports)
			node.State = TypeChecked
			o.advisor.Observe(node, content)
		}
		node.Diagnostics = diags
		diagsByURI[uri] = diags
		highlights[uri] = len(diags) > 0
	}

	// Files with diagnostics last pass but none now get an explicit empty
	// publish so stale markers clear (§4.3).
	for uri := range entry.lastDiag {
		if _, present := diagsByURI[uri]; !present {
			diagsByURI[uri] = nil
		}
	}
	for uri, diags := range diagsByURI {
		o.channel.PublishDiagnostics(uri, diags)
	}
	entry.lastDiag = diagsByURI
}
