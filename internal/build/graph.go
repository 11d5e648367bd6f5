// Package build implements the Incremental Build Orchestrator: the
// per-workspace file-dependency graph, the library registry, and the
// reload/diagnostic-routing pipeline of §4.3.
package build

import (
	"fmt"

	"github.com/velalang/vela/internal/errors"
)

// CompileState is a build-graph node's position in the state machine
// (§3, §4.3):
//
//	Fresh --parse--> Parsed --resolve--> Resolved --tycheck--> TypeChecked
//	   ^                 \                   \                     /
//	   +------------------+-------------------+----on-error--------+
//	                                                (-> Failed)
type CompileState int

const (
	Fresh CompileState = iota
	Parsed
	Resolved
	TypeChecked
	Failed
)

func (s CompileState) String() string {
	switch s {
	case Fresh:
		return "Fresh"
	case Parsed:
		return "Parsed"
	case Resolved:
		return "Resolved"
	case TypeChecked:
		return "TypeChecked"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Node is one build-graph node: a single source file within a library.
type Node struct {
	URI     string
	State   CompileState
	Imports []string // URIs this node's elaboration consumed exports from

	Diagnostics []*errors.Report
}

// Graph is a library's per-file dependency graph. Edges run node -> imported
// node. TopoSort detects a cycle and fails with *CycleError; SetImports does
// not reject cycles, and Orchestrator.Reload does not call TopoSort, so a
// cycle is not reported as a diagnostic. MarkFresh terminates on cycles.
type Graph struct {
	nodes map[string]*Node
	// dependents is the reverse edge index: dependents[x] = {y : x in nodes[y].Imports}.
	dependents map[string][]string
}

// NewGraph creates an empty build graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:      make(map[string]*Node),
		dependents: make(map[string][]string),
	}
}

// EnsureNode returns the node for uri, creating it Fresh if absent.
func (g *Graph) EnsureNode(uri string) *Node {
	if n, ok := g.nodes[uri]; ok {
		return n
	}
	n := &Node{URI: uri, State: Fresh}
	g.nodes[uri] = n
	return n
}

// Node returns the node for uri, if any.
func (g *Graph) Node(uri string) (*Node, bool) {
	n, ok := g.nodes[uri]
	return n, ok
}

// RemoveNode detaches uri entirely (§4.3 Deleted handling).
func (g *Graph) RemoveNode(uri string) {
	delete(g.nodes, uri)
	delete(g.dependents, uri)
	for dep, ds := range g.dependents {
		out := ds[:0]
		for _, d := range ds {
			if d != uri {
				out = append(out, d)
			}
		}
		g.dependents[dep] = out
	}
}

// SetImports records uri's import edges, rebuilding the reverse index entries
// that mention uri.
func (g *Graph) SetImports(uri string, imports []string) {
	n := g.EnsureNode(uri)
	for _, old := range n.Imports {
		ds := g.dependents[old]
		out := ds[:0]
		for _, d := range ds {
			if d != uri {
				out = append(out, d)
			}
		}
		g.dependents[old] = out
	}
	n.Imports = imports
	for _, imp := range imports {
		g.dependents[imp] = append(g.dependents[imp], uri)
	}
}

// Dependents returns every node that directly imports uri.
func (g *Graph) Dependents(uri string) []string {
	return g.dependents[uri]
}

// MarkFresh resets uri to Fresh and transitively marks every (transitive)
// dependent Fresh too (§3 "Modified" lifecycle).
func (g *Graph) MarkFresh(uri string) {
	visited := make(map[string]bool)
	var walk func(u string)
	walk = func(u string) {
		if visited[u] {
			return
		}
		visited[u] = true
		if n, ok := g.nodes[u]; ok {
			n.State = Fresh
		}
		for _, d := range g.dependents[u] {
			walk(d)
		}
	}
	walk(uri)
}

// CycleError reports a dependency cycle discovered while walking the graph.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("import cycle: %v", e.Cycle)
}

// TopoSort returns nodes in dependency order (dependencies first), starting
// from root, failing with *CycleError if the import graph is not a DAG.
func (g *Graph) TopoSort(root string) ([]string, error) {
	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var sorted []string
	var path []string

	var dfs func(uri string) error
	dfs = func(uri string) error {
		if visited[uri] {
			return nil
		}
		if inPath[uri] {
			cycle := append([]string{}, path...)
			cycle = append(cycle, uri)
			return &CycleError{Cycle: cycle}
		}
		inPath[uri] = true
		path = append(path, uri)

		n, ok := g.nodes[uri]
		if ok {
			for _, imp := range n.Imports {
				if err := dfs(imp); err != nil {
					return err
				}
			}
		}

		inPath[uri] = false
		path = path[:len(path)-1]
		visited[uri] = true
		sorted = append(sorted, uri)
		return nil
	}

	if err := dfs(root); err != nil {
		return nil, err
	}
	return sorted, nil
}
