package channel

import (
	"sync"

	"github.com/velalang/vela/internal/errors"
)

// QueryBackend is implemented by whatever holds the resolved scopes and
// normalized terms a query handler needs (the Orchestrator's per-library
// state, in this repo). Kept minimal and separate from internal/build so
// neither package needs to import the other.
type QueryBackend interface {
	// Locate reports whether uri belongs to a known library; ok=false means
	// the query responds empty (§4.3: "if none, responds empty").
	Locate(uri string) (ok bool)
	Hover(uri string, pos Position) (HoverResponse, bool)
	Definition(uri string, pos Position) (DefinitionResponse, bool)
	References(uri string, pos Position) []DefinitionResponse
	PrepareRename(uri string, pos Position) PrepareRenameResponse
	Rename(uri string, pos Position, newName string) []TextEdit
	CodeLens(uri string) []CodeLens
	ResolveCodeLens(uri string, lens CodeLens) (CodeLens, bool)
	ComputeTerm(req ComputeTermRequest) ComputeTermResponse
}

// Notifier is the outbound half of the contract: publishDiagnostics and the
// custom publishAyaProblems notification.
type Notifier interface {
	PublishDiagnostics(uri string, diags []Diagnostic)
	PublishProblems(uri string, problems []Problem)
}

// Server dispatches editor-channel requests to a QueryBackend, serializing
// query/build operations per library per §5 ("Query operations ... and
// build operations on the same library are serialized"). The mutex here is
// a process-wide stand-in for that per-library lock; internal/build already
// serializes its own reloads per library, so this just prevents a query
// from observing a half-applied didChangeWatchedFiles.
type Server struct {
	mu      sync.RWMutex
	backend QueryBackend
}

// NewServer wires a Server to backend.
func NewServer(backend QueryBackend) *Server {
	return &Server{backend: backend}
}

// Initialize is the handshake request; it currently carries no negotiated
// capabilities worth modeling (§6: no capability negotiation detail is
// specified) so it is a no-op with no return value.
func (s *Server) Initialize() { /* no negotiated state to record */ }

// Completion is always empty (§6).
func (s *Server) Completion(_ string, _ Position) []string { return nil }

func (s *Server) Hover(uri string, pos Position) (HoverResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.backend.Locate(uri) {
		return HoverResponse{}, false
	}
	return s.backend.Hover(uri, pos)
}

func (s *Server) Definition(uri string, pos Position) (DefinitionResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.backend.Locate(uri) {
		return DefinitionResponse{}, false
	}
	return s.backend.Definition(uri, pos)
}

func (s *Server) References(uri string, pos Position) []DefinitionResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.backend.Locate(uri) {
		return nil
	}
	return s.backend.References(uri, pos)
}

// PrepareRename returns the range/identifier under the cursor, or an empty
// response (OK=false) when the cursor is not on a renameable symbol.
func (s *Server) PrepareRename(req PrepareRenameRequest) PrepareRenameResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.backend.Locate(req.URI) {
		return PrepareRenameResponse{}
	}
	return s.backend.PrepareRename(req.URI, req.Pos)
}

func (s *Server) Rename(req RenameRequest) RenameResponse {
	s.mu.Lock() // rename mutates, so it takes the write lock
	defer s.mu.Unlock()
	if !s.backend.Locate(req.URI) {
		return RenameResponse{}
	}
	return RenameResponse{Edits: s.backend.Rename(req.URI, req.Pos, req.NewName)}
}

func (s *Server) CodeLens(uri string) []CodeLens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.backend.Locate(uri) {
		return nil
	}
	return s.backend.CodeLens(uri)
}

// CodeLensResolve fills in a lens' Command, mirroring the other query
// handlers' shape: locate the library source for the supplied URI, empty
// response if none.
func (s *Server) CodeLensResolve(req CodeLensResolveRequest) CodeLensResolveResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.backend.Locate(req.URI) {
		return CodeLensResolveResponse{}
	}
	lens, ok := s.backend.ResolveCodeLens(req.URI, req.Lens)
	if !ok {
		return CodeLensResolveResponse{}
	}
	return CodeLensResolveResponse{Lens: lens, OK: true}
}

func (s *Server) ComputeTerm(req ComputeTermRequest) ComputeTermResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.backend.Locate(req.URI) {
		return ComputeTermResponse{BadInput: true}
	}
	return s.backend.ComputeTerm(req)
}

// reportsToDiagnostics converts build/resolver *errors.Report values into
// the channel's wire-agnostic Diagnostic shape.
func reportsToDiagnostics(reports []*errors.Report) []Diagnostic {
	out := make([]Diagnostic, 0, len(reports))
	for _, r := range reports {
		d := Diagnostic{Severity: r.Severity, Message: r.Message, Code: r.Code}
		if r.Span != nil {
			d.Range = Range{
				Start: Position{Line: r.Span.Line, Col: r.Span.Col},
				End:   Position{Line: r.Span.Line, Col: r.Span.Col},
			}
		}
		out = append(out, d)
	}
	return out
}

// reportsToProblems converts Reports into the custom publishAyaProblems
// payload, carrying the originating phase.
func reportsToProblems(reports []*errors.Report) []Problem {
	out := make([]Problem, 0, len(reports))
	for _, r := range reports {
		p := Problem{Severity: r.Severity, Message: r.Message, Phase: r.Phase}
		if r.Span != nil {
			p.Range = Range{
				Start: Position{Line: r.Span.Line, Col: r.Span.Col},
				End:   Position{Line: r.Span.Line, Col: r.Span.Col},
			}
		}
		out = append(out, p)
	}
	return out
}
