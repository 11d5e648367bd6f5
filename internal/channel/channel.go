// Package channel implements the editor-channel message contract (§6): an
// in-process Go interface, not a wire protocol — there is no protobuf/grpc
// framing to do here (see DESIGN.md for why those pack dependencies go
// unwired). Requests and notifications follow an LSP-like message shape;
// handlers live in internal/build (DiagnosticsPublisher) and a thin
// dispatcher here routes query handlers to the right LibrarySource.
package channel

import "github.com/velalang/vela/internal/errors"

// Position is a zero-based line/column location in a source file.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Range is a half-open [Start, End) source span.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NormalizationKind selects which Normalizer entry point computeTerm drives.
type NormalizationKind int

const (
	WeakHeadNormalForm NormalizationKind = iota
	FullyNormalize
)

// ComputeTermRequest is vela's custom query (§6): normalize the term at a
// source position and render it.
type ComputeTermRequest struct {
	URI      string
	Pos      Position
	Kind     NormalizationKind
}

// ComputeTermResponse carries the rendered term, or BadInput set when the
// position names nothing normalizable.
type ComputeTermResponse struct {
	Rendered string
	BadInput bool
}

// HoverRequest/HoverResponse, DefinitionRequest, ReferencesRequest,
// RenameRequest/PrepareRenameResponse, CodeLensRequest mirror the standard
// editor query shapes named in §6, scoped down to what this repo's
// handlers actually serve (the full LSP wire schema is explicitly out of
// scope — §1 "editor protocol message framing" is a collaborator).
type HoverRequest struct {
	URI string
	Pos Position
}

type HoverResponse struct {
	Contents string
	Range    Range
}

type DefinitionRequest struct {
	URI string
	Pos Position
}

type DefinitionResponse struct {
	URI   string
	Range Range
}

type ReferencesRequest struct {
	URI string
	Pos Position
}

type ReferencesResponse struct {
	Locations []DefinitionResponse
}

type PrepareRenameRequest struct {
	URI string
	Pos Position
}

// PrepareRenameResponse is empty (Range's zero value with OK=false) when
// the cursor is not on a renameable symbol (§4.3).
type PrepareRenameResponse struct {
	Range      Range
	Identifier string
	OK         bool
}

type RenameRequest struct {
	URI     string
	Pos     Position
	NewName string
}

// TextEdit is one edit within a workspace-wide rename.
type TextEdit struct {
	URI     string
	Range   Range
	NewText string
}

type RenameResponse struct {
	Edits []TextEdit
}

type CodeLensRequest struct {
	URI string
}

type CodeLens struct {
	Range   Range
	Title   string
	Command string
}

type CodeLensResponse struct {
	Lenses []CodeLens
}

// CodeLensResolveRequest resolves a lens returned by CodeLens into one
// carrying its Command (§6: "codeLens/resolve" — some lenses are returned
// title-only and their command is filled in lazily on resolve).
type CodeLensResolveRequest struct {
	URI  string
	Lens CodeLens
}

type CodeLensResolveResponse struct {
	Lens CodeLens
	OK   bool
}

// Diagnostic is one entry of a publishDiagnostics/publishAyaProblems
// notification (§6).
type Diagnostic struct {
	Range    Range
	Severity errors.Severity
	Message  string
	Code     string
}

// Problem is the structured payload of the custom publishAyaProblems
// notification (§6): a superset of Diagnostic carrying the originating
// phase, for clients that want to group or filter by it.
type Problem struct {
	Range    Range
	Severity errors.Severity
	Message  string
	Phase    string
}
