// Package errors provides the centralized structured diagnostic type shared
// by every phase of vela (resolver, build orchestrator, editor channel): one
// Report struct carrying a schema-versioned, JSON-serializable diagnostic,
// wrapped in a ReportError so it survives errors.As unwrapping.
package errors

import (
	"encoding/json"
	"errors"
)

// Schema is the fixed schema tag stamped on every Report.
const Schema = "vela.error/v1"

// Span is a source location, optional on a Report (a build-level error such
// as "manifest not found" has no associated source position).
type Span struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

// Fix is a suggested fix attached to a Report.
type Fix struct {
	Title string `json:"title"`
	Edit  string `json:"edit,omitempty"`
}

// Severity distinguishes a hard error from a warning.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Report is the canonical structured diagnostic type for vela.
// All error builders should return *Report, which can be wrapped as ReportError.
type Report struct {
	Schema   string         `json:"schema"`         // Always Schema
	Code     string         `json:"code"`           // Error code (NAM001, BLD002, ...)
	Phase    string         `json:"phase"`           // "resolver", "build", "elaborate", ...
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Span     *Span          `json:"span,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Fix      *Fix           `json:"fix,omitempty"`
}

// ReportError wraps a Report as an error.
// This allows structured reports to survive errors.As() unwrapping.
type ReportError struct {
	Rep *Report
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport attempts to extract a Report from an error chain.
// Returns the Report and true if found, nil and false otherwise.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError.
// Call sites should return errors.WrapReport(report) to preserve structure.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON (deterministic: struct fields in
// declaration order, Data map keys sorted).
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error

	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}

	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGeneric creates a generic error report for opaque elaboration/runtime
// errors (§7: "Elaboration problems (external): surfaced as opaque Problem
// values with a source range and severity").
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:   Schema,
		Code:     "ELB000",
		Phase:    phase,
		Severity: SeverityError,
		Message:  err.Error(),
	}
}
