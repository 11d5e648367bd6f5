package scope

import "github.com/velalang/vela/internal/errors"

// Name-problem error codes (§7 taxonomy: NAM###).
const (
	ModuleNotFound = "NAM001"
	DuplicateModule = "NAM002"
	DuplicateName = "NAM003"
	UnknownName = "NAM004"
)

// Warning codes. Warnings never abort the current resolve operation; they
// accumulate in a *Buffer and are flushed after the operation succeeds.
const (
	ModShadowingWarn = "NAMW001"
	ShadowingWarn    = "NAMW002"
	AmbiguousNameWarn = "NAMW003"
)

const phase = "resolver"

func hardError(code, msg string, pos Pos) error {
	return errors.WrapReport(&errors.Report{
		Schema:   errors.Schema,
		Code:     code,
		Phase:    phase,
		Severity: errors.SeverityError,
		Message:  msg,
		Span:     &errors.Span{File: pos.File, Line: pos.Line, Col: pos.Col},
	})
}

func warning(code, msg string, pos Pos) *errors.Report {
	return &errors.Report{
		Schema:   errors.Schema,
		Code:     code,
		Phase:    phase,
		Severity: errors.SeverityWarning,
		Message:  msg,
		Span:     &errors.Span{File: pos.File, Line: pos.Line, Col: pos.Col},
	}
}
