// Package errors provides centralized error code definitions for vela.
// All error codes follow a consistent taxonomy for structured reporting,
// grouped by the phase that raises them (§7 of the expanded spec).
package errors

// Name-problem codes (Resolver, §4.2/§7).
const (
	// NAM001 indicates an import referenced a module path with no
	// registered export.
	NAM001 = "NAM001"

	// NAM002 indicates importModule was called twice with the exact same
	// path (a hard error, never a silent overwrite).
	NAM002 = "NAM002"

	// NAM003 indicates the exact (componentPath, name) pair was already
	// present in symbols.
	NAM003 = "NAM003"

	// NAM004 indicates a use/hide filter or rename referenced a name the
	// target module export doesn't have.
	NAM004 = "NAM004"
)

// Name-problem warning codes. Warnings never abort the current resolve
// operation; they accumulate and are flushed after it succeeds.
const (
	// NAMW001 indicates a module path resolved to an already-visible
	// module via a different import chain (shadow, not collision).
	NAMW001 = "NAMW001"

	// NAMW002 indicates a name was already visible through some other
	// channel when a new binding for it was added.
	NAMW002 = "NAMW002"

	// NAMW003 indicates a name now has multiple provenances and must be
	// qualified to be used.
	NAMW003 = "NAMW003"
)

// Build/orchestrator codes (§4.3/§7).
const (
	// BLD001 indicates a library manifest could not be read or parsed.
	BLD001 = "BLD001"

	// BLD002 indicates a source file could not be read during compile.
	BLD002 = "BLD002"

	// BLD003 indicates a dependency cycle was detected while walking the
	// build graph.
	BLD003 = "BLD003"
)

// Elaboration codes are opaque to this module — elaboration is an external
// collaborator (§1) — but the phase tag is reserved here so Orchestrator
// diagnostics routing can group them alongside NAM/BLD ones.
const (
	ELB000 = "ELB000"
)

// Info describes an error code's phase and a short human label, the same
// shape as a registry-of-codes pattern for looking up diagnostics by code.
type Info struct {
	Code        string
	Phase       string
	Description string
}

// Registry maps every code above to its Info.
var Registry = map[string]Info{
	NAM001:  {NAM001, "resolver", "Module not found"},
	NAM002:  {NAM002, "resolver", "Duplicate module import"},
	NAM003:  {NAM003, "resolver", "Duplicate name in component path"},
	NAM004:  {NAM004, "resolver", "Unknown name in filter/rename"},
	NAMW001: {NAMW001, "resolver", "Module shadowed via a different import chain"},
	NAMW002: {NAMW002, "resolver", "Name shadowed from another channel"},
	NAMW003: {NAMW003, "resolver", "Ambiguous name, now requires qualification"},
	BLD001:  {BLD001, "build", "Manifest read/parse failure"},
	BLD002:  {BLD002, "build", "Source file I/O failure"},
	BLD003:  {BLD003, "build", "Dependency cycle in build graph"},
	ELB000:  {ELB000, "elaborate", "Opaque elaboration problem"},
}

// GetInfo returns registered information about an error code.
func GetInfo(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}

// IsNameProblem reports whether code belongs to the resolver's taxonomy.
func IsNameProblem(code string) bool {
	info, ok := GetInfo(code)
	return ok && info.Phase == "resolver"
}

// IsBuildProblem reports whether code belongs to the orchestrator's taxonomy.
func IsBuildProblem(code string) bool {
	info, ok := GetInfo(code)
	return ok && info.Phase == "build"
}
