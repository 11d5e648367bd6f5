// Package scope implements the module name-resolution context: the scope
// entries, the per-module symbol/export admission rules, and the open/import
// operations of spec §4.2. It produces a resolved scope consumed by
// elaboration (external to this module).
package scope

import "fmt"

// Accessibility controls whether a symbol is re-exportable.
type Accessibility int

const (
	Private Accessibility = iota
	Public
)

// Origin distinguishes a locally-defined symbol from one admitted via open.
type Origin int

const (
	Defined Origin = iota
	Imported
)

// This is the component path denoting "this module itself".
const This = ""

// AnonymousPrefix marks a name as machine-generated (e.g. a wildcard pattern
// binder). Names with this prefix never trigger a ShadowingWarn on first
// admission — nothing is meant to reach them by name, so shadowing is moot.
const AnonymousPrefix = "_"

// Target is an abstract handle identifying a definition. Elaboration
// (external) is the only consumer that needs to know what's behind it.
type Target interface{}

// Pos is a source position, opaque to this package beyond carrying enough
// to attach to a diagnostic.
type Pos struct {
	File string
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col) }

// Entry is one scope entry: an unqualified name reachable under a component
// path, pointing at a Target, with accessibility and provenance.
type Entry struct {
	UnqualifiedName string
	ComponentPath   string
	Target          Target
	Accessibility   Accessibility
	Origin          Origin
}

// Export is a module's export view — a scope consumable as the `export` of
// an importModule call. It is itself composed of Entries.
type Export struct {
	Module  string
	Entries []Entry
}

// GetExport looks up an exported unqualified name.
func (e *Export) GetExport(name string) (Entry, bool) {
	for _, ent := range e.Entries {
		if ent.UnqualifiedName == name {
			return ent, true
		}
	}
	return Entry{}, false
}

// Strategy selects how openModule's useHideFilter is interpreted.
type Strategy int

const (
	Using Strategy = iota
	Hiding
)

// UseHideFilter restricts which names survive an open, under Strategy.
type UseHideFilter struct {
	Strategy Strategy
	Names    []string
}

// Renames relocates unqualified names during an open.
type Renames map[string]string
