package scope

import (
	"fmt"

	art "github.com/plar/go-adaptive-radix-tree"
)

// symbolKey packs an (componentPath, unqualifiedName) pair into the single
// byte-string key the radix tree indexes on, component path first so that
// every name admitted under a given path sits in the same subtree.
func symbolKey(componentPath, name string) art.Key {
	return art.Key(componentPath + "\x00" + name)
}

// ModuleContext is the mutable name-resolution state built up while
// processing one module's imports/opens/defines (§4.2). symbols holds every
// admitted (componentPath, name) -> Entry pair in a single pool, mirroring
// the "single pool, no duplicate symbols" role linker.Symbols plays in
// protocompile (kept symbols are keyed by their full path so a collision is
// a single tree lookup, not a map-of-maps scan). byName is the same data
// reindexed unqualified-name-first — "a mapping from unqualified name to
// (mapping from component path to target)", the literal shape the central
// admission rule (addGlobal, §4.2) needs to tell "brand new name" from
// "name exists under a different component path" apart.
type ModuleContext struct {
	Name    string
	symbols art.Tree
	byName  map[string]map[string]Entry
	modules map[string]*Export

	// builtins names a channel of visibility outside symbols entirely (e.g.
	// the primitive factory's built-in names): addGlobal's case 1 warns when
	// a brand-new name shadows one of these.
	builtins map[string]bool

	// exportCache memoizes ExportView(); invalidated on any admission.
	exportCache *Export
}

// NewModuleContext creates an empty resolution context for a module.
func NewModuleContext(name string) *ModuleContext {
	return &ModuleContext{
		Name:    name,
		symbols: art.New(),
		byName:  make(map[string]map[string]Entry),
		modules: make(map[string]*Export),
	}
}

// SetBuiltins records the set of names visible through a channel other than
// symbols (e.g. the build orchestrator's primitive factory). Pass nil to
// clear it.
func (c *ModuleContext) SetBuiltins(names []string) {
	c.builtins = make(map[string]bool, len(names))
	for _, n := range names {
		c.builtins[n] = true
	}
}

// visibleElsewhere reports whether name is visible through a channel other
// than symbols, for addGlobal's case 1 shadow check.
func (c *ModuleContext) visibleElsewhere(name string) bool {
	return c.builtins[name]
}

// lookupSymbol returns the Entry admitted under (componentPath, name), if any.
func (c *ModuleContext) lookupSymbol(componentPath, name string) (Entry, bool) {
	v, found := c.symbols.Search(symbolKey(componentPath, name))
	if !found {
		return Entry{}, false
	}
	return v.(Entry), true
}

// entriesForName returns every admitted Entry under name, keyed by the
// component path it was admitted under.
func (c *ModuleContext) entriesForName(name string) map[string]Entry {
	return c.byName[name]
}

// insertSymbol admits an Entry, invalidating the export cache.
func (c *ModuleContext) insertSymbol(e Entry) {
	c.symbols.Insert(symbolKey(e.ComponentPath, e.UnqualifiedName), e)
	byPath, ok := c.byName[e.UnqualifiedName]
	if !ok {
		byPath = make(map[string]Entry)
		c.byName[e.UnqualifiedName] = byPath
	}
	byPath[e.ComponentPath] = e
	c.exportCache = nil
}

// allSymbols returns every admitted Entry, in tree iteration order.
func (c *ModuleContext) allSymbols() []Entry {
	var out []Entry
	c.symbols.ForEach(func(node art.Node) bool {
		out = append(out, node.Value().(Entry))
		return true
	})
	return out
}

func (c *ModuleContext) String() string {
	return fmt.Sprintf("module %s (%d symbols, %d imported modules)", c.Name, c.symbols.Size(), len(c.modules))
}
