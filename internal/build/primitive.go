package build

import "sync"

// PrimitiveFactory mints canonical references to built-in definitions
// (§9 glossary "Primitive factory"). One instance exists per library
// identity so that primitive references stay shared across edits within a
// library — §4.3 calls this out as a correctness requirement, not an
// optimization: two compiles of the same library must see `I`/`Path`/etc.
// as the exact same Target, not merely equal ones.
type PrimitiveFactory struct {
	mu    sync.Mutex
	refs  map[string]any
}

// builtinNames is the small fixed table of primitives a cubical core
// always needs (§C of SPEC_FULL.md — spec §4.3 requires the cache but
// doesn't enumerate the set).
var builtinNames = []string{"I", "Path", "PartialP", "Sub", "Type", "Coe"}

func newPrimitiveFactory() *PrimitiveFactory {
	f := &PrimitiveFactory{refs: make(map[string]any, len(builtinNames))}
	for _, name := range builtinNames {
		f.refs[name] = &primitiveTarget{Name: name}
	}
	return f
}

// primitiveTarget is the Target (opaque to internal/scope) handed out for a
// built-in name.
type primitiveTarget struct {
	Name string
}

// Lookup returns the canonical Target for a built-in name, if any.
func (f *PrimitiveFactory) Lookup(name string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.refs[name]
	return v, ok
}

// primitiveFactories is the process-wide cache keyed by library identity
// (§4.3, §5, §9: "initialized on first access, cleared only on workspace
// teardown").
type primitiveFactories struct {
	mu    sync.Mutex
	byLib map[string]*PrimitiveFactory
}

func newPrimitiveFactories() *primitiveFactories {
	return &primitiveFactories{byLib: make(map[string]*PrimitiveFactory)}
}

// Get returns the PrimitiveFactory for libID, creating it on first demand.
// Insertion is idempotent under concurrent callers.
func (c *primitiveFactories) Get(libID string) *PrimitiveFactory {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.byLib[libID]
	if !ok {
		f = newPrimitiveFactory()
		c.byLib[libID] = f
	}
	return f
}

// Clear drops every cached factory (workspace teardown only).
func (c *primitiveFactories) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byLib = make(map[string]*PrimitiveFactory)
}
