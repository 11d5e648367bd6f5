package scope

import (
	"fmt"
	"strings"

	"github.com/velalang/vela/internal/errors"
)

// define admits a new local symbol under This (the module's own component
// path), routed through the central admission rule (addGlobal, §4.2) so a
// local definition is subject to the same shadow/ambiguity/duplicate
// bookkeeping as anything admitted via open.
func (c *ModuleContext) define(name string, target Target, acc Accessibility, buf *errors.Buffer, pos Pos) error {
	return c.addGlobal(Entry{
		UnqualifiedName: name,
		ComponentPath:   This,
		Target:          target,
		Accessibility:   acc,
		Origin:          Defined,
	}, buf, pos)
}

// addGlobal is the central admission rule (§4.2): given a fully-formed
// symbol at whatever component path it is reachable under (This for a local
// definition, an import path for an opened name), decide between silent
// insertion, a ShadowingWarn, an AmbiguousNameWarn, or a hard DuplicateName
// failure, then insert into symbols.
//
//  1. If no entry exists yet under this unqualified name (at any component
//     path): insert silently, unless the name is already visible through
//     some other channel (e.g. a primitive/builtin name) — then warn,
//     unless the name carries the anonymous prefix, which stays silent.
//  2. Else, if the exact (componentPath, name) pair already exists: fail.
//  3. Else (the name exists, but under a different component path): warn
//     that the name is now ambiguous and requires qualification.
func (c *ModuleContext) addGlobal(e Entry, buf *errors.Buffer, pos Pos) error {
	byPath := c.entriesForName(e.UnqualifiedName)
	switch {
	case len(byPath) == 0:
		if !strings.HasPrefix(e.UnqualifiedName, AnonymousPrefix) && c.visibleElsewhere(e.UnqualifiedName) {
			buf.Add(warning(ShadowingWarn, fmt.Sprintf("%q shadows a name already visible through another channel", e.UnqualifiedName), pos))
		}
	default:
		if _, exact := byPath[e.ComponentPath]; exact {
			return hardError(DuplicateName, fmt.Sprintf("%q is already defined for component path %q", e.UnqualifiedName, e.ComponentPath), pos)
		}
		buf.Add(warning(AmbiguousNameWarn, fmt.Sprintf("%q is now ambiguous and requires qualification", e.UnqualifiedName), pos))
	}
	c.insertSymbol(e)
	return nil
}

// importModule registers a single module's export under its own path.
// Importing the exact same path twice is a hard error (NAM002) — this is
// the one place "duplicate" is distinguished from "shadow": a second
// importModule call for a path already present is always a mistake, never
// diamond-import noise, since that case is importModules' job.
func (c *ModuleContext) importModule(path string, exp *Export, buf *errors.Buffer, pos Pos) error {
	if _, exists := c.modules[path]; exists {
		return hardError(DuplicateModule, fmt.Sprintf("module %q already imported", path), pos)
	}
	c.modules[path] = exp
	for _, e := range exp.Entries {
		if e.Accessibility != Public {
			continue
		}
		c.admitQualified(path, e, buf, pos)
	}
	c.exportCache = nil
	return nil
}

// importModules imports several modules in one admission pass. Two modules
// independently exporting the same module path (diamond import) is only a
// warning (ModShadowingWarn), per §9: "duplicate on exact path, shadow
// warning otherwise" — but each individual path is still subject to
// importModule's own-path duplicate check.
func (c *ModuleContext) importModules(paths map[string]*Export, buf *errors.Buffer, pos Pos) error {
	for path, exp := range paths {
		if _, exists := c.modules[path]; exists {
			buf.Add(warning(ModShadowingWarn, fmt.Sprintf("module %q imported again via a different chain", path), pos))
			continue
		}
		if err := c.importModule(path, exp, buf, pos); err != nil {
			return err
		}
	}
	return nil
}

// admitQualified inserts an entry reachable as path.name. It intentionally
// does not route through the central admission rule (addGlobal): importModule
// already rejects re-importing the exact same path as DuplicateModule before
// this runs, so (componentPath=path, name) can never collide with itself;
// and two distinct imported paths exporting the same unqualified name are
// never actually ambiguous here; they stay distinguished by path.name until
// something opens them unqualified (addGlobal's job, via openModule below).
// Warning on a name collision at this stage would fire on ordinary
// non-diamond imports that share a name, which is not an error condition.
func (c *ModuleContext) admitQualified(path string, e Entry, buf *errors.Buffer, pos Pos) {
	c.insertSymbol(Entry{
		UnqualifiedName: e.UnqualifiedName,
		ComponentPath:   path,
		Target:          e.Target,
		Accessibility:   e.Accessibility,
		Origin:          Imported,
	})
}

// openModule brings a previously-imported module's names into unqualified
// reach, applying an optional use/hide filter and renames. Each surviving
// entry is admitted via addGlobal under the import path as its component
// path (not This) — per §8 scenario S5, an opened name stays attributed to
// the module it came from ("symbols contains y under M"), so a later
// qualified reference and the unqualified one resolve to the same identity.
func (c *ModuleContext) openModule(path string, filter *UseHideFilter, renames Renames, buf *errors.Buffer, pos Pos) error {
	exp, ok := c.modules[path]
	if !ok {
		return hardError(ModuleNotFound, fmt.Sprintf("module %q was not imported", path), pos)
	}
	names := make(map[string]bool)
	if filter != nil {
		for _, n := range filter.Names {
			names[n] = true
			if !exp.hasName(n) {
				return hardError(UnknownName, fmt.Sprintf("module %q has no name %q", path, n), pos)
			}
		}
	}
	for from := range renames {
		if !exp.hasName(from) {
			return hardError(UnknownName, fmt.Sprintf("module %q has no name %q to rename", path, from), pos)
		}
	}
	for _, e := range exp.Entries {
		if e.Accessibility != Public {
			continue
		}
		if filter != nil {
			switch filter.Strategy {
			case Using:
				if !names[e.UnqualifiedName] {
					continue
				}
			case Hiding:
				if names[e.UnqualifiedName] {
					continue
				}
			}
		}
		localName := e.UnqualifiedName
		if renames != nil {
			if r, ok := renames[e.UnqualifiedName]; ok {
				localName = r
			}
		}
		if err := c.addGlobal(Entry{
			UnqualifiedName: localName,
			ComponentPath:   path,
			Target:          e.Target,
			Accessibility:   e.Accessibility,
			Origin:          Imported,
		}, buf, pos); err != nil {
			return err
		}
	}
	return nil
}

// hasName reports whether exp exports name, used by openModule to reject a
// `using`/`hiding` filter or a rename that names nothing real.
func (e *Export) hasName(name string) bool {
	_, ok := e.GetExport(name)
	return ok
}

// doExport builds this module's Export view: every Public entry admitted
// under This, re-exported under the module's own name.
func (c *ModuleContext) doExport() *Export {
	var entries []Entry
	for _, e := range c.allSymbols() {
		if e.ComponentPath != This || e.Accessibility != Public {
			continue
		}
		entries = append(entries, e)
	}
	return &Export{Module: c.Name, Entries: entries}
}

// ExportView returns this module's export, computed lazily and cached until
// the next admission invalidates it (§4.2: "re-export happens lazily when a
// consumer queries this module's export view", §C of SPEC_FULL.md).
func (c *ModuleContext) ExportView() *Export {
	if c.exportCache == nil {
		c.exportCache = c.doExport()
	}
	return c.exportCache
}

// Resolve looks up name as an unqualified reference would see it: a local
// definition (componentPath This) always wins; failing that, a name opened
// from exactly one component path resolves to that entry; a name admitted
// from more than one component path is ambiguous and must be qualified.
func (c *ModuleContext) Resolve(name string, pos Pos) (Entry, error) {
	byPath := c.entriesForName(name)
	if e, ok := byPath[This]; ok {
		return e, nil
	}
	switch len(byPath) {
	case 0:
		return Entry{}, hardError(UnknownName, fmt.Sprintf("unknown name %q", name), pos)
	case 1:
		for _, e := range byPath {
			return e, nil
		}
	}
	return Entry{}, hardError(UnknownName, fmt.Sprintf("%q is ambiguous; use a qualified reference", name), pos)
}

// ResolveQualified looks up path.name.
func (c *ModuleContext) ResolveQualified(path, name string, pos Pos) (Entry, error) {
	if e, ok := c.lookupSymbol(path, name); ok {
		return e, nil
	}
	return Entry{}, hardError(UnknownName, fmt.Sprintf("unknown name %q in module %q", name, path), pos)
}
