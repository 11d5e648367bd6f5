package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velalang/vela/internal/errors"
)

var zeroPos = Pos{File: "test.vela", Line: 1, Col: 1}

func TestDefineThenResolve(t *testing.T) {
	ctx := NewModuleContext("M")
	var buf errors.Buffer
	require.NoError(t, ctx.define("foo", "target-foo", Public, &buf, zeroPos))

	e, err := ctx.Resolve("foo", zeroPos)
	require.NoError(t, err)
	require.Equal(t, "target-foo", e.Target)
}

func TestDefineDuplicateIsHardError(t *testing.T) {
	ctx := NewModuleContext("M")
	var buf errors.Buffer
	require.NoError(t, ctx.define("foo", 1, Public, &buf, zeroPos))

	err := ctx.define("foo", 2, Public, &buf, zeroPos)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, DuplicateName, rep.Code)
}

// Case 1 of the central admission rule (§4.2): a brand-new unqualified name
// that already has a builtin-channel collision warns once (ShadowingWarn);
// an anonymous-prefixed name in the same situation stays silent.
func TestAddGlobalCase1ShadowsBuiltinChannel(t *testing.T) {
	ctx := NewModuleContext("M")
	ctx.SetBuiltins([]string{"Coe"})
	var buf errors.Buffer
	require.NoError(t, ctx.define("Coe", 1, Public, &buf, zeroPos))

	require.False(t, buf.Empty())
	require.Equal(t, ShadowingWarn, buf.Reports()[0].Code)
}

func TestAddGlobalCase1AnonymousPrefixStaysSilent(t *testing.T) {
	ctx := NewModuleContext("M")
	ctx.SetBuiltins([]string{"_scrutinee"})
	var buf errors.Buffer
	require.NoError(t, ctx.define("_scrutinee", 1, Public, &buf, zeroPos))

	require.True(t, buf.Empty())
}

func TestImportModuleExposesQualifiedNames(t *testing.T) {
	ctx := NewModuleContext("M")
	exp := &Export{Module: "Lib", Entries: []Entry{
		{UnqualifiedName: "bar", ComponentPath: This, Target: "lib-bar", Accessibility: Public},
	}}
	var buf errors.Buffer
	require.NoError(t, ctx.importModule("Lib", exp, &buf, zeroPos))
	require.True(t, buf.Empty())

	e, err := ctx.ResolveQualified("Lib", "bar", zeroPos)
	require.NoError(t, err)
	require.Equal(t, "lib-bar", e.Target)
}

// S4: importing the exact same module path twice is a hard error.
func TestImportModuleSamePathTwiceIsDuplicateModule(t *testing.T) {
	ctx := NewModuleContext("M")
	exp := &Export{Module: "Lib"}
	var buf errors.Buffer
	require.NoError(t, ctx.importModule("Lib", exp, &buf, zeroPos))

	err := ctx.importModule("Lib", exp, &buf, zeroPos)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, DuplicateModule, rep.Code)
}

// Diamond import: two distinct call sites importing the same path via
// importModules is a warning, not a hard error (§9).
func TestImportModulesDiamondIsWarningNotError(t *testing.T) {
	ctx := NewModuleContext("M")
	exp := &Export{Module: "Lib"}
	var buf errors.Buffer
	require.NoError(t, ctx.importModules(map[string]*Export{"Lib": exp}, &buf, zeroPos))
	require.NoError(t, ctx.importModules(map[string]*Export{"Lib": exp}, &buf, zeroPos))

	require.False(t, buf.Empty())
	require.Equal(t, ModShadowingWarn, buf.Reports()[0].Code)
}

func TestOpenModuleUnqualifiedReach(t *testing.T) {
	ctx := NewModuleContext("M")
	exp := &Export{Module: "Lib", Entries: []Entry{
		{UnqualifiedName: "baz", ComponentPath: This, Target: "lib-baz", Accessibility: Public},
	}}
	var buf errors.Buffer
	require.NoError(t, ctx.importModule("Lib", exp, &buf, zeroPos))
	require.NoError(t, ctx.openModule("Lib", &UseHideFilter{Strategy: Hiding}, nil, &buf, zeroPos))

	e, err := ctx.Resolve("baz", zeroPos)
	require.NoError(t, err)
	require.Equal(t, "lib-baz", e.Target)
}

// A `using` filter that names something the module does not export is a
// hard UnknownName error.
func TestOpenModuleUsingUnknownNameIsHardError(t *testing.T) {
	ctx := NewModuleContext("M")
	exp := &Export{Module: "Lib", Entries: []Entry{
		{UnqualifiedName: "baz", ComponentPath: This, Target: "lib-baz", Accessibility: Public},
	}}
	var buf errors.Buffer
	require.NoError(t, ctx.importModule("Lib", exp, &buf, zeroPos))

	err := ctx.openModule("Lib", &UseHideFilter{Strategy: Using, Names: []string{"nope"}}, nil, &buf, zeroPos)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, UnknownName, rep.Code)
}

func TestOpenModuleUsingFilterRestrictsReach(t *testing.T) {
	ctx := NewModuleContext("M")
	exp := &Export{Module: "Lib", Entries: []Entry{
		{UnqualifiedName: "baz", ComponentPath: This, Target: "lib-baz", Accessibility: Public},
		{UnqualifiedName: "qux", ComponentPath: This, Target: "lib-qux", Accessibility: Public},
	}}
	var buf errors.Buffer
	require.NoError(t, ctx.importModule("Lib", exp, &buf, zeroPos))
	require.NoError(t, ctx.openModule("Lib", &UseHideFilter{Strategy: Using, Names: []string{"baz"}}, nil, &buf, zeroPos))

	_, err := ctx.Resolve("baz", zeroPos)
	require.NoError(t, err)
	_, err = ctx.Resolve("qux", zeroPos)
	require.Error(t, err)
}

func TestOpenModuleRenames(t *testing.T) {
	ctx := NewModuleContext("M")
	exp := &Export{Module: "Lib", Entries: []Entry{
		{UnqualifiedName: "baz", ComponentPath: This, Target: "lib-baz", Accessibility: Public},
	}}
	var buf errors.Buffer
	require.NoError(t, ctx.importModule("Lib", exp, &buf, zeroPos))
	require.NoError(t, ctx.openModule("Lib", &UseHideFilter{Strategy: Hiding}, Renames{"baz": "renamed"}, &buf, zeroPos))

	e, err := ctx.Resolve("renamed", zeroPos)
	require.NoError(t, err)
	require.Equal(t, "lib-baz", e.Target)
}

// Opening two modules that both export the same unqualified name makes that
// name ambiguous: a warning, and the name stays usable only qualified.
func TestOpenModuleAmbiguousNameWarns(t *testing.T) {
	ctx := NewModuleContext("M")
	a := &Export{Module: "A", Entries: []Entry{{UnqualifiedName: "same", ComponentPath: This, Target: "a-same", Accessibility: Public}}}
	b := &Export{Module: "B", Entries: []Entry{{UnqualifiedName: "same", ComponentPath: This, Target: "b-same", Accessibility: Public}}}
	var buf errors.Buffer
	require.NoError(t, ctx.importModule("A", a, &buf, zeroPos))
	require.NoError(t, ctx.importModule("B", b, &buf, zeroPos))
	require.NoError(t, ctx.openModule("A", &UseHideFilter{Strategy: Hiding}, nil, &buf, zeroPos))
	require.NoError(t, ctx.openModule("B", &UseHideFilter{Strategy: Hiding}, nil, &buf, zeroPos))

	found := false
	for _, r := range buf.Reports() {
		if r.Code == AmbiguousNameWarn {
			found = true
		}
	}
	require.True(t, found)
}

func TestExportViewOnlyIncludesPublicOwnEntries(t *testing.T) {
	ctx := NewModuleContext("M")
	var buf errors.Buffer
	require.NoError(t, ctx.define("pub", 1, Public, &buf, zeroPos))
	require.NoError(t, ctx.define("priv", 2, Private, &buf, zeroPos))

	exp := ctx.ExportView()
	_, hasPub := exp.GetExport("pub")
	_, hasPriv := exp.GetExport("priv")
	require.True(t, hasPub)
	require.False(t, hasPriv)
}

func TestExportViewCacheInvalidatedByNewDefine(t *testing.T) {
	ctx := NewModuleContext("M")
	var buf errors.Buffer
	require.NoError(t, ctx.define("pub", 1, Public, &buf, zeroPos))
	first := ctx.ExportView()
	require.Len(t, first.Entries, 1)

	require.NoError(t, ctx.define("pub2", 2, Public, &buf, zeroPos))
	second := ctx.ExportView()
	require.Len(t, second.Entries, 2)
}

func TestModuleNotFoundOnOpenUnimported(t *testing.T) {
	ctx := NewModuleContext("M")
	var buf errors.Buffer
	err := ctx.openModule("Nope", &UseHideFilter{Strategy: Hiding}, nil, &buf, zeroPos)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, ModuleNotFound, rep.Code)
}
