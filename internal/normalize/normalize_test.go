package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/velalang/vela/internal/term"
)

func refString(x *term.Var) string { return x.Name }

// S1: App(Lam(x, Ref(x)), Ref(y)) → Ref(y)
func TestBetaSimple(t *testing.T) {
	y := term.NewVar("y")
	x := term.NewVar("x")
	lam := &term.Lam{Param: x, Body: &term.Ref{V: x}}
	app := &term.App{Fn: lam, Arg: &term.Ref{V: y}}

	got := Normalize(app)
	ref, ok := got.(*term.Ref)
	require.True(t, ok, "expected *term.Ref, got %T", got)
	require.Equal(t, y, ref.V)
}

// S2: App(App(Lam(x, Lam(y, Ref(x))), Ref(a)), Ref(b)) → Ref(a)
func TestBetaNested(t *testing.T) {
	a := term.NewVar("a")
	b := term.NewVar("b")
	x := term.NewVar("x")
	y := term.NewVar("y")

	inner := &term.Lam{Param: y, Body: &term.Ref{V: x}}
	outer := &term.Lam{Param: x, Body: inner}
	app1 := &term.App{Fn: outer, Arg: &term.Ref{V: a}}
	app2 := &term.App{Fn: app1, Arg: &term.Ref{V: b}}

	got := Normalize(app2)
	ref, ok := got.(*term.Ref)
	require.True(t, ok, "expected *term.Ref, got %T", got)
	require.Equal(t, a, ref.V)
}

// S3: Coe(Const(1), Lam(i, U)) → Lam(A, Ref(A)) (up to α)
func TestCoeIdentity(t *testing.T) {
	i := term.NewVar("i")
	coe := &term.Coe{
		Restr: term.TotalRestriction(),
		Type:  &term.PLam{Params: []*term.Var{i}, Body: &term.Universe{}},
	}

	got := Normalize(coe)
	lam, ok := got.(*term.Lam)
	require.True(t, ok, "expected *term.Lam, got %T", got)
	ref, ok := lam.Body.(*term.Ref)
	require.True(t, ok)
	require.Equal(t, lam.Param, ref.V)
}

func TestNormalizationIdempotent(t *testing.T) {
	y := term.NewVar("y")
	x := term.NewVar("x")
	app := &term.App{Fn: &term.Lam{Param: x, Body: &term.Ref{V: x}}, Arg: &term.Ref{V: y}}

	once := Normalize(app)
	twice := Normalize(once)
	if diff := cmp.Diff(once, twice, cmpopts.IgnoreUnexported(term.Var{})); diff != "" {
		t.Fatalf("normalize not idempotent (-once +twice):\n%s", diff)
	}
}

func TestProjOnConstructedPair(t *testing.T) {
	a := term.NewVar("a")
	b := term.NewVar("b")
	pair := &term.Pair{Elems: []term.Term{&term.Ref{V: a}, &term.Ref{V: b}}}
	proj := &term.Proj{Pair: pair, Index: 1}

	got := Normalize(proj)
	ref, ok := got.(*term.Ref)
	require.True(t, ok)
	require.Equal(t, b, ref.V)
}

func TestProjOnStuckScrutineeStaysStuck(t *testing.T) {
	x := term.NewVar("x")
	proj := &term.Proj{Pair: &term.Ref{V: x}, Index: 0}
	got := Normalize(proj)
	if _, ok := got.(*term.Proj); !ok {
		t.Fatalf("expected stuck *term.Proj, got %T", got)
	}
}

func TestMatchFirstClauseWins(t *testing.T) {
	scrut := &term.Ctor{Name: "Some", Args: []term.Term{&term.Ctor{Name: "Zero"}}}
	bind := term.NewVar("n")
	m := &term.Match{
		Scrutinees: []term.Term{scrut},
		Clauses: []term.Clause{
			{Pats: []term.Pattern{{Ctor: "Some", Args: []term.Pattern{{Bind: bind}}}}, Body: &term.Ref{V: bind}},
			{Pats: []term.Pattern{{}}, Body: &term.Ctor{Name: "Fallback"}},
		},
	}
	got := Normalize(m)
	if ctor, ok := got.(*term.Ctor); !ok || ctor.Name != "Zero" {
		t.Fatalf("expected the Some clause to win and yield Zero, got %v", got)
	}
}

func TestMatchStuckScrutineeBlocks(t *testing.T) {
	x := term.NewVar("x")
	m := &term.Match{
		Scrutinees: []term.Term{&term.Ref{V: x}},
		Clauses:    []term.Clause{{Pats: []term.Pattern{{Ctor: "Zero"}}, Body: &term.Ctor{Name: "Done"}}},
	}
	got := Normalize(m)
	if _, ok := got.(*term.Match); !ok {
		t.Fatalf("expected stuck *term.Match, got %T", got)
	}
}

func TestMetaPatInlinesSolution(t *testing.T) {
	m := &term.MetaPat{Ref: "?0"}
	sol := &term.Ctor{Name: "Unit"}
	m.Solve(sol)
	got := Normalize(m)
	if ctor, ok := got.(*term.Ctor); !ok || ctor.Name != "Unit" {
		t.Fatalf("expected inlined Unit, got %v", got)
	}
}

func TestMetaPatUnsolvedLeftInPlace(t *testing.T) {
	m := &term.MetaPat{Ref: "?1"}
	got := Normalize(m)
	if got != term.Term(m) {
		t.Fatalf("expected unsolved meta left in place")
	}
}
