package normalize

import (
	"testing"

	"github.com/velalang/vela/internal/term"
)

func TestDoubleNegation(t *testing.T) {
	v := term.NewVar("i")
	f := term.Not(term.Not(term.AtomFormula(v)))
	got := NormalizeFormula(f)
	want := NormalizeFormula(term.AtomFormula(v))
	if got.String() != want.String() {
		t.Fatalf("¬¬f != f: got %s want %s", got, want)
	}
}

func TestAndSelfIdempotent(t *testing.T) {
	v := term.NewVar("i")
	atom := term.AtomFormula(v)
	got := NormalizeFormula(term.And(atom, atom))
	want := NormalizeFormula(atom)
	if got.String() != want.String() {
		t.Fatalf("f ∧ f != f: got %s want %s", got, want)
	}
}

func TestOrWithNegatedLiteralsSimplifies(t *testing.T) {
	// 0 ∨ ¬0 simplifies at construction: both sides are literals.
	got := NormalizeFormula(term.Or(term.Zero(), term.Not(term.Zero())))
	want := term.One()
	if got.String() != want.String() {
		t.Fatalf("f ∨ ¬f (literal) did not simplify to 1: got %s", got)
	}
}

func TestOrWithNonLiteralArgumentDoesNotCollapse(t *testing.T) {
	v := term.NewVar("i")
	w := term.NewVar("j")
	// (i ∧ j) ∨ ¬(i ∧ j): per property 3, f ∨ ¬f simplifies only when both
	// endpoints are literals. i ∧ j is not a literal, so this must NOT
	// collapse to 1 — it normalizes to its (distinct, non-tautological)
	// canonical DNF: (i ∧ j) ∨ ¬i ∨ ¬j.
	atomV := term.AtomFormula(v)
	atomW := term.AtomFormula(w)
	f := term.And(atomV, atomW)
	combined := term.Or(f, term.Not(f))
	got := NormalizeFormula(combined)

	want := term.Or(term.Or(term.And(atomV, atomW), term.Not(atomV)), term.Not(atomW))
	if got.String() != want.String() {
		t.Fatalf("expected canonical DNF %s, got %s", want, got)
	}
	if got.String() == term.One().String() {
		t.Fatalf("f ∨ ¬f must not collapse to 1 when f is not a literal, got %s", got)
	}
}

func TestCanonicalFormIsOrderIndependent(t *testing.T) {
	v := term.NewVar("i")
	w := term.NewVar("j")
	a := term.And(term.AtomFormula(v), term.AtomFormula(w))
	b := term.And(term.AtomFormula(w), term.AtomFormula(v))
	ga := NormalizeFormula(a)
	gb := NormalizeFormula(b)
	if ga.String() != gb.String() {
		t.Fatalf("canonical form depends on argument order: %s vs %s", ga, gb)
	}
}

func TestRestrictionTotalUnwrapsPartialTy(t *testing.T) {
	restr := term.TotalRestriction()
	ty := &term.Ctor{Name: "Bool"}
	got := Normalize(&term.PartialTy{Restr: restr, Ty: ty})
	if got != term.Term(ty) {
		t.Fatalf("expected PartialTy(⊤, ty) to unwrap to ty, got %v", got)
	}
}
