package term

import "fmt"

// Formula is an interval expression built from the endpoints 0, 1 and the
// lattice operations ∧, ∨, ¬. And/Or/Not are smart constructors that apply
// the idempotent/absorbing laws eagerly, so formulas
// stay small during elaboration and not only after a normalize() pass.
type Formula struct {
	Op   FormulaOp
	Args []*Formula // empty for Zero/One/Atom
	Atom *Var       // set when Op == FormulaAtom
}

type FormulaOp int

const (
	FormulaZero FormulaOp = iota
	FormulaOne
	FormulaAtom
	FormulaAnd
	FormulaOr
	FormulaNot
)

func (*Formula) isTerm() {}

func (f *Formula) String() string {
	switch f.Op {
	case FormulaZero:
		return "0"
	case FormulaOne:
		return "1"
	case FormulaAtom:
		return f.Atom.Name
	case FormulaAnd:
		return fmt.Sprintf("(%s ∧ %s)", f.Args[0], f.Args[1])
	case FormulaOr:
		return fmt.Sprintf("(%s ∨ %s)", f.Args[0], f.Args[1])
	case FormulaNot:
		return fmt.Sprintf("¬%s", f.Args[0])
	default:
		return "?formula"
	}
}

// Zero, One and AtomFormula are the formula leaves.
func Zero() *Formula { return &Formula{Op: FormulaZero} }
func One() *Formula  { return &Formula{Op: FormulaOne} }
func AtomFormula(v *Var) *Formula { return &Formula{Op: FormulaAtom, Atom: v} }

// And builds a conjunction, applying absorption/idempotence at construction.
func And(a, b *Formula) *Formula {
	switch {
	case a.Op == FormulaZero || b.Op == FormulaZero:
		return Zero()
	case a.Op == FormulaOne:
		return b
	case b.Op == FormulaOne:
		return a
	case formulaEqual(a, b):
		return a
	default:
		return &Formula{Op: FormulaAnd, Args: []*Formula{a, b}}
	}
}

// Or builds a disjunction, applying absorption/idempotence at construction.
func Or(a, b *Formula) *Formula {
	switch {
	case a.Op == FormulaOne || b.Op == FormulaOne:
		return One()
	case a.Op == FormulaZero:
		return b
	case b.Op == FormulaZero:
		return a
	case formulaEqual(a, b):
		return a
	default:
		return &Formula{Op: FormulaOr, Args: []*Formula{a, b}}
	}
}

// Not builds a negation, collapsing double negation and literals eagerly.
func Not(a *Formula) *Formula {
	switch a.Op {
	case FormulaZero:
		return One()
	case FormulaOne:
		return Zero()
	case FormulaNot:
		return a.Args[0]
	default:
		return &Formula{Op: FormulaNot, Args: []*Formula{a}}
	}
}

func formulaEqual(a, b *Formula) bool {
	if a.Op != b.Op {
		return false
	}
	switch a.Op {
	case FormulaZero, FormulaOne:
		return true
	case FormulaAtom:
		return a.Atom == b.Atom
	case FormulaNot:
		return formulaEqual(a.Args[0], b.Args[0])
	case FormulaAnd, FormulaOr:
		return (formulaEqual(a.Args[0], b.Args[0]) && formulaEqual(a.Args[1], b.Args[1])) ||
			(formulaEqual(a.Args[0], b.Args[1]) && formulaEqual(a.Args[1], b.Args[0]))
	}
	return false
}

// Restriction is a disjunction of conjunctions of interval equations ("a
// face"). A disjunct with no equations denotes the total face (see
// TotalRestriction). Normalization simplifies a Restriction to one of ⊥, ⊤,
// or a canonical DNF — see normalize.NormalizeRestriction.
type Restriction struct {
	// Disjuncts is the DNF: each inner slice is a conjunction of equations.
	Disjuncts [][]Equation
}

// Equation is "Var = 0" or "Var = 1".
type Equation struct {
	Var   *Var
	Value int // 0 or 1
}

// IsTotal reports whether this restriction is the always-true face.
func (r *Restriction) IsTotal() bool {
	for _, conj := range r.Disjuncts {
		if len(conj) == 0 {
			return true
		}
	}
	return false
}

// IsEmpty reports whether this restriction has no satisfying assignment.
func (r *Restriction) IsEmpty() bool { return len(r.Disjuncts) == 0 }

// TotalRestriction is the restriction that is always satisfied (⊤).
func TotalRestriction() *Restriction { return &Restriction{Disjuncts: [][]Equation{{}}} }

// EmptyRestriction is the restriction with no satisfying assignment (⊥).
func EmptyRestriction() *Restriction { return &Restriction{} }

// PartialKind distinguishes the two partial-element shapes from §3.
type PartialKind int

const (
	PartialSplit PartialKind = iota
	PartialConst
)

// PartialClause is one (face, term) arm of a Split.
type PartialClause struct {
	Face *Restriction
	Val  Term
}

// PartialElem is either Split(clauses) or Const(term). A Split with a
// single clause whose face is total is equivalent to Const — the normalizer
// flattens this (see normalize.FlattenPartial).
type PartialElem struct {
	Kind    PartialKind
	Clauses []PartialClause // Kind == PartialSplit
	Val     Term            // Kind == PartialConst
}

func ConstPartial(t Term) *PartialElem { return &PartialElem{Kind: PartialConst, Val: t} }
func SplitPartial(clauses []PartialClause) *PartialElem {
	return &PartialElem{Kind: PartialSplit, Clauses: clauses}
}

// Partial pairs a partial element with the type to which it reduces on its
// total face.
type Partial struct {
	Elem *PartialElem
	Rhs  Term
}

func (*Partial) isTerm() {}
func (p *Partial) String() string { return fmt.Sprintf("partial(%v : %s)", p.Elem, p.Rhs) }

// PartialTy is the type of partial elements under a face restriction.
type PartialTy struct {
	Restr *Restriction
	Ty    Term
}

func (*PartialTy) isTerm() {}
func (p *PartialTy) String() string { return fmt.Sprintf("PartialP(%v, %s)", p.Restr, p.Ty) }

// Cube carries the data every path application needs: the interval binders,
// the endpoint type (as a function of those binders), and a partial element
// covering the boundary.
type Cube struct {
	Binders []*Var
	Type    Term // function of Binders, i -> Type(i)
	Partial *PartialElem
}

// PLam is a path abstraction: λ⟨binders⟩. Body.
type PLam struct {
	Params []*Var
	Body   Term
}

func (*PLam) isTerm() {}
func (p *PLam) String() string { return fmt.Sprintf("path-λ%v. %s", p.Params, p.Body) }

// PApp is path application.
type PApp struct {
	Fn   Term
	Args []Term
	Cube Cube
}

func (*PApp) isTerm() {}
func (p *PApp) String() string { return fmt.Sprintf("(%s @ %v)", p.Fn, p.Args) }

// Coe is the cubical coercion operator: transport a term along a path of
// types under a face restriction.
type Coe struct {
	Restr *Restriction
	Type  Term // i -> Type(i), a PLam-like function from interval to type
}

func (*Coe) isTerm() {}
func (c *Coe) String() string { return fmt.Sprintf("coe(%v, %s)", c.Restr, c.Type) }

// Erased is a proof-irrelevant placeholder of a given type.
type Erased struct {
	Type Term
}

func (*Erased) isTerm() {}
func (e *Erased) String() string { return fmt.Sprintf("erased(%s)", e.Type) }

// Universe is the one "Type"-shaped term the Coe codomain dispatch needs to
// recognize (Coe at a universe normalizes to the identity function, §4.1).
type Universe struct{ Level int }

func (*Universe) isTerm() {}
func (u *Universe) String() string { return fmt.Sprintf("Type%d", u.Level) }

// PathType is the irreducible Coe codomain shape: coercion along a family of
// Path types is left unreduced (§4.1's Coe dispatch table).
type PathType struct {
	Line Term // i -> A(i)
}

func (*PathType) isTerm() {}
func (p *PathType) String() string { return fmt.Sprintf("Path(%s)", p.Line) }
