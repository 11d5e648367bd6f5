// Package term implements the core term representation for the cubical type
// theory: a tagged variant of β/cubical-β reducible shapes, immutable after
// construction. The normalizer (package normalize) consumes these.
package term

import "fmt"

// Var is a bound variable. Identity (not name) determines binding: two Vars
// are the same binder iff they are the same *Var pointer.
type Var struct {
	id   uint64
	Name string // display name only, never used for equality
}

// Term is the base interface for every node shape (§3).
type Term interface {
	fmt.Stringer
	isTerm()
}

// Ref is a bound-variable reference.
type Ref struct {
	V *Var
}

func (*Ref) isTerm() {}
func (r *Ref) String() string { return r.V.Name }

// Param is a single Pi/Lam/Sigma parameter.
type Param struct {
	Name *Var
	Type Term
}

// Lam is an ordinary lambda abstraction.
type Lam struct {
	Param *Var
	Body  Term
}

func (*Lam) isTerm() {}
func (l *Lam) String() string { return fmt.Sprintf("λ%s. %s", l.Param.Name, l.Body) }

// App is ordinary function application.
type App struct {
	Fn  Term
	Arg Term
}

func (*App) isTerm() {}
func (a *App) String() string { return fmt.Sprintf("(%s %s)", a.Fn, a.Arg) }

// Pi is the dependent function type former.
type Pi struct {
	Param *Var
	Dom   Term
	Cod   Term
}

func (*Pi) isTerm() {}
func (p *Pi) String() string { return fmt.Sprintf("Π(%s : %s). %s", p.Param.Name, p.Dom, p.Cod) }

// Sigma is the dependent pair type former; Params are telescoped.
type Sigma struct {
	Params []Param
}

func (*Sigma) isTerm() {}
func (s *Sigma) String() string { return fmt.Sprintf("Σ%v", s.Params) }

// Pair is a Sigma constructor (needed so Proj has something to reduce against).
type Pair struct {
	Elems []Term
}

func (*Pair) isTerm() {}
func (p *Pair) String() string { return fmt.Sprintf("(%v)", p.Elems) }

// Proj is pair projection by zero-based index.
type Proj struct {
	Pair  Term
	Index int
}

func (*Proj) isTerm() {}
func (p *Proj) String() string { return fmt.Sprintf("%s.%d", p.Pair, p.Index) }

// Clause is one arm of a Match.
type Clause struct {
	Pats []Pattern
	Body Term
}

// Pattern is a constructor pattern over scrutinees. A Pattern either matches
// a literal constructor head (Ctor, Args) or is a wildcard/variable bind.
type Pattern struct {
	Ctor string // empty means wildcard/bind
	Args []Pattern
	Bind *Var // set when Ctor == ""
}

// Match is pattern matching over one or more scrutinees.
type Match struct {
	Scrutinees []Term
	Clauses    []Clause
}

func (*Match) isTerm() {}
func (m *Match) String() string { return fmt.Sprintf("match %v {%d clauses}", m.Scrutinees, len(m.Clauses)) }

// Ctor is a saturated data constructor application, the only shape Proj/Match
// post-rules recognize as a non-stuck head.
type Ctor struct {
	Name string
	Args []Term
}

func (*Ctor) isTerm() {}
func (c *Ctor) String() string { return fmt.Sprintf("%s%v", c.Name, c.Args) }

// MetaPat is a pattern metavariable whose payload may later be resolved by
// elaboration (external). Solve/Solution give the normalizer's MetaPat
// post-rule something concrete to inline (§C of SPEC_FULL.md).
type MetaPat struct {
	Ref      string
	solution Term
}

func (*MetaPat) isTerm() {}
func (m *MetaPat) String() string {
	if m.solution != nil {
		return m.solution.String()
	}
	return "?" + m.Ref
}

// Solve records the meta's solution. Idempotent: solving an already-solved
// meta to the same term is a no-op; solving it to a different term panics,
// since metas are solved at most once by construction discipline upstream.
func (m *MetaPat) Solve(t Term) {
	if m.solution != nil {
		if m.solution == t {
			return
		}
		panic("term: meta " + m.Ref + " already solved")
	}
	m.solution = t
}

// Solution returns the meta's solution and whether it has one.
func (m *MetaPat) Solution() (Term, bool) { return m.solution, m.solution != nil }

// NewVar mints a bound variable with process-wide unique identity.
func NewVar(name string) *Var {
	return &Var{id: nextVarID(), Name: name}
}

// ID exposes the identity for use as a map key (e.g. in Subst).
func (v *Var) ID() uint64 { return v.id }
