package term

// Subst is a finite, composable mapping from variables to terms. Application
// is capture-avoiding: Apply never substitutes into a binder that shadows one
// of Subst's own domain variables, and bound variables introduced while
// substituting are always freshly minted (see Lam/Pi/PLam/Sigma cases in
// Apply), so identity-based hygiene (term.Var) is preserved.
type Subst struct {
	entries map[uint64]Term
	names   map[uint64]*Var // for producing readable output only
}

// NewSubst creates an empty substitution.
func NewSubst() *Subst {
	return &Subst{entries: make(map[uint64]Term), names: make(map[uint64]*Var)}
}

// Bind extends the substitution with v ↦ t, returning a new Subst (the
// receiver is never mutated, matching "terms are immutable after
// construction" for the substitution's own bookkeeping).
func (s *Subst) Bind(v *Var, t Term) *Subst {
	out := &Subst{entries: make(map[uint64]Term, len(s.entries)+1), names: make(map[uint64]*Var, len(s.names)+1)}
	for k, val := range s.entries {
		out.entries[k] = val
	}
	for k, val := range s.names {
		out.names[k] = val
	}
	out.entries[v.id] = t
	out.names[v.id] = v
	return out
}

// Lookup returns the term bound to v, if any.
func (s *Subst) Lookup(v *Var) (Term, bool) {
	t, ok := s.entries[v.id]
	return t, ok
}

// Empty reports whether the substitution binds nothing.
func (s *Subst) Empty() bool { return len(s.entries) == 0 }

// Apply performs a capture-avoiding substitution of s into t, returning a new
// term. Leaves the substitution does not touch (a Ref to an unbound
// variable, Universe, PathType, ...) are shared; compound nodes are rebuilt.
func Apply(s *Subst, t Term) Term {
	if s == nil || s.Empty() {
		return t
	}
	switch n := t.(type) {
	case *Ref:
		if repl, ok := s.Lookup(n.V); ok {
			return repl
		}
		return n
	case *Lam:
		fresh := NewVar(n.Param.Name)
		body := Apply(s.Bind(n.Param, &Ref{V: fresh}), n.Body)
		return &Lam{Param: fresh, Body: body}
	case *App:
		return &App{Fn: Apply(s, n.Fn), Arg: Apply(s, n.Arg)}
	case *Pi:
		fresh := NewVar(n.Param.Name)
		sub := s.Bind(n.Param, &Ref{V: fresh})
		return &Pi{Param: fresh, Dom: Apply(s, n.Dom), Cod: Apply(sub, n.Cod)}
	case *Sigma:
		params := make([]Param, len(n.Params))
		cur := s
		for i, p := range n.Params {
			fresh := NewVar(p.Name.Name)
			params[i] = Param{Name: fresh, Type: Apply(cur, p.Type)}
			cur = cur.Bind(p.Name, &Ref{V: fresh})
		}
		return &Sigma{Params: params}
	case *Pair:
		elems := make([]Term, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = Apply(s, e)
		}
		return &Pair{Elems: elems}
	case *Proj:
		return &Proj{Pair: Apply(s, n.Pair), Index: n.Index}
	case *Ctor:
		args := make([]Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = Apply(s, a)
		}
		return &Ctor{Name: n.Name, Args: args}
	case *Match:
		scruts := make([]Term, len(n.Scrutinees))
		for i, sc := range n.Scrutinees {
			scruts[i] = Apply(s, sc)
		}
		clauses := make([]Clause, len(n.Clauses))
		for i, c := range n.Clauses {
			clauses[i] = Clause{Pats: c.Pats, Body: applyUnderPats(s, c.Pats, c.Body)}
		}
		return &Match{Scrutinees: scruts, Clauses: clauses}
	case *MetaPat:
		if sol, ok := n.Solution(); ok {
			return Apply(s, sol)
		}
		return n
	case *PLam:
		params := make([]*Var, len(n.Params))
		cur := s
		for i, p := range n.Params {
			fresh := NewVar(p.Name)
			params[i] = fresh
			cur = cur.Bind(p, &Ref{V: fresh})
		}
		return &PLam{Params: params, Body: Apply(cur, n.Body)}
	case *PApp:
		args := make([]Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = Apply(s, a)
		}
		return &PApp{Fn: Apply(s, n.Fn), Args: args, Cube: applyCube(s, n.Cube)}
	case *Formula:
		return applyFormula(s, n)
	case *Partial:
		return &Partial{Elem: applyPartialElem(s, n.Elem), Rhs: Apply(s, n.Rhs)}
	case *PartialTy:
		return &PartialTy{Restr: applyRestriction(s, n.Restr), Ty: Apply(s, n.Ty)}
	case *Coe:
		return &Coe{Restr: applyRestriction(s, n.Restr), Type: Apply(s, n.Type)}
	case *Erased:
		return &Erased{Type: Apply(s, n.Type)}
	default:
		// Universe, PathType literals, already-ground Ctor/Ref without
		// bound occurrences: nothing to substitute.
		return t
	}
}

func applyUnderPats(s *Subst, pats []Pattern, body Term) Term {
	cur := s
	for _, p := range pats {
		cur = bindPattern(cur, p)
	}
	return Apply(cur, body)
}

func bindPattern(s *Subst, p Pattern) *Subst {
	if p.Ctor == "" {
		if p.Bind == nil {
			return s
		}
		fresh := NewVar(p.Bind.Name)
		return s.Bind(p.Bind, &Ref{V: fresh})
	}
	cur := s
	for _, a := range p.Args {
		cur = bindPattern(cur, a)
	}
	return cur
}

func applyFormula(s *Subst, f *Formula) *Formula {
	switch f.Op {
	case FormulaZero, FormulaOne:
		return f
	case FormulaAtom:
		if repl, ok := s.Lookup(f.Atom); ok {
			if rf, ok := repl.(*Formula); ok {
				return rf
			}
			if rr, ok := repl.(*Ref); ok {
				return AtomFormula(rr.V)
			}
		}
		return f
	case FormulaAnd:
		return And(applyFormula(s, f.Args[0]), applyFormula(s, f.Args[1]))
	case FormulaOr:
		return Or(applyFormula(s, f.Args[0]), applyFormula(s, f.Args[1]))
	case FormulaNot:
		return Not(applyFormula(s, f.Args[0]))
	}
	return f
}

func applyRestriction(s *Subst, r *Restriction) *Restriction {
	out := &Restriction{Disjuncts: make([][]Equation, len(r.Disjuncts))}
	for i, conj := range r.Disjuncts {
		neq := make([]Equation, len(conj))
		for j, eq := range conj {
			v := eq.Var
			if repl, ok := s.Lookup(eq.Var); ok {
				if rr, ok := repl.(*Ref); ok {
					v = rr.V
				}
			}
			neq[j] = Equation{Var: v, Value: eq.Value}
		}
		out.Disjuncts[i] = neq
	}
	return out
}

func applyPartialElem(s *Subst, p *PartialElem) *PartialElem {
	switch p.Kind {
	case PartialConst:
		return ConstPartial(Apply(s, p.Val))
	case PartialSplit:
		clauses := make([]PartialClause, len(p.Clauses))
		for i, c := range p.Clauses {
			clauses[i] = PartialClause{Face: applyRestriction(s, c.Face), Val: Apply(s, c.Val)}
		}
		return SplitPartial(clauses)
	}
	return p
}

func applyCube(s *Subst, c Cube) Cube {
	fresh := make([]*Var, len(c.Binders))
	cur := s
	for i, b := range c.Binders {
		v := NewVar(b.Name)
		fresh[i] = v
		cur = cur.Bind(b, &Ref{V: v})
	}
	return Cube{Binders: fresh, Type: Apply(cur, c.Type), Partial: applyPartialElem(cur, c.Partial)}
}
