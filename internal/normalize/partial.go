package normalize

import "github.com/velalang/vela/internal/term"

// FlattenPartial merges a possibly-nested partial element into canonical
// form: a Split with a single clause whose face is total collapses to
// Const, and Const(Const(u)) collapses to Const(u) ("flattening a
// Partial<Partial<T>> merges nested constants", §3).
func FlattenPartial(p *term.PartialElem) *term.PartialElem {
	switch p.Kind {
	case term.PartialConst:
		if inner, ok := p.Val.(*term.Partial); ok {
			return FlattenPartial(inner.Elem)
		}
		return p
	case term.PartialSplit:
		clauses := make([]term.PartialClause, 0, len(p.Clauses))
		for _, c := range p.Clauses {
			face := NormalizeRestriction(c.Face)
			if face.IsEmpty() {
				continue
			}
			clauses = append(clauses, term.PartialClause{Face: face, Val: c.Val})
		}
		if len(clauses) == 1 && clauses[0].Face.IsTotal() {
			return term.ConstPartial(clauses[0].Val)
		}
		return term.SplitPartial(clauses)
	}
	return p
}

// ConstAt returns the term a (flattened) partial element reduces to under
// the given face, when that face makes it total.
func ConstAt(p *term.PartialElem, face *term.Restriction) (term.Term, bool) {
	flat := FlattenPartial(p)
	if flat.Kind == term.PartialConst {
		return flat.Val, true
	}
	if face != nil && face.IsTotal() && len(flat.Clauses) == 1 {
		return flat.Clauses[0].Val, true
	}
	return nil, false
}

// normalizePartial implements the Partial post-rule: flatten the payload,
// keep rhs as the face-total type.
func normalizePartial(p *term.Partial) term.Term {
	flat := FlattenPartial(p.Elem)
	return &term.Partial{Elem: flat, Rhs: Normalize(p.Rhs)}
}

// normalizePartialTy implements the PartialTy post-rule: if the restriction
// reduces to ⊤, unwrap to the underlying type (no wrapper); otherwise keep
// the normalized restriction.
func normalizePartialTy(p *term.PartialTy) term.Term {
	restr := NormalizeRestriction(p.Restr)
	ty := Normalize(p.Ty)
	if restr.IsTotal() {
		return ty
	}
	return &term.PartialTy{Restr: restr, Ty: ty}
}

// NormalizeRestriction simplifies a restriction to one of ⊥, ⊤, or a
// canonical DNF of interval equations, reusing the formula lattice
// normalizer: each equation "v = b" is represented as the literal v (b=1)
// or ¬v (b=0), so a restriction is exactly a formula over those literals.
func NormalizeRestriction(r *term.Restriction) *term.Restriction {
	if r.IsEmpty() {
		return term.EmptyRestriction()
	}
	f := restrictionToFormula(r)
	nf := NormalizeFormula(f)
	return formulaToRestriction(nf)
}

func restrictionToFormula(r *term.Restriction) *term.Formula {
	var out *term.Formula = term.Zero()
	for _, conjEqs := range r.Disjuncts {
		var c *term.Formula = term.One()
		for _, eq := range conjEqs {
			lit := term.AtomFormula(eq.Var)
			if eq.Value == 0 {
				lit = term.Not(lit)
			}
			c = term.And(c, lit)
		}
		out = term.Or(out, c)
	}
	return out
}

// formulaToRestriction converts a normalized (DNF) formula back into a
// Restriction. Because NormalizeFormula already produced a canonical
// disjunction of conjunctions of literals, this is a structural walk, not a
// re-derivation of DNF.
func formulaToRestriction(f *term.Formula) *term.Restriction {
	switch f.Op {
	case term.FormulaZero:
		return term.EmptyRestriction()
	case term.FormulaOne:
		return term.TotalRestriction()
	case term.FormulaAtom:
		return &term.Restriction{Disjuncts: [][]term.Equation{{{Var: f.Atom, Value: 1}}}}
	case term.FormulaNot:
		atom := f.Args[0]
		return &term.Restriction{Disjuncts: [][]term.Equation{{{Var: atom.Atom, Value: 0}}}}
	case term.FormulaAnd:
		left := formulaToRestriction(f.Args[0])
		right := formulaToRestriction(f.Args[1])
		return &term.Restriction{Disjuncts: [][]term.Equation{append(append([]term.Equation{}, left.Disjuncts[0]...), right.Disjuncts[0]...)}}
	case term.FormulaOr:
		left := formulaToRestriction(f.Args[0])
		right := formulaToRestriction(f.Args[1])
		return &term.Restriction{Disjuncts: append(append([][]term.Equation{}, left.Disjuncts...), right.Disjuncts...)}
	}
	return term.EmptyRestriction()
}
