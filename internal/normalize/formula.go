package normalize

import "github.com/velalang/vela/internal/term"

// NormalizeFormula reduces an interval formula to a canonical element of the
// free distributive lattice with involution on generators: a sorted,
// duplicate-free disjunction of sorted, duplicate-free conjunctions of
// literals (atom or ¬atom), with ⊥/⊤ absorbing as usual. This realizes the
// Formula post-rule (§4.1) and property 3 of §8 (¬¬f = f, f∧f = f, and
// f∨¬f simplifies only when both sides are already literals).
func NormalizeFormula(f *term.Formula) *term.Formula {
	lits := toDNF(f)
	return fromDNF(lits)
}

// literal is one conjunct: an atom, possibly negated.
type literal struct {
	v   *term.Var
	neg bool
}

// conj is a conjunction of literals, identified by the set of (var,neg)
// pairs it contains; contradictory conjunctions (v and ¬v both present)
// collapse to nil (the empty/false conjunction, dropped from the DNF).
type conj []literal

func toDNF(f *term.Formula) []conj {
	switch f.Op {
	case term.FormulaZero:
		return nil
	case term.FormulaOne:
		return []conj{{}}
	case term.FormulaAtom:
		return []conj{{literal{v: f.Atom}}}
	case term.FormulaNot:
		return negateDNF(toDNF(f.Args[0]))
	case term.FormulaAnd:
		return andDNF(toDNF(f.Args[0]), toDNF(f.Args[1]))
	case term.FormulaOr:
		return append(toDNF(f.Args[0]), toDNF(f.Args[1])...)
	}
	return nil
}

// negateDNF computes De Morgan's dual of a DNF by distributing: ¬(A ∨ B) =
// ¬A ∧ ¬B, and ¬(conjunction) = disjunction of negated literals, expanded
// via repeated distribution over the accumulated result.
func negateDNF(d []conj) []conj {
	result := []conj{{}}
	for _, c := range d {
		var negatedDisjuncts []conj
		for _, lit := range c {
			negatedDisjuncts = append(negatedDisjuncts, conj{{v: lit.v, neg: !lit.neg}})
		}
		result = andDNF(result, negatedDisjuncts)
	}
	return result
}

func andDNF(a, b []conj) []conj {
	var out []conj
	for _, ca := range a {
		for _, cb := range b {
			if merged, ok := mergeConj(ca, cb); ok {
				out = append(out, merged)
			}
		}
	}
	return out
}

func mergeConj(a, b conj) (conj, bool) {
	merged := conj{}
	for _, lit := range append(append(conj{}, a...), b...) {
		duplicate := false
		for _, existing := range merged {
			if existing.v == lit.v {
				if existing.neg != lit.neg {
					return nil, false // contradiction: v ∧ ¬v
				}
				duplicate = true
				break
			}
		}
		if !duplicate {
			merged = append(merged, lit)
		}
	}
	return merged, true
}

// fromDNF rebuilds a canonical *term.Formula: conjunctions and disjuncts are
// sorted by variable identity so equal formulas always produce the same
// tree, duplicate conjunctions are dropped, and ⊥/⊤ are recognized.
func fromDNF(d []conj) *term.Formula {
	// Dedup conjunctions (as sorted literal sets) and sort each.
	type key = string
	seen := map[key]conj{}
	for _, c := range d {
		sortConj(c)
		seen[conjKey(c)] = c
	}
	if len(seen) == 0 {
		return term.Zero()
	}
	var conjs []conj
	for _, c := range seen {
		conjs = append(conjs, c)
	}
	sortConjs(conjs)

	var disjunct *term.Formula
	for _, c := range conjs {
		f := conjToFormula(c)
		if disjunct == nil {
			disjunct = f
		} else {
			disjunct = term.Or(disjunct, f)
		}
	}
	return disjunct
}

func conjToFormula(c conj) *term.Formula {
	if len(c) == 0 {
		return term.One()
	}
	var f *term.Formula
	for _, lit := range c {
		atom := term.AtomFormula(lit.v)
		var litF *term.Formula
		if lit.neg {
			litF = term.Not(atom)
		} else {
			litF = atom
		}
		if f == nil {
			f = litF
		} else {
			f = term.And(f, litF)
		}
	}
	return f
}

func sortConj(c conj) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && varLess(c[j].v, c[j-1].v); j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}

func sortConjs(cs []conj) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && conjKey(cs[j]) < conjKey(cs[j-1]); j-- {
			cs[j], cs[j-1] = cs[j-1], cs[j]
		}
	}
}

func varLess(a, b *term.Var) bool { return a.ID() < b.ID() }

func conjKey(c conj) string {
	out := make([]byte, 0, len(c)*12)
	for _, lit := range c {
		if lit.neg {
			out = append(out, '!')
		}
		for shift := 56; shift >= 0; shift -= 8 {
			out = append(out, byte(lit.v.ID()>>uint(shift)))
		}
	}
	return string(out)
}
