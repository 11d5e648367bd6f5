// Package normalize implements the term normalization engine: a post-rule
// dispatch on the head node's shape, per spec §4.1. Each post-rule normalizes
// only the positions it needs to decide its own reduction (an App's function,
// a Proj's pair, a Match's scrutinees, ...); there is no generic traversal
// into other subterms. The engine is pure, emits no diagnostics, and is safe
// to run concurrently on disjoint term inputs.
package normalize

import "github.com/velalang/vela/internal/term"

// Normalize reduces t to weak-head-normal form: no further post-rule applies
// at the head. Subterms outside the head position (a Lam body, an App
// argument, ...) are not normalized. Normalize is the single entry point
// every post-rule re-invokes after performing a reduction.
func Normalize(t term.Term) term.Term {
	if t == nil {
		return t
	}
	switch n := t.(type) {
	case *term.Formula:
		return NormalizeFormula(n)
	case *term.PartialTy:
		return normalizePartialTy(n)
	case *term.MetaPat:
		return normalizeMetaPat(n)
	case *term.App:
		return normalizeApp(n)
	case *term.Proj:
		return normalizeProj(n)
	case *term.Match:
		return normalizeMatch(n)
	case *term.PApp:
		return normalizePApp(n)
	case *term.Partial:
		return normalizePartial(n)
	case *term.Coe:
		return normalizeCoe(n)
	default:
		// Irreducible shapes (Ref, Lam, Pi, Sigma, Pair, Ctor, PLam, Erased,
		// Universe, PathType) have no post-rule of their own; descending
		// into their subterms is handled by the caller that built them
		// (elaboration), since those positions are not "at the head".
		return t
	}
}

// normalizeApp implements the App post-rule: β once, then re-normalize only
// the result of an actual reduction (bounded recursion to the depth of
// nested redexes — each reduction consumes one redex, so this terminates on
// well-typed input per the fairness argument in §4.1).
func normalizeApp(a *term.App) term.Term {
	fn := Normalize(a.Fn)
	if lam, ok := fn.(*term.Lam); ok {
		s := term.NewSubst().Bind(lam.Param, a.Arg)
		return Normalize(term.Apply(s, lam.Body))
	}
	if fn == a.Fn {
		return a
	}
	return &term.App{Fn: fn, Arg: a.Arg}
}

// normalizeProj implements the Proj post-rule: yield the i-th component when
// the scrutinee reduces to a Pair constructor, otherwise stay stuck.
func normalizeProj(p *term.Proj) term.Term {
	pair := Normalize(p.Pair)
	if pr, ok := pair.(*term.Pair); ok {
		if p.Index < 0 || p.Index >= len(pr.Elems) {
			return p
		}
		return Normalize(pr.Elems[p.Index])
	}
	if pair == p.Pair {
		return p
	}
	return &term.Proj{Pair: pair, Index: p.Index}
}

// normalizeMatch implements the Match post-rule: clause order is
// significant, the first matching clause wins, and a stuck (non-constructor)
// scrutinee blocks matching entirely rather than falling through.
func normalizeMatch(m *term.Match) term.Term {
	scruts := make([]term.Term, len(m.Scrutinees))
	allCtor := true
	for i, sc := range m.Scrutinees {
		scruts[i] = Normalize(sc)
		if _, ok := scruts[i].(*term.Ctor); !ok {
			allCtor = false
		}
	}
	if !allCtor {
		changed := false
		for i := range scruts {
			if scruts[i] != m.Scrutinees[i] {
				changed = true
			}
		}
		if !changed {
			return m
		}
		return &term.Match{Scrutinees: scruts, Clauses: m.Clauses}
	}
	for _, cl := range m.Clauses {
		if s, ok := matchClause(cl.Pats, scruts); ok {
			return Normalize(term.Apply(s, cl.Body))
		}
	}
	return &term.Match{Scrutinees: scruts, Clauses: m.Clauses}
}

func matchClause(pats []term.Pattern, scruts []term.Term) (*term.Subst, bool) {
	s := term.NewSubst()
	for i, p := range pats {
		ns, ok := matchPattern(s, p, scruts[i])
		if !ok {
			return nil, false
		}
		s = ns
	}
	return s, true
}

func matchPattern(s *term.Subst, p term.Pattern, scrut term.Term) (*term.Subst, bool) {
	if p.Ctor == "" {
		if p.Bind != nil {
			return s.Bind(p.Bind, scrut), true
		}
		return s, true
	}
	c, ok := scrut.(*term.Ctor)
	if !ok || c.Name != p.Ctor || len(c.Args) != len(p.Args) {
		return nil, false
	}
	cur := s
	for i, sub := range p.Args {
		ns, ok := matchPattern(cur, sub, c.Args[i])
		if !ok {
			return nil, false
		}
		cur = ns
	}
	return cur, true
}

// normalizeMetaPat implements the MetaPat post-rule: inline the solution if
// present, otherwise leave it in place.
func normalizeMetaPat(m *term.MetaPat) term.Term {
	if sol, ok := m.Solution(); ok {
		return Normalize(sol)
	}
	return m
}
