package normalize

import "github.com/velalang/vela/internal/term"

// normalizePApp implements the PApp post-rule (§4.1), tried in order:
//
//	(a) of reduces to Erased(ty)     -> Erased(ty[binders ↦ args])
//	(b) of reduces to PLam(ps, body) -> body[ps ↦ args]
//	(c) otherwise, flatten the cube's partial element at the current face
func normalizePApp(p *term.PApp) term.Term {
	fn := Normalize(p.Fn)

	if er, ok := fn.(*term.Erased); ok {
		s := bindersToArgs(p.Cube.Binders, p.Args)
		return &term.Erased{Type: term.Apply(s, er.Type)}
	}

	if plam, ok := fn.(*term.PLam); ok && len(plam.Params) == len(p.Args) {
		s := bindersToArgs(plam.Params, p.Args)
		return Normalize(term.Apply(s, plam.Body))
	}

	face := faceFromBinders(p.Cube.Binders, p.Args)
	if u, ok := ConstAt(p.Cube.Partial, face); ok {
		return Normalize(u)
	}
	flat := FlattenPartial(p.Cube.Partial)
	return &term.PApp{
		Fn:   fn,
		Args: p.Args,
		Cube: term.Cube{Binders: p.Cube.Binders, Type: p.Cube.Type, Partial: flat},
	}
}

func bindersToArgs(binders []*term.Var, args []term.Term) *term.Subst {
	s := term.NewSubst()
	n := len(binders)
	if len(args) < n {
		n = len(args)
	}
	for i := 0; i < n; i++ {
		s = s.Bind(binders[i], args[i])
	}
	return s
}

// faceFromBinders derives the restriction implied by supplying concrete
// interval endpoints (0 or 1) as arguments to a path application; a
// non-endpoint argument contributes no equation (the face stays open on
// that binder).
func faceFromBinders(binders []*term.Var, args []term.Term) *term.Restriction {
	conj := []term.Equation{}
	for i, a := range args {
		if i >= len(binders) {
			break
		}
		f, ok := a.(*term.Formula)
		if !ok {
			continue
		}
		switch f.Op {
		case term.FormulaZero:
			conj = append(conj, term.Equation{Var: binders[i], Value: 0})
		case term.FormulaOne:
			conj = append(conj, term.Equation{Var: binders[i], Value: 1})
		}
	}
	if len(conj) == 0 {
		return term.TotalRestriction()
	}
	return &term.Restriction{Disjuncts: [][]term.Equation{conj}}
}
