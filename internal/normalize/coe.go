package normalize

import "github.com/velalang/vela/internal/term"

// normalizeCoe implements the Coe post-rule (§4.1). Coe(Const(1), ty) is the
// identity coercion and normalizes to λx. x (property 4 of §8 / scenario
// S3). Otherwise the codomain shape is found by applying Type at the
// interval variable and normalizing; dispatch proceeds on that shape. At a
// Pi, Sigma or universe shape Coe normalizes to a *function* that performs
// the transport when later applied to the value being coerced — the identity
// case is the degenerate instance of this same pattern. At a Path or any
// other shape the Coe is kept, with its restriction and type normalized.
func normalizeCoe(c *term.Coe) term.Term {
	restr := NormalizeRestriction(c.Restr)
	if restr.IsTotal() {
		x := term.NewVar("x")
		return &term.Lam{Param: x, Body: &term.Ref{V: x}}
	}

	shape := codomainShape(c.Type)
	switch s := shape.(type) {
	case *term.Pi:
		return coePi(restr, c.Type, s)
	case *term.Sigma:
		return coeSigma(restr, c.Type, s)
	case *term.Universe:
		a := term.NewVar("A")
		return &term.Lam{Param: a, Body: &term.Ref{V: a}}
	default:
		// Path (irreducible) and any other shape: keep the Coe.
		return &term.Coe{Restr: restr, Type: Normalize(c.Type)}
	}
}

// codomainShape applies the interval-indexed type family Type at its bound
// interval variable and normalizes the result, so the Coe dispatch can peek
// at what shape of type is being transported across.
func codomainShape(typeFamily term.Term) term.Term {
	plam, ok := typeFamily.(*term.PLam)
	if !ok || len(plam.Params) != 1 {
		return Normalize(typeFamily)
	}
	i := term.NewVar(plam.Params[0].Name)
	s := term.NewSubst().Bind(plam.Params[0], &term.Ref{V: i})
	return Normalize(term.Apply(s, plam.Body))
}

// coePi produces the Π-coercion: Coe at a Pi-shaped codomain normalizes to
// λf. λy. coe_cod(f (coe_dom⁻¹(y))) — a function transporting the function
// f, whose own argument y is first coerced backward along the (reversed)
// domain before being fed to f, with the result coerced forward along the
// codomain.
func coePi(restr *term.Restriction, typeFamily term.Term, at *term.Pi) term.Term {
	plam := typeFamily.(*term.PLam)
	i := plam.Params[0]

	f := term.NewVar("f")
	y := term.NewVar(at.Param.Name)

	domFamily := &term.PLam{Params: []*term.Var{i}, Body: piDomAt(plam.Body)}
	backward := &term.Coe{Restr: reverseRestriction(restr), Type: domFamily}
	coercedArg := Normalize(&term.App{Fn: backward, Arg: &term.Ref{V: y}})

	codFamily := &term.PLam{Params: []*term.Var{i}, Body: piCodAt(plam.Body, coercedArg)}
	forward := &term.Coe{Restr: restr, Type: codFamily}

	applied := &term.App{Fn: &term.Ref{V: f}, Arg: coercedArg}
	body := Normalize(&term.App{Fn: forward, Arg: applied})

	return &term.Lam{Param: f, Body: &term.Lam{Param: y, Body: body}}
}

// piDomAt/piCodAt extract the domain/codomain of a Pi appearing as the body
// of the interval-indexed type family, so the Π-coercion can re-index them.
func piDomAt(body term.Term) term.Term {
	if pi, ok := body.(*term.Pi); ok {
		return pi.Dom
	}
	return body
}

func piCodAt(body term.Term, arg term.Term) term.Term {
	if pi, ok := body.(*term.Pi); ok {
		s := term.NewSubst().Bind(pi.Param, arg)
		return term.Apply(s, pi.Cod)
	}
	return body
}

// reverseRestriction flips direction for the contravariant domain
// coercion: coercing the argument backward uses the same face but with
// endpoints swapped (0 ↔ 1) on every equation.
func reverseRestriction(r *term.Restriction) *term.Restriction {
	out := &term.Restriction{Disjuncts: make([][]term.Equation, len(r.Disjuncts))}
	for i, conjEqs := range r.Disjuncts {
		neq := make([]term.Equation, len(conjEqs))
		for j, eq := range conjEqs {
			neq[j] = term.Equation{Var: eq.Var, Value: 1 - eq.Value}
		}
		out.Disjuncts[i] = neq
	}
	return out
}

// coeSigma produces the Σ-coercion: Coe at a Sigma-shaped codomain
// normalizes to λp. (pair of coerced components), each projected out of p
// and coerced under the substitution of the previously-coerced components
// (later fields may depend on earlier ones).
func coeSigma(restr *term.Restriction, typeFamily term.Term, at *term.Sigma) term.Term {
	plam := typeFamily.(*term.PLam)
	i := plam.Params[0]

	p := term.NewVar("p")
	elems := make([]term.Term, len(at.Params))
	sub := term.NewSubst()
	// The component types read by sigmaCompAt mention the family body's own
	// Sigma binders, so those are the variables the substitution binds.
	bodySigma, _ := plam.Body.(*term.Sigma)
	for idx := range at.Params {
		compFamily := &term.PLam{Params: []*term.Var{i}, Body: sigmaCompAt(plam.Body, idx, sub)}
		coe := &term.Coe{Restr: restr, Type: compFamily}
		proj := &term.Proj{Pair: &term.Ref{V: p}, Index: idx}
		elems[idx] = Normalize(&term.App{Fn: coe, Arg: proj})
		if bodySigma != nil && idx < len(bodySigma.Params) {
			sub = sub.Bind(bodySigma.Params[idx].Name, elems[idx])
		}
	}
	return &term.Lam{Param: p, Body: &term.Pair{Elems: elems}}
}

func sigmaCompAt(body term.Term, idx int, sub *term.Subst) term.Term {
	sg, ok := body.(*term.Sigma)
	if !ok || idx >= len(sg.Params) {
		return body
	}
	return term.Apply(sub, sg.Params[idx].Type)
}
