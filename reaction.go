/*
Copyright (C) 2026 the crn authors.
This file is part of crn.

crn is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

crn is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with crn.  If not, see <http://www.gnu.org/licenses/>.
*/

package crn

import (
	"fmt"
	"math"
)

// Reaction is a stoichiometric reactant -> product rule with a rate
// constant (§3/§4.B). Reactions are built via Expression.To and are
// immutable except for the rate constant, which may still be adjusted via
// K before the reaction is folded into a CRN.
type Reaction struct {
	Reactants Expression
	Products  Expression
	k         float64

	isSchema        bool
	schemaReactants []Species // ordered by position in Reactants, per §4.F
	compiled        map[Species]*compiledSchema
}

func newReaction(reactants, products Expression, k float64) (*Reaction, error) {
	if reactants.isEmpty() {
		reactants = Expr(Nothing)
	}
	if products.isEmpty() {
		products = Expr(Nothing)
	}
	for _, s := range reactants.Species() {
		if reactants.Coefficient(s) <= 0 {
			return nil, newInputError(
				fmt.Sprintf("reactant %q has a non-positive coefficient", s.Name()))
		}
	}
	for _, s := range products.Species() {
		if products.Coefficient(s) <= 0 {
			return nil, newInputError(
				fmt.Sprintf("product %q has a non-positive coefficient", s.Name()))
		}
	}

	r := &Reaction{
		Reactants: reactants,
		Products:  products,
		k:         k,
		isSchema:  reactants.IsSchema() || products.IsSchema(),
	}

	if r.isSchema {
		r.compiled = map[Species]*compiledSchema{}
		for _, s := range reactants.Species() {
			if !s.IsSchema() {
				continue
			}
			cs, err := s.reactify()
			if err != nil {
				return nil, err
			}
			r.schemaReactants = append(r.schemaReactants, s)
			r.compiled[s] = cs
		}
	}

	return r, nil
}

// K sets the reaction's rate constant and returns the reaction, for fluent
// construction, e.g. x.Plus(y).To(z)'s result .K(2.5).
func (r *Reaction) K(k float64) *Reaction {
	r.k = k
	return r
}

// Rate returns the reaction's rate constant.
func (r *Reaction) Rate() float64 { return r.k }

// IsSchema reports whether either side of r carries a schema species.
func (r *Reaction) IsSchema() bool { return r.isSchema }

// GetSpecies returns the union of reactant and product species.
func (r *Reaction) GetSpecies() []Species {
	seen := map[Species]bool{}
	var out []Species
	for _, s := range r.Reactants.Species() {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range r.Products.Species() {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// NetProduction returns products[s] - reactants[s] (0 when s is on neither
// side), per §4.B.
func (r *Reaction) NetProduction(s Species) int {
	return r.Products.Coefficient(s) - r.Reactants.Coefficient(s)
}

// Term is one monomial summand of a rate law: Coefficient times the
// product, over Factors, of species raised to their exponent. This is the
// "(coefficient, indices[]) monomial term" direct numeric builder that §9
// recommends in place of a symbolic layer; it doubles as the introspection
// form returned by CRN.NetFlux.
type Term struct {
	Coefficient float64
	Factors     map[Species]int // species -> exponent; crn.Nothing never appears
}

// Eval evaluates the term given a concentration mapping.
func (t Term) Eval(conc map[Species]float64) float64 {
	v := t.Coefficient
	for s, c := range t.Factors {
		v *= math.Pow(conc[s], float64(c))
	}
	return v
}

// FluxTerm returns the continuous reaction rate k * Π s^c over reactants
// (§4.B's flux()), with crn.Nothing contributing the implicit factor 1.
func (r *Reaction) FluxTerm() Term {
	factors := map[Species]int{}
	for _, s := range r.Reactants.Species() {
		if s == Nothing {
			continue
		}
		factors[s] = r.Reactants.Coefficient(s)
	}
	return Term{Coefficient: r.k, Factors: factors}
}

// DiscreteFluxString renders the discrete flux (without the rate constant)
// as a PySCeS-compatible falling-factorial expression, e.g. "X*(X - 1)*Y"
// for reactants 2X + Y. Used by the optional bridge package (§6).
func (r *Reaction) DiscreteFluxString() string {
	var parts []string
	for _, s := range r.Reactants.Species() {
		if s == Nothing {
			continue
		}
		c := r.Reactants.Coefficient(s)
		for i := 0; i < c; i++ {
			if i == 0 {
				parts = append(parts, s.Name())
			} else {
				parts = append(parts, fmt.Sprintf("(%s - %d)", s.Name(), i))
			}
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += "*" + p
	}
	return out
}

// Propensity returns the discrete/stochastic reaction rate of r (excluding
// the rate constant) given the current molecule counts: the product, over
// reactants, of the falling factorial (n)(n-1)...(n-c+1). A species absent
// from counts contributes a count of 0, so any reactant the state doesn't
// have enough of drives the propensity to zero (§4.B/§8 property 5).
func (r *Reaction) Propensity(counts map[Species]int) (float64, error) {
	result := 1.0
	for _, s := range r.Reactants.Species() {
		if s == Nothing {
			continue
		}
		c := r.Reactants.Coefficient(s)
		n := float64(counts[s])
		for i := 0; i < c; i++ {
			result *= n - float64(i)
		}
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, newNumericError("propensity evaluated to a non-finite value")
	}
	return result, nil
}
