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

// Package crn implements a Chemical Reaction Network simulation core:
// species/expression algebra, stoichiometric reactions with optional regex
// schemas, a CRN container that compiles rate laws, and deterministic and
// stochastic simulators over it.
package crn

// CRN owns a fixed sequence of reactions and derives, once at construction,
// the species set, a stable sorted species index, and a compiled rate-law
// vector field. All three are immutable for the CRN's lifetime (§3).
type CRN struct {
	reactions []*Reaction

	index      []Species      // position -> species, sorted per Species.Less
	indexOf    map[Species]int // species -> position
	vectorTerm [][]Term        // per-species list of (stoich * flux) monomial terms
}

// New builds a CRN from a fixed set of reactions, computing the species
// index and compiling the rate-law vector field (§4.D). At least one
// reaction is required.
func New(reactions ...*Reaction) (*CRN, error) {
	if len(reactions) == 0 {
		return nil, newInputError("New: a CRN requires at least one reaction")
	}

	seen := map[Species]bool{}
	var species []Species
	for _, r := range reactions {
		for _, s := range r.GetSpecies() {
			if s.HasFreeGroups() {
				return nil, newSchemaError(
					"New: reaction references a schema species with unbound groups")
			}
			if s == Nothing {
				continue
			}
			if !seen[s] {
				seen[s] = true
				species = append(species, s)
			}
		}
	}

	index := sortSpecies(species)
	indexOf := make(map[Species]int, len(index))
	for i, s := range index {
		indexOf[s] = i
	}

	c := &CRN{
		reactions: append([]*Reaction{}, reactions...),
		index:     index,
		indexOf:   indexOf,
	}
	c.compile()
	return c, nil
}

// compile builds, for each species in index order, the list of monomial
// terms (stoichiometric coefficient folded into each term's own
// coefficient) whose sum is that species' rate law (§4.D/§9's "direct
// numeric builder" note — no symbolic layer, just (coefficient, species)
// monomials ready to be evaluated against a state vector).
func (c *CRN) compile() {
	c.vectorTerm = make([][]Term, len(c.index))
	for i, s := range c.index {
		var terms []Term
		for _, r := range c.reactions {
			n := r.NetProduction(s)
			if n == 0 {
				continue
			}
			term := r.FluxTerm()
			term.Coefficient *= float64(n)
			terms = append(terms, term)
		}
		c.vectorTerm[i] = terms
	}
}

// SpeciesIndex returns the species in index order (index i matches every
// ODE state vector and Simulation series at position i). The returned
// slice is a defensive copy.
func (c *CRN) SpeciesIndex() []Species {
	return append([]Species{}, c.index...)
}

// IndexOf returns s's position in the species index, or -1 if s does not
// appear in the CRN.
func (c *CRN) IndexOf(s Species) int {
	i, ok := c.indexOf[s]
	if !ok {
		return -1
	}
	return i
}

// Reactions returns the CRN's fixed reaction sequence.
func (c *CRN) Reactions() []*Reaction {
	return append([]*Reaction{}, c.reactions...)
}

// F evaluates the compiled vector field dv/dt = f(v, t) at the given state
// vector v, indexed per SpeciesIndex. It is pure and deterministic, and
// allocates a species-to-concentration map and one result buffer per call
// (§4.D). The time argument t
// is accepted to satisfy ode.System but is unused: this model has no
// explicit time dependence.
func (c *CRN) F(t float64, v []float64) ([]float64, error) {
	conc := make(map[Species]float64, len(c.index)+1)
	for i, s := range c.index {
		conc[s] = v[i]
	}
	conc[Nothing] = 1

	out := make([]float64, len(c.index))
	for i, terms := range c.vectorTerm {
		sum := 0.0
		for _, term := range terms {
			sum += term.Eval(conc)
		}
		out[i] = sum
	}
	return out, nil
}

// NetFlux returns the not-yet-summed monomial terms contributing to
// species s's rate law, for introspection or printing (§9's "symbolic form
// is useful only for printing" note). It is nil if s does not appear in the
// CRN.
func (c *CRN) NetFlux(s Species) []Term {
	i, ok := c.indexOf[s]
	if !ok {
		return nil
	}
	return append([]Term{}, c.vectorTerm[i]...)
}

// applicableReactions expands every schema reaction against state via
// cache, and passes non-schema reactions through unchanged, returning the
// combined, order-stable list used by the stochastic simulator (§4.F step
// 1).
func (c *CRN) applicableReactions(state map[Species]int, cache *schemaCache) ([]*Reaction, error) {
	var out []*Reaction
	for _, r := range c.reactions {
		expanded, err := cache.applicable(r, state)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}
