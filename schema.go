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

import "strings"

// candidateSpecies returns the concrete species present in state (count >
// 0), sorted for deterministic enumeration order: §4.F requires "candidate
// tuples enumerate in sorted order of concrete species keys".
func candidateSpecies(state map[Species]int) []Species {
	var out []Species
	for s, n := range state {
		if n > 0 {
			out = append(out, s)
		}
	}
	return sortSpecies(out)
}

// stateKey canonically encodes a candidate species set for use as a schema
// enumeration cache key (§4.C performance note): the concrete reactions a
// schema reaction expands to depend only on which species are present, not
// on their counts.
func stateKey(candidates []Species) string {
	names := make([]string, len(candidates))
	for i, s := range candidates {
		names[i] = s.Name()
	}
	return strings.Join(names, "\x1f")
}

// possibleReactions enumerates the concrete reactions r expands to against
// the given (already sorted) candidate species, per §4.C steps 1-4. A
// non-schema reaction expands to itself.
func (r *Reaction) possibleReactions(candidates []Species) ([]*Reaction, error) {
	if !r.isSchema {
		return []*Reaction{r}, nil
	}

	var out []*Reaction
	captures := map[string]string{}
	assigned := make([]Species, len(r.schemaReactants))

	var recurse func(pos int) error
	recurse = func(pos int) error {
		if pos == len(r.schemaReactants) {
			reactants, err := r.instantiateReactants(assigned)
			if err != nil {
				return err
			}
			products, err := r.instantiateProducts(captures)
			if err != nil {
				return err
			}
			rxn, err := newReaction(reactants, products, r.k)
			if err != nil {
				return err
			}
			out = append(out, rxn)
			return nil
		}

		sp := r.schemaReactants[pos]
		cs := r.compiled[sp]
		for _, cand := range candidates {
			match := cs.regex.FindStringSubmatch(cand.Name())
			if match == nil {
				continue
			}
			added, conflict := addCaptures(captures, cs.groups, match)
			if conflict {
				continue
			}
			assigned[pos] = cand
			if err := recurse(pos + 1); err != nil {
				removeCaptures(captures, added)
				return err
			}
			removeCaptures(captures, added)
		}
		return nil
	}

	if err := recurse(0); err != nil {
		return nil, err
	}
	return out, nil
}

// addCaptures merges a regex match's named groups into captures, rejecting
// the tuple (conflict=true) if a group is already bound to a different
// value (§4.C step 3's cross-reactant constraint). It returns the keys it
// newly added, so the caller can roll them back on backtrack.
func addCaptures(captures map[string]string, groups []string, match []string) (added []string, conflict bool) {
	for i, g := range groups {
		val := match[i+1]
		if existing, ok := captures[g]; ok {
			if existing != val {
				for _, a := range added {
					delete(captures, a)
				}
				return nil, true
			}
			continue
		}
		captures[g] = val
		added = append(added, g)
	}
	return added, false
}

func removeCaptures(captures map[string]string, added []string) {
	for _, g := range added {
		delete(captures, g)
	}
}

// instantiateReactants rebuilds the reactants expression with each schema
// position replaced by its assigned concrete species, preserving the
// original coefficients; non-schema reactants pass through unchanged.
func (r *Reaction) instantiateReactants(assigned []Species) (Expression, error) {
	out := ExprZero()
	schemaIdx := 0
	for _, s := range r.Reactants.Species() {
		c := r.Reactants.Coefficient(s)
		if s.IsSchema() {
			out = out.add(assigned[schemaIdx], c)
			schemaIdx++
			continue
		}
		out = out.add(s, c)
	}
	return out, nil
}

// instantiateProducts formats every schema product template with the
// merged captured groups, leaving concrete products untouched (§4.C step
// 4). Failure to fully substitute a template is a schema error (§7).
func (r *Reaction) instantiateProducts(captures map[string]string) (Expression, error) {
	out := ExprZero()
	for _, s := range r.Products.Species() {
		c := r.Products.Coefficient(s)
		if s.IsSchema() {
			concrete, err := s.Format(captures)
			if err != nil {
				return Expression{}, err
			}
			out = out.add(concrete, c)
			continue
		}
		out = out.add(s, c)
	}
	return out, nil
}

// schemaCache memoizes the concrete reactions a schema reaction expands to,
// keyed by the set of concrete species currently present (§4.C performance
// note). The cache is invalidated whenever that set changes, which happens
// at most once per accepted Gillespie step.
type schemaCache struct {
	key     string
	results map[*Reaction][]*Reaction
}

func newSchemaCache() *schemaCache {
	return &schemaCache{results: map[*Reaction][]*Reaction{}}
}

// applicable returns the concrete reactions r expands to against state,
// reusing a prior enumeration if the concrete-species set is unchanged.
func (c *schemaCache) applicable(r *Reaction, state map[Species]int) ([]*Reaction, error) {
	candidates := candidateSpecies(state)
	key := stateKey(candidates)
	if key != c.key {
		c.key = key
		c.results = map[*Reaction][]*Reaction{}
	}
	if cached, ok := c.results[r]; ok {
		return cached, nil
	}
	out, err := r.possibleReactions(candidates)
	if err != nil {
		return nil, err
	}
	c.results[r] = out
	return out, nil
}
