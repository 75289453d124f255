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
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// StochasticOptions configures SimulateStochastic's Gillespie engine (§4.F).
// At most one of T (a time bound) and N (a step bound) may be set; T <= 0 and N <=
// 0 both mean "unset". If neither is set, they default to T=+Inf, N=1000.
// Seed drives the run's RNG; identical Seed and inputs reproduce an
// identical trajectory (§5/§8 property 6).
type StochasticOptions struct {
	T    float64
	N    int
	Seed int64
}

func (o StochasticOptions) withDefaults() (StochasticOptions, error) {
	if o.T > 0 && o.N > 0 {
		return o, newInputError("StochasticOptions: at most one of T and N may be set")
	}
	if o.T <= 0 && o.N <= 0 {
		o.T = math.Inf(1)
		o.N = 1000
	} else if o.T <= 0 {
		o.T = math.Inf(1)
	} else {
		o.N = math.MaxInt64 >> 1 // effectively unbounded step count
	}
	return o, nil
}

// SimulateStochastic runs the Gillespie direct-method SSA (§4.F) starting
// from the given nonnegative integer molecule counts. Species absent from
// counts start at 0 and are omitted from S_0 entirely (the spec's
// zero-count-entries-removed state). Schema reactions are expanded against
// the live state at every step via the schema engine (§4.C).
func (c *CRN) SimulateStochastic(counts map[Species]int, opts StochasticOptions) (*Simulation, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	state := map[Species]int{}
	for s, n := range counts {
		if s.HasFreeGroups() {
			return nil, newSchemaError(
				fmt.Sprintf("SimulateStochastic: initial-count key %q has unbound schema groups", s.Name()))
		}
		if n < 0 {
			return nil, newInputError("SimulateStochastic: negative initial count")
		}
		if n > 0 {
			state[s] = n
		}
	}

	series := make(map[Species][]float64, len(state))
	for s, n := range state {
		series[s] = []float64{float64(n)}
	}
	times := []float64{0}

	schemaRun := false
	for _, r := range c.reactions {
		if r.IsSchema() {
			schemaRun = true
			break
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	cache := newSchemaCache()

	var fired []*Reaction
	exhausted := false

	t := 0.0
	step := 0
	for t < opts.T && step < opts.N {
		rxns, err := c.applicableReactions(state, cache)
		if err != nil {
			return nil, err
		}

		propensities := make([]float64, len(rxns))
		total := 0.0
		for i, r := range rxns {
			p, err := r.Propensity(state)
			if err != nil {
				return nil, err
			}
			a := r.Rate() * p
			if math.IsNaN(a) || math.IsInf(a, 0) || a < 0 {
				return nil, newNumericError("SimulateStochastic: non-finite or negative propensity")
			}
			propensities[i] = a
			total += a
		}

		if total == 0 {
			exhausted = true
			break
		}

		dt := distuv.Exponential{Rate: total, Src: rng}.Rand()
		chosen := rxns[int(distuv.NewCategorical(propensities, rng).Rand())]

		applyReaction(state, chosen, series, len(times))

		t += dt
		step++
		times = append(times, t)
		for s := range series {
			series[s] = append(series[s], float64(state[s]))
		}

		if schemaRun {
			fired = append(fired, chosen)
		}
	}

	sim := &Simulation{
		time:       times,
		series:     series,
		stochastic: true,
		exhausted:  exhausted,
	}
	if schemaRun {
		sim.fired = fired
	}
	return sim, nil
}

// applyReaction mutates state in place by subtracting reactant
// coefficients and adding product coefficients, dropping any species whose
// count reaches zero, and back-filling a newly appearing product species'
// time series with zeros up to sampleLen so every series stays the same
// length (§4.F step 6).
func applyReaction(state map[Species]int, r *Reaction, series map[Species][]float64, sampleLen int) {
	for _, s := range r.Reactants.Species() {
		if s == Nothing {
			continue
		}
		c := r.Reactants.Coefficient(s)
		state[s] -= c
		if state[s] <= 0 {
			delete(state, s)
		}
	}
	for _, s := range r.Products.Species() {
		if s == Nothing {
			continue
		}
		c := r.Products.Coefficient(s)
		if _, ok := state[s]; !ok {
			if _, known := series[s]; !known {
				series[s] = make([]float64, sampleLen)
			}
		}
		state[s] += c
	}
}
