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
	"math"
	"math/rand"
)

// ValidateOptions configures Validate, defaulting to the (N=100, eps=1e-2,
// T=500) triple named in §6.
type ValidateOptions struct {
	N   int
	Eps float64
	T   float64
}

func (o ValidateOptions) withDefaults() ValidateOptions {
	if o.N == 0 {
		o.N = 100
	}
	if o.Eps == 0 {
		o.Eps = 1e-2
	}
	if o.T == 0 {
		o.T = 500
	}
	return o
}

// Counterexample records the trial that falsified a Validate run: the
// random initial concentrations drawn for the input species, the value fn
// predicted, and the value the simulator actually produced.
type Counterexample struct {
	Inputs   map[Species]float64
	Expected float64
	Got      float64
}

// ValidationResult is Validate's typed outcome. Per §9's Open Question
// resolution, a failed run carries a structured Counterexample rather than
// leaking the raw trial inputs into an untyped result bag.
type ValidationResult struct {
	Success        bool
	Counterexample *Counterexample
}

// Validate probabilistically checks whether c computes fn of its input
// species' initial concentrations, observed at outputSpecies's final
// concentration (`crn.py:CRN.validate`): over opts.N trials, it draws
// random initial concentrations in [0, 10) for each input species,
// compares fn's prediction against a deterministic simulation out to
// opts.T, and fails on the first trial where they differ by more than
// opts.Eps. rng is supplied by the caller so a validation run is
// reproducible and holds no shared mutable state (§5).
func (c *CRN) Validate(fn func(map[Species]float64) float64, inputSpecies []Species, outputSpecies Species, opts ValidateOptions, rng *rand.Rand) (*ValidationResult, error) {
	opts = opts.withDefaults()

	for i := 0; i < opts.N; i++ {
		inputs := make(map[Species]float64, len(inputSpecies))
		for _, sp := range inputSpecies {
			inputs[sp] = rng.Float64() * 10
		}

		expected := fn(inputs)

		sim, err := c.Simulate(inputs, DeterministicOptions{T: opts.T})
		if err != nil {
			return nil, err
		}
		series, err := sim.Series(outputSpecies)
		if err != nil {
			return nil, err
		}
		got := series[len(series)-1]

		if math.Abs(expected-got) > opts.Eps {
			return &ValidationResult{
				Success: false,
				Counterexample: &Counterexample{
					Inputs:   inputs,
					Expected: expected,
					Got:      got,
				},
			}, nil
		}
	}

	return &ValidationResult{Success: true}, nil
}
