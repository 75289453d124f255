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

	"github.com/enricozb/crn/ode"
)

// DeterministicOptions configures Simulate (§4.E): T is the end time
// (required, > 0); R is the number of evenly spaced samples in [0, T]
// (default 100, must be >= 2 if set).
type DeterministicOptions struct {
	T float64
	R int
}

func (o DeterministicOptions) withDefaults() (DeterministicOptions, error) {
	if o.T <= 0 {
		return o, newInputError("DeterministicOptions: T must be positive")
	}
	if o.R == 0 {
		o.R = 100
	}
	if o.R < 2 {
		return o, newInputError("DeterministicOptions: R must be >= 2")
	}
	return o, nil
}

// Simulate runs the deterministic (ODE) simulator (§4.E): builds the
// initial state vector by indexing conc through the CRN's species index
// (species absent from conc default to 0), integrates via the ode
// package, and packages the result. The species crn.Nothing is present in
// the result, held at a constant 1, so downstream consumers can index it
// uniformly; a plotting layer is expected to filter it.
func (c *CRN) Simulate(conc map[Species]float64, opts DeterministicOptions) (*Simulation, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	v0 := make([]float64, len(c.index))
	for sp, val := range conc {
		if sp.HasFreeGroups() {
			return nil, newSchemaError(
				fmt.Sprintf("Simulate: initial-concentration key %q has unbound schema groups", sp.Name()))
		}
		if val < 0 {
			return nil, newInputError(
				fmt.Sprintf("Simulate: negative initial concentration for %q", sp.Name()))
		}
		if i, ok := c.indexOf[sp]; ok {
			v0[i] = val
		}
	}

	t := make([]float64, opts.R)
	for k := 0; k < opts.R; k++ {
		t[k] = float64(k) * opts.T / float64(opts.R-1)
	}

	rows, err := ode.Solve(c, 0, v0, t, ode.DefaultOptions())
	if err != nil {
		return nil, newNumericError(err.Error())
	}

	sim := &Simulation{time: t, series: make(map[Species][]float64, len(c.index)+1)}
	for i, sp := range c.index {
		series := make([]float64, len(rows))
		for k, row := range rows {
			series[k] = row[i]
		}
		sim.series[sp] = series
	}

	nothingSeries := make([]float64, opts.R)
	for i := range nothingSeries {
		nothingSeries[i] = 1
	}
	sim.series[Nothing] = nothingSeries

	return sim, nil
}

// ResolveConcentrations canonicalizes a name-keyed initial-concentration
// map into a Species-keyed one (§9's "canonicalize at the boundary" note),
// so that Simulate's internal path only ever deals in species handles.
func (c *CRN) ResolveConcentrations(named map[string]float64) (map[Species]float64, error) {
	out := make(map[Species]float64, len(named))
	for name, val := range named {
		sp, ok := c.speciesByName(name)
		if !ok {
			return nil, newInputError("ResolveConcentrations: unknown species name " + name)
		}
		out[sp] = val
	}
	return out, nil
}

func (c *CRN) speciesByName(name string) (Species, bool) {
	for _, sp := range c.index {
		if sp.Name() == name {
			return sp, true
		}
	}
	return Species{}, false
}
