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

// Simulation is the read-only result of a deterministic or stochastic run
// (§4.H): a named mapping from "time", a species' name, or (for schema
// stochastic runs) "reactions", to its recorded sequence. It is built once
// by a simulator and never mutated afterward.
type Simulation struct {
	time   []float64
	series map[Species][]float64

	stochastic bool
	fired      []*Reaction // ordered fired-reaction list, schema stochastic runs only
	exhausted  bool
}

// Time returns the recorded time sequence, monotonically nondecreasing.
func (s *Simulation) Time() []float64 { return append([]float64{}, s.time...) }

// Stochastic reports whether this result came from the Gillespie simulator.
func (s *Simulation) Stochastic() bool { return s.stochastic }

// Exhausted reports whether a stochastic run terminated because total
// propensity reached zero before its time/step bound (§7's non-error
// "Exhaustion" signal).
func (s *Simulation) Exhausted() bool { return s.exhausted }

// Reactions returns the ordered list of reactions that fired during a
// schema stochastic run, or an empty slice for any other kind of run.
func (s *Simulation) Reactions() []*Reaction { return append([]*Reaction{}, s.fired...) }

// Series returns the recorded sequence for species s: concentrations for a
// deterministic run, molecule counts (as float64) for a stochastic one. For
// a deterministic run, crn.Nothing is present and returns a constant-1
// series (§4.E, §8 property 3); for a stochastic run it is hidden from the
// output entirely, so indexing by it is an error. It is always an error to
// index by a schema species with unbound groups.
func (s *Simulation) Series(sp Species) ([]float64, error) {
	if sp == Nothing && s.stochastic {
		return nil, newInputError("Simulation.Series: crn.Nothing is absent from stochastic results")
	}
	if sp.HasFreeGroups() {
		return nil, newInputError("Simulation.Series: schema species has unbound groups")
	}
	series, ok := s.series[sp]
	if !ok {
		return nil, newInputError("Simulation.Series: species not present in this result")
	}
	return append([]float64{}, series...), nil
}

// SeriesByName looks up a series by species name, or by the literal "time".
// "reactions" is not retrievable this way; use Reactions.
func (s *Simulation) SeriesByName(name string) ([]float64, error) {
	if name == "time" {
		return s.Time(), nil
	}
	for sp, series := range s.series {
		if sp.Name() == name {
			return append([]float64{}, series...), nil
		}
	}
	return nil, newInputError("SeriesByName: no series named " + name)
}

// Species returns the species with a recorded series, in no particular
// order.
func (s *Simulation) Species() []Species {
	out := make([]Species, 0, len(s.series))
	for sp := range s.series {
		out = append(out, sp)
	}
	return out
}
