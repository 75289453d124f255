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
	"errors"
	"math"
	"testing"
)

// TestSimulateIrreversibleBindingConservesMass exercises S1 (A + B -> C):
// at every sampled time, A + C must equal its initial sum, since each
// reaction event produces one C for every A it consumes.
func TestSimulateIrreversibleBindingConservesMass(t *testing.T) {
	sp, err := NewSpecies("A B C")
	if err != nil {
		t.Fatal(err)
	}
	a, b, c := sp[0], sp[1], sp[2]

	r, err := Expr(a).Plus(Expr(b)).To(Expr(c))
	if err != nil {
		t.Fatal(err)
	}
	r.K(0.5)

	network, err := New(r)
	if err != nil {
		t.Fatal(err)
	}

	sim, err := network.Simulate(map[Species]float64{a: 10, b: 10}, DeterministicOptions{T: 5, R: 20})
	if err != nil {
		t.Fatal(err)
	}

	as, err := sim.Series(a)
	if err != nil {
		t.Fatal(err)
	}
	cs, err := sim.Series(c)
	if err != nil {
		t.Fatal(err)
	}
	for i := range as {
		if math.Abs((as[i]+cs[i])-10) > 1e-6 {
			t.Fatalf("A + C conservation violated at sample %d: A=%v C=%v", i, as[i], cs[i])
		}
	}

	if cs[len(cs)-1] <= cs[0] {
		t.Errorf("expected C to accumulate over time, got initial %v final %v", cs[0], cs[len(cs)-1])
	}
}

// TestSimulateNothingSourcedCatalysisHeldConstant exercises S2-style
// catalysis: nothing -> X at a fixed rate should make X grow linearly,
// since crn.Nothing's concentration is pinned at 1 throughout (§4.D/§8
// property 3).
func TestSimulateNothingSourcedCatalysisHeldConstant(t *testing.T) {
	sp, err := NewSpecies("X")
	if err != nil {
		t.Fatal(err)
	}
	x := sp[0]

	r, err := Expr(Nothing).To(Expr(x))
	if err != nil {
		t.Fatal(err)
	}
	r.K(2.0)

	network, err := New(r)
	if err != nil {
		t.Fatal(err)
	}

	sim, err := network.Simulate(map[Species]float64{}, DeterministicOptions{T: 3, R: 4})
	if err != nil {
		t.Fatal(err)
	}

	xs, err := sim.Series(x)
	if err != nil {
		t.Fatal(err)
	}
	want := 2.0 * 3.0
	if math.Abs(xs[len(xs)-1]-want) > 1e-4 {
		t.Errorf("linear growth from a Nothing-sourced reaction: got X(3)=%v, want %v", xs[len(xs)-1], want)
	}

	// In a deterministic result, crn.Nothing is present and held constant
	// at 1 so downstream consumers can index it uniformly (§4.E, §8
	// property 3).
	nothingSeries, err := sim.Series(Nothing)
	if err != nil {
		t.Fatal(err)
	}
	if len(nothingSeries) != len(sim.Time()) {
		t.Fatalf("crn.Nothing's series length = %d, want %d", len(nothingSeries), len(sim.Time()))
	}
	for i, v := range nothingSeries {
		if v != 1 {
			t.Errorf("crn.Nothing's series[%d] = %v, want 1", i, v)
		}
	}
}

func TestSimulateRejectsFreeGroupInitialConcentrationKey(t *testing.T) {
	sp, err := NewSpecies("A")
	if err != nil {
		t.Fatal(err)
	}
	r, err := Expr(sp[0]).To(ExprZero())
	if err != nil {
		t.Fatal(err)
	}
	r.K(1)
	network, err := New(r)
	if err != nil {
		t.Fatal(err)
	}

	schema, err := NewSchema("Stack<{rest}>", map[string]string{"rest": "[01]*"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := network.Simulate(map[Species]float64{schema: 1}, DeterministicOptions{T: 1}); !errors.Is(err, ErrSchema) {
		t.Errorf("expected ErrSchema for a free-group initial-concentration key, got %v", err)
	}
}

// TestSimulateExponentialDecayMatchesAnalyticSolution exercises S3-style
// decay (X -> nothing), checked against the closed-form solution
// X(t) = X0 * e^(-kt).
func TestSimulateExponentialDecayMatchesAnalyticSolution(t *testing.T) {
	sp, err := NewSpecies("X")
	if err != nil {
		t.Fatal(err)
	}
	x := sp[0]

	r, err := Expr(x).To(ExprZero())
	if err != nil {
		t.Fatal(err)
	}
	r.K(1.5)

	network, err := New(r)
	if err != nil {
		t.Fatal(err)
	}

	sim, err := network.Simulate(map[Species]float64{x: 100}, DeterministicOptions{T: 2, R: 50})
	if err != nil {
		t.Fatal(err)
	}

	xs, err := sim.Series(x)
	if err != nil {
		t.Fatal(err)
	}
	times := sim.Time()
	for i, tt := range times {
		want := 100 * math.Exp(-1.5*tt)
		if math.Abs(xs[i]-want) > 1e-3 {
			t.Errorf("at t=%v: got %v, want %v (analytic)", tt, xs[i], want)
		}
	}
}

func TestDeterministicOptionsDefaultsAndValidation(t *testing.T) {
	if _, err := (DeterministicOptions{T: 0}).withDefaults(); err == nil {
		t.Errorf("expected an error for T <= 0")
	}
	if _, err := (DeterministicOptions{T: 1, R: 1}).withDefaults(); err == nil {
		t.Errorf("expected an error for R < 2")
	}
	opts, err := (DeterministicOptions{T: 1}).withDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if opts.R != 100 {
		t.Errorf("expected default R=100, got %d", opts.R)
	}
}

func TestResolveConcentrationsRejectsUnknownName(t *testing.T) {
	sp, err := NewSpecies("A")
	if err != nil {
		t.Fatal(err)
	}
	r, err := Expr(sp[0]).To(ExprZero())
	if err != nil {
		t.Fatal(err)
	}
	r.K(1)
	network, err := New(r)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := network.ResolveConcentrations(map[string]float64{"Z": 1}); err == nil {
		t.Errorf("expected an error resolving an unknown species name")
	}
	resolved, err := network.ResolveConcentrations(map[string]float64{"A": 5})
	if err != nil {
		t.Fatal(err)
	}
	if resolved[sp[0]] != 5 {
		t.Errorf("ResolveConcentrations: got %v", resolved)
	}
}
