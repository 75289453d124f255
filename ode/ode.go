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

// Package ode is the pluggable numeric service the deterministic simulator
// (§4.E) delegates to: it solves dv/dt = f(v, t) on an arbitrary nondecreasing
// grid of output times, with adaptive step control. No third-party ODE
// library appears anywhere in the retrieval pack (see DESIGN.md), so this is
// a hand-written embedded Runge-Kutta solver; any backend satisfying the
// System/Solve contract is an acceptable substitute per §4.E.
package ode

import (
	"fmt"
	"math"
)

// System is the contract a caller's vector field must satisfy: F returns
// dv/dt at (t, v). Modeled on the shape used by reference ODE drivers in
// the Go ecosystem (a pure function of time and state, fallible so that a
// caller can surface a domain error instead of producing NaN).
type System interface {
	F(t float64, v []float64) ([]float64, error)
}

// Options configures the adaptive step controller. Zero values are
// replaced by DefaultOptions' values.
type Options struct {
	// AbsTol and RelTol bound the local error estimate per §4.E's "absolute
	// 1e-8, relative 1e-6" default tolerances.
	AbsTol, RelTol float64

	// InitialStep seeds the adaptive controller; it is adjusted after the
	// first step.
	InitialStep float64

	// MaxSteps bounds the total number of internal steps (accepted and
	// rejected) that one Solve call attempts across all requested output
	// times, guarding against a runaway controller on a stiff or
	// misspecified system.
	MaxSteps int
}

// DefaultOptions returns the tolerances named in §4.E.
func DefaultOptions() Options {
	return Options{AbsTol: 1e-8, RelTol: 1e-6, InitialStep: 1e-3, MaxSteps: 1_000_000}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AbsTol <= 0 {
		o.AbsTol = d.AbsTol
	}
	if o.RelTol <= 0 {
		o.RelTol = d.RelTol
	}
	if o.InitialStep <= 0 {
		o.InitialStep = d.InitialStep
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	return o
}

// Solve integrates sys from (t0, v0) and returns the state vector sampled
// at each time in ts, which must be nondecreasing and have ts[0] >= t0.
// The returned slice has one entry per entry of ts.
func Solve(sys System, t0 float64, v0 []float64, ts []float64, opts Options) ([][]float64, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	opts = opts.withDefaults()

	out := make([][]float64, len(ts))
	y := append([]float64{}, v0...)
	t := t0
	h := opts.InitialStep

	idx := 0
	for idx < len(ts) && ts[idx] <= t {
		out[idx] = append([]float64{}, y...)
		idx++
	}

	steps := 0
	for idx < len(ts) {
		target := ts[idx]
		hTry := h
		if hTry > target-t {
			hTry = target - t
		}
		if hTry <= 0 {
			out[idx] = append([]float64{}, y...)
			idx++
			continue
		}

		steps++
		if steps > opts.MaxSteps {
			return nil, fmt.Errorf("ode: exceeded %d steps integrating toward t=%g", opts.MaxSteps, target)
		}

		yNext, errNorm, err := dopri5Step(sys, t, hTry, y, opts.AbsTol, opts.RelTol)
		if err != nil {
			return nil, err
		}

		hNext := adjustStep(hTry, errNorm)
		if errNorm <= 1 {
			t += hTry
			y = yNext
			for _, v := range y {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("ode: non-finite state reached at t=%g", t)
				}
			}
			h = hNext
			if t >= target || math.Abs(t-target) <= 1e-12*math.Max(1, math.Abs(target)) {
				out[idx] = append([]float64{}, y...)
				idx++
			}
		} else {
			h = hNext
		}
	}

	return out, nil
}

// adjustStep implements the elementary step-size controller: the next step
// is h * 0.9 * (1/errNorm)^(1/5), using the current error estimate only,
// with the factor clamped to [0.2, 5] to avoid oscillation. The same rule
// applies after accepted and rejected steps.
func adjustStep(h, errNorm float64) float64 {
	const safety = 0.9
	const minFactor = 0.2
	const maxFactor = 5.0
	if errNorm == 0 {
		return h * maxFactor
	}
	factor := safety * math.Pow(1/errNorm, 0.2)
	if factor < minFactor {
		factor = minFactor
	}
	if factor > maxFactor {
		factor = maxFactor
	}
	return h * factor
}

// Dormand-Prince 5(4) Butcher tableau.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}

	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}

	// dpB5 is the 5th-order solution's weights (shares coefficients with
	// dpA's last row, the FSAL property).
	dpB5 = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}

	// dpB4 is the embedded 4th-order solution's weights, used only to form
	// the local error estimate.
	dpB4 = [7]float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40}
)

// dopri5Step advances one Dormand-Prince step of size h from (t, y),
// returning the 5th-order solution and a normalized local error estimate
// (<=1 means the step is acceptable).
func dopri5Step(sys System, t, h float64, y []float64, absTol, relTol float64) ([]float64, float64, error) {
	n := len(y)
	var k [7][]float64

	for i := 0; i < 7; i++ {
		stage := append([]float64{}, y...)
		for j := 0; j < i; j++ {
			a := dpA[i][j]
			if a == 0 {
				continue
			}
			for d := 0; d < n; d++ {
				stage[d] += h * a * k[j][d]
			}
		}
		ki, err := sys.F(t+dpC[i]*h, stage)
		if err != nil {
			return nil, 0, fmt.Errorf("ode: vector field evaluation failed: %w", err)
		}
		k[i] = ki
	}

	y5 := make([]float64, n)
	y4 := make([]float64, n)
	for d := 0; d < n; d++ {
		sum5, sum4 := 0.0, 0.0
		for i := 0; i < 7; i++ {
			sum5 += dpB5[i] * k[i][d]
			sum4 += dpB4[i] * k[i][d]
		}
		y5[d] = y[d] + h*sum5
		y4[d] = y[d] + h*sum4
	}

	errNorm := errorNorm(y, y5, y4, absTol, relTol)
	return y5, errNorm, nil
}

// errorNorm computes the RMS of the componentwise error relative to the
// configured tolerances, per the standard embedded-RK error control scheme.
func errorNorm(y, y5, y4 []float64, absTol, relTol float64) float64 {
	n := len(y)
	if n == 0 {
		return 0
	}
	sumSq := 0.0
	for d := 0; d < n; d++ {
		scale := absTol + relTol*math.Max(math.Abs(y[d]), math.Abs(y5[d]))
		if scale == 0 {
			scale = absTol
		}
		e := (y5[d] - y4[d]) / scale
		sumSq += e * e
	}
	return math.Sqrt(sumSq / float64(n))
}
