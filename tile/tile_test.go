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

package tile

import "testing"

func TestNewRejectsNegativeBondStrength(t *testing.T) {
	if _, err := New(nil, map[Edge]int{"a": -1}, 2); err == nil {
		t.Errorf("expected an error for a negative bond strength")
	}
}

func TestFitRequiresMatchingNonEmptyEdges(t *testing.T) {
	sys, err := New(nil, map[Edge]int{"a": 2}, 2)
	if err != nil {
		t.Fatal(err)
	}

	seed := Tile{Name: "seed", East: "a"}
	state := map[Pos]Tile{{0, 0}: seed}

	matching := Tile{Name: "match", West: "a"}
	if !sys.fit(matching, state, Pos{1, 0}) {
		t.Errorf("expected a matching opposing edge to fit when bond strength meets threshold")
	}

	mismatched := Tile{Name: "mismatch", West: "b"}
	if sys.fit(mismatched, state, Pos{1, 0}) {
		t.Errorf("a differently labeled opposing edge must not fit")
	}

	blank := Tile{Name: "blank"}
	if sys.fit(blank, state, Pos{1, 0}) {
		t.Errorf("an empty edge facing an occupied neighbor must not fit")
	}
}

func TestFitRejectsBelowThresholdBondStrength(t *testing.T) {
	sys, err := New(nil, map[Edge]int{"a": 1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	seed := Tile{Name: "seed", East: "a"}
	state := map[Pos]Tile{{0, 0}: seed}
	candidate := Tile{Name: "weak", West: "a"}

	if sys.fit(candidate, state, Pos{1, 0}) {
		t.Errorf("a single bond of strength 1 must not satisfy a threshold of 2")
	}
}

func TestFitAcceptsEmptyPositionWithNoOccupiedNeighbors(t *testing.T) {
	sys, err := New(nil, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	tile := Tile{Name: "solo"}
	if !sys.fit(tile, map[Pos]Tile{}, Pos{5, 5}) {
		t.Errorf("a position with no occupied neighbors should fit at threshold 0")
	}
}

// TestSimulateIncrementCounterGrowsContiguousLine exercises an S6-style
// scenario: a single tile type bonding only east-west, starting from one
// seed tile. Each step extends exactly one of the line's two open ends, so
// after n steps the lattice is always a contiguous horizontal segment of
// n+1 tiles on row 0, though which end grows at each step is randomized.
func TestSimulateIncrementCounterGrowsContiguousLine(t *testing.T) {
	counter := Tile{Name: "counter", West: "a", East: "a"}
	sys, err := New([]Tile{counter}, map[Edge]int{"a": 1}, 1)
	if err != nil {
		t.Fatal(err)
	}

	seed := map[Pos]Tile{{0, 0}: counter}
	history := sys.Simulate(seed, 5, 1)

	if len(history) != 6 {
		t.Fatalf("expected 6 snapshots (seed + 5 steps), got %d", len(history))
	}

	final := history[len(history)-1]
	positions := final.Positions()
	if len(positions) != 6 {
		t.Fatalf("expected 6 occupied positions after 5 steps, got %d", len(positions))
	}

	minX, maxX := positions[0].X, positions[0].X
	for _, p := range positions {
		if p.Y != 0 {
			t.Errorf("growth should stay on row 0, found %v", p)
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
	}
	if maxX-minX != 5 {
		t.Errorf("expected a contiguous run of 6 cells (span 5), got span %d", maxX-minX)
	}
}

func TestSimulateStopsEarlyWhenNothingFits(t *testing.T) {
	lonely := Tile{Name: "lonely"} // no edges bond to anything
	sys, err := New([]Tile{lonely}, map[Edge]int{"a": 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	seed := map[Pos]Tile{{0, 0}: lonely}

	history := sys.Simulate(seed, 10, 1)
	if len(history) != 1 {
		t.Errorf("expected simulation to stop immediately with no fitting tile, got %d snapshots", len(history))
	}
}

func TestStatePositionsSortedByRowThenColumn(t *testing.T) {
	s := newState(map[Pos]Tile{
		{2, 1}: {Name: "a"},
		{0, 1}: {Name: "b"},
		{1, 0}: {Name: "c"},
	})
	positions := s.Positions()
	want := []Pos{{1, 0}, {0, 1}, {2, 1}}
	if len(positions) != len(want) {
		t.Fatalf("got %v, want %v", positions, want)
	}
	for i := range want {
		if positions[i] != want[i] {
			t.Errorf("position %d: got %v, want %v", i, positions[i], want[i])
		}
	}
}
