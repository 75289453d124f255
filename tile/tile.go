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

// Package tile implements the abstract self-assembly tile simulator (§4.G):
// a 2D lattice growth model gated by edge bond strength. It is algorithmically
// independent of the crn package's chemistry core, split into its own
// package the way the teacher splits a self-contained science subsystem into
// its own package (science/chem/simplechem).
package tile

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Edge is an edge label. The zero value "" means the edge does not bond
// (§3: any of a tile's four edges may be absent).
type Edge string

// Tile is a square element with four labeled edges. Tiles are immutable
// once constructed.
type Tile struct {
	Name             string
	North, South, East, West Edge
}

func (t Tile) edge(dir string) Edge {
	switch dir {
	case "N":
		return t.North
	case "S":
		return t.South
	case "E":
		return t.East
	case "W":
		return t.West
	}
	return ""
}

// Pos is an integer 2D lattice position.
type Pos struct{ X, Y int }

type direction struct {
	dx, dy         int
	edge, opposite string
}

var directions = [4]direction{
	{-1, 0, "W", "E"},
	{1, 0, "E", "W"},
	{0, -1, "S", "N"},
	{0, 1, "N", "S"},
}

// System owns a set of tiles, a bond-strength table, and the fit threshold
// (§3). A System is immutable once built.
type System struct {
	tiles     []Tile
	bonds     map[Edge]int
	threshold int
}

// New validates and builds a tile System. Bond strengths must be
// non-negative (§3's invariant).
func New(tiles []Tile, bonds map[Edge]int, threshold int) (*System, error) {
	for edge, b := range bonds {
		if b < 0 {
			return nil, fmt.Errorf("tile: negative bond strength for edge %q", edge)
		}
	}
	return &System{
		tiles:     append([]Tile{}, tiles...),
		bonds:     bonds,
		threshold: threshold,
	}, nil
}

// State is a read-only snapshot of the lattice: a mapping from position to
// the tile occupying it. At most one tile occupies a given position (§3).
type State struct {
	occupied map[Pos]Tile
}

func newState(occupied map[Pos]Tile) State {
	cp := make(map[Pos]Tile, len(occupied))
	for p, t := range occupied {
		cp[p] = t
	}
	return State{occupied: cp}
}

// At returns the tile at p, if any.
func (s State) At(p Pos) (Tile, bool) {
	t, ok := s.occupied[p]
	return t, ok
}

// Positions returns every occupied position, sorted by (Y, X) for
// deterministic iteration and display.
func (s State) Positions() []Pos {
	out := make([]Pos, 0, len(s.occupied))
	for p := range s.occupied {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// fit implements the §4.G fit test: tile fits at pos in state if every
// occupied neighbor's facing edge matches tile's facing edge toward it (both
// non-empty and equal), and the sum of matched bond strengths meets the
// System's threshold.
func (s *System) fit(candidate Tile, state map[Pos]Tile, pos Pos) bool {
	bond := 0
	for _, d := range directions {
		neighborPos := Pos{pos.X + d.dx, pos.Y + d.dy}
		neighbor, occupied := state[neighborPos]
		if !occupied {
			continue
		}
		a := candidate.edge(d.edge)
		b := neighbor.edge(d.opposite)
		if a == "" || b == "" || a != b {
			return false
		}
		bond += s.bonds[a]
	}
	return bond >= s.threshold
}

// frontier returns the empty positions adjacent to at least one occupied
// position, sorted for deterministic downstream iteration.
func frontier(state map[Pos]Tile) []Pos {
	seen := map[Pos]bool{}
	var out []Pos
	for p := range state {
		for _, d := range directions {
			n := Pos{p.X + d.dx, p.Y + d.dy}
			if _, occupied := state[n]; occupied || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

type candidate struct {
	tile      Tile
	positions []Pos
}

// Simulate grows the lattice from seed for up to steps iterations (§4.G):
// at each step, every frontier position is checked against every tile; a
// tile is drawn with probability proportional to the number of frontier
// positions it fits at, then one of those positions is drawn uniformly.
// Simulation stops early if no tile fits anywhere. seedRNG seeds the run's
// RNG, for reproducibility. The returned slice is the per-step sequence of
// States, seed state included as index 0.
func (s *System) Simulate(seed map[Pos]Tile, steps int, seedRNG int64) []State {
	state := make(map[Pos]Tile, len(seed))
	for p, t := range seed {
		state[p] = t
	}
	history := []State{newState(state)}
	rng := rand.New(rand.NewSource(seedRNG))

	front := frontier(state)

	for i := 0; i < steps; i++ {
		var candidates []candidate
		for _, t := range s.tiles {
			var positions []Pos
			for _, p := range front {
				if s.fit(t, state, p) {
					positions = append(positions, p)
				}
			}
			if len(positions) > 0 {
				candidates = append(candidates, candidate{tile: t, positions: positions})
			}
		}
		if len(candidates) == 0 {
			break
		}

		weights := make([]float64, len(candidates))
		for i, c := range candidates {
			weights[i] = float64(len(c.positions))
		}
		chosen := candidates[int(distuv.NewCategorical(weights, rng).Rand())]
		pos := chosen.positions[rng.Intn(len(chosen.positions))]

		state[pos] = chosen.tile
		front = updateFrontier(front, state, pos)

		history = append(history, newState(state))
	}

	return history
}

// updateFrontier removes the just-filled position from front and adds any
// of its still-empty neighbors, keeping the result sorted.
func updateFrontier(front []Pos, state map[Pos]Tile, filled Pos) []Pos {
	present := map[Pos]bool{}
	out := make([]Pos, 0, len(front))
	for _, p := range front {
		if p == filled {
			continue
		}
		out = append(out, p)
		present[p] = true
	}
	for _, d := range directions {
		n := Pos{filled.X + d.dx, filled.Y + d.dy}
		if _, occupied := state[n]; occupied || present[n] {
			continue
		}
		out = append(out, n)
		present[n] = true
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
