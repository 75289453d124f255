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

// Package bridge is the optional, non-core file-format compatibility
// surface named in §6: it writes a CRN and an initial state out in PySCeS
// Model Description Language, the format a file-based external stochastic
// engine would read. It is a write-only collaborator — this module's own
// simulators never read this format back.
package bridge

import (
	"fmt"
	"io"
	"strings"

	"github.com/enricozb/crn"
)

// WritePSC writes c and the given initial molecule counts to w in PySCeS
// Model Description Language: a `# Reactions` block (`R<i>:` / `reactants >
// products` / `k<i>*<discrete flux>`), a `# Rate constants` block, and an
// `# Initial Species Counts` block, with crn.Nothing rendered as `$pool`.
func WritePSC(w io.Writer, c *crn.CRN, amounts map[crn.Species]int) error {
	bw := &bridgeWriter{w: w}

	bw.printf("# Reactions\n\n")
	for i, r := range c.Reactions() {
		bw.printf("R%d:\n", i)
		bw.printf("%s > %s\n", formatExpression(r.Reactants), formatExpression(r.Products))
		bw.printf("k%d*%s\n\n", i, r.DiscreteFluxString())
	}
	bw.printf("\n# Rate constants\n")
	for i, r := range c.Reactions() {
		bw.printf("k%d = %v\n", i, r.Rate())
	}

	bw.printf("\n# Initial Species Counts\n")
	for _, sp := range c.SpeciesIndex() {
		if sp == crn.Nothing {
			continue
		}
		bw.printf("%s = %d\n", sp.Name(), amounts[sp])
	}

	return bw.err
}

// bridgeWriter accumulates the first write error so WritePSC's body can
// read as a straight-line sequence of writes, the way framework.go's file
// export code in the teacher does.
type bridgeWriter struct {
	w   io.Writer
	err error
}

func (bw *bridgeWriter) printf(format string, args ...any) {
	if bw.err != nil {
		return
	}
	_, bw.err = fmt.Fprintf(bw.w, format, args...)
}

// formatExpression renders an Expression's species in PySCeS syntax:
// `{c}name` for a coefficient other than 1, `name` otherwise, joined by
// " + ", with crn.Nothing rendered as "$pool".
func formatExpression(e crn.Expression) string {
	var parts []string
	for _, sp := range e.Species() {
		name := sp.Name()
		if sp == crn.Nothing {
			name = "$pool"
		}
		if c := e.Coefficient(sp); c != 1 {
			parts = append(parts, fmt.Sprintf("{%d}%s", c, name))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " + ")
}
