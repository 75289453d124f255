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

import "errors"

// Error taxonomy (§7). Each category wraps a sentinel so callers can test
// with errors.Is(err, crn.ErrInput), etc., while the concrete error still
// carries a package-prefixed message in the style of inmap's
// errors.New("inmap: ...").
var (
	// ErrInput marks a wrong key type, a negative concentration/count, a
	// conflicting configuration, or use of a reserved name.
	ErrInput = errors.New("crn: input error")

	// ErrSchema marks an unbound schema species used where a concrete one
	// is required, or a cross-reactant capture-group conflict.
	ErrSchema = errors.New("crn: schema error")

	// ErrNumeric marks an ODE service failure or a non-finite propensity.
	ErrNumeric = errors.New("crn: numeric error")
)

type taggedError struct {
	tag error
	msg string
}

func (e *taggedError) Error() string { return e.tag.Error() + ": " + e.msg }
func (e *taggedError) Unwrap() error { return e.tag }

func newInputError(msg string) error  { return &taggedError{tag: ErrInput, msg: msg} }
func newSchemaError(msg string) error { return &taggedError{tag: ErrSchema, msg: msg} }
func newNumericError(msg string) error { return &taggedError{tag: ErrNumeric, msg: msg} }
