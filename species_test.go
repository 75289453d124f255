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
	"testing"
)

func TestNewSpeciesRejectsReservedNames(t *testing.T) {
	if _, err := NewSpecies("A nothing B"); !errors.Is(err, ErrInput) {
		t.Errorf("expected ErrInput for reserved name 'nothing', got %v", err)
	}
	if _, err := NewSpecies("time"); !errors.Is(err, ErrInput) {
		t.Errorf("expected ErrInput for reserved name 'time', got %v", err)
	}
}

func TestSpeciesEquality(t *testing.T) {
	a1, err := NewSpecies("A")
	if err != nil {
		t.Fatal(err)
	}
	a2, err := NewSpecies("A")
	if err != nil {
		t.Fatal(err)
	}
	if a1[0] != a2[0] {
		t.Errorf("two concrete species built from the same name should be equal")
	}

	s1, err := NewSchema("Stack<{rest}>", map[string]string{"rest": "[01]*"})
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewSchema("Stack<{rest}>", map[string]string{"rest": "[01]*"})
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 {
		t.Errorf("schema species with identical template and groups should be equal")
	}

	s3, err := NewSchema("Stack<{rest}>", map[string]string{"rest": ".*"})
	if err != nil {
		t.Fatal(err)
	}
	if s1 == s3 {
		t.Errorf("schema species matching the same language but differing in regex text must be distinct (§9)")
	}
}

func TestSpeciesLessOrdersConcreteBeforeSchema(t *testing.T) {
	concrete, err := NewSpecies("A")
	if err != nil {
		t.Fatal(err)
	}
	schema, err := NewSchema("A<{x}>", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !concrete[0].Less(schema) {
		t.Errorf("concrete species must sort before schema species")
	}
	if schema.Less(concrete[0]) {
		t.Errorf("schema species must not sort before concrete species")
	}
}

func TestBindLiteralRenameAndDrop(t *testing.T) {
	sp, err := NewSchema("Stack1<{rest}{top}>", map[string]string{"rest": "[01]*", "top": "[01]"})
	if err != nil {
		t.Fatal(err)
	}

	// Renaming a group (string arg) is the only way to leave it free;
	// nil/omitted args bind the empty string and drop the group entirely.
	bound, err := sp.Bind("newrest", 0)
	if err != nil {
		t.Fatal(err)
	}
	if bound.Name() != "Stack1<{newrest}0>" {
		t.Errorf(`Bind("newrest", 0): got name %q`, bound.Name())
	}
	if !bound.HasFreeGroups() {
		t.Errorf("expected a remaining free group {newrest}")
	}

	dropped, err := sp.Bind(nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if dropped.Name() != "Stack1<0>" {
		t.Errorf("Bind(nil, 0): got name %q", dropped.Name())
	}
	if dropped.HasFreeGroups() {
		t.Errorf("Bind(nil, 0) should leave no free groups")
	}

	fullyBound, err := sp.Bind(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if fullyBound.HasFreeGroups() {
		t.Errorf("Bind with two literal args should leave no free groups")
	}
	if fullyBound.Name() != "Stack1<10>" {
		t.Errorf("Bind(1, 0): got name %q", fullyBound.Name())
	}
}

func TestReactifyAndFormat(t *testing.T) {
	sp, err := NewSchema("Stack1<{rest}{top}>", map[string]string{"rest": "[01]*", "top": "[01]"})
	if err != nil {
		t.Fatal(err)
	}
	compiled, err := sp.reactify()
	if err != nil {
		t.Fatal(err)
	}
	if !compiled.regex.MatchString("Stack1<1011>") {
		t.Errorf("expected compiled schema to match Stack1<1011>")
	}
	if compiled.regex.MatchString("Stack1<>") {
		t.Errorf("top group requires exactly one bit; Stack1<> should not match")
	}

	match := compiled.regex.FindStringSubmatch("Stack1<1011>")
	if match == nil {
		t.Fatal("expected a match")
	}
	captures := map[string]string{"rest": match[1], "top": match[2]}
	formatted, err := sp.Format(captures)
	if err != nil {
		t.Fatal(err)
	}
	if formatted.Name() != "Stack1<1011>" {
		t.Errorf("Format round-trip: got %q", formatted.Name())
	}
}
