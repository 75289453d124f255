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
	"regexp"
	"sort"
	"strings"
)

// Nothing is the reserved species representing the absence of a reactant
// or product on one side of a reaction. Its concentration is held at 1 in
// every compiled rate law, and it is hidden from stochastic simulation
// output.
var Nothing = Species{name: "nothing"}

// placeholderRE matches a `{name}` template token in a schema species name.
var placeholderRE = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// groupSep/pairSep are ASCII control characters used to canonically encode
// a schema's group-name -> regex mapping into a single comparable string,
// so that Species stays a plain, comparable value type usable directly as
// a map key (no pointer identity, no custom Hash method needed).
const (
	pairSep  = "\x1e"
	groupSep = "\x1f"
)

// Species is a named chemical kind: a discrete population unit in the
// stochastic model, a real-valued concentration in the deterministic one.
//
// Two flavors exist. A concrete species has a literal name. A schema
// species has a name that is a template containing `{group}` placeholders,
// each bound to a regular expression via groupsKey, standing for a family
// of concrete species (§4.C). Species is deliberately a small, fully
// comparable value (no slices or maps as fields) so it can be used as a map
// key throughout Expression, the species index, and the schema enumeration
// cache.
type Species struct {
	name      string
	isSchema  bool
	groupsKey string // canonical encoding of the schema's group->regex map
}

// encodeGroups canonically serializes a group->regex map so that two
// Species values are == if and only if they have the same template and the
// same set of group regexes, per §9's species-equality note.
func encodeGroups(groups map[string]string) string {
	if len(groups) == 0 {
		return ""
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = name + pairSep + groups[name]
	}
	return strings.Join(pairs, groupSep)
}

func decodeGroups(key string) map[string]string {
	groups := map[string]string{}
	if key == "" {
		return groups
	}
	for _, pair := range strings.Split(key, groupSep) {
		parts := strings.SplitN(pair, pairSep, 2)
		groups[parts[0]] = parts[1]
	}
	return groups
}

// NewSpecies creates concrete Species from a whitespace-separated string of
// names, e.g. NewSpecies("A B C"). The reserved names "time" and "nothing"
// are rejected; "nothing" must be referenced via the package-level Nothing
// value instead.
func NewSpecies(names string) ([]Species, error) {
	fields := strings.Fields(names)
	if len(fields) == 0 {
		return nil, newInputError("NewSpecies: no species names given")
	}
	out := make([]Species, len(fields))
	for i, name := range fields {
		if name == "nothing" {
			return nil, newInputError(
				"NewSpecies: 'nothing' is reserved; use crn.Nothing directly")
		}
		sp, err := newConcreteSpecies(name)
		if err != nil {
			return nil, err
		}
		out[i] = sp
	}
	return out, nil
}

func newConcreteSpecies(name string) (Species, error) {
	if name == "time" {
		return Species{}, newInputError(
			"'time' is a reserved species name")
	}
	return Species{name: name}, nil
}

// NewSchemas creates schema Species from a whitespace-separated string of
// templates, all sharing the same group->regex defaults, e.g.
// NewSchemas("Stack1<{rest}{top}> Stack2<{rest}{top}>", groups).
func NewSchemas(templates string, groups map[string]string) ([]Species, error) {
	fields := strings.Fields(templates)
	if len(fields) == 0 {
		return nil, newInputError("NewSchemas: no templates given")
	}
	out := make([]Species, len(fields))
	for i, tmpl := range fields {
		sp, err := NewSchema(tmpl, groups)
		if err != nil {
			return nil, err
		}
		out[i] = sp
	}
	return out, nil
}

// NewSchema creates a single schema Species from a template such as
// "Stack1<{rest}{top}>" and a mapping from placeholder name to the regex
// that placeholder must match. Placeholders absent from groups default to
// ".*" when the species is later reactified.
func NewSchema(template string, groups map[string]string) (Species, error) {
	if template == "time" || template == "nothing" {
		return Species{}, newInputError(
			fmt.Sprintf("'%s' is a reserved species name", template))
	}
	return Species{
		name:      template,
		isSchema:  true,
		groupsKey: encodeGroups(groups),
	}, nil
}

// Name returns the species' display name: a literal for concrete species,
// or the current (possibly partially-bound) template for schema species.
func (s Species) Name() string { return s.name }

// IsSchema reports whether s is a schema species.
func (s Species) IsSchema() bool { return s.isSchema }

// Groups returns the placeholder->regex mapping carried by a schema
// species. It is empty for concrete species.
func (s Species) Groups() map[string]string { return decodeGroups(s.groupsKey) }

// placeholders returns the names of `{name}` tokens still present in s's
// template, in order of first appearance.
func (s Species) placeholders() []string {
	matches := placeholderRE.FindAllStringSubmatch(s.name, -1)
	seen := map[string]bool{}
	var names []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// HasFreeGroups reports whether a schema species still has unbound `{name}`
// placeholders. A schema species used as an initial-count key, or as a
// product template after substitution, must have none.
func (s Species) HasFreeGroups() bool {
	return s.isSchema && len(s.placeholders()) > 0
}

// Bind performs call-style placeholder substitution in template order
// (§4.C/§6): for each positional argument,
//
//   - an int (or any non-string, non-nil value) binds a literal, removing
//     the placeholder and its group entirely;
//   - a string renames the group, carrying its regex over to the new name;
//   - nil (or an omitted trailing argument) binds the empty string,
//     dropping the group.
//
// Bind is only valid on schema species.
func (s Species) Bind(args ...any) (Species, error) {
	if !s.isSchema {
		return Species{}, newInputError(
			fmt.Sprintf("Bind: %q is not a schema species", s.name))
	}
	keys := s.placeholders()
	if len(args) > len(keys) {
		return Species{}, newInputError(
			fmt.Sprintf("Bind: %d arguments given for %d groups", len(args), len(keys)))
	}
	for len(args) < len(keys) {
		args = append(args, nil)
	}

	groups := s.Groups()
	name := s.name
	for i, key := range keys {
		arg := args[i]
		var replacement string
		switch v := arg.(type) {
		case nil:
			replacement = ""
			delete(groups, key)
		case string:
			replacement = "{" + v + "}"
			if regex, ok := groups[key]; ok {
				groups[v] = regex
			}
			if v != key {
				delete(groups, key)
			}
		default:
			replacement = fmt.Sprint(v)
			delete(groups, key)
		}
		name = strings.ReplaceAll(name, "{"+key+"}", replacement)
	}

	// Drop any group entries that no longer correspond to a placeholder
	// still present in the template (e.g. a group bound by a later
	// duplicate-named argument).
	remaining := map[string]bool{}
	for _, k := range (Species{name: name, isSchema: true}).placeholders() {
		remaining[k] = true
	}
	for k := range groups {
		if !remaining[k] {
			delete(groups, k)
		}
	}

	return Species{name: name, isSchema: true, groupsKey: encodeGroups(groups)}, nil
}

// compiledSchema holds the anchored regular expression and capture-group
// names derived from reactifying a schema species, per §4.C.
type compiledSchema struct {
	regex  *regexp.Regexp
	groups []string
}

// reactify compiles the schema species' template into a fully anchored
// regular expression: every remaining `{name}` placeholder becomes a named
// capture group `(?P<name>regex)`, using the species' declared regex for
// that group, or ".*" if it was never given one.
func (s Species) reactify() (*compiledSchema, error) {
	if !s.isSchema {
		return nil, newSchemaError(
			fmt.Sprintf("reactify: %q is not a schema species", s.name))
	}
	groups := s.Groups()
	keys := s.placeholders()
	pattern := s.name
	// Escape regex metacharacters in the literal portions of the template,
	// leaving the placeholder tokens (which we've already extracted) for
	// substitution below.
	pattern = escapeTemplateLiterals(pattern, keys)
	for _, key := range keys {
		regex, ok := groups[key]
		if !ok {
			regex = ".*"
		}
		pattern = strings.Replace(pattern, "{"+key+"}",
			fmt.Sprintf("(?P<%s>%s)", key, regex), 1)
	}
	compiled, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return nil, newSchemaError(
			fmt.Sprintf("reactify: invalid pattern derived from %q: %v", s.name, err))
	}
	return &compiledSchema{regex: compiled, groups: keys}, nil
}

// escapeTemplateLiterals quotes every regexp metacharacter outside of the
// `{name}` placeholder tokens, so that literal template text (e.g. the
// angle brackets in "Stack1<{rest}{top}>") is matched verbatim.
func escapeTemplateLiterals(template string, keys []string) string {
	var b strings.Builder
	rest := template
	for {
		loc := placeholderRE.FindStringIndex(rest)
		if loc == nil {
			b.WriteString(regexp.QuoteMeta(rest))
			break
		}
		b.WriteString(regexp.QuoteMeta(rest[:loc[0]]))
		b.WriteString(rest[loc[0]:loc[1]])
		rest = rest[loc[1]:]
	}
	return b.String()
}

// Format instantiates a schema product template by substituting every
// `{name}` placeholder with the corresponding captured value, returning a
// concrete Species. It is an error if any placeholder remains unsubstituted.
func (s Species) Format(captures map[string]string) (Species, error) {
	if !s.isSchema {
		return s, nil
	}
	name := s.name
	for _, key := range s.placeholders() {
		val, ok := captures[key]
		if !ok {
			return Species{}, newSchemaError(
				fmt.Sprintf("Format: no captured value for group %q in %q", key, s.name))
		}
		name = strings.ReplaceAll(name, "{"+key+"}", val)
	}
	if placeholderRE.MatchString(name) {
		return Species{}, newSchemaError(
			fmt.Sprintf("Format: template %q left unsubstituted placeholders", s.name))
	}
	return Species{name: name}, nil
}

// Less implements the total order used for the CRN species index (§4.A):
// concrete species precede schema species; within a class, species compare
// lexicographically by name, then (for schemas sharing a name) by their
// canonical group encoding, which is deterministic given identical
// construction inputs, unlike the original implementation's object-identity
// tie-break (see DESIGN.md).
func (s Species) Less(o Species) bool {
	if s.isSchema != o.isSchema {
		return !s.isSchema
	}
	if s.name != o.name {
		return s.name < o.name
	}
	return s.groupsKey < o.groupsKey
}

func (s Species) String() string {
	if s.isSchema {
		return s.name
	}
	return s.name
}

// sortSpecies returns a new, sorted copy of species per Species.Less.
func sortSpecies(species []Species) []Species {
	out := make([]Species, len(species))
	copy(out, species)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
