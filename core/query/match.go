/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/datagrid/core/columns"
)

// Filter expression syntax
//
// double quote means exact match, single quotes means contains, bare string
// defaults to exact match. A leading comparison operator (> >= < <=) compares
// numerically. ! negates a term; & binds tighter than |. No parentheses.
//
// Examples:
//   "CLOSED"        - exact match
//   'CLOSED'        - contains match
//   CLOSED          - exact match (bare string)
//   "CLOSED"|"OPEN" - exact match CLOSED or OPEN
//   >=10&<20        - numeric range

type term struct {
	not    bool
	kind   termKind
	text   string
	number float64
}

type termKind int

const (
	termExact termKind = iota
	termContains
	termGreater
	termGreaterEqual
	termLess
	termLessEqual
)

// ParseMatcher compiles a filter expression into a Matcher.
// Values are matched on their string form, numbers on their numeric value.
//
// A blank expression admits every value. Empty alternatives, as in a
// trailing |, are dropped and never match on their own.
func ParseMatcher(expr string) (Matcher, error) {
	if strings.TrimSpace(expr) == "" {
		return func(any) bool { return true }, nil
	}

	var alternatives [][]term
	for _, or := range strings.Split(expr, "|") {
		var conjunction []term
		for _, and := range strings.Split(or, "&") {
			t, ok, err := parseTerm(and)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
			}
			if ok {
				conjunction = append(conjunction, t)
			}
		}
		if len(conjunction) > 0 {
			alternatives = append(alternatives, conjunction)
		}
	}

	return func(value any) bool {
		for _, conjunction := range alternatives {
			if matchAll(conjunction, value) {
				return true
			}
		}
		return false
	}, nil
}

// MustParseMatcher is ParseMatcher for expressions known to be valid.
func MustParseMatcher(expr string) Matcher {
	m, err := ParseMatcher(expr)
	if err != nil {
		panic(err)
	}
	return m
}

func parseTerm(s string) (term, bool, error) {
	s = strings.Trim(s, " ")
	t := term{}
	if strings.HasPrefix(s, "!") {
		t.not = true
		s = s[1:]
	}

	for _, op := range []struct {
		prefix string
		kind   termKind
	}{
		{">=", termGreaterEqual},
		{"<=", termLessEqual},
		{">", termGreater},
		{"<", termLess},
	} {
		if strings.HasPrefix(s, op.prefix) {
			n, err := strconv.ParseFloat(strings.TrimSpace(s[len(op.prefix):]), 64)
			if err != nil {
				return t, false, fmt.Errorf("%q is not a number", s[len(op.prefix):])
			}
			t.kind = op.kind
			t.number = n
			return t, true, nil
		}
	}

	switch {
	case len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`):
		t.kind = termExact
		t.text = s[1 : len(s)-1]
	case len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'"):
		t.kind = termContains
		t.text = s[1 : len(s)-1]
	case s != "":
		t.kind = termExact
		t.text = s
	default:
		// empty term, e.g. a trailing &
		return t, false, nil
	}
	return t, true, nil
}

func matchAll(conjunction []term, value any) bool {
	for _, t := range conjunction {
		if !t.match(value) {
			return false
		}
	}
	return true
}

func (t term) match(value any) bool {
	var match bool
	switch t.kind {
	case termExact:
		match = stringOf(value) == t.text
	case termContains:
		match = strings.Contains(stringOf(value), t.text)
	default:
		n, ok := numberOf(value)
		if ok {
			switch t.kind {
			case termGreater:
				match = n > t.number
			case termGreaterEqual:
				match = n >= t.number
			case termLess:
				match = n < t.number
			case termLessEqual:
				match = n <= t.number
			}
		}
	}
	if t.not {
		return !match
	}
	return match
}

func stringOf(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func numberOf(value any) (float64, bool) {
	if n, ok := columns.ToFloat64(value); ok {
		return n, true
	}
	if s, ok := value.(string); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return n, err == nil
	}
	return 0, false
}
