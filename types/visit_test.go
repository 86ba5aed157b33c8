// Symlang
// Copyright (C) the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package types

import (
	"strings"
	"testing"
)

// TestVisit0 renders types through the visitor and checks the dispatch
// picks the right handlers, including recursion through the framework.
func TestVisit0(t *testing.T) {
	var vis *Visitor[string]
	vis = &Visitor[string]{
		Bool:   func() (string, error) { return "B", nil },
		BigInt: func() (string, error) { return "Z", nil },
		Real:   func() (string, error) { return "R", nil },
		Str:    func() (string, error) { return "S", nil },
		List: func(val *Type) (string, error) {
			elem, err := vis.Visit(val)
			if err != nil {
				return "", err
			}
			return "L(" + elem + ")", nil
		},
		Struct: func(fields map[string]*Type, ord []string) (string, error) {
			parts := make([]string, len(ord))
			for i, name := range ord {
				inner, err := vis.Visit(fields[name])
				if err != nil {
					return "", err
				}
				parts[i] = inner
			}
			return "{" + strings.Join(parts, ",") + "}", nil
		},
	}
	VisitNumeric(vis, func(size int) (string, error) {
		return "bv", nil
	})

	testCases := map[string]string{
		"bool":                          "B",
		"bigint":                        "Z",
		"real":                          "R",
		"str":                           "S",
		"byte":                          "bv",
		"uint64":                        "bv",
		"fixed{5}":                      "bv",
		"[]bool":                        "L(B)",
		"struct{a bool; b []str}":       "{B,L(S)}",
		"struct{x struct{y bigint}}":    "{{Z}}",
		"struct{a uint32; b fixed{9}}":  "{bv,bv}",
		"struct{a real; b str; c bool}": "{R,S,B}",
	}

	for str, expected := range testCases {
		typ := NewType(str)
		if typ == nil {
			t.Errorf("parse of `%s` failed", str)
			continue
		}
		out, err := vis.Visit(typ)
		if err != nil {
			t.Errorf("visit of `%s` failed: %v", str, err)
			continue
		}
		if out != expected {
			t.Errorf("visit of `%s` returned `%s`, expected `%s`", str, out, expected)
		}
	}
}

// TestVisit1 checks that a missing handler is an error, not a panic.
func TestVisit1(t *testing.T) {
	vis := &Visitor[int]{
		Bool: func() (int, error) { return 1, nil },
	}

	if _, err := vis.Visit(NewType("bool")); err != nil {
		t.Errorf("visit with a handler failed: %v", err)
	}
	if _, err := vis.Visit(NewType("str")); err == nil {
		t.Errorf("visit without a handler should have failed")
	}
	if _, err := vis.Visit(nil); err == nil {
		t.Errorf("visit of nil should have failed")
	}
}

// TestVisit2 checks the width mapping of the numeric helper.
func TestVisit2(t *testing.T) {
	vis := &Visitor[int]{}
	VisitNumeric(vis, func(size int) (int, error) {
		return size, nil
	})

	testCases := map[string]int{
		"byte":      8,
		"char":      16,
		"int16":     16,
		"uint16":    16,
		"int32":     32,
		"uint32":    32,
		"int64":     64,
		"uint64":    64,
		"fixed{23}": 23,
	}

	for str, expected := range testCases {
		out, err := vis.Visit(NewType(str))
		if err != nil {
			t.Errorf("visit of `%s` failed: %v", str, err)
			continue
		}
		if out != expected {
			t.Errorf("visit of `%s` returned %d, expected %d", str, out, expected)
		}
	}
}
