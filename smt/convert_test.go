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

package smt

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/symlang/symlang/types"
)

func mustType(t *testing.T, str string) *types.Type {
	typ := types.NewType(str)
	if typ == nil {
		t.Fatalf("parse of `%s` failed", str)
	}
	return typ
}

// testSolver renders every sort as a readable string and records the
// datatype names it was asked to register.
type testSolver struct {
	datatypes []string // registered display names
	calls     int      // total constructor calls
}

func (obj *testSolver) BoolSort() Sort {
	obj.calls++
	return "Bool"
}

func (obj *testSolver) BitVecSort(size int) Sort {
	obj.calls++
	return fmt.Sprintf("BitVec(%d)", size)
}

func (obj *testSolver) IntSort() Sort {
	obj.calls++
	return "Int"
}

func (obj *testSolver) RealSort() Sort {
	obj.calls++
	return "Real"
}

func (obj *testSolver) StringSort() Sort {
	obj.calls++
	return "String"
}

func (obj *testSolver) SeqSort(elem Sort) Sort {
	obj.calls++
	return fmt.Sprintf("Seq(%s)", elem)
}

func (obj *testSolver) ArraySort(key, val Sort) Sort {
	obj.calls++
	return fmt.Sprintf("Array(%s, %s)", key, val)
}

func (obj *testSolver) OptionSort(elem Sort) Sort {
	obj.calls++
	return fmt.Sprintf("Option(%s)", elem)
}

func (obj *testSolver) DatatypeSort(name string, fields []string, sorts []Sort) Sort {
	obj.calls++
	obj.datatypes = append(obj.datatypes, name)
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = fmt.Sprintf("%s: %s", field, sorts[i])
	}
	return fmt.Sprintf("Datatype(%s)", strings.Join(parts, ", "))
}

func newConverter(t *testing.T) (*Converter, *testSolver) {
	solver := &testSolver{}
	converter := &Converter{}
	err := converter.Init(&Init{
		Solver: solver,
		Debug:  testing.Verbose(),
		Logf: func(format string, v ...interface{}) {
			t.Logf("converter: "+format, v...)
		},
	})
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return converter, solver
}

func TestSortFor0(t *testing.T) {
	testCases := map[string]string{
		"bool":   "Bool",
		"bigint": "Int",
		"real":   "Real",
		"str":    "String",

		// only the width matters for the integer kinds
		"byte":      "BitVec(8)",
		"char":      "BitVec(16)",
		"int16":     "BitVec(16)",
		"uint16":    "BitVec(16)",
		"int32":     "BitVec(32)",
		"uint32":    "BitVec(32)",
		"int64":     "BitVec(64)",
		"uint64":    "BitVec(64)",
		"fixed{48}": "BitVec(48)",

		"[]uint32": "Seq(BitVec(32))",

		// the unit set is a boolean, other sets are membership maps
		"set{}":       "Bool",
		"set{uint32}": "Array(BitVec(32), Bool)",

		// map values get the option wrapper, except set-membership maps
		"map{str: int32}": "Array(String, Option(BitVec(32)))",
		"map{str: set{}}": "Array(String, Bool)",

		"struct{src uint32; dst uint32}": "Datatype(src: BitVec(32), dst: BitVec(32))",
		"struct{hdr struct{src uint32; dst uint32}; ok bool}": "Datatype(hdr: Datatype(src: BitVec(32), dst: BitVec(32)), ok: Bool)",
	}

	for str, expected := range testCases {
		t.Run(str, func(t *testing.T) {
			converter, _ := newConverter(t)
			typ := mustType(t, str)
			sort, err := converter.SortFor(typ)
			if err != nil {
				t.Fatalf("sort for `%s` failed: %v", str, err)
			}
			if sort != Sort(expected) {
				t.Errorf("sort for `%s` is `%v`, expected `%s`", str, sort, expected)
			}
		})
	}
}

// TestSortFor1 checks the per descriptor cache: asking twice causes no
// further solver calls and returns the identical handle.
func TestSortFor1(t *testing.T) {
	converter, solver := newConverter(t)
	typ := mustType(t, "struct{src uint32; dst uint32}")

	first, err := converter.SortFor(typ)
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}
	calls := solver.calls

	second, err := converter.SortFor(typ)
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}
	if solver.calls != calls {
		t.Errorf("cached conversion still called the solver")
	}
	if first != second {
		t.Errorf("cached conversion returned a different handle")
	}
}

// TestSortFor2 checks that compound display names reach the solver.
func TestSortFor2(t *testing.T) {
	converter, solver := newConverter(t)
	typ := mustType(t, "struct{hdr struct{src uint32; dst uint32}; ok bool}")

	if _, err := converter.SortFor(typ); err != nil {
		t.Fatalf("sort failed: %v", err)
	}

	expected := []string{
		"struct{src uint32; dst uint32}", // the inner record registers first
		"struct{hdr struct{src uint32; dst uint32}; ok bool}",
	}
	if len(solver.datatypes) != len(expected) {
		t.Fatalf("registered %d datatypes, expected %d", len(solver.datatypes), len(expected))
	}
	for i, name := range expected {
		if solver.datatypes[i] != name {
			t.Errorf("datatype %d is `%s`, expected `%s`", i, solver.datatypes[i], name)
		}
	}
}

func TestSortForErrors0(t *testing.T) {
	testCases := []string{
		"map{str: cmap{str: int32}}", // const map as a map value
		"map{str: []int32}",          // list as a map value
		"cmap{str: []int32}",         // same rule for const maps
	}

	for _, str := range testCases {
		t.Run(str, func(t *testing.T) {
			converter, _ := newConverter(t)
			typ := mustType(t, str)
			if _, err := converter.SortFor(typ); !errors.Is(err, ErrUnsupportedSortComposition) {
				t.Errorf("sort for `%s` should have failed with a composition error, got: %v", str, err)
			}
		})
	}
}

func TestSortForErrors1(t *testing.T) {
	converter := &Converter{}
	if err := converter.Init(&Init{}); err == nil {
		t.Errorf("init without a solver should have failed")
	}
}
