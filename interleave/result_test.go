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

package interleave

import (
	"errors"
	"testing"

	"github.com/symlang/symlang/ast"
	"github.com/symlang/symlang/types"

	"github.com/kylelemons/godebug/pretty"
)

func TestVarSet0(t *testing.T) {
	a := ast.NewExprVar("a", types.TypeUint32)
	b := ast.NewExprVar("b", types.TypeUint32)
	c := ast.NewExprVar("c", types.TypeUint32)

	set := NewVarSet(a, b)
	set.Add(a) // no-op, keeps position

	if set.Len() != 2 {
		t.Errorf("set should have two members, got %d", set.Len())
	}
	if !set.Has(a) || !set.Has(b) || set.Has(c) {
		t.Errorf("unexpected membership")
	}

	union := set.Union(NewVarSet(c, b))
	expected := []*ast.ExprVar{a, b, c}
	got := union.List()
	if len(got) != len(expected) {
		t.Fatalf("union has %d members, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("union member %d is %s, expected %s", i, got[i].Name, expected[i].Name)
		}
	}
	if set.Len() != 2 { // the receiver is untouched
		t.Errorf("union modified the receiver")
	}
}

func TestResultUnion0(t *testing.T) {
	a := ast.NewExprVar("a", types.TypeUint32)
	b := ast.NewExprVar("b", types.TypeUint32)

	l := &Flat{Vars: NewVarSet(a)}
	r := &Flat{Vars: NewVarSet(b)}

	result, err := l.Union(r)
	if err != nil {
		t.Fatalf("union failed: %v", err)
	}
	if result.Variables().Len() != 2 {
		t.Errorf("union should mention both variables")
	}
	if l.Vars.Len() != 1 || r.Vars.Len() != 1 { // inputs stay intact
		t.Errorf("union modified an input")
	}
}

func TestResultUnion1(t *testing.T) {
	a := ast.NewExprVar("a", types.TypeUint32)

	flat := &Flat{Vars: NewVarSet(a)}
	record := &Record{
		Fields: map[string]Result{
			"x": &Flat{Vars: NewVarSet()},
		},
		Ord: []string{"x"},
	}

	if _, err := flat.Union(record); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("flat/record union should be a shape mismatch, got: %v", err)
	}
	if _, err := record.Union(flat); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("record/flat union should be a shape mismatch, got: %v", err)
	}

	other := &Record{
		Fields: map[string]Result{
			"y": &Flat{Vars: NewVarSet()},
		},
		Ord: []string{"y"},
	}
	if _, err := record.Union(other); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("union of differently shaped records should fail, got: %v", err)
	}
}

func TestResultUnion2(t *testing.T) {
	a := ast.NewExprVar("a", types.TypeUint32)
	b := ast.NewExprVar("b", types.TypeUint32)

	l := &Record{
		Fields: map[string]Result{
			"src": &Flat{Vars: NewVarSet(a)},
			"dst": &Flat{Vars: NewVarSet()},
		},
		Ord: []string{"dst", "src"},
	}
	r := &Record{
		Fields: map[string]Result{
			"src": &Flat{Vars: NewVarSet()},
			"dst": &Flat{Vars: NewVarSet(b)},
		},
		Ord: []string{"dst", "src"},
	}

	result, err := l.Union(r)
	if err != nil {
		t.Fatalf("union failed: %v", err)
	}
	record, ok := result.(*Record)
	if !ok {
		t.Fatalf("union of records should be a record")
	}
	if got := record.Fields["src"].Variables().List(); len(got) != 1 || got[0] != a {
		t.Errorf("src field should only mention a")
	}
	if got := record.Fields["dst"].Variables().List(); len(got) != 1 || got[0] != b {
		t.Errorf("dst field should only mention b")
	}

	vars := result.Variables().List()
	if len(vars) != 2 || vars[0] != b || vars[1] != a {
		// dst sorts before src in the field order
		t.Errorf("flattened variables came back in the wrong order")
	}
}

func TestEmpty0(t *testing.T) {
	testCases := map[string]string{
		"bool":             "{}",
		"uint32":           "{}",
		"fixed{9}":         "{}",
		"bigint":           "{}",
		"[]uint32":         "{}",
		"set{}":            "{}",
		"map{str: int32}":  "{}",
		"cmap{str: int32}": "{}",

		"struct{src uint32; dst uint32}": "record{src: {}; dst: {}}",
		"struct{hdr struct{src uint32; dst uint32}; ok bool}": "record{hdr: record{src: {}; dst: {}}; ok: {}}",
	}

	for str, expected := range testCases {
		typ := types.NewType(str)
		if typ == nil {
			t.Errorf("parse of `%s` failed", str)
			continue
		}
		result, err := Empty(typ)
		if err != nil {
			t.Errorf("empty of `%s` failed: %v", str, err)
			continue
		}
		if out := result.String(); out != expected {
			t.Errorf("empty of `%s` is `%s`, expected `%s`", str, out, expected)
		}
		if result.Variables().Len() != 0 {
			t.Errorf("empty of `%s` mentions variables", str)
		}
	}
}

// TestEmpty1 checks that unioning an empty result with itself changes
// nothing.
func TestEmpty1(t *testing.T) {
	typ := types.NewType("struct{src uint32; dst uint32}")
	l, err := Empty(typ)
	if err != nil {
		t.Fatalf("empty failed: %v", err)
	}
	r, err := Empty(typ)
	if err != nil {
		t.Fatalf("empty failed: %v", err)
	}
	result, err := l.Union(r)
	if err != nil {
		t.Fatalf("union failed: %v", err)
	}
	if diff := pretty.Compare(l.String(), result.String()); diff != "" {
		t.Errorf("empty union empty is not empty: %s", diff)
	}
}
