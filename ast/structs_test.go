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

package ast

import (
	"errors"
	"testing"

	"github.com/symlang/symlang/interfaces"
	"github.com/symlang/symlang/types"
)

func TestExprString0(t *testing.T) {
	a := NewExprVar("a", types.TypeUint32)
	b := NewExprVar("b", types.TypeUint32)
	p := NewExprVar("p", types.TypeBool)

	testCases := []struct {
		expr     interfaces.Expr
		expected string
	}{
		{&ExprConst{Typ: types.TypeUint32, V: uint32(42)}, "const(42)"},
		{a, "arbitrary(a)"},
		{&ExprArg{Name: "n"}, "arg(n)"},
		{&ExprNot{X: p}, "not(arbitrary(p))"},
		{&ExprArith{Op: ArithOpAdd, X: a, Y: b}, "(arbitrary(a) + arbitrary(b))"},
		{&ExprCmp{Op: CmpOpEq, X: a, Y: b}, "(arbitrary(a) == arbitrary(b))"},
		{&ExprBit{Op: BitOpXor, X: a, Y: b}, "(arbitrary(a) ^ arbitrary(b))"},
		{&ExprBitNot{X: a}, "bitnot(arbitrary(a))"},
		{&ExprField{X: a, Field: "src"}, "arbitrary(a).src"},
		{&ExprCast{X: a, To: types.NewType("int64")}, "cast(arbitrary(a), int64)"},
	}

	for _, tc := range testCases {
		if out := tc.expr.String(); out != tc.expected {
			t.Errorf("string is `%s`, expected `%s`", out, tc.expected)
		}
	}
}

// TestApply0 checks the iterator visits children before parents and every
// node exactly once.
func TestApply0(t *testing.T) {
	a := NewExprVar("a", types.TypeInt32)
	b := NewExprVar("b", types.TypeInt32)
	c := NewExprVar("c", types.TypeInt32)
	sum := &ExprArith{Op: ArithOpAdd, X: a, Y: b}
	root := &ExprCmp{Op: CmpOpEq, X: sum, Y: c}

	seen := []interfaces.Node{}
	err := root.Apply(func(node interfaces.Node) error {
		seen = append(seen, node)
		return nil
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	expected := []interfaces.Node{a, b, sum, c, root}
	if len(seen) != len(expected) {
		t.Fatalf("apply visited %d nodes, expected %d", len(seen), len(expected))
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("apply visited %s at %d, expected %s", seen[i].String(), i, expected[i].String())
		}
	}
}

func TestExprStructType0(t *testing.T) {
	a := NewExprVar("a", types.TypeUint32)
	b := NewExprVar("b", types.TypeBool)
	expr := &ExprStruct{Fields: []*ExprStructField{
		{Name: "src", Value: a}, // declared out of name order on purpose
		{Name: "ok", Value: b},
	}}

	typ, err := expr.Type()
	if err != nil {
		t.Fatalf("type failed: %v", err)
	}
	if expected := "struct{ok bool; src uint32}"; typ.String() != expected {
		t.Errorf("type is `%s`, expected `%s`", typ.String(), expected)
	}

	again, err := expr.Type()
	if err != nil {
		t.Fatalf("type failed: %v", err)
	}
	if typ != again { // the descriptor is built once and shared
		t.Errorf("type returned a different pointer on the second call")
	}
}

func TestExprStructType1(t *testing.T) {
	a := NewExprVar("a", types.TypeUint32)
	expr := &ExprStruct{Fields: []*ExprStructField{
		{Name: "x", Value: a},
		{Name: "x", Value: a},
	}}
	if _, err := expr.Type(); err == nil {
		t.Errorf("duplicate fields should be an error")
	}
}

func TestExprFieldType0(t *testing.T) {
	a := NewExprVar("a", types.TypeUint32)
	b := NewExprVar("b", types.TypeBool)
	expr := &ExprStruct{Fields: []*ExprStructField{
		{Name: "src", Value: a},
		{Name: "ok", Value: b},
	}}

	field := &ExprField{X: expr, Field: "src"}
	typ, err := field.Type()
	if err != nil {
		t.Fatalf("type failed: %v", err)
	}
	if err := typ.Cmp(types.TypeUint32); err != nil {
		t.Errorf("field type mismatch: %v", err)
	}

	missing := &ExprField{X: expr, Field: "nope"}
	if _, err := missing.Type(); err == nil {
		t.Errorf("missing field should be an error")
	}

	flat := &ExprField{X: a, Field: "src"}
	if _, err := flat.Type(); err == nil {
		t.Errorf("field of a non struct should be an error")
	}
}

func TestExprArgType0(t *testing.T) {
	arg := &ExprArg{Name: "n"}
	if _, err := arg.Type(); !errors.Is(err, interfaces.ErrTypeCurrentlyUnknown) {
		t.Errorf("unresolved argument should have an unknown type, got: %v", err)
	}

	if err := arg.SetType(types.TypeUint32); err != nil {
		t.Fatalf("set type failed: %v", err)
	}
	typ, err := arg.Type()
	if err != nil {
		t.Fatalf("type failed: %v", err)
	}
	if err := typ.Cmp(types.TypeUint32); err != nil {
		t.Errorf("argument type mismatch: %v", err)
	}

	if err := arg.SetType(types.TypeUint32); err != nil {
		t.Errorf("setting the same type again should be fine: %v", err)
	}
	if err := arg.SetType(types.TypeBool); err == nil {
		t.Errorf("changing the type should be an error")
	}
}

func TestExprListType0(t *testing.T) {
	list := &ExprList{Typ: types.NewType("[]uint32")}
	if _, err := list.Type(); err != nil {
		t.Errorf("list type failed: %v", err)
	}

	bad := &ExprList{Typ: types.TypeUint32}
	if _, err := bad.Type(); err == nil {
		t.Errorf("a list literal with a non list type should be an error")
	}
}
