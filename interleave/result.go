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
	"fmt"
	"strings"

	"github.com/symlang/symlang/ast"
	"github.com/symlang/symlang/interfaces"
	"github.com/symlang/symlang/util/errwrap"
)

const (
	// ErrShapeMismatch is returned when two results of different shape
	// are combined, or when a record operation lands on a flat result.
	// The AST type system prevents this for well-typed expressions, so
	// hitting it means the expression tree was built wrong.
	ErrShapeMismatch = interfaces.Error("result shapes do not match")
)

// VarSet is an insertion-ordered set of symbolic variables. Membership is
// referential, matching variable identity. The ordering is what keeps the
// whole analysis deterministic, so every iteration over variables anywhere
// in this package goes through List.
type VarSet struct {
	ord []*ast.ExprVar
	idx map[*ast.ExprVar]struct{}
}

// NewVarSet creates a set from the given variables, in order.
func NewVarSet(vars ...*ast.ExprVar) *VarSet {
	obj := &VarSet{
		idx: make(map[*ast.ExprVar]struct{}),
	}
	for _, v := range vars {
		obj.Add(v)
	}
	return obj
}

// Add inserts a variable. Re-adding a member is a no-op and keeps its
// original position.
func (obj *VarSet) Add(v *ast.ExprVar) {
	if _, exists := obj.idx[v]; exists {
		return
	}
	obj.idx[v] = struct{}{}
	obj.ord = append(obj.ord, v)
}

// Has reports membership.
func (obj *VarSet) Has(v *ast.ExprVar) bool {
	_, exists := obj.idx[v]
	return exists
}

// Len returns the number of members.
func (obj *VarSet) Len() int {
	return len(obj.ord)
}

// List returns the members in insertion order. The slice is a copy.
func (obj *VarSet) List() []*ast.ExprVar {
	out := make([]*ast.ExprVar, len(obj.ord))
	copy(out, obj.ord)
	return out
}

// Union returns a fresh set with the members of both, receiver first.
func (obj *VarSet) Union(set *VarSet) *VarSet {
	out := NewVarSet(obj.ord...)
	for _, v := range set.ord {
		out.Add(v)
	}
	return out
}

// Result is the abstract value that the heuristic computes for every
// sub-expression. The shape of a result is a function of the type of the
// expression alone: a Flat for anything primitive or container-like, and a
// Record mirroring the field structure for record types.
//
// Results are immutable once built. Union returns fresh results, and the
// engine caches them per expression node, so a cached result must never be
// modified in place.
type Result interface {
	fmt.Stringer

	// Union merges this result with another of the same shape. A shape
	// mismatch fails loudly with ErrShapeMismatch.
	Union(Result) (Result, error)

	// Variables returns every variable mentioned anywhere in this
	// result, flattening the record structure.
	Variables() *VarSet
}

// Flat is the result shape for every non-record type: just the set of
// variables the sub-expression may depend on.
type Flat struct {
	Vars *VarSet
}

// String returns a short representation of this result.
func (obj *Flat) String() string {
	names := make([]string, 0, obj.Vars.Len())
	for _, v := range obj.Vars.List() {
		names = append(names, v.Name)
	}
	return fmt.Sprintf("{%s}", strings.Join(names, ", "))
}

// Union merges two flat results into a fresh one.
func (obj *Flat) Union(result Result) (Result, error) {
	flat, ok := result.(*Flat)
	if !ok {
		return nil, errwrap.Wrapf(ErrShapeMismatch, "cannot union flat with %T", result)
	}
	return &Flat{
		Vars: obj.Vars.Union(flat.Vars),
	}, nil
}

// Variables returns the variable set of this result.
func (obj *Flat) Variables() *VarSet {
	return NewVarSet(obj.Vars.List()...)
}

// Record is the result shape for record types: one nested result per
// field, with a stable field order taken from the type descriptor.
type Record struct {
	Fields map[string]Result
	Ord    []string
}

// String returns a short representation of this result.
func (obj *Record) String() string {
	fields := make([]string, len(obj.Ord))
	for i, name := range obj.Ord {
		fields[i] = fmt.Sprintf("%s: %s", name, obj.Fields[name].String())
	}
	return fmt.Sprintf("record{%s}", strings.Join(fields, "; "))
}

// Union merges two record results field-wise into a fresh one. The two
// records must have identical field name sets.
func (obj *Record) Union(result Result) (Result, error) {
	record, ok := result.(*Record)
	if !ok {
		return nil, errwrap.Wrapf(ErrShapeMismatch, "cannot union record with %T", result)
	}
	if len(obj.Ord) != len(record.Ord) {
		return nil, errwrap.Wrapf(ErrShapeMismatch, "field count differs (%d != %d)", len(obj.Ord), len(record.Ord))
	}

	fields := make(map[string]Result)
	ord := make([]string, len(obj.Ord))
	copy(ord, obj.Ord)
	for _, name := range obj.Ord {
		other, exists := record.Fields[name]
		if !exists {
			return nil, errwrap.Wrapf(ErrShapeMismatch, "missing field %s", name)
		}
		merged, err := obj.Fields[name].Union(other)
		if err != nil {
			return nil, errwrap.Wrapf(err, "field %s", name)
		}
		fields[name] = merged
	}

	return &Record{
		Fields: fields,
		Ord:    ord,
	}, nil
}

// Variables returns every variable from every field, in field order.
func (obj *Record) Variables() *VarSet {
	out := NewVarSet()
	for _, name := range obj.Ord {
		out = out.Union(obj.Fields[name].Variables())
	}
	return out
}
