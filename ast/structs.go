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

// Package ast contains the typed expression nodes. Nodes are identified
// referentially: building the same sub-expression twice gives two distinct
// nodes, and analyses that memoize per node expect shared sub-expressions
// to be shared pointers.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/symlang/symlang/interfaces"
	"github.com/symlang/symlang/types"

	"github.com/google/uuid"
)

// ArithOp is the operator tag of an ExprArith node.
type ArithOp string

// The arithmetic operators.
const (
	ArithOpAdd ArithOp = "+"
	ArithOpSub ArithOp = "-"
	ArithOpMul ArithOp = "*"
	ArithOpDiv ArithOp = "/"
	ArithOpMod ArithOp = "%"
)

// CmpOp is the operator tag of an ExprCmp node. Equality and disequality
// are comparisons like any other.
type CmpOp string

// The comparison operators.
const (
	CmpOpLt CmpOp = "<"
	CmpOpLe CmpOp = "<="
	CmpOpGt CmpOp = ">"
	CmpOpGe CmpOp = ">="
	CmpOpEq CmpOp = "=="
	CmpOpNe CmpOp = "!="
)

// BitOp is the operator tag of an ExprBit node.
type BitOp string

// The binary bitwise operators.
const (
	BitOpAnd BitOp = "&"
	BitOpOr  BitOp = "|"
	BitOpXor BitOp = "^"
)

// ExprConst is a constant value of some type.
type ExprConst struct {
	Typ *types.Type

	V interface{} // the value is opaque to the analyses
}

// String returns a short representation of this expression.
func (obj *ExprConst) String() string { return fmt.Sprintf("const(%v)", obj.V) }

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprConst) Apply(fn func(interfaces.Node) error) error { return fn(obj) }

// Type returns the type of this expression.
func (obj *ExprConst) Type() (*types.Type, error) {
	if obj.Typ == nil {
		return nil, interfaces.ErrTypeCurrentlyUnknown
	}
	return obj.Typ, nil
}

// ExprVar is a symbolic variable, a free value of some type that a solver
// gets to choose. Identity is the node pointer itself; two variables are
// the same variable only if they are the same node. The UID exists for
// display and hashing, never for equality.
type ExprVar struct {
	Name string
	Typ  *types.Type
	UID  uuid.UUID
}

// NewExprVar creates a fresh symbolic variable of the given type.
func NewExprVar(name string, typ *types.Type) *ExprVar {
	return &ExprVar{
		Name: name,
		Typ:  typ,
		UID:  uuid.New(),
	}
}

// String returns a short representation of this expression.
func (obj *ExprVar) String() string { return fmt.Sprintf("arbitrary(%s)", obj.Name) }

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprVar) Apply(fn func(interfaces.Node) error) error { return fn(obj) }

// Type returns the type of this expression.
func (obj *ExprVar) Type() (*types.Type, error) {
	if obj.Typ == nil {
		return nil, interfaces.ErrTypeCurrentlyUnknown
	}
	return obj.Typ, nil
}

// ExprArg is a reference to an argument by identifier. The expression it
// stands for is supplied separately, as a binding, when an analysis runs.
type ExprArg struct {
	Name string

	typ *types.Type // set once the binding is known
}

// String returns a short representation of this expression.
func (obj *ExprArg) String() string { return fmt.Sprintf("arg(%s)", obj.Name) }

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprArg) Apply(fn func(interfaces.Node) error) error { return fn(obj) }

// SetType sets the type definitively, and errors if it is incompatible
// with a type that was already set.
func (obj *ExprArg) SetType(typ *types.Type) error {
	if obj.typ != nil {
		return obj.typ.Cmp(typ) // if already set, ensure it doesn't change
	}
	obj.typ = typ // set
	return nil
}

// Type returns the type of this expression. It is only known after the
// argument has been resolved against a binding.
func (obj *ExprArg) Type() (*types.Type, error) {
	if obj.typ == nil {
		return nil, interfaces.ErrTypeCurrentlyUnknown
	}
	return obj.typ, nil
}

// ExprNot is logical negation.
type ExprNot struct {
	X interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprNot) String() string { return fmt.Sprintf("not(%s)", obj.X.String()) }

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprNot) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprNot) Type() (*types.Type, error) { return types.TypeBool, nil }

// ExprAnd is logical conjunction.
type ExprAnd struct {
	X interfaces.Expr
	Y interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprAnd) String() string {
	return fmt.Sprintf("and(%s, %s)", obj.X.String(), obj.Y.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprAnd) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	if err := obj.Y.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprAnd) Type() (*types.Type, error) { return types.TypeBool, nil }

// ExprOr is logical disjunction.
type ExprOr struct {
	X interfaces.Expr
	Y interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprOr) String() string {
	return fmt.Sprintf("or(%s, %s)", obj.X.String(), obj.Y.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprOr) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	if err := obj.Y.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprOr) Type() (*types.Type, error) { return types.TypeBool, nil }

// ExprArith is a binary arithmetic operation. Both operands have the same
// type, which is also the type of the result.
type ExprArith struct {
	Op ArithOp
	X  interfaces.Expr
	Y  interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprArith) String() string {
	return fmt.Sprintf("(%s %s %s)", obj.X.String(), obj.Op, obj.Y.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprArith) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	if err := obj.Y.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprArith) Type() (*types.Type, error) {
	if typ, err := obj.X.Type(); err == nil {
		return typ, nil
	}
	return obj.Y.Type()
}

// ExprCmp is a binary comparison, equality and disequality included. The
// result is always boolean.
type ExprCmp struct {
	Op CmpOp
	X  interfaces.Expr
	Y  interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprCmp) String() string {
	return fmt.Sprintf("(%s %s %s)", obj.X.String(), obj.Op, obj.Y.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprCmp) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	if err := obj.Y.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprCmp) Type() (*types.Type, error) { return types.TypeBool, nil }

// ExprBit is a binary bitwise operation over a fixed-width integer type.
type ExprBit struct {
	Op BitOp
	X  interfaces.Expr
	Y  interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprBit) String() string {
	return fmt.Sprintf("(%s %s %s)", obj.X.String(), obj.Op, obj.Y.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprBit) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	if err := obj.Y.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprBit) Type() (*types.Type, error) {
	if typ, err := obj.X.Type(); err == nil {
		return typ, nil
	}
	return obj.Y.Type()
}

// ExprBitNot is bitwise complement.
type ExprBitNot struct {
	X interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprBitNot) String() string { return fmt.Sprintf("bitnot(%s)", obj.X.String()) }

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprBitNot) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprBitNot) Type() (*types.Type, error) { return obj.X.Type() }

// ExprIf is an if/then/else expression. Both branches have the same type,
// which is the type of the whole expression. The condition is boolean.
type ExprIf struct {
	Condition  interfaces.Expr
	ThenBranch interfaces.Expr
	ElseBranch interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprIf) String() string {
	return fmt.Sprintf("if(%s, %s, %s)", obj.Condition.String(), obj.ThenBranch.String(), obj.ElseBranch.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprIf) Apply(fn func(interfaces.Node) error) error {
	if err := obj.Condition.Apply(fn); err != nil {
		return err
	}
	if err := obj.ThenBranch.Apply(fn); err != nil {
		return err
	}
	if err := obj.ElseBranch.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprIf) Type() (*types.Type, error) {
	if typ, err := obj.ThenBranch.Type(); err == nil {
		return typ, nil
	}
	return obj.ElseBranch.Type()
}

// ExprCast converts a value to another type.
type ExprCast struct {
	X  interfaces.Expr
	To *types.Type
}

// String returns a short representation of this expression.
func (obj *ExprCast) String() string {
	return fmt.Sprintf("cast(%s, %s)", obj.X.String(), obj.To.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprCast) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprCast) Type() (*types.Type, error) {
	if obj.To == nil {
		return nil, interfaces.ErrTypeCurrentlyUnknown
	}
	return obj.To, nil
}

// ExprStructField is a single name to value mapping in an ExprStruct.
type ExprStructField struct {
	Name  string
	Value interfaces.Expr
}

// ExprStruct builds a record from its fields. Field order as written is
// irrelevant; the record type orders fields by name so that two structs
// with the same fields always agree on shape.
type ExprStruct struct {
	Fields []*ExprStructField

	typ *types.Type // built once, then shared
}

// String returns a short representation of this expression.
func (obj *ExprStruct) String() string {
	fields := make([]string, len(obj.Fields))
	for i, field := range obj.Fields {
		fields[i] = fmt.Sprintf("%s: %s", field.Name, field.Value.String())
	}
	return fmt.Sprintf("struct(%s)", strings.Join(fields, "; "))
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprStruct) Apply(fn func(interfaces.Node) error) error {
	for _, field := range obj.Fields {
		if err := field.Value.Apply(fn); err != nil {
			return err
		}
	}
	return fn(obj)
}

// Type returns the type of this expression. The descriptor is built once
// and then reused, so repeated calls return the same pointer.
func (obj *ExprStruct) Type() (*types.Type, error) {
	if obj.typ != nil {
		return obj.typ, nil
	}

	m := make(map[string]*types.Type)
	ord := []string{}
	for _, field := range obj.Fields {
		if _, exists := m[field.Name]; exists {
			return nil, fmt.Errorf("duplicate struct field: %s", field.Name)
		}
		typ, err := field.Value.Type()
		if err != nil {
			return nil, err
		}
		m[field.Name] = typ
		ord = append(ord, field.Name)
	}
	sort.Strings(ord) // field order is by name

	obj.typ = &types.Type{
		Kind: types.KindStruct,
		Map:  m,
		Ord:  ord,
	}
	return obj.typ, nil
}

// ExprField reads a single field out of a record valued expression.
type ExprField struct {
	X     interfaces.Expr
	Field string
}

// String returns a short representation of this expression.
func (obj *ExprField) String() string {
	return fmt.Sprintf("%s.%s", obj.X.String(), obj.Field)
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprField) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprField) Type() (*types.Type, error) {
	typ, err := obj.X.Type()
	if err != nil {
		return nil, err
	}
	if typ.Kind != types.KindStruct {
		return nil, fmt.Errorf("cannot get field %s of non struct type %s", obj.Field, typ.String())
	}
	t, exists := typ.Map[obj.Field]
	if !exists {
		return nil, fmt.Errorf("type %s has no field %s", typ.String(), obj.Field)
	}
	return t, nil
}

// ExprWith rebuilds a record valued expression with one field replaced.
type ExprWith struct {
	X     interfaces.Expr
	Field string
	Value interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprWith) String() string {
	return fmt.Sprintf("with(%s, %s: %s)", obj.X.String(), obj.Field, obj.Value.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprWith) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	if err := obj.Value.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprWith) Type() (*types.Type, error) { return obj.X.Type() }

// ExprList is the empty list leaf. Typ is the list type, not the element
// type.
type ExprList struct {
	Typ *types.Type
}

// String returns a short representation of this expression.
func (obj *ExprList) String() string { return fmt.Sprintf("list(%s)", obj.Typ.String()) }

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprList) Apply(fn func(interfaces.Node) error) error { return fn(obj) }

// Type returns the type of this expression.
func (obj *ExprList) Type() (*types.Type, error) {
	if obj.Typ == nil {
		return nil, interfaces.ErrTypeCurrentlyUnknown
	}
	if obj.Typ.Kind != types.KindList {
		return nil, fmt.Errorf("list literal with non list type %s", obj.Typ.String())
	}
	return obj.Typ, nil
}

// ExprCons adds an element to the front of a list.
type ExprCons struct {
	Head interfaces.Expr
	Tail interfaces.Expr

	typ *types.Type // built once if derived from the head
}

// String returns a short representation of this expression.
func (obj *ExprCons) String() string {
	return fmt.Sprintf("cons(%s, %s)", obj.Head.String(), obj.Tail.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprCons) Apply(fn func(interfaces.Node) error) error {
	if err := obj.Head.Apply(fn); err != nil {
		return err
	}
	if err := obj.Tail.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprCons) Type() (*types.Type, error) {
	if typ, err := obj.Tail.Type(); err == nil {
		return typ, nil
	}
	if obj.typ != nil {
		return obj.typ, nil
	}
	typ, err := obj.Head.Type()
	if err != nil {
		return nil, err
	}
	obj.typ = &types.Type{
		Kind: types.KindList,
		Val:  typ,
	}
	return obj.typ, nil
}

// ExprListCase destructures a list. The empty branch is an ordinary
// expression. The cons branch is a constructor function, because its head
// and tail are only bound inside the branch and have no identity outside
// of it.
type ExprListCase struct {
	List  interfaces.Expr
	Empty interfaces.Expr

	// Cons builds the cons branch from the bound head and tail.
	Cons func(head, tail interfaces.Expr) interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprListCase) String() string {
	return fmt.Sprintf("case(%s, %s, <cons>)", obj.List.String(), obj.Empty.String())
}

// Apply is a general purpose iterator method that operates on any node.
// The cons branch is not traversed, since its nodes only exist once the
// branch is instantiated.
func (obj *ExprListCase) Apply(fn func(interfaces.Node) error) error {
	if err := obj.List.Apply(fn); err != nil {
		return err
	}
	if err := obj.Empty.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprListCase) Type() (*types.Type, error) { return obj.Empty.Type() }

// ExprSet is the empty set leaf. Typ is the set type, not the element
// type.
type ExprSet struct {
	Typ *types.Type
}

// String returns a short representation of this expression.
func (obj *ExprSet) String() string { return fmt.Sprintf("set(%s)", obj.Typ.String()) }

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprSet) Apply(fn func(interfaces.Node) error) error { return fn(obj) }

// Type returns the type of this expression.
func (obj *ExprSet) Type() (*types.Type, error) {
	if obj.Typ == nil {
		return nil, interfaces.ErrTypeCurrentlyUnknown
	}
	if obj.Typ.Kind != types.KindSet {
		return nil, fmt.Errorf("set literal with non set type %s", obj.Typ.String())
	}
	return obj.Typ, nil
}

// ExprMap is the empty map leaf. Typ is the map type, not the value type.
type ExprMap struct {
	Typ *types.Type
}

// String returns a short representation of this expression.
func (obj *ExprMap) String() string { return fmt.Sprintf("map(%s)", obj.Typ.String()) }

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprMap) Apply(fn func(interfaces.Node) error) error { return fn(obj) }

// Type returns the type of this expression.
func (obj *ExprMap) Type() (*types.Type, error) {
	if obj.Typ == nil {
		return nil, interfaces.ErrTypeCurrentlyUnknown
	}
	if obj.Typ.Kind != types.KindMap && obj.Typ.Kind != types.KindConstMap {
		return nil, fmt.Errorf("map literal with non map type %s", obj.Typ.String())
	}
	return obj.Typ, nil
}

// ExprMapGet reads a value out of a map.
type ExprMapGet struct {
	X   interfaces.Expr
	Key interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprMapGet) String() string {
	return fmt.Sprintf("mapget(%s, %s)", obj.X.String(), obj.Key.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprMapGet) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	if err := obj.Key.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprMapGet) Type() (*types.Type, error) {
	typ, err := obj.X.Type()
	if err != nil {
		return nil, err
	}
	if typ.Val == nil {
		return nil, fmt.Errorf("cannot get value of non map type %s", typ.String())
	}
	return typ.Val, nil
}

// ExprMapSet writes a key/value pair into a map.
type ExprMapSet struct {
	X     interfaces.Expr
	Key   interfaces.Expr
	Value interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprMapSet) String() string {
	return fmt.Sprintf("mapset(%s, %s, %s)", obj.X.String(), obj.Key.String(), obj.Value.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprMapSet) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	if err := obj.Key.Apply(fn); err != nil {
		return err
	}
	if err := obj.Value.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprMapSet) Type() (*types.Type, error) { return obj.X.Type() }

// ExprSeqConcat concatenates two sequences.
type ExprSeqConcat struct {
	X interfaces.Expr
	Y interfaces.Expr
}

// String returns a short representation of this expression.
func (obj *ExprSeqConcat) String() string {
	return fmt.Sprintf("seqconcat(%s, %s)", obj.X.String(), obj.Y.String())
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprSeqConcat) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	if err := obj.Y.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprSeqConcat) Type() (*types.Type, error) {
	if typ, err := obj.X.Type(); err == nil {
		return typ, nil
	}
	return obj.Y.Type()
}

// ExprRegexMatch tests a string expression against a regular expression.
type ExprRegexMatch struct {
	X       interfaces.Expr
	Pattern string
}

// String returns a short representation of this expression.
func (obj *ExprRegexMatch) String() string {
	return fmt.Sprintf("regexmatch(%s, %q)", obj.X.String(), obj.Pattern)
}

// Apply is a general purpose iterator method that operates on any node.
func (obj *ExprRegexMatch) Apply(fn func(interfaces.Node) error) error {
	if err := obj.X.Apply(fn); err != nil {
		return err
	}
	return fn(obj)
}

// Type returns the type of this expression.
func (obj *ExprRegexMatch) Type() (*types.Type, error) { return types.TypeBool, nil }
