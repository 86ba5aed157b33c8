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

// Package types provides the type descriptors that annotate every
// expression, and the visitor framework used by the type-directed
// analyses.
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/symlang/symlang/util/errwrap"
)

// Basic types defined here as a convenience for use with Type.Cmp(X).
var (
	TypeBool   = NewType("bool")
	TypeStr    = NewType("str")
	TypeInt32  = NewType("int32")
	TypeUint32 = NewType("uint32")
	TypeBigInt = NewType("bigint")
	TypeReal   = NewType("real")

	// TypeUnitSet is the distinguished element-less set type. It is used
	// as the value type of set-membership maps, where only presence
	// matters.
	TypeUnitSet = NewType("set{}")
)

//go:generate stringer -type=Kind -output=kind_stringer.go

// The Kind represents the base type of each value.
type Kind int

// Each Kind represents a type in the type system.
const (
	KindNil Kind = iota
	KindBool
	KindByte
	KindChar
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindBigInt
	KindReal
	KindStr
	KindFixed
	KindList
	KindMap
	KindConstMap
	KindSet
	KindStruct
)

// kindNames maps the string form of each primitive kind to its Kind. The
// compound kinds (fixed, list, map, cmap, set, struct) have structured
// syntax and are handled separately.
var kindNames = map[string]Kind{
	"bool":   KindBool,
	"byte":   KindByte,
	"char":   KindChar,
	"int16":  KindInt16,
	"uint16": KindUint16,
	"int32":  KindInt32,
	"uint32": KindUint32,
	"int64":  KindInt64,
	"uint64": KindUint64,
	"bigint": KindBigInt,
	"real":   KindReal,
	"str":    KindStr,
}

// Type is the datastructure representing any type. It can be recursive for
// container types like lists, maps, sets, and structs.
//
// Analyses cache per *Type, so a compound type that is mentioned more than
// once should be built once and shared, not re-parsed at each mention.
type Type struct {
	Kind Kind

	Size int              // if Kind == Fixed, the width in bits
	Val  *Type            // if Kind == List/Set/Map/ConstMap; nil Val on a Set is the unit set
	Key  *Type            // if Kind == Map/ConstMap
	Map  map[string]*Type // if Kind == Struct, use Map and Ord (for order)
	Ord  []string
}

// NewType creates the Type from the string representation. It returns nil
// on any malformed input, including the empty string.
func NewType(s string) *Type {
	if kind, exists := kindNames[s]; exists {
		return &Type{
			Kind: kind,
		}
	}

	// KindFixed
	if strings.HasPrefix(s, "fixed{") && strings.HasSuffix(s, "}") {
		s := s[len("fixed{") : len(s)-1]
		size, err := strconv.Atoi(s)
		if err != nil || size <= 0 {
			return nil
		}
		return &Type{
			Kind: KindFixed,
			Size: size,
		}
	}

	// KindList
	if strings.HasPrefix(s, "[]") {
		val := NewType(s[len("[]"):])
		if val == nil {
			return nil
		}
		return &Type{
			Kind: KindList,
			Val:  val,
		}
	}

	// KindSet
	if strings.HasPrefix(s, "set{") && strings.HasSuffix(s, "}") {
		s := s[len("set{") : len(s)-1]
		if s == "" { // the unit set has no element type
			return &Type{
				Kind: KindSet,
			}
		}
		val := NewType(s)
		if val == nil {
			return nil
		}
		return &Type{
			Kind: KindSet,
			Val:  val,
		}
	}

	// KindMap and KindConstMap share the {<type>: <type>} syntax.
	for prefix, kind := range map[string]Kind{
		"map{":  KindMap,
		"cmap{": KindConstMap,
	} {
		if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, "}") {
			continue
		}
		s := s[len(prefix) : len(s)-1]
		if s == "" { // it is empty
			return nil
		}
		var found int
		var delta int
		for i, c := range s {
			if c == '{' { // open
				delta++
			}
			if c == '}' { // close
				delta--
			}
			if c == ':' && delta == 0 {
				found = i
			}
		}
		if found == 0 || delta != 0 { // nope if we fall off the end...
			return nil
		}

		key := NewType(strings.Trim(s[:found], " "))
		if key == nil {
			return nil
		}
		val := NewType(strings.Trim(s[found+1:], " "))
		if val == nil {
			return nil
		}
		return &Type{
			Kind: kind,
			Key:  key,
			Val:  val,
		}
	}

	// KindStruct
	if strings.HasPrefix(s, "struct{") && strings.HasSuffix(s, "}") {
		s := s[len("struct{") : len(s)-1]
		keys := []string{}
		tmap := make(map[string]*Type)

		for { // while we still have struct pairs to process...
			s = strings.Trim(s, " ")
			if s == "" {
				break // done
			}

			sep := strings.Index(s, " ")
			if sep <= 0 {
				return nil
			}
			key := s[:sep]
			keys = append(keys, key)

			s = s[sep+1:] // what's next

			var found int
			var delta int
			for i, c := range s {
				if c == '{' { // open
					delta++
				}
				if c == '}' { // close
					delta--
				}
				if c == ';' && delta == 0 { // is there nesting?
					found = i
					break // stop at first semicolon
				}
			}
			if delta != 0 { // nope if we're still nested...
				return nil
			}
			if found == 0 { // no semicolon
				found = len(s) - 1 // last char
			}

			var trim int
			if s[found:found+1] == ";" {
				trim = 1
			}

			typ := NewType(strings.Trim(s[:found+1-trim], " "))
			if typ == nil {
				return nil
			}
			tmap[key] = typ // add type
			s = s[found+1:] // what's left?
		}

		return &Type{
			Kind: KindStruct,
			Ord:  keys,
			Map:  tmap,
		}
	}

	return nil // error (this also matches the empty string as input)
}

// String returns the textual representation for this type. The output can
// be fed back through NewType to reconstruct an equal type.
func (obj *Type) String() string {
	switch obj.Kind {
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindInt16:
		return "int16"
	case KindUint16:
		return "uint16"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindBigInt:
		return "bigint"
	case KindReal:
		return "real"
	case KindStr:
		return "str"

	case KindFixed:
		if obj.Size <= 0 {
			panic("malformed fixed type")
		}
		return fmt.Sprintf("fixed{%d}", obj.Size)

	case KindList:
		if obj.Val == nil {
			panic("malformed list type")
		}
		return "[]" + obj.Val.String()

	case KindSet:
		if obj.Val == nil { // the unit set
			return "set{}"
		}
		return fmt.Sprintf("set{%s}", obj.Val.String())

	case KindMap:
		if obj.Key == nil || obj.Val == nil {
			panic("malformed map type")
		}
		return fmt.Sprintf("map{%s: %s}", obj.Key.String(), obj.Val.String())

	case KindConstMap:
		if obj.Key == nil || obj.Val == nil {
			panic("malformed cmap type")
		}
		return fmt.Sprintf("cmap{%s: %s}", obj.Key.String(), obj.Val.String())

	case KindStruct: // {a bool; b int32}
		if obj.Map == nil {
			panic("malformed struct type")
		}
		if len(obj.Map) != len(obj.Ord) {
			panic("malformed struct length")
		}
		var s = make([]string, len(obj.Ord))
		for i, k := range obj.Ord {
			t, ok := obj.Map[k]
			if !ok {
				panic("malformed struct order")
			}
			if t == nil {
				panic("malformed struct field")
			}
			s[i] = fmt.Sprintf("%s %s", k, t.String())
		}
		return fmt.Sprintf("struct{%s}", strings.Join(s, "; "))
	}

	panic("malformed type")
}

// Cmp compares this type to another. Two types compare equal only when
// their whole descriptor trees match, field names and order included.
func (obj *Type) Cmp(typ *Type) error {
	if obj == nil || typ == nil {
		return fmt.Errorf("cannot compare to nil")
	}

	if obj.Kind != typ.Kind {
		return fmt.Errorf("base kind does not match (%v != %v)", obj.Kind, typ.Kind)
	}
	switch obj.Kind {
	case KindBool, KindByte, KindChar, KindInt16, KindUint16, KindInt32,
		KindUint32, KindInt64, KindUint64, KindBigInt, KindReal, KindStr:
		return nil

	case KindFixed:
		if obj.Size != typ.Size {
			return fmt.Errorf("fixed width differs (%d != %d)", obj.Size, typ.Size)
		}
		return nil

	case KindList:
		if obj.Val == nil || typ.Val == nil {
			panic("malformed list type")
		}
		return obj.Val.Cmp(typ.Val)

	case KindSet:
		if obj.Val == nil && typ.Val == nil { // both are the unit set
			return nil
		}
		if obj.Val == nil || typ.Val == nil {
			return fmt.Errorf("unit set only compares with other unit sets")
		}
		return obj.Val.Cmp(typ.Val)

	case KindMap, KindConstMap:
		if obj.Key == nil || obj.Val == nil || typ.Key == nil || typ.Val == nil {
			panic("malformed map type")
		}
		kerr := obj.Key.Cmp(typ.Key)
		verr := obj.Val.Cmp(typ.Val)
		if kerr != nil && verr != nil {
			return errwrap.Append(kerr, verr) // two errors
		}
		if kerr != nil {
			return kerr
		}
		if verr != nil {
			return verr
		}
		return nil

	case KindStruct: // {a bool; b int32}
		if obj.Map == nil || typ.Map == nil {
			panic("malformed struct type")
		}
		if len(obj.Ord) != len(typ.Ord) {
			return fmt.Errorf("struct field count differs")
		}
		for i, k := range obj.Ord {
			if k != typ.Ord[i] {
				return fmt.Errorf("struct fields differ")
			}
		}
		for _, k := range obj.Ord { // loop map in deterministic order
			t1, ok := obj.Map[k]
			if !ok {
				panic("malformed struct order")
			}
			t2, ok := typ.Map[k]
			if !ok {
				panic("malformed struct order")
			}
			if t1 == nil || t2 == nil {
				panic("malformed struct field")
			}
			if err := t1.Cmp(t2); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown kind")
}

// Copy copies this type so that inplace modification won't affect the
// original.
func (obj *Type) Copy() *Type {
	return NewType(obj.String()) // hack to do this easily
}

// BitWidth returns the number of bits a value of this type occupies, for
// the kinds that have a fixed width. The second return value is false for
// every other kind.
func (obj *Type) BitWidth() (int, bool) {
	switch obj.Kind {
	case KindBool:
		return 1, true
	case KindByte:
		return 8, true
	case KindChar:
		return 16, true
	case KindInt16, KindUint16:
		return 16, true
	case KindInt32, KindUint32:
		return 32, true
	case KindInt64, KindUint64:
		return 64, true
	case KindFixed:
		return obj.Size, true
	}
	return 0, false
}

// IsUnitSet returns true if this is the distinguished element-less set
// type.
func (obj *Type) IsUnitSet() bool {
	return obj.Kind == KindSet && obj.Val == nil
}
