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
	"fmt"
)

// Visitor performs a type-directed computation. The caller supplies one
// handler per kind and then dispatches through Visit. Handlers for the
// compound kinds receive the child descriptors but the framework never
// recurses on its own: a handler that needs the result for a child calls
// back into whatever entry point wraps Visit, so that any caching layered
// on top stays honored.
//
// A nil handler means the visitor does not support that kind, and Visit
// returns an error for it.
type Visitor[T any] struct {
	Bool     func() (T, error)
	Byte     func() (T, error)
	Char     func() (T, error)
	Int16    func() (T, error)
	Uint16   func() (T, error)
	Int32    func() (T, error)
	Uint32   func() (T, error)
	Int64    func() (T, error)
	Uint64   func() (T, error)
	BigInt   func() (T, error)
	Real     func() (T, error)
	Str      func() (T, error)
	Fixed    func(size int) (T, error)
	List     func(val *Type) (T, error)
	Map      func(key, val *Type) (T, error)
	ConstMap func(key, val *Type) (T, error)
	Set      func(val *Type) (T, error) // val is nil for the unit set
	Struct   func(fields map[string]*Type, ord []string) (T, error)
}

// Visit dispatches on the kind of the given type and runs the matching
// handler.
func (obj *Visitor[T]) Visit(typ *Type) (T, error) {
	var zero T
	if typ == nil {
		return zero, fmt.Errorf("cannot visit nil type")
	}

	switch typ.Kind {
	case KindBool:
		if obj.Bool != nil {
			return obj.Bool()
		}
	case KindByte:
		if obj.Byte != nil {
			return obj.Byte()
		}
	case KindChar:
		if obj.Char != nil {
			return obj.Char()
		}
	case KindInt16:
		if obj.Int16 != nil {
			return obj.Int16()
		}
	case KindUint16:
		if obj.Uint16 != nil {
			return obj.Uint16()
		}
	case KindInt32:
		if obj.Int32 != nil {
			return obj.Int32()
		}
	case KindUint32:
		if obj.Uint32 != nil {
			return obj.Uint32()
		}
	case KindInt64:
		if obj.Int64 != nil {
			return obj.Int64()
		}
	case KindUint64:
		if obj.Uint64 != nil {
			return obj.Uint64()
		}
	case KindBigInt:
		if obj.BigInt != nil {
			return obj.BigInt()
		}
	case KindReal:
		if obj.Real != nil {
			return obj.Real()
		}
	case KindStr:
		if obj.Str != nil {
			return obj.Str()
		}
	case KindFixed:
		if obj.Fixed != nil {
			return obj.Fixed(typ.Size)
		}
	case KindList:
		if obj.List != nil {
			return obj.List(typ.Val)
		}
	case KindMap:
		if obj.Map != nil {
			return obj.Map(typ.Key, typ.Val)
		}
	case KindConstMap:
		if obj.ConstMap != nil {
			return obj.ConstMap(typ.Key, typ.Val)
		}
	case KindSet:
		if obj.Set != nil {
			return obj.Set(typ.Val)
		}
	case KindStruct:
		if obj.Struct != nil {
			return obj.Struct(typ.Map, typ.Ord)
		}
	default:
		return zero, fmt.Errorf("unknown kind: %v", typ.Kind)
	}

	return zero, fmt.Errorf("no visitor handler for %v", typ.Kind)
}

// VisitNumeric fills every fixed-width integer handler of a visitor with
// the same width-directed function. The byte, char, short, int, and long
// kinds all reduce to a width for most consumers, so this avoids writing
// nine identical handlers.
func VisitNumeric[T any](vis *Visitor[T], fn func(size int) (T, error)) {
	vis.Byte = func() (T, error) { return fn(8) }
	vis.Char = func() (T, error) { return fn(16) }
	vis.Int16 = func() (T, error) { return fn(16) }
	vis.Uint16 = func() (T, error) { return fn(16) }
	vis.Int32 = func() (T, error) { return fn(32) }
	vis.Uint32 = func() (T, error) { return fn(32) }
	vis.Int64 = func() (T, error) { return fn(64) }
	vis.Uint64 = func() (T, error) { return fn(64) }
	vis.Fixed = fn
}
