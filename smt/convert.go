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
	"fmt"

	"github.com/symlang/symlang/interfaces"
	"github.com/symlang/symlang/types"
	"github.com/symlang/symlang/util/errwrap"
)

const (
	// ErrUnsupportedSortComposition is returned for type compositions
	// the solver encoding can't express, such as a const map or a list
	// used as a map value.
	ErrUnsupportedSortComposition = interfaces.Error("unsupported sort composition")

	// ErrReentrantType is returned when a sort for a type is requested
	// while that same type is still in the middle of being built.
	ErrReentrantType = interfaces.Error("type is already being built")
)

// Init contains some handles passed in to initialize the converter.
type Init struct {
	// Solver is the host solver that issues the actual sorts.
	Solver Solver

	Debug bool
	Logf  func(format string, v ...interface{})
}

// Converter maps each type descriptor to its solver sort, once. It lives
// as long as its solver does and accumulates a cache over every type it
// is shown. It must not be shared between concurrent traversals; it has
// no locking of its own.
//
// Caching is keyed on descriptor identity, so callers have to present the
// same *types.Type pointer for the same type. That is also what keeps
// recursive descriptors from diverging.
type Converter struct {
	solver Solver
	debug  bool
	logf   func(format string, v ...interface{})

	cache    map[*types.Type]Sort
	building map[*types.Type]struct{}
}

// Init initializes the converter struct before first use.
func (obj *Converter) Init(init *Init) error {
	if init.Solver == nil {
		return fmt.Errorf("the Solver is missing")
	}
	obj.solver = init.Solver
	obj.debug = init.Debug
	obj.logf = init.Logf
	if obj.logf == nil {
		obj.logf = func(format string, v ...interface{}) {} // noop
	}
	obj.cache = make(map[*types.Type]Sort)
	obj.building = make(map[*types.Type]struct{})
	return nil
}

// SortFor returns the sort for a type, building and caching it on first
// sight. Asking again for the same descriptor returns the same handle and
// causes no further solver calls.
func (obj *Converter) SortFor(typ *types.Type) (Sort, error) {
	if typ == nil {
		return nil, fmt.Errorf("cannot convert nil type")
	}
	if sort, exists := obj.cache[typ]; exists {
		return sort, nil
	}
	if _, exists := obj.building[typ]; exists {
		return nil, errwrap.Wrapf(ErrReentrantType, "type %s", typ.String())
	}
	obj.building[typ] = struct{}{}
	defer delete(obj.building, typ)

	sort, err := obj.visit(typ)
	if err != nil {
		return nil, err
	}
	if obj.debug {
		obj.logf("sort built for %s", typ.String())
	}
	obj.cache[typ] = sort
	return sort, nil
}

// visit builds the sort for one type. Children go back through SortFor so
// that the cache sees them.
func (obj *Converter) visit(typ *types.Type) (Sort, error) {
	vis := &types.Visitor[Sort]{}

	vis.Bool = func() (Sort, error) { return obj.solver.BoolSort(), nil }
	vis.BigInt = func() (Sort, error) { return obj.solver.IntSort(), nil }
	vis.Real = func() (Sort, error) { return obj.solver.RealSort(), nil }
	vis.Str = func() (Sort, error) { return obj.solver.StringSort(), nil }

	// The signed/unsigned distinction is deferred to the encoder; only
	// the width matters for the sort.
	types.VisitNumeric(vis, func(size int) (Sort, error) {
		return obj.solver.BitVecSort(size), nil
	})

	vis.List = func(val *types.Type) (Sort, error) {
		elem, err := obj.SortFor(val)
		if err != nil {
			return nil, err
		}
		return obj.solver.SeqSort(elem), nil
	}

	vis.Set = func(val *types.Type) (Sort, error) {
		if val == nil { // the unit set is just a boolean
			return obj.solver.BoolSort(), nil
		}
		// A set is a membership map: an array onto booleans.
		elem, err := obj.SortFor(val)
		if err != nil {
			return nil, err
		}
		return obj.solver.ArraySort(elem, obj.solver.BoolSort()), nil
	}

	mapSort := func(key, val *types.Type) (Sort, error) {
		if val.Kind == types.KindConstMap {
			return nil, errwrap.Wrapf(ErrUnsupportedSortComposition, "const map may not be used as a map value")
		}
		if val.Kind == types.KindList {
			return nil, errwrap.Wrapf(ErrUnsupportedSortComposition, "list may not be used as a map value")
		}
		k, err := obj.SortFor(key)
		if err != nil {
			return nil, err
		}
		v, err := obj.SortFor(val)
		if err != nil {
			return nil, err
		}
		if !val.IsUnitSet() {
			// Arrays are total, so values get an option wrapper to
			// express absence. Set-membership maps don't need it:
			// absent and false coincide.
			v = obj.solver.OptionSort(v)
		}
		return obj.solver.ArraySort(k, v), nil
	}
	vis.Map = mapSort
	vis.ConstMap = mapSort

	vis.Struct = func(fields map[string]*types.Type, ord []string) (Sort, error) {
		sorts := make([]Sort, len(ord))
		names := make([]string, len(ord))
		copy(names, ord)
		for i, name := range ord {
			sort, err := obj.SortFor(fields[name])
			if err != nil {
				return nil, errwrap.Wrapf(err, "field %s", name)
			}
			sorts[i] = sort
		}
		return obj.solver.DatatypeSort(typ.String(), names, sorts), nil
	}

	return vis.Visit(typ)
}
