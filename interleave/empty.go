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
	"github.com/symlang/symlang/types"
	"github.com/symlang/symlang/util/errwrap"
)

// Empty returns the variable-free result with the shape that matches the
// given type: a Flat for every primitive, and a Record with one entry per
// field, recursively, for record types.
//
// Lists, sets, and maps get a Flat as well. The heuristic treats container
// valued variables as atomic: what matters is which variables relate,
// never the internal layout of a container.
func Empty(typ *types.Type) (Result, error) {
	flat := func() (Result, error) {
		return &Flat{Vars: NewVarSet()}, nil
	}

	vis := &types.Visitor[Result]{}
	vis.Bool = flat
	vis.BigInt = flat
	vis.Real = flat
	vis.Str = flat
	types.VisitNumeric(vis, func(int) (Result, error) { return flat() })
	vis.List = func(*types.Type) (Result, error) { return flat() }
	vis.Set = func(*types.Type) (Result, error) { return flat() }
	vis.Map = func(_, _ *types.Type) (Result, error) { return flat() }
	vis.ConstMap = func(_, _ *types.Type) (Result, error) { return flat() }
	vis.Struct = func(fields map[string]*types.Type, ord []string) (Result, error) {
		m := make(map[string]Result)
		o := make([]string, len(ord))
		copy(o, ord)
		for _, name := range ord {
			r, err := Empty(fields[name]) // recurse through the framework
			if err != nil {
				return nil, errwrap.Wrapf(err, "field %s", name)
			}
			m[name] = r
		}
		return &Record{
			Fields: m,
			Ord:    o,
		}, nil
	}

	return vis.Visit(typ)
}
