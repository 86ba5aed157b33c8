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

// Package bdd turns an interleaving partition into a concrete variable
// order and allocates the decision diagram that uses it. The diagram
// engine itself is rudd; this package only decides which formula bit goes
// on which diagram level.
package bdd

import (
	"fmt"

	"github.com/symlang/symlang/ast"
	"github.com/symlang/symlang/util/errwrap"

	"github.com/dalzilio/rudd"
)

// Bit names a single bit of a single symbolic variable. Index counts from
// the least significant bit.
type Bit struct {
	Var   *ast.ExprVar
	Index int
}

// String returns a short representation of this bit.
func (obj Bit) String() string { return fmt.Sprintf("%s[%d]", obj.Var.Name, obj.Index) }

// Order flattens a partition into one global bit order. Groups keep their
// partition order. Within a group the variables are interleaved: bit zero
// of every member first, then bit one of every member, and so on, which
// is the layout that keeps arithmetic over coupled variables polynomial
// in diagram size. Every variable needs a fixed bit width.
func Order(groups [][]*ast.ExprVar) ([]Bit, error) {
	out := []Bit{}
	for g, group := range groups {
		widths := make([]int, len(group))
		max := 0
		for i, v := range group {
			if v == nil || v.Typ == nil {
				return nil, fmt.Errorf("invalid variable %d in group %d", i, g)
			}
			width, ok := v.Typ.BitWidth()
			if !ok {
				return nil, fmt.Errorf("variable %s has no fixed bit width", v.Name)
			}
			widths[i] = width
			if width > max {
				max = width
			}
		}
		for bit := 0; bit < max; bit++ {
			for i, v := range group {
				if bit < widths[i] {
					out = append(out, Bit{Var: v, Index: bit})
				}
			}
		}
	}
	return out, nil
}

// Space owns a decision diagram whose levels follow an interleaved bit
// order. Build one from the partition that the heuristic computed, then
// use Bit to fetch the diagram node for any variable bit.
type Space struct {
	order []Bit
	index map[*ast.ExprVar][]int // bit index to diagram level

	bdd *rudd.BDD
}

// NewSpace builds the order for a partition and allocates a diagram with
// one level per bit.
func NewSpace(groups [][]*ast.ExprVar) (*Space, error) {
	order, err := Order(groups)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not order the partition")
	}

	varnum := len(order)
	if varnum == 0 {
		varnum = 1 // the diagram needs at least one level
	}
	b, err := rudd.New(varnum, rudd.Nodesize(10000), rudd.Cachesize(5000))
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not allocate the diagram")
	}

	index := make(map[*ast.ExprVar][]int)
	for level, bit := range order {
		levels := index[bit.Var]
		if levels == nil {
			width, _ := bit.Var.Typ.BitWidth() // checked by Order
			levels = make([]int, width)
			index[bit.Var] = levels
		}
		levels[bit.Index] = level
	}

	return &Space{
		order: order,
		index: index,
		bdd:   b,
	}, nil
}

// Order returns a copy of the global bit order, level by level.
func (obj *Space) Order() []Bit {
	out := make([]Bit, len(obj.order))
	copy(out, obj.order)
	return out
}

// BDD exposes the underlying diagram for building formulas.
func (obj *Space) BDD() *rudd.BDD {
	return obj.bdd
}

// Bit returns the diagram node for the given bit of the given variable.
func (obj *Space) Bit(v *ast.ExprVar, i int) (rudd.Node, error) {
	levels, exists := obj.index[v]
	if !exists {
		return nil, fmt.Errorf("variable %s is not in this space", v.Name)
	}
	if i < 0 || i >= len(levels) {
		return nil, fmt.Errorf("variable %s has no bit %d", v.Name, i)
	}
	return obj.bdd.Ithvar(levels[i]), nil
}

// Level returns the diagram level of the given bit of the given variable.
func (obj *Space) Level(v *ast.ExprVar, i int) (int, error) {
	levels, exists := obj.index[v]
	if !exists {
		return 0, fmt.Errorf("variable %s is not in this space", v.Name)
	}
	if i < 0 || i >= len(levels) {
		return 0, fmt.Errorf("variable %s has no bit %d", v.Name, i)
	}
	return levels[i], nil
}
