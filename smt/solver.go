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

// Package smt maps type descriptors onto solver-level sorts. The solver
// itself stays behind the Solver interface; this package only decides
// which sorts to ask it for, and caches the answers.
package smt

// Sort is an opaque handle to a solver-level sort. Only the solver that
// issued it can interpret it.
type Sort interface{}

// Solver is the surface this package needs from the host solver: the
// primitive sort constants and the sort constructors. Implementations
// wrap a concrete backend.
type Solver interface {
	// BoolSort returns the boolean sort.
	BoolSort() Sort

	// BitVecSort returns the bit-vector sort of the given width.
	BitVecSort(size int) Sort

	// IntSort returns the arbitrary-precision integer sort.
	IntSort() Sort

	// RealSort returns the arbitrary-precision real sort.
	RealSort() Sort

	// StringSort returns the string sort.
	StringSort() Sort

	// SeqSort returns the sequence sort over the given element sort.
	SeqSort(elem Sort) Sort

	// ArraySort returns the array sort from key to value.
	ArraySort(key, val Sort) Sort

	// OptionSort returns the option sort wrapping the given sort.
	OptionSort(elem Sort) Sort

	// DatatypeSort builds an algebraic datatype with a single `value`
	// constructor taking the given fields. The display name is
	// registered with the solver so that later decoders can recover
	// which compound type a model value belongs to.
	DatatypeSort(name string, fields []string, sorts []Sort) Sort
}
