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

// Package disjoint implements a disjoint-set data structure, otherwise
// known as a union-find, which we use to build equivalence classes over
// opaque handles.
//
// Elements are created through a Pool, which remembers the order in which
// they were allocated. That order is what makes the DisjointSets listing
// deterministic: for the same sequence of NewElem and Union calls, the
// partition always comes back with the same sets, in the same order, with
// the same members in the same order. Downstream consumers rely on this to
// derive stable orderings of their own.
//
// This package is not thread-safe; wrap it with your own synchronization
// if you need that.
package disjoint

// Elem is one element of the structure. It stores some user data and links
// into the forest that represents its set.
type Elem[T any] struct {
	// Data is the payload that the user wants to associate with this
	// element.
	Data T

	// parent points at ourself when this element is the representative
	// of its set.
	parent *Elem[T]

	// rank is an upper bound on the height of the tree below this
	// element. It only changes when two roots of equal rank are merged,
	// and it is what keeps Find paths short.
	rank int
}

// Find returns the representative element of the set. In the steady state
// of a set, every member returns the same representative, so comparing
// representatives answers "same set?" directly. Path compression happens
// as a side effect.
func (obj *Elem[T]) Find() *Elem[T] {
	for obj != obj.parent {
		obj.parent = obj.parent.parent // compress as we walk
		obj = obj.parent
	}
	return obj
}

// Union merges the set containing this element with the set containing the
// other element. If they are already the same set, nothing changes. The
// larger ranked root becomes the new representative; on a tie the receiver
// side wins and its rank grows by one.
func (obj *Elem[T]) Union(elem *Elem[T]) {
	root1 := obj.Find()
	root2 := elem.Find()
	if root1 == root2 {
		return // nothing to do
	}

	switch {
	case root1.rank < root2.rank:
		root1.parent = root2
	case root1.rank > root2.rank:
		root2.parent = root1
	default:
		root1.rank++
		root2.parent = root1
	}
}

// IsConnected returns true if the two elements are part of the same set.
func IsConnected[T any](elem1, elem2 *Elem[T]) bool {
	return elem1.Find() == elem2.Find()
}

// Pool allocates elements and remembers every element it ever issued, in
// creation order. It exists so that the partition over those elements can
// be enumerated, which individual elements can't do on their own.
type Pool[T any] struct {
	elems []*Elem[T]
}

// NewPool creates an empty pool.
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{}
}

// NewElem creates a new singleton set holding the given data and returns
// its sole element.
func (obj *Pool[T]) NewElem(data T) *Elem[T] {
	elem := &Elem[T]{Data: data}
	elem.parent = elem // we are our own representative
	obj.elems = append(obj.elems, elem)
	return elem
}

// Len returns the number of elements issued by this pool.
func (obj *Pool[T]) Len() int {
	return len(obj.elems)
}

// DisjointSets returns the current partition of every element this pool
// issued, as a list of lists of their data payloads. Sets appear in order
// of their earliest created member, and members appear in creation order
// within each set. Singletons are included.
func (obj *Pool[T]) DisjointSets() [][]T {
	index := make(map[*Elem[T]]int)
	sets := [][]T{}
	for _, elem := range obj.elems {
		root := elem.Find()
		i, exists := index[root]
		if !exists {
			i = len(sets)
			index[root] = i
			sets = append(sets, []T{})
		}
		sets[i] = append(sets[i], elem.Data)
	}
	return sets
}
