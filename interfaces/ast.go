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

// Package interfaces contains the common interfaces and errors that the
// expression AST and the analyses over it share.
package interfaces

import (
	"fmt"

	"github.com/symlang/symlang/types"
)

// Node represents any node in the expression AST. It contains the minimum
// set of methods that every node must implement.
type Node interface {
	fmt.Stringer

	// Apply is a general purpose iterator method that operates on any
	// node. It applies to child nodes first, and to the receiver last.
	Apply(fn func(Node) error) error
}

// Expr represents an expression in the AST. Implementations must use
// pointer receivers so that each node has a stable referential identity;
// the analyses use the node pointer itself as a cache key, and two
// occurrences of the same sub-expression must share the same node for
// memoization to apply.
type Expr interface {
	Node

	// Type returns the type of this expression. It may speculate if it
	// can determine it statically. This errors if it is not yet known.
	Type() (*types.Type, error)
}
