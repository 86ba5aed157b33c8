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

// Package interleave partitions the symbolic variables of a formula into
// the groups whose bits should be interleaved when the formula is encoded
// as a binary decision diagram. Two variables land in the same group when
// some non-disjunctive operation relates them: an arithmetic combination,
// a comparison, an equality, a conjunctive bit operation. Bitwise or is
// the deliberate exception, since disjunctive bit combinations stay small
// under any ordering.
//
// The analysis is conservative. It may group variables that an optimal
// ordering would keep apart, but it never splits variables whose coupling
// matters, with one exception: the cons branch of a list case is not
// traversed, so coupling that happens only inside it is missed.
package interleave

import (
	"fmt"

	"github.com/symlang/symlang/ast"
	"github.com/symlang/symlang/interfaces"
	"github.com/symlang/symlang/types"
	"github.com/symlang/symlang/util/disjoint"
	"github.com/symlang/symlang/util/errwrap"
)

const (
	// ErrMissingArgument is returned when an argument reference has no
	// binding in the argument map passed to Compute.
	ErrMissingArgument = interfaces.Error("argument is not bound")

	// ErrAlreadyUsed is returned when Compute is called twice on the
	// same heuristic. Each analysis owns its union-find and cache for
	// exactly one run.
	ErrAlreadyUsed = interfaces.Error("heuristic was already used")
)

// ErrUnsupported is returned when the formula contains an operator that
// the bdd backend cannot encode. No partial partition is ever produced;
// the whole analysis aborts.
type ErrUnsupported struct {
	// Kind names the offending operator.
	Kind string
}

// Error fulfills the error interface of this type.
func (obj *ErrUnsupported) Error() string {
	return fmt.Sprintf("operator %s is unsupported by the bdd backend", obj.Kind)
}

// Init contains some handles passed in to initialize the heuristic.
type Init struct {
	Debug bool
	Logf  func(format string, v ...interface{})
}

// Heuristic computes the interleaving partition for one formula. It is
// single-use: build it, Init it, call Compute once, read the partition,
// discard it.
type Heuristic struct {
	debug bool
	logf  func(format string, v ...interface{})

	args  map[string]interfaces.Expr
	cache map[interfaces.Expr]Result
	pool  *disjoint.Pool[*ast.ExprVar]
	elems map[*ast.ExprVar]*disjoint.Elem[*ast.ExprVar]
}

// Init initializes the heuristic struct before first use.
func (obj *Heuristic) Init(init *Init) error {
	obj.debug = init.Debug
	obj.logf = init.Logf
	if obj.logf == nil {
		obj.logf = func(format string, v ...interface{}) {} // noop
	}
	return nil
}

// Compute walks the formula and returns the partition of every symbolic
// variable reachable from it, as a list of groups. Singleton groups are
// included. The args map binds argument identifiers to the expressions
// they stand for.
//
// The output is deterministic: the same formula with the same bindings
// always produces the same groups, in the same order, with the same
// member order. The downstream encoder derives a bit order from it.
func (obj *Heuristic) Compute(root interfaces.Expr, args map[string]interfaces.Expr) ([][]*ast.ExprVar, error) {
	if obj.cache != nil {
		return nil, ErrAlreadyUsed
	}
	if root == nil {
		return nil, fmt.Errorf("cannot compute on a nil expression")
	}
	if obj.logf == nil { // Init was skipped
		obj.logf = func(format string, v ...interface{}) {}
	}

	obj.args = args
	if obj.args == nil {
		obj.args = make(map[string]interfaces.Expr)
	}
	obj.cache = make(map[interfaces.Expr]Result)
	obj.pool = disjoint.NewPool[*ast.ExprVar]()
	obj.elems = make(map[*ast.ExprVar]*disjoint.Elem[*ast.ExprVar])

	if _, err := obj.evaluate(root); err != nil {
		return nil, err
	}

	sets := obj.pool.DisjointSets()
	if obj.debug {
		obj.logf("partitioned %d variables into %d groups", obj.pool.Len(), len(sets))
	}
	return sets, nil
}

// evaluate computes the result for an expression, memoized per node. The
// memoization relies on structural sharing: a sub-expression that occurs
// twice must be the same node, and then its side effects on the union-find
// run only once.
func (obj *Heuristic) evaluate(expr interfaces.Expr) (Result, error) {
	if expr == nil {
		return nil, fmt.Errorf("cannot evaluate a nil expression")
	}
	if result, exists := obj.cache[expr]; exists {
		return result, nil
	}

	result, err := obj.visit(expr)
	if err != nil {
		return nil, err
	}
	obj.cache[expr] = result
	return result, nil
}

// visit dispatches on the concrete node kind and applies the per-operator
// rule. It must only be called through evaluate.
func (obj *Heuristic) visit(expr interfaces.Expr) (Result, error) {
	switch node := expr.(type) {
	case *ast.ExprConst:
		typ, err := node.Type()
		if err != nil {
			return nil, err
		}
		return Empty(typ)

	case *ast.ExprVar:
		typ, err := node.Type()
		if err != nil {
			return nil, err
		}
		obj.addVar(node)
		empty, err := Empty(typ)
		if err != nil {
			return nil, err
		}
		// A record type can't be arbitrary at the leaf; the shaped
		// union fails loudly if someone builds one anyway.
		flat := &Flat{Vars: NewVarSet(node)}
		return flat.Union(empty)

	case *ast.ExprArg:
		bound, exists := obj.args[node.Name]
		if !exists {
			return nil, errwrap.Wrapf(ErrMissingArgument, "argument `%s`", node.Name)
		}
		if typ, err := bound.Type(); err == nil {
			// recover the static type from the bound node
			if err := node.SetType(typ); err != nil {
				return nil, errwrap.Wrapf(err, "argument `%s` binding type", node.Name)
			}
		}
		return obj.evaluate(bound)

	case *ast.ExprIf:
		// The condition runs for its union-find side effects only; it
		// never couples with the branches.
		if _, err := obj.evaluate(node.Condition); err != nil {
			return nil, err
		}
		t, err := obj.evaluate(node.ThenBranch)
		if err != nil {
			return nil, err
		}
		f, err := obj.evaluate(node.ElseBranch)
		if err != nil {
			return nil, err
		}
		return t.Union(f)

	case *ast.ExprNot:
		return obj.evaluate(node.X)

	case *ast.ExprAnd:
		return obj.evaluateUnion(node.X, node.Y, false) // logical ops don't couple

	case *ast.ExprOr:
		return obj.evaluateUnion(node.X, node.Y, false)

	case *ast.ExprArith:
		return obj.evaluateUnion(node.X, node.Y, true)

	case *ast.ExprCmp:
		return obj.evaluateUnion(node.X, node.Y, true)

	case *ast.ExprBit:
		// Bitwise or is the one coupling exception: disjunctive bit
		// combinations don't need interleaving.
		return obj.evaluateUnion(node.X, node.Y, node.Op != ast.BitOpOr)

	case *ast.ExprBitNot:
		return obj.evaluate(node.X)

	case *ast.ExprCast:
		return obj.evaluate(node.X)

	case *ast.ExprStruct:
		typ, err := node.Type()
		if err != nil {
			return nil, err
		}
		values := make(map[string]interfaces.Expr)
		for _, field := range node.Fields {
			values[field.Name] = field.Value
		}
		fields := make(map[string]Result)
		ord := make([]string, len(typ.Ord))
		copy(ord, typ.Ord)
		for _, name := range typ.Ord { // field name order, deterministic
			result, err := obj.evaluate(values[name])
			if err != nil {
				return nil, err
			}
			fields[name] = result
		}
		return &Record{
			Fields: fields,
			Ord:    ord,
		}, nil

	case *ast.ExprField:
		result, err := obj.evaluate(node.X)
		if err != nil {
			return nil, err
		}
		record, ok := result.(*Record)
		if !ok {
			return nil, errwrap.Wrapf(ErrShapeMismatch, "get field %s of flat result", node.Field)
		}
		field, exists := record.Fields[node.Field]
		if !exists {
			return nil, errwrap.Wrapf(ErrShapeMismatch, "result has no field %s", node.Field)
		}
		return field, nil

	case *ast.ExprWith:
		result, err := obj.evaluate(node.X)
		if err != nil {
			return nil, err
		}
		record, ok := result.(*Record)
		if !ok {
			return nil, errwrap.Wrapf(ErrShapeMismatch, "set field %s of flat result", node.Field)
		}
		if _, exists := record.Fields[node.Field]; !exists {
			return nil, errwrap.Wrapf(ErrShapeMismatch, "result has no field %s", node.Field)
		}
		value, err := obj.evaluate(node.Value)
		if err != nil {
			return nil, err
		}
		// Rebuild instead of mutating: the old record stays cached for
		// the old node, and evaluate caches this fresh one for us.
		fields := make(map[string]Result)
		ord := make([]string, len(record.Ord))
		copy(ord, record.Ord)
		for _, name := range record.Ord {
			fields[name] = record.Fields[name]
		}
		fields[node.Field] = value
		return &Record{
			Fields: fields,
			Ord:    ord,
		}, nil

	case *ast.ExprList:
		typ, err := node.Type()
		if err != nil {
			return nil, err
		}
		return Empty(typ)

	case *ast.ExprCons:
		// Lists get unrolled later, so cons couples nothing. A list is
		// atomic, so a record shaped head is flattened into the list's
		// Flat result.
		head, err := obj.evaluate(node.Head)
		if err != nil {
			return nil, err
		}
		tail, err := obj.evaluate(node.Tail)
		if err != nil {
			return nil, err
		}
		return &Flat{Vars: head.Variables().Union(tail.Variables())}, nil

	case *ast.ExprListCase:
		// The list expression runs for its side effects. Only the empty
		// branch contributes a result: the cons branch binds head and
		// tail nodes that don't exist outside of it, so it isn't
		// traversed. This under-approximates any coupling that happens
		// inside the cons branch.
		if _, err := obj.evaluate(node.List); err != nil {
			return nil, err
		}
		return obj.evaluate(node.Empty)

	case *ast.ExprSet:
		typ, err := node.Type()
		if err != nil {
			return nil, err
		}
		return Empty(typ)

	case *ast.ExprMap:
		return nil, &ErrUnsupported{Kind: "empty-map"}

	case *ast.ExprMapGet:
		return nil, &ErrUnsupported{Kind: "map-get"}

	case *ast.ExprMapSet:
		return nil, &ErrUnsupported{Kind: "map-set"}

	case *ast.ExprSeqConcat:
		return nil, &ErrUnsupported{Kind: "seq-concat"}

	case *ast.ExprRegexMatch:
		return nil, &ErrUnsupported{Kind: "regex-match"}
	}

	return nil, &ErrUnsupported{Kind: fmt.Sprintf("%T", expr)}
}

// evaluateUnion evaluates both operands of a binary node, optionally
// couples them, and returns the union of their results.
func (obj *Heuristic) evaluateUnion(x, y interfaces.Expr, couples bool) (Result, error) {
	l, err := obj.evaluate(x)
	if err != nil {
		return nil, err
	}
	r, err := obj.evaluate(y)
	if err != nil {
		return nil, err
	}
	if couples {
		obj.couple(l, r)
	}
	return l.Union(r)
}

// couple declares that the variables on the two sides must share
// equivalence classes. Two records of the same shape couple field by
// field, so comparing records only relates each field with its opposite
// number, never with its neighbours. Boolean-only sides are skipped
// entirely, since a boolean occupies a single bit and interleaving it
// buys nothing. Across the sides, only identically typed pairs are
// unioned; interleaving the bits of differently shaped values is
// meaningless.
func (obj *Heuristic) couple(l, r Result) {
	lrec, lok := l.(*Record)
	rrec, rok := r.(*Record)
	if lok && rok && sameFields(lrec.Ord, rrec.Ord) {
		for _, name := range lrec.Ord { // field name order, deterministic
			obj.couple(lrec.Fields[name], rrec.Fields[name])
		}
		return
	}

	lv := l.Variables().List()
	rv := r.Variables().List()
	if allBool(lv) || allBool(rv) {
		return
	}

	for _, a := range lv {
		for _, b := range rv {
			if a.Typ.Cmp(b.Typ) != nil {
				continue // never union across types
			}
			if obj.debug {
				obj.logf("coupling %s with %s", a.Name, b.Name)
			}
			obj.addVar(a).Union(obj.addVar(b))
		}
	}
}

// addVar installs a variable as a singleton in the union-find, if it isn't
// known already, and returns its element.
func (obj *Heuristic) addVar(v *ast.ExprVar) *disjoint.Elem[*ast.ExprVar] {
	if elem, exists := obj.elems[v]; exists {
		return elem
	}
	elem := obj.pool.NewElem(v)
	obj.elems[v] = elem
	return elem
}

// sameFields returns true if the two field name lists are identical.
func sameFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// allBool returns true if every variable in the list is boolean typed.
// An empty list counts as all boolean; there is nothing to couple then
// anyway.
func allBool(vars []*ast.ExprVar) bool {
	for _, v := range vars {
		if v.Typ == nil || v.Typ.Kind != types.KindBool {
			return false
		}
	}
	return true
}
