// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package eval implements the DSL's expression evaluator: arithmetic,
// comparison, logical, membership and unary operators, member access
// against the per-record case/agent bindings and bound Maps, function
// calls (built-in and user-defined), and the user-function block
// evaluator. Semantics are ported from
// original_source/src/engine/vm/evaluators/expr_evaluator.rs.
package eval

import (
	"github.com/holomush/casepipe/internal/env"
	"github.com/holomush/casepipe/internal/lang"
	"github.com/holomush/casepipe/internal/langerr"
	"github.com/holomush/casepipe/internal/value"
)

// caseFieldNames enumerates the per-record bindings setupCaseContext
// (see internal/workflow) installs into the innermost scope.
var caseFieldNames = map[string]bool{
	"id": true, "category": true, "status": true,
	"priority": true, "score": true, "customer": true,
}

// Eval evaluates expr against en, the current environment.
func Eval(expr lang.Expr, en *env.Env) (value.Value, error) {
	switch {
	case expr.Number != nil:
		return value.Number(*expr.Number), nil
	case expr.Str != nil:
		return value.String(*expr.Str), nil
	case expr.Bool != nil:
		return value.Bool(*expr.Bool), nil
	case expr.Ident != nil:
		v, ok := en.Lookup(*expr.Ident)
		if !ok {
			return value.Value{}, langerr.UndefinedSymbol(*expr.Ident)
		}
		return v, nil
	case expr.List != nil:
		items := make([]value.Value, 0, len(expr.List.Elements))
		for _, el := range expr.List.Elements {
			v, err := Eval(el, en)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
		}
		return value.List(items), nil
	case expr.Binary != nil:
		return evalBinary(expr.Binary, en)
	case expr.Unary != nil:
		return evalUnary(expr.Unary, en)
	case expr.Call != nil:
		return evalCall(expr.Call, en)
	case expr.Member != nil:
		return evalMember(expr.Member, en)
	}
	return value.Value{}, langerr.ConstructionError("empty expression node")
}

func evalBinary(b *lang.BinaryExpr, en *env.Env) (value.Value, error) {
	// And/Or are eager and value-preserving: both sides are evaluated,
	// and the result is whichever operand's Value is selected by the
	// left operand's truthiness, not a coerced Bool.
	if b.Op == lang.OpAnd || b.Op == lang.OpOr {
		left, err := Eval(*b.Left, en)
		if err != nil {
			return value.Value{}, err
		}
		right, err := Eval(*b.Right, en)
		if err != nil {
			return value.Value{}, err
		}
		leftTruthy := left.IsTruthy()
		if b.Op == lang.OpAnd {
			if leftTruthy {
				return right, nil
			}
			return left, nil
		}
		if leftTruthy {
			return left, nil
		}
		return right, nil
	}

	left, err := Eval(*b.Left, en)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Eval(*b.Right, en)
	if err != nil {
		return value.Value{}, err
	}

	switch b.Op {
	case lang.OpAdd:
		return addValues(left, right)
	case lang.OpSub:
		return subValues(left, right)
	case lang.OpMul:
		return mulValues(left, right)
	case lang.OpDiv:
		return divValues(left, right)
	case lang.OpEq:
		return value.Bool(value.Equal(left, right)), nil
	case lang.OpNeq:
		return value.Bool(!value.Equal(left, right)), nil
	case lang.OpLt, lang.OpLe, lang.OpGt, lang.OpGe:
		return compareValues(left, right, b.Op)
	case lang.OpIn:
		return inOperation(left, right)
	}
	return value.Value{}, langerr.ConstructionError("unknown binary operator %q", b.Op)
}

func addValues(a, b value.Value) (value.Value, error) {
	if a.Kind == value.KindNumber && b.Kind == value.KindNumber {
		return value.Number(a.Number + b.Number), nil
	}
	if a.Kind == value.KindString && b.Kind == value.KindString {
		return value.String(a.Str + b.Str), nil
	}
	return value.Value{}, langerr.TypeError("Cannot add these types")
}

func subValues(a, b value.Value) (value.Value, error) {
	if a.Kind != value.KindNumber || b.Kind != value.KindNumber {
		return value.Value{}, langerr.TypeError("Cannot subtract non-numbers")
	}
	return value.Number(a.Number - b.Number), nil
}

func mulValues(a, b value.Value) (value.Value, error) {
	if a.Kind != value.KindNumber || b.Kind != value.KindNumber {
		return value.Value{}, langerr.TypeError("Cannot multiply non-numbers")
	}
	return value.Number(a.Number * b.Number), nil
}

func divValues(a, b value.Value) (value.Value, error) {
	if a.Kind != value.KindNumber || b.Kind != value.KindNumber {
		return value.Value{}, langerr.TypeError("Cannot divide non-numbers")
	}
	if b.Number == 0 {
		return value.Value{}, langerr.DivisionByZero()
	}
	return value.Number(a.Number / b.Number), nil
}

func compareValues(a, b value.Value, op lang.BinaryOperator) (value.Value, error) {
	if a.Kind != value.KindNumber || b.Kind != value.KindNumber {
		return value.Value{}, langerr.ArithmeticError("Cannot compare non-numbers")
	}
	switch op {
	case lang.OpLt:
		return value.Bool(a.Number < b.Number), nil
	case lang.OpLe:
		return value.Bool(a.Number <= b.Number), nil
	case lang.OpGt:
		return value.Bool(a.Number > b.Number), nil
	case lang.OpGe:
		return value.Bool(a.Number >= b.Number), nil
	}
	return value.Value{}, langerr.ConstructionError("unknown comparison operator %q", op)
}

func inOperation(left, right value.Value) (value.Value, error) {
	switch right.Kind {
	case value.KindList:
		for _, item := range right.List {
			if value.Equal(left, item) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.KindString:
		if left.Kind != value.KindString {
			return value.Value{}, langerr.TypeError("'in' operation with string requires string on left side")
		}
		return value.Bool(containsSubstring(right.Str, left.Str)), nil
	}
	return value.Value{}, langerr.TypeError("'in' operation requires list or string on right side")
}

func containsSubstring(haystack, needle string) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func evalUnary(u *lang.UnaryExpr, en *env.Env) (value.Value, error) {
	operand, err := Eval(*u.Expr, en)
	if err != nil {
		return value.Value{}, err
	}
	switch u.Op {
	case lang.OpNeg:
		if operand.Kind != value.KindNumber {
			return value.Value{}, langerr.TypeError("Cannot negate non-numbers")
		}
		return value.Number(-operand.Number), nil
	case lang.OpNot:
		return value.Bool(!operand.IsTruthy()), nil
	}
	return value.Value{}, langerr.ConstructionError("unknown unary operator %q", u.Op)
}

func evalCall(c *lang.CallExpr, en *env.Env) (value.Value, error) {
	args := make([]value.Value, 0, len(c.Args))
	for _, a := range c.Args {
		v, err := Eval(a, en)
		if err != nil {
			return value.Value{}, err
		}
		args = append(args, v)
	}

	fn, ok := en.Lookup(c.Name)
	if !ok {
		return value.Value{}, langerr.UnknownFunction(c.Name)
	}

	switch fn.Kind {
	case value.KindBuiltinFn:
		return fn.BuiltinFn(args)
	case value.KindUserFn:
		return callUserFunction(fn.UserFn, args, en)
	}
	return value.Value{}, langerr.TypeError("%s is not a function", c.Name)
}

func callUserFunction(fd *lang.FunctionDef, args []value.Value, en *env.Env) (value.Value, error) {
	if len(args) != len(fd.Params) {
		return value.Value{}, langerr.ArityError(fd.Name, len(fd.Params), len(args))
	}

	en.EnterScope()
	defer en.ExitScope()

	for i, p := range fd.Params {
		en.Insert(p, args[i])
	}

	if fd.Body.Block != nil {
		result, _, err := evalBlock(fd.Body.Block, en)
		return result, err
	}
	return Eval(fd.Body.Expression, en)
}

// evalBlock executes stmts in order against en (the current frame; no
// additional scope is pushed per block — If branches execute as
// recursive block calls in the SAME frame so that a Return inside one
// unwinds through to the function caller). It returns the running
// last_value and whether a Return fired.
func evalBlock(stmts []lang.Statement, en *env.Env) (value.Value, bool, error) {
	lastValue := value.Null()
	for _, stmt := range stmts {
		switch {
		case stmt.Let != nil:
			v, err := Eval(stmt.Let.Value, en)
			if err != nil {
				return value.Value{}, false, err
			}
			en.Insert(stmt.Let.Name, v)
		case stmt.Assign != nil:
			v, err := Eval(stmt.Assign.Value, en)
			if err != nil {
				return value.Value{}, false, err
			}
			en.Insert(stmt.Assign.Name, v)
		case stmt.If != nil:
			cond, err := Eval(stmt.If.Cond, en)
			if err != nil {
				return value.Value{}, false, err
			}
			branch := stmt.If.Else
			if cond.IsTruthy() {
				branch = stmt.If.Then
			}
			v, returned, err := evalBlock(branch, en)
			if err != nil {
				return value.Value{}, false, err
			}
			if returned {
				return v, true, nil
			}
			lastValue = v
		case stmt.Return != nil:
			v, err := Eval(stmt.Return.Value, en)
			if err != nil {
				return value.Value{}, false, err
			}
			return v, true, nil
		case stmt.Expression != nil:
			v, err := Eval(stmt.Expression.Value, en)
			if err != nil {
				return value.Value{}, false, err
			}
			lastValue = v
		}
	}
	return lastValue, false, nil
}

func evalMember(m *lang.MemberExpr, en *env.Env) (value.Value, error) {
	if bound, ok := en.Lookup(m.Object); ok && bound.Kind == value.KindMap {
		v, ok := bound.Map[m.Property]
		if !ok {
			return value.Value{}, langerr.PropertyNotFound(m.Object, m.Property)
		}
		return v, nil
	}

	switch m.Object {
	case "case":
		if !caseFieldNames[m.Property] {
			return value.Value{}, langerr.UnknownObject(m.Object + "." + m.Property)
		}
		v, ok := en.Lookup(m.Property)
		if !ok {
			return value.Value{}, langerr.PropertyNotFound("case", m.Property)
		}
		return v, nil
	case "agent":
		agent, ok := en.Lookup("agent")
		if !ok {
			return value.Value{}, langerr.PropertyNotFound("agent", m.Property)
		}
		if agent.Kind != value.KindMap {
			return value.Value{}, langerr.TypeError("agent is not an object")
		}
		v, ok := agent.Map[m.Property]
		if !ok {
			return value.Value{}, langerr.PropertyNotFound("agent", m.Property)
		}
		return v, nil
	}
	return value.Value{}, langerr.UnknownObject(m.Object)
}
