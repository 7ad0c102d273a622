// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package langerr defines the typed error taxonomy raised by the case
// pipeline DSL's parser and evaluator. Every constructor tags its error
// with an oops.Code so callers (and structured logging, see
// pkg/errutil.LogError) can branch on failure class without string matching.
package langerr

import (
	"github.com/samber/oops"
)

// Error codes, one per taxonomy entry. These are stable identifiers:
// do not rename without updating anything that matches on them.
const (
	CodeParse       = "LANG_PARSE_ERROR"
	CodeUndefined   = "LANG_UNDEFINED_SYMBOL"
	CodeType        = "LANG_TYPE_ERROR"
	CodeArity       = "LANG_ARITY_ERROR"
	CodeArithmetic  = "LANG_ARITHMETIC_ERROR"
	CodeConstructed = "LANG_CONSTRUCTION_ERROR"
)

// Parse wraps a lexer/grammar failure with source position context.
func Parse(err error) error {
	return oops.Code(CodeParse).Wrapf(err, "Parse error")
}

// UndefinedSymbol reports a lookup miss for an identifier or member path.
func UndefinedSymbol(name string) error {
	return oops.Code(CodeUndefined).
		With("name", name).
		Errorf("Undefined variable: %s", name)
}

// UnknownFunction reports a call to a name not bound to any function.
func UnknownFunction(name string) error {
	return oops.Code(CodeUndefined).
		With("name", name).
		Errorf("Unknown function: %s", name)
}

// PropertyNotFound reports a missing field on a known object (case/agent/map).
func PropertyNotFound(object, property string) error {
	return oops.Code(CodeUndefined).
		With("object", object).
		With("property", property).
		Errorf("property %q not found on object %q", property, object)
}

// UnknownObject reports a member access on an object name the evaluator
// does not recognize (not "case", not "agent", not a bound Map).
func UnknownObject(object string) error {
	return oops.Code(CodeUndefined).
		With("object", object).
		Errorf("unknown object: %s", object)
}

// TypeError reports an operation applied to operand(s) of the wrong kind.
func TypeError(format string, args ...any) error {
	return oops.Code(CodeType).Errorf(format, args...)
}

// ArityError reports a function call with the wrong number of arguments.
func ArityError(name string, want, got int) error {
	return oops.Code(CodeArity).
		With("function", name).
		With("want", want).
		With("got", got).
		Errorf("Function '%s' expects %d arguments, got %d", name, want, got)
}

// ArityAtLeastError reports a function call below its minimum arity.
func ArityAtLeastError(name string, min int) error {
	return oops.Code(CodeArity).
		With("function", name).
		With("min", min).
		Errorf("%s() requires at least %d argument", name, min)
}

// ArithmeticError reports a failed arithmetic or comparison operation.
func ArithmeticError(format string, args ...any) error {
	return oops.Code(CodeArithmetic).Errorf(format, args...)
}

// DivisionByZero is the specific arithmetic error for division by zero.
func DivisionByZero() error {
	return oops.Code(CodeArithmetic).Errorf("division by zero")
}

// ConstructionError reports a failure to build a value (e.g. a non-Map
// assigned where a record snapshot was expected).
func ConstructionError(format string, args ...any) error {
	return oops.Code(CodeConstructed).Errorf(format, args...)
}

// Wrap annotates an existing error with additional key/value context
// without changing its code, if it already carries one.
func Wrap(err error, msg string, kv ...any) error {
	b := oops.With(kv...)
	return b.Wrapf(err, "%s", msg)
}
