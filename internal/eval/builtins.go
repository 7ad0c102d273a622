// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package eval

import (
	"github.com/holomush/casepipe/internal/langerr"
	"github.com/holomush/casepipe/internal/value"
)

// Builtins returns the fixed set of built-in functions, bound to their
// canonical names, ready for insertion into a fresh environment's root
// scope. Ported from
// original_source/src/engine/vm/evaluators/builtin_functions.rs.
func Builtins() map[string]value.Value {
	return map[string]value.Value{
		"len":      value.Builtin("len", builtinLen),
		"max":      value.Builtin("max", builtinMax),
		"min":      value.Builtin("min", builtinMin),
		"contains": value.Builtin("contains", builtinContains),
	}
}

func builtinLen(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, langerr.ArityError("len", 1, len(args))
	}
	switch args[0].Kind {
	case value.KindList:
		return value.Number(int64(len(args[0].List))), nil
	case value.KindString:
		return value.Number(int64(len(args[0].Str))), nil
	}
	return value.Value{}, langerr.TypeError("len() can only be applied to lists or strings")
}

func builtinMax(args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, langerr.ArityAtLeastError("max", 1)
	}
	best := args[0]
	if best.Kind != value.KindNumber {
		return value.Value{}, langerr.TypeError("max() can only be applied to numbers")
	}
	for _, a := range args[1:] {
		if a.Kind != value.KindNumber {
			return value.Value{}, langerr.TypeError("max() can only be applied to numbers")
		}
		if a.Number > best.Number {
			best = a
		}
	}
	return best, nil
}

func builtinMin(args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, langerr.ArityAtLeastError("min", 1)
	}
	best := args[0]
	if best.Kind != value.KindNumber {
		return value.Value{}, langerr.TypeError("min() can only be applied to numbers")
	}
	for _, a := range args[1:] {
		if a.Kind != value.KindNumber {
			return value.Value{}, langerr.TypeError("min() can only be applied to numbers")
		}
		if a.Number < best.Number {
			best = a
		}
	}
	return best, nil
}

// builtinContains uses a narrower equality than the general evaluator's
// value.Equal: the reference's local values_equal helper only compares
// Number/String/Bool/Null, so a List or Map element never matches here
// even if structurally equal. This mirrors that intentionally-narrower
// behavior rather than the richer in-operator/equality rule.
func builtinContains(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, langerr.ArityError("contains", 2, len(args))
	}
	container, target := args[0], args[1]
	switch container.Kind {
	case value.KindList:
		for _, item := range container.List {
			if containsEqual(item, target) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.KindString:
		if target.Kind != value.KindString {
			return value.Value{}, langerr.TypeError("contains() with a string first argument requires a string second argument")
		}
		return value.Bool(containsSubstring(container.Str, target.Str)), nil
	}
	return value.Value{}, langerr.TypeError("contains() first argument must be a list or string")
}

func containsEqual(a, b value.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case value.KindNumber:
		return a.Number == b.Number
	case value.KindString:
		return a.Str == b.Str
	case value.KindBool:
		return a.Bool == b.Bool
	case value.KindNull:
		return true
	}
	return false
}
