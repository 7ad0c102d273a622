// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package value implements the runtime Value model of the case pipeline
// DSL: a tagged union over Number/String/Bool/List/Null/Map/BuiltinFn/
// UserFn, with truthiness, equality, and canonical string rendering
// rules ported from the reference evaluator.
package value

import (
	"fmt"
	"strconv"

	"github.com/holomush/casepipe/internal/lang"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindList
	KindNull
	KindMap
	KindBuiltinFn
	KindUserFn
)

// BuiltinFn is the signature every built-in function implements.
type BuiltinFn func(args []Value) (Value, error)

// Value is a tagged union; exactly the field matching Kind is meaningful.
type Value struct {
	Kind Kind

	Number     int64
	Str        string
	Bool       bool
	List       []Value
	Map        map[string]Value
	BuiltinFn  BuiltinFn
	BuiltinTag string // identity key for equality/stringification of a builtin
	UserFn     *lang.FunctionDef
}

// Number, String, Bool, List, Null, Map construct a Value of the
// matching kind. They are the normal way to build Values outside this
// package.
func Number(n int64) Value  { return Value{Kind: KindNumber, Number: n} }
func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Bool(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func List(items []Value) Value {
	return Value{Kind: KindList, List: items}
}
func Null() Value { return Value{Kind: KindNull} }
func Map(m map[string]Value) Value {
	return Value{Kind: KindMap, Map: m}
}

// Builtin constructs a named built-in function value. tag is the
// identity used for equality; ToString renders every builtin as
// "builtin_function" regardless of tag.
func Builtin(tag string, fn BuiltinFn) Value {
	return Value{Kind: KindBuiltinFn, BuiltinFn: fn, BuiltinTag: tag}
}

// UserFunction wraps a parsed function definition as a callable Value.
func UserFunction(fd *lang.FunctionDef) Value {
	return Value{Kind: KindUserFn, UserFn: fd}
}

// IsTruthy implements the DSL's truthiness rules: Bool is itself,
// Number is non-zero, String/List/Map are non-empty, Null is always
// false, and functions are always truthy.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number != 0
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List) != 0
	case KindNull:
		return false
	case KindMap:
		return len(v.Map) != 0
	case KindBuiltinFn, KindUserFn:
		return true
	}
	return false
}

// Equal implements the DSL's equality rules: structural for Number,
// String, Bool, Null, List, and Map; pointer/name identity for
// functions; always false across differing kinds.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNumber:
		return a.Number == b.Number
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	case KindNull:
		return true
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for k, av := range a.Map {
			bv, ok := b.Map[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindBuiltinFn:
		return a.BuiltinTag == b.BuiltinTag
	case KindUserFn:
		return a.UserFn != nil && b.UserFn != nil &&
			a.UserFn.Name == b.UserFn.Name &&
			equalParams(a.UserFn.Params, b.UserFn.Params)
	}
	return false
}

func equalParams(a, b []string) bool {
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

// ToString renders a canonical, content-independent-for-aggregates
// string used as the sort phase's textual comparison fallback. It
// mirrors the reference's value_to_string: List and Map render only
// their kind name, never their contents.
func ToString(v Value) string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatInt(v.Number, 10)
	case KindString:
		return v.Str
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNull:
		return "null"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindBuiltinFn:
		return "builtin_function"
	case KindUserFn:
		return fmt.Sprintf("user_function_%s", v.UserFn.Name)
	}
	return ""
}

// TypeName names the Value's kind for use in type-error messages.
func (v Value) TypeName() string {
	switch v.Kind {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindNull:
		return "null"
	case KindMap:
		return "map"
	case KindBuiltinFn:
		return "builtin_function"
	case KindUserFn:
		return "user_function"
	}
	return "unknown"
}
