// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/casepipe/internal/eval"
	"github.com/holomush/casepipe/internal/value"
)

func TestBuiltins_RegistersExpectedNames(t *testing.T) {
	b := eval.Builtins()
	for _, name := range []string{"len", "max", "min", "contains"} {
		v, ok := b[name]
		require.True(t, ok, "missing builtin %q", name)
		assert.Equal(t, value.KindBuiltinFn, v.Kind)
	}
}

func TestBuiltinLen(t *testing.T) {
	b := eval.Builtins()
	lenFn := b["len"].BuiltinFn

	v, err := lenFn([]value.Value{value.List([]value.Value{value.Number(1), value.Number(2)})})
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Number)

	v, err = lenFn([]value.Value{value.String("hello")})
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Number)

	_, err = lenFn([]value.Value{value.Number(1)})
	require.Error(t, err)

	_, err = lenFn([]value.Value{value.String("a"), value.String("b")})
	require.Error(t, err)
}

func TestBuiltinMaxMin(t *testing.T) {
	b := eval.Builtins()
	maxFn := b["max"].BuiltinFn
	minFn := b["min"].BuiltinFn

	v, err := maxFn([]value.Value{value.Number(3), value.Number(9), value.Number(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(9), v.Number)

	v, err = minFn([]value.Value{value.Number(3), value.Number(9), value.Number(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Number)

	_, err = maxFn(nil)
	require.Error(t, err)

	_, err = maxFn([]value.Value{value.Number(1), value.String("x")})
	require.Error(t, err)
}

func TestBuiltinContains_List(t *testing.T) {
	b := eval.Builtins()
	containsFn := b["contains"].BuiltinFn

	list := value.List([]value.Value{value.Number(1), value.String("a"), value.Bool(true)})

	v, err := containsFn([]value.Value{list, value.String("a")})
	require.NoError(t, err)
	assert.True(t, v.Bool)

	v, err = containsFn([]value.Value{list, value.Number(99)})
	require.NoError(t, err)
	assert.False(t, v.Bool)
}

func TestBuiltinContains_NarrowerThanEqual(t *testing.T) {
	b := eval.Builtins()
	containsFn := b["contains"].BuiltinFn

	// The reference's contains() equality never matches List/Map elements,
	// even when structurally equal, unlike the richer `in` operator.
	nested := value.List([]value.Value{value.Number(1)})
	list := value.List([]value.Value{nested})

	v, err := containsFn([]value.Value{list, value.List([]value.Value{value.Number(1)})})
	require.NoError(t, err)
	assert.False(t, v.Bool, "contains() must not structurally match nested lists")
}

func TestBuiltinContains_String(t *testing.T) {
	b := eval.Builtins()
	containsFn := b["contains"].BuiltinFn

	v, err := containsFn([]value.Value{value.String("hello world"), value.String("world")})
	require.NoError(t, err)
	assert.True(t, v.Bool)

	_, err = containsFn([]value.Value{value.String("hello"), value.Number(1)})
	require.Error(t, err)
}

func TestBuiltinContains_ArityError(t *testing.T) {
	b := eval.Builtins()
	containsFn := b["contains"].BuiltinFn

	_, err := containsFn([]value.Value{value.String("x")})
	require.Error(t, err)
}
