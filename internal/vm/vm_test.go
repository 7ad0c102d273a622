// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package vm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/casepipe/internal/record"
	"github.com/holomush/casepipe/internal/value"
	"github.com/holomush/casepipe/internal/vm"
)

func TestVM_ParseAndExecuteProgram(t *testing.T) {
	m := vm.New(nil)
	m.AddCases([]record.Case{{ID: 1, Priority: 4}})

	prog, err := m.Parse(`workflow w { score { when priority > 3 then score = priority * 10 } }`)
	require.NoError(t, err)

	err = m.ExecuteProgram(context.Background(), prog)
	require.NoError(t, err)

	cases := m.Cases()
	require.Len(t, cases, 1)
	assert.Equal(t, int64(40), cases[0].Score)
}

func TestVM_Parse_SyntaxError(t *testing.T) {
	m := vm.New(nil)
	_, err := m.Parse(`workflow { }`)
	require.Error(t, err)
}

func TestVM_RegisterFunctionsAndFunctionNames(t *testing.T) {
	m := vm.New(nil)
	prog, err := m.Parse(`function double(x) = x * 2
workflow w { score { when true then score = double(priority) } }`)
	require.NoError(t, err)

	m.RegisterFunctions(prog.Functions)

	names := m.UserFunctionNames()
	assert.Contains(t, names, "double")

	all := m.FunctionNames()
	assert.Contains(t, all, "double")
	assert.Contains(t, all, "len")
	assert.Contains(t, all, "max")
}

func TestVM_AddCasesAndClearCases(t *testing.T) {
	m := vm.New(nil)
	m.AddCase(record.Case{ID: 1})
	m.AddCases([]record.Case{{ID: 2}, {ID: 3}})
	require.Len(t, m.Cases(), 3)

	m.ClearCases()
	assert.Empty(t, m.Cases())
}

func TestVM_SetAgentEnablesMemberAccess(t *testing.T) {
	m := vm.New(nil)
	m.SetAgent(record.Agent{ID: "a-1", MaxConcurrent: 5})

	v, ok := m.GetVariable("agent")
	require.True(t, ok)
	assert.Equal(t, value.KindMap, v.Kind)
	assert.Equal(t, value.String("a-1"), v.Map["id"])
}

func TestVM_GetSetVariable(t *testing.T) {
	m := vm.New(nil)
	m.SetVariable("x", value.Number(1))

	v, ok := m.GetVariable("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Number)

	m.SetVariable("x", value.Number(2))
	v, _ = m.GetVariable("x")
	assert.Equal(t, int64(2), v.Number)
}

func TestVM_EnterExitScope(t *testing.T) {
	m := vm.New(nil)
	m.EnterScope()
	m.SetVariable("scoped", value.Bool(true))
	m.ExitScope()

	_, ok := m.GetVariable("scoped")
	assert.False(t, ok)
}

func TestVM_ExecuteWorkflow_PropagatesEvaluationError(t *testing.T) {
	m := vm.New(nil)
	m.AddCases([]record.Case{{ID: 1, Status: "open"}})

	prog, err := m.Parse(`workflow w { score { when true then score = status } }`)
	require.NoError(t, err)

	err = m.ExecuteWorkflow(context.Background(), prog.Workflows[0])
	require.Error(t, err)
}

func TestVM_ExecuteProgram_MultipleWorkflowsRunInOrder(t *testing.T) {
	m := vm.New(nil)
	m.AddCases([]record.Case{{ID: 1, Priority: 2}})

	prog, err := m.Parse(`workflow first { score { when true then score = priority } }
workflow second { score { when true then score = score + 100 } }`)
	require.NoError(t, err)

	err = m.ExecuteProgram(context.Background(), prog)
	require.NoError(t, err)
	assert.Equal(t, int64(102), m.Cases()[0].Score)
}
