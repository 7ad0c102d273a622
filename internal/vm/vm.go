// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package vm is the host façade over the case pipeline DSL: it owns the
// environment and the current record sequence, and exposes the boundary
// operations a driver (CLI, test harness, or another Go program) uses to
// parse source, register functions, load records, and run workflows.
// Grounded on original_source/src/engine/vm/corevm.rs, excluding the
// non-core convenience helpers that file also provides (statistics,
// bulk mutators, sort-by-score shortcuts).
package vm

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/casepipe/internal/env"
	"github.com/holomush/casepipe/internal/eval"
	"github.com/holomush/casepipe/internal/lang"
	"github.com/holomush/casepipe/internal/metrics"
	"github.com/holomush/casepipe/internal/record"
	"github.com/holomush/casepipe/internal/value"
	"github.com/holomush/casepipe/internal/workflow"
)

// VM is the embeddable runtime: one environment, one record sequence,
// one executor. Not safe for concurrent use — see the concurrency
// model this mirrors (single-threaded, synchronous execution).
type VM struct {
	env      *env.Env
	executor *workflow.Executor
	logger   *slog.Logger
	cases    []record.Case
}

// New constructs a VM with the built-in functions registered into the
// root scope, mirroring CoreVM::new.
func New(logger *slog.Logger) *VM {
	if logger == nil {
		logger = slog.Default()
	}
	en := env.New()
	for name, fn := range eval.Builtins() {
		en.Insert(name, fn)
	}
	return &VM{
		env:      en,
		executor: workflow.NewExecutor(en, logger),
		logger:   logger,
	}
}

// Parse parses DSL source into a Program.
func (m *VM) Parse(source string) (*lang.Program, error) {
	prog, err := lang.Parse(source)
	if err != nil {
		metrics.RecordParseError()
		return nil, err
	}
	return prog, nil
}

// RegisterFunction installs fn as a UserFn binding in the innermost
// scope, which is the root scope unless a host EnterScope is still open.
func (m *VM) RegisterFunction(fn *lang.FunctionDef) {
	m.env.Insert(fn.Name, value.UserFunction(fn))
}

// RegisterFunctions installs every function in fns.
func (m *VM) RegisterFunctions(fns []*lang.FunctionDef) {
	for _, fn := range fns {
		m.RegisterFunction(fn)
	}
}

// AddCase appends c to the executor's record sequence.
func (m *VM) AddCase(c record.Case) {
	m.cases = append(m.cases, c)
}

// AddCases appends every record in cs.
func (m *VM) AddCases(cs []record.Case) {
	m.cases = append(m.cases, cs...)
}

// Cases returns the current record sequence.
func (m *VM) Cases() []record.Case {
	return m.cases
}

// ClearCases empties the record sequence.
func (m *VM) ClearCases() {
	m.cases = nil
}

// SetAgent installs a as the "agent" binding in the innermost scope (the
// root scope unless a host EnterScope is still open) so agent.<x> member
// access resolves against it.
func (m *VM) SetAgent(a record.Agent) {
	m.env.Insert("agent", record.AgentToValue(a))
}

// ExecuteWorkflow runs w against the current record sequence and
// writes the resulting sequence back.
func (m *VM) ExecuteWorkflow(ctx context.Context, w *lang.Workflow) error {
	runID := ulid.Make()
	m.executor.Logger = m.logger.With("run_id", runID.String(), "workflow", w.Name)

	start := time.Now()
	result, err := m.executor.ExecuteWorkflow(ctx, w, m.cases)
	metrics.RecordWorkflowDuration(time.Since(start))
	if err != nil {
		if oopsErr, ok := oops.AsOops(err); ok {
			if code := oopsErr.Code(); code != nil {
				metrics.RecordEvalError(*code)
			}
		}
		return err
	}
	m.cases = result
	return nil
}

// ExecuteProgram registers every function in p, then runs every
// workflow in declaration order.
func (m *VM) ExecuteProgram(ctx context.Context, p *lang.Program) error {
	m.RegisterFunctions(p.Functions)
	for _, w := range p.Workflows {
		if err := m.ExecuteWorkflow(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// EvaluateExpression evaluates e against the current environment.
func (m *VM) EvaluateExpression(e lang.Expr) (value.Value, error) {
	return eval.Eval(e, m.env)
}

// GetVariable looks up name, innermost scope first.
func (m *VM) GetVariable(name string) (value.Value, bool) {
	return m.env.Lookup(name)
}

// SetVariable updates name wherever it is bound, or binds it in the
// current (innermost) scope if it is not yet bound anywhere.
func (m *VM) SetVariable(name string, v value.Value) {
	m.env.Set(name, v)
}

// EnterScope pushes a new environment scope for host-driven embedding.
func (m *VM) EnterScope() {
	m.env.EnterScope()
}

// ExitScope pops the innermost environment scope.
func (m *VM) ExitScope() {
	m.env.ExitScope()
}

// FunctionNames returns the sorted, deduplicated names of every
// Builtin and User function bound anywhere in the environment.
func (m *VM) FunctionNames() []string {
	return m.functionNames(true)
}

// UserFunctionNames returns the sorted, deduplicated names of every
// User function bound anywhere in the environment.
func (m *VM) UserFunctionNames() []string {
	return m.functionNames(false)
}

func (m *VM) functionNames(includeBuiltins bool) []string {
	seen := make(map[string]bool)
	for _, frame := range m.env.AllFrames() {
		for name, v := range frame {
			switch v.Kind {
			case value.KindUserFn:
				seen[name] = true
			case value.KindBuiltinFn:
				if includeBuiltins {
					seen[name] = true
				}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
