// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package workflow executes Score, Match, Filter, and Sort phases
// against a sequence of records. Ported 1:1 in semantics from
// original_source/src/engine/vm/evaluators/workflow_evaluator.rs and
// action_evaluator.rs, including the match-phase pre/post scope-diff
// trick that lets "assign to" survive the per-record scope pop.
package workflow

import (
	"context"
	"log/slog"
	"sort"

	"github.com/holomush/casepipe/internal/env"
	"github.com/holomush/casepipe/internal/eval"
	"github.com/holomush/casepipe/internal/lang"
	"github.com/holomush/casepipe/internal/langerr"
	"github.com/holomush/casepipe/internal/metrics"
	"github.com/holomush/casepipe/internal/record"
	"github.com/holomush/casepipe/internal/value"
)

// caseFieldNames is excluded from the match-phase persistent-variable
// diff: these are the bindings setupCaseContext installs, not
// variables a rule created.
var caseFieldNames = map[string]bool{
	"id": true, "category": true, "status": true,
	"priority": true, "score": true, "customer": true,
}

// Executor runs workflows against an environment shared across phases
// and records, matching the single-threaded, synchronous execution
// model: no suspension, no concurrency between phases or records.
type Executor struct {
	Env    *env.Env
	Logger *slog.Logger
}

// NewExecutor returns an Executor over en, logging via logger (falls
// back to slog.Default if nil).
func NewExecutor(en *env.Env, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{Env: en, Logger: logger}
}

// setupCaseContext pushes a new scope and binds the record's fields.
// Callers must pop the scope (typically via defer) exactly once per
// push, including on the error path, so that an evaluation failure
// never leaves a dangling scope behind.
func (x *Executor) setupCaseContext(c record.Case) {
	x.Env.EnterScope()
	for name, v := range record.CaseFields(c) {
		x.Env.Insert(name, v)
	}
}

// ExecuteWorkflow runs every phase of w in order against cases,
// threading the resulting sequence from phase to phase.
func (x *Executor) ExecuteWorkflow(ctx context.Context, w *lang.Workflow, cases []record.Case) ([]record.Case, error) {
	x.Logger.DebugContext(ctx, "executing workflow", "workflow", w.Name)
	current := cases
	var err error
	for _, phase := range w.Phases {
		switch {
		case phase.Score != nil:
			current, err = x.executeScorePhase(ctx, phase.Score, current)
		case phase.Match != nil:
			current, err = x.executeMatchPhase(ctx, phase.Match, current)
		case phase.Filter != nil:
			current, err = x.executeFilterPhase(ctx, phase.Filter, current)
		case phase.Sort != nil:
			current, err = x.executeSortPhase(ctx, phase.Sort, current)
		}
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

func (x *Executor) executeScorePhase(ctx context.Context, rules []*lang.Rule, cases []record.Case) ([]record.Case, error) {
	out := make([]record.Case, 0, len(cases))
	for _, c := range cases {
		updated, err := x.scoreOneCase(ctx, rules, c)
		if err != nil {
			return nil, err
		}
		out = append(out, updated)
	}
	metrics.RecordPhase("score", len(out))
	return out, nil
}

func (x *Executor) scoreOneCase(ctx context.Context, rules []*lang.Rule, c record.Case) (record.Case, error) {
	x.setupCaseContext(c)
	defer x.Env.ExitScope()

	for _, rule := range rules {
		cond, err := eval.Eval(rule.Condition, x.Env)
		if err != nil {
			return record.Case{}, err
		}
		if !cond.IsTruthy() {
			continue
		}
		if err := x.executeAction(ctx, rule.Action, &c); err != nil {
			return record.Case{}, err
		}
	}
	return c, nil
}

func (x *Executor) executeAction(ctx context.Context, a lang.Action, c *record.Case) error {
	switch {
	case a.AssignScore != nil:
		v, err := eval.Eval(a.AssignScore.Value, x.Env)
		if err != nil {
			return err
		}
		if v.Kind != value.KindNumber {
			return langerr.TypeError("Score must be a number")
		}
		c.Score = v.Number
		x.Env.Set("score", v)
		x.Logger.DebugContext(ctx, "assigned score", "score", v.Number)
	case a.Log != nil:
		x.Logger.DebugContext(ctx, "LOG: "+a.Log.Message)
	case a.Assign != nil:
		x.Env.Insert(a.Assign.Name, value.Bool(true))
	}
	return nil
}

func (x *Executor) executeMatchPhase(ctx context.Context, rules []*lang.MatchRule, cases []record.Case) ([]record.Case, error) {
	out := make([]record.Case, 0, len(cases))
	for _, c := range cases {
		matched, err := x.matchOneCase(ctx, rules, c)
		if err != nil {
			return nil, err
		}
		out = append(out, matched)
	}
	metrics.RecordPhase("match", len(out))
	return out, nil
}

func (x *Executor) matchOneCase(ctx context.Context, rules []*lang.MatchRule, c record.Case) (record.Case, error) {
	x.setupCaseContext(c)

	preVars := persistentVariables(x.Env.CurrentFrame())

	var matchErr error
	for _, rule := range rules {
		cond, err := eval.Eval(rule.Condition, x.Env)
		if err != nil {
			matchErr = err
			break
		}
		if !cond.IsTruthy() {
			continue
		}
		if rule.Action.AssignTo != nil {
			x.Env.Insert(rule.Action.AssignTo.Name, record.ToMap(c))
			x.Logger.DebugContext(ctx, "assigned case to variable", "variable", rule.Action.AssignTo.Name)
		}
		break
	}

	postVars := persistentVariables(x.Env.CurrentFrame())
	x.Env.ExitScope()
	if matchErr != nil {
		return record.Case{}, matchErr
	}

	for name, v := range postVars {
		if _, existed := preVars[name]; !existed {
			x.Env.Insert(name, v)
		}
	}

	return c, nil
}

// persistentVariables extracts the bindings in frame that a rule body
// could plausibly have introduced: everything except the case-field
// names and function values.
func persistentVariables(frame map[string]value.Value) map[string]value.Value {
	out := make(map[string]value.Value, len(frame))
	for name, v := range frame {
		if caseFieldNames[name] {
			continue
		}
		if v.Kind == value.KindBuiltinFn || v.Kind == value.KindUserFn {
			continue
		}
		out[name] = v
	}
	return out
}

func (x *Executor) executeFilterPhase(ctx context.Context, fr *lang.FilterRule, cases []record.Case) ([]record.Case, error) {
	out := make([]record.Case, 0, len(cases))
	for _, c := range cases {
		keep, err := x.filterOneCase(fr, c)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, c)
		}
	}
	x.Logger.DebugContext(ctx, "filtered cases", "from", len(cases), "to", len(out))
	metrics.RecordPhase("filter", len(out))
	return out, nil
}

func (x *Executor) filterOneCase(fr *lang.FilterRule, c record.Case) (bool, error) {
	x.setupCaseContext(c)
	defer x.Env.ExitScope()

	cond, err := eval.Eval(fr.Condition, x.Env)
	if err != nil {
		return false, err
	}
	return cond.IsTruthy(), nil
}

type sortPair struct {
	c   record.Case
	key value.Value
}

func (x *Executor) executeSortPhase(ctx context.Context, sr *lang.SortRule, cases []record.Case) ([]record.Case, error) {
	pairs := make([]sortPair, 0, len(cases))
	for _, c := range cases {
		k, err := x.sortKeyForCase(sr, c)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, sortPair{c: c, key: k})
	}

	desc := sr.Order == lang.SortDesc
	sort.SliceStable(pairs, func(i, j int) bool {
		if desc {
			return compareSortKeys(pairs[j].key, pairs[i].key)
		}
		return compareSortKeys(pairs[i].key, pairs[j].key)
	})

	out := make([]record.Case, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.c)
	}
	x.Logger.DebugContext(ctx, "sorted cases by key expression", "count", len(out))
	metrics.RecordPhase("sort", len(out))
	return out, nil
}

func (x *Executor) sortKeyForCase(sr *lang.SortRule, c record.Case) (value.Value, error) {
	x.setupCaseContext(c)
	defer x.Env.ExitScope()
	return eval.Eval(sr.Key, x.Env)
}

// compareSortKeys reports whether a sorts before b: numeric for two
// Numbers, lexicographic for two Strings, false-before-true for two
// Bools, else falls back to comparing the canonical textual form.
func compareSortKeys(a, b value.Value) bool {
	if a.Kind == value.KindNumber && b.Kind == value.KindNumber {
		return a.Number < b.Number
	}
	if a.Kind == value.KindString && b.Kind == value.KindString {
		return a.Str < b.Str
	}
	if a.Kind == value.KindBool && b.Kind == value.KindBool {
		return !a.Bool && b.Bool
	}
	return value.ToString(a) < value.ToString(b)
}
