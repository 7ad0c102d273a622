// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package record defines the external Case and Agent types the
// workflow executor reads and writes, plus the adapters that bridge
// them into the DSL's Value model. Ported from
// original_source/src/models/case.rs and agent.rs.
package record

import (
	"strconv"

	"github.com/holomush/casepipe/internal/value"
)

// Case is one routable support-style record. Workflows read every
// field and write only Score.
type Case struct {
	ID       int64
	Category string
	Status   string
	Priority int64
	Customer *string // nil means "no customer on file"
	Score    int64
}

// Skills enumerates an Agent's routing-relevant capabilities.
type Skills struct {
	Languages []string
	Services  []string
	Platforms []string
}

// Agent is the optional external binding consumers may install under
// the name "agent"; property access agent.<x> is honored once bound.
type Agent struct {
	ID            string
	Skills        Skills
	MaxConcurrent uint32
}

// CaseFields returns the per-record scope bindings that
// internal/workflow's setupCaseContext installs: id/priority/score as Number, category/status as String,
// and customer as String (empty if absent).
func CaseFields(c Case) map[string]value.Value {
	customer := ""
	if c.Customer != nil {
		customer = *c.Customer
	}
	return map[string]value.Value{
		"id":       value.Number(c.ID),
		"category": value.String(c.Category),
		"status":   value.String(c.Status),
		"priority": value.Number(c.Priority),
		"score":    value.Number(c.Score),
		"customer": value.String(customer),
	}
}

// ToMap renders a Case as the match-phase "assign to" snapshot: every
// field as a String, for historical compatibility with the reference
// implementation's case_to_map. customer is omitted entirely (not even
// as an empty string) when the case has none on file.
func ToMap(c Case) value.Value {
	m := map[string]value.Value{
		"id":       value.String(strconv.FormatInt(c.ID, 10)),
		"category": value.String(c.Category),
		"status":   value.String(c.Status),
		"priority": value.String(strconv.FormatInt(c.Priority, 10)),
		"score":    value.String(strconv.FormatInt(c.Score, 10)),
	}
	if c.Customer != nil {
		m["customer"] = value.String(*c.Customer)
	}
	return value.Map(m)
}

// AgentToValue renders an Agent as a native Map binding for the "agent"
// name, with skills nested as Lists of Strings — unlike Case's
// String-only snapshot, there is no historical-compatibility
// constraint on this shape.
func AgentToValue(a Agent) value.Value {
	return value.Map(map[string]value.Value{
		"id":             value.String(a.ID),
		"languages":      stringListValue(a.Skills.Languages),
		"services":       stringListValue(a.Skills.Services),
		"platforms":      stringListValue(a.Skills.Platforms),
		"max_concurrent": value.Number(int64(a.MaxConcurrent)),
	})
}

func stringListValue(items []string) value.Value {
	vals := make([]value.Value, 0, len(items))
	for _, s := range items {
		vals = append(vals, value.String(s))
	}
	return value.List(vals)
}
