// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package lang defines the AST types for the case pipeline DSL and a
// parser built with participle. The grammar is recognized in two layers:
// a participle parse tree (grammar.go) that captures operator chains, and
// a folding step (build.go) that collapses those chains into the
// left-leaning BinaryOp/UnaryOp trees described below.
package lang

import "github.com/alecthomas/participle/v2/lexer"

// Program is an ordered list of function definitions followed by an
// ordered list of workflows. Function declarations bind names into the
// global scope before any workflow runs.
type Program struct {
	Functions []*FunctionDef
	Workflows []*Workflow
}

// FunctionDef is a named, parameterized function available to DSL
// expressions. Body is exactly one of Expression or Block.
type FunctionDef struct {
	Name   string
	Params []string
	Body   FunctionBody
}

// FunctionBody is a tagged variant: either Block is non-nil, or Block is
// nil and Expression holds the body (Expression is the zero Expr for a
// block body).
type FunctionBody struct {
	Expression Expr
	Block      []Statement
}

// Statement is one entry in a function's block body. Exactly one field
// is non-nil.
type Statement struct {
	Let        *LetStmt
	Assign     *AssignStmt
	If         *IfStmt
	Return     *ReturnStmt
	Expression *ExprStmt
}

// LetStmt binds a new (or shadowing) name in the current scope.
type LetStmt struct {
	Name  string
	Value Expr
}

// AssignStmt rebinds a name in the current scope. In the reference
// semantics this behaves identically to LetStmt (see SPEC_FULL.md §9).
type AssignStmt struct {
	Name  string
	Value Expr
}

// IfStmt executes Then when Cond is truthy, otherwise Else (if present).
type IfStmt struct {
	Cond Expr
	Then []Statement
	Else []Statement
}

// ReturnStmt immediately yields Value as the enclosing function's result.
type ReturnStmt struct {
	Value Expr
}

// ExprStmt evaluates Value for its side effects/last-value tracking.
type ExprStmt struct {
	Value Expr
}

// Workflow is a named, ordered sequence of phases.
type Workflow struct {
	Name   string
	Phases []Phase
}

// Phase is a tagged variant: exactly one field is non-nil.
type Phase struct {
	Score  []*Rule
	Match  []*MatchRule
	Filter *FilterRule
	Sort   *SortRule
}

// Rule is a guarded consequent evaluated once per record in a Score phase.
type Rule struct {
	Condition Expr
	Action    Action
}

// MatchRule is a guarded consequent evaluated (first match wins) per
// record in a Match phase.
type MatchRule struct {
	Condition Expr
	Action    MatchAction
}

// Action is a tagged variant for Score-phase rule consequents. Exactly
// one field is non-nil.
type Action struct {
	AssignScore *AssignScoreAction
	Log         *LogAction
	Assign      *AssignAction
}

// AssignScoreAction writes Value to the record's score field.
type AssignScoreAction struct {
	Value Expr
}

// LogAction emits Message as a debug-level diagnostic. Never fails.
type LogAction struct {
	Message string
}

// AssignAction is reserved by the grammar (spec §9: "reserved but not
// emitted by the current grammar") — no score_phase production builds
// one today, but the evaluator supports it for forward compatibility.
type AssignAction struct {
	Name string
}

// MatchAction is a tagged variant for Match-phase rule consequents.
type MatchAction struct {
	AssignTo *AssignToAction
}

// AssignToAction publishes a Map snapshot of the matched record under
// Name in the workflow's outer (global) scope.
type AssignToAction struct {
	Name string
}

// FilterRule keeps a record iff Condition is truthy.
type FilterRule struct {
	Condition Expr
}

// SortOrder is the direction of a Sort phase.
type SortOrder int

const (
	// SortAsc is the default sort order.
	SortAsc SortOrder = iota
	SortDesc
)

// SortRule orders records by the value of Key, stably.
type SortRule struct {
	Key   Expr
	Order SortOrder
}

// --- Expressions ---

// Expr is a tagged variant over all expression forms. Exactly one field
// is non-nil. Pos is not filled in by the builder (build.go), so it is
// always the zero Position and errors carry no expression position.
type Expr struct {
	Pos lexer.Position

	Number   *int64
	Str      *string
	Bool     *bool
	Ident    *string
	List     *ListExpr
	Binary   *BinaryExpr
	Unary    *UnaryExpr
	Call     *CallExpr
	Member   *MemberExpr
}

// ListExpr is a bracketed, comma-separated list of expressions.
type ListExpr struct {
	Elements []Expr
}

// BinaryOperator enumerates the binary operators of §3.
type BinaryOperator string

const (
	OpAdd BinaryOperator = "+"
	OpSub BinaryOperator = "-"
	OpMul BinaryOperator = "*"
	OpDiv BinaryOperator = "/"
	OpEq  BinaryOperator = "=="
	OpNeq BinaryOperator = "!="
	OpLt  BinaryOperator = "<"
	OpLe  BinaryOperator = "<="
	OpGt  BinaryOperator = ">"
	OpGe  BinaryOperator = ">="
	OpAnd BinaryOperator = "and"
	OpOr  BinaryOperator = "or"
	OpIn  BinaryOperator = "in"
)

// BinaryExpr is a two-operand expression built by folding an operator
// chain left-associatively (see build.go).
type BinaryExpr struct {
	Left  *Expr
	Op    BinaryOperator
	Right *Expr
}

// UnaryOperator enumerates the unary prefix operators of §3.
type UnaryOperator string

const (
	OpNeg UnaryOperator = "-"
	OpNot UnaryOperator = "!"
)

// UnaryExpr is a single-operand prefix expression. Runs of unary
// operators fold right-to-left into nested UnaryExpr nodes.
type UnaryExpr struct {
	Op   UnaryOperator
	Expr *Expr
}

// CallExpr invokes a built-in or user-defined function by name.
type CallExpr struct {
	Name string
	Args []Expr
}

// MemberExpr is a dotted property access, e.g. "case.priority". Deeper
// paths have their remainder joined into Property (§4.2).
type MemberExpr struct {
	Object   string
	Property string
}
