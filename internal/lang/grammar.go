// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lang

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// dslLexer defines the token types for the case pipeline DSL.
// Order matters: longer patterns must come before shorter ones that
// share a prefix (e.g. ">=" before ">", "==" before "=").
var dslLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "OpEq", Pattern: `==`},
	{Name: "OpNeq", Pattern: `!=`},
	{Name: "OpGe", Pattern: `>=`},
	{Name: "OpLe", Pattern: `<=`},
	{Name: "OpGt", Pattern: `>`},
	{Name: "OpLt", Pattern: `<`},
	{Name: "OpNot", Pattern: `!`},
	{Name: "OpAdd", Pattern: `\+`},
	{Name: "OpSub", Pattern: `-`},
	{Name: "OpMul", Pattern: `\*`},
	{Name: "OpDiv", Pattern: `/`},
	{Name: "Assign", Pattern: `=`},
	{Name: "Dot", Pattern: `\.`},
	// Identifiers tighten the reference grammar's permissive leading-digit
	// rule per spec §9's open question: a non-digit first character is
	// required, and the deviation is documented here.
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[(){}\[\],;]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// --- Raw parse tree (participle grammar) ---
//
// This layer captures operator chains and keyword literals directly from
// source text. build.go folds each chain into the typed AST of ast.go,
// mirroring the teacher's separation between a participle parse tree and
// its DSL's semantic shape, and the original reference's separate
// "builder" pass over its (pest) parse tree.

type rawTopLevel struct {
	Pos      lexer.Position
	Function *rawFunctionDef `parser:"  @@"`
	Workflow *rawWorkflow    `parser:"| @@"`
}

type rawProgram struct {
	Pos   lexer.Position
	Items []*rawTopLevel `parser:"@@*"`
}

type rawFunctionDef struct {
	Pos      lexer.Position
	Name     string    `parser:"'function' @Ident"`
	Params   []string  `parser:"'(' (@Ident (',' @Ident)*)? ')'"`
	ExprBody *rawExpr  `parser:"( '=' @@"`
	Block    *rawBlock `parser:"  | @@ )"`
}

type rawBlock struct {
	Pos   lexer.Position
	Stmts []*rawStatement `parser:"'{' @@+ '}'"`
}

type rawStatement struct {
	Pos    lexer.Position
	Let    *rawLetStmt    `parser:"  @@"`
	Assign *rawAssignStmt `parser:"| @@"`
	If     *rawIfStmt     `parser:"| @@"`
	Return *rawReturnStmt `parser:"| @@"`
	Expr   *rawExprStmt   `parser:"| @@"`
}

type rawLetStmt struct {
	Pos   lexer.Position
	Name  string   `parser:"'let' @Ident Assign"`
	Value *rawExpr `parser:"@@ ';'"`
}

type rawAssignStmt struct {
	Pos   lexer.Position
	Name  string   `parser:"@Ident Assign"`
	Value *rawExpr `parser:"@@ ';'"`
}

type rawIfStmt struct {
	Pos  lexer.Position
	Cond *rawExpr        `parser:"'if' @@ '{'"`
	Then []*rawStatement `parser:"@@+ '}'"`
	Else []*rawStatement `parser:"('else' '{' @@+ '}')?"`
}

type rawReturnStmt struct {
	Pos   lexer.Position
	Value *rawExpr `parser:"'return' @@ ';'"`
}

type rawExprStmt struct {
	Pos   lexer.Position
	Value *rawExpr `parser:"@@ ';'"`
}

type rawWorkflow struct {
	Pos    lexer.Position
	Name   string      `parser:"'workflow' @Ident '{'"`
	Phases []*rawPhase `parser:"@@* '}'"`
}

type rawPhase struct {
	Pos    lexer.Position
	Score  *rawScorePhase  `parser:"  @@"`
	Match  *rawMatchPhase  `parser:"| @@"`
	Filter *rawFilterPhase `parser:"| @@"`
	Sort   *rawSortPhase   `parser:"| @@"`
}

type rawScorePhase struct {
	Pos   lexer.Position
	Rules []*rawRule `parser:"'score' '{' @@* '}'"`
}

type rawRule struct {
	Pos       lexer.Position
	Condition *rawExpr   `parser:"'when' @@ 'then'"`
	Action    *rawAction `parser:"@@"`
}

type rawAction struct {
	Pos         lexer.Position
	AssignScore *rawExpr `parser:"( 'score' Assign @@"`
	Log         *string  `parser:"| 'log' @String )"`
}

type rawMatchPhase struct {
	Pos   lexer.Position
	Rules []*rawMatchRule `parser:"'match' '{' @@* '}'"`
}

type rawMatchRule struct {
	Pos       lexer.Position
	Condition *rawExpr        `parser:"'when' @@ 'then'"`
	Action    *rawMatchAction `parser:"@@"`
}

type rawMatchAction struct {
	Pos  lexer.Position
	Name string `parser:"'assign' 'to' @Ident"`
}

type rawFilterPhase struct {
	Pos       lexer.Position
	Condition *rawExpr `parser:"'filter' '{' 'when' @@ '}'"`
}

type rawSortPhase struct {
	Pos   lexer.Position
	Key   *rawExpr `parser:"'sort' '{' 'by' @@"`
	Order *string  `parser:"(@('asc' | 'desc'))? '}'"`
}

// --- Expression chain (precedence climbing via nested grammar rules) ---

type rawExpr struct {
	Pos  lexer.Position
	Left *rawAndExpr   `parser:"@@"`
	Rest []*rawAndExpr `parser:"('or' @@)*"`
}

type rawAndExpr struct {
	Pos  lexer.Position
	Left *rawComparison  `parser:"@@"`
	Rest []*rawComparison `parser:"('and' @@)*"`
}

type rawComparison struct {
	Pos   lexer.Position
	Left  *rawAdditive `parser:"@@"`
	Op    *string      `parser:"(@(OpEq | OpNeq | OpGe | OpLe | OpGt | OpLt | 'in')"`
	Right *rawAdditive `parser:"  @@)?"`
}

type rawAdditive struct {
	Pos  lexer.Position
	Left *rawMultiplicative `parser:"@@"`
	Ops  []*rawAddTerm      `parser:"@@*"`
}

type rawAddTerm struct {
	Op    string             `parser:"@(OpAdd | OpSub)"`
	Right *rawMultiplicative `parser:"@@"`
}

type rawMultiplicative struct {
	Pos  lexer.Position
	Left *rawUnary     `parser:"@@"`
	Ops  []*rawMulTerm `parser:"@@*"`
}

type rawMulTerm struct {
	Op    string    `parser:"@(OpMul | OpDiv)"`
	Right *rawUnary `parser:"@@"`
}

type rawUnary struct {
	Pos     lexer.Position
	Ops     []string    `parser:"@(OpSub | OpNot)*"`
	Primary *rawPrimary `parser:"@@"`
}

type rawPrimary struct {
	Pos    lexer.Position
	Number *int64         `parser:"  @Number"`
	Str    *string        `parser:"| @String"`
	Bool   *string        `parser:"| @('true' | 'false')"`
	List   *rawListExpr   `parser:"| @@"`
	Call   *rawCallExpr   `parser:"| @@"`
	Member *rawMemberExpr `parser:"| @@"`
	Ident  *string        `parser:"| @Ident"`
	Paren  *rawExpr       `parser:"| '(' @@ ')'"`
}

type rawListExpr struct {
	Pos      lexer.Position
	Elements []*rawExpr `parser:"'[' (@@ (',' @@)*)? ']'"`
}

type rawCallExpr struct {
	Pos  lexer.Position
	Name string     `parser:"@Ident '('"`
	Args []*rawExpr `parser:"(@@ (',' @@)*)? ')'"`
}

type rawMemberExpr struct {
	Pos    lexer.Position
	Object string   `parser:"@Ident"`
	Path   []string `parser:"(Dot @Ident)+"`
}

// rawParser is the singleton participle parser instance.
var rawParser = participle.MustBuild[rawProgram](
	participle.Lexer(dslLexer),
	participle.Unquote("String"),
	participle.Elide("whitespace", "Comment"),
	participle.UseLookahead(participle.MaxLookahead),
)
