// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lang

// This file folds the raw participle parse tree (grammar.go) into the
// typed AST (ast.go): operator chains collapse into left-leaning
// BinaryExpr trees, unary-operator runs fold right-to-left into nested
// UnaryExpr nodes, and alternation structs become single-field AST
// variants. This mirrors the builder pass of the original reference
// implementation (original_source/src/engine/lang/builders/*.rs), adapted
// to participle's direct operator capture instead of re-deriving
// operators from source-text positions.

func foldProgram(rp *rawProgram) *Program {
	p := &Program{}
	for _, item := range rp.Items {
		switch {
		case item.Function != nil:
			p.Functions = append(p.Functions, foldFunctionDef(item.Function))
		case item.Workflow != nil:
			p.Workflows = append(p.Workflows, foldWorkflow(item.Workflow))
		}
	}
	return p
}

func foldFunctionDef(rf *rawFunctionDef) *FunctionDef {
	fd := &FunctionDef{Name: rf.Name, Params: append([]string(nil), rf.Params...)}
	switch {
	case rf.ExprBody != nil:
		fd.Body = FunctionBody{Expression: foldExpr(rf.ExprBody)}
	case rf.Block != nil:
		fd.Body = FunctionBody{Block: foldBlock(rf.Block)}
	}
	return fd
}

func foldBlock(rb *rawBlock) []Statement {
	stmts := make([]Statement, 0, len(rb.Stmts))
	for _, rs := range rb.Stmts {
		stmts = append(stmts, foldStatement(rs))
	}
	return stmts
}

func foldStatement(rs *rawStatement) Statement {
	switch {
	case rs.Let != nil:
		return Statement{Let: &LetStmt{Name: rs.Let.Name, Value: foldExpr(rs.Let.Value)}}
	case rs.Assign != nil:
		return Statement{Assign: &AssignStmt{Name: rs.Assign.Name, Value: foldExpr(rs.Assign.Value)}}
	case rs.If != nil:
		stmt := &IfStmt{Cond: foldExpr(rs.If.Cond), Then: foldStatements(rs.If.Then)}
		if rs.If.Else != nil {
			stmt.Else = foldStatements(rs.If.Else)
		}
		return Statement{If: stmt}
	case rs.Return != nil:
		return Statement{Return: &ReturnStmt{Value: foldExpr(rs.Return.Value)}}
	case rs.Expr != nil:
		return Statement{Expression: &ExprStmt{Value: foldExpr(rs.Expr.Value)}}
	}
	return Statement{}
}

func foldStatements(raw []*rawStatement) []Statement {
	stmts := make([]Statement, 0, len(raw))
	for _, rs := range raw {
		stmts = append(stmts, foldStatement(rs))
	}
	return stmts
}

func foldWorkflow(rw *rawWorkflow) *Workflow {
	w := &Workflow{Name: rw.Name}
	for _, rp := range rw.Phases {
		w.Phases = append(w.Phases, foldPhase(rp))
	}
	return w
}

func foldPhase(rp *rawPhase) Phase {
	switch {
	case rp.Score != nil:
		rules := make([]*Rule, 0, len(rp.Score.Rules))
		for _, rr := range rp.Score.Rules {
			rules = append(rules, foldRule(rr))
		}
		return Phase{Score: rules}
	case rp.Match != nil:
		rules := make([]*MatchRule, 0, len(rp.Match.Rules))
		for _, rr := range rp.Match.Rules {
			rules = append(rules, foldMatchRule(rr))
		}
		return Phase{Match: rules}
	case rp.Filter != nil:
		return Phase{Filter: &FilterRule{Condition: foldExpr(rp.Filter.Condition)}}
	case rp.Sort != nil:
		order := SortAsc
		if rp.Sort.Order != nil && *rp.Sort.Order == "desc" {
			order = SortDesc
		}
		return Phase{Sort: &SortRule{Key: foldExpr(rp.Sort.Key), Order: order}}
	}
	return Phase{}
}

func foldRule(rr *rawRule) *Rule {
	return &Rule{Condition: foldExpr(rr.Condition), Action: foldAction(rr.Action)}
}

func foldAction(ra *rawAction) Action {
	switch {
	case ra.AssignScore != nil:
		return Action{AssignScore: &AssignScoreAction{Value: foldExpr(ra.AssignScore)}}
	case ra.Log != nil:
		return Action{Log: &LogAction{Message: *ra.Log}}
	}
	return Action{}
}

func foldMatchRule(rr *rawMatchRule) *MatchRule {
	return &MatchRule{
		Condition: foldExpr(rr.Condition),
		Action:    MatchAction{AssignTo: &AssignToAction{Name: rr.Action.Name}},
	}
}

// --- Expression folding ---

func foldExpr(e *rawExpr) Expr {
	result := foldAndExpr(e.Left)
	for _, rhs := range e.Rest {
		left := result
		result = Expr{Binary: &BinaryExpr{Left: &left, Op: OpOr, Right: ptrExpr(foldAndExpr(rhs))}}
	}
	return result
}

func foldAndExpr(e *rawAndExpr) Expr {
	result := foldComparison(e.Left)
	for _, rhs := range e.Rest {
		left := result
		result = Expr{Binary: &BinaryExpr{Left: &left, Op: OpAnd, Right: ptrExpr(foldComparison(rhs))}}
	}
	return result
}

func foldComparison(c *rawComparison) Expr {
	left := foldAdditive(c.Left)
	if c.Op == nil {
		return left
	}
	op := comparisonOperator(*c.Op)
	right := foldAdditive(c.Right)
	return Expr{Binary: &BinaryExpr{Left: &left, Op: op, Right: &right}}
}

func comparisonOperator(tok string) BinaryOperator {
	switch tok {
	case "==":
		return OpEq
	case "!=":
		return OpNeq
	case ">=":
		return OpGe
	case "<=":
		return OpLe
	case ">":
		return OpGt
	case "<":
		return OpLt
	case "in":
		return OpIn
	}
	return OpEq
}

func foldAdditive(a *rawAdditive) Expr {
	result := foldMultiplicative(a.Left)
	for _, term := range a.Ops {
		left := result
		op := OpAdd
		if term.Op == "-" {
			op = OpSub
		}
		result = Expr{Binary: &BinaryExpr{Left: &left, Op: op, Right: ptrExpr(foldMultiplicative(term.Right))}}
	}
	return result
}

func foldMultiplicative(m *rawMultiplicative) Expr {
	result := foldUnary(m.Left)
	for _, term := range m.Ops {
		left := result
		op := OpMul
		if term.Op == "/" {
			op = OpDiv
		}
		result = Expr{Binary: &BinaryExpr{Left: &left, Op: op, Right: ptrExpr(foldUnary(term.Right))}}
	}
	return result
}

// foldUnary folds a run of prefix operators right-to-left: the operator
// written closest to the operand binds tightest (innermost), so we apply
// the collected operators back-to-front.
func foldUnary(u *rawUnary) Expr {
	result := foldPrimary(u.Primary)
	for i := len(u.Ops) - 1; i >= 0; i-- {
		operand := result
		op := OpNeg
		if u.Ops[i] == "!" {
			op = OpNot
		}
		result = Expr{Unary: &UnaryExpr{Op: op, Expr: &operand}}
	}
	return result
}

func foldPrimary(p *rawPrimary) Expr {
	switch {
	case p.Number != nil:
		n := *p.Number
		return Expr{Number: &n}
	case p.Str != nil:
		s := *p.Str
		return Expr{Str: &s}
	case p.Bool != nil:
		b := *p.Bool == "true"
		return Expr{Bool: &b}
	case p.List != nil:
		elems := make([]Expr, 0, len(p.List.Elements))
		for _, e := range p.List.Elements {
			elems = append(elems, foldExpr(e))
		}
		return Expr{List: &ListExpr{Elements: elems}}
	case p.Call != nil:
		args := make([]Expr, 0, len(p.Call.Args))
		for _, a := range p.Call.Args {
			args = append(args, foldExpr(a))
		}
		return Expr{Call: &CallExpr{Name: p.Call.Name, Args: args}}
	case p.Member != nil:
		property := p.Member.Path[0]
		if len(p.Member.Path) > 1 {
			property = joinDotted(p.Member.Path)
		}
		return Expr{Member: &MemberExpr{Object: p.Member.Object, Property: property}}
	case p.Ident != nil:
		s := *p.Ident
		return Expr{Ident: &s}
	case p.Paren != nil:
		return foldExpr(p.Paren)
	}
	return Expr{}
}

func joinDotted(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "." + p
	}
	return out
}

func ptrExpr(e Expr) *Expr {
	return &e
}
