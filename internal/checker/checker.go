// Package checker walks the parsed tree once before evaluation,
// rejecting references to undeclared names and duplicate declarations
// within one scope, ahead of evaluation rather than lazily at eval
// time. Grounded on original_source/Checker/Checker.cpp, fused with
// an env.go-style scope-chain shape for the scope stack itself.
package checker

import (
	"zrv/internal/ast"
	"zrv/internal/diag"
	"zrv/internal/environment"
	"zrv/internal/token"
)

// builtinNames are predefined in the synthetic globals scope so that
// a program may reference them without a prior declaration.
var builtinNames = []string{"clock", "pow", "log2", "prn", "type", "str"}

// Checker implements ast.ExprVisitor and ast.StmtVisitor, returning
// nothing meaningful from either (the return value is unused; it only
// exists to satisfy the shared visitor interfaces).
type Checker struct {
	globals *environment.Environment
	scope   *environment.Environment
	diag    *diag.Sink
}

// New builds a Checker whose globals scope carries the built-in names.
func New(sink *diag.Sink) *Checker {
	globals := environment.New(nil)
	for _, name := range builtinNames {
		globals.Define(name, nil)
	}
	return &Checker{globals: globals, scope: globals, diag: sink}
}

// Check walks every top-level statement.
func (c *Checker) Check(stmts []ast.Stmt) {
	for _, s := range stmts {
		c.consider(s)
	}
}

func (c *Checker) consider(s ast.Stmt) { s.Accept(c) }

func (c *Checker) considerExpr(e ast.Expr) { e.Accept(c) }

func (c *Checker) checkDeclared(name *token.Token) {
	if !c.scope.Has(name.Lexeme) {
		c.diag.Report(name.Line, "Checker", "'"+name.Lexeme+"' wasn't declared.")
	}
}

func (c *Checker) checkDuplicate(name *token.Token) {
	if c.scope.HasLocal(name.Lexeme) {
		c.diag.Report(name.Line, "Checker", "Duplication of '"+name.Lexeme+"'.")
	}
}

// Statements

func (c *Checker) VisitExpressionStmt(s *ast.Expression) any {
	c.considerExpr(s.Expr)
	return nil
}

func (c *Checker) VisitPrintStmt(s *ast.Print) any {
	c.considerExpr(s.Expr)
	return nil
}

func (c *Checker) VisitVarStmt(s *ast.Var) any {
	if s.Initializer != nil {
		c.considerExpr(s.Initializer)
	}
	c.checkDuplicate(s.Name)
	c.scope.Define(s.Name.Lexeme, nil)
	return nil
}

func (c *Checker) VisitBlockStmt(s *ast.Block) any {
	saved := c.scope
	c.scope = environment.New(saved)
	defer func() { c.scope = saved }()

	for _, stmt := range s.Statements {
		c.consider(stmt)
	}
	return nil
}

func (c *Checker) VisitWhileStmt(s *ast.While) any {
	c.considerExpr(s.Condition)
	c.consider(s.Body)
	return nil
}

func (c *Checker) VisitIfStmt(s *ast.If) any {
	c.considerExpr(s.Condition)
	c.consider(s.ThenBranch)
	if s.ElseBranch != nil {
		c.consider(s.ElseBranch)
	}
	return nil
}

func (c *Checker) VisitFunctionStmt(s *ast.Function) any {
	c.checkDuplicate(s.Name)
	c.scope.Define(s.Name.Lexeme, nil)

	saved := c.scope
	c.scope = environment.New(c.globals)
	defer func() { c.scope = saved }()

	for _, param := range s.Params {
		c.scope.Define(param.Lexeme, nil)
	}
	for _, stmt := range s.Body {
		c.consider(stmt)
	}
	return nil
}

func (c *Checker) VisitReturnStmt(s *ast.Return) any {
	if s.Value != nil {
		c.considerExpr(s.Value)
	}
	return nil
}

// Expressions

func (c *Checker) VisitBinaryExpr(e *ast.Binary) any {
	c.considerExpr(e.Left)
	c.considerExpr(e.Right)
	return nil
}

func (c *Checker) VisitLogicalExpr(e *ast.Logical) any {
	c.considerExpr(e.Left)
	c.considerExpr(e.Right)
	return nil
}

func (c *Checker) VisitGroupingExpr(e *ast.Grouping) any {
	c.considerExpr(e.Expression)
	return nil
}

func (c *Checker) VisitLiteralExpr(e *ast.Literal) any {
	return nil
}

func (c *Checker) VisitUnaryExpr(e *ast.Unary) any {
	c.considerExpr(e.Right)
	return nil
}

func (c *Checker) VisitVariableExpr(e *ast.Variable) any {
	c.checkDeclared(e.Name)
	return nil
}

func (c *Checker) VisitAssignExpr(e *ast.Assign) any {
	c.checkDeclared(e.Name)
	c.considerExpr(e.Value)
	return nil
}

func (c *Checker) VisitCallExpr(e *ast.Call) any {
	c.considerExpr(e.Callee)
	for _, arg := range e.Arguments {
		c.considerExpr(arg)
	}
	return nil
}
