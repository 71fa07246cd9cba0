// Package printer implements the two debug dumps the CLI's -a/--ast
// and -i/--id-table flags select: an s-expression rendering of the
// parsed tree and a column-aligned identifier table. Grounded on a
// reader.go-style stringVisitor (an ExprVisitor/StmtVisitor returning
// a formatted string rather than evaluating) and
// original_source/tools/printer_ast.cpp/printer_identifiers.cpp for
// the exact shapes. The AST dump is colorized with gommon/color in
// place of the original's colors.h ANSI #define table; the identifier
// table is plain text.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/labstack/gommon/color"

	"zrv/internal/ast"
	"zrv/internal/value"
)

// AST renders statements as parenthesized s-expressions, one per
// line, matching the original's AstPrinter.
type AST struct {
	out io.Writer
}

// NewAST builds an AST printer writing to out.
func NewAST(out io.Writer) *AST { return &AST{out: out} }

// Print dumps every statement.
func (p *AST) Print(stmts []ast.Stmt) {
	for _, s := range stmts {
		fmt.Fprintln(p.out, color.Magenta(s.Accept(p)))
	}
}

func (p *AST) parenthesize(name string, exprs ...ast.Expr) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(color.Green(name))
	for _, e := range exprs {
		b.WriteString(" ")
		b.WriteString(color.Yellow(e.Accept(p)))
	}
	b.WriteString(")")
	return b.String()
}

// Expressions

func (p *AST) VisitBinaryExpr(e *ast.Binary) any {
	return p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
}

func (p *AST) VisitLogicalExpr(e *ast.Logical) any {
	return p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
}

func (p *AST) VisitGroupingExpr(e *ast.Grouping) any {
	return p.parenthesize("group", e.Expression)
}

func (p *AST) VisitLiteralExpr(e *ast.Literal) any {
	return color.Red("<" + value.Stringify(e.Value) + ">")
}

func (p *AST) VisitUnaryExpr(e *ast.Unary) any {
	return p.parenthesize(e.Operator.Lexeme, e.Right)
}

func (p *AST) VisitVariableExpr(e *ast.Variable) any {
	return e.Name.Lexeme
}

func (p *AST) VisitAssignExpr(e *ast.Assign) any {
	return fmt.Sprintf("(%s %s %v)", color.Green("="), e.Name.Lexeme, e.Value.Accept(p))
}

func (p *AST) VisitCallExpr(e *ast.Call) any {
	args := append([]ast.Expr{e.Callee}, e.Arguments...)
	return p.parenthesize("()", args...)
}

// Statements

func (p *AST) VisitExpressionStmt(s *ast.Expression) any {
	return fmt.Sprintf("%v", s.Expr.Accept(p))
}

func (p *AST) VisitPrintStmt(s *ast.Print) any {
	return fmt.Sprintf("(print %v)", s.Expr.Accept(p))
}

func (p *AST) VisitVarStmt(s *ast.Var) any {
	if s.Initializer == nil {
		return fmt.Sprintf("(var %s)", s.Name.Lexeme)
	}
	return fmt.Sprintf("(var %s %v)", s.Name.Lexeme, s.Initializer.Accept(p))
}

func (p *AST) VisitBlockStmt(s *ast.Block) any {
	var b strings.Builder
	b.WriteString("(scope")
	for _, stmt := range s.Statements {
		fmt.Fprintf(&b, " %v", stmt.Accept(p))
	}
	b.WriteString(")")
	return b.String()
}

func (p *AST) VisitWhileStmt(s *ast.While) any {
	return fmt.Sprintf("(while %v %v)", s.Condition.Accept(p), s.Body.Accept(p))
}

func (p *AST) VisitIfStmt(s *ast.If) any {
	out := fmt.Sprintf("(if (then %v %v)", s.Condition.Accept(p), s.ThenBranch.Accept(p))
	if s.ElseBranch != nil {
		out += fmt.Sprintf(" (else %v)", s.ElseBranch.Accept(p))
	}
	return out + ")"
}

func (p *AST) VisitFunctionStmt(s *ast.Function) any {
	var b strings.Builder
	fmt.Fprintf(&b, "(fun %s (", s.Name.Lexeme)
	for i, param := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(param.Lexeme)
	}
	b.WriteString(")")
	for _, stmt := range s.Body {
		fmt.Fprintf(&b, " %v", stmt.Accept(p))
	}
	b.WriteString(")")
	return b.String()
}

func (p *AST) VisitReturnStmt(s *ast.Return) any {
	if s.Value == nil {
		return "(return)"
	}
	return fmt.Sprintf("(return %v)", s.Value.Accept(p))
}

// builtinNames lists the global callables the interpreter wires in,
// in the order the identifier table lists them, mirroring the
// original's IdPrinter::print_natives natives vector (with str added
// alongside this module's own built-ins).
var builtinNames = []string{"clock", "pow", "log2", "prn", "type", "str"}

// IDTable renders a column-aligned dump of every built-in callable and
// declared identifier, its type and stringified value, matching the
// original's IdPrinter table layout. Literal values appearing anywhere
// in an expression tree get their own deduplicated "<anonymous>" row
// the first time each distinct value is seen, the same as the
// original's set_of_literals pass in printer_identifiers.cpp.
type IDTable struct {
	out  io.Writer
	seen map[value.Value]bool
}

// NewIDTable builds an identifier-table printer writing to out.
func NewIDTable(out io.Writer) *IDTable {
	return &IDTable{out: out, seen: make(map[value.Value]bool)}
}

// Print dumps the header, one row per built-in callable, and then one
// row per Var/Function declaration and literal it finds while walking
// stmts.
func (p *IDTable) Print(stmts []ast.Stmt) {
	fmt.Fprintf(p.out, " %-13s|%-13s|%-15s\n", center("Name", 13), center("Type", 13), center("Value", 15))
	for _, name := range builtinNames {
		p.row(name, nameTag{name: name})
	}
	for _, s := range stmts {
		s.Accept(p)
	}
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	right := pad - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func (p *IDTable) row(name string, v value.Value) {
	fmt.Fprintf(p.out, "|%s|%s|%s|\n",
		center(name, 13), center(value.TypeName(v), 13), center(value.Stringify(v), 15))
}

// Expressions: recursed into so every literal anywhere in the tree,
// not just a Var's own initializer, reaches VisitLiteralExpr and gets
// its row.

func (p *IDTable) VisitBinaryExpr(e *ast.Binary) any {
	e.Left.Accept(p)
	e.Right.Accept(p)
	return nil
}

func (p *IDTable) VisitLogicalExpr(e *ast.Logical) any {
	e.Left.Accept(p)
	e.Right.Accept(p)
	return nil
}

func (p *IDTable) VisitGroupingExpr(e *ast.Grouping) any {
	e.Expression.Accept(p)
	return nil
}

func (p *IDTable) VisitLiteralExpr(e *ast.Literal) any {
	if p.seen[e.Value] {
		return nil
	}
	p.seen[e.Value] = true
	p.row("<anonymous>", e.Value)
	return nil
}

func (p *IDTable) VisitUnaryExpr(e *ast.Unary) any {
	e.Right.Accept(p)
	return nil
}

func (p *IDTable) VisitVariableExpr(e *ast.Variable) any { return nil }

func (p *IDTable) VisitAssignExpr(e *ast.Assign) any {
	e.Value.Accept(p)
	return nil
}

func (p *IDTable) VisitCallExpr(e *ast.Call) any {
	e.Callee.Accept(p)
	for _, arg := range e.Arguments {
		arg.Accept(p)
	}
	return nil
}

// Statements

func (p *IDTable) VisitExpressionStmt(s *ast.Expression) any {
	s.Expr.Accept(p)
	return nil
}

func (p *IDTable) VisitPrintStmt(s *ast.Print) any {
	s.Expr.Accept(p)
	return nil
}

func (p *IDTable) VisitVarStmt(s *ast.Var) any {
	var lit value.Value = value.Nil{}
	if t, ok := s.Initializer.(*ast.Literal); ok {
		lit = t.Value
	}
	p.row(s.Name.Lexeme, lit)
	if s.Initializer != nil {
		s.Initializer.Accept(p)
	}
	return nil
}

func (p *IDTable) VisitBlockStmt(s *ast.Block) any {
	for _, stmt := range s.Statements {
		stmt.Accept(p)
	}
	return nil
}

func (p *IDTable) VisitWhileStmt(s *ast.While) any {
	s.Condition.Accept(p)
	s.Body.Accept(p)
	return nil
}

func (p *IDTable) VisitIfStmt(s *ast.If) any {
	s.Condition.Accept(p)
	s.ThenBranch.Accept(p)
	if s.ElseBranch != nil {
		s.ElseBranch.Accept(p)
	}
	return nil
}

func (p *IDTable) VisitFunctionStmt(s *ast.Function) any {
	p.row(s.Name.Lexeme, nameTag{name: s.Name.Lexeme})
	for _, param := range s.Params {
		p.row(param.Lexeme, value.Nil{})
	}
	for _, stmt := range s.Body {
		stmt.Accept(p)
	}
	return nil
}

func (p *IDTable) VisitReturnStmt(s *ast.Return) any {
	if s.Value != nil {
		s.Value.Accept(p)
	}
	return nil
}

// nameTag is a placeholder Value used so a callable's row prints
// "callable" under Type and "<fun name>" under Value without
// fabricating an actual Callable for it.
type nameTag struct {
	value.CallableBase
	name string
}

func (t nameTag) Arity() int   { return 0 }
func (t nameTag) Name() string { return t.name }
func (nameTag) Call([]value.Value) (value.Value, error) {
	return value.Nil{}, nil
}
