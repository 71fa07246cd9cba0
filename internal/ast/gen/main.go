// Command gen prints the Go source for the Expr/Stmt node types from a
// compact type-list DSL, the same code-generation approach as
// cmd/grotsky/ast/ast.go, adapted to this grammar. The output below is
// committed by hand into ../expr.go and ../stmt.go. Keep the two in
// sync when the grammar changes.
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	var out string
	switch os.Args[1] {
	case "Stmt":
		out = generate("Stmt", []string{
			"Expression: Expr Expr",
			"Print: Keyword *token.Token, Expr Expr",
			"Var: Name *token.Token, Initializer Expr",
			"Block: Statements []Stmt",
			"While: Keyword *token.Token, Condition Expr, Body Stmt",
			"If: Keyword *token.Token, Condition Expr, ThenBranch Stmt, ElseBranch Stmt",
			"Function: Name *token.Token, Params []*token.Token, Body []Stmt",
			"Return: Keyword *token.Token, Value Expr",
		})
	case "Expr":
		out = generate("Expr", []string{
			"Binary: Left Expr, Operator *token.Token, Right Expr",
			"Logical: Left Expr, Operator *token.Token, Right Expr",
			"Grouping: Expression Expr",
			"Literal: Value value.Value",
			"Unary: Operator *token.Token, Right Expr",
			"Variable: Name *token.Token",
			"Assign: Name *token.Token, Value Expr",
			"Call: Callee Expr, Paren *token.Token, Arguments []Expr",
		})
	}
	fmt.Println(out)
}

func generate(base string, types []string) string {
	out := "package ast\n\n"
	out += fmt.Sprintf("type %s interface {\n\tAccept(v %sVisitor) any\n}\n\n", base, base)

	out += fmt.Sprintf("type %sVisitor interface {\n", base)
	for _, t := range types {
		name := strings.TrimSpace(strings.Split(t, ":")[0])
		out += fmt.Sprintf("\tVisit%s%s(e *%s) any\n", name, base, name)
	}
	out += "}\n\n"

	for _, t := range types {
		parts := strings.SplitN(t, ":", 2)
		name := strings.TrimSpace(parts[0])
		fields := strings.TrimSpace(parts[1])
		out += generateType(base, name, fields)
	}
	return out
}

func generateType(base, name, fields string) string {
	out := fmt.Sprintf("type %s struct {\n", name)
	for _, field := range strings.Split(fields, ",") {
		out += "\t" + strings.TrimSpace(field) + "\n"
	}
	out += "}\n\n"
	out += fmt.Sprintf("func (e *%s) Accept(v %sVisitor) any { return v.Visit%s%s(e) }\n\n", name, base, name, base)
	return out
}
