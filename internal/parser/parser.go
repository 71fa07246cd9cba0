// Package parser implements a recursive-descent parser over the
// grammar in the token stream produced by internal/scanner, building
// the internal/ast tree. It follows original_source/Parser/Parser.cpp
// rule-for-rule, including its token-lookbehind stack used to
// disambiguate assignment targets and the contextual "return" keyword.
package parser

import (
	"zrv/internal/ast"
	"zrv/internal/diag"
	"zrv/internal/token"
	"zrv/internal/value"
)

// parseError unwinds to the nearest declaration() boundary, the way
// the original's ParseError exception does; it carries no payload
// because the diagnostic has already been reported at the throw site.
type parseError struct{}

// Parser consumes a flat token slice and produces a Stmt slice. It
// never looks past the current token except through peek/peekNext-style
// one-token lookahead (check/match); the ctxStack is the one
// deliberate exception, used the same way the original's LocalPush
// stack is.
type Parser struct {
	tokens  []*token.Token
	current int
	ctx     []*token.Token
	diag    *diag.Sink
}

// New builds a Parser over tokens, reporting syntax errors to sink.
func New(tokens []*token.Token, sink *diag.Sink) *Parser {
	return &Parser{tokens: tokens, diag: sink}
}

// Parse runs the parser to completion, returning every top-level
// declaration it could recover a statement for.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// ======================
// |  Service methods   |
// ======================

func (p *Parser) push(t *token.Token) { p.ctx = append(p.ctx, t) }

func (p *Parser) pop() *token.Token {
	t := p.ctx[len(p.ctx)-1]
	p.ctx = p.ctx[:len(p.ctx)-1]
	return t
}

func (p *Parser) top() *token.Token { return p.ctx[len(p.ctx)-1] }

func (p *Parser) checkMemory(kind token.Kind) bool {
	return len(p.ctx) > 0 && p.top().Kind == kind
}

func (p *Parser) matchMemory(kind token.Kind) bool {
	if !p.checkMemory(kind) {
		return false
	}
	p.pop()
	return true
}

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.LOX_EOF }
func (p *Parser) peek() *token.Token { return p.tokens[p.current] }

func (p *Parser) previous() *token.Token { return p.tokens[p.current-1] }

func (p *Parser) advance() *token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

// checkWithMemory reports whether the current token is kind AND the
// top of the context stack is memory, without popping anything.
func (p *Parser) checkWithMemory(kind, memory token.Kind) bool {
	if p.isAtEnd() || len(p.ctx) == 0 {
		return false
	}
	return p.peek().Kind == kind && p.top().Kind == memory
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, msg string) *token.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), msg))
}

// errorAt reports a syntax error at token and returns a parseError.
// Most call sites panic with it to unwind to declaration()'s recover;
// a few (like an invalid assignment target) report without unwinding
// and let the caller keep parsing.
func (p *Parser) errorAt(t *token.Token, msg string) parseError {
	if t.Kind == token.LOX_EOF {
		p.diag.Report(t.Line, "Parser", "at end. "+msg)
	} else {
		p.diag.Report(t.Line, "Parser", "at '"+t.Lexeme+"'. "+msg)
	}
	return parseError{}
}

func (p *Parser) synchronize() {
	switch p.peek().Kind {
	case token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
		return
	}
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}
		switch p.peek().Kind {
		case token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// ======================
// |       Rules        |
// ======================

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.checkWithMemory(token.EQUAL, token.IDENTIFIER) {
		p.advance()
		name := p.pop()
		val := p.assignment()
		return &ast.Assign{Name: name, Value: val}
	} else if p.match(token.EQUAL) {
		p.errorAt(p.previous(), "Invalid assignment target.")
	}
	p.matchMemory(token.IDENTIFIER)

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.OR) {
		op := p.previous()
		right := p.logicAnd()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.shift()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) shift() ast.Expr {
	expr := p.term()
	for p.match(token.SHIFT_LEFT, token.SHIFT_RIGHT) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for p.match(token.LEFT_PAREN) {
		p.matchMemory(token.IDENTIFIER)
		expr = p.finishCall(expr)
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= 255 {
				p.errorAt(p.peek(), "Max number of arguments is 255.")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	p.matchMemory(token.IDENTIFIER)

	switch {
	case p.match(token.NIL):
		return &ast.Literal{Value: value.Nil{}}
	case p.match(token.FALSE):
		return &ast.Literal{Value: value.Bool(false)}
	case p.match(token.TRUE):
		return &ast.Literal{Value: value.Bool(true)}
	case p.match(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous().Literal}
	case p.match(token.IDENTIFIER):
		name := p.previous()
		p.push(name)
		return &ast.Variable{Name: name}
	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{Expression: expr}
	}

	panic(p.errorAt(p.peek(), "Expect expression."))
}

// ======================
// |    Statements      |
// ======================

func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	if p.match(token.VAR) {
		return p.varDeclStmt()
	}
	if p.match(token.FUN) {
		p.push(p.previous())
		defer p.pop()
		return p.funDeclStmt("function")
	}
	return p.statement()
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.LEFT_BRACE):
		return p.blockStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.FOR):
		return p.forStmt()
	}
	if p.checkWithMemory(token.RETURN, token.FUN) {
		p.advance()
		return p.returnStmt()
	} else if p.match(token.RETURN) {
		panic(p.errorAt(p.previous(), "Return statement is outside of function scope."))
	}
	return p.exprStmt()
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.Expression{Expr: expr}
}

func (p *Parser) printStmt() ast.Stmt {
	keyword := p.previous()
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.Print{Keyword: keyword, Expr: expr}
}

func (p *Parser) varDeclStmt() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	var init ast.Expr
	if p.match(token.EQUAL) {
		init = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: init}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) blockStmt() ast.Stmt {
	return &ast.Block{Statements: p.block()}
}

func (p *Parser) whileStmt() ast.Stmt {
	keyword := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after while.")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after while condition.")
	body := p.statement()
	return &ast.While{Keyword: keyword, Condition: cond, Body: body}
}

func (p *Parser) forStmt() ast.Stmt {
	keyword := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after for.")

	var init ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		init = nil
	case p.match(token.VAR):
		init = p.varDeclStmt()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.Expression{Expr: increment}}}
	}
	if cond == nil {
		cond = &ast.Literal{Value: value.Bool(true)}
	}
	body = &ast.While{Keyword: keyword, Condition: cond, Body: body}

	if init != nil {
		body = &ast.Block{Statements: []ast.Stmt{init, body}}
	}
	return body
}

func (p *Parser) ifStmt() ast.Stmt {
	keyword := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after if.")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()

	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.If{Keyword: keyword, Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) funDeclStmt(kind string) ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	p.consume(token.LEFT_PAREN, "Expect '(' after "+name.Lexeme+" name.")

	var params []*token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= 255 {
				p.errorAt(p.peek(), "Max number of arguments is 255.")
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	p.consume(token.LEFT_BRACE, "Expect '{' before "+name.Lexeme+" body.")

	body := p.block()
	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) returnStmt() ast.Stmt {
	keyword := p.previous()

	var val ast.Expr
	if !p.check(token.SEMICOLON) {
		val = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: val}
}
