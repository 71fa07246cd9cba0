package checker

import (
	"bytes"
	"testing"

	"zrv/internal/diag"
	"zrv/internal/parser"
	"zrv/internal/scanner"
)

func checkSource(t *testing.T, source string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	sink := diag.New(&buf)
	toks := scanner.New(source, sink).Scan()
	stmts := parser.New(toks, sink).Parse()
	New(sink).Check(stmts)
	return &buf
}

func TestUndeclaredVariableIsAnError(t *testing.T) {
	errs := checkSource(t, `print x;`)
	if errs.Len() == 0 {
		t.Fatalf("expected an undeclared-variable error")
	}
}

func TestDeclaredVariableIsFine(t *testing.T) {
	errs := checkSource(t, `var x = 1; print x;`)
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
}

func TestDuplicateDeclarationIsAnError(t *testing.T) {
	errs := checkSource(t, `var x = 1; var x = 2;`)
	if errs.Len() == 0 {
		t.Fatalf("expected a duplicate-declaration error")
	}
}

func TestShadowingInNestedBlockIsFine(t *testing.T) {
	errs := checkSource(t, `var x = 1; { var x = 2; print x; }`)
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
}

func TestBuiltinsArePredeclared(t *testing.T) {
	errs := checkSource(t, `print clock(); print pow(2, 3); print log2(8); print type(1); print str(1);`)
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
}

func TestFunctionParamsScopedToBody(t *testing.T) {
	errs := checkSource(t, `fun add(a, b) { return a + b; }`)
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
}

func TestFunctionBodyCannotSeeEnclosingBlockLocals(t *testing.T) {
	errs := checkSource(t, `{ var secret = 1; fun f() { return secret; } }`)
	if errs.Len() == 0 {
		t.Fatalf("expected an undeclared-variable error: function scope closes over globals, not the enclosing block")
	}
}

func TestDuplicateFunctionNameIsAnError(t *testing.T) {
	errs := checkSource(t, `fun f() { return 1; } fun f() { return 2; }`)
	if errs.Len() == 0 {
		t.Fatalf("expected a duplicate-declaration error")
	}
}
