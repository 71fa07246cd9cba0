package printer

import (
	"bytes"
	"strings"
	"testing"

	"zrv/internal/diag"
	"zrv/internal/parser"
	"zrv/internal/scanner"
)

func TestASTPrintsParenthesizedExpression(t *testing.T) {
	var errs bytes.Buffer
	sink := diag.New(&errs)
	toks := scanner.New(`print 1 + 2 * 3;`, sink).Scan()
	stmts := parser.New(toks, sink).Parse()
	if errs.Len() != 0 {
		t.Fatalf("unexpected parse errors: %s", errs.String())
	}

	var out bytes.Buffer
	NewAST(&out).Print(stmts)

	got := out.String()
	if !strings.Contains(got, "print") || !strings.Contains(got, "*") || !strings.Contains(got, "+") {
		t.Errorf("got %q, want an s-expression mentioning print, + and *", got)
	}
}

func TestIDTableHasHeaderAndRows(t *testing.T) {
	var errs bytes.Buffer
	sink := diag.New(&errs)
	toks := scanner.New(`var x = 1; var y = "hi";`, sink).Scan()
	stmts := parser.New(toks, sink).Parse()
	if errs.Len() != 0 {
		t.Fatalf("unexpected parse errors: %s", errs.String())
	}

	var out bytes.Buffer
	NewIDTable(&out).Print(stmts)

	got := out.String()
	for _, want := range []string{"Name", "Type", "Value", "x", "y"} {
		if !strings.Contains(got, want) {
			t.Errorf("got %q, missing %q", got, want)
		}
	}
}

func TestIDTableListsNativesAndDedupsAnonymousLiterals(t *testing.T) {
	var errs bytes.Buffer
	sink := diag.New(&errs)
	toks := scanner.New(`print 1 + 1; print 1;`, sink).Scan()
	stmts := parser.New(toks, sink).Parse()
	if errs.Len() != 0 {
		t.Fatalf("unexpected parse errors: %s", errs.String())
	}

	var out bytes.Buffer
	NewIDTable(&out).Print(stmts)

	got := out.String()
	for _, want := range []string{"clock", "pow", "log2", "prn", "type", "str", "<anonymous>"} {
		if !strings.Contains(got, want) {
			t.Errorf("got %q, missing %q", got, want)
		}
	}
	if n := strings.Count(got, "<anonymous>"); n != 1 {
		t.Errorf("got %d <anonymous> rows for a repeated literal, want 1", n)
	}
}
