package scanner

import (
	"bytes"
	"testing"

	"zrv/internal/diag"
	"zrv/internal/token"
	"zrv/internal/value"
)

func scanAll(t *testing.T, source string) ([]*token.Token, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	sink := diag.New(&buf)
	toks := New(source, sink).Scan()
	return toks, &buf
}

func kinds(toks []*token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestPunctuationAndOperators(t *testing.T) {
	toks, errs := scanAll(t, "(){},-+;*/ ! != = == < <= << > >= >>")
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	want := []token.Kind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.MINUS, token.PLUS, token.SEMICOLON, token.STAR, token.SLASH,
		token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
		token.LESS, token.LESS_EQUAL, token.SHIFT_LEFT,
		token.GREATER, token.GREATER_EQUAL, token.SHIFT_RIGHT,
		token.LOX_EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestComments(t *testing.T) {
	toks, errs := scanAll(t, "1; // trailing\n/* block\ncomment */2;")
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	got := kinds(toks)
	want := []token.Kind{token.NUMBER, token.SEMICOLON, token.NUMBER, token.SEMICOLON, token.LOX_EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want shape %v", got, want)
	}
	if toks[2].Line != 3 {
		t.Errorf("block comment should advance line counter, got line %d", toks[2].Line)
	}
}

func TestStringLiteral(t *testing.T) {
	toks, errs := scanAll(t, `"hello world"`)
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	lit := toks[0].Literal
	if s, ok := lit.(value.String); !ok || string(s) != "hello world" {
		t.Errorf("got literal %#v, want String(hello world)", lit)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, errs := scanAll(t, `"no closing quote`)
	if errs.Len() == 0 {
		t.Fatalf("expected an unterminated string error")
	}
}

func TestCharacterLiteral(t *testing.T) {
	toks, errs := scanAll(t, `'x'`)
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if toks[0].Kind != token.STRING {
		t.Errorf("char literal should scan as STRING kind, got %s", toks[0].Kind)
	}
	if c, ok := toks[0].Literal.(value.Char); !ok || c != value.Char('x') {
		t.Errorf("got literal %#v, want Char('x')", toks[0].Literal)
	}
}

func TestCharacterLiteralWrongSize(t *testing.T) {
	_, errs := scanAll(t, `'xy'`)
	if errs.Len() == 0 {
		t.Fatalf("expected a wrong-size char error")
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := []struct {
		source string
		kind   token.Kind
	}{
		{"42", token.NUMBER},
		{"3.14", token.NUMBER},
		{"0x1F", token.NUMBER},
		{"0b1010", token.NUMBER},
	}
	for _, c := range cases {
		toks, errs := scanAll(t, c.source)
		if errs.Len() != 0 {
			t.Fatalf("%s: unexpected errors: %s", c.source, errs.String())
		}
		if toks[0].Kind != c.kind {
			t.Errorf("%s: got kind %s", c.source, toks[0].Kind)
		}
	}
}

func TestHexLiteralIsInt(t *testing.T) {
	toks, _ := scanAll(t, "0x10")
	n, ok := toks[0].Literal.(value.Number)
	if !ok || n.Tag != value.IntTag || n.Int64() != 16 {
		t.Errorf("got %#v, want Int(16)", toks[0].Literal)
	}
}

func TestBinaryLiteralIsByte(t *testing.T) {
	toks, _ := scanAll(t, "0b101")
	n, ok := toks[0].Literal.(value.Number)
	if !ok || n.Tag != value.ByteTag || n.Byte != 5 {
		t.Errorf("got %#v, want Byte(5)", toks[0].Literal)
	}
}

func TestBinaryLiteralTooWide(t *testing.T) {
	_, errs := scanAll(t, "0b111111111")
	if errs.Len() == 0 {
		t.Fatalf("expected a too-many-bits error")
	}
}

func TestDoubleLiteral(t *testing.T) {
	toks, _ := scanAll(t, "2.5")
	n, ok := toks[0].Literal.(value.Number)
	if !ok || n.Tag != value.DoubleTag || n.Double != 2.5 {
		t.Errorf("got %#v, want Double(2.5)", toks[0].Literal)
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks, errs := scanAll(t, "and or fun print notakeyword")
	if errs.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	want := []token.Kind{token.AND, token.OR, token.FUN, token.PRINT, token.IDENTIFIER, token.LOX_EOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLineCounting(t *testing.T) {
	toks, _ := scanAll(t, "1;\n2;\n3;")
	var lines []int
	for _, tk := range toks {
		if tk.Kind == token.NUMBER {
			lines = append(lines, tk.Line)
		}
	}
	want := []int{1, 2, 3}
	for i, l := range want {
		if lines[i] != l {
			t.Errorf("number %d: got line %d, want %d", i, lines[i], l)
		}
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	_, errs := scanAll(t, "@")
	if errs.Len() == 0 {
		t.Fatalf("expected an unexpected-character error")
	}
}
