package token

import "zrv/internal/value"

// Token is an immutable lexical record: its kind, the source lexeme
// that produced it, an optional attached literal value, and its
// source coordinates. Tokens compare equal by structural equality.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal value.Value
	Line    int
	Offset  int
	Length  int
}

// New builds a Token with no attached literal.
func New(kind Kind, lexeme string, line, offset, length int) *Token {
	return &Token{Kind: kind, Lexeme: lexeme, Line: line, Offset: offset, Length: length}
}

// NewLiteral builds a Token carrying a literal value (STRING or
// NUMBER). The literal itself is interned by (kind, lexeme): repeated
// occurrences of the same source text share a single value.Value
// instance, the Go stand-in for the original's
// boost::flyweight<Literal> (see original_source/Types/Token.h).
func NewLiteral(kind Kind, lexeme string, literal value.Value, line, offset, length int) *Token {
	return &Token{Kind: kind, Lexeme: lexeme, Literal: internLiteral(kind, lexeme, literal), Line: line, Offset: offset, Length: length}
}

// String renders the token the way the -l/--lex-table dump does.
func (t *Token) String() string {
	return t.Kind.String() + " " + t.Lexeme
}
