package compiler

import (
	"testing"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `( ) { } : ; = , +`
	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenRBrace, "}"},
		{TokenColon, ":"},
		{TokenSemicolon, ";"},
		{TokenEqual, "="},
		{TokenComma, ","},
		{TokenPlus, "+"},
		{TokenEOF, ""},
	}

	l := NewLexer(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Errorf("token[%d] type = %v, want %v", i, tok.Type, exp.typ)
		}
		if tok.Literal != exp.lit {
			t.Errorf("token[%d] literal = %q, want %q", i, tok.Literal, exp.lit)
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"func", TokenFunc},
		{"return", TokenReturn},
		{"while", TokenWhile},
		{"funcs", TokenIdentifier},
		{"returning", TokenIdentifier},
	}

	for _, tc := range tests {
		l := NewLexer(tc.input)
		tok := l.NextToken()
		if tok.Type != tc.typ {
			t.Errorf("Lexer(%q): type = %v, want %v", tc.input, tok.Type, tc.typ)
		}
		if tok.Literal != tc.input {
			t.Errorf("Lexer(%q): literal = %q, want %q", tc.input, tok.Literal, tc.input)
		}
	}
}

func TestLexerIntegers(t *testing.T) {
	tests := []string{"0", "7", "42", "1000000"}

	for _, input := range tests {
		l := NewLexer(input)
		tok := l.NextToken()
		if tok.Type != TokenInteger {
			t.Errorf("Lexer(%q): type = %v, want %v", input, tok.Type, TokenInteger)
		}
		if tok.Literal != input {
			t.Errorf("Lexer(%q): literal = %q, want %q", input, tok.Literal, input)
		}
	}
}

func TestLexerMalformedInteger(t *testing.T) {
	l := NewLexer("12abc")
	tok := l.NextToken()
	if tok.Type != TokenError {
		t.Fatalf("Lexer(12abc): type = %v, want %v", tok.Type, TokenError)
	}
}

func TestLexerStrings(t *testing.T) {
	l := NewLexer(`"print_int"`)
	tok := l.NextToken()
	if tok.Type != TokenString {
		t.Fatalf("type = %v, want %v", tok.Type, TokenString)
	}
	if tok.Literal != "print_int" {
		t.Errorf("literal = %q, want %q", tok.Literal, "print_int")
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := NewLexer(`"oops`)
	tok := l.NextToken()
	if tok.Type != TokenError {
		t.Fatalf("type = %v, want %v", tok.Type, TokenError)
	}
}

func TestLexerComments(t *testing.T) {
	input := "// header\nx // trailing\n// footer"
	l := NewLexer(input)

	tok := l.NextToken()
	if tok.Type != TokenIdentifier || tok.Literal != "x" {
		t.Fatalf("token = %v %q, want IDENTIFIER x", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != TokenEOF {
		t.Errorf("type = %v, want %v", tok.Type, TokenEOF)
	}
}

func TestLexerPositions(t *testing.T) {
	input := "a\n  b"
	l := NewLexer(input)

	tok := l.NextToken()
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Errorf("a at %d:%d, want 1:1", tok.Pos.Line, tok.Pos.Column)
	}
	tok = l.NextToken()
	if tok.Pos.Line != 2 || tok.Pos.Column != 3 {
		t.Errorf("b at %d:%d, want 2:3", tok.Pos.Line, tok.Pos.Column)
	}
}

func TestLexerUnknownCharacter(t *testing.T) {
	l := NewLexer("@")
	tok := l.NextToken()
	if tok.Type != TokenError {
		t.Fatalf("type = %v, want %v", tok.Type, TokenError)
	}
}

func TestLexerProgram(t *testing.T) {
	input := `func add2(x: int): int { return add(x, 2) }`
	want := []TokenType{
		TokenFunc, TokenIdentifier, TokenLParen, TokenIdentifier,
		TokenColon, TokenIdentifier, TokenRParen, TokenColon,
		TokenIdentifier, TokenLBrace, TokenReturn, TokenIdentifier,
		TokenLParen, TokenIdentifier, TokenComma, TokenInteger,
		TokenRParen, TokenRBrace, TokenEOF,
	}

	l := NewLexer(input)
	for i, typ := range want {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Errorf("token[%d] type = %v, want %v", i, tok.Type, typ)
		}
	}
}
