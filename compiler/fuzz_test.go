package compiler

import (
	"testing"
)

// ---------------------------------------------------------------------------
// FuzzLexer: ensure the lexer never panics on arbitrary input.
// ---------------------------------------------------------------------------

func FuzzLexer(f *testing.F) {
	// Seed corpus: valid imp snippets covering diverse token types
	seeds := []string{
		// Basic tokens
		`( ) { } : , ; = +`,
		// Integers
		`42`, `0`, `123456789`,
		// Strings
		`"print_int"`, `""`,
		// Identifiers and keywords
		`foo`, `foo123`, `_private`, `func`, `while`, `return`,
		// Comments
		"// a comment\nfoo",
		`foo // trailing comment`,
		// Complete constructs
		`x + y`,
		`output(42)`,
		`func add(a: int, b: int): int { return a + b }`,
		`func output(v: int): int = "print_int"`,
		"while (input()) {\n    output(1)\n}",
		// Edge cases
		`"unterminated`, `12abc`, `@`,
		// Unicode
		`"こんにちは"`, `café`,
		// Empty
		``,
		// Whitespace only
		`   `, "\t\n\r",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, data string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("lexer panicked on input %q: %v", data, r)
			}
		}()

		l := NewLexer(data)
		for i := 0; i < len(data)+100; i++ {
			tok := l.NextToken()
			if tok.Type == TokenEOF || tok.Type == TokenError {
				break
			}
		}
	})
}

// ---------------------------------------------------------------------------
// FuzzParser: ensure the parser never panics on arbitrary input.
// Parse errors are acceptable; panics are not.
// ---------------------------------------------------------------------------

func FuzzParser(f *testing.F) {
	seeds := []string{
		// Statements
		`42`, `foo`, `x + y + z`,
		`output(1 + 2)`,
		`return 42`,
		`while (input()) output(1)`,
		// Declarations
		`func add(a: int, b: int): int { return a + b }`,
		`func zero(): int { return 0 }`,
		`func output(v: int): int = "print_int"`,
		// Chained calls
		`pick(0)(7)`,
		`f(g(h(1)))`,
		// Blocks
		`func f(): int { output(1); output(2); return 3 }`,
		`func f(): int { return 0; }`,
		// A whole module
		"func output(v: int): int = \"print_int\"\nfunc double(n: int): int { return n + n }\noutput(double(21))",
		// Edge cases that might trip up the parser
		``, `(`, `)`, `{`, `}`, `:`, `,`, `;`, `=`, `+`,
		`func`, `func f`, `func f(`, `func f(a:`, `func f(): int =`,
		`while`, `while (`, `return`,
		`f(,)`, `f(1,)`, `1 +`,
		`99999999999999999999999999`,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, data string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("parser panicked on input %q: %v", data, r)
			}
		}()

		Parse(data)
	})
}
