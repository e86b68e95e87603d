package compiler

import (
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Lexer: Tokenizer for imp syntax
// ---------------------------------------------------------------------------

// Lexer tokenizes imp source code.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current character
	line    int  // current line (1-based)
	col     int  // current column (1-based)
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
		l.pos = l.readPos
	} else {
		r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
		l.ch = r
		l.pos = l.readPos
		l.readPos += size

		if r == '\n' {
			l.line++
			l.col = 0
		} else {
			l.col++
		}
	}
}

// position returns the current position.
func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

// skipWhitespaceAndComments advances past whitespace and // line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch != 0 && unicode.IsSpace(l.ch) {
			l.readChar()
		}
		if l.ch == '/' && l.readPos < len(l.input) && l.input[l.readPos] == '/' {
			for l.ch != 0 && l.ch != '\n' {
				l.readChar()
			}
			continue
		}
		return
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentLetter(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.position()

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Literal: "", Pos: pos}

	case l.ch == '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}

	case l.ch == ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}

	case l.ch == '{':
		l.readChar()
		return Token{Type: TokenLBrace, Literal: "{", Pos: pos}

	case l.ch == '}':
		l.readChar()
		return Token{Type: TokenRBrace, Literal: "}", Pos: pos}

	case l.ch == ':':
		l.readChar()
		return Token{Type: TokenColon, Literal: ":", Pos: pos}

	case l.ch == ';':
		l.readChar()
		return Token{Type: TokenSemicolon, Literal: ";", Pos: pos}

	case l.ch == '=':
		l.readChar()
		return Token{Type: TokenEqual, Literal: "=", Pos: pos}

	case l.ch == ',':
		l.readChar()
		return Token{Type: TokenComma, Literal: ",", Pos: pos}

	case l.ch == '+':
		l.readChar()
		return Token{Type: TokenPlus, Literal: "+", Pos: pos}

	case l.ch == '"':
		return l.readString(pos)

	case unicode.IsDigit(l.ch):
		return l.readInteger(pos)

	case isIdentStart(l.ch):
		return l.readIdentifier(pos)

	default:
		ch := l.ch
		l.readChar()
		return Token{Type: TokenError, Literal: "unknown character " + string(ch), Pos: pos}
	}
}

// readString reads a double-quoted string literal. The opening quote is
// the current character.
func (l *Lexer) readString(pos Position) Token {
	l.readChar() // consume opening quote
	start := l.pos
	for l.ch != '"' {
		if l.ch == 0 {
			return Token{Type: TokenError, Literal: "string not terminated", Pos: pos}
		}
		l.readChar()
	}
	lit := l.input[start:l.pos]
	l.readChar() // consume closing quote
	return Token{Type: TokenString, Literal: lit, Pos: pos}
}

// readInteger reads a decimal integer literal.
func (l *Lexer) readInteger(pos Position) Token {
	start := l.pos
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if isIdentStart(l.ch) {
		return Token{Type: TokenError, Literal: "malformed integer", Pos: pos}
	}
	return Token{Type: TokenInteger, Literal: l.input[start:l.pos], Pos: pos}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(pos Position) Token {
	start := l.pos
	for isIdentLetter(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.pos]
	if kw, ok := reservedWords[word]; ok {
		return Token{Type: kw, Literal: word, Pos: pos}
	}
	return Token{Type: TokenIdentifier, Literal: word, Pos: pos}
}

// Tokenize scans the whole input and returns all tokens up to and
// including EOF. Scanning stops early at the first error token.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tk := l.NextToken()
		tokens = append(tokens, tk)
		if tk.Type == TokenEOF || tk.Type == TokenError {
			return tokens
		}
	}
}
