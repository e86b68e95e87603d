package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the imp lexer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenInteger    // 42
	TokenString     // "print_int"
	TokenIdentifier // foo

	// Keywords
	TokenFunc   // func
	TokenReturn // return
	TokenWhile  // while

	// Delimiters and operators
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenColon     // :
	TokenSemicolon // ;
	TokenEqual     // =
	TokenComma     // ,
	TokenPlus      // +
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenError:      "ERROR",
	TokenInteger:    "INTEGER",
	TokenString:     "STRING",
	TokenIdentifier: "IDENTIFIER",
	TokenFunc:       "func",
	TokenReturn:     "return",
	TokenWhile:      "while",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
	TokenColon:      ":",
	TokenSemicolon:  ";",
	TokenEqual:      "=",
	TokenComma:      ",",
	TokenPlus:       "+",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", int(t))
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string   // the raw text
	Pos     Position // start position
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return fmt.Sprintf("ERROR(%s)", t.Literal)
	case TokenInteger, TokenIdentifier:
		return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
	case TokenString:
		return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
	default:
		return t.Type.String()
	}
}

// Reserved words mapped to their token types.
var reservedWords = map[string]TokenType{
	"func":   TokenFunc,
	"return": TokenReturn,
	"while":  TokenWhile,
}
