package compiler

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Parser: recursive descent parser for imp
// ---------------------------------------------------------------------------

// Error is a front-end diagnostic carrying a source position.
type Error struct {
	Pos Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// errorAt creates a positioned error.
func errorAt(pos Position, format string, args ...interface{}) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Parser builds an AST from the token stream of a Lexer.
type Parser struct {
	lexer *Lexer
	tok   Token // current token
}

// NewParser creates a parser reading from the given lexer.
func NewParser(lexer *Lexer) *Parser {
	p := &Parser{lexer: lexer}
	p.tok = lexer.NextToken()
	return p
}

// Parse is a convenience wrapper that parses a whole source string.
func Parse(input string) (*Module, error) {
	return NewParser(NewLexer(input)).ParseModule()
}

// advance moves to the next token, surfacing lexer errors.
func (p *Parser) advance() error {
	if p.tok.Type == TokenError {
		return errorAt(p.tok.Pos, "%s", p.tok.Literal)
	}
	p.tok = p.lexer.NextToken()
	if p.tok.Type == TokenError {
		return errorAt(p.tok.Pos, "%s", p.tok.Literal)
	}
	return nil
}

// expect checks that the current token has the given type, consumes it,
// and returns it.
func (p *Parser) expect(t TokenType) (Token, error) {
	tk := p.tok
	if tk.Type != t {
		return tk, errorAt(tk.Pos, "unexpected %s, expecting %s", tk, t)
	}
	if err := p.advance(); err != nil {
		return tk, err
	}
	return tk, nil
}

// ParseModule parses a sequence of top-level declarations and statements.
func (p *Parser) ParseModule() (*Module, error) {
	if p.tok.Type == TokenError {
		return nil, errorAt(p.tok.Pos, "%s", p.tok.Literal)
	}

	mod := &Module{}
	for p.tok.Type != TokenEOF {
		if p.tok.Type == TokenFunc {
			decl, err := p.parseDecl()
			if err != nil {
				return nil, err
			}
			mod.Items = append(mod.Items, decl)
		} else {
			stmt, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			mod.Items = append(mod.Items, stmt)
		}
	}
	return mod, nil
}

// parseDecl parses a function declaration or an external prototype:
//
//	func name(a: int, b: int): int { ... }
//	func name(a: int): int = "primitive"
func (p *Parser) parseDecl() (Node, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokenFunc); err != nil {
		return nil, err
	}

	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	var params []Param
	if p.tok.Type != TokenRParen {
		for {
			argName, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			argType, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}
			params = append(params, Param{Name: argName.Literal, Type: argType.Literal})

			if p.tok.Type != TokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	retType, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}

	// `= "primitive"` marks an external prototype.
	if p.tok.Type == TokenEqual {
		if err := p.advance(); err != nil {
			return nil, err
		}
		prim, err := p.expect(TokenString)
		if err != nil {
			return nil, err
		}
		return &ProtoDecl{
			PosVal:    pos,
			Name:      name.Literal,
			Params:    params,
			RetType:   retType.Literal,
			Primitive: prim.Literal,
		}, nil
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FuncDecl{
		PosVal:  pos,
		Name:    name.Literal,
		Params:  params,
		RetType: retType.Literal,
		Body:    body,
	}, nil
}

// parseStmt parses a single statement.
func (p *Parser) parseStmt() (Stmt, error) {
	switch p.tok.Type {
	case TokenReturn:
		return p.parseReturn()
	case TokenWhile:
		return p.parseWhile()
	case TokenLBrace:
		return p.parseBlock()
	default:
		pos := p.tok.Pos
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ExprStmt{PosVal: pos, Expr: expr}, nil
	}
}

// parseBlock parses `{ stmt; stmt; ... }`. Statements are separated by
// semicolons; a trailing semicolon is allowed.
func (p *Parser) parseBlock() (*BlockStmt, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	var body []Stmt
	for p.tok.Type != TokenRBrace {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)

		if p.tok.Type != TokenSemicolon {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return &BlockStmt{PosVal: pos, Body: body}, nil
}

// parseReturn parses `return <expr>`.
func (p *Parser) parseReturn() (*ReturnStmt, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokenReturn); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ReturnStmt{PosVal: pos, Expr: expr}, nil
}

// parseWhile parses `while (<cond>) <stmt>`.
func (p *Parser) parseWhile() (*WhileStmt, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokenWhile); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{PosVal: pos, Cond: cond, Body: body}, nil
}

// parseExpr parses an expression. Addition is the lowest (and only)
// binary precedence level; calls bind tighter.
func (p *Parser) parseExpr() (Expr, error) {
	lhs, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenPlus {
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{PosVal: pos, Op: BinaryAdd, LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

// parseCall parses a term followed by any number of argument lists, so
// `f(1)(2)` calls the result of `f(1)`.
func (p *Parser) parseCall() (Expr, error) {
	callee, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenLParen {
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}

		var args []Expr
		if p.tok.Type != TokenRParen {
			for {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)

				if p.tok.Type != TokenComma {
					break
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		callee = &CallExpr{PosVal: pos, Callee: callee, Args: args}
	}
	return callee, nil
}

// parseTerm parses an identifier reference or an integer literal.
func (p *Parser) parseTerm() (Expr, error) {
	tk := p.tok
	switch tk.Type {
	case TokenIdentifier:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &RefExpr{PosVal: tk.Pos, Name: tk.Literal}, nil

	case TokenInteger:
		val, err := strconv.ParseInt(tk.Literal, 10, 64)
		if err != nil {
			return nil, errorAt(tk.Pos, "integer %s out of range", tk.Literal)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &IntLit{PosVal: tk.Pos, Value: val}, nil

	default:
		return nil, errorAt(tk.Pos, "unexpected %s, expecting term", tk)
	}
}
