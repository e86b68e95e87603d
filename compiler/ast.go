package compiler

// ---------------------------------------------------------------------------
// AST: Abstract Syntax Tree for imp
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Position
	node() // marker method
}

// ---------------------------------------------------------------------------
// Expression nodes
// ---------------------------------------------------------------------------

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr() // marker method
}

// IntLit represents an integer literal.
type IntLit struct {
	PosVal Position
	Value  int64
}

func (n *IntLit) Pos() Position { return n.PosVal }
func (n *IntLit) node()         {}
func (n *IntLit) expr()         {}

// RefExpr represents a reference to a named value.
type RefExpr struct {
	PosVal Position
	Name   string
}

func (n *RefExpr) Pos() Position { return n.PosVal }
func (n *RefExpr) node()         {}
func (n *RefExpr) expr()         {}

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	// BinaryAdd is integer addition, the only binary operator today.
	BinaryAdd BinaryOp = iota
)

func (op BinaryOp) String() string {
	switch op {
	case BinaryAdd:
		return "+"
	default:
		return "?"
	}
}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	PosVal Position
	Op     BinaryOp
	LHS    Expr
	RHS    Expr
}

func (n *BinaryExpr) Pos() Position { return n.PosVal }
func (n *BinaryExpr) node()         {}
func (n *BinaryExpr) expr()         {}

// CallExpr represents a call expression.
type CallExpr struct {
	PosVal Position
	Callee Expr
	Args   []Expr
}

func (n *CallExpr) Pos() Position { return n.PosVal }
func (n *CallExpr) node()         {}
func (n *CallExpr) expr()         {}

// ---------------------------------------------------------------------------
// Statement nodes
// ---------------------------------------------------------------------------

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt() // marker method
}

// BlockStmt is a sequence of statements in a nested scope.
type BlockStmt struct {
	PosVal Position
	Body   []Stmt
}

func (n *BlockStmt) Pos() Position { return n.PosVal }
func (n *BlockStmt) node()         {}
func (n *BlockStmt) stmt()         {}

// WhileStmt represents `while (<cond>) <stmt>`.
type WhileStmt struct {
	PosVal Position
	Cond   Expr
	Body   Stmt
}

func (n *WhileStmt) Pos() Position { return n.PosVal }
func (n *WhileStmt) node()         {}
func (n *WhileStmt) stmt()         {}

// ReturnStmt represents `return <expr>`.
type ReturnStmt struct {
	PosVal Position
	Expr   Expr
}

func (n *ReturnStmt) Pos() Position { return n.PosVal }
func (n *ReturnStmt) node()         {}
func (n *ReturnStmt) stmt()         {}

// ExprStmt is an expression evaluated for its side effects; the result
// is discarded.
type ExprStmt struct {
	PosVal Position
	Expr   Expr
}

func (n *ExprStmt) Pos() Position { return n.PosVal }
func (n *ExprStmt) node()         {}
func (n *ExprStmt) stmt()         {}

// ---------------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------------

// Param is a single declared parameter: name and type identifier.
type Param struct {
	Name string
	Type string
}

// FuncDecl represents a function declaration:
//
//	func add(a: int, b: int): int { ... }
type FuncDecl struct {
	PosVal  Position
	Name    string
	Params  []Param
	RetType string
	Body    *BlockStmt
}

func (n *FuncDecl) Pos() Position { return n.PosVal }
func (n *FuncDecl) node()         {}

// ProtoDecl represents an external function prototype bound to a native
// primitive:
//
//	func output(a: int): int = "print_int"
type ProtoDecl struct {
	PosVal    Position
	Name      string
	Params    []Param
	RetType   string
	Primitive string
}

func (n *ProtoDecl) Pos() Position { return n.PosVal }
func (n *ProtoDecl) node()         {}

// Module is the root of the AST. Items holds top-level constructs in
// source order; each element is a *FuncDecl, a *ProtoDecl, or a Stmt.
type Module struct {
	Items []Node
}
