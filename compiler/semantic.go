package compiler

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Semantic Analyzer: Pre-codegen semantic checks
// ---------------------------------------------------------------------------

// SemanticAnalyzer verifies a module before code generation. It checks for
// duplicate declarations, unbound names, argument count mismatches, and
// return statements outside of a function body.
type SemanticAnalyzer struct {
	errors []string

	// decls maps declared function and primitive names to their arity.
	decls map[string]int

	// params holds the parameter names of the function under analysis,
	// nil at module level.
	params map[string]bool
}

// NewSemanticAnalyzer creates a new semantic analyzer.
func NewSemanticAnalyzer() *SemanticAnalyzer {
	return &SemanticAnalyzer{
		decls: make(map[string]int),
	}
}

// Errors returns accumulated analysis errors.
func (s *SemanticAnalyzer) Errors() []string {
	return s.errors
}

// errorAt records an error with position information.
func (s *SemanticAnalyzer) errorAt(node Node, format string, args ...interface{}) {
	pos := node.Pos()
	msg := fmt.Sprintf("line %d, column %d: %s", pos.Line, pos.Column, fmt.Sprintf(format, args...))
	s.errors = append(s.errors, msg)
}

// AnalyzeModule performs semantic analysis on a whole module.
func (s *SemanticAnalyzer) AnalyzeModule(mod *Module) {
	// Collect declarations first so bodies can refer to later functions.
	for _, item := range mod.Items {
		switch decl := item.(type) {
		case *FuncDecl:
			s.declare(decl, decl.Name, len(decl.Params))
		case *ProtoDecl:
			s.declare(decl, decl.Name, len(decl.Params))
		}
	}

	for _, item := range mod.Items {
		switch it := item.(type) {
		case *FuncDecl:
			s.analyzeFunc(it)
		case *ProtoDecl:
			s.checkParams(it, it.Params)
		case Stmt:
			// Module-level statements run with no parameters in scope.
			s.params = nil
			s.analyzeStmt(it, false)
		}
	}
}

// declare records a top-level name, rejecting duplicates.
func (s *SemanticAnalyzer) declare(node Node, name string, arity int) {
	if _, ok := s.decls[name]; ok {
		s.errorAt(node, "duplicate declaration of '%s'", name)
		return
	}
	s.decls[name] = arity
}

// analyzeFunc analyzes a function body with its parameters in scope.
func (s *SemanticAnalyzer) analyzeFunc(fn *FuncDecl) {
	s.checkParams(fn, fn.Params)

	s.params = make(map[string]bool)
	for _, param := range fn.Params {
		s.params[param.Name] = true
	}

	s.analyzeStmt(fn.Body, true)
	s.params = nil
}

// checkParams rejects duplicate parameter names in a declaration.
func (s *SemanticAnalyzer) checkParams(node Node, params []Param) {
	seen := make(map[string]bool)
	for _, param := range params {
		if seen[param.Name] {
			s.errorAt(node, "duplicate parameter '%s'", param.Name)
		}
		seen[param.Name] = true
	}
}

// analyzeStmt analyzes a single statement. inFunc is true inside a
// function body, where return statements are legal.
func (s *SemanticAnalyzer) analyzeStmt(stmt Stmt, inFunc bool) {
	switch st := stmt.(type) {
	case *BlockStmt:
		for i, inner := range st.Body {
			s.analyzeStmt(inner, inFunc)
			if _, isReturn := inner.(*ReturnStmt); isReturn && i < len(st.Body)-1 {
				s.errorAt(st.Body[i+1], "unreachable code after return")
			}
		}
	case *WhileStmt:
		s.analyzeExpr(st.Cond)
		s.analyzeStmt(st.Body, inFunc)
	case *ReturnStmt:
		if !inFunc {
			s.errorAt(st, "return outside of function")
		}
		s.analyzeExpr(st.Expr)
	case *ExprStmt:
		s.analyzeExpr(st.Expr)
	}
}

// analyzeExpr analyzes an expression.
func (s *SemanticAnalyzer) analyzeExpr(expr Expr) {
	switch e := expr.(type) {
	case *IntLit:
		// OK
	case *RefExpr:
		s.checkNameBound(e)
	case *BinaryExpr:
		s.analyzeExpr(e.LHS)
		s.analyzeExpr(e.RHS)
	case *CallExpr:
		s.analyzeExpr(e.Callee)
		for _, arg := range e.Args {
			s.analyzeExpr(arg)
		}
		s.checkCallArity(e)
	}
}

// checkNameBound checks that a referenced name resolves to a parameter or
// a top-level declaration.
func (s *SemanticAnalyzer) checkNameBound(ref *RefExpr) {
	if s.params != nil && s.params[ref.Name] {
		return
	}
	if _, ok := s.decls[ref.Name]; ok {
		return
	}
	s.errorAt(ref, "unbound name '%s'", ref.Name)
}

// checkCallArity checks argument counts for direct calls to declared
// functions. Calls through a computed callee cannot be checked statically.
func (s *SemanticAnalyzer) checkCallArity(call *CallExpr) {
	ref, ok := call.Callee.(*RefExpr)
	if !ok {
		return
	}
	if s.params != nil && s.params[ref.Name] {
		return
	}
	arity, ok := s.decls[ref.Name]
	if !ok {
		return
	}
	if len(call.Args) != arity {
		s.errorAt(call, "'%s' expects %d argument(s), got %d", ref.Name, arity, len(call.Args))
	}
}

// Analyze runs semantic analysis on a module and returns any errors.
func Analyze(mod *Module) []string {
	analyzer := NewSemanticAnalyzer()
	analyzer.AnalyzeModule(mod)
	return analyzer.Errors()
}
