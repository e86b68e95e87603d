package bytecode

import (
	"fmt"

	"github.com/chazu/imp/compiler"
)

// Label identifies a code position that may not be known yet. References
// to an unbound label emit a placeholder operand and a fixup; binding the
// label patches every pending reference.
type Label uint32

// bindingKind discriminates what a name resolves to.
type bindingKind uint8

const (
	bindFunc  bindingKind = iota // entry label of a translated function
	bindProto                    // index into the primitive table
	bindArg                      // argument slot of the enclosing function
)

// binding is the resolution of a name against the scope chain.
type binding struct {
	kind  bindingKind
	entry Label  // bindFunc
	prim  uint32 // bindProto
	slot  uint32 // bindArg, 0 is the leftmost parameter
}

// scope is a link in the scope chain. Lookup consults the innermost
// scope first and walks outward.
//
// The verifier establishes that every name is bound, so a failed lookup
// at the outermost scope is an internal fault and panics.
type scope interface {
	lookup(name string) binding
}

// globalScope resolves top-level function and prototype names.
type globalScope struct {
	funcs  map[string]Label
	protos map[string]uint32
}

func (s *globalScope) lookup(name string) binding {
	if entry, ok := s.funcs[name]; ok {
		return binding{kind: bindFunc, entry: entry}
	}
	if prim, ok := s.protos[name]; ok {
		return binding{kind: bindProto, prim: prim}
	}
	panic(fmt.Sprintf("bytecode: name %q not bound", name))
}

// funcScope resolves the arguments of a function.
type funcScope struct {
	parent scope
	args   map[string]uint32
}

func (s *funcScope) lookup(name string) binding {
	if slot, ok := s.args[name]; ok {
		return binding{kind: bindArg, slot: slot}
	}
	return s.parent.lookup(name)
}

// blockScope scopes a block of statements. Blocks declare no names yet,
// so lookup just walks outward.
type blockScope struct {
	parent scope
}

func (s *blockScope) lookup(name string) binding {
	return s.parent.lookup(name)
}

// Translator lowers a verified module to bytecode in a single pass over
// the AST, tracking the static operand stack depth as it goes.
type Translator struct {
	prog  *Program
	depth int                // operand stack depth above the frame
	fn    *compiler.FuncDecl // function being lowered, nil at module level

	nextLabel Label
	fixups    map[Label][]int
	addrs     map[Label]uint32
	funcs     map[string]Label
}

// Translate lowers a module to a program. Top-level statements are
// emitted first so execution starts at offset zero, followed by OpStop
// and then the function bodies.
//
// The module must have passed semantic analysis. Primitive names are
// resolved against the runtime; a prototype naming a primitive the
// runtime does not provide is a translation error.
func Translate(mod *compiler.Module, rt *Runtime) (*Program, error) {
	t := &Translator{
		prog:   NewProgram(),
		fixups: make(map[Label][]int),
		addrs:  make(map[Label]uint32),
		funcs:  make(map[string]Label),
	}

	// Record all function and prototype declarations in the global
	// symbol table before lowering anything, so references resolve in
	// either direction.
	protos := make(map[string]uint32)
	for _, item := range mod.Items {
		switch decl := item.(type) {
		case *compiler.ProtoDecl:
			if _, ok := rt.Lookup(decl.Primitive); !ok {
				return nil, fmt.Errorf("prototype '%s' names unknown primitive %q", decl.Name, decl.Primitive)
			}
			protos[decl.Name] = t.prog.AddPrimitive(decl.Primitive)
		case *compiler.FuncDecl:
			t.funcs[decl.Name] = t.makeLabel()
		}
	}

	global := &globalScope{funcs: t.funcs, protos: protos}

	for _, item := range mod.Items {
		if stmt, ok := item.(compiler.Stmt); ok {
			t.lowerStmt(global, stmt)
		}
	}
	t.emitStop()

	for _, item := range mod.Items {
		if decl, ok := item.(*compiler.FuncDecl); ok {
			t.lowerFuncDecl(global, decl)
		}
	}

	if len(t.fixups) != 0 {
		panic(fmt.Sprintf("bytecode: %d label(s) referenced but never bound", len(t.fixups)))
	}
	return t.prog, nil
}

// ---------------------------------------------------------------------------
// Statement lowering
// ---------------------------------------------------------------------------

func (t *Translator) lowerStmt(sc scope, stmt compiler.Stmt) {
	switch st := stmt.(type) {
	case *compiler.BlockStmt:
		t.lowerBlockStmt(sc, st)
	case *compiler.WhileStmt:
		t.lowerWhileStmt(sc, st)
	case *compiler.ReturnStmt:
		t.lowerReturnStmt(sc, st)
	case *compiler.ExprStmt:
		t.lowerExprStmt(sc, st)
	default:
		panic(fmt.Sprintf("bytecode: unexpected statement %T", stmt))
	}
}

// lowerBlockStmt lowers the statements of a block under a fresh block
// scope. Statements leave the stack as they found it.
func (t *Translator) lowerBlockStmt(sc scope, block *compiler.BlockStmt) {
	depthIn := t.depth

	inner := &blockScope{parent: sc}
	for _, stmt := range block.Body {
		t.lowerStmt(inner, stmt)
	}

	if t.depth != depthIn {
		panic(fmt.Sprintf("bytecode: mismatched block depth on exit (%d, was %d)", t.depth, depthIn))
	}
}

func (t *Translator) lowerWhileStmt(sc scope, while *compiler.WhileStmt) {
	entry := t.makeLabel()
	exit := t.makeLabel()

	t.emitLabel(entry)
	t.lowerExpr(sc, while.Cond)
	t.emitJumpFalse(exit)
	t.lowerStmt(sc, while.Body)
	t.emitJump(entry)
	t.emitLabel(exit)
}

func (t *Translator) lowerReturnStmt(sc scope, ret *compiler.ReturnStmt) {
	t.lowerExpr(sc, ret.Expr)
	t.emitReturn()
}

// lowerExprStmt evaluates the expression for effect and discards its
// result.
func (t *Translator) lowerExprStmt(sc scope, stmt *compiler.ExprStmt) {
	t.lowerExpr(sc, stmt.Expr)
	t.emitPop()
}

// ---------------------------------------------------------------------------
// Expression lowering
// ---------------------------------------------------------------------------

func (t *Translator) lowerExpr(sc scope, expr compiler.Expr) {
	switch e := expr.(type) {
	case *compiler.IntLit:
		t.emitPushInt(e.Value)
	case *compiler.RefExpr:
		t.lowerRefExpr(sc, e)
	case *compiler.BinaryExpr:
		t.lowerBinaryExpr(sc, e)
	case *compiler.CallExpr:
		t.lowerCallExpr(sc, e)
	default:
		panic(fmt.Sprintf("bytecode: unexpected expression %T", expr))
	}
}

func (t *Translator) lowerRefExpr(sc scope, ref *compiler.RefExpr) {
	b := sc.lookup(ref.Name)
	switch b.kind {
	case bindFunc:
		t.emitPushFunc(b.entry)
	case bindProto:
		t.emitPushProto(b.prim)
	case bindArg:
		// Arguments sit below the return address and any temporaries.
		t.emitPeek(uint32(t.depth) + b.slot + 1)
	}
}

func (t *Translator) lowerBinaryExpr(sc scope, bin *compiler.BinaryExpr) {
	t.lowerExpr(sc, bin.LHS)
	t.lowerExpr(sc, bin.RHS)
	switch bin.Op {
	case compiler.BinaryAdd:
		t.emitAdd()
	default:
		panic(fmt.Sprintf("bytecode: unexpected binary operator %v", bin.Op))
	}
}

// lowerCallExpr pushes arguments right to left, then the callee, and
// emits the call. The call leaves a single result in place of the
// arguments and the callee.
func (t *Translator) lowerCallExpr(sc scope, call *compiler.CallExpr) {
	for i := len(call.Args) - 1; i >= 0; i-- {
		t.lowerExpr(sc, call.Args[i])
	}
	t.lowerExpr(sc, call.Callee)
	t.emitCall(len(call.Args))
	t.depth -= len(call.Args)
}

// ---------------------------------------------------------------------------
// Function lowering
// ---------------------------------------------------------------------------

func (t *Translator) lowerFuncDecl(sc scope, decl *compiler.FuncDecl) {
	entry, ok := t.funcs[decl.Name]
	if !ok {
		panic(fmt.Sprintf("bytecode: missing entry label for '%s'", decl.Name))
	}
	t.emitLabel(entry)

	if t.depth != 0 {
		panic(fmt.Sprintf("bytecode: stack depth %d at function entry", t.depth))
	}

	args := make(map[string]uint32, len(decl.Params))
	for i, param := range decl.Params {
		args[param.Name] = uint32(i)
	}

	t.fn = decl
	t.lowerBlockStmt(&funcScope{parent: sc, args: args}, decl.Body)
	t.fn = nil

	if t.depth != 0 {
		panic(fmt.Sprintf("bytecode: stack depth %d at function exit", t.depth))
	}
}

// ---------------------------------------------------------------------------
// Labels and emission
// ---------------------------------------------------------------------------

// makeLabel creates a fresh unbound label.
func (t *Translator) makeLabel() Label {
	t.nextLabel++
	return t.nextLabel
}

// emitLabel binds a label to the current offset and patches every
// pending reference to it.
func (t *Translator) emitLabel(l Label) {
	addr := uint32(t.prog.CurrentOffset())
	for _, loc := range t.fixups[l] {
		t.prog.PatchUint32(loc, addr)
	}
	delete(t.fixups, l)
	t.addrs[l] = addr
}

// emitAddr emits the address of a label, or a placeholder and a fixup if
// the label is not bound yet.
func (t *Translator) emitAddr(l Label) {
	if addr, ok := t.addrs[l]; ok {
		t.prog.EmitUint32(addr)
		return
	}
	loc := t.prog.EmitUint32(0)
	t.fixups[l] = append(t.fixups[l], loc)
}

func (t *Translator) emitPushInt(v int64) {
	t.depth++
	t.prog.Emit(OpPushInt)
	t.prog.EmitInt64(v)
}

func (t *Translator) emitPushFunc(entry Label) {
	t.depth++
	t.prog.Emit(OpPushFunc)
	t.emitAddr(entry)
}

func (t *Translator) emitPushProto(prim uint32) {
	t.depth++
	t.prog.Emit(OpPushProto)
	t.prog.EmitUint32(prim)
}

func (t *Translator) emitPeek(index uint32) {
	t.depth++
	t.prog.Emit(OpPeek)
	t.prog.EmitUint32(index)
}

func (t *Translator) emitPop() {
	if t.depth == 0 {
		panic("bytecode: pop with no elements on stack")
	}
	t.depth--
	t.prog.Emit(OpPop)
}

func (t *Translator) emitAdd() {
	if t.depth < 2 {
		panic("bytecode: add with fewer than two elements on stack")
	}
	t.depth--
	t.prog.Emit(OpAdd)
}

// emitCall emits the call opcode. The caller adjusts the depth once the
// arguments are accounted for.
func (t *Translator) emitCall(nargs int) {
	t.prog.Emit(OpCall)
}

// emitReturn pops the result and emits the unwind operands: how many
// temporaries remain below the result and how many arguments the frame
// holds.
func (t *Translator) emitReturn() {
	if t.depth == 0 {
		panic("bytecode: return with no elements on stack")
	}
	t.depth--
	t.prog.Emit(OpRet)
	t.prog.EmitUint32(uint32(t.depth))
	nargs := 0
	if t.fn != nil {
		nargs = len(t.fn.Params)
	}
	t.prog.EmitUint32(uint32(nargs))
}

func (t *Translator) emitJumpFalse(l Label) {
	if t.depth == 0 {
		panic("bytecode: jump with no condition on stack")
	}
	t.depth--
	t.prog.Emit(OpJumpFalse)
	t.emitAddr(l)
}

func (t *Translator) emitJump(l Label) {
	t.prog.Emit(OpJump)
	t.emitAddr(l)
}

func (t *Translator) emitStop() {
	t.prog.Emit(OpStop)
}
