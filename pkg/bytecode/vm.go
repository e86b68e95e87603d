package bytecode

import (
	"fmt"
)

// RuntimeError is an execution fault. It carries the code offset of the
// instruction that faulted.
type RuntimeError struct {
	Offset int
	Msg    string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %04x: %s", e.Offset, e.Msg)
}

// VM executes a translated program against a resolved primitive table.
//
// The machine has a single operand stack and no frame structure. Calls
// push the resumption address onto the operand stack; OpRet's operands
// tell it how much of the stack to unwind.
type VM struct {
	prog    *Program
	natives []NativeFn // indexed by OpPushProto operand
	pc      int
	stack   []Value

	// Debug/trace mode
	Trace bool
}

// NewVM creates a VM for the given program, resolving its primitive
// names against the runtime. Resolution fails if the program names a
// primitive the runtime does not provide.
func NewVM(prog *Program, rt *Runtime) (*VM, error) {
	natives := make([]NativeFn, len(prog.Primitives))
	for i, name := range prog.Primitives {
		fn, ok := rt.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("program requires unknown primitive %q", name)
		}
		natives[i] = fn
	}
	return &VM{
		prog:    prog,
		natives: natives,
		stack:   make([]Value, 0, 256),
	}, nil
}

// Run executes the program from offset zero until OpStop.
func (vm *VM) Run() error {
	vm.pc = 0
	vm.stack = vm.stack[:0]

	for {
		at := vm.pc

		op, err := vm.prog.ReadOpcode(&vm.pc)
		if err != nil {
			return vm.fault(at, "%v", err)
		}

		if vm.Trace {
			fmt.Printf("[%04x] %-12s sp=%d\n", at, op, len(vm.stack))
		}

		switch op {
		case OpPushInt:
			v, err := vm.prog.ReadInt64(&vm.pc)
			if err != nil {
				return vm.fault(at, "%v", err)
			}
			vm.Push(IntValue(v))

		case OpPushFunc:
			addr, err := vm.prog.ReadUint32(&vm.pc)
			if err != nil {
				return vm.fault(at, "%v", err)
			}
			vm.Push(AddrValue(addr))

		case OpPushProto:
			idx, err := vm.prog.ReadUint32(&vm.pc)
			if err != nil {
				return vm.fault(at, "%v", err)
			}
			if int(idx) >= len(vm.natives) {
				return vm.fault(at, "primitive index %d out of range", idx)
			}
			vm.Push(ProtoValue(idx))

		case OpPeek:
			n, err := vm.prog.ReadUint32(&vm.pc)
			if err != nil {
				return vm.fault(at, "%v", err)
			}
			idx := len(vm.stack) - 1 - int(n)
			if idx < 0 {
				return vm.fault(at, "peek %d below stack bottom (sp=%d)", n, len(vm.stack))
			}
			vm.Push(vm.stack[idx])

		case OpPop:
			if _, err := vm.Pop(); err != nil {
				return vm.fault(at, "%v", err)
			}

		case OpAdd:
			b, err := vm.PopInt()
			if err != nil {
				return vm.fault(at, "add: %v", err)
			}
			a, err := vm.PopInt()
			if err != nil {
				return vm.fault(at, "add: %v", err)
			}
			vm.Push(IntValue(a + b))

		case OpJump:
			addr, err := vm.prog.ReadUint32(&vm.pc)
			if err != nil {
				return vm.fault(at, "%v", err)
			}
			vm.pc = int(addr)

		case OpJumpFalse:
			addr, err := vm.prog.ReadUint32(&vm.pc)
			if err != nil {
				return vm.fault(at, "%v", err)
			}
			cond, err := vm.Pop()
			if err != nil {
				return vm.fault(at, "%v", err)
			}
			if !cond.Truthy() {
				vm.pc = int(addr)
			}

		case OpCall:
			callee, err := vm.Pop()
			if err != nil {
				return vm.fault(at, "%v", err)
			}
			switch callee.Kind {
			case ValueAddr:
				// Resumption point is the instruction after the call.
				vm.Push(AddrValue(uint32(vm.pc)))
				vm.pc = int(callee.Addr)
			case ValueProto:
				if err := vm.natives[callee.Proto](vm); err != nil {
					if rerr, ok := err.(*RuntimeError); ok {
						return rerr
					}
					return vm.fault(at, "primitive %s: %v", vm.prog.Primitives[callee.Proto], err)
				}
			default:
				return vm.fault(at, "call of non-callable value %s", callee)
			}

		case OpRet:
			depth, err := vm.prog.ReadUint32(&vm.pc)
			if err != nil {
				return vm.fault(at, "%v", err)
			}
			nargs, err := vm.prog.ReadUint32(&vm.pc)
			if err != nil {
				return vm.fault(at, "%v", err)
			}

			result, err := vm.Pop()
			if err != nil {
				return vm.fault(at, "ret: %v", err)
			}
			if err := vm.drop(int(depth)); err != nil {
				return vm.fault(at, "ret: %v", err)
			}
			retAddr, err := vm.Pop()
			if err != nil {
				return vm.fault(at, "ret: %v", err)
			}
			if retAddr.Kind != ValueAddr {
				return vm.fault(at, "ret: return slot holds %s, not an address", retAddr)
			}
			if err := vm.drop(int(nargs)); err != nil {
				return vm.fault(at, "ret: %v", err)
			}
			vm.Push(result)
			vm.pc = int(retAddr.Addr)

		case OpStop:
			return nil

		default:
			return vm.fault(at, "unknown opcode 0x%02x", byte(op))
		}
	}
}

// fault builds a RuntimeError at the given code offset.
func (vm *VM) fault(offset int, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// Stack helpers. Push and Pop are exported so primitives can follow the
// calling convention.

// Push places a value on top of the operand stack.
func (vm *VM) Push(v Value) {
	vm.stack = append(vm.stack, v)
}

// Pop removes and returns the top of the operand stack.
func (vm *VM) Pop() (Value, error) {
	if len(vm.stack) == 0 {
		return Value{}, fmt.Errorf("stack underflow")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

// PopInt removes the top of the stack, which must be an integer.
func (vm *VM) PopInt() (int64, error) {
	v, err := vm.Pop()
	if err != nil {
		return 0, err
	}
	if v.Kind != ValueInt {
		return 0, fmt.Errorf("expected int, got %s", v)
	}
	return v.Int, nil
}

// drop discards n values from the top of the stack.
func (vm *VM) drop(n int) error {
	if n > len(vm.stack) {
		return fmt.Errorf("stack underflow dropping %d of %d", n, len(vm.stack))
	}
	vm.stack = vm.stack[:len(vm.stack)-n]
	return nil
}

// StackDepth returns the number of values on the operand stack.
func (vm *VM) StackDepth() int {
	return len(vm.stack)
}

// StackTop returns the top of the stack without removing it.
func (vm *VM) StackTop() (Value, bool) {
	if len(vm.stack) == 0 {
		return Value{}, false
	}
	return vm.stack[len(vm.stack)-1], true
}
