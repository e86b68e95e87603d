package bytecode

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// NativeFn is a primitive implemented in the host. A native pops its
// declared arguments from the VM stack and pushes exactly one result, the
// same contract bytecode functions follow, so the code generator can
// account for primitive calls without special cases.
type NativeFn func(vm *VM) error

// Runtime is the registry of primitives available to a program. Programs
// name primitives symbolically; the VM resolves those names against a
// Runtime when it is constructed.
type Runtime struct {
	natives map[string]NativeFn
}

// NewRuntime creates an empty primitive registry.
func NewRuntime() *Runtime {
	return &Runtime{
		natives: make(map[string]NativeFn),
	}
}

// Register binds a primitive name to its implementation. Re-registering a
// name replaces the previous binding.
func (r *Runtime) Register(name string, fn NativeFn) {
	r.natives[name] = fn
}

// Lookup returns the implementation of a named primitive.
func (r *Runtime) Lookup(name string) (NativeFn, bool) {
	fn, ok := r.natives[name]
	return fn, ok
}

// Names returns the registered primitive names in sorted order.
func (r *Runtime) Names() []string {
	names := make([]string, 0, len(r.natives))
	for name := range r.natives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRuntime creates a registry with the standard primitives bound to
// the given streams:
//
//	print_int (1 arg)  - writes its argument as decimal, returns it
//	read_int  (0 args) - reads a decimal integer, returns it
func DefaultRuntime(in io.Reader, out io.Writer) *Runtime {
	r := NewRuntime()
	reader := bufio.NewReader(in)

	r.Register("print_int", func(vm *VM) error {
		n, err := vm.PopInt()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%d", n); err != nil {
			return err
		}
		vm.Push(IntValue(n))
		return nil
	})

	r.Register("read_int", func(vm *VM) error {
		var n int64
		if _, err := fmt.Fscan(reader, &n); err != nil {
			return fmt.Errorf("read_int: %w", err)
		}
		vm.Push(IntValue(n))
		return nil
	})

	return r
}
