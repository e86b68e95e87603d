package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chazu/imp/compiler"
)

// compileAndRun takes a source module through the whole pipeline and
// returns the primitive output and the execution error.
func compileAndRun(t *testing.T, src, input string) (string, error) {
	t.Helper()
	mod, err := compiler.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if errs := compiler.Analyze(mod); len(errs) != 0 {
		t.Fatalf("Analyze: %v", errs)
	}

	var out bytes.Buffer
	rt := DefaultRuntime(strings.NewReader(input), &out)
	prog, err := Translate(mod, rt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	vm, err := NewVM(prog, rt)
	if err != nil {
		t.Fatalf("NewVM: %v", err)
	}
	runErr := vm.Run()
	if runErr == nil && vm.StackDepth() != 0 {
		t.Fatalf("residual stack depth %d after stop", vm.StackDepth())
	}
	return out.String(), runErr
}

func TestRunStraightLineCall(t *testing.T) {
	src := `
func add(x: int, y: int): int {
	return x + y
}

func output(v: int): int = "print_int"

output(add(2, 3))
`
	out, err := compileAndRun(t, src, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "5" {
		t.Errorf("output = %q, want %q", out, "5")
	}
}

func TestRunLoopTermination(t *testing.T) {
	src := `
func readInput(): int = "read_int"
func output(v: int): int = "print_int"

while (readInput()) {
	output(1)
}
`
	out, err := compileAndRun(t, src, "3 2 1 0")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "111" {
		t.Errorf("output = %q, want %q", out, "111")
	}
}

func TestRunForwardReferenceEquivalence(t *testing.T) {
	forward := `
func output(v: int): int = "print_int"
output(f(20))
func f(x: int): int { return x + 1 }
`
	backward := `
func output(v: int): int = "print_int"
func f(x: int): int { return x + 1 }
output(f(20))
`
	outF, err := compileAndRun(t, forward, "")
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	outB, err := compileAndRun(t, backward, "")
	if err != nil {
		t.Fatalf("backward: %v", err)
	}
	if outF != outB || outF != "21" {
		t.Errorf("forward = %q, backward = %q, want both %q", outF, outB, "21")
	}
}

func TestRunCallOfInteger(t *testing.T) {
	src := `
func output(v: int): int = "print_int"
func three(): int { return 3 }

output(1)
three()()
output(2)
`
	out, err := compileAndRun(t, src, "")
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("error = %v (%T), want *RuntimeError", err, err)
	}
	// Nothing runs past the fault.
	if out != "1" {
		t.Errorf("output = %q, want %q", out, "1")
	}
}

func TestRunHigherOrder(t *testing.T) {
	src := `
func output(v: int): int = "print_int"
func inc(x: int): int { return x + 1 }
func apply(f: int, x: int): int { return f(x) }

output(apply(inc, 41))
`
	out, err := compileAndRun(t, src, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "42" {
		t.Errorf("output = %q, want %q", out, "42")
	}
}

func TestRunFunctionReturningFunction(t *testing.T) {
	src := `
func output(v: int): int = "print_int"
func inc(x: int): int { return x + 1 }
func pick(): int { return inc }

output(pick()(41))
`
	out, err := compileAndRun(t, src, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "42" {
		t.Errorf("output = %q, want %q", out, "42")
	}
}

func TestRunNestedCalls(t *testing.T) {
	src := `
func output(v: int): int = "print_int"
func add(x: int, y: int): int { return x + y }

output(add(add(1, 2), add(3, add(4, 5))))
`
	out, err := compileAndRun(t, src, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "15" {
		t.Errorf("output = %q, want %q", out, "15")
	}
}

func TestRunImageRoundTrip(t *testing.T) {
	src := `
func output(v: int): int = "print_int"
func add(x: int, y: int): int { return x + y }
output(add(2, 3))
`
	mod, err := compiler.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var first bytes.Buffer
	rt := DefaultRuntime(strings.NewReader(""), &first)
	prog, err := Translate(mod, rt)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	data, err := MarshalProgram(prog)
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	loaded, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram: %v", err)
	}

	var second bytes.Buffer
	vm, err := NewVM(loaded, DefaultRuntime(strings.NewReader(""), &second))
	if err != nil {
		t.Fatalf("NewVM: %v", err)
	}
	if err := vm.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if second.String() != "5" {
		t.Errorf("output after round trip = %q, want %q", second.String(), "5")
	}

	again, err := MarshalProgram(loaded)
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("image encoding is not deterministic")
	}
}

func TestRunDisassembleListing(t *testing.T) {
	src := `
func output(v: int): int = "print_int"
output(7)
`
	mod, err := compiler.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	prog, err := Translate(mod, DefaultRuntime(strings.NewReader(""), &bytes.Buffer{}))
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	listing := prog.Disassemble()
	for _, frag := range []string{"print_int", "PUSH_INT 7", "PUSH_PROTO 0", "CALL", "STOP"} {
		if !strings.Contains(listing, frag) {
			t.Errorf("listing missing %q:\n%s", frag, listing)
		}
	}
}
