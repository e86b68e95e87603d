package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/chazu/imp/compiler"
	"github.com/chazu/imp/pkg/bytecode"
)

const (
	historyFile = ".imp_history"
	promptMain  = "imp> "
	promptCont  = "...> "
)

// The REPL predeclares the default primitives so snippets can call them
// without writing the prototypes first.
const replPrelude = `
func output(v: int): int = "print_int"
func input(): int = "read_int"
`

// replSession accumulates declarations across inputs. Each submitted
// snippet is translated together with every declaration seen so far and
// run from scratch; only the snippet's own top-level statements execute.
type replSession struct {
	decls []compiler.Node
	rt    *bytecode.Runtime
	out   *trailingWriter
	trace bool
}

func newReplSession() (*replSession, error) {
	mod, err := compiler.Parse(replPrelude)
	if err != nil {
		return nil, err
	}
	out := &trailingWriter{w: os.Stdout}
	return &replSession{
		decls: mod.Items,
		rt:    bytecode.DefaultRuntime(os.Stdin, out),
		out:   out,
	}, nil
}

func runREPL() int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		ln.Close()
		os.Exit(130)
	}()

	sess, err := newReplSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imp: %v\n", err)
		return 1
	}

	fmt.Println("imp REPL. output() and input() are predeclared. :help for help, :quit to exit.")

	for {
		src, ok := readInput(ln)
		if !ok {
			break
		}
		if src == "" {
			continue
		}
		if strings.HasPrefix(src, ":") {
			if quit := sess.command(src); quit {
				break
			}
			continue
		}
		if err := sess.eval(src); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}
	return 0
}

// readInput reads one snippet, prompting for continuation lines while
// the partial input still parses as truncated.
func readInput(ln *liner.State) (string, bool) {
	line, err := ln.Prompt(promptMain)
	if err == liner.ErrPromptAborted {
		return "", true
	}
	if err == io.EOF {
		fmt.Println()
		return "", false
	}
	if err != nil {
		return "", false
	}

	src := line
	for needsMore(src) {
		more, err := ln.Prompt(promptCont)
		if err != nil {
			break
		}
		src = src + "\n" + more
	}
	if strings.TrimSpace(src) != "" {
		ln.AppendHistory(src)
	}
	return strings.TrimSpace(src), true
}

// needsMore reports whether the parse failed at end of input, meaning
// the snippet is incomplete rather than wrong.
func needsMore(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	_, err := compiler.Parse(src)
	var perr *compiler.Error
	if errors.As(err, &perr) {
		return perr.Pos.Offset >= len(src)
	}
	return false
}

func (s *replSession) command(cmd string) (quit bool) {
	switch cmd {
	case ":quit", ":q":
		return true
	case ":help", ":h":
		fmt.Println("Enter declarations or statements. A bare expression prints its value.")
		fmt.Println("  :decls        list accumulated declarations")
		fmt.Println("  :trace        toggle instruction tracing")
		fmt.Println("  :reset        drop accumulated declarations")
		fmt.Println("  :quit         exit")
	case ":decls":
		for _, item := range s.decls {
			fmt.Println(declName(item))
		}
	case ":trace":
		s.trace = !s.trace
		fmt.Printf("trace %v\n", s.trace)
	case ":reset":
		fresh, err := newReplSession()
		if err == nil {
			s.decls = fresh.decls
		}
		fmt.Println("declarations reset")
	default:
		fmt.Printf("unknown command %s\n", cmd)
	}
	return false
}

// eval compiles and runs one snippet against the accumulated
// declarations. New declarations are retained only if the snippet ran
// cleanly.
func (s *replSession) eval(src string) error {
	mod, err := compiler.Parse(src)
	if err != nil {
		return err
	}

	// A lone expression is echoed back through output().
	if len(mod.Items) == 1 {
		if es, ok := mod.Items[0].(*compiler.ExprStmt); ok {
			es.Expr = &compiler.CallExpr{
				PosVal: es.Pos(),
				Callee: &compiler.RefExpr{PosVal: es.Pos(), Name: "output"},
				Args:   []compiler.Expr{es.Expr},
			}
		}
	}

	decls := s.decls
	for _, item := range mod.Items {
		if name := declName(item); name != "" {
			decls = removeDecl(decls, name)
		}
	}

	combined := &compiler.Module{Items: append(append([]compiler.Node{}, decls...), mod.Items...)}
	if errs := compiler.Analyze(combined); len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}

	prog, err := bytecode.Translate(combined, s.rt)
	if err != nil {
		return err
	}
	vm, err := bytecode.NewVM(prog, s.rt)
	if err != nil {
		return err
	}
	vm.Trace = s.trace

	s.out.wrote = false
	if err := vm.Run(); err != nil {
		return err
	}
	if s.out.wrote && s.out.last != '\n' {
		fmt.Println()
	}

	for _, item := range mod.Items {
		if declName(item) != "" {
			s.decls = append(removeDecl(s.decls, declName(item)), item)
		}
	}
	return nil
}

// declName returns the declared name, or "" for statements.
func declName(item compiler.Node) string {
	switch d := item.(type) {
	case *compiler.FuncDecl:
		return d.Name
	case *compiler.ProtoDecl:
		return d.Name
	}
	return ""
}

// removeDecl drops the declaration with the given name, allowing the
// REPL to redefine names across inputs.
func removeDecl(decls []compiler.Node, name string) []compiler.Node {
	out := make([]compiler.Node, 0, len(decls))
	for _, d := range decls {
		if declName(d) != name {
			out = append(out, d)
		}
	}
	return out
}

// trailingWriter tracks whether program output ended in a newline so
// the REPL can keep its prompt on a fresh line.
type trailingWriter struct {
	w     io.Writer
	wrote bool
	last  byte
}

func (t *trailingWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		t.wrote = true
		t.last = p[len(p)-1]
	}
	return t.w.Write(p)
}
