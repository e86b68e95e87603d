// imp CLI - compiles imp programs to bytecode and runs them on the VM
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/imp/compiler"
	"github.com/chazu/imp/manifest"
	"github.com/chazu/imp/pkg/bytecode"
	"github.com/chazu/imp/store"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("imp")

func main() {
	os.Exit(run())
}

func run() int {
	verbose := flag.Bool("v", false, "Verbose output")
	trace := flag.Bool("trace", false, "Trace executed instructions")
	interactive := flag.Bool("i", false, "Start interactive REPL")
	disasm := flag.Bool("d", false, "Disassemble the program instead of running it")
	emit := flag.String("emit", "", "Write the compiled program image to a file and exit")
	cacheFlag := flag.String("cache", "", "Program image cache (SQLite database)")
	noCache := flag.Bool("no-cache", false, "Bypass the program cache")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: imp [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Compiles and runs an imp source file (.imp) or a compiled image (.impc).\n")
		fmt.Fprintf(os.Stderr, "With no file, the entry from the nearest imp.toml is used.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  imp program.imp              # Compile and run\n")
		fmt.Fprintf(os.Stderr, "  imp -i                       # Start REPL\n")
		fmt.Fprintf(os.Stderr, "  imp -d program.imp           # Show the disassembly\n")
		fmt.Fprintf(os.Stderr, "  imp -emit program.impc program.imp\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	if *interactive {
		return runREPL()
	}

	// The manifest provides defaults for whatever flags and arguments
	// are absent.
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "imp: %v\n", err)
		return 1
	}

	path := flag.Arg(0)
	if path == "" && m != nil {
		path = m.EntryPath()
		log.Infof("using entry %s from %s", path, filepath.Join(m.Dir, "imp.toml"))
	}
	if path == "" {
		flag.Usage()
		return 2
	}

	traceOn := *trace
	cache := *cacheFlag
	if m != nil {
		if !traceOn {
			traceOn = m.Run.Trace
		}
		if cache == "" {
			cache = m.CachePath()
		}
	}
	if *noCache {
		cache = ""
	}

	rt := bytecode.DefaultRuntime(os.Stdin, os.Stdout)

	prog, err := loadProgram(path, cache, rt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imp: %v\n", err)
		return 1
	}

	if *disasm {
		fmt.Print(prog.Disassemble())
		return 0
	}

	if *emit != "" {
		data, err := bytecode.MarshalProgram(prog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "imp: %v\n", err)
			return 1
		}
		if err := os.WriteFile(*emit, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "imp: %v\n", err)
			return 1
		}
		log.Infof("wrote %d bytes to %s", len(data), *emit)
		return 0
	}

	vm, err := bytecode.NewVM(prog, rt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imp: %v\n", err)
		return 1
	}
	vm.Trace = traceOn

	if err := vm.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "imp: %v\n", err)
		return 1
	}
	return 0
}

// loadProgram loads a compiled image directly, or compiles source with
// the cache consulted first.
func loadProgram(path, cache string, rt *bytecode.Runtime) (*bytecode.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if filepath.Ext(path) == ".impc" {
		return bytecode.UnmarshalProgram(data)
	}

	if cache != "" {
		if err := os.MkdirAll(filepath.Dir(cache), 0o755); err != nil {
			log.Warningf("cache unavailable: %v", err)
		} else if s, err := store.Open(cache); err != nil {
			log.Warningf("cache unavailable: %v", err)
		} else {
			defer s.Close()
			return loadCached(s, data, rt)
		}
	}

	return compileSource(data, rt)
}

// loadCached returns the cached image for the source if present, and
// compiles and caches it otherwise.
func loadCached(s *store.Store, source []byte, rt *bytecode.Runtime) (*bytecode.Program, error) {
	hash := store.SourceHash(source)

	image, err := s.Get(hash)
	if err == nil {
		prog, err := bytecode.UnmarshalProgram(image)
		if err == nil {
			log.Debugf("cache hit for %s", hash[:12])
			return prog, nil
		}
		// Stale or corrupt image, recompile.
		log.Warningf("discarding cached image for %s: %v", hash[:12], err)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	prog, err := compileSource(source, rt)
	if err != nil {
		return nil, err
	}

	image, err = bytecode.MarshalProgram(prog)
	if err != nil {
		return nil, err
	}
	if err := s.Put(hash, image); err != nil {
		log.Warningf("cannot cache program: %v", err)
	}
	return prog, nil
}

// compileSource takes source text through the front end and the
// translator.
func compileSource(source []byte, rt *bytecode.Runtime) (*bytecode.Program, error) {
	mod, err := compiler.Parse(string(source))
	if err != nil {
		return nil, err
	}
	if errs := compiler.Analyze(mod); len(errs) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return bytecode.Translate(mod, rt)
}
