// Command asmtowasm translates a small AT&T-flavored assembly dialect to
// WebAssembly through an SSA IR (pkg/parser -> pkg/lifter -> pkg/emitter),
// following the flag-based CLI style of main.go's -in/-out/-run surface.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/asmtowasm/asmtowasm/internal/pipeline"
)

const version = "asmtowasm 0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("asmtowasm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		wasmPath   string
		wastPath   string
		dumpPath   string
		fullLifter bool
		help       bool
		showVer    bool
		verbose    bool
	)
	fs.StringVar(&wasmPath, "wasm", "", "write the binary module here")
	fs.StringVar(&wastPath, "wast", "", "write the text module here")
	fs.StringVar(&dumpPath, "o", "", "write the SSA IR dump here")
	fs.BoolVar(&fullLifter, "lifter", false, "use the full lifter path (flags + multi-function discovery)")
	fs.BoolVar(&help, "h", false, "print usage")
	fs.BoolVar(&help, "help", false, "print usage")
	fs.BoolVar(&showVer, "v", false, "print version (and the instruction/label summary)")
	fs.BoolVar(&showVer, "version", false, "print version (and the instruction/label summary)")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if help {
		fs.Usage()
		return 1
	}
	if showVer {
		fmt.Fprintln(os.Stderr, version)
		verbose = true
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: asmtowasm [--wasm FILE] [--wast FILE] [-o FILE] [--lifter] <input>")
		return 1
	}
	inPath := fs.Arg(0)

	if wasmPath == "" && wastPath == "" {
		wasmPath, wastPath = pipeline.DefaultOutputPaths(inPath)
	}

	source, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input file %q: %v\n", inPath, err)
		return 1
	}

	opts := pipeline.Options{
		Input:      inPath,
		WasmPath:   wasmPath,
		WastPath:   wastPath,
		DumpPath:   dumpPath,
		FullLifter: fullLifter,
		Verbose:    verbose,
	}

	summary, err := pipeline.Run(string(source), opts)
	if verbose {
		fmt.Fprintf(os.Stderr, "%d instructions, %d labels\n", summary.Instructions, summary.Labels)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "asmtowasm: %v\n", err)
		return 1
	}

	return 0
}
