// Package pipeline wires parser -> lifter -> emitter into the single
// driver cmd/asmtowasm calls, deriving default output paths the way
// main.go's defaultOutputPath does, and fanning the final artifact
// writes out with golang.org/x/sync/errgroup once the pipeline has
// produced immutable output (spec.md §5).
package pipeline

import (
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/asmtowasm/asmtowasm/internal/errs"
	"github.com/asmtowasm/asmtowasm/internal/ioutil"
	wasm "github.com/asmtowasm/asmtowasm/pkg/emitter"
	"github.com/asmtowasm/asmtowasm/pkg/lifter"
	"github.com/asmtowasm/asmtowasm/pkg/parser"
	"github.com/asmtowasm/asmtowasm/pkg/ssa"
)

// Options configures one pipeline run, mirroring the CLI flags of
// spec.md §6.
type Options struct {
	Input      string
	WasmPath   string // "" to skip writing the binary module
	WastPath   string // "" to skip writing the text module
	DumpPath   string // "" to skip writing the IR dump
	FullLifter bool
	Verbose    bool
}

// Summary reports the counts main.cpp prints before lifting, and is also
// logged by cmd/asmtowasm at -v (spec.md's Supplemented Features).
type Summary struct {
	Instructions int
	Labels       int
}

// Run executes one parse -> lift -> emit pass and writes whichever of
// the three artifacts Options asks for. Once parsing has succeeded it
// returns the instruction/label summary even if a later stage fails, so
// callers can still report it on error; a parse error yields a zero Summary.
func Run(src string, opts Options) (Summary, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Instructions: len(prog.Instructions), Labels: len(prog.Labels)}

	var mod *ssa.Module
	if opts.FullLifter {
		mod, err = lifter.Lift(prog)
	} else {
		mod, err = lifter.LiftSimple(prog)
	}
	if err != nil {
		return summary, err
	}

	wmod, err := wasm.Emit(mod)
	if err != nil {
		return summary, err
	}

	if err := writeArtifacts(wmod, mod, opts); err != nil {
		return summary, err
	}
	return summary, nil
}

// DefaultOutputPaths derives the .wasm/.wat stem the way main.go's
// defaultOutputPath does, used when neither --wasm nor --wast is given.
func DefaultOutputPaths(inPath string) (wasmPath, wastPath string) {
	ext := filepath.Ext(inPath)
	stem := strings.TrimSuffix(inPath, ext)
	return stem + ".wasm", stem + ".wat"
}

func writeArtifacts(wmod *wasm.Module, ssaMod *ssa.Module, opts Options) error {
	var g errgroup.Group

	if opts.WasmPath != "" {
		path := opts.WasmPath
		g.Go(func() error {
			if err := ioutil.WriteFile(path, wasm.EncodeBinary(wmod), 0o644); err != nil {
				return errs.Wrap(errs.IO, 0, path, err)
			}
			return nil
		})
	}
	if opts.WastPath != "" {
		path := opts.WastPath
		g.Go(func() error {
			if err := ioutil.WriteFile(path, []byte(wasm.EncodeText(wmod)), 0o644); err != nil {
				return errs.Wrap(errs.IO, 0, path, err)
			}
			return nil
		})
	}
	if opts.DumpPath != "" {
		path := opts.DumpPath
		g.Go(func() error {
			if err := ioutil.WriteFile(path, []byte(ssa.Dump(ssaMod)), 0o644); err != nil {
				return errs.Wrap(errs.IO, 0, path, err)
			}
			return nil
		})
	}

	return g.Wait()
}
