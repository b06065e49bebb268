package ssa

import (
	"fmt"
	"strings"
)

// Dump renders the module as readable text: one line per block naming its
// successors (used by cmd/inspector to recover the CFG shape), then one
// line per instruction. This is a diagnostic format, not a parseable IR —
// it is what the lifter's verifier failure path and the CLI's -o flag
// both print.
func Dump(m *Module) string {
	var sb strings.Builder
	for _, fn := range m.Functions {
		if fn.IsDecl {
			fmt.Fprintf(&sb, "declare function %s\n", fn.Name)
			continue
		}
		fmt.Fprintf(&sb, "function %s\n", fn.Name)
		for _, blk := range fn.Blocks {
			fmt.Fprintf(&sb, "  block %s -> successors: %s\n", blk.Name, successorNames(blk))
			for i, instr := range blk.Instrs {
				fmt.Fprintf(&sb, "    %%%d = %s\n", i, formatInstr(instr))
			}
		}
	}
	return sb.String()
}

func successorNames(blk *BasicBlock) string {
	term := blk.Terminator()
	if term == nil || len(term.Succs) == 0 {
		return "[]"
	}
	names := make([]string, len(term.Succs))
	for i, s := range term.Succs {
		names[i] = s.Name
	}
	return "[" + strings.Join(names, " ") + "]"
}

func formatInstr(instr Instr) string {
	args := make([]string, len(instr.Args))
	for i, a := range instr.Args {
		args[i] = formatValue(a)
	}
	switch instr.Op {
	case OpAlloca:
		return fmt.Sprintf("alloca %s (%s)", instr.Type, instr.Name)
	case OpCall:
		name := "?"
		if instr.Callee != nil {
			name = instr.Callee.Name
		}
		return fmt.Sprintf("call %s", name)
	default:
		return fmt.Sprintf("%s %s : %s", instr.Op, strings.Join(args, ", "), instr.Type)
	}
}

func formatValue(v Value) string {
	if v.Kind == ValConst {
		return fmt.Sprintf("%d", v.Imm)
	}
	blockName := "?"
	if v.Block != nil {
		blockName = v.Block.Name
	}
	return fmt.Sprintf("%s:%%%d", blockName, v.Index)
}
