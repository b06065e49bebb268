package wasm

import (
	"fmt"
	"strings"
)

// EncodeText renders m as the authoritative textual S-expression form
// described in spec.md §6, the form the driver (internal/pipeline, run by
// cmd/asmtowasm) writes as the real artifact.
func EncodeText(m *Module) string {
	var sb strings.Builder
	sb.WriteString("(module\n")
	fmt.Fprintf(&sb, "  (memory %d %d)\n", m.MemoryMin, m.MemoryMax)
	for _, fn := range m.Functions {
		writeFunctionText(&sb, fn)
	}
	sb.WriteString(")\n")
	return sb.String()
}

func writeFunctionText(sb *strings.Builder, fn *Function) {
	fmt.Fprintf(sb, "  (func $%s", fn.Name)
	for i, p := range fn.Params {
		fmt.Fprintf(sb, " (param $%d %s)", i, p)
	}
	if fn.Result != VOID {
		fmt.Fprintf(sb, " (result %s)", fn.Result)
	}
	for i, l := range fn.Locals {
		fmt.Fprintf(sb, " (local $%d %s)", len(fn.Params)+i, l)
	}
	sb.WriteString("\n")

	for _, instr := range fn.Body {
		sb.WriteString("    ")
		sb.WriteString(instr.Op.String())
		if instr.Op.hasImmediate() {
			fmt.Fprintf(sb, " %d", instr.Imm)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  )\n")
}
