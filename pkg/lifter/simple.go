package lifter

import (
	"github.com/asmtowasm/asmtowasm/pkg/parser"
	"github.com/asmtowasm/asmtowasm/pkg/ssa"
)

// LiftSimple is the simplified path the CLI falls back to without
// --lifter: everything lowers into a single `main` function, CMP is a
// no-op (no flag slots are ever materialized), and every jump — JMP and
// every conditional mnemonic alike — is lowered as an unconditional
// branch. It shares every lowering helper with Lift (slots.go,
// opcodes.go); only function/flag discovery differs, per the
// unification note in spec.md §9: the two paths are one lifter with a
// trackFlags switch, not two independent implementations.
func LiftSimple(prog *parser.Program) (*ssa.Module, error) {
	return lift(prog, false)
}
