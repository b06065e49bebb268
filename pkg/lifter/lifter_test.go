package lifter

import (
	"testing"

	"github.com/asmtowasm/asmtowasm/pkg/parser"
	"github.com/asmtowasm/asmtowasm/pkg/ssa"
)

func mustParse(t *testing.T, src string) *parser.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return prog
}

func TestLiftSimpleMovRet(t *testing.T) {
	prog := mustParse(t, "mov %eax, 5\nret %eax")
	m, err := Lift(prog)
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	fn := m.Function("main")
	if fn == nil {
		t.Fatal("expected function main")
	}
	if len(fn.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(fn.Blocks))
	}
	if _, ok := fn.Slots["%eax"]; !ok {
		t.Errorf("expected %%eax register to be materialized")
	}
	if err := ssa.Verify(m); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestLiftEveryBlockTerminated(t *testing.T) {
	prog := mustParse(t, "L:")
	m, err := Lift(prog)
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	fn := m.Function("main")
	for _, blk := range fn.Blocks {
		if blk.Terminator() == nil {
			t.Errorf("block %q has no terminator", blk.Name)
		}
	}
}

func TestLiftCmpSetsFlags(t *testing.T) {
	prog := mustParse(t, "main:\n mov %eax, 1\n cmp %eax, 1\n je L\n mov %eax, 2\n L:\n ret %eax")
	m, err := Lift(prog)
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	fn := m.Function("main")
	if _, ok := fn.Slots[flagZF]; !ok {
		t.Fatalf("expected FLAG_ZF to be materialized")
	}

	entry := fn.Block("main")
	term := entry.Terminator()
	if term == nil || term.Op != ssa.OpCondBr {
		t.Fatalf("expected entry block to end in a conditional branch, got %+v", term)
	}
	if len(term.Succs) != 2 {
		t.Fatalf("expected 2 successors, got %d", len(term.Succs))
	}
	if term.Succs[0].Name != "L" {
		t.Errorf("JE should take the L branch on non-zero flag, got %q", term.Succs[0].Name)
	}
}

func TestLiftCallDiscoversTwoFunctions(t *testing.T) {
	prog := mustParse(t, "main:\n call foo\n ret\nfoo:\n ret")
	m, err := Lift(prog)
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	if len(m.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(m.Functions))
	}
	if m.Functions[0].Name != "main" {
		t.Errorf("expected main to be declared first, got %q", m.Functions[0].Name)
	}
	foo := m.Function("foo")
	if foo == nil || foo.IsDecl {
		t.Fatalf("expected foo to be a defined function, got %+v", foo)
	}
}

func TestLiftMemoryOperand(t *testing.T) {
	prog := mustParse(t, "mov (%esi+4), %eax\nret %eax")
	m, err := Lift(prog)
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	fn := m.Function("main")
	if _, ok := fn.Slots["%esi"]; !ok {
		t.Errorf("expected %%esi to be materialized")
	}
	blk := fn.Block("main")
	foundAdd := false
	for _, instr := range blk.Instrs {
		if instr.Op == ssa.OpAdd {
			foundAdd = true
		}
	}
	if !foundAdd {
		t.Errorf("expected an add instruction computing the esi+4 address")
	}
}

func TestLiftSimplePathIgnoresFlags(t *testing.T) {
	prog := mustParse(t, "main:\n mov %eax, 1\n cmp %eax, 1\n je L\n mov %eax, 2\n L:\n ret %eax")
	m, err := LiftSimple(prog)
	if err != nil {
		t.Fatalf("LiftSimple: %v", err)
	}
	fn := m.Function("main")
	if _, ok := fn.Slots[flagZF]; ok {
		t.Errorf("simplified lifter should never materialize flags")
	}
	entry := fn.Block("main")
	term := entry.Terminator()
	if term == nil || term.Op != ssa.OpBr {
		t.Fatalf("expected an unconditional branch, got %+v", term)
	}
}

func TestLiftPushPop(t *testing.T) {
	prog := mustParse(t, "push 5\npop %eax\nret %eax")
	m, err := Lift(prog)
	if err != nil {
		t.Fatalf("Lift: %v", err)
	}
	fn := m.Function("main")
	if _, ok := fn.Slots[stackPtrSlot]; !ok {
		t.Errorf("expected STACK_PTR to be materialized")
	}
	if _, ok := fn.Slots["%eax"]; !ok {
		t.Errorf("expected %%eax to be materialized")
	}
}
