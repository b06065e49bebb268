package wasm

import (
	"strings"
	"testing"

	"github.com/asmtowasm/asmtowasm/pkg/lifter"
	"github.com/asmtowasm/asmtowasm/pkg/parser"
)

func mustLift(t *testing.T, src string) *Module {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ssaMod, err := lifter.Lift(prog)
	if err != nil {
		t.Fatalf("lift: %v", err)
	}
	wmod, err := Emit(ssaMod)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	return wmod
}

func TestEmitSimpleMovRet(t *testing.T) {
	m := mustLift(t, "mov %eax, 5\nret %eax")
	if len(m.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(m.Functions))
	}
	fn := m.Functions[0]
	last := fn.Body[len(fn.Body)-1]
	if last.Op != OpReturn {
		t.Errorf("expected body to end in return, got %s", last.Op)
	}
}

// TestEmitLoadAlwaysPrecedesItsLocalGet checks that any local slot which is
// ever the target of a local.set (a load/arith/zext/cast result — address
// allocas are never set, only read, under this emitter's placeholder
// address model) is always set before it is read.
func TestEmitLoadAlwaysPrecedesItsLocalGet(t *testing.T) {
	m := mustLift(t, "mov %eax, 1\nmov %ebx, %eax\nret %ebx")
	fn := m.Functions[0]

	everSet := map[int64]bool{}
	for _, instr := range fn.Body {
		if instr.Op == OpLocalSet {
			everSet[instr.Imm] = true
		}
	}

	defined := map[int64]bool{}
	for _, instr := range fn.Body {
		switch instr.Op {
		case OpLocalSet:
			defined[instr.Imm] = true
		case OpLocalGet:
			if everSet[instr.Imm] && !defined[instr.Imm] {
				t.Errorf("local.get %d read before any local.set", instr.Imm)
			}
		}
	}
}

func TestEmitStoreAddressBeforeValue(t *testing.T) {
	m := mustLift(t, "mov %eax, 5\nmov (%esi+4), %eax\nret")
	fn := m.Functions[0]
	for i, instr := range fn.Body {
		if instr.Op == OpI32Store {
			// the instruction directly before an i32.store must be the
			// value push, and something must have pushed the address
			// before that — i.e. there are at least 2 pushes ahead of it.
			if i < 2 {
				t.Fatalf("i32.store at %d has no room for address+value pushes", i)
			}
		}
	}
}

func TestEmitCallUsesDeclarationOrderIndices(t *testing.T) {
	m := mustLift(t, "main:\n call foo\n ret\nfoo:\n ret")
	if len(m.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(m.Functions))
	}
	main := m.Functions[0]
	var callIdx int64 = -1
	for _, instr := range main.Body {
		if instr.Op == OpCall {
			callIdx = instr.Imm
		}
	}
	if callIdx != 1 {
		t.Errorf("expected call to target index 1 (foo), got %d", callIdx)
	}
}

func TestEmitComparisonFeedsZextWithoutExtraPush(t *testing.T) {
	m := mustLift(t, "main:\n mov %eax, 1\n cmp %eax, 1\n je L\n mov %eax, 2\n L:\n ret %eax")
	fn := m.Functions[0]
	foundCompare := false
	for _, instr := range fn.Body {
		if instr.Op == OpI32Eq {
			foundCompare = true
		}
	}
	if !foundCompare {
		t.Errorf("expected an i32.eq from the CMP-materialized flags")
	}
}

func TestEncodeBinaryHeader(t *testing.T) {
	m := mustLift(t, "mov %eax, 5\nret %eax")
	bin := EncodeBinary(m)
	want := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	if len(bin) < len(want) {
		t.Fatalf("binary too short: %d bytes", len(bin))
	}
	for i, b := range want {
		if bin[i] != b {
			t.Fatalf("header mismatch at byte %d: got %#x want %#x", i, bin[i], b)
		}
	}
}

func TestEncodeTextShape(t *testing.T) {
	m := mustLift(t, "mov %eax, 5\nret %eax")
	text := EncodeText(m)
	if !strings.Contains(text, "(module") {
		t.Errorf("expected (module header, got %s", text)
	}
	if !strings.Contains(text, "(memory 1 65536)") {
		t.Errorf("expected memory declaration, got %s", text)
	}
	if !strings.Contains(text, "(func $main") {
		t.Errorf("expected a main function, got %s", text)
	}
	if !strings.Contains(text, "return") {
		t.Errorf("expected a return instruction, got %s", text)
	}
}

func TestEmitUnresolvableCallTargetErrors(t *testing.T) {
	// "foo" is referenced by CALL but never labeled, so it stays a pure
	// declaration and never gets a function index. Calling it from a
	// defined function must surface as an EmitError.
	prog, err := parser.Parse("call foo\nret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ssaMod, err := lifter.Lift(prog)
	if err != nil {
		t.Fatalf("lift: %v", err)
	}
	if _, err := Emit(ssaMod); err == nil {
		t.Fatal("expected an emit error for an unresolvable call target")
	}
}
