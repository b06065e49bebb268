package parser

import "testing"

func TestClassifyOperand(t *testing.T) {
	tests := []struct {
		in   string
		want OperandKind
	}{
		{"%eax", REGISTER},
		{"%r", REGISTER},
		{"(%esi+4)", MEMORY},
		{"(1000)", MEMORY},
		{"5", IMMEDIATE},
		{"-5", IMMEDIATE},
		{"+5", IMMEDIATE},
		{"L1", OPLABEL},
		{"foo", OPLABEL},
	}
	for _, tc := range tests {
		op, err := classifyOperand(tc.in, 1)
		if err != nil {
			t.Fatalf("classifyOperand(%q): unexpected error: %v", tc.in, err)
		}
		if op.Kind != tc.want {
			t.Errorf("classifyOperand(%q) kind = %v; want %v", tc.in, op.Kind, tc.want)
		}
	}
}

func TestClassifyOperandMalformedImmediate(t *testing.T) {
	if _, err := classifyOperand("1-2", 1); err == nil {
		t.Errorf("expected malformed-immediate error for %q", "1-2")
	}
}

func TestParseSimpleInstruction(t *testing.T) {
	prog, err := Parse("mov %eax, 5\nret %eax")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2", len(prog.Instructions))
	}
	mov := prog.Instructions[0]
	if mov.Opcode != MOV {
		t.Errorf("opcode = %v, want MOV", mov.Opcode)
	}
	if len(mov.Operands) != 2 || mov.Operands[0].Kind != REGISTER || mov.Operands[1].Kind != IMMEDIATE {
		t.Errorf("unexpected operands: %+v", mov.Operands)
	}
}

func TestParseCommentsAndBlankLines(t *testing.T) {
	prog, err := Parse("# a comment\n\nmov %eax, 1 # trailing comment\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog.Instructions) != 1 {
		t.Fatalf("got %d instructions, want 1", len(prog.Instructions))
	}
}

func TestParseLabelHandling(t *testing.T) {
	prog, err := Parse("main:\n mov %eax, 1\n cmp %eax, 1\n je L\n mov %eax, 2\nL:\n ret %eax")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	idx, ok := prog.Labels["main"]
	if !ok || idx != 0 {
		t.Fatalf("label main -> %d, ok=%v; want 0,true", idx, ok)
	}
	if prog.Instructions[0].Label != "main" {
		t.Errorf("instruction 0 should carry label main, got %q", prog.Instructions[0].Label)
	}

	lIdx, ok := prog.Labels["L"]
	if !ok {
		t.Fatalf("label L not found")
	}
	if prog.Instructions[lIdx].Opcode != LABEL || prog.Instructions[lIdx].Label != "L" {
		t.Errorf("instruction at L index should be a standalone LABEL record, got %+v", prog.Instructions[lIdx])
	}
}

func TestParseStandaloneLabelAtEOF(t *testing.T) {
	prog, err := Parse("L:")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog.Instructions) != 1 || prog.Instructions[0].Opcode != LABEL {
		t.Fatalf("expected a single standalone LABEL instruction, got %+v", prog.Instructions)
	}
}

func TestParseUnknownOpcode(t *testing.T) {
	_, err := Parse("foo %eax")
	if err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}

func TestParseDuplicateLabel(t *testing.T) {
	_, err := Parse("L:\n mov %eax, 1\nL:\n ret %eax")
	if err == nil {
		t.Fatal("expected error for duplicate label")
	}
}

func TestParseAliases(t *testing.T) {
	prog, err := Parse("jz L\njnz L\nL:")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if prog.Instructions[0].Opcode != JE {
		t.Errorf("JZ should alias to JE, got %v", prog.Instructions[0].Opcode)
	}
	if prog.Instructions[1].Opcode != JNE {
		t.Errorf("JNZ should alias to JNE, got %v", prog.Instructions[1].Opcode)
	}
}

func TestParseMemoryOperand(t *testing.T) {
	prog, err := Parse("mov (%esi+4), %eax")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mem := prog.Instructions[0].Operands[0]
	if mem.Kind != MEMORY {
		t.Fatalf("expected MEMORY operand, got %v", mem.Kind)
	}
	if mem.Inner != "%esi+4" {
		t.Errorf("Inner = %q, want %q", mem.Inner, "%esi+4")
	}
}
