package ssa

import "testing"

func TestVerifyCatchesMissingTerminator(t *testing.T) {
	m := &Module{}
	fn := m.AddFunction("main")
	fn.IsDecl = false
	blk := fn.AddBlock("entry")
	b := NewBuilder()
	b.SetInsertPoint(fn, blk)
	b.CreateAlloca("%eax")

	if err := Verify(m); err == nil {
		t.Fatal("expected verify error for block with no terminator")
	}
}

func TestVerifyAcceptsSimpleFunction(t *testing.T) {
	m := &Module{}
	fn := m.AddFunction("main")
	fn.IsDecl = false
	blk := fn.AddBlock("entry")
	b := NewBuilder()
	b.SetInsertPoint(fn, blk)
	b.CreateRet(ConstValue(0))

	if err := Verify(m); err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
}

func TestVerifyAcceptsCondBrWithTwoSuccessors(t *testing.T) {
	m := &Module{}
	fn := m.AddFunction("main")
	fn.IsDecl = false
	entry := fn.AddBlock("entry")
	a := fn.AddBlock("a")
	b := fn.AddBlock("b")

	bld := NewBuilder()
	bld.SetInsertPoint(fn, entry)
	bld.CreateCondBr(ConstValue(1), a, b)

	bldA := NewBuilder()
	bldA.SetInsertPoint(fn, a)
	bldA.CreateRet(ConstValue(1))

	bldB := NewBuilder()
	bldB.SetInsertPoint(fn, b)
	bldB.CreateRet(ConstValue(0))

	if err := Verify(m); err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
}
