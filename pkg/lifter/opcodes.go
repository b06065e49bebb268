package lifter

import (
	"fmt"

	"github.com/asmtowasm/asmtowasm/pkg/parser"
	"github.com/asmtowasm/asmtowasm/pkg/ssa"
)

// jumpFlag maps a conditional jump opcode to the flag slot it consults.
var jumpFlag = map[parser.Opcode]string{
	parser.JE:  flagZF,
	parser.JNE: flagZF,
	parser.JL:  flagLT,
	parser.JG:  flagGT,
	parser.JLE: flagLE,
	parser.JGE: flagGE,
}

var arithOp = map[parser.Opcode]ssa.Op{
	parser.ADD: ssa.OpAdd,
	parser.SUB: ssa.OpSub,
	parser.MUL: ssa.OpMul,
	parser.DIV: ssa.OpDivS,
}

// lowerInstruction lowers a single parsed instruction at the builder's
// current insertion point, per the table in spec.md §4.2. trackFlags
// selects between the full lifter (CMP materializes flags, jumps are
// conditional) and the simplified path (CMP is a no-op, every jump is
// unconditional) — see simple.go.
func lowerInstruction(b *ssa.Builder, m *ssa.Module, instr parser.Instruction, trackFlags bool) error {
	fn := b.Fn

	switch instr.Opcode {
	case parser.ADD, parser.SUB, parser.MUL, parser.DIV:
		return lowerArith(b, fn, instr)

	case parser.MOV:
		return lowerMov(b, fn, instr)

	case parser.CMP:
		if !trackFlags {
			return nil
		}
		return lowerCmp(b, fn, instr)

	case parser.JMP:
		return lowerJump(b, fn, instr)

	case parser.JE, parser.JNE, parser.JL, parser.JG, parser.JLE, parser.JGE:
		if !trackFlags {
			return lowerJump(b, fn, instr)
		}
		return lowerCondJump(b, fn, instr)

	case parser.CALL:
		return lowerCall(b, m, instr)

	case parser.RET:
		return lowerRet(b, fn, instr)

	case parser.PUSH:
		return lowerPush(b, fn, instr)

	case parser.POP:
		return lowerPop(b, fn, instr)

	default:
		return newError(instr.Line, instr.Opcode.String(), "unhandled instruction in lifter")
	}
}

func lowerArith(b *ssa.Builder, fn *ssa.Function, instr parser.Instruction) error {
	if len(instr.Operands) != 2 {
		return newError(instr.Line, instr.Opcode.String(), "expected 2 operands, got %d", len(instr.Operands))
	}
	lhs, err := loadOperandValue(b, fn, instr.Operands[0], instr.Line)
	if err != nil {
		return err
	}
	rhs, err := loadOperandValue(b, fn, instr.Operands[1], instr.Line)
	if err != nil {
		return err
	}
	result := b.CreateBinOp(arithOp[instr.Opcode], lhs, rhs)

	if instr.Operands[0].Kind == parser.REGISTER {
		slot := getOrCreateSlot(b, fn, instr.Operands[0].Text)
		b.CreateStore(slot, result)
	}
	return nil
}

func lowerMov(b *ssa.Builder, fn *ssa.Function, instr parser.Instruction) error {
	if len(instr.Operands) != 2 {
		return newError(instr.Line, "MOV", "expected 2 operands, got %d", len(instr.Operands))
	}
	dst, src := instr.Operands[0], instr.Operands[1]

	if dst.Kind == parser.MEMORY && src.Kind == parser.MEMORY {
		return newError(instr.Line, "MOV", "both operands are memory operands")
	}

	srcVal, err := loadOperandValue(b, fn, src, instr.Line)
	if err != nil {
		return err
	}

	switch dst.Kind {
	case parser.REGISTER:
		slot := getOrCreateSlot(b, fn, dst.Text)
		b.CreateStore(slot, srcVal)
	case parser.MEMORY:
		addr, err := computeMemoryAddress(b, fn, dst, instr.Line)
		if err != nil {
			return err
		}
		b.CreateStore(addr, srcVal)
	default:
		return newError(instr.Line, "MOV", "invalid destination operand %q", dst.Text)
	}
	return nil
}

func lowerCmp(b *ssa.Builder, fn *ssa.Function, instr parser.Instruction) error {
	if len(instr.Operands) != 2 {
		return newError(instr.Line, "CMP", "expected 2 operands, got %d", len(instr.Operands))
	}
	a, err := loadOperandValue(b, fn, instr.Operands[0], instr.Line)
	if err != nil {
		return err
	}
	bVal, err := loadOperandValue(b, fn, instr.Operands[1], instr.Line)
	if err != nil {
		return err
	}

	set := func(op ssa.Op, flagName string) {
		cmp := b.CreateICmp(op, a, bVal)
		zext := b.CreateZext(cmp)
		slot := getOrCreateSlot(b, fn, flagName)
		b.CreateStore(slot, zext)
	}

	set(ssa.OpICmpEq, flagZF)
	set(ssa.OpICmpSlt, flagLT)
	set(ssa.OpICmpSgt, flagGT)
	set(ssa.OpICmpSle, flagLE)
	set(ssa.OpICmpSge, flagGE)
	return nil
}

func lowerJump(b *ssa.Builder, fn *ssa.Function, instr parser.Instruction) error {
	if len(instr.Operands) != 1 || instr.Operands[0].Kind != parser.OPLABEL {
		return newError(instr.Line, instr.Opcode.String(), "expected a single label operand")
	}
	target := getOrCreateBlock(fn, instr.Operands[0].Text)
	b.CreateBr(target)
	openContinuation(b, fn)
	return nil
}

func lowerCondJump(b *ssa.Builder, fn *ssa.Function, instr parser.Instruction) error {
	if len(instr.Operands) != 1 || instr.Operands[0].Kind != parser.OPLABEL {
		return newError(instr.Line, instr.Opcode.String(), "expected a single label operand")
	}
	target := getOrCreateBlock(fn, instr.Operands[0].Text)
	cont := freshContinuationBlock(fn, b.Block.Name)

	flagSlot := getOrCreateSlot(b, fn, jumpFlag[instr.Opcode])
	cond := b.CreateLoad(flagSlot)

	if instr.Opcode == parser.JNE {
		b.CreateCondBr(cond, cont, target) // taken iff ZF == 0
	} else {
		b.CreateCondBr(cond, target, cont) // taken iff flag != 0
	}

	b.SetInsertPoint(fn, cont)
	return nil
}

func lowerCall(b *ssa.Builder, m *ssa.Module, instr parser.Instruction) error {
	if len(instr.Operands) != 1 || instr.Operands[0].Kind != parser.OPLABEL {
		return newError(instr.Line, "CALL", "expected a single label operand")
	}
	callee := getOrCreateFunction(m, instr.Operands[0].Text)
	b.CreateCall(callee)
	return nil
}

func lowerRet(b *ssa.Builder, fn *ssa.Function, instr parser.Instruction) error {
	var val ssa.Value
	if len(instr.Operands) > 0 {
		v, err := loadOperandValue(b, fn, instr.Operands[0], instr.Line)
		if err != nil {
			return err
		}
		val = v
	} else {
		val = ssa.ConstValue(0)
	}
	b.CreateRet(val)
	return nil
}

func lowerPush(b *ssa.Builder, fn *ssa.Function, instr parser.Instruction) error {
	if len(instr.Operands) != 1 {
		return newError(instr.Line, "PUSH", "expected 1 operand, got %d", len(instr.Operands))
	}
	val, err := loadOperandValue(b, fn, instr.Operands[0], instr.Line)
	if err != nil {
		return err
	}

	spSlot := getOrCreateSlot(b, fn, stackPtrSlot)
	sp := b.CreateLoad(spSlot)
	newSP := b.CreateBinOp(ssa.OpSub, sp, ssa.ConstValue(4))
	b.CreateStore(spSlot, newSP)

	ptr := b.CreateIntToPtr(newSP)
	b.CreateStore(ptr, val)
	return nil
}

func lowerPop(b *ssa.Builder, fn *ssa.Function, instr parser.Instruction) error {
	if len(instr.Operands) != 1 || instr.Operands[0].Kind != parser.REGISTER {
		return newError(instr.Line, "POP", "expected a single register operand")
	}

	spSlot := getOrCreateSlot(b, fn, stackPtrSlot)
	sp := b.CreateLoad(spSlot)
	ptr := b.CreateIntToPtr(sp)
	loaded := b.CreateLoad(ptr)

	newSP := b.CreateBinOp(ssa.OpAdd, sp, ssa.ConstValue(4))
	b.CreateStore(spSlot, newSP)

	dstSlot := getOrCreateSlot(b, fn, instr.Operands[0].Text)
	b.CreateStore(dstSlot, loaded)
	return nil
}

// openContinuation opens a fresh, empty basic block and makes it the
// insertion point, so instructions following an unconditional branch or a
// return do not get appended after an already-terminated block.
func openContinuation(b *ssa.Builder, fn *ssa.Function) {
	cont := freshContinuationBlock(fn, b.Block.Name)
	b.SetInsertPoint(fn, cont)
}

func freshContinuationBlock(fn *ssa.Function, base string) *ssa.BasicBlock {
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s.cont%d", base, i)
		if fn.Block(name) == nil {
			return fn.AddBlock(name)
		}
	}
}
