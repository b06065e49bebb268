package lifter

import (
	"strconv"
	"strings"

	"github.com/asmtowasm/asmtowasm/pkg/parser"
	"github.com/asmtowasm/asmtowasm/pkg/ssa"
)

// Flag pseudo-register names, materialized the same way as a machine
// register: a fresh alloca cached by name on first reference.
const (
	flagZF = "FLAG_ZF"
	flagLT = "FLAG_LT"
	flagGT = "FLAG_GT"
	flagLE = "FLAG_LE"
	flagGE = "FLAG_GE"

	stackPtrSlot = "STACK_PTR"
)

// getOrCreateSlot materializes the alloca backing a register, flag, or the
// pseudo stack pointer, on first reference within fn.
func getOrCreateSlot(b *ssa.Builder, fn *ssa.Function, name string) ssa.Value {
	if v, ok := fn.Slots[name]; ok {
		return v
	}
	v := b.CreateAlloca(name)
	fn.Slots[name] = v
	return v
}

func getOrCreateBlock(fn *ssa.Function, name string) *ssa.BasicBlock {
	if blk := fn.Block(name); blk != nil {
		return blk
	}
	return fn.AddBlock(name)
}

func getOrCreateFunction(m *ssa.Module, name string) *ssa.Function {
	if fn := m.Function(name); fn != nil {
		return fn
	}
	return m.AddFunction(name)
}

// loadOperandValue resolves a parsed operand to an SSA i32 value: a
// register load, an immediate constant, or a memory load through a
// computed address. Label operands have no value form.
func loadOperandValue(b *ssa.Builder, fn *ssa.Function, op parser.Operand, line int) (ssa.Value, error) {
	switch op.Kind {
	case parser.REGISTER:
		slot := getOrCreateSlot(b, fn, op.Text)
		return b.CreateLoad(slot), nil
	case parser.IMMEDIATE:
		n, err := strconv.ParseInt(op.Text, 10, 64)
		if err != nil {
			return ssa.Value{}, newError(line, op.Text, "malformed immediate: %v", err)
		}
		return ssa.ConstValue(n), nil
	case parser.MEMORY:
		addr, err := computeMemoryAddress(b, fn, op, line)
		if err != nil {
			return ssa.Value{}, err
		}
		return b.CreateLoad(addr), nil
	default:
		return ssa.Value{}, newError(line, op.Text, "label operand has no value form")
	}
}

// computeMemoryAddress parses the "(...)" operand body into one of the
// three shapes spec.md §4.2 lists (reg+offset, reg alone, literal) and
// emits the i32 address expression, cast to a pointer.
func computeMemoryAddress(b *ssa.Builder, fn *ssa.Function, op parser.Operand, line int) (ssa.Value, error) {
	inner := strings.ReplaceAll(op.Inner, " ", "")
	if inner == "" {
		return ssa.Value{}, newError(line, op.Text, "empty memory operand")
	}

	var addr ssa.Value
	switch {
	case strings.HasPrefix(inner, "%"):
		if idx := strings.IndexByte(inner, '+'); idx >= 0 {
			regName := inner[:idx]
			offsetStr := inner[idx+1:]
			offset, err := strconv.ParseInt(offsetStr, 10, 64)
			if err != nil {
				return ssa.Value{}, newError(line, op.Text, "malformed memory offset: %v", err)
			}
			slot := getOrCreateSlot(b, fn, regName)
			regVal := b.CreateLoad(slot)
			addr = b.CreateBinOp(ssa.OpAdd, regVal, ssa.ConstValue(offset))
		} else {
			slot := getOrCreateSlot(b, fn, inner)
			addr = b.CreateLoad(slot)
		}
	default:
		lit, err := strconv.ParseInt(inner, 10, 64)
		if err != nil {
			return ssa.Value{}, newError(line, op.Text, "malformed memory literal: %v", err)
		}
		addr = ssa.ConstValue(lit)
	}

	return b.CreateIntToPtr(addr), nil
}
