// Package ssa is a small, arena-indexed static-single-assignment IR. Every
// value is produced by exactly one instruction, referenced by its basic
// block plus the instruction's index within that block's Instrs slice.
// Blocks are owned solely by their function's Blocks slice; values and
// branch successors refer to them by plain *BasicBlock pointers, and
// blocks are looked up by name through Function.Block. This is a deliberate
// simplification of the original LLVM-backed lifter this package replaces
// (see assembly_lifter.h in the reference sources): a flat module graph
// indexed by integers is easier to reason about and to dump for
// diagnostics than an owning pointer graph.
package ssa

// Type is the (tiny) set of value types this subset of the IR needs.
type Type int

const (
	TypeVoid Type = iota
	TypeI32
	TypeI64
	TypeF32
	TypeF64
	TypePtr // ptr-to-i32, the only pointee type this subset models
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypePtr:
		return "ptr"
	default:
		return "?"
	}
}

// Op is the instruction opcode within a basic block.
type Op int

const (
	OpAlloca Op = iota
	OpLoad
	OpStore
	OpAdd
	OpSub
	OpMul
	OpDivS
	OpICmpEq
	OpICmpSlt
	OpICmpSgt
	OpICmpSle
	OpICmpSge
	OpZext
	OpCall
	OpRet
	OpBr
	OpCondBr
	OpIntToPtr
	OpPtrToInt
	OpBitCast
)

func (o Op) String() string {
	names := [...]string{
		"alloca", "load", "store", "add", "sub", "mul", "div_s",
		"icmp_eq", "icmp_slt", "icmp_sgt", "icmp_sle", "icmp_sge",
		"zext", "call", "ret", "br", "condbr",
		"inttoptr", "ptrtoint", "bitcast",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return "?"
}

// IsTerminator reports whether this opcode ends a basic block.
func (o Op) IsTerminator() bool {
	return o == OpRet || o == OpBr || o == OpCondBr
}

// ValueKind distinguishes a compile-time constant from a reference to a
// previously emitted instruction's result.
type ValueKind int

const (
	ValConst ValueKind = iota
	ValRef
)

// Value is an SSA operand: either an immediate constant or a reference to
// the instruction (by index within its block) that produced it.
type Value struct {
	Kind  ValueKind
	Imm   int64
	Block *BasicBlock
	Index int // index of the producing instruction within Block.Instrs
}

// ConstValue builds an immediate operand.
func ConstValue(v int64) Value { return Value{Kind: ValConst, Imm: v} }

// RefValue builds an operand referring to the instruction at instrIdx
// within block.
func RefValue(block *BasicBlock, instrIdx int) Value {
	return Value{Kind: ValRef, Block: block, Index: instrIdx}
}
