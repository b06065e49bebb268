// Package wasm (the emitter, see SPEC_FULL.md §4.3) converts a verified
// pkg/ssa module into a stack-machine WebAssembly module — both its
// binary header-plus-placeholder-sections form and its authoritative
// textual S-expression form. Grounded on the wasm_generator.cpp this
// replaces (function-index assignment before per-function conversion)
// and on the doc-comment framing of the onflow-cadence wasm package
// (binary vs. text duality).
package wasm

// ValType is the Wasm value type set this subset models.
type ValType int

const (
	VOID ValType = iota
	I32
	I64
	F32
	F64
)

func (t ValType) String() string {
	switch t {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "void"
	}
}

// WOp is a stack-machine opcode.
type WOp int

const (
	OpI32Const WOp = iota
	OpLocalGet
	OpLocalSet
	OpI32Add
	OpI32Sub
	OpI32Mul
	OpI32DivS
	OpI32DivU
	OpI32Eq
	OpI32Ne
	OpI32LtS
	OpI32LtU
	OpI32GtS
	OpI32GtU
	OpI32LeS
	OpI32LeU
	OpI32GeS
	OpI32GeU
	OpI32Load
	OpI32Store
	OpBrIf
	OpCall
	OpReturn
	OpNop // placeholder for an elided unconditional branch — see spec.md §9
)

var mnemonics = map[WOp]string{
	OpI32Const: "i32.const",
	OpLocalGet: "local.get",
	OpLocalSet: "local.set",
	OpI32Add:   "i32.add",
	OpI32Sub:   "i32.sub",
	OpI32Mul:   "i32.mul",
	OpI32DivS:  "i32.div_s",
	OpI32DivU:  "i32.div_u",
	OpI32Eq:    "i32.eq",
	OpI32Ne:    "i32.ne",
	OpI32LtS:   "i32.lt_s",
	OpI32LtU:   "i32.lt_u",
	OpI32GtS:   "i32.gt_s",
	OpI32GtU:   "i32.gt_u",
	OpI32LeS:   "i32.le_s",
	OpI32LeU:   "i32.le_u",
	OpI32GeS:   "i32.ge_s",
	OpI32GeU:   "i32.ge_u",
	OpI32Load:  "i32.load",
	OpI32Store: "i32.store",
	OpBrIf:     "br_if",
	OpCall:     "call",
	OpReturn:   "return",
	OpNop:      "nop",
}

func (o WOp) String() string {
	if s, ok := mnemonics[o]; ok {
		return s
	}
	return "?"
}

// hasImmediate reports whether this opcode carries a trailing integer
// immediate (constant value, local index, branch depth or call index).
func (o WOp) hasImmediate() bool {
	switch o {
	case OpI32Const, OpLocalGet, OpLocalSet, OpBrIf, OpCall:
		return true
	default:
		return false
	}
}

// Instr is one linear stack-machine instruction.
type Instr struct {
	Op  WOp
	Imm int64
}

// Function is one Wasm function: parameters, an optional result, locals
// indexed continuously after the parameter list, and a linear body.
type Function struct {
	Name   string
	Params []ValType
	Result ValType // VOID means no result
	Locals []ValType
	Body   []Instr
}

// Module is a set of functions plus the linear memory declaration.
type Module struct {
	Functions []*Function
	MemoryMin uint32
	MemoryMax uint32
}
