package wasm

import "github.com/asmtowasm/asmtowasm/pkg/ssa"

// slotKey identifies one SSA-producing instruction by its position, the
// same way ssa.Value.Index does, so local-index assignment and lookup
// share one key shape.
type slotKey struct {
	block *ssa.BasicBlock
	index int
}

// hasSlot reports whether op is one of the "instructions of interest"
// that get a pre-assigned Wasm local (spec.md §4.3 step 2): every
// alloca, plus every instruction whose value can be read back later.
// Load is included even though the prose table enumerates it separately
// from the alloca/arith/compare/zext/cast list — see DESIGN.md for why
// loads need their own slot under this reading.
func hasSlot(op ssa.Op) bool {
	switch op {
	case ssa.OpAlloca, ssa.OpAdd, ssa.OpSub, ssa.OpMul, ssa.OpDivS,
		ssa.OpICmpEq, ssa.OpICmpSlt, ssa.OpICmpSgt, ssa.OpICmpSle, ssa.OpICmpSge,
		ssa.OpZext, ssa.OpIntToPtr, ssa.OpPtrToInt, ssa.OpBitCast, ssa.OpLoad:
		return true
	default:
		return false
	}
}

func isCompare(op ssa.Op) bool {
	switch op {
	case ssa.OpICmpEq, ssa.OpICmpSlt, ssa.OpICmpSgt, ssa.OpICmpSle, ssa.OpICmpSge:
		return true
	default:
		return false
	}
}

func projType(t ssa.Type) ValType {
	switch t {
	case ssa.TypeI32, ssa.TypePtr:
		return I32
	case ssa.TypeI64:
		return I64
	case ssa.TypeF32:
		return F32
	case ssa.TypeF64:
		return F64
	default:
		return VOID
	}
}

var arithWOp = map[ssa.Op]WOp{
	ssa.OpAdd:  OpI32Add,
	ssa.OpSub:  OpI32Sub,
	ssa.OpMul:  OpI32Mul,
	ssa.OpDivS: OpI32DivS,
}

var predicateWOp = map[ssa.Op]WOp{
	ssa.OpICmpEq:  OpI32Eq,
	ssa.OpICmpSlt: OpI32LtS,
	ssa.OpICmpSgt: OpI32GtS,
	ssa.OpICmpSle: OpI32LeS,
	ssa.OpICmpSge: OpI32GeS,
}

// assignLocals walks fn's blocks in order and gives every slotted
// instruction a local index, continuous after the (always empty)
// parameter list.
func assignLocals(fn *ssa.Function) ([]ValType, map[slotKey]int) {
	var locals []ValType
	slots := make(map[slotKey]int)
	next := 0
	for _, blk := range fn.Blocks {
		for i, instr := range blk.Instrs {
			if !hasSlot(instr.Op) {
				continue
			}
			slots[slotKey{blk, i}] = next
			locals = append(locals, projType(instr.Type))
			next++
		}
	}
	return locals, slots
}

// emitFunction lowers one defined SSA function into a Wasm function body.
func emitFunction(fn *ssa.Function, funcIndex map[*ssa.Function]int) (*Function, error) {
	locals, slots := assignLocals(fn)
	wfn := &Function{
		Name:   fn.Name,
		Result: projType(fn.RetType),
		Locals: locals,
	}

	push := func(v ssa.Value) ([]Instr, error) {
		if v.Kind == ssa.ValConst {
			return []Instr{{Op: OpI32Const, Imm: v.Imm}}, nil
		}
		idx, ok := slots[slotKey{v.Block, v.Index}]
		if !ok {
			return nil, newError(fn.Name, "missing local index for referenced value")
		}
		return []Instr{{Op: OpLocalGet, Imm: int64(idx)}}, nil
	}

	for _, blk := range fn.Blocks {
		for i, instr := range blk.Instrs {
			slot := slots[slotKey{blk, i}]

			switch instr.Op {
			case ssa.OpAlloca:
				// no emission — already a local

			case ssa.OpAdd, ssa.OpSub, ssa.OpMul, ssa.OpDivS:
				lhs, err := push(instr.Args[0])
				if err != nil {
					return nil, err
				}
				rhs, err := push(instr.Args[1])
				if err != nil {
					return nil, err
				}
				wfn.Body = append(wfn.Body, lhs...)
				wfn.Body = append(wfn.Body, rhs...)
				wfn.Body = append(wfn.Body, Instr{Op: arithWOp[instr.Op]})
				wfn.Body = append(wfn.Body, Instr{Op: OpLocalSet, Imm: int64(slot)})

			case ssa.OpICmpEq, ssa.OpICmpSlt, ssa.OpICmpSgt, ssa.OpICmpSle, ssa.OpICmpSge:
				lhs, err := push(instr.Args[0])
				if err != nil {
					return nil, err
				}
				rhs, err := push(instr.Args[1])
				if err != nil {
					return nil, err
				}
				wfn.Body = append(wfn.Body, lhs...)
				wfn.Body = append(wfn.Body, rhs...)
				wfn.Body = append(wfn.Body, Instr{Op: predicateWOp[instr.Op]})
				// result is left on the stack for the zext that always
				// follows a compare in this lifter's output; no local.set

			case ssa.OpZext:
				arg := instr.Args[0]
				switch {
				case arg.Kind == ssa.ValConst:
					p, _ := push(arg)
					wfn.Body = append(wfn.Body, p...)
				case isCompare(arg.Block.Instrs[arg.Index].Op):
					// already on the stack from the comparison just emitted
				case arg.Block.Instrs[arg.Index].Op == ssa.OpLoad:
					p, err := push(arg)
					if err != nil {
						return nil, err
					}
					wfn.Body = append(wfn.Body, p...)
				default:
					return nil, newError(fn.Name, "zero-extension operand is neither a compare, a constant nor a load")
				}
				wfn.Body = append(wfn.Body, Instr{Op: OpLocalSet, Imm: int64(slot)})

			case ssa.OpCall:
				idx, ok := funcIndex[instr.Callee]
				if !ok {
					return nil, newError(fn.Name, "unresolvable call target %q", instr.Callee.Name)
				}
				wfn.Body = append(wfn.Body, Instr{Op: OpCall, Imm: int64(idx)})

			case ssa.OpRet:
				if len(instr.Args) > 0 {
					p, err := push(instr.Args[0])
					if err != nil {
						return nil, err
					}
					wfn.Body = append(wfn.Body, p...)
				}
				wfn.Body = append(wfn.Body, Instr{Op: OpReturn})

			case ssa.OpBr:
				// an elided unconditional branch — see spec.md §9
				wfn.Body = append(wfn.Body, Instr{Op: OpNop})

			case ssa.OpCondBr:
				cond, err := push(instr.Args[0])
				if err != nil {
					return nil, err
				}
				wfn.Body = append(wfn.Body, cond...)
				wfn.Body = append(wfn.Body, Instr{Op: OpBrIf, Imm: 0})

			case ssa.OpLoad:
				addr, err := push(instr.Args[0])
				if err != nil {
					return nil, err
				}
				wfn.Body = append(wfn.Body, addr...)
				wfn.Body = append(wfn.Body, Instr{Op: OpI32Load})
				wfn.Body = append(wfn.Body, Instr{Op: OpLocalSet, Imm: int64(slot)})

			case ssa.OpStore:
				addr, err := push(instr.Args[0])
				if err != nil {
					return nil, err
				}
				val, err := push(instr.Args[1])
				if err != nil {
					return nil, err
				}
				wfn.Body = append(wfn.Body, addr...)
				wfn.Body = append(wfn.Body, val...)
				wfn.Body = append(wfn.Body, Instr{Op: OpI32Store})

			case ssa.OpIntToPtr, ssa.OpPtrToInt, ssa.OpBitCast:
				p, err := push(instr.Args[0])
				if err != nil {
					return nil, err
				}
				wfn.Body = append(wfn.Body, p...)
				wfn.Body = append(wfn.Body, Instr{Op: OpLocalSet, Imm: int64(slot)})

			default:
				return nil, newError(fn.Name, "unhandled SSA opcode %s", instr.Op)
			}
		}
	}

	return wfn, nil
}

// Emit lowers a verified SSA module into a Wasm module. Declaration-only
// functions (never given a body — an unresolved CALL target) are skipped,
// matching the function-index assignment pass in wasm_generator.cpp this
// replaces: indices are handed out before any function body is converted.
func Emit(m *ssa.Module) (*Module, error) {
	wmod := &Module{MemoryMin: 1, MemoryMax: 65536}

	funcIndex := make(map[*ssa.Function]int)
	for _, fn := range m.Functions {
		if fn.IsDecl {
			continue
		}
		funcIndex[fn] = len(funcIndex)
	}

	for _, fn := range m.Functions {
		if fn.IsDecl {
			continue
		}
		wfn, err := emitFunction(fn, funcIndex)
		if err != nil {
			return nil, err
		}
		wmod.Functions = append(wmod.Functions, wfn)
	}

	return wmod, nil
}
