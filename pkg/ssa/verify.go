package ssa

import "fmt"

// Verify checks the invariants spec.md §3/§8 require of every non-
// declaration function: each basic block ends in exactly one terminator,
// a conditional branch carries exactly two successors, an unconditional
// branch exactly one, and a return none.
func Verify(m *Module) error {
	for _, fn := range m.Functions {
		if fn.IsDecl {
			continue
		}
		if err := verifyFunction(fn); err != nil {
			return fmt.Errorf("function %q: %w", fn.Name, err)
		}
	}
	return nil
}

func verifyFunction(fn *Function) error {
	if len(fn.Blocks) == 0 {
		return fmt.Errorf("function has no basic blocks")
	}
	for _, blk := range fn.Blocks {
		if err := verifyBlock(blk); err != nil {
			return fmt.Errorf("block %q: %w", blk.Name, err)
		}
	}
	return nil
}

func verifyBlock(blk *BasicBlock) error {
	if len(blk.Instrs) == 0 {
		return fmt.Errorf("empty block has no terminator")
	}
	for i, instr := range blk.Instrs {
		isLast := i == len(blk.Instrs)-1
		if instr.Op.IsTerminator() {
			if !isLast {
				return fmt.Errorf("terminator %s is not the last instruction", instr.Op)
			}
			switch instr.Op {
			case OpCondBr:
				if len(instr.Succs) != 2 {
					return fmt.Errorf("condbr has %d successors, want 2", len(instr.Succs))
				}
			case OpBr:
				if len(instr.Succs) != 1 {
					return fmt.Errorf("br has %d successors, want 1", len(instr.Succs))
				}
			case OpRet:
				if len(instr.Succs) != 0 {
					return fmt.Errorf("ret has %d successors, want 0", len(instr.Succs))
				}
			}
		} else if isLast {
			return fmt.Errorf("block has no terminator")
		}
	}
	return nil
}
