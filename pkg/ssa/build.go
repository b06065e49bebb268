package ssa

// Builder tracks an insertion point (current function + basic block) and
// appends instructions to it, mirroring the Create* method shape of the
// llvm::IRBuilder this package's lifter originally drove — generalized to
// the arena/index representation described in the package doc.
type Builder struct {
	Fn    *Function
	Block *BasicBlock
}

// NewBuilder returns an unpositioned builder; call SetInsertPoint before
// emitting anything.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) SetInsertPoint(fn *Function, block *BasicBlock) {
	b.Fn = fn
	b.Block = block
}

func (b *Builder) emit(instr Instr) Value {
	idx := len(b.Block.Instrs)
	b.Block.Instrs = append(b.Block.Instrs, instr)
	return RefValue(b.Block, idx)
}

// CreateAlloca materializes a fresh i32 slot named name (a register or
// flag) and returns a pointer value identifying it.
func (b *Builder) CreateAlloca(name string) Value {
	return b.emit(Instr{Op: OpAlloca, Type: TypePtr, Name: name})
}

func (b *Builder) CreateLoad(addr Value) Value {
	return b.emit(Instr{Op: OpLoad, Type: TypeI32, Args: []Value{addr}})
}

func (b *Builder) CreateStore(addr, val Value) {
	b.emit(Instr{Op: OpStore, Type: TypeVoid, Args: []Value{addr, val}})
}

func (b *Builder) CreateBinOp(op Op, lhs, rhs Value) Value {
	return b.emit(Instr{Op: op, Type: TypeI32, Args: []Value{lhs, rhs}})
}

func (b *Builder) CreateICmp(op Op, lhs, rhs Value) Value {
	return b.emit(Instr{Op: op, Type: TypeI32, Args: []Value{lhs, rhs}})
}

func (b *Builder) CreateZext(val Value) Value {
	return b.emit(Instr{Op: OpZext, Type: TypeI32, Args: []Value{val}})
}

func (b *Builder) CreateCall(callee *Function) Value {
	return b.emit(Instr{Op: OpCall, Type: callee.RetType, Callee: callee})
}

// CreateRet terminates the current block, returning val.
func (b *Builder) CreateRet(val Value) {
	b.emit(Instr{Op: OpRet, Type: TypeVoid, Args: []Value{val}})
}

// CreateBr terminates the current block with an unconditional branch.
func (b *Builder) CreateBr(target *BasicBlock) {
	b.emit(Instr{Op: OpBr, Type: TypeVoid, Succs: []*BasicBlock{target}})
}

// CreateCondBr terminates the current block, branching to onTrue if cond
// is non-zero, onFalse otherwise.
func (b *Builder) CreateCondBr(cond Value, onTrue, onFalse *BasicBlock) {
	b.emit(Instr{Op: OpCondBr, Type: TypeVoid, Args: []Value{cond}, Succs: []*BasicBlock{onTrue, onFalse}})
}

func (b *Builder) CreateIntToPtr(val Value) Value {
	return b.emit(Instr{Op: OpIntToPtr, Type: TypePtr, Args: []Value{val}})
}

func (b *Builder) CreatePtrToInt(val Value) Value {
	return b.emit(Instr{Op: OpPtrToInt, Type: TypeI32, Args: []Value{val}})
}

func (b *Builder) CreateBitCast(val Value, t Type) Value {
	return b.emit(Instr{Op: OpBitCast, Type: t, Args: []Value{val}})
}

// Terminated reports whether the current insertion block already ends in
// a terminator (so the caller knows to open a continuation block instead
// of appending after it).
func (b *Builder) Terminated() bool {
	return b.Block.Terminator() != nil
}
