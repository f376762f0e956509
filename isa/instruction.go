package isa

// Shape identifies which of the encoding tables (§4.4/§4.5 of the spec)
// an Instruction uses. It is derived from Code, never stored independently,
// so the two can never disagree.
type Shape int

const (
	ShapeRegister Shape = iota
	ShapeImmediate
	ShapeStore
	ShapeBranch
	ShapeUpperImmediate
	ShapeJump
	ShapeError
)

// Instruction is a tagged union over the six real instruction shapes plus
// the Error variant, per spec §3. Only the fields for Shape() are
// meaningful; the rest are left at their zero value. Instruction is a
// plain value type; the assembler patches the Offset/Operand field of its
// pending items in place during label fix-up (asm/item.go patchLabel).
type Instruction struct {
	Code InstrCode

	// Register shape.
	Rd, Rs1, Rs2 uint32

	// Immediate shape: Rd, Rs, Operand.
	Rs uint32

	// Store shape: Rbase, Rs, Offset.
	Rbase uint32

	// Branch/Jump shape: Offset. Upper-immediate shape: Operand (already
	// shifted up by 12, see SPEC_FULL.md §13's Open Question decision).
	Operand int32
	Offset  int32

	// Error variant.
	Raw uint32
}

func (i Instruction) Shape() Shape {
	switch {
	case i.Code == ERROR:
		return ShapeError
	case i.Code.IsRegType():
		return ShapeRegister
	case i.Code.IsImmType():
		return ShapeImmediate
	case i.Code.IsStoreType():
		return ShapeStore
	case i.Code.IsBranchType():
		return ShapeBranch
	case i.Code.IsUpperType():
		return ShapeUpperImmediate
	case i.Code.IsJumpType():
		return ShapeJump
	default:
		return ShapeError
	}
}

// IsJumpLike reports whether the instruction carries a resolvable
// branch/jump offset, per spec §3 ("Branch and Jump are jointly
// 'jump-like'").
func (i Instruction) IsJumpLike() bool {
	s := i.Shape()
	return s == ShapeBranch || s == ShapeJump
}

func NewRegister(code InstrCode, rd, rs1, rs2 uint32) Instruction {
	return Instruction{Code: code, Rd: rd, Rs1: rs1, Rs2: rs2}
}

func NewImmediate(code InstrCode, rd, rs uint32, operand int32) Instruction {
	return Instruction{Code: code, Rd: rd, Rs: rs, Operand: operand}
}

func NewStore(code InstrCode, rbase, rs uint32, offset int32) Instruction {
	return Instruction{Code: code, Rbase: rbase, Rs: rs, Offset: offset}
}

func NewBranch(code InstrCode, rs1, rs2 uint32, offset int32) Instruction {
	return Instruction{Code: code, Rs1: rs1, Rs2: rs2, Offset: offset}
}

func NewUpperImmediate(code InstrCode, rd uint32, operand int32) Instruction {
	return Instruction{Code: code, Rd: rd, Operand: operand}
}

func NewJump(code InstrCode, rd uint32, offset int32) Instruction {
	return Instruction{Code: code, Rd: rd, Offset: offset}
}

func NewError(raw uint32) Instruction {
	return Instruction{Code: ERROR, Raw: raw}
}

// IsHaltWord reports whether this Error carries the all-zero raw word that
// the execution engine and disassembler both treat as a deliberate nop/halt
// sentinel, per spec §4.6/§4.7.
func (i Instruction) IsHaltWord() bool {
	return i.Code == ERROR && i.Raw == 0
}
