package asm

import "github.com/danielcbailey/riscv-core/isa"

// labelRefKind distinguishes how a fix-up should compute the resolved
// value and which Instruction field receives it, per spec.md §4.3 Phase 2.
type labelRefKind int

const (
	labelRefNone labelRefKind = iota
	labelRefRelativeOffset    // (target_index - this_index) * 4, patched into Offset
	labelRefAbsoluteOffset    // target byte address, patched into Offset (stores)
	labelRefAbsoluteOperand   // target byte address, patched into Operand (la, li, lui, auipc)
)

// item is one text-section slot produced by Phase 1 of the parser: either
// a fully-formed real instruction, a synthetic pseudo (§2 item 2 of
// spec.md, represented with isa.Instruction's pseudo InstrCode tags), or
// a filler placeholder reserved for the second half of a two-slot pseudo
// (la/li), per spec.md §4.3's filler-slot trick.
//
// When label.kind != labelRefNone, instr's Offset (relative) or Operand
// (absolute, for la) field is a placeholder overwritten by label fix-up
// before lowering ever runs.
type item struct {
	instr isa.Instruction
	label labelRef
	pos   Position
}

type labelRef struct {
	kind labelRefKind
	name string
}

func fillerItem(pos Position) item {
	return item{instr: isa.NewError(0), pos: pos}
}

// patchLabel writes a resolved label value into whichever field label.kind
// designates, overwriting the placeholder the parser left behind.
func (it *item) patchLabel(value int32) {
	switch it.label.kind {
	case labelRefRelativeOffset, labelRefAbsoluteOffset:
		it.instr.Offset = value
	case labelRefAbsoluteOperand:
		it.instr.Operand = value
	}
}
