package asm

import "github.com/danielcbailey/riscv-core/isa"

// lower expands every synthetic item into its real-instruction form, per
// the lowering table in spec.md §6 and the filler-slot trick of §4.3:
// la/li occupy two consecutive slots (the pseudo item itself, already
// reserved a filler right after it during parsing) and lowering fills
// both; every other pseudo occupies exactly the one slot it already has.
func lower(items []item) ([]isa.Instruction, error) {
	out := make([]isa.Instruction, len(items))
	for i := 0; i < len(items); i++ {
		in := items[i].instr
		switch in.Code {
		case isa.BEQZ:
			out[i] = isa.NewBranch(isa.BEQ, in.Rs1, 0, in.Offset)
		case isa.BNEZ:
			out[i] = isa.NewBranch(isa.BNE, in.Rs1, 0, in.Offset)
		case isa.J:
			out[i] = isa.NewJump(isa.JAL, 0, in.Offset)
		case isa.CALL:
			out[i] = isa.NewJump(isa.JAL, 1, in.Offset)
		case isa.JR:
			out[i] = isa.NewImmediate(isa.JALR, 0, in.Rs1, 0)
		case isa.MV:
			out[i] = isa.NewRegister(isa.ADD, in.Rd, 0, in.Rs1)
		case isa.NEG:
			out[i] = isa.NewRegister(isa.SUB, in.Rd, 0, in.Rs1)
		case isa.NOT:
			out[i] = isa.NewImmediate(isa.XORI, in.Rd, in.Rs1, -1)
		case isa.NOP:
			out[i] = isa.NewImmediate(isa.ADDI, 0, 0, 0)
		case isa.RET:
			out[i] = isa.NewImmediate(isa.JALR, 0, 1, 0)
		case isa.SEQZ:
			out[i] = isa.NewImmediate(isa.SLTIU, in.Rd, in.Rs1, 1)
		case isa.SNEZ:
			out[i] = isa.NewRegister(isa.SLTU, in.Rd, 0, in.Rs1)
		case isa.LA:
			hi, lo := splitUpperLower(in.Operand)
			out[i] = isa.NewUpperImmediate(isa.AUIPC, in.Rd, hi)
			out[i+1] = isa.NewImmediate(isa.ADDI, in.Rd, in.Rd, lo)
			i++
		case isa.LI:
			hi, lo := splitUpperLower(in.Operand)
			out[i] = isa.NewUpperImmediate(isa.LUI, in.Rd, hi)
			out[i+1] = isa.NewImmediate(isa.ADDI, in.Rd, in.Rd, lo)
			i++
		default:
			out[i] = in
		}
	}
	return out, nil
}

// splitUpperLower implements the lowering table's formula literally:
// imm & ~0xfff for the upper instruction's pre-shifted operand, imm &
// 0xfff for the lower addi's operand. spec.md §6 writes the formula
// this way, not the bias-corrected variant a production assembler uses.
// lo is brought into addi's signed 12-bit range (>= 0x800 means the bit
// pattern represents a negative addi immediate) -- the encoder only
// keeps the low 12 bits either way, so this is the same bit pattern,
// just the representation the decoder would also produce.
func splitUpperLower(v int32) (hi int32, lo int32) {
	hi = v &^ 0xFFF
	lo = v & 0xFFF
	if lo >= 0x800 {
		lo -= 0x1000
	}
	return hi, lo
}
