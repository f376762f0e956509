package isa

// Decode parses a little-endian 32-bit machine word into an Instruction.
// Per spec §4.5/§7, the decoder never throws: an unrecognized opcode or
// field combination produces isa.NewError(raw), never an error return.
// Dispatch is opcode-first then funct3/funct7/immediate, grounded on the
// teacher's executeRType/executeIType/... switch structure in
// emulator/emulator.go rather than a flat reverse of encTable -- several
// mnemonics share an (opcode, funct3) pair and are disambiguated by
// funct7 (R-type) or by the immediate's value (ECALL vs. EBREAK).
func Decode(raw uint32) Instruction {
	opcode := raw & 0x7F
	funct3 := (raw >> 12) & 0x7
	funct7 := (raw >> 25) & 0x7F
	rd := (raw >> 7) & 0x1F
	rs1 := (raw >> 15) & 0x1F
	rs2 := (raw >> 20) & 0x1F

	switch opcode {
	case opRType:
		return decodeRType(raw, funct3, funct7, rd, rs1, rs2)
	case opIType:
		return decodeIType(raw, funct3, funct7, rd, rs1)
	case opLoad:
		return decodeLoad(raw, funct3, rd, rs1)
	case opSType:
		return decodeSType(raw, funct3, rs1, rs2)
	case opBType:
		return decodeBType(raw, funct3, rs1, rs2)
	case opLUI:
		return NewUpperImmediate(LUI, rd, int32(signExtend(raw>>12, 20))<<12)
	case opAUIPC:
		return NewUpperImmediate(AUIPC, rd, int32(signExtend(raw>>12, 20))<<12)
	case opJAL:
		return NewJump(JAL, rd, decodeJImmediate(raw))
	case opJALR:
		return NewImmediate(JALR, rd, rs1, signExtendImm12(raw>>20))
	case opEnv:
		return decodeEnv(raw, rd, rs1)
	case opFence:
		switch funct3 {
		case 0b000:
			return NewImmediate(FENCE, 0, 0, 0)
		case 0b001:
			return NewImmediate(FENCE_I, 0, 0, 0)
		default:
			return NewError(raw)
		}
	default:
		return NewError(raw)
	}
}

func decodeRType(raw, funct3, funct7, rd, rs1, rs2 uint32) Instruction {
	var code InstrCode
	switch funct3 {
	case 0b000:
		if funct7 == 0b0100000 {
			code = SUB
		} else {
			code = ADD
		}
	case 0b001:
		code = SLL
	case 0b010:
		code = SLT
	case 0b011:
		code = SLTU
	case 0b100:
		code = XOR
	case 0b101:
		if funct7 == 0b0100000 {
			code = SRA
		} else {
			code = SRL
		}
	case 0b110:
		code = OR
	case 0b111:
		code = AND
	default:
		return NewError(raw)
	}
	if funct7 != encTable[code].funct7 {
		return NewError(raw)
	}
	return NewRegister(code, rd, rs1, rs2)
}

func decodeIType(raw, funct3, funct7, rd, rs1 uint32) Instruction {
	switch funct3 {
	case 0b000:
		return NewImmediate(ADDI, rd, rs1, signExtendImm12(raw>>20))
	case 0b010:
		return NewImmediate(SLTI, rd, rs1, signExtendImm12(raw>>20))
	case 0b011:
		return NewImmediate(SLTIU, rd, rs1, signExtendImm12(raw>>20))
	case 0b100:
		return NewImmediate(XORI, rd, rs1, signExtendImm12(raw>>20))
	case 0b110:
		return NewImmediate(ORI, rd, rs1, signExtendImm12(raw>>20))
	case 0b111:
		return NewImmediate(ANDI, rd, rs1, signExtendImm12(raw>>20))
	case 0b001:
		if funct7 != 0 {
			return NewError(raw)
		}
		shamt := (raw >> 20) & 0x1F
		return NewImmediate(SLLI, rd, rs1, int32(shamt))
	case 0b101:
		if funct7 != 0 && funct7 != 0b0100000 {
			return NewError(raw)
		}
		shamt := (raw >> 20) & 0x1F
		if funct7 == 0b0100000 {
			return NewImmediate(SRAI, rd, rs1, int32(shamt))
		}
		return NewImmediate(SRLI, rd, rs1, int32(shamt))
	default:
		return NewError(raw)
	}
}

func decodeLoad(raw, funct3, rd, rs1 uint32) Instruction {
	imm := signExtendImm12(raw >> 20)
	switch funct3 {
	case 0b000:
		return NewImmediate(LB, rd, rs1, imm)
	case 0b001:
		return NewImmediate(LH, rd, rs1, imm)
	case 0b010:
		return NewImmediate(LW, rd, rs1, imm)
	case 0b100:
		return NewImmediate(LBU, rd, rs1, imm)
	case 0b101:
		return NewImmediate(LHU, rd, rs1, imm)
	case 0b110:
		return NewImmediate(LWU, rd, rs1, imm)
	case 0b011:
		return NewImmediate(LD, rd, rs1, imm)
	default:
		return NewError(raw)
	}
}

func decodeSType(raw, funct3, rs1, rs2 uint32) Instruction {
	imm11_5 := (raw >> 25) & 0x7F
	imm4_0 := (raw >> 7) & 0x1F
	offset := int32(signExtend((imm11_5<<5)|imm4_0, 12))
	switch funct3 {
	case 0b000:
		return NewStore(SB, rs1, rs2, offset)
	case 0b001:
		return NewStore(SH, rs1, rs2, offset)
	case 0b010:
		return NewStore(SW, rs1, rs2, offset)
	case 0b011:
		return NewStore(SD, rs1, rs2, offset)
	default:
		return NewError(raw)
	}
}

func decodeBType(raw, funct3, rs1, rs2 uint32) Instruction {
	var code InstrCode
	switch funct3 {
	case 0b000:
		code = BEQ
	case 0b001:
		code = BNE
	case 0b100:
		code = BLT
	case 0b101:
		code = BGE
	case 0b110:
		code = BLTU
	case 0b111:
		code = BGEU
	default:
		return NewError(raw)
	}
	return NewBranch(code, rs1, rs2, decodeBImmediate(raw))
}

// decodeEnv disambiguates ECALL from EBREAK by the literal immediate
// value, not by funct7 -- I-type has no real funct7 field, only a 12-bit
// immediate, and bits [31:20] are 0 for ecall and 1 for ebreak.
func decodeEnv(raw, rd, rs1 uint32) Instruction {
	imm := raw >> 20
	if (raw>>12)&0x7 != 0 || rd != 0 || rs1 != 0 {
		return NewError(raw)
	}
	switch imm {
	case 0:
		return NewImmediate(ECALL, 0, 0, 0)
	case 1:
		return NewImmediate(EBREAK, 0, 0, 0)
	default:
		return NewError(raw)
	}
}

func decodeBImmediate(raw uint32) int32 {
	bit12 := (raw >> 31) & 0x1
	bit11 := (raw >> 7) & 0x1
	bits10_5 := (raw >> 25) & 0x3F
	bits4_1 := (raw >> 8) & 0xF
	imm := (bit12 << 12) | (bit11 << 11) | (bits10_5 << 5) | (bits4_1 << 1)
	return int32(signExtend(imm, 13))
}

func decodeJImmediate(raw uint32) int32 {
	bit20 := (raw >> 31) & 0x1
	bits19_12 := (raw >> 12) & 0xFF
	bit11 := (raw >> 20) & 0x1
	bits10_1 := (raw >> 21) & 0x3FF
	imm := (bit20 << 20) | (bits19_12 << 12) | (bit11 << 11) | (bits10_1 << 1)
	return int32(signExtend(imm, 21))
}

// signExtend treats the low `bits` bits of v as a two's-complement signed
// value and sign-extends it to the full 32-bit width.
func signExtend(v uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}

// signExtendImm12 sign-extends a raw 12-bit I/load-type immediate already
// shifted down to bit 0 (caller passes raw>>20).
func signExtendImm12(v uint32) int32 {
	return int32(signExtend(v&0xFFF, 12))
}
