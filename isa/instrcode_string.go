// Hand-authored stand-in for the String() method that the
// `//go:generate stringer -type=InstrCode` directive in instrcode.go
// produces. A real stringer run emits _InstrCode_name/_InstrCode_index
// tables rather than this map. Regenerating with `go generate` (with
// golang.org/x/tools/cmd/stringer installed) will replace this file.

package isa

import "strconv"

var _InstrCode_names = map[InstrCode]string{
	ERROR: "ERROR",
	ADD: "ADD", SUB: "SUB", SLL: "SLL", SLT: "SLT", SLTU: "SLTU",
	XOR: "XOR", SRL: "SRL", SRA: "SRA", OR: "OR", AND: "AND",
	ADDW: "ADDW", SUBW: "SUBW", SLLW: "SLLW", SRLW: "SRLW", SRAW: "SRAW",
	ADDI: "ADDI", SLTI: "SLTI", SLTIU: "SLTIU", XORI: "XORI", ORI: "ORI",
	ANDI: "ANDI", SLLI: "SLLI", SRLI: "SRLI", SRAI: "SRAI", JALR: "JALR",
	ECALL: "ECALL", EBREAK: "EBREAK", FENCE: "FENCE", FENCE_I: "FENCE_I",
	LB: "LB", LH: "LH", LW: "LW", LBU: "LBU", LHU: "LHU", LWU: "LWU", LD: "LD",
	ADDIW: "ADDIW", SLLIW: "SLLIW", SRLIW: "SRLIW", SRAIW: "SRAIW",
	SB: "SB", SH: "SH", SW: "SW", SD: "SD",
	BEQ: "BEQ", BNE: "BNE", BLT: "BLT", BGE: "BGE", BLTU: "BLTU", BGEU: "BGEU",
	LUI: "LUI", AUIPC: "AUIPC",
	JAL: "JAL",
	MV:  "MV", LI: "LI", LA: "LA", J: "J", JR: "JR", RET: "RET", NOP: "NOP",
	CALL: "CALL", SEQZ: "SEQZ", SNEZ: "SNEZ", NOT: "NOT", NEG: "NEG",
	BEQZ: "BEQZ", BNEZ: "BNEZ",
}

func (i InstrCode) String() string {
	if name, ok := _InstrCode_names[i]; ok {
		return name
	}
	return "InstrCode(" + strconv.FormatInt(int64(i), 10) + ")"
}
