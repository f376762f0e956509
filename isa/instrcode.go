// Package isa defines the closed catalog of RISC-V mnemonics this core
// knows, the tagged-union Instruction model, and the Encoder/Decoder that
// translate between that model and 32-bit machine words.
package isa

import (
	"strconv"
	"strings"
)

//go:generate stringer -type=InstrCode

// InstrCode is a closed enumeration of every mnemonic the toolchain knows,
// partitioned into contiguous ranges so the category predicates below can
// be implemented as range checks, mirroring the teacher's opcode-family
// switches collapsed into one table.
type InstrCode int

const (
	ERROR InstrCode = iota

	// R-type (register) instructions.
	ADD
	SUB
	SLL
	SLT
	SLTU
	XOR
	SRL
	SRA
	OR
	AND

	// RV64-only arithmetic word ops. Present as enum tags only; never
	// produced by the lexer/parser and never executed (spec Non-goals).
	ADDW
	SUBW
	SLLW
	SRLW
	SRAW

	// I-type (immediate) instructions, including loads, jalr, fence,
	// ecall/ebreak, and the shift-immediate (shamt) forms.
	ADDI
	SLTI
	SLTIU
	XORI
	ORI
	ANDI
	SLLI
	SRLI
	SRAI
	JALR
	ECALL
	EBREAK
	FENCE
	FENCE_I
	LB
	LH
	LW
	LBU
	LHU
	LWU
	LD

	// RV64-only immediate word ops. Tags only, same as the R-type word ops.
	ADDIW
	SLLIW
	SRLIW
	SRAIW

	// S-type (store) instructions.
	SB
	SH
	SW
	SD

	// B-type (branch) instructions.
	BEQ
	BNE
	BLT
	BGE
	BLTU
	BGEU

	// U-type (upper immediate) instructions.
	LUI
	AUIPC

	// J-type (jump) instructions.
	JAL

	// Pseudo-instructions. Never encoded directly; the lowerer expands
	// each into one or two real instructions before the encoder ever sees
	// them.
	MV
	LI
	LA
	J
	JR
	RET
	NOP
	CALL
	SEQZ
	SNEZ
	NOT
	NEG
	BEQZ
	BNEZ
)

// mnemonics maps each InstrCode to its canonical lower-case spelling. The
// string-keyed lookup table used by try_parse is built from this once, at
// package init, so the catalog has a single source of truth.
var mnemonics = map[InstrCode]string{
	ADD: "add", SUB: "sub", SLL: "sll", SLT: "slt", SLTU: "sltu",
	XOR: "xor", SRL: "srl", SRA: "sra", OR: "or", AND: "and",
	ADDW: "addw", SUBW: "subw", SLLW: "sllw", SRLW: "srlw", SRAW: "sraw",
	ADDI: "addi", SLTI: "slti", SLTIU: "sltiu", XORI: "xori", ORI: "ori",
	ANDI: "andi", SLLI: "slli", SRLI: "srli", SRAI: "srai", JALR: "jalr",
	ECALL: "ecall", EBREAK: "ebreak", FENCE: "fence", FENCE_I: "fence.i",
	LB: "lb", LH: "lh", LW: "lw", LBU: "lbu", LHU: "lhu", LWU: "lwu", LD: "ld",
	ADDIW: "addiw", SLLIW: "slliw", SRLIW: "srliw", SRAIW: "sraiw",
	SB: "sb", SH: "sh", SW: "sw", SD: "sd",
	BEQ: "beq", BNE: "bne", BLT: "blt", BGE: "bge", BLTU: "bltu", BGEU: "bgeu",
	LUI: "lui", AUIPC: "auipc",
	JAL: "jal",
	MV:  "mv", LI: "li", LA: "la", J: "j", JR: "jr", RET: "ret", NOP: "nop",
	CALL: "call", SEQZ: "seqz", SNEZ: "snez", NOT: "not", NEG: "neg",
	BEQZ: "beqz", BNEZ: "bnez",
}

var mnemonicToCode map[string]InstrCode

func init() {
	mnemonicToCode = make(map[string]InstrCode, len(mnemonics))
	for code, text := range mnemonics {
		mnemonicToCode[text] = code
	}
}

// TryParse performs a lower-case exact match of text against the mnemonic
// table, per spec. "fence.i" is the sole mnemonic with a dot; it is an
// exact match like any other, not a special case in the lexer.
func TryParse(text string) (InstrCode, bool) {
	code, ok := mnemonicToCode[strings.ToLower(text)]
	return code, ok
}

// Mnemonic returns the canonical spelling of code, or "" for ERROR.
func Mnemonic(code InstrCode) string {
	return mnemonics[code]
}

func (c InstrCode) IsPseudo() bool {
	return c >= MV && c <= BNEZ
}

func (c InstrCode) IsRegType() bool {
	return (c >= ADD && c <= AND) || (c >= ADDW && c <= SRAW)
}

// IsImmType covers addi-family, jalr, fence/fence.i, ecall/ebreak, loads,
// and the shamt forms -- everything the encoder renders with the I-type
// layout.
func (c InstrCode) IsImmType() bool {
	return (c >= ADDI && c <= LD) || (c >= ADDIW && c <= SRAIW)
}

func (c InstrCode) IsStoreType() bool {
	return c >= SB && c <= SD
}

func (c InstrCode) IsBranchType() bool {
	return c >= BEQ && c <= BGEU
}

func (c InstrCode) IsUpperType() bool {
	return c == LUI || c == AUIPC
}

func (c InstrCode) IsJumpType() bool {
	return c == JAL
}

func (c InstrCode) IsLoad() bool {
	switch c {
	case LB, LH, LW, LBU, LHU, LWU, LD:
		return true
	default:
		return false
	}
}

// IsShortImm reports whether code takes a shamt (5- or 6-bit shift amount)
// instead of a full signed 12-bit immediate in its I-type encoding.
func (c InstrCode) IsShortImm() bool {
	switch c {
	case SLLI, SRLI, SRAI, SLLIW, SRLIW, SRAIW:
		return true
	default:
		return false
	}
}

// Is64BitOnly reports whether code is only meaningful on an RV64I build:
// LD, SD, and the word ops (see IsWordOp). This RV32I build parses and
// encodes LD/SD (so the encode/decode round trip holds) but
// vm.Processor.Step rejects them at execution time; the word ops are
// neither parsed nor encoded.
func (c InstrCode) Is64BitOnly() bool {
	switch c {
	case LD, SD:
		return true
	default:
		return c.IsWordOp()
	}
}

// IsWordOp reports whether code is one of the RV64-only arithmetic "word"
// ops (addw/subw/... and addiw/slliw/...) spec.md §1 Non-goals excludes
// outright: unlike LD/SD, these are not encodable and the parser refuses
// to build them from source at all.
func (c InstrCode) IsWordOp() bool {
	return (c >= ADDW && c <= SRAW) || (c >= ADDIW && c <= SRAIW)
}

// RegisterNames maps ABI register names to their numeric index, per spec
// §3. Grounded on the teacher's RegisterNameMap / abiNames table.
var RegisterNames = buildRegisterNames()

func buildRegisterNames() map[string]uint32 {
	names := map[string]uint32{
		"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4, "fp": 8,
		"t0": 5, "t1": 6, "t2": 7, "t3": 28, "t4": 29, "t5": 30, "t6": 31,
		"s0": 8, "s1": 9, "s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22,
		"s7": 23, "s8": 24, "s9": 25, "s10": 26, "s11": 27,
		"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	}
	for i := 0; i <= 31; i++ {
		names["x"+strconv.Itoa(i)] = uint32(i)
	}
	return names
}
