package isa

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestEncodeDecodeRoundTrip covers spec.md §8's property #1: every real
// instruction built within its documented operand ranges survives an
// encode→decode round trip, Decode(Encode(i)) == i.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Instruction{
		NewRegister(ADD, 5, 6, 7),
		NewRegister(SUB, 1, 2, 3),
		NewRegister(SLL, 10, 11, 12),
		NewRegister(SLT, 1, 0, 2),
		NewRegister(SLTU, 1, 0, 2),
		NewRegister(XOR, 8, 9, 10),
		NewRegister(SRL, 8, 9, 10),
		NewRegister(SRA, 8, 9, 10),
		NewRegister(OR, 8, 9, 10),
		NewRegister(AND, 8, 9, 10),
		NewImmediate(ADDI, 5, 6, -100),
		NewImmediate(ADDI, 5, 6, 2047),
		NewImmediate(ADDI, 5, 6, -2048),
		NewImmediate(SLTI, 5, 6, 12),
		NewImmediate(SLTIU, 5, 6, 12),
		NewImmediate(XORI, 5, 6, -1),
		NewImmediate(ORI, 5, 6, 0xFF),
		NewImmediate(ANDI, 5, 6, 0xF0),
		NewImmediate(SLLI, 5, 6, 7),
		NewImmediate(SRLI, 5, 6, 7),
		NewImmediate(SRAI, 5, 6, 7),
		NewImmediate(JALR, 1, 2, -4),
		NewImmediate(ECALL, 0, 0, 0),
		NewImmediate(EBREAK, 0, 0, 0),
		NewImmediate(FENCE, 0, 0, 0),
		NewImmediate(FENCE_I, 0, 0, 0),
		NewImmediate(LB, 5, 6, -1),
		NewImmediate(LH, 5, 6, 2),
		NewImmediate(LW, 5, 6, 4),
		NewImmediate(LBU, 5, 6, -1),
		NewImmediate(LHU, 5, 6, -1),
		NewImmediate(LWU, 5, 6, -1),
		NewImmediate(LD, 5, 6, 8),
		NewStore(SB, 2, 3, -1),
		NewStore(SH, 2, 3, 2),
		NewStore(SW, 2, 3, 4),
		NewStore(SD, 2, 3, 8),
		NewBranch(BEQ, 1, 2, -8),
		NewBranch(BNE, 1, 2, 1000),
		NewBranch(BLT, 1, 2, -4096),
		NewBranch(BGE, 1, 2, 4092),
		NewBranch(BLTU, 1, 2, 4),
		NewBranch(BGEU, 1, 2, 4),
		NewUpperImmediate(LUI, 5, 0x12345000),
		NewUpperImmediate(AUIPC, 5, -0x1000),
		NewJump(JAL, 1, 1048572),
		NewJump(JAL, 1, -1048576),
	}

	for _, want := range cases {
		t.Run(Mnemonic(want.Code), func(t *testing.T) {
			word, err := Encode(want)
			require.NoError(t, err)
			got := Decode(word)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeRejectsWordOps(t *testing.T) {
	_, err := Encode(NewRegister(ADDW, 1, 2, 3))
	require.Error(t, err)
	_, err = Encode(NewImmediate(ADDIW, 1, 2, 3))
	require.Error(t, err)
}

func TestEncodeRejectsPseudoAndError(t *testing.T) {
	_, err := Encode(Instruction{Code: LI})
	require.Error(t, err)
	_, err = Encode(NewError(0))
	require.Error(t, err)
}

func TestDecodeUnknownEncodingNeverErrors(t *testing.T) {
	got := Decode(0xFFFFFFFF)
	require.Equal(t, ERROR, got.Code)
	require.Equal(t, uint32(0xFFFFFFFF), got.Raw)
}

func TestDecodeAllZeroIsHaltWord(t *testing.T) {
	got := Decode(0)
	require.True(t, got.IsHaltWord())
}

func TestEcallEbreakDisambiguatedByImmediate(t *testing.T) {
	word, err := Encode(NewImmediate(ECALL, 0, 0, 0))
	require.NoError(t, err)
	require.Equal(t, ECALL, Decode(word).Code)

	word, err = Encode(NewImmediate(EBREAK, 0, 0, 0))
	require.NoError(t, err)
	require.Equal(t, EBREAK, Decode(word).Code)
}
