package asm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielcbailey/riscv-core/isa"
)

func decodeWords(t *testing.T, text []byte) []isa.Instruction {
	t.Helper()
	require.Equal(t, 0, len(text)%4)
	out := make([]isa.Instruction, len(text)/4)
	for i := range out {
		out[i] = isa.Decode(binary.LittleEndian.Uint32(text[i*4:]))
	}
	return out
}

func TestAssembleBasicArithmetic(t *testing.T) {
	res, err := Assemble("addi a0, zero, 5\nadd a1, a0, a0\n")
	require.NoError(t, err)
	instrs := decodeWords(t, res.Text)
	require.Len(t, instrs, 2)
	require.Equal(t, isa.NewImmediate(isa.ADDI, 10, 0, 5), instrs[0])
	require.Equal(t, isa.NewRegister(isa.ADD, 11, 10, 10), instrs[1])
}

func TestAssembleForwardAndBackwardLabels(t *testing.T) {
	src := `
loop:
	addi a0, a0, -1
	bnez a0, loop
	j done
done:
	ret
`
	res, err := Assemble(src)
	require.NoError(t, err)
	instrs := decodeWords(t, res.Text)
	require.Len(t, instrs, 4)
	require.Equal(t, isa.NewBranch(isa.BNE, 10, 0, -4), instrs[1])
	require.Equal(t, isa.NewJump(isa.JAL, 0, 4), instrs[2])
	require.Equal(t, isa.NewImmediate(isa.JALR, 0, 1, 0), instrs[3])
}

func TestAssembleLiSplitsTwoSlots(t *testing.T) {
	res, err := Assemble("li t0, 0x12345678\n")
	require.NoError(t, err)
	instrs := decodeWords(t, res.Text)
	require.Len(t, instrs, 2)
	require.Equal(t, isa.LUI, instrs[0].Code)
	require.Equal(t, isa.ADDI, instrs[1].Code)
	require.Equal(t, int32(0x12345000), instrs[0].Operand)
	require.Equal(t, int32(0x678), instrs[1].Operand)
}

func TestAssembleLaResolvesLabelToByteAddress(t *testing.T) {
	src := "la a0, target\nnop\ntarget:\nnop\n"
	res, err := Assemble(src)
	require.NoError(t, err)
	instrs := decodeWords(t, res.Text)
	require.Len(t, instrs, 4)
	require.Equal(t, isa.AUIPC, instrs[0].Code)
	require.Equal(t, isa.ADDI, instrs[1].Code)
	// target is instruction index 3 -> byte address 12, split hi/lo.
	require.Equal(t, int32(0), instrs[0].Operand)
	require.Equal(t, int32(12), instrs[1].Operand)
}

func TestAssembleStoreBothOperandOrders(t *testing.T) {
	a, err := Assemble("sw a0, 4(sp)\n")
	require.NoError(t, err)
	b, err := Assemble("sw sp, a0, 4\n")
	require.NoError(t, err)
	require.Equal(t, a.Text, b.Text)
}

func TestAssembleDataSection(t *testing.T) {
	src := ".text\nlw a0, 0(a1)\n.data\nval:\n.word 42\n"
	res, err := Assemble(src)
	require.NoError(t, err)
	require.Equal(t, uint32(42), binary.LittleEndian.Uint32(res.Data))
}

func TestAssembleUndefinedLabelFails(t *testing.T) {
	_, err := Assemble("j nowhere\n")
	require.Error(t, err)
	var target *ErrUndefinedLabel
	require.ErrorAs(t, err, &target)
}

func TestAssembleRejectsWordOps(t *testing.T) {
	_, err := Assemble("addw a0, a1, a2\n")
	require.Error(t, err)
}

func TestAssembleImmediateOutOfRangeFails(t *testing.T) {
	_, err := Assemble("addi a0, a1, 99999\n")
	require.Error(t, err)
	var target *ErrImmediateRange
	require.ErrorAs(t, err, &target)
}
