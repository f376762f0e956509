package disasm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielcbailey/riscv-core/isa"
)

func TestFormatNopCases(t *testing.T) {
	instrs := []isa.Instruction{
		isa.NewError(0),
		isa.NewImmediate(isa.ADDI, 0, 0, 0),
	}
	lines := strings.Split(strings.TrimRight(Format(instrs), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "nop")
	require.Contains(t, lines[1], "nop")
}

func TestFormatBranchBackwardGetsLabel(t *testing.T) {
	// index 0: label target (an add that zeroes x1), index 1: branch back to it.
	instrs := []isa.Instruction{
		isa.NewRegister(isa.ADD, 1, 0, 0),
		isa.NewBranch(isa.BEQ, 1, 0, -4),
	}
	out := Format(instrs)
	require.Contains(t, out, "L_0:")
	require.Contains(t, out, "beq x1, x0, L_0")
}

func TestFormatOutOfRangeTargetWarns(t *testing.T) {
	instrs := []isa.Instruction{
		isa.NewJump(isa.JAL, 1, 4096),
	}
	out := Format(instrs)
	require.Contains(t, out, "WARNING: target outside of loaded code")
}

func TestFormatUnknownInstructionRendersRawBytes(t *testing.T) {
	instrs := []isa.Instruction{isa.NewError(0xDEADBEEF)}
	out := Format(instrs)
	require.Contains(t, out, "<ef be ad de>")
}

// TestFormatThreeInstructionLabelScenario covers spec.md §8's disassembly
// scenario literally: a 3-instruction program [jal x0,+8][addi x0,x0,0]
// [addi x0,x0,0] labels index 2 as L_0 and renders the jal's target as
// that label.
func TestFormatThreeInstructionLabelScenario(t *testing.T) {
	instrs := []isa.Instruction{
		isa.NewJump(isa.JAL, 0, 8),
		isa.NewImmediate(isa.ADDI, 0, 0, 0),
		isa.NewImmediate(isa.ADDI, 0, 0, 0),
	}
	lines := strings.Split(strings.TrimRight(Format(instrs), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "jal x0, L_0")
	require.Contains(t, lines[2], "L_0:")
}
