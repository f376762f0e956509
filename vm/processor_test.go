package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielcbailey/riscv-core/asm"
	"github.com/danielcbailey/riscv-core/isa"
	"github.com/danielcbailey/riscv-core/vmconfig"
)

func runToHalt(t *testing.T, p *Processor, maxSteps int) {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		ok, err := p.Step()
		require.NoError(t, err)
		if !ok {
			return
		}
	}
	t.Fatalf("program did not halt within %d steps", maxSteps)
}

func assembleAndLoad(t *testing.T, source string, memSize uint32) *Processor {
	t.Helper()
	res, err := asm.Assemble(source)
	require.NoError(t, err)
	profile := vmconfig.DefaultProfile()
	profile.MemorySize = memSize
	profile.StackPointerSeed = memSize
	p, err := NewProcessor(profile, res.Bytes(), 0)
	require.NoError(t, err)
	return p
}

// TestFib6 covers spec.md §8's "Fib(6)" scenario: x1 holds fib(i+1), x3
// holds fib(i) as the running result, x4 counts iterations up to x5=6.
func TestFib6(t *testing.T) {
	source := `
	li x5, 6
	li x3, 0
	li x1, 1
	li x4, 0
loop:
	beq x4, x5, done
	add x6, x3, x1
	mv x3, x1
	mv x1, x6
	addi x4, x4, 1
	j loop
done:
`
	p := assembleAndLoad(t, source, 4096)
	runToHalt(t, p, 100)
	require.Equal(t, int32(8), p.Registers[3])
	require.Equal(t, int32(6), p.Registers[5])
	require.Equal(t, int32(6), p.Registers[4])
}

// TestLoadStoreRoundTrip covers spec.md §8's load/store scenario: a value
// loaded via li is stored to memory and read back unchanged. Per
// SPEC_FULL.md §13's store-operand-order decision, the store addresses
// relative to x0 so the loaded value (not x0's always-zero contents) is
// what round-trips through memory. The program is 4 instructions (16
// bytes) of text, so the store target is placed at 32(x0) -- well above
// the code -- to keep the post-load fetch at PC=16 (the trailing halt)
// from ever reaching the stored data word.
func TestLoadStoreRoundTrip(t *testing.T) {
	p := assembleAndLoad(t, "li x1, 0x1234\nsw x1, 32(x0)\nlw x2, 32(x0)\n", 64)
	runToHalt(t, p, 10)
	require.Equal(t, int32(0x1234), p.Registers[2])
}

// TestBranchBackwardLabel covers spec.md §8's "Branch-backward label"
// scenario: a backward branch loop that terminates after x2-x1 iterations.
func TestBranchBackwardLabel(t *testing.T) {
	p := assembleAndLoad(t, "loop:\naddi x1, x1, 1\nblt x1, x2, loop\n", 256)
	p.Registers[2] = 5
	runToHalt(t, p, 100)
	require.Equal(t, int32(5), p.Registers[1])
}

// TestAuipcJalrSelfLoopHalts covers spec.md §8's "auipc+jalr" scenario.
// auipc computes x5 as the address of the auipc instruction itself (0);
// jalr then jumps to x5+4, which is the jalr instruction's own address --
// a taken jump whose new PC equals its entry PC, the infinite-self-branch
// halt condition of spec.md §4.7/§3's Lifecycle. (The literal offset 0
// in spec.md §8's prose describes a two-instruction cycle, which spec.md
// §4.7's per-instruction detection does not catch; this is the minimal
// program that actually exercises that detection path with this engine.)
func TestAuipcJalrSelfLoopHalts(t *testing.T) {
	p := assembleAndLoad(t, "auipc x5, 0\njalr x0, x5, 4\n", 64)
	ok, err := p.Step() // auipc
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = p.Step() // jalr, jumps to its own address
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, int32(4), p.PC)
}

// TestInvalidInstructionFails covers spec.md §8's "Invalid instruction"
// scenario: a non-zero unrecognized word is a fatal ExecutionError, not a
// clean halt.
func TestInvalidInstructionFails(t *testing.T) {
	mem := make([]byte, 64)
	mem[0], mem[1], mem[2], mem[3] = 0xFF, 0xFF, 0xFF, 0xFF
	p, err := NewProcessor(vmconfig.DefaultProfile(), mem, 0)
	require.NoError(t, err)
	ok, err := p.Step()
	require.False(t, ok)
	require.Error(t, err)
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
}

// TestZeroWordHaltsCleanly exercises the halt-on-zero pragma (spec.md
// §4.6/§4.7 Design Notes): an all-zero word, unlike any other unrecognized
// encoding, halts without error.
func TestZeroWordHaltsCleanly(t *testing.T) {
	p, err := NewProcessor(vmconfig.DefaultProfile(), make([]byte, 64), 0)
	require.NoError(t, err)
	ok, err := p.Step()
	require.NoError(t, err)
	require.False(t, ok)
}

// TestX0Invariant covers spec.md §8 property #5: register 0 is zero after
// any number of steps, even when an instruction targets it as rd.
func TestX0Invariant(t *testing.T) {
	p := assembleAndLoad(t, "addi x0, x0, 5\naddi x1, x0, 1\n", 64)
	runToHalt(t, p, 10)
	require.Equal(t, int32(0), p.Registers[0])
}

// TestAlignmentInvariant covers spec.md §8 property #6: PC is always a
// multiple of 4 at the start of every cycle this engine actually reaches.
func TestAlignmentInvariant(t *testing.T) {
	p := assembleAndLoad(t, "addi x1, x0, 1\naddi x1, x1, 1\naddi x1, x1, 1\n", 64)
	for i := 0; i < 3; i++ {
		require.Equal(t, int32(0), p.PC%4)
		ok, err := p.Step()
		require.NoError(t, err)
		require.True(t, ok)
	}
}

// TestHaltDeterminism covers spec.md §8 property #7: a direct self-branch
// (offset 0) halts on exactly that cycle.
func TestHaltDeterminism(t *testing.T) {
	mem := make([]byte, 64)
	word, err := isa.Encode(isa.NewBranch(isa.BEQ, 0, 0, 0))
	require.NoError(t, err)
	mem[0], mem[1], mem[2], mem[3] = byte(word), byte(word>>8), byte(word>>16), byte(word>>24)
	p, err := NewProcessor(vmconfig.DefaultProfile(), mem, 0)
	require.NoError(t, err)
	ok, err := p.Step()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, int32(0), p.PC)
}

// TestPseudoEquivalence covers spec.md §8 property #4: single-slot
// pseudos produce the same final state as their documented expansion.
func TestPseudoEquivalence(t *testing.T) {
	cases := []struct {
		name     string
		pseudo   string
		expanded string
	}{
		{"mv", "mv x3, x1\n", "add x3, x0, x1\n"},
		{"neg", "neg x3, x1\n", "sub x3, x0, x1\n"},
		{"not", "not x3, x1\n", "xori x3, x1, -1\n"},
		{"seqz", "seqz x3, x1\n", "sltiu x3, x1, 1\n"},
		{"snez", "snez x3, x1\n", "sltu x3, x0, x1\n"},
		{"nop", "nop\n", "addi x0, x0, 0\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pp := assembleAndLoad(t, "addi x1, x0, 7\n"+c.pseudo, 64)
			ep := assembleAndLoad(t, "addi x1, x0, 7\n"+c.expanded, 64)
			runToHalt(t, pp, 10)
			runToHalt(t, ep, 10)
			require.Equal(t, ep.Registers, pp.Registers)
			require.Equal(t, ep.PC, pp.PC)
		})
	}
}
