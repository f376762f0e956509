// Package vm implements the single-hart execution engine, spec.md §4.7's
// Processor. Grounded on the teacher's EmulatorInstance (emulator/emulator.go,
// emulator/structures.go, emulator/config.go) -- register file, PC, and a
// memory buffer -- but trimmed to the synchronous single-Step loop spec.md
// §4.7/§5 requires: no OS/ecall handoff, no interrupts, no breakpoints, no
// profiling counters. See DESIGN.md for what was dropped and why.
package vm

import (
	"fmt"

	"github.com/danielcbailey/riscv-core/vmconfig"
)

// WordWidth is the build-time constant SPEC_FULL.md §3/§13 names: this
// implementation targets RV32I only. ld/sd are decodable (so the
// encode/decode round trip holds) but Step rejects them.
const WordWidth = 32

// Processor is the spec.md §3 Processor state: 32 general registers, a
// snapshot of the previous cycle's registers for observability, PC, and
// an owned Memory buffer.
type Processor struct {
	Registers    [32]int32
	OldRegisters [32]int32
	PC           int32
	Memory       *Memory
}

// NewProcessor builds a Processor over a fresh Memory loaded with image
// (typically asm.Result.Bytes()), seeding x2 (sp) per profile and starting
// execution at entry -- spec.md §3: "x2 (sp) = L; all other regs = 0; PC
// supplied by the loader (typically 0 or the text offset)." A profile
// requesting any word width other than 32 is rejected: this build only
// implements the RV32I Processor.
func NewProcessor(profile vmconfig.Profile, image []byte, entry uint32) (*Processor, error) {
	if profile.WordWidth != WordWidth {
		return nil, fmt.Errorf("vm: unsupported word width %d (only %d is implemented)", profile.WordWidth, WordWidth)
	}
	regs := [32]int32{}
	regs[2] = int32(profile.StackPointerSeed)
	return &Processor{
		Registers:    regs,
		OldRegisters: regs,
		PC:           int32(entry),
		Memory:       NewMemory(profile.MemorySize, image),
	}, nil
}

// Clone deep-copies the processor: independent memory (vm.Memory.Clone)
// and register state, per spec.md §5's "cloning produces a deep or
// shallow (caller choice) copy of memory plus independent register
// state" -- this is the deep-copy path.
func (p *Processor) Clone() *Processor {
	return &Processor{
		Registers:    p.Registers,
		OldRegisters: p.OldRegisters,
		PC:           p.PC,
		Memory:       p.Memory.Clone(),
	}
}

func (p *Processor) readReg(r uint32) int32 {
	return p.Registers[r]
}

func (p *Processor) writeReg(r uint32, v int32) {
	if r == 0 {
		return
	}
	p.Registers[r] = v
}
