// Package vmconfig defines the Processor's load-time profile: memory
// size, stack-pointer seed, word width, and a table of special register
// names. Grounded on the teacher's package-level
// AssemblerConfig/EmulatorConfig GetConfig/SetConfig pattern
// (assembler/assemble.go, emulator/structures.go), restructured as a
// TOML-loadable struct per SPEC_FULL.md §9.
package vmconfig

import "github.com/BurntSushi/toml"

// Profile configures a vm.Processor. SpecialRegisters is loaded from the
// TOML file but nothing in the isa, asm or vm packages reads it; the
// assembler's register names come from isa.RegisterNames only. WordWidth
// is carried for documentation and for gen-instrs
// style tooling; this build only ever runs the vm.WordWidth=32 profile
// named in SPEC_FULL.md §3/§13 — a Profile with WordWidth=64 loads but
// vm.NewProcessor rejects it.
type Profile struct {
	MemorySize       uint32            `toml:"memory_size"`
	StackPointerSeed uint32            `toml:"stack_pointer_seed"`
	WordWidth        int               `toml:"word_width"`
	SpecialRegisters map[string]uint32 `toml:"special_registers"`
}

// DefaultProfile returns the profile cmd and tests use when no TOML file
// is supplied: a 64 KiB address space, stack pointer seeded at the top of
// memory (per spec.md §3's "x2 (sp) = L"), RV32I word width, and an empty
// SpecialRegisters map (the standard ABI names live in isa.RegisterNames).
func DefaultProfile() Profile {
	const memSize = 64 * 1024
	return Profile{
		MemorySize:       memSize,
		StackPointerSeed: memSize,
		WordWidth:        32,
		SpecialRegisters: map[string]uint32{},
	}
}

// Load reads a Profile from a TOML file at path, falling back to
// DefaultProfile for any field the file omits.
func Load(path string) (Profile, error) {
	p := DefaultProfile()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
