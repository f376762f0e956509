package vm

import (
	"github.com/danielcbailey/riscv-core/isa"
	"github.com/danielcbailey/riscv-core/util"
)

// Step executes exactly one instruction, implementing the per-cycle
// procedure of spec.md §4.7 verbatim. It returns (false, nil) on a clean
// halt (PC reached memory length, an infinite self-branch, or an all-zero
// decoded word) and (false, err) on any fatal instruction-level error.
func (p *Processor) Step() (bool, error) {
	p.OldRegisters = p.Registers

	memLen := p.Memory.Len()
	if uint32(p.PC) == memLen {
		return false, nil
	}
	if p.PC < 0 || uint32(p.PC) > memLen-4 {
		return false, p.fault("pc 0x%08X out of bounds [0, 0x%08X]", uint32(p.PC), memLen)
	}

	word, err := p.Memory.ReadWord(uint32(p.PC))
	if err != nil {
		return false, p.fault("%s", err.Error())
	}
	instr := isa.Decode(word)

	if instr.Code == isa.ERROR {
		if instr.IsHaltWord() {
			return false, nil
		}
		return false, p.fault("invalid instruction 0x%08X", instr.Raw)
	}

	if instr.IsJumpLike() && instr.Offset%4 != 0 {
		return false, p.fault("%s: offset %d is not a multiple of 4", isa.Mnemonic(instr.Code), instr.Offset)
	}

	entryPC := p.PC
	pcAssigned := false
	if err := p.dispatch(instr, &pcAssigned); err != nil {
		return false, err
	}

	p.Registers[0] = 0
	if !pcAssigned {
		p.PC += 4
	} else if p.PC == entryPC {
		return false, nil
	}
	return true, nil
}

// dispatch mutates registers and/or PC for one decoded instruction, per
// spec.md §4.7's semantic table. pcAssigned is set true whenever PC is
// written explicitly, so Step knows whether to apply the default PC += 4.
func (p *Processor) dispatch(in isa.Instruction, pcAssigned *bool) error {
	switch in.Shape() {
	case isa.ShapeRegister:
		return p.execRegister(in)
	case isa.ShapeImmediate:
		return p.execImmediate(in, pcAssigned)
	case isa.ShapeStore:
		return p.execStore(in)
	case isa.ShapeBranch:
		return p.execBranch(in, pcAssigned)
	case isa.ShapeUpperImmediate:
		return p.execUpperImmediate(in)
	case isa.ShapeJump:
		return p.execJump(in, pcAssigned)
	default:
		return p.fault("unimplemented opcode for code %s", isa.Mnemonic(in.Code))
	}
}

func (p *Processor) execRegister(in isa.Instruction) error {
	a, b := p.readReg(in.Rs1), p.readReg(in.Rs2)
	var v int32
	switch in.Code {
	case isa.ADD:
		v = a + b
	case isa.SUB:
		v = a - b
	case isa.SLL:
		v = a << (uint32(b) & 0x1F)
	case isa.SLT:
		v = boolToInt32(a < b)
	case isa.SLTU:
		v = boolToInt32(uint32(a) < uint32(b))
	case isa.XOR:
		v = a ^ b
	case isa.SRL:
		v = int32(uint32(a) >> (uint32(b) & 0x1F))
	case isa.SRA:
		v = a >> (uint32(b) & 0x1F)
	case isa.OR:
		v = a | b
	case isa.AND:
		v = a & b
	default:
		return p.fault("unimplemented register-type op %s", isa.Mnemonic(in.Code))
	}
	p.writeReg(in.Rd, v)
	return nil
}

func (p *Processor) execImmediate(in isa.Instruction, pcAssigned *bool) error {
	switch in.Code {
	case isa.ADDI:
		p.writeReg(in.Rd, p.readReg(in.Rs)+in.Operand)
	case isa.SLTI:
		p.writeReg(in.Rd, boolToInt32(p.readReg(in.Rs) < in.Operand))
	case isa.SLTIU:
		p.writeReg(in.Rd, boolToInt32(uint32(p.readReg(in.Rs)) < uint32(in.Operand)))
	case isa.XORI:
		p.writeReg(in.Rd, p.readReg(in.Rs)^in.Operand)
	case isa.ORI:
		p.writeReg(in.Rd, p.readReg(in.Rs)|in.Operand)
	case isa.ANDI:
		p.writeReg(in.Rd, p.readReg(in.Rs)&in.Operand)
	case isa.SLLI:
		p.writeReg(in.Rd, p.readReg(in.Rs)<<uint32(in.Operand))
	case isa.SRLI:
		p.writeReg(in.Rd, int32(uint32(p.readReg(in.Rs))>>uint32(in.Operand)))
	case isa.SRAI:
		p.writeReg(in.Rd, p.readReg(in.Rs)>>uint32(in.Operand))
	case isa.JALR:
		target := (p.readReg(in.Rs) + in.Operand) &^ 1
		ret := p.PC + 4
		p.PC = target
		*pcAssigned = true
		p.writeReg(in.Rd, ret)
	case isa.ECALL, isa.EBREAK, isa.FENCE, isa.FENCE_I:
		util.LogF("vm: %s executed (no-op)", isa.Mnemonic(in.Code))
	case isa.LD, isa.SD:
		return p.fault("64-bit op on a 32-bit build")
	case isa.LB, isa.LH, isa.LW, isa.LBU, isa.LHU, isa.LWU:
		return p.execLoad(in)
	default:
		return p.fault("unimplemented immediate-type op %s", isa.Mnemonic(in.Code))
	}
	return nil
}

func (p *Processor) execLoad(in isa.Instruction) error {
	addr := uint32(p.readReg(in.Rs) + in.Operand)
	switch in.Code {
	case isa.LB:
		v, err := p.Memory.ReadByte(addr)
		if err != nil {
			return p.fault("%s", err.Error())
		}
		p.writeReg(in.Rd, int32(int8(v)))
	case isa.LH:
		v, err := p.Memory.ReadHalf(addr)
		if err != nil {
			return p.fault("%s", err.Error())
		}
		p.writeReg(in.Rd, int32(int16(v)))
	case isa.LW:
		v, err := p.Memory.ReadWord(addr)
		if err != nil {
			return p.fault("%s", err.Error())
		}
		p.writeReg(in.Rd, int32(v))
	case isa.LBU:
		v, err := p.Memory.ReadByte(addr)
		if err != nil {
			return p.fault("%s", err.Error())
		}
		p.writeReg(in.Rd, int32(v))
	case isa.LHU:
		v, err := p.Memory.ReadHalf(addr)
		if err != nil {
			return p.fault("%s", err.Error())
		}
		p.writeReg(in.Rd, int32(v))
	case isa.LWU:
		return p.fault("64-bit op on a 32-bit build")
	}
	return nil
}

func (p *Processor) execStore(in isa.Instruction) error {
	if in.Code == isa.SD {
		return p.fault("64-bit op on a 32-bit build")
	}
	addr := uint32(p.readReg(in.Rbase) + in.Offset)
	v := uint32(p.readReg(in.Rs))
	var err error
	switch in.Code {
	case isa.SB:
		err = p.Memory.WriteByte(addr, v)
	case isa.SH:
		err = p.Memory.WriteHalf(addr, v)
	case isa.SW:
		err = p.Memory.WriteWord(addr, v)
	default:
		return p.fault("unimplemented store-type op %s", isa.Mnemonic(in.Code))
	}
	if err != nil {
		return p.fault("%s", err.Error())
	}
	return nil
}

func (p *Processor) execBranch(in isa.Instruction, pcAssigned *bool) error {
	a, b := p.readReg(in.Rs1), p.readReg(in.Rs2)
	var taken bool
	switch in.Code {
	case isa.BEQ:
		taken = a == b
	case isa.BNE:
		taken = a != b
	case isa.BLT:
		taken = a < b
	case isa.BGE:
		taken = a >= b
	case isa.BLTU:
		taken = uint32(a) < uint32(b)
	case isa.BGEU:
		taken = uint32(a) >= uint32(b)
	default:
		return p.fault("unimplemented branch-type op %s", isa.Mnemonic(in.Code))
	}
	if taken {
		p.PC += in.Offset
		*pcAssigned = true
	}
	return nil
}

func (p *Processor) execUpperImmediate(in isa.Instruction) error {
	switch in.Code {
	case isa.LUI:
		p.writeReg(in.Rd, in.Operand)
	case isa.AUIPC:
		p.writeReg(in.Rd, p.PC+in.Operand)
	default:
		return p.fault("unimplemented upper-immediate op %s", isa.Mnemonic(in.Code))
	}
	return nil
}

func (p *Processor) execJump(in isa.Instruction, pcAssigned *bool) error {
	if in.Code != isa.JAL {
		return p.fault("unimplemented jump-type op %s", isa.Mnemonic(in.Code))
	}
	ret := p.PC + 4
	p.PC += in.Offset
	*pcAssigned = true
	p.writeReg(in.Rd, ret)
	return nil
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
