// Package disasm renders a decoded instruction stream back into assembly
// text, per spec.md §4.6. There is no teacher equivalent (the teacher's
// emulator only ever decodes words it encoded itself, never prints them);
// this package is grounded on the two-pass scan-then-render shape common
// to hand-rolled disassemblers -- collect every in-range branch/jump
// target first, assign it a label, then render every instruction in a
// second pass so a forward branch can already see its label.
package disasm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/danielcbailey/riscv-core/isa"
)

// Disassemble decodes every 4-byte word of text and renders it as one line
// of assembly per instruction, auto-generating `L_<ordinal>` labels for
// every unique in-range jump/branch target.
func Disassemble(text []byte) string {
	instrs := make([]isa.Instruction, len(text)/4)
	for i := range instrs {
		word := uint32(text[i*4]) | uint32(text[i*4+1])<<8 | uint32(text[i*4+2])<<16 | uint32(text[i*4+3])<<24
		instrs[i] = isa.Decode(word)
	}
	return Format(instrs)
}

// Format renders an already-decoded instruction stream. Split out from
// Disassemble so callers that already hold []isa.Instruction (e.g. a REPL
// that just stepped the processor) don't have to re-encode and re-decode.
func Format(instrs []isa.Instruction) string {
	labels := collectLabels(instrs)
	addrWidth := hexWidth(maxAddr(instrs))

	var b strings.Builder
	for i, in := range instrs {
		addr := int32(i * 4)
		line := renderLine(addr, in, labels)
		if label, ok := labels[addr]; ok {
			line = label + ": " + line
		}
		fmt.Fprintf(&b, "0x%0*x: %s\n", addrWidth, uint32(addr), line)
	}
	return b.String()
}

// collectLabels implements spec.md §4.6's label pass: every jump/branch
// target that lands inside the buffer gets a unique L_<ordinal>, ordinals
// assigned in ascending address order so the numbering is stable across
// runs, zero-padded to the width the label count needs.
func collectLabels(instrs []isa.Instruction) map[int32]string {
	limit := int32(len(instrs) * 4)
	seen := make(map[int32]bool)
	for i, in := range instrs {
		if !in.IsJumpLike() {
			continue
		}
		target := int32(i*4) + in.Offset
		if target >= 0 && target < limit {
			seen[target] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	targets := make([]int32, 0, len(seen))
	for t := range seen {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(a, b int) bool { return targets[a] < targets[b] })

	width := len(strconv.Itoa(len(targets) - 1))
	labels := make(map[int32]string, len(targets))
	for ord, t := range targets {
		labels[t] = fmt.Sprintf("L_%0*d", width, ord)
	}
	return labels
}

func maxAddr(instrs []isa.Instruction) int32 {
	if len(instrs) == 0 {
		return 0
	}
	return int32((len(instrs) - 1) * 4)
}

func hexWidth(maxAddr int32) int {
	return len(fmt.Sprintf("%x", uint32(maxAddr)))
}

// renderLine formats one instruction, per the special cases and operand
// rules in spec.md §4.6.
func renderLine(addr int32, in isa.Instruction, labels map[int32]string) string {
	if in.IsHaltWord() {
		return "nop"
	}
	if in.Code == isa.ERROR {
		return renderRawBytes(in.Raw)
	}
	if in.Code == isa.ADDI && in.Rd == 0 && in.Rs == 0 && in.Operand == 0 {
		return "nop"
	}

	mnem := isa.Mnemonic(in.Code)
	switch in.Shape() {
	case isa.ShapeRegister:
		return fmt.Sprintf("%s x%d, x%d, x%d", mnem, in.Rd, in.Rs1, in.Rs2)
	case isa.ShapeImmediate:
		if in.Code.IsLoad() || in.Code == isa.JALR {
			return fmt.Sprintf("%s x%d, %d(x%d)", mnem, in.Rd, in.Operand, in.Rs)
		}
		if in.Code == isa.ECALL || in.Code == isa.EBREAK || in.Code == isa.FENCE || in.Code == isa.FENCE_I {
			return mnem
		}
		return fmt.Sprintf("%s x%d, x%d, %d", mnem, in.Rd, in.Rs, in.Operand)
	case isa.ShapeStore:
		return fmt.Sprintf("%s x%d, %d(x%d)", mnem, in.Rs, in.Offset, in.Rbase)
	case isa.ShapeBranch:
		return fmt.Sprintf("%s x%d, x%d, %s", mnem, in.Rs1, in.Rs2, renderTarget(addr, in.Offset, labels))
	case isa.ShapeJump:
		return fmt.Sprintf("%s x%d, %s", mnem, in.Rd, renderTarget(addr, in.Offset, labels))
	case isa.ShapeUpperImmediate:
		return fmt.Sprintf("%s x%d, %d", mnem, in.Rd, in.Operand>>12)
	default:
		return renderRawBytes(in.Raw)
	}
}

// renderTarget implements the label-vs-raw-offset choice: an in-range
// target prints its label, an out-of-range one keeps the numeric offset
// and appends the warning note spec.md §4.6 requires verbatim.
func renderTarget(addr int32, offset int32, labels map[int32]string) string {
	target := addr + offset
	if label, ok := labels[target]; ok {
		return label
	}
	return fmt.Sprintf("%d # WARNING: target outside of loaded code", offset)
}

// renderRawBytes implements the unknown-instruction fallback: the word's
// four little-endian bytes, hex, space-separated, in angle brackets.
func renderRawBytes(raw uint32) string {
	return fmt.Sprintf("<%02x %02x %02x %02x>",
		raw&0xFF, (raw>>8)&0xFF, (raw>>16)&0xFF, (raw>>24)&0xFF)
}
