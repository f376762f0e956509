package asm

import (
	"encoding/binary"

	"github.com/danielcbailey/riscv-core/isa"
)

// Result is the output of a successful Assemble call: the encoded text
// section and the data section that spec.md doesn't name (SPEC_FULL.md
// §12's supplement), laid out as the vm package expects to load them --
// data immediately following text in the same flat buffer.
type Result struct {
	Text []byte // little-endian 32-bit words, one per real instruction
	Data []byte // little-endian 32-bit words from .data directives
}

// Bytes concatenates Text and Data, the layout vm.NewProcessor loads.
func (r *Result) Bytes() []byte {
	out := make([]byte, 0, len(r.Text)+len(r.Data))
	out = append(out, r.Text...)
	out = append(out, r.Data...)
	return out
}

// Assemble runs the full pipeline named in spec.md §2 items 3-7: lex,
// parse (with label recording), label fix-up, pseudo lowering, encode.
// It fails fast on the first lex/parse/label/encode error, per spec.md
// §7's propagation policy.
func Assemble(source string) (*Result, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}

	p := newParser(tokens)
	if err := p.parseAll(); err != nil {
		return nil, err
	}

	instrs, err := lower(p.items)
	if err != nil {
		return nil, err
	}

	text := make([]byte, len(instrs)*4)
	for i, ins := range instrs {
		word, err := isa.Encode(ins)
		if err != nil {
			return nil, &ErrEncode{Pos: p.items[i].pos, Detail: err.Error()}
		}
		binary.LittleEndian.PutUint32(text[i*4:], word)
	}

	data := make([]byte, len(p.data)*4)
	for i, w := range p.data {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}

	return &Result{Text: text, Data: data}, nil
}
