package asm

import (
	"strings"

	"github.com/danielcbailey/riscv-core/isa"
)

type operandKind int

const (
	opRegister operandKind = iota
	opNumber
	opLabel
	opOffsetBase
)

type operand struct {
	kind operandKind
	pos  Position

	reg   uint32 // opRegister, and the base register of opOffsetBase
	num   int64  // opNumber, and the offset half of opOffsetBase
	label string // opLabel
}

// readOperands consumes tokens up to (not including) the terminating
// Newline/EOF, per spec.md §4.3's operand reader: comma-separated
// operands, with a Number immediately followed by '(' Identifier ')'
// folded into a single OffsetAndBase operand.
func (p *parser) readOperands() ([]operand, error) {
	var ops []operand
	if t := p.peek(); t.Kind == TokenNewline || t.Kind == TokenEOF {
		return nil, nil
	}
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenIdentifier:
			p.advance()
			if reg, ok := isa.RegisterNames[strings.ToLower(tok.Text)]; ok {
				ops = append(ops, operand{kind: opRegister, pos: tok.Pos, reg: reg})
			} else {
				ops = append(ops, operand{kind: opLabel, pos: tok.Pos, label: tok.Text})
			}
		case TokenNumber:
			p.advance()
			if d := p.peek(); d.Kind == TokenDelimiter && d.Text == "(" {
				p.advance()
				baseTok := p.peek()
				if baseTok.Kind != TokenIdentifier {
					return nil, &ErrUnexpectedToken{Pos: baseTok.Pos, Context: "offset-and-base operand", Got: baseTok.String()}
				}
				reg, ok := isa.RegisterNames[strings.ToLower(baseTok.Text)]
				if !ok {
					return nil, &ErrOperandKind{Pos: baseTok.Pos, Mnemonic: "", Detail: "not a register: " + baseTok.Text}
				}
				p.advance()
				if close := p.peek(); close.Kind != TokenDelimiter || close.Text != ")" {
					return nil, &ErrUnexpectedToken{Pos: close.Pos, Context: "offset-and-base operand", Got: close.String()}
				}
				p.advance()
				ops = append(ops, operand{kind: opOffsetBase, pos: tok.Pos, num: tok.Number, reg: reg})
			} else {
				ops = append(ops, operand{kind: opNumber, pos: tok.Pos, num: tok.Number})
			}
		default:
			return nil, &ErrUnexpectedToken{Pos: tok.Pos, Context: "operand", Got: tok.String()}
		}

		next := p.peek()
		if next.Kind == TokenDelimiter && next.Text == "," {
			p.advance()
			continue
		}
		if next.Kind == TokenNewline || next.Kind == TokenEOF {
			return ops, nil
		}
		return nil, &ErrUnexpectedToken{Pos: next.Pos, Context: "expected ',' between operands", Got: next.String()}
	}
}

func checkSignedRange(pos Position, v int64, bits int) (int32, error) {
	lo := -(int64(1) << uint(bits-1))
	hi := (int64(1) << uint(bits)) - 1
	if v < lo || v > hi {
		return 0, &ErrImmediateRange{Pos: pos, Value: v, Bits: bits}
	}
	return int32(v), nil
}

func checkUnsignedRange(pos Position, v int64, bits int) (int32, error) {
	if v < 0 || v > (int64(1)<<uint(bits))-1 {
		return 0, &ErrImmediateRange{Pos: pos, Value: v, Bits: bits}
	}
	return int32(v), nil
}
