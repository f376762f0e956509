package asm

import (
	"github.com/danielcbailey/riscv-core/isa"
)

type labelTarget struct {
	isData bool
	index  int // instruction index (text) or word index (data)
}

// parser implements spec.md §4.3's two-phase design: parseAll runs Phase
// 1 (the statement loop, building items plus pending label fix-ups) and
// then Phase 2 (resolveLabels) in one pass over the token stream, since
// Go has no trouble holding the whole token slice in memory at once.
type parser struct {
	tokens []Token
	pos    int

	inText bool // current section; .text until a .data directive switches it
	items  []item
	data   []uint32

	labels  map[string]labelTarget
	fixups  []int // indices into items that carry a pending label fix-up
	dataFix []dataFixup
}

type dataFixup struct {
	index int // index into p.data
	pos   Position
	label string
}

func newParser(tokens []Token) *parser {
	return &parser{
		tokens: tokens,
		inText: true,
		labels: make(map[string]labelTarget),
	}
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) parseAll() error {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenEOF:
			return p.resolveLabels()
		case tok.Kind == TokenNewline:
			p.advance()
		case tok.Kind == TokenDirective:
			if err := p.parseDirective(); err != nil {
				return err
			}
		case tok.Kind == TokenIdentifier:
			if err := p.parseStatement(); err != nil {
				return err
			}
		default:
			return &ErrUnexpectedToken{Pos: tok.Pos, Context: "statement", Got: tok.String()}
		}
	}
}

func (p *parser) parseStatement() error {
	nameTok := p.advance()
	if colon := p.peek(); colon.Kind == TokenDelimiter && colon.Text == ":" {
		p.advance()
		if p.inText {
			p.labels[nameTok.Text] = labelTarget{index: len(p.items)}
		} else {
			p.labels[nameTok.Text] = labelTarget{isData: true, index: len(p.data)}
		}
		return p.expectStatementEnd()
	}

	if !p.inText {
		return &ErrUnexpectedToken{Pos: nameTok.Pos, Context: "instruction outside .text section", Got: nameTok.Text}
	}

	if err := p.parseInstruction(nameTok); err != nil {
		return err
	}
	return p.expectStatementEnd()
}

func (p *parser) expectStatementEnd() error {
	end := p.peek()
	if end.Kind == TokenNewline {
		p.advance()
		return nil
	}
	if end.Kind == TokenEOF {
		return nil
	}
	return &ErrUnexpectedToken{Pos: end.Pos, Context: "end of statement", Got: end.String()}
}

func (p *parser) parseInstruction(nameTok Token) error {
	code, ok := isa.TryParse(nameTok.Text)
	if !ok {
		return &ErrUnknownMnemonic{Pos: nameTok.Pos, Text: nameTok.Text}
	}
	if code.IsWordOp() {
		// spec.md §1 Non-goals: the RV64 arithmetic word ops are catalog
		// tags only and are never produced by the lexer/parser.
		return &ErrUnknownMnemonic{Pos: nameTok.Pos, Text: nameTok.Text}
	}

	ops, err := p.readOperands()
	if err != nil {
		return err
	}

	if code.IsPseudo() {
		return p.buildPseudo(code, nameTok, ops)
	}

	switch {
	case code.IsRegType():
		return p.buildRegType(code, nameTok, ops)
	case code == isa.JALR || code.IsLoad():
		return p.buildMemOrAddiForm(code, nameTok, ops)
	case code == isa.ECALL || code == isa.EBREAK || code == isa.FENCE || code == isa.FENCE_I:
		return p.buildNoOperand(code, nameTok, ops)
	case code.IsImmType():
		return p.buildImmType(code, nameTok, ops)
	case code.IsStoreType():
		return p.buildStoreType(code, nameTok, ops)
	case code.IsUpperType():
		return p.buildUpperType(code, nameTok, ops)
	case code.IsBranchType():
		return p.buildBranchType(code, nameTok, ops)
	case code.IsJumpType():
		return p.buildJumpType(code, nameTok, ops)
	default:
		return &ErrUnknownMnemonic{Pos: nameTok.Pos, Text: nameTok.Text}
	}
}

func wantOperandCount(nameTok Token, ops []operand, want int) error {
	if len(ops) != want {
		return &ErrOperandCount{Pos: nameTok.Pos, Mnemonic: nameTok.Text, Want: want, Got: len(ops)}
	}
	return nil
}

func wantRegister(nameTok Token, op operand) (uint32, error) {
	if op.kind != opRegister {
		return 0, &ErrOperandKind{Pos: op.pos, Mnemonic: nameTok.Text, Detail: "expected register"}
	}
	return op.reg, nil
}

func (p *parser) buildRegType(code isa.InstrCode, nameTok Token, ops []operand) error {
	if err := wantOperandCount(nameTok, ops, 3); err != nil {
		return err
	}
	rd, err := wantRegister(nameTok, ops[0])
	if err != nil {
		return err
	}
	rs1, err := wantRegister(nameTok, ops[1])
	if err != nil {
		return err
	}
	rs2, err := wantRegister(nameTok, ops[2])
	if err != nil {
		return err
	}
	p.items = append(p.items, item{instr: isa.NewRegister(code, rd, rs1, rs2), pos: nameTok.Pos})
	return nil
}

// buildMemOrAddiForm handles jalr and the load mnemonics, which per
// spec.md §4.3 accept either the addi-style `rd, rs, imm` form or the
// `rd, imm(rs)` OffsetAndBase form.
func (p *parser) buildMemOrAddiForm(code isa.InstrCode, nameTok Token, ops []operand) error {
	rd, imm, rs, labelName, labelPos, err := p.parseRegImmRegOrOffsetBase(nameTok, ops)
	if err != nil {
		return err
	}
	idx := len(p.items)
	p.items = append(p.items, item{instr: isa.NewImmediate(code, rd, rs, imm), pos: nameTok.Pos})
	if labelName != "" {
		p.items[idx].label = labelRef{kind: labelRefAbsoluteOperand, name: labelName}
		p.fixups = append(p.fixups, idx)
		_ = labelPos
	}
	return nil
}

// parseRegImmRegOrOffsetBase reads either `rd, rs, imm` (3 operands) or
// `rd, imm(rs)` (2 operands, second is OffsetAndBase) and returns the
// common (rd, imm, rs) triple plus an optional label name when imm was a
// bare label identifier instead of a number.
func (p *parser) parseRegImmRegOrOffsetBase(nameTok Token, ops []operand) (rd uint32, imm int32, rs uint32, labelName string, labelPos Position, err error) {
	switch len(ops) {
	case 2:
		rd, err = wantRegister(nameTok, ops[0])
		if err != nil {
			return
		}
		if ops[1].kind != opOffsetBase {
			err = &ErrOperandKind{Pos: ops[1].pos, Mnemonic: nameTok.Text, Detail: "expected imm(reg)"}
			return
		}
		imm, err = checkSignedRange(ops[1].pos, ops[1].num, 12)
		if err != nil {
			return
		}
		rs = ops[1].reg
		return
	case 3:
		rd, err = wantRegister(nameTok, ops[0])
		if err != nil {
			return
		}
		rs, err = wantRegister(nameTok, ops[1])
		if err != nil {
			return
		}
		switch ops[2].kind {
		case opNumber:
			imm, err = checkSignedRange(ops[2].pos, ops[2].num, 12)
		case opLabel:
			labelName = ops[2].label
			labelPos = ops[2].pos
		default:
			err = &ErrOperandKind{Pos: ops[2].pos, Mnemonic: nameTok.Text, Detail: "expected immediate or label"}
		}
		return
	default:
		err = &ErrOperandCount{Pos: nameTok.Pos, Mnemonic: nameTok.Text, Want: 3, Got: len(ops)}
		return
	}
}

func (p *parser) buildNoOperand(code isa.InstrCode, nameTok Token, ops []operand) error {
	if err := wantOperandCount(nameTok, ops, 0); err != nil {
		return err
	}
	p.items = append(p.items, item{instr: isa.NewImmediate(code, 0, 0, 0), pos: nameTok.Pos})
	return nil
}

func (p *parser) buildImmType(code isa.InstrCode, nameTok Token, ops []operand) error {
	if err := wantOperandCount(nameTok, ops, 3); err != nil {
		return err
	}
	rd, err := wantRegister(nameTok, ops[0])
	if err != nil {
		return err
	}
	rs, err := wantRegister(nameTok, ops[1])
	if err != nil {
		return err
	}
	if ops[2].kind != opNumber {
		return &ErrOperandKind{Pos: ops[2].pos, Mnemonic: nameTok.Text, Detail: "expected immediate"}
	}
	var imm int32
	if code.IsShortImm() {
		imm, err = checkUnsignedRange(ops[2].pos, ops[2].num, 5)
	} else {
		imm, err = checkSignedRange(ops[2].pos, ops[2].num, 12)
	}
	if err != nil {
		return err
	}
	p.items = append(p.items, item{instr: isa.NewImmediate(code, rd, rs, imm), pos: nameTok.Pos})
	return nil
}

// buildStoreType implements the Open Question decision in SPEC_FULL.md
// §13: try the OffsetAndBase form `rs, imm(rbase)` first, and fall back
// to the three-operand form `rbase, rs, imm` when there's no parenthesis.
func (p *parser) buildStoreType(code isa.InstrCode, nameTok Token, ops []operand) error {
	var rbase, rs uint32
	var imm int32
	var labelName string
	var err error

	switch len(ops) {
	case 2:
		rs, err = wantRegister(nameTok, ops[0])
		if err != nil {
			return err
		}
		if ops[1].kind != opOffsetBase {
			return &ErrOperandKind{Pos: ops[1].pos, Mnemonic: nameTok.Text, Detail: "expected imm(reg)"}
		}
		imm, err = checkSignedRange(ops[1].pos, ops[1].num, 12)
		if err != nil {
			return err
		}
		rbase = ops[1].reg
	case 3:
		rbase, err = wantRegister(nameTok, ops[0])
		if err != nil {
			return err
		}
		rs, err = wantRegister(nameTok, ops[1])
		if err != nil {
			return err
		}
		switch ops[2].kind {
		case opNumber:
			imm, err = checkSignedRange(ops[2].pos, ops[2].num, 12)
			if err != nil {
				return err
			}
		case opLabel:
			labelName = ops[2].label
		default:
			return &ErrOperandKind{Pos: ops[2].pos, Mnemonic: nameTok.Text, Detail: "expected immediate or label"}
		}
	default:
		return &ErrOperandCount{Pos: nameTok.Pos, Mnemonic: nameTok.Text, Want: 3, Got: len(ops)}
	}

	idx := len(p.items)
	p.items = append(p.items, item{instr: isa.NewStore(code, rbase, rs, imm), pos: nameTok.Pos})
	if labelName != "" {
		p.items[idx].label = labelRef{kind: labelRefAbsoluteOffset, name: labelName}
		p.fixups = append(p.fixups, idx)
	}
	return nil
}

func (p *parser) buildUpperType(code isa.InstrCode, nameTok Token, ops []operand) error {
	if err := wantOperandCount(nameTok, ops, 2); err != nil {
		return err
	}
	rd, err := wantRegister(nameTok, ops[0])
	if err != nil {
		return err
	}
	idx := len(p.items)
	switch ops[1].kind {
	case opNumber:
		v, err := checkSignedRange(ops[1].pos, ops[1].num, 20)
		if err != nil {
			return err
		}
		p.items = append(p.items, item{instr: isa.NewUpperImmediate(code, rd, v<<12), pos: nameTok.Pos})
	case opLabel:
		p.items = append(p.items, item{instr: isa.NewUpperImmediate(code, rd, 0), pos: nameTok.Pos,
			label: labelRef{kind: labelRefAbsoluteOperand, name: ops[1].label}})
		p.fixups = append(p.fixups, idx)
	default:
		return &ErrOperandKind{Pos: ops[1].pos, Mnemonic: nameTok.Text, Detail: "expected immediate or label"}
	}
	return nil
}

func (p *parser) buildBranchType(code isa.InstrCode, nameTok Token, ops []operand) error {
	if err := wantOperandCount(nameTok, ops, 3); err != nil {
		return err
	}
	rs1, err := wantRegister(nameTok, ops[0])
	if err != nil {
		return err
	}
	rs2, err := wantRegister(nameTok, ops[1])
	if err != nil {
		return err
	}
	idx := len(p.items)
	switch ops[2].kind {
	case opNumber:
		v, err := checkSignedRange(ops[2].pos, ops[2].num, 13)
		if err != nil {
			return err
		}
		p.items = append(p.items, item{instr: isa.NewBranch(code, rs1, rs2, v), pos: nameTok.Pos})
	case opLabel:
		p.items = append(p.items, item{instr: isa.NewBranch(code, rs1, rs2, 0), pos: nameTok.Pos,
			label: labelRef{kind: labelRefRelativeOffset, name: ops[2].label}})
		p.fixups = append(p.fixups, idx)
	default:
		return &ErrOperandKind{Pos: ops[2].pos, Mnemonic: nameTok.Text, Detail: "expected offset or label"}
	}
	return nil
}

func (p *parser) buildJumpType(code isa.InstrCode, nameTok Token, ops []operand) error {
	if err := wantOperandCount(nameTok, ops, 2); err != nil {
		return err
	}
	rd, err := wantRegister(nameTok, ops[0])
	if err != nil {
		return err
	}
	idx := len(p.items)
	switch ops[1].kind {
	case opNumber:
		v, err := checkSignedRange(ops[1].pos, ops[1].num, 21)
		if err != nil {
			return err
		}
		p.items = append(p.items, item{instr: isa.NewJump(code, rd, v), pos: nameTok.Pos})
	case opLabel:
		p.items = append(p.items, item{instr: isa.NewJump(code, rd, 0), pos: nameTok.Pos,
			label: labelRef{kind: labelRefRelativeOffset, name: ops[1].label}})
		p.fixups = append(p.fixups, idx)
	default:
		return &ErrOperandKind{Pos: ops[1].pos, Mnemonic: nameTok.Text, Detail: "expected offset or label"}
	}
	return nil
}

// buildPseudo parses the 14 pseudo-instructions of spec.md §6's lowering
// table into isa.Instruction values tagged with their pseudo InstrCode,
// reusing the Register/Immediate/etc. struct fields loosely (Rd, Rs1,
// Offset, Operand) since lowering (lower.go) is the only reader of these
// before they are replaced by real instructions.
func (p *parser) buildPseudo(code isa.InstrCode, nameTok Token, ops []operand) error {
	switch code {
	case isa.BEQZ, isa.BNEZ:
		if err := wantOperandCount(nameTok, ops, 2); err != nil {
			return err
		}
		rs, err := wantRegister(nameTok, ops[0])
		if err != nil {
			return err
		}
		idx := len(p.items)
		instr := isa.Instruction{Code: code, Rs1: rs}
		it := item{instr: instr, pos: nameTok.Pos}
		if ops[1].kind == opLabel {
			it.label = labelRef{kind: labelRefRelativeOffset, name: ops[1].label}
			p.fixups = append(p.fixups, idx)
		} else if ops[1].kind == opNumber {
			v, err := checkSignedRange(ops[1].pos, ops[1].num, 13)
			if err != nil {
				return err
			}
			it.instr.Offset = v
		} else {
			return &ErrOperandKind{Pos: ops[1].pos, Mnemonic: nameTok.Text, Detail: "expected offset or label"}
		}
		p.items = append(p.items, it)
		return nil

	case isa.J, isa.CALL:
		if err := wantOperandCount(nameTok, ops, 1); err != nil {
			return err
		}
		idx := len(p.items)
		it := item{instr: isa.Instruction{Code: code}, pos: nameTok.Pos}
		switch ops[0].kind {
		case opLabel:
			it.label = labelRef{kind: labelRefRelativeOffset, name: ops[0].label}
			p.fixups = append(p.fixups, idx)
		case opNumber:
			v, err := checkSignedRange(ops[0].pos, ops[0].num, 21)
			if err != nil {
				return err
			}
			it.instr.Offset = v
		default:
			return &ErrOperandKind{Pos: ops[0].pos, Mnemonic: nameTok.Text, Detail: "expected offset or label"}
		}
		p.items = append(p.items, it)
		return nil

	case isa.JR:
		if err := wantOperandCount(nameTok, ops, 1); err != nil {
			return err
		}
		rs, err := wantRegister(nameTok, ops[0])
		if err != nil {
			return err
		}
		p.items = append(p.items, item{instr: isa.Instruction{Code: code, Rs1: rs}, pos: nameTok.Pos})
		return nil

	case isa.LA:
		if err := wantOperandCount(nameTok, ops, 2); err != nil {
			return err
		}
		rd, err := wantRegister(nameTok, ops[0])
		if err != nil {
			return err
		}
		idx := len(p.items)
		it := item{instr: isa.Instruction{Code: code, Rd: rd}, pos: nameTok.Pos}
		switch ops[1].kind {
		case opLabel:
			it.label = labelRef{kind: labelRefAbsoluteOperand, name: ops[1].label}
			p.fixups = append(p.fixups, idx)
		case opNumber:
			it.instr.Operand = int32(ops[1].num)
		default:
			return &ErrOperandKind{Pos: ops[1].pos, Mnemonic: nameTok.Text, Detail: "expected address or label"}
		}
		p.items = append(p.items, it)
		p.items = append(p.items, fillerItem(nameTok.Pos))
		return nil

	case isa.LI:
		if err := wantOperandCount(nameTok, ops, 2); err != nil {
			return err
		}
		rd, err := wantRegister(nameTok, ops[0])
		if err != nil {
			return err
		}
		idx := len(p.items)
		it := item{instr: isa.Instruction{Code: code, Rd: rd}, pos: nameTok.Pos}
		switch ops[1].kind {
		case opLabel:
			it.label = labelRef{kind: labelRefAbsoluteOperand, name: ops[1].label}
			p.fixups = append(p.fixups, idx)
		case opNumber:
			v, err := checkSignedRange(ops[1].pos, ops[1].num, 32)
			if err != nil {
				return err
			}
			it.instr.Operand = v
		default:
			return &ErrOperandKind{Pos: ops[1].pos, Mnemonic: nameTok.Text, Detail: "expected immediate or label"}
		}
		p.items = append(p.items, it)
		p.items = append(p.items, fillerItem(nameTok.Pos))
		return nil

	case isa.MV, isa.NEG, isa.NOT, isa.SEQZ, isa.SNEZ:
		if err := wantOperandCount(nameTok, ops, 2); err != nil {
			return err
		}
		rd, err := wantRegister(nameTok, ops[0])
		if err != nil {
			return err
		}
		rs, err := wantRegister(nameTok, ops[1])
		if err != nil {
			return err
		}
		p.items = append(p.items, item{instr: isa.Instruction{Code: code, Rd: rd, Rs1: rs}, pos: nameTok.Pos})
		return nil

	case isa.NOP, isa.RET:
		if err := wantOperandCount(nameTok, ops, 0); err != nil {
			return err
		}
		p.items = append(p.items, item{instr: isa.Instruction{Code: code}, pos: nameTok.Pos})
		return nil

	default:
		return &ErrUnknownMnemonic{Pos: nameTok.Pos, Text: nameTok.Text}
	}
}

// resolveLabels implements spec.md §4.3 Phase 2: for each recorded
// fix-up, resolve the target's index/address and patch the placeholder
// field. A label unresolved anywhere is a fatal ErrUndefinedLabel.
func (p *parser) resolveLabels() error {
	textWords := len(p.items)
	for _, idx := range p.fixups {
		it := &p.items[idx]
		target, ok := p.labels[it.label.name]
		if !ok {
			return &ErrUndefinedLabel{Pos: it.pos, Label: it.label.name}
		}
		switch it.label.kind {
		case labelRefRelativeOffset:
			it.patchLabel(int32((target.index - idx) * 4))
		case labelRefAbsoluteOffset, labelRefAbsoluteOperand:
			if target.isData {
				it.patchLabel(int32(textWords*4 + target.index*4))
			} else {
				it.patchLabel(int32(target.index * 4))
			}
		}
	}
	for _, df := range p.dataFix {
		target, ok := p.labels[df.label]
		if !ok {
			return &ErrUndefinedLabel{Pos: df.pos, Label: df.label}
		}
		if target.isData {
			p.data[df.index] = uint32(textWords*4 + target.index*4)
		} else {
			p.data[df.index] = uint32(target.index * 4)
		}
	}
	return nil
}
