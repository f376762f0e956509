package asm

// parseDirective handles the `.text`/`.data` section switch and the
// `.word`/`.ascii`/`.space`/`.alloc` data directives, per SPEC_FULL.md
// §12's supplement grounded on the teacher's parseLines data branch.
func (p *parser) parseDirective() error {
	tok := p.advance()
	switch tok.Text {
	case "text":
		p.inText = true
		return p.expectStatementEnd()
	case "data":
		p.inText = false
		return p.expectStatementEnd()
	case "word":
		return p.parseWordDirective(tok)
	case "ascii":
		return p.parseAsciiDirective(tok)
	case "space":
		return p.parseSizeDirective(tok, 0)
	case "alloc":
		return p.parseAllocDirective(tok)
	default:
		return &ErrInvalidDirective{Pos: tok.Pos, Name: tok.Text}
	}
}

func (p *parser) parseWordDirective(tok Token) error {
	if p.inText {
		return &ErrInvalidDirective{Pos: tok.Pos, Name: ".word in .text section"}
	}
	ops, err := p.readOperands()
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		return &ErrOperandCount{Pos: tok.Pos, Mnemonic: ".word", Want: 1, Got: 0}
	}
	for _, op := range ops {
		switch op.kind {
		case opNumber:
			p.data = append(p.data, uint32(op.num))
		case opLabel:
			p.dataFix = append(p.dataFix, dataFixup{index: len(p.data), pos: op.pos, label: op.label})
			p.data = append(p.data, 0)
		default:
			return &ErrOperandKind{Pos: op.pos, Mnemonic: ".word", Detail: "expected number or label"}
		}
	}
	return p.expectStatementEnd()
}

// parseAsciiDirective packs a quoted string literal 4 bytes per word,
// little-endian, NUL-terminated, per the teacher's assembleData .ascii
// branch.
func (p *parser) parseAsciiDirective(tok Token) error {
	if p.inText {
		return &ErrInvalidDirective{Pos: tok.Pos, Name: ".ascii in .text section"}
	}
	raw, err := p.readRawStringOperand(tok)
	if err != nil {
		return err
	}
	bytes := append([]byte(raw), 0)
	for i, b := range bytes {
		if i%4 == 0 {
			p.data = append(p.data, uint32(b))
		} else {
			p.data[len(p.data)-1] |= uint32(b) << uint((i%4)*8)
		}
	}
	return p.expectStatementEnd()
}

// readRawStringOperand expects the TokenString the lexer produced for a
// quoted ".ascii" argument.
func (p *parser) readRawStringOperand(tok Token) (string, error) {
	t := p.peek()
	if t.Kind != TokenString {
		return "", &ErrUnexpectedToken{Pos: t.Pos, Context: ".ascii operand", Got: t.String()}
	}
	p.advance()
	return t.Text, nil
}

func (p *parser) parseSizeDirective(tok Token, fill uint32) error {
	if p.inText {
		return &ErrInvalidDirective{Pos: tok.Pos, Name: "." + tok.Text + " in .text section"}
	}
	ops, err := p.readOperands()
	if err != nil {
		return err
	}
	if err := wantOperandCount(tok, ops, 1); err != nil {
		return err
	}
	if ops[0].kind != opNumber || ops[0].num < 0 {
		return &ErrOperandKind{Pos: ops[0].pos, Mnemonic: "." + tok.Text, Detail: "expected a non-negative byte count"}
	}
	words := (ops[0].num + 3) / 4
	for i := int64(0); i < words; i++ {
		p.data = append(p.data, fill)
	}
	return p.expectStatementEnd()
}

func (p *parser) parseAllocDirective(tok Token) error {
	if p.inText {
		return &ErrInvalidDirective{Pos: tok.Pos, Name: ".alloc in .text section"}
	}
	ops, err := p.readOperands()
	if err != nil {
		return err
	}
	if err := wantOperandCount(tok, ops, 1); err != nil {
		return err
	}
	if ops[0].kind != opNumber || ops[0].num < 0 {
		return &ErrOperandKind{Pos: ops[0].pos, Mnemonic: ".alloc", Detail: "expected a non-negative word count"}
	}
	for i := int64(0); i < ops[0].num; i++ {
		p.data = append(p.data, 0)
	}
	return p.expectStatementEnd()
}
