package cpu

// executeBase dispatches one non-CB opcode. Rather than 256 named
// handlers, the byte is split into the bit fields the LR35902's own
// encoding groups instructions by:
//
//	x = op>>6 & 3   (top-level group)
//	y = op>>3 & 7   (destination register / ALU op / condition / RST target)
//	z = op&7        (source register / sub-group)
//	p = y>>1        (register-pair select)
//	q = y&1         (register-pair sub-select)
//
// A handful of opcodes don't fit the grid cleanly and are special-cased
// first; everything else falls through to the grouped switch.
func (c *CPU) executeBase(op uint8) {
	switch op {
	case 0x00: // NOP
		return
	case 0x08: // LD (a16),SP
		addr := c.fetch16()
		c.writeByte(addr, uint8(c.SP))
		c.writeByte(addr+1, uint8(c.SP>>8))
		return
	case 0x10: // STOP
		c.fetch() // consume the following byte
		return
	case 0x76: // HALT
		c.halt()
		return
	case 0xC3: // JP a16
		c.PC = c.fetch16()
		c.tick(1)
		return
	case 0xC9: // RET
		c.PC = c.pop16()
		c.tick(1)
		return
	case 0xCD: // CALL a16
		addr := c.fetch16()
		c.tick(1)
		c.push16(c.PC)
		c.PC = addr
		return
	case 0xD9: // RETI
		c.PC = c.pop16()
		c.IME = true
		c.tick(1)
		return
	case 0xE0: // LDH (a8),A
		c.writeByte(0xFF00+uint16(c.fetch()), c.A)
		return
	case 0xE2: // LD (C),A
		c.writeByte(0xFF00+uint16(c.C), c.A)
		return
	case 0xE8: // ADD SP,e8
		c.SP = c.addSPSigned(int8(c.fetch()))
		c.tick(2)
		return
	case 0xE9: // JP HL
		c.PC = c.HL.Uint16()
		return
	case 0xEA: // LD (a16),A
		c.writeByte(c.fetch16(), c.A)
		return
	case 0xF0: // LDH A,(a8)
		c.A = c.readByte(0xFF00 + uint16(c.fetch()))
		return
	case 0xF2: // LD A,(C)
		c.A = c.readByte(0xFF00 + uint16(c.C))
		return
	case 0xF3: // DI
		c.IME = false
		c.imePending = false
		return
	case 0xF8: // LD HL,SP+e8
		c.HL.SetUint16(c.addSPSigned(int8(c.fetch())))
		c.tick(1)
		return
	case 0xF9: // LD SP,HL
		c.SP = c.HL.Uint16()
		c.tick(1)
		return
	case 0xFA: // LD A,(a16)
		c.A = c.readByte(c.fetch16())
		return
	case 0xFB: // EI
		c.enableInterrupts()
		return
	}

	x, y, z, p, q := op>>6&3, op>>3&7, op&7, op>>4&3, op>>3&1

	switch x {
	case 0:
		switch z {
		case 0: // 0x18 JR e8 (unconditional), 0x20/0x28/0x30/0x38 JR cc,e8
			e := int8(c.fetch())
			if y == 3 || c.condition(y) {
				c.PC = uint16(int32(c.PC) + int32(e))
				c.tick(1)
			}
		case 1:
			if q == 0 { // LD rr,d16
				c.regPair(p).SetUint16(c.fetch16())
			} else { // ADD HL,rr
				c.HL.SetUint16(c.add16(c.HL.Uint16(), c.regPair(p).Uint16()))
				c.tick(1)
			}
		case 2: // LD (rr),A / LD A,(rr), with HL+/HL- variants
			addr, postInc := c.indirectPair(p)
			if q == 0 {
				c.writeByte(addr, c.A)
			} else {
				c.A = c.readByte(addr)
			}
			if postInc != 0 {
				c.HL.SetUint16(c.HL.Uint16() + uint16(postInc))
			}
		case 3: // INC/DEC rr
			rp := c.regPair(p)
			if q == 0 {
				rp.SetUint16(rp.Uint16() + 1)
			} else {
				rp.SetUint16(rp.Uint16() - 1)
			}
			c.tick(1)
		case 4: // INC r[y]
			_, isMem, v := c.source(y)
			c.writeSource(y, isMem, c.inc8(v))
		case 5: // DEC r[y]
			_, isMem, v := c.source(y)
			c.writeSource(y, isMem, c.dec8(v))
		case 6: // LD r[y],d8
			c.writeSource(y, y == 6, c.fetch())
		case 7: // assorted single-byte ALU/flag ops
			switch y {
			case 0: // RLCA
				c.A = c.rlc(c.A)
				c.clearFlag(flagZero)
			case 1: // RRCA
				c.A = c.rrc(c.A)
				c.clearFlag(flagZero)
			case 2: // RLA
				c.A = c.rl(c.A)
				c.clearFlag(flagZero)
			case 3: // RRA
				c.A = c.rr(c.A)
				c.clearFlag(flagZero)
			case 4: // DAA
				c.daa()
			case 5: // CPL
				c.A = ^c.A
				c.setFlags(c.isFlagSet(flagZero), true, true, c.isFlagSet(flagCarry))
			case 6: // SCF
				c.setFlags(c.isFlagSet(flagZero), false, false, true)
			case 7: // CCF
				c.setFlags(c.isFlagSet(flagZero), false, false, !c.isFlagSet(flagCarry))
			}
		}
	case 1: // LD r[y],r[z] (0x76 already handled as HALT above)
		_, _, v := c.source(z)
		c.writeSource(y, y == 6, v)
	case 2: // ALU A,r[z]
		_, _, v := c.source(z)
		c.aluOp(y, v)
	case 3:
		switch z {
		case 0: // RET cc
			if c.condition(y) {
				c.tick(1)
				c.PC = c.pop16()
				c.tick(1)
			} else {
				c.tick(1)
			}
		case 1: // POP rr
			v := c.pop16()
			if p == 3 { // AF: F goes through setFlags, so its low nibble reads back zero
				c.A = uint8(v >> 8)
				f := uint8(v)
				c.setFlags(f&flagZero != 0, f&flagSubtract != 0, f&flagHalfCarry != 0, f&flagCarry != 0)
			} else {
				c.regPairWithAF(p).SetUint16(v)
			}
		case 2: // JP cc,a16
			addr := c.fetch16()
			if c.condition(y) {
				c.PC = addr
				c.tick(1)
			}
		case 4: // CALL cc,a16
			addr := c.fetch16()
			if c.condition(y) {
				c.tick(1)
				c.push16(c.PC)
				c.PC = addr
			}
		case 5: // PUSH rr
			c.tick(1)
			c.push16(c.regPairWithAF(p).Uint16())
		case 6: // ALU A,d8
			c.aluOp(y, c.fetch())
		case 7: // RST y*8
			c.tick(1)
			c.push16(c.PC)
			c.PC = uint16(y) * 8
		}
	}
}

// aluOp dispatches the eight ALU ops addressed by the y field to A,
// shared by both the register/(HL) form (x=2) and the immediate form
// (x=3,z=6).
func (c *CPU) aluOp(y uint8, v uint8) {
	switch y {
	case 0:
		c.A = c.add8(c.A, v, false)
	case 1:
		c.A = c.add8(c.A, v, true)
	case 2:
		c.A = c.sub8(c.A, v, false)
	case 3:
		c.A = c.sub8(c.A, v, true)
	case 4:
		c.A = c.and8(c.A, v)
	case 5:
		c.A = c.xor8(c.A, v)
	case 6:
		c.A = c.or8(c.A, v)
	case 7:
		c.cp8(c.A, v)
	}
}

// condition evaluates the four branch conditions addressed by y&3:
// NZ, Z, NC, C.
func (c *CPU) condition(y uint8) bool {
	switch y & 3 {
	case 0:
		return !c.isFlagSet(flagZero)
	case 1:
		return c.isFlagSet(flagZero)
	case 2:
		return !c.isFlagSet(flagCarry)
	default:
		return c.isFlagSet(flagCarry)
	}
}

// regPair returns the register pair addressed by p (0=BC,1=DE,2=HL,3=SP)
// for the 16-bit load/arithmetic group, where p==3 means SP rather than
// AF (PUSH/POP's register-pair group uses regPairWithAF instead, where
// p==3 means AF).
func (c *CPU) regPair(p uint8) spLikePair {
	switch p {
	case 0:
		return spLikePair{rp: c.BC}
	case 1:
		return spLikePair{rp: c.DE}
	case 2:
		return spLikePair{rp: c.HL}
	default:
		return spLikePair{sp: &c.SP}
	}
}

// spLikePair adapts either a RegisterPair or the bare SP field to the
// same Uint16/SetUint16 surface, since SP participates in the p=0..3
// register-pair group but isn't a RegisterPair.
type spLikePair struct {
	rp RegisterPair
	sp *uint16
}

func (s spLikePair) Uint16() uint16 {
	if s.sp != nil {
		return *s.sp
	}
	return s.rp.Uint16()
}

func (s spLikePair) SetUint16(v uint16) {
	if s.sp != nil {
		*s.sp = v
		return
	}
	s.rp.SetUint16(v)
}

// regPairWithAF is regPair's PUSH/POP variant, where p=3 addresses AF
// instead of SP.
func (c *CPU) regPairWithAF(p uint8) RegisterPair {
	switch p {
	case 0:
		return c.BC
	case 1:
		return c.DE
	case 2:
		return c.HL
	default:
		return c.AF
	}
}

// indirectPair returns the address for the z=2 LD (rr),A / LD A,(rr)
// group and the HL post-increment/decrement to apply afterward (0 for
// BC/DE, +1/-1 for HL+/HL-).
func (c *CPU) indirectPair(p uint8) (addr uint16, postInc int16) {
	switch p {
	case 0:
		return c.BC.Uint16(), 0
	case 1:
		return c.DE.Uint16(), 0
	case 2:
		return c.HL.Uint16(), 1
	default:
		return c.HL.Uint16(), -1
	}
}
