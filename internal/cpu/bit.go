package cpu

import "github.com/sharplr/gbcore/pkg/bits"

// rlc rotates v left by one bit, bit 7 moving into both bit 0 and carry.
func (c *CPU) rlc(v uint8) uint8 {
	carry := v&0x80 != 0
	res := v<<1 | v>>7
	c.setFlags(res == 0, false, false, carry)
	return res
}

// rrc rotates v right by one bit, bit 0 moving into both bit 7 and carry.
func (c *CPU) rrc(v uint8) uint8 {
	carry := v&0x01 != 0
	res := v>>1 | v<<7
	c.setFlags(res == 0, false, false, carry)
	return res
}

// rl rotates v left through the carry flag.
func (c *CPU) rl(v uint8) uint8 {
	var carryIn uint8
	if c.isFlagSet(flagCarry) {
		carryIn = 1
	}
	carryOut := v&0x80 != 0
	res := v<<1 | carryIn
	c.setFlags(res == 0, false, false, carryOut)
	return res
}

// rr rotates v right through the carry flag.
func (c *CPU) rr(v uint8) uint8 {
	var carryIn uint8
	if c.isFlagSet(flagCarry) {
		carryIn = 1
	}
	carryOut := v&0x01 != 0
	res := v>>1 | carryIn<<7
	c.setFlags(res == 0, false, false, carryOut)
	return res
}

// sla shifts v left by one bit, discarding bit 7 into carry.
func (c *CPU) sla(v uint8) uint8 {
	carry := v&0x80 != 0
	res := v << 1
	c.setFlags(res == 0, false, false, carry)
	return res
}

// sra shifts v right by one bit, preserving bit 7 (arithmetic shift).
func (c *CPU) sra(v uint8) uint8 {
	carry := v&0x01 != 0
	res := v&0x80 | v>>1
	c.setFlags(res == 0, false, false, carry)
	return res
}

// srl shifts v right by one bit, always clearing bit 7 (logical shift).
func (c *CPU) srl(v uint8) uint8 {
	carry := v&0x01 != 0
	res := v >> 1
	c.setFlags(res == 0, false, false, carry)
	return res
}

// swap exchanges the upper and lower nibbles of v, always clearing carry.
func (c *CPU) swap(v uint8) uint8 {
	res := v<<4 | v>>4
	c.setFlags(res == 0, false, false, false)
	return res
}

// bitTest implements BIT b,r: tests bit b of v without modifying it.
//
//	Z - Set if bit b of v is 0.
//	N - Reset.
//	H - Set.
//	C - Not affected.
func (c *CPU) bitTest(v, bit uint8) {
	c.setFlags(!bits.Test(v, bit), false, true, c.isFlagSet(flagCarry))
}
