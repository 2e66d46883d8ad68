package cpu

import "github.com/sharplr/gbcore/pkg/bits"

// executeCB dispatches one CB-prefixed opcode, split into the same
// x/y/z bit fields as the base table:
//
//	x = op>>6 & 3  (0 = rotate/shift group, 1 = BIT, 2 = RES, 3 = SET)
//	y = op>>3 & 7  (rotate/shift op, or bit index for BIT/RES/SET)
//	z = op&7       (operand register, 6 = (HL))
func (c *CPU) executeCB(op uint8) {
	x, y, z := op>>6&3, op>>3&7, op&7

	_, isMem, v := c.source(z)

	switch x {
	case 0:
		var res uint8
		switch y {
		case 0:
			res = c.rlc(v)
		case 1:
			res = c.rrc(v)
		case 2:
			res = c.rl(v)
		case 3:
			res = c.rr(v)
		case 4:
			res = c.sla(v)
		case 5:
			res = c.sra(v)
		case 6:
			res = c.swap(v)
		case 7:
			res = c.srl(v)
		}
		c.writeSource(z, isMem, res)
	case 1: // BIT y,r[z] -- never writes the operand back
		c.bitTest(v, y)
	case 2: // RES y,r[z]
		c.writeSource(z, isMem, bits.Reset(v, y))
	case 3: // SET y,r[z]
		c.writeSource(z, isMem, bits.Set(v, y))
	}
}
