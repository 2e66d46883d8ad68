// Package cpu implements the Sharp LR35902 instruction decode/execute
// engine: the full base and CB-prefixed opcode tables, the flag
// register invariant, and the interrupt dispatch protocol that ties the
// CPU's IME to the MMU's IF/IE registers.
package cpu

import (
	"fmt"

	"github.com/sharplr/gbcore/internal/gberr"
	"github.com/sharplr/gbcore/internal/mmu"
)

// disallowedOpcodes are the officially undefined LR35902 opcodes. Any
// fetch of one of these traps rather than silently behaving as a NOP.
var disallowedOpcodes = map[uint8]bool{
	0xD3: true, 0xDB: true, 0xDD: true, 0xE3: true, 0xE4: true, 0xEB: true,
	0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true,
}

// CPU is the Sharp LR35902 core. A, F, ..., L are the 8-bit registers;
// BC/DE/HL/AF give a RegisterPair view over pairs of them for 16-bit
// operations.
type CPU struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16

	BC, DE, HL, AF RegisterPair

	// IME is the interrupt master enable flip-flop. EI doesn't set IME
	// directly: it arms imePending, which Step commits one instruction
	// later, reproducing the one-instruction EI delay.
	IME        bool
	imePending bool

	halted   bool
	haltBug  bool // one-shot: next fetch re-reads PC without advancing it

	Cycles uint64

	mmu *mmu.MMU

	registerPointers [8]*uint8 // indexed by the z/y register field; index 6 is (HL) and stays nil: source/writeSource go through memory for it
}

// New returns a CPU wired to m, with registers zeroed exactly as Reset
// leaves them.
func New(m *mmu.MMU) *CPU {
	c := &CPU{mmu: m}
	c.wire()
	c.Reset()
	return c
}

// wire links the RegisterPair views and registerPointers table to this
// CPU's own fields. Must run once, before Reset, and never again — the
// pointers stay valid for the CPU's whole lifetime.
func (c *CPU) wire() {
	c.BC = RegisterPair{&c.B, &c.C}
	c.DE = RegisterPair{&c.D, &c.E}
	c.HL = RegisterPair{&c.H, &c.L}
	c.AF = RegisterPair{&c.A, &c.F}
	c.registerPointers = [8]*uint8{&c.B, &c.C, &c.D, &c.E, &c.H, &c.L, nil, &c.A}
}

// Reset puts the CPU into its post-boot state: registers zeroed, PC at
// the cartridge entry point ($0100) and SP at the top of HRAM ($FFFE),
// IME disabled, not halted. This core has no boot ROM of its own; it
// starts exactly where the real boot ROM hands off.
func (c *CPU) Reset() {
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0, 0
	c.SP, c.PC = 0xFFFE, 0x0100
	c.IME = false
	c.imePending = false
	c.halted = false
	c.haltBug = false
	c.Cycles = 0
}

// Snapshot is a point-in-time copy of every CPU-visible register, for
// tests and the inspector's introspection surface. It carries no
// behavior of its own.
type Snapshot struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME                    bool
	Halted                 bool
	Cycles                 uint64
}

// Snapshot returns the CPU's current state.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		SP: c.SP, PC: c.PC, IME: c.IME, Halted: c.halted, Cycles: c.Cycles,
	}
}

// Step runs exactly one CPU step and returns the number of T-cycles it
// consumed, in order:
//
//  1. commit a pending EI (armed by the previous instruction).
//  2. if an enabled interrupt is pending: clear halted so execution
//     resumes, then dispatch it when IME is set (push PC, clear the IF
//     bit, jump to the vector, consume 5 machine cycles).
//  3. if still halted, consume one machine cycle and stop.
//  4. fetch, decode and execute the next instruction.
func (c *CPU) Step() uint8 {
	if c.imePending {
		c.imePending = false
		c.IME = true
	}

	if pending := c.mmu.Interrupts.Any(); pending {
		c.halted = false
		if c.IME {
			before := c.Cycles
			c.dispatchInterrupt() // accounts for 2 of the 5 machine cycles via its two pushes
			c.tick(3)             // the remaining 3: two wasted cycles plus the jump
			return uint8(c.Cycles - before)
		}
	}

	if c.halted {
		before := c.Cycles
		c.tick(1)
		return uint8(c.Cycles - before)
	}

	before := c.Cycles
	c.execute()
	return uint8(c.Cycles - before)
}

// dispatchInterrupt pushes PC, clears the pending source's IF bit and
// jumps to its vector. Called only once Step has confirmed IME is set
// and a source is pending.
func (c *CPU) dispatchInterrupt() {
	source, ok := c.mmu.Interrupts.Pending()
	if !ok {
		return
	}
	c.IME = false
	c.mmu.Interrupts.Clear(source)
	c.push16(c.PC)
	c.PC = source.Vector()
}

// tick advances the cycle counter by n machine cycles (4 T-cycles each).
func (c *CPU) tick(machineCycles int) {
	c.Cycles += uint64(machineCycles) * 4
}

// fetch reads the byte at PC and advances it, except when the one-shot
// HALT bug is armed: then the same byte is re-read on the next fetch
// too, because real hardware fails to increment PC after that fetch.
func (c *CPU) fetch() uint8 {
	v := c.mmu.Read(c.PC)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.PC++
	}
	c.tick(1)
	return v
}

// fetch16 reads a little-endian 16-bit immediate operand.
func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) readByte(addr uint16) uint8 {
	c.tick(1)
	return c.mmu.Read(addr)
}

func (c *CPU) writeByte(addr uint16, v uint8) {
	c.tick(1)
	c.mmu.Write(addr, v)
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.writeByte(c.SP, uint8(v>>8))
	c.SP--
	c.writeByte(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.readByte(c.SP)
	c.SP++
	hi := c.readByte(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// source returns a pointer to the 8-bit operand register/memory cell
// named by the z/y register field (0-7, with 6 meaning (HL)). When it's
// (HL), the returned bool is true and the caller must write back
// through writeSource rather than through the pointer, since (HL) has
// no backing Go variable.
func (c *CPU) source(reg uint8) (*uint8, bool, uint8) {
	reg &= 0x7
	if reg == 6 {
		return nil, true, c.readByte(c.HL.Uint16())
	}
	p := c.registerPointers[reg]
	return p, false, *p
}

func (c *CPU) writeSource(reg uint8, isMem bool, v uint8) {
	if isMem {
		c.writeByte(c.HL.Uint16(), v)
		return
	}
	*c.registerPointers[reg&0x7] = v
}

// execute fetches one opcode and dispatches it, panicking with
// *gberr.IllegalInstruction for any of the officially undefined
// opcodes.
func (c *CPU) execute() {
	pc := c.PC
	op := c.fetch()
	if disallowedOpcodes[op] {
		panic(&gberr.IllegalInstruction{PC: pc, Opcode: op})
	}
	if op == 0xCB {
		c.executeCB(c.fetch())
		return
	}
	c.executeBase(op)
}

// enableInterrupts implements EI: arms the one-instruction delay rather
// than setting IME immediately.
func (c *CPU) enableInterrupts() {
	c.imePending = true
}

// halt implements HALT, including the HALT-bug Open Question (resolved:
// reproduced). If IME is clear and an interrupt is already pending, the
// next fetch replays the byte at PC instead of halting.
func (c *CPU) halt() {
	if !c.IME && c.mmu.Interrupts.Any() {
		c.haltBug = true
		return
	}
	c.halted = true
}

func (c *CPU) String() string {
	return fmt.Sprintf("A:%02X F:%02X B:%02X C:%02X D:%02X E:%02X H:%02X L:%02X SP:%04X PC:%04X",
		c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L, c.SP, c.PC)
}
