package cpu

import (
	"testing"

	"github.com/sharplr/gbcore/internal/cartridge"
	"github.com/sharplr/gbcore/internal/interrupts"
	"github.com/sharplr/gbcore/internal/mmu"
	"github.com/sharplr/gbcore/pkg/log"
)

// newTestCPU builds a CPU over a blank 32KiB ROM-only cartridge, PC and
// SP parked away from $0000 so pushes/fetches don't collide with the
// header area that parseHeader reads out of the ROM.
func newTestCPU(t *testing.T) *CPU {
	t.Helper()
	rom := make([]byte, 0x8000)
	cart, err := cartridge.Load(rom)
	if err != nil {
		t.Fatalf("cartridge.Load: %v", err)
	}
	c := New(mmu.New(cart, mmu.WithLogger(log.NewNullLogger())))
	c.PC = 0xC000
	c.SP = 0xDFF0
	return c
}

// load writes opcode bytes starting at the CPU's current PC, ready to
// be fetched by the next Step.
func (c *CPU) load(bytes ...uint8) {
	for i, b := range bytes {
		c.mmu.Write(c.PC+uint16(i), b)
	}
}

func TestReset(t *testing.T) {
	rom := make([]byte, 0x8000)
	cart, err := cartridge.Load(rom)
	if err != nil {
		t.Fatalf("cartridge.Load: %v", err)
	}
	c := New(mmu.New(cart))
	if c.PC != 0x0100 {
		t.Errorf("PC = $%04X, want $0100", c.PC)
	}
	if c.SP != 0xFFFE {
		t.Errorf("SP = $%04X, want $FFFE", c.SP)
	}

	c.PC, c.SP = 0xC000, 0xDFF0
	c.Reset()
	if c.PC != 0x0100 {
		t.Errorf("PC after Reset = $%04X, want $0100", c.PC)
	}
	if c.SP != 0xFFFE {
		t.Errorf("SP after Reset = $%04X, want $FFFE", c.SP)
	}
}

func TestStepNOP(t *testing.T) {
	c := newTestCPU(t)
	pc := c.PC
	c.load(0x00)
	cycles := c.Step()
	if c.PC != pc+1 {
		t.Errorf("PC = $%04X, want $%04X", c.PC, pc+1)
	}
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4", cycles)
	}
}

func TestStepLDAImmediate(t *testing.T) {
	c := newTestCPU(t)
	c.load(0x3E, 0x42) // LD A,d8
	c.Step()
	if c.A != 0x42 {
		t.Errorf("A = $%02X, want $42", c.A)
	}
}

func TestStepADDOverflowSetsCarry(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0xFF
	c.B = 0x01
	c.load(0x80) // ADD A,B
	c.Step()
	if c.A != 0x00 {
		t.Errorf("A = $%02X, want $00", c.A)
	}
	if !c.isFlagSet(flagZero) || !c.isFlagSet(flagCarry) || !c.isFlagSet(flagHalfCarry) {
		t.Errorf("F = $%02X, want Z/H/C all set", c.F)
	}
	if c.isFlagSet(flagSubtract) {
		t.Errorf("N should be clear after ADD")
	}
}

func TestStepINCHalfCarry(t *testing.T) {
	c := newTestCPU(t)
	c.B = 0x0F
	c.load(0x04) // INC B
	c.Step()
	if c.B != 0x10 {
		t.Errorf("B = $%02X, want $10", c.B)
	}
	if !c.isFlagSet(flagHalfCarry) {
		t.Error("expected half-carry set")
	}
}

func TestStepJRTaken(t *testing.T) {
	c := newTestCPU(t)
	start := c.PC
	c.load(0x18, 0x05) // JR +5
	c.Step()
	if c.PC != start+2+5 {
		t.Errorf("PC = $%04X, want $%04X", c.PC, start+2+5)
	}
}

func TestStepJRNegativeOffset(t *testing.T) {
	c := newTestCPU(t)
	c.PC = 0xC010
	start := c.PC
	c.load(0x18, 0xFB) // JR -5
	c.Step()
	if c.PC != start+2-5 {
		t.Errorf("PC = $%04X, want $%04X", c.PC, start+2-5)
	}
}

func TestCallRetRoundTrip(t *testing.T) {
	c := newTestCPU(t)
	start := c.PC
	c.load(0xCD, 0x00, 0xD0) // CALL $D000
	c.Step()
	if c.PC != 0xD000 {
		t.Fatalf("PC after CALL = $%04X, want $D000", c.PC)
	}
	c.load(0xC9) // RET
	c.Step()
	if c.PC != start+3 {
		t.Errorf("PC after RET = $%04X, want $%04X (return address after CALL)", c.PC, start+3)
	}
}

func TestFlagLowNibbleAlwaysZero(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0x0F
	c.load(0x3C) // INC A
	c.Step()
	if c.F&0x0F != 0 {
		t.Errorf("F low nibble = $%X, want 0", c.F&0x0F)
	}
}

func TestXorASelfClearsA(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0x99
	c.load(0xAF) // XOR A
	c.Step()
	if c.A != 0 {
		t.Errorf("A = $%02X, want $00", c.A)
	}
	if !c.isFlagSet(flagZero) {
		t.Error("expected Z set after XOR A,A")
	}
}

func TestSubASelfClearsAWithoutBorrow(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0x42
	c.load(0x97) // SUB A
	c.Step()
	if c.A != 0 {
		t.Errorf("A = $%02X, want $00", c.A)
	}
	if c.isFlagSet(flagCarry) {
		t.Error("SUB A,A must not borrow")
	}
}

func TestDoubleCPLIsIdentity(t *testing.T) {
	c := newTestCPU(t)
	c.A = 0x5A
	c.load(0x2F, 0x2F) // CPL, CPL
	c.Step()
	c.Step()
	if c.A != 0x5A {
		t.Errorf("A = $%02X, want $5A after double CPL", c.A)
	}
}

func TestDoubleCCFIsIdentity(t *testing.T) {
	c := newTestCPU(t)
	c.setFlag(flagCarry)
	c.load(0x3F, 0x3F) // CCF, CCF
	c.Step()
	c.Step()
	if !c.isFlagSet(flagCarry) {
		t.Error("expected carry restored after double CCF")
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	c := newTestCPU(t)
	c.BC.SetUint16(0x1234)
	c.load(0xC5, 0xD1) // PUSH BC ; POP DE
	c.Step()
	c.Step()
	if c.DE.Uint16() != 0x1234 {
		t.Errorf("DE = $%04X, want $1234", c.DE.Uint16())
	}
}

func TestPopAFMasksLowNibble(t *testing.T) {
	c := newTestCPU(t)
	c.SP = 0xDFF0
	c.push16(0x12FF) // push a value with F's low nibble set
	c.load(0xF1)      // POP AF
	c.Step()
	if c.F&0x0F != 0 {
		t.Errorf("F low nibble = $%X, want 0 after POP AF", c.F&0x0F)
	}
	if c.A != 0x12 {
		t.Errorf("A = $%02X, want $12", c.A)
	}
}

func TestEIDelayedByOneInstruction(t *testing.T) {
	c := newTestCPU(t)
	c.load(0xFB, 0x00) // EI ; NOP
	c.Step()
	if c.IME {
		t.Error("IME should not be set until the instruction after EI")
	}
	c.Step()
	if !c.IME {
		t.Error("IME should be set after the instruction following EI")
	}
}

func TestInterruptDispatchPriorityAndVector(t *testing.T) {
	c := newTestCPU(t)
	c.IME = true
	c.mmu.Interrupts.WriteIE(0xFF)
	c.mmu.Interrupts.Raise(interrupts.Timer)
	c.mmu.Interrupts.Raise(interrupts.VBlank) // higher priority than Timer
	start := c.PC

	c.Step()

	if c.PC != interrupts.VBlank.Vector() {
		t.Errorf("PC = $%04X, want VBlank vector $%04X", c.PC, interrupts.VBlank.Vector())
	}
	if c.IME {
		t.Error("IME should be cleared on dispatch")
	}
	if c.mmu.Interrupts.ReadIF()&interrupts.VBlank.Flag() != 0 {
		t.Error("VBlank's IF bit should be cleared on dispatch")
	}
	if c.mmu.Interrupts.ReadIF()&interrupts.Timer.Flag() == 0 {
		t.Error("Timer's IF bit should remain pending")
	}
	ret := c.pop16()
	if ret != start {
		t.Errorf("pushed return address = $%04X, want $%04X", ret, start)
	}
}

func TestHaltBugReplaysTheNextInstruction(t *testing.T) {
	c := newTestCPU(t)
	c.IME = false
	c.mmu.Interrupts.WriteIE(0xFF)
	c.mmu.Interrupts.Raise(interrupts.VBlank)
	pc := c.PC
	c.load(0x76, 0x3C) // HALT ; INC A
	c.Step()           // HALT: arms haltBug instead of actually halting
	if c.halted {
		t.Fatal("CPU should not halt when an interrupt is already pending with IME clear (HALT bug path)")
	}
	if c.PC != pc+1 {
		t.Fatalf("PC after HALT = $%04X, want $%04X", c.PC, pc+1)
	}

	c.Step() // first execution of INC A: PC doesn't advance past it yet
	if c.PC != pc+1 {
		t.Errorf("PC after first (bugged) fetch = $%04X, want $%04X", c.PC, pc+1)
	}
	if c.A != 1 {
		t.Errorf("A = %d, want 1 after first INC A", c.A)
	}

	c.Step() // second, normal execution of the same byte
	if c.PC != pc+2 {
		t.Errorf("PC after replayed fetch = $%04X, want $%04X", c.PC, pc+2)
	}
	if c.A != 2 {
		t.Errorf("A = %d, want 2 after the HALT bug re-executes INC A", c.A)
	}
}

func TestHaltResumesOnInterrupt(t *testing.T) {
	c := newTestCPU(t)
	c.IME = true
	c.load(0x76) // HALT
	c.Step()
	if !c.halted {
		t.Fatal("expected CPU to halt")
	}
	c.mmu.Interrupts.WriteIE(0xFF)
	c.mmu.Interrupts.Raise(interrupts.VBlank)
	c.Step()
	if c.halted {
		t.Error("expected HALT to end once an enabled interrupt is pending")
	}
}

func TestIllegalOpcodePanics(t *testing.T) {
	c := newTestCPU(t)
	c.load(0xD3)
	defer func() {
		if recover() == nil {
			t.Error("expected Step to panic on an illegal opcode")
		}
	}()
	c.Step()
}
