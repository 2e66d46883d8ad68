// Package mmu provides the unified 16-bit memory map: cartridge
// ROM/RAM, video RAM, work RAM, OAM, I/O registers, HRAM and the
// interrupt registers, all behind one Read/Write seam.
package mmu

import (
	"github.com/sharplr/gbcore/internal/cartridge"
	"github.com/sharplr/gbcore/internal/interrupts"
	"github.com/sharplr/gbcore/internal/types"
	"github.com/sharplr/gbcore/pkg/log"
)

// MMU is the memory management unit for the core. The PPU/APU/joypad
// proper are out of scope, so their register windows ($FF00-$FF7F minus
// IF) are backed by plain storage: reads/writes round-trip but carry no
// side effects beyond what's specified here.
type MMU struct {
	cart *cartridge.Cartridge

	vram [0x2000]uint8 // $8000-$9FFF
	wram wram           // $C000-$DFFF
	oam  [0xA0]uint8    // $FE00-$FE9F
	io   [0x80]uint8    // $FF00-$FF7F, raw backing store (IF handled separately)
	hram [0x7F]uint8    // $FF80-$FFFE

	Interrupts *interrupts.Controller

	Log log.Logger
}

// Opt customizes New. Most callers need none; WithLogger lets a test
// harness swap in a NullLogger to keep OAM-DMA diagnostics out of test
// output.
type Opt func(*MMU)

// WithLogger overrides the default Logger.
func WithLogger(l log.Logger) Opt {
	return func(m *MMU) { m.Log = l }
}

// New returns an MMU wired to cart, with every other region zeroed.
func New(cart *cartridge.Cartridge, opts ...Opt) *MMU {
	m := &MMU{
		cart:       cart,
		Interrupts: interrupts.NewController(),
		Log:        log.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reset zeroes every MMU-owned region and the interrupt registers. The
// cartridge itself is left alone: re-loading it is the caller's job.
func (m *MMU) Reset() {
	m.vram = [0x2000]uint8{}
	m.wram.reset()
	m.oam = [0xA0]uint8{}
	m.io = [0x80]uint8{}
	m.hram = [0x7F]uint8{}
	m.Interrupts.Reset()
}

// Read returns the byte currently mapped at address, dispatching to the
// region it falls in.
func (m *MMU) Read(address uint16) uint8 {
	switch {
	case address < 0x8000:
		return m.cart.Read(address)
	case address < 0xA000:
		return m.vram[address-0x8000]
	case address < 0xC000:
		return m.cart.Read(address)
	case address < 0xE000:
		return m.wram.read(address)
	case address < 0xFE00:
		return m.wram.read(address - 0x2000) // echo of $C000-$DDFF
	case address < 0xFEA0:
		return m.oam[address-0xFE00]
	case address < 0xFF00:
		return 0xFF // prohibited
	case address == types.IF:
		return m.Interrupts.ReadIF()
	case address < 0xFF80:
		return m.io[address-0xFF00]
	case address < 0xFFFF:
		return m.hram[address-0xFF80]
	default: // $FFFF
		return m.Interrupts.ReadIE()
	}
}

// Write stores value at address, dispatching to the region it falls in.
// A write to $FF46 additionally triggers the synchronous OAM DMA copy
// before the value itself is stored.
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address < 0x8000:
		m.cart.Write(address, value)
	case address < 0xA000:
		m.vram[address-0x8000] = value
	case address < 0xC000:
		m.cart.Write(address, value)
	case address < 0xE000:
		m.wram.write(address, value)
	case address < 0xFE00:
		m.wram.write(address-0x2000, value) // echo of $C000-$DDFF
	case address < 0xFEA0:
		m.oam[address-0xFE00] = value
	case address < 0xFF00:
		// prohibited, write ignored
	case address == types.IF:
		m.Interrupts.WriteIF(value)
	case address == types.DMA:
		m.oamDMA(value)
		m.io[address-0xFF00] = value
	case address < 0xFF80:
		m.io[address-0xFF00] = value
	case address < 0xFFFF:
		m.hram[address-0xFF80] = value
	default: // $FFFF
		m.Interrupts.WriteIE(value)
	}
}

// oamDMA performs the synchronous 160-byte copy into OAM that a write to
// $FF46 triggers: the source is (value << 8), read back through the full
// memory map so a DMA from WRAM or ROM behaves identically to one from
// any other region.
func (m *MMU) oamDMA(value uint8) {
	src := uint16(value) << 8
	for i := 0; i < len(m.oam); i++ {
		m.oam[i] = m.Read(src + uint16(i))
	}
	m.Log.Debugf("oam dma from $%04X", src)
}

// DumpRegion returns a copy of length bytes starting at start, reading
// through the same Read path callers would use. Intended for tests and
// the inspector's introspection surface, never for hot-path emulation.
func (m *MMU) DumpRegion(start uint16, length int) []uint8 {
	out := make([]uint8, length)
	for i := 0; i < length; i++ {
		out[i] = m.Read(start + uint16(i))
	}
	return out
}

// Cartridge returns the cartridge this MMU is wired to.
func (m *MMU) Cartridge() *cartridge.Cartridge {
	return m.cart
}
