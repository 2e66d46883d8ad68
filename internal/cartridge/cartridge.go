// Package cartridge parses a Game Boy ROM header and builds the MBC that
// drives ROM ($0000-$7FFF) and external RAM ($A000-$BFFF) accesses for it.
package cartridge

import (
	"github.com/cespare/xxhash"

	"github.com/sharplr/gbcore/internal/gberr"
)

// Cartridge owns a parsed Header plus the MBC implementation selected for
// its CartridgeType. The MMU holds one of these for the whole ROM/RAM
// address space it doesn't serve itself.
type Cartridge struct {
	header Header
	mbc    MBC
	digest uint64
}

// Opt customizes Load. Most test ROMs need no options at all; ForceRAMSize
// exists for the handful that expect battery RAM despite a header
// reporting $00.
type Opt func(*options)

type options struct {
	forceRAMSize int
}

// ForceRAMSize overrides the RAM size parsed from the header, for cartridge
// images whose header disagrees with what the ROM itself actually expects.
func ForceRAMSize(bytes int) Opt {
	return func(o *options) { o.forceRAMSize = bytes }
}

// Load parses rom's header and builds the matching MBC. It returns
// *gberr.InvalidMBC if the header names a cartridge type this core does
// not implement.
func Load(rom []byte, opts ...Opt) (*Cartridge, error) {
	header, err := parseHeader(rom)
	if err != nil {
		return nil, err
	}
	if !header.CartridgeType.Supported() {
		return nil, &gberr.InvalidMBC{CartridgeType: uint8(header.CartridgeType)}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	ramSize := header.RAMSize
	if o.forceRAMSize > 0 {
		ramSize = o.forceRAMSize
	}

	var mbc MBC
	switch header.CartridgeType {
	case ROM:
		mbc = newROMOnly(rom)
	case MBC1, MBC1RAM, MBC1RAMBATT:
		mbc = newMBC1(rom, ramSize)
	}

	return &Cartridge{
		header: header,
		mbc:    mbc,
		digest: xxhash.Sum64(rom),
	}, nil
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() Header {
	return c.header
}

// Digest returns the xxhash fingerprint of the raw ROM image, used in logs
// (gbcore-inspect prints it at load) to identify a loaded ROM without
// printing it in full.
func (c *Cartridge) Digest() uint64 {
	return c.digest
}

// Read dispatches a ROM or external-RAM read to the underlying MBC.
func (c *Cartridge) Read(address uint16) uint8 {
	return c.mbc.Read(address)
}

// Write dispatches a ROM or external-RAM write to the underlying MBC.
func (c *Cartridge) Write(address uint16, value uint8) {
	c.mbc.Write(address, value)
}
