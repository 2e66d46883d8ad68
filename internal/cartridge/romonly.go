package cartridge

// romOnly is the no-MBC cartridge type ($0147 == $00): a flat, unbanked
// ROM image with no external RAM and no bank-switching side effects on
// writes into ROM space.
type romOnly struct {
	rom []byte
}

func newROMOnly(rom []byte) *romOnly {
	return &romOnly{rom: rom}
}

func (r *romOnly) Read(address uint16) uint8 {
	if int(address) >= len(r.rom) {
		return 0xFF
	}
	return r.rom[address]
}

// Write is a no-op: a cartridge with no MBC ignores writes into ROM space,
// and writes into the $A000-$BFFF window, which the MMU also routes here,
// are dropped because there is no external RAM.
func (r *romOnly) Write(address uint16, value uint8) {}
