package mmu

// wram is the DMG work-RAM block: two fixed 4KiB banks at $C000-$CFFF
// and $D000-$DFFF. There is no SVBK bank switch here — bank 1 is
// always mapped at $D000, with no CGB bank switching.
type wram struct {
	bank0 [0x1000]uint8
	bank1 [0x1000]uint8
}

func (w *wram) read(addr uint16) uint8 {
	if addr < 0xD000 {
		return w.bank0[addr&0xFFF]
	}
	return w.bank1[addr&0xFFF]
}

func (w *wram) write(addr uint16, v uint8) {
	if addr < 0xD000 {
		w.bank0[addr&0xFFF] = v
	} else {
		w.bank1[addr&0xFFF] = v
	}
}

func (w *wram) reset() {
	w.bank0 = [0x1000]uint8{}
	w.bank1 = [0x1000]uint8{}
}
