package cartridge

import "testing"

// bankedROM builds a ROM with banks banks of 16KiB each, every bank's
// first byte stamped with its own bank number so reads can be checked
// against which bank is actually mapped.
func bankedROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = uint8(b)
	}
	rom[0x147] = uint8(MBC1RAMBATT)
	rom[0x148] = 4 // 32KiB << 4 = 512KiB = 32 banks
	rom[0x149] = 0x03
	return rom
}

func TestMBC1BankZeroAlwaysFixedAtLowWindow(t *testing.T) {
	m := newMBC1(bankedROM(32), 32*1024)
	m.romBankLow5 = 7
	if got := m.Read(0x0000); got != 0 {
		t.Errorf("Read($0000) = %d, want 0 (fixed bank 0)", got)
	}
}

func TestMBC1SwitchableWindowFollowsBankSelect(t *testing.T) {
	m := newMBC1(bankedROM(32), 32*1024)
	m.romBankLow5 = 5
	if got := m.Read(0x4000); got != 5 {
		t.Errorf("Read($4000) = %d, want bank 5", got)
	}
}

func TestMBC1BankZeroWriteCoercesToOne(t *testing.T) {
	m := newMBC1(bankedROM(32), 32*1024)
	m.Write(0x2000, 0x00)
	if m.romBankLow5 != 1 {
		t.Errorf("romBankLow5 = %d, want 1 (0 coerced)", m.romBankLow5)
	}
	if got := m.Read(0x4000); got != 1 {
		t.Errorf("Read($4000) = %d, want bank 1", got)
	}
}

func TestMBC1HighBitsExtendBankSelect(t *testing.T) {
	m := newMBC1(bankedROM(32), 32*1024)
	m.Write(0x2000, 0x01)  // low5 = 1
	m.Write(0x4000, 0x01)  // high2 = 1 -> bank = 1<<5 | 1 = 33, masked against 32 banks -> 1
	if got := m.effectiveROMBank(); got != 1 {
		t.Errorf("effectiveROMBank = %d, want 1 (masked against 32 banks)", got)
	}
}

func TestMBC1RAMGatedByEnableLatch(t *testing.T) {
	m := newMBC1(bankedROM(2), 8*1024)
	m.Write(0xA000, 0x11) // disabled: write dropped
	if got := m.Read(0xA000); got != 0xFF {
		t.Errorf("Read($A000) with RAM disabled = $%02X, want $FF", got)
	}

	m.Write(0x0000, 0x0A) // enable
	m.Write(0xA000, 0x11)
	if got := m.Read(0xA000); got != 0x11 {
		t.Errorf("Read($A000) with RAM enabled = $%02X, want $11", got)
	}
}

func TestMBC1RAMBankFollowsAdvancedModeOnly(t *testing.T) {
	m := newMBC1(bankedROM(32), 4*8*1024) // 4 RAM banks
	m.Write(0x0000, 0x0A)                 // enable RAM
	m.Write(0x4000, 0x02)                 // high2 = 2

	m.bankingMode = 0
	if got := m.effectiveRAMBank(); got != 0 {
		t.Errorf("simple mode effectiveRAMBank = %d, want 0", got)
	}

	m.Write(0x6000, 0x01) // advanced mode
	if got := m.effectiveRAMBank(); got != 2 {
		t.Errorf("advanced mode effectiveRAMBank = %d, want 2", got)
	}
}
