package cart

import "testing"

func newTestCart(t *testing.T, cartType, romCode, ramCode byte, size int) *Cartridge {
	t.Helper()
	rom := buildROM("MBC", cartType, romCode, ramCode, size)
	for bank := 1; bank < size/ROMBankSize; bank++ {
		rom[bank*ROMBankSize] = byte(bank)
	}
	c, err := Load(rom)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return c
}

func TestMBC1_ROMBanking(t *testing.T) {
	c := newTestCart(t, 0x01, 0x02, 0x00, 128*1024)
	m := NewMBC1(c)

	// Bank0 region reads from bank 0 in mode 0
	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("bank0 read got %02X want 00", got)
	}

	// Switchable bank defaults to 1
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank1 read got %02X want 01", got)
	}

	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %02X want 03", got)
	}

	// Writing 0 maps to 1
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank0->1 remap failed: got %02X", got)
	}
}

func TestMBC1_RAMBanking_Mode1(t *testing.T) {
	c := newTestCart(t, 0x03, 0x02, 0x03, 128*1024)
	m := NewMBC1(c)

	// disabled RAM reads open bus
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled RAM read got %02X want FF", got)
	}
	m.Write(0x0000, 0x0A)
	m.Write(0x6000, 0x01)
	m.Write(0x4000, 0x02)

	m.Write(0xA000, 0x77)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank2 RW failed: got %02X", got)
	}
	if c.RAM[2][0] != 0x77 {
		t.Fatalf("write landed outside bank 2")
	}
}

func TestMBC1_StateRoundTrip(t *testing.T) {
	c := newTestCart(t, 0x01, 0x02, 0x00, 128*1024)
	m := NewMBC1(c)
	m.Write(0x2000, 0x05)
	data := m.SaveState()

	n := NewMBC1(c)
	if err := n.LoadState(data); err != nil {
		t.Fatalf("LoadState error: %v", err)
	}
	if got := n.Read(0x4000); got != 0x05 {
		t.Fatalf("restored bank got %02X want 05", got)
	}
}
