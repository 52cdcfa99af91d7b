package cart

import "testing"

func TestMBC5_NineBitBank(t *testing.T) {
	c := newTestCart(t, 0x19, 0x07, 0x00, 256*ROMBankSize)
	m := NewMBC5(c)

	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x00 {
		t.Fatalf("bank 0 selectable: got %02X", got)
	}
	m.Write(0x2000, 0xFE)
	if got := m.Read(0x4000); got != 0xFE {
		t.Fatalf("bank FE got %02X", got)
	}
	// bit 8 wraps onto a 256-bank image
	m.Write(0x3000, 0x01)
	if got := m.Read(0x4000); got != 0xFE {
		t.Fatalf("bank 1FE wrapped got %02X want FE", got)
	}
}

func TestMBC5_RAMBanks(t *testing.T) {
	c := newTestCart(t, 0x1B, 0x00, 0x04, 32*1024)
	m := NewMBC5(c)
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x0F)
	m.Write(0xBFFF, 0x12)
	if c.RAM[15][RAMBankSize-1] != 0x12 {
		t.Fatalf("RAM bank 15 write missing")
	}
	m.Write(0x0000, 0x00)
	if got := m.Read(0xBFFF); got != 0xFF {
		t.Fatalf("disabled read got %02X want FF", got)
	}
}
