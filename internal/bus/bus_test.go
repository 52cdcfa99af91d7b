package bus

import (
	"math/rand"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/apu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/regs"
)

func newBus(t *testing.T, cartType, cgb byte) (*Bus, *ppu.Compositor, *apu.Synthesizer) {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0x42
	rom[0x4000] = 0x43
	rom[0x0143] = cgb
	rom[0x0147] = cartType
	c, err := cart.Load(rom)
	if err != nil {
		t.Fatal(err)
	}
	r := &regs.File{}
	p := ppu.New(r, c.Color, nil)
	a := apu.New(r, 44100, rand.New(rand.NewSource(1)))
	return New(cart.NewController(c), p, a, r), p, a
}

func TestBus_ROMAndRAM(t *testing.T) {
	b, _, _ := newBus(t, 0x00, 0)

	if got := b.Read(0x0100); got != 0x42 {
		t.Fatalf("ROM read got %02x, want 42", got)
	}
	if got := b.Read(0x4000); got != 0x43 {
		t.Fatalf("ROM bank 1 read got %02x, want 43", got)
	}

	b.Write(0xC000, 0x99)
	if got := b.Read(0xC000); got != 0x99 {
		t.Fatalf("RAM read got %02x, want 99", got)
	}

	// Echo RAM mirrors C000–DDFF
	b.Write(0xE000, 0x55)
	if got := b.Read(0xC000); got != 0x55 {
		t.Fatalf("Echo write did not mirror to WRAM: got %02x", got)
	}

	b.Write(0xFF80, 0xAB)
	if got := b.Read(0xFF80); got != 0xAB {
		t.Fatalf("HRAM read got %02x, want AB", got)
	}

	if got := b.Read(0xA123); got != 0xFF {
		t.Fatalf("Ext RAM (ROM-only) got %02x, want FF", got)
	}
	if got := b.Read(0xFEA0); got != 0xFF {
		t.Fatalf("unusable region got %02x, want FF", got)
	}
}

func TestBus_VRAMAndOAM(t *testing.T) {
	b, p, _ := newBus(t, 0x00, 0)

	b.Write(0x8000, 0x11)
	if got := p.ReadVRAM(0); got != 0x11 {
		t.Fatalf("VRAM got %02x, want 11", got)
	}
	b.Write(0xFE00, 0x22)
	if got := b.Read(0xFE00); got != 0x22 {
		t.Fatalf("OAM read got %02x, want 22", got)
	}
	b.Write(0xFFFF, 0x1B)
	if got := b.Read(0xFFFF); got != 0x1B {
		t.Fatalf("IE read got %02x, want 1B", got)
	}
}

func TestBus_LCDCAndPalettes(t *testing.T) {
	b, p, _ := newBus(t, 0x00, 0)

	b.Write(0xFF40, 0x00)
	if p.Control() != 0x00 || b.Read(0xFF40) != 0x00 {
		t.Fatalf("LCDC not forwarded: %02x", p.Control())
	}
	p.SetScheme(ppu.Schemes[5])
	b.Write(0xFF47, 0xE4)
	if got := b.Read(0xFF47); got != 0xE4 {
		t.Fatalf("BGP read got %02x, want E4", got)
	}
}

func TestBus_DMA(t *testing.T) {
	b, p, _ := newBus(t, 0x00, 0)
	for i := uint16(0); i < 0xA0; i++ {
		b.Write(0xC100+i, byte(i))
	}
	b.Write(0xFF46, 0xC1)
	for i := uint16(0); i < 0xA0; i++ {
		if got := p.ReadOAM(i); got != byte(i) {
			t.Fatalf("OAM[%d] got %02x, want %02x", i, got, byte(i))
		}
	}
}

func TestBus_SoundRegisters(t *testing.T) {
	b, _, a := newBus(t, 0x00, 0)
	b.Write(0xFF25, 0x00)
	if got := b.Read(0xFF25); got != 0x00 {
		t.Fatalf("NR51 got %02x, want 00", got)
	}
	b.Write(0xFF26, 0x80)
	b.Write(0xFF12, 0xF0)
	b.Write(0xFF14, 0x80)
	out := a.Render(8)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("routed-off channel produced %d at %d", v, i)
		}
	}
	b.Write(0xFF30, 0xAB)
	if got := b.Read(0xFF30); got != 0xAB {
		t.Fatalf("wave RAM got %02x, want AB", got)
	}
}

func TestBus_ColorPaletteAutoIncrement(t *testing.T) {
	b, p, _ := newBus(t, 0x00, 0x80)
	b.Write(0xFF68, 0x80|0x02)
	b.Write(0xFF69, 0x1F)
	b.Write(0xFF69, 0x00)
	if got := b.Read(0xFF68); got != 0x84 {
		t.Fatalf("BCPS got %02x, want 84", got)
	}
	if got := p.ColorPalette(2); got != 0x1F {
		t.Fatalf("palette[2] got %02x, want 1F", got)
	}
	b.Write(0xFF68, 0x02)
	if got := b.Read(0xFF69); got != 0x1F {
		t.Fatalf("BCPD read got %02x, want 1F", got)
	}

	b.Write(0xFF6A, 0x3F|0x80)
	b.Write(0xFF6B, 0x7C)
	if got := b.Read(0xFF6A); got != 0x80 {
		t.Fatalf("OCPS wrap got %02x, want 80", got)
	}
	if got := p.ColorPalette(0x7F); got != 0x7C {
		t.Fatalf("sprite palette byte got %02x, want 7C", got)
	}
}

func TestBus_ColorBanks(t *testing.T) {
	b, p, _ := newBus(t, 0x00, 0x80)
	b.Write(0xFF4F, 0x01)
	b.Write(0x8000, 0x77)
	if p.VRAMBank() != 1 || b.Read(0xFF4F) != 0xFF {
		t.Fatalf("VBK not applied: bank %d read %02x", p.VRAMBank(), b.Read(0xFF4F))
	}
	b.Write(0xFF4F, 0x00)
	if got := b.Read(0x8000); got != 0x00 {
		t.Fatalf("bank 0 got %02x, want 00", got)
	}

	b.Write(0xFF70, 0x02)
	b.Write(0xD000, 0x12)
	b.Write(0xFF70, 0x03)
	if got := b.Read(0xD000); got != 0x00 {
		t.Fatalf("bank 3 got %02x, want 00", got)
	}
	b.Write(0xFF70, 0x00) // 0 selects bank 1
	if b.WorkRAMBank() != 1 {
		t.Fatalf("SVBK 0 selected bank %d", b.WorkRAMBank())
	}
	b.Write(0xFF70, 0x02)
	if got := b.Read(0xD000); got != 0x12 {
		t.Fatalf("bank 2 got %02x, want 12", got)
	}
}

func TestBus_MonochromeIgnoresColorRegisters(t *testing.T) {
	b, p, _ := newBus(t, 0x00, 0)
	b.Write(0xFF4F, 0x01)
	if p.VRAMBank() != 0 {
		t.Fatalf("DMG VRAM bank switched to %d", p.VRAMBank())
	}
	b.Write(0xFF70, 0x03)
	if b.WorkRAMBank() != 1 {
		t.Fatalf("DMG WRAM bank switched to %d", b.WorkRAMBank())
	}
}

func TestBus_Cheats(t *testing.T) {
	b, _, _ := newBus(t, 0x00, 0)
	b.Write(0xC000, 0x05)
	b.AddCheat(Cheat{Addr: 0xC000, Value: 0x63})
	if got := b.Read(0xC000); got != 0x63 {
		t.Fatalf("cheat read got %02x, want 63", got)
	}

	b.AddCheat(Cheat{Addr: 0x0100, Value: 0x00, Compare: 0x41, HasCompare: true})
	if got := b.Read(0x0100); got != 0x42 {
		t.Fatalf("compare mismatch got %02x, want 42", got)
	}
	b.AddCheat(Cheat{Addr: 0x0100, Value: 0x00, Compare: 0x42, HasCompare: true})
	if got := b.Read(0x0100); got != 0x00 {
		t.Fatalf("compare match got %02x, want 00", got)
	}
	if len(b.Cheats()) != 2 {
		t.Fatalf("cheats got %d, want 2", len(b.Cheats()))
	}
	b.ClearCheats()
	if got := b.Read(0xC000); got != 0x05 {
		t.Fatalf("after clear got %02x, want 05", got)
	}
}
