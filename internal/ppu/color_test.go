package ppu

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/regs"
)

func setColor(p *Compositor, index int, rgb555 uint16) {
	p.SetColorPalette(index, byte(rgb555))
	p.SetColorPalette(index+1, byte(rgb555>>8))
}

func TestDecodeRGB555(t *testing.T) {
	if got := decodeRGB555(0x7FFF); got != 0x80F8F8F8 {
		t.Fatalf("white got %08X", got)
	}
	if got := decodeRGB555(0x001F); got != 0x80F80000 {
		t.Fatalf("red got %08X", got)
	}
	if got := decodeRGB555(0x7C00); got != 0x800000F8 {
		t.Fatalf("blue got %08X", got)
	}
}

func TestColorPaletteColorZeroNotOpaque(t *testing.T) {
	p := New(new(regs.File), true, nil)
	setColor(p, 0, 0x7FFF)
	if opaque(p.cgbPal[0]) {
		t.Fatalf("background color 0 opaque")
	}
	setColor(p, 2, 0x7FFF)
	if !opaque(p.cgbPal[1]) {
		t.Fatalf("background color 1 not opaque")
	}
	if got := p.ColorPalette(3); got != 0x7F {
		t.Fatalf("raw read got %02X want 7F", got)
	}
	if got := p.ColorPalette(0x50); got != 0xFF {
		t.Fatalf("unwritten raw read got %02X want FF", got)
	}
}

func TestColorPaletteSameByteKeepsCache(t *testing.T) {
	p := New(new(regs.File), true, nil)
	setColor(p, 2, 0x001F)
	before := p.resolveTile(0, 0)
	p.SetColorPalette(2, 0x1F)
	if p.tiles[p.tileKey(0, 0)] != before {
		t.Fatalf("unchanged palette byte dropped cache entry")
	}
	p.SetColorPalette(2, 0x1E)
	if p.tiles[p.tileKey(0, 0)] != nil {
		t.Fatalf("changed palette byte kept cache entry")
	}
}

func TestColorBankTwoTiles(t *testing.T) {
	p := New(new(regs.File), true, nil)
	setColor(p, 6, 0x001F) // bg palette 0 color 3 red
	p.SetVRAMBank(1)
	writeTileRow(p, 1, 0, 0xFF, 0xFF)
	p.WriteVRAM(0x1800, 0x08) // attribute: tile from bank 1
	p.SetVRAMBank(0)
	p.WriteVRAM(0x1800, 1)
	p.NotifyScanline(0)
	if got := p.Frame().At(0, 0); got != 0xF80000 {
		t.Fatalf("bank 1 tile got %06X want F80000", got)
	}
}

func TestColorPriorityTileRedrawnOverSprites(t *testing.T) {
	p := New(new(regs.File), true, nil)
	p.WriteControl(0x93)
	setColor(p, 0, 0x7FFF)
	setColor(p, 0x42, 0x001F) // sprite palette 0 color 1 red

	p.SetVRAMBank(1)
	p.WriteVRAM(0x1800, 0x80) // first map cell has priority
	p.SetVRAMBank(0)
	p.WriteVRAM(0x1800, 1)
	writeTileRow(p, 2, 0, 0xFF, 0x00)
	placeSprite(p, 0, 16, 12, 2, 0) // covers x 4..11

	p.NotifyScanline(0)
	if got := p.Frame().At(4, 0); got != 0xF8F8F8 {
		t.Fatalf("priority tile under sprite got %06X want F8F8F8", got)
	}
	if got := p.Frame().At(8, 0); got != 0xF80000 {
		t.Fatalf("sprite over normal tile got %06X want F80000", got)
	}

	// with the master priority bit off sprites always win
	p.WriteControl(0x92)
	p.NotifyScanline(0)
	if got := p.Frame().At(4, 0); got != 0xF80000 {
		t.Fatalf("master priority off got %06X want F80000", got)
	}
}

func TestStateRoundTrip(t *testing.T) {
	p := New(new(regs.File), true, nil)
	setColor(p, 6, 0x03E0)
	writeTileRow(p, 1, 0, 0xFF, 0xFF)
	p.WriteVRAM(0x1800, 1)
	p.WriteControl(0x93)
	data := p.SaveState()

	q := New(new(regs.File), true, nil)
	if err := q.LoadState(data); err != nil {
		t.Fatalf("LoadState error: %v", err)
	}
	q.NotifyScanline(0)
	if got := q.Frame().At(0, 0); got != 0x00F800 {
		t.Fatalf("restored pixel got %06X want 00F800", got)
	}
	if q.Control() != 0x93 {
		t.Fatalf("LCDC got %02X", q.Control())
	}
}
