// Package bus decodes CPU addresses onto the cartridge controller, video
// memory, work RAM and the I/O page, forwarding register writes to the
// compositor and synthesizer.
package bus

import (
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/apu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/regs"
)

// SVBK selects the upper work RAM bank on color hardware.
const SVBK = 0x70

type Bus struct {
	mbc  cart.Controller
	ppu  *ppu.Compositor
	apu  *apu.Synthesizer
	regs *regs.File

	wram     [8][0x1000]byte
	wramBank int
	color    bool

	cheats map[uint16]Cheat
}

// Cheat replaces the byte read at Addr with Value. With HasCompare set the
// replacement only applies while the real byte equals Compare.
type Cheat struct {
	Addr       uint16
	Value      byte
	Compare    byte
	HasCompare bool
}

func New(mbc cart.Controller, p *ppu.Compositor, a *apu.Synthesizer, r *regs.File) *Bus {
	return &Bus{
		mbc:      mbc,
		ppu:      p,
		apu:      a,
		regs:     r,
		wramBank: 1,
		color:    p != nil && p.Color(),
		cheats:   map[uint16]Cheat{},
	}
}

// Controller returns the cartridge banking controller.
func (b *Bus) Controller() cart.Controller { return b.mbc }

// AddCheat installs c, replacing any cheat at the same address.
func (b *Bus) AddCheat(c Cheat) { b.cheats[c.Addr] = c }

func (b *Bus) ClearCheats() { b.cheats = map[uint16]Cheat{} }

// Cheats returns the installed cheats in no particular order.
func (b *Bus) Cheats() []Cheat {
	out := make([]Cheat, 0, len(b.cheats))
	for _, c := range b.cheats {
		out = append(out, c)
	}
	return out
}

func (b *Bus) Read(addr uint16) byte {
	v := b.read(addr)
	if c, ok := b.cheats[addr]; ok && (!c.HasCompare || c.Compare == v) {
		return c.Value
	}
	return v
}

func (b *Bus) read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return b.mbc.Read(addr)
	case addr < 0xA000:
		return b.ppu.ReadVRAM(addr - 0x8000)
	case addr < 0xC000:
		return b.mbc.Read(addr)
	case addr < 0xD000:
		return b.wram[0][addr-0xC000]
	case addr < 0xE000:
		return b.wram[b.wramBank][addr-0xD000]
	case addr < 0xFE00: // echo of C000-DDFF
		return b.read(addr - 0x2000)
	case addr < 0xFEA0:
		return b.ppu.ReadOAM(addr - 0xFE00)
	case addr < 0xFF00:
		return 0xFF
	}
	return b.readIO(byte(addr))
}

func (b *Bus) readIO(num byte) byte {
	switch num {
	case regs.LCDC:
		return b.ppu.Control()
	case regs.VBK:
		if b.color {
			return 0xFE | byte(b.ppu.VRAMBank())
		}
	case regs.BCPD:
		if b.color {
			return b.ppu.ColorPalette(int(b.regs.Get(regs.BCPS) & 0x3F))
		}
	case regs.OCPD:
		if b.color {
			return b.ppu.ColorPalette(0x40 + int(b.regs.Get(regs.OCPS)&0x3F))
		}
	case SVBK:
		if b.color {
			return 0xF8 | byte(b.wramBank)
		}
	}
	return b.regs.Get(num)
}

func (b *Bus) Write(addr uint16, v byte) {
	switch {
	case addr < 0x8000:
		b.mbc.Write(addr, v)
	case addr < 0xA000:
		b.ppu.WriteVRAM(addr-0x8000, v)
	case addr < 0xC000:
		b.mbc.Write(addr, v)
	case addr < 0xD000:
		b.wram[0][addr-0xC000] = v
	case addr < 0xE000:
		b.wram[b.wramBank][addr-0xD000] = v
	case addr < 0xFE00:
		b.Write(addr-0x2000, v)
	case addr < 0xFEA0:
		b.ppu.WriteOAM(addr-0xFE00, v)
	case addr < 0xFF00:
	default:
		b.writeIO(byte(addr), v)
	}
}

// writeIO stores v in the register page and applies its side effects.
func (b *Bus) writeIO(num, v byte) {
	if num >= regs.NR10 && num <= regs.Wave+0x0F {
		b.apu.IOWrite(num, v)
		return
	}
	b.regs.Set(num, v)
	switch num {
	case regs.LCDC:
		b.ppu.WriteControl(v)
	case regs.DMA:
		b.dma(v)
	case regs.BGP, regs.OBP0, regs.OBP1:
		b.ppu.SetDMGPalette(int(num-regs.BGP), v)
	case regs.VBK:
		b.ppu.SetVRAMBank(int(v & 1))
	case regs.BCPD:
		b.writePalette(regs.BCPS, 0, v)
	case regs.OCPD:
		b.writePalette(regs.OCPS, 0x40, v)
	case SVBK:
		if b.color {
			b.wramBank = int(v & 7)
			if b.wramBank == 0 {
				b.wramBank = 1
			}
		}
	}
}

// writePalette stores a color palette byte at the index held in the
// selector register, advancing the index when its bit 7 is set.
func (b *Bus) writePalette(sel byte, base int, v byte) {
	if !b.color {
		return
	}
	s := b.regs.Get(sel)
	b.ppu.SetColorPalette(base+int(s&0x3F), v)
	if s&0x80 != 0 {
		b.regs.Set(sel, 0x80|(s+1)&0x3F)
	}
}

// dma copies 160 bytes from src<<8 into sprite attribute memory.
func (b *Bus) dma(src byte) {
	base := uint16(src) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.ppu.WriteOAM(i, b.read(base+i))
	}
}

// WorkRAMBank returns the bank mapped at 0xD000.
func (b *Bus) WorkRAMBank() int { return b.wramBank }

// WorkRAM exposes the eight work RAM banks for snapshots.
func (b *Bus) WorkRAM() *[8][0x1000]byte { return &b.wram }

// SetWorkRAMBank restores the bank register from a snapshot.
func (b *Bus) SetWorkRAMBank(n int) {
	if n < 1 || n > 7 {
		n = 1
	}
	b.wramBank = n
}
