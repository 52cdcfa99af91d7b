// Package ppu composites background, window and sprite tiles into a
// 160x144 frame, one scanline per notification from the CPU side.
package ppu

import (
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/pace"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/regs"
)

const (
	Width  = 160
	Height = 144

	tilesPerBank = 384
)

// FrameSink receives each presented frame. The buffer is reused for the
// next frame, so sinks that keep it past the call must copy it.
type FrameSink interface {
	Frame(fb *FrameBuffer, skipped int)
}

// FrameSinkFunc adapts a function to FrameSink.
type FrameSinkFunc func(fb *FrameBuffer, skipped int)

func (f FrameSinkFunc) Frame(fb *FrameBuffer, skipped int) { f(fb, skipped) }

// Compositor owns video memory, the decoded tile cache and the palettes.
type Compositor struct {
	regs  *regs.File
	sink  FrameSink
	color bool

	vram [2][0x2000]byte
	bank int
	oam  [0xA0]byte

	// LCDC decoded
	lcdEnabled     bool
	bgEnabled      bool
	winEnabled     bool
	spritesEnabled bool
	spritePriority bool
	tallSprites    bool
	unsignedTiles  bool // 0x8000 addressing
	hiBgMap        bool
	hiWinMap       bool
	lcdc           byte

	scheme Scheme
	dmgRaw [3]byte
	dmgPal [12]uint32
	cgbRaw [128]int16 // -1 until written
	cgbPal [64]uint32

	tileCount         int
	transparentCutoff int
	tiles             []*tile
	tileRead          []bool
	transparent       *tile

	fb         FrameBuffer
	windowLine int

	gate    *pace.Gate
	skipper pace.Skipper
	frames  uint64
}

// New builds a compositor reading scroll and window registers from r.
// color selects the color hardware model (two VRAM banks, 64-entry palette).
func New(r *regs.File, color bool, sink FrameSink) *Compositor {
	p := &Compositor{
		regs:        r,
		sink:        sink,
		color:       color,
		scheme:      Schemes[0],
		gate:        pace.NewGate(),
		transparent: new(tile),
	}
	colors := 12
	p.tileCount = tilesPerBank
	p.transparentCutoff = 4
	if color {
		colors = 64
		p.tileCount = tilesPerBank * 2
		p.transparentCutoff = 32
	}
	p.tiles = make([]*tile, p.tileCount*colors)
	p.tileRead = make([]bool, p.tileCount)

	p.resetColorPalettes()
	p.SetDMGPalette(0, 0xFC)
	p.SetDMGPalette(1, 0xFF)
	p.SetDMGPalette(2, 0xFF)
	p.WriteControl(0x91)
	return p
}

// Color reports whether the color hardware model is active.
func (p *Compositor) Color() bool { return p.color }

// SetSink replaces the frame consumer.
func (p *Compositor) SetSink(s FrameSink) { p.sink = s }

// SetSpeed presents one frame in every n. See pace.Gate.
func (p *Compositor) SetSpeed(n int) error { return p.gate.SetSpeed(n) }

// SetMaxFrameSkip bounds how many frames may be dropped to keep up with
// real time. Zero disables skipping.
func (p *Compositor) SetMaxFrameSkip(n int) { p.skipper.MaxSkip = n }

// SetClock injects the wall clock used by frame skipping.
func (p *Compositor) SetClock(now func() int64) { p.skipper.Now = now }

// Lead reports how far emulation is ahead of real time.
func (p *Compositor) Lead() time.Duration { return p.skipper.Lead() }

// ResetClock forgets frame skipping history, e.g. after a pause.
func (p *Compositor) ResetClock() { p.skipper.Reset() }

// Frames counts presented frames.
func (p *Compositor) Frames() uint64 { return p.frames }

// WriteControl decodes the LCD control byte.
func (p *Compositor) WriteControl(data byte) {
	p.lcdc = data
	p.lcdEnabled = data&0x80 != 0
	p.hiWinMap = data&0x40 != 0
	p.winEnabled = data&0x20 != 0
	p.unsignedTiles = data&0x10 != 0
	p.hiBgMap = data&0x08 != 0
	p.tallSprites = data&0x04 != 0
	p.spritesEnabled = data&0x02 != 0
	p.bgEnabled = true
	p.spritePriority = true
	if p.color {
		// bit 0 is the master priority switch on color hardware
		p.spritePriority = data&0x01 != 0
	} else if data&0x01 == 0 {
		p.bgEnabled = false
		p.winEnabled = false
	}
}

// Control returns the last LCD control byte.
func (p *Compositor) Control() byte { return p.lcdc }

// SetVRAMBank selects the bank CPU-side VRAM accesses go to.
func (p *Compositor) SetVRAMBank(bank int) {
	if !p.color {
		return
	}
	p.bank = bank & 1
}

// VRAMBank returns the selected bank.
func (p *Compositor) VRAMBank() int { return p.bank }

// WriteVRAM stores a byte at addr (0x0000–0x1FFF) of the selected bank,
// dropping cached decodes of the tile it belongs to first.
func (p *Compositor) WriteVRAM(addr uint16, v byte) {
	addr &= 0x1FFF
	mem := &p.vram[p.bank]
	if mem[addr] == v {
		return
	}
	if addr < 0x1800 {
		p.invalidateTile(int(addr>>4) + p.bank*tilesPerBank)
	}
	mem[addr] = v
}

// ReadVRAM returns the byte at addr of the selected bank.
func (p *Compositor) ReadVRAM(addr uint16) byte { return p.vram[p.bank][addr&0x1FFF] }

// WriteOAM stores one byte of sprite attribute memory (0x00–0x9F).
func (p *Compositor) WriteOAM(addr uint16, v byte) {
	if int(addr) < len(p.oam) {
		p.oam[addr] = v
	}
}

func (p *Compositor) ReadOAM(addr uint16) byte {
	if int(addr) < len(p.oam) {
		return p.oam[addr]
	}
	return 0xFF
}

// NotifyScanline composites line (0..153). Lines past the visible area and
// lines of frames being skipped do nothing.
func (p *Compositor) NotifyScanline(line int) {
	if p.skipper.Skipping() || line < 0 || line >= Height {
		return
	}
	if line == 0 {
		p.windowLine = 0
	}

	windowLeft := Width
	if p.winEnabled && int(p.regs.Get(regs.WY)) <= line {
		windowLeft = int(p.regs.Get(regs.WX)) - 7
		if windowLeft > Width {
			windowLeft = Width
		}
	}

	if !p.bgEnabled {
		p.blankLine(line)
	}
	skipped := p.drawBackground(line, windowLeft, 0)
	p.drawSprites(line)
	if skipped {
		p.drawBackground(line, windowLeft, 0x80)
	}
	if windowLeft < Width {
		p.windowLine++
	}

	if line == Height-1 && !p.lcdEnabled {
		p.fb.Fill(0xFFFFFFFF)
	}
}

// EndFrame closes the frame at vertical blank and hands it to the sink
// unless speed or frame skipping drops it.
func (p *Compositor) EndFrame() {
	if !p.gate.Tick() {
		return
	}
	present, skipped := p.skipper.VBlank()
	if !present {
		return
	}
	if !p.lcdEnabled {
		p.fb.Fill(0xFFFFFFFF)
	}
	p.frames++
	if p.sink != nil {
		p.sink.Frame(&p.fb, skipped)
	}
}

// Frame returns the frame buffer being composited.
func (p *Compositor) Frame() *FrameBuffer { return &p.fb }
