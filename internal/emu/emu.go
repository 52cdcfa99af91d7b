// Package emu wires a cartridge, the bus, the compositor and the
// synthesizer into a Machine driven by an external CPU (or a script
// standing in for one) through memory accesses and timing notifications.
package emu

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/apu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/regs"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/romfile"
)

var ErrNoCartridge = errors.New("no cartridge loaded")

// Lines is the number of scanlines in one frame, vertical blank included.
const Lines = 154

// AudioSink receives one chunk of signed 8-bit PCM per vertical blank.
// Stereo chunks interleave left and right.
type AudioSink interface {
	Samples(pcm []byte, stereo bool)
}

// AudioSinkFunc adapts a function to AudioSink.
type AudioSinkFunc func(pcm []byte, stereo bool)

func (f AudioSinkFunc) Samples(pcm []byte, stereo bool) { f(pcm, stereo) }

type Machine struct {
	cfg Config

	cart *cart.Cartridge
	mbc  cart.Controller
	regs *regs.File
	bus  *bus.Bus
	ppu  *ppu.Compositor
	apu  *apu.Synthesizer

	frameSink ppu.FrameSink
	audioSink AudioSink
	now       func() int64
	rng       *rand.Rand
	romPath   string
}

func New(cfg Config) *Machine {
	cfg.Defaults()
	return &Machine{cfg: cfg, now: func() int64 { return time.Now().UnixMilli() }}
}

// Config returns the settings the machine runs with.
func (m *Machine) Config() Config { return m.cfg }

// SetRand fixes the noise source used by the next LoadCartridge.
func (m *Machine) SetRand(r *rand.Rand) { m.rng = r }

// SetClock injects the wall clock used for frame skipping and the
// cartridge clock.
func (m *Machine) SetClock(now func() int64) {
	m.now = now
	if m.ppu != nil {
		m.ppu.SetClock(now)
	}
	if m.cart != nil {
		m.cart.SetClock(now)
	}
}

// LoadCartridge replaces the running cartridge and resets every subsystem.
// On error the previous cartridge keeps running.
func (m *Machine) LoadCartridge(image []byte) error {
	c, err := cart.Load(image)
	if err != nil {
		return err
	}
	c.SetClock(m.now)
	r := &regs.File{}
	color := m.cfg.Color && c.Color
	p := ppu.New(r, color, m.frameSink)
	p.SetClock(m.now)
	p.SetMaxFrameSkip(m.cfg.MaxFrameSkip)
	a := apu.New(r, m.cfg.SampleRate, m.rng)
	a.SetStereo(m.cfg.Stereo)
	mbc := cart.NewController(c)

	m.cart, m.mbc, m.regs, m.ppu, m.apu = c, mbc, r, p, a
	m.bus = bus.New(mbc, p, a, r)
	if err := m.applySpeed(m.cfg.Speed); err != nil {
		m.cfg.Speed = 1
	}
	if !color {
		m.applyScheme()
	}
	m.applyPostBootIO()

	h := c.Header
	log.Printf("ROM: %q type=%s banks=%d ram=%dB color=%v", h.Title, h.CartTypeStr, c.ROMBankCount(), c.RAMBankCount()*cart.RAMBankSize, color)
	return nil
}

// LoadROMFromFile loads a cartridge image from disk.
func (m *Machine) LoadROMFromFile(path string) error {
	data, err := romfile.Read(path)
	if err != nil {
		return err
	}
	if err := m.LoadCartridge(data); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

// ROMPath returns the path of the last cartridge loaded from disk.
func (m *Machine) ROMPath() string { return m.romPath }

// applyPostBootIO sets the registers the boot ROM leaves behind.
func (m *Machine) applyPostBootIO() {
	b := m.bus
	b.Write(0xFF40, 0x91) // LCD on, BG on, tile data 8000, sprites 8x8
	b.Write(0xFF47, 0xFC)
	b.Write(0xFF48, 0xFF)
	b.Write(0xFF49, 0xFF)
	b.Write(0xFF26, 0x80) // sound on
	b.Write(0xFF24, 0x77)
	b.Write(0xFF25, 0xFF) // every channel to both sides
}

func (m *Machine) applyScheme() {
	id, ok := ppu.SchemeByName(m.cfg.Palette)
	if !ok {
		id = schemeFromHeader(m.cart.Header)
	}
	m.ppu.SetScheme(ppu.Schemes[id])
}

// SetPalette selects a monochrome scheme by name, or "auto" for the title
// heuristic. It has no visible effect on color games.
func (m *Machine) SetPalette(name string) error {
	if _, ok := ppu.SchemeByName(name); !ok && name != "auto" {
		return fmt.Errorf("unknown palette %q", name)
	}
	m.cfg.Palette = name
	if m.ppu != nil && !m.ppu.Color() {
		m.applyScheme()
	}
	return nil
}

func (m *Machine) Cartridge() *cart.Cartridge { return m.cart }

func (m *Machine) Header() *cart.Header {
	if m.cart == nil {
		return nil
	}
	return m.cart.Header
}

func (m *Machine) Compositor() *ppu.Compositor { return m.ppu }

func (m *Machine) Synthesizer() *apu.Synthesizer { return m.apu }

func (m *Machine) Bus() *bus.Bus { return m.bus }

// Read is a CPU read. Without a cartridge the bus floats high.
func (m *Machine) Read(addr uint16) byte {
	if m.bus == nil {
		return 0xFF
	}
	return m.bus.Read(addr)
}

func (m *Machine) Write(addr uint16, v byte) {
	if m.bus != nil {
		m.bus.Write(addr, v)
	}
}

// Scanline tells the compositor that line has finished; the LY register
// follows it.
func (m *Machine) Scanline(line int) {
	if m.ppu == nil {
		return
	}
	m.regs.Set(regs.LY, byte(line))
	m.ppu.NotifyScanline(line)
}

// VBlank closes the frame: the compositor presents it, one audio chunk is
// rendered for the audio sink and the cartridge clock advances.
func (m *Machine) VBlank() {
	if m.ppu == nil {
		return
	}
	m.ppu.EndFrame()
	if m.audioSink != nil {
		if b := m.apu.Render(m.apu.ChunkFrames()); b != nil {
			m.audioSink.Samples(b, m.apu.Stereo())
		}
	}
	if m.cart.HasRTC() {
		m.cart.TickRTC(m.now())
	}
}

// RunFrame notifies every scanline of one frame followed by vertical blank.
func (m *Machine) RunFrame() {
	for line := 0; line < Lines; line++ {
		m.Scanline(line)
		if line == ppu.Height-1 {
			m.VBlank()
		}
	}
}

// AudioChunk renders one chunk for hosts that pull audio themselves. It
// returns nil while sound is off or the speed gate drops the chunk.
func (m *Machine) AudioChunk() []byte {
	if m.apu == nil {
		return nil
	}
	return m.apu.Render(m.apu.ChunkFrames())
}

func (m *Machine) SetFrameSink(s ppu.FrameSink) {
	m.frameSink = s
	if m.ppu != nil {
		m.ppu.SetSink(s)
	}
}

func (m *Machine) SetAudioSink(s AudioSink) { m.audioSink = s }

// Framebuffer returns the frame being composited.
func (m *Machine) Framebuffer() *ppu.FrameBuffer {
	if m.ppu == nil {
		return nil
	}
	return m.ppu.Frame()
}

// SetSpeed runs video and audio n times faster by presenting one of every
// n frames and chunks.
func (m *Machine) SetSpeed(n int) error {
	if m.ppu == nil {
		return ErrNoCartridge
	}
	if err := m.applySpeed(n); err != nil {
		return err
	}
	m.cfg.Speed = n
	return nil
}

func (m *Machine) applySpeed(n int) error {
	if err := m.ppu.SetSpeed(n); err != nil {
		return err
	}
	return m.apu.SetSpeed(n)
}

// Lead is how long a host should sleep to hold real-time speed.
func (m *Machine) Lead() time.Duration {
	if m.ppu == nil {
		return 0
	}
	return m.ppu.Lead()
}

// ResetClock restarts real-time pacing, e.g. after a pause.
func (m *Machine) ResetClock() {
	if m.ppu != nil {
		m.ppu.ResetClock()
	}
}

func (m *Machine) SetMaxFrameSkip(n int) {
	m.cfg.MaxFrameSkip = n
	if m.ppu != nil {
		m.ppu.SetMaxFrameSkip(n)
	}
}

func (m *Machine) SetSoundEnabled(on bool) {
	if m.apu != nil {
		m.apu.SetSoundEnabled(on)
	}
}

func (m *Machine) SetChannelEnable(ch int, on bool) {
	if m.apu != nil {
		m.apu.SetChannelEnable(ch, on)
	}
}

// AddCheat parses and installs a cheat code.
func (m *Machine) AddCheat(code string) error {
	if m.bus == nil {
		return ErrNoCartridge
	}
	c, err := ParseCheat(code)
	if err != nil {
		return err
	}
	m.bus.AddCheat(c)
	return nil
}

func (m *Machine) ClearCheats() {
	if m.bus != nil {
		m.bus.ClearCheats()
	}
}

// SaveBattery returns the battery dump of the cartridge. ok is false for
// carts without a battery.
func (m *Machine) SaveBattery() ([]byte, bool) {
	if m.cart == nil || !m.cart.HasBattery() {
		return nil, false
	}
	return m.cart.DumpSave(), true
}

// LoadBattery restores a battery dump. Dumps without the clock trailer
// restore RAM only.
func (m *Machine) LoadBattery(data []byte) bool {
	if m.cart == nil || !m.cart.HasBattery() {
		return false
	}
	if len(data) != m.cart.SaveSize() {
		log.Printf("save is %d bytes, want %d: clock not restored", len(data), m.cart.SaveSize())
	}
	m.cart.LoadSave(data)
	return true
}
