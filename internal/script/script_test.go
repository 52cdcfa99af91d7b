package script

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

func newHost(t *testing.T, cgb byte) (*Host, *emu.Machine) {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x0143] = cgb
	m := emu.New(emu.Config{Color: true, Palette: "grey"})
	m.SetRand(rand.New(rand.NewSource(1)))
	if err := m.LoadCartridge(rom); err != nil {
		t.Fatal(err)
	}
	h := New(m)
	t.Cleanup(h.Close)
	return h, m
}

func TestWriteRead(t *testing.T) {
	h, m := newHost(t, 0)
	err := h.RunString(`
		write(0xC000, 0x42)
		local v = read(0xC000)
		write(0xC001, v + 1)
	`)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Read(0xC001); got != 0x43 {
		t.Fatalf("got %02x want 43", got)
	}
}

func TestFrameDrawsTiles(t *testing.T) {
	h, m := newHost(t, 0)
	frames := 0
	m.SetFrameSink(ppu.FrameSinkFunc(func(*ppu.FrameBuffer, int) { frames++ }))
	err := h.RunString(`
		write(0xFF47, 0xE4)
		-- tile 1 row 0 all color 3
		vram(0x8010, {0xFF, 0xFF})
		write(0x9800, 1)
		frame(2)
	`)
	if err != nil {
		t.Fatal(err)
	}
	if frames != 2 {
		t.Fatalf("frames got %d want 2", frames)
	}
	if got := m.Framebuffer().At(3, 0); got != 0x000000 {
		t.Fatalf("pixel got %06x want 000000", got)
	}
	if got := m.Framebuffer().At(3, 1); got != 0xFFFFFF {
		t.Fatalf("row 1 got %06x want FFFFFF", got)
	}
}

func TestLineAndVBlank(t *testing.T) {
	h, m := newHost(t, 0)
	frames := 0
	m.SetFrameSink(ppu.FrameSinkFunc(func(*ppu.FrameBuffer, int) { frames++ }))
	if err := h.RunString(`for i = 0, 143 do line(i) end vblank()`); err != nil {
		t.Fatal(err)
	}
	if frames != 1 {
		t.Fatalf("frames got %d want 1", frames)
	}
	if got := m.Read(0xFF44); got != 143 {
		t.Fatalf("LY got %d want 143", got)
	}
}

func TestPalette(t *testing.T) {
	h, m := newHost(t, 0x80)
	if err := h.RunString(`palette(0, 0x001F) frame()`); err != nil {
		t.Fatal(err)
	}
	if got := m.Framebuffer().At(0, 0); got != 0xF80000 {
		t.Fatalf("pixel got %06x want F80000", got)
	}
	if err := h.RunString(`palette(33, 0x7C00)`); err != nil {
		t.Fatal(err)
	}
	if got := m.Compositor().ColorPalette(0x43); got != 0x7C {
		t.Fatalf("sprite palette byte got %02x want 7C", got)
	}
}

func TestErrorsWrapped(t *testing.T) {
	h, _ := newHost(t, 0)
	for _, src := range []string{
		`speed(0)`,
		`cheat("nonsense")`,
		`write(0x10000, 1)`,
		`palette(64, 0)`,
		`this is not lua`,
	} {
		if err := h.RunString(src); !errors.Is(err, ErrScript) {
			t.Fatalf("%q: got %v want ErrScript", src, err)
		}
	}
}

func TestStepHook(t *testing.T) {
	h, m := newHost(t, 0)
	if err := h.RunString(`
		function on_frame(n)
			write(0xC000, n)
			frame()
		end
	`); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := h.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if got := m.Read(0xC000); got != 3 {
		t.Fatalf("got %d want 3", got)
	}
	if h.Steps() != 3 {
		t.Fatalf("steps got %d want 3", h.Steps())
	}
}

func TestStepWithoutHook(t *testing.T) {
	h, m := newHost(t, 0)
	if err := h.Step(); err != nil {
		t.Fatal(err)
	}
	if m.Compositor().Frames() != 1 {
		t.Fatalf("frames got %d want 1", m.Compositor().Frames())
	}
}

func TestRunFile(t *testing.T) {
	h, m := newHost(t, 0)
	path := filepath.Join(t.TempDir(), "s.lua")
	if err := os.WriteFile(path, []byte(`audio(false) cheat("C000:99")`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := h.RunFile(path); err != nil {
		t.Fatal(err)
	}
	if got := m.Read(0xC000); got != 0x99 {
		t.Fatalf("cheat got %02x want 99", got)
	}
	if m.AudioChunk() != nil {
		t.Fatalf("audio(false) left sound on")
	}
	if err := h.RunFile(filepath.Join(t.TempDir(), "missing.lua")); !errors.Is(err, ErrScript) {
		t.Fatalf("missing file: got %v", err)
	}
}
