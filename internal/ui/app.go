// Package ui is the windowed host: it steps a script-driven machine once
// per tick, shows presented frames and plays the audio chunks.
package ui

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/script"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/sink"
)

// hudScale is the logical screen size over the emulated one, leaving room
// for readable overlay text.
const hudScale = 2

type App struct {
	cfg   Config
	m     *emu.Machine
	host  *script.Host
	audio *audioOut

	tex       *ebiten.Image
	pix       []byte           // RGBA of the last presented frame
	last      *ppu.FrameBuffer // owned copy; the compositor reuses fb
	paused    bool
	fast      bool
	muted     bool
	baseSpeed int

	presented   int
	lastSkipped int
	fps         float64
	fpsFrames   int
	fpsSince    time.Time

	// overlay/menu
	showMenu    bool
	menuMode    string
	menuIdx     int
	currentSlot int
	toastMsg    string
	toastUntil  time.Time

	clipboardOK bool
}

func NewApp(cfg Config, m *emu.Machine, host *script.Host) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(ppu.Width*cfg.Scale, ppu.Height*cfg.Scale)
	a := &App{
		cfg:       cfg,
		m:         m,
		host:      host,
		pix:       make([]byte, ppu.Width*ppu.Height*4),
		menuMode:  "main",
		fpsSince:  time.Now(),
		baseSpeed: m.Config().Speed,
	}
	m.SetFrameSink(a)

	out, err := newAudioOut(m.Config().SampleRate, cfg.AudioBufferMs)
	if err != nil {
		log.Printf("audio disabled: %v", err)
	} else {
		a.audio = out
		m.SetAudioSink(out.queue)
		a.applyBufferSize()
		out.player.Play()
	}
	a.clipboardOK = clipboard.Init() == nil
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

// Frame receives presented frames from the compositor.
func (a *App) Frame(fb *ppu.FrameBuffer, skipped int) {
	fb.RGBA(a.pix)
	if a.last == nil {
		a.last = fb.Clone()
	} else {
		*a.last = *fb
	}
	a.presented++
	a.lastSkipped = skipped
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.showMenu = !a.showMenu
		a.menuMode = "main"
		a.menuIdx = 0
	}
	if a.showMenu {
		a.updateMenu()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.setPaused(!a.paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.cfg.ShowHUD = !a.cfg.ShowHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.muted = !a.muted
		a.m.SetSoundEnabled(!a.muted)
	}
	for i, k := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4} {
		if inpututil.IsKeyJustPressed(k) {
			s := a.m.Synthesizer()
			on := !s.ChannelEnabled(i + 1)
			s.SetChannelEnable(i+1, on)
			a.toast(fmt.Sprintf("Channel %d %s", i+1, onOff(on)))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.saveSlot(a.currentSlot)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		a.loadSlot(a.currentSlot)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.saveScreenshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.copyScreenshot()
	}

	// Fast-forward (Tab): run several ticks per update and present one of them
	if fast := ebiten.IsKeyPressed(ebiten.KeyTab); fast != a.fast {
		a.setFast(fast)
	}

	switch {
	case a.paused:
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			return a.step(1)
		}
		return nil
	case a.fast:
		return a.step(a.cfg.FastSpeed)
	default:
		return a.step(1)
	}
}

func (a *App) step(n int) error {
	for i := 0; i < n; i++ {
		if err := a.host.Step(); err != nil {
			return err
		}
	}
	a.fpsFrames += n
	if d := time.Since(a.fpsSince); d >= time.Second {
		a.fps = float64(a.fpsFrames) / d.Seconds()
		a.fpsFrames = 0
		a.fpsSince = time.Now()
	}
	return nil
}

func (a *App) setPaused(on bool) {
	a.paused = on
	if a.audio != nil {
		if on {
			a.audio.player.Pause()
			a.audio.queue.Clear()
		} else {
			a.audio.player.Play()
		}
	}
	if !on {
		a.m.ResetClock()
	}
}

func (a *App) setFast(on bool) {
	a.fast = on
	speed := a.baseSpeed
	if on {
		speed = a.cfg.FastSpeed
	} else {
		a.m.ResetClock()
	}
	if err := a.m.SetSpeed(speed); err != nil {
		log.Printf("speed %d: %v", speed, err)
	}
	a.applyBufferSize()
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	a.tex.WritePixels(a.pix)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(hudScale, hudScale)
	screen.DrawImage(a.tex, op)

	if a.cfg.ShowHUD {
		a.drawHUD(screen)
	}
	if a.showMenu {
		a.drawMenu(screen)
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		drawText(screen, a.toastMsg, 6, ppu.Height*hudScale-18)
	}
}

func (a *App) Layout(outW, outH int) (int, int) {
	return ppu.Width * hudScale, ppu.Height * hudScale
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) saveScreenshot() {
	if a.last == nil {
		return
	}
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	if err := sink.SavePNG(name, a.last, sink.PNGOptions{Scale: a.cfg.Scale}); err != nil {
		a.toast("Screenshot failed: " + err.Error())
		return
	}
	a.toast("Saved " + name)
}

func (a *App) copyScreenshot() {
	if a.last == nil || !a.clipboardOK {
		a.toast("Clipboard unavailable")
		return
	}
	var buf bytes.Buffer
	if err := sink.WritePNG(&buf, a.last, sink.PNGOptions{Scale: a.cfg.Scale}); err != nil {
		a.toast("Copy failed: " + err.Error())
		return
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	a.toast("Frame copied")
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
