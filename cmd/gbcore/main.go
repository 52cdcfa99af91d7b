package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/romfile"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/script"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/sink"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ui"
)

type CLIFlags struct {
	ROMPath string
	Script  string
	SaveRAM bool // persist battery RAM next to ROM (.sav)
	Info    bool

	Scale     int
	Speed     int
	FrameSkip int
	DMG       bool
	Palette   string
	Cheats    cheatList

	// audio
	WAVOut string
	Sound  bool

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
}

// cheatList collects repeated -cheat flags.
type cheatList []string

func (c *cheatList) String() string     { return strings.Join(*c, ",") }
func (c *cheatList) Set(v string) error { *c = append(*c, v); return nil }

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb/.gbc)")
	flag.StringVar(&f.Script, "script", "", "Lua register trace to drive the machine")
	flag.BoolVar(&f.SaveRAM, "save", true, "persist battery RAM to ROM.sav on exit and load on start")
	flag.BoolVar(&f.Info, "info", false, "print the cartridge header and exit")

	flag.IntVar(&f.Scale, "scale", 3, "window and PNG scale")
	flag.IntVar(&f.Speed, "speed", 1, "speed multiplier (present one of every N frames)")
	flag.IntVar(&f.FrameSkip, "frameskip", 0, "frames that may be skipped to keep real time")
	flag.BoolVar(&f.DMG, "dmg", false, "force the monochrome model for color carts")
	flag.StringVar(&f.Palette, "palette", "auto", "monochrome scheme: auto, green, sepia, blue, red, pastel, grey")
	flag.Var(&f.Cheats, "cheat", "cheat code (repeatable): AAAA:VV, AAAA?CC:VV, 01VVLLHH, 00AAAA-VV")

	flag.StringVar(&f.WAVOut, "wav", "", "capture audio to a WAV file")
	flag.BoolVar(&f.Sound, "sound", false, "play audio in headless mode")

	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last presented frame to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func printInfo(rom []byte) error {
	h, err := cart.ParseHeader(rom)
	if err != nil {
		return err
	}
	fmt.Printf("title:     %s\n", h.Title)
	fmt.Printf("type:      %s (0x%02X)\n", h.CartTypeStr, h.CartType)
	fmt.Printf("rom banks: %d\n", h.ROMBanks)
	fmt.Printf("ram banks: %d\n", h.RAMBanks)
	fmt.Printf("color:     %v (0x%02X)\n", h.Color(), h.CGBFlag)
	fmt.Printf("sgb:       %v\n", h.SGBFlag == 0x03)
	fmt.Printf("logo:      %v\n", h.LogoOK)
	fmt.Printf("checksum:  %v\n", cart.HeaderChecksumOK(rom))
	return nil
}

// audioSinks fans one chunk out to every configured sink.
type audioSinks []emu.AudioSink

func (s audioSinks) Samples(pcm []byte, stereo bool) {
	for _, a := range s {
		a.Samples(pcm, stereo)
	}
}

func runHeadless(m *emu.Machine, host *script.Host, f CLIFlags) error {
	frames := f.Frames
	if frames <= 0 {
		frames = 1
	}

	last := &sink.LastFrame{}
	m.SetFrameSink(last)

	var sinks audioSinks
	if f.WAVOut != "" {
		w, err := sink.NewWAVWriter(f.WAVOut, m.Config().SampleRate, m.Config().Stereo)
		if err != nil {
			return fmt.Errorf("open WAV: %w", err)
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Printf("close WAV: %v", err)
			}
		}()
		sinks = append(sinks, w)
	}
	if f.Sound {
		p, err := sink.NewOtoPlayer(m.Config().SampleRate, 100)
		if err != nil {
			log.Printf("sound disabled: %v", err)
		} else {
			defer p.Close()
			sinks = append(sinks, p)
		}
	}
	if len(sinks) > 0 {
		m.SetAudioSink(sinks)
	}

	// live playback needs real-time pacing, everything else runs flat out
	paced := f.Sound
	progress := term.IsTerminal(int(os.Stdout.Fd()))

	start := time.Now()
	for i := 0; i < frames; i++ {
		if err := host.Step(); err != nil {
			return err
		}
		if paced {
			if d := m.Lead(); d > 0 {
				time.Sleep(d)
			}
		}
		if progress && i%60 == 59 {
			fmt.Printf("\rframe %d/%d", i+1, frames)
		}
	}
	if progress {
		fmt.Println()
	}
	dur := time.Since(start)

	fb := last.Get()
	if fb == nil {
		fb = m.Framebuffer()
	}
	crc := sink.FrameCRC(fb)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d presented=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, last.Count(), dur.Truncate(time.Millisecond), fps, crc)

	if f.PNGOut != "" {
		if err := sink.SavePNG(f.PNGOut, fb, sink.PNGOptions{Scale: f.Scale}); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", f.PNGOut)
	}

	if f.Expect != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(f.Expect), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveBattery(m *emu.Machine, path string) {
	if path == "" {
		return
	}
	if data, ok := m.SaveBattery(); ok {
		if err := romfile.WriteSave(path, data); err != nil {
			log.Printf("write %s: %v", path, err)
		}
	}
}

func main() {
	f := parseFlags()
	if f.ROMPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	// prefer absolute path for state/save placement consistency
	if abs, err := filepath.Abs(f.ROMPath); err == nil {
		f.ROMPath = abs
	}

	if f.Info {
		rom, err := romfile.Read(f.ROMPath)
		if err != nil {
			log.Fatalf("read %s: %v", f.ROMPath, err)
		}
		if err := printInfo(rom); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg := emu.DefaultConfig()
	cfg.Color = !f.DMG
	cfg.Palette = f.Palette
	cfg.MaxFrameSkip = f.FrameSkip
	m := emu.New(cfg)
	if err := m.LoadROMFromFile(f.ROMPath); err != nil {
		if errors.Is(err, cart.ErrInvalidCartridge) {
			log.Fatalf("load cart: %v", err)
		}
		log.Fatalf("read %s: %v", f.ROMPath, err)
	}
	if f.Speed > 1 {
		if err := m.SetSpeed(f.Speed); err != nil {
			log.Fatalf("speed: %v", err)
		}
	}
	for _, code := range f.Cheats {
		if err := m.AddCheat(code); err != nil {
			log.Fatalf("cheat: %v", err)
		}
	}

	// Battery RAM: load .sav if present
	var savPath string
	if f.SaveRAM && m.Cartridge().HasBattery() {
		savPath = romfile.SavePath(f.ROMPath)
		data, ok, err := romfile.LoadSave(savPath)
		if err != nil {
			log.Printf("read %s: %v", savPath, err)
		} else if ok {
			m.LoadBattery(data)
		}
	}

	host := script.New(m)
	defer host.Close()
	if f.Script != "" {
		if err := host.RunFile(f.Script); err != nil {
			log.Fatal(err)
		}
	}

	if f.Headless {
		err := runHeadless(m, host, f)
		saveBattery(m, savPath)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	app := ui.NewApp(ui.Config{Title: "gbcore - " + m.Header().Title, Scale: f.Scale}, m, host)
	err := app.Run()
	saveBattery(m, savPath)
	if err != nil {
		log.Fatal(err)
	}
}
