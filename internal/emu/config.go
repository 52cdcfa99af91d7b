package emu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/apu"

// Config contains settings that affect emulation behavior.
type Config struct {
	Color        bool   // use the color hardware model for carts that support it
	Palette      string // monochrome scheme name; "" or "auto" picks one from the title
	SampleRate   int    // audio output rate in Hz
	Stereo       bool   // interleaved left/right output; mono otherwise
	Speed        int    // 1 = normal, N = present one of every N frames and chunks
	MaxFrameSkip int    // frames that may be dropped to keep up; 0 never skips
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = apu.DefaultSampleRate
	}
	if c.Speed <= 0 {
		c.Speed = 1
	}
	if c.MaxFrameSkip < 0 {
		c.MaxFrameSkip = 0
	}
	if c.Palette == "" {
		c.Palette = "auto"
	}
}

// DefaultConfig is what the command line starts from.
func DefaultConfig() Config {
	c := Config{Color: true, Stereo: true}
	c.Defaults()
	return c
}
