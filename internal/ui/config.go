package ui

// Config contains window/audio related settings.
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor
	// Audio buffering
	AudioBufferMs   int  // desired buffer in ms (approx)
	AudioLowLatency bool // hard-cap buffering for minimal latency
	ShowHUD         bool // frame counter, speed and channel overlay
	Slots           int  // number of save state slots
	FastSpeed       int  // speed multiplier while fast-forward is held
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbcore"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.AudioBufferMs <= 0 {
		c.AudioBufferMs = 60
	}
	if c.Slots <= 0 {
		c.Slots = 4
	}
	if c.FastSpeed <= 1 {
		c.FastSpeed = 4
	}
}
