package pace

import "time"

// FrameMillis is the nominal frame period used for pacing.
const FrameMillis = 17

// Skipper drops frames when the emulation falls behind real time. It never
// blocks: hosts that want to throttle sleep for Lead() themselves.
type Skipper struct {
	// MaxSkip bounds consecutive dropped frames. Zero never skips.
	MaxSkip int
	// Now returns the wall clock in milliseconds. Nil uses time.Now.
	Now func() int64

	timer     int64
	started   bool
	skipping  bool
	skipCount int
	lastSkip  int
}

func (s *Skipper) now() int64 {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UnixMilli()
}

// Skipping reports whether the frame in progress will be dropped.
// Compositing work can be avoided while it is true.
func (s *Skipper) Skipping() bool { return s.skipping }

// LastSkipped is the number of frames dropped before the last presented one.
func (s *Skipper) LastSkipped() int { return s.lastSkip }

// VBlank closes a frame. It reports whether the frame should be presented
// and how many frames were dropped before it.
func (s *Skipper) VBlank() (present bool, skipped int) {
	now := s.now()
	if !s.started {
		s.started = true
		s.timer = now
	}
	s.timer += FrameMillis
	if s.skipping {
		s.skipCount++
		if s.skipCount >= s.MaxSkip {
			s.skipping = false
			// too far behind to catch up; forget the lag
			if lag := now - s.timer; lag > FrameMillis {
				s.timer += lag - FrameMillis
			}
		} else {
			s.skipping = s.timer < now
		}
		return false, 0
	}
	s.lastSkip = s.skipCount
	s.skipCount = 0
	s.skipping = s.MaxSkip > 0 && s.timer < now
	return true, s.lastSkip
}

// Lead is how far emulation runs ahead of real time beyond one frame.
// Hosts sleep for it to hold real-time speed.
func (s *Skipper) Lead() time.Duration {
	ahead := s.timer - s.now() - FrameMillis
	if ahead <= 0 {
		return 0
	}
	return time.Duration(ahead) * time.Millisecond
}

// Reset forgets accumulated timing, e.g. after a pause.
func (s *Skipper) Reset() {
	s.started = false
	s.skipping = false
	s.skipCount = 0
}
