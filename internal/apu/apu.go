// Package apu synthesizes the four sound channels into signed 8-bit PCM
// chunks, one chunk per call, driven by register writes.
package apu

import (
	"math/rand"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/pace"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/regs"
)

const DefaultSampleRate = 44100

// Synthesizer owns the channel state machines. Register values it needs
// beyond the written byte are read back from the shared register file.
type Synthesizer struct {
	regs       *regs.File
	gate       *pace.Gate
	sampleRate int
	stereo     bool
	enabled    bool
	power      bool
	nr51Set    bool
	chEnable   [4]bool

	ch1 *chSquare
	ch2 *chSquare
	ch3 *chWave
	ch4 *chNoise
}

// New builds a stereo synthesizer. A nil rng seeds the noise table from
// the clock.
func New(r *regs.File, sampleRate int, rng *rand.Rand) *Synthesizer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Synthesizer{
		regs:       r,
		gate:       pace.NewGate(),
		sampleRate: sampleRate,
		stereo:     true,
		enabled:    true,
		power:      true,
		chEnable:   [4]bool{true, true, true, true},
		ch1:        newSquare(sampleRate),
		ch2:        newSquare(sampleRate),
		ch3:        newWave(sampleRate),
		ch4:        newNoise(sampleRate, rng),
	}
}

func (s *Synthesizer) SampleRate() int { return s.sampleRate }
func (s *Synthesizer) Stereo() bool    { return s.stereo }

// SetSampleRate retunes every channel for a new output rate.
func (s *Synthesizer) SetSampleRate(sr int) {
	if sr <= 0 {
		return
	}
	s.sampleRate = sr
	s.ch1.sampleRate, s.ch2.sampleRate, s.ch3.sampleRate, s.ch4.sampleRate = sr, sr, sr, sr
	s.ch1.setFrequency(s.ch1.gbFreq)
	s.ch2.setFrequency(s.ch2.gbFreq)
	s.ch3.setFrequency(s.ch3.gbFreq)
}

// SetStereo switches between interleaved left/right and single-lane output.
func (s *Synthesizer) SetStereo(on bool) {
	s.stereo = on
	s.route(s.routing())
}

// routing is the NR51 value in effect. Until the game writes NR51 every
// channel plays on both sides.
func (s *Synthesizer) routing() byte {
	if !s.nr51Set {
		return 0xFF
	}
	return s.regs.Get(regs.NR51)
}

// SetSoundEnabled turns chunk production on or off.
func (s *Synthesizer) SetSoundEnabled(on bool) { s.enabled = on }

func (s *Synthesizer) SoundEnabled() bool { return s.enabled }

// SetChannelEnable mutes (false) or unmutes channel ch (1..4).
func (s *Synthesizer) SetChannelEnable(ch int, on bool) {
	if ch >= 1 && ch <= 4 {
		s.chEnable[ch-1] = on
	}
}

func (s *Synthesizer) ChannelEnabled(ch int) bool {
	return ch >= 1 && ch <= 4 && s.chEnable[ch-1]
}

// SetSpeed emits one chunk in every n Render calls. See pace.Gate.
func (s *Synthesizer) SetSpeed(n int) error { return s.gate.SetSpeed(n) }

// ChunkFrames is the number of frames in one chunk, about one video frame
// of sound.
func (s *Synthesizer) ChunkFrames() int { return ((s.sampleRate / 28) & 0xFFFE) / 2 }

// Lanes is the number of bytes per frame.
func (s *Synthesizer) Lanes() int {
	if s.stereo {
		return 2
	}
	return 1
}

// Render produces frames of signed 8-bit PCM. It returns nil while sound
// is disabled or when the speed gate drops this chunk.
func (s *Synthesizer) Render(frames int) []byte {
	if !s.enabled || !s.gate.Tick() {
		return nil
	}
	b := make([]byte, frames*s.Lanes())
	s.Mix(b, frames, 0)
	return b
}

// Mix adds every enabled channel into b at frame offset. b is signed and
// must already hold (offset+frames)*Lanes() bytes.
func (s *Synthesizer) Mix(b []byte, frames, offset int) {
	if !s.power {
		return
	}
	if s.chEnable[0] {
		s.ch1.render(b, frames, offset)
	}
	if s.chEnable[1] {
		s.ch2.render(b, frames, offset)
	}
	if s.chEnable[2] {
		s.ch3.render(b, frames, offset)
	}
	if s.chEnable[3] {
		s.ch4.render(b, frames, offset)
	}
}

// IOWrite stores data in register num (0x10..0x3F of the I/O page) and
// applies it to the channels.
func (s *Synthesizer) IOWrite(num, data byte) {
	s.regs.Set(num, data)
	r := s.regs
	switch num {
	case regs.NR10:
		s.ch1.setSweep(int(data&0x70)>>4, int(data&0x07), data&0x08 != 0)
	case regs.NR11:
		s.ch1.setDutyCycle(int(data&0xC0) >> 6)
		s.ch1.setLength(int(data & 0x3F))
	case regs.NR12:
		s.ch1.setEnvelope(envelopeArgs(data))
	case regs.NR13:
		s.ch1.setFrequency(r.Freq11(regs.NR13, regs.NR14))
	case regs.NR14:
		if data&0x80 != 0 {
			s.ch1.setLength(int(r.Get(regs.NR11) & 0x3F))
			s.ch1.setEnvelope(envelopeArgs(r.Get(regs.NR12)))
		}
		if data&0x40 == 0 {
			s.ch1.setLength(-1)
		}
		s.ch1.setFrequency(r.Freq11(regs.NR13, regs.NR14))

	case regs.NR21:
		s.ch2.setDutyCycle(int(data&0xC0) >> 6)
		s.ch2.setLength(int(data & 0x3F))
	case regs.NR22:
		s.ch2.setEnvelope(envelopeArgs(data))
	case regs.NR23:
		s.ch2.setFrequency(r.Freq11(regs.NR23, regs.NR24))
	case regs.NR24:
		if data&0x80 != 0 {
			s.ch2.setLength(int(r.Get(regs.NR21) & 0x3F))
			s.ch2.setEnvelope(envelopeArgs(r.Get(regs.NR22)))
		}
		if data&0x40 == 0 {
			s.ch2.setLength(-1)
		}
		s.ch2.setFrequency(r.Freq11(regs.NR23, regs.NR24))

	case regs.NR30:
		s.wireWaveVolume()
	case regs.NR31:
		s.ch3.setLength(int(data))
	case regs.NR32:
		s.wireWaveVolume()
	case regs.NR33:
		s.ch3.setFrequency(r.Freq11(regs.NR33, regs.NR34))
	case regs.NR34:
		if data&0x80 != 0 {
			s.ch3.setLength(int(r.Get(regs.NR31)))
		}
		if data&0x40 == 0 {
			s.ch3.setLength(-1)
		}
		s.ch3.setFrequency(r.Freq11(regs.NR33, regs.NR34))

	case regs.NR41:
		s.ch4.setLength(int(data & 0x3F))
	case regs.NR42:
		s.ch4.setEnvelope(envelopeArgs(data))
	case regs.NR43:
		s.ch4.setParameters(int(data&0x07), data&0x08 != 0, int(data&0xF0)>>4)
	case regs.NR44:
		if data&0x80 != 0 {
			s.ch4.setLength(int(r.Get(regs.NR41) & 0x3F))
			s.ch4.setEnvelope(envelopeArgs(r.Get(regs.NR42)))
		}
		if data&0x40 == 0 {
			s.ch4.setLength(-1)
		}

	case regs.NR51:
		s.nr51Set = true
		s.route(data)
	case regs.NR52:
		s.power = data&0x80 != 0

	default:
		if num >= regs.Wave && num < regs.Wave+16 {
			s.ch3.setSamplePair(int(num-regs.Wave), data)
		}
	}
}

// wireWaveVolume applies NR32 while the NR30 DAC bit is on, mute otherwise.
func (s *Synthesizer) wireWaveVolume() {
	if s.regs.Get(regs.NR30)&0x80 == 0 {
		s.ch3.setVolume(0)
		return
	}
	s.ch3.setVolume(int(s.regs.Get(regs.NR32)&0x60) >> 5)
}

// route applies NR51: bit n sends channel n+1 left, bit n+4 right. In
// mono mode any routing lands on the single lane.
func (s *Synthesizer) route(nr51 byte) {
	lanes := func(left, right byte) int {
		m := 0
		if nr51&left != 0 {
			m |= ChanLeft
		}
		if nr51&right != 0 {
			m |= ChanRight
		}
		if !s.stereo && m != 0 {
			m = ChanMono
		}
		return m
	}
	s.ch1.route = lanes(0x01, 0x10)
	s.ch2.route = lanes(0x02, 0x20)
	s.ch3.route = lanes(0x04, 0x40)
	s.ch4.route = lanes(0x08, 0x80)
}

func envelopeArgs(v byte) (initial, steps int, increase bool) {
	return int(v&0xF0) >> 4, int(v & 0x07), v&0x08 != 0
}
