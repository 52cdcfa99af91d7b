package apu

import (
	"bytes"
	"encoding/gob"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/regs"
)

type voiceState struct {
	Length, CyclePos, Amplitude, EnvCounter int
	SweepCounter                            int
}

type synthState struct {
	IO       [0x30]byte // 0x10..0x3F
	Enabled  bool
	Power    bool
	NR51Set  bool
	Routes   [4]int
	ChEnable [4]bool
	Voices   [4]voiceState
	Offset   int
}

// SaveState captures the sound registers and the running position of each
// channel. The noise table itself is not saved.
func (s *Synthesizer) SaveState() []byte {
	st := synthState{
		Enabled: s.enabled, Power: s.power, NR51Set: s.nr51Set, ChEnable: s.chEnable, Offset: s.ch4.cycleOffset,
		Routes: [4]int{s.ch1.route, s.ch2.route, s.ch3.route, s.ch4.route},
	}
	for i := range st.IO {
		st.IO[i] = s.regs.Get(byte(regs.NR10 + i))
	}
	st.Voices[0] = voiceState{s.ch1.length, s.ch1.cyclePos, s.ch1.amplitude, s.ch1.env.counter, s.ch1.sweepCounter}
	st.Voices[1] = voiceState{s.ch2.length, s.ch2.cyclePos, s.ch2.amplitude, s.ch2.env.counter, 0}
	st.Voices[2] = voiceState{Length: s.ch3.length, CyclePos: s.ch3.cyclePos}
	st.Voices[3] = voiceState{s.ch4.length, s.ch4.cyclePos, s.ch4.amplitude, s.ch4.env.counter, 0}

	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(st)
	return buf.Bytes()
}

// LoadState replays the saved registers through IOWrite and then puts the
// channel positions back.
func (s *Synthesizer) LoadState(data []byte) error {
	var st synthState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return err
	}
	for i, v := range st.IO {
		s.IOWrite(byte(regs.NR10+i), v)
	}
	// routing and power default on until NR51/NR52 are first written
	s.enabled, s.power, s.nr51Set, s.chEnable = st.Enabled, st.Power, st.NR51Set, st.ChEnable
	s.ch1.route, s.ch2.route, s.ch3.route, s.ch4.route = st.Routes[0], st.Routes[1], st.Routes[2], st.Routes[3]

	v := st.Voices
	s.ch1.length, s.ch1.cyclePos, s.ch1.amplitude, s.ch1.env.counter, s.ch1.sweepCounter =
		v[0].Length, v[0].CyclePos, v[0].Amplitude, v[0].EnvCounter, v[0].SweepCounter
	s.ch2.length, s.ch2.cyclePos, s.ch2.amplitude, s.ch2.env.counter =
		v[1].Length, v[1].CyclePos, v[1].Amplitude, v[1].EnvCounter
	s.ch3.length, s.ch3.cyclePos = v[2].Length, v[2].CyclePos
	s.ch4.length, s.ch4.cyclePos, s.ch4.amplitude, s.ch4.env.counter =
		v[3].Length, v[3].CyclePos, v[3].Amplitude, v[3].EnvCounter
	s.ch4.cycleOffset = st.Offset
	s.ch1.cyclePos %= s.ch1.cycleLength
	s.ch2.cyclePos %= s.ch2.cycleLength
	s.ch3.cyclePos %= s.ch3.cycleLength
	s.ch4.cyclePos %= s.ch4.cycleLength
	return nil
}
