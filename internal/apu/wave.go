package apu

// chWave is channel 3: 32 four-bit samples played back at the channel
// frequency, attenuated by a right shift.
type chWave struct {
	sampleRate  int
	route       int
	length      int
	cyclePos    int
	cycleLength int
	gbFreq      int
	volumeShift int
	waveform    [32]byte
}

func newWave(sampleRate int) *chWave {
	return &chWave{
		sampleRate:  sampleRate,
		route:       ChanLeft | ChanRight,
		cycleLength: 2,
		volumeShift: 5,
	}
}

func (c *chWave) setFrequency(f int) {
	c.gbFreq = f
	c.cycleLength = cycleLength(65536, f, c.sampleRate)
}

func (c *chWave) setLength(n int) { c.length = lengthFrom(256, n) }

// setSamplePair stores wave RAM byte addr (0..15), high nibble first.
func (c *chWave) setSamplePair(addr int, v byte) {
	c.waveform[addr*2] = v >> 4
	c.waveform[addr*2+1] = v & 0x0F
}

// setVolume maps the NR32 code to a shift: mute, full, half, quarter.
func (c *chWave) setVolume(code int) {
	c.volumeShift = [4]int{5, 0, 1, 2}[code&3]
}

func (c *chWave) render(b []byte, length, offset int) {
	if c.length == 0 {
		return
	}
	if c.length > 0 {
		c.length--
	}
	for r := offset; r < offset+length; r++ {
		pos := 31 * c.cyclePos / c.cycleLength
		v := int(c.waveform[pos%32]) >> c.volumeShift << 1
		mix(b, r, v, c.route)
		c.cyclePos = (c.cyclePos + 256) % c.cycleLength
	}
}
