package apu

import "math/rand"

const noiseTableSize = 0x8000

// newNoiseTable draws the random bits channel 4 plays back.
func newNoiseTable(rng *rand.Rand) []bool {
	t := make([]bool, noiseTableSize)
	for i := range t {
		t[i] = rng.Intn(2) == 1
	}
	return t
}

// chNoise is channel 4. It plays a window of a fixed random bit table
// instead of running a shift register; 7-step mode loops a short window
// starting at a random offset.
type chNoise struct {
	sampleRate  int
	route       int
	length      int
	cyclePos    int
	cycleLength int
	amplitude   int
	env         envelope

	table       []bool
	rng         *rand.Rand
	ratio       int
	sevenStep   bool
	shift       int
	finalFreq   int
	cycleOffset int
}

func newNoise(sampleRate int, rng *rand.Rand) *chNoise {
	return &chNoise{
		sampleRate:  sampleRate,
		route:       ChanLeft | ChanRight,
		cycleLength: 2,
		amplitude:   maxAmplitude,
		table:       newNoiseTable(rng),
		rng:         rng,
	}
}

func (c *chNoise) setEnvelope(initial, steps int, increase bool) {
	c.amplitude = c.env.set(initial, steps, increase)
}

func (c *chNoise) setLength(n int) { c.length = lengthFrom(64, n) }

// setParameters applies NR43: dividing ratio code, 7-step flag and shift.
func (c *chNoise) setParameters(ratio int, sevenStep bool, shift int) {
	c.ratio, c.sevenStep, c.shift = ratio, sevenStep, shift
	if sevenStep {
		c.cycleLength = 63 << 8
		c.cycleOffset = c.rng.Intn(1000)
	} else {
		c.cycleLength = 32767 << 8
		c.cycleOffset = 0
	}
	c.cyclePos %= c.cycleLength

	// ratio code 0 counts as 0.5
	base := 4194304 / 8 * 2
	if ratio != 0 {
		base = 4194304 / 8 / ratio
	}
	c.finalFreq = base >> (shift + 1)
}

func (c *chNoise) render(b []byte, length, offset int) {
	if c.length == 0 {
		return
	}
	if c.length > 0 {
		c.length--
	}
	c.amplitude = c.env.step(c.amplitude)

	div := c.sampleRate >> 8
	if div == 0 {
		div = 1
	}
	step := c.finalFreq / div
	for r := offset; r < offset+length; r++ {
		v := -c.amplitude / 2
		if c.table[(c.cycleOffset+c.cyclePos>>8)&(noiseTableSize-1)] {
			v = c.amplitude / 2
		}
		mix(b, r, v, c.route)
		c.cyclePos = (c.cyclePos + step) % c.cycleLength
	}
}
