package apu

// chSquare is channels 1 and 2. Channel 2 never has a sweep set.
type chSquare struct {
	sampleRate  int
	route       int
	length      int
	cyclePos    int
	cycleLength int
	amplitude   int
	duty        int // comparator threshold out of 8
	gbFreq      int
	env         envelope

	sweepTime    int
	sweepNum     int
	sweepDown    bool
	sweepCounter int
}

func newSquare(sampleRate int) *chSquare {
	return &chSquare{
		sampleRate:  sampleRate,
		route:       ChanLeft | ChanRight,
		cycleLength: 2,
		amplitude:   maxAmplitude,
		duty:        4,
	}
}

var dutyThresholds = [4]int{1, 2, 4, 6}

func (c *chSquare) setDutyCycle(d int) { c.duty = dutyThresholds[d&3] }

func (c *chSquare) setFrequency(f int) {
	c.gbFreq = f
	c.cycleLength = cycleLength(131072, f, c.sampleRate)
}

func (c *chSquare) setEnvelope(initial, steps int, increase bool) {
	c.amplitude = c.env.set(initial, steps, increase)
}

// setSweep takes the NR10 time field in 1/128 s units; one render call
// is about 1/56 s so the period is halved.
func (c *chSquare) setSweep(time, num int, down bool) {
	c.sweepTime = (time + 1) / 2
	c.sweepNum = num
	c.sweepDown = down
	c.sweepCounter = 0
}

func (c *chSquare) setLength(n int) { c.length = lengthFrom(64, n) }

// render mixes length frames starting at offset into b.
func (c *chSquare) render(b []byte, length, offset int) {
	if c.length == 0 {
		return
	}
	if c.length > 0 {
		c.length--
	}

	if c.sweepTime != 0 {
		c.sweepCounter++
		if c.sweepCounter > c.sweepTime {
			delta := c.gbFreq >> c.sweepNum
			if c.sweepDown {
				c.setFrequency(c.gbFreq - delta)
			} else {
				c.setFrequency(c.gbFreq + delta)
			}
			c.sweepCounter = 0
		}
	}
	c.amplitude = c.env.step(c.amplitude)

	for r := offset; r < offset+length; r++ {
		v := -c.amplitude
		if 8*c.cyclePos/c.cycleLength >= c.duty {
			v = c.amplitude
		}
		mix(b, r, v, c.route)
		c.cyclePos = (c.cyclePos + 256) % c.cycleLength
	}
}
