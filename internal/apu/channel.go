package apu

// Output lanes a channel can be routed to.
const (
	ChanLeft  = 1
	ChanRight = 2
	ChanMono  = 4
)

// safeCycleLength stands in when a register value yields no usable period.
const safeCycleLength = 65535

// maxAmplitude bounds envelope ramps: 16 volume steps of 2.
const maxAmplitude = 32

// cycleLength converts an 11-bit channel frequency into the length of one
// waveform cycle in 1/256 sample units.
func cycleLength(base, gbFreq, sampleRate int) int {
	period := 2048 - gbFreq
	if period <= 0 {
		return safeCycleLength
	}
	freq := base / period
	if freq <= 0 {
		return safeCycleLength
	}
	n := 256 * sampleRate / freq
	if n <= 0 {
		n = 1
	}
	return n
}

// envelope ramps a channel amplitude by 2 every steps render calls.
type envelope struct {
	initial  int
	steps    int
	increase bool
	counter  int
}

func (e *envelope) set(initial, steps int, increase bool) int {
	e.initial, e.steps, e.increase = initial, steps, increase
	return initial * 2
}

func (e *envelope) step(amp int) int {
	e.counter++
	if e.steps == 0 || e.counter%e.steps != 0 {
		return amp
	}
	if e.increase {
		if amp < maxAmplitude {
			amp += 2
		}
	} else if amp > 0 {
		amp -= 2
	}
	return amp
}

// mix adds v into the lanes of frame r selected by route. Stereo buffers
// interleave left and right; mono buffers have one byte per frame. The sum
// wraps like the signed 8-bit output it models.
func mix(b []byte, r, v, route int) {
	if route&ChanLeft != 0 {
		b[r*2] = byte(int8(b[r*2]) + int8(v))
	}
	if route&ChanRight != 0 {
		b[r*2+1] = byte(int8(b[r*2+1]) + int8(v))
	}
	if route&ChanMono != 0 {
		b[r] = byte(int8(b[r]) + int8(v))
	}
}

// lengthFrom converts a length register into render calls, -1 meaning
// the channel plays until stopped.
func lengthFrom(full, n int) int {
	if n == -1 {
		return -1
	}
	return (full - n) / 4
}
