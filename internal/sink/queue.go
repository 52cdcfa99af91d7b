package sink

import (
	"sync"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/apu"
)

// PCMQueue buffers synthesizer chunks as 16-bit little-endian stereo for
// players that pull audio from their own goroutine. When full the oldest
// audio is dropped; when empty Read pads with silence.
type PCMQueue struct {
	mu    sync.Mutex
	buf   []byte
	limit int

	underruns int
}

// NewPCMQueue holds at most limit bytes (4 per frame).
func NewPCMQueue(limit int) *PCMQueue {
	if limit < 4 {
		limit = 4
	}
	return &PCMQueue{limit: limit &^ 3}
}

// QueueBytes is the size of a queue holding ms of audio at sampleRate.
func QueueBytes(sampleRate, ms int) int { return sampleRate * ms / 1000 * 4 }

// Samples takes one chunk of signed 8-bit PCM. Mono chunks are duplicated
// to both sides.
func (q *PCMQueue) Samples(pcm []byte, stereo bool) {
	var wide []byte
	if stereo {
		wide = apu.AppendInt16LE(make([]byte, 0, len(pcm)*2), pcm)
	} else {
		wide = make([]byte, 0, len(pcm)*4)
		for _, v := range pcm {
			wide = apu.AppendInt16LE(wide, []byte{v, v})
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf = append(q.buf, wide...)
	if over := len(q.buf) - q.limit; over > 0 {
		q.buf = q.buf[over:]
	}
}

// Read fills p, padding with silence once the queue runs dry.
func (q *PCMQueue) Read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := copy(p, q.buf)
	q.buf = q.buf[n:]
	if n < len(p) {
		clear(p[n:])
		q.underruns++
	}
	return len(p), nil
}

// Buffered is the number of bytes waiting.
func (q *PCMQueue) Buffered() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Underruns counts reads that had to be padded.
func (q *PCMQueue) Underruns() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.underruns
}

// Clear drops everything queued, e.g. when pausing.
func (q *PCMQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf = q.buf[:0]
}
