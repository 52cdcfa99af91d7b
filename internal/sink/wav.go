package sink

import (
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/apu"
)

// WAVWriter records chunks into an unsigned 8-bit PCM WAV file.
type WAVWriter struct {
	path   string
	f      *os.File
	enc    *wav.Encoder
	format *audio.Format
	frames int
}

func NewWAVWriter(path string, sampleRate int, stereo bool) (*WAVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	chans := 1
	if stereo {
		chans = 2
	}
	w := &WAVWriter{
		path:   path,
		f:      f,
		enc:    wav.NewEncoder(f, sampleRate, 8, chans, 1),
		format: &audio.Format{NumChannels: chans, SampleRate: sampleRate},
	}
	log.Printf("wavwriter: writing audio to %s", path)
	return w, nil
}

// Samples appends one chunk. Chunks whose lane count differs from the
// file are folded or duplicated to fit.
func (w *WAVWriter) Samples(pcm []byte, stereo bool) {
	data := make([]int, 0, len(pcm)*2)
	u := apu.ToUnsigned(append([]byte(nil), pcm...))
	switch {
	case stereo && w.format.NumChannels == 1:
		for i := 0; i+1 < len(u); i += 2 {
			data = append(data, (int(u[i])+int(u[i+1]))/2)
		}
	case !stereo && w.format.NumChannels == 2:
		for _, v := range u {
			data = append(data, int(v), int(v))
		}
	default:
		for _, v := range u {
			data = append(data, int(v))
		}
	}
	buf := &audio.IntBuffer{Format: w.format, Data: data, SourceBitDepth: 8}
	if err := w.enc.Write(buf); err != nil {
		log.Printf("wavwriter: %v", err)
		return
	}
	w.frames += len(data) / w.format.NumChannels
}

// Frames is the number of sample frames written so far.
func (w *WAVWriter) Frames() int { return w.frames }

// Close finishes the header and closes the file.
func (w *WAVWriter) Close() error {
	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("wavwriter: %w", err)
	}
	return w.f.Close()
}
