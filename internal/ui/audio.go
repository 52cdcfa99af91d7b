package ui

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/sink"
)

// audioOut feeds synthesizer chunks to an ebiten audio player. The
// machine pushes chunks into the queue at vertical blank; the player
// pulls 16-bit stereo from its own goroutine.
type audioOut struct {
	ctx    *audio.Context
	player *audio.Player
	queue  *sink.PCMQueue
}

func newAudioOut(sampleRate, bufferMs int) (*audioOut, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	q := sink.NewPCMQueue(sink.QueueBytes(sampleRate, bufferMs*2))
	p, err := ctx.NewPlayer(q)
	if err != nil {
		return nil, err
	}
	return &audioOut{ctx: ctx, player: p, queue: q}, nil
}

// applyBufferSize picks the player's internal buffer:
// ~20ms in low-latency (or during fast-forward), ~40ms otherwise.
func (a *App) applyBufferSize() {
	if a.audio == nil {
		return
	}
	bufMs := 40
	if a.cfg.AudioLowLatency || a.fast {
		bufMs = 20
	}
	a.audio.player.SetBufferSize(time.Duration(bufMs) * time.Millisecond)
}
