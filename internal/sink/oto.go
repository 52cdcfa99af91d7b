package sink

import (
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer plays chunks live through the system audio device.
type OtoPlayer struct {
	*PCMQueue
	ctx    *oto.Context
	player *oto.Player
}

// NewOtoPlayer opens the default device. bufferMs bounds both the device
// buffer and the queue in front of it.
func NewOtoPlayer(sampleRate, bufferMs int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferMs) * time.Millisecond,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	q := NewPCMQueue(QueueBytes(sampleRate, bufferMs*4))
	p := &OtoPlayer{PCMQueue: q, ctx: ctx}
	p.player = ctx.NewPlayer(q)
	p.player.Play()
	return p, nil
}

func (p *OtoPlayer) Close() error {
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
