// Package sink holds the frame and audio consumers hosts attach to a
// machine: PNG snapshots, WAV capture and live playback.
package sink

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

type PNGOptions struct {
	Scale int // integer upscaling factor, nearest neighbour
}

func (o *PNGOptions) Defaults() {
	if o.Scale <= 0 {
		o.Scale = 1
	}
}

// ScaledImage returns fb enlarged by scale with hard pixel edges.
func ScaledImage(fb *ppu.FrameBuffer, scale int) image.Image {
	src := fb.Image()
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, ppu.Width*scale, ppu.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func WritePNG(w io.Writer, fb *ppu.FrameBuffer, opts PNGOptions) error {
	opts.Defaults()
	return png.Encode(w, ScaledImage(fb, opts.Scale))
}

func SavePNG(path string, fb *ppu.FrameBuffer, opts PNGOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, fb, opts); err != nil {
		f.Close()
		return fmt.Errorf("write PNG: %w", err)
	}
	return f.Close()
}

// FrameCRC is the CRC32 of the frame as RGBA bytes. Headless runs compare
// it against an expected value.
func FrameCRC(fb *ppu.FrameBuffer) uint32 {
	buf := make([]byte, ppu.Width*ppu.Height*4)
	fb.RGBA(buf)
	return crc32.ChecksumIEEE(buf)
}

// LastFrame keeps a copy of the most recent presented frame.
type LastFrame struct {
	fb      *ppu.FrameBuffer
	count   int
	skipped int
}

func (l *LastFrame) Frame(fb *ppu.FrameBuffer, skipped int) {
	l.fb = fb.Clone()
	l.count++
	l.skipped += skipped
}

// Get returns the last frame, nil before the first one.
func (l *LastFrame) Get() *ppu.FrameBuffer { return l.fb }

// Count is the number of frames presented so far.
func (l *LastFrame) Count() int { return l.count }

// Skipped is the total number of frames dropped between presented ones.
func (l *LastFrame) Skipped() int { return l.skipped }
