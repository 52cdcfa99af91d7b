package ppu

import (
	"image"
	"image/color"
)

// FrameBuffer is one finished frame of packed ARGB pixels. The top bit is
// compositing bookkeeping; consumers should treat every pixel as opaque.
type FrameBuffer struct {
	Pix [Width * Height]uint32
}

func (f *FrameBuffer) Fill(c uint32) {
	for i := range f.Pix {
		f.Pix[i] = c
	}
}

// At returns the RGB of pixel (x, y) without the bookkeeping bits.
func (f *FrameBuffer) At(x, y int) uint32 { return f.Pix[y*Width+x] & 0x00FFFFFF }

// RGBA writes the frame as 8-bit RGBA into dst, which must hold
// Width*Height*4 bytes.
func (f *FrameBuffer) RGBA(dst []byte) {
	_ = dst[len(f.Pix)*4-1]
	for i, c := range f.Pix {
		o := i * 4
		dst[o+0] = byte(c >> 16)
		dst[o+1] = byte(c >> 8)
		dst[o+2] = byte(c)
		dst[o+3] = 0xFF
	}
}

// Image copies the frame into a new image.RGBA.
func (f *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	f.RGBA(img.Pix)
	return img
}

// Clone returns a copy that is safe to keep after the next frame starts.
func (f *FrameBuffer) Clone() *FrameBuffer {
	c := *f
	return &c
}

// ColorAt is At as a color.RGBA.
func (f *FrameBuffer) ColorAt(x, y int) color.RGBA {
	c := f.Pix[y*Width+x]
	return color.RGBA{R: byte(c >> 16), G: byte(c >> 8), B: byte(c), A: 0xFF}
}
