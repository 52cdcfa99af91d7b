package ui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

func drawText(screen *ebiten.Image, s string, x, y int) {
	// drop shadow keeps the text readable on light frames
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x+1), float64(y+1))
	op.ColorScale.ScaleWithColor(color.Black)
	text.Draw(screen, s, hudFace, op)

	op = &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, s, hudFace, op)
}

func (a *App) drawHUD(screen *ebiten.Image) {
	s := a.m.Synthesizer()
	var ch strings.Builder
	for i := 1; i <= 4; i++ {
		if s.ChannelEnabled(i) {
			fmt.Fprintf(&ch, "%d", i)
		} else {
			ch.WriteByte('-')
		}
	}
	lines := []string{
		fmt.Sprintf("%.1f fps  skip %d", a.fps, a.lastSkipped),
		fmt.Sprintf("frame %d  x%d", a.m.Compositor().Frames(), a.m.Config().Speed),
		"ch " + ch.String(),
	}
	if a.audio != nil {
		lines = append(lines, fmt.Sprintf("audio %dB  underruns %d", a.audio.queue.Buffered(), a.audio.queue.Underruns()))
	}
	if a.paused {
		lines = append(lines, "PAUSED")
	}
	for i, l := range lines {
		drawText(screen, l, 4, 4+i*14)
	}
}
