package ppu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/regs"

// drawBackground draws the background up to windowLeft and the window from
// there on. On color hardware only tiles whose priority bit equals priority
// are drawn; it reports whether any tile was left out.
func (p *Compositor) drawBackground(line, windowLeft, priority int) (skipped bool) {
	if !p.bgEnabled {
		return false
	}
	scy, scx := int(p.regs.Get(regs.SCY)), int(p.regs.Get(regs.SCX))
	sourceY := (line + scy) & 0xFF
	mapBase := 0x1800
	if p.hiBgMap {
		mapBase = 0x1C00
	}
	rowStart := mapBase + (sourceY&0xF8)<<2
	tileX := scx >> 3
	for x := -(scx & 7); x < windowLeft; x += 8 {
		addr := rowStart + tileX&0x1F
		tileX++
		tileNum, attrib, ok := p.mapEntry(addr, priority)
		if !ok {
			skipped = true
			continue
		}
		p.drawCopy(p.resolveTile(tileNum, attrib), x, line, sourceY&7)
	}

	if windowLeft >= Width {
		return skipped
	}
	winBase := 0x1800
	if p.hiWinMap {
		winBase = 0x1C00
	}
	addr := winBase + (p.windowLine>>3)*32
	for x := windowLeft; x < Width; x += 8 {
		tileNum, attrib, ok := p.mapEntry(addr, priority)
		addr++
		if !ok {
			skipped = true
			continue
		}
		p.drawCopy(p.resolveTile(tileNum, attrib), x, line, p.windowLine&7)
	}
	return skipped
}

// mapEntry resolves the tile number and cache attribute of one map cell.
func (p *Compositor) mapEntry(addr, priority int) (tileNum, attrib int, ok bool) {
	v := p.vram[0][addr]
	if p.unsignedTiles {
		tileNum = int(v)
	} else {
		tileNum = 256 + int(int8(v))
	}
	if !p.color {
		return tileNum, 0, priority == 0
	}
	a := int(p.vram[1][addr])
	pri := a & 0x80
	if !p.spritePriority {
		pri = 0
	}
	if pri != priority {
		return 0, 0, false
	}
	attrib = (a&0x07)<<2 | (a>>5)&0x03
	if a&0x08 != 0 {
		tileNum += tilesPerBank
	}
	return tileNum, attrib, true
}

// drawSprites composites sprites behind the background first, then in
// front of it. OAM is walked from the last entry so lower entries win.
func (p *Compositor) drawSprites(line int) {
	if !p.spritesEnabled {
		return
	}
	height := 8
	if p.tallSprites {
		height = 16
	}
	passes := []int{0x80, 0}
	if !p.spritePriority {
		passes = passes[1:]
	}
	for _, pass := range passes {
		for i := 39; i >= 0; i-- {
			o := p.oam[i*4 : i*4+4]
			attr := int(o[3])
			if p.spritePriority && attr&0x80 != pass {
				continue
			}
			y, x, tileNum := int(o[0])-16, int(o[1])-8, int(o[2])
			offset := line - y
			if x >= Width || offset < 0 || offset >= height {
				continue
			}

			attrib := (attr >> 5) & 0x03
			if p.color {
				attrib += 0x20 + (attr&0x07)<<2
				if attr&0x08 != 0 {
					tileNum += tilesPerBank
				}
			} else {
				attrib += 4 + (attr&0x10)>>2
			}

			row := offset
			if p.tallSprites {
				if attrib&tileFlipY != 0 {
					tileNum = (tileNum | 1) - offset>>3
				} else {
					tileNum = (tileNum &^ 1) + offset>>3
				}
				row = offset & 7
			}

			t := p.resolveTile(tileNum, attrib)
			if t == p.transparent {
				continue
			}
			p.drawSpriteRow(t, x, line, row, pass == 0x80 && p.spritePriority)
		}
	}
}

// span clips an 8 pixel run at x on line y to the screen.
func span(x, y, srcLine int) (dst, src, end int) {
	dst = x + y*Width
	src = srcLine * 8
	end = dst + 8
	if x+8 > Width {
		end = (y + 1) * Width
	}
	if x < 0 {
		dst -= x
		src -= x
	}
	return
}

func (p *Compositor) drawCopy(t *tile, x, y, srcLine int) {
	dst, src, end := span(x, y, srcLine)
	if dst < end {
		copy(p.fb.Pix[dst:end], t[src:])
	}
}

// drawSpriteRow writes the opaque pixels of one sprite row. Sprites behind
// the background only show through background color 0.
func (p *Compositor) drawSpriteRow(t *tile, x, y, srcLine int, behind bool) {
	dst, src, end := span(x, y, srcLine)
	for ; dst < end; dst, src = dst+1, src+1 {
		c := t[src]
		if !opaque(c) {
			continue
		}
		if behind && opaque(p.fb.Pix[dst]) {
			continue
		}
		p.fb.Pix[dst] = c
	}
}

// blankLine fills a line with background color 0, as monochrome hardware
// shows when the background layer is off.
func (p *Compositor) blankLine(line int) {
	row := p.fb.Pix[line*Width : (line+1)*Width]
	for i := range row {
		row[i] = p.dmgPal[0]
	}
}
