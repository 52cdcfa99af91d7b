package ppu

const (
	tileFlipX = 1
	tileFlipY = 2
)

// weave spreads the 8 bits of a byte onto the even bit positions so two
// bitplanes combine into 2-bit pixel indices with one add and shift.
var weave = func() (t [256]uint16) {
	for i := 1; i < 256; i++ {
		for d := 0; d < 8; d++ {
			t[i] |= uint16((i>>d)&1) << (d * 2)
		}
	}
	return
}()

// tile is a decoded 8x8 block, row major.
type tile [64]uint32

// tileKey is tile + tileCount*attrib. The attribute byte packs the flips in
// bits 0-1 and the first palette entry (a multiple of 4) above them.
func (p *Compositor) tileKey(tileIndex, attrib int) int { return tileIndex + p.tileCount*attrib }

// resolveTile returns the cached block for (tileIndex, attrib), decoding it
// on a miss. Sprite variants whose 64 indices are all zero resolve to the
// shared transparent sentinel.
func (p *Compositor) resolveTile(tileIndex, attrib int) *tile {
	key := p.tileKey(tileIndex, attrib)
	if t := p.tiles[key]; t != nil {
		return t
	}

	bank, off := 0, tileIndex<<4
	if tileIndex >= tilesPerBank {
		bank, off = 1, (tileIndex-tilesPerBank)<<4
	}
	src := p.vram[bank][off : off+16]

	pal := p.dmgPal[:]
	if p.color {
		pal = p.cgbPal[:]
	}
	palStart := attrib & 0xFC
	transparent := attrib >= p.transparentCutoff

	t := new(tile)
	for y := 0; y < 8; y++ {
		num := weave[src[2*y]] | weave[src[2*y+1]]<<1
		if num != 0 {
			transparent = false
		}
		row := y
		if attrib&tileFlipY != 0 {
			row = 7 - y
		}
		// bit pair 0 is the rightmost pixel
		for d := 0; d < 8; d++ {
			col := 7 - d
			if attrib&tileFlipX != 0 {
				col = d
			}
			t[row*8+col] = pal[palStart+int(num&3)]
			num >>= 2
		}
	}
	if transparent {
		t = p.transparent
	}
	p.tiles[key] = t
	p.tileRead[tileIndex] = true
	return t
}

// invalidateTile drops every cached variant of one tile.
func (p *Compositor) invalidateTile(tileIndex int) {
	if !p.tileRead[tileIndex] {
		return
	}
	for r := tileIndex; r < len(p.tiles); r += p.tileCount {
		p.tiles[r] = nil
	}
	p.tileRead[tileIndex] = false
}

// invalidatePalette drops every tile variant drawn with palette pal
// (attributes pal*4 .. pal*4+3).
func (p *Compositor) invalidatePalette(pal int) {
	start := pal * p.tileCount * 4
	stop := (pal + 1) * p.tileCount * 4
	if stop > len(p.tiles) {
		stop = len(p.tiles)
	}
	for r := start; r < stop; r++ {
		p.tiles[r] = nil
	}
}

func (p *Compositor) invalidateAllTiles() {
	for i := range p.tiles {
		p.tiles[i] = nil
	}
	for i := range p.tileRead {
		p.tileRead[i] = false
	}
}
