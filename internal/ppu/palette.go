package ppu

// Colors are packed ARGB. Bit 31 marks a pixel as opaque for compositing:
// background color 0 and sprite color 0 have it cleared.
const opaqueBit = 0x80000000

// Scheme is the four shades a monochrome game is shown with, lightest first.
type Scheme [4]uint32

// Built-in monochrome schemes, indexed by SchemeID.
var Schemes = [...]Scheme{
	{0xFFE0F8D0, 0xFF88C070, 0xFF346856, 0xFF081820}, // green
	{0xFFF8E8C8, 0xFFD8A878, 0xFF986840, 0xFF302010}, // sepia
	{0xFFE8F0F8, 0xFF80A8E0, 0xFF3858A8, 0xFF101838}, // blue
	{0xFFF8E8E0, 0xFFF09080, 0xFFA83828, 0xFF300808}, // red
	{0xFFF8F0F8, 0xFFE0B0D8, 0xFF9878B8, 0xFF383058}, // pastel
	{0xFFFFFFFF, 0xFFAAAAAA, 0xFF555555, 0xFF000000}, // grey
}

// SchemeNames matches Schemes by index.
var SchemeNames = [...]string{"green", "sepia", "blue", "red", "pastel", "grey"}

// SchemeByName returns the index of a named scheme.
func SchemeByName(name string) (int, bool) {
	for i, n := range SchemeNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func opaque(c uint32) bool { return c&opaqueBit != 0 }

// SetScheme replaces the monochrome shades and re-decodes the three DMG palettes.
func (p *Compositor) SetScheme(s Scheme) {
	p.scheme = s
	for i := 0; i < 3; i++ {
		p.SetDMGPalette(i, p.dmgRaw[i])
	}
}

// SetDMGPalette decodes BGP (0), OBP0 (1) or OBP1 (2) into the 12-entry
// monochrome table. Color 0 of each palette is never opaque.
func (p *Compositor) SetDMGPalette(which int, data byte) {
	if which < 0 || which > 2 {
		return
	}
	p.dmgRaw[which] = data
	start := which * 4
	for i := 0; i < 4; i++ {
		p.dmgPal[start+i] = p.scheme[(data>>(2*i))&0x03]
	}
	p.dmgPal[start] &= 0x00FFFFFF
	p.invalidatePalette(which)
}

// SetColorPalette stores one raw byte of color palette memory. Indices
// 0x00–0x3F are background palettes, 0x40–0x7F sprite palettes, two bytes
// (little-endian RGB555) per color. Writing an unchanged byte does nothing.
func (p *Compositor) SetColorPalette(index int, data byte) {
	index &= 0x7F
	if p.cgbRaw[index] == int16(data) {
		return
	}
	p.cgbRaw[index] = int16(data)
	// sprite color 0 is always transparent, no need to decode it
	if index >= 0x40 && index&0x06 == 0 {
		return
	}
	lo, hi := p.cgbRaw[index&^1], p.cgbRaw[index|1]
	if lo < 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 0
	}
	p.cgbPal[index>>1] = decodeRGB555(uint16(lo) | uint16(hi)<<8)
	if index&0x06 == 0 {
		p.cgbPal[index>>1] &= 0x00FFFFFF
	}
	p.invalidatePalette(index >> 3)
}

// ColorPalette returns the raw byte at index, 0xFF if never written.
func (p *Compositor) ColorPalette(index int) byte {
	v := p.cgbRaw[index&0x7F]
	if v < 0 {
		return 0xFF
	}
	return byte(v)
}

// resetColorPalettes forgets every written byte. Background colors start
// opaque white and sprite colors transparent.
func (p *Compositor) resetColorPalettes() {
	for i := range p.cgbRaw {
		p.cgbRaw[i] = -1
	}
	for i := range p.cgbPal {
		p.cgbPal[i] = 0
		if i < 32 {
			p.cgbPal[i] = 0xFFFFFFFF
		}
	}
}

// decodeRGB555 widens a 15-bit color into opaque ARGB.
func decodeRGB555(v uint16) uint32 {
	c := uint32(v)
	return opaqueBit | (c&0x001F)<<19 | (c&0x03E0)<<6 | (c&0x7C00)>>7
}
