package ppu

import (
	"bytes"
	"encoding/gob"
)

type compositorState struct {
	VRAM       [2][0x2000]byte
	Bank       int
	OAM        [0xA0]byte
	LCDC       byte
	DMG        [3]byte
	Scheme     Scheme
	CGB        [128]int16
	WindowLine int
}

func (p *Compositor) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(compositorState{
		VRAM: p.vram, Bank: p.bank, OAM: p.oam, LCDC: p.lcdc,
		DMG: p.dmgRaw, Scheme: p.scheme, CGB: p.cgbRaw, WindowLine: p.windowLine,
	})
	return buf.Bytes()
}

// LoadState restores video memory and re-applies every palette byte so the
// decoded tables and the tile cache are rebuilt from scratch.
func (p *Compositor) LoadState(data []byte) error {
	var s compositorState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	p.vram, p.oam, p.windowLine = s.VRAM, s.OAM, s.WindowLine
	p.bank = 0
	p.SetVRAMBank(s.Bank)
	p.WriteControl(s.LCDC)
	p.invalidateAllTiles()

	p.scheme = s.Scheme
	for i := range p.dmgRaw {
		p.SetDMGPalette(i, s.DMG[i])
	}
	p.resetColorPalettes()
	for i, v := range s.CGB {
		if v >= 0 {
			p.SetColorPalette(i, byte(v))
		}
	}
	return nil
}
