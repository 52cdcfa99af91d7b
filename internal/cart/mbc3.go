package cart

import (
	"bytes"
	"encoding/gob"
)

// MBC3 implements ROM/RAM banking plus the clock registers.
// - 0000-1FFF: RAM/RTC enable (0x0A in low nibble)
// - 2000-3FFF: ROM bank low 7 bits (0 maps to 1)
// - 4000-5FFF: RAM bank (0-3) or RTC register select (08-0C)
// - 6000-7FFF: writing 0 then 1 latches the clock
// - A000-BFFF: external RAM or the selected RTC register
type MBC3 struct {
	c *Cartridge

	ramEnabled bool
	romBank    byte // 7 bits (1..127)
	sel        byte // 0..3 RAM bank, 0x08..0x0C RTC register
	latchArmed bool
	latched    [5]byte
}

func NewMBC3(c *Cartridge) *MBC3 {
	return &MBC3{c: c, romBank: 1}
}

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.c.ReadROM(0, addr)
	case addr < 0x8000:
		return m.c.ReadROM(int(m.romBank), addr-0x4000)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.sel >= 0x08 && m.sel <= 0x0C {
			if !m.c.HasRTC() {
				return 0xFF
			}
			return m.latched[m.sel-0x08]
		}
		return m.c.ReadRAM(int(m.sel&0x03), addr-0xA000)
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.sel = value
	case addr < 0x8000:
		if value == 1 && m.latchArmed && m.c.HasRTC() {
			m.c.TickRTC(m.c.now())
			m.latched = m.c.RTC
		}
		m.latchArmed = value == 0
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		if m.sel >= 0x08 && m.sel <= 0x0C {
			if m.c.HasRTC() {
				m.c.TickRTC(m.c.now())
				m.c.RTC[m.sel-0x08] = value
				m.latched[m.sel-0x08] = value
			}
			return
		}
		m.c.WriteRAM(int(m.sel&0x03), addr-0xA000, value)
	}
}

type mbc3State struct {
	RamEnabled, LatchArmed bool
	RomBank, Sel           byte
	Latched                [5]byte
}

func (m *MBC3) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(mbc3State{m.ramEnabled, m.latchArmed, m.romBank, m.sel, m.latched})
	return buf.Bytes()
}

func (m *MBC3) LoadState(data []byte) error {
	var s mbc3State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	m.ramEnabled, m.latchArmed, m.romBank, m.sel, m.latched = s.RamEnabled, s.LatchArmed, s.RomBank, s.Sel, s.Latched
	return nil
}
