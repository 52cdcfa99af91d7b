package cart

import (
	"bytes"
	"encoding/gob"
)

// MBC5 supports up to 8MB ROM and 128KB RAM, simple banking.
type MBC5 struct {
	c *Cartridge

	romBank    uint16 // 9 bits (0..511), bank 0 is selectable
	ramBank    byte   // 0..15
	ramEnabled bool
}

func NewMBC5(c *Cartridge) *MBC5 {
	return &MBC5{c: c, romBank: 1}
}

func (m *MBC5) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return m.c.ReadROM(0, addr)
	case addr < 0x8000:
		return m.c.ReadROM(int(m.romBank), addr-0x4000)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.c.ReadRAM(int(m.ramBank&0x0F), addr-0xA000)
	default:
		return 0xFF
	}
}

func (m *MBC5) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x3000:
		m.romBank = (m.romBank & 0x100) | uint16(value)
	case addr < 0x4000:
		m.romBank = (m.romBank & 0x0FF) | uint16(value&0x01)<<8
	case addr < 0x6000:
		m.ramBank = value & 0x0F
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnabled {
			m.c.WriteRAM(int(m.ramBank&0x0F), addr-0xA000, value)
		}
	}
}

type mbc5State struct {
	RomBank    uint16
	RamBank    byte
	RamEnabled bool
}

func (m *MBC5) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(mbc5State{RomBank: m.romBank, RamBank: m.ramBank, RamEnabled: m.ramEnabled})
	return buf.Bytes()
}

func (m *MBC5) LoadState(data []byte) error {
	var s mbc5State
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return err
	}
	m.romBank, m.ramBank, m.ramEnabled = s.RomBank, s.RamBank, s.RamEnabled
	return nil
}
