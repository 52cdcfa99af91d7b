package cart

import (
	"bytes"
	"encoding/gob"
)

// MBC1 implements MBC1 ROM/RAM banking: up to 2 MiB ROM, 32 KiB RAM.
type MBC1 struct {
	c *Cartridge

	romBankLow5       byte // lower 5 bits of ROM bank number (0->1 remapped)
	ramBankOrRomHigh2 byte // either RAM bank (mode1) or ROM bank high bits (mode0)
	ramEnabled        bool
	modeSelect        byte // 0: ROM banking (default), 1: RAM banking
}

func NewMBC1(c *Cartridge) *MBC1 {
	return &MBC1{c: c, romBankLow5: 1}
}

func (m *MBC1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if m.modeSelect == 0 {
			return m.c.ReadROM(0, addr)
		}
		// mode 1 applies the high bits to the bank 0 window too
		return m.c.ReadROM(int(m.ramBankOrRomHigh2&0x03)<<5, addr)
	case addr < 0x8000:
		return m.c.ReadROM(m.romBank(), addr-0x4000)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.c.ReadRAM(m.ramBank(), addr-0xA000)
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		m.romBankLow5 = value & 0x1F
		if m.romBankLow5 == 0 {
			m.romBankLow5 = 1
		}
	case addr < 0x6000:
		m.ramBankOrRomHigh2 = value & 0x03
	case addr < 0x8000:
		m.modeSelect = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ramEnabled {
			m.c.WriteRAM(m.ramBank(), addr-0xA000, value)
		}
	}
}

func (m *MBC1) romBank() int {
	return int(m.romBankLow5 | (m.ramBankOrRomHigh2&0x03)<<5)
}

func (m *MBC1) ramBank() int {
	if m.modeSelect == 1 {
		return int(m.ramBankOrRomHigh2 & 0x03)
	}
	return 0
}

type mbc1State struct {
	RomBankLow5, High2, Mode byte
	RamEnabled               bool
}

func (m *MBC1) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(mbc1State{m.romBankLow5, m.ramBankOrRomHigh2, m.modeSelect, m.ramEnabled})
	return buf.Bytes()
}

func (m *MBC1) LoadState(data []byte) error {
	var s mbc1State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	m.romBankLow5, m.ramBankOrRomHigh2, m.modeSelect, m.ramEnabled = s.RomBankLow5, s.High2, s.Mode, s.RamEnabled
	return nil
}
