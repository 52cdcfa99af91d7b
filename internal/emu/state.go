package emu

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log"
	"os"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/regs"
)

type machineState struct {
	Title    string
	Regs     regs.File
	WRAM     [8][0x1000]byte
	WRAMBank int
	RAM      [][]byte
	RTC      [5]byte
	MBC      []byte
	PPU      []byte
	APU      []byte
}

// SaveState snapshots the whole machine between frames.
func (m *Machine) SaveState() ([]byte, error) {
	if m.cart == nil {
		return nil, ErrNoCartridge
	}
	s := machineState{
		Title:    m.cart.Header.Title,
		Regs:     *m.regs,
		WRAM:     *m.bus.WorkRAM(),
		WRAMBank: m.bus.WorkRAMBank(),
		RAM:      m.cart.RAM,
		RTC:      m.cart.RTC,
		MBC:      m.mbc.SaveState(),
		PPU:      m.ppu.SaveState(),
		APU:      m.apu.SaveState(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadState restores a snapshot taken from the same game. If any part of
// the snapshot is rejected the machine is left as it was.
func (m *Machine) LoadState(data []byte) error {
	if m.cart == nil {
		return ErrNoCartridge
	}
	s, err := decodeState(data)
	if err != nil {
		return err
	}
	if s.Title != m.cart.Header.Title || len(s.RAM) != len(m.cart.RAM) {
		return fmt.Errorf("state belongs to %q, not %q", s.Title, m.cart.Header.Title)
	}

	prevData, err := m.SaveState()
	if err != nil {
		return err
	}
	prev, err := decodeState(prevData)
	if err != nil {
		return err
	}
	if err := m.applyState(s); err != nil {
		if rerr := m.applyState(prev); rerr != nil {
			log.Printf("state: rollback failed: %v", rerr)
		}
		return err
	}
	return nil
}

func decodeState(data []byte) (*machineState, error) {
	var s machineState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &s, nil
}

func (m *Machine) applyState(s *machineState) error {
	*m.regs = s.Regs
	*m.bus.WorkRAM() = s.WRAM
	m.bus.SetWorkRAMBank(s.WRAMBank)
	for i := range s.RAM {
		copy(m.cart.RAM[i], s.RAM[i])
	}
	m.cart.RTC = s.RTC
	if err := m.mbc.LoadState(s.MBC); err != nil {
		return fmt.Errorf("mbc state: %w", err)
	}
	if err := m.ppu.LoadState(s.PPU); err != nil {
		return fmt.Errorf("video state: %w", err)
	}
	if err := m.apu.LoadState(s.APU); err != nil {
		return fmt.Errorf("sound state: %w", err)
	}
	return nil
}

func (m *Machine) SaveStateToFile(path string) error {
	data, err := m.SaveState()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadState(data)
}
