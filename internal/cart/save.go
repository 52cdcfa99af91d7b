package cart

import "encoding/binary"

// SaveSize is the length of a battery dump for this cartridge.
func (c *Cartridge) SaveSize() int { return len(c.RAM)*RAMBankSize + SaveTrailerSize }

// DumpSave serializes every RAM bank in order, then the five RTC registers,
// then the current wall clock in milliseconds as two big-endian 32-bit
// halves (high first).
func (c *Cartridge) DumpSave() []byte {
	out := make([]byte, c.SaveSize())
	for i, bank := range c.RAM {
		copy(out[i*RAMBankSize:], bank)
	}
	off := len(c.RAM) * RAMBankSize
	copy(out[off:], c.RTC[:])
	now := uint64(c.now())
	binary.BigEndian.PutUint32(out[off+5:], uint32(now>>32))
	binary.BigEndian.PutUint32(out[off+9:], uint32(now))
	return out
}

// LoadSave restores RAM banks from data, tolerating short or long buffers.
// The RTC is restored, and then caught up by the wall time that passed
// since the dump, only when data has exactly the expected dump length.
func (c *Cartridge) LoadSave(data []byte) {
	for i, bank := range c.RAM {
		off := i * RAMBankSize
		if off >= len(data) {
			break
		}
		copy(bank, data[off:])
	}
	if len(data) != c.SaveSize() {
		return
	}
	off := len(c.RAM) * RAMBankSize
	copy(c.RTC[:], data[off:off+5])
	stamp := int64(uint64(binary.BigEndian.Uint32(data[off+5:]))<<32 | uint64(binary.BigEndian.Uint32(data[off+9:])))
	now := c.now()
	c.lastRTC = now
	c.SkipRTC((now - stamp) / 1000)
}
