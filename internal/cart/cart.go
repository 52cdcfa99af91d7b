package cart

import (
	"errors"
	"time"
)

const (
	ROMBankSize = 0x4000
	RAMBankSize = 0x2000

	// SaveTrailerSize is the RTC register set plus the big-endian wall clock
	// stamp appended to battery dumps.
	SaveTrailerSize = 5 + 8
)

var (
	ErrInvalidCartridge = errors.New("invalid cartridge")
	ErrShortROM         = errors.New("ROM too small to contain header")
)

// nowMillis is the wall clock used for RTC bookkeeping. Tests replace it.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// Cartridge holds the banked memory of a loaded game image together with
// its real-time clock. Bank switching policy lives in a Controller.
type Cartridge struct {
	Header *Header
	ROM    [][]byte // ROMBankSize each
	RAM    [][]byte // RAMBankSize each, at least one bank
	Type   byte
	Color  bool

	// RTC holds seconds, minutes, hours, day low and day high.
	// Day high: bit0 day bit 8, bit6 halt, bit7 day carry.
	RTC     [5]byte
	lastRTC int64
	clock   func() int64
}

// SetClock replaces the millisecond clock behind the RTC and restarts
// elapsed-time accounting from its current reading. nil restores the wall
// clock.
func (c *Cartridge) SetClock(now func() int64) {
	c.clock = now
	c.lastRTC = c.now()
}

func (c *Cartridge) now() int64 {
	if c.clock != nil {
		return c.clock()
	}
	return nowMillis()
}

// Load builds a cartridge from a raw image. Missing trailing ROM bytes read
// as zero. No partial cartridge is returned on error.
func Load(image []byte) (*Cartridge, error) {
	h, err := ParseHeader(image)
	if err != nil {
		return nil, err
	}
	c := &Cartridge{
		Header:  h,
		Type:    h.CartType,
		Color:   h.Color(),
		ROM:     make([][]byte, h.ROMBanks),
		RAM:     make([][]byte, h.RAMBanks),
		lastRTC: nowMillis(),
	}
	for i := range c.ROM {
		c.ROM[i] = make([]byte, ROMBankSize)
		if off := i * ROMBankSize; off < len(image) {
			copy(c.ROM[i], image[off:])
		}
	}
	for i := range c.RAM {
		c.RAM[i] = make([]byte, RAMBankSize)
	}
	return c, nil
}

// HasBattery reports whether RAM (and clock) contents survive power off.
func (c *Cartridge) HasBattery() bool {
	switch c.Type {
	case 0x03, 0x06, 0x09, 0x0F, 0x10, 0x13, 0x1B, 0x1E:
		return true
	}
	return false
}

// HasRTC reports whether the controller exposes the clock registers.
func (c *Cartridge) HasRTC() bool { return c.Type == 0x0F || c.Type == 0x10 }

func (c *Cartridge) ROMBankCount() int { return len(c.ROM) }
func (c *Cartridge) RAMBankCount() int { return len(c.RAM) }

// ReadROM reads offset off (0..0x3FFF) of a ROM bank. Out of range banks
// wrap modulo the bank count, as the address lines do on real carts.
func (c *Cartridge) ReadROM(bank int, off uint16) byte {
	return c.ROM[bank%len(c.ROM)][off&(ROMBankSize-1)]
}

// ReadRAM reads offset off (0..0x1FFF) of a RAM bank, wrapping the bank.
func (c *Cartridge) ReadRAM(bank int, off uint16) byte {
	return c.RAM[bank%len(c.RAM)][off&(RAMBankSize-1)]
}

func (c *Cartridge) WriteRAM(bank int, off uint16, v byte) {
	c.RAM[bank%len(c.RAM)][off&(RAMBankSize-1)] = v
}
