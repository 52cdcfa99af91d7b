package cart

// ROMOnly maps two fixed ROM banks and, for types 0x08/0x09, one RAM bank.
type ROMOnly struct {
	c      *Cartridge
	hasRAM bool
}

func NewROMOnly(c *Cartridge) *ROMOnly {
	return &ROMOnly{c: c, hasRAM: c.Type == 0x08 || c.Type == 0x09}
}

func (r *ROMOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return r.c.ReadROM(0, addr)
	case addr < 0x8000:
		return r.c.ReadROM(1, addr-0x4000)
	case addr >= 0xA000 && addr <= 0xBFFF && r.hasRAM:
		return r.c.ReadRAM(0, addr-0xA000)
	default:
		return 0xFF
	}
}

func (r *ROMOnly) Write(addr uint16, value byte) {
	if addr >= 0xA000 && addr <= 0xBFFF && r.hasRAM {
		r.c.WriteRAM(0, addr-0xA000, value)
	}
}

func (r *ROMOnly) SaveState() []byte { return nil }
func (r *ROMOnly) LoadState(data []byte) error { return nil }
