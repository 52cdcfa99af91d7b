package cart

// Controller is the cartridge as the bus sees it: a bank switching policy
// over a Cartridge's banks. Addresses are CPU addresses.
type Controller interface {
	// Read returns a byte for ROM (0x0000–0x7FFF) and external RAM (0xA000–0xBFFF).
	Read(addr uint16) byte
	// Write handles MBC control writes (0x0000–0x7FFF) and external RAM writes (0xA000–0xBFFF).
	Write(addr uint16, value byte)
	// SaveState/LoadState serialize the banking registers for machine snapshots.
	// RAM contents travel in the battery dump, not here.
	SaveState() []byte
	LoadState(data []byte) error
}

// NewController picks the banking policy from the cartridge type byte.
func NewController(c *Cartridge) Controller {
	switch c.Type {
	case 0x00, 0x08, 0x09:
		return NewROMOnly(c)
	case 0x01, 0x02, 0x03:
		return NewMBC1(c)
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return NewMBC3(c)
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return NewMBC5(c)
	default:
		// unknown mappers behave like MBC5, which covers the widest bank range
		return NewMBC5(c)
	}
}
