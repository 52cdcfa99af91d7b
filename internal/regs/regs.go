// Package regs is the memory-mapped I/O page (0xFF00–0xFFFF) shared by the
// bus, the compositor and the synthesizer. Subsystems keep a pointer to one
// File and read sibling registers from it instead of owning copies.
package regs

// Register offsets within the page.
const (
	NR10 = 0x10
	NR11 = 0x11
	NR12 = 0x12
	NR13 = 0x13
	NR14 = 0x14
	NR21 = 0x16
	NR22 = 0x17
	NR23 = 0x18
	NR24 = 0x19
	NR30 = 0x1A
	NR31 = 0x1B
	NR32 = 0x1C
	NR33 = 0x1D
	NR34 = 0x1E
	NR41 = 0x20
	NR42 = 0x21
	NR43 = 0x22
	NR44 = 0x23
	NR50 = 0x24
	NR51 = 0x25
	NR52 = 0x26
	Wave = 0x30 // 0x30–0x3F

	LCDC = 0x40
	STAT = 0x41
	SCY  = 0x42
	SCX  = 0x43
	LY   = 0x44
	LYC  = 0x45
	DMA  = 0x46
	BGP  = 0x47
	OBP0 = 0x48
	OBP1 = 0x49
	WY   = 0x4A
	WX   = 0x4B
	VBK  = 0x4F
	BCPS = 0x68
	BCPD = 0x69
	OCPS = 0x6A
	OCPD = 0x6B
	IE   = 0xFF
)

// File is the register page indexed by the low byte of the address.
type File [0x100]byte

// Get returns the raw stored value of register r.
func (f *File) Get(r byte) byte { return f[r] }

// Set stores v without side effects.
func (f *File) Set(r byte, v byte) { f[r] = v }

// Freq11 assembles an 11-bit channel frequency from a low register and the
// low three bits of its high register.
func (f *File) Freq11(lo, hi byte) int {
	return int(f[lo]) | int(f[hi]&0x07)<<8
}
