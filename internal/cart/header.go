package cart

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	headerEnd = 0x014F
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

type Header struct {
	Title          string // (trimmed ASCII)
	CGBFlag        byte   // 0x0143
	NewLicensee    string // 0x0144-0x0145 (ASCII), if old==0x33
	SGBFlag        byte   // 0x0146
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	Destination    byte   // 0x014A
	OldLicensee    byte   // 0x014B
	ROMVersion     byte   // 0x014C
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F
	LogoOK         bool

	// Decoded helpers
	ROMBanks    int
	RAMBanks    int
	CartTypeStr string
}

// ParseHeader decodes the cartridge header. Unknown ROM size codes are
// reported as ErrInvalidCartridge since no bank layout can be derived.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, fmt.Errorf("%w: %w (%d bytes)", ErrInvalidCartridge, ErrShortROM, len(rom))
	}

	logoOK := true
	for i := 0; i < len(nintendoLogo); i++ {
		if rom[0x0104+i] != nintendoLogo[i] {
			// homebrew and test images often leave it out
			logoOK = false
			break
		}
	}

	// Title region is 0x0134–0x0143, but parts overlap on newer carts.
	title := strings.TrimRight(string(rom[0x0134:0x0144]), "\x00")
	if rom[0x0143]&0x80 != 0 {
		title = strings.TrimRight(string(rom[0x0134:0x0143]), "\x00")
	}

	h := &Header{
		Title:          title,
		CGBFlag:        rom[0x0143],
		NewLicensee:    string(rom[0x0144:0x0146]),
		SGBFlag:        rom[0x0146],
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		Destination:    rom[0x014A],
		OldLicensee:    rom[0x014B],
		ROMVersion:     rom[0x014C],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
		LogoOK:         logoOK,
	}

	banks, err := ROMBankCount(h.ROMSizeCode)
	if err != nil {
		return nil, err
	}
	h.ROMBanks = banks
	h.RAMBanks = RAMBankCount(h.RAMSizeCode)
	h.CartTypeStr = CartTypeString(h.CartType)
	return h, nil
}

// Color reports whether the image declares color support (0x80 or 0xC0).
func (h *Header) Color() bool { return h.CGBFlag&0x80 != 0 }

func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte = 0
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}

// ROMBankCount maps the 0x0148 size code to a number of 16 KiB banks.
func ROMBankCount(code byte) (int, error) {
	switch {
	case code <= 0x07:
		return 2 << code, nil
	case code == 0x52:
		return 72, nil
	case code == 0x53:
		return 80, nil
	case code == 0x54:
		return 96, nil
	}
	return 0, fmt.Errorf("%w: ROM size code %#02x", ErrInvalidCartridge, code)
}

// RAMBankCount maps the 0x0149 size code to a number of 8 KiB banks.
// Carts always get at least one bank so save dumps have a fixed shape.
func RAMBankCount(code byte) int {
	switch code {
	case 0x01, 0x02:
		return 1
	case 0x03:
		return 4
	case 0x04, 0x05, 0x06:
		return 16
	default:
		return 1
	}
}

func CartTypeString(code byte) string {
	switch code {
	case 0x00:
		return "ROM ONLY"
	case 0x01, 0x02, 0x03:
		return "MBC1 (variants)"
	case 0x05, 0x06:
		return "MBC2 (variants)"
	case 0x0F, 0x10:
		return "MBC3+TIMER (variants)"
	case 0x11, 0x12, 0x13:
		return "MBC3 (variants)"
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return "MBC5 (variants)"
	default:
		return "Other/unknown"
	}
}
