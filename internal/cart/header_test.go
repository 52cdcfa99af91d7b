package cart

import (
	"encoding/binary"
	"errors"
	"testing"
)

// buildROM returns an image of size bytes with the logo, title, type and
// size codes filled in and both checksums valid. Licensee is "01" via 0x33.
func buildROM(title string, cartType, romSizeCode, ramSizeCode byte, size int) []byte {
	rom := make([]byte, size)
	copy(rom[0x0104:], nintendoLogo[:])
	if len(title) > 16 {
		title = title[:16]
	}
	copy(rom[0x0134:0x0144], title)
	copy(rom[0x0144:], "01")
	rom[0x0147] = cartType
	rom[0x0148] = romSizeCode
	rom[0x0149] = ramSizeCode
	rom[0x014B] = 0x33
	rom[0x014C] = 0x01

	var hsum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		hsum = hsum - rom[addr] - 1
	}
	rom[0x014D] = hsum
	binary.BigEndian.PutUint16(rom[0x014E:], globalSum(rom))
	return rom
}

// globalSum adds every byte except the checksum itself.
func globalSum(rom []byte) uint16 {
	var sum uint16
	for i, b := range rom {
		if i != 0x014E && i != 0x014F {
			sum += uint16(b)
		}
	}
	return sum
}

func TestParseHeader_Basic(t *testing.T) {
	rom := buildROM("TEST", 0x01, 0x01, 0x02, 64*1024) // MBC1, 64KiB, 8KiB RAM

	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader error: %v", err)
	}
	if h.Title != "TEST" {
		t.Fatalf("Title got %q want %q", h.Title, "TEST")
	}
	if h.CartType != 0x01 || h.CartTypeStr != "MBC1 (variants)" {
		t.Fatalf("CartType got %#02x / %s", h.CartType, h.CartTypeStr)
	}
	if h.Color() || h.NewLicensee != "01" {
		t.Fatalf("Color %v licensee %q, want false \"01\"", h.Color(), h.NewLicensee)
	}
	if h.ROMBanks != 4 {
		t.Fatalf("ROM banks got %d want 4", h.ROMBanks)
	}
	if h.RAMBanks != 1 {
		t.Fatalf("RAM banks got %d want 1", h.RAMBanks)
	}
	if !h.LogoOK {
		t.Fatalf("LogoOK = false, want true")
	}
	if !HeaderChecksumOK(rom) {
		t.Fatalf("HeaderChecksumOK = false, want true")
	}

	if gsum := globalSum(rom); h.GlobalChecksum != gsum {
		t.Fatalf("Global checksum got %#04x want %#04x", h.GlobalChecksum, gsum)
	}
}

func TestHeaderChecksum_Bad(t *testing.T) {
	rom := buildROM("TEST", 0x00, 0x00, 0x00, 32*1024)
	rom[0x0134] ^= 0xFF // corrupt a header byte
	if HeaderChecksumOK(rom) {
		t.Fatalf("HeaderChecksumOK = true, want false after corruption")
	}
}

func TestParseHeader_ShortROM(t *testing.T) {
	short := make([]byte, 0x140) // too small (header needs through 0x014F)
	_, err := ParseHeader(short)
	if !errors.Is(err, ErrInvalidCartridge) || !errors.Is(err, ErrShortROM) {
		t.Fatalf("expected ErrInvalidCartridge/ErrShortROM on too-small ROM, got %v", err)
	}
}

func TestROMBankCount(t *testing.T) {
	for code := byte(0); code <= 7; code++ {
		got, err := ROMBankCount(code)
		if err != nil {
			t.Fatalf("code %d: unexpected error %v", code, err)
		}
		if want := 2 << code; got != want {
			t.Fatalf("code %d: got %d banks want %d", code, got, want)
		}
	}
	for code, want := range map[byte]int{0x52: 72, 0x53: 80, 0x54: 96} {
		if got, err := ROMBankCount(code); err != nil || got != want {
			t.Fatalf("code %#02x: got %d, %v want %d", code, got, err, want)
		}
	}
	for _, code := range []byte{0x08, 0x09, 0x51, 0x55, 0xFF} {
		if _, err := ROMBankCount(code); !errors.Is(err, ErrInvalidCartridge) {
			t.Fatalf("code %#02x: got err %v want ErrInvalidCartridge", code, err)
		}
	}
}

func TestRAMBankCount(t *testing.T) {
	cases := map[byte]int{0x00: 1, 0x01: 1, 0x02: 1, 0x03: 4, 0x04: 16, 0x05: 16, 0x06: 16, 0x07: 1, 0x40: 1}
	for code, want := range cases {
		if got := RAMBankCount(code); got != want {
			t.Fatalf("code %#02x: got %d want %d", code, got, want)
		}
	}
}

func TestParseHeader_InvalidSizeCode(t *testing.T) {
	rom := buildROM("BAD", 0x00, 0x00, 0x00, 32*1024)
	rom[0x0148] = 0x20
	if _, err := ParseHeader(rom); !errors.Is(err, ErrInvalidCartridge) {
		t.Fatalf("got %v want ErrInvalidCartridge", err)
	}
	if _, err := Load(rom); !errors.Is(err, ErrInvalidCartridge) {
		t.Fatalf("Load got %v want ErrInvalidCartridge", err)
	}
}
