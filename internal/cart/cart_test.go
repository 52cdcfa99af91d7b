package cart

import (
	"bytes"
	"testing"
)

func withClock(t *testing.T, ms *int64) {
	t.Helper()
	prev := nowMillis
	nowMillis = func() int64 { return *ms }
	t.Cleanup(func() { nowMillis = prev })
}

func TestLoad_Banks(t *testing.T) {
	var now int64 = 5000
	withClock(t, &now)

	rom := buildROM("BANKS", 0x1B, 0x02, 0x03, 128*1024)
	rom[3*ROMBankSize+0x10] = 0x33
	c, err := Load(rom)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.ROMBankCount() != 8 || c.RAMBankCount() != 4 {
		t.Fatalf("banks got rom=%d ram=%d want 8/4", c.ROMBankCount(), c.RAMBankCount())
	}
	if got := c.ReadROM(3, 0x10); got != 0x33 {
		t.Fatalf("ReadROM(3, 0x10) got %02X want 33", got)
	}
	if !c.HasBattery() || c.Color {
		t.Fatalf("HasBattery=%v Color=%v want true/false", c.HasBattery(), c.Color)
	}
}

func TestLoad_ShortImageZeroFills(t *testing.T) {
	rom := buildROM("SHORT", 0x00, 0x01, 0x00, 32*1024) // header claims 4 banks
	c, err := Load(rom)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.ROMBankCount() != 4 {
		t.Fatalf("banks got %d want 4", c.ROMBankCount())
	}
	if got := c.ReadROM(3, 0x1234); got != 0 {
		t.Fatalf("missing bank byte got %02X want 00", got)
	}
}

func TestHasBattery(t *testing.T) {
	for _, typ := range []byte{0x03, 0x06, 0x09, 0x0F, 0x10, 0x13, 0x1B, 0x1E} {
		c := &Cartridge{Type: typ}
		if !c.HasBattery() {
			t.Fatalf("type %#02x: HasBattery=false want true", typ)
		}
	}
	for _, typ := range []byte{0x00, 0x01, 0x02, 0x11, 0x12, 0x19, 0x1A, 0x1C} {
		c := &Cartridge{Type: typ}
		if c.HasBattery() {
			t.Fatalf("type %#02x: HasBattery=true want false", typ)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	var now int64 = 1_700_000_000_000
	withClock(t, &now)

	c, err := Load(buildROM("SAVE", 0x10, 0x00, 0x03, 32*1024))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	for i := range c.RAM {
		c.RAM[i][0] = byte(i + 1)
		c.RAM[i][RAMBankSize-1] = byte(0xF0 + i)
	}
	c.RTC = [5]byte{12, 34, 5, 200, 0x01}
	dump := c.DumpSave()
	if len(dump) != 4*RAMBankSize+13 {
		t.Fatalf("dump size got %d want %d", len(dump), 4*RAMBankSize+13)
	}

	d, _ := Load(buildROM("SAVE", 0x10, 0x00, 0x03, 32*1024))
	d.LoadSave(dump)
	for i := range c.RAM {
		if !bytes.Equal(c.RAM[i], d.RAM[i]) {
			t.Fatalf("RAM bank %d mismatch after reload", i)
		}
	}
	if d.RTC != c.RTC {
		t.Fatalf("RTC got %v want %v", d.RTC, c.RTC)
	}
	if !bytes.Equal(d.DumpSave(), dump) {
		t.Fatalf("dump after reload differs")
	}
}

func TestSave_TimestampLayout(t *testing.T) {
	var now int64 = 0x0000_0123_89AB_CDEF
	withClock(t, &now)

	c, _ := Load(buildROM("STAMP", 0x03, 0x00, 0x02, 32*1024))
	dump := c.DumpSave()
	tail := dump[RAMBankSize+5:]
	want := []byte{0x00, 0x00, 0x01, 0x23, 0x89, 0xAB, 0xCD, 0xEF}
	if !bytes.Equal(tail, want) {
		t.Fatalf("timestamp got % X want % X", tail, want)
	}
}

func TestLoadSave_LengthMismatchSkipsRTC(t *testing.T) {
	var now int64 = 10_000
	withClock(t, &now)

	c, _ := Load(buildROM("MISMATCH", 0x10, 0x00, 0x02, 32*1024))
	c.RTC = [5]byte{1, 2, 3, 4, 0}
	data := make([]byte, RAMBankSize+5) // RAM plus a truncated trailer
	data[0] = 0x99
	data[RAMBankSize] = 59
	c.LoadSave(data)
	if c.RAM[0][0] != 0x99 {
		t.Fatalf("RAM not restored: got %02X", c.RAM[0][0])
	}
	if c.RTC != [5]byte{1, 2, 3, 4, 0} {
		t.Fatalf("RTC changed on malformed save: %v", c.RTC)
	}
}

func TestLoadSave_CatchesUpOfflineTime(t *testing.T) {
	var now int64 = 1_000_000
	withClock(t, &now)

	c, _ := Load(buildROM("OFFLINE", 0x10, 0x00, 0x02, 32*1024))
	c.RTC = [5]byte{50, 59, 23, 10, 0}
	dump := c.DumpSave()

	now += 15_500 // 15.5 s offline
	d, _ := Load(buildROM("OFFLINE", 0x10, 0x00, 0x02, 32*1024))
	d.LoadSave(dump)
	if d.RTC != [5]byte{5, 0, 0, 11, 0} {
		t.Fatalf("RTC after catch-up got %v", d.RTC)
	}
}

func TestCartridge_EndToEndRAM(t *testing.T) {
	var now int64 = 42
	withClock(t, &now)

	rom := buildROM("E2E", 0x03, 0x00, 0x02, 32*1024)
	c, err := Load(rom)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.ROMBankCount() != 2 || c.RAMBankCount() != 1 {
		t.Fatalf("banks got %d/%d want 2/1", c.ROMBankCount(), c.RAMBankCount())
	}
	m := NewController(c)
	m.Write(0x0000, 0x0A)
	m.Write(0xA123, 0x5A)
	dump := c.DumpSave()

	d, _ := Load(rom)
	d.LoadSave(dump)
	n := NewController(d)
	n.Write(0x0000, 0x0A)
	if got := n.Read(0xA123); got != 0x5A {
		t.Fatalf("reloaded RAM got %02X want 5A", got)
	}
}
