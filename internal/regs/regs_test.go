package regs

import "testing"

func TestFreq11(t *testing.T) {
	var f File
	f.Set(NR13, 0x34)
	f.Set(NR14, 0xC6) // trigger + length enable + freq high 6
	if got := f.Freq11(NR13, NR14); got != 0x634 {
		t.Fatalf("Freq11 got %#x want 0x634", got)
	}
}

func TestSharedByPointer(t *testing.T) {
	f := new(File)
	a, b := f, f
	a.Set(LCDC, 0x91)
	if b.Get(LCDC) != 0x91 {
		t.Fatalf("write through one holder not visible to another")
	}
}
