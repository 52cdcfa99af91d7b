// Package script drives a Machine from Lua. A script plays the part of
// the CPU: it writes registers and memory and announces scanlines and
// vertical blanks.
//
// Globals available to scripts:
//
//	write(addr, v)        bus write
//	read(addr) -> v       bus read
//	line(n)               scanline n finished
//	vblank()              end of frame
//	frame([n])            n full frames (all scanlines then vblank), default 1
//	vram(addr, {bytes})   consecutive bus writes starting at addr
//	palette(i, rgb555)    color palette entry i (0-31 background, 32-63 sprite)
//	speed(n)              speed multiplier
//	audio(on) / audio(ch, on)
//	cheat(code)
//	log(...)
//
// A script that defines on_frame(n) is called once per Step; otherwise a
// Step runs one plain frame.
package script

import (
	"errors"
	"fmt"
	"log"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/regs"
)

var ErrScript = errors.New("script error")

type Host struct {
	L     *lua.LState
	m     *emu.Machine
	steps int
}

func New(m *emu.Machine) *Host {
	h := &Host{L: lua.NewState(), m: m}
	for name, fn := range map[string]lua.LGFunction{
		"write":   h.write,
		"read":    h.read,
		"line":    h.line,
		"vblank":  h.vblank,
		"frame":   h.frame,
		"vram":    h.vram,
		"palette": h.palette,
		"speed":   h.speed,
		"audio":   h.audio,
		"cheat":   h.cheat,
		"log":     h.log,
	} {
		h.L.SetGlobal(name, h.L.NewFunction(fn))
	}
	return h
}

func (h *Host) Close() { h.L.Close() }

// RunFile executes a script file once, top to bottom.
func (h *Host) RunFile(path string) error {
	if err := h.L.DoFile(path); err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	return nil
}

func (h *Host) RunString(src string) error {
	if err := h.L.DoString(src); err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	return nil
}

// Step advances one host tick: on_frame(n) when the script defines it,
// a plain frame otherwise.
func (h *Host) Step() error {
	h.steps++
	fn, ok := h.L.GetGlobal("on_frame").(*lua.LFunction)
	if !ok {
		h.m.RunFrame()
		return nil
	}
	err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(h.steps))
	if err != nil {
		return fmt.Errorf("%w: on_frame(%d): %v", ErrScript, h.steps, err)
	}
	return nil
}

// Steps is the number of Step calls so far.
func (h *Host) Steps() int { return h.steps }

func checkAddr(L *lua.LState, n int) uint16 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xFFFF {
		L.ArgError(n, "address out of range")
	}
	return uint16(v)
}

func (h *Host) write(L *lua.LState) int {
	h.m.Write(checkAddr(L, 1), byte(L.CheckInt(2)))
	return 0
}

func (h *Host) read(L *lua.LState) int {
	L.Push(lua.LNumber(h.m.Read(checkAddr(L, 1))))
	return 1
}

func (h *Host) line(L *lua.LState) int {
	h.m.Scanline(L.CheckInt(1))
	return 0
}

func (h *Host) vblank(L *lua.LState) int {
	h.m.VBlank()
	return 0
}

func (h *Host) frame(L *lua.LState) int {
	n := L.OptInt(1, 1)
	for i := 0; i < n; i++ {
		h.m.RunFrame()
	}
	return 0
}

func (h *Host) vram(L *lua.LState) int {
	addr := int(checkAddr(L, 1))
	tbl := L.CheckTable(2)
	for i := 1; i <= tbl.Len(); i++ {
		v, ok := tbl.RawGetInt(i).(lua.LNumber)
		if !ok {
			L.ArgError(2, "bytes must be numbers")
		}
		h.m.Write(uint16(addr+i-1), byte(int(v)))
	}
	return 0
}

// palette writes a 15-bit color through the index/data register pairs.
func (h *Host) palette(L *lua.LState) int {
	i := L.CheckInt(1)
	rgb := L.CheckInt(2)
	if i < 0 || i > 63 {
		L.ArgError(1, "palette entry out of range")
	}
	sel, data := uint16(0xFF00|regs.BCPS), uint16(0xFF00|regs.BCPD)
	if i >= 32 {
		sel, data = 0xFF00|regs.OCPS, 0xFF00|regs.OCPD
		i -= 32
	}
	h.m.Write(sel, 0x80|byte(i*2))
	h.m.Write(data, byte(rgb))
	h.m.Write(data, byte(rgb>>8))
	return 0
}

func (h *Host) speed(L *lua.LState) int {
	if err := h.m.SetSpeed(L.CheckInt(1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (h *Host) audio(L *lua.LState) int {
	if L.GetTop() >= 2 {
		h.m.SetChannelEnable(L.CheckInt(1), L.CheckBool(2))
		return 0
	}
	h.m.SetSoundEnabled(L.CheckBool(1))
	return 0
}

func (h *Host) cheat(L *lua.LState) int {
	if err := h.m.AddCheat(L.CheckString(1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (h *Host) log(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	log.Printf("script: %s", strings.Join(parts, " "))
	return 0
}
