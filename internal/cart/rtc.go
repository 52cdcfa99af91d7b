package cart

const (
	rtcSeconds = iota
	rtcMinutes
	rtcHours
	rtcDayLow
	rtcDayHigh
)

const (
	rtcDayBit8 = 0x01
	rtcHalt    = 0x40
	rtcCarry   = 0x80
)

// Halted reports whether the clock is stopped by the game.
func (c *Cartridge) Halted() bool { return c.RTC[rtcDayHigh]&rtcHalt != 0 }

// Days returns the 9-bit day counter.
func (c *Cartridge) Days() int {
	return int(c.RTC[rtcDayLow]) | int(c.RTC[rtcDayHigh]&rtcDayBit8)<<8
}

// TickRTC advances the clock by every whole second elapsed since the last
// update. Leftover milliseconds carry into the next call, so ticking at
// 1000 then 2500 ends where a single tick at 2500 does. A halted clock
// does not accumulate elapsed time.
func (c *Cartridge) TickRTC(now int64) {
	if c.Halted() {
		c.lastRTC = now
		return
	}
	for now-c.lastRTC >= 1000 {
		c.lastRTC += 1000
		c.stepSecond()
	}
}

func (c *Cartridge) stepSecond() {
	r := &c.RTC
	if r[rtcSeconds]++; r[rtcSeconds] < 60 {
		return
	}
	r[rtcSeconds] = 0
	if r[rtcMinutes]++; r[rtcMinutes] < 60 {
		return
	}
	r[rtcMinutes] = 0
	if r[rtcHours]++; r[rtcHours] < 24 {
		return
	}
	r[rtcHours] = 0
	if r[rtcDayLow]++; r[rtcDayLow] != 0 {
		return
	}
	// day low wrapped: 255 -> 256 sets bit 8, 511 -> 0 clears it and sets carry
	if r[rtcDayHigh]&rtcDayBit8 != 0 {
		r[rtcDayHigh] = r[rtcDayHigh]&^rtcDayBit8 | rtcCarry
	} else {
		r[rtcDayHigh] |= rtcDayBit8
	}
}

// SkipRTC applies a bulk offline interval in one pass. Negative intervals
// and halted clocks leave the registers alone.
func (c *Cartridge) SkipRTC(seconds int64) {
	if seconds <= 0 || c.Halted() {
		return
	}
	r := &c.RTC
	sum := seconds + int64(r[rtcSeconds])
	r[rtcSeconds] = byte(sum % 60)
	if sum /= 60; sum == 0 {
		return
	}
	sum += int64(r[rtcMinutes])
	r[rtcMinutes] = byte(sum % 60)
	if sum /= 60; sum == 0 {
		return
	}
	sum += int64(r[rtcHours])
	r[rtcHours] = byte(sum % 24)
	if sum /= 24; sum == 0 {
		return
	}
	sum += int64(c.Days())
	r[rtcDayLow] = byte(sum)
	if sum > 511 {
		r[rtcDayHigh] |= rtcCarry
	}
	r[rtcDayHigh] = r[rtcDayHigh]&^rtcDayBit8 | byte(sum>>8)&rtcDayBit8
}
