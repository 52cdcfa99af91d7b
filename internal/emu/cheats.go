package emu

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
)

var ErrInvalidCheat = errors.New("invalid cheat code")

var (
	cheatPlain     = regexp.MustCompile(`^([0-9A-Fa-f]{4}):([0-9A-Fa-f]{2})$`)
	cheatCompare   = regexp.MustCompile(`^([0-9A-Fa-f]{4})\?([0-9A-Fa-f]{2}):([0-9A-Fa-f]{2})$`)
	cheatGameShark = regexp.MustCompile(`^01([0-9A-Fa-f]{2})([0-9A-Fa-f]{2})([0-9A-Fa-f]{2})$`)
	cheatDash      = regexp.MustCompile(`^00([0-9A-Fa-f]{4})-([0-9A-Fa-f]{2})$`)
)

// ParseCheat understands four notations:
//
//	AAAA:VV      read of AAAA returns VV
//	AAAA?CC:VV   same, only while the real byte is CC
//	01VVLLHH     GameShark, address HHLL
//	00AAAA-VV    read of AAAA returns VV
func ParseCheat(code string) (bus.Cheat, error) {
	code = strings.TrimSpace(code)
	if m := cheatPlain.FindStringSubmatch(code); m != nil {
		return bus.Cheat{Addr: hex16(m[1]), Value: hex8(m[2])}, nil
	}
	if m := cheatCompare.FindStringSubmatch(code); m != nil {
		return bus.Cheat{Addr: hex16(m[1]), Compare: hex8(m[2]), Value: hex8(m[3]), HasCompare: true}, nil
	}
	if m := cheatGameShark.FindStringSubmatch(code); m != nil {
		return bus.Cheat{Addr: hex16(m[3] + m[2]), Value: hex8(m[1])}, nil
	}
	if m := cheatDash.FindStringSubmatch(code); m != nil {
		return bus.Cheat{Addr: hex16(m[1]), Value: hex8(m[2])}, nil
	}
	return bus.Cheat{}, fmt.Errorf("%w: %q", ErrInvalidCheat, code)
}

// the regexps guarantee valid hex
func hex16(s string) uint16 {
	v, _ := strconv.ParseUint(s, 16, 16)
	return uint16(v)
}

func hex8(s string) byte {
	v, _ := strconv.ParseUint(s, 16, 8)
	return byte(v)
}
