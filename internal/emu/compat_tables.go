package emu

import (
	"strings"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
)

// Indices into ppu.Schemes.
const (
	schemeGreen = iota
	schemeSepia
	schemeBlue
	schemeRed
	schemePastel
	schemeGrey
)

// compatTitleExact maps exact, normalized titles to a preferred scheme.
var compatTitleExact = map[string]int{
	"TETRIS":              schemeBlue,
	"TETRIS DX":           schemeBlue,
	"SUPER MARIO LAND":    schemeRed,
	"SUPER MARIO LAND 2":  schemeRed,
	"DR. MARIO":           schemePastel,
	"DONKEY KONG":         schemeSepia,
	"THE LEGEND OF ZELDA": schemeGreen,
	"ZELDA":               schemeGreen,
	"METROID II":          schemeRed,
	"KIRBY'S DREAM LAND":  schemePastel,
	"MEGA MAN":            schemeBlue,
	"MEGAMAN":             schemeBlue,
	"WARIO LAND":          schemeSepia,
	"POKEMON YELLOW":      schemePastel,
	"POKEMON RED":         schemePastel,
	"POKEMON BLUE":        schemePastel,
	"POCKET MONSTERS":     schemePastel,
}

type containsRule struct {
	substr string
	id     int
}

// compatTitleContains applies broader substring heuristics for families.
var compatTitleContains = []containsRule{
	{"TETRIS", schemeBlue},
	{"MARIO", schemeRed},
	{"ZELDA", schemeGreen},
	{"KIRBY", schemePastel},
	{"DONKEY KONG", schemeSepia},
	{"METROID", schemeRed},
	{"MEGA MAN", schemeBlue},
	{"MEGAMAN", schemeBlue},
	{"WARIO", schemeSepia},
	{"POKEMON", schemePastel},
	{"POCKET MONSTERS", schemePastel},
}

// schemeFromHeader picks a monochrome scheme for a game: a small title
// table first, then a stable choice from the header checksum for Nintendo
// titles, grey for everything else.
func schemeFromHeader(h *cart.Header) int {
	if h == nil {
		return schemeGrey
	}
	t := strings.ToUpper(strings.TrimSpace(h.Title))
	if id, ok := compatTitleExact[t]; ok {
		return id
	}
	for _, r := range compatTitleContains {
		if strings.Contains(t, r.substr) {
			return r.id
		}
	}
	nintendo := h.OldLicensee == 0x01
	if h.OldLicensee == 0x33 {
		nintendo = strings.ToUpper(h.NewLicensee) == "01"
	}
	if nintendo {
		return int(h.HeaderChecksum) % 6
	}
	return schemeGrey
}
