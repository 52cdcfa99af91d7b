package ui

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/romfile"
)

const menuLines = 14 // px per menu row

func (a *App) updateMenu() {
	switch a.menuMode {
	case "slot":
		a.updateSlotMenu()
	case "palette":
		a.updatePaletteMenu()
	default:
		a.updateMainMenu()
	}
}

func (a *App) drawMenu(screen *ebiten.Image) {
	switch a.menuMode {
	case "slot":
		a.drawSlotMenu(screen)
	case "palette":
		a.drawPaletteMenu(screen)
	default:
		a.drawMainMenu(screen)
	}
}

func (a *App) mainMenuItems() []string {
	return []string{
		fmt.Sprintf("Save state (slot %d)", a.currentSlot+1),
		fmt.Sprintf("Load state (slot %d)", a.currentSlot+1),
		"Select slot",
		"Palette",
		fmt.Sprintf("Audio: %s", map[bool]string{true: "Stereo", false: "Mono"}[a.m.Synthesizer().Stereo()]),
		"Close",
	}
}

func (a *App) updateMainMenu() {
	last := len(a.mainMenuItems()) - 1
	a.moveCursor(last)
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			a.saveSlot(a.currentSlot)
		case 1:
			a.loadSlot(a.currentSlot)
		case 2:
			a.menuMode = "slot"
			a.menuIdx = a.currentSlot
		case 3:
			a.menuMode = "palette"
			a.menuIdx = 0
		case 4:
			s := a.m.Synthesizer()
			s.SetStereo(!s.Stereo())
		case 5:
			a.showMenu = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) updateSlotMenu() {
	a.moveCursor(a.cfg.Slots - 1)
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.currentSlot = a.menuIdx
		a.toast(fmt.Sprintf("Slot set to %d", a.currentSlot+1))
		a.menuMode = "main"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

func (a *App) updatePaletteMenu() {
	a.moveCursor(len(ppu.SchemeNames))
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		name := "auto"
		if a.menuIdx > 0 {
			name = ppu.SchemeNames[a.menuIdx-1]
		}
		if err := a.m.SetPalette(name); err != nil {
			a.toast("Palette: " + err.Error())
		} else {
			a.toast("Palette " + name)
		}
		a.menuMode = "main"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

func (a *App) moveCursor(last int) {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < last {
		a.menuIdx++
	}
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	drawList(screen, "Menu:", a.mainMenuItems(), a.menuIdx)
	ebitenutil.DebugPrintAt(screen, "F5: Save  F9: Load  Esc: Back", 10, 10+8*menuLines)
}

func (a *App) drawSlotMenu(screen *ebiten.Image) {
	items := make([]string, a.cfg.Slots)
	for i := range items {
		state := "[empty]"
		if _, err := os.Stat(a.statePath(i)); err == nil {
			state = ""
		}
		items[i] = fmt.Sprintf("%d %s", i+1, state)
	}
	drawList(screen, "Select slot:", items, a.menuIdx)
}

func (a *App) drawPaletteMenu(screen *ebiten.Image) {
	items := append([]string{"auto"}, ppu.SchemeNames[:]...)
	drawList(screen, "Palette:", items, a.menuIdx)
}

func drawList(screen *ebiten.Image, title string, items []string, sel int) {
	ebitenutil.DebugPrintAt(screen, title, 10, 10)
	for i, s := range items {
		prefix := "  "
		if i == sel {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+(i+1)*menuLines)
	}
}

// statePath places slot files next to the ROM, or in the working
// directory when the ROM came from elsewhere.
func (a *App) statePath(slot int) string {
	if p := a.m.ROMPath(); p != "" {
		return romfile.StatePath(p, slot+1)
	}
	return fmt.Sprintf("slot%d.state", slot+1)
}

func (a *App) saveSlot(slot int) {
	if err := a.m.SaveStateToFile(a.statePath(slot)); err != nil {
		a.toast("Save failed: " + err.Error())
		return
	}
	a.toast(fmt.Sprintf("Saved slot %d", slot+1))
}

func (a *App) loadSlot(slot int) {
	path := a.statePath(slot)
	if _, err := os.Stat(path); err != nil {
		a.toast("Slot is empty")
		return
	}
	if err := a.m.LoadStateFromFile(path); err != nil {
		a.toast("Load failed: " + err.Error())
		return
	}
	a.m.ResetClock()
	a.toast(fmt.Sprintf("Loaded slot %d", slot+1))
}
