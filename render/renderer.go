// Package render draws the piano and the minigame on a tcell screen
package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/vi-piano/constant"
	"github.com/lixenwraith/vi-piano/game"
	"github.com/lixenwraith/vi-piano/keymap"
)

const (
	titleText   = "vi-piano"
	startText   = "Press SPACE to start"
	explainText = "Play the objective with A S D F G H J K before the time runs out"
	winText     = "Congratulations! Level complete!"
	loseText    = "Time's up! Play again in %d"
	helpText    = "A-K white  W E T Y U black  Shift up  Tab lower  [ ] instrument  - = scale  Bksp silence  Esc quit"
	lockText    = "Terminals cannot read Caps Lock: Tab toggles the lower octave, Caps Lock plays as Shift"
	footerText  = "vi-piano for terminals, after the original by UltraSFX"
	timerBar    = 30
)

// Renderer draws a Board onto a tcell screen
type Renderer struct {
	screen tcell.Screen
	layout *Layout
}

// NewRenderer creates a renderer sized to the screen
func NewRenderer(screen tcell.Screen) *Renderer {
	r := &Renderer{screen: screen}
	r.Resize()
	return r
}

// Resize recomputes the layout from the current screen size
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.layout = NewLayout(w, h)
}

// Layout returns the active layout for mouse hit-testing
func (r *Renderer) Layout() *Layout {
	return r.layout
}

// RenderFrame draws the whole frame and shows it
func (r *Renderer) RenderFrame(b *Board) {
	defaultStyle := tcell.StyleDefault.Background(RgbBackground).Foreground(RgbText)
	r.screen.SetStyle(defaultStyle)
	r.screen.Clear()

	if !r.layout.Fits() {
		r.drawTooSmall(defaultStyle)
		r.screen.Show()
		return
	}

	r.drawHeader(b, defaultStyle)
	r.drawObjective(b, defaultStyle)
	r.drawTimer(b, defaultStyle)
	r.drawSettings(b, defaultStyle)
	r.drawKeyboard(b)
	r.drawOverlay(b, defaultStyle)
	r.drawFooter(defaultStyle)

	r.screen.Show()
}

func (r *Renderer) drawTooSmall(style tcell.Style) {
	need := fmt.Sprintf("Terminal too small, need %dx%d",
		constant.KeyboardOctaves*7*minWhiteWidth, r.layout.Top+constant.WhiteKeyHeight+footerRows)
	r.drawCentered(r.layout.Height/2, need, style)
}

func (r *Renderer) drawHeader(b *Board, style tcell.Style) {
	r.drawText(1, 0, titleText, style.Foreground(RgbTitle).Bold(true))
	level := fmt.Sprintf("Level: %d", b.Level)
	r.drawText(r.layout.Width-runewidth.StringWidth(level)-1, 0, level, style.Bold(true))
}

// drawObjective writes the target sequence, matched prefix in green and the next key in yellow
func (r *Renderer) drawObjective(b *Board, style tcell.Style) {
	const label = "Objective: "
	if len(b.Objective) == 0 {
		r.drawCentered(2, explainText, style.Foreground(RgbDim))
		return
	}

	parts := b.Objective.Strings()
	total := runewidth.StringWidth(label) + runewidth.StringWidth(strings.Join(parts, " - "))
	x := max(0, (r.layout.Width-total)/2)
	x = r.drawText(x, 2, label, style)

	for i, p := range parts {
		s := style
		switch {
		case i < len(b.Progress):
			s = style.Foreground(RgbProgressDone).Bold(true)
		case i == len(b.Progress) && b.State == game.StateAwaitingInput:
			s = style.Foreground(RgbProgressNext).Underline(true)
		}
		if i > 0 {
			x = r.drawText(x, 2, " - ", style.Foreground(RgbDim))
		}
		x = r.drawText(x, 2, p, s)
	}
}

func (r *Renderer) drawTimer(b *Board, style tcell.Style) {
	fraction := 0.0
	if b.Budget > 0 {
		fraction = float64(b.Remaining) / float64(b.Budget)
	}
	filled := int(fraction*timerBar + 0.5)
	filled = max(0, min(timerBar, filled))

	text := fmt.Sprintf("Time: %.1f ", b.Remaining.Seconds())
	width := runewidth.StringWidth(text) + timerBar
	x := max(0, (r.layout.Width-width)/2)
	x = r.drawText(x, 3, text, style)

	barStyle := style.Foreground(TimerColor(fraction))
	emptyStyle := style.Foreground(RgbDim)
	for i := 0; i < timerBar; i++ {
		if i < filled {
			r.screen.SetContent(x+i, 3, '█', nil, barStyle)
		} else {
			r.screen.SetContent(x+i, 3, '░', nil, emptyStyle)
		}
	}
}

func (r *Renderer) drawSettings(b *Board, style tcell.Style) {
	audio := ""
	if !b.Audio {
		audio = "   Audio: off"
	}
	line := fmt.Sprintf("Instrument: %s   Scale: %s%s", b.Instrument, b.Scale.Name, audio)
	r.drawText(1, 5, line, style)

	if b.LowerLock {
		badge := " LOWER "
		r.drawText(r.layout.Width-runewidth.StringWidth(badge)-1, 5, badge,
			style.Background(RgbLockOn).Foreground(RgbBlackKey).Bold(true))
	}
}

func (r *Renderer) drawKeyboard(b *Board) {
	for _, k := range r.layout.Whites {
		bg := RgbWhiteKey
		switch {
		case b.Held(k.Key.Note):
			bg = RgbKeyHeld
		case b.Scale.Contains(k.Key.Note):
			bg = RgbScaleWhiteKey
		}
		keyStyle := tcell.StyleDefault.Background(bg).Foreground(RgbWhiteKeyLabel)
		sepStyle := tcell.StyleDefault.Background(bg).Foreground(RgbKeySeparator)
		for y := k.Y; y < k.Y+k.H; y++ {
			for x := k.X; x < k.X+k.W-1; x++ {
				r.screen.SetContent(x, y, ' ', nil, keyStyle)
			}
			r.screen.SetContent(k.X+k.W-1, y, '│', nil, sepStyle)
		}
		lines := keyLabels(k.Key.Note)
		for i, line := range lines {
			y := k.Y + k.H - len(lines) - 1 + i
			r.drawInBox(k.X, k.W-1, y, line, keyStyle)
		}
	}

	for _, k := range r.layout.Blacks {
		bg := RgbBlackKey
		switch {
		case b.Held(k.Key.Note):
			bg = RgbKeyHeld
		case b.Scale.Contains(k.Key.Note):
			bg = RgbScaleBlackKey
		}
		keyStyle := tcell.StyleDefault.Background(bg).Foreground(RgbBlackKeyLabel)
		for y := k.Y; y < k.Y+k.H; y++ {
			for x := k.X; x < k.X+k.W; x++ {
				r.screen.SetContent(x, y, ' ', nil, keyStyle)
			}
		}
		// Black keys only have room for the symbol
		if lines := keyLabels(k.Key.Note); len(lines) > 0 {
			r.drawInBox(k.X, k.W, k.Y+k.H-2, lines[0], keyStyle)
		}
	}
}

func (r *Renderer) drawOverlay(b *Board, style tcell.Style) {
	y := r.layout.Bottom() + 1
	switch b.State {
	case game.StateNotStarted:
		r.drawCentered(y, startText, style.Bold(true))
	case game.StateLevelComplete:
		r.drawCentered(y, winText, style.Foreground(RgbOverlayWin).Bold(true))
	case game.StateTimedOut:
		secs := int(b.Cooldown.Seconds() + 0.5)
		r.drawCentered(y, fmt.Sprintf(loseText, secs), style.Foreground(RgbOverlayLose).Bold(true))
	}
}

func (r *Renderer) drawFooter(style tcell.Style) {
	r.drawCentered(r.layout.Bottom()+3, helpText, style.Foreground(RgbDim))
	if y := r.layout.Bottom() + 4; y < r.layout.Height-1 {
		r.drawCentered(y, lockText, style.Foreground(RgbDim))
	}
	r.drawCentered(r.layout.Height-1, footerText, style.Foreground(RgbDim).Italic(true))
}

// keyLabels swaps the Caps modifier for the Tab lock that stands in for it
func keyLabels(note keymap.Note) []string {
	lines := keymap.Labels(note)
	for i, line := range lines {
		if line == "Caps" {
			lines[i] = "Tab"
		}
	}
	return lines
}

// drawText writes s at (x, y) clipped to the screen and returns the next column
func (r *Renderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		if x >= r.layout.Width {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
	return x
}

// drawCentered truncates s to the screen width and centers it on row y
func (r *Renderer) drawCentered(y int, s string, style tcell.Style) {
	s = runewidth.Truncate(s, r.layout.Width, "…")
	x := (r.layout.Width - runewidth.StringWidth(s)) / 2
	r.drawText(max(0, x), y, s, style)
}

// drawInBox centers s inside a span of width cells starting at x
func (r *Renderer) drawInBox(x, width, y int, s string, style tcell.Style) {
	s = runewidth.Truncate(s, width, "")
	r.drawText(x+(width-runewidth.StringWidth(s))/2, y, s, style)
}
