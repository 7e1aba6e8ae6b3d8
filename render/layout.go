package render

import (
	"github.com/lixenwraith/vi-piano/constant"
	"github.com/lixenwraith/vi-piano/keymap"
)

const (
	minWhiteWidth = 3
	// Rows drawn under the keyboard: overlay, help, footer
	footerRows = 5
)

// KeyRect is a drawn key and its screen rectangle
type KeyRect struct {
	Key        keymap.PianoKey
	X, Y, W, H int
}

// Contains reports whether the cell lies inside the rectangle
func (k KeyRect) Contains(x, y int) bool {
	return x >= k.X && x < k.X+k.W && y >= k.Y && y < k.Y+k.H
}

// Layout places the keyboard for a screen size
type Layout struct {
	Width, Height int
	WhiteWidth    int
	Left          int
	Top           int
	Whites        []KeyRect
	Blacks        []KeyRect
}

// NewLayout centers the keyboard horizontally, shrinking keys on narrow screens
func NewLayout(width, height int) *Layout {
	keys := keymap.Keyboard(constant.KeyboardOctaves, constant.KeyboardBaseOctave)
	whiteCount := constant.KeyboardOctaves * 7

	ww := (width - 2) / whiteCount
	ww = max(minWhiteWidth, min(constant.WhiteKeyWidth, ww))
	bw := max(1, ww*constant.BlackKeyWidth/constant.WhiteKeyWidth)

	l := &Layout{
		Width:      width,
		Height:     height,
		WhiteWidth: ww,
		Left:       max(0, (width-whiteCount*ww)/2),
		Top:        constant.KeyboardTop,
	}
	for _, k := range keys {
		if !k.Black {
			l.Whites = append(l.Whites, KeyRect{
				Key: k,
				X:   l.Left + k.Slot*ww,
				Y:   l.Top,
				W:   ww,
				H:   constant.WhiteKeyHeight,
			})
			continue
		}
		// Black keys straddle the boundary after their slot
		boundary := l.Left + (k.Slot+1)*ww
		l.Blacks = append(l.Blacks, KeyRect{
			Key: k,
			X:   boundary - (bw+1)/2,
			Y:   l.Top,
			W:   bw,
			H:   constant.BlackKeyHeight,
		})
	}
	return l
}

// Fits reports whether the screen holds the whole keyboard and its footer
func (l *Layout) Fits() bool {
	whiteCount := constant.KeyboardOctaves * 7
	return l.Width >= whiteCount*minWhiteWidth &&
		l.Height >= l.Top+constant.WhiteKeyHeight+footerRows
}

// Bottom returns the first row below the keyboard
func (l *Layout) Bottom() int {
	return l.Top + constant.WhiteKeyHeight
}

// HitTest maps a cell to the key drawn there
// Black keys sit on top of white keys and are tested first
func (l *Layout) HitTest(x, y int) (keymap.Note, bool) {
	for _, k := range l.Blacks {
		if k.Contains(x, y) {
			return k.Key.Note, true
		}
	}
	for _, k := range l.Whites {
		if k.Contains(x, y) {
			return k.Key.Note, true
		}
	}
	return "", false
}
