package render

import "github.com/gdamore/tcell/v2"

// Palette
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbText       = tcell.NewRGBColor(192, 202, 245) // Default foreground
	RgbDim        = tcell.NewRGBColor(110, 115, 141) // Help and footer text
	RgbTitle      = tcell.NewRGBColor(122, 162, 247) // Blue title

	RgbWhiteKey      = tcell.NewRGBColor(235, 235, 228) // Ivory
	RgbWhiteKeyLabel = tcell.NewRGBColor(60, 60, 60)    // Dark gray on ivory
	RgbBlackKey      = tcell.NewRGBColor(20, 20, 24)    // Ebony
	RgbBlackKeyLabel = tcell.NewRGBColor(200, 200, 200) // Light gray on ebony
	RgbKeySeparator  = tcell.NewRGBColor(150, 150, 150) // Gap between white keys

	RgbKeyHeld       = tcell.NewRGBColor(255, 165, 0)  // Orange while sounding
	RgbScaleWhiteKey = tcell.NewRGBColor(190, 230, 190) // Pale green scale tint
	RgbScaleBlackKey = tcell.NewRGBColor(30, 90, 50)    // Deep green scale tint

	RgbProgressDone = tcell.NewRGBColor(50, 255, 50)  // Bright green matched keys
	RgbProgressNext = tcell.NewRGBColor(255, 255, 0)  // Yellow next key
	RgbOverlayWin   = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbOverlayLose  = tcell.NewRGBColor(255, 80, 80)   // Normal red
	RgbLockOn       = tcell.NewRGBColor(255, 192, 203) // Pink lock badge
)

// TimerColor returns the countdown bar color for the fraction of time left
// 1.0 is green, 0.5 yellow, 0.0 red
func TimerColor(fraction float64) tcell.Color {
	if fraction <= 0.0 {
		return tcell.NewRGBColor(200, 50, 50)
	}
	if fraction > 1.0 {
		fraction = 1.0
	}

	if fraction < 0.5 { // Red to Yellow
		t := fraction / 0.5
		r := int32(200 + (255-200)*t)
		g := int32(50 + (215-50)*t)
		return tcell.NewRGBColor(r, g, 0)
	}
	// Yellow to Green
	t := (fraction - 0.5) / 0.5
	r := int32(255 - (255-50)*t)
	g := int32(215 + (200-215)*t)
	b := int32(0 + 50*t)
	return tcell.NewRGBColor(r, g, b)
}
