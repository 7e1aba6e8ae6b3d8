package constant

import "time"

// Frame pacing
const (
	FrameUpdateInterval = 16 * time.Millisecond // ~60 FPS
)

// Keyboard Layout
const (
	KeyboardOctaves    = 3
	KeyboardBaseOctave = 4

	WhiteKeyWidth  = 6
	WhiteKeyHeight = 9
	BlackKeyWidth  = 3
	BlackKeyHeight = 5

	// KeyboardTop is the first screen row of the drawn keyboard
	KeyboardTop = 8
)
