package input

import "github.com/lixenwraith/vi-piano/keymap"

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit   // Esc, Ctrl+C, Ctrl+Q
	IntentResize // Terminal resize event
	IntentBlur   // Terminal lost focus

	// Game
	IntentStart // Space, Enter
	IntentNote  // Letter key, Symbol and Mods set

	// Sound and display
	IntentCycleInstrument // [ ]
	IntentCycleScale      // - =
	IntentToggleLowerLock // Tab, stands in for Caps-Lock
	IntentSilence         // Backspace

	// Mouse
	IntentMouseDown // Left press, X/Y set
	IntentMouseUp   // Left release
)

// Intent represents a parsed semantic action
// Pure data struct with no function pointers or engine dependencies
type Intent struct {
	Type   IntentType
	Symbol string           // Upper-cased key symbol for IntentNote
	Mods   keymap.Modifiers // Register modifiers for IntentNote
	Dir    int              // +1/-1 for cycle intents
	X, Y   int              // Cell coordinates for mouse intents
}
