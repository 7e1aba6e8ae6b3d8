package input

import "github.com/gdamore/tcell/v2"

// KeyEntry describes a key's intent without function pointers
type KeyEntry struct {
	IntentType IntentType
	Dir        int
}

// KeyTable maps keys to intents
// Letters not listed here become IntentNote and are resolved by the key mapper
type KeyTable struct {
	// Special keys (Ctrl+*, Tab, Backspace)
	SpecialKeys map[tcell.Key]KeyEntry

	// Printable non-letter bindings
	Runes map[rune]KeyEntry
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]KeyEntry{
			tcell.KeyCtrlQ:      {IntentQuit, 0},
			tcell.KeyCtrlC:      {IntentQuit, 0},
			tcell.KeyEscape:     {IntentQuit, 0},
			tcell.KeyEnter:      {IntentStart, 0},
			tcell.KeyTab:        {IntentToggleLowerLock, 0},
			tcell.KeyBackspace:  {IntentSilence, 0},
			tcell.KeyBackspace2: {IntentSilence, 0},
		},
		Runes: map[rune]KeyEntry{
			' ': {IntentStart, 0},
			'[': {IntentCycleInstrument, -1},
			']': {IntentCycleInstrument, 1},
			'-': {IntentCycleScale, -1},
			'=': {IntentCycleScale, 1},
		},
	}
}
