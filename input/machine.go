// Package input turns terminal events into semantic intents
package input

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-piano/keymap"
)

// Machine parses tcell events into Intents
// Terminals report neither Caps-Lock state nor key release, so the machine
// carries an emulated lower-octave lock toggled by its own key
type Machine struct {
	keyTable  *KeyTable
	lowerLock bool
	mouseDown bool
}

// NewMachine creates a new input machine
func NewMachine() *Machine {
	return &Machine{keyTable: DefaultKeyTable()}
}

// LowerLock reports whether the emulated Caps-Lock is on
func (m *Machine) LowerLock() bool {
	return m.lowerLock
}

// Reset clears pending mouse state; the lock survives
func (m *Machine) Reset() {
	m.mouseDown = false
}

// Process parses a terminal event and returns an Intent
// Returns nil for events with no meaning to the game
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch e := ev.(type) {
	case *tcell.EventResize:
		return &Intent{Type: IntentResize}
	case *tcell.EventKey:
		return m.processKey(e)
	case *tcell.EventMouse:
		return m.processMouse(e)
	case *tcell.EventFocus:
		if !e.Focused {
			m.mouseDown = false
			return &Intent{Type: IntentBlur}
		}
	}
	return nil
}

func (m *Machine) processKey(ev *tcell.EventKey) *Intent {
	if ev.Key() != tcell.KeyRune {
		entry, ok := m.keyTable.SpecialKeys[ev.Key()]
		if !ok {
			return nil
		}
		return m.fromEntry(entry)
	}

	r := ev.Rune()
	if entry, ok := m.keyTable.Runes[r]; ok {
		return m.fromEntry(entry)
	}
	if !unicode.IsLetter(r) {
		return nil
	}
	return &Intent{
		Type:   IntentNote,
		Symbol: strings.ToUpper(string(r)),
		Mods: keymap.Modifiers{
			CapsLock: m.lowerLock,
			// Uppercase letter means Shift was held
			Shift: unicode.IsUpper(r) || ev.Modifiers()&tcell.ModShift != 0,
		},
	}
}

func (m *Machine) fromEntry(entry KeyEntry) *Intent {
	if entry.IntentType == IntentToggleLowerLock {
		m.lowerLock = !m.lowerLock
	}
	return &Intent{Type: entry.IntentType, Dir: entry.Dir}
}

func (m *Machine) processMouse(ev *tcell.EventMouse) *Intent {
	x, y := ev.Position()
	pressed := ev.Buttons()&tcell.Button1 != 0
	switch {
	case pressed && !m.mouseDown:
		m.mouseDown = true
		return &Intent{Type: IntentMouseDown, X: x, Y: y}
	case !pressed && m.mouseDown:
		m.mouseDown = false
		return &Intent{Type: IntentMouseUp, X: x, Y: y}
	}
	// Drag and wheel are ignored
	return nil
}
