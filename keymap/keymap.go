// Package keymap resolves physical keys and modifier state to piano notes
package keymap

import "strings"

// ReferenceKey is one of the eight abstract symbols an objective is built from
type ReferenceKey string

const (
	KeyA ReferenceKey = "A"
	KeyS ReferenceKey = "S"
	KeyD ReferenceKey = "D"
	KeyF ReferenceKey = "F"
	KeyG ReferenceKey = "G"
	KeyH ReferenceKey = "H"
	KeyJ ReferenceKey = "J"
	KeyK ReferenceKey = "K"
)

var referenceKeys = [...]ReferenceKey{KeyA, KeyS, KeyD, KeyF, KeyG, KeyH, KeyJ, KeyK}

// ReferenceKeys returns the ordered reference key set
func ReferenceKeys() []ReferenceKey {
	out := make([]ReferenceKey, len(referenceKeys))
	copy(out, referenceKeys[:])
	return out
}

// IsReferenceKey reports whether k belongs to the reference key set
func IsReferenceKey(k ReferenceKey) bool {
	for _, r := range referenceKeys {
		if r == k {
			return true
		}
	}
	return false
}

// RegisterMode selects which octave table is active
type RegisterMode uint8

const (
	Normal RegisterMode = iota
	LowerOctave
	UpperOctave
	registerModeCount
)

func (m RegisterMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case LowerOctave:
		return "lower"
	case UpperOctave:
		return "upper"
	default:
		return "unknown"
	}
}

// Modifiers is the modifier state sampled with each input event
type Modifiers struct {
	CapsLock bool
	Shift    bool
}

// ResolveRegister derives the register from modifiers, Caps-Lock wins over Shift
func ResolveRegister(mods Modifiers) RegisterMode {
	if mods.CapsLock {
		return LowerOctave
	}
	if mods.Shift {
		return UpperOctave
	}
	return Normal
}

// Authored tables, one octave apart between registers
var (
	whiteTables = [registerModeCount]map[string]Note{
		Normal: {
			"A": "C5", "S": "D5", "D": "E5", "F": "F5",
			"G": "G5", "H": "A5", "J": "B5", "K": "C6",
		},
		LowerOctave: {
			"A": "C4", "S": "D4", "D": "E4", "F": "F4",
			"G": "G4", "H": "A4", "J": "B4", "K": "C5",
		},
		UpperOctave: {
			"A": "C6", "S": "D6", "D": "E6", "F": "F6",
			"G": "G6", "H": "A6", "J": "B6", "K": "C7",
		},
	}

	blackTables = [registerModeCount]map[string]Note{
		Normal: {
			"W": "C#5", "E": "D#5", "T": "F#5", "Y": "G#5", "U": "A#5",
		},
		LowerOctave: {
			"W": "C#4", "E": "D#4", "T": "F#4", "Y": "G#4", "U": "A#4",
		},
		UpperOctave: {
			"W": "C#6", "E": "D#6", "T": "F#6", "Y": "G#6", "U": "A#6",
		},
	}

	// reverseWhite[mode][note] is the white key producing note in that register
	reverseWhite [registerModeCount]map[Note]ReferenceKey
)

func init() {
	for mode, table := range whiteTables {
		rev := make(map[Note]ReferenceKey, len(table))
		for sym, note := range table {
			rev[note] = ReferenceKey(sym)
		}
		reverseWhite[mode] = rev
	}
}

// normalizeSymbol upper-cases single letter input so 'a' and 'A' share a binding
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(symbol)
}

// Lookup returns the note bound to a physical key in the given register
// The second result is false for keys outside the thirteen bound keys
func Lookup(symbol string, mode RegisterMode) (Note, bool) {
	if mode >= registerModeCount {
		return "", false
	}
	sym := normalizeSymbol(symbol)
	if n, ok := whiteTables[mode][sym]; ok {
		return n, true
	}
	if n, ok := blackTables[mode][sym]; ok {
		return n, true
	}
	return "", false
}

// IsBound reports whether symbol is one of the thirteen physical piano keys
func IsBound(symbol string) bool {
	_, ok := Lookup(symbol, Normal)
	return ok
}

// Reverse maps a note produced in mode back to its white key letter, which is
// the reference key the same physical key produces in the Normal register
// Black key notes have no reference key
func Reverse(note Note, mode RegisterMode) (ReferenceKey, bool) {
	if mode >= registerModeCount {
		return "", false
	}
	k, ok := reverseWhite[mode][note]
	return k, ok
}

// BoundNotes returns every note reachable from the keyboard in the given register
func BoundNotes(mode RegisterMode) []Note {
	if mode >= registerModeCount {
		return nil
	}
	out := make([]Note, 0, len(whiteTables[mode])+len(blackTables[mode]))
	for _, sym := range [...]string{"A", "W", "S", "E", "D", "F", "T", "G", "Y", "H", "U", "J", "K"} {
		if n, ok := whiteTables[mode][sym]; ok {
			out = append(out, n)
			continue
		}
		out = append(out, blackTables[mode][sym])
	}
	return out
}
