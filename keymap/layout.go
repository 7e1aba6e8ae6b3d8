package keymap

import "strconv"

// PianoKey is one drawn key of the on-screen keyboard
type PianoKey struct {
	Note  Note
	Black bool
	// Slot is the white key index for white keys, and the white key to the left
	// for black keys
	Slot int
}

var (
	whiteNames = [7]string{"C", "D", "E", "F", "G", "A", "B"}
	// blackAfter[i] is the sharp following whiteNames[i], empty where no black key exists
	blackAfter = [7]string{"C#", "D#", "", "F#", "G#", "A#", ""}
)

// Keyboard lays out octaves of keys starting at baseOctave
// White keys come first in slot order, black keys follow
func Keyboard(octaves, baseOctave int) []PianoKey {
	if octaves <= 0 {
		return nil
	}
	keys := make([]PianoKey, 0, octaves*12)
	for o := 0; o < octaves; o++ {
		for i, name := range whiteNames {
			keys = append(keys, PianoKey{
				Note: Note(name + strconv.Itoa(baseOctave+o)),
				Slot: o*len(whiteNames) + i,
			})
		}
	}
	for o := 0; o < octaves; o++ {
		for i, name := range blackAfter {
			if name == "" {
				continue
			}
			keys = append(keys, PianoKey{
				Note:  Note(name + strconv.Itoa(baseOctave+o)),
				Black: true,
				Slot:  o*len(whiteNames) + i,
			})
		}
	}
	return keys
}
