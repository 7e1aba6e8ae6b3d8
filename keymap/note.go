package keymap

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Note is a pitched sound identifier: letter, optional sharp, octave ("C5", "C#5")
type Note string

// ErrInvalidNote is returned when a string does not spell a note
var ErrInvalidNote = errors.New("invalid note")

// pitchClasses maps sharp spellings to semitone offsets from C
var pitchClasses = map[string]int{
	"C": 0, "C#": 1, "D": 2, "D#": 3, "E": 4, "F": 5,
	"F#": 6, "G": 7, "G#": 8, "A": 9, "A#": 10, "B": 11,
}

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteFrequencies contains precomputed frequencies for MIDI notes 0-127
// A4 (note 69) = 440Hz, equal temperament
var NoteFrequencies [128]float64

func init() {
	for i := range NoteFrequencies {
		NoteFrequencies[i] = 440.0 * math.Pow(2, (float64(i)-69.0)/12.0)
	}
}

// ParseNote validates a sharp-spelled note name
func ParseNote(s string) (Note, error) {
	n := Note(s)
	if _, _, err := n.split(); err != nil {
		return "", err
	}
	return n, nil
}

// NoteFromMIDI builds the sharp-spelled note for a MIDI key number
func NoteFromMIDI(key int) (Note, error) {
	if key < 0 || key > 127 {
		return "", fmt.Errorf("%w: midi key %d out of range", ErrInvalidNote, key)
	}
	return Note(sharpNames[key%12] + strconv.Itoa(key/12-1)), nil
}

func (n Note) split() (pitch string, octave int, err error) {
	s := string(n)
	if len(s) < 2 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}
	i := 1
	if s[1] == '#' {
		i = 2
	}
	pitch = s[:i]
	if _, ok := pitchClasses[pitch]; !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}
	octave, err = strconv.Atoi(s[i:])
	if err != nil || octave < -1 || octave > 9 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}
	return pitch, octave, nil
}

// Pitch returns the pitch class spelling without octave ("C#")
func (n Note) Pitch() string {
	p, _, err := n.split()
	if err != nil {
		return ""
	}
	return p
}

// Octave returns the octave number, -2 for malformed notes
func (n Note) Octave() int {
	_, o, err := n.split()
	if err != nil {
		return -2
	}
	return o
}

// IsSharp reports whether the note sits on a black key
func (n Note) IsSharp() bool {
	p := n.Pitch()
	return len(p) == 2
}

// MIDI returns the MIDI key number (C4 = 60), -1 when malformed or out of range
func (n Note) MIDI() int {
	p, o, err := n.split()
	if err != nil {
		return -1
	}
	key := (o+1)*12 + pitchClasses[p]
	if key < 0 || key > 127 {
		return -1
	}
	return key
}

// Frequency returns the equal-tempered frequency in Hz, 0 when malformed
func (n Note) Frequency() float64 {
	key := n.MIDI()
	if key < 0 {
		return 0
	}
	return NoteFrequencies[key]
}
