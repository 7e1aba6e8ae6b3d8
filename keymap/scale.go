package keymap

// Scale is a named set of pitch classes used for keyboard highlighting
type Scale struct {
	Name    string
	Pitches []string
}

// semitone offsets for every spelling the scale table uses
var spellings = map[string]int{
	"Cb": 11, "C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3, "E": 4, "E#": 5,
	"Fb": 4, "F": 5, "F#": 6, "Gb": 6, "G": 7, "G#": 8, "Ab": 8, "A": 9, "A#": 10,
	"Bb": 10, "B": 11, "B#": 0,
}

var scales = []Scale{
	{"None", nil},
	{"A Major", []string{"A", "B", "C#", "D", "E", "F#", "G#"}},
	{"Bb Major", []string{"Bb", "C", "D", "Eb", "F", "G", "A"}},
	{"B Major", []string{"B", "C#", "D#", "E", "F#", "G#", "A#"}},
	{"C Major", []string{"C", "D", "E", "F", "G", "A", "B"}},
	{"C# Major", []string{"C#", "D#", "E#", "F#", "G#", "A#", "B#"}},
	{"D Major", []string{"D", "E", "F#", "G", "A", "B", "C#"}},
	{"Eb Major", []string{"Eb", "F", "G", "Ab", "Bb", "C", "D"}},
	{"E Major", []string{"E", "F#", "G#", "A", "B", "C#", "D#"}},
	{"F Major", []string{"F", "G", "A", "Bb", "C", "D", "E"}},
	{"F# Major", []string{"F#", "G#", "A#", "B", "C#", "D#", "E#"}},
	{"G Major", []string{"G", "A", "B", "C", "D", "E", "F#"}},
	{"Ab Major", []string{"Ab", "Bb", "C", "Db", "Eb", "F", "G"}},
	{"A Minor", []string{"A", "B", "C", "D", "E", "F", "G"}},
	{"Bb Minor", []string{"Bb", "C", "Db", "Eb", "F", "Gb", "Ab"}},
	{"B Minor", []string{"B", "C#", "D", "E", "F#", "G", "A"}},
	{"C Minor", []string{"C", "D", "Eb", "F", "G", "Ab", "Bb"}},
	{"C# Minor", []string{"C#", "D#", "E", "F#", "G#", "A", "B"}},
	{"D Minor", []string{"D", "E", "F", "G", "A", "Bb", "C"}},
	{"Eb Minor", []string{"Eb", "F", "Gb", "Ab", "Bb", "Cb", "Db"}},
	{"E Minor", []string{"E", "F#", "G", "A", "B", "C", "D"}},
	{"F Minor", []string{"F", "G", "Ab", "Bb", "C", "Db", "Eb"}},
	{"F# Minor", []string{"F#", "G#", "A", "B", "C#", "D", "E"}},
	{"G Minor", []string{"G", "A", "Bb", "C", "D", "Eb", "F"}},
	{"Ab Minor", []string{"Ab", "Bb", "Cb", "Db", "Eb", "Fb", "Gb"}},
}

// Scales returns the selectable scales, "None" first
func Scales() []Scale {
	out := make([]Scale, len(scales))
	copy(out, scales)
	return out
}

// Contains reports whether the note's pitch class is in the scale
// Enharmonic spellings (Bb, E#, Cb) match the sharp keys drawn on the keyboard
func (s Scale) Contains(note Note) bool {
	key := note.MIDI()
	if key < 0 {
		return false
	}
	pc := key % 12
	for _, p := range s.Pitches {
		if semis, ok := spellings[p]; ok && semis == pc {
			return true
		}
	}
	return false
}
