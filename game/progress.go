package game

import "github.com/lixenwraith/vi-piano/keymap"

// Outcome is the result of recording one play against the objective
type Outcome uint8

const (
	// Advanced means the play matched and more keys are expected
	Advanced Outcome = iota
	// Reset means the play mismatched and progress was cleared
	Reset
	// Completed means the play matched the last expected key
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Advanced:
		return "advanced"
	case Reset:
		return "reset"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Tracker holds an objective and the matched prefix of it
type Tracker struct {
	objective Objective
	progress  []keymap.ReferenceKey
}

// Load replaces the objective and clears progress in one step
func (t *Tracker) Load(obj Objective) {
	t.objective = obj.clone()
	t.progress = t.progress[:0]
}

// Clear drops both objective and progress
func (t *Tracker) Clear() {
	t.objective = nil
	t.progress = nil
}

// Record compares key with the next expected key
// ok=false stands for a note with no reference key, which always mismatches
func (t *Tracker) Record(key keymap.ReferenceKey, ok bool) Outcome {
	if len(t.progress) >= len(t.objective) {
		t.progress = t.progress[:0]
		return Reset
	}
	if !ok || key != t.objective[len(t.progress)] {
		t.progress = t.progress[:0]
		return Reset
	}
	t.progress = append(t.progress, key)
	if len(t.progress) == len(t.objective) {
		return Completed
	}
	return Advanced
}

// Objective returns a copy of the current objective
func (t *Tracker) Objective() Objective {
	return t.objective.clone()
}

// Progress returns a copy of the matched prefix, never nil
func (t *Tracker) Progress() []keymap.ReferenceKey {
	out := make([]keymap.ReferenceKey, len(t.progress))
	copy(out, t.progress)
	return out
}

// Len returns the number of matched keys
func (t *Tracker) Len() int {
	return len(t.progress)
}
