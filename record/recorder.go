// Package record captures played notes and writes them as a Standard MIDI File
package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/lixenwraith/vi-piano/engine"
	"github.com/lixenwraith/vi-piano/keymap"
)

const (
	// Ticks per quarter note
	resolution = 960
	// Fixed tempo the file is written at
	tempoBPM = 120.0
	// Velocity for every note; the keyboard has no touch sensitivity
	velocity = 100
	channel  = 0
)

// ErrEmpty is returned when saving a recording with no notes
var ErrEmpty = errors.New("recording is empty")

// Event is a captured note transition, offset from the first note
type Event struct {
	At   time.Duration
	Note keymap.Note
	On   bool
}

// Recorder stores timestamped note on/off events; it implements game.NoteSink
type Recorder struct {
	mu      sync.Mutex
	clock   engine.TimeProvider
	start   time.Time
	events  []Event
	holding map[keymap.Note]bool
	name    string
}

// NewRecorder creates an empty recorder; name becomes the track name
func NewRecorder(clock engine.TimeProvider, name string) *Recorder {
	if clock == nil {
		clock = engine.NewMonotonicTimeProvider()
	}
	return &Recorder{
		clock:   clock,
		holding: make(map[keymap.Note]bool),
		name:    name,
	}
}

func (r *Recorder) add(note keymap.Note, on bool) {
	now := r.clock.Now()
	if len(r.events) == 0 {
		r.start = now
	}
	r.events = append(r.events, Event{At: now.Sub(r.start), Note: note, On: on})
}

// NoteOn records a note start; notes outside the MIDI range are dropped
func (r *Recorder) NoteOn(note keymap.Note) {
	if note.MIDI() < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.holding[note] {
		// Retrigger: close the previous note first
		r.add(note, false)
	}
	r.holding[note] = true
	r.add(note, true)
}

// NoteOff records a note end, ignored when the note is not sounding
func (r *Recorder) NoteOff(note keymap.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.holding[note] {
		return
	}
	delete(r.holding, note)
	r.add(note, false)
}

// ReleaseAll ends every sounding note in ascending key order
func (r *Recorder) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
}

func (r *Recorder) releaseLocked() {
	for key := 0; key < 128 && len(r.holding) > 0; key++ {
		n, _ := keymap.NoteFromMIDI(key)
		if r.holding[n] {
			delete(r.holding, n)
			r.add(n, false)
		}
	}
}

// Events returns a copy of the captured events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of captured events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// ticks converts an offset to MIDI ticks at the fixed tempo
func ticks(d time.Duration) uint32 {
	quarter := time.Duration(float64(time.Minute) / tempoBPM)
	return uint32(int64(d) * resolution / int64(quarter))
}

// Build renders the captured events as a single-track SMF
// Notes still sounding are closed at the last event
func (r *Recorder) Build() (*smf.SMF, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) == 0 {
		return nil, ErrEmpty
	}
	events := make([]Event, len(r.events))
	copy(events, r.events)
	last := events[len(events)-1].At
	for key := 0; key < 128; key++ {
		n, _ := keymap.NoteFromMIDI(key)
		if r.holding[n] {
			events = append(events, Event{At: last, Note: n, On: false})
		}
	}

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(r.name))
	tr.Add(0, smf.MetaTempo(tempoBPM))

	var prev uint32
	for _, ev := range events {
		at := ticks(ev.At)
		key := uint8(ev.Note.MIDI())
		msg := midi.NoteOff(channel, key)
		if ev.On {
			msg = midi.NoteOn(channel, key, velocity)
		}
		tr.Add(at-prev, msg)
		prev = at
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)
	if err := s.Add(tr); err != nil {
		return nil, fmt.Errorf("add track: %w", err)
	}
	return s, nil
}

// WriteTo writes the recording as SMF
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	s, err := r.Build()
	if err != nil {
		return 0, err
	}
	return s.WriteTo(w)
}

// Save writes the recording to path
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}
	bw := bufio.NewWriter(f)
	if _, err := r.WriteTo(bw); err != nil {
		f.Close()
		return fmt.Errorf("write recording: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write recording: %w", err)
	}
	return f.Close()
}
