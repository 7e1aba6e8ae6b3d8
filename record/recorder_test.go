package record

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/lixenwraith/vi-piano/engine"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type noteEvent struct {
	tick uint32
	key  uint8
	on   bool
}

func readNotes(t *testing.T, data []byte) []noteEvent {
	t.Helper()
	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 1)
	assert.Equal(t, smf.MetricTicks(960), s.TimeFormat)

	var out []noteEvent
	var abs uint32
	for _, ev := range s.Tracks[0] {
		abs += ev.Delta
		msg := midi.Message(ev.Message)
		var ch, key, vel uint8
		switch {
		case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
			out = append(out, noteEvent{abs, key, true})
		case msg.GetNoteOff(&ch, &key, &vel):
			out = append(out, noteEvent{abs, key, false})
		}
	}
	return out
}

func TestRecorderWritesTimedNotes(t *testing.T) {
	clock := engine.NewManualScheduler(epoch)
	r := NewRecorder(clock, "test")

	clock.Advance(3 * time.Second) // Leading silence is dropped
	r.NoteOn("C5")
	clock.Advance(500 * time.Millisecond)
	r.NoteOff("C5")
	r.NoteOn("E5")
	clock.Advance(250 * time.Millisecond)
	r.NoteOff("E5")

	var buf bytes.Buffer
	_, err := r.WriteTo(&buf)
	require.NoError(t, err)

	assert.Equal(t, []noteEvent{
		{0, 72, true},
		{960, 72, false},
		{960, 76, true},
		{1440, 76, false},
	}, readNotes(t, buf.Bytes()))
}

func TestRecorderClosesHeldNotes(t *testing.T) {
	clock := engine.NewManualScheduler(epoch)
	r := NewRecorder(clock, "test")
	r.NoteOn("C4")
	clock.Advance(time.Second)
	r.NoteOn("G4")

	var buf bytes.Buffer
	_, err := r.WriteTo(&buf)
	require.NoError(t, err)

	notes := readNotes(t, buf.Bytes())
	require.Len(t, notes, 4)
	assert.Equal(t, noteEvent{1920, 60, false}, notes[2])
	assert.Equal(t, noteEvent{1920, 67, false}, notes[3])
	// Build does not mutate the live recording
	assert.Equal(t, 2, r.Len())
}

func TestRecorderRetriggerAndRelease(t *testing.T) {
	clock := engine.NewManualScheduler(epoch)
	r := NewRecorder(clock, "test")

	r.NoteOn("C5")
	r.NoteOn("C5")
	r.NoteOff("D5")
	r.NoteOn("A4")
	r.ReleaseAll()
	r.ReleaseAll()
	r.NoteOn("bogus")

	events := r.Events()
	require.Len(t, events, 6)
	assert.Equal(t, Event{Note: "C5", On: true}, events[0])
	assert.Equal(t, Event{Note: "C5", On: false}, events[1])
	assert.Equal(t, Event{Note: "C5", On: true}, events[2])
	assert.Equal(t, Event{Note: "A4", On: true}, events[3])
	// Ascending key order: A4 before C5
	assert.Equal(t, Event{Note: "A4", On: false}, events[4])
	assert.Equal(t, Event{Note: "C5", On: false}, events[5])
}

func TestRecorderEmpty(t *testing.T) {
	r := NewRecorder(nil, "empty")
	_, err := r.WriteTo(&bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmpty)
	assert.ErrorIs(t, r.Save(filepath.Join(t.TempDir(), "x.mid")), ErrEmpty)
}

func TestRecorderSave(t *testing.T) {
	clock := engine.NewManualScheduler(epoch)
	r := NewRecorder(clock, "session")
	r.NoteOn("A4")
	clock.Advance(100 * time.Millisecond)
	r.NoteOff("A4")

	path := filepath.Join(t.TempDir(), "take.mid")
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MThd", string(data[:4]))
	assert.Len(t, readNotes(t, data), 2)
}

func TestTicks(t *testing.T) {
	assert.EqualValues(t, 0, ticks(0))
	assert.EqualValues(t, 960, ticks(500*time.Millisecond))
	assert.EqualValues(t, 3840, ticks(2*time.Second))
}
