package game

import "github.com/lixenwraith/vi-piano/keymap"

// NoteSink consumes sounding notes (synthesizer, recorder)
type NoteSink interface {
	NoteOn(note keymap.Note)
	NoteOff(note keymap.Note)
	ReleaseAll()
}

// NopSink discards notes
type NopSink struct{}

func (NopSink) NoteOn(keymap.Note) {}
func (NopSink) NoteOff(keymap.Note) {}
func (NopSink) ReleaseAll() {}

// Sinks fans notes out in order
type Sinks []NoteSink

func (s Sinks) NoteOn(note keymap.Note) {
	for _, sink := range s {
		sink.NoteOn(note)
	}
}

func (s Sinks) NoteOff(note keymap.Note) {
	for _, sink := range s {
		sink.NoteOff(note)
	}
}

func (s Sinks) ReleaseAll() {
	for _, sink := range s {
		sink.ReleaseAll()
	}
}
