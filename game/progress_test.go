package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/vi-piano/keymap"
)

func TestTrackerMismatchResets(t *testing.T) {
	var tr Tracker
	tr.Load(Objective{keymap.KeyA, keymap.KeyS, keymap.KeyD})

	assert.Equal(t, Advanced, tr.Record(keymap.KeyA, true))
	assert.Equal(t, Advanced, tr.Record(keymap.KeyS, true))
	assert.Equal(t, []keymap.ReferenceKey{keymap.KeyA, keymap.KeyS}, tr.Progress())

	assert.Equal(t, Reset, tr.Record(keymap.KeyH, true))
	assert.Empty(t, tr.Progress())
	assert.NotNil(t, tr.Progress())
	// Objective survives a mismatch
	assert.Equal(t, Objective{keymap.KeyA, keymap.KeyS, keymap.KeyD}, tr.Objective())
}

func TestTrackerCompletion(t *testing.T) {
	var tr Tracker
	tr.Load(Objective{keymap.KeyA})
	assert.Equal(t, Completed, tr.Record(keymap.KeyA, true))
	assert.Equal(t, 1, tr.Len())
}

func TestTrackerUnmappedNoteMismatches(t *testing.T) {
	var tr Tracker
	tr.Load(Objective{keymap.KeyA, keymap.KeyA})
	tr.Record(keymap.KeyA, true)
	assert.Equal(t, Reset, tr.Record("", false))
	assert.Equal(t, 0, tr.Len())
}

func TestTrackerRepeatedKeys(t *testing.T) {
	var tr Tracker
	tr.Load(Objective{keymap.KeyG, keymap.KeyG, keymap.KeyG})
	assert.Equal(t, Advanced, tr.Record(keymap.KeyG, true))
	assert.Equal(t, Advanced, tr.Record(keymap.KeyG, true))
	assert.Equal(t, Completed, tr.Record(keymap.KeyG, true))
}

func TestTrackerLoadCopiesObjective(t *testing.T) {
	obj := Objective{keymap.KeyA, keymap.KeyS}
	var tr Tracker
	tr.Load(obj)
	tr.Record(keymap.KeyA, true)
	obj[1] = keymap.KeyK

	assert.Equal(t, keymap.KeyS, tr.Objective()[1])

	tr.Load(Objective{keymap.KeyD, keymap.KeyF})
	assert.Equal(t, 0, tr.Len())

	tr.Clear()
	assert.Nil(t, tr.Objective())
	assert.Equal(t, Reset, tr.Record(keymap.KeyA, true))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "advanced", Advanced.String())
	assert.Equal(t, "reset", Reset.String())
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "unknown", Outcome(9).String())
}
