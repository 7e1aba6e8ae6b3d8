package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRegister(t *testing.T) {
	tests := []struct {
		name string
		mods Modifiers
		want RegisterMode
	}{
		{"no modifiers", Modifiers{}, Normal},
		{"shift", Modifiers{Shift: true}, UpperOctave},
		{"caps lock", Modifiers{CapsLock: true}, LowerOctave},
		{"caps lock wins over shift", Modifiers{CapsLock: true, Shift: true}, LowerOctave},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRegister(tt.mods))
		})
	}
}

func TestLookupTables(t *testing.T) {
	tests := []struct {
		symbol string
		mode   RegisterMode
		want   Note
	}{
		{"A", Normal, "C5"},
		{"K", Normal, "C6"},
		{"a", Normal, "C5"},
		{"A", LowerOctave, "C4"},
		{"K", LowerOctave, "C5"},
		{"A", UpperOctave, "C6"},
		{"K", UpperOctave, "C7"},
		{"W", Normal, "C#5"},
		{"U", LowerOctave, "A#4"},
		{"T", UpperOctave, "F#6"},
	}
	for _, tt := range tests {
		t.Run(tt.symbol+"/"+tt.mode.String(), func(t *testing.T) {
			got, ok := Lookup(tt.symbol, tt.mode)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupAllBoundKeysInEveryRegister(t *testing.T) {
	symbols := []string{"A", "S", "D", "F", "G", "H", "J", "K", "W", "E", "T", "Y", "U"}
	for _, mode := range []RegisterMode{Normal, LowerOctave, UpperOctave} {
		seen := make(map[Note]bool)
		for _, sym := range symbols {
			n, ok := Lookup(sym, mode)
			require.True(t, ok, "symbol %s mode %s", sym, mode)
			assert.False(t, seen[n], "duplicate note %s in %s table", n, mode)
			seen[n] = true
		}
	}
}

func TestLookupRegistersAreOneOctaveApart(t *testing.T) {
	for _, sym := range []string{"A", "S", "D", "F", "G", "H", "J", "K", "W", "E", "T", "Y", "U"} {
		normal, _ := Lookup(sym, Normal)
		lower, _ := Lookup(sym, LowerOctave)
		upper, _ := Lookup(sym, UpperOctave)
		assert.Equal(t, normal.MIDI()-12, lower.MIDI(), sym)
		assert.Equal(t, normal.MIDI()+12, upper.MIDI(), sym)
	}
}

func TestLookupUnmapped(t *testing.T) {
	for _, sym := range []string{"Q", "Z", "1", " ", "", "AS"} {
		_, ok := Lookup(sym, Normal)
		assert.False(t, ok, "symbol %q", sym)
	}
	_, ok := Lookup("A", RegisterMode(9))
	assert.False(t, ok)
}

func TestReverseRoundTrip(t *testing.T) {
	for _, r := range ReferenceKeys() {
		for _, mode := range []RegisterMode{Normal, LowerOctave, UpperOctave} {
			n, ok := Lookup(string(r), mode)
			require.True(t, ok)
			got, ok := Reverse(n, mode)
			require.True(t, ok, "%s in %s", r, mode)
			assert.Equal(t, r, got, "%s in %s", r, mode)
		}
	}
}

func TestReverseBlackKeysHaveNoReference(t *testing.T) {
	for _, sym := range []string{"W", "E", "T", "Y", "U"} {
		n, _ := Lookup(sym, Normal)
		_, ok := Reverse(n, Normal)
		assert.False(t, ok, sym)
	}
}

func TestReferenceKeysSet(t *testing.T) {
	keys := ReferenceKeys()
	require.Len(t, keys, 8)
	seen := make(map[ReferenceKey]bool)
	for _, k := range keys {
		assert.False(t, seen[k])
		seen[k] = true
		assert.True(t, IsReferenceKey(k))
	}
	assert.False(t, IsReferenceKey("W"))

	// Callers cannot mutate the package set
	keys[0] = "Z"
	assert.Equal(t, KeyA, ReferenceKeys()[0])
}

func TestBoundNotes(t *testing.T) {
	notes := BoundNotes(Normal)
	require.Len(t, notes, 13)
	assert.Equal(t, Note("C5"), notes[0])
	assert.Equal(t, Note("C#5"), notes[1])
	assert.Equal(t, Note("C6"), notes[12])
	for i := 1; i < len(notes); i++ {
		assert.Equal(t, notes[i-1].MIDI()+1, notes[i].MIDI())
	}
}
