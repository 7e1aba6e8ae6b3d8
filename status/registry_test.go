package status

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricMapGetCachesPointer(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get(KeyLevel)
	b := r.Ints.Get(KeyLevel)
	assert.Same(t, a, b)
	assert.True(t, r.Ints.Has(KeyLevel))
	assert.False(t, r.Ints.Has(KeyNotes))

	r.Ints.Get(KeyNotes)
	assert.Equal(t, []string{KeyLevel, KeyNotes}, r.Ints.Keys())
}

func TestMetricMapConcurrentGet(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Ints.Get(KeyNotes).Add(1)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 32, r.Ints.Get(KeyNotes).Load())
	assert.Equal(t, 1, r.Ints.Count())
}

func TestRangeIsSorted(t *testing.T) {
	m := NewMetricMap[int]()
	for _, k := range []string{"b", "c", "a"} {
		m.Get(k)
	}
	var keys []string
	m.Range(func(k string, _ *int) { keys = append(keys, k) })
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(KeyLevel).Store(3)
	r.Bools.Get(KeyAudioEnabled).Store(true)
	r.Floats.Get(KeyVolume).Store(0.5)
	r.Strings.Get(KeyState).Store("AwaitingInput")

	s := r.Snapshot()
	assert.EqualValues(t, 3, s.Ints[KeyLevel])
	assert.True(t, s.Bools[KeyAudioEnabled])
	assert.Equal(t, 0.5, s.Floats[KeyVolume])
	assert.Equal(t, "AwaitingInput", s.Strings[KeyState])
	assert.Equal(t, 4, r.TotalCount())
}

func TestAtomicValues(t *testing.T) {
	var f AtomicFloat
	assert.Equal(t, 0.0, f.Load())
	assert.Equal(t, 1.5, f.Add(1.5))
	assert.Equal(t, 1.0, f.Add(-0.5))
	assert.Equal(t, 1.0, f.Swap(0.25))
	assert.Equal(t, 0.25, f.Load())

	var s AtomicString
	assert.Equal(t, "", s.Load())
	s.Store(strings.Repeat("x", maxLabelBytes+10))
	assert.Len(t, s.Load(), maxLabelBytes)

	// Truncation never leaves half a rune behind
	s.Store(strings.Repeat("x", maxLabelBytes-1) + "é")
	assert.Equal(t, strings.Repeat("x", maxLabelBytes-1), s.Load())
}
