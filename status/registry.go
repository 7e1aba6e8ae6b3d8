package status

import (
	"sync/atomic"
	"unicode/utf8"
)

// Metric keys shared by the game, audio and network layers
const (
	KeyLevel         = "game.level"
	KeyState         = "game.state"
	KeyNotes         = "game.notes"
	KeyMismatches    = "game.mismatches"
	KeyLevelsCleared = "game.levels_cleared"
	KeyTimeouts      = "game.timeouts"
	KeyBestLevel     = "game.best_level"
	KeyVoices        = "audio.voices"
	KeyAudioEnabled  = "audio.enabled"
	KeyInstrument    = "audio.instrument"
	KeyVolume        = "audio.volume"
	KeyScale         = "ui.scale"
	KeyLowerLock     = "ui.lower_lock"
	KeySessions      = "ssh.sessions"
	KeySessionsTotal = "ssh.sessions_total"
)

// maxLabelBytes bounds the labels kept by AtomicString
const maxLabelBytes = 32

// AtomicString holds a short label such as a state or instrument name
// The zero value reads as ""
type AtomicString struct {
	v atomic.Value
}

// Store keeps at most maxLabelBytes of val without splitting a rune
func (s *AtomicString) Store(val string) {
	if len(val) > maxLabelBytes {
		val = val[:maxLabelBytes]
		for !utf8.ValidString(val) {
			val = val[:len(val)-1]
		}
	}
	s.v.Store(val)
}

// Load returns the last stored label
func (s *AtomicString) Load() string {
	val, _ := s.v.Load().(string)
	return val
}

// Registry is the central metrics facade
// Components cache pointers during init and write directly to the atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot is a point-in-time copy of every metric, shaped for JSON
type Snapshot struct {
	Bools   map[string]bool    `json:"bools"`
	Ints    map[string]int64   `json:"ints"`
	Floats  map[string]float64 `json:"floats"`
	Strings map[string]string  `json:"strings"`
}

// Snapshot copies current values; metrics written concurrently may be torn across maps
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		Bools:   make(map[string]bool, r.Bools.Count()),
		Ints:    make(map[string]int64, r.Ints.Count()),
		Floats:  make(map[string]float64, r.Floats.Count()),
		Strings: make(map[string]string, r.Strings.Count()),
	}
	r.Bools.Range(func(k string, p *atomic.Bool) { s.Bools[k] = p.Load() })
	r.Ints.Range(func(k string, p *atomic.Int64) { s.Ints[k] = p.Load() })
	r.Floats.Range(func(k string, p *AtomicFloat) { s.Floats[k] = p.Load() })
	r.Strings.Range(func(k string, p *AtomicString) { s.Strings[k] = p.Load() })
	return s
}
