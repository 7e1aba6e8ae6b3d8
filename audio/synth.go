package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/vi-piano/constant"
	"github.com/lixenwraith/vi-piano/keymap"
	"github.com/lixenwraith/vi-piano/status"
)

// Synth is a polyphonic software synthesizer played by note name
// Every method is safe to call before Initialize or after a failed Initialize;
// they do nothing until the output device is running
type Synth struct {
	mu          sync.Mutex
	cfg         *Config
	sr          beep.SampleRate
	mixer       *beep.Mixer
	master      *effects.Volume
	voices      map[keymap.Note]*voice
	order       []keymap.Note // Trigger order, oldest first
	instrument  Instrument
	initialized bool
	log         *slog.Logger

	statVoices     *atomic.Int64
	statEnabled    *atomic.Bool
	statInstrument *status.AtomicString
}

// NewSynth creates an idle synthesizer
func NewSynth(cfg *Config, reg *status.Registry, log *slog.Logger) *Synth {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Synth{
		cfg:        cfg,
		sr:         beep.SampleRate(cfg.SampleRate),
		mixer:      &beep.Mixer{},
		voices:     make(map[keymap.Note]*voice),
		instrument: cfg.Instrument,
		log:        log,

		statVoices:     reg.Ints.Get(status.KeyVoices),
		statEnabled:    reg.Bools.Get(status.KeyAudioEnabled),
		statInstrument: reg.Strings.Get(status.KeyInstrument),
	}
	s.master = &effects.Volume{
		Streamer: s.mixer,
		Base:     2,
		Volume:   volumeToExponent(cfg.MasterVolume),
		Silent:   cfg.MasterVolume <= 0,
	}
	reg.Floats.Get(status.KeyVolume).Store(cfg.MasterVolume)
	s.statInstrument.Store(s.instrument.String())
	return s
}

// volumeToExponent maps a linear 0-1 volume to the base-2 exponent effects.Volume uses
func volumeToExponent(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Log2(v)
}

// Initialize opens the output device and starts streaming
// Returns ErrAudioDisabled when configuration turns audio off
func (s *Synth) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if !s.cfg.Enabled {
		return ErrAudioDisabled
	}

	if err := speaker.Init(s.sr, s.sr.N(constant.AudioBufferDuration)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(s)
	s.initialized = true
	s.statEnabled.Store(true)
	s.log.Info("audio initialized", "sample_rate", int(s.sr), "instrument", s.instrument.String())
	return nil
}

// Cleanup silences every voice and stops feeding the device
func (s *Synth) Cleanup() {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return
	}
	s.mixer.Clear()
	s.voices = make(map[keymap.Note]*voice)
	s.order = s.order[:0]
	s.initialized = false
	s.statEnabled.Store(false)
	s.statVoices.Store(0)
	s.mu.Unlock()

	// beep has no speaker close; clearing the streamer avoids audio artifacts
	speaker.Clear()
}

// Stream implements beep.Streamer and is driven by the speaker goroutine
func (s *Synth) Stream(samples [][2]float64) (n int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok = s.master.Stream(samples)
	s.prune()
	return n, ok
}

// Err implements beep.Streamer
func (s *Synth) Err() error {
	return nil
}

// prune forgets drained voices, caller holds mu
func (s *Synth) prune() {
	kept := s.order[:0]
	for _, n := range s.order {
		if v := s.voices[n]; v != nil && !v.done {
			kept = append(kept, n)
			continue
		}
		delete(s.voices, n)
	}
	s.order = kept
	s.statVoices.Store(int64(len(s.voices)))
}

// NoteOn starts a voice for note, retriggering it if already sounding
func (s *Synth) NoteOn(note keymap.Note) {
	freq := note.Frequency()
	if freq <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}

	if s.instrument.Monophonic() {
		s.releaseAllLocked()
	}
	if old := s.voices[note]; old != nil {
		old.release()
		s.forget(note)
	}
	for len(s.order) >= constant.MaxVoices {
		oldest := s.order[0]
		if v := s.voices[oldest]; v != nil {
			v.release()
		}
		s.forget(oldest)
	}

	v := newVoice(s.instrument, freq, s.sr)
	s.voices[note] = v
	s.order = append(s.order, note)
	s.mixer.Add(v)
	s.statVoices.Store(int64(len(s.voices)))
}

// NoteOff releases the voice for note; the tail keeps sounding until it fades
func (s *Synth) NoteOff(note keymap.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v := s.voices[note]; v != nil {
		v.release()
	}
}

// ReleaseAll releases every sounding voice
func (s *Synth) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseAllLocked()
}

func (s *Synth) releaseAllLocked() {
	for _, v := range s.voices {
		v.release()
	}
}

// forget removes note from the bookkeeping; the released voice stays in the mixer
// until its tail drains
func (s *Synth) forget(note keymap.Note) {
	delete(s.voices, note)
	for i, n := range s.order {
		if n == note {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// SetInstrument switches the voice for new notes and releases sounding ones
func (s *Synth) SetInstrument(instr Instrument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if instr < 0 || instr >= instrumentCount || instr == s.instrument {
		return
	}
	s.releaseAllLocked()
	s.instrument = instr
	s.statInstrument.Store(instr.String())
	s.log.Debug("instrument changed", "instrument", instr.String())
}

// Instrument returns the current instrument
func (s *Synth) Instrument() Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instrument
}

// ActiveVoices returns the number of voices not yet drained
func (s *Synth) ActiveVoices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// PlayCue mixes a one-shot feedback sound
func (s *Synth) PlayCue(c Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	st, err := cueStreamer(c, s.sr, s.cfg.CueVolumes[c])
	if err != nil {
		s.log.Debug("cue unavailable", "cue", c.String(), "error", err)
		return
	}
	s.mixer.Add(st)
}
