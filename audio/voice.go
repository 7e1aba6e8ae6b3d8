package audio

import (
	"math"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/vi-piano/constant"
)

// adsrState tracks envelope phase
type adsrState int

const (
	adsrIdle adsrState = iota
	adsrAttack
	adsrDecay
	adsrSustain
	adsrRelease
)

// envelope is a sample-accurate ADSR generator
type envelope struct {
	state   adsrState
	level   float64
	pos     int
	attack  int
	decay   int
	sustain float64
	release int
	// releaseFrom is the level at which the release phase began
	releaseFrom float64
}

func newEnvelope(spec envelopeSpec, sr beep.SampleRate) envelope {
	return envelope{
		state:   adsrAttack,
		attack:  sr.N(spec.attack),
		decay:   sr.N(spec.decay),
		sustain: spec.sustain,
		release: sr.N(spec.release),
	}
}

func (e *envelope) next() float64 {
	switch e.state {
	case adsrAttack:
		if e.attack > 0 {
			e.level = float64(e.pos) / float64(e.attack)
		} else {
			e.level = 1
		}
		e.pos++
		if e.pos >= e.attack {
			e.state = adsrDecay
			e.pos = 0
		}

	case adsrDecay:
		if e.decay > 0 {
			t := float64(e.pos) / float64(e.decay)
			e.level = 1 - t*(1-e.sustain)
		} else {
			e.level = e.sustain
		}
		e.pos++
		if e.pos >= e.decay {
			e.state = adsrSustain
		}

	case adsrSustain:
		e.level = e.sustain

	case adsrRelease:
		if e.release > 0 {
			t := float64(e.pos) / float64(e.release)
			e.level = e.releaseFrom * (1 - t)
		} else {
			e.level = 0
		}
		e.pos++
		if e.pos >= e.release || e.level <= 0.0001 {
			e.state = adsrIdle
			e.level = 0
		}

	case adsrIdle:
		e.level = 0
	}
	return e.level
}

func (e *envelope) startRelease() {
	if e.state == adsrRelease || e.state == adsrIdle {
		return
	}
	e.releaseFrom = e.level
	e.state = adsrRelease
	e.pos = 0
}

// voice is one sounding note; it drains from the mixer once its release ends
type voice struct {
	instrument Instrument
	sr         float64
	freq       float64
	gain       float64
	env        envelope

	phase    float64 // Oscillator phase 0-1
	modPhase float64 // AM/FM modulator phase 0-1
	filter   float64 // Mono synth one-pole lowpass state
	age      int     // Samples since trigger
	pitchN   int     // Membrane pitch sweep length in samples

	released bool
	done     bool
}

func newVoice(instr Instrument, freq float64, sr beep.SampleRate) *voice {
	return &voice{
		instrument: instr,
		sr:         float64(sr),
		freq:       freq,
		gain:       constant.VoiceGain,
		env:        newEnvelope(instr.envelope(), sr),
		pitchN:     sr.N(constant.MembranePitchDecay),
	}
}

// Stream implements beep.Streamer
func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	if v.done {
		return 0, false
	}
	for i := range samples {
		s := v.sample()
		samples[i][0] = s
		samples[i][1] = s
		if v.env.state == adsrIdle {
			v.done = true
			return i + 1, true
		}
	}
	return len(samples), true
}

// Err implements beep.Streamer
func (v *voice) Err() error {
	return nil
}

func (v *voice) sample() float64 {
	freq := v.freq
	if v.instrument == InstrMembraneSynth && v.age < v.pitchN {
		// Exponential sweep from MembraneOctaves above down to the note
		t := float64(v.age) / float64(v.pitchN)
		freq = v.freq * math.Pow(2, constant.MembraneOctaves*(1-t))
	}

	var raw float64
	switch v.instrument {
	case InstrAMSynth:
		raw = v.am()
	case InstrFMSynth:
		raw = v.fm()
	case InstrMembraneSynth:
		raw = math.Sin(2 * math.Pi * v.phase)
	case InstrMonoSynth:
		raw = v.mono()
	default:
		raw = triangle(v.phase)
	}

	v.phase += freq / v.sr
	if v.phase >= 1 {
		v.phase -= math.Floor(v.phase)
	}
	v.age++

	return raw * v.env.next() * v.gain
}

func (v *voice) am() float64 {
	v.modPhase += v.freq * constant.AMHarmonicity / v.sr
	if v.modPhase >= 1 {
		v.modPhase -= 1
	}
	mod := 0.5 + 0.5*math.Sin(2*math.Pi*v.modPhase)
	return math.Sin(2*math.Pi*v.phase) * mod
}

func (v *voice) fm() float64 {
	v.modPhase += v.freq * constant.FMHarmonicity / v.sr
	if v.modPhase >= 1 {
		v.modPhase -= 1
	}
	// Index follows the envelope for a brighter attack
	index := constant.FMModIndex * v.env.level
	return math.Sin(2*math.Pi*v.phase + index*math.Sin(2*math.Pi*v.modPhase))
}

func (v *voice) mono() float64 {
	sq := 1.0
	if v.phase >= 0.5 {
		sq = -1
	}
	v.filter += constant.MonoFilterCutoff * (sq - v.filter)
	return v.filter
}

func triangle(phase float64) float64 {
	if phase < 0.5 {
		return 4*phase - 1
	}
	return 3 - 4*phase
}

// release starts the envelope release, the voice drains afterwards
func (v *voice) release() {
	v.released = true
	v.env.startRelease()
}
