package audio

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/vi-piano/constant"
)

// Instrument selects the oscillator and envelope of new voices
type Instrument int

const (
	InstrSynth Instrument = iota
	InstrAMSynth
	InstrFMSynth
	InstrMembraneSynth
	InstrMonoSynth
	instrumentCount
)

var instrumentNames = [instrumentCount]string{
	InstrSynth:         "Synth",
	InstrAMSynth:       "AM Synth",
	InstrFMSynth:       "FM Synth",
	InstrMembraneSynth: "Membrane Synth",
	InstrMonoSynth:     "Mono Synth",
}

func (i Instrument) String() string {
	if i < 0 || i >= instrumentCount {
		return "Unknown"
	}
	return instrumentNames[i]
}

// Next cycles forward through the instrument list
func (i Instrument) Next() Instrument {
	return (i + 1) % instrumentCount
}

// Prev cycles backward through the instrument list
func (i Instrument) Prev() Instrument {
	return (i + instrumentCount - 1) % instrumentCount
}

// Instruments returns every instrument in display order
func Instruments() []Instrument {
	out := make([]Instrument, instrumentCount)
	for i := range out {
		out[i] = Instrument(i)
	}
	return out
}

// ParseInstrument accepts display names and compact forms ("fm", "FMSynth", "membrane")
func ParseInstrument(name string) (Instrument, error) {
	key := compact(name)
	for i, n := range instrumentNames {
		full := compact(n)
		if key == full || key+"synth" == full {
			return Instrument(i), nil
		}
	}
	return InstrSynth, fmt.Errorf("%w: %q", ErrUnknownInstrument, name)
}

func compact(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, "_", "")
}

// envelopeSpec is the ADSR shape of one instrument
type envelopeSpec struct {
	attack  time.Duration
	decay   time.Duration
	sustain float64
	release time.Duration
}

func (i Instrument) envelope() envelopeSpec {
	switch i {
	case InstrAMSynth:
		return envelopeSpec{constant.AMAttack, constant.AMDecay, constant.AMSustain, constant.AMRelease}
	case InstrFMSynth:
		return envelopeSpec{constant.FMAttack, constant.FMDecay, constant.FMSustain, constant.FMRelease}
	case InstrMembraneSynth:
		return envelopeSpec{constant.MembraneAttack, constant.MembraneDecay, constant.MembraneSustain, constant.MembraneRelease}
	case InstrMonoSynth:
		return envelopeSpec{constant.MonoAttack, constant.MonoDecay, constant.MonoSustain, constant.MonoRelease}
	default:
		return envelopeSpec{constant.SynthAttack, constant.SynthDecay, constant.SynthSustain, constant.SynthRelease}
	}
}

// Monophonic reports whether a new note releases every sounding voice
func (i Instrument) Monophonic() bool {
	return i == InstrMonoSynth
}
