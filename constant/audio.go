package constant

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate     = 44100
	AudioBufferDuration = 50 * time.Millisecond
)

// Voice Envelope
const (
	// VoiceGain scales a single voice so a few simultaneous notes do not clip
	VoiceGain = 0.22

	// MaxVoices caps polyphony, oldest voice is released first
	MaxVoices = 16
)

// Membrane Synth
const (
	MembranePitchDecay = 50 * time.Millisecond
	MembraneOctaves    = 2.0
	MembraneDecay      = 400 * time.Millisecond
)

// Level Complete Chime
const (
	ChimeNoteDuration = 140 * time.Millisecond
	ChimeAttack       = 5 * time.Millisecond
	ChimeRelease      = 90 * time.Millisecond
)

// Timeout Buzz
const (
	BuzzDuration = 450 * time.Millisecond
	BuzzAttack   = 10 * time.Millisecond
	BuzzRelease  = 200 * time.Millisecond
	BuzzFreq     = 110.0
)

// Instrument Envelopes (attack, decay, sustain level, release)
const (
	SynthAttack  = 5 * time.Millisecond
	SynthDecay   = 100 * time.Millisecond
	SynthSustain = 0.3
	SynthRelease = 800 * time.Millisecond

	AMAttack      = 10 * time.Millisecond
	AMDecay       = 10 * time.Millisecond
	AMSustain     = 1.0
	AMRelease     = 500 * time.Millisecond
	AMHarmonicity = 3.0

	FMAttack      = 10 * time.Millisecond
	FMDecay       = 10 * time.Millisecond
	FMSustain     = 1.0
	FMRelease     = 500 * time.Millisecond
	FMHarmonicity = 3.0
	FMModIndex    = 3.0

	MembraneAttack  = 1 * time.Millisecond
	MembraneSustain = 0.01
	MembraneRelease = 1400 * time.Millisecond

	MonoAttack  = 5 * time.Millisecond
	MonoDecay   = 200 * time.Millisecond
	MonoSustain = 0.9
	MonoRelease = 1 * time.Second
	// MonoFilterCutoff is the one-pole lowpass coefficient applied to the square wave
	MonoFilterCutoff = 0.18
)
