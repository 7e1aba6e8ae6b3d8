package audio

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"

	"github.com/lixenwraith/vi-piano/constant"
)

// Sentinel errors
var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrUnknownCue        = errors.New("unknown cue")
	ErrAudioDisabled     = errors.New("audio disabled")
)

// Config holds audio output settings
type Config struct {
	Enabled      bool
	MasterVolume float64 // 0.0-1.0
	SampleRate   int
	Instrument   Instrument
	CueVolumes   map[Cue]float64
}

// DefaultConfig returns the built-in audio settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 0.5,
		SampleRate:   constant.AudioSampleRate,
		Instrument:   InstrSynth,
		CueVolumes: map[Cue]float64{
			CueChime: 0.8,
			CueBuzz:  0.6,
		},
	}
}

// LoadConfig loads audio configuration from environment variables
// Malformed values are ignored and the default kept
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("VI_PIANO_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume 0-100 converted to 0.0-1.0
	if volume := os.Getenv("VI_PIANO_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clamp01(float64(val) / 100.0)
		}
	}

	if sampleRate := os.Getenv("VI_PIANO_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	if name := os.Getenv("VI_PIANO_INSTRUMENT"); name != "" {
		if instr, err := ParseInstrument(name); err == nil {
			cfg.Instrument = instr
		}
	}

	// Cue volumes as JSON: {"chime": 0.5, "buzz": 0.2}
	if cueVols := os.Getenv("VI_PIANO_SFX_VOLUMES"); cueVols != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(cueVols), &volumes); err == nil {
			for c := Cue(0); c < cueCount; c++ {
				if v, ok := volumes[c.String()]; ok {
					cfg.CueVolumes[c] = clamp01(v)
				}
			}
		}
	}

	return cfg
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
