package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 0.5, cfg.MasterVolume)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, InstrSynth, cfg.Instrument)
	assert.Equal(t, 0.8, cfg.CueVolumes[CueChime])
	assert.Equal(t, 0.6, cfg.CueVolumes[CueBuzz])
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("VI_PIANO_AUDIO_ENABLED", "false")
	t.Setenv("VI_PIANO_MASTER_VOLUME", "150")
	t.Setenv("VI_PIANO_SAMPLE_RATE", "48000")
	t.Setenv("VI_PIANO_INSTRUMENT", "membrane")
	t.Setenv("VI_PIANO_SFX_VOLUMES", `{"chime": 0.25, "buzz": -1}`)

	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.MasterVolume)
	assert.Equal(t, 48000, cfg.SampleRate)
	assert.Equal(t, InstrMembraneSynth, cfg.Instrument)
	assert.Equal(t, 0.25, cfg.CueVolumes[CueChime])
	assert.Equal(t, 0.0, cfg.CueVolumes[CueBuzz])
}

func TestLoadConfigIgnoresMalformed(t *testing.T) {
	t.Setenv("VI_PIANO_AUDIO_ENABLED", "maybe")
	t.Setenv("VI_PIANO_MASTER_VOLUME", "loud")
	t.Setenv("VI_PIANO_SAMPLE_RATE", "-5")
	t.Setenv("VI_PIANO_INSTRUMENT", "theremin")
	t.Setenv("VI_PIANO_SFX_VOLUMES", "{not json")

	assert.Equal(t, DefaultConfig(), LoadConfig())
}

func TestParseInstrument(t *testing.T) {
	tests := []struct {
		in   string
		want Instrument
	}{
		{"Synth", InstrSynth},
		{"am", InstrAMSynth},
		{"FM Synth", InstrFMSynth},
		{"fm-synth", InstrFMSynth},
		{"MembraneSynth", InstrMembraneSynth},
		{"mono", InstrMonoSynth},
	}
	for _, tt := range tests {
		got, err := ParseInstrument(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParseInstrument("kazoo")
	assert.ErrorIs(t, err, ErrUnknownInstrument)
}

func TestInstrumentCycle(t *testing.T) {
	assert.Equal(t, InstrAMSynth, InstrSynth.Next())
	assert.Equal(t, InstrSynth, InstrMonoSynth.Next())
	assert.Equal(t, InstrMonoSynth, InstrSynth.Prev())
	assert.Len(t, Instruments(), 5)
	assert.Equal(t, "Unknown", Instrument(-1).String())
}
