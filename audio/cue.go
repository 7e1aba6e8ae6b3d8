package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/vi-piano/constant"
	"github.com/lixenwraith/vi-piano/game"
	"github.com/lixenwraith/vi-piano/keymap"
)

// Cue is a short feedback sound for game events
type Cue int

const (
	CueChime Cue = iota // Level complete
	CueBuzz             // Countdown expired
	cueCount
)

var cueNames = [cueCount]string{CueChime: "chime", CueBuzz: "buzz"}

func (c Cue) String() string {
	if c < 0 || c >= cueCount {
		return "unknown"
	}
	return cueNames[c]
}

// chimeNotes is an ascending major arpeggio
var chimeNotes = []keymap.Note{"C6", "E6", "G6", "C7"}

// cueStreamer builds a finite streamer for c at volume
func cueStreamer(c Cue, sr beep.SampleRate, volume float64) (beep.Streamer, error) {
	switch c {
	case CueChime:
		parts := make([]beep.Streamer, 0, len(chimeNotes))
		for _, n := range chimeNotes {
			tone, err := generators.SineTone(sr, n.Frequency())
			if err != nil {
				return nil, err
			}
			parts = append(parts, newShaped(tone, sr, constant.ChimeNoteDuration, constant.ChimeAttack, constant.ChimeRelease, volume*constant.VoiceGain))
		}
		return beep.Seq(parts...), nil
	case CueBuzz:
		return newShaped(&buzz{sr: float64(sr), freq: constant.BuzzFreq}, sr, constant.BuzzDuration, constant.BuzzAttack, constant.BuzzRelease, volume), nil
	default:
		return nil, ErrUnknownCue
	}
}

// shaped plays a fixed number of samples with linear fade in and out
type shaped struct {
	src     beep.Streamer
	total   int
	attack  int
	release int
	gain    float64
	pos     int
}

func newShaped(src beep.Streamer, sr beep.SampleRate, length, attack, release time.Duration, gain float64) *shaped {
	return &shaped{
		src:     src,
		total:   sr.N(length),
		attack:  sr.N(attack),
		release: sr.N(release),
		gain:    gain,
	}
}

func (s *shaped) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.total {
		return 0, false
	}
	want := len(samples)
	if left := s.total - s.pos; want > left {
		want = left
	}
	n, ok = s.src.Stream(samples[:want])
	for i := 0; i < n; i++ {
		g := s.gain * s.level(s.pos)
		samples[i][0] *= g
		samples[i][1] *= g
		s.pos++
	}
	return n, n > 0 || ok
}

func (s *shaped) level(pos int) float64 {
	switch {
	case s.attack > 0 && pos < s.attack:
		return float64(pos) / float64(s.attack)
	case s.release > 0 && pos >= s.total-s.release:
		return float64(s.total-pos) / float64(s.release)
	default:
		return 1
	}
}

func (s *shaped) Err() error {
	return s.src.Err()
}

// buzz is a low tone with odd harmonics
type buzz struct {
	sr   float64
	freq float64
	pos  int
}

func (b *buzz) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(b.pos) / b.sr
		s := 0.3*math.Sin(2*math.Pi*b.freq*t) +
			0.15*math.Sin(2*math.Pi*b.freq*2*t) +
			0.075*math.Sin(2*math.Pi*b.freq*3*t)
		samples[i][0] = s
		samples[i][1] = s
		b.pos++
	}
	return len(samples), true
}

func (b *buzz) Err() error {
	return nil
}

// CuePlayer plays feedback cues
type CuePlayer interface {
	PlayCue(c Cue)
}

// Cues turns level events into feedback sounds
type Cues struct {
	game.NopObserver
	player CuePlayer
}

// NewCues creates the cue observer
func NewCues(player CuePlayer) *Cues {
	return &Cues{player: player}
}

func (c *Cues) OnLevelComplete() {
	c.player.PlayCue(CueChime)
}

func (c *Cues) OnTimeout() {
	c.player.PlayCue(CueBuzz)
}
