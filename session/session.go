// Package session runs one player's game on one tcell screen
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/lixenwraith/vi-piano/audio"
	"github.com/lixenwraith/vi-piano/constant"
	"github.com/lixenwraith/vi-piano/core"
	"github.com/lixenwraith/vi-piano/engine"
	"github.com/lixenwraith/vi-piano/game"
	"github.com/lixenwraith/vi-piano/input"
	"github.com/lixenwraith/vi-piano/keymap"
	"github.com/lixenwraith/vi-piano/render"
	"github.com/lixenwraith/vi-piano/status"
)

// ErrNoScreen is returned by New without a screen
var ErrNoScreen = errors.New("session: screen is required")

// Config wires a session; only Screen is required
// The screen must be initialized by the caller, who also finalizes it
type Config struct {
	ID        string
	Screen    tcell.Screen
	Synth     *audio.Synth
	Observers []game.Observer
	Sinks     []game.NoteSink
	Registry  *status.Registry
	Logger    *slog.Logger
	// Seed fixes objective generation, zero picks a random seed
	Seed uint64
	// ReleaseDelay is the silence after the last autorepeat that counts as key-up
	ReleaseDelay time.Duration
	// RepeatGap is the widest press interval of one key read as autorepeat
	RepeatGap time.Duration
}

// Session owns the loop and every component living on it
type Session struct {
	id       string
	screen   tcell.Screen
	loop     *engine.Loop
	machine  *game.Machine
	board    *render.Board
	renderer *render.Renderer
	input    *input.Machine
	releaser *input.Releaser
	synth    *audio.Synth
	registry *status.Registry
	log      *slog.Logger

	scales    []keymap.Scale
	scaleIdx  int
	mouseNote keymap.Note
}

// New builds a session ready to Run
func New(cfg Config) (*Session, error) {
	if cfg.Screen == nil {
		return nil, ErrNoScreen
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Registry == nil {
		cfg.Registry = status.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ReleaseDelay <= 0 {
		cfg.ReleaseDelay = constant.KeyReleaseDebounce
	}
	if cfg.RepeatGap <= 0 {
		cfg.RepeatGap = constant.AutorepeatGap
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Session{
		id:       cfg.ID,
		screen:   cfg.Screen,
		loop:     engine.NewLoop(engine.DefaultQueueSize),
		board:    render.NewBoard(),
		renderer: render.NewRenderer(cfg.Screen),
		input:    input.NewMachine(),
		synth:    cfg.Synth,
		registry: cfg.Registry,
		log:      cfg.Logger.With("session", cfg.ID),
		scales:   keymap.Scales(),
	}
	s.releaser = input.NewReleaser(cfg.ReleaseDelay, cfg.RepeatGap, s.postRelease)

	observers := game.Observers{s.board}
	sinks := game.Sinks{}
	if s.synth != nil {
		observers = append(observers, audio.NewCues(s.synth))
		sinks = append(sinks, s.synth)
		s.board.Instrument = s.synth.Instrument().String()
		s.board.Audio = true
	} else {
		s.board.Instrument = audio.InstrSynth.String()
	}
	observers = append(observers, cfg.Observers...)
	sinks = append(sinks, cfg.Sinks...)

	m, err := game.NewMachine(game.Config{
		Scheduler: s.loop,
		Clock:     engine.NewMonotonicTimeProvider(),
		Rand:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Observer:  observers,
		Sink:      sinks,
		Logger:    s.log,
		Registry:  s.registry,
	})
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.machine = m

	s.registry.Strings.Get(status.KeyScale).Store(s.scales[0].Name)
	if s.synth == nil {
		s.registry.Bools.Get(status.KeyAudioEnabled).Store(false)
	}
	return s, nil
}

// ID returns the session identifier used in logs
func (s *Session) ID() string {
	return s.id
}

// Run plays until the player quits or ctx ends
// Returns nil on quit and ctx.Err() on cancellation
func (s *Session) Run(ctx context.Context) error {
	s.log.Info("session started")
	defer s.log.Info("session ended")

	s.screen.EnableMouse()
	s.screen.EnableFocus()
	defer s.screen.DisableMouse()
	defer s.screen.DisableFocus()

	core.Go(s.pollEvents)
	frame := s.loop.Every(constant.FrameUpdateInterval, s.drawFrame)
	s.loop.Post(s.drawFrame)

	err := s.loop.Run(ctx)

	frame.Cancel()
	s.releaser.CancelAll()
	s.machine.Stop()
	return err
}

// Stop ends Run from any goroutine
func (s *Session) Stop() {
	s.loop.Stop()
}

// pollEvents forwards screen events into the loop until the screen is finalized
func (s *Session) pollEvents() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		if !s.loop.Post(func() { s.handleEvent(ev) }) {
			return
		}
	}
}

func (s *Session) drawFrame() {
	if s.board.TakeDirty() {
		s.renderer.RenderFrame(s.board)
	}
}

// postRelease runs on a debounce timer goroutine
func (s *Session) postRelease(symbol string) {
	s.loop.Post(func() { s.machine.KeyReleased(symbol) })
}

func (s *Session) handleEvent(ev tcell.Event) {
	in := s.input.Process(ev)
	if in == nil {
		return
	}
	s.handleIntent(in)
}

func (s *Session) handleIntent(in *input.Intent) {
	switch in.Type {
	case input.IntentQuit:
		s.loop.Stop()

	case input.IntentResize:
		s.screen.Sync()
		s.renderer.Resize()
		s.board.MarkDirty()

	case input.IntentBlur, input.IntentSilence:
		s.releaser.CancelAll()
		s.mouseNote = ""
		s.machine.WindowBlurred()

	case input.IntentStart:
		if err := s.machine.Start(); err != nil {
			s.log.Debug("start ignored", "state", s.machine.StateName())
		}

	case input.IntentNote:
		// Autorepeat extends the hold, a slower tap of a held key plays it again
		if !s.releaser.Press(in.Symbol) {
			s.machine.KeyReleased(in.Symbol)
		}
		_, err := s.machine.KeyPressed(in.Symbol, in.Mods)
		if errors.Is(err, game.ErrUnmappedKey) {
			s.releaser.Cancel(in.Symbol)
		}

	case input.IntentToggleLowerLock:
		s.board.LowerLock = s.input.LowerLock()
		s.registry.Bools.Get(status.KeyLowerLock).Store(s.board.LowerLock)
		s.board.MarkDirty()

	case input.IntentCycleInstrument:
		s.cycleInstrument(in.Dir)

	case input.IntentCycleScale:
		n := len(s.scales)
		s.scaleIdx = ((s.scaleIdx+in.Dir)%n + n) % n
		s.board.Scale = s.scales[s.scaleIdx]
		s.registry.Strings.Get(status.KeyScale).Store(s.board.Scale.Name)
		s.board.MarkDirty()

	case input.IntentMouseDown:
		note, ok := s.renderer.Layout().HitTest(in.X, in.Y)
		if !ok {
			return
		}
		if err := s.machine.NotePressed(note); err == nil || errors.Is(err, game.ErrInputIgnored) {
			s.mouseNote = note
		}

	case input.IntentMouseUp:
		if s.mouseNote != "" {
			s.machine.NoteReleased(s.mouseNote)
			s.mouseNote = ""
		}
	}
}

func (s *Session) cycleInstrument(dir int) {
	if s.synth == nil {
		return
	}
	instr := s.synth.Instrument().Next()
	if dir < 0 {
		instr = s.synth.Instrument().Prev()
	}
	// Held notes end with the old voice
	s.releaser.CancelAll()
	s.machine.WindowBlurred()
	s.synth.SetInstrument(instr)
	s.board.Instrument = instr.String()
	s.board.MarkDirty()
}
