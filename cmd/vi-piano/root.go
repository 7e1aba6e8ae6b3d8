package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/vi-piano/audio"
	"github.com/lixenwraith/vi-piano/core"
	"github.com/lixenwraith/vi-piano/engine"
	"github.com/lixenwraith/vi-piano/game"
	"github.com/lixenwraith/vi-piano/record"
	"github.com/lixenwraith/vi-piano/session"
	"github.com/lixenwraith/vi-piano/spectate"
	"github.com/lixenwraith/vi-piano/status"
)

var version = "dev"

var (
	debugFlag      bool
	sentryDSN      string
	seedFlag       uint64
	recordPath     string
	httpAddr       string
	instrumentName string
	noAudio        bool
)

var rootCmd = &cobra.Command{
	Use:           "vi-piano",
	Short:         "Terminal piano with a note-matching minigame",
	Long:          `Play a three-octave piano from the keyboard (A-K, W E T Y U) and race the clock to repeat growing note sequences.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if sentryDSN == "" {
			sentryDSN = os.Getenv("SENTRY_DSN")
		}
		return core.InitCrashReporting(sentryDSN, version)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return play(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write debug logs to logs/vi-piano.log")
	rootCmd.PersistentFlags().StringVar(&sentryDSN, "sentry-dsn", "", "report crashes to Sentry (default $SENTRY_DSN)")

	rootCmd.Flags().Uint64Var(&seedFlag, "seed", 0, "fixed seed for objective generation, 0 is random")
	rootCmd.Flags().StringVar(&recordPath, "record", "", "save everything played to a MIDI file")
	rootCmd.Flags().StringVar(&httpAddr, "http", "", "serve the spectator API on this address")
	rootCmd.Flags().StringVar(&instrumentName, "instrument", "", "starting instrument (synth, am, fm, membrane, mono)")
	rootCmd.Flags().BoolVar(&noAudio, "no-audio", false, "disable sound output")
}

// Execute runs the root command with signal cancellation
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer core.FlushCrashReports(2 * time.Second)
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

// audioConfig merges environment configuration with flags
func audioConfig() (*audio.Config, error) {
	cfg := audio.LoadConfig()
	if instrumentName != "" {
		instr, err := audio.ParseInstrument(instrumentName)
		if err != nil {
			return nil, err
		}
		cfg.Instrument = instr
	}
	if noAudio {
		cfg.Enabled = false
	}
	return cfg, nil
}

func play(ctx context.Context) error {
	logFile := setupLogging(debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}
	log := slog.Default()

	acfg, err := audioConfig()
	if err != nil {
		return err
	}
	reg := status.NewRegistry()

	var synth *audio.Synth
	if acfg.Enabled {
		synth = audio.NewSynth(acfg, reg, log)
		if err := synth.Initialize(); err != nil {
			// Continue without audio
			log.Warn("audio unavailable", "error", err)
			synth = nil
		} else {
			defer synth.Cleanup()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashScreen(screen)
	defer func() {
		core.SetCrashScreen(nil)
		screen.Fini()
	}()

	clock := engine.NewMonotonicTimeProvider()
	publisher := spectate.NewPublisher(clock)
	observers := []game.Observer{publisher}

	var rec *record.Recorder
	var sinks []game.NoteSink
	if recordPath != "" {
		rec = record.NewRecorder(clock, "vi-piano")
		sinks = append(sinks, rec)
	}

	if httpAddr != "" {
		api := spectate.NewServer(httpAddr, publisher, reg, log)
		core.Go(func() {
			if err := api.ListenAndServe(ctx); err != nil {
				log.Error("spectator api stopped", "error", err)
			}
		})
	}

	sess, err := session.New(session.Config{
		Screen:    screen,
		Synth:     synth,
		Observers: observers,
		Sinks:     sinks,
		Registry:  reg,
		Logger:    log,
		Seed:      seedFlag,
	})
	if err != nil {
		return err
	}

	err = sess.Run(ctx)
	if rec != nil {
		if saveErr := saveRecording(rec, recordPath); saveErr != nil {
			log.Error("recording not saved", "path", recordPath, "error", saveErr)
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func saveRecording(rec *record.Recorder, path string) error {
	err := rec.Save(path)
	if errors.Is(err, record.ErrEmpty) {
		return nil
	}
	return err
}
