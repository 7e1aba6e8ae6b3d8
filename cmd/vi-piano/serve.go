package main

import (
	"context"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/vi-piano/core"
	"github.com/lixenwraith/vi-piano/network"
	"github.com/lixenwraith/vi-piano/session"
	"github.com/lixenwraith/vi-piano/spectate"
	"github.com/lixenwraith/vi-piano/status"
)

var (
	serveAddr     string
	serveKey      string
	serveMax      int
	serveHTTPAddr string
)

func init() {
	defaults := network.DefaultConfig()
	serveCmd.Flags().StringVar(&serveAddr, "addr", defaults.Address, "SSH listen address")
	serveCmd.Flags().StringVar(&serveKey, "key", defaults.HostKeyPath, "PEM host key, generated when missing")
	serveCmd.Flags().IntVar(&serveMax, "max-sessions", defaults.MaxSessions, "concurrent players, 0 is unlimited")
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "serve server metrics on this address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the piano to SSH clients",
	Long:  `Every SSH client gets its own silent game session. Connect with: ssh -t -p 2222 <host>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	log := serverLogger(debugFlag)
	slog.SetDefault(log)
	reg := status.NewRegistry()

	cfg := network.DefaultConfig()
	cfg.Address = serveAddr
	cfg.HostKeyPath = serveKey
	cfg.MaxSessions = serveMax

	// Remote players hear nothing, audio would play on the server
	handler := func(ctx context.Context, peer *network.Peer, screen tcell.Screen) error {
		sess, err := session.New(session.Config{
			ID:       peer.ID,
			Screen:   screen,
			Registry: status.NewRegistry(),
			Logger:   log,
		})
		if err != nil {
			return err
		}
		return sess.Run(ctx)
	}

	srv, err := network.NewServer(cfg, handler, reg, log)
	if err != nil {
		return err
	}
	if srv.Ephemeral {
		log.Info("generated new host key", "path", cfg.HostKeyPath)
	}

	if serveHTTPAddr != "" {
		api := spectate.NewServer(serveHTTPAddr, nil, reg, log)
		core.Go(func() {
			if err := api.ListenAndServe(ctx); err != nil {
				log.Error("metrics api stopped", "error", err)
			}
		})
	}

	return srv.ListenAndServe(ctx)
}
