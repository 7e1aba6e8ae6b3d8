// Package network serves the piano to SSH clients, one session per connection
package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"

	"github.com/lixenwraith/vi-piano/core"
	"github.com/lixenwraith/vi-piano/status"
)

// ErrNoHandler is returned by NewServer without a session handler
var ErrNoHandler = errors.New("network: handler is required")

// Handler plays one session on an initialized screen and returns when it ends
// The server finalizes the screen afterwards
type Handler func(ctx context.Context, peer *Peer, screen tcell.Screen) error

// termMu serializes TERM lookups, tcell reads the terminal type from the environment
var termMu sync.Mutex

// Server accepts SSH clients and runs a Handler per PTY session
type Server struct {
	cfg     *Config
	handler Handler
	peers   *PeerManager
	log     *slog.Logger
	srv     *gossh.Server
	// Ephemeral reports whether the host key was generated at startup
	Ephemeral bool
}

// NewServer loads the host key and prepares the SSH server
func NewServer(cfg *Config, handler Handler, reg *status.Registry, log *slog.Logger) (*Server, error) {
	if handler == nil {
		return nil, ErrNoHandler
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	if log == nil {
		log = slog.Default()
	}

	signer, generated, err := LoadOrCreateHostKey(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		handler:   handler,
		peers:     NewPeerManager(cfg.MaxSessions),
		log:       log.With("component", "ssh"),
		Ephemeral: generated,
	}

	active := reg.Ints.Get(status.KeySessions)
	total := reg.Ints.Get(status.KeySessionsTotal)
	s.peers.SetHandlers(
		func(p *Peer) {
			active.Add(1)
			total.Add(1)
			s.log.Info("player connected", "peer", p.ID, "user", p.User, "addr", p.Addr)
		},
		func(p *Peer) {
			active.Add(-1)
			s.log.Info("player disconnected", "peer", p.ID)
		},
	)

	s.srv = &gossh.Server{
		Addr:        cfg.Address,
		Handler:     s.handleSession,
		PtyCallback: func(gossh.Context, gossh.Pty) bool { return true },
		IdleTimeout: cfg.IdleTimeout,
		MaxTimeout:  cfg.MaxTimeout,
		HostSigners: []gossh.Signer{signer},
	}
	return s, nil
}

// Peers returns the connected player registry
func (s *Server) Peers() *PeerManager {
	return s.peers
}

// ListenAndServe listens on the configured address until ctx ends
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx ends, then closes every session
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info("ssh server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, gossh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		// Shutdown waits for idle connections, game sessions never idle out
		s.srv.Close()
		<-errCh
		return nil
	}
}

// handleSession blocks for the lifetime of one SSH session
func (s *Server) handleSession(sess gossh.Session) {
	pty, winCh, hasPTY := sess.Pty()
	if !hasPTY {
		fmt.Fprintln(sess, "vi-piano needs a terminal, connect with: ssh -t")
		sess.Exit(1)
		return
	}

	peer, err := s.peers.Add(sess.User(), sess.RemoteAddr().String())
	if err != nil {
		fmt.Fprintf(sess, "Sorry, %v. Try again later.\r\n", err)
		sess.Exit(1)
		return
	}
	defer s.peers.Remove(peer.ID)

	screen, err := s.newScreen(sess, pty, winCh)
	if err != nil {
		s.log.Warn("screen setup failed", "peer", peer.ID, "error", err)
		fmt.Fprintf(sess, "Terminal setup failed: %v\r\n", err)
		sess.Exit(1)
		return
	}

	done := make(chan error, 1)
	core.GoSafe(func() {
		done <- s.handler(sess.Context(), peer, screen)
	}, func(r any) {
		done <- fmt.Errorf("session panic: %v", r)
	})
	err = <-done
	screen.Fini()

	if err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn("session failed", "peer", peer.ID, "error", err)
		sess.Exit(1)
		return
	}
	sess.Exit(0)
}

func (s *Server) newScreen(sess gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) (tcell.Screen, error) {
	term := pty.Term
	for _, env := range sess.Environ() {
		if v, ok := strings.CutPrefix(env, "TERM="); ok {
			term = v
			break
		}
	}
	if term == "" {
		term = s.cfg.DefaultTerm
	}

	tty := NewSessionTty(sess, pty, winCh)
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}
