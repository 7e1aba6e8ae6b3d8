package network

import "time"

// Config holds SSH server configuration
type Config struct {
	// Address to bind
	Address string

	// HostKeyPath is a PEM private key, generated on first start when absent
	// Empty keeps an in-memory key for the process lifetime
	HostKeyPath string

	// Connection limits
	MaxSessions int

	// Timing
	IdleTimeout time.Duration
	MaxTimeout  time.Duration

	// DefaultTerm is used when the client does not send TERM
	DefaultTerm string
}

// DefaultConfig returns production-safe defaults
func DefaultConfig() *Config {
	return &Config{
		Address:     ":2222",
		HostKeyPath: "vi_piano_host_key",
		MaxSessions: 16,
		IdleTimeout: 10 * time.Minute,
		MaxTimeout:  2 * time.Hour,
		DefaultTerm: "xterm-256color",
	}
}

// DebugConfig returns config for local testing with an ephemeral host key
func DebugConfig(addr string) *Config {
	cfg := DefaultConfig()
	cfg.Address = addr
	cfg.HostKeyPath = ""
	cfg.IdleTimeout = 0
	cfg.MaxTimeout = 0
	return cfg
}
