package network

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrServerFull is returned when MaxSessions players are connected
var ErrServerFull = errors.New("server full")

// ConnState represents connection lifecycle state
type ConnState uint8

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

// Peer is one connected SSH player
type Peer struct {
	ID          string
	User        string
	Addr        string
	ConnectedAt time.Time
	State       atomic.Uint32 // ConnState
}

// PeerManager tracks connected players and enforces the session limit
type PeerManager struct {
	mu       sync.RWMutex
	peers    map[string]*Peer
	maxPeers int
	total    atomic.Int64

	// Callbacks
	onConnect    func(*Peer)
	onDisconnect func(*Peer)
}

// NewPeerManager creates a peer manager
func NewPeerManager(maxPeers int) *PeerManager {
	return &PeerManager{
		peers:    make(map[string]*Peer),
		maxPeers: maxPeers,
	}
}

// SetHandlers configures lifecycle callbacks, called outside the lock
func (pm *PeerManager) SetHandlers(onConnect, onDisconnect func(*Peer)) {
	pm.onConnect = onConnect
	pm.onDisconnect = onDisconnect
}

// Add registers a new player, failing with ErrServerFull at the limit
func (pm *PeerManager) Add(user, addr string) (*Peer, error) {
	pm.mu.Lock()
	if pm.maxPeers > 0 && len(pm.peers) >= pm.maxPeers {
		pm.mu.Unlock()
		return nil, ErrServerFull
	}
	p := &Peer{
		ID:          uuid.NewString(),
		User:        user,
		Addr:        addr,
		ConnectedAt: time.Now(),
	}
	p.State.Store(uint32(StateConnected))
	pm.peers[p.ID] = p
	pm.mu.Unlock()

	pm.total.Add(1)
	if pm.onConnect != nil {
		pm.onConnect(p)
	}
	return p, nil
}

// Remove forgets a player; unknown ids are ignored
func (pm *PeerManager) Remove(id string) {
	pm.mu.Lock()
	p, ok := pm.peers[id]
	delete(pm.peers, id)
	pm.mu.Unlock()
	if !ok {
		return
	}

	p.State.Store(uint32(StateDisconnected))
	if pm.onDisconnect != nil {
		pm.onDisconnect(p)
	}
}

// Get retrieves a player by ID
func (pm *PeerManager) Get(id string) (*Peer, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok := pm.peers[id]
	return p, ok
}

// Count returns connected players
func (pm *PeerManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Total returns players accepted since start
func (pm *PeerManager) Total() int64 {
	return pm.total.Load()
}
