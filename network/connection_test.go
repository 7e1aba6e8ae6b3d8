package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerManagerLimit(t *testing.T) {
	pm := NewPeerManager(2)
	var connected, disconnected []string
	pm.SetHandlers(
		func(p *Peer) { connected = append(connected, p.ID) },
		func(p *Peer) { disconnected = append(disconnected, p.ID) },
	)

	a, err := pm.Add("alice", "1.2.3.4:5")
	require.NoError(t, err)
	b, err := pm.Add("bob", "1.2.3.4:6")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, StateConnected, ConnState(a.State.Load()))

	_, err = pm.Add("carol", "1.2.3.4:7")
	assert.ErrorIs(t, err, ErrServerFull)
	assert.Equal(t, 2, pm.Count())

	pm.Remove(a.ID)
	pm.Remove(a.ID)
	assert.Equal(t, []string{a.ID}, disconnected)
	assert.Equal(t, StateDisconnected, ConnState(a.State.Load()))
	_, ok := pm.Get(a.ID)
	assert.False(t, ok)

	_, err = pm.Add("carol", "1.2.3.4:7")
	require.NoError(t, err)
	assert.Len(t, connected, 3)
	assert.Equal(t, int64(3), pm.Total())
}

func TestPeerManagerUnlimited(t *testing.T) {
	pm := NewPeerManager(0)
	for i := 0; i < 50; i++ {
		_, err := pm.Add("u", "a")
		require.NoError(t, err)
	}
	assert.Equal(t, 50, pm.Count())
}
