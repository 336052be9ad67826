package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(discardLogger(), nil, 16)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.Done()
	})
	return h
}

func snapshot(t *testing.T, h *Hub) map[string][]string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	snap, err := h.Snapshot(ctx)
	require.NoError(t, err)
	return snap
}

func TestHubEndToEnd(t *testing.T) {
	h := startHub(t)
	pa, pb := newPeer("a"), newPeer("b")
	a, b := NewConnection(pa), NewConnection(pb)

	require.NoError(t, h.Connect(a))
	require.NoError(t, h.Connect(b))
	require.NoError(t, h.Receive(a, []byte(`{"type":"join","room":"lobby"}`)))
	require.NoError(t, h.Receive(b, []byte(`{"type":"join","room":"lobby"}`)))
	require.NoError(t, h.Receive(a, []byte(`{"type":"chat","text":"hi"}`)))

	assert.Equal(t, map[string][]string{"lobby": {"a", "b"}}, snapshot(t, h))
	assert.Equal(t, []ChatEnvelope{{Type: "chat", Room: "lobby", Text: "hi"}}, pb.received())
	assert.Empty(t, pa.received())

	pb.setState(StateClosed)
	require.NoError(t, h.Disconnect(b))
	assert.Equal(t, map[string][]string{"lobby": {"a"}}, snapshot(t, h))

	require.NoError(t, h.Receive(a, []byte(`{"type":"chat","text":"alone"}`)))
	require.NoError(t, h.Disconnect(a))
	assert.Empty(t, snapshot(t, h))
	assert.Len(t, pb.received(), 1)
}

func TestHubIgnoresUnknownConnections(t *testing.T) {
	h := startHub(t)
	a := NewConnection(newPeer("a"))

	require.NoError(t, h.Receive(a, []byte(`{"type":"join","room":"lobby"}`)))
	require.NoError(t, h.Disconnect(a))

	assert.Empty(t, snapshot(t, h))
}

func TestHubDuplicateDisconnect(t *testing.T) {
	h := startHub(t)
	a := NewConnection(newPeer("a"))

	require.NoError(t, h.Connect(a))
	require.NoError(t, h.Receive(a, []byte(`{"type":"join","room":"lobby"}`)))
	require.NoError(t, h.Disconnect(a))
	require.NoError(t, h.Disconnect(a))

	assert.Empty(t, snapshot(t, h))
}

func TestHubStopped(t *testing.T) {
	h := NewHub(discardLogger(), nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	cancel()
	<-h.Done()

	a := NewConnection(newPeer("a"))
	assert.ErrorIs(t, h.Connect(a), ErrHubStopped)
	assert.ErrorIs(t, h.Receive(a, []byte(`{}`)), ErrHubStopped)
	assert.ErrorIs(t, h.Disconnect(a), ErrHubStopped)

	_, err := h.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrHubStopped)
}

func TestHubSnapshotHonoursContext(t *testing.T) {
	h := NewHub(discardLogger(), nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
