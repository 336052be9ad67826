package relay

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryJoinCreatesRoom(t *testing.T) {
	r := NewRegistry()
	a := NewConnection(newPeer("a"))

	assert.True(t, r.Join("lobby", a))
	assert.True(t, r.Has("lobby"))
	assert.Equal(t, []*Connection{a}, r.Members("lobby"))

	assert.False(t, r.Join("lobby", a), "second join must not recreate")
	assert.Len(t, r.Members("lobby"), 1)
}

func TestRegistryLeaveDeletesEmptyRoom(t *testing.T) {
	r := NewRegistry()
	a := NewConnection(newPeer("a"))
	b := NewConnection(newPeer("b"))
	r.Join("lobby", a)
	r.Join("lobby", b)

	assert.False(t, r.Leave("lobby", a))
	assert.Equal(t, []*Connection{b}, r.Members("lobby"))

	assert.True(t, r.Leave("lobby", b))
	assert.False(t, r.Has("lobby"))
	assert.Equal(t, 0, r.Len())
}

func TestRegistryLeaveNoop(t *testing.T) {
	r := NewRegistry()
	a := NewConnection(newPeer("a"))
	b := NewConnection(newPeer("b"))
	r.Join("lobby", a)

	assert.False(t, r.Leave("missing", a))
	assert.False(t, r.Leave("lobby", b))
	assert.Equal(t, map[string]int{"lobby": 1}, r.Rooms())
}

func TestRegistryBroadcast(t *testing.T) {
	r := NewRegistry()
	pa, pb, pc, pd := newPeer("a"), newPeer("b"), newPeer("c"), newPeer("d")
	a, b, c, d := NewConnection(pa), NewConnection(pb), NewConnection(pc), NewConnection(pd)
	r.Join("lobby", a)
	r.Join("lobby", b)
	r.Join("lobby", c)
	r.Join("other", d)
	pc.setState(StateClosing)

	delivered, dropped := r.Broadcast("lobby", []byte(`x`), a)

	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, dropped)
	assert.Empty(t, pa.got)
	assert.Len(t, pb.got, 1)
	assert.Empty(t, pc.got)
	assert.Empty(t, pd.got)
}

func TestRegistryBroadcastAbsentRoom(t *testing.T) {
	r := NewRegistry()
	delivered, dropped := r.Broadcast("ghost", []byte(`x`), nil)
	assert.Zero(t, delivered)
	assert.Zero(t, dropped)
	assert.False(t, r.Has("ghost"))
}

func TestRegistryNeverHoldsEmptyRoom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := NewRegistry()

	conns := make([]*Connection, 8)
	for i := range conns {
		conns[i] = NewConnection(newPeer(fmt.Sprintf("c%d", i)))
	}
	rooms := []string{"a", "b", "c"}

	for step := 0; step < 2000; step++ {
		c := conns[rng.Intn(len(conns))]
		room := rooms[rng.Intn(len(rooms))]
		if rng.Intn(2) == 0 {
			r.Join(room, c)
		} else {
			r.Leave(room, c)
		}

		for id, n := range r.Rooms() {
			require.Positivef(t, n, "room %q empty after step %d", id, step)
		}
	}
}
