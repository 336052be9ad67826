package relay

import "errors"

// State is the liveness of a peer.
type State int32

const (
	StateOpen State = iota
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	ErrPeerNotOpen   = errors.New("peer not open")
	ErrPeerQueueFull = errors.New("peer send queue full")
)

// Peer is the transport side of a connection. Send must not block.
type Peer interface {
	ID() string
	State() State
	Send(payload []byte) error
}

// Connection is a peer plus its room membership. The room field is only
// read and written by the Hub goroutine.
type Connection struct {
	peer   Peer
	room   string
	inRoom bool
}

func NewConnection(p Peer) *Connection {
	return &Connection{peer: p}
}

func (c *Connection) ID() string { return c.peer.ID() }

// Room reports the room the connection last joined, if any.
func (c *Connection) Room() (string, bool) { return c.room, c.inRoom }

func (c *Connection) Open() bool { return c.peer.State() == StateOpen }

// Send delivers payload when the peer is open. A peer that is not open is
// an expected race, reported as ErrPeerNotOpen and otherwise ignored.
func (c *Connection) Send(payload []byte) error {
	if !c.Open() {
		return ErrPeerNotOpen
	}
	return c.peer.Send(payload)
}

func (c *Connection) setRoom(room string) {
	c.room, c.inRoom = room, true
}

func (c *Connection) clearRoom() {
	c.room, c.inRoom = "", false
}
