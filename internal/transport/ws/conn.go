package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwrk-planet/course-relay/internal/relay"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// wsConn is the relay.Peer for one websocket. The send channel is never
// closed; the write loop stops on closed instead, so Send is safe at any time.
type wsConn struct {
	id     string
	remote string
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}

	state     atomic.Int32
	closeOnce sync.Once
}

func newWsConn(c *websocket.Conn, remote string, buffer int) *wsConn {
	return &wsConn{
		id:     uuid.NewString(),
		remote: remote,
		conn:   c,
		send:   make(chan []byte, buffer),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) State() relay.State { return relay.State(c.state.Load()) }

func (c *wsConn) Send(payload []byte) error {
	if c.State() != relay.StateOpen {
		return relay.ErrPeerNotOpen
	}
	select {
	case <-c.closed:
		return relay.ErrPeerNotOpen
	default:
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return relay.ErrPeerQueueFull
	}
}

// markClosing flips an open connection to closing.
func (c *wsConn) markClosing() {
	c.state.CompareAndSwap(int32(relay.StateOpen), int32(relay.StateClosing))
}

func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.markClosing()
		close(c.closed)
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		err = c.conn.Close()
		c.state.Store(int32(relay.StateClosed))
	})
	return err
}
