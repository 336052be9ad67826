package relay

import (
	"log/slog"

	"github.com/cwrk-planet/course-relay/internal/metrics"
)

// Dispatcher applies decoded envelopes to a Registry. Like the Registry it
// is driven by a single goroutine.
type Dispatcher struct {
	rooms   *Registry
	log     *slog.Logger
	metrics *metrics.Relay
}

func NewDispatcher(rooms *Registry, log *slog.Logger, m *metrics.Relay) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		rooms:   rooms,
		log:     log,
		metrics: m,
	}
}

// HandleMessage decodes raw and performs the matching action. Malformed
// frames are logged and dropped; the connection stays open.
func (d *Dispatcher) HandleMessage(c *Connection, raw []byte) {
	msg, err := Decode(raw)
	if err != nil {
		d.metrics.Frame("malformed")
		d.log.Warn("relay: invalid message", "conn", c.ID(), "err", err)
		return
	}
	d.metrics.Frame(msg.kind())

	switch m := msg.(type) {
	case Join:
		d.Join(c, m.Room)
	case Chat:
		d.Chat(c, m.Text)
	case Unknown:
		d.log.Debug("relay: unknown message type", "conn", c.ID(), "type", m.Type)
	}
}

// Join moves c into room. A connection belongs to at most one room, so a
// previous membership is left first.
func (d *Dispatcher) Join(c *Connection, room string) {
	if prev, ok := c.Room(); ok {
		if prev == room {
			return
		}
		d.leave(c, prev)
	}

	c.setRoom(room)
	if d.rooms.Join(room, c) {
		d.log.Debug("relay: room created", "room", room)
	}
	d.metrics.SetRooms(d.rooms.Len())
	d.log.Info("relay: client joined room", "conn", c.ID(), "room", room)
}

// Chat relays text to the other members of the sender's room and returns
// how many peers accepted it. Without a current room it does nothing.
func (d *Dispatcher) Chat(c *Connection, text string) int {
	room, ok := c.Room()
	if !ok {
		return 0
	}

	payload, err := EncodeChat(room, text)
	if err != nil {
		d.log.Error("relay: encode chat", "conn", c.ID(), "err", err)
		return 0
	}

	delivered, dropped := d.rooms.Broadcast(room, payload, c)
	d.metrics.Deliver(delivered)
	d.metrics.Drop(dropped)
	return delivered
}

// Close runs leave-cleanup for a connection that went away.
func (d *Dispatcher) Close(c *Connection) {
	if room, ok := c.Room(); ok {
		d.leave(c, room)
	}
}

func (d *Dispatcher) leave(c *Connection, room string) {
	if d.rooms.Leave(room, c) {
		d.log.Debug("relay: room removed", "room", room)
	}
	c.clearRoom()
	d.metrics.SetRooms(d.rooms.Len())
}
