package relay

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cwrk-planet/course-relay/internal/metrics"
)

var ErrHubStopped = errors.New("relay hub stopped")

type eventKind int

const (
	eventConnect eventKind = iota
	eventMessage
	eventDisconnect
	eventSnapshot
)

type event struct {
	kind  eventKind
	conn  *Connection
	raw   []byte
	reply chan map[string][]string
}

// Hub serialises every relay event through one goroutine.
type Hub struct {
	rooms      *Registry
	dispatcher *Dispatcher
	conns      map[*Connection]struct{}

	events chan event
	done   chan struct{}

	log     *slog.Logger
	metrics *metrics.Relay
}

// NewHub creates a hub whose event queue holds up to buffer pending events.
func NewHub(log *slog.Logger, m *metrics.Relay, buffer int) *Hub {
	if log == nil {
		log = slog.Default()
	}
	if buffer < 0 {
		buffer = 0
	}
	rooms := NewRegistry()
	return &Hub{
		rooms:      rooms,
		dispatcher: NewDispatcher(rooms, log, m),
		conns:      make(map[*Connection]struct{}),
		events:     make(chan event, buffer),
		done:       make(chan struct{}),
		log:        log,
		metrics:    m,
	}
}

// Run processes events until ctx is cancelled. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.log.Info("relay hub started")

	for {
		select {
		case <-ctx.Done():
			h.log.Info("relay hub stopped", "connections", len(h.conns), "rooms", h.rooms.Len())
			return
		case ev := <-h.events:
			h.handle(ev)
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) Connect(c *Connection) error {
	return h.submit(event{kind: eventConnect, conn: c})
}

// Receive queues an inbound frame from c.
func (h *Hub) Receive(c *Connection, raw []byte) error {
	return h.submit(event{kind: eventMessage, conn: c, raw: raw})
}

func (h *Hub) Disconnect(c *Connection) error {
	return h.submit(event{kind: eventDisconnect, conn: c})
}

// Snapshot returns room id -> member connection ids, taken between events.
func (h *Hub) Snapshot(ctx context.Context) (map[string][]string, error) {
	reply := make(chan map[string][]string, 1)
	if err := h.submitCtx(ctx, event{kind: eventSnapshot, reply: reply}); err != nil {
		return nil, err
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) submit(ev event) error {
	return h.submitCtx(context.Background(), ev)
}

func (h *Hub) submitCtx(ctx context.Context, ev event) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	select {
	case h.events <- ev:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) handle(ev event) {
	switch ev.kind {
	case eventConnect:
		if _, ok := h.conns[ev.conn]; ok {
			return
		}
		h.conns[ev.conn] = struct{}{}
		h.metrics.ConnOpened()
		h.log.Debug("relay: client connected", "conn", ev.conn.ID(), "connections", len(h.conns))

	case eventMessage:
		if _, ok := h.conns[ev.conn]; !ok {
			return
		}
		h.dispatcher.HandleMessage(ev.conn, ev.raw)

	case eventDisconnect:
		if _, ok := h.conns[ev.conn]; !ok {
			return
		}
		h.dispatcher.Close(ev.conn)
		delete(h.conns, ev.conn)
		h.metrics.ConnClosed()
		h.log.Debug("relay: client disconnected", "conn", ev.conn.ID(), "connections", len(h.conns))

	case eventSnapshot:
		ev.reply <- h.snapshot()
	}
}

func (h *Hub) snapshot() map[string][]string {
	out := make(map[string][]string, h.rooms.Len())
	for room := range h.rooms.Rooms() {
		members := h.rooms.Members(room)
		ids := make([]string, 0, len(members))
		for _, c := range members {
			ids = append(ids, c.ID())
		}
		out[room] = ids
	}
	return out
}
