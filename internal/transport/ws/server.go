package ws

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cwrk-planet/course-relay/internal/relay"

	"github.com/gorilla/websocket"
)

type Hub interface {
	Connect(c *relay.Connection) error
	Receive(c *relay.Connection, raw []byte) error
	Disconnect(c *relay.Connection) error
}

type Config struct {
	ReadLimit      int64
	PingEvery      time.Duration
	SendBuffer     int
	AllowedOrigins []string
}

type Server struct {
	upgrader websocket.Upgrader
	hub      Hub
	log      *slog.Logger
	cfg      Config

	mu    sync.Mutex
	peers map[*wsConn]struct{}
}

func NewServer(hub Hub, log *slog.Logger, cfg Config) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = 1 << 20
	}
	if cfg.PingEvery <= 0 {
		cfg.PingEvery = 15 * time.Second
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}

	s := &Server{
		hub:   hub,
		log:   log,
		cfg:   cfg,
		peers: make(map[*wsConn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// HandleWS upgrades the request and serves the relay until the peer goes away.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.log.Warn("ws upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := newWsConn(conn, r.RemoteAddr, s.cfg.SendBuffer)
	rc := relay.NewConnection(c)
	s.track(c)
	defer s.untrack(c)

	if err := s.hub.Connect(rc); err != nil {
		s.log.Warn("ws connect rejected", "conn", c.id, "err", err)
		_ = c.Close()
		return
	}
	s.log.Debug("ws connected", "conn", c.id, "remote", c.remote)

	go s.writeLoop(c)
	s.readLoop(rc, c)

	if err := s.hub.Disconnect(rc); err != nil && !errors.Is(err, relay.ErrHubStopped) {
		s.log.Warn("ws disconnect failed", "conn", c.id, "err", err)
	}
	if err := c.Close(); err != nil {
		s.log.Debug("ws close failed", "conn", c.id, "err", err)
	}
	s.log.Debug("ws disconnected", "conn", c.id, "remote", c.remote)
}

// CloseAll closes every live connection; their handlers then run the usual
// disconnect path.
func (s *Server) CloseAll() int {
	s.mu.Lock()
	peers := make([]*wsConn, 0, len(s.peers))
	for c := range s.peers {
		peers = append(peers, c)
	}
	s.mu.Unlock()

	for _, c := range peers {
		_ = c.Close()
	}
	return len(peers)
}

func (s *Server) readLoop(rc *relay.Connection, c *wsConn) {
	defer c.markClosing()

	c.conn.SetReadLimit(s.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.cfg.PingEvery))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * s.cfg.PingEvery))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("ws read failed", "conn", c.id, "err", err)
			}
			return
		}
		if err := s.hub.Receive(rc, data); err != nil {
			s.log.Warn("ws drop inbound frame", "conn", c.id, "err", err)
			return
		}
	}
}

func (s *Server) writeLoop(c *wsConn) {
	ticker := time.NewTicker(s.cfg.PingEvery)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.log.Debug("ws write failed", "conn", c.id, "err", err)
				_ = c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				s.log.Debug("ws ping failed", "conn", c.id, "err", err)
				_ = c.Close()
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimRight(allowed, "/"), u.Scheme+"://"+u.Host) {
			return true
		}
	}
	s.log.Warn("ws origin rejected", "origin", origin)
	return false
}

func (s *Server) track(c *wsConn) {
	s.mu.Lock()
	s.peers[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(c *wsConn) {
	s.mu.Lock()
	delete(s.peers, c)
	s.mu.Unlock()
}
