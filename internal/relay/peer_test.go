package relay

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

type fakePeer struct {
	id string

	mu    sync.Mutex
	state State
	full  bool
	got   [][]byte
}

func newPeer(id string) *fakePeer {
	return &fakePeer{id: id}
}

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *fakePeer) Send(payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.full {
		return ErrPeerQueueFull
	}
	p.got = append(p.got, payload)
	return nil
}

func (p *fakePeer) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *fakePeer) received() []ChatEnvelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ChatEnvelope, 0, len(p.got))
	for _, raw := range p.got {
		var env ChatEnvelope
		if err := json.Unmarshal(raw, &env); err == nil {
			out = append(out, env)
		}
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
