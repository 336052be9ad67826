package relay

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	TypeJoin = "join"
	TypeChat = "chat"
)

var ErrMalformed = errors.New("malformed envelope")

// Inbound is one of Join, Chat or Unknown.
type Inbound interface {
	kind() string
}

type Join struct {
	Room string
}

type Chat struct {
	Text string
}

// Unknown carries the type tag of an envelope the relay does not handle.
type Unknown struct {
	Type string
}

func (Join) kind() string    { return TypeJoin }
func (Chat) kind() string    { return TypeChat }
func (Unknown) kind() string { return "unknown" }

type inboundEnvelope struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Text string `json:"text"`
}

// Decode maps a raw frame onto exactly one Inbound variant. Frames that are
// not a JSON object with string fields fail with ErrMalformed.
func Decode(raw []byte) (Inbound, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case TypeJoin:
		return Join{Room: env.Room}, nil
	case TypeChat:
		return Chat{Text: env.Text}, nil
	default:
		return Unknown{Type: env.Type}, nil
	}
}

// ChatEnvelope is the only outbound message.
type ChatEnvelope struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Text string `json:"text"`
}

func EncodeChat(room, text string) ([]byte, error) {
	return json.Marshal(ChatEnvelope{Type: TypeChat, Room: room, Text: text})
}
