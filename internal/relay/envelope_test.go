package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Inbound
	}{
		{"join", `{"type":"join","room":"lobby"}`, Join{Room: "lobby"}},
		{"join without room", `{"type":"join"}`, Join{}},
		{"chat", `{"type":"chat","text":"hi"}`, Chat{Text: "hi"}},
		{"chat ignores room field", `{"type":"chat","room":"other","text":"hi"}`, Chat{Text: "hi"}},
		{"unknown type", `{"type":"leave","room":"lobby"}`, Unknown{Type: "leave"}},
		{"missing type", `{"room":"lobby"}`, Unknown{}},
		{"type is case sensitive", `{"type":"JOIN","room":"lobby"}`, Unknown{Type: "JOIN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		``,
		`{"type":"join"`,
		`["join","lobby"]`,
		`"chat"`,
		`{"type":"join","room":42}`,
		`{"type":7}`,
	} {
		_, err := Decode([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestEncodeChat(t *testing.T) {
	raw, err := EncodeChat("lobby", "hi")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"chat","room":"lobby","text":"hi"}`, string(raw))
}
