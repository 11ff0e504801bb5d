package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prishaAgg/nuggets-server/internal/protocol"
)

func TestDecodeClientMessage(t *testing.T) {
	cases := []struct {
		line string
		want protocol.ClientMessage
	}{
		{"PLAY alice", protocol.Play{Name: "alice"}},
		{"SPECTATE", protocol.Spectate{}},
		{"KEY h", protocol.Key{Ch: 'h'}},
		{"KEY Q", protocol.Key{Ch: 'Q'}},
		{"nonsense", protocol.Unknown{Raw: "nonsense"}},
		{"KEY ", protocol.Unknown{Raw: "KEY "}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, protocol.DecodeClientMessage(c.line))
	}
}

func TestSanitizeNameReplacesInvalidCharsAndTruncates(t *testing.T) {
	name, ok := protocol.SanitizeName("ali\x01ce")
	assert.True(t, ok)
	assert.Equal(t, "ali_ce", name)

	long := make([]byte, protocol.MaxNameLength+10)
	for i := range long {
		long[i] = 'x'
	}
	name, ok = protocol.SanitizeName(string(long))
	assert.True(t, ok)
	assert.Len(t, name, protocol.MaxNameLength)
}

func TestSanitizeNameRejectsAllInvalid(t *testing.T) {
	_, ok := protocol.SanitizeName("\x01\x02\x03")
	assert.False(t, ok)
}

func TestEncodeHelpers(t *testing.T) {
	assert.Equal(t, "OK A", protocol.EncodeOK('A'))
	assert.Equal(t, "GRID 21 80", protocol.EncodeGrid(21, 80))
	assert.Equal(t, "GOLD 5 5 245", protocol.EncodeGold(5, 5, 245))
	assert.Equal(t, "QUIT bye", protocol.EncodeQuit("bye"))
	assert.Equal(t, "ERROR usage: unknown keystroke", protocol.EncodeError("usage: unknown keystroke"))
	assert.Equal(t, "DISPLAY\nabc\ndef", protocol.EncodeDisplay([]string{"abc", "def"}))
}

func TestParseSeedDistinguishesAbsentFromZero(t *testing.T) {
	seed, present, err := protocol.ParseSeed("")
	assert.NoError(t, err)
	assert.False(t, present)
	assert.Zero(t, seed)

	seed, present, err = protocol.ParseSeed("0")
	assert.NoError(t, err)
	assert.True(t, present)
	assert.Zero(t, seed)

	_, _, err = protocol.ParseSeed("not-a-number")
	assert.Error(t, err)

	_, present, err = protocol.ParseSeed("-1")
	assert.Error(t, err)
	assert.True(t, present)
}
