// Package protocol encodes and decodes the ASCII line protocol spoken
// between clients and the coordinator. The wire format is deliberately
// line-oriented ASCII, and this package is the one encode/decode boundary
// the rest of the server never reaches past.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxNameLength is the longest PLAY name accepted before truncation.
const MaxNameLength = 50

// ClientMessage is the decoded form of one line a client sent.
type ClientMessage interface {
	isClientMessage()
}

// Play requests joining as a named player.
type Play struct{ Name string }

// Spectate requests becoming (or replacing) the spectator.
type Spectate struct{}

// Key delivers one keystroke: a movement letter or 'Q' to quit.
type Key struct{ Ch byte }

// Unknown is any line that does not match a known command. handle_message's
// implicit fallthrough sends nothing back for these, matching the Ignored
// error kind: dropped silently, no broadcast, no error, no state change.
type Unknown struct{ Raw string }

func (Play) isClientMessage()     {}
func (Spectate) isClientMessage() {}
func (Key) isClientMessage()      {}
func (Unknown) isClientMessage()  {}

// DecodeClientMessage parses one line of client input.
func DecodeClientMessage(line string) ClientMessage {
	switch {
	case strings.HasPrefix(line, "KEY "):
		rest := line[len("KEY "):]
		if rest == "" {
			return Unknown{Raw: line}
		}
		return Key{Ch: rest[0]}
	case line == "SPECTATE":
		return Spectate{}
	case strings.HasPrefix(line, "PLAY "):
		return Play{Name: line[len("PLAY "):]}
	default:
		return Unknown{Raw: line}
	}
}

// SanitizeName truncates name to MaxNameLength and replaces any character
// that is neither graphic nor blank with '_'. It returns ok=false if the
// result contains no valid (graphic-or-blank) character at all, matching
// sanitize_name's rejection of an all-invalid name.
func SanitizeName(name string) (sanitized string, ok bool) {
	if len(name) > MaxNameLength {
		name = name[:MaxNameLength]
	}

	out := []byte(name)
	valid := false
	for i, c := range out {
		if isGraph(c) || isBlank(c) {
			valid = true
		} else {
			out[i] = '_'
		}
	}
	if !valid {
		return "", false
	}
	return string(out), true
}

// isGraph mirrors C's isgraph: printable and not a space.
func isGraph(c byte) bool {
	return c > 0x20 && c < 0x7f
}

// isBlank mirrors C's isblank: space or tab.
func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// EncodeOK formats the OK reply a freshly-joined player receives, carrying
// its assigned letter.
func EncodeOK(letter byte) string {
	return fmt.Sprintf("OK %c", letter)
}

// EncodeGrid formats the GRID dimensions message, matching
// "GRID %d %d" (height, width) sent at join time in handle_message.
func EncodeGrid(height, width int) string {
	return fmt.Sprintf("GRID %d %d", height, width)
}

// EncodeGold formats a GOLD update: nuggets just collected, the receiving
// player's running purse, and the total remaining uncollected gold.
// Matches send_gold_message's "GOLD %d %d %d".
func EncodeGold(collected, purse, remaining int) string {
	return fmt.Sprintf("GOLD %d %d %d", collected, purse, remaining)
}

// EncodeDisplay formats a DISPLAY frame: the literal header line followed by
// one line per grid row. Matches format_grid_message.
func EncodeDisplay(rows []string) string {
	var b strings.Builder
	b.WriteString("DISPLAY\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// EncodeQuit formats a QUIT notice with a free-form reason.
func EncodeQuit(reason string) string {
	return "QUIT " + reason
}

// EncodeError formats an ERROR notice, matching process_keystroke's
// "ERROR usage: unknown keystroke" for an unrecognized keystroke.
func EncodeError(reason string) string {
	return "ERROR " + reason
}

// GameOverLine formats one scoreboard row of the final QUIT GAME OVER
// summary, matching game_over's "%c %d %s" per-player line.
func GameOverLine(letter byte, score int, name string) string {
	return fmt.Sprintf("%c %d %s", letter, score, name)
}

// EncodeGameOver assembles the full "QUIT GAME OVER:" summary from
// already-formatted per-player lines, in the order the caller supplies them
// (the coordinator sorts by score descending before calling this).
func EncodeGameOver(lines []string) string {
	var b strings.Builder
	b.WriteString("QUIT GAME OVER:\n")
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// ParseSeed parses the optional CLI seed argument, distinguishing "absent"
// from "present and zero": presence, not value, selects whether the caller
// falls back to a process-derived seed.
func ParseSeed(arg string) (seed int64, present bool, err error) {
	if arg == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n < 0 {
		return 0, true, fmt.Errorf("protocol: invalid seed %q: must be a non-negative integer", arg)
	}
	return n, true, nil
}
