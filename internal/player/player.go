// Package player holds the per-player and per-spectator records the
// coordinator tracks across a game: identity, address, position, score,
// and fog-of-war memory.
//
// The coordinator that owns a Table runs single-threaded end to end, so
// fields are plain — no locking is needed since nothing touches a Player
// concurrently.
package player

import (
	"github.com/prishaAgg/nuggets-server/internal/geometry"
	"github.com/prishaAgg/nuggets-server/internal/transport"
)

// MaxPlayers is the maximum number of players that may join over a game's
// lifetime (see Table.Full) — one per letter A-Z.
const MaxPlayers = 26

// MaxNameLength truncates any PLAY name longer than this.
const MaxNameLength = 50

// Player is one connected avatar: its identity, its live position and
// score, and the set of cells it has ever seen.
type Player struct {
	Name    string
	Letter  byte // 'A'..'Z', assigned in join order
	Addr    transport.Addr
	Pos     geometry.Position
	Score   int
	viewed  map[string]struct{}
}

// New constructs a player at the sentinel position (-1, -1) — the
// coordinator assigns a real position during join placement immediately
// afterward.
func New(name string, letter byte, addr transport.Addr) *Player {
	return &Player{
		Name:   name,
		Letter: letter,
		Addr:   addr,
		Pos:    geometry.New(-1, -1),
		viewed: make(map[string]struct{}),
	}
}

// HasSeen reports whether key has ever been recorded as seen. Satisfies
// visibility.Viewer.
func (p *Player) HasSeen(key string) bool {
	_, ok := p.viewed[key]
	return ok
}

// MarkSeen records key as seen. The set only ever grows. Satisfies
// visibility.Viewer.
func (p *Player) MarkSeen(key string) {
	p.viewed[key] = struct{}{}
}

// ViewedCount reports how many distinct cells this player has ever seen,
// used only by tests asserting monotonicity.
func (p *Player) ViewedCount() int {
	return len(p.viewed)
}

// Position satisfies visibility.Viewer.
func (p *Player) Position() geometry.Position { return p.Pos }

// Table tracks the live player roster: join order, letter assignment, and
// address lookup.
//
// Letters are drawn from a monotonic join counter, not from the live roster
// length: a quitting player's letter is never recycled, so a later joiner
// can never collide with a still-live player's letter (matching the
// original's numPlayers-only-increments counter, which is never decremented
// on quit).
type Table struct {
	order  []*Player
	joined int
}

// NewTable constructs an empty roster.
func NewTable() *Table {
	return &Table{}
}

// Len reports the number of live players.
func (t *Table) Len() int {
	return len(t.order)
}

// Full reports whether MaxPlayers have already joined over the table's
// lifetime, not just currently live — a quit never frees up a letter.
func (t *Table) Full() bool {
	return t.joined >= MaxPlayers
}

// NextLetter returns the letter the next joiner would receive.
func (t *Table) NextLetter() byte {
	return 'A' + byte(t.joined)
}

// Add appends p to the roster and advances the join counter. Callers must
// have already checked Full.
func (t *Table) Add(p *Player) {
	t.order = append(t.order, p)
	t.joined++
}

// All returns the roster in join order. The coordinator broadcasts in this
// order, giving every broadcast a deterministic send sequence.
func (t *Table) All() []*Player {
	return t.order
}

// ByAddr finds the player whose address matches addr, or nil.
func (t *Table) ByAddr(addr transport.Addr) *Player {
	for _, p := range t.order {
		if p.Addr == addr {
			return p
		}
	}
	return nil
}

// AtPosition finds the live player occupying pos, or nil.
func (t *Table) AtPosition(pos geometry.Position) *Player {
	for _, p := range t.order {
		if p.Pos.X == pos.X && p.Pos.Y == pos.Y {
			return p
		}
	}
	return nil
}

// Remove deletes p from the roster by address.
func (t *Table) Remove(addr transport.Addr) {
	for i, p := range t.order {
		if p.Addr == addr {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

// SortByScoreDescending orders the roster by score, highest first.
func (t *Table) SortByScoreDescending() {
	// Insertion sort: the roster never exceeds MaxPlayers (26) entries, so
	// an O(n^2) sort is simpler than pulling in sort.Slice for a 26-element
	// worst case.
	for i := 1; i < len(t.order); i++ {
		for j := i; j > 0 && t.order[j-1].Score < t.order[j].Score; j-- {
			t.order[j-1], t.order[j] = t.order[j], t.order[j-1]
		}
	}
}
