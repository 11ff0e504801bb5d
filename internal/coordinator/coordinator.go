// Package coordinator implements the single-threaded, message-driven game
// state machine: join/spectate/keystroke/quit handling, movement and gold
// collection, and the per-turn broadcast to every connected client.
//
// A single goroutine processes one decoded message at a time with no
// internal concurrency, so Coordinator owns all mutable game state without
// any mutexes or ticker.
package coordinator

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/prishaAgg/nuggets-server/internal/geometry"
	"github.com/prishaAgg/nuggets-server/internal/gold"
	"github.com/prishaAgg/nuggets-server/internal/mapgrid"
	"github.com/prishaAgg/nuggets-server/internal/metrics"
	"github.com/prishaAgg/nuggets-server/internal/player"
	"github.com/prishaAgg/nuggets-server/internal/protocol"
	"github.com/prishaAgg/nuggets-server/internal/transport"
	"github.com/prishaAgg/nuggets-server/internal/visibility"
)

// movement maps each lowercase keystroke letter to its (dx, dy) delta.
// Uppercase letters share the same delta and additionally request
// continuous movement.
var movement = map[byte][2]int{
	'h': {-1, 0}, 'l': {1, 0}, 'j': {0, 1}, 'k': {0, -1},
	'y': {-1, -1}, 'u': {1, -1}, 'b': {-1, 1}, 'n': {1, 1},
}

// Coordinator owns all live game state and processes exactly one client
// message at a time.
type Coordinator struct {
	log *slog.Logger
	rng *rand.Rand
	tx  transport.Transport
	met *metrics.Metrics

	mainGrid     *mapgrid.Grid
	originalGrid *mapgrid.Grid
	totalGold    int

	players    *player.Table
	spectator  transport.Addr
	hasSpec    bool

	cache *visibility.Cache
	over  bool
}

// New constructs a coordinator for the given loaded map, seeded RNG, and
// transport. It distributes gold across the map immediately, before the
// message loop begins.
func New(g *mapgrid.Grid, rng *rand.Rand, tx transport.Transport, met *metrics.Metrics, log *slog.Logger) *Coordinator {
	original := g.Clone()
	piles := gold.Distribute(g, rng)
	log.Info("gold distributed", "piles", piles, "total", gold.Total)

	return &Coordinator{
		log:          log,
		rng:          rng,
		tx:           tx,
		met:          met,
		mainGrid:     g,
		originalGrid: original,
		totalGold:    gold.Total,
		players:      player.NewTable(),
		cache:        visibility.NewCache(),
	}
}

// Over reports whether the game has ended (all gold collected).
func (c *Coordinator) Over() bool {
	return c.over
}

// Run ranges over the transport's inbound datagram stream, calling Handle
// synchronously for each one, until the game ends or ctx is cancelled.
// There is no internal concurrency: the next datagram is only dequeued once
// Handle (including its broadcast) has fully returned.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-c.tx.Inbound():
			if !ok {
				return nil
			}
			c.Handle(d)
			if c.over {
				return nil
			}
		}
	}
}

// Handle processes one inbound datagram: decode, dispatch, broadcast.
func (c *Coordinator) Handle(d transport.Datagram) {
	if c.over {
		return
	}

	msg := protocol.DecodeClientMessage(string(d.Payload))
	switch m := msg.(type) {
	case protocol.Play:
		c.join(d.From, m.Name)
	case protocol.Spectate:
		c.spectate(d.From)
	case protocol.Key:
		c.keystroke(d.From, m.Ch)
	case protocol.Unknown:
		// Ignored per the error-kind table: unknown verbs are silently
		// dropped, no broadcast, no error back, no state change.
		c.log.Warn("unrecognized message", "from", d.From, "raw", m.Raw)
	}
}

func (c *Coordinator) send(addr transport.Addr, line string) {
	if err := c.tx.Send(addr, []byte(line)); err != nil {
		c.log.Warn("send failed", "to", addr, "error", err)
		c.met.DroppedSends.Inc()
	}
}

// join handles "PLAY name". Re-joining from an address already on the
// roster is treated as idempotent by resending the existing player's
// welcome state rather than creating a second record for the same address.
func (c *Coordinator) join(from transport.Addr, rawName string) {
	if existing := c.players.ByAddr(from); existing != nil {
		c.send(from, protocol.EncodeOK(existing.Letter))
		c.send(from, protocol.EncodeGrid(c.mainGrid.Height(), c.mainGrid.Width()))
		c.send(from, protocol.EncodeGold(0, existing.Score, c.totalGold))
		c.broadcast()
		return
	}

	if c.players.Full() {
		c.send(from, protocol.EncodeQuit("Game is full: no more players can join."))
		return
	}

	name, ok := protocol.SanitizeName(rawName)
	if !ok {
		c.send(from, protocol.EncodeQuit("Sorry - you must provide a valid player's name."))
		return
	}

	letter := c.players.NextLetter()
	p := player.New(name, letter, from)
	p.Pos = c.randomRoomPosition()
	c.mainGrid.SetSymbol(p.Pos, letter)
	c.players.Add(p)
	c.met.PlayersJoined.Inc()

	c.send(from, protocol.EncodeOK(letter))
	c.send(from, protocol.EncodeGrid(c.mainGrid.Height(), c.mainGrid.Width()))
	c.send(from, protocol.EncodeGold(0, 0, c.totalGold))
	c.broadcast()
}

// randomRoomPosition finds an unoccupied '.' cell via rejection sampling.
func (c *Coordinator) randomRoomPosition() geometry.Position {
	for {
		x := c.rng.Intn(c.mainGrid.Width())
		y := c.rng.Intn(c.mainGrid.Height())
		pos := geometry.New(float64(x), float64(y))
		if c.mainGrid.GetSymbol(pos) == '.' {
			return pos
		}
	}
}

// spectate handles "SPECTATE": replacing any existing spectator and
// welcoming the new one with dimensions and a gold summary.
func (c *Coordinator) spectate(from transport.Addr) {
	if c.hasSpec && c.spectator != from {
		c.send(c.spectator, protocol.EncodeQuit("You have been replaced by a new spectator."))
	}
	c.spectator = from
	c.hasSpec = true

	c.send(from, protocol.EncodeGrid(c.mainGrid.Height(), c.mainGrid.Width()))
	c.send(from, protocol.EncodeGold(0, 0, c.totalGold))
	c.broadcast()
}

// keystroke handles "KEY <ch>": quit, movement (with optional continuous
// repeat for uppercase), and gold collection. Both 'Q' and 'q' quit.
func (c *Coordinator) keystroke(from transport.Addr, ch byte) {
	if ch == 'Q' || ch == 'q' {
		c.quit(from)
		return
	}

	p := c.players.ByAddr(from)
	if p == nil {
		// A spectator pressing a movement key, or a stale address: silently
		// ignored, there is no player record to move.
		return
	}

	lower := ch
	if lower >= 'A' && lower <= 'Z' {
		lower += 'a' - 'A'
	}
	delta, ok := movement[lower]
	if !ok {
		c.send(from, protocol.EncodeError("usage: unknown keystroke"))
		return
	}
	continuous := ch >= 'A' && ch <= 'Z'

	for {
		moved := c.step(p, delta[0], delta[1])
		if !moved || !continuous {
			break
		}
	}
	c.broadcast()
}

// step advances p by (dx, dy) once, handling the invalid-move, swap, and
// plain-move cases, then collects any gold at the player's resulting cell.
// Returns whether the player's position actually changed (a blocked move or
// an unoccupied target with no swap still counts as "moved" here only when
// a position change occurred; continuous movement stops as soon as a step
// is blocked).
func (c *Coordinator) step(p *player.Player, dx, dy int) bool {
	next := geometry.New(p.Pos.X+float64(dx), p.Pos.Y+float64(dy))
	if !c.mainGrid.ValidForMovement(next) {
		return false
	}

	if other := c.players.AtPosition(next); other != nil {
		p.Pos, other.Pos = other.Pos, p.Pos
		c.mainGrid.SetSymbol(p.Pos, p.Letter)
		c.mainGrid.SetSymbol(other.Pos, other.Letter)
	} else {
		c.mainGrid.SetSymbol(p.Pos, c.originalGrid.GetSymbol(p.Pos))
		p.Pos = next
		c.mainGrid.SetSymbol(p.Pos, p.Letter)
	}

	c.collectGold(p)
	return true
}

// collectGold awards any nuggets at p's current position to p, notifies
// every other player of the updated total remaining, and ends the game
// once the last pile is collected.
func (c *Coordinator) collectGold(p *player.Player) {
	nuggets := c.mainGrid.GetGold(p.Pos)
	if nuggets <= 0 {
		return
	}

	p.Score += nuggets
	c.mainGrid.RemoveGold(p.Pos)
	c.totalGold -= nuggets
	c.met.GoldCollected.Add(float64(nuggets))
	c.met.GoldRemaining.Set(float64(c.totalGold))

	c.send(p.Addr, protocol.EncodeGold(nuggets, p.Score, c.totalGold))
	for _, other := range c.players.All() {
		if other.Addr != p.Addr {
			c.send(other.Addr, protocol.EncodeGold(0, other.Score, c.totalGold))
		}
	}
	if c.hasSpec {
		c.send(c.spectator, protocol.EncodeGold(0, 0, c.totalGold))
	}

	if c.totalGold == 0 {
		c.gameOver()
	}
}

// quit handles "KEY Q" or "KEY q" for either a player or the spectator. The
// spectator branch clears Coordinator's own spectator field directly, so no
// stale spectator state can be left behind after a spectator quits.
func (c *Coordinator) quit(from transport.Addr) {
	if c.hasSpec && c.spectator == from {
		c.send(from, protocol.EncodeQuit("Thanks for watching!"))
		c.hasSpec = false
		c.spectator = transport.Addr{}
		return
	}

	p := c.players.ByAddr(from)
	if p == nil {
		return
	}
	c.send(from, protocol.EncodeQuit("Thanks for playing!"))
	c.mainGrid.SetSymbol(p.Pos, c.originalGrid.GetSymbol(p.Pos))
	c.players.Remove(from)
	c.cache.Remove(uint32(p.Letter))
	c.met.PlayersQuit.Inc()
	c.broadcast()
}

// broadcast sends each player their perspective DISPLAY frame and the
// spectator the full grid. The broadcast-before-next-message ordering
// guarantee falls directly out of Handle calling this synchronously before
// returning to its caller's receive loop.
func (c *Coordinator) broadcast() {
	c.cache.InvalidateAll()

	for _, p := range c.players.All() {
		frame := c.cache.Get(c.mainGrid, uint32(p.Letter), p)
		c.send(p.Addr, protocol.EncodeDisplay(frame.Rows()))
	}
	if c.hasSpec {
		c.send(c.spectator, protocol.EncodeDisplay(c.mainGrid.Rows()))
	}
	c.met.Broadcasts.Inc()
	c.met.SampleVisibilityCache(c.cache.Stats())
}

// gameOver sorts the roster by score, sends the final summary to every
// player and the spectator, and marks the coordinator done.
func (c *Coordinator) gameOver() {
	c.players.SortByScoreDescending()

	lines := make([]string, 0, c.players.Len())
	for _, p := range c.players.All() {
		lines = append(lines, protocol.GameOverLine(p.Letter, p.Score, p.Name))
	}
	summary := protocol.EncodeGameOver(lines)

	for _, p := range c.players.All() {
		c.send(p.Addr, summary)
	}
	if c.hasSpec {
		c.send(c.spectator, summary)
	}

	c.over = true
	c.log.Info("game over", "players", c.players.Len())
}
