package coordinator

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prishaAgg/nuggets-server/internal/geometry"
	"github.com/prishaAgg/nuggets-server/internal/mapgrid"
	"github.com/prishaAgg/nuggets-server/internal/metrics"
	"github.com/prishaAgg/nuggets-server/internal/player"
	"github.com/prishaAgg/nuggets-server/internal/transport"
	"github.com/prishaAgg/nuggets-server/internal/transport/transporttest"
	"github.com/prishaAgg/nuggets-server/internal/visibility"
)

// White-box test: collectGold is easiest to exercise precisely by building a
// Coordinator directly (bypassing New's random gold.Distribute) so the pile
// location and size are exact, rather than relying on the public API to
// land a player on a randomly-placed pile.

func roomGrid(size int) *mapgrid.Grid {
	g := mapgrid.Blank(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			g.SetSymbol(geometry.New(float64(x), float64(y)), '.')
		}
	}
	return g
}

func testAddr(port int) transport.Addr {
	return transport.Addr{Network: "test", Host: "127.0.0.1", Port: port}
}

func TestCollectGoldNotifiesSpectator(t *testing.T) {
	g := roomGrid(5)
	pilePos := geometry.New(2, 2)
	g.SetGold(pilePos, 7)
	g.SetSymbol(pilePos, '*')

	tx := transporttest.New()
	c := &Coordinator{
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		rng:          rand.New(rand.NewSource(1)),
		tx:           tx,
		met:          metrics.New(),
		mainGrid:     g,
		originalGrid: g.Clone(),
		totalGold:    50,
		players:      player.NewTable(),
		cache:        visibility.NewCache(),
	}

	p := player.New("alice", 'A', testAddr(1))
	p.Pos = pilePos
	c.players.Add(p)

	spec := testAddr(2)
	c.spectator = spec
	c.hasSpec = true

	c.collectGold(p)

	msgs := tx.Sent(spec)
	assert.Len(t, msgs, 1)
	assert.Equal(t, "GOLD 0 0 43", string(msgs[0]))
}

func TestCollectGoldSkipsSpectatorWhenNoneConnected(t *testing.T) {
	g := roomGrid(5)
	pilePos := geometry.New(2, 2)
	g.SetGold(pilePos, 3)
	g.SetSymbol(pilePos, '*')

	tx := transporttest.New()
	c := &Coordinator{
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		rng:          rand.New(rand.NewSource(1)),
		tx:           tx,
		met:          metrics.New(),
		mainGrid:     g,
		originalGrid: g.Clone(),
		totalGold:    3,
		players:      player.NewTable(),
		cache:        visibility.NewCache(),
	}

	p := player.New("alice", 'A', testAddr(1))
	p.Pos = pilePos
	c.players.Add(p)

	c.collectGold(p)

	assert.Empty(t, tx.Sent(testAddr(2)))
}
