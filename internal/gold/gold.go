// Package gold implements the random placement of gold piles across a
// map's room cells at game start.
//
// Pile placement picks a pile count, multinomially divides the total
// nugget count across piles, then places each pile on a random unoccupied
// '.' cell, rewriting it to '*'.
package gold

import (
	"math/rand"

	"github.com/prishaAgg/nuggets-server/internal/geometry"
	"github.com/prishaAgg/nuggets-server/internal/mapgrid"
)

// Total is the number of nuggets distributed across all piles.
const Total = 250

// MinPiles and MaxPiles bound the random pile count.
const (
	MinPiles = 10
	MaxPiles = 30
)

// Distribute scatters Total nuggets across a random number of piles
// (MinPiles..MaxPiles inclusive) onto g's unoccupied room ('.') cells,
// marking each pile cell '*'. It returns the number of piles placed.
//
// rng is caller-supplied so cmd/server can seed it deterministically from
// an optional command-line seed argument, without Distribute reaching for
// the global math/rand source itself.
func Distribute(g *mapgrid.Grid, rng *rand.Rand) int {
	numPiles := MinPiles + rng.Intn(MaxPiles-MinPiles+1)

	distribution := make([]int, numPiles)
	for remaining := Total; remaining > 0; remaining-- {
		distribution[rng.Intn(numPiles)]++
	}

	for _, nuggets := range distribution {
		placePile(g, rng, nuggets)
	}
	return numPiles
}

// placePile finds a random unoccupied room cell and deposits nuggets there.
// The retry loop is unbounded: valid spots always exist in practice because
// a sane map devotes far more room tiles than the gold budget ever needs.
func placePile(g *mapgrid.Grid, rng *rand.Rand, nuggets int) {
	for {
		x := rng.Intn(g.Width())
		y := rng.Intn(g.Height())
		pos := geometry.New(float64(x), float64(y))

		if g.GetSymbol(pos) == '.' && g.GetGold(pos) == 0 {
			g.SetGold(pos, nuggets)
			g.SetSymbol(pos, '*')
			return
		}
	}
}
