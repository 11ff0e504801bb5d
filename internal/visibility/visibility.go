// Package visibility implements per-player line-of-sight and the
// fog-of-war memory that lets a player continue to see terrain they have
// discovered even when it later falls out of line of sight. Cells beyond
// Radius are not rendered, remembered or not.
package visibility

import (
	"math"

	"github.com/prishaAgg/nuggets-server/internal/geometry"
	"github.com/prishaAgg/nuggets-server/internal/mapgrid"
)

// Radius is the maximum squared-distance-eligible range for line-of-sight.
const Radius = 5

// isInsideVert tests whether pos is "in room" with respect to the vertical
// axis: if pos falls on an integer row, test it directly; otherwise the
// line grazes a wall only if at least one of the two adjacent rows is open.
func isInsideVert(g *mapgrid.Grid, pos geometry.Position) bool {
	if pos.Y == math.Trunc(pos.Y) {
		return g.InRoom(pos)
	}
	up := geometry.New(pos.X, math.Ceil(pos.Y))
	down := geometry.New(pos.X, math.Floor(pos.Y))
	return g.InRoom(up) || g.InRoom(down)
}

// isInsideHoriz is isInsideVert's mirror image across the horizontal axis.
func isInsideHoriz(g *mapgrid.Grid, pos geometry.Position) bool {
	if pos.X == math.Trunc(pos.X) {
		return g.InRoom(pos)
	}
	right := geometry.New(math.Ceil(pos.X), pos.Y)
	left := geometry.New(math.Floor(pos.X), pos.Y)
	return g.InRoom(right) || g.InRoom(left)
}

// CheckVisible reports whether a and b can see each other through g. The
// relation is symmetric: swapping a and b yields the same result, since the
// line through them and the integer crossings sampled along it do not
// depend on which endpoint is "first."
func CheckVisible(g *mapgrid.Grid, a, b geometry.Position) bool {
	line := geometry.NewLine(a, b)

	// Passage corners are opaque on diagonals: this prevents seeing around
	// a corner into a passage cell.
	if (g.GetSymbol(a) == '#' || g.GetSymbol(b) == '#') && line.IsDiagonal() {
		return false
	}

	if a.X != b.X {
		left, right := a, b
		if left.X > right.X {
			left, right = right, left
		}
		for x := left.X + 1; x < right.X; x++ {
			y := line.YAt(x)
			if !isInsideVert(g, geometry.New(x, y)) {
				return false
			}
		}
	}

	if a.Y != b.Y {
		up, down := a, b
		if up.Y > down.Y {
			up, down = down, up
		}
		for y := up.Y + 1; y < down.Y; y++ {
			x := line.XAt(y)
			if !isInsideHoriz(g, geometry.New(x, y)) {
				return false
			}
		}
	}

	return true
}

// inRange reports whether q is within Radius of p (squared-distance test,
// avoiding a sqrt).
func inRange(p, q geometry.Position) bool {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx+dy*dy <= float64(Radius*Radius)
}

// Viewer is the subset of player state the perspective renderer needs: a
// position and the monotonically growing set of cell keys ever seen. The
// coordinator's player.Player satisfies this.
type Viewer interface {
	Position() geometry.Position
	HasSeen(key string) bool
	MarkSeen(key string)
}

// Render computes the perspective grid for one player: a blank canvas of
// the same dimensions as g where the player's own cell is '@', every
// cell within Radius that is currently visible or previously seen shows
// current authoritative terrain, and everything else (including
// previously-seen cells beyond Radius) is blank. It is a pure function of
// (g, viewer's position, viewer's viewed set) except for the side effect of
// recording newly-seen cells into the viewer, matching calc_grid.
func Render(g *mapgrid.Grid, v Viewer) *mapgrid.Grid {
	out := mapgrid.Blank(g.Width(), g.Height())
	self := v.Position()

	for x := 0; x < g.RowStride(); x++ {
		for y := 0; y < g.ColStride(); y++ {
			cell := geometry.New(float64(x), float64(y))

			if cell.X == self.X && cell.Y == self.Y {
				out.SetSymbol(cell, '@')
				continue
			}

			if !inRange(self, cell) {
				continue
			}

			key := geometry.Key(cell)
			switch {
			case v.HasSeen(key):
				out.SetSymbol(cell, g.GetSymbol(cell))
			case CheckVisible(g, cell, self):
				v.MarkSeen(key)
				out.SetSymbol(cell, g.GetSymbol(cell))
			}
		}
	}

	return out
}
