package visibility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prishaAgg/nuggets-server/internal/geometry"
	"github.com/prishaAgg/nuggets-server/internal/mapgrid"
	"github.com/prishaAgg/nuggets-server/internal/visibility"
)

// openRoomGrid builds a size x size grid of plain room floor surrounded by
// a solid wall border, the minimal shape check_visible's tests exercise.
func openRoomGrid(size int) *mapgrid.Grid {
	g := mapgrid.Blank(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			pos := geometry.New(float64(x), float64(y))
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				g.SetSymbol(pos, '-')
			} else {
				g.SetSymbol(pos, '.')
			}
		}
	}
	return g
}

func TestCheckVisibleWithinOpenRoom(t *testing.T) {
	g := openRoomGrid(15)

	assert.True(t, visibility.CheckVisible(g, geometry.New(5, 5), geometry.New(11, 5)))
}

func TestCheckVisibleBlockedByWall(t *testing.T) {
	g := openRoomGrid(15)
	// a horizontal wall segment splitting the room
	for x := 1; x < 14; x++ {
		g.SetSymbol(geometry.New(float64(x), 7), '-')
	}

	assert.False(t, visibility.CheckVisible(g, geometry.New(5, 5), geometry.New(5, 10)))
}

func TestCheckVisibleIsSymmetric(t *testing.T) {
	g := openRoomGrid(15)
	a := geometry.New(3, 3)
	b := geometry.New(10, 9)

	assert.Equal(t, visibility.CheckVisible(g, a, b), visibility.CheckVisible(g, b, a))
}

func TestCheckVisibleOpaquePassageOnDiagonal(t *testing.T) {
	g := openRoomGrid(15)
	passage := geometry.New(7, 7)
	g.SetSymbol(passage, '#')

	assert.False(t, visibility.CheckVisible(g, geometry.New(3, 3), passage))
}

type fakeViewer struct {
	pos    geometry.Position
	viewed map[string]struct{}
}

func newFakeViewer(pos geometry.Position) *fakeViewer {
	return &fakeViewer{pos: pos, viewed: make(map[string]struct{})}
}

func (v *fakeViewer) Position() geometry.Position { return v.pos }
func (v *fakeViewer) HasSeen(key string) bool      { _, ok := v.viewed[key]; return ok }
func (v *fakeViewer) MarkSeen(key string)           { v.viewed[key] = struct{}{} }

func TestRenderMarksSelfAndGrowsViewedSetMonotonically(t *testing.T) {
	g := openRoomGrid(15)
	v := newFakeViewer(geometry.New(5, 5))

	frame := visibility.Render(g, v)
	assert.Equal(t, byte('@'), frame.GetSymbol(geometry.New(5, 5)))

	firstCount := len(v.viewed)
	assert.Greater(t, firstCount, 0)

	visibility.Render(g, v)
	assert.Equal(t, firstCount, len(v.viewed), "viewed set must not shrink and re-seeing adds nothing new")
}

func TestRenderKeepsViewedSetButSkipsOutOfRangeCells(t *testing.T) {
	g := openRoomGrid(15)
	v := newFakeViewer(geometry.New(5, 5))
	visibility.Render(g, v)

	near := geometry.New(8, 5)
	key := geometry.Key(near)
	assert.True(t, v.HasSeen(key), "a cell within range and LOS must be recorded as seen")

	// Move far away so `near` is now out of the radius-5 range filter. The
	// range filter applies before the viewed-set memory check (matching
	// calc_grid), so a remembered-but-now-out-of-range cell renders blank
	// rather than its last-known terrain; the viewed-set entry itself is
	// untouched.
	v.pos = geometry.New(13, 13)
	frame := visibility.Render(g, v)
	assert.Equal(t, byte(' '), frame.GetSymbol(near))
	assert.True(t, v.HasSeen(key), "moving out of range must not forget a previously seen cell")
}

func TestCacheRecomputesOnlyWhenDirty(t *testing.T) {
	g := openRoomGrid(15)
	v := newFakeViewer(geometry.New(5, 5))
	cache := visibility.NewCache()

	cache.Get(g, 1, v)
	cache.Get(g, 1, v)
	hits, misses := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	cache.Invalidate(1)
	cache.Get(g, 1, v)
	hits, misses = cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(2), misses)
}
