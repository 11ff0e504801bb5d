package mapgrid_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prishaAgg/nuggets-server/internal/geometry"
	"github.com/prishaAgg/nuggets-server/internal/mapgrid"
)

func writeMapFile(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "map.txt")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadReadsDimensionsAndSymbols(t *testing.T) {
	path := writeMapFile(t, "-----", "|...|", "-----")

	g, err := mapgrid.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.Equal(t, byte('.'), g.GetSymbol(geometry.New(2, 1)))
	assert.Equal(t, byte('-'), g.GetSymbol(geometry.New(0, 0)))
}

func TestLoadRejectsUnequalLineWidths(t *testing.T) {
	path := writeMapFile(t, "-----", "|..|", "-----")

	_, err := mapgrid.Load(path)
	require.Error(t, err)

	var loadErr *mapgrid.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, mapgrid.MapLoadFailed, loadErr.Kind)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := mapgrid.Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestGetSymbolOutOfBoundsReturnsNull(t *testing.T) {
	g := mapgrid.Blank(5, 5)
	assert.Equal(t, byte(0), g.GetSymbol(geometry.New(-1, -1)))
	assert.Equal(t, byte(0), g.GetSymbol(geometry.New(100, 100)))
}

func TestSetGoldRejectsNegative(t *testing.T) {
	g := mapgrid.Blank(5, 5)
	pos := geometry.New(2, 2)

	g.SetGold(pos, 3)
	g.SetGold(pos, -1)

	assert.Equal(t, 3, g.GetGold(pos))
}

func TestInRoomAcceptsFloorGoldAndAvatar(t *testing.T) {
	g := mapgrid.Blank(5, 5)
	floor := geometry.New(1, 1)
	pile := geometry.New(2, 2)
	avatar := geometry.New(3, 3)
	wall := geometry.New(4, 4)

	g.SetSymbol(floor, '.')
	g.SetSymbol(pile, '*')
	g.SetSymbol(avatar, 'A')
	g.SetSymbol(wall, '-')

	assert.True(t, g.InRoom(floor))
	assert.True(t, g.InRoom(pile))
	assert.True(t, g.InRoom(avatar))
	assert.False(t, g.InRoom(wall))
}

func TestValidForMovementRejectsWalls(t *testing.T) {
	g := mapgrid.Blank(5, 5)
	g.SetSymbol(geometry.New(1, 1), '.')
	g.SetSymbol(geometry.New(2, 2), '+')

	assert.True(t, g.ValidForMovement(geometry.New(1, 1)))
	assert.False(t, g.ValidForMovement(geometry.New(2, 2)))
	assert.False(t, g.ValidForMovement(geometry.New(-1, 0)))
}

func TestCloneIsIndependent(t *testing.T) {
	g := mapgrid.Blank(3, 3)
	pos := geometry.New(1, 1)
	g.SetSymbol(pos, '.')

	clone := g.Clone()
	g.SetSymbol(pos, 'A')

	assert.Equal(t, byte('.'), clone.GetSymbol(pos))
	assert.Equal(t, byte('A'), g.GetSymbol(pos))
}
