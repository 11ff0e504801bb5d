// Package mapgrid implements the dual-layer map model: a terrain character
// grid and a parallel gold-count grid, plus the geometric predicates the
// rest of the server uses to decide what a cell means.
package mapgrid

import (
	"bufio"
	"fmt"
	"os"
	"unicode"

	"github.com/prishaAgg/nuggets-server/internal/geometry"
)

// ErrKind identifies the class of failure Load reports, so cmd/server can
// choose the right exit code without string-matching the message.
type ErrKind int

const (
	_ ErrKind = iota
	// MapLoadFailed indicates the map file could not be opened or was
	// malformed (unequal line widths, empty file).
	MapLoadFailed
)

// LoadError wraps a map-load failure with its kind and the underlying cause.
type LoadError struct {
	Kind ErrKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("mapgrid: failed to load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Grid is a rectangular terrain+gold map. Both the authoritative map and the
// read-only original-terrain snapshot (restored under a moved-away avatar or
// a collected pile) are plain Grid values; the coordinator owns which is
// which.
type Grid struct {
	width  int
	height int
	cells  [][]byte
	gold   [][]int
}

// isWall reports whether c is one of the terrain runes that block movement:
// boundary, vertical wall, horizontal wall, corner.
func isWall(c byte) bool {
	return c == '-' || c == '+' || c == ' ' || c == '|'
}

// Load reads a map file of LF-terminated, equal-width lines. Width is the
// first line's length; height is the line count.
func Load(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Kind: MapLoadFailed, Path: path, Err: err}
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Kind: MapLoadFailed, Path: path, Err: err}
	}
	if len(lines) == 0 {
		return nil, &LoadError{Kind: MapLoadFailed, Path: path, Err: fmt.Errorf("empty map file")}
	}

	width := len(lines[0])
	if width == 0 {
		return nil, &LoadError{Kind: MapLoadFailed, Path: path, Err: fmt.Errorf("first line is empty")}
	}
	for i, line := range lines {
		if len(line) != width {
			return nil, &LoadError{Kind: MapLoadFailed, Path: path, Err: fmt.Errorf("line %d has width %d, want %d", i+1, len(line), width)}
		}
	}

	g := Blank(width, len(lines))
	for y, line := range lines {
		copy(g.cells[y], line)
	}
	return g, nil
}

// Blank constructs an all-space grid with zeroed gold, used both as the
// canvas for per-player perspective rendering and as the starting point of
// Load.
func Blank(width, height int) *Grid {
	cells := make([][]byte, height)
	gold := make([][]int, height)
	for y := 0; y < height; y++ {
		row := make([]byte, width)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
		gold[y] = make([]int, width)
	}
	return &Grid{width: width, height: height, cells: cells, gold: gold}
}

// Clone returns a deep copy, used to snapshot the original terrain before
// avatars and gold piles are painted onto the authoritative grid.
func (g *Grid) Clone() *Grid {
	clone := Blank(g.width, g.height)
	for y := 0; y < g.height; y++ {
		copy(clone.cells[y], g.cells[y])
		copy(clone.gold[y], g.gold[y])
	}
	return clone
}

// Width and Height return the grid's raw dimensions (no +1 offset): every
// caller outside the visibility engine's iteration bound (join placement,
// gold placement, the wire GRID header) wants the true dimension.
func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// RowStride and ColStride are one past Width/Height: the loop bound the
// visibility engine iterates to. Iterating to RowStride/ColStride instead
// of Width/Height visits one extra out-of-bounds column/row per axis;
// IsInside still rejects it, so this keeps the +1 contained to the one
// place that needs it instead of leaking it into every other caller.
func (g *Grid) RowStride() int { return g.width + 1 }
func (g *Grid) ColStride() int { return g.height + 1 }

// IsInside truncates pos to integer coordinates and tests whether that cell
// lies within the grid.
func (g *Grid) IsInside(pos geometry.Position) bool {
	x, y := pos.IntX(), pos.IntY()
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// GetSymbol returns the terrain character at pos, or the null byte if pos is
// out of bounds.
func (g *Grid) GetSymbol(pos geometry.Position) byte {
	if !g.IsInside(pos) {
		return 0
	}
	return g.cells[pos.IntY()][pos.IntX()]
}

// SetSymbol writes a terrain character at pos. Out-of-bounds writes are a
// silent no-op, matching grid_set_symbol.
func (g *Grid) SetSymbol(pos geometry.Position, c byte) {
	if !g.IsInside(pos) {
		return
	}
	g.cells[pos.IntY()][pos.IntX()] = c
}

// GetGold returns the nugget count at pos, or 0 if pos is out of bounds.
func (g *Grid) GetGold(pos geometry.Position) int {
	if !g.IsInside(pos) {
		return 0
	}
	return g.gold[pos.IntY()][pos.IntX()]
}

// SetGold writes the nugget count at pos. Negative counts and out-of-bounds
// positions are silently rejected, matching grid_set_gold.
func (g *Grid) SetGold(pos geometry.Position, n int) {
	if n < 0 || !g.IsInside(pos) {
		return
	}
	g.gold[pos.IntY()][pos.IntX()] = n
}

// RemoveGold zeroes the gold count at pos.
func (g *Grid) RemoveGold(pos geometry.Position) {
	g.SetGold(pos, 0)
}

// InRoom reports whether pos holds room floor, a gold pile, or a player
// avatar — the terrain classes check_visible treats as "inside."
func (g *Grid) InRoom(pos geometry.Position) bool {
	if !g.IsInside(pos) {
		return false
	}
	c := g.GetSymbol(pos)
	return c == '.' || c == '*' || isUpper(c)
}

// ValidForMovement reports whether pos is inside the grid and its terrain is
// not one of the wall/boundary/void symbols.
func (g *Grid) ValidForMovement(pos geometry.Position) bool {
	if !g.IsInside(pos) {
		return false
	}
	return !isWall(g.GetSymbol(pos))
}

func isUpper(c byte) bool {
	return unicode.IsUpper(rune(c))
}

// Rows returns the terrain grid one row at a time as strings, for rendering
// a DISPLAY frame.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	for y, row := range g.cells {
		rows[y] = string(row)
	}
	return rows
}
