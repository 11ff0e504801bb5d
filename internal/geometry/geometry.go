// Package geometry holds the 2-D primitives the map and visibility engine
// share: positions with fractional coordinates and the line equations the
// line-of-sight sampler walks.
package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Position is a point in the continuous coordinate space the visibility
// engine samples. X and Y are not restricted to integers: the LOS sampler
// constructs positions at row/column crossings along a line of sight.
type Position struct {
	X float64
	Y float64
}

// New returns the position (x, y).
func New(x, y float64) Position {
	return Position{X: x, Y: y}
}

// IntX and IntY truncate toward zero, the conversion grid and line-of-sight
// lookups need when mapping a continuous position onto a grid cell.
func (p Position) IntX() int { return int(p.X) }
func (p Position) IntY() int { return int(p.Y) }

// IsIntegral reports whether both coordinates fall exactly on a grid cell.
func (p Position) IsIntegral() bool {
	return p.X == math.Trunc(p.X) && p.Y == math.Trunc(p.Y)
}

// Key formats a position as the fog-of-war map key, with a fixed six-decimal
// precision so floating-point positions round-trip through string keys
// without drift.
func Key(p Position) string {
	return fmt.Sprintf("%.6f_%.6f", p.X, p.Y)
}

// ParseKey recovers the Position encoded by Key. Viewed sets store only the
// key string, so callers that need the coordinates back — rendering a
// remembered cell, say — parse it on demand.
func ParseKey(key string) (Position, error) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return Position{}, fmt.Errorf("geometry: malformed key %q", key)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Position{}, fmt.Errorf("geometry: malformed key %q: %w", key, err)
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Position{}, fmt.Errorf("geometry: malformed key %q: %w", key, err)
	}
	return Position{X: x, Y: y}, nil
}

// Line is the slope-intercept equation through two positions. Vertical
// lines are tagged explicitly rather than represented with an infinite
// slope, so computing a line through two points with equal x never divides
// by zero.
type Line struct {
	Slope     float64
	Intercept float64
	Vertical  bool
	x         float64 // the shared x coordinate, valid only when Vertical
}

// NewLine computes the line through a and b.
func NewLine(a, b Position) Line {
	if a.X == b.X {
		return Line{Vertical: true, x: a.X}
	}
	m := (b.Y - a.Y) / (b.X - a.X)
	c := a.Y - m*a.X
	return Line{Slope: m, Intercept: c}
}

// YAt evaluates the line at x. Callers must not call this on a vertical
// line; XAt is the corresponding query there.
func (l Line) YAt(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// XAt evaluates the line at y, handling the vertical case explicitly.
func (l Line) XAt(y float64) float64 {
	if l.Vertical {
		return l.x
	}
	return (y - l.Intercept) / l.Slope
}

// IsDiagonal reports whether the line is neither horizontal nor vertical —
// the condition under which a passage cell is treated as opaque.
func (l Line) IsDiagonal() bool {
	return !l.Vertical && l.Slope != 0
}
