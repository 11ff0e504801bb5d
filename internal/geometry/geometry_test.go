package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prishaAgg/nuggets-server/internal/geometry"
)

func TestNewLineSlopeAndIntercept(t *testing.T) {
	line := geometry.NewLine(geometry.New(1, 1), geometry.New(3, 3))

	assert.Equal(t, 1.0, line.Slope)
	assert.Equal(t, 0.0, line.Intercept)
	assert.False(t, line.Vertical)
}

func TestNewLineVerticalDoesNotDivideByZero(t *testing.T) {
	line := geometry.NewLine(geometry.New(5, 1), geometry.New(5, 9))

	assert.True(t, line.Vertical)
	assert.Equal(t, 5.0, line.XAt(4))
}

func TestLineIsDiagonal(t *testing.T) {
	horizontal := geometry.NewLine(geometry.New(0, 1), geometry.New(5, 1))
	diagonal := geometry.NewLine(geometry.New(0, 0), geometry.New(5, 5))
	vertical := geometry.NewLine(geometry.New(2, 0), geometry.New(2, 5))

	assert.False(t, horizontal.IsDiagonal())
	assert.True(t, diagonal.IsDiagonal())
	assert.False(t, vertical.IsDiagonal())
}

func TestKeyRoundTrip(t *testing.T) {
	pos := geometry.New(3.5, -2.25)
	key := geometry.Key(pos)

	parsed, err := geometry.ParseKey(key)
	require.NoError(t, err)
	assert.Equal(t, pos, parsed)
}

func TestParseKeyRejectsMalformedInput(t *testing.T) {
	_, err := geometry.ParseKey("not-a-key")
	assert.Error(t, err)
}

func TestIntXIntYTruncateTowardZero(t *testing.T) {
	pos := geometry.New(3.9, -3.9)
	assert.Equal(t, 3, pos.IntX())
	assert.Equal(t, -3, pos.IntY())
}
