package solid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

type boolGrid [][]bool

func (g boolGrid) Rows() int        { return len(g) }
func (g boolGrid) Cols() int        { return len(g[0]) }
func (g boolGrid) At(x, y int) bool { return g[y][x] }

func TestRoundedToken_Extents(t *testing.T) {
	s, err := RoundedToken(50, 60, 3, 4, 0)
	require.NoError(t, err)

	size := s.Bounds().Size()
	assert.InDelta(t, 50, size.X, 1e-6)
	assert.InDelta(t, 60, size.Y, 1e-6)
	assert.InDelta(t, 3, size.Z, 1e-6)

	center := s.Bounds().Center()
	assert.InDelta(t, 25, center.X, 1e-6)
	assert.InDelta(t, 30, center.Y, 1e-6)
	assert.InDelta(t, 1.5, center.Z, 1e-6)
}

func TestRoundedToken_CornersCut(t *testing.T) {
	s, err := RoundedToken(50, 60, 3, 4, 0)
	require.NoError(t, err)

	// Inside the slab.
	assert.Negative(t, s.Evaluate(r3.Vec{X: 25, Y: 30, Z: 1.5}))
	// The sharp corner of the bounding box is outside the rounded shape.
	assert.Positive(t, s.Evaluate(r3.Vec{X: 0.2, Y: 0.2, Z: 1.5}))
	// On-edge midpoints are still material.
	assert.Negative(t, s.Evaluate(r3.Vec{X: 25, Y: 1, Z: 1.5}))
	// Above the slab.
	assert.Positive(t, s.Evaluate(r3.Vec{X: 25, Y: 30, Z: 3.5}))
}

func TestRoundedToken_Fillet(t *testing.T) {
	s, err := RoundedToken(50, 60, 3, 4, 1)
	require.NoError(t, err)

	size := s.Bounds().Size()
	assert.InDelta(t, 50, size.X, 1e-6)
	assert.InDelta(t, 3, size.Z, 1e-6)

	// Core is still material.
	assert.Negative(t, s.Evaluate(r3.Vec{X: 25, Y: 30, Z: 1.5}))
	// The top long edge is shaved by the fillet: a point hugging the sharp
	// edge is now outside.
	assert.Positive(t, s.Evaluate(r3.Vec{X: 25, Y: 0.05, Z: 2.95}))
}

func TestRoundedToken_Invalid(t *testing.T) {
	_, err := RoundedToken(50, 60, 3, 40, 0)
	assert.Error(t, err, "corner radius larger than half the side")

	_, err = RoundedToken(50, 60, 3, 4, 5)
	assert.Error(t, err, "fillet larger than corner")

	_, err = RoundedToken(50, 60, 3, 4, 2)
	assert.Error(t, err, "fillet too deep for the slab")
}

func TestHoleCutter(t *testing.T) {
	s, err := HoleCutter(3, 3)
	require.NoError(t, err)

	// Overshoots the slab on both faces.
	size := s.Bounds().Size()
	assert.InDelta(t, 5, size.Z, 1e-6)
	assert.InDelta(t, 6, size.X, 1e-6)

	_, err = HoleCutter(0, 3)
	assert.Error(t, err)
}

func TestGridRelief_CellPlacement(t *testing.T) {
	g := boolGrid{
		{true, false},
		{false, true},
	}
	s, err := GridRelief(g, 10, 1)
	require.NoError(t, err)

	// Row 0 is the top: the set cell of row 0 sits at the upper-left.
	assert.Negative(t, s.Evaluate(r3.Vec{X: 2.5, Y: 7.5, Z: 0.5}))
	assert.Negative(t, s.Evaluate(r3.Vec{X: 7.5, Y: 2.5, Z: 0.5}))
	assert.Positive(t, s.Evaluate(r3.Vec{X: 7.5, Y: 7.5, Z: 0.5}))
	assert.Positive(t, s.Evaluate(r3.Vec{X: 2.5, Y: 2.5, Z: 0.5}))
}

func TestGridRelief_Extent(t *testing.T) {
	g := boolGrid{
		{true, true, true},
		{true, false, true},
	}
	ext := GridExtent(g, 12)
	assert.InDelta(t, 12, ext.X, 1e-9)
	assert.InDelta(t, 8, ext.Y, 1e-9)

	s, err := GridRelief(g, 12, 0.6)
	require.NoError(t, err)
	size := s.Bounds().Size()
	assert.InDelta(t, 12, size.X, 1e-6)
	assert.InDelta(t, 8, size.Y, 1e-6)
	assert.InDelta(t, 0.6, size.Z, 1e-6)
}

func TestGridRelief_Empty(t *testing.T) {
	_, err := GridRelief(boolGrid{{false, false}}, 10, 1)
	assert.Error(t, err)
}

func TestMirrorX(t *testing.T) {
	g := boolGrid{
		{true, false, false},
		{false, false, true},
	}
	m := MirrorX(g)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.True(t, m.At(2, 0))
	assert.False(t, m.At(0, 0))
	assert.True(t, m.At(0, 1))
}
