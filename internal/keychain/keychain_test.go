package keychain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"qrkeytag/internal/label"
	"qrkeytag/internal/qr"
)

func testSpec(t *testing.T) Spec {
	t.Helper()
	face, err := label.LoadFace("", 7)
	require.NoError(t, err)

	return Spec{
		Index:        1,
		Payload:      "T-1",
		TokenWidth:   50,
		TokenHeight:  60,
		TokenDepth:   3,
		CornerRadius: 4,
		FilletRadius: 1,
		QRBorder:     3,
		ColoredDepth: 0.6,
		TextSize:     7,
		TextBorder:   3,
		HoleRadius:   3,
		HoleOffset:   3,
		Face:         face,
	}
}

func TestCompose_ProducesBodyAndColored(t *testing.T) {
	g, err := Compose(testSpec(t))
	require.NoError(t, err)

	require.NotNil(t, g.Body)
	require.NotNil(t, g.Colored)
	assert.Equal(t, 1, g.Index)

	w, h := g.Footprint()
	assert.Equal(t, 50.0, w)
	assert.Equal(t, 60.0, h)
}

func TestCompose_BodyInterior(t *testing.T) {
	g, err := Compose(testSpec(t))
	require.NoError(t, err)

	// Mid-slab core is body material, between the two relief layers.
	assert.Negative(t, g.Body.Evaluate(r3.Vec{X: 25, Y: 30, Z: 1.5}))
	// The mounting hole is cut through: centered laterally, offset from the
	// top edge.
	assert.Positive(t, g.Body.Evaluate(r3.Vec{X: 25, Y: 54, Z: 1.5}))
	// Outside the token entirely.
	assert.Positive(t, g.Body.Evaluate(r3.Vec{X: -5, Y: 30, Z: 1.5}))
}

func TestCompose_ColoredIsRecessedQR(t *testing.T) {
	spec := testSpec(t)
	g, err := Compose(spec)
	require.NoError(t, err)

	m, err := qr.Encode(spec.Payload)
	require.NoError(t, err)

	qrSize := spec.TokenWidth - 2*spec.QRBorder
	cell := qrSize / float64(m.Size())

	// The top-left finder module is dark. Grid row 0 is the top, so it maps
	// near the QR region's upper edge on the front face.
	px := spec.QRBorder + cell/2
	py := spec.QRBorder + qrSize - cell/2
	pz := spec.TokenDepth - spec.ColoredDepth/2

	p := r3.Vec{X: px, Y: py, Z: pz}
	assert.Negative(t, g.Colored.Evaluate(p), "dark module should be colored material")
	assert.Positive(t, g.Body.Evaluate(p), "colored relief is subtracted from the body")

	// The same module mirrored onto the back face.
	back := r3.Vec{X: spec.TokenWidth - px, Y: py, Z: spec.ColoredDepth / 2}
	assert.Negative(t, g.Colored.Evaluate(back))

	// Colored stays inside the token footprint and depth.
	size := g.Colored.Bounds().Size()
	assert.LessOrEqual(t, size.X, spec.TokenWidth+1e-6)
	assert.LessOrEqual(t, size.Y, spec.TokenHeight+1e-6)
	assert.LessOrEqual(t, size.Z, spec.TokenDepth+1e-6)
}

func TestCompose_Deterministic(t *testing.T) {
	a, err := Compose(testSpec(t))
	require.NoError(t, err)
	b, err := Compose(testSpec(t))
	require.NoError(t, err)

	probes := []r3.Vec{
		{X: 25, Y: 30, Z: 1.5},
		{X: 25, Y: 54, Z: 1.5},
		{X: 4, Y: 46, Z: 2.7},
		{X: 10, Y: 52, Z: 0.3},
	}
	for _, p := range probes {
		assert.Equal(t, a.Body.Evaluate(p), b.Body.Evaluate(p))
		assert.Equal(t, a.Colored.Evaluate(p), b.Colored.Evaluate(p))
	}
}

func TestCompose_TextDoesNotFit(t *testing.T) {
	spec := testSpec(t)
	spec.TextSize = 40
	face, err := label.LoadFace("", spec.TextSize)
	require.NoError(t, err)
	spec.Face = face

	_, err = Compose(spec)
	require.Error(t, err)

	var ge *GeometryError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, spec.Index, ge.Index)

	var le *label.LayoutError
	assert.True(t, errors.As(err, &le), "layout error should be wrapped")
}

func TestCompose_HoleOverlapsQR(t *testing.T) {
	spec := testSpec(t)
	spec.TokenHeight = 52 // QR top at 50, hole dips to 43

	_, err := Compose(spec)
	var ge *GeometryError
	require.True(t, errors.As(err, &ge))
	assert.Contains(t, ge.Reason, "hole")
}

func TestCompose_Logo(t *testing.T) {
	spec := testSpec(t)
	spec.Logo = checker{}

	g, err := Compose(spec)
	require.NoError(t, err)

	// Back face carries the logo relief: the mirrored top-left cell of the
	// checkerboard is set.
	qrSize := spec.TokenWidth - 2*spec.QRBorder
	cell := qrSize / 8
	p := r3.Vec{X: spec.TokenWidth - spec.QRBorder - cell/2, Y: spec.QRBorder + qrSize - cell/2, Z: spec.ColoredDepth / 2}
	assert.Negative(t, g.Colored.Evaluate(p))
}

// checker is an 8x8 checkerboard grid.
type checker struct{}

func (checker) Rows() int        { return 8 }
func (checker) Cols() int        { return 8 }
func (checker) At(x, y int) bool { return (x+y)%2 == 0 }
