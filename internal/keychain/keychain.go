// Package keychain composes dual-sided QR keychain tags from parametric
// primitives.
package keychain

import (
	"fmt"

	"github.com/soypat/sdf"
	"golang.org/x/image/font"

	"qrkeytag/internal/label"
	"qrkeytag/internal/qr"
	"qrkeytag/internal/solid"
)

// Spec holds everything needed to compose one keychain. It is immutable
// once built from the run configuration and an index.
type Spec struct {
	Index   int
	Payload string

	TokenWidth   float64
	TokenHeight  float64
	TokenDepth   float64
	CornerRadius float64
	FilletRadius float64

	QRBorder     float64
	ColoredDepth float64
	TextSize     float64
	TextBorder   float64
	HoleRadius   float64
	HoleOffset   float64

	// Face renders the text label; shared across the batch.
	Face font.Face

	// Logo, when set, replaces the mirrored QR on the back face.
	Logo solid.Grid
}

// Geometry is a composed keychain: the structural body and the colored
// relief for the second print material, both in the token's corner-origin
// frame.
type Geometry struct {
	Index   int
	Body    sdf.SDF3
	Colored sdf.SDF3
	Width   float64
	Height  float64
}

// Footprint returns the token's plate-plane bounding box.
func (g Geometry) Footprint() (w, h float64) { return g.Width, g.Height }

// GeometryError reports a keychain whose features cannot be placed without
// overlapping.
type GeometryError struct {
	Index  int
	Reason string
	Err    error
}

func (e *GeometryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("keychain %d: %s: %v", e.Index, e.Reason, e.Err)
	}
	return fmt.Sprintf("keychain %d: %s", e.Index, e.Reason)
}

func (e *GeometryError) Unwrap() error { return e.Err }

// Compose builds the body and colored solids for one keychain.
//
// Front face layout, bottom to top: QR relief inside the QR border, then
// the text label in the strip between the QR and the top edge, shifted left
// of the centered mounting hole. The back face carries the mirrored QR and
// label (or the logo) at the bottom of the slab so both sides print as
// color inlays.
func Compose(spec Spec) (Geometry, error) {
	w, h, d := spec.TokenWidth, spec.TokenHeight, spec.TokenDepth
	cd := spec.ColoredDepth

	fail := func(reason string, err error) (Geometry, error) {
		return Geometry{}, &GeometryError{Index: spec.Index, Reason: reason, Err: err}
	}

	matrix, err := qr.Encode(spec.Payload)
	if err != nil {
		return fail("QR encoding", err)
	}

	qrSize := w - 2*spec.QRBorder
	if qrSize <= 0 {
		return fail(fmt.Sprintf("QR border %g leaves no face area", spec.QRBorder), nil)
	}
	qrTop := spec.QRBorder + qrSize
	if qrTop > h {
		return fail("QR region exceeds the token height", nil)
	}

	// Mounting hole: centered laterally, offset from the top edge.
	holeCY := h - spec.HoleOffset - spec.HoleRadius
	if holeCY-spec.HoleRadius < qrTop {
		return fail("mounting hole overlaps the QR region", nil)
	}

	// Text label: strip between QR top and token top, left of the hole.
	raster, err := label.Rasterize(spec.Payload, spec.Face)
	if err != nil {
		return fail("label rasterization", err)
	}
	availW := w/2 - spec.HoleRadius - 2*spec.TextBorder
	availH := h - spec.TextBorder - qrTop
	if availW <= 0 || availH <= 0 {
		return fail("no face area left for the text label", nil)
	}
	if err := raster.Fit(availW, availH); err != nil {
		return fail("text label does not fit", err)
	}
	textX := spec.TextBorder + (availW-raster.WidthMM)/2
	textY := qrTop + (availH-raster.HeightMM)/2

	// Structural body.
	body, err := solid.RoundedToken(w, h, d, spec.CornerRadius, spec.FilletRadius)
	if err != nil {
		return fail("token body", err)
	}
	cutter, err := solid.HoleCutter(spec.HoleRadius, d)
	if err != nil {
		return fail("mounting hole", err)
	}
	body = sdf.Difference3D(body, solid.Translate(cutter, w/2, holeCY, d/2))

	// Front reliefs, recessed into the top face.
	frontQR, err := solid.GridRelief(matrix, qrSize, cd)
	if err != nil {
		return fail("QR relief", err)
	}
	frontText, err := solid.GridRelief(raster, raster.WidthMM, cd)
	if err != nil {
		return fail("text relief", err)
	}
	colored := []sdf.SDF3{
		solid.Translate(frontQR, spec.QRBorder, spec.QRBorder, d-cd),
		solid.Translate(frontText, textX, textY, d-cd),
	}

	// Back reliefs, flush with the bottom face and mirrored so they read
	// correctly from the other side.
	if spec.Logo != nil {
		extent := solid.GridExtent(spec.Logo, qrSize)
		if extent.Y > h-2*spec.QRBorder {
			return fail("logo exceeds the token face", nil)
		}
		backLogo, err := solid.GridRelief(solid.MirrorX(spec.Logo), qrSize, cd)
		if err != nil {
			return fail("logo relief", err)
		}
		colored = append(colored, solid.Translate(backLogo, spec.QRBorder, spec.QRBorder, 0))
	} else {
		backQR, err := solid.GridRelief(solid.MirrorX(matrix), qrSize, cd)
		if err != nil {
			return fail("back QR relief", err)
		}
		backText, err := solid.GridRelief(solid.MirrorX(raster), raster.WidthMM, cd)
		if err != nil {
			return fail("back text relief", err)
		}
		colored = append(colored,
			solid.Translate(backQR, spec.QRBorder, spec.QRBorder, 0),
			solid.Translate(backText, w-textX-raster.WidthMM, textY, 0),
		)
	}

	coloredUnion := sdf.Union3D(colored...)
	return Geometry{
		Index:   spec.Index,
		Body:    sdf.Difference3D(body, coloredUnion),
		Colored: coloredUnion,
		Width:   w,
		Height:  h,
	}, nil
}
