// Package solid builds the parametric primitives keychains are composed
// from, on top of the sdf constructive solid geometry kernel.
//
// All constructors return solids in a corner-origin frame: the shape
// occupies [0,w] x [0,h] in the plate plane and [0,depth] upward, so callers
// position features and packed tokens with plain offsets.
package solid

import (
	"fmt"

	"github.com/soypat/sdf"
	form2 "github.com/soypat/sdf/form2/must2"
	"github.com/soypat/sdf/form3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is a rectangular cell pattern rendered as relief. Row 0 is the top
// row, matching image conventions; true cells become material.
type Grid interface {
	Rows() int
	Cols() int
	At(x, y int) bool
}

// Translate moves a solid by the given offsets.
func Translate(s sdf.SDF3, x, y, z float64) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.Translate3D(r3.Vec{X: x, Y: y, Z: z}))
}

// RoundedToken builds the token slab: a w x h x depth box with rounded
// corners of the given radius in the plate plane and a fillet on the
// horizontal edges. fillet must not exceed corner and must be less than
// half the depth.
func RoundedToken(w, h, depth, corner, fillet float64) (sdf.SDF3, error) {
	if w <= 0 || h <= 0 || depth <= 0 {
		return nil, fmt.Errorf("solid: token dimensions %gx%gx%g must be positive", w, h, depth)
	}
	if corner > w/2 || corner > h/2 {
		return nil, fmt.Errorf("solid: corner radius %g exceeds half token side", corner)
	}
	if fillet > corner {
		return nil, fmt.Errorf("solid: fillet radius %g exceeds corner radius %g", fillet, corner)
	}
	if 2*fillet >= depth {
		return nil, fmt.Errorf("solid: fillet radius %g too large for depth %g", fillet, depth)
	}

	var slab sdf.SDF3
	if fillet <= 0 {
		slab = sdf.Extrude3D(form2.Box(r2.Vec{X: w, Y: h}, corner), depth)
	} else {
		// Shrink by the fillet, extrude, then inflate the field back out so
		// every edge picks up the fillet while the plan keeps the corner
		// radius and the outer dimensions.
		inner := form2.Box(r2.Vec{X: w - 2*fillet, Y: h - 2*fillet}, corner-fillet)
		slab = sdf.Offset3D(sdf.Extrude3D(inner, depth-2*fillet), fillet)
	}

	return Translate(slab, w/2, h/2, depth/2), nil
}

// HoleCutter builds a cylindrical subtraction volume for a mounting hole.
// The cylinder overshoots a slab of the given depth by 1mm on both faces so
// the boolean difference cuts cleanly through; it is returned centered and
// is positioned by the caller.
func HoleCutter(radius, depth float64) (sdf.SDF3, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("solid: hole radius %g must be positive", radius)
	}
	cyl, err := form3.Cylinder(depth+2, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("solid: hole cylinder: %w", err)
	}
	return cyl, nil
}

// GridExtent returns the physical size of a grid relief scaled so its
// columns span width.
func GridExtent(g Grid, width float64) r2.Vec {
	cell := width / float64(g.Cols())
	return r2.Vec{X: width, Y: cell * float64(g.Rows())}
}

// GridRelief tiles the true cells of g into a relief solid of the given
// extrusion depth, scaled so the grid spans width. The solid occupies
// [0,width] x [0,GridExtent(g,width).Y] x [0,depth] with grid row 0 at the
// top edge.
func GridRelief(g Grid, width, depth float64) (sdf.SDF3, error) {
	rows, cols := g.Rows(), g.Cols()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("solid: empty relief grid")
	}
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("solid: relief size %gx%g must be positive", width, depth)
	}

	cell := width / float64(cols)
	box := form2.Box(r2.Vec{X: cell, Y: cell}, 0)

	var cells []sdf.SDF2
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if !g.At(x, y) {
				continue
			}
			cx := (float64(x) + 0.5) * cell
			cy := (float64(rows-1-y) + 0.5) * cell
			cells = append(cells, sdf.Transform2D(box, sdf.Translate2D(r2.Vec{X: cx, Y: cy})))
		}
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("solid: relief grid has no set cells")
	}

	relief := sdf.Extrude3D(sdf.Union2D(cells...), depth)
	return Translate(relief, 0, 0, depth/2), nil
}

// mirrored flips a grid left-to-right.
type mirrored struct{ g Grid }

func (m mirrored) Rows() int        { return m.g.Rows() }
func (m mirrored) Cols() int        { return m.g.Cols() }
func (m mirrored) At(x, y int) bool { return m.g.At(m.g.Cols()-1-x, y) }

// MirrorX returns g flipped left-to-right, for reliefs read from the back
// face of the token.
func MirrorX(g Grid) Grid { return mirrored{g} }
