// Package label renders text labels into relief grids.
//
// Text is rasterized with an opentype face at a fixed resolution and the
// resulting mask becomes a cell grid, extruded by the geometry layer the
// same way QR modules are. This sidesteps glyph-outline tessellation while
// keeping the label crisp at print scale.
package label

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// pixelsPerMM is the raster resolution. At 0.4mm nozzle width, 8 cells per
// millimeter is well past what the printer can resolve.
const pixelsPerMM = 8

// LoadFace loads an OTF/TTF font from path at the given text size in
// millimeters. An empty path selects the embedded Go Regular face.
func LoadFace(path string, sizeMM float64) (font.Face, error) {
	if sizeMM <= 0 {
		return nil, fmt.Errorf("label: text size %g must be positive", sizeMM)
	}

	data := goregular.TTF
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("label: read font %s: %w", path, err)
		}
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("label: parse font %s: %w", path, err)
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    sizeMM * pixelsPerMM,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("label: build face: %w", err)
	}
	return face, nil
}

// Raster is a rasterized label: a relief grid plus its physical extent.
type Raster struct {
	Text     string
	WidthMM  float64
	HeightMM float64

	grid [][]bool
}

// Rows implements the relief grid contract.
func (r *Raster) Rows() int { return len(r.grid) }

// Cols implements the relief grid contract.
func (r *Raster) Cols() int {
	if len(r.grid) == 0 {
		return 0
	}
	return len(r.grid[0])
}

// At reports whether the cell at column x, row y (row 0 on top) is set.
func (r *Raster) At(x, y int) bool { return r.grid[y][x] }

// Rasterize draws text with face and returns the trimmed cell grid.
func Rasterize(text string, face font.Face) (*Raster, error) {
	if text == "" {
		return nil, fmt.Errorf("label: empty text")
	}

	metrics := face.Metrics()
	w := font.MeasureString(face, text).Ceil()
	h := (metrics.Ascent + metrics.Descent).Ceil()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("label: %q renders to an empty mask", text)
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	drawer := font.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(color.Alpha{A: 0xff}),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	drawer.DrawString(text)

	grid := trim(threshold(mask))
	if len(grid) == 0 {
		return nil, fmt.Errorf("label: %q renders to an empty mask", text)
	}

	return &Raster{
		Text:     text,
		WidthMM:  float64(len(grid[0])) / pixelsPerMM,
		HeightMM: float64(len(grid)) / pixelsPerMM,
		grid:     grid,
	}, nil
}

// LayoutError reports a label that does not fit the face area reserved
// for it.
type LayoutError struct {
	Text           string
	WidthMM        float64
	HeightMM       float64
	AvailW, AvailH float64
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("label: %q is %.1fx%.1fmm but only %.1fx%.1fmm is available",
		e.Text, e.WidthMM, e.HeightMM, e.AvailW, e.AvailH)
}

// Fit checks the raster against the available face area and returns a
// *LayoutError when it does not fit.
func (r *Raster) Fit(availW, availH float64) error {
	if r.WidthMM > availW || r.HeightMM > availH {
		return &LayoutError{
			Text:     r.Text,
			WidthMM:  r.WidthMM,
			HeightMM: r.HeightMM,
			AvailW:   availW,
			AvailH:   availH,
		}
	}
	return nil
}

func threshold(mask *image.Alpha) [][]bool {
	b := mask.Bounds()
	grid := make([][]bool, b.Dy())
	for y := range grid {
		row := make([]bool, b.Dx())
		for x := range row {
			row[x] = mask.AlphaAt(b.Min.X+x, b.Min.Y+y).A >= 0x80
		}
		grid[y] = row
	}
	return grid
}

// trim drops empty border rows and columns so the raster extent is the ink
// extent, not the em box.
func trim(grid [][]bool) [][]bool {
	top, bottom := len(grid), -1
	left, right := len(grid[0]), -1
	for y, row := range grid {
		for x, on := range row {
			if !on {
				continue
			}
			if y < top {
				top = y
			}
			if y > bottom {
				bottom = y
			}
			if x < left {
				left = x
			}
			if x > right {
				right = x
			}
		}
	}
	if bottom < top {
		return nil
	}

	out := make([][]bool, 0, bottom-top+1)
	for y := top; y <= bottom; y++ {
		out = append(out, grid[y][left:right+1])
	}
	return out
}
