// Package logo loads back-face artwork from an image file and turns it
// into a relief grid.
package logo

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	xdraw "golang.org/x/image/draw"
)

// Raster is a thresholded artwork grid. Dark, opaque pixels become relief
// material, matching the convention of dark QR modules.
type Raster struct {
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

// Load decodes a PNG, JPEG or TGA image and downsamples it to cols cells
// across, preserving aspect ratio.
func Load(path string, cols int) (*Raster, error) {
	if cols <= 0 {
		return nil, fmt.Errorf("logo: column count %d must be positive", cols)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("logo: open %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("logo: decode %s: %w", path, err)
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("logo: %s is empty", path)
	}
	rows := cols * b.Dy() / b.Dx()
	if rows == 0 {
		rows = 1
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, xdraw.Src, nil)

	grid := make([][]bool, rows)
	set := 0
	for y := range grid {
		row := make([]bool, cols)
		for x := range row {
			c := scaled.NRGBAAt(x, y)
			row[x] = c.A >= 0x80 && luma(c) < 0x80
			if row[x] {
				set++
			}
		}
		grid[y] = row
	}
	if set == 0 {
		return nil, fmt.Errorf("logo: %s has no dark opaque pixels", path)
	}

	return &Raster{grid: grid}, nil
}

func luma(c color.NRGBA) uint8 {
	// Rec. 601 weights, integer form.
	return uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
}
