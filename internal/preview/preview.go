// Package preview renders top-down build plate layout images so a packing
// can be checked before committing printer time.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/HugoSmits86/nativewebp"

	"qrkeytag/internal/plate"
)

var (
	bedColor    = color.NRGBA{R: 24, G: 28, B: 34, A: 255}
	tokenColor  = color.NRGBA{R: 228, G: 228, B: 222, A: 255}
	borderColor = color.NRGBA{R: 90, G: 96, B: 104, A: 255}
)

// Render draws a plate top-down at the given pixels-per-millimeter scale.
// Plate y points away from the operator, so the image is flipped vertically
// to match the usual slicer view.
func Render(p *plate.Plate, pxPerMM float64) *image.NRGBA {
	if pxPerMM <= 0 {
		pxPerMM = 2
	}
	imgW := int(p.Width*pxPerMM + 0.5)
	imgH := int(p.Height*pxPerMM + 0.5)
	img := image.NewNRGBA(image.Rect(0, 0, imgW, imgH))
	draw.Draw(img, img.Bounds(), image.NewUniform(bedColor), image.Point{}, draw.Src)

	for _, pl := range p.Placements {
		w, h := pl.Item.Footprint()
		x0 := int(pl.X*pxPerMM + 0.5)
		x1 := int((pl.X+w)*pxPerMM + 0.5)
		y0 := imgH - int((pl.Y+h)*pxPerMM+0.5)
		y1 := imgH - int(pl.Y*pxPerMM+0.5)
		r := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())

		draw.Draw(img, r, image.NewUniform(borderColor), image.Point{}, draw.Src)
		draw.Draw(img, r.Inset(1), image.NewUniform(tokenColor), image.Point{}, draw.Src)
	}
	return img
}

// Write encodes img as WebP at path.
func Write(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("preview: encode %s: %w", path, err)
	}
	return nil
}
