// Package plate packs keychain footprints onto fixed-size build plates.
//
// The packer is a first-fit shelf heuristic: items go left to right into
// the current row, a full row starts a new row above it, a full plate
// starts a new plate. It is deterministic, preserves input order across
// plates, and runs in O(n). That trades away bin-count optimality, but
// printed parts come off the plates in index order, which matters more for
// physically sequential retrieval.
package plate

import "fmt"

// Item is anything with a rectangular plate-plane footprint.
type Item interface {
	Footprint() (w, h float64)
}

// Placement is an item at its plate offset.
type Placement struct {
	Item Item
	X, Y float64
}

// Plate is one build plate with its placed items in placement order.
type Plate struct {
	Width, Height float64
	Spacing       float64
	Placements    []Placement
}

// Utilization returns the placed-footprint fraction of the plate area.
func (p *Plate) Utilization() float64 {
	var used float64
	for _, pl := range p.Placements {
		w, h := pl.Item.Footprint()
		used += w * h
	}
	return used / (p.Width * p.Height)
}

// Collection is the ordered sequence of plates covering one run.
type Collection []*Plate

// Items returns the total number of placements across all plates.
func (c Collection) Items() int {
	n := 0
	for _, p := range c {
		n += len(p.Placements)
	}
	return n
}

// SizeError reports an item that cannot fit an empty plate.
type SizeError struct {
	Pos            int // position in the input sequence
	W, H           float64
	PlateW, PlateH float64
	Spacing        float64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("plate: item %d (%gx%gmm) does not fit a %gx%gmm plate with %gmm spacing",
		e.Pos, e.W, e.H, e.PlateW, e.PlateH, e.Spacing)
}

// Pack arranges items onto plates of the given dimensions, keeping spacing
// between item footprints and the plate edge ahead of the cursor. Items are
// consumed in order and each lands on exactly one plate.
func Pack(items []Item, width, height, spacing float64) (Collection, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("plate: dimensions %gx%g must be positive", width, height)
	}
	if spacing < 0 {
		return nil, fmt.Errorf("plate: spacing %g must not be negative", spacing)
	}

	var col Collection
	cur := &Plate{Width: width, Height: height, Spacing: spacing}
	var x, y, rowH float64

	for i, it := range items {
		w, h := it.Footprint()
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("plate: item %d has footprint %gx%g", i, w, h)
		}
		if w+spacing > width || h+spacing > height {
			return nil, &SizeError{Pos: i, W: w, H: h, PlateW: width, PlateH: height, Spacing: spacing}
		}

		if x+w+spacing > width {
			// Row full: shelf up.
			x = 0
			y += rowH + spacing
			rowH = 0
		}
		if y+h+spacing > height {
			// Plate full: start the next one.
			col = append(col, cur)
			cur = &Plate{Width: width, Height: height, Spacing: spacing}
			x, y, rowH = 0, 0, 0
		}

		cur.Placements = append(cur.Placements, Placement{Item: it, X: x, Y: y})
		x += w + spacing
		if h > rowH {
			rowH = h
		}
	}

	if len(cur.Placements) > 0 {
		col = append(col, cur)
	}
	return col, nil
}
