// Package export writes the per-plate model files and the run manifest.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/sdf"
	"github.com/soypat/sdf/render"

	"qrkeytag/internal/keychain"
	"qrkeytag/internal/plate"
	"qrkeytag/internal/solid"
)

// File name helpers. Plates are numbered from 1.

func BodyFile(plateNum int) string    { return fmt.Sprintf("build_plate_body_%d.stl", plateNum) }
func ColoredFile(plateNum int) string { return fmt.Sprintf("build_plate_colored_%d.stl", plateNum) }
func PreviewFile(plateNum int) string { return fmt.Sprintf("build_plate_%d.webp", plateNum) }

// ManifestFile is the run manifest name.
const ManifestFile = "manifest.json"

// Prepare creates the output directory and removes artifacts of a previous
// run so a shorter run cannot leave stale plates behind.
func Prepare(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("export: create %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("export: read %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if name != ManifestFile && !strings.HasPrefix(name, "build_plate_") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("export: remove stale %s: %w", name, err)
		}
	}
	return nil
}

// Plates writes one body STL and one colored STL per plate, with every
// keychain translated to its packed offset. meshCells is the octree
// renderer resolution.
func Plates(col plate.Collection, dir string, meshCells int) error {
	for i, p := range col {
		num := i + 1
		body, colored, err := assemble(p)
		if err != nil {
			return fmt.Errorf("export: plate %d: %w", num, err)
		}

		bodyPath := filepath.Join(dir, BodyFile(num))
		if err := render.CreateSTL(bodyPath, render.NewOctreeRenderer(body, meshCells)); err != nil {
			return fmt.Errorf("export: write %s: %w", bodyPath, err)
		}

		coloredPath := filepath.Join(dir, ColoredFile(num))
		if err := render.CreateSTL(coloredPath, render.NewOctreeRenderer(colored, meshCells)); err != nil {
			return fmt.Errorf("export: write %s: %w", coloredPath, err)
		}
	}
	return nil
}

func assemble(p *plate.Plate) (body, colored sdf.SDF3, err error) {
	var bodies, reliefs []sdf.SDF3
	for _, pl := range p.Placements {
		g, ok := pl.Item.(keychain.Geometry)
		if !ok {
			return nil, nil, fmt.Errorf("placement holds %T, not a keychain", pl.Item)
		}
		bodies = append(bodies, solid.Translate(g.Body, pl.X, pl.Y, 0))
		reliefs = append(reliefs, solid.Translate(g.Colored, pl.X, pl.Y, 0))
	}
	if len(bodies) == 0 {
		return nil, nil, fmt.Errorf("plate is empty")
	}
	return sdf.Union3D(bodies...), sdf.Union3D(reliefs...), nil
}

// Manifest describes one exported run.
type Manifest struct {
	Plates []ManifestPlate `json:"plates"`
}

// ManifestPlate records what ended up on one plate.
type ManifestPlate struct {
	Plate       int     `json:"plate"`
	BodyFile    string  `json:"body_file"`
	ColoredFile string  `json:"colored_file"`
	PreviewFile string  `json:"preview_file,omitempty"`
	Indices     []int   `json:"indices"`
	Utilization float64 `json:"utilization"`
}

// WriteManifest writes manifest.json describing every plate, its files and
// the keychain indices placed on it.
func WriteManifest(dir string, col plate.Collection, withPreviews bool) error {
	m := Manifest{Plates: make([]ManifestPlate, 0, len(col))}
	for i, p := range col {
		num := i + 1
		mp := ManifestPlate{
			Plate:       num,
			BodyFile:    BodyFile(num),
			ColoredFile: ColoredFile(num),
			Utilization: p.Utilization(),
		}
		if withPreviews {
			mp.PreviewFile = PreviewFile(num)
		}
		for _, pl := range p.Placements {
			g, ok := pl.Item.(keychain.Geometry)
			if !ok {
				return fmt.Errorf("export: placement holds %T, not a keychain", pl.Item)
			}
			mp.Indices = append(mp.Indices, g.Index)
		}
		m.Plates = append(m.Plates, mp)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
