// Package pipeline runs one generation batch end to end: compose every
// keychain in the index range, pack the plates, export the model files.
//
// The run is strictly sequential and fail-fast. Generation is deterministic,
// so a failed index would fail again on retry; aborting immediately with the
// offending index beats exporting an incomplete batch.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"qrkeytag/internal/config"
	"qrkeytag/internal/export"
	"qrkeytag/internal/keychain"
	"qrkeytag/internal/label"
	"qrkeytag/internal/logo"
	"qrkeytag/internal/plate"
	"qrkeytag/internal/preview"
	"qrkeytag/internal/solid"
)

// logoCols is the relief resolution for back-face artwork.
const logoCols = 64

// previewScale is the preview image resolution in pixels per millimeter.
const previewScale = 2

// Summary reports what a successful run produced.
type Summary struct {
	Keychains int
	Plates    int
	Files     int
}

// Run executes the full pipeline for cfg. Any error aborts the run; the
// output directory may hold partial artifacts only if exporting itself
// failed partway.
func Run(cfg config.Config, log *zap.Logger) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	face, err := label.LoadFace(cfg.TextFont, cfg.TextSize)
	if err != nil {
		return Summary{}, err
	}

	var art solid.Grid
	if cfg.LogoPath != "" {
		r, err := logo.Load(cfg.LogoPath, logoCols)
		if err != nil {
			return Summary{}, err
		}
		art = r
		log.Info("loaded back-face logo", zap.String("path", cfg.LogoPath))
	}

	count := cfg.EndIndex - cfg.StartIndex + 1
	log.Info("composing keychains",
		zap.Int("start", cfg.StartIndex),
		zap.Int("end", cfg.EndIndex),
		zap.Int("count", count))

	items := make([]plate.Item, 0, count)
	for i := cfg.StartIndex; i <= cfg.EndIndex; i++ {
		spec := keychain.Spec{
			Index:        i,
			Payload:      cfg.Payload(i),
			TokenWidth:   cfg.TokenWidth,
			TokenHeight:  cfg.TokenHeight,
			TokenDepth:   cfg.TokenDepth,
			CornerRadius: cfg.CornerRadius,
			FilletRadius: cfg.FilletRadius,
			QRBorder:     cfg.QRBorder,
			ColoredDepth: cfg.ColoredDepth,
			TextSize:     cfg.TextSize,
			TextBorder:   cfg.TextBorder,
			HoleRadius:   cfg.HoleRadius,
			HoleOffset:   cfg.HoleOffset,
			Face:         face,
			Logo:         art,
		}
		g, err := keychain.Compose(spec)
		if err != nil {
			return Summary{}, err
		}
		log.Debug("composed", zap.Int("index", i), zap.String("payload", spec.Payload))
		items = append(items, g)
	}

	col, err := plate.Pack(items, cfg.PlateWidth, cfg.PlateHeight, cfg.PlateSpacing)
	if err != nil {
		var se *plate.SizeError
		if errors.As(err, &se) {
			return Summary{}, fmt.Errorf("index %d: %w", cfg.StartIndex+se.Pos, err)
		}
		return Summary{}, err
	}
	for i, p := range col {
		log.Info("packed plate",
			zap.Int("plate", i+1),
			zap.Int("keychains", len(p.Placements)),
			zap.Float64("utilization", p.Utilization()))
	}

	if err := export.Prepare(cfg.OutputDir); err != nil {
		return Summary{}, err
	}

	log.Info("rendering STL files", zap.Int("mesh_cells", cfg.MeshCells))
	if err := export.Plates(col, cfg.OutputDir, cfg.MeshCells); err != nil {
		return Summary{}, err
	}
	files := 2 * len(col)

	if err := export.WriteManifest(cfg.OutputDir, col, !cfg.NoPreview); err != nil {
		return Summary{}, err
	}
	files++

	if !cfg.NoPreview {
		for i, p := range col {
			path := filepath.Join(cfg.OutputDir, export.PreviewFile(i+1))
			if err := preview.Write(path, preview.Render(p, previewScale)); err != nil {
				return Summary{}, err
			}
			files++
		}
	}

	return Summary{Keychains: count, Plates: len(col), Files: files}, nil
}
