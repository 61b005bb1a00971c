// Package config holds the run configuration for the keychain generator.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds all dimensional and run parameters for one invocation.
// Lengths are millimeters. A Config is treated as immutable once Validate
// has accepted it.
type Config struct {
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
	OutputDir  string `json:"output_dir"`

	// Token dimensions
	TokenWidth   float64 `json:"token_width"`
	TokenHeight  float64 `json:"token_height"`
	TokenDepth   float64 `json:"token_depth"`
	CornerRadius float64 `json:"token_corner_radius"`
	FilletRadius float64 `json:"token_fillet_radius"`

	// Surface features
	QRBorder     float64 `json:"qr_border"`
	ColoredDepth float64 `json:"colored_print_depth"`
	TextFont     string  `json:"text_font"`
	TextSize     float64 `json:"text_size"`
	TextBorder   float64 `json:"text_border"`
	LabelPrefix  string  `json:"label_prefix"`
	HoleRadius   float64 `json:"hole_radius"`
	HoleOffset   float64 `json:"hole_offset"`
	LogoPath     string  `json:"logo_path"`

	// Build plate
	PlateWidth   float64 `json:"build_plate_width"`
	PlateHeight  float64 `json:"build_plate_height"`
	PlateSpacing float64 `json:"build_plate_spacing"`

	// Export
	MeshCells int  `json:"mesh_cells"`
	NoPreview bool `json:"no_preview"`
}

// Default returns the configuration the tool runs with when nothing else is
// specified: a 254x254mm printer bed and a 50x60mm token.
func Default() Config {
	return Config{
		StartIndex:   1,
		EndIndex:     1,
		OutputDir:    "output",
		TokenWidth:   50,
		TokenHeight:  60,
		TokenDepth:   3,
		CornerRadius: 4,
		FilletRadius: 1,
		QRBorder:     3,
		ColoredDepth: 0.6,
		TextSize:     7,
		TextBorder:   3,
		LabelPrefix:  "T-",
		HoleRadius:   3,
		HoleOffset:   3,
		PlateWidth:   254,
		PlateHeight:  254,
		PlateSpacing: 1,
		MeshCells:    200,
	}
}

// Load reads a JSON config file over the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Error reports an invalid or inconsistent configuration parameter.
type Error struct {
	Param  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: --%s: %s", e.Param, e.Reason)
}

// Validate checks dimensional consistency. The first violated constraint is
// returned as an *Error naming the offending flag.
func (c *Config) Validate() error {
	switch {
	case c.StartIndex < 0:
		return &Error{"start-index", "must not be negative"}
	case c.EndIndex < c.StartIndex:
		return &Error{"end-index", fmt.Sprintf("must be >= start index %d", c.StartIndex)}
	case c.OutputDir == "":
		return &Error{"output-dir", "must not be empty"}
	case c.TokenWidth <= 0:
		return &Error{"token-width", "must be positive"}
	case c.TokenHeight <= 0:
		return &Error{"token-height", "must be positive"}
	case c.TokenDepth <= 0:
		return &Error{"token-depth", "must be positive"}
	case c.CornerRadius < 0:
		return &Error{"token-corner-radius", "must not be negative"}
	case c.CornerRadius > min(c.TokenWidth, c.TokenHeight)/2:
		return &Error{"token-corner-radius", "must not exceed half the smaller token side"}
	case c.FilletRadius < 0:
		return &Error{"token-fillet-radius", "must not be negative"}
	case c.FilletRadius > c.CornerRadius:
		return &Error{"token-fillet-radius", "must not exceed the corner radius"}
	case 2*c.FilletRadius >= c.TokenDepth:
		return &Error{"token-fillet-radius", "must be less than half the token depth"}
	case c.ColoredDepth <= 0:
		return &Error{"colored-print-depth", "must be positive"}
	case c.ColoredDepth >= c.TokenDepth:
		return &Error{"colored-print-depth", "must be less than the token depth"}
	case c.QRBorder < 0:
		return &Error{"qr-border", "must not be negative"}
	case c.TokenWidth-2*c.QRBorder <= 0:
		return &Error{"qr-border", "leaves no room for the QR code"}
	case c.TextSize <= 0:
		return &Error{"text-size", "must be positive"}
	case c.TextBorder < 0:
		return &Error{"text-border", "must not be negative"}
	case c.TokenHeight-2*c.TextBorder <= 0:
		return &Error{"text-border", "leaves no room on the token face"}
	case c.HoleRadius <= 0:
		return &Error{"hole-radius", "must be positive"}
	case c.HoleOffset < 0:
		return &Error{"hole-offset", "must not be negative"}
	case c.HoleOffset+2*c.HoleRadius >= c.TokenHeight:
		return &Error{"hole-offset", "places the hole outside the token"}
	case 2*c.HoleRadius >= c.TokenWidth:
		return &Error{"hole-radius", "hole is wider than the token"}
	case c.PlateWidth <= 0:
		return &Error{"build-plate-width", "must be positive"}
	case c.PlateHeight <= 0:
		return &Error{"build-plate-height", "must be positive"}
	case c.PlateSpacing < 0:
		return &Error{"build-plate-spacing", "must not be negative"}
	case c.MeshCells <= 0:
		return &Error{"mesh-cells", "must be positive"}
	}
	return nil
}

// Payload returns the QR/label payload for one keychain index.
func (c *Config) Payload(index int) string {
	return fmt.Sprintf("%s%d", c.LabelPrefix, index)
}
