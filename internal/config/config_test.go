package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		param  string
	}{
		{"negative start", func(c *Config) { c.StartIndex = -1 }, "start-index"},
		{"end before start", func(c *Config) { c.StartIndex = 5; c.EndIndex = 4 }, "end-index"},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, "output-dir"},
		{"zero token width", func(c *Config) { c.TokenWidth = 0 }, "token-width"},
		{"zero token height", func(c *Config) { c.TokenHeight = 0 }, "token-height"},
		{"zero token depth", func(c *Config) { c.TokenDepth = 0 }, "token-depth"},
		{"corner too large", func(c *Config) { c.CornerRadius = 26 }, "token-corner-radius"},
		{"fillet exceeds corner", func(c *Config) { c.FilletRadius = 5 }, "token-fillet-radius"},
		{"fillet too deep", func(c *Config) { c.FilletRadius = 1.6; c.CornerRadius = 2 }, "token-fillet-radius"},
		{"colored deeper than token", func(c *Config) { c.ColoredDepth = 3 }, "colored-print-depth"},
		{"qr border eats the face", func(c *Config) { c.QRBorder = 25 }, "qr-border"},
		{"zero text size", func(c *Config) { c.TextSize = 0 }, "text-size"},
		{"text border eats the face", func(c *Config) { c.TextBorder = 30 }, "text-border"},
		{"zero hole radius", func(c *Config) { c.HoleRadius = 0 }, "hole-radius"},
		{"hole outside token", func(c *Config) { c.HoleOffset = 55 }, "hole-offset"},
		{"hole wider than token", func(c *Config) { c.HoleRadius = 25 }, "hole-radius"},
		{"zero plate width", func(c *Config) { c.PlateWidth = 0 }, "build-plate-width"},
		{"zero plate height", func(c *Config) { c.PlateHeight = 0 }, "build-plate-height"},
		{"negative spacing", func(c *Config) { c.PlateSpacing = -1 }, "build-plate-spacing"},
		{"zero mesh cells", func(c *Config) { c.MeshCells = 0 }, "mesh-cells"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var ce *Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.param, ce.Param)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"token_width": 80, "end_index": 10, "label_prefix": "ASSET-"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// File values applied over defaults.
	assert.Equal(t, 80.0, cfg.TokenWidth)
	assert.Equal(t, 10, cfg.EndIndex)
	assert.Equal(t, "ASSET-", cfg.LabelPrefix)
	assert.Equal(t, 60.0, cfg.TokenHeight)
	assert.Equal(t, 254.0, cfg.PlateWidth)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load("no-such-config.json")
	assert.Error(t, err)
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestPayload(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "T-7", cfg.Payload(7))

	cfg.LabelPrefix = ""
	assert.Equal(t, "42", cfg.Payload(42))
}
