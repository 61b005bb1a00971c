// Command qrkeytag generates dual-sided QR keychain tags, packs them onto
// build plates and exports STL file pairs for dual-material printing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"qrkeytag/internal/config"
	"qrkeytag/internal/pipeline"
)

var (
	configFile string
	verbose    bool
	flagCfg    = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "qrkeytag",
	Short: "Generate 3D-printable QR keychain tags",
	Long: `qrkeytag generates dual-sided QR-code keychain tags for an index range,
packs them onto virtual build plates and writes one body STL and one colored
STL per plate, plus a WebP layout preview and a manifest.

Example:
  qrkeytag --start-index 1 --end-index 50 --output-dir tags/`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()

	f.StringVar(&configFile, "config", "", "JSON config file; flags override it")
	f.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	f.IntVar(&flagCfg.StartIndex, "start-index", flagCfg.StartIndex, "first keychain index")
	f.IntVar(&flagCfg.EndIndex, "end-index", flagCfg.EndIndex, "last keychain index (inclusive)")
	f.StringVar(&flagCfg.OutputDir, "output-dir", flagCfg.OutputDir, "output directory for model files")

	f.Float64Var(&flagCfg.TokenWidth, "token-width", flagCfg.TokenWidth, "token width in mm")
	f.Float64Var(&flagCfg.TokenHeight, "token-height", flagCfg.TokenHeight, "token height in mm")
	f.Float64Var(&flagCfg.TokenDepth, "token-depth", flagCfg.TokenDepth, "token depth in mm")
	f.Float64Var(&flagCfg.CornerRadius, "token-corner-radius", flagCfg.CornerRadius, "token corner radius in mm")
	f.Float64Var(&flagCfg.FilletRadius, "token-fillet-radius", flagCfg.FilletRadius, "token edge fillet radius in mm")

	f.Float64Var(&flagCfg.QRBorder, "qr-border", flagCfg.QRBorder, "margin around the QR relief in mm")
	f.Float64Var(&flagCfg.ColoredDepth, "colored-print-depth", flagCfg.ColoredDepth, "depth of the colored inlay in mm")
	f.StringVar(&flagCfg.TextFont, "text-font", flagCfg.TextFont, "TTF/OTF font file for the label (default: embedded Go Regular)")
	f.Float64Var(&flagCfg.TextSize, "text-size", flagCfg.TextSize, "label text size in mm")
	f.Float64Var(&flagCfg.TextBorder, "text-border", flagCfg.TextBorder, "margin around the label in mm")
	f.StringVar(&flagCfg.LabelPrefix, "label-prefix", flagCfg.LabelPrefix, "prefix for the QR payload and label text")
	f.Float64Var(&flagCfg.HoleRadius, "hole-radius", flagCfg.HoleRadius, "mounting hole radius in mm")
	f.Float64Var(&flagCfg.HoleOffset, "hole-offset", flagCfg.HoleOffset, "mounting hole offset from the top edge in mm")
	f.StringVar(&flagCfg.LogoPath, "logo", flagCfg.LogoPath, "PNG/JPEG/TGA image for the back face instead of the mirrored QR")

	f.Float64Var(&flagCfg.PlateWidth, "build-plate-width", flagCfg.PlateWidth, "build plate width in mm")
	f.Float64Var(&flagCfg.PlateHeight, "build-plate-height", flagCfg.PlateHeight, "build plate height in mm")
	f.Float64Var(&flagCfg.PlateSpacing, "build-plate-spacing", flagCfg.PlateSpacing, "spacing between packed tokens in mm")

	f.IntVar(&flagCfg.MeshCells, "mesh-cells", flagCfg.MeshCells, "octree renderer resolution")
	f.BoolVar(&flagCfg.NoPreview, "no-preview", flagCfg.NoPreview, "skip WebP plate previews")

	cobra.CheckErr(rootCmd.MarkFlagRequired("start-index"))
	cobra.CheckErr(rootCmd.MarkFlagRequired("end-index"))
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
	}

	// Flags the user actually set override the file.
	cmd.Flags().Visit(func(f *pflag.Flag) {
		applyFlag(&cfg, f.Name)
	})

	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	sum, err := pipeline.Run(cfg, log)
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d keychains on %d plate(s), %d files in %s\n",
		sum.Keychains, sum.Plates, sum.Files, cfg.OutputDir)
	return nil
}

// applyFlag copies one explicitly set flag value from flagCfg into cfg.
func applyFlag(cfg *config.Config, name string) {
	switch name {
	case "start-index":
		cfg.StartIndex = flagCfg.StartIndex
	case "end-index":
		cfg.EndIndex = flagCfg.EndIndex
	case "output-dir":
		cfg.OutputDir = flagCfg.OutputDir
	case "token-width":
		cfg.TokenWidth = flagCfg.TokenWidth
	case "token-height":
		cfg.TokenHeight = flagCfg.TokenHeight
	case "token-depth":
		cfg.TokenDepth = flagCfg.TokenDepth
	case "token-corner-radius":
		cfg.CornerRadius = flagCfg.CornerRadius
	case "token-fillet-radius":
		cfg.FilletRadius = flagCfg.FilletRadius
	case "qr-border":
		cfg.QRBorder = flagCfg.QRBorder
	case "colored-print-depth":
		cfg.ColoredDepth = flagCfg.ColoredDepth
	case "text-font":
		cfg.TextFont = flagCfg.TextFont
	case "text-size":
		cfg.TextSize = flagCfg.TextSize
	case "text-border":
		cfg.TextBorder = flagCfg.TextBorder
	case "label-prefix":
		cfg.LabelPrefix = flagCfg.LabelPrefix
	case "hole-radius":
		cfg.HoleRadius = flagCfg.HoleRadius
	case "hole-offset":
		cfg.HoleOffset = flagCfg.HoleOffset
	case "logo":
		cfg.LogoPath = flagCfg.LogoPath
	case "build-plate-width":
		cfg.PlateWidth = flagCfg.PlateWidth
	case "build-plate-height":
		cfg.PlateHeight = flagCfg.PlateHeight
	case "build-plate-spacing":
		cfg.PlateSpacing = flagCfg.PlateSpacing
	case "mesh-cells":
		cfg.MeshCells = flagCfg.MeshCells
	case "no-preview":
		cfg.NoPreview = flagCfg.NoPreview
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return c.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
