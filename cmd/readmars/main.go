// Command readmars lists, extracts and exports the trees and status displays
// of processed run files.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/robert-malhotra/go-readmars/backend/yamlstore"
	"github.com/robert-malhotra/go-readmars/internal/camera"
	"github.com/robert-malhotra/go-readmars/internal/config"
	"github.com/robert-malhotra/go-readmars/mars"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// app holds the global flags and what is set up from them before a
// subcommand runs.
type app struct {
	configPath  string
	backendName string
	pixelMap    string
	verbose     bool

	cfg     *config.Config
	logger  *slog.Logger
	pixels  *camera.Map
	backend *mars.Backend
	fs      afs.Service
}

func newRootCmd() *cobra.Command {
	a := &app{fs: afs.New()}

	root := &cobra.Command{
		Use:           "readmars",
		Short:         "Read trees and status displays of processed run files",
		Long:          "readmars extracts leaves of run file trees as typed columns and flattens status displays into keyed camera arrays and histograms, writing both to SQLite.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.backendName, "backend", "", "backend driver (default from config, else yaml)")
	root.PersistentFlags().StringVar(&a.pixelMap, "pixel-map", "", "CSV file or URL with softID,CHID columns")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log skipped leaves and backend diagnostics")

	root.AddCommand(
		newLeavesCmd(a),
		newExtractCmd(a),
		newRunlistCmd(a),
		newStatusCmd(a),
		newCameraCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if a.backendName != "" {
		cfg.Backend = a.backendName
	}
	if a.pixelMap != "" {
		cfg.PixelMap = a.pixelMap
	}
	a.cfg = cfg

	pixels, err := cfg.LoadPixelMap(cmd.Context(), a.fs)
	if err != nil {
		return err
	}
	a.pixels = pixels

	b, err := mars.Setup(cfg.Backend)
	if err != nil {
		return err
	}
	a.backend = b
	a.logger.Debug("backend ready", "backend", b.Name(), "pixel_map", cfg.PixelMap)
	return nil
}

// options returns the mars options of the configuration followed by extra.
func (a *app) options(extra ...mars.Option) []mars.Option {
	opts := a.cfg.Options(a.pixels)
	opts = append(opts, mars.WithLogger(a.logger), mars.WithVerbose(a.verbose))
	return append(opts, extra...)
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
