// Package cmd implements the burndown CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/burndown/internal/config"
	"github.com/theirongolddev/burndown/internal/model"
	"github.com/theirongolddev/burndown/internal/pipeline"
	"github.com/theirongolddev/burndown/internal/store"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// confirmation is printed once after every image has been written.
const confirmation = "Burn-down chart snapshots saved as PNG files."

var (
	flagOutDir  string
	flagQuiet   bool
	flagCache   bool
	flagNoCache bool
)

var rootCmd = &cobra.Command{
	Use:           "burndown",
	Short:         "Sprint burn-down chart generator",
	Long:          "Render one burn-down chart per sprint day, comparing the ideal line with actual progress.",
	RunE:          runRender,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutDir, "out-dir", "o", "", "Output directory (default from config, else current directory)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagCache, "cache", false, "Record images in the SQLite manifest and skip unchanged days")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Ignore the manifest even if enabled in config")
}

// loadSprint is the shared config loading path used by all commands.
func loadSprint() (config.Config, model.Sprint, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, model.Sprint{}, err
	}
	if flagOutDir != "" {
		cfg.Output.Dir = flagOutDir
	}
	s, err := cfg.BuildSprint()
	if err != nil {
		return cfg, s, err
	}
	return cfg, s, nil
}

// showProgress reports whether progress lines should be written to stderr.
func showProgress() bool {
	if flagQuiet {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// useManifest reports whether this run should consult the manifest. It is
// opt-in so a plain run leaves nothing behind but the images.
func useManifest(cfg config.Config) bool {
	if flagNoCache {
		return false
	}
	return flagCache || cfg.Output.Manifest
}

// render runs the render loop. With withManifest set it goes through the
// manifest, falling back to a full render if the manifest can't be opened.
func render(ctx context.Context, s model.Sprint, opts pipeline.Options, withManifest bool) (*pipeline.RenderResult, error) {
	progress := showProgress()
	progressFn := func(current, total int) {
		if progress {
			fmt.Fprintf(os.Stderr, "\r  Rendering [%d/%d]", current, total)
		}
	}

	if withManifest {
		m, err := store.Open(pipeline.ManifestPath())
		if err != nil {
			if progress {
				fmt.Fprintf(os.Stderr, "  Manifest unavailable, rendering everything\n")
			}
		} else {
			defer m.Close()

			cr, err := pipeline.RenderWithManifest(ctx, s, opts, m, progressFn)
			if err != nil {
				return nil, err
			}
			if progress {
				if cr.Skipped > 0 {
					fmt.Fprintf(os.Stderr, "\r  %d rendered, %d unchanged    \n", cr.Rendered, cr.Skipped)
				} else {
					fmt.Fprintf(os.Stderr, "\r  %d rendered    \n", cr.Rendered)
				}
			}
			return &cr.RenderResult, nil
		}
	}

	result, err := pipeline.RenderAll(ctx, s, opts, progressFn)
	if err != nil {
		return nil, err
	}
	if progress {
		fmt.Fprintf(os.Stderr, "\r  %d rendered    \n", result.Rendered)
	}
	return result, nil
}

func runRender(_ *cobra.Command, _ []string) error {
	cfg, s, err := loadSprint()
	if err != nil {
		return err
	}

	opts := pipeline.OptionsFromConfig(cfg)
	opts.Day = flagDay

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := render(ctx, s, opts, useManifest(cfg)); err != nil {
		return err
	}

	fmt.Println(confirmation)
	return nil
}
