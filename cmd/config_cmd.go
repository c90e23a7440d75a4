package cmd

import (
	"fmt"

	"github.com/theirongolddev/burndown/internal/cli"
	"github.com/theirongolddev/burndown/internal/config"
	"github.com/theirongolddev/burndown/internal/pipeline"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, s, err := loadSprint()
	if err != nil {
		return err
	}
	opts := pipeline.OptionsFromConfig(cfg)

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Sprint]")
	fmt.Printf("    Total days:  %d\n", s.TotalDays)
	fmt.Printf("    Total tasks: %d\n", s.TotalTasks)
	fmt.Printf("    Ideal:       %s\n", cli.FormatSeries(s.Ideal()))
	for d := 0; d <= s.TotalDays; d++ {
		fmt.Printf("    Day %-2d       %s\n", d, cli.FormatSeries(s.Actual(d)))
	}
	fmt.Println()

	fmt.Println("  [Output]")
	fmt.Printf("    Directory: %s\n", cfg.Output.Dir)
	fmt.Printf("    Pattern:   %s\n", cfg.Output.Pattern)
	fmt.Printf("    Size:      %dx%d\n", cfg.Output.Width, cfg.Output.Height)
	fmt.Printf("    Day 1:     %s\n", opts.Path(1))
	fmt.Printf("    Manifest:  %v\n", cfg.Output.Manifest)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Printf("  Manifest: %s\n", pipeline.ManifestPath())
	fmt.Println()
	fmt.Println("  Run `burndown setup` to reconfigure.")
	return nil
}
