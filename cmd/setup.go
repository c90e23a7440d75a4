package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/burndown/internal/cli"
	"github.com/theirongolddev/burndown/internal/config"
	"github.com/theirongolddev/burndown/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive sprint setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := setupBaseConfig()
	if err != nil {
		return err
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := vals.Apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Println("  " + cli.RenderConfirmation("Saved to "+config.Path()))
	fmt.Println("  Run `burndown setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

// setupBaseConfig loads the config the wizard starts from. A file that fails
// to parse stops setup, since saving over it would lose hand-written
// snapshots.
func setupBaseConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("%w (fix or remove %s before running setup)", err, config.Path())
	}
	return cfg, nil
}
