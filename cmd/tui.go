package cmd

import (
	"fmt"

	"github.com/theirongolddev/burndown/internal/pipeline"
	"github.com/theirongolddev/burndown/internal/tui"
	"github.com/theirongolddev/burndown/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:     "preview",
	Aliases: []string{"tui"},
	Short:   "Browse the sprint day by day in the terminal",
	RunE:    runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(_ *cobra.Command, _ []string) error {
	cfg, s, err := loadSprint()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Without a forced profile lipgloss may fall back to Ascii and drop backgrounds.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(s, pipeline.OptionsFromConfig(cfg))
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
