package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/burndown/internal/config"
	"github.com/theirongolddev/burndown/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the fields edited by the setup form. Numbers are kept as
// strings because huh inputs bind to strings.
type SetupValues struct {
	TotalDays  string
	TotalTasks string
	OutputDir  string
	Theme      string
}

// SetupValuesFrom seeds the form from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		TotalDays:  strconv.Itoa(cfg.Sprint.TotalDays),
		TotalTasks: strconv.Itoa(cfg.Sprint.TotalTasks),
		OutputDir:  cfg.Output.Dir,
		Theme:      cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the setup wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("burndown setup").
				Description("Sprint size, output location and colors.\nRun `burndown setup` anytime to change them."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Sprint length (days)").
				Value(&vals.TotalDays).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Total tasks").
				Value(&vals.TotalTasks).
				Validate(validatePositiveInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Description("Chart images are written here.").
				Value(&vals.OutputDir),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeCharm())
}

// Apply copies the form values into cfg. Snapshots survive when they still
// fit the new sprint size.
func (v SetupValues) Apply(cfg *config.Config) error {
	days, err := parsePositiveInt(v.TotalDays)
	if err != nil {
		return fmt.Errorf("sprint length: %w", err)
	}
	tasks, err := parsePositiveInt(v.TotalTasks)
	if err != nil {
		return fmt.Errorf("total tasks: %w", err)
	}

	cfg.SetSprintSize(days, tasks)

	dir := strings.TrimSpace(v.OutputDir)
	if dir == "" {
		dir = "."
	}
	cfg.Output.Dir = dir

	if theme.Valid(v.Theme) {
		cfg.Appearance.Theme = v.Theme
	}
	return nil
}

func validatePositiveInt(s string) error {
	_, err := parsePositiveInt(s)
	return err
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}
