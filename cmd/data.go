package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/theirongolddev/burndown/internal/cli"
	"github.com/theirongolddev/burndown/internal/model"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagFormat string

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Show ideal vs actual remaining work per day",
	RunE:  runData,
}

func init() {
	dataCmd.Flags().StringVarP(&flagFormat, "format", "f", "table", "Output format: table, json, yaml")
	rootCmd.AddCommand(dataCmd)
}

// sprintReport is the machine-readable shape of the data command.
type sprintReport struct {
	TotalDays  int              `json:"total_days" yaml:"total_days"`
	TotalTasks int              `json:"total_tasks" yaml:"total_tasks"`
	Ideal      []float64        `json:"ideal" yaml:"ideal,flow"`
	Days       []model.DayStats `json:"days" yaml:"days"`
}

func runData(_ *cobra.Command, _ []string) error {
	_, s, err := loadSprint()
	if err != nil {
		return err
	}

	switch flagFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(newSprintReport(s))
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(newSprintReport(s)); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		printDataTable(s)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", flagFormat)
	}
}

func newSprintReport(s model.Sprint) sprintReport {
	return sprintReport{
		TotalDays:  s.TotalDays,
		TotalTasks: s.TotalTasks,
		Ideal:      s.Ideal(),
		Days:       s.AllStats(),
	}
}

func printDataTable(s model.Sprint) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPRINT BURN-DOWN  %d days / %d tasks", s.TotalDays, s.TotalTasks)))
	fmt.Println()

	stats := s.AllStats()
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{
			strconv.Itoa(st.Day),
			cli.FormatTasks(st.IdealRemaining),
			cli.FormatTasks(st.ActualRemaining),
			cli.FormatVariance(st.Variance),
			cli.FormatPercent(st.PercentComplete),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Day", "Ideal", "Actual", "Variance", "Complete"},
		Rows:    rows,
	}))

	last, ok := s.Stats(s.TotalDays)
	if !ok {
		return
	}
	fmt.Println()
	fmt.Println(cli.RenderKeyValue("Remaining", cli.RenderSparkline(s.Actual(s.TotalDays)), 10))
	fmt.Println(cli.RenderKeyValue("Schedule", cli.RenderVariance(last.Variance), 10))
	fmt.Println(cli.RenderKeyValue("Progress", cli.RenderProgressBar(last.PercentComplete, 30), 10))
	if last.Regressions > 0 {
		fmt.Println(cli.RenderKeyValue("Note", fmt.Sprintf("remaining work went up on %d day(s)", last.Regressions), 10))
	}
	fmt.Println()
}
