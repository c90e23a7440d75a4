package cmd

import (
	"github.com/spf13/cobra"
)

var flagDay int

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the burn-down chart images",
	Long:  "Render one PNG per sprint day (or a single day with --day) into the output directory.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().IntVar(&flagDay, "day", 0, "Render only this day (1..total days)")
	rootCmd.AddCommand(renderCmd)
}
