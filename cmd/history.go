package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/theirongolddev/burndown/internal/cli"
	"github.com/theirongolddev/burndown/internal/pipeline"
	"github.com/theirongolddev/burndown/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	flagLimit int
	flagPrune bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent render runs and the images they wrote",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagPrune, "prune", false, "Forget images that no longer exist on disk")
	rootCmd.AddCommand(historyCmd)
}

const noHistory = "No renders recorded yet. Render with --cache or set [output] manifest = true."

func runHistory(_ *cobra.Command, _ []string) error {
	// Don't create a manifest just to report that it is empty.
	if _, err := os.Stat(pipeline.ManifestPath()); errors.Is(err, fs.ErrNotExist) {
		fmt.Println("\n  " + noHistory)
		return nil
	}

	m, err := store.Open(pipeline.ManifestPath())
	if err != nil {
		return err
	}
	defer m.Close()

	if flagPrune {
		n, err := m.Prune()
		if err != nil {
			return fmt.Errorf("pruning manifest: %w", err)
		}
		fmt.Println()
		fmt.Println("  " + cli.RenderConfirmation(fmt.Sprintf("Pruned %d missing image(s)", n)))
	}

	runs, err := m.ListRuns(flagLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("\n  " + noHistory)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("RENDER HISTORY"))
	fmt.Println()

	runRows := make([][]string, 0, len(runs))
	for _, r := range runs {
		finished := "incomplete"
		if !r.FinishedAt.IsZero() {
			finished = humanize.Time(r.FinishedAt)
		}
		runRows = append(runRows, []string{
			shortID(r.ID),
			humanize.Time(r.StartedAt),
			finished,
			strconv.Itoa(r.Rendered),
			strconv.Itoa(r.Skipped),
			r.OutputDir,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Runs",
		Headers: []string{"Run", "Started", "Finished", "Drawn", "Kept", "Dir"},
		Rows:    runRows,
	}))

	entries, err := m.ListArtifacts()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	fmt.Println()
	imgRows := make([][]string, 0, len(entries))
	var total uint64
	for _, e := range entries {
		total += uint64(e.SizeBytes)
		imgRows = append(imgRows, []string{
			filepath.Base(e.Path),
			strconv.Itoa(e.Day),
			humanize.Bytes(uint64(e.SizeBytes)),
			humanize.Time(e.RenderedAt),
		})
	}
	imgRows = append(imgRows, []string{"---"})
	imgRows = append(imgRows, []string{"Total", "", humanize.Bytes(total), ""})
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Images",
		Headers: []string{"File", "Day", "Size", "Rendered"},
		Rows:    imgRows,
	}))

	count, err := m.ArtifactCount()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(cli.RenderKeyValue("Tracked", fmt.Sprintf("%d image(s) in %s", count, pipeline.ManifestPath()), 10))
	fmt.Println()

	return nil
}

// shortID trims a run ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
