package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Beo-Alvaro/contra-eris/internal/store"
)

var (
	historyProject string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis runs",
	Long: `Show past analysis runs from the history database, newest first.

Examples:
  eris history
  eris history --project ./webapp --limit 5`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyProject, "project", "",
		"Filter to runs of one project path")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20,
		"Maximum runs to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig(".")

	db, err := store.Open(cfg.History.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	runs, err := db.ListRuns(historyProject, historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPROJECT\tFILES\tOK\tFAILED\tNODES\tEDGES\tCONNECTIVITY\tENTROPY")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%.4f\t%.4f\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Project,
			r.FileCount, r.ProcessedCount, r.ErrorCount,
			r.NodeCount, r.EdgeCount, r.Connectivity, r.Entropy)
	}
	w.Flush()
}
