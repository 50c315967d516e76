package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Beo-Alvaro/contra-eris/internal/artifact"
	"github.com/Beo-Alvaro/contra-eris/internal/eval"
	"github.com/Beo-Alvaro/contra-eris/internal/pipeline"
	"github.com/Beo-Alvaro/contra-eris/internal/store"
)

var (
	analyzeOutput     string
	analyzeExtensions []string
	analyzeWorkers    int
	analyzeCompress   bool
	analyzeNoHistory  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [project]",
	Short: "Generate the summary corpus for a project",
	Long: `Scan a project tree, summarize every supported source file, infer in-file
relationships, and write the corpus artifact (cbsf.json) together with the
derived dependency graph (graph.json).

Examples:
  eris analyze                       # analyze the current directory
  eris analyze ./webapp --output out
  eris analyze --extensions .py,.js --workers 4`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "",
		"Output directory (default from config)")
	analyzeCmd.Flags().StringSliceVar(&analyzeExtensions, "extensions", nil,
		"File extensions to include (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0,
		"Extraction workers (0 = one per CPU)")
	analyzeCmd.Flags().BoolVar(&analyzeCompress, "compress", false,
		"Gzip-compress the corpus artifact")
	analyzeCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false,
		"Skip recording the run in the history database")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	project := "."
	if len(args) > 0 {
		project = args[0]
	}

	cfg := mustLoadConfig(project)
	logger := newLogger(cfg)

	extensions := cfg.Analysis.Extensions
	if len(analyzeExtensions) > 0 {
		extensions = analyzeExtensions
	}
	workers := cfg.Analysis.Workers
	if analyzeWorkers > 0 {
		workers = analyzeWorkers
	}
	outputDir := cfg.Output.Dir
	if analyzeOutput != "" {
		outputDir = analyzeOutput
	}
	compress := cfg.Output.Compress || analyzeCompress

	runner := pipeline.NewRunner(logger, pipeline.Options{
		Extensions: extensions,
		IgnoreDirs: cfg.Analysis.IgnoreDirs,
		Workers:    workers,
	})

	res, err := runner.Run(context.Background(), project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing project: %v\n", err)
		os.Exit(1)
	}
	if res.FileCount == 0 {
		fmt.Fprintf(os.Stderr, "No files with extensions %v found in %s\n", extensions, project)
		os.Exit(1)
	}

	artifactPath := filepath.Join(outputDir, cfg.Output.ArtifactName)
	if compress {
		artifactPath += ".gz"
	}
	doc := artifact.FromCorpus(res.Corpus, res.Graph)
	size, err := artifact.Write(artifactPath, doc, compress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing artifact: %v\n", err)
		os.Exit(1)
	}

	graphPath := filepath.Join(outputDir, "graph.json")
	if err := artifact.WriteGraph(graphPath, res.Graph); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing graph: %v\n", err)
		os.Exit(1)
	}

	if cfg.History.Enabled && !analyzeNoHistory {
		recordRun(cfg.History.Path, project, res)
	}

	fmt.Printf("Processed %d/%d files (%d skipped, %d failed)\n",
		res.ProcessedCount, res.FileCount, res.UnsupportedCount, res.ErrorCount)
	fmt.Printf("Corpus saved to %s (%d bytes)\n", artifactPath, size)
	fmt.Printf("Graph saved to %s (%d nodes, %d edges)\n",
		graphPath, len(res.Graph.Nodes), len(res.Graph.Edges))
}

// recordRun appends the run to the history database. History is an
// auxiliary concern; failures are reported but never fail the analysis.
func recordRun(dbPath, project string, res *pipeline.Result) {
	db, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
		return
	}
	defer db.Close()

	m := eval.Evaluate(res.Graph)
	if _, err := db.RecordRun(store.Run{
		Project:          project,
		FileCount:        res.FileCount,
		ProcessedCount:   res.ProcessedCount,
		UnsupportedCount: res.UnsupportedCount,
		ErrorCount:       res.ErrorCount,
		NodeCount:        m.Graph.NodeCount,
		EdgeCount:        m.Graph.EdgeCount,
		Connectivity:     m.Graph.Connectivity,
		Entropy:          m.InformationEntropy,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record run: %v\n", err)
	}
}
