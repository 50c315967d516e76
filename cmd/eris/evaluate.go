package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Beo-Alvaro/contra-eris/internal/artifact"
	"github.com/Beo-Alvaro/contra-eris/internal/eval"
	"github.com/Beo-Alvaro/contra-eris/internal/report"
	"github.com/Beo-Alvaro/contra-eris/internal/scan"
)

var (
	evaluateArtifact    string
	evaluateMetricsFile string
	evaluateReport      bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [project]",
	Short: "Score a saved corpus artifact with structural metrics",
	Long: `Load a corpus artifact, reconstruct its dependency graph if the artifact
predates graph embedding, and compute structural metrics: connectivity,
centrality, community structure, coupling, instability, and entropy. The
compression ratio compares the artifact's size to the original tree.

Examples:
  eris evaluate                              # uses output/cbsf.json
  eris evaluate ./webapp --artifact out/cbsf.json
  eris evaluate --metrics-file out/metrics.json --report`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateArtifact, "artifact", "",
		"Corpus artifact path (default <output>/<artifactName> from config)")
	evaluateCmd.Flags().StringVar(&evaluateMetricsFile, "metrics-file", "",
		"Write the full metrics document to this path")
	evaluateCmd.Flags().BoolVar(&evaluateReport, "report", false,
		"Write an HTML report next to the artifact")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) {
	project := "."
	if len(args) > 0 {
		project = args[0]
	}

	cfg := mustLoadConfig(project)
	logger := newLogger(cfg)

	artifactPath := evaluateArtifact
	if artifactPath == "" {
		artifactPath = filepath.Join(cfg.Output.Dir, cfg.Output.ArtifactName)
	}

	doc, err := artifact.Read(artifactPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading artifact: %v\n", err)
		os.Exit(1)
	}
	g := doc.ResolveGraph()

	metrics := eval.Evaluate(g)

	artifactSize, err := artifact.Size(artifactPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sourceSize, err := scan.TreeSize(project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sizing source tree: %v\n", err)
		os.Exit(1)
	}
	metrics.CompressionRatio = eval.CompressionRatio(artifactSize, sourceSize)

	if b := metrics.Graph.Betweenness; b.Failed() {
		logger.Warn("betweenness fell back to failure sentinel", nil)
	}
	if c := metrics.Graph.Communities; c.Failed() {
		logger.Warn("community detection fell back to failure sentinel", nil)
	}

	if evaluateMetricsFile != "" {
		if err := writeMetrics(evaluateMetricsFile, metrics); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Evaluation results saved to %s\n", evaluateMetricsFile)
	}

	if evaluateReport {
		reportPath := filepath.Join(filepath.Dir(artifactPath), "report.html")
		if err := report.Write(reportPath, metrics); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", reportPath)
	}

	printKeyMetrics(metrics)
}

func writeMetrics(path string, m *eval.Metrics) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func printKeyMetrics(m *eval.Metrics) {
	fmt.Println("\nKey Metrics:")
	if m.CompressionRatio.IsInf() {
		fmt.Println("Compression Ratio: Infinity")
	} else {
		fmt.Printf("Compression Ratio: %.4f\n", float64(m.CompressionRatio))
	}
	fmt.Printf("Node Count: %d\n", m.Graph.NodeCount)
	fmt.Printf("Edge Count: %d\n", m.Graph.EdgeCount)
	fmt.Printf("Connectivity: %.4f\n", m.Graph.Connectivity)
	fmt.Printf("Information Entropy: %.4f\n", m.InformationEntropy)
	fmt.Printf("Avg Fan-in: %.2f\n", m.Dependency.AvgFanIn)
	fmt.Printf("Avg Fan-out: %.2f\n", m.Dependency.AvgFanOut)
	fmt.Printf("Avg Instability: %.2f\n", m.Dependency.AvgInstability)
}
