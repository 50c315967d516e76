// Package pipeline orchestrates a full analysis run: discover files, parse
// and extract them concurrently, infer in-file relationships, then assemble
// the corpus and derive the dependency graph. Per-file failures are isolated
// and counted; they never abort the batch.
package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/Beo-Alvaro/contra-eris/internal/corpus"
	"github.com/Beo-Alvaro/contra-eris/internal/eriserr"
	"github.com/Beo-Alvaro/contra-eris/internal/extract"
	"github.com/Beo-Alvaro/contra-eris/internal/graph"
	"github.com/Beo-Alvaro/contra-eris/internal/logging"
	"github.com/Beo-Alvaro/contra-eris/internal/parse"
	"github.com/Beo-Alvaro/contra-eris/internal/relate"
	"github.com/Beo-Alvaro/contra-eris/internal/scan"
	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

// Options configures a run.
type Options struct {
	// Extensions filters discovery; empty means every supported extension.
	Extensions []string
	// IgnoreDirs adds directory names to the scanner's skip list.
	IgnoreDirs []string
	// Workers bounds extraction concurrency; 0 means one per CPU.
	Workers int
}

// Failure records one file that could not be processed.
type Failure struct {
	File string
	Err  error
}

// Result is the outcome of one run.
type Result struct {
	Corpus *corpus.Corpus
	Graph  *graph.Graph

	FileCount        int
	ProcessedCount   int
	UnsupportedCount int
	ErrorCount       int
	Failures         []Failure
}

// Runner executes analysis runs. Safe for reuse across runs.
type Runner struct {
	log      *logging.Logger
	inferrer *relate.Inferrer
	opts     Options
}

// NewRunner builds a runner with the given options.
func NewRunner(log *logging.Logger, opts Options) *Runner {
	if len(opts.Extensions) == 0 {
		opts.Extensions = parse.SupportedExtensions()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Runner{
		log:      log,
		inferrer: relate.NewInferrer(),
		opts:     opts,
	}
}

// Run analyzes the tree under root. Extraction runs on a bounded worker
// pool writing into per-file-indexed slots; assembly and graph derivation
// wait for every slot, since relationship assembly scans the complete file
// set. Summary order always follows the sorted discovery order, not worker
// completion order.
func (r *Runner) Run(ctx context.Context, root string) (*Result, error) {
	files, err := scan.NewScanner(r.opts.Extensions, r.opts.IgnoreDirs).Files(root)
	if err != nil {
		return nil, eriserr.Wrap(eriserr.InternalError, "file discovery failed", err)
	}

	r.log.Info("analysis started", logging.Fields{
		"root":    root,
		"files":   len(files),
		"workers": r.opts.Workers,
	})

	slots := make([]*summary.FileSummary, len(files))
	errs := make([]error, len(files))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Tree-sitter parsers are not safe for concurrent use, so each
			// worker owns one.
			parser := parse.NewParser()
			for i := range jobs {
				slots[i], errs[i] = r.processFile(ctx, parser, files[i])
			}
		}()
	}

	for i := range files {
		if ctx.Err() != nil {
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	res := &Result{FileCount: len(files)}
	summaries := make([]*summary.FileSummary, 0, len(files))
	for i, s := range slots {
		switch {
		case s != nil:
			summaries = append(summaries, s)
			res.ProcessedCount++
		case eriserr.HasCode(errs[i], eriserr.UnsupportedLanguage):
			res.UnsupportedCount++
			r.log.Debug("file skipped", logging.Fields{"file": files[i]})
		default:
			res.ErrorCount++
			res.Failures = append(res.Failures, Failure{File: files[i], Err: errs[i]})
			r.log.Warn("file failed", logging.Fields{
				"file":  files[i],
				"error": errs[i].Error(),
			})
		}
	}

	res.Corpus = corpus.Assemble(summaries)
	res.Graph = graph.Build(summaries)

	r.log.Info("analysis finished", logging.Fields{
		"processed":   res.ProcessedCount,
		"skipped":     res.UnsupportedCount,
		"failed":      res.ErrorCount,
		"graph_nodes": len(res.Graph.Nodes),
		"graph_edges": len(res.Graph.Edges),
	})
	return res, nil
}

// processFile runs the per-file stages: parse, extract, infer. The returned
// summary is complete and immutable from the caller's perspective.
func (r *Runner) processFile(ctx context.Context, parser *parse.Parser, path string) (*summary.FileSummary, error) {
	parsed, err := parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer parsed.Close()

	s, err := extract.Summarize(parsed)
	if err != nil {
		return nil, err
	}

	r.inferrer.Infer(s)
	return s, nil
}
