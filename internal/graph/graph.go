// Package graph derives the file-level dependency graph from a corpus's
// import declarations. Nodes are file paths; a directed edge means the
// source file imports something the target file provides.
package graph

import (
	"strings"

	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

// Edge is one directed dependency between two files.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the serialized dependency graph. Every summarized file appears as
// a node whether or not any edge touches it. Edges may repeat when multiple
// imports resolve to the same target; consumers that need a simple graph
// deduplicate on load.
type Graph struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// Build derives the graph from the summaries. An import resolves to a file
// when the import string occurs in the file's path, or when the import's
// last dotted segment names a class declared in the file. Resolution is
// deliberately lenient; self-edges are never produced.
func Build(summaries []*summary.FileSummary) *Graph {
	g := &Graph{
		Nodes: make([]string, 0, len(summaries)),
		Edges: []Edge{},
	}
	for _, s := range summaries {
		g.Nodes = append(g.Nodes, s.File)
	}

	for _, from := range summaries {
		for _, imp := range from.Imports {
			if imp == "" {
				continue
			}
			for _, to := range summaries {
				if to.File == from.File {
					continue
				}
				if importResolvesTo(imp, to) {
					g.Edges = append(g.Edges, Edge{From: from.File, To: to.File})
				}
			}
		}
	}
	return g
}

func importResolvesTo(imp string, target *summary.FileSummary) bool {
	if strings.Contains(target.File, imp) {
		return true
	}
	for _, cl := range target.Classes {
		if cl.Name != "" && strings.HasSuffix(imp, "."+cl.Name) {
			return true
		}
	}
	return false
}

// Dedup returns the graph's edges with duplicates collapsed, preserving
// first-seen order. Used by consumers that model the graph as simple.
func (g *Graph) Dedup() []Edge {
	seen := make(map[Edge]bool, len(g.Edges))
	out := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
