package graph

import (
	"testing"

	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

func fileSummary(path string, imports []string, classes ...string) *summary.FileSummary {
	s := summary.New(path)
	s.Imports = append(s.Imports, imports...)
	for _, c := range classes {
		s.Classes = append(s.Classes, summary.Class{Name: c})
	}
	return s
}

func hasEdge(g *Graph, from, to string) bool {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

func TestBuildBasicImports(t *testing.T) {
	g := Build([]*summary.FileSummary{
		fileSummary("main.py", []string{"utils", "config"}),
		fileSummary("utils.py", []string{"os"}),
		fileSummary("config.py", nil, "Config"),
	})

	if len(g.Nodes) != 3 {
		t.Fatalf("node count = %d, want 3", len(g.Nodes))
	}
	if !hasEdge(g, "main.py", "utils.py") {
		t.Error("missing edge main.py -> utils.py")
	}
	if !hasEdge(g, "main.py", "config.py") {
		t.Error("missing edge main.py -> config.py")
	}
	// "os" matches no file path, so utils has no outgoing edge.
	for _, e := range g.Edges {
		if e.From == "utils.py" {
			t.Errorf("unexpected edge from utils.py to %s", e.To)
		}
	}
}

func TestBuildClassSuffixMatch(t *testing.T) {
	g := Build([]*summary.FileSummary{
		fileSummary("app.py", []string{"models.User"}),
		fileSummary("models.py", nil, "User"),
	})

	if !hasEdge(g, "app.py", "models.py") {
		t.Error("qualified class import did not resolve to the declaring file")
	}
}

func TestBuildMutualImports(t *testing.T) {
	g := Build([]*summary.FileSummary{
		fileSummary("a.py", []string{"b"}),
		fileSummary("b.py", []string{"a"}),
	})

	if len(g.Edges) != 2 {
		t.Fatalf("edge count = %d, want 2", len(g.Edges))
	}
	if !hasEdge(g, "a.py", "b.py") || !hasEdge(g, "b.py", "a.py") {
		t.Error("mutual imports must keep both directed edges")
	}
}

func TestBuildNoSelfLoops(t *testing.T) {
	// The file's own path contains the import string.
	g := Build([]*summary.FileSummary{
		fileSummary("pkg/utils.py", []string{"utils"}),
	})

	for _, e := range g.Edges {
		if e.From == e.To {
			t.Errorf("self-loop produced: %v", e)
		}
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	g := Build(nil)

	if len(g.Nodes) != 0 {
		t.Errorf("node count = %d, want 0", len(g.Nodes))
	}
	if g.Nodes == nil || g.Edges == nil {
		t.Error("nodes and edges must serialize as empty lists, not null")
	}
}

func TestBuildKeepsDuplicateEdges(t *testing.T) {
	// Two distinct imports both resolving to utils.py.
	g := Build([]*summary.FileSummary{
		fileSummary("main.py", []string{"utils", "utils.helper"}),
		fileSummary("utils.py", nil),
	})

	count := 0
	for _, e := range g.Edges {
		if e.From == "main.py" && e.To == "utils.py" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("duplicate edge count = %d, want 2", count)
	}

	dedup := g.Dedup()
	if len(dedup) != 1 {
		t.Errorf("dedup edge count = %d, want 1", len(dedup))
	}
}

func TestBuildEveryFileBecomesNode(t *testing.T) {
	summaries := []*summary.FileSummary{
		fileSummary("a.py", nil),
		fileSummary("b.js", nil),
		fileSummary("c.html", nil),
	}
	g := Build(summaries)

	seen := map[string]int{}
	for _, n := range g.Nodes {
		seen[n]++
	}
	for _, s := range summaries {
		if seen[s.File] != 1 {
			t.Errorf("file %s appears %d times as node, want 1", s.File, seen[s.File])
		}
	}
}
