package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Beo-Alvaro/contra-eris/internal/corpus"
	"github.com/Beo-Alvaro/contra-eris/internal/graph"
	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

func sampleDocument() *Document {
	a := summary.New("a.py")
	a.Imports = []string{"b"}
	b := summary.New("b.py")
	b.Classes = []summary.Class{{Name: "Helper", Line: 1}}

	c := corpus.Assemble([]*summary.FileSummary{a, b})
	return FromCorpus(c, graph.Build(c.Summaries))
}

func TestWriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbsf.json")

	size, err := Write(path, sampleDocument(), false)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if size <= 0 {
		t.Errorf("size = %d, want > 0", size)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Summaries) != 2 {
		t.Errorf("summaries = %d, want 2", len(got.Summaries))
	}
	if got.Meta.FileCount != 2 {
		t.Errorf("file count = %d, want 2", got.Meta.FileCount)
	}
	if got.Graph == nil || len(got.Graph.Nodes) != 2 {
		t.Error("graph section missing after round trip")
	}
}

func TestWriteReadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbsf.json.gz")

	if _, err := Write(path, sampleDocument(), true); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		t.Fatal("output is not gzip")
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Summaries) != 2 {
		t.Errorf("summaries = %d, want 2", len(got.Summaries))
	}
}

func TestTopLevelKeys(t *testing.T) {
	data, err := json.Marshal(sampleDocument())
	if err != nil {
		t.Fatal(err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"codebase_summary", "meta", "code_relationships", "graph"} {
		if _, ok := top[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
}

func TestResolveGraphFallback(t *testing.T) {
	doc := sampleDocument()
	withGraph := doc.ResolveGraph()

	// Strip the graph section, as an artifact from an older producer
	// would look.
	doc.Graph = nil
	rebuilt := doc.ResolveGraph()

	if len(rebuilt.Nodes) != len(withGraph.Nodes) {
		t.Errorf("rebuilt nodes = %d, want %d", len(rebuilt.Nodes), len(withGraph.Nodes))
	}
	if len(rebuilt.Edges) != len(withGraph.Edges) {
		t.Errorf("rebuilt edges = %d, want %d", len(rebuilt.Edges), len(withGraph.Edges))
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing artifact")
	}
}
