// Package artifact persists and loads the corpus document. The top-level
// key set (codebase_summary, meta, code_relationships, graph) is the
// compatibility contract with downstream evaluators; readers tolerate a
// missing graph key by rebuilding from the summaries.
package artifact

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/Beo-Alvaro/contra-eris/internal/corpus"
	"github.com/Beo-Alvaro/contra-eris/internal/eriserr"
	"github.com/Beo-Alvaro/contra-eris/internal/graph"
	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

// Document is the serialized corpus artifact.
type Document struct {
	Summaries     []*summary.FileSummary `json:"codebase_summary"`
	Meta          corpus.Meta            `json:"meta"`
	Relationships corpus.Relationships   `json:"code_relationships"`
	Graph         *graph.Graph           `json:"graph,omitempty"`
}

// FromCorpus bundles a corpus and its derived graph into one document.
func FromCorpus(c *corpus.Corpus, g *graph.Graph) *Document {
	return &Document{
		Summaries:     c.Summaries,
		Meta:          c.Meta,
		Relationships: c.Relationships,
		Graph:         g,
	}
}

// ResolveGraph returns the stored graph, or rebuilds one from the summaries
// when the document was written without a graph section. Both paths apply
// the same import-matching rule, so the result is equivalent either way.
func (d *Document) ResolveGraph() *graph.Graph {
	if d.Graph != nil {
		return d.Graph
	}
	return graph.Build(d.Summaries)
}

var gzipMagic = []byte{0x1f, 0x8b}

// Write serializes the document to path, returning the byte size written.
// Output is gzip-compressed when requested or when the path carries a .gz
// extension.
func Write(path string, d *Document, compress bool) (int64, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return 0, eriserr.Wrap(eriserr.InternalError, "artifact encoding failed", err).WithFile(path)
	}

	if compress || strings.HasSuffix(path, ".gz") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return 0, eriserr.Wrap(eriserr.InternalError, "artifact compression failed", err).WithFile(path)
		}
		if err := zw.Close(); err != nil {
			return 0, eriserr.Wrap(eriserr.InternalError, "artifact compression failed", err).WithFile(path)
		}
		data = buf.Bytes()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, eriserr.Wrap(eriserr.InternalError, "artifact write failed", err).WithFile(path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, eriserr.Wrap(eriserr.InternalError, "artifact write failed", err).WithFile(path)
	}
	return int64(len(data)), nil
}

// WriteGraph serializes just the graph section to its own file, alongside
// the full artifact.
func WriteGraph(path string, g *graph.Graph) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return eriserr.Wrap(eriserr.InternalError, "graph encoding failed", err).WithFile(path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eriserr.Wrap(eriserr.InternalError, "graph write failed", err).WithFile(path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eriserr.Wrap(eriserr.InternalError, "graph write failed", err).WithFile(path)
	}
	return nil
}

// Read loads a document from path, transparently decompressing gzip input
// regardless of extension.
func Read(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eriserr.Wrap(eriserr.ArtifactInvalid, "artifact read failed", err).WithFile(path)
	}

	if bytes.HasPrefix(raw, gzipMagic) {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, eriserr.Wrap(eriserr.ArtifactInvalid, "artifact decompression failed", err).WithFile(path)
		}
		raw, err = io.ReadAll(zr)
		if cerr := zr.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, eriserr.Wrap(eriserr.ArtifactInvalid, "artifact decompression failed", err).WithFile(path)
		}
	}

	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, eriserr.Wrap(eriserr.ArtifactInvalid, "artifact decoding failed", err).WithFile(path)
	}
	return &d, nil
}

// Size returns the on-disk byte size of an artifact.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, eriserr.Wrap(eriserr.ArtifactInvalid, "artifact stat failed", err).WithFile(path)
	}
	return info.Size(), nil
}
