// Package report renders an HTML metrics report for one evaluation.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"sort"

	"github.com/Beo-Alvaro/contra-eris/internal/eval"
)

//go:embed report.html.tmpl
var templates embed.FS

const hotspotLimit = 15

// page is the template's view model.
type page struct {
	Metrics     *eval.Metrics
	Compression string
	Betweenness string
	Hotspots    []hotspot
	Communities [][]string
}

type hotspot struct {
	Node        string
	FanIn       int
	FanOut      int
	Instability float64
}

// Write renders the report for m to path.
func Write(path string, m *eval.Metrics) error {
	tmpl, err := template.ParseFS(templates, "report.html.tmpl")
	if err != nil {
		return fmt.Errorf("failed to parse report template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, buildPage(m)); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return f.Close()
}

func buildPage(m *eval.Metrics) page {
	p := page{
		Metrics:     m,
		Compression: "Infinity",
		Hotspots:    hotspots(m),
	}
	if !m.CompressionRatio.IsInf() {
		p.Compression = fmt.Sprintf("%.4f", float64(m.CompressionRatio))
	}
	if b := m.Graph.Betweenness; b != nil {
		if b.Failed() {
			p.Betweenness = b.Failure
		} else {
			p.Betweenness = fmt.Sprintf("computed for %d nodes", len(b.Values))
		}
	}
	if c := m.Graph.Communities; c != nil && !c.Failed() {
		p.Communities = c.Groups
	}
	return p
}

// hotspots lists the most depended-upon nodes, highest fan-in first.
func hotspots(m *eval.Metrics) []hotspot {
	out := make([]hotspot, 0, len(m.Dependency.FanIn))
	for node, in := range m.Dependency.FanIn {
		out = append(out, hotspot{
			Node:        node,
			FanIn:       in,
			FanOut:      m.Dependency.FanOut[node],
			Instability: m.Dependency.Instability[node],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FanIn != out[j].FanIn {
			return out[i].FanIn > out[j].FanIn
		}
		return out[i].Node < out[j].Node
	})
	if len(out) > hotspotLimit {
		out = out[:hotspotLimit]
	}
	return out
}
