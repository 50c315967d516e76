// Package corpus assembles per-file summaries into the whole-tree corpus:
// the summary list, aggregate metadata, and the cross-file relationship
// tables. Key names in the serialized form are a compatibility contract and
// must not drift.
package corpus

import (
	"path/filepath"
	"strings"

	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

// Corpus is the assembled summary of one source tree.
type Corpus struct {
	Summaries     []*summary.FileSummary `json:"codebase_summary"`
	Meta          Meta                   `json:"meta"`
	Relationships Relationships          `json:"code_relationships"`
}

// Meta carries corpus-level aggregates.
type Meta struct {
	FileCount    int          `json:"file_count"`
	SummaryStats SummaryStats `json:"summary_stats"`
}

// SummaryStats aggregates entity counts corpus-wide and per file-extension
// bucket.
type SummaryStats struct {
	FunctionCount int                       `json:"function_count"`
	ClassCount    int                       `json:"class_count"`
	ImportCount   int                       `json:"import_count"`
	ByExtension   map[string]ExtensionStats `json:"by_extension"`
}

// ExtensionStats is one per-extension bucket: how many files carry the
// extension and how many entities those files declare in total.
type ExtensionStats struct {
	Count     int `json:"count"`
	Functions int `json:"functions"`
	Classes   int `json:"classes"`
	Imports   int `json:"imports"`
}

// Relationships holds the four cross-file relationship tables. All four
// lists are always present, empty rather than null.
type Relationships struct {
	FunctionCalls          []FunctionCall      `json:"function_calls"`
	Inheritance            []Inheritance       `json:"inheritance"`
	Imports                []ImportRelation    `json:"imports"`
	ComponentRelationships []ComponentRelation `json:"component_relationships"`
}

// FunctionCall is one inferred caller/callee pair, attributed to the file
// that declares the caller.
type FunctionCall struct {
	Caller     string `json:"caller"`
	Callee     string `json:"callee"`
	SourceFile string `json:"source_file"`
	Kind       string `json:"kind,omitempty"` // inference origin, when known
}

// Inheritance is one child/parent class pair.
type Inheritance struct {
	Child      string `json:"child"`
	Parent     string `json:"parent"`
	SourceFile string `json:"source_file"`
}

// ImportRelation is one file-level import.
type ImportRelation struct {
	Importer string `json:"importer"`
	Imported string `json:"imported"`
}

// ComponentRelation links a markup element to a function whose code
// references the element's id.
type ComponentRelation struct {
	ElementID    string `json:"element_id"`
	ElementFile  string `json:"element_file"`
	Function     string `json:"function"`
	FunctionFile string `json:"function_file"`
}

// Assemble builds the corpus from the processed summaries. Summary order is
// preserved; relationship rows appear in summary order, then declaration
// order within a file.
func Assemble(summaries []*summary.FileSummary) *Corpus {
	c := &Corpus{
		Summaries: summaries,
		Meta: Meta{
			FileCount:    len(summaries),
			SummaryStats: stats(summaries),
		},
		Relationships: Relationships{
			FunctionCalls:          []FunctionCall{},
			Inheritance:            []Inheritance{},
			Imports:                []ImportRelation{},
			ComponentRelationships: []ComponentRelation{},
		},
	}

	for _, s := range summaries {
		origins := callOrigins(s)
		for _, f := range s.Functions {
			for _, callee := range f.CalledFunctions {
				c.Relationships.FunctionCalls = append(c.Relationships.FunctionCalls, FunctionCall{
					Caller:     f.Name,
					Callee:     callee,
					SourceFile: s.File,
					Kind:       origins[f.Name+"\x00"+callee],
				})
			}
		}
		for _, cl := range s.Classes {
			for _, parent := range cl.InheritsFrom {
				c.Relationships.Inheritance = append(c.Relationships.Inheritance, Inheritance{
					Child:      cl.Name,
					Parent:     parent,
					SourceFile: s.File,
				})
			}
		}
		for _, imp := range s.Imports {
			c.Relationships.Imports = append(c.Relationships.Imports, ImportRelation{
				Importer: s.File,
				Imported: imp,
			})
		}
	}

	c.Relationships.ComponentRelationships = componentScan(summaries)
	return c
}

// stats totals function, class, and import counts, grouped by lowercased
// file extension. Files with no extension land in the "unknown" bucket.
func stats(summaries []*summary.FileSummary) SummaryStats {
	out := SummaryStats{ByExtension: map[string]ExtensionStats{}}
	for _, s := range summaries {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(s.File)), ".")
		if ext == "" {
			ext = "unknown"
		}

		out.FunctionCount += len(s.Functions)
		out.ClassCount += len(s.Classes)
		out.ImportCount += len(s.Imports)

		bucket := out.ByExtension[ext]
		bucket.Count++
		bucket.Functions += len(s.Functions)
		bucket.Classes += len(s.Classes)
		bucket.Imports += len(s.Imports)
		out.ByExtension[ext] = bucket
	}
	return out
}

// callOrigins indexes a summary's call sites by caller/callee pair.
func callOrigins(s *summary.FileSummary) map[string]string {
	out := map[string]string{}
	for _, cs := range s.CallSites {
		key := cs.Caller + "\x00" + cs.Callee
		if _, seen := out[key]; !seen {
			out[key] = cs.Origin
		}
	}
	return out
}

// componentScan cross-references markup element ids against function code
// corpus-wide. A relation is recorded whenever an element's id appears
// verbatim in a function's captured code, including the element's own file.
func componentScan(summaries []*summary.FileSummary) []ComponentRelation {
	relations := []ComponentRelation{}

	for _, markup := range summaries {
		for _, el := range markup.Elements {
			if el.ID == "" {
				continue
			}
			for _, other := range summaries {
				for _, f := range other.Functions {
					if f.Code == "" || !strings.Contains(f.Code, el.ID) {
						continue
					}
					relations = append(relations, ComponentRelation{
						ElementID:    el.ID,
						ElementFile:  markup.File,
						Function:     f.Name,
						FunctionFile: other.File,
					})
				}
			}
		}
	}
	return relations
}
